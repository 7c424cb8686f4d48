package devops

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"go.uber.org/zap"

	applog "github.com/janisto/devops-learning/internal/platform/logging"
)

const (
	// StartPath is the route of the start operation.
	StartPath = "/devops/Start"
	// StartMessage is returned verbatim by the start operation.
	StartMessage = "Devops project running"

	startOperationID = "start-devops"
	contentTypeText  = "text/plain; charset=utf-8"
)

// Options tunes the devops handlers.
type Options struct {
	// TraceFlow logs a "flow entered" line each time the start operation runs.
	TraceFlow bool
}

// Register wires the devops routes into the provided API router.
func Register(api huma.API, opts Options) {
	h := handler{traceFlow: opts.TraceFlow}

	huma.Register(api, huma.Operation{
		OperationID: startOperationID,
		Method:      http.MethodGet,
		Path:        StartPath,
		Summary:     "Report that the project is running",
		Description: "Returns a constant plain-text message. The call has no side effects and is safe to repeat.",
		Tags:        []string{"Devops"},
		Responses: map[string]*huma.Response{
			"200": {
				Description: "Project is running",
				Content: map[string]*huma.MediaType{
					"text/plain": {
						Schema: &huma.Schema{
							Type:     huma.TypeString,
							Examples: []any{StartMessage},
						},
					},
				},
			},
		},
	}, h.start)
}

type handler struct {
	traceFlow bool
}

func (h handler) start(ctx context.Context, _ *struct{}) (*StartOutput, error) {
	if h.traceFlow {
		applog.LogInfo(ctx, "flow entered", zap.String("operation", startOperationID), zap.String("path", StartPath))
	}
	return &StartOutput{ContentType: contentTypeText, Body: []byte(StartMessage)}, nil
}
