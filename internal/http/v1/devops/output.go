package devops

// StartOutput is a raw text response: huma writes []byte bodies verbatim.
type StartOutput struct {
	ContentType string `header:"Content-Type"`
	Body        []byte
}
