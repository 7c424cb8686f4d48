// Package apidoc holds the static API description handed to huma when the
// server starts. huma turns it into the OpenAPI document and the docs UI.
package apidoc

import (
	"github.com/danielgtaylor/huma/v2"
	_ "github.com/danielgtaylor/huma/v2/formats/cbor" // registers application/cbor
)

const (
	// Title is the API title published in the OpenAPI info block.
	Title = "Devops-Learning"
	// Version is the API contract version, independent of the build version.
	Version = "v1"
)

// Descriptor names and versions the service for documentation purposes.
// It is a value type: copies cannot alter the process-wide instance.
type Descriptor struct {
	Title   string
	Version string
}

// Default returns the descriptor the service is published under.
func Default() Descriptor {
	return Descriptor{Title: Title, Version: Version}
}

// Config builds the huma configuration for the descriptor. The OpenAPI
// components section holds only the schema registry; no security schemes are
// declared. The interactive docs are served at docsPath.
func (d Descriptor) Config(docsPath string) huma.Config {
	cfg := huma.DefaultConfig(d.Title, d.Version)
	cfg.DocsPath = docsPath
	cfg.OpenAPI.OnAddOperation = append(cfg.OpenAPI.OnAddOperation, mirrorCBOR)
	return cfg
}

// mirrorCBOR documents application/cbor next to every application/json body,
// since huma negotiates both formats.
func mirrorCBOR(_ *huma.OpenAPI, op *huma.Operation) {
	if op.RequestBody != nil && op.RequestBody.Content != nil {
		if mt, ok := op.RequestBody.Content["application/json"]; ok {
			op.RequestBody.Content["application/cbor"] = mt
		}
	}
	for _, resp := range op.Responses {
		if resp == nil || resp.Content == nil {
			continue
		}
		if mt, ok := resp.Content["application/json"]; ok {
			resp.Content["application/cbor"] = mt
		}
	}
}
