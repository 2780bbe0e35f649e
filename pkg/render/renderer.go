package render

import (
	"context"

	"github.com/goliatone/go-personform/pkg/personform"
)

// Renderer turns a form snapshot into a response body (HTML, JSON).
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, snap personform.Snapshot, options RenderOptions) ([]byte, error)
}
