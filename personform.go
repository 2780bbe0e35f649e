package personform

import (
	"context"

	"github.com/goliatone/go-personform/pkg/orchestrator"
	form "github.com/goliatone/go-personform/pkg/personform"
	"github.com/goliatone/go-personform/pkg/render"
)

// RenderOptions aliases render.RenderOptions for callers that only import the
// root package.
type RenderOptions = render.RenderOptions

// NewOrchestrator exposes the orchestrator constructor from the top-level
// module.
func NewOrchestrator(options ...orchestrator.Option) *orchestrator.Orchestrator {
	return orchestrator.New(options...)
}

// NewForm builds a form over the embedded country list and loads it.
func NewForm(ctx context.Context, options ...form.Option) (*form.Form, error) {
	return orchestrator.New(orchestrator.WithFormOptions(options...)).NewForm(ctx)
}

// RenderHTML renders the current state of f as a full HTML page. It is the
// simplest entry point for callers that just want markup.
func RenderHTML(ctx context.Context, f *form.Form, options RenderOptions) ([]byte, error) {
	resp, err := orchestrator.New().Render(ctx, orchestrator.Request{
		Snapshot:      f.Snapshot(),
		RenderOptions: options,
	})
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}
