package orchestrator

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/goliatone/go-personform/components/countries"
	"github.com/goliatone/go-personform/pkg/personform"
	"github.com/goliatone/go-personform/pkg/render"
	"github.com/goliatone/go-personform/pkg/renderers/vanilla"
)

const defaultRendererName = "vanilla"

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithFetcher injects the source of the country list. Defaults to a lookup
// over the embedded list.
func WithFetcher(fetcher countries.Fetcher) Option {
	return func(o *Orchestrator) {
		o.fetcher = fetcher
	}
}

// WithRegistry injects a renderer registry.
func WithRegistry(registry *render.Registry) Option {
	return func(o *Orchestrator) {
		o.registry = registry
	}
}

// WithDefaultRenderer overrides the renderer used when a request names none
// and carries no Accept header.
func WithDefaultRenderer(name string) Option {
	return func(o *Orchestrator) {
		o.defaultRenderer = name
	}
}

// WithFormOptions are applied to every form NewForm creates.
func WithFormOptions(options ...personform.Option) Option {
	return func(o *Orchestrator) {
		o.formOptions = append(o.formOptions, options...)
	}
}

// WithLogger sets the logger handed to new forms.
func WithLogger(logger *zap.Logger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// Orchestrator creates forms and renders their snapshots. It applies defaults
// (embedded country list, vanilla and JSON renderers) while remaining open to
// dependency injection.
type Orchestrator struct {
	fetcher         countries.Fetcher
	registry        *render.Registry
	defaultRenderer string
	formOptions     []personform.Option
	logger          *zap.Logger
	initialiseErr   error
}

// New constructs an Orchestrator applying any provided options.
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{
		defaultRenderer: defaultRendererName,
		logger:          zap.NewNop(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	o.applyDefaults()
	return o
}

// NewForm builds a form and issues its single country request. A failed
// request leaves the form in its load error sub-state; only a canceled
// context is returned as an error.
func (o *Orchestrator) NewForm(ctx context.Context) (*personform.Form, error) {
	if ctx == nil {
		return nil, errors.New("orchestrator: context is required")
	}
	if err := o.initialiseErr; err != nil {
		return nil, err
	}

	options := append([]personform.Option{personform.WithLogger(o.logger)}, o.formOptions...)
	form := personform.New(options...)
	if err := form.Load(ctx, o.fetcher); err != nil {
		return nil, fmt.Errorf("orchestrator: load countries: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return form, nil
}

// Request describes one render.
type Request struct {
	// Snapshot is the form state to render.
	Snapshot personform.Snapshot

	// Renderer names the renderer to use. When empty, Accept is negotiated
	// against the registry, then the default renderer is used.
	Renderer string

	// Accept is the client's Accept header.
	Accept string

	RenderOptions render.RenderOptions
}

// Response is the rendered body with its content type.
type Response struct {
	Body        []byte
	ContentType string
}

// Render selects a renderer for req and renders the snapshot.
func (o *Orchestrator) Render(ctx context.Context, req Request) (Response, error) {
	if ctx == nil {
		return Response{}, errors.New("orchestrator: context is required")
	}
	if err := ctx.Err(); err != nil {
		return Response{}, err
	}
	if err := o.initialiseErr; err != nil {
		return Response{}, err
	}

	renderer, err := o.rendererFor(req.Renderer, req.Accept)
	if err != nil {
		return Response{}, err
	}

	output, err := renderer.Render(ctx, req.Snapshot, req.RenderOptions)
	if err != nil {
		return Response{}, fmt.Errorf("orchestrator: render output: %w", err)
	}
	return Response{Body: output, ContentType: renderer.ContentType()}, nil
}

// Registry exposes the renderer registry.
func (o *Orchestrator) Registry() *render.Registry {
	return o.registry
}

func (o *Orchestrator) rendererFor(name, accept string) (render.Renderer, error) {
	if o.registry == nil {
		return nil, errors.New("orchestrator: renderer registry is nil")
	}

	if name != "" {
		renderer, err := o.registry.Get(name)
		if err != nil {
			return nil, fmt.Errorf("orchestrator: renderer %q: %w", name, err)
		}
		return renderer, nil
	}

	if accept != "" {
		renderer, err := o.registry.Negotiate(accept)
		if err != nil {
			return nil, fmt.Errorf("orchestrator: negotiate renderer: %w", err)
		}
		return renderer, nil
	}

	if renderer, err := o.registry.Get(o.defaultRenderer); err == nil {
		return renderer, nil
	}

	names := o.registry.List()
	if len(names) == 0 {
		return nil, errors.New("orchestrator: no renderers registered")
	}
	return o.registry.Get(names[0])
}

func (o *Orchestrator) applyDefaults() {
	if o.fetcher == nil {
		o.fetcher = countries.New(countries.WithLogger(o.logger))
	}
	if o.registry == nil {
		o.registry = render.NewRegistry()
		renderer, err := vanilla.New()
		if err != nil {
			o.initialiseErr = fmt.Errorf("orchestrator: default renderer: %w", err)
		} else {
			o.registry.MustRegister(renderer)
		}
		o.registry.MustRegister(render.JSONRenderer{})
	}
	if o.defaultRenderer == "" {
		o.defaultRenderer = defaultRendererName
	}
}
