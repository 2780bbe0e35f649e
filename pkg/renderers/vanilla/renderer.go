package vanilla

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/goliatone/go-personform/pkg/personform"
	"github.com/goliatone/go-personform/pkg/render"
	rendertemplate "github.com/goliatone/go-personform/pkg/render/template"
	gotemplate "github.com/goliatone/go-personform/pkg/render/template/gotemplate"
)

// DefaultTitle heads the page unless WithTitle overrides it.
const DefaultTitle = "Persönliche Daten"

type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	title            string
	scriptURL        string
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithTitle sets the page heading.
func WithTitle(title string) Option {
	return func(cfg *config) {
		if trimmed := strings.TrimSpace(title); trimmed != "" {
			cfg.title = trimmed
		}
	}
}

// WithScriptURL references the browser helper script from the page head.
func WithScriptURL(url string) Option {
	return func(cfg *config) {
		cfg.scriptURL = strings.TrimSpace(url)
	}
}

// Renderer draws the form page, or the captured record after a successful
// submission, as server-side HTML.
type Renderer struct {
	templates rendertemplate.TemplateRenderer
	title     string
	scriptURL string
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the vanilla renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{templateFS: TemplatesFS(), title: DefaultTitle}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		engine, err := gotemplate.New(
			gotemplate.WithFS(cfg.templateFS),
			gotemplate.WithExtension(".tpl"),
		)
		if err != nil {
			return nil, fmt.Errorf("vanilla renderer: configure template renderer: %w", err)
		}
		renderer = engine
	}

	return &Renderer{
		templates: renderer,
		title:     cfg.title,
		scriptURL: cfg.scriptURL,
	}, nil
}

func (r *Renderer) Name() string {
	return "vanilla"
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

func (r *Renderer) Render(ctx context.Context, snap personform.Snapshot, options render.RenderOptions) ([]byte, error) {
	if r.templates == nil {
		return nil, fmt.Errorf("vanilla renderer: template renderer is nil")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	action := options.Action
	if action == "" {
		action = "/"
	}
	resetAction := options.ResetAction
	if resetAction == "" {
		resetAction = "/reset"
	}

	result, err := r.templates.RenderTemplate(FormTemplate, map[string]any{
		"form":         snap,
		"title":        r.title,
		"script":       r.scriptURL,
		"action":       action,
		"reset_action": resetAction,
		"hidden":       render.SortedHiddenFields(options.Hidden),
		"notices":      options.Notices,
		"result":       resultRows(snap),
	})
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: render template: %w", err)
	}
	return []byte(result), nil
}
