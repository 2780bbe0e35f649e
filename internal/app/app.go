// Package app builds the shared components of the commands from a Config.
package app

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/text/language"

	"github.com/goliatone/go-personform/components/countries"
	"github.com/goliatone/go-personform/internal/config"
	"github.com/goliatone/go-personform/pkg/orchestrator"
	"github.com/goliatone/go-personform/pkg/personform"
	"github.com/goliatone/go-personform/pkg/render"
)

// Components are the pieces both hosts share.
type Components struct {
	Lookup       *countries.Lookup
	Orchestrator *orchestrator.Orchestrator
}

// Options tweak Build for a particular host.
type Options struct {
	// Renderers replace the orchestrator's default registry when non-empty.
	Renderers []render.Renderer
	// Clock overrides the form clock; nil means time.Now.
	Clock func() time.Time
}

// Build wires the lookup and orchestrator described by cfg.
func Build(cfg *config.Config, logger *zap.Logger, opts Options) (*Components, error) {
	if cfg == nil {
		return nil, fmt.Errorf("app: config is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	tag, err := language.Parse(cfg.Locale)
	if err != nil {
		return nil, fmt.Errorf("app: locale %q: %w", cfg.Locale, err)
	}

	lookup := countries.New(
		countries.WithSource(countries.ParseSource(cfg.Countries.Source)),
		countries.WithTimeout(cfg.Countries.Timeout),
		countries.WithLanguage(tag),
		countries.WithLogger(logger.Named("countries")),
	)

	formOptions := []personform.Option{personform.WithHelpTexts(cfg.HelpTexts)}
	if opts.Clock != nil {
		formOptions = append(formOptions, personform.WithClock(opts.Clock))
	}

	orchOptions := []orchestrator.Option{
		orchestrator.WithFetcher(lookup),
		orchestrator.WithLogger(logger.Named("form")),
		orchestrator.WithFormOptions(formOptions...),
	}
	if len(opts.Renderers) > 0 {
		registry := render.NewRegistry()
		for _, renderer := range opts.Renderers {
			if err := registry.Register(renderer); err != nil {
				return nil, fmt.Errorf("app: %w", err)
			}
		}
		orchOptions = append(orchOptions,
			orchestrator.WithRegistry(registry),
			orchestrator.WithDefaultRenderer(opts.Renderers[0].Name()),
		)
	}

	return &Components{
		Lookup:       lookup,
		Orchestrator: orchestrator.New(orchOptions...),
	}, nil
}
