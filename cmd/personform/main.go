// Command personform serves the person form over HTTP.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	personform "github.com/goliatone/go-personform"
	"github.com/goliatone/go-personform/internal/app"
	"github.com/goliatone/go-personform/internal/config"
	"github.com/goliatone/go-personform/internal/logger"
	"github.com/goliatone/go-personform/pkg/render"
	"github.com/goliatone/go-personform/pkg/renderers/vanilla"
	"github.com/goliatone/go-personform/pkg/webform"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := Run(ctx, os.Args[1:], nil); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Run is the testable entrypoint. It serves until ctx is done, then shuts
// down gracefully. onListen, when set, receives the bound address.
func Run(ctx context.Context, args []string, onListen func(net.Addr)) error {
	flags := flag.NewFlagSet("personform", flag.ContinueOnError)
	configPath := flags.String("config", "", "path to a YAML config file")
	if err := flags.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	log := logger.New(cfg.Env)
	defer func() { _ = log.Sync() }()

	page, err := vanilla.New(vanilla.WithScriptURL("/assets/" + vanilla.ScriptName))
	if err != nil {
		return err
	}
	components, err := app.Build(cfg, log, app.Options{
		Renderers: []render.Renderer{page, render.JSONRenderer{}},
	})
	if err != nil {
		return err
	}

	handler, err := webform.New(
		webform.WithOrchestrator(components.Orchestrator),
		webform.WithLookup(components.Lookup),
		webform.WithAssets(personform.EmbeddedAssets()),
		webform.WithLogger(log.Named("http")),
		webform.WithSecureCookie(cfg.Env == "production"),
	)
	if err != nil {
		return err
	}

	ln, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", cfg.Addr, err)
	}
	if onListen != nil {
		onListen(ln.Addr())
	}

	srv := &http.Server{
		Handler:      handler,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("listening", zap.String("addr", ln.Addr().String()), zap.String("env", cfg.Env))
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down server")
	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctxShutdown); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
