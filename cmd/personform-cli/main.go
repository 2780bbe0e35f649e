// Command personform-cli fills in the person form from the terminal and
// prints the captured record.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/goliatone/go-personform/internal/app"
	"github.com/goliatone/go-personform/internal/config"
	"github.com/goliatone/go-personform/internal/logger"
	"github.com/goliatone/go-personform/pkg/renderers/tui"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := run(ctx, os.Args[1:], os.Stdout)
	switch {
	case err == nil:
	case errors.Is(err, tui.ErrAborted):
		os.Exit(130)
	default:
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout io.Writer, extra ...tui.Option) error {
	flags := flag.NewFlagSet("personform-cli", flag.ContinueOnError)
	configPath := flags.String("config", "", "path to a YAML config file")
	format := flags.String("format", string(tui.OutputFormatPrettyText), "output format: json, form or pretty")
	output := flags.String("output", "", "output file (stdout if empty)")
	verbose := flags.Bool("verbose", false, "write debug logs to stderr")
	if err := flags.Parse(args); err != nil {
		return err
	}

	outputFormat, ok := tui.ParseOutputFormat(*format)
	if !ok {
		return fmt.Errorf("unknown format %q", *format)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	log := logger.NewTerminal(cfg.Env, *verbose)
	defer func() { _ = log.Sync() }()

	components, err := app.Build(cfg, log, app.Options{})
	if err != nil {
		return err
	}

	form, err := components.Orchestrator.NewForm(ctx)
	if err != nil {
		return err
	}

	options := append([]tui.Option{tui.WithOutputFormat(outputFormat), tui.WithTheme(tui.Theme{ErrorPrefix: "✗ "})}, extra...)
	session, err := tui.New(options...)
	if err != nil {
		return err
	}

	out, err := session.Run(ctx, form)
	if err != nil {
		return err
	}

	if *output != "" {
		if err := os.WriteFile(*output, out, 0o644); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		fmt.Fprintf(stdout, "Daten gespeichert in %s\n", *output)
		return nil
	}
	_, err = fmt.Fprintln(stdout, string(out))
	return err
}
