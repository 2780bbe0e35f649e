package tui

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/goliatone/go-personform/pkg/personform"
	"github.com/goliatone/go-personform/pkg/render"
)

const (
	promptPlaceholder    = "Bitte wählen"
	promptDateHint       = "JJJJ-MM-TT"
	promptConfirm        = "Daten absenden?"
	countriesUnavailable = "Länderliste nicht verfügbar, bitte Ländercode eingeben"
)

// Renderer runs terminal prompt sessions against a form and serializes the
// submitted record.
type Renderer struct {
	driver            PromptDriver
	outputFormat      OutputFormat
	submitTransformer SubmitTransformer
	theme             Theme
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs a TUI renderer with defaults (survey driver, JSON output).
func New(options ...Option) (*Renderer, error) {
	driver, err := newSurveyDriver()
	if err != nil {
		return nil, err
	}

	r := &Renderer{
		driver:       driver,
		outputFormat: OutputFormatJSON,
	}

	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	return r, nil
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return "tui"
}

// ContentType reports the serialization format used by Render.
func (r *Renderer) ContentType() string {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		return "application/x-www-form-urlencoded"
	case OutputFormatPrettyText:
		return "text/plain; charset=utf-8"
	default:
		return "application/json"
	}
}

// Run prompts for every field until the form submits, then renders the
// record. Declining the final confirmation resets the form and starts over.
func (r *Renderer) Run(ctx context.Context, form *personform.Form) ([]byte, error) {
	if err := r.Fill(ctx, form); err != nil {
		return nil, err
	}
	return r.Render(ctx, form.Snapshot(), render.RenderOptions{})
}

// Fill drives the prompt session. Each answer is written to the form and
// checked with the form's own rules; failing answers are reported with the
// form's message and asked again.
func (r *Renderer) Fill(ctx context.Context, form *personform.Form) error {
	if ctx == nil {
		return errors.New("tui: context is required")
	}
	if form == nil {
		return errors.New("tui: form is nil")
	}
	if r.driver == nil {
		return errors.New("tui: prompt driver is nil")
	}

	if form.LoadError() {
		if err := r.info(ctx, r.theme.ErrorPrefix, countriesUnavailable); err != nil {
			return err
		}
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		for _, field := range personform.Fields() {
			if err := r.promptField(ctx, form, field); err != nil {
				return err
			}
		}

		confirmed, err := r.driver.Confirm(ctx, ConfirmConfig{
			Message: promptConfirm,
			Default: true,
		})
		if err != nil {
			return err
		}
		if !confirmed {
			form.Reset()
			continue
		}

		if _, ok := form.Submit(); ok {
			return nil
		}
		// rules depend on the current date, which may have moved on
		for _, field := range personform.Fields() {
			if msg := form.ErrorMessage(field); msg != "" && form.IsFieldInvalid(field) {
				if err := r.info(ctx, r.theme.ErrorPrefix, field.Label()+": "+msg); err != nil {
					return err
				}
			}
		}
	}
}

func (r *Renderer) promptField(ctx context.Context, form *personform.Form, field personform.Field) error {
	for {
		value, err := r.ask(ctx, form, field)
		if err != nil {
			return err
		}
		if err := form.SetValue(field, value); err != nil {
			return err
		}
		if err := form.Touch(field); err != nil {
			return err
		}
		if !form.IsFieldInvalid(field) {
			return nil
		}
		if err := r.info(ctx, r.theme.ErrorPrefix, failureText(form, field)); err != nil {
			return err
		}
	}
}

func (r *Renderer) ask(ctx context.Context, form *personform.Form, field personform.Field) (string, error) {
	help := form.TooltipText(field)
	current := form.Value(field)

	switch field {
	case personform.FieldSalutation:
		return r.selectValue(ctx, field.Label(), help, form.Salutations(), form.Salutations(), current)
	case personform.FieldCountry:
		list := form.Countries()
		if len(list) == 0 {
			break
		}
		labels := make([]string, 0, len(list))
		codes := make([]string, 0, len(list))
		for _, country := range list {
			labels = append(labels, fmt.Sprintf("%s (%s)", country.Name, country.Code))
			codes = append(codes, country.Code)
		}
		return r.selectValue(ctx, field.Label(), help, labels, codes, current)
	}

	message := field.Label()
	if field == personform.FieldBirthDate {
		message = fmt.Sprintf("%s (%s)", message, promptDateHint)
	}
	today := form.Today()
	return r.driver.Input(ctx, InputConfig{
		Message: message,
		Default: current,
		Help:    help,
		Validator: func(value string) error {
			if tag := personform.Check(field, value, today); tag != personform.TagNone {
				return errors.New(tagText(field, tag))
			}
			return nil
		},
	})
}

func (r *Renderer) selectValue(ctx context.Context, message, help string, labels, values []string, current string) (string, error) {
	for {
		idx, err := r.driver.Select(ctx, SelectConfig{
			Message:      message,
			Options:      labels,
			DefaultIndex: indexOf(values, current),
			Help:         help,
			PageSize:     12,
		})
		if err != nil {
			return "", err
		}
		if idx >= 0 && idx < len(values) {
			return values[idx], nil
		}
		if err := r.info(ctx, r.theme.ErrorPrefix, promptPlaceholder); err != nil {
			return "", err
		}
	}
}

func (r *Renderer) info(ctx context.Context, prefix, msg string) error {
	return r.driver.Info(ctx, prefix+msg)
}

// Render serializes the submitted record held by snap in the configured
// output format.
func (r *Renderer) Render(ctx context.Context, snap personform.Snapshot, _ render.RenderOptions) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("tui: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(snap.Record) == 0 {
		return nil, ErrNoRecord
	}

	values := make(map[string]string, len(snap.Record))
	for key, value := range snap.Record {
		values[key] = value
	}
	if r.submitTransformer != nil {
		var err error
		values, err = r.submitTransformer(values)
		if err != nil {
			return nil, fmt.Errorf("tui: submit transformer: %w", err)
		}
	}

	return r.serialize(values, snap.CountryName)
}

func (r *Renderer) serialize(values map[string]string, countryName string) ([]byte, error) {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		return []byte(flattenForm(values)), nil
	case OutputFormatPrettyText:
		return []byte(prettyPrint(values, countryName)), nil
	default:
		return json.Marshal(values)
	}
}

func failureText(form *personform.Form, field personform.Field) string {
	return field.Label() + ": " + tagText(field, form.FailureTag(field))
}

// tagText is the form's message for tag, or the tag name when the form has
// no message for it.
func tagText(field personform.Field, tag personform.Tag) string {
	if msg := personform.Message(field, tag); msg != "" {
		return msg
	}
	return string(tag)
}

func flattenForm(values map[string]string) string {
	flattened := url.Values{}
	for key, value := range values {
		flattened.Set(key, value)
	}
	return flattened.Encode()
}

// prettyPrint lists the record in field order with German labels. Keys added
// by a transformer follow in lexical order.
func prettyPrint(values map[string]string, countryName string) string {
	var b strings.Builder
	seen := make(map[string]struct{}, len(values))
	for _, field := range personform.Fields() {
		key := string(field)
		value, ok := values[key]
		if !ok {
			continue
		}
		seen[key] = struct{}{}
		if field == personform.FieldCountry && countryName != "" && countryName != value {
			value = fmt.Sprintf("%s (%s)", countryName, value)
		}
		fmt.Fprintf(&b, "%s: %s\n", field.Label(), value)
	}

	var extra []string
	for key := range values {
		if _, ok := seen[key]; !ok {
			extra = append(extra, key)
		}
	}
	sort.Strings(extra)
	for _, key := range extra {
		fmt.Fprintf(&b, "%s: %s\n", key, values[key])
	}
	return b.String()
}
