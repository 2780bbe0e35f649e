package personform

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/goliatone/go-personform/components/countries"
)

var (
	// ErrUnknownField is returned by mutations addressed to a field the form
	// does not have.
	ErrUnknownField = errors.New("personform: unknown field")
	// ErrLoadIssued is returned when the country load is requested twice.
	ErrLoadIssued = errors.New("personform: country load already issued")
)

// State is the observable lifecycle state of the form.
type State int

const (
	StateLoading State = iota
	StateReady
	StateSubmitted
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateSubmitted:
		return "submitted"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Option configures a Form.
type Option func(*Form)

// WithClock injects the source of the current date used by the birth date
// rule.
func WithClock(clock func() time.Time) Option {
	return func(f *Form) {
		if clock != nil {
			f.clock = clock
		}
	}
}

// WithHelpTexts overrides tooltip texts. Unknown field names are ignored and
// texts are sanitized.
func WithHelpTexts(texts map[string]string) Option {
	return func(f *Form) {
		for name, text := range texts {
			field, ok := ParseField(name)
			if !ok {
				continue
			}
			f.help[field] = SanitizeHelpText(text)
		}
	}
}

// WithLogger sets the logger used for load failures and submissions.
func WithLogger(logger *zap.Logger) Option {
	return func(f *Form) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// Form is the state of one person form.
type Form struct {
	clock  func() time.Time
	help   map[Field]string
	logger *zap.Logger

	state       State
	loadIssued  bool
	loaded      bool
	loadErr     error
	countryList []countries.Country

	values    map[Field]string
	touched   map[Field]bool
	tooltips  map[Field]bool
	submitted bool
	record    *PersonRecord
	success   bool
}

// New builds an empty form waiting for its country list.
func New(options ...Option) *Form {
	f := &Form{
		clock:  time.Now,
		help:   DefaultHelpTexts(),
		logger: zap.NewNop(),
		state:  StateLoading,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(f)
	}
	f.clear()
	return f
}

func (f *Form) clear() {
	f.values = make(map[Field]string, len(fieldOrder))
	f.touched = make(map[Field]bool, len(fieldOrder))
	f.tooltips = make(map[Field]bool, len(fieldOrder))
	f.submitted = false
	f.record = nil
	f.success = false
}

// BeginLoad marks the single country request as issued.
func (f *Form) BeginLoad() error {
	if f.loadIssued {
		return ErrLoadIssued
	}
	f.loadIssued = true
	f.state = StateLoading
	return nil
}

// CompleteLoad delivers the outcome of the country request. A non-nil err
// leaves the list empty and sets the load error sub-state.
func (f *Form) CompleteLoad(list []countries.Country, err error) {
	if err != nil {
		f.loadErr = err
		f.countryList = nil
		f.logger.Error("error loading countries", zap.Error(err))
	} else {
		f.loadErr = nil
		f.countryList = append([]countries.Country(nil), list...)
	}
	f.loaded = true
	if f.state == StateLoading {
		f.state = StateReady
	}
}

// Load issues the country request through fetcher and applies the result.
// The returned error only reports misuse; fetch failures become LoadError().
func (f *Form) Load(ctx context.Context, fetcher countries.Fetcher) error {
	if fetcher == nil {
		return errors.New("personform: fetcher is nil")
	}
	if err := f.BeginLoad(); err != nil {
		return err
	}
	list, err := fetcher.Fetch(ctx)
	f.CompleteLoad(list, err)
	return nil
}

func (f *Form) State() State { return f.state }

// Loading reports whether the country list is still outstanding. It stays true
// after a submit that completed before the list arrived.
func (f *Form) Loading() bool { return !f.loaded }

// LoadError reports whether the country list is unavailable.
func (f *Form) LoadError() bool { return f.loadErr != nil }

// LoadErr returns the error the country request failed with, if any.
func (f *Form) LoadErr() error { return f.loadErr }

// Countries returns a copy of the loaded country list.
func (f *Form) Countries() []countries.Country {
	return append([]countries.Country(nil), f.countryList...)
}

// CountryName returns the display name of code, or code itself if unknown.
func (f *Form) CountryName(code string) string {
	return countries.NameFor(f.countryList, code)
}

// Salutations returns the salutation options.
func (f *Form) Salutations() []string { return Salutations() }

// Today is the calendar date rules are evaluated against.
func (f *Form) Today() time.Time {
	return DateOf(f.clock())
}

// SetValue replaces the current value of field.
func (f *Form) SetValue(field Field, value string) error {
	if !field.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	f.values[field] = value
	return nil
}

// Value returns the current value of field.
func (f *Form) Value(field Field) string {
	return f.values[field]
}

// Values returns a copy of all current values keyed by field.
func (f *Form) Values() map[Field]string {
	out := make(map[Field]string, len(fieldOrder))
	for _, field := range fieldOrder {
		out[field] = f.values[field]
	}
	return out
}

// Touch marks field as having received and lost focus.
func (f *Form) Touch(field Field) error {
	if !field.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	f.touched[field] = true
	return nil
}

func (f *Form) Touched(field Field) bool { return f.touched[field] }

// Submitted reports whether a submission has been attempted.
func (f *Form) Submitted() bool { return f.submitted }

func (f *Form) failure(field Field) Tag {
	return Check(field, f.values[field], f.Today())
}

func (f *Form) passes(field Field) bool {
	return field.Valid() && f.failure(field) == TagNone
}

// IsFieldInvalid is true when field fails its rule and the error may be shown.
func (f *Form) IsFieldInvalid(field Field) bool {
	if !field.Valid() {
		return false
	}
	return errorVisible(!f.passes(field), f.touched[field], f.submitted)
}

// IsFieldValid is true when field passes its rule and has been touched.
func (f *Form) IsFieldValid(field Field) bool {
	return f.passes(field) && f.touched[field]
}

func errorVisible(fails, touched, submitted bool) bool {
	return fails && (touched || submitted)
}

// ErrorMessage returns the message for the active failure of field, or the
// empty string.
func (f *Form) ErrorMessage(field Field) string {
	if !field.Valid() {
		return ""
	}
	return Message(field, f.failure(field))
}

// FailureTag returns the active failure tag of field.
func (f *Form) FailureTag(field Field) Tag {
	if !field.Valid() {
		return TagNone
	}
	return f.failure(field)
}

// IsFormValid is true when every field passes its rule.
func (f *Form) IsFormValid() bool {
	today := f.Today()
	for _, field := range fieldOrder {
		if Check(field, f.values[field], today) != TagNone {
			return false
		}
	}
	return true
}

// Submit attempts a submission. On success the captured record is returned
// and the form moves to StateSubmitted; otherwise every field is touched.
// A valid submit is accepted in StateLoading as well and moves straight to
// StateSubmitted, since no field depends on the country list being present.
func (f *Form) Submit() (PersonRecord, bool) {
	f.submitted = true

	if !f.IsFormValid() {
		for _, field := range fieldOrder {
			f.touched[field] = true
		}
		return PersonRecord{}, false
	}

	record, err := recordFromValues(f.values)
	if err != nil {
		// unreachable while the birth date rule rejects unparsable dates
		for _, field := range fieldOrder {
			f.touched[field] = true
		}
		return PersonRecord{}, false
	}

	f.record = &record
	f.state = StateSubmitted
	f.success = true
	f.logger.Info("form submitted", zap.Any("record", record.Map()))
	return record, true
}

// Record returns the captured record of the last successful submission.
func (f *Form) Record() (PersonRecord, bool) {
	if f.record == nil {
		return PersonRecord{}, false
	}
	return *f.record, true
}

// Success reports the transient success signal raised by Submit.
func (f *Form) Success() bool { return f.success }

// DismissSuccess clears the success signal once the host has shown it.
func (f *Form) DismissSuccess() { f.success = false }

// Reset empties the form. The country list and load outcome are kept. A form
// whose list is still outstanding returns to StateLoading.
func (f *Form) Reset() {
	f.clear()
	if f.state != StateSubmitted {
		return
	}
	if f.loaded {
		f.state = StateReady
	} else {
		f.state = StateLoading
	}
}

// ShowTooltip marks the help tooltip of field visible.
func (f *Form) ShowTooltip(field Field) error {
	if !field.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	f.tooltips[field] = true
	return nil
}

// HideTooltip marks the help tooltip of field hidden.
func (f *Form) HideTooltip(field Field) error {
	if !field.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	f.tooltips[field] = false
	return nil
}

func (f *Form) IsTooltipVisible(field Field) bool { return f.tooltips[field] }

// TooltipText returns the help text of field.
func (f *Form) TooltipText(field Field) string { return f.help[field] }
