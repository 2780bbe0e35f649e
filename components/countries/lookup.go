package countries

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// ErrLoad is matched by every error Fetch returns.
var ErrLoad = errors.New("countries: list unavailable")

// LoadError reports that the list resource could not be fetched or read.
type LoadError struct {
	Source Source
	Err    error
}

func (e *LoadError) Error() string {
	if e == nil {
		return ErrLoad.Error()
	}
	location := ""
	if e.Source != nil {
		location = e.Source.Location()
	}
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", ErrLoad, location)
	}
	return fmt.Sprintf("%s: %s: %v", ErrLoad, location, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

func (e *LoadError) Is(target error) bool { return target == ErrLoad }

// Fetcher is what the form depends on to obtain its options.
type Fetcher interface {
	Fetch(ctx context.Context) ([]Country, error)
}

// Lookup reads and parses the configured list. It holds no cache; each Fetch
// re-reads the source.
type Lookup struct {
	opts Options
}

var _ Fetcher = (*Lookup)(nil)

// New constructs a lookup with default options plus any overrides.
func New(fns ...OptionFn) *Lookup {
	return &Lookup{opts: NewOptions(fns...)}
}

// Options returns a copy of the lookup configuration.
func (l *Lookup) Options() Options {
	if l == nil {
		return DefaultOptions()
	}
	return NewOptions(func(o *Options) { *o = l.opts })
}

// Fetch reads the source and returns the sorted list. Failures come back as
// *LoadError, never as an empty list.
func (l *Lookup) Fetch(ctx context.Context) ([]Country, error) {
	opts := l.Options()
	if ctx == nil {
		ctx = context.Background()
	}

	rc, err := openSource(ctx, opts.Source, opts)
	if err != nil {
		opts.Logger.Warn("country list fetch failed",
			zap.String("source", opts.Source.Location()),
			zap.Error(err),
		)
		return nil, &LoadError{Source: opts.Source, Err: err}
	}
	defer func() { _ = rc.Close() }()

	list, err := Parse(rc, opts.Language)
	if err != nil {
		opts.Logger.Warn("country list read failed",
			zap.String("source", opts.Source.Location()),
			zap.Error(err),
		)
		return nil, &LoadError{Source: opts.Source, Err: err}
	}

	opts.Logger.Debug("country list loaded",
		zap.String("source", opts.Source.Location()),
		zap.Int("count", len(list)),
	)
	return list, nil
}
