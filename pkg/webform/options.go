package webform

import (
	"io/fs"
	"time"

	"go.uber.org/zap"

	"github.com/goliatone/go-personform/components/countries"
	"github.com/goliatone/go-personform/pkg/orchestrator"
)

const (
	// DefaultCookieName names the session cookie.
	DefaultCookieName = "personform_session"
	// DefaultSessionTTL is how long an idle session is kept.
	DefaultSessionTTL = 30 * time.Minute
	// CSRFHeader carries the session token on JSON API mutations.
	CSRFHeader = "X-CSRF-Token"
)

// Options configure a Server.
type Options struct {
	Orchestrator *orchestrator.Orchestrator
	Lookup       *countries.Lookup
	Assets       fs.FS
	Logger       *zap.Logger
	CookieName   string
	SessionTTL   time.Duration
	SecureCookie bool
	Now          func() time.Time
}

// OptionFn mutates Options.
type OptionFn func(*Options)

// WithOrchestrator sets the form factory and renderer registry.
func WithOrchestrator(o *orchestrator.Orchestrator) OptionFn {
	return func(opts *Options) {
		if o != nil {
			opts.Orchestrator = o
		}
	}
}

// WithLookup sets the lookup behind GET /api/countries.
func WithLookup(lookup *countries.Lookup) OptionFn {
	return func(opts *Options) {
		if lookup != nil {
			opts.Lookup = lookup
		}
	}
}

// WithAssets serves fsys under /assets/.
func WithAssets(fsys fs.FS) OptionFn {
	return func(opts *Options) {
		opts.Assets = fsys
	}
}

func WithLogger(logger *zap.Logger) OptionFn {
	return func(opts *Options) {
		if logger != nil {
			opts.Logger = logger
		}
	}
}

func WithCookieName(name string) OptionFn {
	return func(opts *Options) {
		if name != "" {
			opts.CookieName = name
		}
	}
}

// WithSessionTTL sets the idle lifetime of sessions. Non-positive values are
// ignored.
func WithSessionTTL(ttl time.Duration) OptionFn {
	return func(opts *Options) {
		if ttl > 0 {
			opts.SessionTTL = ttl
		}
	}
}

// WithSecureCookie marks the session cookie Secure.
func WithSecureCookie(secure bool) OptionFn {
	return func(opts *Options) {
		opts.SecureCookie = secure
	}
}

// WithNow overrides the clock used for session expiry.
func WithNow(now func() time.Time) OptionFn {
	return func(opts *Options) {
		if now != nil {
			opts.Now = now
		}
	}
}

func newOptions(fns ...OptionFn) Options {
	opts := Options{
		CookieName: DefaultCookieName,
		SessionTTL: DefaultSessionTTL,
		Now:        time.Now,
	}
	for _, fn := range fns {
		if fn != nil {
			fn(&opts)
		}
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Lookup == nil {
		opts.Lookup = countries.New(countries.WithLogger(opts.Logger))
	}
	if opts.Orchestrator == nil {
		opts.Orchestrator = orchestrator.New(
			orchestrator.WithFetcher(opts.Lookup),
			orchestrator.WithLogger(opts.Logger),
		)
	}
	return opts
}
