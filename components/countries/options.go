package countries

import (
	"io/fs"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/text/language"
)

type EmptySearchMode string

const (
	EmptySearchNone EmptySearchMode = "none"
	EmptySearchTop  EmptySearchMode = "top"
)

type Options struct {
	RoutePath       string
	SearchParam     string
	LimitParam      string
	DefaultLimit    int
	MaxLimit        int
	EmptySearchMode EmptySearchMode

	Source     Source
	FS         fs.FS
	HTTPClient *http.Client
	Timeout    time.Duration
	Language   language.Tag
	Logger     *zap.Logger

	// Countries short-circuits Source for the handler when set.
	Countries []Country
}

type OptionFn func(*Options)

func DefaultOptions() Options {
	return Options{
		RoutePath:       "/api/countries",
		SearchParam:     "q",
		LimitParam:      "limit",
		DefaultLimit:    300,
		MaxLimit:        300,
		EmptySearchMode: EmptySearchTop,
		Source:          EmbeddedSource(),
		Language:        DefaultLanguage,
	}
}

func NewOptions(fns ...OptionFn) Options {
	opts := DefaultOptions()
	for _, fn := range fns {
		if fn == nil {
			continue
		}
		fn(&opts)
	}
	if opts.DefaultLimit <= 0 {
		opts.DefaultLimit = 300
	}
	if opts.MaxLimit <= 0 {
		opts.MaxLimit = 300
	}
	if opts.EmptySearchMode == "" {
		opts.EmptySearchMode = EmptySearchTop
	}
	if opts.RoutePath == "" {
		opts.RoutePath = "/api/countries"
	}
	if opts.SearchParam == "" {
		opts.SearchParam = "q"
	}
	if opts.LimitParam == "" {
		opts.LimitParam = "limit"
	}
	if opts.Source == nil {
		opts.Source = EmbeddedSource()
	}
	if opts.Language == language.Und {
		opts.Language = DefaultLanguage
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Countries != nil {
		opts.Countries = append([]Country{}, opts.Countries...)
	}
	return opts
}

func WithRoutePath(path string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.RoutePath = path
	}
}

func WithSearchParam(name string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.SearchParam = name
	}
}

func WithLimitParam(name string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.LimitParam = name
	}
}

func WithDefaultLimit(limit int) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.DefaultLimit = limit
	}
}

func WithMaxLimit(limit int) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.MaxLimit = limit
	}
}

func WithEmptySearchMode(mode EmptySearchMode) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.EmptySearchMode = mode
	}
}

// WithSource selects where Fetch reads the list from.
func WithSource(src Source) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Source = src
	}
}

// WithFS sets the filesystem used by SourceFromFS sources.
func WithFS(fsys fs.FS) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.FS = fsys
	}
}

// WithHTTPClient sets the client used by URL sources.
func WithHTTPClient(client *http.Client) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.HTTPClient = client
	}
}

// WithTimeout bounds URL fetches. Zero means no timeout.
func WithTimeout(timeout time.Duration) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Timeout = timeout
	}
}

// WithLanguage sets the collation language used for sorting.
func WithLanguage(tag language.Tag) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Language = tag
	}
}

func WithLogger(logger *zap.Logger) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Logger = logger
	}
}

func WithCountries(list []Country) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		if list == nil {
			o.Countries = nil
			return
		}
		o.Countries = append([]Country{}, list...)
	}
}

func clampLimit(limit int, opts Options) int {
	if limit < 0 {
		return 0
	}
	if limit == 0 {
		limit = opts.DefaultLimit
	}
	if opts.MaxLimit > 0 && limit > opts.MaxLimit {
		return opts.MaxLimit
	}
	return limit
}
