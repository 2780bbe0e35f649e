package countries

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// SourceKind enumerates where the list can be read from.
type SourceKind string

const (
	SourceKindEmbedded SourceKind = "embedded"
	SourceKindFile     SourceKind = "file"
	SourceKindFS       SourceKind = "fs"
	SourceKindURL      SourceKind = "url"
)

// Source identifies the list resource without exposing how it is read.
type Source interface {
	Kind() SourceKind
	Location() string
}

type source struct {
	kind     SourceKind
	location string
}

func (s source) Kind() SourceKind { return s.kind }
func (s source) Location() string { return s.location }

// EmbeddedSource points at the list compiled into the package.
func EmbeddedSource() Source {
	return source{kind: SourceKindEmbedded, location: ResourcePath}
}

// SourceFromFile points at a list on disk.
func SourceFromFile(path string) Source {
	return source{kind: SourceKindFile, location: filepath.Clean(path)}
}

// SourceFromFS points at a list inside the fs.FS configured with WithFS.
func SourceFromFS(name string) Source {
	return source{kind: SourceKindFS, location: name}
}

// SourceFromURL points at a list served over HTTP(S).
func SourceFromURL(raw string) Source {
	return source{kind: SourceKindURL, location: raw}
}

// ParseSource maps a configuration value onto a Source: empty selects the
// embedded list, http(s) URLs are fetched, anything else is a file path.
func ParseSource(raw string) Source {
	trimmed := strings.TrimSpace(raw)
	switch {
	case trimmed == "":
		return EmbeddedSource()
	case strings.HasPrefix(trimmed, "http://"), strings.HasPrefix(trimmed, "https://"):
		return SourceFromURL(trimmed)
	default:
		return SourceFromFile(trimmed)
	}
}

func openSource(ctx context.Context, src Source, opts Options) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	switch src.Kind() {
	case SourceKindEmbedded:
		f, err := dataFS.Open(defaultListPath)
		if err != nil {
			return nil, err
		}
		return f, nil
	case SourceKindFile:
		f, err := os.Open(src.Location())
		if err != nil {
			return nil, err
		}
		return f, nil
	case SourceKindFS:
		if opts.FS == nil {
			return nil, errors.New("countries: fs source without filesystem")
		}
		f, err := opts.FS.Open(src.Location())
		if err != nil {
			return nil, err
		}
		return f, nil
	case SourceKindURL:
		return openHTTP(ctx, opts.HTTPClient, src.Location(), opts.Timeout)
	default:
		return nil, fmt.Errorf("countries: unsupported source kind %q", src.Kind())
	}
}

func openHTTP(ctx context.Context, client *http.Client, url string, timeout time.Duration) (io.ReadCloser, error) {
	if client == nil {
		client = http.DefaultClient
	}
	if url == "" {
		return nil, errors.New("countries: url is required")
	}

	reqCtx := ctx
	var cancel context.CancelFunc
	if timeout > 0 {
		reqCtx, cancel = context.WithTimeout(ctx, timeout)
	}

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, url, nil)
	if err != nil {
		if cancel != nil {
			cancel()
		}
		return nil, err
	}

	resp, err := client.Do(req)
	if err != nil {
		if cancel != nil {
			cancel()
		}
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_ = resp.Body.Close()
		if cancel != nil {
			cancel()
		}
		return nil, errors.New("countries: unexpected status " + resp.Status)
	}
	return &cancelReadCloser{ReadCloser: resp.Body, cancel: cancel}, nil
}

type cancelReadCloser struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (c *cancelReadCloser) Close() error {
	err := c.ReadCloser.Close()
	if c.cancel != nil {
		c.cancel()
	}
	return err
}
