// Package loader reads a CellML document from a file or URL into the
// document model and links every variable to its source.
package loader

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/nickerso/cellml-decompose/internal/cellml"
	"github.com/nickerso/cellml-decompose/internal/ctxlog"
	"github.com/spf13/afero"
)

// LoadError wraps every failure to obtain or interpret the input model.
type LoadError struct {
	Locator string
	Err     error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to load model %q: %v", e.Locator, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Loader resolves model locators. Plain paths and file:// URLs are read from
// the filesystem, http:// and https:// URLs are fetched.
type Loader struct {
	fs     afero.Fs
	client *http.Client
}

// Option configures a Loader.
type Option func(*Loader)

// WithFs replaces the filesystem used for paths and file:// URLs.
func WithFs(fs afero.Fs) Option {
	return func(l *Loader) { l.fs = fs }
}

// WithHTTPClient replaces the client used for http(s) URLs.
func WithHTTPClient(c *http.Client) Option {
	return func(l *Loader) { l.client = c }
}

// New creates a Loader reading from the OS filesystem.
func New(opts ...Option) *Loader {
	l := &Loader{
		fs: afero.NewOsFs(),
		client: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:    10,
				IdleConnTimeout: 90 * time.Second,
			},
		},
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load reads and parses the model named by locator.
func (l *Loader) Load(ctx context.Context, locator string) (*cellml.Model, error) {
	logger := ctxlog.FromContext(ctx).With("locator", locator)
	logger.Debug("Starting load pass.")

	data, err := l.read(ctx, locator)
	if err != nil {
		return nil, &LoadError{Locator: locator, Err: err}
	}
	m, err := Parse(ctx, data)
	if err != nil {
		return nil, &LoadError{Locator: locator, Err: err}
	}

	logger.Debug("Finished load pass.", "model", m.Name, "components", len(m.Components), "connections", len(m.Connections))
	return m, nil
}

func (l *Loader) read(ctx context.Context, locator string) ([]byte, error) {
	u, err := url.Parse(locator)
	if err != nil || u.Scheme == "" || len(u.Scheme) == 1 {
		// No scheme, or a Windows drive letter.
		return afero.ReadFile(l.fs, locator)
	}
	switch strings.ToLower(u.Scheme) {
	case "file":
		return afero.ReadFile(l.fs, u.Path)
	case "http", "https":
		return l.fetch(ctx, u.String())
	default:
		return nil, fmt.Errorf("unsupported locator scheme %q", u.Scheme)
	}
}

func (l *Loader) fetch(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	ctxlog.FromContext(ctx).Debug("Received HTTP response", "status", resp.Status)
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected HTTP status: %s", resp.Status)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return body, nil
}
