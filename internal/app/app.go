package app

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/nickerso/cellml-decompose/internal/cellml"
	"github.com/nickerso/cellml-decompose/internal/config"
	"github.com/nickerso/cellml-decompose/internal/emit"
	"github.com/nickerso/cellml-decompose/internal/hcl"
	"github.com/nickerso/cellml-decompose/internal/loader"
	"github.com/spf13/afero"
)

// ModelLoader reads and parses a model from a locator.
type ModelLoader interface {
	Load(ctx context.Context, locator string) (*cellml.Model, error)
}

// App encapsulates one run's dependencies and configuration.
type App struct {
	logger   *slog.Logger
	config   *Config
	fs       afero.Fs
	client   *http.Client
	s3       emit.PutObjectAPI
	settings config.Loader
	models   ModelLoader
}

// Option customises an App.
type Option func(*App)

// WithFs sets the filesystem used for the model, the settings file, the
// output directory and the report.
func WithFs(fs afero.Fs) Option {
	return func(a *App) { a.fs = fs }
}

// WithHTTPClient sets the client used for http(s) model locators.
func WithHTTPClient(c *http.Client) Option {
	return func(a *App) { a.client = c }
}

// WithS3Client sets the client used for s3:// output locations instead of
// one built from the default AWS configuration.
func WithS3Client(c emit.PutObjectAPI) Option {
	return func(a *App) { a.s3 = c }
}

// NewApp creates an App with its own logger writing to outW.
func NewApp(outW io.Writer, cfg *Config, opts ...Option) *App {
	a := &App{
		logger: newLogger(cfg.LogLevel, cfg.LogFormat, outW),
		config: cfg,
		fs:     afero.NewOsFs(),
	}
	for _, opt := range opts {
		opt(a)
	}

	a.settings = hcl.NewLoader(a.fs)
	loaderOpts := []loader.Option{loader.WithFs(a.fs)}
	if a.client != nil {
		loaderOpts = append(loaderOpts, loader.WithHTTPClient(a.client))
	}
	a.models = loader.New(loaderOpts...)

	a.logger.Debug("Logger configured successfully.")
	return a
}
