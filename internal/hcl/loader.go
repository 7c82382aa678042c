package hcl

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/nickerso/cellml-decompose/internal/cellml"
	"github.com/nickerso/cellml-decompose/internal/config"
	"github.com/nickerso/cellml-decompose/internal/ctxlog"
	"github.com/spf13/afero"
	"github.com/zclconf/go-cty/cty"
)

// fileRoot is the top level of a settings file. Unknown blocks and
// attributes are decode errors.
type fileRoot struct {
	Decompose *decomposeBlock `hcl:"decompose,block"`
}

type decomposeBlock struct {
	ElementErrors    *string    `hcl:"element_errors,optional"`
	WriteErrors      *string    `hcl:"write_errors,optional"`
	InitialSuffix    *string    `hcl:"initial_suffix,optional"`
	Indent           *int       `hcl:"indent,optional"`
	Expose           []string   `hcl:"expose,optional"`
	Hide             []string   `hcl:"hide,optional"`
	NamespaceRewrite *cty.Value `hcl:"namespace_rewrite,optional"`
}

// Loader is the HCL implementation of config.Loader.
type Loader struct {
	fs afero.Fs
}

var _ config.Loader = (*Loader)(nil)

// NewLoader creates a loader reading from fs. A nil fs reads the host
// filesystem.
func NewLoader(fs afero.Fs) *Loader {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &Loader{fs: fs}
}

// Load parses the settings file at path and merges its decompose block over
// config.Default. A file without a decompose block yields the defaults.
func (l *Loader) Load(ctx context.Context, path string) (*config.Settings, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Starting settings pass.", "path", path)

	src, err := afero.ReadFile(l.fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read settings file %s: %w", path, err)
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse settings file %s: %w", path, diags)
	}

	var root fileRoot
	if diags := gohcl.DecodeBody(file.Body, nil, &root); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode settings file %s: %w", path, diags)
	}

	settings := config.Default()
	if root.Decompose != nil {
		if err := l.merge(ctx, settings, root.Decompose); err != nil {
			return nil, fmt.Errorf("invalid settings file %s: %w", path, err)
		}
	}

	logger.Debug("Finished settings pass.",
		"element_errors", settings.ElementErrors,
		"write_errors", settings.WriteErrors,
		"expose", len(settings.Expose),
		"hide", len(settings.Hide),
	)
	return settings, nil
}

func (l *Loader) merge(ctx context.Context, s *config.Settings, b *decomposeBlock) error {
	if b.ElementErrors != nil {
		p, err := config.ParsePolicy(*b.ElementErrors)
		if err != nil {
			return fmt.Errorf("element_errors: %w", err)
		}
		s.ElementErrors = p
	}
	if b.WriteErrors != nil {
		p, err := config.ParsePolicy(*b.WriteErrors)
		if err != nil {
			return fmt.Errorf("write_errors: %w", err)
		}
		s.WriteErrors = p
	}
	if b.InitialSuffix != nil {
		// The suffix is appended to variable names, so the result must
		// still be an identifier.
		if *b.InitialSuffix == "" || !cellml.IsIdentifier("v"+*b.InitialSuffix) {
			return fmt.Errorf("initial_suffix %q does not extend a name into a valid identifier", *b.InitialSuffix)
		}
		s.InitialSuffix = *b.InitialSuffix
	}
	if b.Indent != nil {
		if *b.Indent < 1 {
			return fmt.Errorf("indent must be positive, got %d", *b.Indent)
		}
		s.Indent = *b.Indent
	}
	if b.Expose != nil {
		s.Expose = b.Expose
	}
	if b.Hide != nil {
		s.Hide = b.Hide
	}
	if b.NamespaceRewrite != nil {
		rewrites, err := decodeRewrites(ctx, *b.NamespaceRewrite)
		if err != nil {
			return fmt.Errorf("namespace_rewrite: %w", err)
		}
		for from, to := range rewrites {
			s.NamespaceRewrite[from] = to
		}
	}
	return nil
}
