package hcl_test

import (
	"context"
	"testing"

	"github.com/nickerso/cellml-decompose/internal/cellml"
	"github.com/nickerso/cellml-decompose/internal/config"
	"github.com/nickerso/cellml-decompose/internal/ctxlog"
	"github.com/nickerso/cellml-decompose/internal/hcl"
	"github.com/nickerso/cellml-decompose/internal/testutil"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func load(t *testing.T, src string) (*config.Settings, error) {
	t.Helper()
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/etc/decompose.hcl", []byte(src), 0o644))
	return hcl.NewLoader(fs).Load(context.Background(), "/etc/decompose.hcl")
}

func TestLoad_FullBlock(t *testing.T) {
	// Arrange
	src := `
decompose {
  element_errors = "abort"
  write_errors   = "abort"
  initial_suffix = "_init"
  indent         = 4
  expose         = ["membrane.i_total"]
  hide           = ["membrane.scratch", "leak.tmp"]
  namespace_rewrite = {
    "http://example.org/old#" = "http://example.org/new#"
  }
}
`

	// Act
	s, err := load(t, src)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, config.PolicyAbort, s.ElementErrors)
	assert.Equal(t, config.PolicyAbort, s.WriteErrors)
	assert.Equal(t, "_init", s.InitialSuffix)
	assert.Equal(t, 4, s.Indent)
	assert.Equal(t, []string{"membrane.i_total"}, s.Expose)
	assert.Equal(t, []string{"membrane.scratch", "leak.tmp"}, s.Hide)
	assert.Equal(t, "http://example.org/new#", s.NamespaceRewrite["http://example.org/old#"])
	assert.Equal(t, cellml.Namespace11, s.NamespaceRewrite[cellml.Namespace10], "defaults are kept alongside file entries")
}

func TestLoad_PartialBlockKeepsDefaults(t *testing.T) {
	testCases := []struct {
		name string
		src  string
	}{
		{name: "empty file", src: ""},
		{name: "empty block", src: "decompose {}\n"},
		{name: "one attribute", src: "decompose {\n  write_errors = \"continue\"\n}\n"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// Act
			s, err := load(t, tc.src)

			// Assert
			require.NoError(t, err)
			assert.Equal(t, config.Default(), s)
		})
	}
}

func TestLoad_Rejections(t *testing.T) {
	testCases := []struct {
		name    string
		src     string
		wantErr string
	}{
		{name: "syntax error", src: "decompose {\n", wantErr: "failed to parse"},
		{name: "unknown attribute", src: "decompose {\n  colour = \"red\"\n}\n", wantErr: "failed to decode"},
		{name: "unknown block", src: "step \"a\" \"b\" {}\n", wantErr: "failed to decode"},
		{name: "bad policy", src: "decompose {\n  element_errors = \"retry\"\n}\n", wantErr: "element_errors"},
		{name: "bad suffix", src: "decompose {\n  initial_suffix = \"-init\"\n}\n", wantErr: "initial_suffix"},
		{name: "empty suffix", src: "decompose {\n  initial_suffix = \"\"\n}\n", wantErr: "initial_suffix"},
		{name: "negative indent", src: "decompose {\n  indent = -1\n}\n", wantErr: "indent"},
		{name: "zero indent", src: "decompose {\n  indent = 0\n}\n", wantErr: "indent must be positive"},
		{name: "rewrite not a map", src: "decompose {\n  namespace_rewrite = [\"a\"]\n}\n", wantErr: "namespace_rewrite"},
		{name: "rewrite empty target", src: "decompose {\n  namespace_rewrite = { \"a\" = \"\" }\n}\n", wantErr: "must not be empty"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// Act
			_, err := load(t, tc.src)

			// Assert
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	// Arrange
	l := hcl.NewLoader(afero.NewMemMapFs())

	// Act
	_, err := l.Load(context.Background(), "/nope.hcl")

	// Assert
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read settings file")
}

func TestLoad_LogsPass(t *testing.T) {
	// Arrange
	logger, logs := testutil.NewLogger()
	ctx := ctxlog.WithLogger(context.Background(), logger)
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "s.hcl", []byte("decompose {\n  hide = [\"a.b\"]\n}\n"), 0o644))

	// Act
	_, err := hcl.NewLoader(fs).Load(ctx, "s.hcl")

	// Assert
	require.NoError(t, err)
	testutil.AssertLogged(t, logs.String(), "Starting settings pass.", "path=s.hcl")
	testutil.AssertLogged(t, logs.String(), "Finished settings pass.", "hide=1")
}
