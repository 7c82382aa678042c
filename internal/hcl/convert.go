package hcl

import (
	"context"
	"fmt"

	"github.com/nickerso/cellml-decompose/internal/ctxlog"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// decodeRewrites converts an object or map literal into a URI rewrite table.
func decodeRewrites(ctx context.Context, val cty.Value) (map[string]string, error) {
	logger := ctxlog.FromContext(ctx)

	if val.IsNull() {
		return nil, nil
	}
	if !val.IsWhollyKnown() {
		return nil, fmt.Errorf("value must be known")
	}

	converted, err := convert.Convert(val, cty.Map(cty.String))
	if err != nil {
		return nil, fmt.Errorf("expected a map of namespace URIs: %w", err)
	}

	var out map[string]string
	if err := gocty.FromCtyValue(converted, &out); err != nil {
		return nil, fmt.Errorf("gocty decoding failed: %w", err)
	}
	for from, to := range out {
		if from == "" || to == "" {
			return nil, fmt.Errorf("namespace URIs must not be empty (%q = %q)", from, to)
		}
	}

	logger.Debug("Decoded namespace rewrites.", "count", len(out))
	return out, nil
}
