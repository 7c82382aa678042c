// Package emit serializes fragments and stores them on a filesystem or in
// an S3 bucket.
package emit

import (
	"context"
	"fmt"

	"github.com/nickerso/cellml-decompose/internal/cellml"
	"github.com/nickerso/cellml-decompose/internal/ctxlog"
	"github.com/nickerso/cellml-decompose/internal/serializer"
)

// Writer stores one named document.
type Writer interface {
	Write(ctx context.Context, name string, data []byte) error
}

// WriteError reports a fragment that could not be serialized or stored.
type WriteError struct {
	File string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("failed to write %q: %v", e.File, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// Emitter serializes models and hands the bytes to a Writer.
type Emitter struct {
	writer Writer
	indent int
}

// NewEmitter creates an Emitter. A non-positive indent selects
// serializer.DefaultIndent.
func NewEmitter(w Writer, indent int) *Emitter {
	if indent <= 0 {
		indent = serializer.DefaultIndent
	}
	return &Emitter{writer: w, indent: indent}
}

// Emit writes m as file. Every failure is a *WriteError.
func (e *Emitter) Emit(ctx context.Context, file string, m *cellml.Model) error {
	data, err := serializer.SerializeIndent(m, e.indent)
	if err != nil {
		return &WriteError{File: file, Err: err}
	}
	if err := e.writer.Write(ctx, file, data); err != nil {
		return &WriteError{File: file, Err: err}
	}
	ctxlog.FromContext(ctx).Debug("Wrote fragment.", "file", file, "bytes", len(data))
	return nil
}
