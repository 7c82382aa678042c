package config

import (
	"context"
	"fmt"
	"maps"

	"github.com/nickerso/cellml-decompose/internal/cellml"
)

// Policy decides what happens when one element or one write fails.
type Policy string

const (
	// PolicyContinue logs the failure, skips the element and keeps going.
	PolicyContinue Policy = "continue"
	// PolicyAbort fails the run.
	PolicyAbort Policy = "abort"
)

// ParsePolicy validates a policy name. An empty string selects
// PolicyContinue.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(s) {
	case "", PolicyContinue:
		return PolicyContinue, nil
	case PolicyAbort:
		return PolicyAbort, nil
	default:
		return "", fmt.Errorf("unknown error policy %q (want %q or %q)", s, PolicyContinue, PolicyAbort)
	}
}

// Settings tune a decomposition run.
type Settings struct {
	ElementErrors    Policy
	WriteErrors      Policy
	InitialSuffix    string
	Indent           int
	Expose           []string
	Hide             []string
	NamespaceRewrite map[string]string
}

// Default returns the settings used when no settings file is given.
func Default() *Settings {
	return &Settings{
		ElementErrors:    PolicyContinue,
		WriteErrors:      PolicyContinue,
		InitialSuffix:    "_initial",
		Indent:           2,
		NamespaceRewrite: maps.Clone(cellml.DefaultNamespaceRewrites),
	}
}

// Loader is the interface for a format-specific settings loader.
type Loader interface {
	// Load reads the settings file at path and merges it over Default.
	Load(ctx context.Context, path string) (*Settings, error)
}
