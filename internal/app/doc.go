// Package app contains the decomposition run lifecycle: settings, model
// loading, output selection, the decomposition itself, metrics and the run
// report. It is decoupled from the CLI entrypoint.
package app
