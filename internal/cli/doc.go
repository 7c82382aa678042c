// Package cli turns command-line arguments and CELLML_DECOMPOSE_*
// environment variables into a validated app.Config, and carries process
// exit codes through ExitError.
package cli
