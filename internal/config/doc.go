// Package config defines the format-agnostic settings of a decomposition run,
// along with the Loader interface implemented by format-specific packages
// such as internal/hcl.
package config
