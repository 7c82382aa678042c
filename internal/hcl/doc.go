// Package hcl implements config.Loader for HCL settings files. A settings
// file holds a single `decompose` block whose attributes override the
// defaults returned by config.Default.
package hcl
