/*
Package varid provides a structured representation for variable addresses
of the form `component.variable`, as used by the exposure overrides in the
settings file.
*/
package varid
