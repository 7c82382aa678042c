// Package cellml is the in-memory document model shared by the loader, the
// decomposition engine and the serializer: models, components, variables,
// units, connections, imports and encapsulation groups.
//
// Opaque content (MathML and units definitions) is kept as etree sub-trees
// and copied verbatim. Structural elements are plain Go values that enforce
// the document validity rules when they are attached to their owner through
// the Add* methods.
package cellml
