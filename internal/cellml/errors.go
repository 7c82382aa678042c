package cellml

import "errors"

var (
	// ErrInvalidName is returned when a name is not a valid CellML identifier.
	ErrInvalidName = errors.New("invalid identifier")
	// ErrDuplicateName is returned when a name is already used in its scope.
	ErrDuplicateName = errors.New("duplicate name")
	// ErrUnknownComponent is returned when a connection or reference names a
	// component the model does not define or import.
	ErrUnknownComponent = errors.New("unknown component")
	// ErrSelfConnection is returned when both ends of a connection name the
	// same component.
	ErrSelfConnection = errors.New("component connected to itself")
	// ErrEmptyConnection is returned for a connection without variable maps.
	ErrEmptyConnection = errors.New("connection has no variable mappings")
	// ErrEmptyHref is returned for an import without a location.
	ErrEmptyHref = errors.New("import has no href")
)
