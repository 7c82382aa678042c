package cellml

import "fmt"

// IsIdentifier reports whether s is a valid CellML identifier: letters,
// digits and underscores only, at least one letter, not starting with a digit.
func IsIdentifier(s string) bool {
	if s == "" {
		return false
	}
	hasLetter := false
	for i, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
			hasLetter = true
		case r == '_':
		case r >= '0' && r <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return hasLetter
}

func checkIdentifier(kind, name string) error {
	if !IsIdentifier(name) {
		return fmt.Errorf("%s name %q: %w", kind, name, ErrInvalidName)
	}
	return nil
}
