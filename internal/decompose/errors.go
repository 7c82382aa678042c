package decompose

import "fmt"

// ElementError is one element a fragment refused. Under the continue policy
// the element is dropped and the run goes on.
type ElementError struct {
	Fragment string
	Element  string
	Err      error
}

func (e *ElementError) Error() string {
	return fmt.Sprintf("fragment %q rejected %s: %v", e.Fragment, e.Element, e.Err)
}

func (e *ElementError) Unwrap() error {
	return e.Err
}
