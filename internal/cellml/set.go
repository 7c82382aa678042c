package cellml

// VariableSet is a set of variables compared by identity.
type VariableSet map[*Variable]struct{}

// NewVariableSet returns a set holding vs.
func NewVariableSet(vs ...*Variable) VariableSet {
	s := make(VariableSet, len(vs))
	for _, v := range vs {
		s.Add(v)
	}
	return s
}

// Add inserts v.
func (s VariableSet) Add(v *Variable) {
	s[v] = struct{}{}
}

// Has reports whether v is a member. A nil set has no members.
func (s VariableSet) Has(v *Variable) bool {
	_, ok := s[v]
	return ok
}
