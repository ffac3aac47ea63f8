package analysis

import "sort"

// VarSet is a set of variable names. Operations never mutate their receiver
// or arguments; they return fresh sets.
type VarSet map[string]struct{}

// NewVarSet returns a set containing the given names.
func NewVarSet(names ...string) VarSet {
	s := make(VarSet, len(names))
	for _, n := range names {
		s[n] = struct{}{}
	}
	return s
}

// Has reports whether name is in the set.
func (s VarSet) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// IsEmpty reports whether the set has no elements.
func (s VarSet) IsEmpty() bool {
	return len(s) == 0
}

// Union returns a new set with the elements of both s and other.
func (s VarSet) Union(other VarSet) VarSet {
	out := make(VarSet, len(s)+len(other))
	for n := range s {
		out[n] = struct{}{}
	}
	for n := range other {
		out[n] = struct{}{}
	}
	return out
}

// Intersect returns a new set with the elements present in both s and other.
func (s VarSet) Intersect(other VarSet) VarSet {
	out := make(VarSet)
	for n := range s {
		if other.Has(n) {
			out[n] = struct{}{}
		}
	}
	return out
}

// Diff returns a new set with the elements of s not present in other.
func (s VarSet) Diff(other VarSet) VarSet {
	out := make(VarSet)
	for n := range s {
		if !other.Has(n) {
			out[n] = struct{}{}
		}
	}
	return out
}

// Equal reports whether s and other contain exactly the same names.
func (s VarSet) Equal(other VarSet) bool {
	if len(s) != len(other) {
		return false
	}
	for n := range s {
		if !other.Has(n) {
			return false
		}
	}
	return true
}

// Names returns the elements sorted alphabetically.
func (s VarSet) Names() []string {
	names := make([]string, 0, len(s))
	for n := range s {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
