package runtime

// Store maps variable names to values. It is a persistent singly linked list
// of bindings ordered newest first: Update prepends a binding and Lookup
// returns the most recent one, so rebinding a name shadows the older entry
// instead of replacing it. Stores share structure, and an Update never
// changes a Store someone else still holds.
//
// The zero value is the empty store.
type Store struct {
	head *binding
}

type binding struct {
	name  string
	value Value
	next  *binding
}

// EmptyStore returns a store with no bindings.
func EmptyStore() Store {
	return Store{}
}

// Update returns a store where name is bound to value. The previous binding
// for name, if any, stays in the list but becomes unreachable through Lookup.
func (st Store) Update(name string, value Value) Store {
	return Store{head: &binding{name: name, value: value, next: st.head}}
}

// Lookup returns the most recent value bound to name.
func (st Store) Lookup(name string) (Value, bool) {
	for b := st.head; b != nil; b = b.next {
		if b.name == name {
			return b.value, true
		}
	}
	return nil, false
}

// Keys returns the distinct bound names, most recently bound first.
func (st Store) Keys() []string {
	var keys []string
	seen := make(map[string]bool)
	for b := st.head; b != nil; b = b.next {
		if !seen[b.name] {
			seen[b.name] = true
			keys = append(keys, b.name)
		}
	}
	return keys
}

// Len returns the number of physical bindings, counting shadowed ones.
func (st Store) Len() int {
	n := 0
	for b := st.head; b != nil; b = b.next {
		n++
	}
	return n
}

// Binding is one visible name/value pair of a store snapshot.
type Binding struct {
	Name  string
	Value Value
}

// Snapshot returns the visible bindings, shadowed entries skipped, in order
// of first assignment.
func (st Store) Snapshot() []Binding {
	var chain []*binding
	latest := make(map[string]Value)
	for b := st.head; b != nil; b = b.next {
		chain = append(chain, b)
		if _, ok := latest[b.name]; !ok {
			latest[b.name] = b.value
		}
	}

	seen := make(map[string]bool, len(latest))
	out := make([]Binding, 0, len(latest))
	for i := len(chain) - 1; i >= 0; i-- {
		name := chain[i].name
		if seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, Binding{Name: name, Value: latest[name]})
	}
	return out
}
