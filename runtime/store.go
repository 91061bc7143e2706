package runtime

import (
	"strings"

	"github.com/tw1x/tw1x/value"
)

// ScopeMode selects how a $NAME reference is translated to a store key.
type ScopeMode int

const (
	GlobalScope ScopeMode = iota
	PrefixedScope
)

// Scope is the variable scope adapter. It is injected into a Store rather
// than reached for as process-wide state.
type Scope struct {
	Mode     ScopeMode
	Username string // only meaningful under PrefixedScope
}

// KeyFor derives the canonical store key for a $NAME reference.
func (s Scope) KeyFor(name string) string {
	if s.Mode == PrefixedScope {
		return s.Username + "_" + name
	}
	return strings.ToUpper(name)
}

// Store is the variable store: a mapping from canonical key to Value whose
// lookups ignore case across the whole canonical key. Missing reads yield integer
// zero, never an error.
type Store struct {
	scope Scope
	data  map[string]value.Value
	// keyIndex maps an uppercased canonical key to the exact key it was
	// stored under, so that lookups are case-insensitive while storage
	// keeps writer-supplied casing for the prefixed-scope username.
	keyIndex map[string]string
}

// NewStore wraps an existing variable map (owned by the caller) with a
// scope adapter. The core mutates vars in place via Set.
func NewStore(scope Scope, vars map[string]value.Value) *Store {
	if vars == nil {
		vars = map[string]value.Value{}
	}
	s := &Store{scope: scope, data: vars, keyIndex: map[string]string{}}
	for k := range vars {
		s.keyIndex[strings.ToUpper(k)] = k
	}
	return s
}

func (s *Store) resolveKey(canonical string) string {
	if actual, ok := s.keyIndex[strings.ToUpper(canonical)]; ok {
		return actual
	}
	return canonical
}

// Get reads the value bound to $name, applying the scope adapter and
// case-insensitive lookup. A miss yields value.Zero().
func (s *Store) Get(name string) value.Value {
	canonical := s.scope.KeyFor(name)
	key := s.resolveKey(canonical)
	v, ok := s.data[key]
	if !ok {
		return value.Zero()
	}
	return v
}

// Set stores v under the canonical key for $name, always under the
// canonical casing; an existing entry whose key differs only in case is
// replaced by the canonical one.
func (s *Store) Set(name string, v value.Value) {
	canonical := s.scope.KeyFor(name)
	if old := s.resolveKey(canonical); old != canonical {
		delete(s.data, old)
	}
	s.data[canonical] = v
	s.keyIndex[strings.ToUpper(canonical)] = canonical
}

// KeyFor exposes the scope adapter's canonical key derivation, used by the
// macro interpreter to record which store keys a render call touched.
func (s *Store) KeyFor(name string) string {
	return s.scope.KeyFor(name)
}

// GetCanonical reads a value by its already-canonical store key (as
// returned by KeyFor), rather than by a raw $NAME reference.
func (s *Store) GetCanonical(key string) value.Value {
	actual := s.resolveKey(key)
	v, ok := s.data[actual]
	if !ok {
		return value.Zero()
	}
	return v
}

// Snapshot copies the current contents of the store.
func (s *Store) Snapshot() map[string]value.Value {
	out := make(map[string]value.Value, len(s.data))
	for k, v := range s.data {
		out[k] = v
	}
	return out
}
