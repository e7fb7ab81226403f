package symbols

import (
	"fmt"

	"fortio.org/safecast"

	"sysyplus/internal/source"
)

// Scopes stores all allocated scopes in a compact slice-based arena.
type Scopes struct {
	data []Scope
}

// NewScopes creates an arena with optional capacity hint.
func NewScopes(capacity uint32) *Scopes {
	if capacity == 0 {
		capacity = 32
	}
	return &Scopes{
		data: make([]Scope, 1, capacity+1), // index 0 reserved for NoScopeID
	}
}

// New allocates a new scope and links it to its parent.
func (s *Scopes) New(kind ScopeKind, parent ScopeID, span source.Span) ScopeID {
	value, err := safecast.Conv[uint32](len(s.data))
	if err != nil {
		panic(fmt.Errorf("scopes arena overflow: %w", err))
	}
	id := ScopeID(value)
	s.data = append(s.data, Scope{
		ID:     id,
		Kind:   kind,
		Parent: parent,
		Span:   span,
	})
	if parent.IsValid() {
		if parentScope := s.Get(parent); parentScope != nil {
			parentScope.Children = append(parentScope.Children, id)
		}
	}
	return id
}

// Get returns the scope pointer or nil if ID is invalid.
func (s *Scopes) Get(id ScopeID) *Scope {
	if !id.IsValid() || int(id) >= len(s.data) {
		return nil
	}
	return &s.data[id]
}

// Len reports total number of scopes excluding the sentinel.
func (s *Scopes) Len() int { return len(s.data) - 1 }

// Data exposes the underlying slice without the sentinel.
func (s *Scopes) Data() []Scope {
	if len(s.data) <= 1 {
		return nil
	}
	return s.data[1:]
}

// arena is the same layout for variables, functions and structs.
type arena[T any] struct {
	data []T
}

func newArena[T any](capacity uint32) *arena[T] {
	if capacity == 0 {
		capacity = 16
	}
	return &arena[T]{data: make([]T, 1, capacity+1)}
}

func (a *arena[T]) add(v T) uint32 {
	value, err := safecast.Conv[uint32](len(a.data))
	if err != nil {
		panic(fmt.Errorf("symbols arena overflow: %w", err))
	}
	a.data = append(a.data, v)
	return value
}

func (a *arena[T]) get(id uint32) *T {
	if id == 0 || int(id) >= len(a.data) {
		return nil
	}
	return &a.data[id]
}

func (a *arena[T]) len() int { return len(a.data) - 1 }
