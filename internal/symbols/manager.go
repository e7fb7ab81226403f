package symbols

import (
	"sysyplus/internal/source"
)

// Manager keeps the active resolution stack in step with the document's
// braces. The bottom entry is the permanent global scope.
type Manager struct {
	table *Table
	stack []ScopeID
}

// NewManager starts with only the global scope active.
func NewManager(table *Table) *Manager {
	return &Manager{
		table: table,
		stack: []ScopeID{table.Global()},
	}
}

// Push opens a child of the current scope and makes it current.
// span.End is provisional until Pop.
func (m *Manager) Push(kind ScopeKind, span source.Span) ScopeID {
	id := m.table.Scopes.New(kind, m.Current(), span)
	m.stack = append(m.stack, id)
	return id
}

// Pop closes the current scope at end (exclusive). Popping with only the
// global scope left is a no-op.
func (m *Manager) Pop(end uint32) {
	if len(m.stack) <= 1 {
		return
	}
	top := m.stack[len(m.stack)-1]
	if sc := m.table.Scopes.Get(top); sc != nil && end >= sc.Span.Start {
		sc.Span.End = end
	}
	m.stack = m.stack[:len(m.stack)-1]
}

// Current always returns a valid scope, global at minimum.
func (m *Manager) Current() ScopeID {
	return m.stack[len(m.stack)-1]
}

// Depth is the number of active scopes including global.
func (m *Manager) Depth() int { return len(m.stack) }

// AtGlobal reports whether only the global scope is active.
func (m *Manager) AtGlobal() bool { return len(m.stack) == 1 }

// Chain is Table.Chain of the current scope.
func (m *Manager) Chain() []ScopeID {
	return m.table.Chain(m.Current())
}

// CloseAll pops every open scope at end; used for unclosed blocks at EOF.
func (m *Manager) CloseAll(end uint32) {
	for len(m.stack) > 1 {
		m.Pop(end)
	}
}
