package selector

import (
	"sync"

	"github.com/gosuda/kanban/internal/domain"
)

// Memo caches the result of a selector for the last state it saw. Store
// states are immutable, so pointer identity is a valid cache key.
type Memo[T any] struct {
	fn func(*domain.State) T

	mu     sync.Mutex
	last   *domain.State
	result T
	valid  bool
}

// NewMemo wraps fn.
func NewMemo[T any](fn func(*domain.State) T) *Memo[T] {
	return &Memo[T]{fn: fn}
}

// Get returns fn(s), recomputing only when s differs from the previous input.
// The returned value is shared between callers and must not be modified.
func (m *Memo[T]) Get(s *domain.State) T {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.valid && m.last == s {
		return m.result
	}
	m.result = m.fn(s)
	m.last = s
	m.valid = true
	return m.result
}

// Views bundles the memoized selectors used by the read API.
type Views struct {
	Previews *Memo[[]BoardPreview]
	Sidebar  *Memo[[]BoardSummary]
}

func NewViews() *Views {
	return &Views{
		Previews: NewMemo(BoardPreviews),
		Sidebar:  NewMemo(SidebarBoards),
	}
}
