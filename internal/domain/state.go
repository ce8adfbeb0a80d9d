package domain

import "slices"

// Theme is the UI colour scheme preference.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Valid reports whether t is a known theme.
func (t Theme) Valid() bool {
	return t == ThemeLight || t == ThemeDark
}

// HydrationStatus tracks the remote dataset fetch.
type HydrationStatus string

const (
	HydrationIdle      HydrationStatus = "idle"
	HydrationLoading   HydrationStatus = "loading"
	HydrationSucceeded HydrationStatus = "succeeded"
	HydrationFailed    HydrationStatus = "failed"
)

// Valid reports whether s is one of the four hydration states.
func (s HydrationStatus) Valid() bool {
	switch s {
	case HydrationIdle, HydrationLoading, HydrationSucceeded, HydrationFailed:
		return true
	default:
		return false
	}
}

// UIState holds process-wide preferences and the hydration status machine.
type UIState struct {
	ActiveBoardID      string          `json:"activeBoardId"`
	Theme              Theme           `json:"theme"`
	HydrationStatus    HydrationStatus `json:"apiHydrationStatus"`
	HydrationError     string          `json:"apiHydrationError,omitempty"`
	HasHydratedFromAPI bool            `json:"hasHydratedFromApi"`
}

// State is the normalized entity store: one map per entity kind plus an
// explicit insertion order per kind. Map iteration order is never used for
// list semantics.
//
// A published *State is never mutated; transitions produce a new value.
type State struct {
	Boards    map[string]Board  `json:"boards"`
	BoardIDs  []string          `json:"boardIds"`
	Columns   map[string]Column `json:"columns"`
	ColumnIDs []string          `json:"columnIds"`
	Tasks     map[string]Task   `json:"tasks"`
	TaskIDs   []string          `json:"taskIds"`
	UI        UIState           `json:"ui"`
}

// NewState returns an empty state with the default UI preferences.
func NewState() *State {
	return &State{
		Boards:    map[string]Board{},
		BoardIDs:  []string{},
		Columns:   map[string]Column{},
		ColumnIDs: []string{},
		Tasks:     map[string]Task{},
		TaskIDs:   []string{},
		UI: UIState{
			Theme:           ThemeDark,
			HydrationStatus: HydrationIdle,
		},
	}
}

// Clone returns a deep copy. Entity slices are copied so the clone can be
// mutated without touching s.
func (s *State) Clone() *State {
	if s == nil {
		return NewState()
	}
	out := &State{
		Boards:    make(map[string]Board, len(s.Boards)),
		BoardIDs:  cloneIDs(s.BoardIDs),
		Columns:   make(map[string]Column, len(s.Columns)),
		ColumnIDs: cloneIDs(s.ColumnIDs),
		Tasks:     make(map[string]Task, len(s.Tasks)),
		TaskIDs:   cloneIDs(s.TaskIDs),
		UI:        s.UI,
	}
	for id, b := range s.Boards {
		b.ColumnIDs = cloneIDs(b.ColumnIDs)
		out.Boards[id] = b
	}
	for id, c := range s.Columns {
		c.TaskIDs = cloneIDs(c.TaskIDs)
		out.Columns[id] = c
	}
	for id, t := range s.Tasks {
		t.Subtasks = CloneSubtasks(t.Subtasks)
		out.Tasks[id] = t
	}
	return out
}

// Board looks up a board by id.
func (s *State) Board(id string) (Board, bool) {
	b, ok := s.Boards[id]
	return b, ok
}

// Column looks up a column by id.
func (s *State) Column(id string) (Column, bool) {
	c, ok := s.Columns[id]
	return c, ok
}

// Task looks up a task by id.
func (s *State) Task(id string) (Task, bool) {
	t, ok := s.Tasks[id]
	return t, ok
}

func cloneIDs(in []string) []string {
	if in == nil {
		return []string{}
	}
	return slices.Clone(in)
}
