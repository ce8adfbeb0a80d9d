package reducer

import (
	"slices"

	"github.com/gosuda/kanban/internal/domain"
)

// Reduce applies a to prev and returns the resulting state. It never panics
// and never mutates prev. When an action's preconditions do not hold (missing
// entity, duplicate id, cross-board reference) prev itself is returned, so
// callers can detect a no-op by pointer equality.
func Reduce(prev *domain.State, a Action) *domain.State {
	if prev == nil {
		prev = domain.NewState()
	}

	switch a := a.(type) {
	case TaskAdded:
		return addTask(prev, a)
	case TaskUpdated:
		return updateTask(prev, a)
	case TaskDeleted:
		return deleteTask(prev, a)
	case TaskMoved:
		return moveTask(prev, a)
	case SubtaskToggled:
		return toggleSubtask(prev, a)
	case BoardCreated:
		return createBoard(prev, a)
	case BoardRemoved:
		return deleteBoard(prev, a)
	case BoardUpdated:
		return updateBoard(prev, a)
	case ColumnCreated:
		return createColumn(prev, a)
	case ColumnRemoved:
		return deleteColumn(prev, a)
	case ColumnUpdated:
		return updateColumn(prev, a)
	case BoardColumnsReordered:
		return reorderBoardColumns(prev, a)
	case ActiveBoardSet:
		return setActiveBoard(prev, a)
	case ThemeSet:
		return setTheme(prev, a)
	case StateReset:
		return resetState(prev, a)
	case HydrationPending:
		return hydrationPending(prev, a)
	case HydrationFulfilled:
		return hydrationFulfilled(prev, a)
	case HydrationRejected:
		return hydrationRejected(prev, a)
	default:
		return prev
	}
}

// insertAt inserts id at index; nil, negative, or past-the-end indexes append.
func insertAt(ids []string, id string, index *int) []string {
	if index == nil || *index < 0 || *index >= len(ids) {
		return append(ids, id)
	}
	return slices.Insert(ids, *index, id)
}

func removeID(ids []string, id string) []string {
	return slices.DeleteFunc(ids, func(v string) bool { return v == id })
}

func setActiveBoard(prev *domain.State, a ActiveBoardSet) *domain.State {
	if _, ok := prev.Boards[a.BoardID]; !ok || prev.UI.ActiveBoardID == a.BoardID {
		return prev
	}
	next := prev.Clone()
	next.UI.ActiveBoardID = a.BoardID
	return next
}

func setTheme(prev *domain.State, a ThemeSet) *domain.State {
	if !a.Theme.Valid() || prev.UI.Theme == a.Theme {
		return prev
	}
	next := prev.Clone()
	next.UI.Theme = a.Theme
	return next
}

func resetState(_ *domain.State, a StateReset) *domain.State {
	if a.State == nil {
		return domain.NewState()
	}
	return a.State.Clone()
}
