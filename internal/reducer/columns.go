package reducer

import (
	"slices"

	"github.com/gosuda/kanban/internal/domain"
)

func newColumn(boardID string, nc NewColumn) domain.Column {
	color := nc.AccentColor
	if color == "" {
		color = domain.DefaultAccentColor
	}
	return domain.Column{
		ID:          nc.ID,
		BoardID:     boardID,
		Name:        nc.Name,
		AccentColor: color,
		TaskIDs:     []string{},
	}
}

func createColumn(prev *domain.State, a ColumnCreated) *domain.State {
	if _, ok := prev.Boards[a.BoardID]; !ok || a.Column.ID == "" {
		return prev
	}
	if _, exists := prev.Columns[a.Column.ID]; exists {
		return prev
	}

	next := prev.Clone()
	next.Columns[a.Column.ID] = newColumn(a.BoardID, a.Column)
	next.ColumnIDs = append(next.ColumnIDs, a.Column.ID)

	board := next.Boards[a.BoardID]
	board.ColumnIDs = insertAt(board.ColumnIDs, a.Column.ID, a.Index)
	next.Boards[board.ID] = board
	return next
}

// deleteColumn rehomes the column's tasks to a fallback sibling (the
// requested target when valid, else the first remaining sibling). Without a
// sibling the tasks are deleted with the column.
func deleteColumn(prev *domain.State, a ColumnRemoved) *domain.State {
	board, ok := prev.Boards[a.BoardID]
	if !ok {
		return prev
	}
	col, ok := prev.Columns[a.ColumnID]
	if !ok || col.BoardID != board.ID || !slices.Contains(board.ColumnIDs, col.ID) {
		return prev
	}

	next := prev.Clone()
	fallback, hasFallback := fallbackColumn(next, board, col.ID, a.TargetColumnID)
	if hasFallback {
		for _, taskID := range col.TaskIDs {
			task, ok := next.Tasks[taskID]
			if !ok {
				continue
			}
			task.ColumnID = fallback.ID
			task.BoardID = fallback.BoardID
			task.Status = fallback.Name
			next.Tasks[task.ID] = task
			fallback.TaskIDs = append(removeID(fallback.TaskIDs, task.ID), task.ID)
		}
		next.Columns[fallback.ID] = fallback
		delete(next.Columns, col.ID)
		next.ColumnIDs = removeID(next.ColumnIDs, col.ID)
	} else {
		removeColumnCascade(next, col.ID)
	}

	board = next.Boards[board.ID]
	board.ColumnIDs = removeID(board.ColumnIDs, col.ID)
	next.Boards[board.ID] = board
	return next
}

func fallbackColumn(s *domain.State, board domain.Board, removedID, targetID string) (domain.Column, bool) {
	if targetID != "" && targetID != removedID {
		if target, ok := s.Columns[targetID]; ok && target.BoardID == board.ID && slices.Contains(board.ColumnIDs, targetID) {
			return target, true
		}
	}
	for _, id := range board.ColumnIDs {
		if id == removedID {
			continue
		}
		if sibling, ok := s.Columns[id]; ok {
			return sibling, true
		}
	}
	return domain.Column{}, false
}

// removeColumnCascade deletes a column and every task it lists. The caller is
// responsible for detaching the column from its board. next must be a
// private clone.
func removeColumnCascade(next *domain.State, columnID string) {
	col, ok := next.Columns[columnID]
	if !ok {
		return
	}
	for _, taskID := range col.TaskIDs {
		delete(next.Tasks, taskID)
		next.TaskIDs = removeID(next.TaskIDs, taskID)
	}
	delete(next.Columns, columnID)
	next.ColumnIDs = removeID(next.ColumnIDs, columnID)
}

// updateColumn applies a rename or recolour. A rename rewrites the status of
// every task in the column.
func updateColumn(prev *domain.State, a ColumnUpdated) *domain.State {
	col, ok := prev.Columns[a.ColumnID]
	if !ok || (a.Changes.Name == nil && a.Changes.AccentColor == nil) {
		return prev
	}

	next := prev.Clone()
	col = next.Columns[col.ID]
	if a.Changes.AccentColor != nil {
		col.AccentColor = *a.Changes.AccentColor
	}
	if a.Changes.Name != nil {
		col.Name = *a.Changes.Name
		for _, taskID := range col.TaskIDs {
			if task, ok := next.Tasks[taskID]; ok {
				task.Status = col.Name
				next.Tasks[taskID] = task
			}
		}
	}
	next.Columns[col.ID] = col
	return next
}
