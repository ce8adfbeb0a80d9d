package reducer

import (
	"slices"

	"github.com/gosuda/kanban/internal/domain"
)

func createBoard(prev *domain.State, a BoardCreated) *domain.State {
	if a.BoardID == "" {
		return prev
	}
	if _, exists := prev.Boards[a.BoardID]; exists {
		return prev
	}

	next := prev.Clone()
	board := domain.Board{ID: a.BoardID, Name: a.Name, ColumnIDs: []string{}}
	for _, nc := range a.Columns {
		if nc.ID == "" {
			continue
		}
		if _, exists := next.Columns[nc.ID]; exists {
			continue
		}
		next.Columns[nc.ID] = newColumn(a.BoardID, nc)
		next.ColumnIDs = append(next.ColumnIDs, nc.ID)
		board.ColumnIDs = append(board.ColumnIDs, nc.ID)
	}
	next.Boards[board.ID] = board
	next.BoardIDs = append(next.BoardIDs, board.ID)

	if next.UI.ActiveBoardID == "" {
		next.UI.ActiveBoardID = board.ID
	}
	return next
}

// deleteBoard cascades from the board to its columns and from each column to
// its tasks.
func deleteBoard(prev *domain.State, a BoardRemoved) *domain.State {
	board, ok := prev.Boards[a.BoardID]
	if !ok {
		return prev
	}

	next := prev.Clone()
	for _, colID := range board.ColumnIDs {
		removeColumnCascade(next, colID)
	}
	delete(next.Boards, board.ID)

	pos := slices.Index(next.BoardIDs, board.ID)
	next.BoardIDs = removeID(next.BoardIDs, board.ID)

	if next.UI.ActiveBoardID == board.ID {
		next.UI.ActiveBoardID = successor(next.BoardIDs, pos)
	}
	return next
}

// successor picks the board that took position pos after a removal, or the
// one before it when the removed board was last.
func successor(ids []string, pos int) string {
	switch {
	case len(ids) == 0:
		return ""
	case pos >= 0 && pos < len(ids):
		return ids[pos]
	default:
		return ids[len(ids)-1]
	}
}

func updateBoard(prev *domain.State, a BoardUpdated) *domain.State {
	board, ok := prev.Boards[a.BoardID]
	if !ok || a.Changes.Name == nil {
		return prev
	}

	next := prev.Clone()
	board = next.Boards[board.ID]
	board.Name = *a.Changes.Name
	next.Boards[board.ID] = board
	return next
}

// reorderBoardColumns keeps the requested order for ids that exist and belong
// to the board (first occurrence wins), then appends the board's remaining
// columns in their previous order.
func reorderBoardColumns(prev *domain.State, a BoardColumnsReordered) *domain.State {
	board, ok := prev.Boards[a.BoardID]
	if !ok {
		return prev
	}

	owned := make(map[string]bool, len(board.ColumnIDs))
	for _, id := range board.ColumnIDs {
		owned[id] = true
	}

	ordered := make([]string, 0, len(board.ColumnIDs))
	seen := make(map[string]bool, len(board.ColumnIDs))
	for _, id := range a.ColumnIDs {
		col, exists := prev.Columns[id]
		if !exists || col.BoardID != board.ID || !owned[id] || seen[id] {
			continue
		}
		seen[id] = true
		ordered = append(ordered, id)
	}
	for _, id := range board.ColumnIDs {
		if !seen[id] {
			seen[id] = true
			ordered = append(ordered, id)
		}
	}

	next := prev.Clone()
	board = next.Boards[board.ID]
	board.ColumnIDs = ordered
	next.Boards[board.ID] = board
	return next
}
