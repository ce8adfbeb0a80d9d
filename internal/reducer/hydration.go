package reducer

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/gosuda/kanban/internal/domain"
)

func hydrationPending(prev *domain.State, _ HydrationPending) *domain.State {
	next := prev.Clone()
	next.UI.HydrationStatus = domain.HydrationLoading
	next.UI.HydrationError = ""
	return next
}

// hydrationFulfilled replaces the entity collections wholesale. UI
// preferences survive; the active board is kept when its id still exists.
func hydrationFulfilled(prev *domain.State, a HydrationFulfilled) *domain.State {
	if a.Dataset == nil {
		return hydrationRejected(prev, HydrationRejected{RequestID: a.RequestID, Error: "empty dataset"})
	}

	next := NormalizeDataset(a.Dataset)
	next.UI = prev.UI
	next.UI.HydrationStatus = domain.HydrationSucceeded
	next.UI.HydrationError = ""
	next.UI.HasHydratedFromAPI = true
	if _, ok := next.Boards[next.UI.ActiveBoardID]; !ok {
		next.UI.ActiveBoardID = ""
		if len(next.BoardIDs) > 0 {
			next.UI.ActiveBoardID = next.BoardIDs[0]
		}
	}
	return next
}

func hydrationRejected(prev *domain.State, a HydrationRejected) *domain.State {
	next := prev.Clone()
	next.UI.HydrationStatus = domain.HydrationFailed
	next.UI.HydrationError = a.Error
	if next.UI.HydrationError == "" {
		next.UI.HydrationError = "unknown error"
	}
	return next
}

// NormalizeDataset converts a positional dataset into normalized entities.
// Ids are derived from slugified names plus position, so the same dataset
// always yields the same ids:
//
//	board   <slug>-<bi>
//	column  <boardID>-<slug>-<ci>
//	task    <columnID>-<slug>-<ti>
//	subtask <taskID>-sub-<si>
//
// Different names can still render the same id ("A" with column "1 x" and
// "A 0" with column "x"); the later entity then gets a "~<n>" suffix, which
// Slugify never emits.
//
// Task status is taken from the owning column, not the payload. The returned
// state has default UI preferences and no active board.
func NormalizeDataset(ds *domain.Dataset) *domain.State {
	s := domain.NewState()
	if ds == nil {
		return s
	}

	for bi, db := range ds.Boards {
		boardID := uniqueID(s.Boards, fmt.Sprintf("%s-%d", Slugify(db.Name), bi))
		board := domain.Board{ID: boardID, Name: db.Name, ColumnIDs: make([]string, 0, len(db.Columns))}

		for ci, dc := range db.Columns {
			colID := uniqueID(s.Columns, fmt.Sprintf("%s-%s-%d", boardID, Slugify(dc.Name), ci))
			col := domain.Column{
				ID:          colID,
				BoardID:     boardID,
				Name:        dc.Name,
				AccentColor: domain.PaletteColor(ci),
				TaskIDs:     make([]string, 0, len(dc.Tasks)),
			}

			for ti, dt := range dc.Tasks {
				taskID := uniqueID(s.Tasks, fmt.Sprintf("%s-%s-%d", colID, Slugify(dt.Title), ti))
				subtasks := make([]domain.Subtask, 0, len(dt.Subtasks))
				for si, dst := range dt.Subtasks {
					subtasks = append(subtasks, domain.Subtask{
						ID:          fmt.Sprintf("%s-sub-%d", taskID, si),
						Title:       dst.Title,
						IsCompleted: dst.IsCompleted,
					})
				}
				s.Tasks[taskID] = domain.Task{
					ID:          taskID,
					BoardID:     boardID,
					ColumnID:    colID,
					Title:       dt.Title,
					Description: dt.Description,
					Status:      dc.Name,
					Subtasks:    subtasks,
				}
				s.TaskIDs = append(s.TaskIDs, taskID)
				col.TaskIDs = append(col.TaskIDs, taskID)
			}

			s.Columns[colID] = col
			s.ColumnIDs = append(s.ColumnIDs, colID)
			board.ColumnIDs = append(board.ColumnIDs, colID)
		}

		s.Boards[boardID] = board
		s.BoardIDs = append(s.BoardIDs, boardID)
	}
	return s
}

// uniqueID returns id, or id~<n> with the smallest n >= 2 not yet in taken.
func uniqueID[V any](taken map[string]V, id string) string {
	if _, ok := taken[id]; !ok {
		return id
	}
	for n := 2; ; n++ {
		next := fmt.Sprintf("%s~%d", id, n)
		if _, ok := taken[next]; !ok {
			return next
		}
	}
}

// Slugify lowercases name and collapses every run of non-alphanumerics into a
// single dash. An empty result becomes "untitled".
func Slugify(name string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	out := strings.TrimSuffix(b.String(), "-")
	if out == "" {
		return "untitled"
	}
	return out
}
