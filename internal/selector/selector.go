// Package selector builds read-only, denormalized views of the normalized
// store for presentation. Views never alias store slices.
package selector

import (
	"github.com/gosuda/kanban/internal/dnd"
	"github.com/gosuda/kanban/internal/domain"
)

// BoardSummary is a sidebar entry.
type BoardSummary struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Active bool   `json:"active"`
}

type BoardPreview struct {
	ID      string          `json:"id"`
	Name    string          `json:"name"`
	Columns []ColumnPreview `json:"columns"`
}

type ColumnPreview struct {
	ID          string        `json:"id"`
	DragID      string        `json:"dragId"`
	Name        string        `json:"name"`
	AccentColor string        `json:"accentColor"`
	Tasks       []TaskPreview `json:"tasks"`
}

type TaskPreview struct {
	ID                    string           `json:"id"`
	DragID                string           `json:"dragId"`
	ColumnID              string           `json:"columnId"`
	Title                 string           `json:"title"`
	Description           string           `json:"description"`
	Status                string           `json:"status"`
	Subtasks              []domain.Subtask `json:"subtasks"`
	CompletedSubtaskCount int              `json:"completedSubtaskCount"`
	TotalSubtaskCount     int              `json:"totalSubtaskCount"`
}

// StatusOption is a column a task can be moved to from its detail view.
type StatusOption struct {
	ColumnID string `json:"columnId"`
	Name     string `json:"name"`
	Current  bool   `json:"current"`
}

// TaskView is a task together with the columns it can be moved to.
type TaskView struct {
	Task      TaskPreview    `json:"task"`
	BoardID   string         `json:"boardId"`
	BoardName string         `json:"boardName"`
	Statuses  []StatusOption `json:"statuses"`
}

// SidebarBoards lists boards in order as id/name pairs.
func SidebarBoards(s *domain.State) []BoardSummary {
	if s == nil {
		return []BoardSummary{}
	}
	out := make([]BoardSummary, 0, len(s.BoardIDs))
	for _, id := range s.BoardIDs {
		b, ok := s.Boards[id]
		if !ok {
			continue
		}
		out = append(out, BoardSummary{ID: b.ID, Name: b.Name, Active: b.ID == s.UI.ActiveBoardID})
	}
	return out
}

// BoardPreviews builds the full board → column → task tree. Ids listed in an
// order array without a matching entity are skipped.
func BoardPreviews(s *domain.State) []BoardPreview {
	if s == nil {
		return []BoardPreview{}
	}
	out := make([]BoardPreview, 0, len(s.BoardIDs))
	for _, id := range s.BoardIDs {
		if bp, ok := Board(s, id); ok {
			out = append(out, bp)
		}
	}
	return out
}

// Board builds the preview of a single board.
func Board(s *domain.State, boardID string) (BoardPreview, bool) {
	if s == nil {
		return BoardPreview{}, false
	}
	b, ok := s.Boards[boardID]
	if !ok {
		return BoardPreview{}, false
	}
	bp := BoardPreview{ID: b.ID, Name: b.Name, Columns: make([]ColumnPreview, 0, len(b.ColumnIDs))}
	for _, colID := range b.ColumnIDs {
		col, ok := s.Columns[colID]
		if !ok {
			continue
		}
		cp := ColumnPreview{ID: col.ID, DragID: dnd.ColumnDragID(col.ID), Name: col.Name, AccentColor: col.AccentColor, Tasks: make([]TaskPreview, 0, len(col.TaskIDs))}
		for _, taskID := range col.TaskIDs {
			task, ok := s.Tasks[taskID]
			if !ok {
				continue
			}
			cp.Tasks = append(cp.Tasks, taskPreview(task))
		}
		bp.Columns = append(bp.Columns, cp)
	}
	return bp, true
}

// ActiveBoard returns the preview of the active board, if any.
func ActiveBoard(s *domain.State) (BoardPreview, bool) {
	if s == nil {
		return BoardPreview{}, false
	}
	return Board(s, s.UI.ActiveBoardID)
}

// TaskDetail returns a task with the status options of its board.
func TaskDetail(s *domain.State, taskID string) (TaskView, bool) {
	if s == nil {
		return TaskView{}, false
	}
	task, ok := s.Tasks[taskID]
	if !ok {
		return TaskView{}, false
	}
	detail := TaskView{Task: taskPreview(task), BoardID: task.BoardID, Statuses: []StatusOption{}}
	if b, ok := s.Boards[task.BoardID]; ok {
		detail.BoardName = b.Name
		for _, colID := range b.ColumnIDs {
			col, ok := s.Columns[colID]
			if !ok {
				continue
			}
			detail.Statuses = append(detail.Statuses, StatusOption{ColumnID: col.ID, Name: col.Name, Current: col.ID == task.ColumnID})
		}
	}
	return detail, true
}

func taskPreview(t domain.Task) TaskPreview {
	return TaskPreview{
		ID:                    t.ID,
		DragID:                dnd.TaskDragID(t.ID),
		ColumnID:              t.ColumnID,
		Title:                 t.Title,
		Description:           t.Description,
		Status:                t.Status,
		Subtasks:              domain.CloneSubtasks(t.Subtasks),
		CompletedSubtaskCount: t.CompletedSubtasks(),
		TotalSubtaskCount:     len(t.Subtasks),
	}
}
