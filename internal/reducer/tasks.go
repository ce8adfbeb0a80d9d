package reducer

import (
	"fmt"
	"slices"

	"github.com/gosuda/kanban/internal/domain"
)

func addTask(prev *domain.State, a TaskAdded) *domain.State {
	if a.Task.ID == "" {
		return prev
	}
	if _, exists := prev.Tasks[a.Task.ID]; exists {
		return prev
	}
	if _, ok := prev.Boards[a.BoardID]; !ok {
		return prev
	}
	col, ok := prev.Columns[a.ColumnID]
	if !ok || col.BoardID != a.BoardID {
		return prev
	}

	next := prev.Clone()
	col = next.Columns[a.ColumnID]
	col.TaskIDs = insertAt(col.TaskIDs, a.Task.ID, a.Index)
	next.Columns[col.ID] = col

	next.Tasks[a.Task.ID] = domain.Task{
		ID:          a.Task.ID,
		BoardID:     a.BoardID,
		ColumnID:    col.ID,
		Title:       a.Task.Title,
		Description: a.Task.Description,
		Status:      col.Name,
		Subtasks:    normalizeSubtasks(a.Task.ID, a.Task.Subtasks),
	}
	next.TaskIDs = append(next.TaskIDs, a.Task.ID)
	return next
}

// updateTask merges the supplied fields. Column membership never changes
// here, so a status that differs from the owning column's name is dropped.
func updateTask(prev *domain.State, a TaskUpdated) *domain.State {
	if _, ok := prev.Tasks[a.TaskID]; !ok {
		return prev
	}
	c := a.Changes
	if c.Title == nil && c.Description == nil && c.Status == nil && c.Subtasks == nil {
		return prev
	}

	next := prev.Clone()
	task := next.Tasks[a.TaskID]
	if c.Title != nil {
		task.Title = *c.Title
	}
	if c.Description != nil {
		task.Description = *c.Description
	}
	if c.Subtasks != nil {
		task.Subtasks = normalizeSubtasks(task.ID, c.Subtasks)
	}
	if col, ok := next.Columns[task.ColumnID]; ok {
		task.Status = col.Name
	}
	next.Tasks[task.ID] = task
	return next
}

func deleteTask(prev *domain.State, a TaskDeleted) *domain.State {
	task, ok := prev.Tasks[a.TaskID]
	if !ok {
		return prev
	}

	next := prev.Clone()
	removeTask(next, task)
	return next
}

// removeTask drops task from every index it appears in. next must be a
// private clone.
func removeTask(next *domain.State, task domain.Task) {
	if col, ok := next.Columns[task.ColumnID]; ok {
		col.TaskIDs = removeID(col.TaskIDs, task.ID)
		next.Columns[col.ID] = col
	}
	delete(next.Tasks, task.ID)
	next.TaskIDs = removeID(next.TaskIDs, task.ID)
}

// moveTask removes the task from its source column and inserts it into the
// destination at Index. The remove/insert sequence runs even when source and
// destination coincide, so reapplying the same move is structurally a no-op.
func moveTask(prev *domain.State, a TaskMoved) *domain.State {
	task, ok := prev.Tasks[a.TaskID]
	if !ok {
		return prev
	}
	if _, ok := prev.Columns[a.DestinationColumnID]; !ok {
		return prev
	}

	next := prev.Clone()
	if src, ok := next.Columns[task.ColumnID]; ok {
		src.TaskIDs = removeID(src.TaskIDs, task.ID)
		next.Columns[src.ID] = src
	}

	dst := next.Columns[a.DestinationColumnID]
	dst.TaskIDs = insertAt(removeID(dst.TaskIDs, task.ID), task.ID, a.Index)
	next.Columns[dst.ID] = dst

	task = next.Tasks[task.ID]
	task.ColumnID = dst.ID
	task.BoardID = dst.BoardID
	task.Status = dst.Name
	next.Tasks[task.ID] = task
	return next
}

func toggleSubtask(prev *domain.State, a SubtaskToggled) *domain.State {
	task, ok := prev.Tasks[a.TaskID]
	if !ok {
		return prev
	}
	i := slices.IndexFunc(task.Subtasks, func(st domain.Subtask) bool { return st.ID == a.SubtaskID })
	if i < 0 {
		return prev
	}

	next := prev.Clone()
	task = next.Tasks[a.TaskID]
	task.Subtasks[i].IsCompleted = !task.Subtasks[i].IsCompleted
	next.Tasks[task.ID] = task
	return next
}

// normalizeSubtasks copies in and assigns ids to subtasks that arrived
// without one.
func normalizeSubtasks(taskID string, in []domain.Subtask) []domain.Subtask {
	out := domain.CloneSubtasks(in)
	seen := make(map[string]bool, len(out))
	for _, st := range out {
		if st.ID != "" {
			seen[st.ID] = true
		}
	}
	n := 0
	for i := range out {
		if out[i].ID != "" {
			continue
		}
		for {
			id := fmt.Sprintf("%s-sub-%d", taskID, n)
			n++
			if !seen[id] {
				out[i].ID = id
				seen[id] = true
				break
			}
		}
	}
	return out
}
