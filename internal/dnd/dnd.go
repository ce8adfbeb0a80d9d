// Package dnd maps drag-and-drop gestures onto task move actions.
package dnd

import (
	"slices"
	"strings"

	"github.com/gosuda/kanban/internal/domain"
	"github.com/gosuda/kanban/internal/reducer"
)

// Kind is the entity kind encoded in a drag identifier.
type Kind string

const (
	KindTask   Kind = "task"
	KindColumn Kind = "column"
)

const (
	taskPrefix   = string(KindTask) + ":"
	columnPrefix = string(KindColumn) + ":"
)

// DragEnd is a completed drag gesture as reported by a client.
type DragEnd struct {
	ActiveID string `json:"activeId"`
	OverID   string `json:"overId"`
}

func TaskDragID(id string) string   { return taskPrefix + id }
func ColumnDragID(id string) string { return columnPrefix + id }

// ParseDragID splits a drag identifier into its kind and raw id. Unprefixed
// identifiers and empty ids are rejected.
func ParseDragID(s string) (Kind, string, bool) {
	switch {
	case strings.HasPrefix(s, taskPrefix):
		if id := s[len(taskPrefix):]; id != "" {
			return KindTask, id, true
		}
	case strings.HasPrefix(s, columnPrefix):
		if id := s[len(columnPrefix):]; id != "" {
			return KindColumn, id, true
		}
	}
	return "", "", false
}

// ResolveDrop turns a drag of activeID over overID into a move. Dropping on a
// task targets that task's slot; dropping on a column appends to it. It
// reports false when either end cannot be resolved or the task would land
// where it already is.
func ResolveDrop(s *domain.State, activeID, overID string) (reducer.TaskMoved, bool) {
	if s == nil {
		return reducer.TaskMoved{}, false
	}

	kind, taskID, ok := ParseDragID(activeID)
	if !ok || kind != KindTask {
		return reducer.TaskMoved{}, false
	}
	task, ok := s.Tasks[taskID]
	if !ok {
		return reducer.TaskMoved{}, false
	}
	src, ok := s.Columns[task.ColumnID]
	if !ok {
		return reducer.TaskMoved{}, false
	}
	srcIndex := slices.Index(src.TaskIDs, task.ID)

	kind, overRaw, ok := ParseDragID(overID)
	if !ok {
		return reducer.TaskMoved{}, false
	}

	var (
		destColumnID string
		destIndex    int
	)
	switch kind {
	case KindTask:
		over, ok := s.Tasks[overRaw]
		if !ok {
			return reducer.TaskMoved{}, false
		}
		dest, ok := s.Columns[over.ColumnID]
		if !ok {
			return reducer.TaskMoved{}, false
		}
		destIndex = slices.Index(dest.TaskIDs, over.ID)
		if destIndex < 0 {
			return reducer.TaskMoved{}, false
		}
		destColumnID = dest.ID
	case KindColumn:
		dest, ok := s.Columns[overRaw]
		if !ok {
			return reducer.TaskMoved{}, false
		}
		destColumnID = dest.ID
		destIndex = len(dest.TaskIDs)
		if dest.ID == src.ID {
			// the task leaves its slot before it is appended
			destIndex--
		}
	}

	if destColumnID == src.ID && destIndex == srcIndex {
		return reducer.TaskMoved{}, false
	}
	return reducer.TaskMoved{
		TaskID:              task.ID,
		DestinationColumnID: destColumnID,
		Index:               reducer.IntPtr(destIndex),
	}, true
}

// Resolve is ResolveDrop for a DragEnd payload.
func (d DragEnd) Resolve(s *domain.State) (reducer.TaskMoved, bool) {
	return ResolveDrop(s, d.ActiveID, d.OverID)
}
