package reducer

import (
	"errors"
	"fmt"

	"github.com/gosuda/kanban/internal/domain"
)

// CheckInvariants verifies the referential invariants of the normalized
// store and returns every violation joined into one error, or nil.
func CheckInvariants(s *domain.State) error {
	if s == nil {
		return errors.New("nil state")
	}
	var errs []error
	add := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	checkOrder := func(kind string, ids []string, has func(string) bool, size int) {
		seen := make(map[string]bool, len(ids))
		for _, id := range ids {
			if !has(id) {
				add("%s order lists unknown id %q", kind, id)
			}
			if seen[id] {
				add("%s order lists %q twice", kind, id)
			}
			seen[id] = true
		}
		if len(seen) != size {
			add("%s order has %d ids, map has %d", kind, len(seen), size)
		}
	}
	checkOrder("board", s.BoardIDs, func(id string) bool {
		_, ok := s.Boards[id]
		return ok
	}, len(s.Boards))
	checkOrder("column", s.ColumnIDs, func(id string) bool {
		_, ok := s.Columns[id]
		return ok
	}, len(s.Columns))
	checkOrder("task", s.TaskIDs, func(id string) bool {
		_, ok := s.Tasks[id]
		return ok
	}, len(s.Tasks))

	columnOwner := map[string]string{}
	for _, b := range s.Boards {
		for _, colID := range b.ColumnIDs {
			col, ok := s.Columns[colID]
			if !ok {
				add("board %q lists missing column %q", b.ID, colID)
				continue
			}
			if col.BoardID != b.ID {
				add("board %q lists column %q owned by %q", b.ID, colID, col.BoardID)
			}
			if owner, dup := columnOwner[colID]; dup {
				add("column %q listed by boards %q and %q", colID, owner, b.ID)
			}
			columnOwner[colID] = b.ID
		}
	}

	taskOwner := map[string]string{}
	for _, c := range s.Columns {
		if _, ok := columnOwner[c.ID]; !ok {
			add("column %q is not listed by board %q", c.ID, c.BoardID)
		}
		for _, taskID := range c.TaskIDs {
			task, ok := s.Tasks[taskID]
			if !ok {
				add("column %q lists missing task %q", c.ID, taskID)
				continue
			}
			if task.ColumnID != c.ID {
				add("column %q lists task %q whose column is %q", c.ID, taskID, task.ColumnID)
			}
			if owner, dup := taskOwner[taskID]; dup {
				add("task %q listed by columns %q and %q", taskID, owner, c.ID)
			}
			taskOwner[taskID] = c.ID
		}
	}

	for _, t := range s.Tasks {
		col, ok := s.Columns[t.ColumnID]
		if !ok {
			add("task %q references missing column %q", t.ID, t.ColumnID)
			continue
		}
		if _, listed := taskOwner[t.ID]; !listed {
			add("task %q is not listed by column %q", t.ID, t.ColumnID)
		}
		if t.BoardID != col.BoardID {
			add("task %q board %q differs from column board %q", t.ID, t.BoardID, col.BoardID)
		}
		if t.Status != col.Name {
			add("task %q status %q differs from column name %q", t.ID, t.Status, col.Name)
		}
	}

	if s.UI.ActiveBoardID != "" {
		if _, ok := s.Boards[s.UI.ActiveBoardID]; !ok {
			add("active board %q does not exist", s.UI.ActiveBoardID)
		}
	}

	return errors.Join(errs...)
}
