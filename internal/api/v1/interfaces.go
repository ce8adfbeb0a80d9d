package v1

import (
	"context"
	"errors"
	"slices"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"

	"github.com/gosuda/kanban/internal/dispatch"
	"github.com/gosuda/kanban/internal/domain"
	"github.com/gosuda/kanban/internal/reducer"
)

// StateStore abstracts the state container for handler testing.
// *dispatch.Store satisfies this interface.
type StateStore interface {
	Dispatch(ctx context.Context, a reducer.Action) (dispatch.Result, error)
	State() *domain.State
}

// Hydrator abstracts the manual hydration retry for handler testing.
// *hydrate.Controller satisfies this interface.
type Hydrator interface {
	Retry(ctx context.Context) (string, error)
}

// ChangedOutput reports whether a write altered the store. Writes whose
// preconditions no longer hold are accepted and report false.
type ChangedOutput struct {
	Body struct {
		Changed bool `json:"changed"`
	}
}

func changed(res dispatch.Result) *ChangedOutput {
	out := &ChangedOutput{}
	out.Body.Changed = res.Changed
	return out
}

func apply(ctx context.Context, store StateStore, a reducer.Action) (dispatch.Result, error) {
	res, err := store.Dispatch(ctx, a)
	if err != nil {
		if errors.Is(err, dispatch.ErrClosed) {
			return res, huma.Error503ServiceUnavailable("store is shutting down")
		}
		return res, huma.Error500InternalServerError("failed to apply action", err)
	}
	return res, nil
}

// idOrNew keeps a caller-supplied id and generates one otherwise.
func idOrNew(id string) string {
	if id != "" {
		return id
	}
	return uuid.NewString()
}

// columnNamed finds the column of boardID called name.
func columnNamed(s *domain.State, boardID, name string) (domain.Column, bool) {
	b, ok := s.Boards[boardID]
	if !ok {
		return domain.Column{}, false
	}
	for _, id := range b.ColumnIDs {
		if col, ok := s.Columns[id]; ok && col.Name == name {
			return col, true
		}
	}
	return domain.Column{}, false
}

// firstDuplicate returns the first name that appears twice.
func firstDuplicate(names []string) (string, bool) {
	seen := make([]string, 0, len(names))
	for _, n := range names {
		if slices.Contains(seen, n) {
			return n, true
		}
		seen = append(seen, n)
	}
	return "", false
}
