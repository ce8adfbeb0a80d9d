package v1

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/gosuda/kanban/internal/reducer"
	"github.com/gosuda/kanban/internal/selector"
)

type CreateColumnInput struct {
	BoardID string `path:"boardID" doc:"Board ID"`
	Body    struct {
		ID          string `json:"id,omitempty" maxLength:"128" doc:"Column ID (generated when omitted)"`
		Name        string `json:"name" minLength:"1" maxLength:"100" doc:"Column name"`
		AccentColor string `json:"accentColor,omitempty" pattern:"^#[0-9A-Fa-f]{6}$" doc:"Accent colour as #RRGGBB"`
		Index       *int   `json:"index,omitempty" doc:"Insert position; appended when omitted or out of range"`
	}
}

type UpdateColumnInput struct {
	ColumnID string `path:"columnID" doc:"Column ID"`
	Body     struct {
		Name        *string `json:"name,omitempty" minLength:"1" maxLength:"100" doc:"Column name"`
		AccentColor *string `json:"accentColor,omitempty" pattern:"^#[0-9A-Fa-f]{6}$" doc:"Accent colour as #RRGGBB"`
	}
}

type DeleteColumnInput struct {
	BoardID  string `path:"boardID" doc:"Board ID"`
	ColumnID string `path:"columnID" doc:"Column ID"`
	Target   string `query:"target" doc:"Column that receives the removed column's tasks"`
}

type ColumnMutationOutput struct {
	Body struct {
		Changed bool                   `json:"changed"`
		Board   *selector.BoardPreview `json:"board,omitempty"`
	}
}

func RegisterColumnRoutes(api huma.API, store StateStore) {
	boardResult := func(changed bool, boardID string) *ColumnMutationOutput {
		out := &ColumnMutationOutput{}
		out.Body.Changed = changed
		if bp, ok := selector.Board(store.State(), boardID); ok {
			out.Body.Board = &bp
		}
		return out
	}

	huma.Register(api, huma.Operation{
		OperationID: "create-column",
		Method:      http.MethodPost,
		Path:        "/boards/{boardID}/columns",
		Summary:     "Add a column to a board",
		Tags:        []string{"Columns"},
	}, func(ctx context.Context, input *CreateColumnInput) (*ColumnMutationOutput, error) {
		if _, taken := columnNamed(store.State(), input.BoardID, input.Body.Name); taken {
			return nil, huma.Error422UnprocessableEntity("column name already used on this board")
		}

		res, err := apply(ctx, store, reducer.ColumnCreated{
			BoardID: input.BoardID,
			Column: reducer.NewColumn{
				ID:          idOrNew(input.Body.ID),
				Name:        input.Body.Name,
				AccentColor: input.Body.AccentColor,
			},
			Index: input.Body.Index,
		})
		if err != nil {
			return nil, err
		}
		return boardResult(res.Changed, input.BoardID), nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-column",
		Method:      http.MethodPatch,
		Path:        "/columns/{columnID}",
		Summary:     "Rename or recolour a column",
		Tags:        []string{"Columns"},
	}, func(ctx context.Context, input *UpdateColumnInput) (*ColumnMutationOutput, error) {
		s := store.State()
		col, ok := s.Columns[input.ColumnID]
		if ok && input.Body.Name != nil && *input.Body.Name != col.Name {
			if _, taken := columnNamed(s, col.BoardID, *input.Body.Name); taken {
				return nil, huma.Error422UnprocessableEntity("column name already used on this board")
			}
		}

		res, err := apply(ctx, store, reducer.ColumnUpdated{
			ColumnID: input.ColumnID,
			Changes: reducer.ColumnChanges{
				Name:        input.Body.Name,
				AccentColor: input.Body.AccentColor,
			},
		})
		if err != nil {
			return nil, err
		}
		return boardResult(res.Changed, col.BoardID), nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "delete-column",
		Method:      http.MethodDelete,
		Path:        "/boards/{boardID}/columns/{columnID}",
		Summary:     "Delete a column, rehoming or deleting its tasks",
		Tags:        []string{"Columns"},
	}, func(ctx context.Context, input *DeleteColumnInput) (*ColumnMutationOutput, error) {
		res, err := apply(ctx, store, reducer.ColumnRemoved{
			BoardID:        input.BoardID,
			ColumnID:       input.ColumnID,
			TargetColumnID: input.Target,
		})
		if err != nil {
			return nil, err
		}
		return boardResult(res.Changed, input.BoardID), nil
	})
}
