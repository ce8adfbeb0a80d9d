package v1

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/gosuda/kanban/internal/reducer"
	"github.com/gosuda/kanban/internal/selector"
)

type ColumnBody struct {
	ID          string `json:"id,omitempty" maxLength:"128" doc:"Column ID (generated when omitted)"`
	Name        string `json:"name" minLength:"1" maxLength:"100" doc:"Column name, also the status of its tasks"`
	AccentColor string `json:"accentColor,omitempty" pattern:"^#[0-9A-Fa-f]{6}$" doc:"Accent colour as #RRGGBB"`
}

type ListBoardsOutput struct {
	Body []selector.BoardSummary
}

type ListBoardPreviewsOutput struct {
	Body []selector.BoardPreview
}

type GetBoardInput struct {
	BoardID string `path:"boardID" doc:"Board ID"`
}

type GetBoardOutput struct {
	Body selector.BoardPreview
}

type CreateBoardInput struct {
	Body struct {
		ID      string       `json:"id,omitempty" maxLength:"128" doc:"Board ID (generated when omitted)"`
		Name    string       `json:"name" minLength:"1" maxLength:"100" doc:"Board name"`
		Columns []ColumnBody `json:"columns,omitempty" maxItems:"20" doc:"Starter columns"`
	}
}

type UpdateBoardInput struct {
	BoardID string `path:"boardID" doc:"Board ID"`
	Body    struct {
		Name *string `json:"name,omitempty" minLength:"1" maxLength:"100" doc:"Board name"`
	}
}

type DeleteBoardInput struct {
	BoardID string `path:"boardID" doc:"Board ID"`
}

type ReorderColumnsInput struct {
	BoardID string `path:"boardID" doc:"Board ID"`
	Body    struct {
		ColumnIDs []string `json:"columnIds" doc:"Desired column order; unknown and duplicate ids are ignored"`
	}
}

type BoardMutationOutput struct {
	Body struct {
		Changed bool                   `json:"changed"`
		Board   *selector.BoardPreview `json:"board,omitempty"`
	}
}

func RegisterBoardRoutes(api huma.API, store StateStore) {
	views := selector.NewViews()

	boardResult := func(changed bool, boardID string) *BoardMutationOutput {
		out := &BoardMutationOutput{}
		out.Body.Changed = changed
		if bp, ok := selector.Board(store.State(), boardID); ok {
			out.Body.Board = &bp
		}
		return out
	}

	huma.Register(api, huma.Operation{
		OperationID: "list-boards",
		Method:      http.MethodGet,
		Path:        "/boards",
		Summary:     "List boards for the sidebar",
		Tags:        []string{"Boards"},
	}, func(_ context.Context, _ *struct{}) (*ListBoardsOutput, error) {
		return &ListBoardsOutput{Body: views.Sidebar.Get(store.State())}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-board-previews",
		Method:      http.MethodGet,
		Path:        "/boards/previews",
		Summary:     "List every board with its columns and tasks",
		Tags:        []string{"Boards"},
	}, func(_ context.Context, _ *struct{}) (*ListBoardPreviewsOutput, error) {
		return &ListBoardPreviewsOutput{Body: views.Previews.Get(store.State())}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-active-board",
		Method:      http.MethodGet,
		Path:        "/boards/active",
		Summary:     "Get the active board with its columns and tasks",
		Tags:        []string{"Boards"},
	}, func(_ context.Context, _ *struct{}) (*GetBoardOutput, error) {
		bp, ok := selector.ActiveBoard(store.State())
		if !ok {
			return nil, huma.Error404NotFound("no active board")
		}
		return &GetBoardOutput{Body: bp}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-board",
		Method:      http.MethodGet,
		Path:        "/boards/{boardID}",
		Summary:     "Get a board with its columns and tasks",
		Tags:        []string{"Boards"},
	}, func(_ context.Context, input *GetBoardInput) (*GetBoardOutput, error) {
		bp, ok := selector.Board(store.State(), input.BoardID)
		if !ok {
			return nil, huma.Error404NotFound("board not found")
		}
		return &GetBoardOutput{Body: bp}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "create-board",
		Method:      http.MethodPost,
		Path:        "/boards",
		Summary:     "Create a board",
		Tags:        []string{"Boards"},
	}, func(ctx context.Context, input *CreateBoardInput) (*BoardMutationOutput, error) {
		names := make([]string, 0, len(input.Body.Columns))
		columns := make([]reducer.NewColumn, 0, len(input.Body.Columns))
		for _, c := range input.Body.Columns {
			names = append(names, c.Name)
			columns = append(columns, reducer.NewColumn{ID: idOrNew(c.ID), Name: c.Name, AccentColor: c.AccentColor})
		}
		if dup, ok := firstDuplicate(names); ok {
			return nil, huma.Error422UnprocessableEntity("duplicate column name: " + dup)
		}

		boardID := idOrNew(input.Body.ID)
		res, err := apply(ctx, store, reducer.BoardCreated{BoardID: boardID, Name: input.Body.Name, Columns: columns})
		if err != nil {
			return nil, err
		}
		return boardResult(res.Changed, boardID), nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-board",
		Method:      http.MethodPatch,
		Path:        "/boards/{boardID}",
		Summary:     "Rename a board",
		Tags:        []string{"Boards"},
	}, func(ctx context.Context, input *UpdateBoardInput) (*BoardMutationOutput, error) {
		res, err := apply(ctx, store, reducer.BoardUpdated{
			BoardID: input.BoardID,
			Changes: reducer.BoardChanges{Name: input.Body.Name},
		})
		if err != nil {
			return nil, err
		}
		return boardResult(res.Changed, input.BoardID), nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "delete-board",
		Method:      http.MethodDelete,
		Path:        "/boards/{boardID}",
		Summary:     "Delete a board with its columns and tasks",
		Tags:        []string{"Boards"},
	}, func(ctx context.Context, input *DeleteBoardInput) (*ChangedOutput, error) {
		res, err := apply(ctx, store, reducer.BoardRemoved{BoardID: input.BoardID})
		if err != nil {
			return nil, err
		}
		return changed(res), nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "reorder-board-columns",
		Method:      http.MethodPut,
		Path:        "/boards/{boardID}/columns/order",
		Summary:     "Reorder the columns of a board",
		Tags:        []string{"Boards"},
	}, func(ctx context.Context, input *ReorderColumnsInput) (*BoardMutationOutput, error) {
		res, err := apply(ctx, store, reducer.BoardColumnsReordered{
			BoardID:   input.BoardID,
			ColumnIDs: input.Body.ColumnIDs,
		})
		if err != nil {
			return nil, err
		}
		return boardResult(res.Changed, input.BoardID), nil
	})
}
