package v1

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/gosuda/kanban/internal/dispatch"
	"github.com/gosuda/kanban/internal/domain"
	"github.com/gosuda/kanban/internal/reducer"
)

type GetUIOutput struct {
	Body domain.UIState
}

type GetStateOutput struct {
	Body *domain.State
}

type SetThemeInput struct {
	Body struct {
		Theme domain.Theme `json:"theme" enum:"light,dark" doc:"Colour scheme"`
	}
}

type SetActiveBoardInput struct {
	Body struct {
		BoardID string `json:"boardId" doc:"Board to select; unknown ids are ignored"`
	}
}

type UIMutationOutput struct {
	Body struct {
		Changed bool           `json:"changed"`
		UI      domain.UIState `json:"ui"`
	}
}

type RetryHydrationOutput struct {
	Body struct {
		RequestID string `json:"requestId" doc:"Identifies the fetch in the store's hydration state"`
	}
}

// SeedFunc builds the state a reset restores.
type SeedFunc func() *domain.State

// RegisterUIRoutes registers preference, snapshot and lifecycle routes. A nil
// hydrator or seed omits the routes that need it.
func RegisterUIRoutes(api huma.API, store StateStore, hydrator Hydrator, seed SeedFunc) {
	uiResult := func(res dispatch.Result) *UIMutationOutput {
		out := &UIMutationOutput{}
		out.Body.Changed = res.Changed
		out.Body.UI = store.State().UI
		return out
	}

	huma.Register(api, huma.Operation{
		OperationID: "get-ui",
		Method:      http.MethodGet,
		Path:        "/ui",
		Summary:     "Get UI preferences and hydration status",
		Tags:        []string{"UI"},
	}, func(_ context.Context, _ *struct{}) (*GetUIOutput, error) {
		return &GetUIOutput{Body: store.State().UI}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-state",
		Method:      http.MethodGet,
		Path:        "/state",
		Summary:     "Get the full normalized state",
		Tags:        []string{"UI"},
	}, func(_ context.Context, _ *struct{}) (*GetStateOutput, error) {
		return &GetStateOutput{Body: store.State()}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "set-theme",
		Method:      http.MethodPut,
		Path:        "/ui/theme",
		Summary:     "Set the colour scheme",
		Tags:        []string{"UI"},
	}, func(ctx context.Context, input *SetThemeInput) (*UIMutationOutput, error) {
		res, err := apply(ctx, store, reducer.ThemeSet{Theme: input.Body.Theme})
		if err != nil {
			return nil, err
		}
		return uiResult(res), nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "set-active-board",
		Method:      http.MethodPut,
		Path:        "/ui/active-board",
		Summary:     "Select the active board",
		Tags:        []string{"UI"},
	}, func(ctx context.Context, input *SetActiveBoardInput) (*UIMutationOutput, error) {
		res, err := apply(ctx, store, reducer.ActiveBoardSet{BoardID: input.Body.BoardID})
		if err != nil {
			return nil, err
		}
		return uiResult(res), nil
	})

	if hydrator != nil {
		huma.Register(api, huma.Operation{
			OperationID:   "retry-hydration",
			Method:        http.MethodPost,
			Path:          "/hydration/retry",
			Summary:       "Start a new dataset fetch",
			Tags:          []string{"UI"},
			DefaultStatus: http.StatusAccepted,
		}, func(ctx context.Context, _ *struct{}) (*RetryHydrationOutput, error) {
			requestID, err := hydrator.Retry(ctx)
			if err != nil {
				if errors.Is(err, dispatch.ErrClosed) {
					return nil, huma.Error503ServiceUnavailable("store is shutting down")
				}
				return nil, huma.Error500InternalServerError("failed to start hydration", err)
			}
			out := &RetryHydrationOutput{}
			out.Body.RequestID = requestID
			return out, nil
		})
	}

	if seed != nil {
		huma.Register(api, huma.Operation{
			OperationID: "reset-state",
			Method:      http.MethodPost,
			Path:        "/reset",
			Summary:     "Replace the store with the seed data",
			Tags:        []string{"UI"},
		}, func(ctx context.Context, _ *struct{}) (*ChangedOutput, error) {
			res, err := apply(ctx, store, reducer.StateReset{State: seed()})
			if err != nil {
				return nil, err
			}
			return changed(res), nil
		})
	}
}
