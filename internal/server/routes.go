package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/go-chi/chi/v5"

	v1 "github.com/gosuda/kanban/internal/api/v1"
	"github.com/gosuda/kanban/internal/api/ws"
	"github.com/gosuda/kanban/internal/hydrate"
	"github.com/gosuda/kanban/internal/seed"
)

func registerAPIRoutes(api huma.API, store v1.StateStore, hydrator v1.Hydrator) {
	v1.RegisterBoardRoutes(api, store)
	v1.RegisterColumnRoutes(api, store)
	v1.RegisterTaskRoutes(api, store)
	v1.RegisterUIRoutes(api, store, hydrator, seed.State)
}

func registerWSRoutes(r chi.Router, hub *ws.Hub) {
	r.Get("/board", hub.ServeBoard)
}

// serveDataset returns the bundled dataset after an optional ?delay=<ms>,
// capped at hydrate.MaxDelay.
func serveDataset(w http.ResponseWriter, r *http.Request) {
	if raw := r.URL.Query().Get("delay"); raw != "" {
		ms, err := strconv.Atoi(raw)
		if err != nil {
			http.Error(w, `{"title":"Bad Request","status":400,"detail":"delay must be an integer number of milliseconds"}`, http.StatusBadRequest)
			return
		}

		if d := hydrate.ClampDelay(time.Duration(ms) * time.Millisecond); d > 0 {
			timer := time.NewTimer(d)
			defer timer.Stop()
			select {
			case <-timer.C:
			case <-r.Context().Done():
				return
			}
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(seed.JSON())
}
