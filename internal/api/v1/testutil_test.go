package v1_test

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/require"

	v1 "github.com/gosuda/kanban/internal/api/v1"
	"github.com/gosuda/kanban/internal/dispatch"
	"github.com/gosuda/kanban/internal/seed"
)

const (
	launchBoard  = "platform-launch-0"
	launchTodo   = "platform-launch-0-todo-0"
	launchDoing  = "platform-launch-0-doing-1"
	launchDone   = "platform-launch-0-done-2"
	roadmapBoard = "roadmap-2"
)

type mockHydrator struct {
	retryFunc func(ctx context.Context) (string, error)
}

func (m *mockHydrator) Retry(ctx context.Context) (string, error) {
	return m.retryFunc(ctx)
}

// newTestAPI registers every v1 route against a store seeded with the bundled
// sample data.
func newTestAPI(t *testing.T, hydrator v1.Hydrator) (humatest.TestAPI, *dispatch.Store) {
	t.Helper()

	store := dispatch.New(seed.State(), dispatch.WithInvariantCheck(true))
	t.Cleanup(store.Close)

	_, api := humatest.New(t)
	v1.RegisterBoardRoutes(api, store)
	v1.RegisterColumnRoutes(api, store)
	v1.RegisterTaskRoutes(api, store)
	v1.RegisterUIRoutes(api, store, hydrator, seed.State)
	return api, store
}

func decode[T any](t *testing.T, resp *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &out))
	return out
}

// firstTask returns the id of the first task in column.
func firstTask(t *testing.T, store *dispatch.Store, column string) string {
	t.Helper()
	col, ok := store.State().Columns[column]
	require.True(t, ok, "column %s", column)
	require.NotEmpty(t, col.TaskIDs)
	return col.TaskIDs[0]
}
