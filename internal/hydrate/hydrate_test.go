package hydrate

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/gosuda/kanban/internal/dispatch"
	"github.com/gosuda/kanban/internal/domain"
	"github.com/gosuda/kanban/internal/reducer"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const validDataset = `{"boards":[{"name":"Road Map","columns":[
	{"name":"Now","tasks":[{"title":"Ship","description":"","status":"Now","subtasks":[{"title":"a","isCompleted":false}]}]},
	{"name":"Later","tasks":[]}
]}]}`

// ---------------------------------------------------------------------------
// ValidateDataset
// ---------------------------------------------------------------------------

func TestValidateDataset(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		raw     string
		wantErr string
	}{
		{name: "valid", raw: validDataset},
		{name: "empty boards", raw: `{"boards":[]}`},
		{name: "malformed", raw: `{`, wantErr: "malformed JSON"},
		{name: "root array", raw: `[]`, wantErr: "root: expected object"},
		{name: "boards missing", raw: `{}`, wantErr: "boards: expected array"},
		{name: "board name", raw: `{"boards":[{"name":1,"columns":[]}]}`, wantErr: "boards[0].name: expected string"},
		{name: "board not object", raw: `{"boards":["x"]}`, wantErr: "boards[0]: expected object"},
		{name: "columns null", raw: `{"boards":[{"name":"b","columns":null}]}`, wantErr: "boards[0].columns: expected array"},
		{
			name:    "task description",
			raw:     `{"boards":[{"name":"b","columns":[{"name":"c","tasks":[{"title":"t","status":"c","subtasks":[]}]}]}]}`,
			wantErr: "boards[0].columns[0].tasks[0].description: expected string",
		},
		{
			name: "subtask flag",
			raw: `{"boards":[{"name":"b","columns":[{"name":"c","tasks":[],"x":1},{"name":"d","tasks":[
				{"title":"t","description":"","status":"d","subtasks":[
					{"title":"a","isCompleted":true},{"title":"b","isCompleted":false},{"title":"c","isCompleted":"yes"}
				]}]}]}]}`,
			wantErr: "boards[0].columns[1].tasks[0].subtasks[2].isCompleted: expected boolean",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ds, err := ValidateDataset([]byte(tt.raw))
			if tt.wantErr != "" {
				require.ErrorIs(t, err, ErrInvalidDataset)
				assert.Contains(t, err.Error(), tt.wantErr)
				assert.Nil(t, ds)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, ds)
		})
	}
}

// ---------------------------------------------------------------------------
// Client
// ---------------------------------------------------------------------------

func TestClient_Fetch(t *testing.T) {
	t.Parallel()

	var gotDelay atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotDelay.Store(r.URL.Query().Get("delay"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(validDataset))
	}))
	t.Cleanup(srv.Close)

	ds, err := NewClient(srv.URL+"/data.json", WithHTTPClient(srv.Client()), WithDelay(time.Minute)).Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, ds.Boards, 1)
	assert.Equal(t, "Road Map", ds.Boards[0].Name)
	assert.Equal(t, "10000", gotDelay.Load(), "delay is clamped")
}

func TestClient_FetchNoDelayParam(t *testing.T) {
	t.Parallel()

	var rawQuery atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rawQuery.Store(r.URL.RawQuery)
		_, _ = w.Write([]byte(`{"boards":[]}`))
	}))
	t.Cleanup(srv.Close)

	_, err := NewClient(srv.URL, WithHTTPClient(srv.Client())).Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "", rawQuery.Load())
}

func TestClient_FetchStatus(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	t.Cleanup(srv.Close)

	_, err := NewClient(srv.URL, WithHTTPClient(srv.Client())).Fetch(context.Background())
	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusServiceUnavailable, statusErr.Code)
	assert.Contains(t, err.Error(), "503")
}

func TestClient_FetchInvalidShape(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"boards":{}}`))
	}))
	t.Cleanup(srv.Close)

	_, err := NewClient(srv.URL, WithHTTPClient(srv.Client())).Fetch(context.Background())
	require.ErrorIs(t, err, ErrInvalidDataset)
}

func TestClampDelay(t *testing.T) {
	t.Parallel()

	assert.Equal(t, time.Duration(0), ClampDelay(-time.Second))
	assert.Equal(t, 250*time.Millisecond, ClampDelay(250*time.Millisecond))
	assert.Equal(t, MaxDelay, ClampDelay(time.Hour))
}

// ---------------------------------------------------------------------------
// Controller
// ---------------------------------------------------------------------------

type fetchFunc func(ctx context.Context) (*domain.Dataset, error)

func (f fetchFunc) Fetch(ctx context.Context) (*domain.Dataset, error) { return f(ctx) }

func dataset(name string) *domain.Dataset {
	return &domain.Dataset{Boards: []domain.DatasetBoard{{Name: name, Columns: []domain.DatasetColumn{{Name: "Todo"}}}}}
}

func newStore(t *testing.T) *dispatch.Store {
	t.Helper()
	s := dispatch.New(domain.NewState())
	t.Cleanup(s.Close)
	return s
}

func TestController_EnsureHydrated(t *testing.T) {
	t.Parallel()

	store := newStore(t)
	var calls atomic.Int32
	c := NewController(store, fetchFunc(func(context.Context) (*domain.Dataset, error) {
		calls.Add(1)
		return dataset("Remote"), nil
	}), time.Second, zerolog.Nop())

	assert.True(t, c.EnsureHydrated(context.Background()))
	assert.False(t, c.EnsureHydrated(context.Background()), "second call is guarded")
	c.Wait()

	assert.False(t, c.EnsureHydrated(context.Background()), "succeeded is terminal")
	assert.Equal(t, int32(1), calls.Load())

	ui := store.State().UI
	assert.Equal(t, domain.HydrationSucceeded, ui.HydrationStatus)
	assert.True(t, ui.HasHydratedFromAPI)
	assert.Equal(t, "remote-0", ui.ActiveBoardID)
}

func TestController_ConcurrentEnsureStartsOnce(t *testing.T) {
	t.Parallel()

	store := newStore(t)
	var calls atomic.Int32
	c := NewController(store, fetchFunc(func(context.Context) (*domain.Dataset, error) {
		calls.Add(1)
		return dataset("Remote"), nil
	}), time.Second, zerolog.Nop())

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.EnsureHydrated(context.Background())
		}()
	}
	wg.Wait()
	c.Wait()

	assert.Equal(t, int32(1), calls.Load())
}

func TestController_FailureThenRetry(t *testing.T) {
	t.Parallel()

	store := newStore(t)
	var fail atomic.Bool
	fail.Store(true)
	c := NewController(store, fetchFunc(func(context.Context) (*domain.Dataset, error) {
		if fail.Load() {
			return nil, errors.New("connection refused")
		}
		return dataset("Recovered"), nil
	}), time.Second, zerolog.Nop())

	require.True(t, c.EnsureHydrated(context.Background()))
	c.Wait()

	ui := store.State().UI
	assert.Equal(t, domain.HydrationFailed, ui.HydrationStatus)
	assert.Contains(t, ui.HydrationError, "connection refused")
	assert.False(t, c.EnsureHydrated(context.Background()), "failed needs an explicit retry")

	fail.Store(false)
	id, err := c.Retry(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	c.Wait()

	ui = store.State().UI
	assert.Equal(t, domain.HydrationSucceeded, ui.HydrationStatus)
	assert.Empty(t, ui.HydrationError)
}

func TestController_LaterCompletionWins(t *testing.T) {
	t.Parallel()

	store := newStore(t)
	release := make(chan struct{})
	var n atomic.Int32
	c := NewController(store, fetchFunc(func(context.Context) (*domain.Dataset, error) {
		if n.Add(1) == 1 {
			<-release
			return dataset("Slow"), nil
		}
		return dataset("Fast"), nil
	}), 5*time.Second, zerolog.Nop())

	_, err := c.Retry(context.Background())
	require.NoError(t, err)
	_, err = c.Retry(context.Background())
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		_, ok := store.State().Boards["fast-0"]
		return ok
	}, time.Second, 5*time.Millisecond)

	close(release)
	c.Wait()

	s := store.State()
	assert.Contains(t, s.Boards, "slow-0")
	assert.NotContains(t, s.Boards, "fast-0")
}

func TestController_KeepsThemeAndRespectsCallerCancel(t *testing.T) {
	t.Parallel()

	store := newStore(t)
	_, err := store.Dispatch(context.Background(), reducer.ThemeSet{Theme: domain.ThemeLight})
	require.NoError(t, err)

	c := NewController(store, fetchFunc(func(ctx context.Context) (*domain.Dataset, error) {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(20 * time.Millisecond):
			return dataset("Remote"), nil
		}
	}), time.Second, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	require.True(t, c.EnsureHydrated(ctx))
	cancel()
	c.Wait()

	ui := store.State().UI
	assert.Equal(t, domain.HydrationSucceeded, ui.HydrationStatus, "fetch outlives the triggering request")
	assert.Equal(t, domain.ThemeLight, ui.Theme)
}

func TestController_Timeout(t *testing.T) {
	t.Parallel()

	store := newStore(t)
	c := NewController(store, fetchFunc(func(ctx context.Context) (*domain.Dataset, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}), 10*time.Millisecond, zerolog.Nop())

	require.True(t, c.EnsureHydrated(context.Background()))
	c.Wait()

	ui := store.State().UI
	assert.Equal(t, domain.HydrationFailed, ui.HydrationStatus)
	assert.Contains(t, ui.HydrationError, context.DeadlineExceeded.Error())
}
