package persist

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gosuda/kanban/internal/dispatch"
	"github.com/gosuda/kanban/internal/domain"
	"github.com/gosuda/kanban/internal/reducer"
)

func reduceAll(s *domain.State, actions ...reducer.Action) *domain.State {
	for _, a := range actions {
		s = reducer.Reduce(s, a)
	}
	return s
}

func populated() *domain.State {
	return reduceAll(domain.NewState(),
		reducer.BoardCreated{BoardID: "b1", Name: "Board", Columns: []reducer.NewColumn{
			{ID: "todo", Name: "Todo"},
			{ID: "done", Name: "Done", AccentColor: "#E5A449"},
		}},
		reducer.TaskAdded{BoardID: "b1", ColumnID: "todo", Task: reducer.NewTask{
			ID:       "t1",
			Title:    "Ship",
			Subtasks: []domain.Subtask{{Title: "a", IsCompleted: true}, {Title: "b"}},
		}},
		reducer.ThemeSet{Theme: domain.ThemeLight},
		reducer.HydrationRejected{Error: "HTTP 503"},
	)
}

func TestEncodeDecode_RoundTrip(t *testing.T) {
	t.Parallel()

	states := map[string]*domain.State{
		"empty":     domain.NewState(),
		"populated": populated(),
	}
	for name, s := range states {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			data, err := Encode(s)
			require.NoError(t, err)

			got, err := Decode(data)
			require.NoError(t, err)
			if diff := cmp.Diff(s, got); diff != "" {
				t.Errorf("round trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestEncode_Envelope(t *testing.T) {
	t.Parallel()

	data, err := Encode(domain.NewState())
	require.NoError(t, err)
	assert.JSONEq(t, `{"kanban":{
		"boards":{},"boardIds":[],
		"columns":{},"columnIds":[],
		"tasks":{},"taskIds":[],
		"ui":{"activeBoardId":"","theme":"dark","apiHydrationStatus":"idle","hasHydratedFromApi":false}
	}}`, string(data))
}

func TestDecode_InvalidShape(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		blob string
	}{
		{name: "not json", blob: `{{{`},
		{name: "array", blob: `[]`},
		{name: "no envelope", blob: `{"boards":{}}`},
		{name: "null state", blob: `{"kanban":null}`},
		{name: "missing ui", blob: `{"kanban":{"boards":{},"boardIds":[],"columns":{},"columnIds":[],"tasks":{},"taskIds":[]}}`},
		{name: "ids not array", blob: `{"kanban":{"boards":{},"boardIds":{},"columns":{},"columnIds":[],"tasks":{},"taskIds":[],"ui":{}}}`},
		{name: "boards not map", blob: `{"kanban":{"boards":[],"boardIds":[],"columns":{},"columnIds":[],"tasks":{},"taskIds":[],"ui":{}}}`},
		{name: "bad entity", blob: `{"kanban":{"boards":{"b1":{"name":7}},"boardIds":[],"columns":{},"columnIds":[],"tasks":{},"taskIds":[],"ui":{}}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := Decode([]byte(tt.blob))
			require.ErrorIs(t, err, ErrInvalidShape)
		})
	}
}

func TestDecode_DefaultsUnknownUIValues(t *testing.T) {
	t.Parallel()

	s, err := Decode([]byte(`{"kanban":{"boards":{},"boardIds":[],"columns":{},"columnIds":[],"tasks":{},"taskIds":[],"ui":{"theme":"neon","apiHydrationStatus":"??"}}}`))
	require.NoError(t, err)
	assert.Equal(t, domain.ThemeDark, s.UI.Theme)
	assert.Equal(t, domain.HydrationIdle, s.UI.HydrationStatus)
}

type failingStorage struct{ err error }

func (f failingStorage) Get(context.Context, string) ([]byte, error) { return nil, f.err }
func (f failingStorage) Set(context.Context, string, []byte) error   { return f.err }
func (f failingStorage) Close() error                                { return nil }

func seedState() *domain.State {
	s := domain.NewState()
	s.UI.ActiveBoardID = "seeded"
	return s
}

func TestGateway_LoadOrSeed(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("missing key", func(t *testing.T) {
		t.Parallel()
		g := NewGateway(NewMemoryStorage(), "", zerolog.Nop())
		assert.Equal(t, DefaultKey, g.Key())
		assert.Equal(t, "seeded", g.LoadOrSeed(ctx, seedState).UI.ActiveBoardID)
	})

	t.Run("corrupt blob", func(t *testing.T) {
		t.Parallel()
		mem := NewMemoryStorage()
		require.NoError(t, mem.Set(ctx, DefaultKey, []byte(`{"kanban":{"boards":[]}}`)))
		g := NewGateway(mem, "", zerolog.Nop())
		assert.Equal(t, "seeded", g.LoadOrSeed(ctx, seedState).UI.ActiveBoardID)
	})

	t.Run("storage error", func(t *testing.T) {
		t.Parallel()
		g := NewGateway(failingStorage{err: errors.New("disk gone")}, "", zerolog.Nop())
		assert.Equal(t, "seeded", g.LoadOrSeed(ctx, seedState).UI.ActiveBoardID)
	})

	t.Run("stored state wins", func(t *testing.T) {
		t.Parallel()
		g := NewGateway(NewMemoryStorage(), "custom", zerolog.Nop())
		g.Save(ctx, populated())
		got := g.LoadOrSeed(ctx, seedState)
		assert.Equal(t, "b1", got.UI.ActiveBoardID)
		assert.Equal(t, domain.ThemeLight, got.UI.Theme)
	})
}

func TestGateway_LoadResetsLoading(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	g := NewGateway(NewMemoryStorage(), "", zerolog.Nop())
	g.Save(ctx, reducer.Reduce(domain.NewState(), reducer.HydrationPending{}))

	s, ok := g.Load(ctx)
	require.True(t, ok)
	assert.Equal(t, domain.HydrationIdle, s.UI.HydrationStatus)
}

func TestGateway_SaveSwallowsErrors(t *testing.T) {
	t.Parallel()

	g := NewGateway(failingStorage{err: errors.New("quota exceeded")}, "", zerolog.Nop())
	assert.NotPanics(t, func() { g.Save(context.Background(), populated()) })
}

func TestGateway_Listener(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	mem := NewMemoryStorage()
	g := NewGateway(mem, "", zerolog.Nop())

	store := dispatch.New(populated())
	t.Cleanup(store.Close)
	store.Subscribe(g.Listener(ctx))

	_, err := store.Dispatch(ctx, reducer.TaskDeleted{TaskID: "missing"})
	require.NoError(t, err)
	_, err = mem.Get(ctx, DefaultKey)
	require.ErrorIs(t, err, ErrNotFound, "no-ops are not persisted")

	_, err = store.Dispatch(ctx, reducer.TaskDeleted{TaskID: "t1"})
	require.NoError(t, err)

	loaded, ok := g.Load(ctx)
	require.True(t, ok)
	if diff := cmp.Diff(store.State(), loaded); diff != "" {
		t.Errorf("persisted state mismatch (-want +got):\n%s", diff)
	}
}
