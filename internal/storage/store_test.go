package storage_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"assignment-tracker/internal/model"
	"assignment-tracker/internal/repository"
	"assignment-tracker/internal/storage"
)

func newSQLiteStore(t *testing.T) *storage.Store {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := repository.NewDB(dsn, zerolog.Nop())
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return storage.NewStore(repository.NewSlotRepository(db), zerolog.Nop())
}

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newSQLiteStore(t)

	tasks := []model.Task{
		{ID: "a", Title: `He said "hi"`, Category: "English", DueDate: "2026-11-30", Priority: model.PriorityHigh, CreatedAt: "2026-10-17T15:04:05.000Z"},
		{ID: "b", Title: "Quiz", Priority: model.PriorityLow, Completed: true, CreatedAt: "2026-10-16T08:00:00.000Z"},
	}
	require.NoError(t, store.Save(ctx, storage.KeyAssignments, tasks))

	got := storage.Load(ctx, store, storage.KeyAssignments, []model.Task{})
	assert.Equal(t, tasks, got)

	tasks = tasks[:1]
	require.NoError(t, store.Save(ctx, storage.KeyAssignments, tasks))
	assert.Equal(t, tasks, storage.Load(ctx, store, storage.KeyAssignments, []model.Task{}))
}

func TestStoreLoadMissingReturnsFallback(t *testing.T) {
	store := newSQLiteStore(t)
	got := storage.Load(context.Background(), store, storage.KeyDarkMode, true)
	assert.True(t, got)
}

type stubBackend struct {
	value  string
	getErr error
	putErr error
	puts   map[string]string
}

func (s *stubBackend) Get(context.Context, string) (string, error) {
	return s.value, s.getErr
}

func (s *stubBackend) Put(_ context.Context, key, value string) error {
	if s.putErr != nil {
		return s.putErr
	}
	if s.puts == nil {
		s.puts = make(map[string]string)
	}
	s.puts[key] = value
	return nil
}

func TestStoreLoadFallbacks(t *testing.T) {
	ctx := context.Background()
	fallback := []model.Task{}

	tests := []struct {
		name    string
		backend *stubBackend
	}{
		{"absent", &stubBackend{getErr: storage.ErrSlotNotFound}},
		{"read failure", &stubBackend{getErr: errors.New("disk on fire")}},
		{"corrupt", &stubBackend{value: `[{"id":`}},
		{"wrong shape", &stubBackend{value: `{"id":"a"}`}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := storage.NewStore(tt.backend, zerolog.Nop())
			assert.Equal(t, fallback, storage.Load(ctx, store, storage.KeyAssignments, fallback))
		})
	}
}

func TestStoreSaveErrors(t *testing.T) {
	ctx := context.Background()

	failing := &stubBackend{putErr: errors.New("read-only")}
	err := storage.NewStore(failing, zerolog.Nop()).Save(ctx, storage.KeyDarkMode, true)
	assert.ErrorIs(t, err, failing.putErr)

	ok := &stubBackend{}
	store := storage.NewStore(ok, zerolog.Nop())
	assert.Error(t, store.Save(ctx, "bad", func() {}))
	assert.Empty(t, ok.puts)

	require.NoError(t, store.Save(ctx, storage.KeyDarkMode, false))
	assert.Equal(t, "false", ok.puts[storage.KeyDarkMode])
}
