package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"assignment-tracker/internal/model"
	"assignment-tracker/internal/storage"
)

var errBackendDown = errors.New("backend down")

// memBackend is an in-memory storage.Backend that can be told to fail.
type memBackend struct {
	mu       sync.Mutex
	slots    map[string]string
	failPut  bool
	failGet  bool
	putCalls int
}

func newMemBackend() *memBackend {
	return &memBackend{slots: make(map[string]string)}
}

func (m *memBackend) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failGet {
		return "", errBackendDown
	}
	v, ok := m.slots[key]
	if !ok {
		return "", storage.ErrSlotNotFound
	}
	return v, nil
}

func (m *memBackend) Put(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.putCalls++
	if m.failPut {
		return errBackendDown
	}
	m.slots[key] = value
	return nil
}

var testNow = time.Date(2026, time.October, 17, 15, 4, 5, 0, time.UTC)

func newTestService(t *testing.T, backend *memBackend) *TaskService {
	t.Helper()
	seq := 0
	store := storage.NewStore(backend, zerolog.Nop())
	return NewTaskService(store, zerolog.Nop(),
		WithClock(func() time.Time { return testNow }),
		WithIDGenerator(func() string {
			seq++
			return fmt.Sprintf("task-%d", seq)
		}),
	)
}

func titles(tasks []model.Task) []string {
	out := make([]string, len(tasks))
	for i, task := range tasks {
		out[i] = task.Title
	}
	return out
}
