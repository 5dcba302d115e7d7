package service

import (
	"context"
	"sync"

	"assignment-tracker/internal/storage"
)

// PreferenceService keeps display preferences in their own slots.
type PreferenceService struct {
	store *storage.Store

	mu       sync.Mutex
	darkMode bool
}

func NewPreferenceService(store *storage.Store) *PreferenceService {
	return &PreferenceService{store: store}
}

// Load reads stored preferences, defaulting to light mode.
func (s *PreferenceService) Load(ctx context.Context) {
	dark := storage.Load(ctx, s.store, storage.KeyDarkMode, false)
	s.mu.Lock()
	s.darkMode = dark
	s.mu.Unlock()
}

func (s *PreferenceService) DarkMode() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.darkMode
}

// ToggleDarkMode flips the flag, persists it and returns the new value.
func (s *PreferenceService) ToggleDarkMode(ctx context.Context) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.darkMode = !s.darkMode
	_ = s.store.Save(ctx, storage.KeyDarkMode, s.darkMode)
	return s.darkMode
}
