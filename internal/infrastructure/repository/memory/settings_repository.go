package memory

import (
	"context"
	"sync"

	"github.com/survivorfc/lastman/internal/domain/competition"
)

type SettingsRepository struct {
	mu       sync.RWMutex
	settings competition.Settings
}

func NewSettingsRepository(settings competition.Settings) *SettingsRepository {
	return &SettingsRepository{settings: settings.WithDefaults()}
}

func (r *SettingsRepository) Get(_ context.Context) (competition.Settings, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.settings, nil
}

func (r *SettingsRepository) Update(_ context.Context, s competition.Settings) error {
	r.mu.Lock()
	r.settings = s
	r.mu.Unlock()
	return nil
}
