package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/survivorfc/lastman/internal/domain/standings"
)

type StandingsRepository struct {
	mu        sync.RWMutex
	snapshots map[string]standings.Snapshot
}

func NewStandingsRepository() *StandingsRepository {
	return &StandingsRepository{snapshots: make(map[string]standings.Snapshot)}
}

func (r *StandingsRepository) Get(_ context.Context, edition int, gw string) (standings.Snapshot, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	snapshot, ok := r.snapshots[snapshotKey(edition, gw)]
	return snapshot, ok, nil
}

func (r *StandingsRepository) Replace(_ context.Context, snapshot standings.Snapshot) error {
	r.mu.Lock()
	r.snapshots[snapshotKey(snapshot.Edition, snapshot.Gameweek)] = snapshot
	r.mu.Unlock()
	return nil
}

func snapshotKey(edition int, gw string) string {
	return fmt.Sprintf("%d:%s", edition, gw)
}
