package memory

import (
	"context"
	"sync"

	"github.com/survivorfc/lastman/internal/domain/fixture"
	"github.com/survivorfc/lastman/internal/domain/gameweek"
)

type FixtureRepository struct {
	mu            sync.RWMutex
	fixturesByKey map[string][]fixture.Fixture
}

func NewFixtureRepository(fixtures []fixture.Fixture) *FixtureRepository {
	fixturesByKey := make(map[string][]fixture.Fixture)
	for _, item := range fixtures {
		key := gameweek.Key(item.Edition, item.Gameweek)
		fixturesByKey[key] = append(fixturesByKey[key], item)
	}

	return &FixtureRepository{fixturesByKey: fixturesByKey}
}

func (r *FixtureRepository) ListByGameweek(_ context.Context, edition int, gw gameweek.ID) ([]fixture.Fixture, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := r.fixturesByKey[gameweek.Key(edition, gw)]
	out := make([]fixture.Fixture, 0, len(items))
	out = append(out, items...)
	return out, nil
}

func (r *FixtureRepository) ReplaceGameweek(_ context.Context, edition int, gw gameweek.ID, fixtures []fixture.Fixture) error {
	out := make([]fixture.Fixture, 0, len(fixtures))
	out = append(out, fixtures...)

	r.mu.Lock()
	r.fixturesByKey[gameweek.Key(edition, gw)] = out
	r.mu.Unlock()
	return nil
}
