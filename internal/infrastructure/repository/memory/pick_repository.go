package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/survivorfc/lastman/internal/domain/gameweek"
	"github.com/survivorfc/lastman/internal/domain/pick"
)

type pickKey struct {
	playerID string
	edition  int
	gameweek gameweek.ID
}

type PickRepository struct {
	mu    sync.Mutex
	picks map[pickKey]pick.Pick
}

func NewPickRepository() *PickRepository {
	return &PickRepository{picks: make(map[pickKey]pick.Pick)}
}

func (r *PickRepository) GetByPlayerAndGameweek(_ context.Context, playerID string, edition int, gw gameweek.ID) (pick.Pick, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.picks[pickKey{playerID: playerID, edition: edition, gameweek: gw}]
	return item, ok, nil
}

func (r *PickRepository) ListByPlayer(_ context.Context, playerID string, edition int) ([]pick.Pick, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]pick.Pick, 0, len(r.picks))
	for key, item := range r.picks {
		if key.playerID == playerID && key.edition == edition {
			out = append(out, item)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return gameweek.Less(out[i].Gameweek, out[j].Gameweek)
	})
	return out, nil
}

func (r *PickRepository) Create(_ context.Context, p pick.Pick) error {
	key := pickKey{playerID: p.PlayerID, edition: p.Edition, gameweek: p.Gameweek}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.picks[key]; exists {
		return pick.ErrSlotTaken
	}
	r.picks[key] = p
	return nil
}

func (r *PickRepository) Update(_ context.Context, p pick.Pick, expectedTeam string) error {
	key := pickKey{playerID: p.PlayerID, edition: p.Edition, gameweek: p.Gameweek}

	r.mu.Lock()
	defer r.mu.Unlock()

	current, exists := r.picks[key]
	if !exists || current.Team != expectedTeam {
		return pick.ErrStale
	}
	r.picks[key] = p
	return nil
}

func (r *PickRepository) Delete(_ context.Context, playerID string, edition int, gw gameweek.ID) error {
	r.mu.Lock()
	delete(r.picks, pickKey{playerID: playerID, edition: edition, gameweek: gw})
	r.mu.Unlock()
	return nil
}

func (r *PickRepository) Move(_ context.Context, from gameweek.ID, p pick.Pick) error {
	r.mu.Lock()
	delete(r.picks, pickKey{playerID: p.PlayerID, edition: p.Edition, gameweek: from})
	r.picks[pickKey{playerID: p.PlayerID, edition: p.Edition, gameweek: p.Gameweek}] = p
	r.mu.Unlock()
	return nil
}
