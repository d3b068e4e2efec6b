package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/survivorfc/lastman/internal/domain/player"
)

type PlayerRepository struct {
	mu      sync.RWMutex
	players map[string]player.Player
}

func NewPlayerRepository(players []player.Player) *PlayerRepository {
	byID := make(map[string]player.Player, len(players))
	for _, item := range players {
		byID[item.ID] = item
	}

	return &PlayerRepository{players: byID}
}

func (r *PlayerRepository) GetByID(_ context.Context, playerID string) (player.Player, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.players[playerID]
	return item, ok, nil
}

func (r *PlayerRepository) List(_ context.Context) ([]player.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]player.Player, 0, len(r.players))
	for _, item := range r.players {
		out = append(out, item)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DisplayName < out[j].DisplayName
	})
	return out, nil
}

func (r *PlayerRepository) Create(_ context.Context, p player.Player) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.players[p.ID]; exists {
		return fmt.Errorf("player %s already exists", p.ID)
	}
	for _, item := range r.players {
		if strings.EqualFold(item.Email, p.Email) {
			return player.ErrEmailTaken
		}
	}
	r.players[p.ID] = p
	return nil
}

func (r *PlayerRepository) UpdateLives(_ context.Context, playerID string, lives int, eliminated bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.players[playerID]
	if !ok {
		return fmt.Errorf("player %s not found", playerID)
	}
	item.Lives = lives
	item.Eliminated = eliminated
	item.UpdatedAt = time.Now()
	r.players[playerID] = item
	return nil
}
