// Package cache wraps repositories with a read-through TTL cache.
package cache

import (
	"context"

	"github.com/survivorfc/lastman/internal/domain/competition"
	"github.com/survivorfc/lastman/internal/domain/fixture"
	"github.com/survivorfc/lastman/internal/domain/gameweek"
	"github.com/survivorfc/lastman/internal/domain/player"
	basecache "github.com/survivorfc/lastman/internal/platform/cache"
)

type FixtureRepository struct {
	next  fixture.Repository
	cache *basecache.Store
}

func NewFixtureRepository(next fixture.Repository, cache *basecache.Store) *FixtureRepository {
	return &FixtureRepository{next: next, cache: cache}
}

func (r *FixtureRepository) ListByGameweek(ctx context.Context, edition int, gw gameweek.ID) ([]fixture.Fixture, error) {
	key := fixtureListKey(edition, gw)
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		items, err := r.next.ListByGameweek(ctx, edition, gw)
		if err != nil {
			return nil, err
		}
		return append([]fixture.Fixture(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]fixture.Fixture)
	return append([]fixture.Fixture(nil), items...), nil
}

func (r *FixtureRepository) ReplaceGameweek(ctx context.Context, edition int, gw gameweek.ID, fixtures []fixture.Fixture) error {
	if err := r.next.ReplaceGameweek(ctx, edition, gw, fixtures); err != nil {
		return err
	}
	r.cache.Delete(ctx, fixtureListKey(edition, gw))
	return nil
}

func fixtureListKey(edition int, gw gameweek.ID) string {
	return "fixture:list:" + gameweek.Key(edition, gw)
}

type SettingsRepository struct {
	next  competition.SettingsRepository
	cache *basecache.Store
}

func NewSettingsRepository(next competition.SettingsRepository, cache *basecache.Store) *SettingsRepository {
	return &SettingsRepository{next: next, cache: cache}
}

const settingsKey = "settings:current"

func (r *SettingsRepository) Get(ctx context.Context) (competition.Settings, error) {
	v, err := r.cache.GetOrLoad(ctx, settingsKey, func(ctx context.Context) (any, error) {
		return r.next.Get(ctx)
	})
	if err != nil {
		return competition.Settings{}, err
	}

	settings, _ := v.(competition.Settings)
	return settings, nil
}

func (r *SettingsRepository) Update(ctx context.Context, s competition.Settings) error {
	if err := r.next.Update(ctx, s); err != nil {
		return err
	}
	r.cache.Delete(ctx, settingsKey)
	return nil
}

type PlayerRepository struct {
	next  player.Repository
	cache *basecache.Store
}

func NewPlayerRepository(next player.Repository, cache *basecache.Store) *PlayerRepository {
	return &PlayerRepository{next: next, cache: cache}
}

func (r *PlayerRepository) GetByID(ctx context.Context, playerID string) (player.Player, bool, error) {
	key := "player:id:" + playerID
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetByID(ctx, playerID)
		if err != nil {
			return nil, err
		}
		return cachedPlayerByID{value: item, exists: exists}, nil
	})
	if err != nil {
		return player.Player{}, false, err
	}

	cached, _ := v.(cachedPlayerByID)
	return cached.value, cached.exists, nil
}

func (r *PlayerRepository) List(ctx context.Context) ([]player.Player, error) {
	v, err := r.cache.GetOrLoad(ctx, "player:list", func(ctx context.Context) (any, error) {
		items, err := r.next.List(ctx)
		if err != nil {
			return nil, err
		}
		return append([]player.Player(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]player.Player)
	return append([]player.Player(nil), items...), nil
}

func (r *PlayerRepository) Create(ctx context.Context, p player.Player) error {
	if err := r.next.Create(ctx, p); err != nil {
		return err
	}
	r.cache.Delete(ctx, "player:id:"+p.ID)
	r.cache.Delete(ctx, "player:list")
	return nil
}

// UpdateLives invalidates eagerly so standings replays that follow a lives
// adjustment never read a stale row.
func (r *PlayerRepository) UpdateLives(ctx context.Context, playerID string, lives int, eliminated bool) error {
	if err := r.next.UpdateLives(ctx, playerID, lives, eliminated); err != nil {
		return err
	}
	r.cache.Delete(ctx, "player:id:"+playerID)
	r.cache.Delete(ctx, "player:list")
	return nil
}

type cachedPlayerByID struct {
	value  player.Player
	exists bool
}
