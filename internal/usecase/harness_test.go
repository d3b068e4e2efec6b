package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/survivorfc/lastman/internal/domain/competition"
	"github.com/survivorfc/lastman/internal/domain/fixture"
	"github.com/survivorfc/lastman/internal/domain/gameweek"
	"github.com/survivorfc/lastman/internal/domain/player"
	"github.com/survivorfc/lastman/internal/infrastructure/repository/memory"
	"github.com/survivorfc/lastman/internal/platform/cache"
	"github.com/survivorfc/lastman/internal/platform/logging"
)

// Test clock: gameweek 1 has finished, gameweek 2 and 3 are still open.
var testNow = time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)

type testEnv struct {
	pickRepo      *memory.PickRepository
	playerRepo    *memory.PlayerRepository
	fixtureRepo   *memory.FixtureRepository
	settingsRepo  *memory.SettingsRepository
	standingsRepo *memory.StandingsRepository
	deadlineStore *cache.Store
	statusStore   *cache.Store
	deadlines     *DeadlineService
	picks         *PickService
	autopick      *AutoPickService
	standings     *StandingsService
}

func testSettings() competition.Settings {
	return competition.Settings{
		ActiveEdition:   1,
		ActiveGameweek:  "2",
		TiebreakEnabled: false,
		LivesPerPlayer:  2,
		TotalGameweeks:  3,
	}
}

func testPlayers() []player.Player {
	return []player.Player{
		{ID: "pl-alice", DisplayName: "Alice", Email: "alice@example.com", Lives: 2},
		{ID: "pl-bob", DisplayName: "Bob", Email: "bob@example.com", Lives: 2},
	}
}

func testFixtures() []fixture.Fixture {
	return []fixture.Fixture{
		{ID: "fx-1a", Edition: 1, Gameweek: "1", HomeTeam: "Arsenal", AwayTeam: "Chelsea", Date: "2026-08-15", KickOffTime: "12:30:00", Status: "FT", HomeScore: intPtr(2), AwayScore: intPtr(0)},
		{ID: "fx-1b", Edition: 1, Gameweek: "1", HomeTeam: "Liverpool", AwayTeam: "Everton", Date: "2026-08-15", Status: "FT", HomeScore: intPtr(1), AwayScore: intPtr(1)},
		{ID: "fx-2a", Edition: 1, Gameweek: "2", HomeTeam: "Chelsea", AwayTeam: "Liverpool", Date: "2026-08-22", KickOffTime: "12:30:00"},
		{ID: "fx-2b", Edition: 1, Gameweek: "2", HomeTeam: "Everton", AwayTeam: "Arsenal", Date: "2026-08-22"},
		{ID: "fx-3a", Edition: 1, Gameweek: "3", HomeTeam: "Arsenal", AwayTeam: "Liverpool", Date: "2026-08-29"},
		{ID: "fx-3b", Edition: 1, Gameweek: "3", HomeTeam: "Chelsea", AwayTeam: "Everton", Date: "2026-08-29"},
	}
}

func intPtr(n int) *int { return &n }

func playerEliminated(id string) player.Player {
	return player.Player{ID: id, DisplayName: id, Email: id + "@example.com", Eliminated: true}
}

func newTestEnv(settings competition.Settings, players []player.Player, fixtures []fixture.Fixture) *testEnv {
	env := &testEnv{
		pickRepo:      memory.NewPickRepository(),
		playerRepo:    memory.NewPlayerRepository(players),
		fixtureRepo:   memory.NewFixtureRepository(fixtures),
		settingsRepo:  memory.NewSettingsRepository(settings),
		standingsRepo: memory.NewStandingsRepository(),
		deadlineStore: cache.NewStore(5 * time.Minute),
		statusStore:   cache.NewStore(2 * time.Minute),
	}

	logger := logging.NewNop()
	env.deadlines = NewDeadlineService(env.fixtureRepo, env.deadlineStore, time.UTC, logger)
	env.deadlines.now = func() time.Time { return testNow }

	env.picks = NewPickService(env.pickRepo, env.playerRepo, env.fixtureRepo, env.settingsRepo, env.deadlines, env.statusStore, logger)
	env.picks.now = func() time.Time { return testNow }

	env.autopick = NewAutoPickService(env.pickRepo, env.playerRepo, env.fixtureRepo, env.settingsRepo, env.deadlines, env.statusStore, logger)
	env.autopick.now = func() time.Time { return testNow }

	env.standings = NewStandingsService(env.pickRepo, env.playerRepo, env.fixtureRepo, env.settingsRepo, env.standingsRepo, logger)
	env.standings.now = func() time.Time { return testNow }

	return env
}

// failingFixtureRepository simulates a broken fixture store.
type failingFixtureRepository struct{}

func (failingFixtureRepository) ListByGameweek(context.Context, int, gameweek.ID) ([]fixture.Fixture, error) {
	return nil, fmt.Errorf("store unavailable")
}

func (failingFixtureRepository) ReplaceGameweek(context.Context, int, gameweek.ID, []fixture.Fixture) error {
	return fmt.Errorf("store unavailable")
}
