package memory

import (
	"time"

	"github.com/survivorfc/lastman/internal/domain/competition"
	"github.com/survivorfc/lastman/internal/domain/fixture"
	"github.com/survivorfc/lastman/internal/domain/player"
)

const SeedEdition = 1

// SeedSettings describes a short demo competition for memory mode.
func SeedSettings() competition.Settings {
	return competition.Settings{
		ActiveEdition:   SeedEdition,
		ActiveGameweek:  "1",
		TiebreakEnabled: true,
		LivesPerPlayer:  2,
		TotalGameweeks:  3,
	}
}

func SeedPlayers() []player.Player {
	now := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	return []player.Player{
		{ID: "pl-alice", DisplayName: "Alice Morgan", Email: "alice@example.com", Lives: 2, Paid: true, CreatedAt: now, UpdatedAt: now},
		{ID: "pl-bob", DisplayName: "Bob Carter", Email: "bob@example.com", Lives: 2, Paid: true, CreatedAt: now, UpdatedAt: now},
		{ID: "pl-cora", DisplayName: "Cora Singh", Email: "cora@example.com", Lives: 2, Paid: false, CreatedAt: now, UpdatedAt: now},
	}
}

func SeedFixtures() []fixture.Fixture {
	return []fixture.Fixture{
		{
			ID:          "fx-001",
			Edition:     SeedEdition,
			Gameweek:    "1",
			HomeTeam:    "Arsenal",
			AwayTeam:    "Chelsea",
			Date:        "2026-08-15",
			KickOffTime: "12:30:00",
			Status:      fixture.StatusScheduled,
		},
		{
			ID:       "fx-002",
			Edition:  SeedEdition,
			Gameweek: "1",
			HomeTeam: "Liverpool",
			AwayTeam: "Everton",
			Date:     "2026-08-15",
			Status:   fixture.StatusScheduled,
		},
		{
			ID:          "fx-003",
			Edition:     SeedEdition,
			Gameweek:    "1",
			HomeTeam:    "Spurs",
			AwayTeam:    "West Ham",
			Date:        "2026-08-16",
			KickOffTime: "14:00:00",
			Status:      fixture.StatusScheduled,
		},
		{
			ID:          "fx-004",
			Edition:     SeedEdition,
			Gameweek:    "2",
			HomeTeam:    "Chelsea",
			AwayTeam:    "Liverpool",
			Date:        "2026-08-22",
			KickOffTime: "12:30:00",
			Status:      fixture.StatusScheduled,
		},
		{
			ID:       "fx-005",
			Edition:  SeedEdition,
			Gameweek: "2",
			HomeTeam: "Everton",
			AwayTeam: "Spurs",
			Date:     "2026-08-22",
			Status:   fixture.StatusScheduled,
		},
		{
			ID:       "fx-006",
			Edition:  SeedEdition,
			Gameweek: "3",
			HomeTeam: "West Ham",
			AwayTeam: "Arsenal",
			Date:     "2026-08-29",
			Status:   fixture.StatusScheduled,
		},
	}
}
