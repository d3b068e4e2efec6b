package usecase

import (
	"context"
	"testing"

	"github.com/survivorfc/lastman/internal/domain/gameweek"
	"github.com/survivorfc/lastman/internal/domain/pick"
)

func TestChooseAutoPickTeam(t *testing.T) {
	t.Parallel()

	pool := []string{"Arsenal", "Chelsea", "Everton", "Liverpool"}
	sequence := gameweek.Sequence(3, false)

	cases := []struct {
		name  string
		picks []pick.Pick
		gw    gameweek.ID
		want  string
	}{
		{name: "first gameweek starts at front", gw: "1", want: "Arsenal"},
		{
			name:  "rotates one past previous pick",
			picks: []pick.Pick{{Gameweek: "1", Team: "Chelsea"}},
			gw:    "2",
			want:  "Everton",
		},
		{
			name:  "wraps to front after last team",
			picks: []pick.Pick{{Gameweek: "1", Team: "Liverpool"}},
			gw:    "2",
			want:  "Arsenal",
		},
		{
			name:  "missing previous pick starts at front",
			picks: []pick.Pick{},
			gw:    "2",
			want:  "Arsenal",
		},
		{
			name: "skips teams already used",
			picks: []pick.Pick{
				{Gameweek: "1", Team: "Chelsea"},
				{Gameweek: "3", Team: "Everton"},
			},
			gw:   "2",
			want: "Liverpool",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, ok := chooseAutoPickTeam(pool, tc.picks, tc.gw, sequence)
			if !ok {
				t.Fatal("expected a team")
			}
			if got != tc.want {
				t.Fatalf("team = %q, want %q", got, tc.want)
			}
		})
	}

	t.Run("exhausted pool", func(t *testing.T) {
		t.Parallel()

		picks := []pick.Pick{
			{Gameweek: "1", Team: "Arsenal"},
			{Gameweek: "2", Team: "Chelsea"},
		}
		if _, ok := chooseAutoPickTeam([]string{"Arsenal", "Chelsea"}, picks, "3", sequence); ok {
			t.Fatal("expected no team from an exhausted pool")
		}
	})
}

func TestAutoPickService_AssignAutoPick(t *testing.T) {
	t.Parallel()

	env := newTestEnv(testSettings(), testPlayers(), testFixtures())
	ctx := context.Background()

	// Gameweek 1 pick rotates the gameweek 2 assignment past Arsenal.
	if err := env.pickRepo.Create(ctx, pick.Pick{PlayerID: "pl-alice", Edition: 1, Gameweek: "1", Team: "Arsenal", AssignedAt: testNow}); err != nil {
		t.Fatalf("seed pick error: %v", err)
	}

	// Gameweek 2 pool is [Arsenal Chelsea Everton Liverpool].
	got, created, err := env.autopick.AssignAutoPick(ctx, "pl-alice", "2")
	if err != nil {
		t.Fatalf("AssignAutoPick error: %v", err)
	}
	if !created {
		t.Fatal("expected a pick to be created")
	}
	if got.Team != "Chelsea" {
		t.Fatalf("team = %q, want Chelsea", got.Team)
	}
	if !got.Autopick {
		t.Fatal("assigned pick must be flagged autopick")
	}
}

func TestAutoPickService_AssignAutoPick_ExistingPickWins(t *testing.T) {
	t.Parallel()

	env := newTestEnv(testSettings(), testPlayers(), testFixtures())
	ctx := context.Background()

	if err := env.pickRepo.Create(ctx, pick.Pick{PlayerID: "pl-alice", Edition: 1, Gameweek: "2", Team: "Liverpool", AssignedAt: testNow}); err != nil {
		t.Fatalf("seed pick error: %v", err)
	}

	_, created, err := env.autopick.AssignAutoPick(ctx, "pl-alice", "2")
	if err != nil {
		t.Fatalf("AssignAutoPick error: %v", err)
	}
	if created {
		t.Fatal("existing pick must win")
	}

	stored, _, _ := env.pickRepo.GetByPlayerAndGameweek(ctx, "pl-alice", 1, "2")
	if stored.Team != "Liverpool" || stored.Autopick {
		t.Fatalf("human pick was clobbered: %+v", stored)
	}
}

func TestAutoPickService_AssignAutoPick_EmptyPool(t *testing.T) {
	t.Parallel()

	env := newTestEnv(testSettings(), testPlayers(), nil)

	_, _, err := env.autopick.AssignAutoPick(context.Background(), "pl-alice", "2")
	if err == nil {
		t.Fatal("expected error for empty team pool")
	}
}

func TestAutoPickService_SweepActiveGameweek(t *testing.T) {
	t.Parallel()

	settings := testSettings()
	settings.ActiveGameweek = "1" // deadline already passed at testNow
	players := testPlayers()
	players = append(players, playerEliminated("pl-out"))

	env := newTestEnv(settings, players, testFixtures())
	ctx := context.Background()

	// Bob already picked; Alice gets swept; the eliminated player is skipped.
	if err := env.pickRepo.Create(ctx, pick.Pick{PlayerID: "pl-bob", Edition: 1, Gameweek: "1", Team: "Chelsea", AssignedAt: testNow}); err != nil {
		t.Fatalf("seed pick error: %v", err)
	}

	result, err := env.autopick.SweepActiveGameweek(ctx, 2)
	if err != nil {
		t.Fatalf("SweepActiveGameweek error: %v", err)
	}
	if result.PlayerCount != 2 {
		t.Fatalf("player count = %d, want 2 live players", result.PlayerCount)
	}
	if result.AssignedCount != 1 || result.SkippedCount != 1 || result.FailedCount != 0 {
		t.Fatalf("unexpected sweep result: %+v", result)
	}

	assigned, exists, _ := env.pickRepo.GetByPlayerAndGameweek(ctx, "pl-alice", 1, "1")
	if !exists || !assigned.Autopick {
		t.Fatalf("alice should have an autopick, got exists=%t %+v", exists, assigned)
	}
}

func TestAutoPickService_SweepActiveGameweek_BeforeDeadline(t *testing.T) {
	t.Parallel()

	env := newTestEnv(testSettings(), testPlayers(), testFixtures())

	result, err := env.autopick.SweepActiveGameweek(context.Background(), 2)
	if err != nil {
		t.Fatalf("SweepActiveGameweek error: %v", err)
	}
	if result.AssignedCount != 0 || result.PlayerCount != 0 {
		t.Fatalf("sweep before deadline must be a no-op, got %+v", result)
	}
}
