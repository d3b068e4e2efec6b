package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/survivorfc/lastman/internal/domain/pick"
)

func TestPickService_SetPick(t *testing.T) {
	t.Parallel()

	env := newTestEnv(testSettings(), testPlayers(), testFixtures())
	ctx := context.Background()

	got, err := env.picks.SetPick(ctx, SetPickInput{PlayerID: "pl-alice", Gameweek: "2", Team: "chelsea"})
	if err != nil {
		t.Fatalf("SetPick error: %v", err)
	}
	if got.Team != "Chelsea" {
		t.Fatalf("team = %q, want fixture-set spelling Chelsea", got.Team)
	}
	if got.Autopick {
		t.Fatal("human pick must not be flagged as autopick")
	}

	stored, exists, err := env.pickRepo.GetByPlayerAndGameweek(ctx, "pl-alice", 1, "2")
	if err != nil || !exists {
		t.Fatalf("stored pick missing: exists=%t err=%v", exists, err)
	}
	if stored.Team != "Chelsea" {
		t.Fatalf("stored team = %q", stored.Team)
	}
}

func TestPickService_SetPick_IdempotentSameTeam(t *testing.T) {
	t.Parallel()

	env := newTestEnv(testSettings(), testPlayers(), testFixtures())
	ctx := context.Background()

	first, err := env.picks.SetPick(ctx, SetPickInput{PlayerID: "pl-alice", Gameweek: "2", Team: "Chelsea"})
	if err != nil {
		t.Fatalf("SetPick error: %v", err)
	}

	second, err := env.picks.SetPick(ctx, SetPickInput{PlayerID: "pl-alice", Gameweek: "2", Team: "CHELSEA"})
	if err != nil {
		t.Fatalf("repeat SetPick error: %v", err)
	}
	if !second.AssignedAt.Equal(first.AssignedAt) {
		t.Fatal("same-team set should be a no-op, not a rewrite")
	}
}

func TestPickService_SetPick_ChangeTeam(t *testing.T) {
	t.Parallel()

	env := newTestEnv(testSettings(), testPlayers(), testFixtures())
	ctx := context.Background()

	if _, err := env.picks.SetPick(ctx, SetPickInput{PlayerID: "pl-alice", Gameweek: "2", Team: "Chelsea"}); err != nil {
		t.Fatalf("SetPick error: %v", err)
	}
	got, err := env.picks.SetPick(ctx, SetPickInput{PlayerID: "pl-alice", Gameweek: "2", Team: "Liverpool"})
	if err != nil {
		t.Fatalf("change SetPick error: %v", err)
	}
	if got.Team != "Liverpool" {
		t.Fatalf("team = %q", got.Team)
	}

	picks, err := env.picks.ListPicks(ctx, "pl-alice")
	if err != nil {
		t.Fatalf("ListPicks error: %v", err)
	}
	if len(picks) != 1 {
		t.Fatalf("expected a single pick after change, got %d", len(picks))
	}
}

func TestPickService_SetPick_DeadlinePassed(t *testing.T) {
	t.Parallel()

	env := newTestEnv(testSettings(), testPlayers(), testFixtures())

	_, err := env.picks.SetPick(context.Background(), SetPickInput{PlayerID: "pl-alice", Gameweek: "1", Team: "Arsenal"})
	if !errors.Is(err, ErrDeadlinePassed) {
		t.Fatalf("expected ErrDeadlinePassed, got %v", err)
	}
}

func TestPickService_SetPick_TeamNotInGameweek(t *testing.T) {
	t.Parallel()

	env := newTestEnv(testSettings(), testPlayers(), testFixtures())

	_, err := env.picks.SetPick(context.Background(), SetPickInput{PlayerID: "pl-alice", Gameweek: "2", Team: "Spurs"})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestPickService_SetPick_TeamUsedInClosedGameweek(t *testing.T) {
	t.Parallel()

	env := newTestEnv(testSettings(), testPlayers(), testFixtures())
	ctx := context.Background()

	// Arsenal was burned in gameweek 1, whose deadline has passed.
	if err := env.pickRepo.Create(ctx, pick.Pick{PlayerID: "pl-alice", Edition: 1, Gameweek: "1", Team: "Arsenal", AssignedAt: testNow}); err != nil {
		t.Fatalf("seed pick error: %v", err)
	}

	_, err := env.picks.SetPick(ctx, SetPickInput{PlayerID: "pl-alice", Gameweek: "2", Team: "Arsenal"})
	if !errors.Is(err, ErrTeamAlreadyUsed) {
		t.Fatalf("expected ErrTeamAlreadyUsed, got %v", err)
	}
}

func TestPickService_SetPick_ReleasesTeamFromOpenGameweek(t *testing.T) {
	t.Parallel()

	env := newTestEnv(testSettings(), testPlayers(), testFixtures())
	ctx := context.Background()

	// Chelsea is held in open gameweek 3; re-picking it for gameweek 2 with
	// the release flag moves it.
	if _, err := env.picks.SetPick(ctx, SetPickInput{PlayerID: "pl-alice", Gameweek: "3", Team: "Chelsea"}); err != nil {
		t.Fatalf("seed SetPick error: %v", err)
	}

	got, err := env.picks.SetPick(ctx, SetPickInput{PlayerID: "pl-alice", Gameweek: "2", Team: "Chelsea", Release: true})
	if err != nil {
		t.Fatalf("SetPick error: %v", err)
	}
	if got.Gameweek != "2" || got.Team != "Chelsea" {
		t.Fatalf("unexpected pick %+v", got)
	}

	if _, exists, _ := env.pickRepo.GetByPlayerAndGameweek(ctx, "pl-alice", 1, "3"); exists {
		t.Fatal("gameweek 3 slot should have been released")
	}
}

func TestPickService_SetPick_HeldTeamRequiresReleaseFlag(t *testing.T) {
	t.Parallel()

	env := newTestEnv(testSettings(), testPlayers(), testFixtures())
	ctx := context.Background()

	if _, err := env.picks.SetPick(ctx, SetPickInput{PlayerID: "pl-alice", Gameweek: "3", Team: "Chelsea"}); err != nil {
		t.Fatalf("seed SetPick error: %v", err)
	}

	// Without the release flag the gameweek 3 slot must stay untouched.
	_, err := env.picks.SetPick(ctx, SetPickInput{PlayerID: "pl-alice", Gameweek: "2", Team: "Chelsea"})
	if !errors.Is(err, ErrTeamAlreadyUsed) {
		t.Fatalf("expected ErrTeamAlreadyUsed, got %v", err)
	}

	held, exists, err := env.pickRepo.GetByPlayerAndGameweek(ctx, "pl-alice", 1, "3")
	if err != nil || !exists {
		t.Fatalf("gameweek 3 pick should survive: exists=%t err=%v", exists, err)
	}
	if held.Team != "Chelsea" {
		t.Fatalf("gameweek 3 team = %q, want Chelsea", held.Team)
	}
	if _, exists, _ := env.pickRepo.GetByPlayerAndGameweek(ctx, "pl-alice", 1, "2"); exists {
		t.Fatal("gameweek 2 slot must stay empty after the refused pick")
	}
}

func TestPickService_SetPick_ConflictOnLostRace(t *testing.T) {
	t.Parallel()

	env := newTestEnv(testSettings(), testPlayers(), testFixtures())
	ctx := context.Background()

	if _, err := env.picks.SetPick(ctx, SetPickInput{PlayerID: "pl-alice", Gameweek: "2", Team: "Chelsea"}); err != nil {
		t.Fatalf("SetPick error: %v", err)
	}

	// Another writer swaps the slot between our read and our write.
	if err := env.pickRepo.Update(ctx, pick.Pick{PlayerID: "pl-alice", Edition: 1, Gameweek: "2", Team: "Everton", AssignedAt: testNow}, "Chelsea"); err != nil {
		t.Fatalf("simulated concurrent update error: %v", err)
	}

	err := env.pickRepo.Update(ctx, pick.Pick{PlayerID: "pl-alice", Edition: 1, Gameweek: "2", Team: "Liverpool", AssignedAt: testNow}, "Chelsea")
	if !errors.Is(err, pick.ErrStale) {
		t.Fatalf("expected ErrStale from repository, got %v", err)
	}
}

func TestPickService_RemovePick(t *testing.T) {
	t.Parallel()

	env := newTestEnv(testSettings(), testPlayers(), testFixtures())
	ctx := context.Background()

	if _, err := env.picks.SetPick(ctx, SetPickInput{PlayerID: "pl-alice", Gameweek: "2", Team: "Chelsea"}); err != nil {
		t.Fatalf("SetPick error: %v", err)
	}
	if err := env.picks.RemovePick(ctx, "pl-alice", "2"); err != nil {
		t.Fatalf("RemovePick error: %v", err)
	}
	if _, exists, _ := env.pickRepo.GetByPlayerAndGameweek(ctx, "pl-alice", 1, "2"); exists {
		t.Fatal("pick should be gone")
	}

	if err := env.picks.RemovePick(ctx, "pl-alice", "2"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for empty slot, got %v", err)
	}
}

func TestPickService_StatusForTeam(t *testing.T) {
	t.Parallel()

	env := newTestEnv(testSettings(), testPlayers(), testFixtures())
	ctx := context.Background()

	if err := env.pickRepo.Create(ctx, pick.Pick{PlayerID: "pl-alice", Edition: 1, Gameweek: "1", Team: "Arsenal", AssignedAt: testNow}); err != nil {
		t.Fatalf("seed pick error: %v", err)
	}
	if _, err := env.picks.SetPick(ctx, SetPickInput{PlayerID: "pl-alice", Gameweek: "2", Team: "Chelsea"}); err != nil {
		t.Fatalf("SetPick error: %v", err)
	}
	if _, err := env.picks.SetPick(ctx, SetPickInput{PlayerID: "pl-alice", Gameweek: "3", Team: "Everton"}); err != nil {
		t.Fatalf("SetPick error: %v", err)
	}

	cases := []struct {
		name     string
		gameweek string
		team     string
		want     PickStatus
	}{
		{name: "current pick", gameweek: "2", team: "Chelsea", want: PickStatusCurrent},
		{name: "completed in earlier gameweek", gameweek: "2", team: "Arsenal", want: PickStatusCompleted},
		{name: "held in later gameweek", gameweek: "2", team: "Everton", want: PickStatusFuture},
		{name: "free team in open gameweek", gameweek: "2", team: "Liverpool", want: PickStatusAvailable},
		{name: "free team after deadline", gameweek: "1", team: "Liverpool", want: PickStatusDeadlinePassed},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := env.picks.StatusForTeam(ctx, "pl-alice", tc.gameweek, tc.team)
			if err != nil {
				t.Fatalf("StatusForTeam error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("status = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestPickService_StatusCacheInvalidatedOnWrite(t *testing.T) {
	t.Parallel()

	env := newTestEnv(testSettings(), testPlayers(), testFixtures())
	ctx := context.Background()

	status, err := env.picks.StatusForTeam(ctx, "pl-alice", "2", "Chelsea")
	if err != nil {
		t.Fatalf("StatusForTeam error: %v", err)
	}
	if status != PickStatusAvailable {
		t.Fatalf("status before pick = %q", status)
	}

	if _, err := env.picks.SetPick(ctx, SetPickInput{PlayerID: "pl-alice", Gameweek: "2", Team: "Chelsea"}); err != nil {
		t.Fatalf("SetPick error: %v", err)
	}

	status, err = env.picks.StatusForTeam(ctx, "pl-alice", "2", "Chelsea")
	if err != nil {
		t.Fatalf("StatusForTeam error: %v", err)
	}
	if status != PickStatusCurrent {
		t.Fatalf("status after pick = %q, cache was not invalidated", status)
	}
}
