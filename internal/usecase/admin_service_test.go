package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/survivorfc/lastman/internal/domain/fixture"
	"github.com/survivorfc/lastman/internal/platform/logging"
)

func newAdminService(env *testEnv) *AdminService {
	service := NewAdminService(env.playerRepo, env.fixtureRepo, env.settingsRepo, env.deadlineStore, logging.NewNop())
	service.now = func() time.Time { return testNow }
	return service
}

func TestAdminService_ImportFixtures_InvalidatesDeadline(t *testing.T) {
	t.Parallel()

	env := newTestEnv(testSettings(), testPlayers(), testFixtures())
	service := newAdminService(env)
	ctx := context.Background()

	before, err := env.deadlines.DeadlineFor(ctx, 1, "2")
	if err != nil {
		t.Fatalf("DeadlineFor error: %v", err)
	}

	count, err := service.ImportFixtures(ctx, ImportFixturesInput{
		Gameweek: "2",
		Fixtures: []fixture.Fixture{
			{ID: "fx-new", HomeTeam: "Chelsea", AwayTeam: "Liverpool", Date: "2026-08-21", KickOffTime: "19:45:00"},
		},
	})
	if err != nil {
		t.Fatalf("ImportFixtures error: %v", err)
	}
	if count != 1 {
		t.Fatalf("count = %d", count)
	}

	after, err := env.deadlines.DeadlineFor(ctx, 1, "2")
	if err != nil {
		t.Fatalf("DeadlineFor error: %v", err)
	}
	if after.At.Equal(before.At) {
		t.Fatal("deadline cache was not invalidated by the import")
	}
	want := time.Date(2026, 8, 21, 19, 45, 0, 0, time.UTC)
	if !after.At.Equal(want) {
		t.Fatalf("deadline = %s, want %s", after.At, want)
	}
}

func TestAdminService_ImportFixtures_RejectsIncompleteFixture(t *testing.T) {
	t.Parallel()

	env := newTestEnv(testSettings(), testPlayers(), testFixtures())
	service := newAdminService(env)

	_, err := service.ImportFixtures(context.Background(), ImportFixturesInput{
		Gameweek: "2",
		Fixtures: []fixture.Fixture{{HomeTeam: "Chelsea", Date: "2026-08-21"}},
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestAdminService_UpdateSettings(t *testing.T) {
	t.Parallel()

	env := newTestEnv(testSettings(), testPlayers(), testFixtures())
	service := newAdminService(env)
	ctx := context.Background()

	settings := testSettings()
	settings.ActiveGameweek = "3"
	updated, err := service.UpdateSettings(ctx, settings)
	if err != nil {
		t.Fatalf("UpdateSettings error: %v", err)
	}
	if updated.ActiveGameweek != "3" {
		t.Fatalf("active gameweek = %q", updated.ActiveGameweek)
	}

	settings.ActiveGameweek = "99"
	if _, err := service.UpdateSettings(ctx, settings); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for out-of-range gameweek, got %v", err)
	}
}

func TestAdminService_AdjustLives(t *testing.T) {
	t.Parallel()

	env := newTestEnv(testSettings(), testPlayers(), testFixtures())
	service := newAdminService(env)
	ctx := context.Background()

	row, err := service.AdjustLives(ctx, "pl-alice", 0)
	if err != nil {
		t.Fatalf("AdjustLives error: %v", err)
	}
	if !row.Eliminated || row.Lives != 0 {
		t.Fatalf("expected elimination at zero lives: %+v", row)
	}

	stored, _, _ := env.playerRepo.GetByID(ctx, "pl-alice")
	if !stored.Eliminated {
		t.Fatal("elimination was not persisted")
	}

	if _, err := service.AdjustLives(ctx, "pl-nobody", 1); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
