package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/survivorfc/lastman/internal/platform/logging"
)

func newFixtureService(env *testEnv) *FixtureService {
	return NewFixtureService(env.fixtureRepo, env.settingsRepo, env.deadlines, logging.NewNop())
}

func TestFixtureService_ListByGameweek(t *testing.T) {
	t.Parallel()

	env := newTestEnv(testSettings(), testPlayers(), testFixtures())
	svc := newFixtureService(env)

	fixtures, err := svc.ListByGameweek(context.Background(), "1")
	if err != nil {
		t.Fatalf("ListByGameweek error: %v", err)
	}
	if len(fixtures) != 2 {
		t.Fatalf("fixtures = %d, want 2", len(fixtures))
	}
}

func TestFixtureService_ListByGameweek_DefaultsToActive(t *testing.T) {
	t.Parallel()

	env := newTestEnv(testSettings(), testPlayers(), testFixtures())
	svc := newFixtureService(env)

	fixtures, err := svc.ListByGameweek(context.Background(), "")
	if err != nil {
		t.Fatalf("ListByGameweek error: %v", err)
	}
	if len(fixtures) != 2 {
		t.Fatalf("fixtures = %d, want 2", len(fixtures))
	}
	for _, f := range fixtures {
		if f.Gameweek != "2" {
			t.Fatalf("fixture %s gameweek = %s, want active gameweek 2", f.ID, f.Gameweek)
		}
	}
}

func TestFixtureService_ListByGameweek_InvalidGameweek(t *testing.T) {
	t.Parallel()

	env := newTestEnv(testSettings(), testPlayers(), testFixtures())
	svc := newFixtureService(env)

	if _, err := svc.ListByGameweek(context.Background(), "99"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("error = %v, want ErrInvalidInput", err)
	}
}

func TestFixtureService_Deadline(t *testing.T) {
	t.Parallel()

	env := newTestEnv(testSettings(), testPlayers(), testFixtures())
	svc := newFixtureService(env)

	t.Run("finished gameweek has passed", func(t *testing.T) {
		info, err := svc.Deadline(context.Background(), "1")
		if err != nil {
			t.Fatalf("Deadline error: %v", err)
		}
		if info.Edition != 1 || info.Gameweek != "1" {
			t.Fatalf("unexpected edition/gameweek: %d/%s", info.Edition, info.Gameweek)
		}
		want := time.Date(2026, 8, 15, 12, 30, 0, 0, time.UTC)
		if !info.Deadline.Known || !info.Deadline.At.Equal(want) {
			t.Fatalf("deadline = %s known=%t, want %s", info.Deadline.At, info.Deadline.Known, want)
		}
		if !info.Passed {
			t.Fatal("expected deadline to have passed")
		}
	})

	t.Run("future gameweek is open", func(t *testing.T) {
		info, err := svc.Deadline(context.Background(), "3")
		if err != nil {
			t.Fatalf("Deadline error: %v", err)
		}
		if !info.Deadline.Known {
			t.Fatal("expected a known deadline")
		}
		if info.Passed {
			t.Fatal("did not expect deadline to have passed")
		}
	})

	t.Run("empty means active gameweek", func(t *testing.T) {
		info, err := svc.Deadline(context.Background(), "")
		if err != nil {
			t.Fatalf("Deadline error: %v", err)
		}
		if info.Gameweek != "2" {
			t.Fatalf("gameweek = %s, want active gameweek 2", info.Gameweek)
		}
	})
}
