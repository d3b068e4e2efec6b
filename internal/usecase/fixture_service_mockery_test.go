package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/survivorfc/lastman/internal/domain/competition"
	"github.com/survivorfc/lastman/internal/domain/fixture"
	"github.com/survivorfc/lastman/internal/domain/gameweek"
	competitionmock "github.com/survivorfc/lastman/internal/mocks/domain/competition"
	fixturemock "github.com/survivorfc/lastman/internal/mocks/domain/fixture"
	"github.com/survivorfc/lastman/internal/platform/logging"
)

func TestFixtureService_ListByGameweek_SuccessUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	settingsRepo := competitionmock.NewSettingsRepository(t)
	fixtureRepo := fixturemock.NewRepository(t)

	service := NewFixtureService(
		fixtureRepo,
		settingsRepo,
		NewDeadlineService(fixtureRepo, nil, time.UTC, logging.NewNop()),
		logging.NewNop(),
	)

	expectedFixtures := []fixture.Fixture{
		{
			ID:          "fx-101",
			Edition:     1,
			Gameweek:    "2",
			HomeTeam:    "Everton",
			AwayTeam:    "Fulham",
			Date:        "2026-08-22",
			KickOffTime: "15:00:00",
			Status:      fixture.StatusScheduled,
		},
	}

	settingsRepo.
		On("Get", mock.MatchedBy(func(v context.Context) bool { return v == ctx })).
		Return(competition.Settings{
			ActiveEdition:  1,
			ActiveGameweek: "2",
			LivesPerPlayer: 2,
			TotalGameweeks: 3,
		}, nil).
		Once()
	fixtureRepo.
		On("ListByGameweek", mock.MatchedBy(func(v context.Context) bool { return v == ctx }), 1, gameweek.ID("2")).
		Return(expectedFixtures, nil).
		Once()

	got, err := service.ListByGameweek(ctx, "")
	if err != nil {
		t.Fatalf("list fixtures by gameweek: %v", err)
	}
	if len(got) != len(expectedFixtures) {
		t.Fatalf("unexpected fixture count: got=%d want=%d", len(got), len(expectedFixtures))
	}
	if got[0].ID != expectedFixtures[0].ID {
		t.Fatalf("unexpected fixture id: got=%s want=%s", got[0].ID, expectedFixtures[0].ID)
	}
}

func TestFixtureService_ListByGameweek_RepositoryErrorUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	settingsRepo := competitionmock.NewSettingsRepository(t)
	fixtureRepo := fixturemock.NewRepository(t)

	service := NewFixtureService(
		fixtureRepo,
		settingsRepo,
		NewDeadlineService(fixtureRepo, nil, time.UTC, logging.NewNop()),
		logging.NewNop(),
	)

	repoErr := errors.New("fixtures table unavailable")
	settingsRepo.
		On("Get", mock.Anything).
		Return(competition.Settings{
			ActiveEdition:  1,
			ActiveGameweek: "2",
			LivesPerPlayer: 2,
			TotalGameweeks: 3,
		}, nil).
		Once()
	fixtureRepo.
		On("ListByGameweek", mock.Anything, 1, gameweek.ID("2")).
		Return(nil, repoErr).
		Once()

	_, err := service.ListByGameweek(ctx, "2")
	if !errors.Is(err, repoErr) {
		t.Fatalf("expected repository error, got: %v", err)
	}
	if !strings.Contains(err.Error(), "edition1_gw2") {
		t.Fatalf("expected error to name the gameweek key, got: %v", err)
	}
}
