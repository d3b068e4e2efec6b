package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/survivorfc/lastman/internal/domain/competition"
	"github.com/survivorfc/lastman/internal/domain/fixture"
	"github.com/survivorfc/lastman/internal/domain/gameweek"
	"github.com/survivorfc/lastman/internal/platform/logging"
)

// GameweekDeadline bundles one gameweek's resolved deadline with whether it
// is already behind the clock.
type GameweekDeadline struct {
	Edition  int
	Gameweek gameweek.ID
	Deadline Deadline
	Passed   bool
}

// FixtureService answers read queries about a gameweek's fixture set.
type FixtureService struct {
	fixtureRepo  fixture.Repository
	settingsRepo competition.SettingsRepository
	deadlines    *DeadlineService
	logger       *logging.Logger
}

func NewFixtureService(
	fixtureRepo fixture.Repository,
	settingsRepo competition.SettingsRepository,
	deadlines *DeadlineService,
	logger *logging.Logger,
) *FixtureService {
	if logger == nil {
		logger = logging.Default()
	}
	return &FixtureService{
		fixtureRepo:  fixtureRepo,
		settingsRepo: settingsRepo,
		deadlines:    deadlines,
		logger:       logger,
	}
}

// ListByGameweek returns the fixture set for rawGameweek. An empty
// rawGameweek means the active gameweek.
func (s *FixtureService) ListByGameweek(ctx context.Context, rawGameweek string) ([]fixture.Fixture, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FixtureService.ListByGameweek")
	defer span.End()

	settings, gw, err := s.resolveGameweek(ctx, rawGameweek)
	if err != nil {
		return nil, err
	}

	fixtures, err := s.fixtureRepo.ListByGameweek(ctx, settings.ActiveEdition, gw)
	if err != nil {
		return nil, fmt.Errorf("list fixtures %s: %w", gameweek.Key(settings.ActiveEdition, gw), err)
	}
	return fixtures, nil
}

// Deadline resolves the pick deadline for rawGameweek.
func (s *FixtureService) Deadline(ctx context.Context, rawGameweek string) (GameweekDeadline, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FixtureService.Deadline")
	defer span.End()

	settings, gw, err := s.resolveGameweek(ctx, rawGameweek)
	if err != nil {
		return GameweekDeadline{}, err
	}

	deadline, err := s.deadlines.DeadlineFor(ctx, settings.ActiveEdition, gw)
	if err != nil {
		return GameweekDeadline{}, err
	}

	return GameweekDeadline{
		Edition:  settings.ActiveEdition,
		Gameweek: gw,
		Deadline: deadline,
		Passed:   s.deadlines.Passed(ctx, settings.ActiveEdition, gw),
	}, nil
}

func (s *FixtureService) resolveGameweek(ctx context.Context, rawGameweek string) (competition.Settings, gameweek.ID, error) {
	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return competition.Settings{}, "", fmt.Errorf("get competition settings: %w", err)
	}
	settings = settings.WithDefaults()

	if strings.TrimSpace(rawGameweek) == "" {
		rawGameweek = settings.ActiveGameweek
	}
	gw, err := gameweek.Parse(rawGameweek, settings.TotalGameweeks, settings.TiebreakEnabled)
	if err != nil {
		return competition.Settings{}, "", fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return settings, gw, nil
}
