package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sourcegraph/conc/pool"
	"github.com/survivorfc/lastman/internal/domain/competition"
	"github.com/survivorfc/lastman/internal/domain/fixture"
	"github.com/survivorfc/lastman/internal/domain/gameweek"
	"github.com/survivorfc/lastman/internal/domain/pick"
	"github.com/survivorfc/lastman/internal/domain/player"
	"github.com/survivorfc/lastman/internal/domain/standings"
	"github.com/survivorfc/lastman/internal/platform/logging"
)

const (
	pointsPerWin  = 3
	pointsPerDraw = 1
)

// StandingsService computes the competition table by replaying every
// player's picks against finished fixtures from gameweek one onward.
type StandingsService struct {
	pickRepo      pick.Repository
	playerRepo    player.Repository
	fixtureRepo   fixture.Repository
	settingsRepo  competition.SettingsRepository
	standingsRepo standings.Repository
	logger        *logging.Logger
	now           func() time.Time
	maxWorkers    int
}

func NewStandingsService(
	pickRepo pick.Repository,
	playerRepo player.Repository,
	fixtureRepo fixture.Repository,
	settingsRepo competition.SettingsRepository,
	standingsRepo standings.Repository,
	logger *logging.Logger,
) *StandingsService {
	if logger == nil {
		logger = logging.Default()
	}
	return &StandingsService{
		pickRepo:      pickRepo,
		playerRepo:    playerRepo,
		fixtureRepo:   fixtureRepo,
		settingsRepo:  settingsRepo,
		standingsRepo: standingsRepo,
		logger:        logger,
		now:           time.Now,
		maxWorkers:    8,
	}
}

// Standings replays picks up to rawUpto inclusive and returns the sorted
// table. An empty rawUpto means the active gameweek.
func (s *StandingsService) Standings(ctx context.Context, rawUpto string) ([]standings.Row, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StandingsService.Standings")
	defer span.End()

	settings, upto, err := s.resolveUpto(ctx, rawUpto)
	if err != nil {
		return nil, err
	}
	return s.compute(ctx, settings, upto)
}

// Refresh recomputes the table, persists it as the snapshot for upto, and
// writes each player's remaining lives back to the player record.
func (s *StandingsService) Refresh(ctx context.Context, rawUpto string) (standings.Snapshot, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StandingsService.Refresh")
	defer span.End()

	settings, upto, err := s.resolveUpto(ctx, rawUpto)
	if err != nil {
		return standings.Snapshot{}, err
	}

	rows, err := s.compute(ctx, settings, upto)
	if err != nil {
		return standings.Snapshot{}, err
	}

	snapshot := standings.Snapshot{
		Edition:    settings.ActiveEdition,
		Gameweek:   string(upto),
		Rows:       rows,
		ComputedAt: s.now(),
	}
	if err := s.standingsRepo.Replace(ctx, snapshot); err != nil {
		return standings.Snapshot{}, fmt.Errorf("replace standings snapshot: %w", err)
	}

	for _, row := range rows {
		if err := s.playerRepo.UpdateLives(ctx, row.PlayerID, row.Lives, row.Eliminated); err != nil {
			return standings.Snapshot{}, fmt.Errorf("update lives player=%s: %w", row.PlayerID, err)
		}
	}

	s.logger.InfoContext(ctx, "standings refreshed",
		"edition", settings.ActiveEdition,
		"gameweek", string(upto),
		"players", len(rows),
	)
	return snapshot, nil
}

// Snapshot returns the persisted table for rawUpto, falling back to a fresh
// computation when none has been stored yet.
func (s *StandingsService) Snapshot(ctx context.Context, rawUpto string) (standings.Snapshot, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StandingsService.Snapshot")
	defer span.End()

	settings, upto, err := s.resolveUpto(ctx, rawUpto)
	if err != nil {
		return standings.Snapshot{}, err
	}

	snapshot, exists, err := s.standingsRepo.Get(ctx, settings.ActiveEdition, string(upto))
	if err != nil {
		return standings.Snapshot{}, fmt.Errorf("get standings snapshot: %w", err)
	}
	if exists {
		return snapshot, nil
	}

	rows, err := s.compute(ctx, settings, upto)
	if err != nil {
		return standings.Snapshot{}, err
	}
	return standings.Snapshot{
		Edition:    settings.ActiveEdition,
		Gameweek:   string(upto),
		Rows:       rows,
		ComputedAt: s.now(),
	}, nil
}

func (s *StandingsService) resolveUpto(ctx context.Context, rawUpto string) (competition.Settings, gameweek.ID, error) {
	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return competition.Settings{}, "", fmt.Errorf("get competition settings: %w", err)
	}
	settings = settings.WithDefaults()

	if strings.TrimSpace(rawUpto) == "" {
		rawUpto = settings.ActiveGameweek
	}
	upto, err := gameweek.Parse(rawUpto, settings.TotalGameweeks, settings.TiebreakEnabled)
	if err != nil {
		return competition.Settings{}, "", fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return settings, upto, nil
}

func (s *StandingsService) compute(ctx context.Context, settings competition.Settings, upto gameweek.ID) ([]standings.Row, error) {
	sequence := gameweek.Sequence(settings.TotalGameweeks, settings.TiebreakEnabled)
	rounds, ok := gameweek.UpTo(upto, sequence)
	if !ok {
		return nil, fmt.Errorf("%w: gameweek %s is not part of this edition", ErrInvalidInput, upto)
	}

	players, err := s.playerRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}
	if len(players) == 0 {
		return []standings.Row{}, nil
	}

	fixturesByRound := make(map[gameweek.ID][]fixture.Fixture, len(rounds))
	for _, round := range rounds {
		items, err := s.fixtureRepo.ListByGameweek(ctx, settings.ActiveEdition, round)
		if err != nil {
			return nil, fmt.Errorf("list fixtures %s: %w", gameweek.Key(settings.ActiveEdition, round), err)
		}
		fixturesByRound[round] = items
	}

	workers := pool.NewWithResults[standings.Row]().WithContext(ctx).WithMaxGoroutines(s.maxWorkers)
	for _, row := range players {
		row := row
		workers.Go(func(ctx context.Context) (standings.Row, error) {
			return s.replayPlayer(ctx, settings, row, rounds, fixturesByRound, upto)
		})
	}

	rows, err := workers.Wait()
	if err != nil {
		return nil, err
	}

	standings.Sort(rows)
	return rows, nil
}

// replayPlayer walks the rounds in order applying win, draw, and loss rules.
// A player whose lives hit zero is eliminated and the rest of the replay is
// frozen for them.
func (s *StandingsService) replayPlayer(
	ctx context.Context,
	settings competition.Settings,
	row player.Player,
	rounds []gameweek.ID,
	fixturesByRound map[gameweek.ID][]fixture.Fixture,
	upto gameweek.ID,
) (standings.Row, error) {
	picks, err := s.pickRepo.ListByPlayer(ctx, row.ID, settings.ActiveEdition)
	if err != nil {
		return standings.Row{}, fmt.Errorf("list picks player=%s: %w", row.ID, err)
	}
	pickByRound := make(map[gameweek.ID]pick.Pick, len(picks))
	for _, item := range picks {
		pickByRound[item.Gameweek] = item
	}

	out := standings.Row{
		PlayerID:    row.ID,
		DisplayName: row.DisplayName,
		Lives:       settings.LivesPerPlayer,
	}
	if current, ok := pickByRound[upto]; ok {
		out.CurrentPick = current.Team
	}

	for _, round := range rounds {
		if out.Eliminated {
			break
		}

		chosen, ok := pickByRound[round]
		if !ok {
			continue
		}

		outcome := fixture.OutcomeNone
		for _, item := range fixturesByRound[round] {
			if result := item.OutcomeFor(chosen.Team); result != fixture.OutcomeNone {
				outcome = result
				break
			}
		}

		switch outcome {
		case fixture.OutcomeWin:
			out.Points += pointsPerWin
		case fixture.OutcomeDraw:
			out.Points += pointsPerDraw
			out.Lives--
		case fixture.OutcomeLoss:
			out.Lives--
		}

		if out.Lives <= 0 {
			out.Lives = 0
			out.Eliminated = true
		}
	}

	return out, nil
}
