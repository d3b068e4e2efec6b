package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/survivorfc/lastman/internal/domain/competition"
	"github.com/survivorfc/lastman/internal/domain/fixture"
	"github.com/survivorfc/lastman/internal/domain/gameweek"
	"github.com/survivorfc/lastman/internal/domain/pick"
	"github.com/survivorfc/lastman/internal/domain/player"
	"github.com/survivorfc/lastman/internal/platform/cache"
	"github.com/survivorfc/lastman/internal/platform/logging"
)

type SweepResult struct {
	Gameweek      string `json:"gameweek"`
	PlayerCount   int    `json:"player_count"`
	AssignedCount int    `json:"assigned_count"`
	SkippedCount  int    `json:"skipped_count"`
	FailedCount   int    `json:"failed_count"`
	WorkerCount   int    `json:"worker_count"`
}

// AutoPickService assigns picks to players who missed the deadline. Teams
// rotate through the gameweek's sorted pool, starting one past the player's
// previous pick.
type AutoPickService struct {
	pickRepo     pick.Repository
	playerRepo   player.Repository
	fixtureRepo  fixture.Repository
	settingsRepo competition.SettingsRepository
	deadlines    *DeadlineService
	statusStore  *cache.Store
	logger       *logging.Logger
	now          func() time.Time
}

func NewAutoPickService(
	pickRepo pick.Repository,
	playerRepo player.Repository,
	fixtureRepo fixture.Repository,
	settingsRepo competition.SettingsRepository,
	deadlines *DeadlineService,
	statusStore *cache.Store,
	logger *logging.Logger,
) *AutoPickService {
	if logger == nil {
		logger = logging.Default()
	}
	return &AutoPickService{
		pickRepo:     pickRepo,
		playerRepo:   playerRepo,
		fixtureRepo:  fixtureRepo,
		settingsRepo: settingsRepo,
		deadlines:    deadlines,
		statusStore:  statusStore,
		logger:       logger,
		now:          time.Now,
	}
}

// AssignAutoPick fills one player's empty slot for gw. A pick that already
// exists wins silently, so racing a late human pick is safe.
func (s *AutoPickService) AssignAutoPick(ctx context.Context, playerID string, gw gameweek.ID) (pick.Pick, bool, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AutoPickService.AssignAutoPick")
	defer span.End()

	playerID = strings.TrimSpace(playerID)
	if playerID == "" {
		return pick.Pick{}, false, fmt.Errorf("%w: player id is required", ErrInvalidInput)
	}
	if gw == "" {
		return pick.Pick{}, false, fmt.Errorf("%w: gameweek is required", ErrInvalidInput)
	}

	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return pick.Pick{}, false, fmt.Errorf("get competition settings: %w", err)
	}
	settings = settings.WithDefaults()

	if _, exists, err := s.pickRepo.GetByPlayerAndGameweek(ctx, playerID, settings.ActiveEdition, gw); err != nil {
		return pick.Pick{}, false, fmt.Errorf("get pick: %w", err)
	} else if exists {
		return pick.Pick{}, false, nil
	}

	fixtures, err := s.fixtureRepo.ListByGameweek(ctx, settings.ActiveEdition, gw)
	if err != nil {
		return pick.Pick{}, false, fmt.Errorf("list fixtures %s: %w", gameweek.Key(settings.ActiveEdition, gw), err)
	}
	pool := fixture.Teams(fixtures)
	if len(pool) == 0 {
		return pick.Pick{}, false, fmt.Errorf("%w: no teams to auto-pick from for gameweek %s", ErrDependencyUnavailable, gw)
	}

	picks, err := s.pickRepo.ListByPlayer(ctx, playerID, settings.ActiveEdition)
	if err != nil {
		return pick.Pick{}, false, fmt.Errorf("list picks: %w", err)
	}

	team, ok := chooseAutoPickTeam(pool, picks, gw, gameweek.Sequence(settings.TotalGameweeks, settings.TiebreakEnabled))
	if !ok {
		return pick.Pick{}, false, fmt.Errorf("%w: player %s has used every team in the pool", ErrDependencyUnavailable, playerID)
	}

	next := pick.Pick{
		PlayerID:   playerID,
		Edition:    settings.ActiveEdition,
		Gameweek:   gw,
		Team:       team,
		Autopick:   true,
		AssignedAt: s.now(),
	}

	err = s.pickRepo.Create(ctx, next)
	if errors.Is(err, pick.ErrSlotTaken) {
		// A human pick landed between the read and the write. Theirs wins.
		return pick.Pick{}, false, nil
	}
	if err != nil {
		return pick.Pick{}, false, fmt.Errorf("create auto pick: %w", err)
	}

	if s.statusStore != nil {
		s.statusStore.DeletePrefix(ctx, "pickstatus:"+playerID+":")
	}
	return next, true, nil
}

// SweepActiveGameweek auto-picks for every live player without a pick in the
// active gameweek, once its deadline has passed. Work fans out over a
// bounded pool.
func (s *AutoPickService) SweepActiveGameweek(ctx context.Context, maxWorkers int) (SweepResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AutoPickService.SweepActiveGameweek")
	defer span.End()

	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return SweepResult{}, fmt.Errorf("get competition settings: %w", err)
	}
	settings = settings.WithDefaults()

	gw, err := gameweek.Parse(settings.ActiveGameweek, settings.TotalGameweeks, settings.TiebreakEnabled)
	if err != nil {
		return SweepResult{}, fmt.Errorf("%w: active gameweek: %v", ErrInvalidInput, err)
	}

	result := SweepResult{Gameweek: string(gw)}
	if !s.deadlines.Passed(ctx, settings.ActiveEdition, gw) {
		return result, nil
	}

	players, err := s.playerRepo.List(ctx)
	if err != nil {
		return SweepResult{}, fmt.Errorf("list players: %w", err)
	}

	targets := make([]player.Player, 0, len(players))
	for _, row := range players {
		if row.Eliminated {
			continue
		}
		targets = append(targets, row)
	}
	result.PlayerCount = len(targets)
	if len(targets) == 0 {
		return result, nil
	}

	workerCount := normalizeSweepWorkerCount(maxWorkers, len(targets))
	result.WorkerCount = workerCount

	pool, err := ants.NewPool(workerCount)
	if err != nil {
		return SweepResult{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var assigned, skipped, failed atomic.Int32
	var workers sync.WaitGroup
	for _, target := range targets {
		target := target
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()

			_, created, err := s.AssignAutoPick(ctx, target.ID, gw)
			switch {
			case err != nil:
				failed.Add(1)
				s.logger.ErrorContext(ctx, "auto pick failed",
					"player_id", target.ID,
					"gameweek", string(gw),
					"error", err,
				)
			case created:
				assigned.Add(1)
			default:
				skipped.Add(1)
			}
		}); err != nil {
			workers.Done()
			return SweepResult{}, fmt.Errorf("submit sweep task to worker pool: %w", err)
		}
	}
	workers.Wait()

	result.AssignedCount = int(assigned.Load())
	result.SkippedCount = int(skipped.Load())
	result.FailedCount = int(failed.Load())
	return result, nil
}

// chooseAutoPickTeam rotates through the sorted pool starting one past the
// player's previous pick, skipping teams already used this edition. First
// gameweek or a missing previous pick starts at the front of the pool.
func chooseAutoPickTeam(pool []string, picks []pick.Pick, gw gameweek.ID, sequence []gameweek.ID) (string, bool) {
	used := make(map[string]struct{}, len(picks))
	byGameweek := make(map[gameweek.ID]string, len(picks))
	for _, item := range picks {
		used[strings.ToLower(item.Team)] = struct{}{}
		byGameweek[item.Gameweek] = item.Team
	}

	start := 0
	if prevGw, ok := gameweek.Previous(gw, sequence); ok {
		if prevTeam, ok := byGameweek[prevGw]; ok {
			for i, name := range pool {
				if strings.EqualFold(name, prevTeam) {
					start = i + 1
					break
				}
			}
		}
	}

	for offset := 0; offset < len(pool); offset++ {
		candidate := pool[(start+offset)%len(pool)]
		if _, taken := used[strings.ToLower(candidate)]; taken {
			continue
		}
		return candidate, true
	}
	return "", false
}

func normalizeSweepWorkerCount(value int, taskCount int) int {
	if taskCount <= 0 {
		return 1
	}
	if value <= 0 {
		value = 4
	}
	if value > taskCount {
		value = taskCount
	}
	return value
}
