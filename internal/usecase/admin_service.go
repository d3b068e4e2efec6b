package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/survivorfc/lastman/internal/domain/competition"
	"github.com/survivorfc/lastman/internal/domain/fixture"
	"github.com/survivorfc/lastman/internal/domain/gameweek"
	"github.com/survivorfc/lastman/internal/domain/player"
	"github.com/survivorfc/lastman/internal/platform/cache"
	"github.com/survivorfc/lastman/internal/platform/logging"
)

type ImportFixturesInput struct {
	Gameweek string
	Fixtures []fixture.Fixture
}

// AdminService covers the operator surface: settings, fixture imports, and
// manual life adjustments.
type AdminService struct {
	playerRepo    player.Repository
	fixtureRepo   fixture.Repository
	settingsRepo  competition.SettingsRepository
	deadlineStore *cache.Store
	logger        *logging.Logger
	now           func() time.Time
}

func NewAdminService(
	playerRepo player.Repository,
	fixtureRepo fixture.Repository,
	settingsRepo competition.SettingsRepository,
	deadlineStore *cache.Store,
	logger *logging.Logger,
) *AdminService {
	if logger == nil {
		logger = logging.Default()
	}
	return &AdminService{
		playerRepo:    playerRepo,
		fixtureRepo:   fixtureRepo,
		settingsRepo:  settingsRepo,
		deadlineStore: deadlineStore,
		logger:        logger,
		now:           time.Now,
	}
}

func (s *AdminService) Settings(ctx context.Context) (competition.Settings, error) {
	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return competition.Settings{}, fmt.Errorf("get competition settings: %w", err)
	}
	return settings.WithDefaults(), nil
}

func (s *AdminService) UpdateSettings(ctx context.Context, settings competition.Settings) (competition.Settings, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AdminService.UpdateSettings")
	defer span.End()

	settings = settings.WithDefaults()
	settings.UpdatedAt = s.now()
	if err := settings.Validate(); err != nil {
		return competition.Settings{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if _, err := gameweek.Parse(settings.ActiveGameweek, settings.TotalGameweeks, settings.TiebreakEnabled); err != nil {
		return competition.Settings{}, fmt.Errorf("%w: active gameweek: %v", ErrInvalidInput, err)
	}

	if err := s.settingsRepo.Update(ctx, settings); err != nil {
		return competition.Settings{}, fmt.Errorf("update competition settings: %w", err)
	}

	s.logger.InfoContext(ctx, "competition settings updated",
		"edition", settings.ActiveEdition,
		"active_gameweek", settings.ActiveGameweek,
	)
	return settings, nil
}

// ImportFixtures replaces one gameweek's fixture set and drops the cached
// deadline so the next resolution sees the new kickoffs.
func (s *AdminService) ImportFixtures(ctx context.Context, input ImportFixturesInput) (int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AdminService.ImportFixtures")
	defer span.End()

	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return 0, fmt.Errorf("get competition settings: %w", err)
	}
	settings = settings.WithDefaults()

	gw, err := gameweek.Parse(input.Gameweek, settings.TotalGameweeks, settings.TiebreakEnabled)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	fixtures := make([]fixture.Fixture, 0, len(input.Fixtures))
	for i, item := range input.Fixtures {
		item.Edition = settings.ActiveEdition
		item.Gameweek = gw
		item.Status = fixture.NormalizeStatus(item.Status)
		item.HomeTeam = strings.TrimSpace(item.HomeTeam)
		item.AwayTeam = strings.TrimSpace(item.AwayTeam)
		if item.HomeTeam == "" || item.AwayTeam == "" {
			return 0, fmt.Errorf("%w: fixture %d is missing a team", ErrInvalidInput, i)
		}
		if strings.TrimSpace(item.Date) == "" {
			return 0, fmt.Errorf("%w: fixture %d is missing a date", ErrInvalidInput, i)
		}
		fixtures = append(fixtures, item)
	}

	if err := s.fixtureRepo.ReplaceGameweek(ctx, settings.ActiveEdition, gw, fixtures); err != nil {
		return 0, fmt.Errorf("replace fixtures %s: %w", gameweek.Key(settings.ActiveEdition, gw), err)
	}

	if s.deadlineStore != nil {
		s.deadlineStore.Delete(ctx, "deadline:"+gameweek.Key(settings.ActiveEdition, gw))
	}

	s.logger.InfoContext(ctx, "fixtures imported",
		"gameweek", string(gw),
		"count", len(fixtures),
	)
	return len(fixtures), nil
}

// AdjustLives sets a player's remaining lives by hand, marking them
// eliminated at zero.
func (s *AdminService) AdjustLives(ctx context.Context, playerID string, lives int) (player.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AdminService.AdjustLives")
	defer span.End()

	playerID = strings.TrimSpace(playerID)
	if playerID == "" {
		return player.Player{}, fmt.Errorf("%w: player id is required", ErrInvalidInput)
	}
	if lives < 0 {
		return player.Player{}, fmt.Errorf("%w: lives cannot be negative", ErrInvalidInput)
	}

	row, exists, err := s.playerRepo.GetByID(ctx, playerID)
	if err != nil {
		return player.Player{}, fmt.Errorf("get player: %w", err)
	}
	if !exists {
		return player.Player{}, fmt.Errorf("%w: player=%s", ErrNotFound, playerID)
	}

	eliminated := lives == 0
	if err := s.playerRepo.UpdateLives(ctx, playerID, lives, eliminated); err != nil {
		return player.Player{}, fmt.Errorf("update lives: %w", err)
	}

	row.Lives = lives
	row.Eliminated = eliminated
	row.UpdatedAt = s.now()

	s.logger.InfoContext(ctx, "player lives adjusted",
		"player_id", playerID,
		"lives", lives,
		"eliminated", eliminated,
	)
	return row, nil
}
