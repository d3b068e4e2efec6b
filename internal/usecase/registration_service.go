package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/survivorfc/lastman/internal/domain/competition"
	"github.com/survivorfc/lastman/internal/domain/player"
	"github.com/survivorfc/lastman/internal/platform/id"
	"github.com/survivorfc/lastman/internal/platform/logging"
)

type RegisterPlayerInput struct {
	DisplayName string
	Email       string
	Paid        bool
}

// RegistrationService enrols players into the competition with the
// configured starting lives.
type RegistrationService struct {
	playerRepo   player.Repository
	settingsRepo competition.SettingsRepository
	idGen        id.Generator
	logger       *logging.Logger
	now          func() time.Time
}

func NewRegistrationService(
	playerRepo player.Repository,
	settingsRepo competition.SettingsRepository,
	idGen id.Generator,
	logger *logging.Logger,
) *RegistrationService {
	if idGen == nil {
		idGen = id.NewRandomGenerator()
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &RegistrationService{
		playerRepo:   playerRepo,
		settingsRepo: settingsRepo,
		idGen:        idGen,
		logger:       logger,
		now:          time.Now,
	}
}

func (s *RegistrationService) Register(ctx context.Context, input RegisterPlayerInput) (player.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RegistrationService.Register")
	defer span.End()

	displayName := strings.TrimSpace(input.DisplayName)
	email := strings.ToLower(strings.TrimSpace(input.Email))

	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return player.Player{}, fmt.Errorf("get competition settings: %w", err)
	}
	settings = settings.WithDefaults()

	playerID, err := s.idGen.NewID()
	if err != nil {
		return player.Player{}, fmt.Errorf("generate player id: %w", err)
	}

	now := s.now()
	row := player.Player{
		ID:          playerID,
		DisplayName: displayName,
		Email:       email,
		Lives:       settings.LivesPerPlayer,
		Paid:        input.Paid,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := row.Validate(); err != nil {
		return player.Player{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	// Uniqueness lives in the repository so two concurrent registrations
	// with the same email cannot both pass a read-side check.
	if err := s.playerRepo.Create(ctx, row); err != nil {
		if errors.Is(err, player.ErrEmailTaken) {
			return player.Player{}, fmt.Errorf("%w: email %s is already registered", ErrInvalidInput, email)
		}
		return player.Player{}, fmt.Errorf("create player: %w", err)
	}

	s.logger.InfoContext(ctx, "player registered",
		"player_id", row.ID,
		"lives", row.Lives,
	)
	return row, nil
}

func (s *RegistrationService) GetPlayer(ctx context.Context, playerID string) (player.Player, error) {
	playerID = strings.TrimSpace(playerID)
	if playerID == "" {
		return player.Player{}, fmt.Errorf("%w: player id is required", ErrInvalidInput)
	}

	row, exists, err := s.playerRepo.GetByID(ctx, playerID)
	if err != nil {
		return player.Player{}, fmt.Errorf("get player: %w", err)
	}
	if !exists {
		return player.Player{}, fmt.Errorf("%w: player=%s", ErrNotFound, playerID)
	}
	return row, nil
}

func (s *RegistrationService) ListPlayers(ctx context.Context) ([]player.Player, error) {
	items, err := s.playerRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}
	return items, nil
}
