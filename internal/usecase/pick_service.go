package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/survivorfc/lastman/internal/domain/competition"
	"github.com/survivorfc/lastman/internal/domain/fixture"
	"github.com/survivorfc/lastman/internal/domain/gameweek"
	"github.com/survivorfc/lastman/internal/domain/pick"
	"github.com/survivorfc/lastman/internal/domain/player"
	"github.com/survivorfc/lastman/internal/platform/cache"
	"github.com/survivorfc/lastman/internal/platform/logging"
)

// PickStatus describes how a team relates to one player's gameweek slot.
type PickStatus string

const (
	PickStatusCurrent        PickStatus = "current-pick"
	PickStatusCompleted      PickStatus = "completed-pick"
	PickStatusFuture         PickStatus = "future-pick"
	PickStatusDeadlinePassed PickStatus = "deadline-passed"
	PickStatusAvailable      PickStatus = "available"
)

type SetPickInput struct {
	PlayerID string
	Gameweek string
	Team     string
	Autopick bool

	// Release permits taking a team the player already holds in another
	// open gameweek by releasing that slot first.
	Release bool
}

// PickService owns the pick ledger: one pick per (player, edition, gameweek)
// and one team per player across the whole edition.
type PickService struct {
	pickRepo     pick.Repository
	playerRepo   player.Repository
	fixtureRepo  fixture.Repository
	settingsRepo competition.SettingsRepository
	deadlines    *DeadlineService
	statusStore  *cache.Store
	logger       *logging.Logger
	now          func() time.Time
}

func NewPickService(
	pickRepo pick.Repository,
	playerRepo player.Repository,
	fixtureRepo fixture.Repository,
	settingsRepo competition.SettingsRepository,
	deadlines *DeadlineService,
	statusStore *cache.Store,
	logger *logging.Logger,
) *PickService {
	if logger == nil {
		logger = logging.Default()
	}
	return &PickService{
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

// SetPick assigns a team to the player's slot for one gameweek. Setting the
// same team again is a no-op. Picking a team the player already holds in
// another gameweek fails with ErrTeamAlreadyUsed; when that other gameweek
// is still open and Release is set, the old slot is released and the team
// assigned here in one move. Writes are conditional so concurrent assigners
// lose instead of overwriting.
func (s *PickService) SetPick(ctx context.Context, input SetPickInput) (pick.Pick, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PickService.SetPick")
	defer span.End()

	playerID := strings.TrimSpace(input.PlayerID)
	team := strings.TrimSpace(input.Team)
	if playerID == "" {
		return pick.Pick{}, fmt.Errorf("%w: player id is required", ErrInvalidInput)
	}
	if team == "" {
		return pick.Pick{}, fmt.Errorf("%w: team is required", ErrInvalidInput)
	}

	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return pick.Pick{}, fmt.Errorf("get competition settings: %w", err)
	}
	settings = settings.WithDefaults()

	gw, err := gameweek.Parse(input.Gameweek, settings.TotalGameweeks, settings.TiebreakEnabled)
	if err != nil {
		return pick.Pick{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if _, exists, err := s.playerRepo.GetByID(ctx, playerID); err != nil {
		return pick.Pick{}, fmt.Errorf("get player: %w", err)
	} else if !exists {
		return pick.Pick{}, fmt.Errorf("%w: player=%s", ErrNotFound, playerID)
	}

	if s.deadlines.Passed(ctx, settings.ActiveEdition, gw) {
		return pick.Pick{}, fmt.Errorf("%w: gameweek=%s", ErrDeadlinePassed, gw)
	}

	canonicalTeam, err := s.canonicalTeam(ctx, settings.ActiveEdition, gw, team)
	if err != nil {
		return pick.Pick{}, err
	}

	defer s.invalidateStatuses(ctx, playerID)

	existing, hasExisting, err := s.pickRepo.GetByPlayerAndGameweek(ctx, playerID, settings.ActiveEdition, gw)
	if err != nil {
		return pick.Pick{}, fmt.Errorf("get pick: %w", err)
	}
	if hasExisting && strings.EqualFold(existing.Team, canonicalTeam) {
		return existing, nil
	}

	next := pick.Pick{
		PlayerID:   playerID,
		Edition:    settings.ActiveEdition,
		Gameweek:   gw,
		Team:       canonicalTeam,
		Autopick:   input.Autopick,
		AssignedAt: s.now(),
	}

	holder, heldElsewhere, err := s.findTeamHolder(ctx, playerID, settings, gw, canonicalTeam)
	if err != nil {
		return pick.Pick{}, err
	}
	if heldElsewhere {
		if s.deadlines.Passed(ctx, settings.ActiveEdition, holder.Gameweek) {
			return pick.Pick{}, fmt.Errorf("%w: team=%s gameweek=%s", ErrTeamAlreadyUsed, canonicalTeam, holder.Gameweek)
		}
		if !input.Release {
			return pick.Pick{}, fmt.Errorf("%w: team=%s is held by open gameweek=%s and release was not requested", ErrTeamAlreadyUsed, canonicalTeam, holder.Gameweek)
		}
		if err := s.pickRepo.Move(ctx, holder.Gameweek, next); err != nil {
			return pick.Pick{}, fmt.Errorf("move pick from gameweek=%s: %w", holder.Gameweek, err)
		}
		return next, nil
	}

	if hasExisting {
		err = s.pickRepo.Update(ctx, next, existing.Team)
		if errors.Is(err, pick.ErrStale) {
			return pick.Pick{}, fmt.Errorf("%w: gameweek=%s", ErrPickConflict, gw)
		}
		if err != nil {
			return pick.Pick{}, fmt.Errorf("update pick: %w", err)
		}
		return next, nil
	}

	err = s.pickRepo.Create(ctx, next)
	if errors.Is(err, pick.ErrSlotTaken) {
		return pick.Pick{}, fmt.Errorf("%w: gameweek=%s", ErrPickConflict, gw)
	}
	if err != nil {
		return pick.Pick{}, fmt.Errorf("create pick: %w", err)
	}
	return next, nil
}

// RemovePick clears the player's slot for an open gameweek.
func (s *PickService) RemovePick(ctx context.Context, playerID, rawGameweek string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.PickService.RemovePick")
	defer span.End()

	playerID = strings.TrimSpace(playerID)
	if playerID == "" {
		return fmt.Errorf("%w: player id is required", ErrInvalidInput)
	}

	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return fmt.Errorf("get competition settings: %w", err)
	}
	settings = settings.WithDefaults()

	gw, err := gameweek.Parse(rawGameweek, settings.TotalGameweeks, settings.TiebreakEnabled)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if s.deadlines.Passed(ctx, settings.ActiveEdition, gw) {
		return fmt.Errorf("%w: gameweek=%s", ErrDeadlinePassed, gw)
	}

	if _, exists, err := s.pickRepo.GetByPlayerAndGameweek(ctx, playerID, settings.ActiveEdition, gw); err != nil {
		return fmt.Errorf("get pick: %w", err)
	} else if !exists {
		return fmt.Errorf("%w: no pick for player=%s gameweek=%s", ErrNotFound, playerID, gw)
	}

	if err := s.pickRepo.Delete(ctx, playerID, settings.ActiveEdition, gw); err != nil {
		return fmt.Errorf("delete pick: %w", err)
	}

	s.invalidateStatuses(ctx, playerID)
	return nil
}

func (s *PickService) PickFor(ctx context.Context, playerID, rawGameweek string) (pick.Pick, bool, error) {
	playerID = strings.TrimSpace(playerID)
	if playerID == "" {
		return pick.Pick{}, false, fmt.Errorf("%w: player id is required", ErrInvalidInput)
	}

	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return pick.Pick{}, false, fmt.Errorf("get competition settings: %w", err)
	}
	settings = settings.WithDefaults()

	gw, err := gameweek.Parse(rawGameweek, settings.TotalGameweeks, settings.TiebreakEnabled)
	if err != nil {
		return pick.Pick{}, false, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	item, exists, err := s.pickRepo.GetByPlayerAndGameweek(ctx, playerID, settings.ActiveEdition, gw)
	if err != nil {
		return pick.Pick{}, false, fmt.Errorf("get pick: %w", err)
	}
	return item, exists, nil
}

func (s *PickService) ListPicks(ctx context.Context, playerID string) ([]pick.Pick, error) {
	playerID = strings.TrimSpace(playerID)
	if playerID == "" {
		return nil, fmt.Errorf("%w: player id is required", ErrInvalidInput)
	}

	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("get competition settings: %w", err)
	}
	settings = settings.WithDefaults()

	if _, exists, err := s.playerRepo.GetByID(ctx, playerID); err != nil {
		return nil, fmt.Errorf("get player: %w", err)
	} else if !exists {
		return nil, fmt.Errorf("%w: player=%s", ErrNotFound, playerID)
	}

	items, err := s.pickRepo.ListByPlayer(ctx, playerID, settings.ActiveEdition)
	if err != nil {
		return nil, fmt.Errorf("list picks: %w", err)
	}
	return items, nil
}

// StatusForTeam classifies one team for one player's gameweek slot, cached
// per (player, gameweek, team) for the store TTL.
func (s *PickService) StatusForTeam(ctx context.Context, playerID, rawGameweek, team string) (PickStatus, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PickService.StatusForTeam")
	defer span.End()

	playerID = strings.TrimSpace(playerID)
	team = strings.TrimSpace(team)
	if playerID == "" {
		return "", fmt.Errorf("%w: player id is required", ErrInvalidInput)
	}
	if team == "" {
		return "", fmt.Errorf("%w: team is required", ErrInvalidInput)
	}

	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return "", fmt.Errorf("get competition settings: %w", err)
	}
	settings = settings.WithDefaults()

	gw, err := gameweek.Parse(rawGameweek, settings.TotalGameweeks, settings.TiebreakEnabled)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if s.statusStore == nil {
		return s.resolveStatus(ctx, playerID, settings, gw, team)
	}

	key := statusCacheKey(playerID, gw, team)
	value, err := s.statusStore.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		return s.resolveStatus(ctx, playerID, settings, gw, team)
	})
	if err != nil {
		return "", err
	}

	status, ok := value.(PickStatus)
	if !ok {
		return "", fmt.Errorf("unexpected pick status cache entry for %s", key)
	}
	return status, nil
}

func (s *PickService) resolveStatus(
	ctx context.Context,
	playerID string,
	settings competition.Settings,
	gw gameweek.ID,
	team string,
) (PickStatus, error) {
	picks, err := s.pickRepo.ListByPlayer(ctx, playerID, settings.ActiveEdition)
	if err != nil {
		return "", fmt.Errorf("list picks: %w", err)
	}

	sequence := gameweek.Sequence(settings.TotalGameweeks, settings.TiebreakEnabled)
	position := indexOf(sequence, gw)

	for _, item := range picks {
		if !strings.EqualFold(item.Team, team) {
			continue
		}
		if item.Gameweek == gw {
			return PickStatusCurrent, nil
		}
		if other := indexOf(sequence, item.Gameweek); other >= 0 && position >= 0 && other < position {
			return PickStatusCompleted, nil
		}
		return PickStatusFuture, nil
	}

	if s.deadlines.Passed(ctx, settings.ActiveEdition, gw) {
		return PickStatusDeadlinePassed, nil
	}
	return PickStatusAvailable, nil
}

// canonicalTeam matches team against the gameweek's fixture set and returns
// the fixture-set spelling.
func (s *PickService) canonicalTeam(ctx context.Context, edition int, gw gameweek.ID, team string) (string, error) {
	fixtures, err := s.fixtureRepo.ListByGameweek(ctx, edition, gw)
	if err != nil {
		return "", fmt.Errorf("list fixtures %s: %w", gameweek.Key(edition, gw), err)
	}

	for _, name := range fixture.Teams(fixtures) {
		if strings.EqualFold(name, team) {
			return name, nil
		}
	}
	return "", fmt.Errorf("%w: team %q does not play in gameweek %s", ErrInvalidInput, team, gw)
}

// findTeamHolder reports the pick, in a gameweek other than gw, that already
// holds team for this player.
func (s *PickService) findTeamHolder(
	ctx context.Context,
	playerID string,
	settings competition.Settings,
	gw gameweek.ID,
	team string,
) (pick.Pick, bool, error) {
	picks, err := s.pickRepo.ListByPlayer(ctx, playerID, settings.ActiveEdition)
	if err != nil {
		return pick.Pick{}, false, fmt.Errorf("list picks: %w", err)
	}

	for _, item := range picks {
		if item.Gameweek == gw {
			continue
		}
		if strings.EqualFold(item.Team, team) {
			return item, true, nil
		}
	}
	return pick.Pick{}, false, nil
}

func (s *PickService) invalidateStatuses(ctx context.Context, playerID string) {
	if s.statusStore == nil {
		return
	}
	s.statusStore.DeletePrefix(ctx, "pickstatus:"+playerID+":")
}

func statusCacheKey(playerID string, gw gameweek.ID, team string) string {
	return "pickstatus:" + playerID + ":" + string(gw) + ":" + strings.ToLower(team)
}

func indexOf(sequence []gameweek.ID, id gameweek.ID) int {
	for i, candidate := range sequence {
		if candidate == id {
			return i
		}
	}
	return -1
}
