package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/survivorfc/lastman/internal/domain/competition"
	"github.com/survivorfc/lastman/internal/domain/fixture"
	"github.com/survivorfc/lastman/internal/domain/gameweek"
	"github.com/survivorfc/lastman/internal/platform/cache"
	"github.com/survivorfc/lastman/internal/platform/logging"
)

// ExternalResult is one scoreline as reported by the results feed.
type ExternalResult struct {
	HomeTeam  string
	AwayTeam  string
	Status    string
	HomeScore *int
	AwayScore *int
}

// ResultsProvider fetches final and in-progress results for a gameweek.
type ResultsProvider interface {
	FetchResults(ctx context.Context, edition int, gw string) ([]ExternalResult, error)
}

type ResultsSyncConfig struct {
	Enabled bool
}

type SyncResultsOutput struct {
	Gameweek     string `json:"gameweek"`
	FetchedCount int    `json:"fetched_count"`
	UpdatedCount int    `json:"updated_count"`
	Refreshed    bool   `json:"refreshed"`
}

// ResultsSyncService pulls scorelines from the feed into the fixture store
// and refreshes standings when anything changed.
type ResultsSyncService struct {
	cfg           ResultsSyncConfig
	provider      ResultsProvider
	fixtureRepo   fixture.Repository
	settingsRepo  competition.SettingsRepository
	standings     *StandingsService
	deadlineStore *cache.Store
	logger        *logging.Logger
	now           func() time.Time
}

func NewResultsSyncService(
	cfg ResultsSyncConfig,
	provider ResultsProvider,
	fixtureRepo fixture.Repository,
	settingsRepo competition.SettingsRepository,
	standings *StandingsService,
	deadlineStore *cache.Store,
	logger *logging.Logger,
) *ResultsSyncService {
	if logger == nil {
		logger = logging.Default()
	}
	return &ResultsSyncService{
		cfg:           cfg,
		provider:      provider,
		fixtureRepo:   fixtureRepo,
		settingsRepo:  settingsRepo,
		standings:     standings,
		deadlineStore: deadlineStore,
		logger:        logger,
		now:           time.Now,
	}
}

// SyncResults applies feed scorelines to one gameweek's fixtures, matching
// by home and away team. An empty rawGameweek means the active gameweek.
func (s *ResultsSyncService) SyncResults(ctx context.Context, rawGameweek string) (SyncResultsOutput, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ResultsSyncService.SyncResults")
	defer span.End()

	if !s.cfg.Enabled {
		return SyncResultsOutput{}, fmt.Errorf("%w: results feed is disabled (RESULTS_FEED_ENABLED=false)", ErrDependencyUnavailable)
	}
	if s.provider == nil {
		return SyncResultsOutput{}, fmt.Errorf("%w: results feed is not configured", ErrDependencyUnavailable)
	}

	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return SyncResultsOutput{}, fmt.Errorf("get competition settings: %w", err)
	}
	settings = settings.WithDefaults()

	if strings.TrimSpace(rawGameweek) == "" {
		rawGameweek = settings.ActiveGameweek
	}
	gw, err := gameweek.Parse(rawGameweek, settings.TotalGameweeks, settings.TiebreakEnabled)
	if err != nil {
		return SyncResultsOutput{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	results, err := s.provider.FetchResults(ctx, settings.ActiveEdition, string(gw))
	if err != nil {
		return SyncResultsOutput{}, fmt.Errorf("fetch results gameweek=%s: %w", gw, err)
	}

	fixtures, err := s.fixtureRepo.ListByGameweek(ctx, settings.ActiveEdition, gw)
	if err != nil {
		return SyncResultsOutput{}, fmt.Errorf("list fixtures %s: %w", gameweek.Key(settings.ActiveEdition, gw), err)
	}

	out := SyncResultsOutput{
		Gameweek:     string(gw),
		FetchedCount: len(results),
	}

	updated := 0
	for i := range fixtures {
		result, ok := matchResult(fixtures[i], results)
		if !ok {
			continue
		}
		status := fixture.NormalizeStatus(result.Status)
		if fixture.NormalizeStatus(fixtures[i].Status) == status &&
			equalScore(fixtures[i].HomeScore, result.HomeScore) &&
			equalScore(fixtures[i].AwayScore, result.AwayScore) {
			continue
		}
		fixtures[i].Status = status
		fixtures[i].HomeScore = result.HomeScore
		fixtures[i].AwayScore = result.AwayScore
		updated++
	}
	out.UpdatedCount = updated
	if updated == 0 {
		return out, nil
	}

	if err := s.fixtureRepo.ReplaceGameweek(ctx, settings.ActiveEdition, gw, fixtures); err != nil {
		return SyncResultsOutput{}, fmt.Errorf("replace fixtures %s: %w", gameweek.Key(settings.ActiveEdition, gw), err)
	}
	if s.deadlineStore != nil {
		s.deadlineStore.Delete(ctx, "deadline:"+gameweek.Key(settings.ActiveEdition, gw))
	}

	if s.standings != nil {
		if _, err := s.standings.Refresh(ctx, string(gw)); err != nil {
			return SyncResultsOutput{}, fmt.Errorf("refresh standings after sync: %w", err)
		}
		out.Refreshed = true
	}

	s.logger.InfoContext(ctx, "results synced",
		"gameweek", string(gw),
		"fetched", out.FetchedCount,
		"updated", out.UpdatedCount,
	)
	return out, nil
}

func matchResult(item fixture.Fixture, results []ExternalResult) (ExternalResult, bool) {
	for _, result := range results {
		if strings.EqualFold(result.HomeTeam, item.HomeTeam) &&
			strings.EqualFold(result.AwayTeam, item.AwayTeam) {
			return result, true
		}
	}
	return ExternalResult{}, false
}

func equalScore(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
