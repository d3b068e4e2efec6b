package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/survivorfc/lastman/internal/domain/pick"
	"github.com/survivorfc/lastman/internal/platform/logging"
)

type stubResultsProvider struct {
	results []ExternalResult
	err     error
	calls   int
}

func (s *stubResultsProvider) FetchResults(_ context.Context, _ int, _ string) ([]ExternalResult, error) {
	s.calls++
	return s.results, s.err
}

func newResultsSyncService(env *testEnv, provider ResultsProvider, enabled bool) *ResultsSyncService {
	service := NewResultsSyncService(
		ResultsSyncConfig{Enabled: enabled},
		provider,
		env.fixtureRepo,
		env.settingsRepo,
		env.standings,
		env.deadlineStore,
		logging.NewNop(),
	)
	service.now = func() time.Time { return testNow }
	return service
}

func TestResultsSyncService_SyncResults(t *testing.T) {
	t.Parallel()

	env := newTestEnv(testSettings(), testPlayers(), testFixtures())
	ctx := context.Background()

	if err := env.pickRepo.Create(ctx, pick.Pick{PlayerID: "pl-alice", Edition: 1, Gameweek: "2", Team: "Chelsea", AssignedAt: testNow}); err != nil {
		t.Fatalf("seed pick error: %v", err)
	}

	provider := &stubResultsProvider{
		results: []ExternalResult{
			{HomeTeam: "Chelsea", AwayTeam: "Liverpool", Status: "FT", HomeScore: intPtr(1), AwayScore: intPtr(0)},
			{HomeTeam: "Everton", AwayTeam: "Arsenal", Status: "FT", HomeScore: intPtr(0), AwayScore: intPtr(2)},
		},
	}
	service := newResultsSyncService(env, provider, true)

	out, err := service.SyncResults(ctx, "2")
	if err != nil {
		t.Fatalf("SyncResults error: %v", err)
	}
	if out.FetchedCount != 2 || out.UpdatedCount != 2 || !out.Refreshed {
		t.Fatalf("unexpected output %+v", out)
	}

	fixtures, err := env.fixtureRepo.ListByGameweek(ctx, 1, "2")
	if err != nil {
		t.Fatalf("ListByGameweek error: %v", err)
	}
	for _, item := range fixtures {
		if item.Status != "FT" || item.HomeScore == nil {
			t.Fatalf("fixture not updated: %+v", item)
		}
	}

	// Chelsea's win now shows up in the persisted snapshot.
	snapshot, exists, err := env.standingsRepo.Get(ctx, 1, "2")
	if err != nil || !exists {
		t.Fatalf("snapshot missing: exists=%t err=%v", exists, err)
	}
	if snapshot.Rows[0].PlayerID != "pl-alice" || snapshot.Rows[0].Points != 3 {
		t.Fatalf("top row = %+v", snapshot.Rows[0])
	}
}

func TestResultsSyncService_SyncResults_NoChanges(t *testing.T) {
	t.Parallel()

	env := newTestEnv(testSettings(), testPlayers(), testFixtures())
	provider := &stubResultsProvider{
		results: []ExternalResult{
			{HomeTeam: "Chelsea", AwayTeam: "Liverpool", Status: "SCHEDULED"},
		},
	}
	service := newResultsSyncService(env, provider, true)

	out, err := service.SyncResults(context.Background(), "2")
	if err != nil {
		t.Fatalf("SyncResults error: %v", err)
	}
	if out.UpdatedCount != 0 || out.Refreshed {
		t.Fatalf("no-op sync should not refresh, got %+v", out)
	}
}

func TestResultsSyncService_SyncResults_Disabled(t *testing.T) {
	t.Parallel()

	env := newTestEnv(testSettings(), testPlayers(), testFixtures())
	service := newResultsSyncService(env, &stubResultsProvider{}, false)

	_, err := service.SyncResults(context.Background(), "2")
	if !errors.Is(err, ErrDependencyUnavailable) {
		t.Fatalf("expected ErrDependencyUnavailable, got %v", err)
	}
}
