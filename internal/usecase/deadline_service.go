package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/survivorfc/lastman/internal/domain/fixture"
	"github.com/survivorfc/lastman/internal/domain/gameweek"
	"github.com/survivorfc/lastman/internal/platform/cache"
	"github.com/survivorfc/lastman/internal/platform/logging"
)

// Deadline is the resolved pick cutoff for one gameweek. Known is false when
// the gameweek has no fixtures or none of them carry a usable kickoff.
type Deadline struct {
	At    time.Time
	Known bool
}

// DeadlineService resolves pick deadlines from fixture kickoffs. The deadline
// is the earliest kickoff in the gameweek's fixture set.
type DeadlineService struct {
	fixtureRepo fixture.Repository
	store       *cache.Store
	location    *time.Location
	logger      *logging.Logger
	now         func() time.Time
}

func NewDeadlineService(
	fixtureRepo fixture.Repository,
	store *cache.Store,
	location *time.Location,
	logger *logging.Logger,
) *DeadlineService {
	if location == nil {
		location = time.UTC
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &DeadlineService{
		fixtureRepo: fixtureRepo,
		store:       store,
		location:    location,
		logger:      logger,
		now:         time.Now,
	}
}

// DeadlineFor resolves the pick deadline for one gameweek, cached per
// (edition, gameweek) for the store TTL.
func (s *DeadlineService) DeadlineFor(ctx context.Context, edition int, gw gameweek.ID) (Deadline, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.DeadlineService.DeadlineFor")
	defer span.End()

	if edition < 1 {
		return Deadline{}, fmt.Errorf("%w: edition must be positive", ErrInvalidInput)
	}
	if gw == "" {
		return Deadline{}, fmt.Errorf("%w: gameweek is required", ErrInvalidInput)
	}

	if s.store == nil {
		return s.resolve(ctx, edition, gw)
	}

	key := "deadline:" + gameweek.Key(edition, gw)
	value, err := s.store.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		return s.resolve(ctx, edition, gw)
	})
	if err != nil {
		return Deadline{}, err
	}

	deadline, ok := value.(Deadline)
	if !ok {
		return Deadline{}, fmt.Errorf("unexpected deadline cache entry for %s", key)
	}
	return deadline, nil
}

// Passed reports whether the gameweek deadline is behind now. It fails open:
// a missing deadline or a store failure logs and reports not passed, so a
// broken fixture feed never locks players out of picking.
func (s *DeadlineService) Passed(ctx context.Context, edition int, gw gameweek.ID) bool {
	deadline, err := s.DeadlineFor(ctx, edition, gw)
	if err != nil {
		s.logger.WarnContext(ctx, "deadline lookup failed, treating as not passed",
			"edition", edition,
			"gameweek", string(gw),
			"error", err,
		)
		return false
	}
	if !deadline.Known {
		return false
	}
	return !s.now().Before(deadline.At)
}

func (s *DeadlineService) resolve(ctx context.Context, edition int, gw gameweek.ID) (Deadline, error) {
	fixtures, err := s.fixtureRepo.ListByGameweek(ctx, edition, gw)
	if err != nil {
		return Deadline{}, fmt.Errorf("list fixtures %s: %w", gameweek.Key(edition, gw), err)
	}

	var earliest time.Time
	known := false
	for _, item := range fixtures {
		kickoff, ok := item.KickoffAt(s.location)
		if !ok {
			s.logger.WarnContext(ctx, "fixture has no usable kickoff",
				"fixture_id", item.ID,
				"gameweek", string(gw),
				"date", item.Date,
			)
			continue
		}
		if !known || kickoff.Before(earliest) {
			earliest = kickoff
			known = true
		}
	}

	return Deadline{At: earliest, Known: known}, nil
}
