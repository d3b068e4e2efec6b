package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/survivorfc/lastman/internal/domain/fixture"
	"github.com/survivorfc/lastman/internal/domain/gameweek"
	qb "github.com/survivorfc/lastman/internal/platform/querybuilder"
)

type FixtureRepository struct {
	db *sqlx.DB
}

func NewFixtureRepository(db *sqlx.DB) *FixtureRepository {
	return &FixtureRepository{db: db}
}

func (r *FixtureRepository) ListByGameweek(ctx context.Context, edition int, gw gameweek.ID) ([]fixture.Fixture, error) {
	query, args, err := qb.Select("*").From("fixtures").
		Where(
			qb.Eq("edition", edition),
			qb.Eq("gameweek", string(gw)),
			qb.IsNull("deleted_at"),
		).
		OrderBy("match_date", "kick_off_time", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select fixtures query: %w", err)
	}

	var rows []fixtureTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select fixtures: %w", err)
	}

	out := make([]fixture.Fixture, 0, len(rows))
	for _, row := range rows {
		out = append(out, fixture.Fixture{
			ID:          row.PublicID,
			Edition:     row.Edition,
			Gameweek:    gameweek.ID(row.Gameweek),
			HomeTeam:    row.HomeTeam,
			AwayTeam:    row.AwayTeam,
			Date:        row.MatchDate,
			KickOffTime: row.KickOffTime,
			Status:      row.Status,
			HomeScore:   nullInt64ToIntPtr(row.HomeScore),
			AwayScore:   nullInt64ToIntPtr(row.AwayScore),
		})
	}
	return out, nil
}

// ReplaceGameweek soft-deletes the gameweek's fixture set and inserts the
// replacement rows in one transaction.
func (r *FixtureRepository) ReplaceGameweek(ctx context.Context, edition int, gw gameweek.ID, fixtures []fixture.Fixture) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace fixtures tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC()

	query, args, err := qb.Update("fixtures").
		Set("deleted_at", now).
		Set("updated_at", now).
		Where(
			qb.Eq("edition", edition),
			qb.Eq("gameweek", string(gw)),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build soft delete fixtures query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("soft delete fixtures: %w", err)
	}

	for _, item := range fixtures {
		model := struct {
			PublicID    string        `db:"public_id"`
			Edition     int           `db:"edition"`
			Gameweek    string        `db:"gameweek"`
			HomeTeam    string        `db:"home_team"`
			AwayTeam    string        `db:"away_team"`
			MatchDate   string        `db:"match_date"`
			KickOffTime string        `db:"kick_off_time"`
			Status      string        `db:"status"`
			HomeScore   sql.NullInt64 `db:"home_score"`
			AwayScore   sql.NullInt64 `db:"away_score"`
			CreatedAt   time.Time     `db:"created_at"`
			UpdatedAt   time.Time     `db:"updated_at"`
		}{
			PublicID:    item.ID,
			Edition:     edition,
			Gameweek:    string(gw),
			HomeTeam:    item.HomeTeam,
			AwayTeam:    item.AwayTeam,
			MatchDate:   item.Date,
			KickOffTime: item.KickOffTime,
			Status:      item.Status,
			HomeScore:   intPtrToNullInt64(item.HomeScore),
			AwayScore:   intPtrToNullInt64(item.AwayScore),
			CreatedAt:   now,
			UpdatedAt:   now,
		}

		insertQuery, insertArgs, err := qb.InsertModel("fixtures", model, "")
		if err != nil {
			return fmt.Errorf("build insert fixture query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, insertQuery, insertArgs...); err != nil {
			return fmt.Errorf("insert fixture %s: %w", item.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace fixtures tx: %w", err)
	}
	return nil
}
