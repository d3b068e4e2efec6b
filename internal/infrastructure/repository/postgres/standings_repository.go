package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/jmoiron/sqlx"
	"github.com/survivorfc/lastman/internal/domain/standings"
	qb "github.com/survivorfc/lastman/internal/platform/querybuilder"
)

type standingsTableModel struct {
	ID         int64     `db:"id"`
	Edition    int       `db:"edition"`
	Gameweek   string    `db:"gameweek"`
	Rows       []byte    `db:"rows"`
	ComputedAt time.Time `db:"computed_at"`
}

type standingsSnapshotRow struct {
	PlayerID    string `json:"player_id"`
	DisplayName string `json:"display_name"`
	Points      int    `json:"points"`
	Lives       int    `json:"lives"`
	Eliminated  bool   `json:"eliminated"`
	CurrentPick string `json:"current_pick,omitempty"`
}

// StandingsRepository persists snapshots with the table rows as a jsonb
// payload, one snapshot per (edition, gameweek).
type StandingsRepository struct {
	db *sqlx.DB
}

func NewStandingsRepository(db *sqlx.DB) *StandingsRepository {
	return &StandingsRepository{db: db}
}

func (r *StandingsRepository) Get(ctx context.Context, edition int, gw string) (standings.Snapshot, bool, error) {
	query, args, err := qb.Select("*").From("standings_snapshots").
		Where(
			qb.Eq("edition", edition),
			qb.Eq("gameweek", gw),
		).
		ToSQL()
	if err != nil {
		return standings.Snapshot{}, false, fmt.Errorf("build get snapshot query: %w", err)
	}

	var row standingsTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return standings.Snapshot{}, false, nil
		}
		return standings.Snapshot{}, false, fmt.Errorf("get snapshot: %w", err)
	}

	var payload []standingsSnapshotRow
	if err := sonic.Unmarshal(row.Rows, &payload); err != nil {
		return standings.Snapshot{}, false, fmt.Errorf("decode snapshot rows: %w", err)
	}

	rows := make([]standings.Row, 0, len(payload))
	for _, item := range payload {
		rows = append(rows, standings.Row{
			PlayerID:    item.PlayerID,
			DisplayName: item.DisplayName,
			Points:      item.Points,
			Lives:       item.Lives,
			Eliminated:  item.Eliminated,
			CurrentPick: item.CurrentPick,
		})
	}

	return standings.Snapshot{
		Edition:    row.Edition,
		Gameweek:   row.Gameweek,
		Rows:       rows,
		ComputedAt: row.ComputedAt,
	}, true, nil
}

func (r *StandingsRepository) Replace(ctx context.Context, snapshot standings.Snapshot) error {
	payload := make([]standingsSnapshotRow, 0, len(snapshot.Rows))
	for _, item := range snapshot.Rows {
		payload = append(payload, standingsSnapshotRow{
			PlayerID:    item.PlayerID,
			DisplayName: item.DisplayName,
			Points:      item.Points,
			Lives:       item.Lives,
			Eliminated:  item.Eliminated,
			CurrentPick: item.CurrentPick,
		})
	}
	encoded, err := sonic.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode snapshot rows: %w", err)
	}

	// lib/pq sends []byte parameters as bytea, which jsonb rejects, so the
	// payload goes over the wire as text.
	model := struct {
		Edition    int       `db:"edition"`
		Gameweek   string    `db:"gameweek"`
		Rows       string    `db:"rows"`
		ComputedAt time.Time `db:"computed_at"`
	}{
		Edition:    snapshot.Edition,
		Gameweek:   snapshot.Gameweek,
		Rows:       string(encoded),
		ComputedAt: snapshot.ComputedAt.UTC(),
	}

	suffix := `ON CONFLICT (edition, gameweek) DO UPDATE SET
		rows = EXCLUDED.rows,
		computed_at = EXCLUDED.computed_at`

	query, args, err := qb.InsertModel("standings_snapshots", model, suffix)
	if err != nil {
		return fmt.Errorf("build upsert snapshot query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert snapshot: %w", err)
	}
	return nil
}
