package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/survivorfc/lastman/internal/domain/gameweek"
	"github.com/survivorfc/lastman/internal/domain/pick"
	qb "github.com/survivorfc/lastman/internal/platform/querybuilder"
)

// pickSlotConflict targets the partial unique index on live pick rows.
const pickSlotConflict = "ON CONFLICT (player_public_id, edition, gameweek) WHERE deleted_at IS NULL DO NOTHING"

// pickPlayOrder sorts the text gameweek column by play order instead of
// lexicographically, with the tiebreak round last.
const pickPlayOrder = "CASE WHEN gameweek = 'tiebreak' THEN 2147483647 ELSE gameweek::int END"

type PickRepository struct {
	db *sqlx.DB
}

func NewPickRepository(db *sqlx.DB) *PickRepository {
	return &PickRepository{db: db}
}

func (r *PickRepository) GetByPlayerAndGameweek(ctx context.Context, playerID string, edition int, gw gameweek.ID) (pick.Pick, bool, error) {
	query, args, err := qb.Select("*").From("picks").
		Where(
			qb.Eq("player_public_id", playerID),
			qb.Eq("edition", edition),
			qb.Eq("gameweek", string(gw)),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return pick.Pick{}, false, fmt.Errorf("build get pick query: %w", err)
	}

	var row pickTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return pick.Pick{}, false, nil
		}
		return pick.Pick{}, false, fmt.Errorf("get pick: %w", err)
	}
	return pickFromRow(row), true, nil
}

func (r *PickRepository) ListByPlayer(ctx context.Context, playerID string, edition int) ([]pick.Pick, error) {
	query, args, err := qb.Select("*").From("picks").
		Where(
			qb.Eq("player_public_id", playerID),
			qb.Eq("edition", edition),
			qb.IsNull("deleted_at"),
		).
		OrderBy(pickPlayOrder, "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select picks query: %w", err)
	}

	var rows []pickTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select picks: %w", err)
	}

	out := make([]pick.Pick, 0, len(rows))
	for _, row := range rows {
		out = append(out, pickFromRow(row))
	}
	return out, nil
}

// Create inserts only when the slot is free. The conflict target is the
// partial unique index, so a concurrent writer makes RowsAffected zero.
func (r *PickRepository) Create(ctx context.Context, p pick.Pick) error {
	query, args, err := qb.InsertModel("picks", pickInsertModel(p, time.Now().UTC()), pickSlotConflict)
	if err != nil {
		return fmt.Errorf("build insert pick query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("insert pick: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("insert pick rows affected: %w", err)
	}
	if affected == 0 {
		return pick.ErrSlotTaken
	}
	return nil
}

// Update swaps the slot's team only while it still holds expectedTeam.
func (r *PickRepository) Update(ctx context.Context, p pick.Pick, expectedTeam string) error {
	query, args, err := qb.Update("picks").
		Set("team", p.Team).
		Set("autopick", p.Autopick).
		Set("assigned_at", p.AssignedAt.UTC()).
		Set("updated_at", time.Now().UTC()).
		Where(
			qb.Eq("player_public_id", p.PlayerID),
			qb.Eq("edition", p.Edition),
			qb.Eq("gameweek", string(p.Gameweek)),
			qb.Eq("team", expectedTeam),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update pick query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update pick: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update pick rows affected: %w", err)
	}
	if affected == 0 {
		return pick.ErrStale
	}
	return nil
}

func (r *PickRepository) Delete(ctx context.Context, playerID string, edition int, gw gameweek.ID) error {
	now := time.Now().UTC()
	query, args, err := qb.Update("picks").
		Set("deleted_at", now).
		Set("updated_at", now).
		Where(
			qb.Eq("player_public_id", playerID),
			qb.Eq("edition", edition),
			qb.Eq("gameweek", string(gw)),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build delete pick query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete pick: %w", err)
	}
	return nil
}

// Move releases the pick at from and installs p at its gameweek in one
// transaction, replacing any live row already in the destination slot.
func (r *PickRepository) Move(ctx context.Context, from gameweek.ID, p pick.Pick) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin move pick tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC()
	for _, gw := range []gameweek.ID{from, p.Gameweek} {
		query, args, err := qb.Update("picks").
			Set("deleted_at", now).
			Set("updated_at", now).
			Where(
				qb.Eq("player_public_id", p.PlayerID),
				qb.Eq("edition", p.Edition),
				qb.Eq("gameweek", string(gw)),
				qb.IsNull("deleted_at"),
			).
			ToSQL()
		if err != nil {
			return fmt.Errorf("build release pick query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("release pick gameweek=%s: %w", gw, err)
		}
	}

	query, args, err := qb.InsertModel("picks", pickInsertModel(p, now), pickSlotConflict)
	if err != nil {
		return fmt.Errorf("build insert moved pick query: %w", err)
	}
	result, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("insert moved pick: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("insert moved pick rows affected: %w", err)
	}
	if affected == 0 {
		return pick.ErrSlotTaken
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit move pick tx: %w", err)
	}
	return nil
}

type pickWriteModel struct {
	PlayerID   string    `db:"player_public_id"`
	Edition    int       `db:"edition"`
	Gameweek   string    `db:"gameweek"`
	Team       string    `db:"team"`
	Autopick   bool      `db:"autopick"`
	AssignedAt time.Time `db:"assigned_at"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

func pickInsertModel(p pick.Pick, now time.Time) pickWriteModel {
	return pickWriteModel{
		PlayerID:   p.PlayerID,
		Edition:    p.Edition,
		Gameweek:   string(p.Gameweek),
		Team:       p.Team,
		Autopick:   p.Autopick,
		AssignedAt: p.AssignedAt.UTC(),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func pickFromRow(row pickTableModel) pick.Pick {
	return pick.Pick{
		PlayerID:   row.PlayerID,
		Edition:    row.Edition,
		Gameweek:   gameweek.ID(row.Gameweek),
		Team:       row.Team,
		Autopick:   row.Autopick,
		AssignedAt: row.AssignedAt,
	}
}
