package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/survivorfc/lastman/internal/domain/player"
	qb "github.com/survivorfc/lastman/internal/platform/querybuilder"
)

type PlayerRepository struct {
	db *sqlx.DB
}

func NewPlayerRepository(db *sqlx.DB) *PlayerRepository {
	return &PlayerRepository{db: db}
}

func (r *PlayerRepository) GetByID(ctx context.Context, playerID string) (player.Player, bool, error) {
	query, args, err := qb.Select("*").From("players").
		Where(
			qb.Eq("public_id", playerID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return player.Player{}, false, fmt.Errorf("build get player by id query: %w", err)
	}

	var row playerTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return player.Player{}, false, nil
		}
		return player.Player{}, false, fmt.Errorf("get player by id: %w", err)
	}

	return playerFromRow(row), true, nil
}

func (r *PlayerRepository) List(ctx context.Context) ([]player.Player, error) {
	query, args, err := qb.Select("*").From("players").
		Where(qb.IsNull("deleted_at")).
		OrderBy("display_name", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select players query: %w", err)
	}

	var rows []playerTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select players: %w", err)
	}

	out := make([]player.Player, 0, len(rows))
	for _, row := range rows {
		out = append(out, playerFromRow(row))
	}
	return out, nil
}

func (r *PlayerRepository) Create(ctx context.Context, p player.Player) error {
	now := time.Now().UTC()
	model := struct {
		PublicID    string    `db:"public_id"`
		DisplayName string    `db:"display_name"`
		Email       string    `db:"email"`
		Lives       int       `db:"lives"`
		Eliminated  bool      `db:"eliminated"`
		Paid        bool      `db:"paid"`
		CreatedAt   time.Time `db:"created_at"`
		UpdatedAt   time.Time `db:"updated_at"`
	}{
		PublicID:    p.ID,
		DisplayName: p.DisplayName,
		Email:       p.Email,
		Lives:       p.Lives,
		Eliminated:  p.Eliminated,
		Paid:        p.Paid,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	query, args, err := qb.InsertModel("players", model, "")
	if err != nil {
		return fmt.Errorf("build insert player query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			if strings.Contains(err.Error(), "players_email_live_uq") {
				return player.ErrEmailTaken
			}
			return fmt.Errorf("player %s already exists", p.ID)
		}
		return fmt.Errorf("insert player: %w", err)
	}
	return nil
}

func (r *PlayerRepository) UpdateLives(ctx context.Context, playerID string, lives int, eliminated bool) error {
	query, args, err := qb.Update("players").
		Set("lives", lives).
		Set("eliminated", eliminated).
		Set("updated_at", time.Now().UTC()).
		Where(
			qb.Eq("public_id", playerID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update player lives query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update player lives: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update player lives rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("player %s not found", playerID)
	}
	return nil
}

func playerFromRow(row playerTableModel) player.Player {
	return player.Player{
		ID:          row.PublicID,
		DisplayName: row.DisplayName,
		Email:       row.Email,
		Lives:       row.Lives,
		Eliminated:  row.Eliminated,
		Paid:        row.Paid,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}
}
