package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/survivorfc/lastman/internal/domain/competition"
	qb "github.com/survivorfc/lastman/internal/platform/querybuilder"
)

type settingsTableModel struct {
	ID              int64     `db:"id"`
	ActiveEdition   int       `db:"active_edition"`
	ActiveGameweek  string    `db:"active_gameweek"`
	TiebreakEnabled bool      `db:"tiebreak_enabled"`
	LivesPerPlayer  int       `db:"lives_per_player"`
	TotalGameweeks  int       `db:"total_gameweeks"`
	UpdatedAt       time.Time `db:"updated_at"`
}

// SettingsRepository stores the single competition settings row (id 1).
type SettingsRepository struct {
	db *sqlx.DB
}

func NewSettingsRepository(db *sqlx.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

func (r *SettingsRepository) Get(ctx context.Context) (competition.Settings, error) {
	query, args, err := qb.Select("*").From("competition_settings").
		Where(qb.Eq("id", 1)).
		ToSQL()
	if err != nil {
		return competition.Settings{}, fmt.Errorf("build get settings query: %w", err)
	}

	var row settingsTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return competition.Settings{}.WithDefaults(), nil
		}
		return competition.Settings{}, fmt.Errorf("get settings: %w", err)
	}

	return competition.Settings{
		ActiveEdition:   row.ActiveEdition,
		ActiveGameweek:  row.ActiveGameweek,
		TiebreakEnabled: row.TiebreakEnabled,
		LivesPerPlayer:  row.LivesPerPlayer,
		TotalGameweeks:  row.TotalGameweeks,
		UpdatedAt:       row.UpdatedAt,
	}, nil
}

func (r *SettingsRepository) Update(ctx context.Context, s competition.Settings) error {
	model := struct {
		ID              int       `db:"id"`
		ActiveEdition   int       `db:"active_edition"`
		ActiveGameweek  string    `db:"active_gameweek"`
		TiebreakEnabled bool      `db:"tiebreak_enabled"`
		LivesPerPlayer  int       `db:"lives_per_player"`
		TotalGameweeks  int       `db:"total_gameweeks"`
		UpdatedAt       time.Time `db:"updated_at"`
	}{
		ID:              1,
		ActiveEdition:   s.ActiveEdition,
		ActiveGameweek:  s.ActiveGameweek,
		TiebreakEnabled: s.TiebreakEnabled,
		LivesPerPlayer:  s.LivesPerPlayer,
		TotalGameweeks:  s.TotalGameweeks,
		UpdatedAt:       time.Now().UTC(),
	}

	suffix := `ON CONFLICT (id) DO UPDATE SET
		active_edition = EXCLUDED.active_edition,
		active_gameweek = EXCLUDED.active_gameweek,
		tiebreak_enabled = EXCLUDED.tiebreak_enabled,
		lives_per_player = EXCLUDED.lives_per_player,
		total_gameweeks = EXCLUDED.total_gameweeks,
		updated_at = EXCLUDED.updated_at`

	query, args, err := qb.InsertModel("competition_settings", model, suffix)
	if err != nil {
		return fmt.Errorf("build upsert settings query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert settings: %w", err)
	}
	return nil
}
