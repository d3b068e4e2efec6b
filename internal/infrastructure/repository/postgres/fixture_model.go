package postgres

import (
	"database/sql"
	"time"
)

type fixtureTableModel struct {
	ID          int64         `db:"id"`
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
	DeletedAt   *time.Time    `db:"deleted_at"`
}

func nullInt64ToIntPtr(value sql.NullInt64) *int {
	if !value.Valid {
		return nil
	}
	n := int(value.Int64)
	return &n
}

func intPtrToNullInt64(value *int) sql.NullInt64 {
	if value == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*value), Valid: true}
}
