package postgres

import "time"

type pickTableModel struct {
	ID         int64      `db:"id"`
	PlayerID   string     `db:"player_public_id"`
	Edition    int        `db:"edition"`
	Gameweek   string     `db:"gameweek"`
	Team       string     `db:"team"`
	Autopick   bool       `db:"autopick"`
	AssignedAt time.Time  `db:"assigned_at"`
	CreatedAt  time.Time  `db:"created_at"`
	UpdatedAt  time.Time  `db:"updated_at"`
	DeletedAt  *time.Time `db:"deleted_at"`
}
