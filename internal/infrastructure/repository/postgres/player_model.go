package postgres

import "time"

type playerTableModel struct {
	ID          int64      `db:"id"`
	PublicID    string     `db:"public_id"`
	DisplayName string     `db:"display_name"`
	Email       string     `db:"email"`
	Lives       int        `db:"lives"`
	Eliminated  bool       `db:"eliminated"`
	Paid        bool       `db:"paid"`
	CreatedAt   time.Time  `db:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at"`
	DeletedAt   *time.Time `db:"deleted_at"`
}
