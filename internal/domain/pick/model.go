package pick

import (
	"errors"
	"time"

	"github.com/survivorfc/lastman/internal/domain/gameweek"
)

var (
	// ErrSlotTaken means a pick already exists for the (player, edition,
	// gameweek) slot a conditional create targeted.
	ErrSlotTaken = errors.New("pick slot already taken")

	// ErrStale means a compare-and-swap update found a different team than
	// the caller observed.
	ErrStale = errors.New("pick changed since it was read")
)

// Pick is one player's team choice for a gameweek. At most one pick exists
// per (player, edition, gameweek), and a team may be picked at most once per
// player across the whole edition.
type Pick struct {
	PlayerID   string
	Edition    int
	Gameweek   gameweek.ID
	Team       string
	Autopick   bool
	AssignedAt time.Time
}
