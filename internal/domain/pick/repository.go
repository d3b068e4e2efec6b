package pick

import (
	"context"

	"github.com/survivorfc/lastman/internal/domain/gameweek"
)

// Repository exposes pick persistence. Create and Update are conditional
// writes so concurrent assigners lose cleanly instead of overwriting.
type Repository interface {
	GetByPlayerAndGameweek(ctx context.Context, playerID string, edition int, gw gameweek.ID) (Pick, bool, error)
	ListByPlayer(ctx context.Context, playerID string, edition int) ([]Pick, error)

	// Create inserts only when the slot is empty; ErrSlotTaken otherwise.
	Create(ctx context.Context, p Pick) error

	// Update replaces the slot only while it still holds expectedTeam;
	// ErrStale otherwise.
	Update(ctx context.Context, p Pick, expectedTeam string) error

	Delete(ctx context.Context, playerID string, edition int, gw gameweek.ID) error

	// Move atomically removes the pick at from and replaces whatever sits at
	// p.Gameweek with p. Used when a player re-picks a team they already
	// hold in another open gameweek.
	Move(ctx context.Context, from gameweek.ID, p Pick) error
}
