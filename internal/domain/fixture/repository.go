package fixture

import (
	"context"

	"github.com/survivorfc/lastman/internal/domain/gameweek"
)

// Repository exposes fixture persistence per edition and gameweek.
type Repository interface {
	ListByGameweek(ctx context.Context, edition int, gw gameweek.ID) ([]Fixture, error)
	ReplaceGameweek(ctx context.Context, edition int, gw gameweek.ID, fixtures []Fixture) error
}
