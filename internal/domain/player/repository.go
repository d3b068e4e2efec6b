package player

import "context"

// Repository describes player persistence needs from use cases.
type Repository interface {
	GetByID(ctx context.Context, playerID string) (Player, bool, error)
	List(ctx context.Context) ([]Player, error)
	Create(ctx context.Context, p Player) error
	UpdateLives(ctx context.Context, playerID string, lives int, eliminated bool) error
}
