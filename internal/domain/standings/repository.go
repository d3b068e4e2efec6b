package standings

import "context"

// Repository persists standings snapshots per edition and gameweek.
type Repository interface {
	Get(ctx context.Context, edition int, gw string) (Snapshot, bool, error)
	Replace(ctx context.Context, snapshot Snapshot) error
}
