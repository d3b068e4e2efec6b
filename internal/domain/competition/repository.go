package competition

import "context"

// SettingsRepository stores the single competition settings row.
type SettingsRepository interface {
	Get(ctx context.Context) (Settings, error)
	Update(ctx context.Context, s Settings) error
}
