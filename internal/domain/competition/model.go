package competition

import (
	"fmt"
	"time"
)

const (
	DefaultLivesPerPlayer = 2
	DefaultTotalGameweeks = 10
)

// Settings is the single competition configuration row. ActiveGameweek is
// the round currently open for picks.
type Settings struct {
	ActiveEdition   int
	ActiveGameweek  string
	TiebreakEnabled bool
	LivesPerPlayer  int
	TotalGameweeks  int
	UpdatedAt       time.Time
}

func (s Settings) Validate() error {
	if s.ActiveEdition < 1 {
		return fmt.Errorf("active edition must be positive")
	}
	if s.ActiveGameweek == "" {
		return fmt.Errorf("active gameweek is required")
	}
	if s.LivesPerPlayer < 1 {
		return fmt.Errorf("lives per player must be positive")
	}
	if s.TotalGameweeks < 1 {
		return fmt.Errorf("total gameweeks must be positive")
	}

	return nil
}

// WithDefaults fills zero-valued knobs so a sparse settings row still
// describes a playable competition.
func (s Settings) WithDefaults() Settings {
	if s.LivesPerPlayer == 0 {
		s.LivesPerPlayer = DefaultLivesPerPlayer
	}
	if s.TotalGameweeks == 0 {
		s.TotalGameweeks = DefaultTotalGameweeks
	}
	if s.ActiveGameweek == "" {
		s.ActiveGameweek = "1"
	}
	return s
}
