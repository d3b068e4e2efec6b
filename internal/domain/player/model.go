package player

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrEmailTaken means a live player already registered the email a create
// carried. Repositories enforce this so concurrent registrations cannot
// both slip past a read-side check.
var ErrEmailTaken = errors.New("player email already registered")

// Player is one competition entrant. Lives are decremented as results come
// in; a player with zero lives is eliminated and stops accruing points.
type Player struct {
	ID          string
	DisplayName string
	Email       string
	Lives       int
	Eliminated  bool
	Paid        bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (p Player) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("player id is required")
	}
	if strings.TrimSpace(p.DisplayName) == "" {
		return fmt.Errorf("player display name is required")
	}
	if strings.TrimSpace(p.Email) == "" {
		return fmt.Errorf("player email is required")
	}
	if !strings.Contains(p.Email, "@") {
		return fmt.Errorf("invalid player email: %s", p.Email)
	}
	if p.Lives < 0 {
		return fmt.Errorf("player lives cannot be negative")
	}

	return nil
}
