package usecase

import "errors"

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrDependencyUnavailable = errors.New("dependency unavailable")

	// ErrDeadlinePassed rejects pick writes once the gameweek deadline is
	// behind us.
	ErrDeadlinePassed = errors.New("gameweek deadline has passed")

	// ErrTeamAlreadyUsed rejects a pick of a team the player burned in an
	// earlier, closed gameweek.
	ErrTeamAlreadyUsed = errors.New("team already used this edition")

	// ErrPickConflict surfaces a lost conditional write on a pick slot.
	ErrPickConflict = errors.New("pick was changed concurrently")
)
