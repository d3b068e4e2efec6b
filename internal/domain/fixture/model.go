package fixture

import (
	"sort"
	"strings"
	"time"

	"github.com/survivorfc/lastman/internal/domain/gameweek"
)

const (
	StatusScheduled = "SCHEDULED"
	StatusFT        = "FT"
	StatusAET       = "AET"
	StatusPEN       = "PEN"
	StatusPostponed = "POSTPONED"
	StatusCancelled = "CANCELLED"
)

const defaultKickOffTime = "15:00:00"

// Fixture represents one match inside a gameweek's fixture set. Date and
// KickOffTime are kept as the feed provides them; KickoffAt combines them.
type Fixture struct {
	ID          string
	Edition     int
	Gameweek    gameweek.ID
	HomeTeam    string
	AwayTeam    string
	Date        string
	KickOffTime string
	Status      string
	HomeScore   *int
	AwayScore   *int
}

// Outcome of a finished fixture from one team's perspective.
type Outcome int

const (
	OutcomeNone Outcome = iota
	OutcomeWin
	OutcomeDraw
	OutcomeLoss
)

func NormalizeStatus(value string) string {
	status := strings.ToUpper(strings.TrimSpace(value))
	if status == "" {
		return StatusScheduled
	}
	return status
}

// IsFinishedStatus reports whether the fixture has a final result.
func IsFinishedStatus(status string) bool {
	switch NormalizeStatus(status) {
	case StatusFT, StatusAET, StatusPEN, "FINISHED":
		return true
	default:
		return false
	}
}

func IsCancelledLikeStatus(status string) bool {
	switch NormalizeStatus(status) {
	case StatusCancelled, StatusPostponed, "ABANDONED":
		return true
	default:
		return false
	}
}

// KickoffAt resolves the fixture kickoff in loc. A date that already carries
// a time component is parsed as-is; otherwise the kick-off time is combined
// with the date, defaulting to 15:00:00 when absent or the midnight
// placeholder "00:00:00". Returns false when the date cannot be parsed.
func (f Fixture) KickoffAt(loc *time.Location) (time.Time, bool) {
	if loc == nil {
		loc = time.UTC
	}

	date := strings.TrimSpace(f.Date)
	if date == "" {
		return time.Time{}, false
	}

	if strings.ContainsAny(date, "T:") {
		for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02 15:04:05"} {
			if parsed, err := time.ParseInLocation(layout, date, loc); err == nil {
				return parsed, true
			}
		}
		return time.Time{}, false
	}

	kickOff := strings.TrimSpace(f.KickOffTime)
	if kickOff == "" || kickOff == "00:00:00" {
		kickOff = defaultKickOffTime
	}

	parsed, err := time.ParseInLocation("2006-01-02 15:04:05", date+" "+kickOff, loc)
	if err != nil {
		return time.Time{}, false
	}
	return parsed, true
}

// Involves reports whether team plays in this fixture.
func (f Fixture) Involves(team string) bool {
	return strings.EqualFold(strings.TrimSpace(team), f.HomeTeam) ||
		strings.EqualFold(strings.TrimSpace(team), f.AwayTeam)
}

// OutcomeFor returns the finished result for team, or OutcomeNone when the
// fixture is not finished, has no scores, or does not involve team.
func (f Fixture) OutcomeFor(team string) Outcome {
	if !IsFinishedStatus(f.Status) || f.HomeScore == nil || f.AwayScore == nil {
		return OutcomeNone
	}

	var own, opp int
	switch {
	case strings.EqualFold(strings.TrimSpace(team), f.HomeTeam):
		own, opp = *f.HomeScore, *f.AwayScore
	case strings.EqualFold(strings.TrimSpace(team), f.AwayTeam):
		own, opp = *f.AwayScore, *f.HomeScore
	default:
		return OutcomeNone
	}

	switch {
	case own > opp:
		return OutcomeWin
	case own == opp:
		return OutcomeDraw
	default:
		return OutcomeLoss
	}
}

// Teams returns the sorted distinct team names across fixtures.
func Teams(items []Fixture) []string {
	seen := make(map[string]struct{}, len(items)*2)
	out := make([]string, 0, len(items)*2)
	for _, item := range items {
		for _, name := range []string{strings.TrimSpace(item.HomeTeam), strings.TrimSpace(item.AwayTeam)} {
			if name == "" {
				continue
			}
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}
