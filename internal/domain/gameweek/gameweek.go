package gameweek

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ID identifies one round of the competition. Numeric rounds are "1".."N",
// plus the optional "tiebreak" round after the final numeric one.
type ID string

const Tiebreak ID = "tiebreak"

// Parse validates a raw gameweek identifier against the competition shape.
func Parse(raw string, totalGameweeks int, tiebreakEnabled bool) (ID, error) {
	value := strings.ToLower(strings.TrimSpace(raw))
	if value == "" {
		return "", fmt.Errorf("gameweek id is required")
	}
	if value == string(Tiebreak) {
		if !tiebreakEnabled {
			return "", fmt.Errorf("tiebreak gameweek is not enabled")
		}
		return Tiebreak, nil
	}

	n, err := strconv.Atoi(value)
	if err != nil {
		return "", fmt.Errorf("invalid gameweek id %q", raw)
	}
	if n < 1 || n > totalGameweeks {
		return "", fmt.Errorf("gameweek %d is out of range 1..%d", n, totalGameweeks)
	}

	return ID(strconv.Itoa(n)), nil
}

// Sequence returns all gameweek IDs in play order.
func Sequence(totalGameweeks int, tiebreakEnabled bool) []ID {
	if totalGameweeks < 1 {
		totalGameweeks = 1
	}

	out := make([]ID, 0, totalGameweeks+1)
	for n := 1; n <= totalGameweeks; n++ {
		out = append(out, ID(strconv.Itoa(n)))
	}
	if tiebreakEnabled {
		out = append(out, Tiebreak)
	}

	return out
}

// Previous returns the gameweek immediately before id in the sequence,
// or false when id is the first round or not part of the sequence.
func Previous(id ID, sequence []ID) (ID, bool) {
	for i, candidate := range sequence {
		if candidate != id {
			continue
		}
		if i == 0 {
			return "", false
		}
		return sequence[i-1], true
	}
	return "", false
}

// UpTo returns the sequence prefix ending at id inclusive. The second
// return is false when id is not part of the sequence.
func UpTo(id ID, sequence []ID) ([]ID, bool) {
	for i, candidate := range sequence {
		if candidate == id {
			return sequence[:i+1], true
		}
	}
	return nil, false
}

// Less reports whether a plays before b. Numeric rounds sort by value, not
// as text, and the tiebreak round sorts after every numeric round.
func Less(a, b ID) bool {
	return a.playOrder() < b.playOrder()
}

func (id ID) playOrder() int {
	if id == Tiebreak {
		return math.MaxInt
	}
	n, err := strconv.Atoi(string(id))
	if err != nil {
		return math.MaxInt - 1
	}
	return n
}

func (id ID) IsTiebreak() bool {
	return id == Tiebreak
}

// Key builds the fixture-set storage key for an edition and gameweek,
// e.g. "edition2_gw7" or "edition2_gwtiebreak".
func Key(edition int, id ID) string {
	return fmt.Sprintf("edition%d_gw%s", edition, id)
}
