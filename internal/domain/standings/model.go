package standings

import (
	"sort"
	"time"
)

// Row is one player's line in the competition table.
type Row struct {
	PlayerID    string
	DisplayName string
	Points      int
	Lives       int
	Eliminated  bool
	CurrentPick string
}

// Snapshot is a persisted standings computation for one gameweek.
type Snapshot struct {
	Edition    int
	Gameweek   string
	Rows       []Row
	ComputedAt time.Time
}

// Sort orders rows by points descending, then lives descending, then
// display name ascending.
func Sort(rows []Row) {
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Points != rows[j].Points {
			return rows[i].Points > rows[j].Points
		}
		if rows[i].Lives != rows[j].Lives {
			return rows[i].Lives > rows[j].Lives
		}
		return rows[i].DisplayName < rows[j].DisplayName
	})
}
