package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/survivorfc/lastman/internal/domain/competition"
	"github.com/survivorfc/lastman/internal/domain/standings"
)

func (h *Handler) GetStandings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetStandings")
	defer span.End()

	upto := r.URL.Query().Get("upto")
	rows, err := h.standings.Standings(ctx, upto)
	if err != nil {
		h.logger.WarnContext(ctx, "compute standings failed", "upto", upto, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]standingsRowDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, standingsRowToDTO(ctx, row))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetStandingsSnapshot(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetStandingsSnapshot")
	defer span.End()

	upto := r.URL.Query().Get("upto")
	snapshot, err := h.standings.Snapshot(ctx, upto)
	if err != nil {
		h.logger.WarnContext(ctx, "load standings snapshot failed", "upto", upto, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, snapshotToDTO(ctx, snapshot))
}

func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetSettings")
	defer span.End()

	settings, err := h.admin.Settings(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "get settings failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, settingsToDTO(ctx, settings))
}

type standingsRowDTO struct {
	PlayerID    string `json:"playerId"`
	DisplayName string `json:"displayName"`
	Points      int    `json:"points"`
	Lives       int    `json:"lives"`
	Eliminated  bool   `json:"eliminated"`
	CurrentPick string `json:"currentPick,omitempty"`
}

type snapshotDTO struct {
	Edition    int               `json:"edition"`
	Gameweek   string            `json:"gameweek"`
	Rows       []standingsRowDTO `json:"rows"`
	ComputedAt string            `json:"computedAt"`
}

type settingsDTO struct {
	ActiveEdition   int    `json:"activeEdition"`
	ActiveGameweek  string `json:"activeGameweek"`
	TiebreakEnabled bool   `json:"tiebreakEnabled"`
	LivesPerPlayer  int    `json:"livesPerPlayer"`
	TotalGameweeks  int    `json:"totalGameweeks"`
	UpdatedAt       string `json:"updatedAt,omitempty"`
}

func standingsRowToDTO(ctx context.Context, v standings.Row) standingsRowDTO {
	return standingsRowDTO{
		PlayerID:    v.PlayerID,
		DisplayName: v.DisplayName,
		Points:      v.Points,
		Lives:       v.Lives,
		Eliminated:  v.Eliminated,
		CurrentPick: v.CurrentPick,
	}
}

func snapshotToDTO(ctx context.Context, v standings.Snapshot) snapshotDTO {
	rows := make([]standingsRowDTO, 0, len(v.Rows))
	for _, row := range v.Rows {
		rows = append(rows, standingsRowToDTO(ctx, row))
	}
	computedAt := ""
	if !v.ComputedAt.IsZero() {
		computedAt = v.ComputedAt.UTC().Format(time.RFC3339)
	}
	return snapshotDTO{
		Edition:    v.Edition,
		Gameweek:   v.Gameweek,
		Rows:       rows,
		ComputedAt: computedAt,
	}
}

func settingsToDTO(ctx context.Context, v competition.Settings) settingsDTO {
	updatedAt := ""
	if !v.UpdatedAt.IsZero() {
		updatedAt = v.UpdatedAt.UTC().Format(time.RFC3339)
	}
	return settingsDTO{
		ActiveEdition:   v.ActiveEdition,
		ActiveGameweek:  v.ActiveGameweek,
		TiebreakEnabled: v.TiebreakEnabled,
		LivesPerPlayer:  v.LivesPerPlayer,
		TotalGameweeks:  v.TotalGameweeks,
		UpdatedAt:       updatedAt,
	}
}
