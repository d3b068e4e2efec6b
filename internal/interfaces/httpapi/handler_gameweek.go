package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/survivorfc/lastman/internal/domain/fixture"
)

func (h *Handler) ListFixturesByGameweek(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListFixturesByGameweek")
	defer span.End()

	gameweekID := r.PathValue("gameweekID")
	fixtures, err := h.fixtures.ListByGameweek(ctx, gameweekID)
	if err != nil {
		h.logger.WarnContext(ctx, "list fixtures failed", "gameweek", gameweekID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]fixtureDTO, 0, len(fixtures))
	for _, f := range fixtures {
		items = append(items, fixtureToDTO(ctx, f))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetGameweekDeadline(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetGameweekDeadline")
	defer span.End()

	gameweekID := r.PathValue("gameweekID")
	info, err := h.fixtures.Deadline(ctx, gameweekID)
	if err != nil {
		h.logger.WarnContext(ctx, "resolve deadline failed", "gameweek", gameweekID, "error", err)
		writeError(ctx, w, err)
		return
	}

	dto := deadlineDTO{
		Gameweek: string(info.Gameweek),
		Known:    info.Deadline.Known,
		Passed:   info.Passed,
	}
	if info.Deadline.Known {
		dto.Deadline = info.Deadline.At.UTC().Format(time.RFC3339)
	}

	writeSuccess(ctx, w, http.StatusOK, dto)
}

type fixtureDTO struct {
	ID          string `json:"id"`
	Gameweek    string `json:"gameweek"`
	HomeTeam    string `json:"homeTeam"`
	AwayTeam    string `json:"awayTeam"`
	Date        string `json:"date"`
	KickOffTime string `json:"kickOffTime,omitempty"`
	Status      string `json:"status"`
	HomeScore   *int   `json:"homeScore,omitempty"`
	AwayScore   *int   `json:"awayScore,omitempty"`
}

type deadlineDTO struct {
	Gameweek string `json:"gameweek"`
	Deadline string `json:"deadline,omitempty"`
	Known    bool   `json:"known"`
	Passed   bool   `json:"passed"`
}

func fixtureToDTO(ctx context.Context, v fixture.Fixture) fixtureDTO {
	return fixtureDTO{
		ID:          v.ID,
		Gameweek:    string(v.Gameweek),
		HomeTeam:    v.HomeTeam,
		AwayTeam:    v.AwayTeam,
		Date:        v.Date,
		KickOffTime: v.KickOffTime,
		Status:      fixture.NormalizeStatus(v.Status),
		HomeScore:   v.HomeScore,
		AwayScore:   v.AwayScore,
	}
}
