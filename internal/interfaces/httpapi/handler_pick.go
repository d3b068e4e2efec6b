package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/survivorfc/lastman/internal/domain/pick"
	"github.com/survivorfc/lastman/internal/usecase"
)

func (h *Handler) ListPicks(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListPicks")
	defer span.End()

	playerID := r.PathValue("playerID")
	picks, err := h.picks.ListPicks(ctx, playerID)
	if err != nil {
		h.logger.WarnContext(ctx, "list picks failed", "player_id", playerID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]pickDTO, 0, len(picks))
	for _, p := range picks {
		items = append(items, pickToDTO(ctx, p))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetPick(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetPick")
	defer span.End()

	playerID := r.PathValue("playerID")
	gameweekID := r.PathValue("gameweekID")

	item, found, err := h.picks.PickFor(ctx, playerID, gameweekID)
	if err != nil {
		h.logger.WarnContext(ctx, "get pick failed",
			"player_id", playerID,
			"gameweek", gameweekID,
			"error", err,
		)
		writeError(ctx, w, err)
		return
	}
	if !found {
		writeError(ctx, w, fmt.Errorf("%w: no pick for gameweek %s", usecase.ErrNotFound, gameweekID))
		return
	}

	writeSuccess(ctx, w, http.StatusOK, pickToDTO(ctx, item))
}

func (h *Handler) SetPick(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SetPick")
	defer span.End()

	playerID := r.PathValue("playerID")
	gameweekID := r.PathValue("gameweekID")

	var req setPickRequest
	if err := h.decodeRequest(ctx, r.Body, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.picks.SetPick(ctx, usecase.SetPickInput{
		PlayerID: playerID,
		Gameweek: gameweekID,
		Team:     req.Team,
		Release:  req.Release,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "set pick failed",
			"player_id", playerID,
			"gameweek", gameweekID,
			"error", err,
		)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, pickToDTO(ctx, item))
}

func (h *Handler) RemovePick(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RemovePick")
	defer span.End()

	playerID := r.PathValue("playerID")
	gameweekID := r.PathValue("gameweekID")

	if err := h.picks.RemovePick(ctx, playerID, gameweekID); err != nil {
		h.logger.WarnContext(ctx, "remove pick failed",
			"player_id", playerID,
			"gameweek", gameweekID,
			"error", err,
		)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "removed"})
}

func (h *Handler) GetPickStatus(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetPickStatus")
	defer span.End()

	playerID := r.PathValue("playerID")
	gameweekID := r.PathValue("gameweekID")
	team := strings.TrimSpace(r.URL.Query().Get("team"))
	if team == "" {
		writeError(ctx, w, fmt.Errorf("%w: team query parameter is required", usecase.ErrInvalidInput))
		return
	}

	status, err := h.picks.StatusForTeam(ctx, playerID, gameweekID, team)
	if err != nil {
		h.logger.WarnContext(ctx, "pick status failed",
			"player_id", playerID,
			"gameweek", gameweekID,
			"team", team,
			"error", err,
		)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, pickStatusDTO{
		Gameweek: gameweekID,
		Team:     team,
		Status:   string(status),
	})
}

type setPickRequest struct {
	Team string `json:"team" validate:"required,max=100"`
	// Release opts in to moving the team out of another open gameweek the
	// player already holds it in.
	Release bool `json:"release"`
}

type pickDTO struct {
	Gameweek   string `json:"gameweek"`
	Team       string `json:"team"`
	Autopick   bool   `json:"autopick"`
	AssignedAt string `json:"assignedAt"`
}

type pickStatusDTO struct {
	Gameweek string `json:"gameweek"`
	Team     string `json:"team"`
	Status   string `json:"status"`
}

func pickToDTO(ctx context.Context, v pick.Pick) pickDTO {
	assignedAt := ""
	if !v.AssignedAt.IsZero() {
		assignedAt = v.AssignedAt.UTC().Format(time.RFC3339)
	}
	return pickDTO{
		Gameweek:   string(v.Gameweek),
		Team:       v.Team,
		Autopick:   v.Autopick,
		AssignedAt: assignedAt,
	}
}
