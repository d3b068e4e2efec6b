package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/survivorfc/lastman/internal/domain/player"
	"github.com/survivorfc/lastman/internal/usecase"
)

func (h *Handler) RegisterPlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RegisterPlayer")
	defer span.End()

	var req registerPlayerRequest
	if err := h.decodeRequest(ctx, r.Body, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.registration.Register(ctx, usecase.RegisterPlayerInput{
		DisplayName: req.DisplayName,
		Email:       req.Email,
		Paid:        req.Paid,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "register player failed", "email", req.Email, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, playerToDTO(ctx, item))
}

func (h *Handler) ListPlayers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListPlayers")
	defer span.End()

	players, err := h.registration.ListPlayers(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list players failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]playerDTO, 0, len(players))
	for _, p := range players {
		items = append(items, playerToDTO(ctx, p))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetPlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetPlayer")
	defer span.End()

	playerID := r.PathValue("playerID")
	item, err := h.registration.GetPlayer(ctx, playerID)
	if err != nil {
		h.logger.WarnContext(ctx, "get player failed", "player_id", playerID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, playerToDTO(ctx, item))
}

type registerPlayerRequest struct {
	DisplayName string `json:"displayName" validate:"required,max=100"`
	Email       string `json:"email" validate:"required,email"`
	Paid        bool   `json:"paid"`
}

type playerDTO struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	Email       string `json:"email"`
	Lives       int    `json:"lives"`
	Eliminated  bool   `json:"eliminated"`
	Paid        bool   `json:"paid"`
	CreatedAt   string `json:"createdAt"`
}

func playerToDTO(ctx context.Context, v player.Player) playerDTO {
	createdAt := ""
	if !v.CreatedAt.IsZero() {
		createdAt = v.CreatedAt.UTC().Format(time.RFC3339)
	}
	return playerDTO{
		ID:          v.ID,
		DisplayName: v.DisplayName,
		Email:       v.Email,
		Lives:       v.Lives,
		Eliminated:  v.Eliminated,
		Paid:        v.Paid,
		CreatedAt:   createdAt,
	}
}
