package httpapi

import (
	"net/http"
	"time"

	"github.com/survivorfc/lastman/internal/domain/competition"
	"github.com/survivorfc/lastman/internal/domain/fixture"
	"github.com/survivorfc/lastman/internal/domain/gameweek"
	"github.com/survivorfc/lastman/internal/usecase"
)

func (h *Handler) RunAutopickSweepJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunAutopickSweepJob")
	defer span.End()

	result, err := h.autopick.SweepActiveGameweek(ctx, h.sweepWorkers)
	if err != nil {
		h.logger.ErrorContext(ctx, "autopick sweep job failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	h.logger.InfoContext(ctx, "autopick sweep job finished",
		"gameweek", result.Gameweek,
		"assigned", result.AssignedCount,
		"skipped", result.SkippedCount,
		"failed", result.FailedCount,
	)
	writeSuccess(ctx, w, http.StatusOK, result)
}

func (h *Handler) RunSyncResultsJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunSyncResultsJob")
	defer span.End()

	var req syncResultsJobRequest
	if r.ContentLength > 0 {
		if err := h.decodeRequest(ctx, r.Body, &req); err != nil {
			writeError(ctx, w, err)
			return
		}
	}

	output, err := h.resultsSync.SyncResults(ctx, req.Gameweek)
	if err != nil {
		h.logger.ErrorContext(ctx, "results sync job failed", "gameweek", req.Gameweek, "error", err)
		writeError(ctx, w, err)
		return
	}

	h.logger.InfoContext(ctx, "results sync job finished",
		"gameweek", output.Gameweek,
		"fetched", output.FetchedCount,
		"updated", output.UpdatedCount,
		"refreshed", output.Refreshed,
	)
	writeSuccess(ctx, w, http.StatusOK, output)
}

func (h *Handler) RunRefreshStandingsJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunRefreshStandingsJob")
	defer span.End()

	var req refreshStandingsJobRequest
	if r.ContentLength > 0 {
		if err := h.decodeRequest(ctx, r.Body, &req); err != nil {
			writeError(ctx, w, err)
			return
		}
	}

	snapshot, err := h.standings.Refresh(ctx, req.Upto)
	if err != nil {
		h.logger.ErrorContext(ctx, "standings refresh job failed", "upto", req.Upto, "error", err)
		writeError(ctx, w, err)
		return
	}

	h.logger.InfoContext(ctx, "standings refresh job finished",
		"gameweek", snapshot.Gameweek,
		"rows", len(snapshot.Rows),
	)
	writeSuccess(ctx, w, http.StatusOK, snapshotToDTO(ctx, snapshot))
}

// RunScheduleSweepJob resolves the active gameweek's deadline and enqueues a
// delayed sweep that fires once the deadline passes. Safe to call repeatedly,
// the queue deduplicates on the gameweek key.
func (h *Handler) RunScheduleSweepJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunScheduleSweepJob")
	defer span.End()

	if h.sweeps == nil {
		writeError(ctx, w, usecase.ErrDependencyUnavailable)
		return
	}

	info, err := h.fixtures.Deadline(ctx, "")
	if err != nil {
		h.logger.ErrorContext(ctx, "schedule sweep job failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	key := gameweek.Key(info.Edition, info.Gameweek)
	if !info.Deadline.Known {
		h.logger.WarnContext(ctx, "schedule sweep skipped, no deadline", "gameweek_key", key)
		writeSuccess(ctx, w, http.StatusOK, scheduleSweepDTO{GameweekKey: key, Scheduled: false})
		return
	}

	delay := time.Until(info.Deadline.At)
	if delay < 0 {
		delay = 0
	}
	if err := h.sweeps.ScheduleAutopickSweep(ctx, key, delay); err != nil {
		h.logger.ErrorContext(ctx, "schedule sweep job failed", "gameweek_key", key, "error", err)
		writeError(ctx, w, err)
		return
	}

	h.logger.InfoContext(ctx, "autopick sweep scheduled", "gameweek_key", key, "delay", delay.String())
	writeSuccess(ctx, w, http.StatusOK, scheduleSweepDTO{
		GameweekKey: key,
		Delay:       delay.String(),
		Scheduled:   true,
	})
}

func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdateSettings")
	defer span.End()

	var req updateSettingsRequest
	if err := h.decodeRequest(ctx, r.Body, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	updated, err := h.admin.UpdateSettings(ctx, competition.Settings{
		ActiveEdition:   req.ActiveEdition,
		ActiveGameweek:  req.ActiveGameweek,
		TiebreakEnabled: req.TiebreakEnabled,
		LivesPerPlayer:  req.LivesPerPlayer,
		TotalGameweeks:  req.TotalGameweeks,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "update settings failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, settingsToDTO(ctx, updated))
}

func (h *Handler) ImportFixtures(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ImportFixtures")
	defer span.End()

	var req importFixturesRequest
	if err := h.decodeRequest(ctx, r.Body, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	fixtures := make([]fixture.Fixture, 0, len(req.Fixtures))
	for _, item := range req.Fixtures {
		fixtures = append(fixtures, fixture.Fixture{
			ID:          item.ID,
			HomeTeam:    item.HomeTeam,
			AwayTeam:    item.AwayTeam,
			Date:        item.Date,
			KickOffTime: item.KickOffTime,
			Status:      item.Status,
			HomeScore:   item.HomeScore,
			AwayScore:   item.AwayScore,
		})
	}

	count, err := h.admin.ImportFixtures(ctx, usecase.ImportFixturesInput{
		Gameweek: req.Gameweek,
		Fixtures: fixtures,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "import fixtures failed", "gameweek", req.Gameweek, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, importFixturesDTO{
		Gameweek:      req.Gameweek,
		ImportedCount: count,
	})
}

func (h *Handler) AdjustPlayerLives(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.AdjustPlayerLives")
	defer span.End()

	playerID := r.PathValue("playerID")

	var req adjustLivesRequest
	if err := h.decodeRequest(ctx, r.Body, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.admin.AdjustLives(ctx, playerID, req.Lives)
	if err != nil {
		h.logger.WarnContext(ctx, "adjust lives failed", "player_id", playerID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, playerToDTO(ctx, item))
}

type syncResultsJobRequest struct {
	Gameweek string `json:"gameweek"`
}

type refreshStandingsJobRequest struct {
	Upto string `json:"upto"`
}

type scheduleSweepDTO struct {
	GameweekKey string `json:"gameweekKey"`
	Delay       string `json:"delay,omitempty"`
	Scheduled   bool   `json:"scheduled"`
}

type updateSettingsRequest struct {
	ActiveEdition   int    `json:"activeEdition" validate:"required,min=1"`
	ActiveGameweek  string `json:"activeGameweek" validate:"required"`
	TiebreakEnabled bool   `json:"tiebreakEnabled"`
	LivesPerPlayer  int    `json:"livesPerPlayer" validate:"min=0,max=10"`
	TotalGameweeks  int    `json:"totalGameweeks" validate:"min=0,max=52"`
}

type importFixturesRequest struct {
	Gameweek string                 `json:"gameweek" validate:"required"`
	Fixtures []importFixtureRequest `json:"fixtures" validate:"required,min=1,dive"`
}

type importFixtureRequest struct {
	ID          string `json:"id"`
	HomeTeam    string `json:"homeTeam" validate:"required,max=100"`
	AwayTeam    string `json:"awayTeam" validate:"required,max=100"`
	Date        string `json:"date" validate:"required"`
	KickOffTime string `json:"kickOffTime"`
	Status      string `json:"status"`
	HomeScore   *int   `json:"homeScore"`
	AwayScore   *int   `json:"awayScore"`
}

type importFixturesDTO struct {
	Gameweek      string `json:"gameweek"`
	ImportedCount int    `json:"importedCount"`
}

type adjustLivesRequest struct {
	Lives int `json:"lives" validate:"min=0,max=10"`
}
