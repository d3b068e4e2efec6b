package httpapi

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"
	"github.com/survivorfc/lastman/internal/platform/logging"
	"github.com/survivorfc/lastman/internal/usecase"
)

// SweepScheduler enqueues a delayed auto-pick sweep for one gameweek.
type SweepScheduler interface {
	ScheduleAutopickSweep(ctx context.Context, gameweekKey string, delay time.Duration) error
}

type Handler struct {
	registration *usecase.RegistrationService
	picks        *usecase.PickService
	fixtures     *usecase.FixtureService
	autopick     *usecase.AutoPickService
	standings    *usecase.StandingsService
	admin        *usecase.AdminService
	resultsSync  *usecase.ResultsSyncService
	sweeps       SweepScheduler
	sweepWorkers int
	logger       *logging.Logger
	validator    *validator.Validate
}

func NewHandler(
	registration *usecase.RegistrationService,
	picks *usecase.PickService,
	fixtures *usecase.FixtureService,
	autopick *usecase.AutoPickService,
	standings *usecase.StandingsService,
	admin *usecase.AdminService,
	resultsSync *usecase.ResultsSyncService,
	sweeps SweepScheduler,
	sweepWorkers int,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		registration: registration,
		picks:        picks,
		fixtures:     fixtures,
		autopick:     autopick,
		standings:    standings,
		admin:        admin,
		resultsSync:  resultsSync,
		sweeps:       sweeps,
		sweepWorkers: sweepWorkers,
		logger:       logger,
		validator:    validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) decodeRequest(ctx context.Context, body io.Reader, target any) error {
	decoder := sonic.ConfigDefault.NewDecoder(body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(target); err != nil {
		return fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}
	return nil
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}
