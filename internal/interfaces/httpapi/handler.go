package httpapi

import (
	"context"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/riskibarqy/fantasy-hockey/internal/platform/logging"
	"github.com/riskibarqy/fantasy-hockey/internal/usecase"
)

// HealthChecker reports whether a dependency is reachable.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

type Handler struct {
	leagueService    *usecase.LeagueService
	scoringService   *usecase.ScoringService
	reprocessService *usecase.ReprocessService
	orchestrator     *usecase.JobOrchestratorService
	healthChecks     map[string]HealthChecker
	logger           *logging.Logger
	validator        *validator.Validate
}

func NewHandler(
	leagueService *usecase.LeagueService,
	scoringService *usecase.ScoringService,
	reprocessService *usecase.ReprocessService,
	orchestrator *usecase.JobOrchestratorService,
	healthChecks map[string]HealthChecker,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		leagueService:    leagueService,
		scoringService:   scoringService,
		reprocessService: reprocessService,
		orchestrator:     orchestrator,
		healthChecks:     healthChecks,
		logger:           logger,
		validator:        validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	status := http.StatusOK
	checks := make(map[string]string, len(h.healthChecks))
	for name, checker := range h.healthChecks {
		if err := checker.HealthCheck(ctx); err != nil {
			checks[name] = err.Error()
			status = http.StatusServiceUnavailable
			continue
		}
		checks[name] = "ok"
	}

	writeSuccess(ctx, w, status, map[string]any{
		"status": http.StatusText(status),
		"checks": checks,
	})
}
