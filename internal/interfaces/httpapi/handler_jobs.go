package httpapi

import (
	"fmt"
	"io"
	"net/http"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/riskibarqy/fantasy-hockey/internal/usecase"
)

const maxJobRequestBytes = 64 << 10

// Cycle endpoints (no body) sweep every live league and re-enqueue
// themselves. The single-league variants run one league on demand.

func (h *Handler) RunDailyScoreJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunDailyScoreJob")
	defer span.End()

	if h.orchestrator == nil {
		writeError(ctx, w, fmt.Errorf("%w: job orchestrator is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	result, err := h.orchestrator.RunDailyCycle(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "daily score cycle failed", "error", err)
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, result)
}

func (h *Handler) RunLiveScoreJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunLiveScoreJob")
	defer span.End()

	if h.orchestrator == nil {
		writeError(ctx, w, fmt.Errorf("%w: job orchestrator is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	result, err := h.orchestrator.RunLiveCycle(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "live score cycle failed", "error", err)
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, result)
}

type leagueJobRequest struct {
	LeagueID string `json:"leagueId" validate:"required"`
	AsOf     string `json:"asOf,omitempty"`
}

func (h *Handler) RunDailyScoreLeagueJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunDailyScoreLeagueJob")
	defer span.End()

	req, asOf, err := h.decodeLeagueJobRequest(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.scoringService.RunDaily(ctx, req.LeagueID, asOf)
	if err != nil {
		h.logger.WarnContext(ctx, "daily score job failed", "league_id", req.LeagueID, "error", err)
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, result)
}

func (h *Handler) RunLiveScoreLeagueJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunLiveScoreLeagueJob")
	defer span.End()

	req, asOf, err := h.decodeLeagueJobRequest(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.scoringService.RunLive(ctx, req.LeagueID, asOf)
	if err != nil {
		h.logger.WarnContext(ctx, "live score job failed", "league_id", req.LeagueID, "error", err)
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, result)
}

type reprocessJobRequest struct {
	LeagueID string `json:"leagueId" validate:"required"`
	From     string `json:"from" validate:"required"`
	To       string `json:"to" validate:"required"`
}

func (h *Handler) RunReprocessJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunReprocessJob")
	defer span.End()

	if h.reprocessService == nil {
		writeError(ctx, w, fmt.Errorf("%w: reprocess service is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	var req reprocessJobRequest
	if err := h.decodeJSONBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.reprocessService.Run(ctx, req.LeagueID, req.From, req.To)
	if err != nil {
		h.logger.WarnContext(ctx, "reprocess job failed",
			"league_id", req.LeagueID, "from", req.From, "to", req.To, "error", err)
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, result)
}

func (h *Handler) decodeLeagueJobRequest(r *http.Request) (leagueJobRequest, time.Time, error) {
	var req leagueJobRequest
	if err := h.decodeJSONBody(r, &req); err != nil {
		return leagueJobRequest{}, time.Time{}, err
	}

	var asOf time.Time
	if req.AsOf != "" {
		parsed, err := time.Parse(time.RFC3339, req.AsOf)
		if err != nil {
			return leagueJobRequest{}, time.Time{}, fmt.Errorf("%w: asOf must be RFC 3339", usecase.ErrInvalidInput)
		}
		asOf = parsed
	}
	return req, asOf, nil
}

func (h *Handler) decodeJSONBody(r *http.Request, target any) error {
	raw, err := io.ReadAll(io.LimitReader(r.Body, maxJobRequestBytes))
	if err != nil {
		return fmt.Errorf("%w: read request body", usecase.ErrInvalidInput)
	}
	if len(raw) == 0 {
		return fmt.Errorf("%w: request body is required", usecase.ErrInvalidInput)
	}
	if err := sonic.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("%w: malformed JSON body", usecase.ErrInvalidInput)
	}
	if err := h.validator.Struct(target); err != nil {
		return fmt.Errorf("%w: %v", usecase.ErrInvalidInput, err)
	}
	return nil
}
