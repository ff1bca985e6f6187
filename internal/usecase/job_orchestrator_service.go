package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/riskibarqy/fantasy-hockey/internal/domain/league"
	"github.com/riskibarqy/fantasy-hockey/internal/domain/scoring"
	"github.com/riskibarqy/fantasy-hockey/internal/platform/logging"
)

// JobQueue enqueues a delayed callback to one of our own internal job
// endpoints. dedupID collapses duplicate enqueues for the same cycle.
type JobQueue interface {
	Enqueue(ctx context.Context, path string, dedupID string, delay time.Duration) error
}

// NoopJobQueue drops every enqueue. Used when no queue is configured so
// jobs only run when triggered directly.
type NoopJobQueue struct{}

func (NoopJobQueue) Enqueue(context.Context, string, string, time.Duration) error { return nil }

// JobOrchestratorService fans the scoring jobs out across every live
// league and schedules the next cycle through the job queue.
type JobOrchestratorService struct {
	leagueRepo league.Repository
	scoring    *ScoringService
	queue      JobQueue

	zone          *time.Location
	dailyInterval time.Duration
	liveInterval  time.Duration
	logger        *logging.Logger
	now           func() time.Time
}

func NewJobOrchestratorService(
	leagueRepo league.Repository,
	scoringSvc *ScoringService,
	queue JobQueue,
	zone *time.Location,
	dailyInterval, liveInterval time.Duration,
	logger *logging.Logger,
) *JobOrchestratorService {
	if queue == nil {
		queue = NoopJobQueue{}
	}
	if zone == nil {
		zone = time.FixedZone("scoring", -5*60*60)
	}
	if dailyInterval <= 0 {
		dailyInterval = 24 * time.Hour
	}
	if liveInterval <= 0 {
		liveInterval = 5 * time.Minute
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &JobOrchestratorService{
		leagueRepo:    leagueRepo,
		scoring:       scoringSvc,
		queue:         queue,
		zone:          zone,
		dailyInterval: dailyInterval,
		liveInterval:  liveInterval,
		logger:        logger,
		now:           time.Now,
	}
}

// DailyCycleResult reports the outcome of one orchestrated daily cycle.
type DailyCycleResult struct {
	Results []DailyResult `json:"results"`
	Skipped []string      `json:"skipped"`
	Failed  []string      `json:"failed"`
}

// LiveCycleResult reports the outcome of one orchestrated live cycle.
type LiveCycleResult struct {
	Results []LiveResult `json:"results"`
	Failed  []string     `json:"failed"`
}

func (s *JobOrchestratorService) liveLeagues(ctx context.Context) ([]league.League, error) {
	all, err := s.leagueRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list leagues: %w", err)
	}
	live := all[:0:0]
	for _, lg := range all {
		if lg.Status == league.StatusLive && lg.HasRules() {
			live = append(live, lg)
		}
	}
	return live, nil
}

// RunDailyCycle scores yesterday for every live league, then enqueues
// the next daily cycle. Leagues that already processed the date are
// reported as skipped rather than failed.
func (s *JobOrchestratorService) RunDailyCycle(ctx context.Context) (DailyCycleResult, error) {
	ctx, span := startUsecaseSpan(ctx, "JobOrchestratorService.RunDailyCycle")
	defer span.End()

	leagues, err := s.liveLeagues(ctx)
	if err != nil {
		return DailyCycleResult{}, err
	}

	asOf := s.now()
	var out DailyCycleResult
	for _, lg := range leagues {
		res, err := s.scoring.RunDaily(ctx, lg.ID, asOf)
		switch {
		case err == nil:
			out.Results = append(out.Results, res)
		case errors.Is(err, ErrAlreadyProcessed):
			out.Skipped = append(out.Skipped, lg.ID)
		default:
			s.logger.ErrorContext(ctx, "daily scoring failed for league",
				"leagueId", lg.ID, "error", err)
			out.Failed = append(out.Failed, lg.ID)
		}
	}

	s.enqueueNext(ctx, "/v1/internal/jobs/score-daily", "daily", s.dailyInterval)
	return out, nil
}

// RunLiveCycle refreshes live snapshots for every live league, then
// enqueues the next live cycle.
func (s *JobOrchestratorService) RunLiveCycle(ctx context.Context) (LiveCycleResult, error) {
	ctx, span := startUsecaseSpan(ctx, "JobOrchestratorService.RunLiveCycle")
	defer span.End()

	leagues, err := s.liveLeagues(ctx)
	if err != nil {
		return LiveCycleResult{}, err
	}

	asOf := s.now()
	var out LiveCycleResult
	for _, lg := range leagues {
		res, err := s.scoring.RunLive(ctx, lg.ID, asOf)
		if err != nil {
			s.logger.ErrorContext(ctx, "live scoring failed for league",
				"leagueId", lg.ID, "error", err)
			out.Failed = append(out.Failed, lg.ID)
			continue
		}
		out.Results = append(out.Results, res)
	}

	s.enqueueNext(ctx, "/v1/internal/jobs/score-live", "live", s.liveInterval)
	return out, nil
}

// enqueueNext schedules the next cycle. The dedup id buckets by the
// target fire time so retried deliveries cannot stack extra cycles.
func (s *JobOrchestratorService) enqueueNext(ctx context.Context, path, kind string, delay time.Duration) {
	fireAt := s.now().Add(delay).In(s.zone)
	dedupID := fmt.Sprintf("%s-%s-%s", kind, fireAt.Format(scoring.DateFormat), fireAt.Format("15:04"))
	if err := s.queue.Enqueue(ctx, path, dedupID, delay); err != nil {
		s.logger.ErrorContext(ctx, "failed to enqueue next cycle",
			"kind", kind, "error", err)
	}
}
