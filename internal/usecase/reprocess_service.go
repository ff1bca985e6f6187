package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/riskibarqy/fantasy-hockey/internal/domain/scoring"
	"github.com/riskibarqy/fantasy-hockey/internal/platform/logging"
)

// ReprocessResult summarizes a historical backfill over a date range.
type ReprocessResult struct {
	LeagueID  string   `json:"leagueId"`
	From      string   `json:"from"`
	To        string   `json:"to"`
	Processed []string `json:"processed"`
	Skipped   []string `json:"skipped"`
	Failed    []string `json:"failed"`
}

// ReprocessService backfills daily scoring over a date range. Dates that
// already carry a processed marker are skipped, so a backfill can be
// re-run safely after a partial failure.
type ReprocessService struct {
	scoring *ScoringService
	zone    *time.Location
	workers int
	logger  *logging.Logger
}

func NewReprocessService(scoringSvc *ScoringService, zone *time.Location, workers int, logger *logging.Logger) *ReprocessService {
	if zone == nil {
		zone = time.FixedZone("scoring", -5*60*60)
	}
	if workers <= 0 {
		workers = 2
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &ReprocessService{scoring: scoringSvc, zone: zone, workers: workers, logger: logger}
}

// Run scores every date in [from, to] inclusive. Both bounds use the
// YYYY-MM-DD layout. RunDaily anchors on "yesterday", so each date is
// submitted as an asOf of the following day.
func (s *ReprocessService) Run(ctx context.Context, leagueID, from, to string) (ReprocessResult, error) {
	ctx, span := startUsecaseSpan(ctx, "ReprocessService.Run")
	defer span.End()

	if leagueID == "" {
		return ReprocessResult{}, fmt.Errorf("%w: league id is required", ErrInvalidInput)
	}
	start, err := time.ParseInLocation(scoring.DateFormat, from, s.zone)
	if err != nil {
		return ReprocessResult{}, fmt.Errorf("%w: from must be YYYY-MM-DD", ErrInvalidInput)
	}
	end, err := time.ParseInLocation(scoring.DateFormat, to, s.zone)
	if err != nil {
		return ReprocessResult{}, fmt.Errorf("%w: to must be YYYY-MM-DD", ErrInvalidInput)
	}
	if end.Before(start) {
		return ReprocessResult{}, fmt.Errorf("%w: to precedes from", ErrInvalidInput)
	}
	const maxRangeDays = 366
	if end.Sub(start) > maxRangeDays*24*time.Hour {
		return ReprocessResult{}, fmt.Errorf("%w: range exceeds %d days", ErrInvalidInput, maxRangeDays)
	}

	pool, err := ants.NewPool(s.workers)
	if err != nil {
		return ReprocessResult{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	result := ReprocessResult{LeagueID: leagueID, From: from, To: to}
	var mu sync.Mutex
	var wg sync.WaitGroup

	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		day := day
		date := day.Format(scoring.DateFormat)
		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()
			if ctx.Err() != nil {
				mu.Lock()
				result.Failed = append(result.Failed, date)
				mu.Unlock()
				return
			}
			// RunDaily scores asOf minus one day.
			_, runErr := s.scoring.RunDaily(ctx, leagueID, day.AddDate(0, 0, 1))
			mu.Lock()
			defer mu.Unlock()
			switch {
			case runErr == nil:
				result.Processed = append(result.Processed, date)
			case errors.Is(runErr, ErrAlreadyProcessed):
				result.Skipped = append(result.Skipped, date)
			default:
				s.logger.WarnContext(ctx, "reprocess date failed",
					"leagueId", leagueID, "date", date, "error", runErr)
				result.Failed = append(result.Failed, date)
			}
		})
		if submitErr != nil {
			wg.Done()
			mu.Lock()
			result.Failed = append(result.Failed, date)
			mu.Unlock()
		}
	}
	wg.Wait()

	sort.Strings(result.Processed)
	sort.Strings(result.Skipped)
	sort.Strings(result.Failed)
	return result, nil
}
