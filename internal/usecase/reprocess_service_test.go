package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/fantasy-hockey/internal/domain/scoring"
)

func newTestReprocessService(t *testing.T) (*ReprocessService, *stubScoringRepo, *stubGameSource) {
	t.Helper()
	leagues, rosters, repo, source := testFixtures(t)
	svc := newTestScoringService(leagues, rosters, repo, source, nil)
	return NewReprocessService(svc, time.FixedZone("scoring", -5*60*60), 2, nil), repo, source
}

func TestReprocessRunSkipsProcessedDates(t *testing.T) {
	t.Parallel()

	svc, repo, source := newTestReprocessService(t)
	ctx := context.Background()

	for _, date := range []string{"2026-01-10", "2026-01-11", "2026-01-12"} {
		source.gamesByDate[date] = []Game{{ID: 1, State: GameStateFinal}}
	}
	source.boxScores[1] = []scoring.PlayerGameStats{
		{PlayerID: 101, Name: "Skater One", TeamAbbrev: "BOS", Position: "C", Goals: 1},
	}
	// The middle date was already scored by an earlier run.
	if _, err := repo.CreateProcessedDate(ctx, scoring.ProcessedDate{LeagueID: "lg-1", Date: "2026-01-11"}); err != nil {
		t.Fatal(err)
	}

	res, err := svc.Run(ctx, "lg-1", "2026-01-10", "2026-01-12")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(res.Processed) != 2 || res.Processed[0] != "2026-01-10" || res.Processed[1] != "2026-01-12" {
		t.Errorf("Processed = %v", res.Processed)
	}
	if len(res.Skipped) != 1 || res.Skipped[0] != "2026-01-11" {
		t.Errorf("Skipped = %v", res.Skipped)
	}
	if len(res.Failed) != 0 {
		t.Errorf("Failed = %v", res.Failed)
	}
}

func TestReprocessRunRecordsFailures(t *testing.T) {
	t.Parallel()

	svc, _, source := newTestReprocessService(t)
	ctx := context.Background()

	source.gamesByDate["2026-01-10"] = []Game{{ID: 1, State: GameStateFinal}}
	source.boxScores[1] = []scoring.PlayerGameStats{
		{PlayerID: 101, Name: "Skater One", TeamAbbrev: "BOS", Position: "C", Goals: 1},
	}
	source.listErr["2026-01-11"] = errors.New("schedule feed down")

	res, err := svc.Run(ctx, "lg-1", "2026-01-10", "2026-01-11")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(res.Processed) != 1 || res.Processed[0] != "2026-01-10" {
		t.Errorf("Processed = %v", res.Processed)
	}
	if len(res.Failed) != 1 || res.Failed[0] != "2026-01-11" {
		t.Errorf("Failed = %v", res.Failed)
	}
}

func TestReprocessRunValidatesRange(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestReprocessService(t)
	ctx := context.Background()

	cases := []struct {
		name     string
		leagueID string
		from, to string
	}{
		{"missing league", "", "2026-01-10", "2026-01-11"},
		{"bad from", "lg-1", "Jan 10 2026", "2026-01-11"},
		{"bad to", "lg-1", "2026-01-10", "tomorrow"},
		{"inverted", "lg-1", "2026-01-11", "2026-01-10"},
		{"too wide", "lg-1", "2024-01-01", "2026-01-01"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Run(ctx, tc.leagueID, tc.from, tc.to); !errors.Is(err, ErrInvalidInput) {
				t.Errorf("err = %v, want ErrInvalidInput", err)
			}
		})
	}
}
