package usecase

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/riskibarqy/fantasy-hockey/internal/domain/league"
	"github.com/riskibarqy/fantasy-hockey/internal/domain/roster"
	"github.com/riskibarqy/fantasy-hockey/internal/domain/scoring"
)

func newTestOrchestrator(t *testing.T, leagues *stubLeagueRepo, rosters *stubRosterRepo, repo *stubScoringRepo, source *stubGameSource, queue JobQueue) *JobOrchestratorService {
	t.Helper()
	scoringSvc := newTestScoringService(leagues, rosters, repo, source, nil)
	svc := NewJobOrchestratorService(leagues, scoringSvc, queue, time.FixedZone("scoring", -5*60*60), 24*time.Hour, 5*time.Minute, nil)
	svc.now = scoringSvc.now
	return svc
}

func TestRunDailyCycleCoversLiveLeaguesOnly(t *testing.T) {
	t.Parallel()

	leagues := &stubLeagueRepo{leagues: []league.League{
		liveTestLeague("lg-1"),
		{ID: "lg-2", Name: "Done", Season: "2024-25", Status: league.StatusComplete, Rules: defaultTestRules()},
		{ID: "lg-3", Name: "Draft", Season: "2025-26", Status: league.StatusPending, Rules: defaultTestRules()},
	}}
	rosters := &stubRosterRepo{assignments: map[string][]roster.Assignment{
		"lg-1": {{LeagueID: "lg-1", PlayerID: 101, PlayerName: "Skater One", NHLTeam: "BOS", FantasyTeam: "Sharks", Slot: roster.SlotActive}},
	}}
	repo := newStubScoringRepo()
	source := newStubGameSource()
	source.gamesByDate[testDailyDate] = []Game{{ID: 1, State: GameStateFinal}}
	source.boxScores[1] = []scoring.PlayerGameStats{
		{PlayerID: 101, Name: "Skater One", TeamAbbrev: "BOS", Position: "C", Goals: 1},
	}

	queue := &captureQueue{}
	svc := newTestOrchestrator(t, leagues, rosters, repo, source, queue)

	out, err := svc.RunDailyCycle(context.Background())
	if err != nil {
		t.Fatalf("RunDailyCycle: %v", err)
	}
	if len(out.Results) != 1 || out.Results[0].LeagueID != "lg-1" {
		t.Errorf("Results = %+v, want only lg-1", out.Results)
	}
	if len(out.Failed) != 0 {
		t.Errorf("Failed = %v", out.Failed)
	}
	if len(queue.paths) != 1 || queue.paths[0] != "/v1/internal/jobs/score-daily" {
		t.Errorf("queue paths = %v", queue.paths)
	}
	if !strings.HasPrefix(queue.ids[0], "daily-") {
		t.Errorf("dedup id = %q", queue.ids[0])
	}
}

func TestRunDailyCycleReportsProcessedDatesAsSkipped(t *testing.T) {
	t.Parallel()

	leagues := &stubLeagueRepo{leagues: []league.League{liveTestLeague("lg-1")}}
	rosters := &stubRosterRepo{assignments: map[string][]roster.Assignment{"lg-1": nil}}
	repo := newStubScoringRepo()
	if _, err := repo.CreateProcessedDate(context.Background(), scoring.ProcessedDate{LeagueID: "lg-1", Date: testDailyDate}); err != nil {
		t.Fatal(err)
	}
	queue := &captureQueue{}
	svc := newTestOrchestrator(t, leagues, rosters, repo, newStubGameSource(), queue)

	out, err := svc.RunDailyCycle(context.Background())
	if err != nil {
		t.Fatalf("RunDailyCycle: %v", err)
	}
	if len(out.Skipped) != 1 || out.Skipped[0] != "lg-1" {
		t.Errorf("Skipped = %v, want [lg-1]", out.Skipped)
	}
	// The next cycle is enqueued even when nothing ran.
	if len(queue.paths) != 1 {
		t.Errorf("queue paths = %v", queue.paths)
	}
}

func TestRunLiveCycleSweepsAllLiveLeagues(t *testing.T) {
	t.Parallel()

	leagues := &stubLeagueRepo{leagues: []league.League{liveTestLeague("lg-1"), liveTestLeague("lg-2")}}
	rosters := &stubRosterRepo{assignments: map[string][]roster.Assignment{
		"lg-1": {{LeagueID: "lg-1", PlayerID: 101, PlayerName: "Skater One", NHLTeam: "BOS", FantasyTeam: "Sharks", Slot: roster.SlotActive}},
	}}
	repo := newStubScoringRepo()
	source := newStubGameSource()
	source.gamesByDate[testLiveDate] = []Game{
		{ID: 10, State: GameStateLive, Away: GameTeam{Abbrev: "BOS", Score: 1}, Home: GameTeam{Abbrev: "TOR", Score: 0}},
	}
	source.boxScores[10] = []scoring.PlayerGameStats{
		{PlayerID: 101, Name: "Skater One", TeamAbbrev: "BOS", Position: "C", Goals: 1},
	}

	queue := &captureQueue{}
	svc := newTestOrchestrator(t, leagues, rosters, repo, source, queue)

	out, err := svc.RunLiveCycle(context.Background())
	if err != nil {
		t.Fatalf("RunLiveCycle: %v", err)
	}
	if len(out.Results) != 2 {
		t.Errorf("Results = %+v, want both leagues swept", out.Results)
	}
	if len(queue.paths) != 1 || queue.paths[0] != "/v1/internal/jobs/score-live" {
		t.Errorf("queue paths = %v", queue.paths)
	}
}
