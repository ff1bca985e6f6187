package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/riskibarqy/fantasy-hockey/internal/domain/league"
	"github.com/riskibarqy/fantasy-hockey/internal/domain/roster"
	"github.com/riskibarqy/fantasy-hockey/internal/domain/scoring"
	"github.com/riskibarqy/fantasy-hockey/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/fantasy-hockey/internal/usecase"
)

const testJobToken = "job-secret"

type fakeGameSource struct {
	games map[string][]usecase.Game
	box   map[int64][]scoring.PlayerGameStats
}

func (f *fakeGameSource) ListGamesByDate(_ context.Context, date string) ([]usecase.Game, error) {
	return f.games[date], nil
}

func (f *fakeGameSource) FetchBoxScore(_ context.Context, gameID int64) ([]scoring.PlayerGameStats, error) {
	return f.box[gameID], nil
}

func (f *fakeGameSource) FetchPlayByPlay(context.Context, int64) ([]scoring.GameEvent, error) {
	return nil, nil
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	rules := scoring.DefaultRules()
	leagues := memory.NewLeagueRepository([]league.League{
		{ID: "lg-1", Name: "Office League", Season: "2025-26", Status: league.StatusLive, Rules: &rules},
	})
	rosters := memory.NewRosterRepository([]roster.Assignment{
		{LeagueID: "lg-1", PlayerID: 101, PlayerName: "Skater One", NHLTeam: "BOS", FantasyTeam: "Sharks", Slot: roster.SlotActive},
	})
	scores := memory.NewScoringRepository()

	zone := time.FixedZone("scoring", -5*60*60)
	source := &fakeGameSource{
		games: map[string][]usecase.Game{},
		box:   map[int64][]scoring.PlayerGameStats{},
	}
	scoringSvc := usecase.NewScoringService(leagues, rosters, scores, source, nil, zone, 0, nil)
	leagueSvc := usecase.NewLeagueService(leagues, rosters)
	reprocessSvc := usecase.NewReprocessService(scoringSvc, zone, 1, nil)
	orchestrator := usecase.NewJobOrchestratorService(leagues, scoringSvc, nil, zone, time.Hour, time.Minute, nil)

	handler := NewHandler(leagueSvc, scoringSvc, reprocessSvc, orchestrator, nil, nil)
	return NewRouter(handler, nil, []string{"*"}, testJobToken)
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) googleResponseEnvelope {
	t.Helper()
	var envelope googleResponseEnvelope
	if err := sonic.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response: %v body=%s", err, rec.Body.String())
	}
	return envelope
}

func TestHealthzReportsOK(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	envelope := decodeEnvelope(t, rec)
	if envelope.APIVersion != googleAPIVersion {
		t.Errorf("apiVersion = %q", envelope.APIVersion)
	}
}

func TestListLeaguesReturnsEnvelope(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/leagues", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Office League") {
		t.Errorf("body missing league: %s", rec.Body.String())
	}
}

func TestUnknownLeagueMapsToNotFound(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/leagues/nope", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	envelope := decodeEnvelope(t, rec)
	if envelope.Error == nil || envelope.Error.Status != "NOT_FOUND" {
		t.Errorf("error body = %+v", envelope.Error)
	}
}

func TestDailyScoresRejectBadDate(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/leagues/lg-1/scores/daily?date=not-a-date", nil))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestJobRoutesRequireToken(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/internal/jobs/score-daily", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("missing token status = %d, want 401", rec.Code)
	}

	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/internal/jobs/score-daily", nil)
	req.Header.Set("X-Internal-Job-Token", "wrong")
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("bad token status = %d, want 401", rec.Code)
	}
}

func TestDailyLeagueJobRunsOnceThenConflicts(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)
	body := `{"leagueId":"lg-1","asOf":"2026-01-15T12:00:00Z"}`

	run := func() *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/v1/internal/jobs/score-daily/league", strings.NewReader(body))
		req.Header.Set("X-Internal-Job-Token", testJobToken)
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(rec, req)
		return rec
	}

	if rec := run(); rec.Code != http.StatusOK {
		t.Fatalf("first run status = %d body=%s", rec.Code, rec.Body.String())
	}
	rec := run()
	if rec.Code != http.StatusConflict {
		t.Fatalf("second run status = %d, want 409", rec.Code)
	}
	envelope := decodeEnvelope(t, rec)
	if envelope.Error == nil || envelope.Error.Status != "ALREADY_EXISTS" {
		t.Errorf("error body = %+v", envelope.Error)
	}
}

func TestReprocessJobValidatesBody(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/internal/jobs/reprocess", strings.NewReader(`{"leagueId":"lg-1"}`))
	req.Header.Set("X-Internal-Job-Token", testJobToken)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestCORSPreflightAllowsConfiguredOrigin(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/v1/leagues", nil)
	req.Header.Set("Origin", "https://scores.example.com")
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Access-Control-Allow-Origin = %q", got)
	}
}
