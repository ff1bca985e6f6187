package nhl

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/riskibarqy/fantasy-hockey/internal/domain/scoring"
	"github.com/riskibarqy/fantasy-hockey/internal/platform/resilience"
	"github.com/riskibarqy/fantasy-hockey/internal/usecase"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client := NewClient(ClientConfig{
		BaseURL:    server.URL,
		Timeout:    2 * time.Second,
		MaxRetries: 0,
	})
	return client, server
}

func TestListGamesByDateMapsScoreboard(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/score/2026-01-14" {
			t.Errorf("path = %q", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"games":[
			{"id":2025020500,"gameState":"final","awayTeam":{"abbrev":"BOS","score":3},"homeTeam":{"abbrev":"TOR","score":2}},
			{"id":2025020501,"gameState":"FUT","awayTeam":{"abbrev":"NYR"},"homeTeam":{"abbrev":"MTL"}},
			{"id":0,"gameState":"LIVE"}
		]}`))
	}))

	games, err := client.ListGamesByDate(context.Background(), "2026-01-14")
	if err != nil {
		t.Fatalf("ListGamesByDate: %v", err)
	}
	if len(games) != 2 {
		t.Fatalf("games = %d, want 2 (id 0 dropped)", len(games))
	}
	first := games[0]
	if first.ID != 2025020500 || first.State != "FINAL" || first.Away.Score != 3 || first.Home.Abbrev != "TOR" {
		t.Errorf("unexpected game: %+v", first)
	}
	if !first.IsFinal() {
		t.Error("lowercased final state must still report final")
	}
	if !games[1].IsScheduled() {
		t.Errorf("FUT game must report scheduled: %+v", games[1])
	}
}

func TestListGamesByDateRejectsBadDate(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("request must not be sent for an invalid date")
	}))
	if _, err := client.ListGamesByDate(context.Background(), "01/14/2026"); err == nil {
		t.Fatal("expected error for bad date layout")
	}
}

func TestFetchBoxScoreMapsBothBenches(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/gamecenter/2025020500/boxscore" {
			t.Errorf("path = %q", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{
			"awayTeam":{"abbrev":"BOS","score":3},
			"homeTeam":{"abbrev":"TOR","score":0},
			"playerByGameStats":{
				"awayTeam":{
					"forwards":[{"playerId":101,"name":{"default":"Skater One"},"position":"C","goals":2,"assists":1,"sog":5,"pim":5,"shorthandedGoals":1}],
					"defense":[{"playerId":102,"name":{"default":"Blue Liner"},"position":"D","hits":4,"blockedShots":3}],
					"goalies":[{"playerId":103,"name":{"default":"Net Minder"},"saveShotsAgainst":"25/25","goalsAgainst":0,"decision":"W"}]
				},
				"homeTeam":{
					"goalies":[{"playerId":201,"name":{"default":"Other Tender"},"saveShotsAgainst":"22/25","goalsAgainst":3,"decision":"L"}]
				}
			}
		}`))
	}))

	stats, err := client.FetchBoxScore(context.Background(), 2025020500)
	if err != nil {
		t.Fatalf("FetchBoxScore: %v", err)
	}
	if len(stats) != 4 {
		t.Fatalf("stats = %d, want 4", len(stats))
	}

	byID := map[int64]scoring.PlayerGameStats{}
	for _, s := range stats {
		byID[s.PlayerID] = s
	}
	forward := byID[101]
	if forward.Goals != 2 || forward.Assists != 1 || forward.Shots != 5 || forward.ShortHandedGoals != 1 || forward.TeamAbbrev != "BOS" {
		t.Errorf("forward line: %+v", forward)
	}
	dman := byID[102]
	if dman.Position != scoring.PositionDefense || dman.Hits != 4 || dman.BlockedShots != 3 {
		t.Errorf("defense line: %+v", dman)
	}
	winner := byID[103]
	if winner.Position != scoring.PositionGoalie || winner.Wins != 1 || winner.Saves != 25 || winner.Shutouts != 1 {
		t.Errorf("winning goalie line: %+v", winner)
	}
	loser := byID[201]
	if loser.Wins != 0 || loser.Saves != 22 || loser.Shutouts != 0 || loser.GoalsAgainst != 3 {
		t.Errorf("losing goalie line: %+v", loser)
	}
}

func TestFetchPlayByPlayMapsPenalties(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"plays":[
			{"typeDescKey":"penalty","details":{"descKey":"fighting","committedByPlayerId":101}},
			{"typeDescKey":"goal","details":{}}
		]}`))
	}))

	events, err := client.FetchPlayByPlay(context.Background(), 2025020500)
	if err != nil {
		t.Fatalf("FetchPlayByPlay: %v", err)
	}
	fights := scoring.CountFights(events)
	if fights[101] != 1 {
		t.Errorf("fights = %v, want player 101 with 1", fights)
	}
}

func TestExecuteRequestRetriesTransientStatus(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"games":[]}`))
	}))
	t.Cleanup(server.Close)

	client := NewClient(ClientConfig{BaseURL: server.URL, Timeout: 2 * time.Second, MaxRetries: 1})
	if _, err := client.ListGamesByDate(context.Background(), "2026-01-14"); err != nil {
		t.Fatalf("ListGamesByDate after retry: %v", err)
	}
	if calls.Load() != 2 {
		t.Errorf("calls = %d, want 2", calls.Load())
	}
}

func TestExecuteRequestDoesNotRetryClientErrors(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	t.Cleanup(server.Close)

	client := NewClient(ClientConfig{BaseURL: server.URL, Timeout: 2 * time.Second, MaxRetries: 3})
	if _, err := client.ListGamesByDate(context.Background(), "2026-01-14"); err == nil {
		t.Fatal("expected error on 404")
	}
	if calls.Load() != 1 {
		t.Errorf("calls = %d, want 1 (no retry)", calls.Load())
	}
}

func TestCircuitBreakerShedsAfterRepeatedFailures(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	t.Cleanup(server.Close)

	client := NewClient(ClientConfig{
		BaseURL: server.URL,
		Timeout: 2 * time.Second,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          true,
			FailureThreshold: 2,
			OpenTimeout:      time.Minute,
			HalfOpenMaxReq:   1,
		},
	})

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		if _, err := client.ListGamesByDate(ctx, "2026-01-14"); err == nil {
			t.Fatal("expected upstream failure")
		}
	}
	_, err := client.ListGamesByDate(ctx, "2026-01-14")
	if !errors.Is(err, usecase.ErrDependencyUnavailable) {
		t.Fatalf("err = %v, want ErrDependencyUnavailable once open", err)
	}
}
