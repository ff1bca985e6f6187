package nhl

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/riskibarqy/fantasy-hockey/internal/domain/scoring"
	"github.com/riskibarqy/fantasy-hockey/internal/platform/logging"
	"github.com/riskibarqy/fantasy-hockey/internal/platform/resilience"
	"github.com/riskibarqy/fantasy-hockey/internal/usecase"
)

const (
	defaultBaseURL     = "https://api-web.nhle.com/v1"
	maxResponseBytes   = 6 << 20
	defaultHTTPTimeout = 20 * time.Second
)

var errNHLTransient = crerr.New("nhl transient failure")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	Timeout        time.Duration
	MaxRetries     int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client fetches schedule, box score, and play-by-play data from the NHL
// web API. It implements usecase.GameSource.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	maxRetries     int
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         resilience.SingleFlight
}

var _ usecase.GameSource = (*Client)(nil)

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = defaultHTTPTimeout
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	maxRetries := cfg.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}

	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		maxRetries:     maxRetries,
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
	}
}

func (c *Client) ListGamesByDate(ctx context.Context, date string) ([]usecase.Game, error) {
	if _, err := time.Parse(scoring.DateFormat, date); err != nil {
		return nil, fmt.Errorf("date must be YYYY-MM-DD: %w", err)
	}

	var payload scoreboardEnvelope
	if err := c.doJSON(ctx, "/score/"+date, &payload); err != nil {
		return nil, fmt.Errorf("fetch scoreboard date=%s: %w", date, err)
	}

	games := make([]usecase.Game, 0, len(payload.Games))
	for _, item := range payload.Games {
		if item.ID <= 0 {
			continue
		}
		games = append(games, usecase.Game{
			ID:    item.ID,
			State: strings.ToUpper(strings.TrimSpace(item.GameState)),
			Away:  usecase.GameTeam{Abbrev: item.AwayTeam.Abbrev, Score: item.AwayTeam.Score},
			Home:  usecase.GameTeam{Abbrev: item.HomeTeam.Abbrev, Score: item.HomeTeam.Score},
		})
	}
	return games, nil
}

func (c *Client) FetchBoxScore(ctx context.Context, gameID int64) ([]scoring.PlayerGameStats, error) {
	if gameID <= 0 {
		return nil, fmt.Errorf("game id must be greater than zero")
	}

	var payload boxScoreEnvelope
	path := fmt.Sprintf("/gamecenter/%d/boxscore", gameID)
	if err := c.doJSON(ctx, path, &payload); err != nil {
		return nil, fmt.Errorf("fetch box score game_id=%d: %w", gameID, err)
	}

	stats := make([]scoring.PlayerGameStats, 0, 40)
	stats = appendTeamStats(stats, payload.PlayerByGameStats.AwayTeam, payload.AwayTeam.Abbrev)
	stats = appendTeamStats(stats, payload.PlayerByGameStats.HomeTeam, payload.HomeTeam.Abbrev)
	return stats, nil
}

func (c *Client) FetchPlayByPlay(ctx context.Context, gameID int64) ([]scoring.GameEvent, error) {
	if gameID <= 0 {
		return nil, fmt.Errorf("game id must be greater than zero")
	}

	var payload playByPlayEnvelope
	path := fmt.Sprintf("/gamecenter/%d/play-by-play", gameID)
	if err := c.doJSON(ctx, path, &payload); err != nil {
		return nil, fmt.Errorf("fetch play-by-play game_id=%d: %w", gameID, err)
	}

	events := make([]scoring.GameEvent, 0, len(payload.Plays))
	for _, play := range payload.Plays {
		events = append(events, scoring.GameEvent{
			TypeKey:             play.TypeDescKey,
			DescKey:             play.Details.DescKey,
			CommittedByPlayerID: play.Details.CommittedByPlayerID,
		})
	}
	return events, nil
}

func appendTeamStats(out []scoring.PlayerGameStats, team teamPlayerStats, abbrev string) []scoring.PlayerGameStats {
	for _, skater := range team.Forwards {
		out = append(out, mapSkater(skater, abbrev))
	}
	for _, skater := range team.Defense {
		out = append(out, mapSkater(skater, abbrev))
	}
	for _, goalie := range team.Goalies {
		out = append(out, mapGoalie(goalie, abbrev))
	}
	return out
}

func mapSkater(s skaterLine, abbrev string) scoring.PlayerGameStats {
	return scoring.PlayerGameStats{
		PlayerID:         s.PlayerID,
		Name:             s.Name.Default,
		TeamAbbrev:       abbrev,
		Position:         scoring.Position(s.Position),
		Goals:            s.Goals,
		Assists:          s.Assists,
		Shots:            s.SOG,
		Hits:             s.Hits,
		BlockedShots:     s.BlockedShots,
		PenaltyMinutes:   s.PIM,
		ShortHandedGoals: s.ShorthandedGoals,
	}
}

func mapGoalie(g goalieLine, abbrev string) scoring.PlayerGameStats {
	saves, _ := parseSavesShotsAgainst(g.SaveShotsAgainst)
	wins := 0
	if strings.EqualFold(g.Decision, "W") {
		wins = 1
	}
	shutouts := 0
	if wins == 1 && g.GoalsAgainst == 0 {
		shutouts = 1
	}
	return scoring.PlayerGameStats{
		PlayerID:     g.PlayerID,
		Name:         g.Name.Default,
		TeamAbbrev:   abbrev,
		Position:     scoring.PositionGoalie,
		Goals:        g.Goals,
		Assists:      g.Assists,
		Wins:         wins,
		Saves:        saves,
		Shutouts:     shutouts,
		GoalsAgainst: g.GoalsAgainst,
	}
}

// parseSavesShotsAgainst splits the feed's "saves/shotsAgainst" pair,
// e.g. "25/27".
func parseSavesShotsAgainst(value string) (int, int) {
	parts := strings.SplitN(strings.TrimSpace(value), "/", 2)
	if len(parts) != 2 {
		return 0, 0
	}
	saves, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0
	}
	shots, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return saves, 0
	}
	return saves, shots
}

func (c *Client) doJSON(ctx context.Context, path string, target any) error {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "nhl circuit breaker rejected request", "state", c.breaker.State())
			return fmt.Errorf("%w: game data feed is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
	}

	fullURL := c.baseURL + path
	out, err, _ := c.flight.Do(path, func() (any, error) {
		raw, reqErr := c.executeRequest(ctx, fullURL)
		if c.circuitEnabled {
			if reqErr != nil && crerr.Is(reqErr, errNHLTransient) {
				c.breaker.RecordFailure()
			} else {
				c.breaker.RecordSuccess()
			}
		}
		return raw, reqErr
	})
	if err != nil {
		return err
	}

	raw, ok := out.([]byte)
	if !ok {
		return fmt.Errorf("unexpected response payload type %T", out)
	}
	if err := sonic.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("decode feed payload: %w", err)
	}
	return nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: send request: %v", errNHLTransient, err)
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
			_ = resp.Body.Close()
			switch {
			case readErr != nil:
				lastErr = fmt.Errorf("%w: read response body: %v", errNHLTransient, readErr)
			case resp.StatusCode >= 200 && resp.StatusCode < 300:
				return raw, nil
			case isRetryableStatus(resp.StatusCode):
				lastErr = fmt.Errorf("%w: feed status=%d body=%s", errNHLTransient, resp.StatusCode, abbreviateBody(raw))
			default:
				return nil, fmt.Errorf("feed status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
			}
		}

		if attempt == c.maxRetries {
			break
		}
		backoff := time.Duration(attempt+1) * time.Second
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
	return nil, lastErr
}

func isRetryableStatus(status int) bool {
	return status == http.StatusTooManyRequests || status >= http.StatusInternalServerError
}

func abbreviateBody(raw []byte) string {
	const limit = 256
	body := strings.TrimSpace(string(raw))
	if len(body) > limit {
		return body[:limit] + "..."
	}
	return body
}
