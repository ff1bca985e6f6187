package livecache

import (
	"context"
	"fmt"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/redis/go-redis/v9"

	"github.com/riskibarqy/fantasy-hockey/internal/domain/scoring"
	"github.com/riskibarqy/fantasy-hockey/internal/usecase"
)

const defaultSnapshotTTL = 6 * time.Hour

// RedisSink mirrors live snapshots into Redis so scoreboard readers can
// poll without touching the primary store. Keys expire on their own; the
// next live sweep rewrites them.
type RedisSink struct {
	client *redis.Client
	ttl    time.Duration
}

var _ usecase.LiveSnapshotSink = (*RedisSink)(nil)

func NewRedisSink(addr string, ttl time.Duration) (*RedisSink, error) {
	if ttl <= 0 {
		ttl = defaultSnapshotTTL
	}
	client := redis.NewClient(&redis.Options{Addr: addr})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return &RedisSink{client: client, ttl: ttl}, nil
}

func (s *RedisSink) Close() error {
	return s.client.Close()
}

func (s *RedisSink) HealthCheck(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func snapshotKey(leagueID, date string, gameID int64) string {
	return fmt.Sprintf("live:%s:%s:%d", leagueID, date, gameID)
}

func (s *RedisSink) PublishGameSnapshot(ctx context.Context, leagueID string, date string, gameID int64, stats []scoring.LivePlayerStat) error {
	payload, err := sonic.Marshal(stats)
	if err != nil {
		return fmt.Errorf("encode live snapshot: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, snapshotKey(leagueID, date, gameID), payload, s.ttl)
	pipe.SAdd(ctx, fmt.Sprintf("live:%s:%s:games", leagueID, date), gameID)
	pipe.Expire(ctx, fmt.Sprintf("live:%s:%s:games", leagueID, date), s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("publish live snapshot game_id=%d: %w", gameID, err)
	}
	return nil
}

// GetGameSnapshot reads back one game's snapshot. Missing keys return an
// empty slice.
func (s *RedisSink) GetGameSnapshot(ctx context.Context, leagueID, date string, gameID int64) ([]scoring.LivePlayerStat, error) {
	raw, err := s.client.Get(ctx, snapshotKey(leagueID, date, gameID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("read live snapshot game_id=%d: %w", gameID, err)
	}

	var stats []scoring.LivePlayerStat
	if err := sonic.Unmarshal(raw, &stats); err != nil {
		return nil, fmt.Errorf("decode live snapshot game_id=%d: %w", gameID, err)
	}
	return stats, nil
}
