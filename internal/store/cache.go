package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/KrisMoody/stryktipset-predictor-sub006/pkg/contracts"
	"github.com/KrisMoody/stryktipset-predictor-sub006/pkg/models"
)

// Cache keeps the latest calculation per match in Redis (write-through,
// the database stays the source of truth) and publishes every persisted
// calculation to a stream for downstream consumers.
type Cache struct {
	redis  *redis.Client
	ttl    time.Duration
	stream string
}

// NewCache creates a cache publishing to the given stream.
func NewCache(redisClient *redis.Client, ttl time.Duration, stream string) *Cache {
	return &Cache{redis: redisClient, ttl: ttl, stream: stream}
}

// StreamMessage is the wire shape published to the result stream.
type StreamMessage struct {
	MatchID          string              `json:"match_id"`
	ModelVersion     string              `json:"model_version"`
	ProbHome         float64             `json:"prob_home"`
	ProbDraw         float64             `json:"prob_draw"`
	ProbAway         float64             `json:"prob_away"`
	BestValueOutcome *models.Outcome     `json:"best_value_outcome,omitempty"`
	DataQuality      models.DataQuality  `json:"data_quality"`
	CalculatedAt     time.Time           `json:"calculated_at"`
}

// StoreCalculation caches the record and publishes it to the stream in
// one pipeline round-trip.
func (c *Cache) StoreCalculation(ctx context.Context, calc *models.MatchCalculation) error {
	data, err := json.Marshal(calc)
	if err != nil {
		return fmt.Errorf("marshal calculation: %w", err)
	}

	msg := StreamMessage{
		MatchID:          calc.MatchID,
		ModelVersion:     calc.ModelVersion,
		ProbHome:         calc.ProbHome,
		ProbDraw:         calc.ProbDraw,
		ProbAway:         calc.ProbAway,
		BestValueOutcome: calc.BestValueOutcome,
		DataQuality:      calc.DataQuality,
		CalculatedAt:     calc.CalculatedAt,
	}
	msgJSON, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal stream message: %w", err)
	}

	pipe := c.redis.Pipeline()
	pipe.Set(ctx, c.buildKey(calc.MatchID, calc.ModelVersion), data, c.ttl)
	pipe.XAdd(ctx, &redis.XAddArgs{
		Stream: c.stream,
		Values: map[string]interface{}{"data": msgJSON},
	})

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis pipeline exec: %w", err)
	}
	return nil
}

// GetCalculation returns the cached record, or contracts.ErrNotFound on
// a miss. A corrupt cache entry is treated as a miss; the database copy
// repopulates it on the next write.
func (c *Cache) GetCalculation(ctx context.Context, matchID, modelVersion string) (*models.MatchCalculation, error) {
	data, err := c.redis.Get(ctx, c.buildKey(matchID, modelVersion)).Result()
	if err == redis.Nil {
		return nil, contracts.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}

	var calc models.MatchCalculation
	if err := json.Unmarshal([]byte(data), &calc); err != nil {
		return nil, contracts.ErrNotFound
	}
	return &calc, nil
}

// buildKey creates the cache key for a match's current calculation.
// Format: calc:current:{match_id}:{model_version}
func (c *Cache) buildKey(matchID, modelVersion string) string {
	return fmt.Sprintf("calc:current:%s:%s", matchID, modelVersion)
}
