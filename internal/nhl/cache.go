package nhl

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/pable/go-pool-stats/internal/model"
)

// ScheduleTTL is how long a cached team schedule stays valid. Runs are
// scheduled batches, so a schedule younger than the batch interval is reused.
const ScheduleTTL = 30 * time.Minute

// ScheduleSource returns a team's season schedule.
type ScheduleSource interface {
	ClubSchedule(ctx context.Context, abbrev, season string) ([]model.Game, error)
}

// CachedSchedules is a read-through Redis cache in front of a ScheduleSource.
// Cache errors are logged and fall through to the source.
type CachedSchedules struct {
	next   ScheduleSource
	client *redis.Client
	ttl    time.Duration
	logger zerolog.Logger
}

// NewCachedSchedules wraps next with a Redis cache.
func NewCachedSchedules(next ScheduleSource, client *redis.Client, ttl time.Duration, logger zerolog.Logger) *CachedSchedules {
	if ttl <= 0 {
		ttl = ScheduleTTL
	}
	return &CachedSchedules{
		next:   next,
		client: client,
		ttl:    ttl,
		logger: logger.With().Str("component", "schedule_cache").Logger(),
	}
}

func scheduleKey(abbrev, season string) string {
	if season == "" {
		season = "now"
	}
	return fmt.Sprintf("poolstats:schedule:%s:%s", season, abbrev)
}

// ClubSchedule serves from Redis when possible and populates it on a miss.
func (c *CachedSchedules) ClubSchedule(ctx context.Context, abbrev, season string) ([]model.Game, error) {
	key := scheduleKey(abbrev, season)

	data, err := c.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var games []model.Game
		jerr := json.Unmarshal(data, &games)
		if jerr == nil {
			return games, nil
		}
		c.logger.Warn().Err(jerr).Str("key", key).Msg("discarding undecodable cache entry")
	case errors.Is(err, redis.Nil):
	default:
		c.logger.Warn().Err(err).Str("key", key).Msg("cache read failed")
	}

	games, err := c.next.ClubSchedule(ctx, abbrev, season)
	if err != nil {
		return nil, err
	}
	body, err := json.Marshal(games)
	if err != nil {
		return games, nil
	}
	if err := c.client.Set(ctx, key, body, c.ttl).Err(); err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("cache write failed")
	}
	return games, nil
}
