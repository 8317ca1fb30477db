// Package redisstore keeps summary jobs in Redis so every server instance sees them.
package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"xauusd_backend/internal/feature/backtest/domain/entity"
	"xauusd_backend/internal/feature/backtest/usecase"
)

// DefaultTTL is how long a job stays readable after its last update.
const DefaultTTL = time.Hour

// SummaryRedis implements usecase.SummaryStore using Redis.
type SummaryRedis struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

var _ usecase.SummaryStore = (*SummaryRedis)(nil)

// NewSummaryRedis creates a new SummaryRedis instance.
// An empty prefix defaults to "summary" and a non-positive ttl to DefaultTTL.
func NewSummaryRedis(client *redis.Client, prefix string, ttl time.Duration) *SummaryRedis {
	if prefix == "" {
		prefix = "summary"
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &SummaryRedis{client: client, prefix: prefix, ttl: ttl}
}

// jobKey returns the Redis key for a job.
func (r *SummaryRedis) jobKey(id string) string {
	return fmt.Sprintf("%s:%s", r.prefix, id)
}

// Save writes the job and refreshes its TTL.
func (r *SummaryRedis) Save(ctx context.Context, job entity.SummaryJob) error {
	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal summary job: %w", err)
	}
	return r.client.Set(ctx, r.jobKey(job.ID), data, r.ttl).Err()
}

// Get retrieves a job by its ID. A missing key is reported with ok == false.
func (r *SummaryRedis) Get(ctx context.Context, id string) (entity.SummaryJob, bool, error) {
	data, err := r.client.Get(ctx, r.jobKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return entity.SummaryJob{}, false, nil
		}
		return entity.SummaryJob{}, false, err
	}

	var job entity.SummaryJob
	if err := json.Unmarshal(data, &job); err != nil {
		return entity.SummaryJob{}, false, fmt.Errorf("failed to unmarshal summary job: %w", err)
	}
	return job, true, nil
}
