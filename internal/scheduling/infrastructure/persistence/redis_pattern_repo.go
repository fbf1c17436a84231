package persistence

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/felixgeelhaar/touchbase/internal/scheduling/domain"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// patternTTL keeps pattern records around for twice the analysis window so a
// contact returning after a quiet stretch still has history to analyze.
const patternTTL = 2 * domain.PatternWindowDays * 24 * time.Hour

// RedisPatternRepository implements domain.PatternRepository with JSON records
// keyed by contact ID.
type RedisPatternRepository struct {
	client *redis.Client
}

// NewRedisPatternRepository creates a new Redis pattern repository.
func NewRedisPatternRepository(client *redis.Client) *RedisPatternRepository {
	return &RedisPatternRepository{client: client}
}

func patternKey(contactID uuid.UUID) string {
	return fmt.Sprintf("touchbase:patterns:%s", contactID)
}

// Get returns the pattern record for a contact, or nil when none exists.
func (r *RedisPatternRepository) Get(ctx context.Context, contactID uuid.UUID) (*domain.PatternRecord, error) {
	val, err := r.client.Get(ctx, patternKey(contactID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var record domain.PatternRecord
	if err := json.Unmarshal(val, &record); err != nil {
		return nil, fmt.Errorf("failed to decode pattern record: %w", err)
	}
	return &record, nil
}

// Save stores a contact's pattern record, refreshing its TTL.
func (r *RedisPatternRepository) Save(ctx context.Context, record *domain.PatternRecord) error {
	val, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to encode pattern record: %w", err)
	}
	return r.client.Set(ctx, patternKey(record.ContactID), val, patternTTL).Err()
}
