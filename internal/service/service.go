package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"

	"bookshelf-service/internal/apperr"
	"bookshelf-service/internal/entity"
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

// SetLogger replaces the package logger, e.g. to apply the configured level.
func SetLogger(l zerolog.Logger) {
	logger = l
}

// EventWriter is the subset of *kafka.Writer the services publish through.
type EventWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// logFailure logs err at a level matching its kind; client errors are not
// service failures.
func logFailure(err error, msg string) {
	switch apperr.CodeOf(err) {
	case apperr.CodeInternal:
		logger.Error().Err(err).Msg(msg)
	default:
		logger.Debug().Err(err).Msg(msg)
	}
}

// viewCache is a read-through cache of serialized views. A nil client
// disables it; Redis failures are logged and never surface to callers.
type viewCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func cacheKey(entityName string, id int) string {
	return fmt.Sprintf("%s:%d", entityName, id)
}

func (c viewCache) get(ctx context.Context, key string, v any) bool {
	if c.rdb == nil {
		return false
	}

	data, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.Error().Err(err).Msgf("Error getting %s from cache", key)
		}
		return false
	}

	if err := json.Unmarshal(data, v); err != nil {
		logger.Error().Err(err).Msgf("Error unmarshalling %s from cache", key)
		return false
	}
	return true
}

func (c viewCache) set(ctx context.Context, key string, v any) {
	if c.rdb == nil {
		return
	}

	data, err := json.Marshal(v)
	if err != nil {
		logger.Error().Err(err).Msgf("Error marshalling %s for cache", key)
		return
	}
	if err := c.rdb.Set(ctx, key, data, c.ttl).Err(); err != nil {
		logger.Error().Err(err).Msgf("Error setting %s in cache", key)
	}
}

func (c viewCache) del(ctx context.Context, key string) {
	if c.rdb == nil {
		return
	}
	if err := c.rdb.Del(ctx, key).Err(); err != nil {
		logger.Error().Err(err).Msgf("Error deleting %s from cache", key)
	}
}

// publisher sends change events. A nil writer disables it.
type publisher struct {
	w EventWriter
}

func (p publisher) publish(ctx context.Context, entityName, action string, id int, data any) {
	if p.w == nil {
		return
	}

	event := entity.Event{
		ID:         uuid.NewString(),
		Entity:     entityName,
		Action:     action,
		EntityID:   id,
		Data:       data,
		OccurredAt: time.Now().UTC(),
	}
	value, err := json.Marshal(event)
	if err != nil {
		logger.Error().Err(err).Msgf("Error marshalling event %s", event.Key())
		return
	}

	err = p.w.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.Key()),
		Value: value,
	})
	if err != nil {
		logger.Error().Err(err).Msgf("Error publishing event %s", event.Key())
		return
	}
	logger.Debug().Msgf("Published event %s", event.Key())
}
