package consumer

import (
	"context"
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"

	"bookshelf-service/internal/entity"
	"bookshelf-service/internal/service"
)

// MessageReader is the subset of *kafka.Reader the consumer needs.
type MessageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
}

// Consumer evicts cached views when peer instances report changes.
type Consumer struct {
	reader  MessageReader
	bookSvc *service.BookService
	userSvc *service.UserService
}

func NewConsumer(reader MessageReader, bookSvc *service.BookService, userSvc *service.UserService) *Consumer {
	return &Consumer{reader: reader, bookSvc: bookSvc, userSvc: userSvc}
}

// Run reads change events until ctx is cancelled or the reader is closed.
func (c *Consumer) Run(ctx context.Context) error {
	log.Info().Msg("Starting change event consumer")
	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, io.EOF) {
				log.Info().Msg("Change event consumer stopped")
				return nil
			}
			log.Error().Err(err).Msg("Error reading message")
			continue
		}

		c.processMessage(ctx, msg)
	}
}

// processMessage handles one event. key -> "book.updated.12" or "user.created.3"
func (c *Consumer) processMessage(ctx context.Context, msg kafka.Message) {
	key := string(msg.Key)
	parts := strings.Split(key, ".")
	if len(parts) != 3 {
		log.Error().Msgf("Unknown event key: %q", key)
		return
	}

	entityName, action := parts[0], parts[1]
	id, err := strconv.Atoi(parts[2])
	if err != nil {
		log.Error().Msgf("Invalid entity id in event key: %q", key)
		return
	}

	switch action {
	case entity.ActionCreated:
		// nothing cached yet
		log.Debug().Msgf("Ignoring event %s", key)
		return
	case entity.ActionUpdated, entity.ActionDeleted:
	default:
		log.Error().Msgf("Unknown event action: %s", action)
		return
	}

	switch entityName {
	case entity.EntityBook:
		c.bookSvc.InvalidateBook(ctx, id)
	case entity.EntityUser:
		c.userSvc.InvalidateUser(ctx, id)
	default:
		log.Error().Msgf("Unknown event entity: %s", entityName)
		return
	}
	log.Debug().Msgf("Evicted cache entry for event %s", key)
}
