package consumer

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookshelf-service/internal/config"
	"bookshelf-service/internal/database"
	"bookshelf-service/internal/repository"
	"bookshelf-service/internal/service"
)

// fakeReader replays msgs, then reports io.EOF.
type fakeReader struct {
	msgs []kafka.Message
	errs []error
}

func (r *fakeReader) ReadMessage(ctx context.Context) (kafka.Message, error) {
	if len(r.errs) > 0 {
		err := r.errs[0]
		r.errs = r.errs[1:]
		return kafka.Message{}, err
	}
	if len(r.msgs) == 0 {
		return kafka.Message{}, io.EOF
	}
	msg := r.msgs[0]
	r.msgs = r.msgs[1:]
	return msg, nil
}

func newServices(t *testing.T) (*service.BookService, *service.UserService, *miniredis.Miniredis) {
	t.Helper()

	db, err := database.Open(context.Background(), config.Config{
		DBDriver: config.DriverSQLite,
		DBDSN:    filepath.Join(t.TempDir(), "app.sqlite"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	books := service.NewBookService(*repository.NewBookRepository(db), rdb, time.Minute, nil)
	users := service.NewUserService(*repository.NewUserRepository(db), rdb, time.Minute, nil)
	return books, users, mr
}

func TestRunEvictsChangedEntries(t *testing.T) {
	books, users, mr := newServices(t)
	for _, key := range []string{"book:1", "book:2", "user:3", "user:4"} {
		require.NoError(t, mr.Set(key, "{}"))
	}

	reader := &fakeReader{
		errs: []error{errors.New("broker not available")},
		msgs: []kafka.Message{
			{Key: []byte("book.updated.1")},
			{Key: []byte("book.created.2")},
			{Key: []byte("user.deleted.3")},
			{Key: []byte("garbage")},
			{Key: []byte("order.updated.4")},
			{Key: []byte("user.updated.x")},
		},
	}

	err := NewConsumer(reader, books, users).Run(context.Background())
	require.NoError(t, err)

	assert.False(t, mr.Exists("book:1"))
	assert.True(t, mr.Exists("book:2"))
	assert.False(t, mr.Exists("user:3"))
	assert.True(t, mr.Exists("user:4"))
}

type blockingReader struct{}

func (blockingReader) ReadMessage(ctx context.Context) (kafka.Message, error) {
	<-ctx.Done()
	return kafka.Message{}, ctx.Err()
}

func TestRunStopsOnCancel(t *testing.T) {
	books, users, _ := newServices(t)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- NewConsumer(blockingReader{}, books, users).Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("consumer did not stop after cancel")
	}
}
