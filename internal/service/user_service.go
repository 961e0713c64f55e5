package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"

	"bookshelf-service/internal/apperr"
	"bookshelf-service/internal/entity"
	"bookshelf-service/internal/repository"
	"bookshelf-service/internal/schema"
)

type UserService struct {
	userRepo repository.UserRepository
	cache    viewCache
	events   publisher
}

// NewUserService creates a new instance of UserService. rdb and events may
// be nil.
func NewUserService(userRepo repository.UserRepository, rdb *redis.Client, cacheTTL time.Duration, events EventWriter) *UserService {
	return &UserService{
		userRepo: userRepo,
		cache:    viewCache{rdb: rdb, ttl: cacheTTL},
		events:   publisher{w: events},
	}
}

// AddUser stores a new user. Username and password are required; an empty
// email is stored as absent.
func (s *UserService) AddUser(ctx context.Context, user *entity.User) (schema.UserView, error) {
	if strings.TrimSpace(user.Username) == "" || user.Password == "" {
		return schema.UserView{}, apperr.InvalidRequest("username and password are required")
	}
	if user.Email != nil && strings.TrimSpace(*user.Email) == "" {
		user.Email = nil
	}

	created, err := s.userRepo.Create(ctx, user)
	if err != nil {
		logFailure(err, "Error creating user")
		return schema.UserView{}, err
	}

	view := schema.DumpUser(created)
	s.events.publish(ctx, entity.EntityUser, entity.ActionCreated, created.ID, view)
	return view, nil
}

func (s *UserService) ListUsers(ctx context.Context) ([]schema.UserView, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		logFailure(err, "Error listing users")
		return nil, err
	}
	return schema.DumpUsers(users), nil
}

// GetUser returns one user, served from cache when possible. Only the view
// is cached, so the password never reaches Redis.
func (s *UserService) GetUser(ctx context.Context, id int) (schema.UserView, error) {
	key := cacheKey(entity.EntityUser, id)

	var view schema.UserView
	if s.cache.get(ctx, key, &view) {
		return view, nil
	}

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		logFailure(err, fmt.Sprintf("Error getting user by ID %d", id))
		return schema.UserView{}, err
	}

	view = schema.DumpUser(user)
	s.cache.set(ctx, key, view)
	return view, nil
}

func (s *UserService) InvalidateUser(ctx context.Context, id int) {
	s.cache.del(ctx, cacheKey(entity.EntityUser, id))
}
