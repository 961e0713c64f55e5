package service

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-redis/redis/v8"

	"bookshelf-service/internal/apperr"
	"bookshelf-service/internal/entity"
	"bookshelf-service/internal/repository"
	"bookshelf-service/internal/schema"
)

type BookService struct {
	bookRepo repository.BookRepository
	cache    viewCache
	events   publisher
}

// NewBookService creates a new instance of BookService. rdb and events may
// be nil.
func NewBookService(bookRepo repository.BookRepository, rdb *redis.Client, cacheTTL time.Duration, events EventWriter) *BookService {
	return &BookService{
		bookRepo: bookRepo,
		cache:    viewCache{rdb: rdb, ttl: cacheTTL},
		events:   publisher{w: events},
	}
}

func validateReview(review *string) error {
	if review != nil && utf8.RuneCountInString(*review) > entity.ReviewMaxLength {
		return apperr.InvalidRequest("review must be at most %d characters", entity.ReviewMaxLength)
	}
	return nil
}

// AddBook stores a new book. Title and author are required.
func (s *BookService) AddBook(ctx context.Context, book *entity.Book) (schema.BookView, error) {
	if strings.TrimSpace(book.Title) == "" || strings.TrimSpace(book.Author) == "" {
		return schema.BookView{}, apperr.InvalidRequest("title and author are required")
	}
	if err := validateReview(book.Review); err != nil {
		return schema.BookView{}, err
	}

	created, err := s.bookRepo.Create(ctx, book)
	if err != nil {
		logFailure(err, "Error creating book")
		return schema.BookView{}, err
	}

	view := schema.DumpBook(created)
	s.events.publish(ctx, entity.EntityBook, entity.ActionCreated, created.ID, view)
	return view, nil
}

func (s *BookService) ListBooks(ctx context.Context) ([]schema.BookView, error) {
	books, err := s.bookRepo.List(ctx)
	if err != nil {
		logFailure(err, "Error listing books")
		return nil, err
	}
	return schema.DumpBooks(books), nil
}

// GetBook returns one book, served from cache when possible.
func (s *BookService) GetBook(ctx context.Context, id int) (schema.BookView, error) {
	key := cacheKey(entity.EntityBook, id)

	var view schema.BookView
	if s.cache.get(ctx, key, &view) {
		return view, nil
	}

	book, err := s.bookRepo.GetByID(ctx, id)
	if err != nil {
		logFailure(err, fmt.Sprintf("Error getting book by ID %d", id))
		return schema.BookView{}, err
	}

	view = schema.DumpBook(book)
	s.cache.set(ctx, key, view)
	return view, nil
}

// UpdateBook applies patch to the book currently titled oldTitle. Fields
// missing from the patch keep their stored values.
func (s *BookService) UpdateBook(ctx context.Context, oldTitle string, patch entity.BookPatch) (schema.BookView, error) {
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		return schema.BookView{}, apperr.InvalidRequest("title must not be empty")
	}
	if patch.Author != nil && strings.TrimSpace(*patch.Author) == "" {
		return schema.BookView{}, apperr.InvalidRequest("author must not be empty")
	}
	if err := validateReview(patch.Review); err != nil {
		return schema.BookView{}, err
	}

	book, err := s.findByTitle(ctx, oldTitle)
	if err != nil {
		return schema.BookView{}, err
	}

	patch.Apply(book)
	updated, err := s.bookRepo.Update(ctx, book)
	if err != nil {
		logFailure(err, fmt.Sprintf("Error updating book %d", book.ID))
		return schema.BookView{}, err
	}

	view := schema.DumpBook(updated)
	s.cache.del(ctx, cacheKey(entity.EntityBook, updated.ID))
	s.events.publish(ctx, entity.EntityBook, entity.ActionUpdated, updated.ID, view)
	return view, nil
}

// DeleteBook removes the book with the given title.
func (s *BookService) DeleteBook(ctx context.Context, title string) error {
	book, err := s.findByTitle(ctx, title)
	if err != nil {
		return err
	}

	if err := s.bookRepo.Delete(ctx, book); err != nil {
		logFailure(err, fmt.Sprintf("Error deleting book %d", book.ID))
		return err
	}

	s.cache.del(ctx, cacheKey(entity.EntityBook, book.ID))
	s.events.publish(ctx, entity.EntityBook, entity.ActionDeleted, book.ID, schema.DumpBook(book))
	return nil
}

// InvalidateBook evicts a cached book, e.g. after a peer changed it.
func (s *BookService) InvalidateBook(ctx context.Context, id int) {
	s.cache.del(ctx, cacheKey(entity.EntityBook, id))
}

func (s *BookService) findByTitle(ctx context.Context, title string) (*entity.Book, error) {
	book, err := s.bookRepo.GetByTitle(ctx, title)
	if err != nil {
		if apperr.Is(err, apperr.CodeNotFound) {
			return nil, apperr.NotFound("Book with title %s doesn't exist", title)
		}
		logFailure(err, fmt.Sprintf("Error getting book by title %q", title))
		return nil, err
	}
	return book, nil
}
