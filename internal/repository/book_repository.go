package repository

import (
	"context"
	"database/sql"
	"fmt"

	"bookshelf-service/internal/apperr"
	"bookshelf-service/internal/entity"
)

const bookColumns = "id, title, author, review"

// bookFields are the columns FindByField accepts.
var bookFields = map[string]bool{"id": true, "title": true, "author": true, "review": true}

type BookRepository struct {
	db *sql.DB
}

func NewBookRepository(db *sql.DB) *BookRepository {
	return &BookRepository{db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBook(row rowScanner) (*entity.Book, error) {
	book := &entity.Book{}
	var review sql.NullString
	if err := row.Scan(&book.ID, &book.Title, &book.Author, &review); err != nil {
		return nil, err
	}
	book.Review = fromNullString(review)
	return book, nil
}

// Create inserts book and assigns its ID.
func (r *BookRepository) Create(ctx context.Context, book *entity.Book) (*entity.Book, error) {
	query := "INSERT INTO `book` (title, author, review) VALUES (?, ?, ?)"
	res, err := r.db.ExecContext(ctx, query, book.Title, book.Author, toNullString(book.Review))
	if err != nil {
		return nil, translate(err, "", fmt.Sprintf("Book with title %s already exists", book.Title))
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, translate(err, "", "")
	}

	book.ID = int(id)
	return book, nil
}

func (r *BookRepository) GetByID(ctx context.Context, id int) (*entity.Book, error) {
	query := "SELECT " + bookColumns + " FROM `book` WHERE id = ?"
	book, err := scanBook(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, translate(err, fmt.Sprintf("Book with id %d doesn't exist", id), "")
	}
	return book, nil
}

// FindByField returns the first book whose field equals value.
func (r *BookRepository) FindByField(ctx context.Context, field string, value any) (*entity.Book, error) {
	if !bookFields[field] {
		return nil, apperr.InvalidRequest("unknown book field %q", field)
	}

	query := "SELECT " + bookColumns + " FROM `book` WHERE " + field + " = ? ORDER BY id LIMIT 1"
	book, err := scanBook(r.db.QueryRowContext(ctx, query, value))
	if err != nil {
		return nil, translate(err, fmt.Sprintf("Book with %s %v doesn't exist", field, value), "")
	}
	return book, nil
}

func (r *BookRepository) GetByTitle(ctx context.Context, title string) (*entity.Book, error) {
	return r.FindByField(ctx, "title", title)
}

func (r *BookRepository) List(ctx context.Context) ([]*entity.Book, error) {
	var books []*entity.Book

	query := "SELECT " + bookColumns + " FROM `book` ORDER BY id"
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, translate(err, "", "")
	}
	defer rows.Close()

	for rows.Next() {
		book, err := scanBook(rows)
		if err != nil {
			return nil, translate(err, "", "")
		}
		books = append(books, book)
	}
	if err := rows.Err(); err != nil {
		return nil, translate(err, "", "")
	}

	return books, nil
}

// Update persists the current field values of an already fetched book.
func (r *BookRepository) Update(ctx context.Context, book *entity.Book) (*entity.Book, error) {
	query := "UPDATE `book` SET title = ?, author = ?, review = ? WHERE id = ?"
	_, err := r.db.ExecContext(ctx, query, book.Title, book.Author, toNullString(book.Review), book.ID)
	if err != nil {
		return nil, translate(err, "", fmt.Sprintf("Book with title %s already exists", book.Title))
	}
	return book, nil
}

func (r *BookRepository) Delete(ctx context.Context, book *entity.Book) error {
	query := "DELETE FROM `book` WHERE id = ?"
	res, err := r.db.ExecContext(ctx, query, book.ID)
	if err != nil {
		return translate(err, "", "")
	}
	return requireAffected(res, fmt.Sprintf("Book with title %s doesn't exist", book.Title))
}
