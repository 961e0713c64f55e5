package api

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"bookshelf-service/internal/apperr"
	"bookshelf-service/internal/entity"
	"bookshelf-service/internal/schema"
	"bookshelf-service/internal/service"
)

const (
	msgAdded   = "Data added successfully"
	msgUpdated = "Data updated successfully"
)

type BookHandler struct {
	bookService *service.BookService
}

// NewBookHandler creates a new instance of BookHandler
func NewBookHandler(bookService *service.BookService) *BookHandler {
	return &BookHandler{bookService: bookService}
}

type bookRequest struct {
	Title  string  `json:"title"`
	Author string  `json:"author"`
	Review *string `json:"review"`
}

// AddBook creates a book --> POST /book/add
func (h *BookHandler) AddBook(c echo.Context) error {
	if err := requireJSON(c); err != nil {
		return respondError(c, err)
	}

	req := bookRequest{}
	if err := c.Bind(&req); err != nil {
		return respondError(c, apperr.InvalidRequest("Invalid request payload"))
	}

	book := &entity.Book{Title: req.Title, Author: req.Author, Review: req.Review}
	if _, err := h.bookService.AddBook(c.Request().Context(), book); err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, msgAdded)
}

// GetBooks lists books as [id, title, author, review] tuples --> GET /book/get
func (h *BookHandler) GetBooks(c echo.Context) error {
	books, err := h.bookService.ListBooks(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, schema.BookTuples(books))
}

// GetBook returns one book as a tuple --> GET /book/get/:id
func (h *BookHandler) GetBook(c echo.Context) error {
	view, err := h.getBook(c)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, view.Tuple())
}

// GetBooksSchema lists books as objects --> GET /book/get/marshmallow
func (h *BookHandler) GetBooksSchema(c echo.Context) error {
	books, err := h.bookService.ListBooks(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, books)
}

// GetBookSchema returns one book as an object --> GET /book/get/marshmallow/:id
func (h *BookHandler) GetBookSchema(c echo.Context) error {
	view, err := h.getBook(c)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, view)
}

func (h *BookHandler) getBook(c echo.Context) (schema.BookView, error) {
	id, err := intParam(c, "id")
	if err != nil {
		return schema.BookView{}, err
	}
	return h.bookService.GetBook(c.Request().Context(), id)
}

// UpdateBook patches the book with the given title --> PUT /book/update/:old_title
func (h *BookHandler) UpdateBook(c echo.Context) error {
	if err := requireJSON(c); err != nil {
		return respondError(c, err)
	}

	patch := entity.BookPatch{}
	if err := c.Bind(&patch); err != nil {
		return respondError(c, apperr.InvalidRequest("Invalid request payload"))
	}

	_, err := h.bookService.UpdateBook(c.Request().Context(), pathParam(c, "old_title"), patch)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, msgUpdated)
}

// DeleteBook removes the book with the given title --> DELETE /book/delete/:title
func (h *BookHandler) DeleteBook(c echo.Context) error {
	title := pathParam(c, "title")

	if err := h.bookService.DeleteBook(c.Request().Context(), title); err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, fmt.Sprintf("Book with title %s was successfully deleted", title))
}
