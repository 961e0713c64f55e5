package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"bookshelf-service/internal/apperr"
	"bookshelf-service/internal/entity"
	"bookshelf-service/internal/service"
)

type UserHandler struct {
	userService *service.UserService
	bookService *service.BookService
}

// NewUserHandler creates a new instance of UserHandler
func NewUserHandler(userService *service.UserService, bookService *service.BookService) *UserHandler {
	return &UserHandler{userService: userService, bookService: bookService}
}

type userRequest struct {
	Username string  `json:"username"`
	Password string  `json:"password"`
	Email    *string `json:"email"`
}

// AddUser creates a user --> POST /user/add
func (h *UserHandler) AddUser(c echo.Context) error {
	if err := requireJSON(c); err != nil {
		return respondError(c, err)
	}

	req := userRequest{}
	if err := c.Bind(&req); err != nil {
		return respondError(c, apperr.InvalidRequest("Invalid request payload"))
	}

	user := &entity.User{Username: req.Username, Password: req.Password, Email: req.Email}
	if _, err := h.userService.AddUser(c.Request().Context(), user); err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, msgAdded)
}

// GetUsers lists users --> GET /user/get
func (h *UserHandler) GetUsers(c echo.Context) error {
	users, err := h.userService.ListUsers(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, users)
}

// GetUser returns one user --> GET /user/get/:id
func (h *UserHandler) GetUser(c echo.Context) error {
	id, err := intParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	user, err := h.userService.GetUser(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, user)
}

// GetUserAndBook returns [user, book], fetched independently --> GET /user/book/:user_id/:book_id
func (h *UserHandler) GetUserAndBook(c echo.Context) error {
	userID, err := intParam(c, "user_id")
	if err != nil {
		return respondError(c, err)
	}
	bookID, err := intParam(c, "book_id")
	if err != nil {
		return respondError(c, err)
	}

	ctx := c.Request().Context()
	user, err := h.userService.GetUser(ctx, userID)
	if err != nil {
		return respondError(c, err)
	}
	book, err := h.bookService.GetBook(ctx, bookID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, []interface{}{user, book})
}
