package api

import (
	"errors"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"bookshelf-service/internal/apperr"
	"bookshelf-service/internal/config"
	"bookshelf-service/internal/service"
)

const serviceName = "bookshelf-service"

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string      `json:"error"`
	Code  apperr.Code `json:"code"`
}

// NewRouter builds the echo instance with middleware and every route wired.
func NewRouter(cfg config.Config, logger zerolog.Logger, books *service.BookService, users *service.UserService) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Debug = cfg.Debug
	e.HTTPErrorHandler = httpErrorHandler

	limiterConfig := middleware.RateLimiterConfig{
		Skipper: middleware.DefaultSkipper,
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(
			middleware.RateLimiterMemoryStoreConfig{
				Rate:      rate.Limit(cfg.RateLimit),
				Burst:     cfg.RateBurst,
				ExpiresIn: 3 * time.Minute,
			}),
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return c.JSON(http.StatusForbidden, ErrorResponse{Error: "could not identify client", Code: apperr.CodeInvalidRequest})
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			return c.JSON(http.StatusTooManyRequests, ErrorResponse{Error: "rate limit exceeded", Code: apperr.CodeRateLimited})
		},
	}

	e.Use(middleware.Recover())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(requestLogger(logger))
	e.Use(middleware.CORS())
	e.Use(middleware.RateLimiterWithConfig(limiterConfig))

	bookHandler := NewBookHandler(books)
	userHandler := NewUserHandler(users, books)

	e.POST("/book/add", bookHandler.AddBook)
	e.GET("/book/get", bookHandler.GetBooks)
	e.GET("/book/get/:id", bookHandler.GetBook)
	e.GET("/book/get/marshmallow", bookHandler.GetBooksSchema)
	e.GET("/book/get/marshmallow/:id", bookHandler.GetBookSchema)
	e.PUT("/book/update/:old_title", bookHandler.UpdateBook)
	e.DELETE("/book/delete/:title", bookHandler.DeleteBook)

	e.POST("/user/add", userHandler.AddUser)
	e.GET("/user/get", userHandler.GetUsers)
	e.GET("/user/get/:id", userHandler.GetUser)
	e.GET("/user/book/:user_id/:book_id", userHandler.GetUserAndBook)

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]interface{}{
			"status":  "ok",
			"service": serviceName,
			"time":    time.Now().Format(time.RFC3339),
		})
	})

	return e
}

// requestLogger writes one zerolog line per request.
func requestLogger(logger zerolog.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			event := logger.Info()
			if v.Status >= http.StatusInternalServerError {
				event = logger.Error().Err(v.Error)
			}
			event.
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}

// respondError writes err as an ErrorResponse with the matching status.
func respondError(c echo.Context, err error) error {
	code := apperr.CodeOf(err)
	return c.JSON(apperr.HTTPStatus(code), ErrorResponse{Error: apperr.MessageOf(err), Code: code})
}

// httpErrorHandler renders errors raised by echo itself, such as unknown
// routes or wrong methods, in the same envelope as handler errors.
func httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		code := codeForStatus(he.Code)
		message := http.StatusText(he.Code)
		if m, ok := he.Message.(string); ok && m != "" {
			message = m
		}
		if c.Request().Method == http.MethodHead {
			err = c.NoContent(he.Code)
		} else {
			err = c.JSON(he.Code, ErrorResponse{Error: message, Code: code})
		}
	} else {
		err = respondError(c, err)
	}

	if err != nil {
		c.Logger().Error(err)
	}
}

func codeForStatus(status int) apperr.Code {
	switch status {
	case http.StatusBadRequest:
		return apperr.CodeInvalidRequest
	case http.StatusNotFound:
		return apperr.CodeNotFound
	case http.StatusMethodNotAllowed:
		return apperr.CodeMethodNotAllowed
	case http.StatusUnsupportedMediaType:
		return apperr.CodeUnsupportedMediaType
	case http.StatusTooManyRequests:
		return apperr.CodeRateLimited
	default:
		return apperr.CodeInternal
	}
}

// requireJSON rejects request bodies not declared as application/json.
func requireJSON(c echo.Context) error {
	mediaType, _, err := mime.ParseMediaType(c.Request().Header.Get(echo.HeaderContentType))
	if err != nil || mediaType != echo.MIMEApplicationJSON {
		return apperr.New(apperr.CodeUnsupportedMediaType, "Data must be sent as JSON.")
	}
	return nil
}

// pathParam returns a path parameter with percent-escapes decoded.
func pathParam(c echo.Context, name string) string {
	v := c.Param(name)
	if c.Request().URL.RawPath == "" {
		return v
	}
	if unescaped, err := url.PathUnescape(v); err == nil {
		return unescaped
	}
	return v
}

func intParam(c echo.Context, name string) (int, error) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil {
		return 0, apperr.InvalidRequest("Invalid %s", name)
	}
	return id, nil
}
