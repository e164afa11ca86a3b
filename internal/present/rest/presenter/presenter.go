package presenter

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/zeebo/xxh3"

	"github.com/totegamma/rfb-playground/internal/domain"
)

type errorResponse struct {
	Error    string `json:"error"`
	ErrorKey string `json:"errorKey,omitempty"`
}

// OK wraps a successful response.
func OK(c echo.Context, payload any) error {
	return c.JSON(http.StatusOK, payload)
}

// OKWithETag answers with a content hash as ETag and short-circuits
// to 304 when the client already holds that version.
func OKWithETag(c echo.Context, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return InternalError(c, err)
	}
	etag := fmt.Sprintf(`"%016x"`, xxh3.Hash(body))
	c.Response().Header().Set("ETag", etag)
	if c.Request().Header.Get("If-None-Match") == etag {
		return c.NoContent(http.StatusNotModified)
	}
	return c.JSONBlob(http.StatusOK, body)
}

func Created(c echo.Context, location string, payload any) error {
	c.Response().Header().Set(echo.HeaderLocation, location)
	return c.JSON(http.StatusCreated, payload)
}

func NoContent(c echo.Context) error {
	return c.NoContent(http.StatusNoContent)
}

func BadRequest(c echo.Context, err error) error {
	slog.InfoContext(c.Request().Context(), "Bad request", slog.String("error", err.Error()), slog.String("module", "rest"))
	return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
}

func BadRequestMessage(c echo.Context, msg string) error {
	slog.InfoContext(c.Request().Context(), "Bad request", slog.String("error", msg), slog.String("module", "rest"))
	return c.JSON(http.StatusBadRequest, errorResponse{Error: msg})
}

// Invalid renders a validation failure with its machine readable key.
func Invalid(c echo.Context, err domain.ValidationError) error {
	slog.InfoContext(c.Request().Context(), "Validation failed",
		slog.String("error", err.Message),
		slog.String("key", err.Key),
		slog.String("module", "rest"),
	)
	return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Message, ErrorKey: err.Key})
}

func NotFound(c echo.Context, msg string) error {
	return c.JSON(http.StatusNotFound, errorResponse{Error: msg})
}

func Conflict(c echo.Context, err error) error {
	slog.WarnContext(c.Request().Context(), "Conflict", slog.String("error", err.Error()), slog.String("module", "rest"))
	return c.JSON(http.StatusConflict, errorResponse{Error: err.Error()})
}

func UnsupportedMediaType(c echo.Context, contentType string) error {
	return c.JSON(http.StatusUnsupportedMediaType, errorResponse{Error: fmt.Sprintf("unsupported content type %q", contentType)})
}

func InternalError(c echo.Context, err error) error {
	slog.ErrorContext(c.Request().Context(), "Internal error", slog.String("error", err.Error()), slog.String("module", "rest"))
	return c.JSON(http.StatusInternalServerError, errorResponse{Error: err.Error()})
}
