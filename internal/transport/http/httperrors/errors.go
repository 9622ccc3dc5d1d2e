// Package httperrors maps failures onto HTTP status codes and the JSON
// error body returned by the API.
package httperrors

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/light-bringer/procat-rest/internal/app/product/domain"
)

// Body is the JSON payload written for every failed request.
type Body struct {
	Status  int    `json:"status"`
	Error   string `json:"error"`
	Message string `json:"message"`
}

// NewBody builds the error payload for status.
func NewBody(status int, message string) Body {
	return Body{
		Status:  status,
		Error:   http.StatusText(status),
		Message: message,
	}
}

// BadRequest pairs message with 400 Bad Request.
func BadRequest(message string) (int, string) {
	return http.StatusBadRequest, message
}

// NotFound pairs message with 404 Not Found.
func NotFound(message string) (int, string) {
	return http.StatusNotFound, message
}

// MethodNotSupported pairs message with 405 Method Not Allowed.
func MethodNotSupported(message string) (int, string) {
	return http.StatusMethodNotAllowed, message
}

// UnsupportedMediaType pairs message with 415 Unsupported Media Type.
func UnsupportedMediaType(message string) (int, string) {
	return http.StatusUnsupportedMediaType, message
}

// InternalServerError pairs message with 500 Internal Server Error.
func InternalServerError(message string) (int, string) {
	return http.StatusInternalServerError, message
}

// FromDomain converts domain errors to a status code and client message.
// Anything unrecognised is an internal error and its text is not exposed.
func FromDomain(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrProductNotFound):
		return NotFound(err.Error())

	case errors.Is(err, domain.ErrDataValidation):
		return BadRequest(err.Error())

	default:
		return InternalServerError("internal server error")
	}
}

// FromEcho converts errors raised by echo's router and binder.
func FromEcho(he *echo.HTTPError) (int, string) {
	message := fmt.Sprint(he.Message)
	if he.Internal != nil {
		message = fmt.Sprintf("%s: %v", message, he.Internal)
	}

	switch he.Code {
	case http.StatusBadRequest:
		return BadRequest(message)
	case http.StatusNotFound:
		return NotFound(message)
	case http.StatusMethodNotAllowed:
		return MethodNotSupported(message)
	case http.StatusUnsupportedMediaType:
		return UnsupportedMediaType(message)
	case http.StatusInternalServerError:
		return InternalServerError(message)
	default:
		return he.Code, message
	}
}

// Resolve picks the status and message for any handler error.
func Resolve(err error) (int, string) {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return FromEcho(he)
	}
	return FromDomain(err)
}

// Handler returns an echo.HTTPErrorHandler that logs each failure at error
// level and writes a Body.
func Handler(logger *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status, message := Resolve(err)

		logger.Error("request failed",
			zap.Int("status", status),
			zap.String("method", c.Request().Method),
			zap.String("uri", c.Request().RequestURI),
			zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
			zap.Error(err),
		)

		var writeErr error
		if c.Request().Method == http.MethodHead {
			writeErr = c.NoContent(status)
		} else {
			writeErr = c.JSON(status, NewBody(status, message))
		}
		if writeErr != nil {
			logger.Error("failed to write error response", zap.Error(writeErr))
		}
	}
}
