package monitor

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
)

// APIError is the JSON error body returned by monitor endpoints.
type APIError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%d: %s", e.Code, e.Message)
}

// Respond writes the error as JSON with its status code.
func (e *APIError) Respond(c echo.Context) error {
	return c.JSON(e.Code, e)
}

func BadRequest(message string) *APIError {
	return &APIError{Code: http.StatusBadRequest, Message: message}
}

func Conflict(message string) *APIError {
	return &APIError{Code: http.StatusConflict, Message: message}
}

func Unprocessable(message string) *APIError {
	return &APIError{Code: http.StatusUnprocessableEntity, Message: message}
}

func ServiceUnavailable(message string) *APIError {
	return &APIError{Code: http.StatusServiceUnavailable, Message: message}
}
