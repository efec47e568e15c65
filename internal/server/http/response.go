package http

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v3"

	"github.com/dmitrijs2005/videotube/internal/common"
)

// apiResponse is the success envelope shared by every endpoint.
type apiResponse struct {
	StatusCode int    `json:"statusCode"`
	Data       any    `json:"data,omitempty"`
	Message    string `json:"message"`
}

// apiError is the failure envelope.
type apiError struct {
	StatusCode int    `json:"statusCode"`
	Error      string `json:"error"`
}

func respond(c fiber.Ctx, status int, data any, message string) error {
	return c.Status(status).JSON(apiResponse{StatusCode: status, Data: data, Message: message})
}

// mapErrorToStatus translates the sentinel error taxonomy to HTTP status codes.
func mapErrorToStatus(err error) int {
	switch {
	case errors.Is(err, common.ErrorValidation):
		return http.StatusBadRequest
	case errors.Is(err, common.ErrorUnauthorized),
		errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, common.ErrTokenExpired),
		errors.Is(err, common.ErrTokenReused):
		return http.StatusUnauthorized
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound
	case errors.Is(err, common.ErrorAlreadyExists):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// fail writes the error envelope for err. An empty msg falls back to the
// sentinel's text; unexpected errors are masked as "internal error" and
// logged, never echoed to the caller.
func (s *Server) fail(c fiber.Ctx, err error, msg string) error {
	status := mapErrorToStatus(err)

	if status == http.StatusInternalServerError {
		s.logger.Error(c.Context(), "request failed", "path", c.Path(), "error", err.Error())
		msg = "internal error"
	}
	if msg == "" {
		msg = err.Error()
	}

	return c.Status(status).JSON(apiError{StatusCode: status, Error: msg})
}
