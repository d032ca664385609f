package http

import (
	"errors"

	"github.com/dmitrijs2005/userauth/internal/common"
	"github.com/gofiber/fiber/v2"
)

type errorResponse struct {
	Error string `json:"error"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// statusFor maps a service error to a status code and the body sent to the
// client. Unknown errors become a generic 500.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, common.ErrorUnauthorized):
		return fiber.StatusUnauthorized, "unauthorized"
	case errors.Is(err, common.ErrorConflict):
		return fiber.StatusConflict, "email already registered"
	case errors.Is(err, common.ErrorNotFound):
		return fiber.StatusNotFound, "user not found"
	case errors.Is(err, common.ErrorValidation):
		return fiber.StatusBadRequest, err.Error()
	default:
		return fiber.StatusInternalServerError, "internal error"
	}
}

func (s *HTTPServer) writeError(c *fiber.Ctx, err error) error {
	code, msg := statusFor(err)
	if code == fiber.StatusInternalServerError {
		s.logger.Error(c.UserContext(), "request failed", "error", err.Error(), "request_id", requestID(c))
	}
	return c.Status(code).JSON(errorResponse{Error: msg})
}

// errorHandler handles errors escaping handlers, including fiber's own
// routing errors.
func (s *HTTPServer) errorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(errorResponse{Error: fe.Message})
	}
	return s.writeError(c, err)
}
