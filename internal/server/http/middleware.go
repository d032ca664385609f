package http

import (
	"time"

	"github.com/dmitrijs2005/userauth/internal/common"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const requestIDKey = "request_id"

// requestLogger assigns a request id and logs one line per request.
func (s *HTTPServer) requestLogger(c *fiber.Ctx) error {
	id := c.Get(common.RequestIDHeaderName)
	if _, err := uuid.Parse(id); err != nil {
		id = uuid.NewString()
	}
	c.Locals(requestIDKey, id)
	c.Set(common.RequestIDHeaderName, id)

	start := time.Now()
	err := c.Next()
	if err != nil {
		if herr := s.errorHandler(c, err); herr != nil {
			return herr
		}
	}

	s.logger.Info(c.UserContext(), "request",
		"method", c.Method(),
		"path", c.Path(),
		"status", c.Response().StatusCode(),
		"latency", time.Since(start).String(),
		"request_id", id,
	)
	return nil
}

// requireAuth runs the gate before protected handlers. Every rejection gets
// the same 401 body; the cause is only logged.
func (s *HTTPServer) requireAuth(c *fiber.Ctx) error {
	ctx, err := s.gate.Authorize(c.UserContext(), c.Get(fiber.HeaderAuthorization))
	if err != nil {
		s.logger.Warn(c.UserContext(), "request rejected", "reason", err.Error(), "request_id", requestID(c))
		return c.Status(fiber.StatusUnauthorized).JSON(errorResponse{Error: "unauthorized"})
	}

	c.SetUserContext(ctx)
	return c.Next()
}

func requestID(c *fiber.Ctx) string {
	id, _ := c.Locals(requestIDKey).(string)
	return id
}
