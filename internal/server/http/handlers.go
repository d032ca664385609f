package http

import (
	"strconv"

	"github.com/dmitrijs2005/userauth/internal/common"
	"github.com/dmitrijs2005/userauth/internal/server/models"
	"github.com/dmitrijs2005/userauth/internal/server/services"
	"github.com/gofiber/fiber/v2"
)

func (s *HTTPServer) health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

func (s *HTTPServer) register(c *fiber.Ctx) error {
	var in services.RegisterInput
	if err := c.BodyParser(&in); err != nil {
		return s.writeError(c, common.ErrorValidation)
	}

	res, err := s.auth.Register(c.UserContext(), in)
	if err != nil {
		return s.writeError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(res)
}

func (s *HTTPServer) login(c *fiber.Ctx) error {
	var in services.LoginInput
	if err := c.BodyParser(&in); err != nil {
		return s.writeError(c, common.ErrorValidation)
	}

	res, err := s.auth.Login(c.UserContext(), in)
	if err != nil {
		return s.writeError(c, err)
	}

	return c.JSON(res)
}

func (s *HTTPServer) listUsers(c *fiber.Ctx) error {
	res, err := s.users.List(c.UserContext())
	if err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(res)
}

func (s *HTTPServer) getUser(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return s.writeError(c, err)
	}

	res, err := s.users.Get(c.UserContext(), id)
	if err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(res)
}

func (s *HTTPServer) updateUser(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return s.writeError(c, err)
	}

	var info models.UserInfo
	if err := c.BodyParser(&info); err != nil {
		return s.writeError(c, common.ErrorValidation)
	}

	if err := s.users.Update(c.UserContext(), id, info); err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(messageResponse{Message: "user updated"})
}

func (s *HTTPServer) deleteUser(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return s.writeError(c, err)
	}

	if err := s.users.Delete(c.UserContext(), id); err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(messageResponse{Message: "user deleted"})
}

func pathID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, common.ErrorValidation
	}
	return id, nil
}
