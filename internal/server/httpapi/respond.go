package httpapi

import (
	"github.com/exceptionzofficial/exceptionz-mobile-backend/internal/common"
	"github.com/gofiber/fiber/v2"
)

func success(c *fiber.Ctx, data fiber.Map) error {
	data["success"] = true
	return c.JSON(data)
}

func created(c *fiber.Ctx, data fiber.Map) error {
	data["success"] = true
	return c.Status(fiber.StatusCreated).JSON(data)
}

// parse decodes the request body into dst and, when validate is set,
// checks its validate tags.
func (s *HTTPServer) parse(c *fiber.Ctx, dst any, validate bool) error {
	if err := c.BodyParser(dst); err != nil {
		return common.BadRequest("Invalid request body")
	}
	if validate {
		return s.validator.Validate(dst)
	}
	return nil
}

// emptyIfNil keeps list responses as JSON arrays.
func emptyIfNil[T any](list []T) []T {
	if list == nil {
		return []T{}
	}
	return list
}
