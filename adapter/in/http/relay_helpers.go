package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"relay_server/pkg/apperr"
)

// sessionIDParam parses the :id route parameter as a session UUID.
func sessionIDParam(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, apperr.InvalidInput("id", "must be a valid UUID")
	}
	return id, nil
}
