package auth

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// OperateurID lit l'identifiant operateur pose par le middleware JWT.
// nil si la route n'est pas authentifiee (webhooks, endpoints sirene).
func OperateurID(c *fiber.Ctx) *uuid.UUID {
	raw, ok := c.Locals("operateur_id").(string)
	if !ok || raw == "" {
		return nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil
	}
	return &id
}
