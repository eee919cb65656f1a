// internals/middlewares/auth/auth_middleware.go
package auth

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"

	"sirenecole_backend/internals/configs"
)

// OperateurMiddleware protege les routes d'administration. Le JWT est
// emis par le SSO interne, on ne fait que le verifier ici.
func OperateurMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString, err := extractBearerToken(c)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, err.Error())
		}

		if configs.JWTSecret == "" {
			log.Println("[ERROR] JWT_SECRET vide")
			return fiber.NewError(fiber.StatusInternalServerError, "Internal Server Error")
		}

		claims := jwt.MapClaims{}
		parser := jwt.Parser{SkipClaimsValidation: true}
		if _, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fiber.NewError(fiber.StatusUnauthorized, "methode de signature inattendue")
			}
			return []byte(configs.JWTSecret), nil
		}); err != nil {
			log.Println("[WARN] Parse token operateur:", err)
			return fiber.NewError(fiber.StatusUnauthorized, "Token invalide")
		}

		if err := validateExpiry(claims, 30*time.Second); err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Token expire")
		}

		operateurID, err := extractOperateurID(claims)
		if err != nil {
			log.Println("[WARN] Claim operateur_id:", err)
			return fiber.NewError(fiber.StatusUnauthorized, "Token invalide")
		}

		c.Locals("operateur_id", operateurID)
		return c.Next()
	}
}
