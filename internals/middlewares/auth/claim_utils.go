// internals/middlewares/auth/claim_utils.go
package auth

import (
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

/* ======== Extracteurs ======== */

func extractBearerToken(c *fiber.Ctx) (string, error) {
	auth := strings.TrimSpace(c.Get("Authorization"))
	if auth == "" {
		if cookieTok := c.Cookies("access_token"); cookieTok != "" {
			auth = "Bearer " + cookieTok
		}
	}
	if auth == "" {
		return "", fmt.Errorf("aucun token fourni")
	}

	fields := strings.Fields(auth)
	if len(fields) < 2 || !strings.EqualFold(fields[0], "Bearer") {
		return "", fmt.Errorf("format Authorization invalide")
	}
	tok := strings.Trim(strings.TrimSpace(fields[1]), "\"'")
	if tok == "" {
		return "", fmt.Errorf("token vide")
	}
	return tok, nil
}

func validateExpiry(claims jwt.MapClaims, skew time.Duration) error {
	expVal, ok := claims["exp"]
	if !ok {
		return fmt.Errorf("claim exp absente")
	}

	var expUnix int64
	switch t := expVal.(type) {
	case float64:
		expUnix = int64(t)
	case int64:
		expUnix = t
	case jwt.NumericDate:
		expUnix = t.Unix()
	default:
		return fmt.Errorf("claim exp de type inattendu %T", expVal)
	}

	if time.Now().Add(-skew).Unix() > expUnix {
		return fmt.Errorf("token expire")
	}
	return nil
}

// extractOperateurID lit l'identifiant operateur depuis operateur_id,
// a defaut sub. Doit etre un UUID.
func extractOperateurID(claims jwt.MapClaims) (string, error) {
	for _, key := range []string{"operateur_id", "sub"} {
		raw, ok := claims[key].(string)
		if !ok || raw == "" {
			continue
		}
		id, err := uuid.Parse(raw)
		if err != nil {
			return "", fmt.Errorf("claim %s n'est pas un UUID", key)
		}
		return id.String(), nil
	}
	return "", fmt.Errorf("aucune claim d'identite")
}
