package serverutils

import (
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

const (
	AuthContextKey = "auth_context"

	AuthMethodJwt    = "jwt"
	AuthMethodApiKey = "api_key"
)

// AuthContext carries the authenticated identity through fiber locals.
type AuthContext struct {
	TenantId   string
	UserId     string
	AuthMethod string
}

// AuthMiddleware accepts either a Bearer JWT carrying the tenant claim or a
// static x-api-key header used for service-to-service ingestion calls.
func AuthMiddleware(jwtSecret, apiKey string) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		if key := ctx.Get("x-api-key"); key != "" && apiKey != "" && key == apiKey {
			tenantId := ctx.Get("x-tenant-id")
			if tenantId == "" {
				return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Missing x-tenant-id"})
			}
			ctx.Locals(AuthContextKey, &AuthContext{
				TenantId:   tenantId,
				UserId:     "service",
				AuthMethod: AuthMethodApiKey,
			})
			return ctx.Next()
		}

		authHeader := ctx.Get("Authorization")
		if len(authHeader) < 7 || authHeader[:7] != "Bearer " {
			return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Missing token"})
		}
		tokenStr := authHeader[7:]

		token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
			return []byte(jwtSecret), nil
		})
		if err != nil || !token.Valid {
			return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Invalid token"})
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Invalid claims"})
		}

		tenantId, _ := claims["custom:tenant_id"].(string)
		if tenantId == "" {
			return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Missing tenant claim"})
		}
		userId, _ := claims["sub"].(string)

		ctx.Locals(AuthContextKey, &AuthContext{
			TenantId:   tenantId,
			UserId:     userId,
			AuthMethod: AuthMethodJwt,
		})
		return ctx.Next()
	}
}

// GetAuthContext reads the identity set by AuthMiddleware. Returns nil on
// unauthenticated routes.
func GetAuthContext(ctx *fiber.Ctx) *AuthContext {
	auth, _ := ctx.Locals(AuthContextKey).(*AuthContext)
	return auth
}
