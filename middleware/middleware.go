package middleware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"

	"app/models"
)

var JWTSecret []byte

// JWTMiddleware validates the JWT token provided in the Authorization header.
func JWTMiddleware(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Missing or malformed JWT"})
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Missing or malformed JWT"})
	}

	tokenStr := parts[1]
	claims := &models.JwtClaims{}

	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		// Ensure the token signing method is what you expect
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.ErrUnauthorized
		}
		return JWTSecret, nil
	})

	if err != nil || !token.Valid {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Invalid or expired JWT"})
	}

	c.Locals("claims", claims)
	c.Locals("userID", claims.UserID)
	c.Locals("userRole", claims.Role)

	return c.Next()
}

// RoleRequired checks that the authenticated user holds one of the roles.
func RoleRequired(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userRole, ok := c.Locals("userRole").(string)
		if !ok {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "Role not found in token"})
		}
		for _, role := range roles {
			if userRole == role {
				return c.Next()
			}
		}
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "Insufficient permissions"})
	}
}

// ExtractClaims fetches the parsed JWT claims stored by JWTMiddleware.
func ExtractClaims(c *fiber.Ctx) (*models.JwtClaims, error) {
	claims, ok := c.Locals("claims").(*models.JwtClaims)
	if !ok {
		return nil, errors.New("no claims in request context")
	}
	return claims, nil
}
