package handlers

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"

	"app/middleware"
	"app/models"
)

func signedToken(t *testing.T) string {
	t.Helper()
	claims := models.JwtClaims{
		UserID: "user-1",
		Role:   "Owner",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(middleware.JWTSecret)
	assert.NoError(t, err)
	return token
}

func classifyApp() *fiber.App {
	app := fiber.New()
	app.Post("/api/v1/ai/classify", middleware.JWTMiddleware, HandleClassifyExpense)
	return app
}

func TestClassifyRequiresAuth(t *testing.T) {
	middleware.JWTSecret = []byte("test-secret")
	app := classifyApp()

	req := httptest.NewRequest("POST", "/api/v1/ai/classify", strings.NewReader(`{"description":"rent"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestClassifySuggestsCategory(t *testing.T) {
	middleware.JWTSecret = []byte("test-secret")
	app := classifyApp()

	req := httptest.NewRequest("POST", "/api/v1/ai/classify", strings.NewReader(`{"description":"Monthly store rent payment"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+signedToken(t))
	resp, err := app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	var out map[string]string
	assert.NoError(t, json.Unmarshal(body, &out))
	assert.Equal(t, "Rent", out["suggestion"])
}

func TestClassifyEmptyDescriptionFallsBack(t *testing.T) {
	middleware.JWTSecret = []byte("test-secret")
	app := classifyApp()

	req := httptest.NewRequest("POST", "/api/v1/ai/classify", strings.NewReader(`{"description":""}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+signedToken(t))
	resp, err := app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	var out map[string]string
	assert.NoError(t, json.Unmarshal(body, &out))
	assert.Equal(t, "Others", out["suggestion"])
}

func TestDashboardRouteNotFound(t *testing.T) {
	app := fiber.New()
	// route not registered here; expect 404
	req := httptest.NewRequest("GET", "/api/v1/businesses/b1/ai/dashboard", nil)
	resp, _ := app.Test(req)
	assert.Equal(t, 404, resp.StatusCode)
}
