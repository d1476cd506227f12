package v1_test

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterFirstAdmin(t *testing.T) {
	env := CreateTestApp(t)

	resp := env.do(t, "POST", "/api/v1/auth/register", "", fiber.Map{
		"email":    "boss@example.com",
		"name":     "Boss",
		"password": testPassword,
	})
	require.Equal(t, fiber.StatusCreated, resp.Status, resp.Raw)
	assert.Equal(t, true, resp.Body["success"])
	assert.Equal(t, "admin", resp.Data()["role"])
	assertNoPasswordHash(t, resp.Body)
}

func TestRegisterOnlyOnce(t *testing.T) {
	env := CreateTestApp(t)
	env.CreateTestAdmin(t)

	resp := env.do(t, "POST", "/api/v1/auth/register", "", fiber.Map{
		"email":    "second@example.com",
		"name":     "Second",
		"password": testPassword,
	})
	assert.Equal(t, fiber.StatusConflict, resp.Status)
	assert.Equal(t, false, resp.Body["success"])

	// no second account was created
	resp = env.do(t, "POST", "/api/v1/auth/login", "", fiber.Map{"email": "second@example.com", "password": testPassword})
	assert.Equal(t, fiber.StatusUnauthorized, resp.Status)
}

func TestRegisterValidation(t *testing.T) {
	env := CreateTestApp(t)

	resp := env.do(t, "POST", "/api/v1/auth/register", "", fiber.Map{"email": "not-an-email", "name": "X", "password": testPassword})
	require.Equal(t, fiber.StatusBadRequest, resp.Status)
	assert.Equal(t, "Validation error", resp.Body["message"])
	assert.NotEmpty(t, resp.Body["errors"])
}

func TestLogin(t *testing.T) {
	env := CreateTestApp(t)
	_, adminID := env.CreateTestAdmin(t)

	resp := env.do(t, "POST", "/api/v1/auth/login", "", fiber.Map{"email": "admin@example.com", "password": testPassword})
	require.Equal(t, fiber.StatusOK, resp.Status)
	assert.NotEmpty(t, resp.Data()["token"])
	user := resp.Data()["user"].(map[string]any)
	assert.Equal(t, adminID, user["id"])
	assertNoPasswordHash(t, resp.Body)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	env := CreateTestApp(t)
	env.CreateTestAdmin(t)

	for _, body := range []fiber.Map{
		{"email": "admin@example.com", "password": "wrong-password"},
		{"email": "nobody@example.com", "password": testPassword},
	} {
		resp := env.do(t, "POST", "/api/v1/auth/login", "", body)
		assert.Equal(t, fiber.StatusUnauthorized, resp.Status)
		assert.Equal(t, "Incorrect email or password", resp.Body["message"])
	}
}

func TestMe(t *testing.T) {
	env := CreateTestApp(t)
	token, id := env.CreateTestAdmin(t)

	resp := env.do(t, "GET", "/api/v1/auth/me", token, nil)
	require.Equal(t, fiber.StatusOK, resp.Status)
	assert.Equal(t, id, resp.Data()["id"])
	assertNoPasswordHash(t, resp.Body)
}

func TestTokenMiddleware(t *testing.T) {
	env := CreateTestApp(t)

	cases := []struct {
		name    string
		header  string
		message string
	}{
		{"missing", "", "No token provided"},
		{"wrong scheme", "Token abc", "Invalid token format"},
		{"garbage", "Bearer abc.def.ghi", "Invalid token"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/api/v1/tasks", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			resp, err := env.app.Test(req, -1)
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
		})
	}
}

func TestHealth(t *testing.T) {
	env := CreateTestApp(t)
	for _, path := range []string{"/", "/health", "/api/v1/health"} {
		resp := env.do(t, "GET", path, "", nil)
		assert.Equal(t, fiber.StatusOK, resp.Status, path)
		assert.Equal(t, "ok", resp.Data()["store"])
	}
}

func TestWebsocketRequiresUpgrade(t *testing.T) {
	env := CreateTestApp(t)
	resp := env.do(t, "GET", "/api/v1/ws", "", nil)
	assert.Equal(t, fiber.StatusUpgradeRequired, resp.Status)
}
