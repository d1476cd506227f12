package v1_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	v1 "workforce-portal/internal/api/v1"
	"workforce-portal/internal/auth"
	"workforce-portal/internal/config"
	"workforce-portal/internal/middleware"
	"workforce-portal/internal/repository"
	"workforce-portal/internal/store"
)

const testPassword = "secret123"

type testEnv struct {
	app  *fiber.App
	deps *config.Dependencies
}

// CreateTestApp builds the full route table over an empty in-memory store.
func CreateTestApp(t *testing.T) *testEnv {
	t.Helper()
	s := store.NewMemory()
	require.NoError(t, repository.Migrate(context.Background(), s))

	deps := config.NewDependencies(s, auth.NewTokens("test-secret", time.Hour), nil, nil)
	app := fiber.New(fiber.Config{ErrorHandler: middleware.JSONErrorHandler})
	app.Use(middleware.ErrorHandler())
	v1.RegisterRoutes(app, deps)
	return &testEnv{app: app, deps: deps}
}

type response struct {
	Status int
	Body   map[string]any
	Raw    string
}

func (r response) Data() map[string]any {
	data, _ := r.Body["data"].(map[string]any)
	return data
}

func (r response) List() []any {
	data, _ := r.Body["data"].([]any)
	return data
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	out := response{Status: resp.StatusCode, Raw: string(raw)}
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &out.Body), string(raw))
	}
	return out
}

func (e *testEnv) login(t *testing.T, email, password string) (string, map[string]any) {
	t.Helper()
	resp := e.do(t, "POST", "/api/v1/auth/login", "", fiber.Map{"email": email, "password": password})
	require.Equal(t, fiber.StatusOK, resp.Status, resp.Raw)
	token, _ := resp.Data()["token"].(string)
	require.NotEmpty(t, token)
	user, _ := resp.Data()["user"].(map[string]any)
	return token, user
}

// CreateTestAdmin registers the bootstrap admin and logs in.
func (e *testEnv) CreateTestAdmin(t *testing.T) (token, id string) {
	t.Helper()
	resp := e.do(t, "POST", "/api/v1/auth/register", "", fiber.Map{
		"email":    "admin@example.com",
		"name":     "Admin",
		"password": testPassword,
	})
	require.Equal(t, fiber.StatusCreated, resp.Status, resp.Raw)
	token, user := e.login(t, "admin@example.com", testPassword)
	return token, user["id"].(string)
}

// CreateTestEmployee has the admin create an employee and logs in as them.
func (e *testEnv) CreateTestEmployee(t *testing.T, adminToken, name string) (token, id string) {
	t.Helper()
	email := fmt.Sprintf("%s@example.com", name)
	resp := e.do(t, "POST", "/api/v1/users", adminToken, fiber.Map{
		"email":    email,
		"name":     name,
		"password": testPassword,
		"role":     "employee",
	})
	require.Equal(t, fiber.StatusCreated, resp.Status, resp.Raw)
	token, user := e.login(t, email, testPassword)
	return token, user["id"].(string)
}

func (e *testEnv) createTask(t *testing.T, adminToken string, body fiber.Map) map[string]any {
	t.Helper()
	resp := e.do(t, "POST", "/api/v1/tasks", adminToken, body)
	require.Equal(t, fiber.StatusCreated, resp.Status, resp.Raw)
	return resp.Data()
}

func (e *testEnv) createClient(t *testing.T, adminToken string, body fiber.Map) map[string]any {
	t.Helper()
	resp := e.do(t, "POST", "/api/v1/clients", adminToken, body)
	require.Equal(t, fiber.StatusCreated, resp.Status, resp.Raw)
	return resp.Data()
}

// assertNoPasswordHash walks a decoded JSON value looking for the hash field.
func assertNoPasswordHash(t *testing.T, v any) {
	t.Helper()
	switch val := v.(type) {
	case map[string]any:
		for k, child := range val {
			require.NotEqual(t, "password_hash", k)
			require.NotEqual(t, "password", k)
			assertNoPasswordHash(t, child)
		}
	case []any:
		for _, child := range val {
			assertNoPasswordHash(t, child)
		}
	}
}
