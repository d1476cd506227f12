package v1_test

import (
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateUserDefaultsToEmployee(t *testing.T) {
	env := CreateTestApp(t)
	adminToken, _ := env.CreateTestAdmin(t)

	resp := env.do(t, "POST", "/api/v1/users", adminToken, fiber.Map{
		"email":    "ana@example.com",
		"name":     "Ana",
		"phone":    "0700000000",
		"password": testPassword,
	})
	require.Equal(t, fiber.StatusCreated, resp.Status, resp.Raw)
	assert.Equal(t, "employee", resp.Data()["role"])
	assert.Equal(t, "0700000000", resp.Data()["phone"])
	assertNoPasswordHash(t, resp.Body)
}

func TestEmailIsUnique(t *testing.T) {
	env := CreateTestApp(t)
	adminToken, _ := env.CreateTestAdmin(t)
	env.CreateTestEmployee(t, adminToken, "ana")

	resp := env.do(t, "POST", "/api/v1/users", adminToken, fiber.Map{
		"email":    "ana@example.com",
		"name":     "Other Ana",
		"password": testPassword,
	})
	assert.Equal(t, fiber.StatusConflict, resp.Status)

	_, bobID := env.CreateTestEmployee(t, adminToken, "bob")
	resp = env.do(t, "PUT", "/api/v1/users/"+bobID, adminToken, fiber.Map{"email": "ana@example.com"})
	assert.Equal(t, fiber.StatusConflict, resp.Status)
}

func TestUsersAreAdminOnly(t *testing.T) {
	env := CreateTestApp(t)
	adminToken, adminID := env.CreateTestAdmin(t)
	empToken, empID := env.CreateTestEmployee(t, adminToken, "ana")

	for _, req := range []struct{ method, path string }{
		{"GET", "/api/v1/users"},
		{"GET", "/api/v1/users/" + adminID},
		{"PUT", "/api/v1/users/" + empID},
		{"DELETE", "/api/v1/users/" + adminID},
	} {
		resp := env.do(t, req.method, req.path, empToken, fiber.Map{})
		assert.Equal(t, fiber.StatusForbidden, resp.Status, req.method+" "+req.path)
	}
	resp := env.do(t, "POST", "/api/v1/users", empToken, fiber.Map{"email": "x@example.com", "name": "X", "password": testPassword})
	assert.Equal(t, fiber.StatusForbidden, resp.Status)
}

func TestAdminCannotDeleteSelf(t *testing.T) {
	env := CreateTestApp(t)
	adminToken, adminID := env.CreateTestAdmin(t)

	resp := env.do(t, "DELETE", "/api/v1/users/"+adminID, adminToken, nil)
	assert.Equal(t, fiber.StatusForbidden, resp.Status)
	assert.Equal(t, "You cannot delete your own account", resp.Body["message"])

	resp = env.do(t, "GET", "/api/v1/users/"+adminID, adminToken, nil)
	assert.Equal(t, fiber.StatusOK, resp.Status)
}

func TestDeleteUser(t *testing.T) {
	env := CreateTestApp(t)
	adminToken, _ := env.CreateTestAdmin(t)
	_, empID := env.CreateTestEmployee(t, adminToken, "ana")

	resp := env.do(t, "DELETE", "/api/v1/users/"+empID, adminToken, nil)
	require.Equal(t, fiber.StatusOK, resp.Status)

	resp = env.do(t, "DELETE", "/api/v1/users/"+empID, adminToken, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.Status)
	assert.Equal(t, "User not found", resp.Body["message"])
}

func TestUpdateUserPassword(t *testing.T) {
	env := CreateTestApp(t)
	adminToken, _ := env.CreateTestAdmin(t)
	_, empID := env.CreateTestEmployee(t, adminToken, "ana")

	resp := env.do(t, "PUT", "/api/v1/users/"+empID, adminToken, fiber.Map{"name": "Ana Maria", "password": "new-secret"})
	require.Equal(t, fiber.StatusOK, resp.Status, resp.Raw)
	assert.Equal(t, "Ana Maria", resp.Data()["name"])
	assertNoPasswordHash(t, resp.Body)

	resp = env.do(t, "POST", "/api/v1/auth/login", "", fiber.Map{"email": "ana@example.com", "password": testPassword})
	assert.Equal(t, fiber.StatusUnauthorized, resp.Status)
	env.login(t, "ana@example.com", "new-secret")
}

func TestUpdateUnknownUser(t *testing.T) {
	env := CreateTestApp(t)
	adminToken, _ := env.CreateTestAdmin(t)

	resp := env.do(t, "PUT", "/api/v1/users/missing", adminToken, fiber.Map{"name": "Ghost"})
	assert.Equal(t, fiber.StatusNotFound, resp.Status)
}

func TestUserListHasNoPasswordHash(t *testing.T) {
	env := CreateTestApp(t)
	adminToken, _ := env.CreateTestAdmin(t)
	env.CreateTestEmployee(t, adminToken, "ana")
	env.CreateTestEmployee(t, adminToken, "bob")

	resp := env.do(t, "GET", "/api/v1/users", adminToken, nil)
	require.Equal(t, fiber.StatusOK, resp.Status)
	assert.Len(t, resp.List(), 3)
	assertNoPasswordHash(t, resp.Body)
}
