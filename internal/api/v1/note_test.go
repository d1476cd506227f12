package v1_test

import (
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotesReadableByEveryone(t *testing.T) {
	env := CreateTestApp(t)
	adminToken, _ := env.CreateTestAdmin(t)
	anaToken, anaID := env.CreateTestEmployee(t, adminToken, "ana")
	bobToken, _ := env.CreateTestEmployee(t, adminToken, "bob")

	resp := env.do(t, "POST", "/api/v1/notes", anaToken, fiber.Map{"title": "Standup", "content": "9:30"})
	require.Equal(t, fiber.StatusCreated, resp.Status, resp.Raw)
	note := resp.Data()
	assert.Equal(t, "default", note["color"])
	assert.Equal(t, anaID, note["created_by"])

	for _, token := range []string{adminToken, anaToken, bobToken} {
		resp = env.do(t, "GET", "/api/v1/notes", token, nil)
		assert.Len(t, resp.List(), 1)
		resp = env.do(t, "GET", "/api/v1/notes/"+note["id"].(string), token, nil)
		assert.Equal(t, fiber.StatusOK, resp.Status)
	}
}

func TestNotesWritableByCreatorOrAdmin(t *testing.T) {
	env := CreateTestApp(t)
	adminToken, _ := env.CreateTestAdmin(t)
	anaToken, _ := env.CreateTestEmployee(t, adminToken, "ana")
	bobToken, _ := env.CreateTestEmployee(t, adminToken, "bob")

	resp := env.do(t, "POST", "/api/v1/notes", anaToken, fiber.Map{"title": "Mine", "content": "draft", "color": "yellow"})
	require.Equal(t, fiber.StatusCreated, resp.Status)
	path := "/api/v1/notes/" + resp.Data()["id"].(string)

	resp = env.do(t, "PUT", path, bobToken, fiber.Map{"content": "hijacked"})
	assert.Equal(t, fiber.StatusForbidden, resp.Status)
	resp = env.do(t, "DELETE", path, bobToken, nil)
	assert.Equal(t, fiber.StatusForbidden, resp.Status)

	resp = env.do(t, "PUT", path, anaToken, fiber.Map{"content": "final", "color": "green"})
	require.Equal(t, fiber.StatusOK, resp.Status, resp.Raw)
	assert.Equal(t, "final", resp.Data()["content"])
	assert.Equal(t, "green", resp.Data()["color"])
	assert.Equal(t, "Mine", resp.Data()["title"])

	resp = env.do(t, "PUT", path, anaToken, fiber.Map{"color": "purple"})
	assert.Equal(t, fiber.StatusBadRequest, resp.Status)

	resp = env.do(t, "DELETE", path, adminToken, nil)
	assert.Equal(t, fiber.StatusOK, resp.Status)
	resp = env.do(t, "GET", path, anaToken, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.Status)
}
