package v1

import (
	"github.com/gofiber/fiber/v2"

	"workforce-portal/internal/api/v1/handlers"
	"workforce-portal/internal/config"
	"workforce-portal/internal/middleware"
)

func RegisterRoutes(app *fiber.App, deps *config.Dependencies) {
	h := handlers.New(deps)

	app.Get("/", h.Health)
	app.Get("/health", h.Health)

	api := app.Group("/api/v1")
	api.Get("/health", h.Health)

	useToken := middleware.UseToken(deps.Tokens)

	// Auth
	api.Post("/auth/login", h.Login)
	api.Post("/auth/register", h.Register)
	api.Get("/auth/me", useToken, h.Me)

	// User
	userRoutes := api.Group("/users", useToken)
	userRoutes.Get("/", h.ListUsers)
	userRoutes.Post("/", h.CreateUser)
	userRoutes.Get("/:id", h.GetUser)
	userRoutes.Put("/:id", h.UpdateUser)
	userRoutes.Delete("/:id", h.DeleteUser)

	// Task
	taskRoutes := api.Group("/tasks", useToken)
	taskRoutes.Get("/", h.ListTasks)
	taskRoutes.Post("/", h.CreateTask)
	taskRoutes.Get("/:id", h.GetTask)
	taskRoutes.Put("/:id", h.UpdateTask)
	taskRoutes.Delete("/:id", h.DeleteTask)

	// Note
	noteRoutes := api.Group("/notes", useToken)
	noteRoutes.Get("/", h.ListNotes)
	noteRoutes.Post("/", h.CreateNote)
	noteRoutes.Get("/:id", h.GetNote)
	noteRoutes.Put("/:id", h.UpdateNote)
	noteRoutes.Delete("/:id", h.DeleteNote)

	// Client
	clientRoutes := api.Group("/clients", useToken)
	clientRoutes.Get("/", h.ListClients)
	clientRoutes.Post("/", h.CreateClient)
	clientRoutes.Get("/:id", h.GetClient)
	clientRoutes.Put("/:id", h.UpdateClient)
	clientRoutes.Delete("/:id", h.DeleteClient)

	// Folder
	folderRoutes := api.Group("/folders", useToken)
	folderRoutes.Get("/", h.ListFolders)
	folderRoutes.Post("/", h.CreateFolder)
	folderRoutes.Get("/:id", h.GetFolder)
	folderRoutes.Delete("/:id", h.DeleteFolder)

	// Document
	documentRoutes := api.Group("/documents", useToken)
	documentRoutes.Get("/", h.ListDocuments)
	documentRoutes.Post("/", h.CreateDocument)
	documentRoutes.Post("/upload", h.UploadDocument)
	documentRoutes.Get("/:id", h.GetDocument)
	documentRoutes.Delete("/:id", h.DeleteDocument)

	// Report
	reportRoutes := api.Group("/reports", useToken)
	reportRoutes.Get("/", h.ListReports)
	reportRoutes.Post("/", h.CreateReport)
	reportRoutes.Get("/:id", h.GetReport)
	reportRoutes.Put("/:id", h.UpdateReport)
	reportRoutes.Delete("/:id", h.DeleteReport)

	// Dashboard
	api.Get("/dashboard/stats", useToken, h.DashboardStats)

	// Activity feed
	api.Get("/ws", handlers.RequireUpgrade, middleware.UseQueryToken(deps.Tokens), h.Events())
}
