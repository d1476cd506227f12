package handlers

import (
	"encoding/base64"
	"io"
	"mime/multipart"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"workforce-portal/internal/domain"
	"workforce-portal/internal/models"
	"workforce-portal/internal/policy"
	"workforce-portal/pkg/logger"
)

// MaxUploadSize caps multipart document uploads.
const MaxUploadSize = 10 << 20

type CreateDocumentRequest struct {
	Name     string `json:"name" validate:"required"`
	FileData string `json:"file_data" validate:"required,base64"`
	FileType string `json:"file_type" validate:"required"`
	FolderID string `json:"folder_id" validate:"required"`
}

// ListDocuments accepts an optional folder_id query filter. Payloads are left
// out; fetch a single document to get its file_data.
func (h *Handler) ListDocuments(c *fiber.Ctx) error {
	if err := h.policy.Authorize(identity(c), policy.Documents, policy.List, nil); err != nil {
		return fail(c, err)
	}
	docs, err := h.repos.Documents.List(c.UserContext(), c.Query("folder_id"))
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, "Documents retrieved", docs)
}

func (h *Handler) GetDocument(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.policy.Authorize(identity(c), policy.Documents, policy.Get, &policy.Target{ID: id}); err != nil {
		return fail(c, err)
	}
	doc, err := h.repos.Documents.Get(c.UserContext(), id)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, "Document retrieved", doc)
}

func (h *Handler) CreateDocument(c *fiber.Ctx) error {
	caller := identity(c)
	if err := h.policy.Authorize(caller, policy.Documents, policy.Create, nil); err != nil {
		return fail(c, err)
	}
	var req CreateDocumentRequest
	if err := h.bind(c, &req); err != nil {
		return fail(c, err)
	}
	return h.storeDocument(c, caller, models.Document{
		Name:     req.Name,
		FileData: req.FileData,
		FileType: req.FileType,
		FolderID: req.FolderID,
	})
}

// UploadDocument takes a multipart form with "file" and "folder_id" and
// stores it the same way as CreateDocument.
func (h *Handler) UploadDocument(c *fiber.Ctx) error {
	caller := identity(c)
	if err := h.policy.Authorize(caller, policy.Documents, policy.Create, nil); err != nil {
		return fail(c, err)
	}
	folderID := c.FormValue("folder_id")
	if folderID == "" {
		return fail(c, domain.Validation("folder_id is required"))
	}
	file, err := c.FormFile("file")
	if err != nil {
		return fail(c, domain.Validation("file is required"))
	}
	if err := validateFile(file); err != nil {
		return fail(c, err)
	}
	encoded, err := readBase64(file)
	if err != nil {
		return fail(c, err)
	}
	name := c.FormValue("name")
	if name == "" {
		name = file.Filename
	}
	return h.storeDocument(c, caller, models.Document{
		Name:     name,
		FileData: encoded,
		FileType: file.Header.Get("Content-Type"),
		FolderID: folderID,
	})
}

func (h *Handler) storeDocument(c *fiber.Ctx, caller policy.Identity, doc models.Document) error {
	doc.UploadedBy = caller.UserID
	if err := h.repos.Documents.Create(c.UserContext(), &doc); err != nil {
		return fail(c, err)
	}
	logger.AuditLogger.Info("Document uploaded",
		zap.String("document_id", doc.ID),
		zap.String("folder_id", doc.FolderID),
		zap.String("by", caller.UserID),
	)
	h.publish(policy.Documents, policy.Create, doc.ID)
	doc.FileData = ""
	return ok(c, fiber.StatusCreated, "Document uploaded successfully", doc)
}

func (h *Handler) DeleteDocument(c *fiber.Ctx) error {
	id := c.Params("id")
	caller := identity(c)
	if err := h.policy.Authorize(caller, policy.Documents, policy.Delete, &policy.Target{ID: id}); err != nil {
		return fail(c, err)
	}
	if err := h.repos.Documents.Delete(c.UserContext(), id); err != nil {
		return fail(c, err)
	}
	logger.AuditLogger.Info("Document deleted", zap.String("document_id", id), zap.String("by", caller.UserID))
	h.publish(policy.Documents, policy.Delete, id)
	return ok(c, fiber.StatusOK, "Document deleted successfully", nil)
}

func validateFile(file *multipart.FileHeader) error {
	if file.Size > MaxUploadSize {
		return domain.Validation("File size exceeds the limit of 10MB")
	}
	if strings.TrimSpace(file.Header.Get("Content-Type")) == "" {
		return domain.Validation("File type is missing")
	}
	return nil
}

func readBase64(file *multipart.FileHeader) (string, error) {
	f, err := file.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()
	raw, err := io.ReadAll(f)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(raw), nil
}
