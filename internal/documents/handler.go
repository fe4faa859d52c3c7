package documents

import (
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/estateflow/backend/internal/audit"
	"github.com/estateflow/backend/internal/firm"
	"github.com/estateflow/backend/internal/middleware"
	"github.com/estateflow/backend/internal/models"
	"github.com/estateflow/backend/internal/properties"
	"github.com/estateflow/backend/pkg/response"
	"github.com/estateflow/backend/pkg/storage"
)

// UploadURLRequest is the body for POST /properties/:id/documents/upload-url.
type UploadURLRequest struct {
	FileName    string `json:"file_name" binding:"required"`
	ContentType string `json:"content_type" binding:"required"`
}

// Handler handles property document endpoints backed by S3.
type Handler struct {
	repo      *Repository
	propRepo  *properties.Repository
	s3        *storage.S3
	ownership *firm.OwnershipValidator
	audit     *audit.Log
	logger    *zap.Logger
}

// NewHandler creates a documents handler. s3 may be nil when storage is not
// configured; document routes then respond 503.
func NewHandler(repo *Repository, propRepo *properties.Repository, s3 *storage.S3, ownership *firm.OwnershipValidator, auditLog *audit.Log, logger *zap.Logger) *Handler {
	return &Handler{repo: repo, propRepo: propRepo, s3: s3, ownership: ownership, audit: auditLog, logger: logger}
}

func (h *Handler) storageReady(c *gin.Context) bool {
	if h.s3 == nil {
		response.ServiceUnavailable(c, "document storage is not configured")
		return false
	}
	return true
}

// validateProperty confirms the property exists and belongs to the acting
// firm, responding identically for missing and foreign properties.
func (h *Handler) validateProperty(c *gin.Context, propertyID uuid.UUID, fc *firm.Context) bool {
	err := h.ownership.Validate(c.Request.Context(), firm.EntityProperty, propertyID, fc)
	if err == nil {
		return true
	}
	switch {
	case errors.Is(err, firm.ErrEntityNotFound):
		h.audit.Denied("entity_not_found", zap.String("property_id", propertyID.String()))
		response.NotFound(c, "property not found")
	case errors.Is(err, firm.ErrOwnershipMismatch):
		h.audit.Denied("ownership_mismatch", zap.String("property_id", propertyID.String()))
		response.NotFound(c, "property not found")
	default:
		response.Internal(c, "ownership validation error")
	}
	return false
}

func objectKey(firmID, propertyID uuid.UUID, fileName string) string {
	ext := strings.ToLower(path.Ext(fileName))
	return fmt.Sprintf("documents/%s/%s/%s%s", firmID, propertyID, uuid.New(), ext)
}

// CreateUploadURL handles POST /properties/:id/documents/upload-url (owner
// role required). Returns a pre-signed PUT URL and records the document.
func (h *Handler) CreateUploadURL(c *gin.Context) {
	if !h.storageReady(c) {
		return
	}
	propertyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid property id")
		return
	}
	fc := middleware.FirmScope(c)
	if !h.validateProperty(c, propertyID, fc) {
		return
	}

	var req UploadURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	if !storage.ValidateDocumentType(req.ContentType, req.FileName) {
		response.BadRequest(c, "unsupported document type")
		return
	}

	firmID := fc.FirmID
	if firmID == nil {
		// Platform admin in the all-firms state: resolve the property's
		// own firm for the document row.
		p, err := h.propRepo.GetByID(c.Request.Context(), fc, propertyID)
		if err != nil || p == nil {
			response.NotFound(c, "property not found")
			return
		}
		firmID = &p.FirmID
	}

	user := middleware.CurrentUser(c)
	if user == nil {
		response.Unauthorized(c, "missing user context")
		return
	}

	key := objectKey(*firmID, propertyID, req.FileName)
	uploadURL, err := h.s3.PresignUpload(c.Request.Context(), key, req.ContentType)
	if err != nil {
		h.logger.Error("presign upload", zap.Error(err))
		response.Internal(c, "failed to create upload URL")
		return
	}

	doc := &models.PropertyDocument{
		FirmID:      *firmID,
		PropertyID:  propertyID,
		ObjectKey:   key,
		FileName:    req.FileName,
		ContentType: req.ContentType,
		UploadedBy:  user.ID,
	}
	if err := h.repo.Create(c.Request.Context(), doc); err != nil {
		response.Internal(c, "failed to record document")
		return
	}

	response.Created(c, gin.H{"document": doc, "upload_url": uploadURL})
}

// Upload handles POST /properties/:id/documents (owner role required):
// a direct multipart upload streamed through the server for clients that
// cannot use pre-signed URLs.
func (h *Handler) Upload(c *gin.Context) {
	if !h.storageReady(c) {
		return
	}
	propertyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid property id")
		return
	}
	fc := middleware.FirmScope(c)
	if !h.validateProperty(c, propertyID, fc) {
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		response.BadRequest(c, "missing file")
		return
	}
	defer file.Close()

	if header.Size > storage.MaxDocumentSize {
		response.BadRequest(c, "file too large")
		return
	}
	contentType := header.Header.Get("Content-Type")
	if !storage.ValidateDocumentType(contentType, header.Filename) {
		response.BadRequest(c, "unsupported document type")
		return
	}

	firmID := fc.FirmID
	if firmID == nil {
		p, err := h.propRepo.GetByID(c.Request.Context(), fc, propertyID)
		if err != nil || p == nil {
			response.NotFound(c, "property not found")
			return
		}
		firmID = &p.FirmID
	}

	user := middleware.CurrentUser(c)
	if user == nil {
		response.Unauthorized(c, "missing user context")
		return
	}

	key := objectKey(*firmID, propertyID, header.Filename)
	if err := h.s3.Upload(c.Request.Context(), key, contentType, file); err != nil {
		h.logger.Error("document upload", zap.Error(err))
		response.Internal(c, "failed to upload document")
		return
	}

	doc := &models.PropertyDocument{
		FirmID:      *firmID,
		PropertyID:  propertyID,
		ObjectKey:   key,
		FileName:    header.Filename,
		ContentType: contentType,
		UploadedBy:  user.ID,
	}
	if err := h.repo.Create(c.Request.Context(), doc); err != nil {
		response.Internal(c, "failed to record document")
		return
	}

	response.Created(c, doc)
}

// ListByProperty handles GET /properties/:id/documents.
func (h *Handler) ListByProperty(c *gin.Context) {
	propertyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid property id")
		return
	}
	fc := middleware.FirmScope(c)
	if !h.validateProperty(c, propertyID, fc) {
		return
	}
	list, err := h.repo.ListByProperty(c.Request.Context(), fc, propertyID)
	if err != nil {
		response.Internal(c, "failed to list documents")
		return
	}
	response.OK(c, list)
}

// DownloadURL handles GET /documents/:id/download-url. The scoped lookup
// means a foreign document 404s like a missing one.
func (h *Handler) DownloadURL(c *gin.Context) {
	if !h.storageReady(c) {
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid document id")
		return
	}
	fc := middleware.FirmScope(c)
	doc, err := h.repo.GetByID(c.Request.Context(), fc, id)
	if err != nil {
		response.Internal(c, "failed to load document")
		return
	}
	if doc == nil {
		response.NotFound(c, "document not found")
		return
	}
	url, err := h.s3.PresignDownload(c.Request.Context(), doc.ObjectKey)
	if err != nil {
		h.logger.Error("presign download", zap.Error(err))
		response.Internal(c, "failed to create download URL")
		return
	}
	response.OK(c, gin.H{"download_url": url, "file_name": doc.FileName})
}
