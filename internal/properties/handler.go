package properties

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/estateflow/backend/internal/audit"
	"github.com/estateflow/backend/internal/firm"
	"github.com/estateflow/backend/internal/middleware"
	"github.com/estateflow/backend/internal/models"
	"github.com/estateflow/backend/pkg/response"
)

// PropertyRequest is the body for creating or updating a property.
type PropertyRequest struct {
	Name         string `json:"name" binding:"required"`
	Address      string `json:"address" binding:"required"`
	City         string `json:"city"`
	PropertyType string `json:"property_type"`
	Units        int    `json:"units"`
	Status       string `json:"status"`
}

// Handler handles property endpoints.
type Handler struct {
	repo      *Repository
	ownership *firm.OwnershipValidator
	audit     *audit.Log
}

// NewHandler creates a properties handler.
func NewHandler(repo *Repository, ownership *firm.OwnershipValidator, auditLog *audit.Log) *Handler {
	return &Handler{repo: repo, ownership: ownership, audit: auditLog}
}

// List handles GET /properties. A platform admin with no firm selected sees
// properties across all firms; everyone else sees only their acting firm's.
func (h *Handler) List(c *gin.Context) {
	fc := middleware.FirmScope(c)
	list, err := h.repo.List(c.Request.Context(), fc, c.Query("status"))
	if err != nil {
		response.Internal(c, "failed to list properties")
		return
	}
	response.OK(c, list)
}

// Get handles GET /properties/:id. Scoped reads return nothing for another
// firm's property, so cross-tenant ids 404 without an ownership leak.
func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid property id")
		return
	}
	fc := middleware.FirmScope(c)
	p, err := h.repo.GetByID(c.Request.Context(), fc, id)
	if err != nil {
		response.Internal(c, "failed to load property")
		return
	}
	if p == nil {
		response.NotFound(c, "property not found")
		return
	}
	response.OK(c, p)
}

// Create handles POST /properties (owner role required).
func (h *Handler) Create(c *gin.Context) {
	fc := middleware.FirmScope(c)
	if fc == nil || fc.FirmID == nil {
		response.BadRequest(c, "select a firm to create properties")
		return
	}
	var req PropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	p := &models.Property{
		Name:         req.Name,
		Address:      req.Address,
		City:         req.City,
		PropertyType: req.PropertyType,
		Units:        req.Units,
		Status:       req.Status,
	}
	if err := h.repo.Create(c.Request.Context(), *fc.FirmID, p); err != nil {
		response.Internal(c, "failed to create property")
		return
	}
	response.Created(c, p)
}

// Update handles PATCH /properties/:id (owner role required). Ownership is
// validated before the write; a property owned elsewhere produces the same
// 404 as one that does not exist.
func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid property id")
		return
	}
	fc := middleware.FirmScope(c)
	if !h.validateOwnership(c, id, fc) {
		return
	}
	var req PropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	status := req.Status
	if status == "" {
		status = models.PropertyStatusActive
	}
	p := &models.Property{
		Name:         req.Name,
		Address:      req.Address,
		City:         req.City,
		PropertyType: req.PropertyType,
		Units:        req.Units,
		Status:       status,
	}
	firmID := h.writeFirmID(c, id, fc)
	if firmID == uuid.Nil {
		return
	}
	updated, err := h.repo.Update(c.Request.Context(), firmID, id, p)
	if err != nil {
		response.Internal(c, "failed to update property")
		return
	}
	if updated == nil {
		response.NotFound(c, "property not found")
		return
	}
	response.OK(c, updated)
}

// Delete handles DELETE /properties/:id (accountant role required).
func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid property id")
		return
	}
	fc := middleware.FirmScope(c)
	if !h.validateOwnership(c, id, fc) {
		return
	}
	firmID := h.writeFirmID(c, id, fc)
	if firmID == uuid.Nil {
		return
	}
	if err := h.repo.Delete(c.Request.Context(), firmID, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			response.NotFound(c, "property not found")
			return
		}
		response.Internal(c, "failed to delete property")
		return
	}
	response.NoContent(c)
}

// validateOwnership runs the ownership validator and writes the response on
// denial. Not-found and owned-elsewhere are audited with distinct reasons
// but surfaced identically.
func (h *Handler) validateOwnership(c *gin.Context, id uuid.UUID, fc *firm.Context) bool {
	err := h.ownership.Validate(c.Request.Context(), firm.EntityProperty, id, fc)
	if err == nil {
		return true
	}
	switch {
	case errors.Is(err, firm.ErrEntityNotFound):
		h.audit.Denied("entity_not_found", zap.String("property_id", id.String()))
		response.NotFound(c, "property not found")
	case errors.Is(err, firm.ErrOwnershipMismatch):
		h.audit.Denied("ownership_mismatch", zap.String("property_id", id.String()))
		response.NotFound(c, "property not found")
	default:
		response.Internal(c, "ownership validation error")
	}
	return false
}

// writeFirmID picks the firm id to scope a mutation. A platform admin
// operating in the all-firms state must target the property's own firm, so
// the scoped lookup resolves it.
func (h *Handler) writeFirmID(c *gin.Context, id uuid.UUID, fc *firm.Context) uuid.UUID {
	if fc != nil && fc.FirmID != nil {
		return *fc.FirmID
	}
	p, err := h.repo.GetByID(c.Request.Context(), fc, id)
	if err != nil || p == nil {
		response.NotFound(c, "property not found")
		return uuid.Nil
	}
	return p.FirmID
}
