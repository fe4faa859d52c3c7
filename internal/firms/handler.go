package firms

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/estateflow/backend/internal/audit"
	"github.com/estateflow/backend/internal/middleware"
	"github.com/estateflow/backend/internal/models"
	"github.com/estateflow/backend/pkg/response"
)

// CreateFirmRequest is the body for POST /firms.
type CreateFirmRequest struct {
	Name string `json:"name" binding:"required"`
}

// AssignRequest is the body for POST /firms/current/members.
type AssignRequest struct {
	UserID      uuid.UUID `json:"user_id" binding:"required"`
	Role        string    `json:"role" binding:"required"`
	AccessLevel string    `json:"access_level"`
}

// Handler handles firm administration endpoints.
type Handler struct {
	repo  *Repository
	audit *audit.Log
}

// NewHandler creates a firms handler.
func NewHandler(repo *Repository, auditLog *audit.Log) *Handler {
	return &Handler{repo: repo, audit: auditLog}
}

// Create handles POST /firms (platform admin only).
func (h *Handler) Create(c *gin.Context) {
	var req CreateFirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	firm := &models.Firm{Name: req.Name}
	if err := h.repo.Create(c.Request.Context(), firm); err != nil {
		response.Internal(c, "failed to create firm")
		return
	}
	h.audit.Event(audit.EventFirmCreated, zap.String("firm_id", firm.ID.String()))
	response.Created(c, firm)
}

// List handles GET /firms/all (platform admin only).
func (h *Handler) List(c *gin.Context) {
	list, err := h.repo.ListAll(c.Request.Context())
	if err != nil {
		response.Internal(c, "failed to list firms")
		return
	}
	response.OK(c, list)
}

// Deactivate handles PATCH /firms/:id/deactivate (platform admin only).
func (h *Handler) Deactivate(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid firm id")
		return
	}
	if err := h.repo.Deactivate(c.Request.Context(), id); err != nil {
		if IsNotFound(err) {
			response.NotFound(c, "firm not found")
			return
		}
		response.Internal(c, "failed to deactivate firm")
		return
	}
	h.audit.Event(audit.EventFirmDeactivated, zap.String("firm_id", id.String()))
	response.NoContent(c)
}

// MyFirms handles GET /firms: the caller's own active assignments, intended
// for a firm-switcher UI. No firm context is needed, so a user with zero
// assignments still gets an (empty) answer here instead of a denial.
func (h *Handler) MyFirms(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		response.Unauthorized(c, "missing user context")
		return
	}
	list, err := h.repo.ListAssignmentsForUser(c.Request.Context(), user.ID)
	if err != nil {
		response.Internal(c, "failed to list firms")
		return
	}
	response.OK(c, gin.H{
		"can_access_all_firms": user.IsPlatformAdmin(),
		"assignments":          list,
	})
}

// Current handles GET /firms/current: the resolved acting firm context.
func (h *Handler) Current(c *gin.Context) {
	fc := middleware.FirmScope(c)
	if fc == nil {
		response.Unauthorized(c, "missing firm context")
		return
	}
	response.OK(c, fc)
}

// ListMembers handles GET /firms/current/members.
func (h *Handler) ListMembers(c *gin.Context) {
	fc := middleware.FirmScope(c)
	if fc == nil || fc.FirmID == nil {
		response.BadRequest(c, "select a firm to list members")
		return
	}
	list, err := h.repo.ListMembers(c.Request.Context(), *fc.FirmID)
	if err != nil {
		response.Internal(c, "failed to list members")
		return
	}
	response.OK(c, list)
}

// Assign handles POST /firms/current/members (firm admin role required).
func (h *Handler) Assign(c *gin.Context) {
	fc := middleware.FirmScope(c)
	if fc == nil || fc.FirmID == nil {
		response.BadRequest(c, "select a firm to assign members")
		return
	}
	var req AssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	role := models.Role(req.Role)
	if !role.Valid() {
		response.BadRequest(c, "invalid role")
		return
	}
	accessLevel := req.AccessLevel
	if accessLevel == "" {
		accessLevel = models.AccessLevelFull
	}
	if accessLevel != models.AccessLevelFull && accessLevel != models.AccessLevelReadOnly {
		response.BadRequest(c, "invalid access level")
		return
	}

	assignment, err := h.repo.Assign(c.Request.Context(), req.UserID, *fc.FirmID, role, accessLevel)
	if err != nil {
		response.Internal(c, "failed to assign user")
		return
	}
	h.audit.Event(audit.EventAssignmentCreated,
		zap.String("firm_id", fc.FirmID.String()),
		zap.String("user_id", req.UserID.String()),
		zap.String("role", string(role)),
	)
	response.Created(c, assignment)
}

// Revoke handles DELETE /firms/current/members/:userID (firm admin role
// required). The assignment is deactivated, not deleted.
func (h *Handler) Revoke(c *gin.Context) {
	fc := middleware.FirmScope(c)
	if fc == nil || fc.FirmID == nil {
		response.BadRequest(c, "select a firm to revoke members")
		return
	}
	userID, err := uuid.Parse(c.Param("userID"))
	if err != nil {
		response.BadRequest(c, "invalid user id")
		return
	}
	if err := h.repo.Revoke(c.Request.Context(), userID, *fc.FirmID); err != nil {
		if IsNotFound(err) {
			response.NotFound(c, "assignment not found")
			return
		}
		response.Internal(c, "failed to revoke assignment")
		return
	}
	h.audit.Event(audit.EventAssignmentRevoked,
		zap.String("firm_id", fc.FirmID.String()),
		zap.String("user_id", userID.String()),
	)
	response.NoContent(c)
}
