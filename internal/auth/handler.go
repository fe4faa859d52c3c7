package auth

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/estateflow/backend/internal/audit"
	"github.com/estateflow/backend/internal/models"
	"github.com/estateflow/backend/pkg/response"
	"github.com/estateflow/backend/pkg/utils"
)

// RegisterRequest is the body for POST /auth/register.
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	FullName string `json:"full_name" binding:"required"`
	Locale   string `json:"locale"`
	Timezone string `json:"timezone"`
}

// LoginRequest is the body for POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// ChangePasswordRequest is the body for POST /auth/change-password.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=8"`
}

// TokenResponse is the auth response with JWT.
type TokenResponse struct {
	Token string            `json:"token"`
	User  models.UserPublic `json:"user"`
}

// Handler handles auth HTTP endpoints.
type Handler struct {
	repo   *Repository
	tokens *TokenService
	audit  *audit.Log
	logger *zap.Logger
}

// NewHandler creates an auth handler.
func NewHandler(repo *Repository, tokens *TokenService, auditLog *audit.Log, logger *zap.Logger) *Handler {
	return &Handler{repo: repo, tokens: tokens, audit: auditLog, logger: logger}
}

// Register handles POST /auth/register. New accounts are standard users;
// platform admins are provisioned out of band.
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		response.Internal(c, "failed to hash password")
		return
	}

	locale := req.Locale
	if locale == "" {
		locale = "en"
	}
	timezone := req.Timezone
	if timezone == "" {
		timezone = "UTC"
	}

	user, err := h.repo.Create(c.Request.Context(), req.Username, req.Email, hash, req.FullName,
		models.UserTypeStandard, locale, timezone)
	if err != nil {
		// Unique violations on email/username land here as well.
		h.logger.Warn("register failed", zap.Error(err))
		response.Conflict(c, "username or email already registered")
		return
	}

	token, err := h.tokens.Generate(user.ID)
	if err != nil {
		response.Internal(c, "failed to generate token")
		return
	}

	response.Created(c, TokenResponse{Token: token, User: user.ToPublic()})
}

// Login handles POST /auth/login.
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	user, err := h.repo.GetActiveByEmail(c.Request.Context(), req.Email)
	if err != nil || !utils.CheckPassword(req.Password, user.Password) {
		h.audit.Event(audit.EventLoginFailed, zap.String("email", req.Email), zap.String("client_ip", c.ClientIP()))
		response.Unauthorized(c, "invalid email or password")
		return
	}

	token, err := h.tokens.Generate(user.ID)
	if err != nil {
		response.Internal(c, "failed to generate token")
		return
	}

	h.audit.Event(audit.EventLogin, zap.String("user_id", user.ID.String()))
	response.OK(c, TokenResponse{Token: token, User: user.ToPublic()})
}

// Me handles GET /me for the authenticated user.
func (h *Handler) Me(c *gin.Context) {
	v, ok := c.Get("current_user")
	if !ok {
		response.Unauthorized(c, "missing user context")
		return
	}
	user, ok := v.(*models.User)
	if !ok || user == nil {
		response.Unauthorized(c, "missing user context")
		return
	}
	response.OK(c, user.ToPublic())
}

// ChangePassword handles POST /me/change-password.
func (h *Handler) ChangePassword(c *gin.Context) {
	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	v, ok := c.Get("current_user")
	if !ok {
		response.Unauthorized(c, "missing user context")
		return
	}
	user, ok := v.(*models.User)
	if !ok || user == nil {
		response.Unauthorized(c, "missing user context")
		return
	}

	if !utils.CheckPassword(req.CurrentPassword, user.Password) {
		response.Unauthorized(c, "current password is incorrect")
		return
	}

	hash, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		response.Internal(c, "failed to hash password")
		return
	}
	if err := h.repo.UpdatePassword(c.Request.Context(), user.ID, hash); err != nil {
		response.Internal(c, "failed to update password")
		return
	}

	h.audit.Event(audit.EventPasswordChanged, zap.String("user_id", user.ID.String()))
	response.NoContent(c)
}

// List handles GET /users (platform admin only).
func (h *Handler) List(c *gin.Context) {
	list, err := h.repo.List(c.Request.Context())
	if err != nil {
		response.Internal(c, "failed to list users")
		return
	}
	response.OK(c, list)
}
