package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/estateflow/backend/internal/auth"
	"github.com/estateflow/backend/internal/models"
	"github.com/estateflow/backend/pkg/response"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeDirectory struct {
	users map[uuid.UUID]*models.User
}

func (d *fakeDirectory) GetActiveByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	u, ok := d.users[id]
	if !ok {
		return nil, auth.ErrUserNotFound
	}
	return u, nil
}

func authRouter(tokens *auth.TokenService, users auth.UserDirectory) *gin.Engine {
	r := gin.New()
	r.GET("/protected", Authenticate(tokens, users), func(c *gin.Context) {
		user := CurrentUser(c)
		response.OK(c, gin.H{"user_id": user.ID})
	})
	return r
}

func doRequest(t *testing.T, r *gin.Engine, method, path, authHeader string) (*httptest.ResponseRecorder, response.Body) {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	return doRawRequest(t, r, req)
}

func doRawRequest(t *testing.T, r *gin.Engine, req *http.Request) (*httptest.ResponseRecorder, response.Body) {
	t.Helper()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	var body response.Body
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v (%s)", err, w.Body.String())
	}
	return w, body
}

func TestAuthenticateValidToken(t *testing.T) {
	tokens := auth.NewTokenService("secret", "estateflow", "estateflow-api", 1)
	user := &models.User{ID: uuid.New(), UserType: models.UserTypeStandard, IsActive: true}
	dir := &fakeDirectory{users: map[uuid.UUID]*models.User{user.ID: user}}
	r := authRouter(tokens, dir)

	token, err := tokens.Generate(user.ID)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	w, body := doRequest(t, r, http.MethodGet, "/protected", "Bearer "+token)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (%s)", w.Code, w.Body.String())
	}
	if !body.Success {
		t.Fatal("expected success response")
	}
}

func TestAuthenticateRejections(t *testing.T) {
	tokens := auth.NewTokenService("secret", "estateflow", "estateflow-api", 1)
	expired := auth.NewTokenService("secret", "estateflow", "estateflow-api", -1)
	userID := uuid.New()
	dir := &fakeDirectory{users: map[uuid.UUID]*models.User{}}
	r := authRouter(tokens, dir)

	goodToken, _ := tokens.Generate(userID)
	expiredToken, _ := expired.Generate(userID)

	tests := []struct {
		name     string
		header   string
		wantCode string
	}{
		{name: "no header", header: ""},
		{name: "not bearer", header: "Basic abc"},
		{name: "garbage token", header: "Bearer junk"},
		{name: "expired token", header: "Bearer " + expiredToken, wantCode: response.CodeTokenExpired},
		// Token verifies but the subject is gone or deactivated.
		{name: "unknown user", header: "Bearer " + goodToken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, body := doRequest(t, r, http.MethodGet, "/protected", tt.header)
			if w.Code != http.StatusUnauthorized {
				t.Fatalf("status = %d, want 401 (%s)", w.Code, w.Body.String())
			}
			if body.Code != tt.wantCode {
				t.Fatalf("code = %q, want %q", body.Code, tt.wantCode)
			}
		})
	}
}
