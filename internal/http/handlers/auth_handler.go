// README: Auth handlers: sign-up, sign-in, sign-out and password flows.
package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"voyager/internal/http/middleware"
	"voyager/internal/modules/auth"
)

// Identity is the session provider the auth routes drive.
type Identity interface {
	SignUp(ctx context.Context, email, password string) (auth.Session, error)
	SignIn(ctx context.Context, email, password string) (auth.Session, error)
	SignInWithIdP(ctx context.Context, providerID, providerToken, requestURI string) (auth.Session, error)
	SignOut(ctx context.Context, uid string) error
	RequestPasswordReset(ctx context.Context, email string) error
	UpdatePassword(ctx context.Context, uid, password string) error
	Inspect(ctx context.Context, uid string) (auth.User, error)
}

type AuthHandler struct {
	identity Identity
}

func NewAuthHandler(identity Identity) *AuthHandler {
	return &AuthHandler{identity: identity}
}

type credentialsReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignUp handles POST /api/auth/signup.
func (h *AuthHandler) SignUp(c *gin.Context) {
	var req credentialsReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	s, err := h.identity.SignUp(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, s)
}

// SignIn handles POST /api/auth/signin.
func (h *AuthHandler) SignIn(c *gin.Context) {
	var req credentialsReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	s, err := h.identity.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, s)
}

type idpReq struct {
	ProviderID string `json:"providerId"`
	IDToken    string `json:"idToken"`
	RequestURI string `json:"requestUri"`
}

// SignInWithIdP handles POST /api/auth/signin/idp.
func (h *AuthHandler) SignInWithIdP(c *gin.Context) {
	var req idpReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	s, err := h.identity.SignInWithIdP(c.Request.Context(), req.ProviderID, req.IDToken, req.RequestURI)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, s)
}

// ResetPassword handles POST /api/auth/password/reset.
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req credentialsReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	if err := h.identity.RequestPasswordReset(c.Request.Context(), req.Email); err != nil {
		writeServiceError(c, err)
		return
	}
	c.Status(http.StatusAccepted)
}

// SignOut handles POST /api/auth/signout (authenticated).
func (h *AuthHandler) SignOut(c *gin.Context) {
	if err := h.identity.SignOut(c.Request.Context(), middleware.CallerUID(c)); err != nil {
		writeServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// UpdatePassword handles POST /api/auth/password (authenticated).
func (h *AuthHandler) UpdatePassword(c *gin.Context) {
	var req credentialsReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	if err := h.identity.UpdatePassword(c.Request.Context(), middleware.CallerUID(c), req.Password); err != nil {
		writeServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Me handles GET /api/auth/me (authenticated).
func (h *AuthHandler) Me(c *gin.Context) {
	u, err := h.identity.Inspect(c.Request.Context(), middleware.CallerUID(c))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, u)
}
