package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vael-labs/vael-backend/internal/http/response"
	"github.com/vael-labs/vael-backend/internal/pkg/ctxutil"
	pkgerrors "github.com/vael-labs/vael-backend/internal/pkg/errors"
	"github.com/vael-labs/vael-backend/internal/pkg/logger"
	"github.com/vael-labs/vael-backend/internal/services"
)

type AuthHandler struct {
	auth *services.AuthService
	log  *logger.Logger
}

func NewAuthHandler(auth *services.AuthService, log *logger.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, log: log}
}

type credentialsRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type tokenPairResponse struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "Invalid request body", "invalid_argument")
		return
	}
	_, err := h.auth.RegisterUser(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, pkgerrors.ErrAlreadyExists):
			response.RespondError(c, http.StatusConflict, "Email already registered", "already_exists")
		case errors.Is(err, pkgerrors.ErrInvalidArgument):
			response.RespondError(c, http.StatusBadRequest, "Invalid request body", "invalid_argument")
		default:
			h.log.Error("Register failed", "error", err)
			response.RespondError(c, http.StatusInternalServerError, "Failed to create user", "internal")
		}
		return
	}
	response.RespondOK(c, http.StatusCreated, gin.H{"message": "User created"})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "Invalid request body", "invalid_argument")
		return
	}
	access, refresh, err := h.auth.LoginUser(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, pkgerrors.ErrUnauthorized) {
			response.RespondError(c, http.StatusUnauthorized, "Invalid credentials", "unauthorized")
			return
		}
		h.log.Error("Login failed", "error", err)
		response.RespondError(c, http.StatusInternalServerError, "Failed to log in", "internal")
		return
	}
	response.RespondOK(c, http.StatusOK, tokenPairResponse{
		Token:        access,
		RefreshToken: refresh,
		ExpiresIn:    int64(h.auth.GetAccessTTL().Seconds()),
	})
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	if rd == nil || rd.RefreshToken == "" {
		response.RespondError(c, http.StatusUnauthorized, "Missing session", "unauthorized")
		return
	}
	access, refresh, err := h.auth.RefreshUser(c.Request.Context(), rd.RefreshToken)
	if err != nil {
		if errors.Is(err, pkgerrors.ErrUnauthorized) {
			response.RespondError(c, http.StatusUnauthorized, "Invalid refresh token", "unauthorized")
			return
		}
		h.log.Error("Refresh failed", "error", err)
		response.RespondError(c, http.StatusInternalServerError, "Failed to refresh session", "internal")
		return
	}
	response.RespondOK(c, http.StatusOK, tokenPairResponse{
		Token:        access,
		RefreshToken: refresh,
		ExpiresIn:    int64(h.auth.GetAccessTTL().Seconds()),
	})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	if rd == nil {
		response.RespondError(c, http.StatusUnauthorized, "Missing session", "unauthorized")
		return
	}
	if err := h.auth.LogoutUser(c.Request.Context(), rd.TokenString); err != nil {
		h.log.Error("Logout failed", "error", err)
		response.RespondError(c, http.StatusInternalServerError, "Failed to log out", "internal")
		return
	}
	response.RespondOK(c, http.StatusOK, gin.H{"message": "Logged out"})
}
