package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vael-labs/vael-backend/internal/http/response"
)

type HealthHandler struct{}

func NewHealthHandler() *HealthHandler { return &HealthHandler{} }

func (h *HealthHandler) Health(c *gin.Context) {
	response.RespondOK(c, http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Omega Tier Backend Online",
	})
}
