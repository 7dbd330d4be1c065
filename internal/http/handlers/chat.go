package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vael-labs/vael-backend/internal/http/response"
	pkgerrors "github.com/vael-labs/vael-backend/internal/pkg/errors"
	"github.com/vael-labs/vael-backend/internal/pkg/logger"
)

// CoachAsker answers one coaching chat turn.
type CoachAsker interface {
	Ask(ctx context.Context, message string) (string, error)
}

type ChatHandler struct {
	coach CoachAsker
	log   *logger.Logger
}

func NewChatHandler(coach CoachAsker, log *logger.Logger) *ChatHandler {
	return &ChatHandler{coach: coach, log: log}
}

type chatRequest struct {
	Message string `json:"message" binding:"required"`
}

func (h *ChatHandler) Chat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "Invalid request body", "invalid_argument")
		return
	}
	reply, err := h.coach.Ask(c.Request.Context(), req.Message)
	if err != nil {
		h.log.Error("Chat turn failed", "error", err)
		if errors.Is(err, pkgerrors.ErrCompletionFailed) {
			response.RespondError(c, http.StatusInternalServerError, "Failed to reach AI Coach", "completion_failed")
			return
		}
		response.RespondError(c, http.StatusInternalServerError, "Failed to process query", "internal")
		return
	}
	response.RespondOK(c, http.StatusOK, gin.H{"reply": reply})
}
