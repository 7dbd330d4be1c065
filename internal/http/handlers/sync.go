package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vael-labs/vael-backend/internal/http/response"
	"github.com/vael-labs/vael-backend/internal/pkg/logger"
	"github.com/vael-labs/vael-backend/internal/services"
)

type SyncHandler struct {
	sync *services.SyncService
	log  *logger.Logger
}

func NewSyncHandler(sync *services.SyncService, log *logger.Logger) *SyncHandler {
	return &SyncHandler{sync: sync, log: log}
}

type syncRequest struct {
	Workouts []*services.WorkoutUpload `json:"workouts" binding:"required"`
}

// Sync applies a bulk workout upload. Individual record conflicts resolve
// quietly; only a failed commit surfaces as an error.
func (h *SyncHandler) Sync(c *gin.Context) {
	var req syncRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "Invalid request body", "invalid_argument")
		return
	}
	result, err := h.sync.SyncWorkouts(c.Request.Context(), req.Workouts)
	if err != nil {
		h.log.Error("Workout sync failed", "error", err)
		response.RespondError(c, http.StatusInternalServerError, "Failed to sync workouts", "internal")
		return
	}
	response.RespondOK(c, http.StatusOK, gin.H{
		"status":  "synced",
		"applied": result.Applied,
		"skipped": result.Skipped,
		"failed":  result.Failed,
	})
}
