package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"immoportal/internal/services"
	"immoportal/pkg/utils"
)

const SyncSecretHeader = "x-sync-secret"

type SyncController struct {
	syncService services.SyncServiceInterface
}

func NewSyncController(syncService services.SyncServiceInterface) *SyncController {
	return &SyncController{syncService: syncService}
}

// SyncDaily godoc
// @Summary Daily listing sync trigger
// @Description Called by an external scheduler with the shared secret header
// @Tags Sync
// @Produce json
// @Param x-sync-secret header string true "Shared secret"
// @Success 200 {object} services.SyncResult
// @Failure 401 {object} map[string]interface{}
// @Router /api/sync-daily [post]
func (ctl *SyncController) SyncDaily(c *gin.Context) {
	if err := ctl.syncService.Authorize(c.GetHeader(SyncSecretHeader)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "Unauthorized"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Minute)
	defer cancel()

	result, err := ctl.syncService.RunDaily(ctx)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
