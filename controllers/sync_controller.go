package controllers

import (
	"github.com/gin-gonic/gin"

	"tambaqui-prime/services"
)

type SyncController struct {
	state *services.AppState
}

func NewSyncController(state *services.AppState) *SyncController {
	return &SyncController{state: state}
}

// @Summary Pull the shared catalog document
// @Description Overwrites the local catalog and cover with the remote replica. On failure the local state is kept and the store runs local-only
// @Tags Sync
// @Produce json
// @Success 200 {object} models.Response
// @Security BearerAuth
// @Router /admin/sync [post]
func (ctrl *SyncController) SyncNow(c *gin.Context) {
	if err := ctrl.state.SyncWithCloud(c.Request.Context()); err != nil {
		// not an error dialog: local state is intact, report and move on
		c.JSON(200, gin.H{
			"success": true,
			"message": "Cloud unreachable, operating in local mode",
			"data":    gin.H{"synced": false},
		})
		return
	}

	invalidateCatalogCache()
	c.JSON(200, gin.H{"success": true, "message": "Catalog synchronized", "data": gin.H{"synced": true}})
}

// @Summary Health and sync status
// @Tags Sync
// @Produce json
// @Success 200 {object} models.Response
// @Router /health [get]
func (ctrl *SyncController) Health(c *gin.Context) {
	c.JSON(200, gin.H{"status": "ok", "isSyncing": ctrl.state.IsSyncing()})
}
