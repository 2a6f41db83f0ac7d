package controllers

import (
	"github.com/gin-gonic/gin"

	"tambaqui-prime/models"
	"tambaqui-prime/services"
)

type CoverController struct {
	state *services.AppState
}

func NewCoverController(state *services.AppState) *CoverController {
	return &CoverController{state: state}
}

// @Summary Get the promotional cover image
// @Tags Cover
// @Produce json
// @Success 200 {object} models.Response
// @Router /cover [get]
func (ctrl *CoverController) GetCover(c *gin.Context) {
	c.JSON(200, gin.H{
		"success": true,
		"message": "Cover retrieved",
		"data":    gin.H{"url": ctrl.state.CoverImage()},
	})
}

// @Summary Set the promotional cover image
// @Description Persists the cover locally and replicates it to the shared catalog document
// @Tags Cover
// @Accept json
// @Produce json
// @Param request body models.SetCoverRequest true "Cover URL"
// @Success 200 {object} models.Response
// @Failure 400 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /admin/cover [put]
func (ctrl *CoverController) SetCover(c *gin.Context) {
	var req models.SetCoverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"success": false, "message": "Invalid request", "error": err.Error()})
		return
	}

	ctrl.state.SetCoverImage(c.Request.Context(), req.URL)
	invalidateCatalogCache()

	c.JSON(200, gin.H{
		"success": true,
		"message": "Cover updated",
		"data":    gin.H{"url": req.URL},
	})
}
