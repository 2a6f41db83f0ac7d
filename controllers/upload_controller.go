package controllers

import (
	"path/filepath"

	"github.com/gin-gonic/gin"

	"tambaqui-prime/config"
	"tambaqui-prime/libs"
	"tambaqui-prime/utils"
)

type UploadController struct{}

func NewUploadController() *UploadController {
	return &UploadController{}
}

// @Summary Upload a catalog image
// @Description Stores the image on Cloudinary when configured, else on local disk under /uploads. Returns the URL to use in product or cover updates
// @Tags Uploads
// @Accept multipart/form-data
// @Produce json
// @Param image formData file true "Image file"
// @Success 201 {object} models.Response
// @Failure 400 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /admin/uploads [post]
func (ctrl *UploadController) UploadImage(c *gin.Context) {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		c.JSON(400, gin.H{"success": false, "message": "Image file required"})
		return
	}

	localPath, err := utils.UploadFile(c, fileHeader, "catalog")
	if err != nil {
		c.JSON(400, gin.H{"success": false, "message": err.Error()})
		return
	}

	if libs.CloudinaryConfigured() {
		url, err := libs.UploadToCloudinary(filepath.Join(config.AppConfig.UploadDir, localPath))
		if err != nil {
			c.JSON(500, gin.H{"success": false, "message": "Upload failed", "error": err.Error()})
			return
		}
		c.JSON(201, gin.H{"success": true, "message": "Image uploaded", "data": gin.H{"url": url}})
		return
	}

	c.JSON(201, gin.H{"success": true, "message": "Image uploaded", "data": gin.H{
		"url": "/uploads/" + filepath.ToSlash(localPath),
	}})
}
