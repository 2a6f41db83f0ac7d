package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"tambaqui-prime/models"
	"tambaqui-prime/services"
)

const catalogCacheKey = "catalog_products"

type ProductController struct {
	state *services.AppState
}

func NewProductController(state *services.AppState) *ProductController {
	return &ProductController{state: state}
}

func productResponse(p models.Product) gin.H {
	return gin.H{
		"id":                p.ID,
		"name":              p.Name,
		"pricePerKg":        p.PricePerKg.InexactFloat64(),
		"images":            p.Images,
		"options":           p.Options,
		"isCarouselEnabled": p.IsCarouselEnabled,
	}
}

func invalidateCatalogCache() {
	if models.RedisClient == nil {
		return
	}
	ctx := context.Background()
	iter := models.RedisClient.Scan(ctx, 0, "catalog_*", 0).Iterator()
	for iter.Next(ctx) {
		models.RedisClient.Del(ctx, iter.Val())
	}
}

// @Summary Get the catalog
// @Description Get all products with prices, images and preparation options
// @Tags Products
// @Produce json
// @Success 200 {object} models.Response
// @Router /products [get]
func (ctrl *ProductController) GetAllProducts(c *gin.Context) {
	ctx := context.Background()

	if models.RedisClient != nil {
		cached, err := models.RedisClient.Get(ctx, catalogCacheKey).Result()
		if err == nil {
			c.Data(200, "application/json", []byte(cached))
			return
		}
	}

	products := ctrl.state.Products()
	data := make([]gin.H, 0, len(products))
	for _, p := range products {
		data = append(data, productResponse(p))
	}

	response := gin.H{"success": true, "message": "Products retrieved", "data": data}

	if models.RedisClient != nil {
		jsonData, _ := json.Marshal(response)
		models.RedisClient.Set(ctx, catalogCacheKey, string(jsonData), 5*time.Minute)
	}

	c.JSON(200, response)
}

// @Summary Get a product
// @Tags Products
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} models.Response
// @Failure 404 {object} models.ErrorResponse
// @Router /products/{id} [get]
func (ctrl *ProductController) GetProductByID(c *gin.Context) {
	product, ok := ctrl.state.Product(c.Param("id"))
	if !ok {
		c.JSON(404, gin.H{"success": false, "message": "Product not found"})
		return
	}
	c.JSON(200, gin.H{"success": true, "message": "Product retrieved", "data": productResponse(product)})
}

// @Summary Update a product
// @Description Update product fields; the change is persisted and replicated to the shared catalog document
// @Tags Products
// @Accept json
// @Produce json
// @Param id path string true "Product ID"
// @Param request body models.UpdateProductRequest true "Update Request"
// @Success 200 {object} models.Response
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /admin/products/{id} [patch]
func (ctrl *ProductController) UpdateProduct(c *gin.Context) {
	var req models.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"success": false, "message": "Invalid request", "error": err.Error()})
		return
	}

	product, ok := ctrl.state.Product(c.Param("id"))
	if !ok {
		c.JSON(404, gin.H{"success": false, "message": "Product not found"})
		return
	}

	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.PricePerKg != nil {
		if req.PricePerKg.IsNegative() {
			c.JSON(400, gin.H{"success": false, "message": "Price cannot be negative"})
			return
		}
		product.PricePerKg = *req.PricePerKg
	}
	if req.Images != nil {
		product.Images = req.Images
	}
	if req.Options != nil {
		product.Options = req.Options
	}
	if req.IsCarouselEnabled != nil {
		product.IsCarouselEnabled = *req.IsCarouselEnabled
	}

	if err := ctrl.state.UpdateProduct(c.Request.Context(), product); err != nil {
		if errors.Is(err, services.ErrLastImage) {
			c.JSON(400, gin.H{"success": false, "message": "A product must keep at least one image"})
			return
		}
		c.JSON(404, gin.H{"success": false, "message": "Product not found"})
		return
	}

	invalidateCatalogCache()
	c.JSON(200, gin.H{"success": true, "message": "Product updated", "data": productResponse(product)})
}

// @Summary Add a product image
// @Tags Products
// @Accept json
// @Produce json
// @Param id path string true "Product ID"
// @Param request body models.AddImageRequest true "Image URL"
// @Success 200 {object} models.Response
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /admin/products/{id}/images [post]
func (ctrl *ProductController) AddProductImage(c *gin.Context) {
	var req models.AddImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"success": false, "message": "Invalid request", "error": err.Error()})
		return
	}

	if err := ctrl.state.AddProductImage(c.Request.Context(), c.Param("id"), req.URL); err != nil {
		c.JSON(404, gin.H{"success": false, "message": "Product not found"})
		return
	}

	invalidateCatalogCache()
	c.JSON(200, gin.H{"success": true, "message": "Image added"})
}

// @Summary Remove a product image
// @Description Removing the last remaining image is rejected
// @Tags Products
// @Produce json
// @Param id path string true "Product ID"
// @Param index path int true "Image index"
// @Success 200 {object} models.Response
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /admin/products/{id}/images/{index} [delete]
func (ctrl *ProductController) RemoveProductImage(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(400, gin.H{"success": false, "message": "Invalid image index"})
		return
	}

	err = ctrl.state.RemoveProductImage(c.Request.Context(), c.Param("id"), index)
	switch {
	case errors.Is(err, services.ErrProductNotFound):
		c.JSON(404, gin.H{"success": false, "message": "Product not found"})
	case errors.Is(err, services.ErrLastImage):
		c.JSON(400, gin.H{"success": false, "message": "A product must keep at least one image"})
	case errors.Is(err, services.ErrImageOutOfRange):
		c.JSON(400, gin.H{"success": false, "message": "Image index out of range"})
	case err != nil:
		c.JSON(500, gin.H{"success": false, "message": "Failed to remove image"})
	default:
		invalidateCatalogCache()
		c.JSON(200, gin.H{"success": true, "message": "Image removed"})
	}
}
