package controllers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"tambaqui-prime/models"
	"tambaqui-prime/services"
)

type CartController struct {
	state *services.AppState
}

func NewCartController(state *services.AppState) *CartController {
	return &CartController{state: state}
}

func cartResponse(cart models.Cart) gin.H {
	items := make([]gin.H, 0, len(cart.Items))
	for _, item := range cart.Items {
		items = append(items, gin.H{
			"id":             item.ID,
			"productId":      item.ProductID,
			"name":           item.Name,
			"price":          item.Price.InexactFloat64(),
			"quantity":       item.Quantity.InexactFloat64(),
			"selectedOption": item.SelectedOption,
		})
	}
	return gin.H{
		"id":       cart.ID,
		"items":    items,
		"subtotal": cart.Subtotal().InexactFloat64(),
	}
}

// @Summary Create a cart
// @Description Carts are session scoped and do not survive a server restart
// @Tags Cart
// @Produce json
// @Success 201 {object} models.Response
// @Router /carts [post]
func (ctrl *CartController) CreateCart(c *gin.Context) {
	cart := ctrl.state.NewCart()
	c.JSON(201, gin.H{"success": true, "message": "Cart created", "data": cartResponse(cart)})
}

// @Summary Get a cart
// @Tags Cart
// @Produce json
// @Param id path string true "Cart ID"
// @Success 200 {object} models.Response
// @Failure 404 {object} models.ErrorResponse
// @Router /carts/{id} [get]
func (ctrl *CartController) GetCart(c *gin.Context) {
	cart, ok := ctrl.state.Cart(c.Param("id"))
	if !ok {
		c.JSON(404, gin.H{"success": false, "message": "Cart not found"})
		return
	}
	c.JSON(200, gin.H{"success": true, "message": "Cart retrieved", "data": cartResponse(cart)})
}

// @Summary Add an item to a cart
// @Description Name and price are snapshotted from the product at add time
// @Tags Cart
// @Accept json
// @Produce json
// @Param id path string true "Cart ID"
// @Param request body models.AddCartItemRequest true "Item"
// @Success 201 {object} models.Response
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /carts/{id}/items [post]
func (ctrl *CartController) AddItem(c *gin.Context) {
	var req models.AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"success": false, "message": "Invalid request", "error": err.Error()})
		return
	}

	item, err := ctrl.state.AddToCart(c.Param("id"), req.ProductID, req.Quantity, req.SelectedOption)
	switch {
	case errors.Is(err, services.ErrCartNotFound):
		c.JSON(404, gin.H{"success": false, "message": "Cart not found"})
	case errors.Is(err, services.ErrProductNotFound):
		c.JSON(404, gin.H{"success": false, "message": "Product not found"})
	case errors.Is(err, services.ErrInvalidQuantity):
		c.JSON(400, gin.H{"success": false, "message": "Quantity must be greater than zero"})
	case err != nil:
		c.JSON(500, gin.H{"success": false, "message": "Failed to add item"})
	default:
		c.JSON(201, gin.H{"success": true, "message": "Item added", "data": gin.H{
			"id":             item.ID,
			"productId":      item.ProductID,
			"name":           item.Name,
			"price":          item.Price.InexactFloat64(),
			"quantity":       item.Quantity.InexactFloat64(),
			"selectedOption": item.SelectedOption,
		}})
	}
}

// @Summary Remove a cart item
// @Tags Cart
// @Produce json
// @Param id path string true "Cart ID"
// @Param itemId path string true "Cart item ID"
// @Success 200 {object} models.Response
// @Failure 404 {object} models.ErrorResponse
// @Router /carts/{id}/items/{itemId} [delete]
func (ctrl *CartController) RemoveItem(c *gin.Context) {
	err := ctrl.state.RemoveFromCart(c.Param("id"), c.Param("itemId"))
	switch {
	case errors.Is(err, services.ErrCartNotFound):
		c.JSON(404, gin.H{"success": false, "message": "Cart not found"})
	case errors.Is(err, services.ErrCartItemNotFound):
		c.JSON(404, gin.H{"success": false, "message": "Cart item not found"})
	case err != nil:
		c.JSON(500, gin.H{"success": false, "message": "Failed to remove item"})
	default:
		c.JSON(200, gin.H{"success": true, "message": "Item removed"})
	}
}

// @Summary Clear a cart
// @Tags Cart
// @Produce json
// @Param id path string true "Cart ID"
// @Success 200 {object} models.Response
// @Failure 404 {object} models.ErrorResponse
// @Router /carts/{id}/items [delete]
func (ctrl *CartController) ClearCart(c *gin.Context) {
	if err := ctrl.state.ClearCart(c.Param("id")); err != nil {
		c.JSON(404, gin.H{"success": false, "message": "Cart not found"})
		return
	}
	c.JSON(200, gin.H{"success": true, "message": "Cart cleared"})
}
