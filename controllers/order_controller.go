package controllers

import (
	"errors"
	"log"

	"github.com/gin-gonic/gin"

	"tambaqui-prime/config"
	"tambaqui-prime/models"
	"tambaqui-prime/services"
)

type OrderController struct {
	state    *services.AppState
	messages *services.MessageService
}

func NewOrderController(state *services.AppState, messages *services.MessageService) *OrderController {
	return &OrderController{state: state, messages: messages}
}

func orderResponse(o models.Order) gin.H {
	items := make([]gin.H, 0, len(o.Items))
	for _, item := range o.Items {
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
		"id":              o.ID,
		"customerName":    o.CustomerName,
		"whatsapp":        o.WhatsApp,
		"date":            o.CreatedAt,
		"items":           items,
		"deliveryDetails": o.DeliveryDetails,
		"paymentMethod":   o.PaymentMethod,
		"changeAmount":    o.ChangeFor,
		"deliveryFee":     o.DeliveryFee.InexactFloat64(),
		"total":           o.Total.InexactFloat64(),
	}
}

// @Summary Finalize checkout
// @Description Freezes the cart into an immutable order; the cart is cleared on success
// @Tags Orders
// @Accept json
// @Produce json
// @Param request body models.CheckoutRequest true "Checkout Request"
// @Success 201 {object} models.Response
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /orders [post]
func (ctrl *OrderController) Checkout(c *gin.Context) {
	var req models.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"success": false, "message": "Invalid request", "error": err.Error()})
		return
	}

	order, err := ctrl.state.Checkout(req)
	switch {
	case errors.Is(err, services.ErrCartNotFound):
		c.JSON(404, gin.H{"success": false, "message": "Cart not found"})
		return
	case errors.Is(err, services.ErrEmptyCart):
		c.JSON(400, gin.H{"success": false, "message": "Cart is empty"})
		return
	case errors.Is(err, services.ErrMissingDelivery):
		c.JSON(400, gin.H{"success": false, "message": "All delivery fields except observations are required"})
		return
	case errors.Is(err, services.ErrInvalidPayment):
		c.JSON(400, gin.H{"success": false, "message": "Invalid payment method"})
		return
	case err != nil:
		c.JSON(500, gin.H{"success": false, "message": "Checkout failed"})
		return
	}

	notifyStore(order)

	c.JSON(201, gin.H{"success": true, "message": "Order created", "data": orderResponse(order)})
}

// notifyStore emails the store about the new order when SMTP is configured.
// Best effort, runs off the request path.
func notifyStore(order models.Order) {
	notifyEmail := config.AppConfig.OrderNotifyEmail
	if notifyEmail == "" {
		return
	}
	go func() {
		emailService, err := models.NewEmailService()
		if err != nil {
			log.Printf("Order notification skipped: %v", err)
			return
		}
		if err := emailService.SendOrderNotification(notifyEmail, order); err != nil {
			log.Printf("Order notification failed: %v", err)
		}
	}()
}

// @Summary Get an order receipt
// @Tags Orders
// @Produce json
// @Param id path string true "Order ID"
// @Success 200 {object} models.Response
// @Failure 404 {object} models.ErrorResponse
// @Router /orders/{id} [get]
func (ctrl *OrderController) GetOrderByID(c *gin.Context) {
	order, ok := ctrl.state.Order(c.Param("id"))
	if !ok {
		c.JSON(404, gin.H{"success": false, "message": "Order not found"})
		return
	}
	c.JSON(200, gin.H{"success": true, "message": "Order retrieved", "data": orderResponse(order)})
}

// @Summary Get the WhatsApp message for an order
// @Description Returns the formatted outbound message and the wa.me deep link. Falls back to a deterministic template when generation is unavailable
// @Tags Orders
// @Produce json
// @Param id path string true "Order ID"
// @Success 200 {object} models.Response
// @Failure 404 {object} models.ErrorResponse
// @Router /orders/{id}/whatsapp [get]
func (ctrl *OrderController) GetWhatsAppMessage(c *gin.Context) {
	order, ok := ctrl.state.Order(c.Param("id"))
	if !ok {
		c.JSON(404, gin.H{"success": false, "message": "Order not found"})
		return
	}

	message, generated := ctrl.messages.FormatOrder(c.Request.Context(), order)
	c.JSON(200, gin.H{"success": true, "message": "Message built", "data": gin.H{
		"text":      message,
		"link":      ctrl.messages.WhatsAppLink(message),
		"generated": generated,
	}})
}

// @Summary List all orders
// @Description Newest first
// @Tags Orders
// @Produce json
// @Success 200 {object} models.Response
// @Security BearerAuth
// @Router /admin/orders [get]
func (ctrl *OrderController) GetAllOrders(c *gin.Context) {
	orders := ctrl.state.Orders()
	data := make([]gin.H, 0, len(orders))
	for _, o := range orders {
		data = append(data, orderResponse(o))
	}
	c.JSON(200, gin.H{"success": true, "message": "Orders retrieved", "data": data})
}
