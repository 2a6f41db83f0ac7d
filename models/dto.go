package models

import "github.com/shopspring/decimal"

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	Remember bool   `json:"remember"`
}

type CreateAdminRequest struct {
	Username string `json:"username" binding:"required,min=3"`
	Password string `json:"password" binding:"required,min=6"`
}

type UpdateProductRequest struct {
	Name              *string          `json:"name"`
	PricePerKg        *decimal.Decimal `json:"pricePerKg"`
	Images            []string         `json:"images"`
	Options           []ProductOption  `json:"options"`
	IsCarouselEnabled *bool            `json:"isCarouselEnabled"`
}

type AddImageRequest struct {
	URL string `json:"url" binding:"required"`
}

type SetCoverRequest struct {
	URL string `json:"url" binding:"required"`
}

type AddCartItemRequest struct {
	ProductID      string          `json:"productId" binding:"required"`
	Quantity       decimal.Decimal `json:"quantity" binding:"required"`
	SelectedOption string          `json:"selectedOption"`
}

type CheckoutRequest struct {
	CartID          string          `json:"cartId" binding:"required"`
	DeliveryDetails DeliveryDetails `json:"deliveryDetails"`
	PaymentMethod   PaymentMethod   `json:"paymentMethod"`
	ChangeFor       string          `json:"changeFor"`
}
