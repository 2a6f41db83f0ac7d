package models

import "github.com/shopspring/decimal"

type PaymentMethod string

const (
	PaymentPix  PaymentMethod = "PIX"
	PaymentCard PaymentMethod = "DEBITO_CREDITO"
	PaymentCash PaymentMethod = "ESPECIE"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentPix, PaymentCard, PaymentCash:
		return true
	}
	return false
}

type DeliveryDetails struct {
	Name         string `json:"name"`
	Street       string `json:"street"`
	Number       string `json:"number"`
	Neighborhood string `json:"neighborhood"`
	WhatsApp     string `json:"whatsapp"`
	Observations string `json:"observations,omitempty"`
}

// Order is immutable once created. Orders are stored locally only and are
// never written to the shared catalog document.
type Order struct {
	ID              string          `json:"id"`
	CustomerName    string          `json:"customerName"`
	WhatsApp        string          `json:"whatsapp"`
	CreatedAt       string          `json:"date"`
	Items           []CartItem      `json:"items"`
	DeliveryDetails DeliveryDetails `json:"deliveryDetails"`
	PaymentMethod   PaymentMethod   `json:"paymentMethod"`
	ChangeFor       string          `json:"changeAmount,omitempty"`
	DeliveryFee     decimal.Decimal `json:"deliveryFee"`
	Total           decimal.Decimal `json:"total"`
}
