package models

import "github.com/shopspring/decimal"

// ProductOption is a named preparation style for a product, e.g. "no bones,
// no scales". Once copied onto an order line it is never re-resolved.
type ProductOption struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

type Product struct {
	ID                string          `json:"id"`
	Name              string          `json:"name"`
	PricePerKg        decimal.Decimal `json:"pricePerKg"`
	Images            []string        `json:"images"`
	Options           []ProductOption `json:"options,omitempty"`
	IsCarouselEnabled bool            `json:"isCarouselEnabled"`
}

// SharedDocument is the shape of the remote catalog replica. It carries
// only the catalog and the cover image; orders and admins stay local.
type SharedDocument struct {
	Products      []Product `json:"products"`
	AppCoverImage string    `json:"appCoverImage"`
	LastUpdate    string    `json:"lastUpdate"`
}
