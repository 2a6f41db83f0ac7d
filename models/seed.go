package models

import "github.com/shopspring/decimal"

// DeliveryFee is the flat delivery charge in BRL.
var DeliveryFee = decimal.NewFromFloat(5.00)

// DefaultCoverImage is used until an admin sets a cover or the shared
// document provides one.
const DefaultCoverImage = "https://images.unsplash.com/photo-1544551763-46a013bb70d5?q=80&w=1200&auto=format&fit=crop"

// SeedProducts returns the initial catalog. A fresh slice is built on every
// call so callers can mutate the result without corrupting the seed.
func SeedProducts() []Product {
	return []Product{
		{
			ID:         "1",
			Name:       "Tambaqui Inteiro",
			PricePerKg: decimal.NewFromFloat(36.00),
			Images:     []string{"https://images.unsplash.com/photo-1599488615731-7e5c2823ff28?q=80&w=800&auto=format&fit=crop"},
			Options: []ProductOption{
				{ID: "1-1", Label: "Sem espinha e sem escama"},
				{ID: "1-2", Label: "Com espinha e sem escama"},
			},
		},
		{
			ID:         "2",
			Name:       "Tambaqui Bandado Premium",
			PricePerKg: decimal.NewFromFloat(38.00),
			Images:     []string{"https://images.unsplash.com/photo-1544551763-46a013bb70d5?q=80&w=800&auto=format&fit=crop"},
			Options: []ProductOption{
				{ID: "2-1", Label: "Sem espinha e sem escama"},
				{ID: "2-2", Label: "Com espinha e sem escama"},
			},
		},
		{
			ID:         "3",
			Name:       "Costela Nobre",
			PricePerKg: decimal.NewFromFloat(36.00),
			Images:     []string{"https://images.unsplash.com/photo-1534604973900-c41ab4cdda97?q=80&w=800&auto=format&fit=crop"},
		},
		{
			ID:         "4",
			Name:       "Filé Especial",
			PricePerKg: decimal.NewFromFloat(45.00),
			Images:     []string{"https://images.unsplash.com/photo-1519708227418-c8fd9a32b7a2?q=80&w=800&auto=format&fit=crop"},
		},
	}
}

// SeedAdminUsername identifies the main admin created at first run. The
// password is supplied via SEED_ADMIN_PASSWORD and hashed before storage.
const SeedAdminUsername = "somshow01@gmail.com"
