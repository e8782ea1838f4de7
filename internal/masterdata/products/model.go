package products

import "time"

// Product represents a purchasable ingredient. Price is per unit of measure;
// PriceUpdatedAt records the last price change so reports can show staleness.
type Product struct {
	ID             int64     `json:"id"`
	Name           string    `json:"name"`
	CategoryID     *int64    `json:"category_id,omitempty"`
	Unit           string    `json:"unit"`
	Price          float64   `json:"price"`
	PriceUpdatedAt time.Time `json:"price_updated_at"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// WithCategory includes the joined category name for listings.
type WithCategory struct {
	Product
	CategoryName *string `json:"category_name,omitempty"`
}
