package kits

import "time"

// Kit is a fixed-price per-capita add-on (e.g. the standard bread and milk
// allowance). Default kits are pre-selected when a menu is planned; any kit
// can still be toggled per menu.
type Kit struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Price     float64   `json:"price"`
	IsDefault bool      `json:"is_default"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
