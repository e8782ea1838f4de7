// Package menu implements daily menu planning: one menu per date and menu
// type, composed of costed ingredient lines and fixed-price kits.
package menu

import "time"

// DailyMenu is one planned day for a menu type. TotalCost is persisted and
// always equals the sum of its line costs, clamped at zero.
type DailyMenu struct {
	ID           int64      `json:"id"`
	MenuDate     time.Time  `json:"menu_date"`
	MenuTypeID   *int64     `json:"menu_type_id"`
	MenuTypeName *string    `json:"menu_type_name,omitempty"`
	Description  string     `json:"description"`
	TotalCost    float64    `json:"total_cost"`
	CreatedBy    *int64     `json:"created_by,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`

	Ingredients []Ingredient `json:"ingredients"`
	Kits        []KitLink    `json:"kits"`
}

// Ingredient is a product line on a menu. Cost is frozen at insertion time
// (per-capita quantity times the product price of that moment) and does not
// follow later price changes.
type Ingredient struct {
	ID        int64   `json:"id"`
	MenuID    int64   `json:"menu_id"`
	ProductID int64   `json:"product_id"`
	PerCapita float64 `json:"per_capita"`
	Cost      float64 `json:"cost"`

	ProductName  string  `json:"product_name,omitempty"`
	Unit         string  `json:"unit,omitempty"`
	CategoryName *string `json:"category_name,omitempty"`
}

// KitLink attaches a kit to a menu with the kit price frozen at link time.
type KitLink struct {
	ID     int64   `json:"id"`
	MenuID int64   `json:"menu_id"`
	KitID  int64   `json:"kit_id"`
	Cost   float64 `json:"cost"`

	KitName string `json:"kit_name,omitempty"`
}

// DateKey formats the menu date for calendar maps and API payloads.
func (m DailyMenu) DateKey() string {
	return m.MenuDate.Format("2006-01-02")
}
