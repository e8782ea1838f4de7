package menutypes

import "time"

// MenuType is a named planning scope (e.g. "creche", "fundamental"). Daily
// menus are planned independently per type.
type MenuType struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
