// Package reports aggregates menu costs into monthly, category, comparison
// and annual views, cached in Redis behind a single version counter.
package reports

import "time"

// NoCategoryLabel buckets ingredient costs whose product has no category.
const NoCategoryLabel = "Sem categoria"

// NoTypeLabel buckets menus planned without a menu type.
const NoTypeLabel = "Sem tipo"

// MenuCost is the aggregation input: one menu with its stored total.
type MenuCost struct {
	MenuDate     time.Time `json:"menu_date"`
	MenuTypeID   *int64    `json:"menu_type_id"`
	MenuTypeName *string   `json:"menu_type_name"`
	TotalCost    float64   `json:"total_cost"`
}

// Planned reports whether the menu counts as a planned day. A zero total
// means nothing was costed for the date, uniformly across every view.
func (m MenuCost) Planned() bool {
	return m.TotalCost > 0
}

// CategoryTotal is one grouped row from the ingredient cost query.
type CategoryTotal struct {
	Name  *string
	Total float64
}
