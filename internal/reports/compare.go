package reports

import "sort"

// TypeComparison holds the cost profile of one menu type over a range.
type TypeComparison struct {
	MenuTypeID   *int64  `json:"menu_type_id"`
	MenuTypeName string  `json:"menu_type_name"`
	TotalCost    float64 `json:"total_cost"`
	DaysPlanned  int     `json:"days_planned"`
	AverageCost  float64 `json:"average_cost"`
}

// CompareTypes groups menu costs by type. Menus without a type land in the
// NoTypeLabel bucket. Types with no planned day are omitted; the result is
// ordered by total cost descending.
func CompareTypes(costs []MenuCost) []TypeComparison {
	grouped := make(map[string]*TypeComparison)
	for _, c := range costs {
		key := typeToken(c.MenuTypeID)
		entry, ok := grouped[key]
		if !ok {
			name := NoTypeLabel
			if c.MenuTypeName != nil && *c.MenuTypeName != "" {
				name = *c.MenuTypeName
			}
			entry = &TypeComparison{MenuTypeID: c.MenuTypeID, MenuTypeName: name}
			grouped[key] = entry
		}
		entry.TotalCost += c.TotalCost
		if c.Planned() {
			entry.DaysPlanned++
		}
	}

	result := make([]TypeComparison, 0, len(grouped))
	for _, entry := range grouped {
		if entry.DaysPlanned == 0 {
			continue
		}
		entry.AverageCost = entry.TotalCost / float64(entry.DaysPlanned)
		result = append(result, *entry)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].TotalCost != result[j].TotalCost {
			return result[i].TotalCost > result[j].TotalCost
		}
		return categoryCollator.CompareString(result[i].MenuTypeName, result[j].MenuTypeName) < 0
	})
	return result
}
