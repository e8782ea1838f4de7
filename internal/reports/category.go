package reports

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// CategorySlice is one wedge of the category cost breakdown.
type CategorySlice struct {
	Name  string  `json:"name"`
	Total float64 `json:"total"`
}

var categoryCollator = collate.New(language.BrazilianPortuguese)

// BreakdownByCategory orders grouped ingredient costs by value descending.
// Rows without a category collapse into the NoCategoryLabel bucket; ties
// order by collated name so accented categories sort naturally.
func BreakdownByCategory(totals []CategoryTotal) []CategorySlice {
	merged := make(map[string]float64, len(totals))
	for _, t := range totals {
		name := NoCategoryLabel
		if t.Name != nil && *t.Name != "" {
			name = *t.Name
		}
		merged[name] += t.Total
	}

	slices := make([]CategorySlice, 0, len(merged))
	for name, total := range merged {
		slices = append(slices, CategorySlice{Name: name, Total: total})
	}
	sort.Slice(slices, func(i, j int) bool {
		if slices[i].Total != slices[j].Total {
			return slices[i].Total > slices[j].Total
		}
		return categoryCollator.CompareString(slices[i].Name, slices[j].Name) < 0
	})
	return slices
}
