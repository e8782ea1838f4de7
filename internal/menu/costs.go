package menu

// TotalCost sums frozen line costs for a menu. The result is clamped at zero
// so bad line data can never drive a stored total negative. An empty menu
// costs zero, which reporting treats as "not planned".
func TotalCost(ingredients []Ingredient, kits []KitLink) float64 {
	var total float64
	for _, ing := range ingredients {
		total += ing.Cost
	}
	for _, kit := range kits {
		total += kit.Cost
	}
	if total < 0 {
		return 0
	}
	return total
}
