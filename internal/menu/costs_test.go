package menu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTotalCost(t *testing.T) {
	ingredients := []Ingredient{{Cost: 1.5}, {Cost: 2.25}}
	kits := []KitLink{{Cost: 0.25}}
	assert.InDelta(t, 4.0, TotalCost(ingredients, kits), 1e-9)
}

func TestTotalCostEmptyMenuIsZero(t *testing.T) {
	assert.Equal(t, 0.0, TotalCost(nil, nil))
}

func TestTotalCostClampsAtZero(t *testing.T) {
	ingredients := []Ingredient{{Cost: -3}, {Cost: 1}}
	assert.Equal(t, 0.0, TotalCost(ingredients, nil))
}
