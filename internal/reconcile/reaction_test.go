package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bobmcallan/earnings-insight/internal/models"
)

func series(points ...models.PricePoint) []models.PricePoint { return points }

func TestStockReaction(t *testing.T) {
	p := series(
		models.PricePoint{Date: "2025-01-02", Close: 100},
		models.PricePoint{Date: "2025-01-03", Close: 100},
		models.PricePoint{Date: "2025-01-06", Close: 110},
	)

	tests := []struct {
		name   string
		target string
		prices []models.PricePoint
		want   float64
	}{
		{"middle point", "2025-01-03", p, 10},
		{"target between points matches next", "2025-01-02T12", p, 10},
		{"first point", "2025-01-02", p, 0},
		{"before series", "2024-12-01", p, 0},
		{"last point", "2025-01-06", p, 0},
		{"after series", "2025-02-01", p, 0},
		{"empty series", "2025-01-03", nil, 0},
		{"single point", "2025-01-02", series(models.PricePoint{Date: "2025-01-02", Close: 1}), 0},
		{"zero before", "2025-01-03", series(
			models.PricePoint{Date: "2025-01-02", Close: 0},
			models.PricePoint{Date: "2025-01-03", Close: 5},
			models.PricePoint{Date: "2025-01-06", Close: 6},
		), 0},
		{"negative move rounds two places", "2025-01-03", series(
			models.PricePoint{Date: "2025-01-02", Close: 243.5},
			models.PricePoint{Date: "2025-01-03", Close: 241},
			models.PricePoint{Date: "2025-01-06", Close: 230.35},
		), -5.4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StockReaction(tt.target, tt.prices))
		})
	}
}

func TestStockReaction_UsesNeighboursNotTargetClose(t *testing.T) {
	p := series(
		models.PricePoint{Date: "2025-03-03", Close: 50},
		models.PricePoint{Date: "2025-03-04", Close: 999},
		models.PricePoint{Date: "2025-03-05", Close: 51},
		models.PricePoint{Date: "2025-03-06", Close: 80},
	)
	assert.Equal(t, 2.0, StockReaction("2025-03-04", p))
}

func TestTransparencyScore(t *testing.T) {
	inputs := []float64{6, 2, 0, -1, -5}
	want := []int{85, 75, 65, 45, 30}
	for i, in := range inputs {
		assert.Equal(t, want[i], TransparencyScore(in), "surprise %v", in)
	}
}

func TestTransparencyScore_Boundaries(t *testing.T) {
	assert.Equal(t, 85, TransparencyScore(5))
	assert.Equal(t, 75, TransparencyScore(4.99))
	assert.Equal(t, 65, TransparencyScore(1.99))
	assert.Equal(t, 45, TransparencyScore(-0.01))
	assert.Equal(t, 45, TransparencyScore(-2))
	assert.Equal(t, 30, TransparencyScore(-2.01))
}
