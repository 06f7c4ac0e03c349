package inventory

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestWeightedAverageCost(t *testing.T) {
	d := decimal.NewFromInt
	cases := []struct {
		name                          string
		stock, cost, bought, purchase decimal.Decimal
		want                          string
	}{
		{"promedio", d(10), d(5), d(10), d(7), "6"},
		{"sin stock previo", d(0), d(5), d(4), d(9), "9"},
		{"stock negativo se ignora", d(-3), d(5), d(2), d(8), "8"},
		{"nada comprado ni en stock", d(0), d(5), d(0), d(8), "8"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, WeightedAverageCost(tc.stock, tc.cost, tc.bought, tc.purchase).String())
		})
	}
}
