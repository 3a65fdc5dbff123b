package models

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"gorm.io/datatypes"
)

func TestAmountForHandlesJSONNumberTypes(t *testing.T) {
	price := ContractPrice{
		PaymentAmounts: datatypes.JSONMap{
			"1": float64(10_000_000), // JSON round-trip
			"2": int64(20_000_000),   // freshly written
			"3": int(5_000_000),
		},
	}

	assert.Equal(t, int64(10_000_000), price.AmountFor("1"))
	assert.Equal(t, int64(20_000_000), price.AmountFor("2"))
	assert.Equal(t, int64(5_000_000), price.AmountFor("3"))
	assert.Equal(t, int64(0), price.AmountFor("missing"))
	assert.Equal(t, int64(35_000_000), price.AmountTotal())
}

func TestAmountForNilMap(t *testing.T) {
	price := ContractPrice{}
	assert.Equal(t, int64(0), price.AmountFor("1"))
	assert.Equal(t, int64(0), price.AmountTotal())
}
