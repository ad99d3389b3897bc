package sale

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckQuantity(t *testing.T) {
	limits := DefaultLimits()
	for q := 0; q <= 3; q++ {
		assert.NoError(t, CheckQuantity(1, q, limits))
	}
	assert.ErrorIs(t, CheckQuantity(1, 4, limits), ErrInvalidQuantity)
	assert.ErrorIs(t, CheckQuantity(1, -1, limits), ErrInvalidQuantity)
}

func TestCheckStock(t *testing.T) {
	assert.NoError(t, CheckStock(1, "A", 3, 3))
	assert.ErrorIs(t, CheckStock(1, "A", 4, 3), ErrInsufficientStock)
}

func TestCheckOrderTotal(t *testing.T) {
	limits := DefaultLimits()
	assert.NoError(t, CheckOrderTotal(2, 3, limits))
	assert.ErrorIs(t, CheckOrderTotal(2, 4, limits), ErrOrderLimitExceeded)
}

func TestLimits_Validate(t *testing.T) {
	assert.NoError(t, DefaultLimits().Validate())
	assert.Error(t, Limits{MaxPerLine: 0, MaxPerOrder: 3}.Validate())
}

func TestNewReceipt(t *testing.T) {
	r := NewReceipt("SAL1", []LineResult{
		{ISBN: "A", Price: 100, Quantity: 2, LineTotal: 200},
		{ISBN: "B", Price: 50, Quantity: 1, LineTotal: 50},
	})
	assert.Equal(t, int64(250), r.Total)
	assert.Equal(t, 3, r.Units)

	event := NewSoldEvent(r)
	assert.Equal(t, "SAL1", event.ReceiptNo)
	assert.Len(t, event.Lines, 2)
	assert.Equal(t, int64(250), event.Total)
}

func TestGenerateReceiptNo(t *testing.T) {
	no := GenerateReceiptNo()
	assert.Regexp(t, `^SAL\d{10,}\d{6}$`, no)
}
