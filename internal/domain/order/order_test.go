package order

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================
// State Machine Tests
// ============================================

func TestOrder_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from    Status
		to      Status
		allowed bool
	}{
		{StatusPending, StatusAccepted, true},
		{StatusPending, StatusRejected, true},
		{StatusPending, StatusShipped, false},
		{StatusPending, StatusDelivered, false},
		{StatusAccepted, StatusShipped, true},
		{StatusAccepted, StatusRejected, false},
		{StatusAccepted, StatusDelivered, false},
		{StatusShipped, StatusDelivered, true},
		{StatusShipped, StatusAccepted, false},
		{StatusRejected, StatusAccepted, false},
		{StatusRejected, StatusShipped, false},
		{StatusDelivered, StatusShipped, false},
		{StatusDelivered, StatusPending, false},
	}
	for _, tt := range tests {
		o := &Order{Status: tt.from}
		assert.Equal(t, tt.allowed, o.CanTransitionTo(tt.to), "%s -> %s", tt.from, tt.to)
	}
}

func TestStatus_IsTerminal(t *testing.T) {
	assert.False(t, StatusPending.IsTerminal())
	assert.False(t, StatusAccepted.IsTerminal())
	assert.False(t, StatusShipped.IsTerminal())
	assert.True(t, StatusRejected.IsTerminal())
	assert.True(t, StatusDelivered.IsTerminal())
}

func TestOrder_TransitionError(t *testing.T) {
	// Terminal states win over target-specific errors.
	o := &Order{Status: StatusDelivered}
	assert.ErrorIs(t, o.TransitionError(StatusShipped), ErrOrderClosed)

	o = &Order{Status: StatusRejected}
	assert.ErrorIs(t, o.TransitionError(StatusAccepted), ErrOrderClosed)

	o = &Order{Status: StatusAccepted}
	assert.ErrorIs(t, o.TransitionError(StatusAccepted), ErrOrderNotPending)
	assert.ErrorIs(t, o.TransitionError(StatusRejected), ErrOrderNotPending)

	o = &Order{Status: StatusPending}
	assert.ErrorIs(t, o.TransitionError(StatusShipped), ErrOrderNotAccepted)
	assert.ErrorIs(t, o.TransitionError(StatusDelivered), ErrOrderNotShipped)
}

// ============================================
// Construction Tests
// ============================================

func TestNew_ComputesTotal(t *testing.T) {
	items := []OrderItem{
		{ProductID: "p1", Title: "One", Price: 1000, Quantity: 2},
		{ProductID: "p2", Title: "Two", Price: 550, Quantity: 3},
	}

	o, err := New("buyer-1", "seller-1", items, "1 Main St, Springfield, IL 62704", "card")

	require.NoError(t, err)
	assert.NotEmpty(t, o.ID)
	assert.Equal(t, StatusPending, o.Status)
	assert.Equal(t, 3650, o.Total)
	assert.Equal(t, o.Total, o.ItemsTotal())
	assert.Equal(t, "buyer-1", o.BuyerID)
	assert.Equal(t, "seller-1", o.SellerID)
}

func TestNew_RejectsEmptyItems(t *testing.T) {
	_, err := New("buyer-1", "seller-1", nil, "addr", "card")
	assert.ErrorIs(t, err, ErrEmptyOrder)
}

// ============================================
// FormatMoney Tests
// ============================================

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "$19.99", FormatMoney(1999))
	assert.Equal(t, "$0.05", FormatMoney(5))
	assert.Equal(t, "$10.00", FormatMoney(1000))
	assert.Equal(t, "$0.00", FormatMoney(0))
	assert.Equal(t, "-$3.50", FormatMoney(-350))
}
