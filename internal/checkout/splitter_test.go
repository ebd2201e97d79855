package checkout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/marketplace/internal/domain/cart"
	"github.com/example/marketplace/internal/domain/product"
)

func validDetails() Details {
	return Details{
		FullName:      "Jane Doe",
		Email:         "jane@example.com",
		Phone:         "555-0100",
		Address:       "1 Main St",
		City:          "Springfield",
		State:         "IL",
		ZipCode:       "62704",
		PaymentMethod: "card",
	}
}

func cartItem(productID, sellerID string, price, quantity int) cart.Item {
	return cart.Item{
		ProductID: productID,
		Product: product.Snapshot{
			ProductID: productID,
			SellerID:  sellerID,
			Title:     "Product " + productID,
			Price:     price,
			Stock:     100,
		},
		Quantity: quantity,
	}
}

// ============================================
// Details Validation Tests
// ============================================

func TestDetails_Validate_Success(t *testing.T) {
	assert.NoError(t, validDetails().Validate())
}

func TestDetails_Validate_MissingFields(t *testing.T) {
	mutations := []func(*Details){
		func(d *Details) { d.FullName = "" },
		func(d *Details) { d.Email = "  " },
		func(d *Details) { d.Phone = "" },
		func(d *Details) { d.Address = "" },
		func(d *Details) { d.City = "" },
		func(d *Details) { d.State = "" },
		func(d *Details) { d.ZipCode = "" },
	}
	for i, mutate := range mutations {
		d := validDetails()
		mutate(&d)
		assert.ErrorIs(t, d.Validate(), ErrMissingField, "case %d", i)
	}
}

func TestDetails_Validate_PaymentMethods(t *testing.T) {
	for _, method := range []string{"card", "upi", "wallet", "cod"} {
		d := validDetails()
		d.PaymentMethod = method
		assert.NoError(t, d.Validate(), method)
	}

	d := validDetails()
	d.PaymentMethod = "barter"
	assert.ErrorIs(t, d.Validate(), ErrInvalidPaymentMethod)

	d.PaymentMethod = ""
	assert.ErrorIs(t, d.Validate(), ErrInvalidPaymentMethod)
}

func TestDetails_ShippingAddress(t *testing.T) {
	assert.Equal(t, "1 Main St, Springfield, IL 62704", validDetails().shippingAddress())
}

// ============================================
// SplitBySeller Tests
// ============================================

func TestSplitBySeller_GroupsBySeller(t *testing.T) {
	items := []cart.Item{
		cartItem("p1", "seller-a", 1000, 1),
		cartItem("p2", "seller-b", 2000, 2),
		cartItem("p3", "seller-a", 500, 3),
	}

	groups := SplitBySeller(items)

	require.Len(t, groups, 2)
	assert.Equal(t, "seller-a", groups[0].SellerID)
	require.Len(t, groups[0].Items, 2)
	assert.Equal(t, "p1", groups[0].Items[0].ProductID)
	assert.Equal(t, "p3", groups[0].Items[1].ProductID)

	assert.Equal(t, "seller-b", groups[1].SellerID)
	require.Len(t, groups[1].Items, 1)
	assert.Equal(t, "p2", groups[1].Items[0].ProductID)
}

func TestSplitBySeller_GroupOrderFollowsFirstAppearance(t *testing.T) {
	items := []cart.Item{
		cartItem("p1", "seller-b", 1000, 1),
		cartItem("p2", "seller-a", 2000, 1),
		cartItem("p3", "seller-b", 500, 1),
	}

	groups := SplitBySeller(items)

	require.Len(t, groups, 2)
	assert.Equal(t, "seller-b", groups[0].SellerID)
	assert.Equal(t, "seller-a", groups[1].SellerID)
}

func TestSplitBySeller_CarriesSnapshotFields(t *testing.T) {
	items := []cart.Item{cartItem("p1", "seller-a", 1999, 4)}

	groups := SplitBySeller(items)

	require.Len(t, groups, 1)
	oi := groups[0].Items[0]
	assert.Equal(t, "p1", oi.ProductID)
	assert.Equal(t, "Product p1", oi.Title)
	assert.Equal(t, 1999, oi.Price)
	assert.Equal(t, 4, oi.Quantity)
}

func TestSplitBySeller_EmptyCart(t *testing.T) {
	assert.Empty(t, SplitBySeller(nil))
}
