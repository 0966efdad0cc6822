package order

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/multistore/backend/internal/domain/shared/valueobject"
)

func testAddress() valueobject.Address {
	return valueobject.Address{
		FirstName:    "Asha",
		LastName:     "Rao",
		AddressLine1: "12 MG Road",
		City:         "Bengaluru",
		State:        "Karnataka",
		PostalCode:   "560001",
		Country:      "IN",
		Phone:        "+919800000000",
	}
}

func inr(amount int64) valueobject.Money {
	return valueobject.MustMoney(decimal.NewFromInt(amount), valueobject.INR)
}

func newTestOrder(t *testing.T) *Order {
	t.Helper()
	o, err := NewOrder(uuid.New(), "ORD-20260829-000001", "tok-abc", nil,
		"asha@example.com", "Asha Rao", "+919800000000",
		testAddress(), testAddress(), valueobject.INR)
	require.NoError(t, err)
	return o
}

func addTestItem(t *testing.T, o *Order, qty int, price int64) *OrderItem {
	t.Helper()
	item, err := o.AddItem(uuid.New(), "Cotton T-Shirt", "TEE-001", "", nil, qty, inr(price), "")
	require.NoError(t, err)
	return item
}

func TestNewOrder(t *testing.T) {
	t.Run("creates pending guest order", func(t *testing.T) {
		o := newTestOrder(t)

		assert.Equal(t, OrderStatusPending, o.Status)
		assert.Equal(t, PaymentStatusPending, o.PaymentStatus)
		assert.Equal(t, FulfillmentStatusUnfulfilled, o.FulfillmentStatus)
		assert.True(t, o.IsGuestOrder)
		assert.True(t, o.SameAsBilling)
		assert.Len(t, o.GetDomainEvents(), 1)
	})

	t.Run("customer order is not guest", func(t *testing.T) {
		customerID := uuid.New()
		o, err := NewOrder(uuid.New(), "ORD-1", "tok", &customerID,
			"a@b.co", "Asha", "", testAddress(), testAddress(), valueobject.INR)

		require.NoError(t, err)
		assert.False(t, o.IsGuestOrder)
	})

	t.Run("rejects invalid shipping address", func(t *testing.T) {
		bad := testAddress()
		bad.PostalCode = ""
		_, err := NewOrder(uuid.New(), "ORD-1", "tok", nil,
			"a@b.co", "Asha", "", testAddress(), bad, valueobject.INR)

		assert.Error(t, err)
	})

	t.Run("rejects missing token", func(t *testing.T) {
		_, err := NewOrder(uuid.New(), "ORD-1", "", nil,
			"a@b.co", "Asha", "", testAddress(), testAddress(), valueobject.INR)

		assert.Error(t, err)
	})
}

func TestOrderItems(t *testing.T) {
	t.Run("totals recalculated on add and remove", func(t *testing.T) {
		o := newTestOrder(t)
		item := addTestItem(t, o, 2, 499)
		addTestItem(t, o, 1, 999)

		assert.True(t, o.Subtotal.Equal(decimal.NewFromInt(1997)))
		assert.True(t, o.TotalAmount.Equal(decimal.NewFromInt(1997)))

		require.NoError(t, o.RemoveItem(item.ID))
		assert.True(t, o.TotalAmount.Equal(decimal.NewFromInt(999)))
	})

	t.Run("same product and variant merges lines", func(t *testing.T) {
		o := newTestOrder(t)
		productID := uuid.New()

		_, err := o.AddItem(productID, "Tee", "TEE-1", "TEE-1-M", nil, 1, inr(500), "")
		require.NoError(t, err)
		_, err = o.AddItem(productID, "Tee", "TEE-1", "TEE-1-M", nil, 2, inr(500), "")
		require.NoError(t, err)

		assert.Equal(t, 1, o.ItemCount())
		assert.Equal(t, 3, o.TotalQuantity())
		assert.True(t, o.Subtotal.Equal(decimal.NewFromInt(1500)))
	})

	t.Run("different variants stay separate", func(t *testing.T) {
		o := newTestOrder(t)
		productID := uuid.New()

		_, err := o.AddItem(productID, "Tee", "TEE-1", "TEE-1-M", nil, 1, inr(500), "")
		require.NoError(t, err)
		_, err = o.AddItem(productID, "Tee", "TEE-1", "TEE-1-L", nil, 1, inr(500), "")
		require.NoError(t, err)

		assert.Equal(t, 2, o.ItemCount())
	})

	t.Run("rejects currency mismatch", func(t *testing.T) {
		o := newTestOrder(t)
		usd := valueobject.MustMoney(decimal.NewFromInt(10), valueobject.USD)

		_, err := o.AddItem(uuid.New(), "Tee", "TEE-1", "", nil, 1, usd, "")
		assert.Error(t, err)
	})

	t.Run("no edits after confirm", func(t *testing.T) {
		o := newTestOrder(t)
		item := addTestItem(t, o, 1, 500)
		require.NoError(t, o.Confirm())

		_, err := o.AddItem(uuid.New(), "X", "X-1", "", nil, 1, inr(100), "")
		assert.Error(t, err)
		assert.Error(t, o.RemoveItem(item.ID))
	})
}

func TestOrderPricing(t *testing.T) {
	t.Run("tax and shipping added to total", func(t *testing.T) {
		o := newTestOrder(t)
		addTestItem(t, o, 2, 500)

		require.NoError(t, o.SetTax(inr(90)))
		require.NoError(t, o.SetShipping("standard", inr(60)))

		assert.True(t, o.TotalAmount.Equal(decimal.NewFromInt(1150)))
	})

	t.Run("coupon discount reduces total", func(t *testing.T) {
		o := newTestOrder(t)
		addTestItem(t, o, 2, 500)

		require.NoError(t, o.ApplyCoupon("WELCOME10", inr(100)))

		assert.Equal(t, "WELCOME10", o.CouponCode)
		assert.True(t, o.TotalAmount.Equal(decimal.NewFromInt(900)))
	})

	t.Run("discount cannot exceed subtotal", func(t *testing.T) {
		o := newTestOrder(t)
		addTestItem(t, o, 1, 100)

		assert.Error(t, o.ApplyCoupon("BIG", inr(500)))
	})
}

func TestOrderLifecycle(t *testing.T) {
	t.Run("confirm requires items", func(t *testing.T) {
		o := newTestOrder(t)
		assert.Error(t, o.Confirm())
	})

	t.Run("full happy path", func(t *testing.T) {
		o := newTestOrder(t)
		addTestItem(t, o, 1, 500)

		require.NoError(t, o.Confirm())
		require.NoError(t, o.MarkPaid("razorpay", "card", "pay_123", "order_rzp_1"))
		require.NoError(t, o.StartProcessing())

		eta := time.Now().AddDate(0, 0, 4)
		require.NoError(t, o.Ship("shiprocket", "surface", "AWB123", "https://track/AWB123", &eta))
		assert.Equal(t, FulfillmentStatusFulfilled, o.FulfillmentStatus)

		require.NoError(t, o.MarkDelivered())
		assert.Equal(t, OrderStatusDelivered, o.Status)
		assert.NotNil(t, o.DeliveredAt)
	})

	t.Run("cannot ship unpaid order", func(t *testing.T) {
		o := newTestOrder(t)
		addTestItem(t, o, 1, 500)
		require.NoError(t, o.Confirm())

		err := o.Ship("shiprocket", "surface", "AWB123", "", nil)
		assert.Error(t, err)
	})

	t.Run("cod orders ship without capture", func(t *testing.T) {
		o := newTestOrder(t)
		addTestItem(t, o, 1, 500)
		require.NoError(t, o.Confirm())
		o.PaymentMethod = "cod"

		assert.NoError(t, o.Ship("delhivery", "surface", "WB1", "", nil))
	})

	t.Run("cancel before shipment only", func(t *testing.T) {
		o := newTestOrder(t)
		addTestItem(t, o, 1, 500)
		require.NoError(t, o.Confirm())
		require.NoError(t, o.Cancel("customer request"))
		assert.Equal(t, OrderStatusCancelled, o.Status)

		o2 := newTestOrder(t)
		addTestItem(t, o2, 1, 500)
		require.NoError(t, o2.Confirm())
		require.NoError(t, o2.MarkPaid("razorpay", "card", "pay_1", ""))
		require.NoError(t, o2.Ship("shiprocket", "", "AWB1", "", nil))

		assert.Error(t, o2.Cancel("too late"))
	})

	t.Run("cancelled paid order flags refund needed", func(t *testing.T) {
		o := newTestOrder(t)
		addTestItem(t, o, 1, 500)
		require.NoError(t, o.Confirm())
		require.NoError(t, o.MarkPaid("razorpay", "card", "pay_1", ""))
		o.ClearDomainEvents()

		require.NoError(t, o.Cancel("out of stock"))

		events := o.GetDomainEvents()
		require.Len(t, events, 1)
		cancelled, ok := events[0].(*OrderCancelledEvent)
		require.True(t, ok)
		assert.True(t, cancelled.WasPaid)
	})
}

func TestOrderPayment(t *testing.T) {
	t.Run("failed payment can be retried", func(t *testing.T) {
		o := newTestOrder(t)
		addTestItem(t, o, 1, 500)

		require.NoError(t, o.MarkPaymentFailed("card declined"))
		assert.Equal(t, PaymentStatusFailed, o.PaymentStatus)

		require.NoError(t, o.RetryPayment())
		require.NoError(t, o.MarkPaid("razorpay", "upi", "pay_2", ""))
		assert.True(t, o.IsPaid())
	})

	t.Run("double capture rejected", func(t *testing.T) {
		o := newTestOrder(t)
		addTestItem(t, o, 1, 500)
		require.NoError(t, o.MarkPaid("razorpay", "card", "pay_1", ""))

		assert.Error(t, o.MarkPaid("razorpay", "card", "pay_1", ""))
	})

	t.Run("capture requires transaction id", func(t *testing.T) {
		o := newTestOrder(t)
		assert.Error(t, o.MarkPaid("razorpay", "card", "", ""))
	})
}

func TestOrderRefunds(t *testing.T) {
	newPaid := func(t *testing.T) *Order {
		o := newTestOrder(t)
		addTestItem(t, o, 2, 500)
		require.NoError(t, o.Confirm())
		require.NoError(t, o.MarkPaid("razorpay", "card", "pay_1", ""))
		return o
	}

	t.Run("partial then full refund", func(t *testing.T) {
		o := newPaid(t)

		require.NoError(t, o.RecordRefund(inr(300), "rfnd_1"))
		assert.Equal(t, PaymentStatusPartiallyRefunded, o.PaymentStatus)

		require.NoError(t, o.RecordRefund(inr(700), "rfnd_2"))
		assert.Equal(t, PaymentStatusRefunded, o.PaymentStatus)
		assert.True(t, o.OutstandingRefundable().IsZero())
	})

	t.Run("refund cannot exceed total", func(t *testing.T) {
		o := newPaid(t)
		assert.Error(t, o.RecordRefund(inr(2000), "rfnd_x"))
	})

	t.Run("unpaid orders cannot refund", func(t *testing.T) {
		o := newTestOrder(t)
		addTestItem(t, o, 1, 500)
		assert.Error(t, o.RecordRefund(inr(100), ""))
	})

	t.Run("full refund of delivered order marks returned", func(t *testing.T) {
		o := newPaid(t)
		require.NoError(t, o.Ship("shiprocket", "", "AWB1", "", nil))
		require.NoError(t, o.MarkDelivered())

		require.NoError(t, o.RecordRefund(inr(1000), "rfnd_all"))
		assert.Equal(t, OrderStatusRefunded, o.Status)
		assert.Equal(t, FulfillmentStatusReturned, o.FulfillmentStatus)
	})
}

func TestOrderStale(t *testing.T) {
	o := newTestOrder(t)
	addTestItem(t, o, 1, 500)
	assert.False(t, o.IsStale(time.Hour))

	o.CreatedAt = time.Now().Add(-2 * time.Hour)
	assert.True(t, o.IsStale(time.Hour))

	require.NoError(t, o.MarkPaid("razorpay", "card", "pay_1", ""))
	assert.False(t, o.IsStale(time.Hour))
}

func TestStatusTransitions(t *testing.T) {
	cases := []struct {
		from, to OrderStatus
		ok       bool
	}{
		{OrderStatusPending, OrderStatusConfirmed, true},
		{OrderStatusPending, OrderStatusShipped, false},
		{OrderStatusConfirmed, OrderStatusProcessing, true},
		{OrderStatusConfirmed, OrderStatusShipped, true},
		{OrderStatusProcessing, OrderStatusCancelled, true},
		{OrderStatusShipped, OrderStatusDelivered, true},
		{OrderStatusShipped, OrderStatusCancelled, false},
		{OrderStatusDelivered, OrderStatusRefunded, true},
		{OrderStatusCancelled, OrderStatusConfirmed, false},
		{OrderStatusRefunded, OrderStatusPending, false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.ok, tc.from.CanTransitionTo(tc.to), "%s -> %s", tc.from, tc.to)
	}
}
