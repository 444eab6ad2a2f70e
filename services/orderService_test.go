package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/restrolabs/Restro_Ordering_Backend/apperrors"
	"github.com/restrolabs/Restro_Ordering_Backend/models"
)

func strPtr(s string) *string { return &s }

func pizzaFixture() models.Product {
	return models.Product{
		Product_id: "p1",
		Name:       "Margherita Pizza",
		Price:      2890,
		Available:  true,
		Options: []models.ProductOption{
			{
				Option_id: "opt-size",
				Name:      "Size",
				Choices: []models.OptionChoice{
					{Choice: "regular", Price: 0},
					{Choice: "large", Price: 590},
				},
			},
		},
	}
}

type orderServiceFixture struct {
	svc       *OrderService
	orders    *mockStore
	products  *mockStore
	coupons   *mockStore
	publisher *mockPublisher
	now       time.Time
}

func newOrderServiceFixture(t *testing.T) *orderServiceFixture {
	t.Helper()
	f := &orderServiceFixture{
		orders:    &mockStore{},
		products:  &mockStore{products: []models.Product{pizzaFixture()}},
		coupons:   &mockStore{coupons: []models.Coupon{couponFixture()}},
		publisher: &mockPublisher{},
		now:       time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
	}
	log := testLogger()
	couponSvc := NewCouponService(f.coupons, log)
	f.svc = NewOrderService(f.orders, f.products, couponSvc, f.publisher, log, 30*time.Minute)
	f.svc.now = func() time.Time { return f.now }
	return f
}

func TestCreateOrder(t *testing.T) {
	ctx := context.Background()

	t.Run("dine_in order with an option", func(t *testing.T) {
		f := newOrderServiceFixture(t)
		order, err := f.svc.CreateOrder(ctx, "r1", CreateOrderRequest{
			Channel:  models.ChannelDineIn,
			Table_id: strPtr("t12"),
			Items: []CreateOrderItem{{
				Product_id: "p1",
				Quantity:   1,
				Options:    []SelectedOptionRequest{{Option_id: "opt-size", Choice: "large"}},
			}},
		})
		require.NoError(t, err)

		assert.Equal(t, models.StatusPlaced, order.Status)
		assert.Equal(t, "r1", order.Restaurant_id)
		assert.NotEmpty(t, order.Order_id)
		assert.Len(t, order.Order_number, 4)
		assert.NotNil(t, order.Payments)
		assert.Empty(t, order.Payments)

		// Prices come from the catalog, never from the request.
		require.Len(t, order.Items, 1)
		assert.Equal(t, "Margherita Pizza", order.Items[0].Name)
		assert.Equal(t, int64(2890), order.Items[0].Unit_price)
		require.Len(t, order.Items[0].Options, 1)
		assert.Equal(t, int64(590), order.Items[0].Options[0].Price)

		assert.Equal(t, int64(3480), order.Amounts.Subtotal)
		require.NotNil(t, order.Amounts.Fees.Service)
		assert.Equal(t, int64(348), *order.Amounts.Fees.Service)
		assert.Equal(t, int64(3828), order.Amounts.Total)

		require.Len(t, f.orders.orders, 1)
		require.Len(t, f.publisher.events, 1)
		assert.Equal(t, EventOrderCreated, f.publisher.events[0])
		assert.Equal(t, order.Order_id, f.publisher.payloads[0].Order_id)
	})

	t.Run("coupon discount is computed server-side", func(t *testing.T) {
		f := newOrderServiceFixture(t)
		order, err := f.svc.CreateOrder(ctx, "r1", CreateOrderRequest{
			Channel:     models.ChannelTakeaway,
			Coupon_code: "save10",
			Items:       []CreateOrderItem{{Product_id: "p1", Quantity: 1}},
		})
		require.NoError(t, err)

		assert.Equal(t, int64(2890), order.Amounts.Subtotal)
		assert.Equal(t, int64(289), order.Amounts.Discounts)
		assert.Equal(t, int64(2601), order.Amounts.Total)
	})

	t.Run("rejected coupon fails the order", func(t *testing.T) {
		f := newOrderServiceFixture(t)
		f.now = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
		_, err := f.svc.CreateOrder(ctx, "r1", CreateOrderRequest{
			Channel:     models.ChannelTakeaway,
			Coupon_code: "SAVE10",
			Items:       []CreateOrderItem{{Product_id: "p1", Quantity: 1}},
		})
		require.Error(t, err)
		assert.True(t, apperrors.Is(err, apperrors.CodeValidation))
		assert.Empty(t, f.orders.orders)
	})

	t.Run("unknown product", func(t *testing.T) {
		f := newOrderServiceFixture(t)
		_, err := f.svc.CreateOrder(ctx, "r1", CreateOrderRequest{
			Channel: models.ChannelTakeaway,
			Items:   []CreateOrderItem{{Product_id: "ghost", Quantity: 1}},
		})
		require.Error(t, err)
		assert.True(t, apperrors.Is(err, apperrors.CodeValidation))
	})

	t.Run("unavailable product", func(t *testing.T) {
		f := newOrderServiceFixture(t)
		f.products.products[0].Available = false
		_, err := f.svc.CreateOrder(ctx, "r1", CreateOrderRequest{
			Channel: models.ChannelTakeaway,
			Items:   []CreateOrderItem{{Product_id: "p1", Quantity: 1}},
		})
		require.Error(t, err)
		assert.True(t, apperrors.Is(err, apperrors.CodeValidation))
	})

	t.Run("unknown option choice", func(t *testing.T) {
		f := newOrderServiceFixture(t)
		_, err := f.svc.CreateOrder(ctx, "r1", CreateOrderRequest{
			Channel: models.ChannelTakeaway,
			Items: []CreateOrderItem{{
				Product_id: "p1",
				Quantity:   1,
				Options:    []SelectedOptionRequest{{Option_id: "opt-size", Choice: "gigantic"}},
			}},
		})
		require.Error(t, err)
		assert.True(t, apperrors.Is(err, apperrors.CodeValidation))
	})

	t.Run("dine_in requires a table", func(t *testing.T) {
		f := newOrderServiceFixture(t)
		_, err := f.svc.CreateOrder(ctx, "r1", CreateOrderRequest{
			Channel: models.ChannelDineIn,
			Items:   []CreateOrderItem{{Product_id: "p1", Quantity: 1}},
		})
		require.Error(t, err)
		assert.True(t, apperrors.Is(err, apperrors.CodeValidation))
	})

	t.Run("unknown channel", func(t *testing.T) {
		f := newOrderServiceFixture(t)
		_, err := f.svc.CreateOrder(ctx, "r1", CreateOrderRequest{
			Channel: "drive_through",
			Items:   []CreateOrderItem{{Product_id: "p1", Quantity: 1}},
		})
		require.Error(t, err)
		assert.True(t, apperrors.Is(err, apperrors.CodeValidation))
	})
}

func createTestOrder(t *testing.T, f *orderServiceFixture) *models.Order {
	t.Helper()
	order, err := f.svc.CreateOrder(context.Background(), "r1", CreateOrderRequest{
		Channel: models.ChannelTakeaway,
		Items:   []CreateOrderItem{{Product_id: "p1", Quantity: 1}},
	})
	require.NoError(t, err)
	return order
}

func TestUpdateStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("legal transition persists and publishes", func(t *testing.T) {
		f := newOrderServiceFixture(t)
		order := createTestOrder(t, f)

		updated, err := f.svc.UpdateStatus(ctx, "r1", order.Order_id, models.StatusConfirmed)
		require.NoError(t, err)
		assert.Equal(t, models.StatusConfirmed, updated.Status)
		assert.Equal(t, models.StatusConfirmed, f.orders.orders[0].Status)

		require.Len(t, f.publisher.events, 2)
		assert.Equal(t, EventOrderStatusChanged, f.publisher.events[1])
		assert.Equal(t, models.StatusPlaced, f.publisher.payloads[1].Old_status)
		assert.Equal(t, models.StatusConfirmed, f.publisher.payloads[1].New_status)
	})

	t.Run("illegal transition is a conflict", func(t *testing.T) {
		f := newOrderServiceFixture(t)
		order := createTestOrder(t, f)

		_, err := f.svc.UpdateStatus(ctx, "r1", order.Order_id, models.StatusServed)
		require.Error(t, err)
		assert.True(t, apperrors.Is(err, apperrors.CodeConflict))
		assert.Equal(t, models.StatusPlaced, f.orders.orders[0].Status)
	})

	t.Run("terminal re-entry writes and publishes nothing", func(t *testing.T) {
		f := newOrderServiceFixture(t)
		order := createTestOrder(t, f)
		_, err := f.svc.Cancel(ctx, "r1", order.Order_id, nil)
		require.NoError(t, err)

		writes := len(f.orders.updates)
		events := len(f.publisher.events)

		updated, err := f.svc.UpdateStatus(ctx, "r1", order.Order_id, models.StatusCanceled)
		require.NoError(t, err)
		assert.Equal(t, models.StatusCanceled, updated.Status)
		assert.Len(t, f.orders.updates, writes)
		assert.Len(t, f.publisher.events, events)
	})

	t.Run("unknown order", func(t *testing.T) {
		f := newOrderServiceFixture(t)
		_, err := f.svc.UpdateStatus(ctx, "r1", "ghost", models.StatusConfirmed)
		require.Error(t, err)
		assert.True(t, apperrors.Is(err, apperrors.CodeNotFound))
	})
}

func TestCancelOrder(t *testing.T) {
	ctx := context.Background()

	f := newOrderServiceFixture(t)
	order := createTestOrder(t, f)

	canceled, err := f.svc.Cancel(ctx, "r1", order.Order_id, strPtr("customer changed their mind"))
	require.NoError(t, err)

	assert.Equal(t, models.StatusCanceled, canceled.Status)
	require.NotNil(t, canceled.Cancel_reason)
	assert.Equal(t, "customer changed their mind", *canceled.Cancel_reason)
	require.NotNil(t, canceled.Closed_at)
	assert.Equal(t, f.now, *canceled.Closed_at)
	assert.Equal(t, EventOrderCanceled, f.publisher.events[len(f.publisher.events)-1])
}

func TestAddPayment(t *testing.T) {
	ctx := context.Background()

	t.Run("appends via the atomic push", func(t *testing.T) {
		f := newOrderServiceFixture(t)
		order := createTestOrder(t, f)

		updated, err := f.svc.AddPayment(ctx, "r1", order.Order_id, models.Payment{
			Method: "card",
			Amount: 2890,
		})
		require.NoError(t, err)

		require.Len(t, updated.Payments, 1)
		assert.NotEmpty(t, updated.Payments[0].Payment_id)
		assert.Equal(t, f.now, updated.Payments[0].Paid_at)
		// The write goes through the array append, not a full update.
		assert.Len(t, f.orders.pushes, 1)
		require.Len(t, f.orders.orders[0].Payments, 1)
	})

	t.Run("rejected on a canceled order", func(t *testing.T) {
		f := newOrderServiceFixture(t)
		order := createTestOrder(t, f)
		_, err := f.svc.Cancel(ctx, "r1", order.Order_id, nil)
		require.NoError(t, err)

		_, err = f.svc.AddPayment(ctx, "r1", order.Order_id, models.Payment{Method: "cash", Amount: 100})
		require.Error(t, err)
		assert.True(t, apperrors.Is(err, apperrors.CodeConflict))
	})

	t.Run("validates method and amount", func(t *testing.T) {
		f := newOrderServiceFixture(t)
		order := createTestOrder(t, f)

		_, err := f.svc.AddPayment(ctx, "r1", order.Order_id, models.Payment{Amount: 100})
		assert.True(t, apperrors.Is(err, apperrors.CodeValidation))

		_, err = f.svc.AddPayment(ctx, "r1", order.Order_id, models.Payment{Method: "cash", Amount: 0})
		assert.True(t, apperrors.Is(err, apperrors.CodeValidation))
	})
}

func TestAttentionOrders(t *testing.T) {
	f := newOrderServiceFixture(t)
	stale := models.Order{
		Order_id:   "stale",
		Status:     models.StatusPlaced,
		Created_at: f.now.Add(-45 * time.Minute),
	}
	fresh := models.Order{
		Order_id:   "fresh",
		Status:     models.StatusPlaced,
		Created_at: f.now.Add(-5 * time.Minute),
	}
	cooking := models.Order{
		Order_id:   "cooking",
		Status:     models.StatusInPreparation,
		Created_at: f.now.Add(-2 * time.Hour),
	}
	f.orders.orders = []models.Order{stale, fresh, cooking}

	orders, err := f.svc.AttentionOrders(context.Background(), "r1")
	require.NoError(t, err)

	require.Len(t, orders, 1)
	assert.Equal(t, "stale", orders[0].Order_id)
}

func TestGetAnalyticsDateRange(t *testing.T) {
	f := newOrderServiceFixture(t)
	inRange := models.Order{
		Order_id:   "in",
		Status:     models.StatusClosed,
		Channel:    models.ChannelDineIn,
		Created_at: time.Date(2024, 5, 15, 0, 0, 0, 0, time.UTC),
		Amounts:    models.Amounts{Total: 4000},
	}
	before := models.Order{
		Order_id:   "before",
		Status:     models.StatusClosed,
		Channel:    models.ChannelDineIn,
		Created_at: time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
		Amounts:    models.Amounts{Total: 9000},
	}
	f.orders.orders = []models.Order{inRange, before}

	from := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 5, 31, 23, 59, 59, 0, time.UTC)
	result, err := f.svc.GetAnalytics(context.Background(), "r1", models.DateRange{From: &from, To: &to})
	require.NoError(t, err)

	assert.Equal(t, int64(1), result.TotalOrders)
	assert.Equal(t, int64(4000), result.TotalRevenue)
}
