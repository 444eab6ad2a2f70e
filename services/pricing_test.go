package services

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/restrolabs/Restro_Ordering_Backend/models"
)

func TestComputeAmountsDineIn(t *testing.T) {
	items := []models.OrderItem{
		{
			Product_id: "p1",
			Quantity:   1,
			Unit_price: 2890,
			Options:    []models.SelectedOption{{Option_id: "o1", Price: 590}},
		},
	}

	amounts := ComputeAmounts(items, models.ChannelDineIn)

	assert.Equal(t, int64(3480), amounts.Subtotal)
	require.NotNil(t, amounts.Fees.Service)
	assert.Equal(t, int64(348), *amounts.Fees.Service)
	assert.Nil(t, amounts.Fees.Delivery)
	assert.Equal(t, int64(0), amounts.Discounts)
	assert.Equal(t, int64(3828), amounts.Total)
}

func TestComputeAmountsTakeaway(t *testing.T) {
	items := []models.OrderItem{
		{Product_id: "p1", Quantity: 3, Unit_price: 1200},
	}

	amounts := ComputeAmounts(items, models.ChannelTakeaway)

	assert.Equal(t, int64(3600), amounts.Subtotal)
	assert.Nil(t, amounts.Fees.Service)
	assert.Nil(t, amounts.Fees.Delivery)
	assert.Equal(t, int64(3600), amounts.Total)
}

func TestComputeAmountsDelivery(t *testing.T) {
	items := []models.OrderItem{
		{Product_id: "p1", Quantity: 2, Unit_price: 1500},
	}

	amounts := ComputeAmounts(items, models.ChannelDelivery)

	assert.Equal(t, int64(3000), amounts.Subtotal)
	assert.Nil(t, amounts.Fees.Service)
	require.NotNil(t, amounts.Fees.Delivery)
	assert.Equal(t, int64(deliveryFeeMinor), *amounts.Fees.Delivery)
	assert.Equal(t, int64(3000+deliveryFeeMinor), amounts.Total)
}

func TestComputeAmountsServiceFeeRounding(t *testing.T) {
	// 10% of 25 is 2.5 minor units, rounding half up to 3.
	items := []models.OrderItem{{Product_id: "p1", Quantity: 1, Unit_price: 25}}
	amounts := ComputeAmounts(items, models.ChannelDineIn)

	require.NotNil(t, amounts.Fees.Service)
	assert.Equal(t, int64(3), *amounts.Fees.Service)
}

func TestSubtotalMatchesItemSums(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for round := 0; round < 200; round++ {
		itemCount := 1 + rng.Intn(8)
		items := make([]models.OrderItem, 0, itemCount)
		var want int64
		for i := 0; i < itemCount; i++ {
			item := models.OrderItem{
				Product_id: "p",
				Quantity:   1 + int64(rng.Intn(1000)),
				Unit_price: int64(rng.Intn(10_000_001)),
			}
			var optionSum int64
			for j := 0; j < rng.Intn(3); j++ {
				price := int64(rng.Intn(10_000_001))
				item.Options = append(item.Options, models.SelectedOption{Price: price})
				optionSum += price
			}
			want += (item.Unit_price + optionSum) * item.Quantity
			items = append(items, item)
		}

		amounts := ComputeAmounts(items, models.ChannelTakeaway)
		require.Equal(t, want, amounts.Subtotal)
		require.Equal(t, want, amounts.Total)
	}
}

func TestApplyDiscount(t *testing.T) {
	items := []models.OrderItem{{Product_id: "p1", Quantity: 1, Unit_price: 2000}}

	t.Run("regular discount", func(t *testing.T) {
		amounts := ApplyDiscount(ComputeAmounts(items, models.ChannelDineIn), 500)
		assert.Equal(t, int64(500), amounts.Discounts)
		assert.Equal(t, int64(2000+200-500), amounts.Total)
	})

	t.Run("discount capped at subtotal", func(t *testing.T) {
		amounts := ApplyDiscount(ComputeAmounts(items, models.ChannelTakeaway), 99999)
		assert.Equal(t, int64(2000), amounts.Discounts)
		assert.Equal(t, int64(0), amounts.Total)
	})

	t.Run("negative discount ignored", func(t *testing.T) {
		amounts := ApplyDiscount(ComputeAmounts(items, models.ChannelTakeaway), -100)
		assert.Equal(t, int64(0), amounts.Discounts)
		assert.Equal(t, int64(2000), amounts.Total)
	})
}
