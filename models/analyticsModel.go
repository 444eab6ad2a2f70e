package models

import "time"

type DateRange struct {
	From *time.Time `json:"from"`
	To   *time.Time `json:"to"`
}

// ProductSales is one row of the top-products ranking. Revenue is
// quantity * unit price and deliberately excludes option surcharges.
type ProductSales struct {
	Product_id string `json:"product_id"`
	Name       string `json:"name"`
	Quantity   int64  `json:"quantity"`
	Revenue    int64  `json:"revenue"`
}

type AnalyticsResult struct {
	TotalOrders       int64            `json:"total_orders"`
	TotalRevenue      int64            `json:"total_revenue"`
	AverageOrderValue int64            `json:"average_order_value"`
	OrdersByStatus    map[string]int64 `json:"orders_by_status"`
	OrdersByChannel   map[string]int64 `json:"orders_by_channel"`
	TopProducts       []ProductSales   `json:"top_products"`
}
