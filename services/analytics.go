package services

import (
	"sort"

	"github.com/restrolabs/Restro_Ordering_Backend/models"
)

const topProductsLimit = 10

// Aggregate scans a materialized order set and produces the report totals.
// Breakdown maps carry every enum member, zero or not, so consumers never
// have to treat a missing key as zero.
func Aggregate(orders []models.Order) *models.AnalyticsResult {
	result := &models.AnalyticsResult{
		OrdersByStatus:  make(map[string]int64, len(models.AllStatuses)),
		OrdersByChannel: make(map[string]int64, len(models.AllChannels)),
		TopProducts:     []models.ProductSales{},
	}
	for _, status := range models.AllStatuses {
		result.OrdersByStatus[status] = 0
	}
	for _, channel := range models.AllChannels {
		result.OrdersByChannel[channel] = 0
	}

	sales := make(map[string]*models.ProductSales)
	var ranking []*models.ProductSales

	for _, order := range orders {
		result.TotalOrders++
		result.TotalRevenue += order.Amounts.Total
		result.OrdersByStatus[order.Status]++
		result.OrdersByChannel[order.Channel]++

		for _, item := range order.Items {
			entry, ok := sales[item.Product_id]
			if !ok {
				entry = &models.ProductSales{Product_id: item.Product_id, Name: item.Name}
				sales[item.Product_id] = entry
				ranking = append(ranking, entry)
			}
			entry.Quantity += item.Quantity
			// Product revenue is quantity * unit price; option surcharges
			// are excluded from the ranking on purpose.
			entry.Revenue += item.Unit_price * item.Quantity
		}
	}

	if result.TotalOrders > 0 {
		result.AverageOrderValue = result.TotalRevenue / result.TotalOrders
	}

	// Stable sort keeps first-encountered order on revenue ties.
	sort.SliceStable(ranking, func(i, j int) bool {
		return ranking[i].Revenue > ranking[j].Revenue
	})
	if len(ranking) > topProductsLimit {
		ranking = ranking[:topProductsLimit]
	}
	for _, entry := range ranking {
		result.TopProducts = append(result.TopProducts, *entry)
	}

	return result
}
