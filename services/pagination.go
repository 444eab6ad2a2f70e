package services

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"strings"
	"time"

	"github.com/restrolabs/Restro_Ordering_Backend/apperrors"
	"github.com/restrolabs/Restro_Ordering_Backend/models"
	"github.com/restrolabs/Restro_Ordering_Backend/repository"
)

// maxSearchScan bounds how many documents a free-text search will pull into
// memory before filtering. The store has no native text search, so the full
// filtered set is materialized and matched client-side.
const maxSearchScan = 5000

// cursorOverlap is the extra fetch margin cursor pages use to step over
// documents sharing the boundary timestamp.
const cursorOverlap = 25

// Paginator executes compiled queries against the store. The store only
// supports forward cursor/limit queries, so offset access fetches
// offset+limit documents and slices the prefix away client-side; page N for
// large N transfers and discards O(N*limit) records by design.
type Paginator struct {
	store DocumentStore
}

func NewPaginator(store DocumentStore) *Paginator {
	return &Paginator{store: store}
}

// FindOrders returns one offset-mode page plus count metadata. The count
// comes from an independent count query over the same filters.
func (p *Paginator) FindOrders(ctx context.Context, restaurantID string, q *CompiledQuery) (*models.PagedOrders, error) {
	if q.Search != "" {
		return p.findOrdersSearch(ctx, restaurantID, q)
	}

	total, err := p.store.Count(ctx, restaurantID, q.Filters)
	if err != nil {
		return nil, apperrors.Store(err, "failed to count orders")
	}

	fetch := q.Limit
	if q.Offset > 0 {
		fetch = q.Offset + q.Limit
	}

	var orders []models.Order
	if err := p.store.FindWhere(ctx, restaurantID, q.Filters, &q.Sort, fetch, &orders); err != nil {
		return nil, apperrors.Store(err, "failed to fetch orders")
	}

	if q.Offset > 0 {
		if int64(len(orders)) <= q.Offset {
			orders = nil
		} else {
			orders = orders[q.Offset:]
		}
	}

	return pageOf(orders, total, q), nil
}

// findOrdersSearch materializes the full filtered set (bounded), applies
// the text match in memory, and only then paginates, so search results are
// consistent across pages.
func (p *Paginator) findOrdersSearch(ctx context.Context, restaurantID string, q *CompiledQuery) (*models.PagedOrders, error) {
	var orders []models.Order
	if err := p.store.FindWhere(ctx, restaurantID, q.Filters, &q.Sort, maxSearchScan, &orders); err != nil {
		return nil, apperrors.Store(err, "failed to fetch orders for search")
	}

	matched := orders[:0:0]
	for _, o := range orders {
		if matchesSearch(o, q.Search) {
			matched = append(matched, o)
		}
	}

	total := int64(len(matched))
	start := q.Offset
	if start > total {
		start = total
	}
	end := start + q.Limit
	if end > total {
		end = total
	}

	return pageOf(matched[start:end], total, q), nil
}

func pageOf(items []models.Order, total int64, q *CompiledQuery) *models.PagedOrders {
	if items == nil {
		items = []models.Order{}
	}
	return &models.PagedOrders{
		Items:       items,
		Total:       total,
		TotalPages:  (total + q.Limit - 1) / q.Limit,
		CurrentPage: q.Offset/q.Limit + 1,
	}
}

func matchesSearch(o models.Order, term string) bool {
	if strings.Contains(strings.ToLower(o.Order_number), term) {
		return true
	}
	if o.Customer != nil {
		if o.Customer.Name != nil && strings.Contains(strings.ToLower(*o.Customer.Name), term) {
			return true
		}
		if o.Customer.Phone != nil && strings.Contains(strings.ToLower(*o.Customer.Phone), term) {
			return true
		}
	}
	for _, item := range o.Items {
		if strings.Contains(strings.ToLower(item.Name), term) {
			return true
		}
		if item.Notes != nil && strings.Contains(strings.ToLower(*item.Notes), term) {
			return true
		}
	}
	return false
}

// cursorToken marks the position after the last returned order.
type cursorToken struct {
	CreatedAt time.Time `json:"t"`
	OrderID   string    `json:"id"`
}

func encodeCursor(o models.Order) string {
	raw, _ := json.Marshal(cursorToken{CreatedAt: o.Created_at, OrderID: o.Order_id})
	return base64.RawURLEncoding.EncodeToString(raw)
}

func decodeCursor(cursor string) (*cursorToken, error) {
	raw, err := base64.RawURLEncoding.DecodeString(cursor)
	if err != nil {
		return nil, apperrors.Validation("malformed cursor")
	}
	var tok cursorToken
	if err := json.Unmarshal(raw, &tok); err != nil {
		return nil, apperrors.Validation("malformed cursor")
	}
	return &tok, nil
}

// FindOrdersCursor is the preferred pagination mode: an opaque continuation
// token instead of a numeric offset, so deep pages cost one limited query
// each. Only created_at ordering is supported; the token encodes the
// boundary timestamp and order id.
func (p *Paginator) FindOrdersCursor(ctx context.Context, restaurantID string, q *CompiledQuery, cursor string) (*models.CursorOrders, error) {
	if q.Sort.Field != DefaultOrderSort {
		return nil, apperrors.Validation("cursor pagination only supports %s ordering", DefaultOrderSort)
	}

	filters := q.Filters
	fetch := q.Limit
	var tok *cursorToken
	if cursor != "" {
		var err error
		if tok, err = decodeCursor(cursor); err != nil {
			return nil, err
		}
		boundary := models.OpLessEqual
		if !q.Sort.Descending {
			boundary = models.OpGreaterEqual
		}
		filters = append(append([]repository.Filter{}, q.Filters...),
			repository.Filter{Field: "created_at", Op: boundary, Value: tok.CreatedAt})
		fetch = q.Limit + cursorOverlap
	}

	var fetched []models.Order
	if err := p.store.FindWhere(ctx, restaurantID, filters, &q.Sort, fetch, &fetched); err != nil {
		return nil, apperrors.Store(err, "failed to fetch order page")
	}

	items := fetched
	if tok != nil {
		items = sliceAfter(fetched, tok.OrderID)
	}
	if int64(len(items)) > q.Limit {
		items = items[:q.Limit]
	}

	result := &models.CursorOrders{Items: items}
	if result.Items == nil {
		result.Items = []models.Order{}
	}
	if int64(len(items)) == q.Limit && len(items) > 0 {
		result.Next_cursor = encodeCursor(items[len(items)-1])
	}
	return result, nil
}

// sliceAfter drops everything up to and including the order the cursor
// points at. If the boundary order was deleted in the meantime, the whole
// fetched window is returned as-is.
func sliceAfter(orders []models.Order, orderID string) []models.Order {
	for i, o := range orders {
		if o.Order_id == orderID {
			return orders[i+1:]
		}
	}
	return orders
}
