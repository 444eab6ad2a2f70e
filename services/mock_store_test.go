package services

import (
	"context"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/restrolabs/Restro_Ordering_Backend/models"
	"github.com/restrolabs/Restro_Ordering_Backend/repository"
)

// mockStore is an in-memory DocumentStore. One instance stands in for one
// collection; it evaluates the filter operators the engine actually
// compiles and honors sort and limit the way the real store does —
// including having no offset support.
type mockStore struct {
	orders   []models.Order
	coupons  []models.Coupon
	products []models.Product

	findErr  error
	countErr error

	updates []bson.M
	pushes  []interface{}
}

func (m *mockStore) Create(ctx context.Context, doc interface{}) (string, error) {
	switch d := doc.(type) {
	case models.Order:
		m.orders = append(m.orders, d)
		return d.Order_id, nil
	case models.Coupon:
		m.coupons = append(m.coupons, d)
		return d.Coupon_id, nil
	case models.Product:
		m.products = append(m.products, d)
		return d.Product_id, nil
	}
	return "", nil
}

func (m *mockStore) FindByID(ctx context.Context, restaurantID, id string, out interface{}) error {
	switch v := out.(type) {
	case *models.Order:
		for _, o := range m.orders {
			if o.Order_id == id {
				*v = o
				return nil
			}
		}
	case *models.Product:
		for _, p := range m.products {
			if p.Product_id == id {
				*v = p
				return nil
			}
		}
	case *models.Coupon:
		for _, c := range m.coupons {
			if c.Coupon_id == id {
				*v = c
				return nil
			}
		}
	}
	return repository.ErrNotFound
}

func (m *mockStore) Update(ctx context.Context, restaurantID, id string, partial bson.M) error {
	m.updates = append(m.updates, partial)
	for i := range m.orders {
		if m.orders[i].Order_id != id {
			continue
		}
		if status, ok := partial["status"].(string); ok {
			m.orders[i].Status = status
		}
		if updatedAt, ok := partial["updated_at"].(time.Time); ok {
			m.orders[i].Updated_at = updatedAt
		}
		if closedAt, ok := partial["closed_at"].(time.Time); ok {
			m.orders[i].Closed_at = &closedAt
		}
		if reason, ok := partial["cancel_reason"].(string); ok {
			m.orders[i].Cancel_reason = &reason
		}
		return nil
	}
	return repository.ErrNotFound
}

func (m *mockStore) Delete(ctx context.Context, restaurantID, id string) error {
	return nil
}

func (m *mockStore) FindWhere(ctx context.Context, restaurantID string, filters []repository.Filter, s *repository.Sort, limit int64, out interface{}) error {
	if m.findErr != nil {
		return m.findErr
	}
	switch v := out.(type) {
	case *[]models.Order:
		matched := make([]models.Order, 0)
		for _, o := range m.orders {
			if matchesAll(orderFieldValue(o), filters) {
				matched = append(matched, o)
			}
		}
		sortOrders(matched, s)
		if limit > 0 && int64(len(matched)) > limit {
			matched = matched[:limit]
		}
		*v = matched
	case *[]models.Coupon:
		matched := make([]models.Coupon, 0)
		for _, c := range m.coupons {
			if matchesAll(couponFieldValue(c), filters) {
				matched = append(matched, c)
			}
		}
		if limit > 0 && int64(len(matched)) > limit {
			matched = matched[:limit]
		}
		*v = matched
	}
	return nil
}

func (m *mockStore) Count(ctx context.Context, restaurantID string, filters []repository.Filter) (int64, error) {
	if m.countErr != nil {
		return 0, m.countErr
	}
	var count int64
	for _, o := range m.orders {
		if matchesAll(orderFieldValue(o), filters) {
			count++
		}
	}
	for _, c := range m.coupons {
		if matchesAll(couponFieldValue(c), filters) {
			count++
		}
	}
	return count, nil
}

func (m *mockStore) BatchUpdate(ctx context.Context, restaurantID string, updates []repository.BatchItem) error {
	return nil
}

func (m *mockStore) Push(ctx context.Context, restaurantID, id, field string, value interface{}, set bson.M) error {
	m.pushes = append(m.pushes, value)
	for i := range m.orders {
		if m.orders[i].Order_id != id {
			continue
		}
		if payment, ok := value.(models.Payment); ok && field == "payments" {
			m.orders[i].Payments = append(m.orders[i].Payments, payment)
		}
		if updatedAt, ok := set["updated_at"].(time.Time); ok {
			m.orders[i].Updated_at = updatedAt
		}
		return nil
	}
	return repository.ErrNotFound
}

func (m *mockStore) Toggle(ctx context.Context, restaurantID, id, field string) error {
	for i := range m.products {
		if m.products[i].Product_id == id && field == "highlighted" {
			m.products[i].Highlighted = !m.products[i].Highlighted
			return nil
		}
	}
	return repository.ErrNotFound
}

func orderFieldValue(o models.Order) func(string) (interface{}, bool) {
	return func(field string) (interface{}, bool) {
		switch field {
		case "status":
			return o.Status, true
		case "channel":
			return o.Channel, true
		case "created_at":
			return o.Created_at, true
		case "table_id":
			if o.Table_id == nil {
				return nil, false
			}
			return *o.Table_id, true
		}
		return nil, false
	}
}

func couponFieldValue(c models.Coupon) func(string) (interface{}, bool) {
	return func(field string) (interface{}, bool) {
		switch field {
		case "code":
			return c.Code, true
		case "active":
			return c.Active, true
		}
		return nil, false
	}
}

func matchesAll(fieldValue func(string) (interface{}, bool), filters []repository.Filter) bool {
	for _, f := range filters {
		value, ok := fieldValue(f.Field)
		if !ok {
			return false
		}
		if !matchFilter(value, f) {
			return false
		}
	}
	return true
}

func matchFilter(value interface{}, f repository.Filter) bool {
	switch f.Op {
	case models.OpEqual:
		return value == f.Value
	case models.OpIn, models.OpNotIn:
		want := f.Op == models.OpIn
		list, ok := f.Value.([]string)
		if !ok {
			return false
		}
		for _, candidate := range list {
			if value == candidate {
				return want
			}
		}
		return !want
	case models.OpLess, models.OpLessEqual, models.OpGreater, models.OpGreaterEqual:
		left, lok := value.(time.Time)
		right, rok := f.Value.(time.Time)
		if !lok || !rok {
			return false
		}
		switch f.Op {
		case models.OpLess:
			return left.Before(right)
		case models.OpLessEqual:
			return !left.After(right)
		case models.OpGreater:
			return left.After(right)
		default:
			return !left.Before(right)
		}
	}
	return false
}

func sortOrders(orders []models.Order, s *repository.Sort) {
	if s == nil {
		return
	}
	sort.SliceStable(orders, func(i, j int) bool {
		a, b := orders[i], orders[j]
		if s.Descending {
			a, b = b, a
		}
		switch s.Field {
		case "created_at":
			return a.Created_at.Before(b.Created_at)
		case "order_number":
			return a.Order_number < b.Order_number
		default:
			return false
		}
	})
}

type mockPublisher struct {
	events   []string
	payloads []OrderEvent
}

func (m *mockPublisher) Publish(ctx context.Context, event string, payload interface{}) error {
	m.events = append(m.events, event)
	if orderEvent, ok := payload.(OrderEvent); ok {
		m.payloads = append(m.payloads, orderEvent)
	}
	return nil
}
