package services

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/restrolabs/Restro_Ordering_Backend/apperrors"
	"github.com/restrolabs/Restro_Ordering_Backend/models"
	"github.com/restrolabs/Restro_Ordering_Backend/repository"
)

// maxAnalyticsScan bounds the in-memory aggregation working set. Wider date
// ranges must be narrowed by the caller.
const maxAnalyticsScan = 10000

// Order lifecycle events published to the broker.
const (
	EventOrderCreated       = "order.created"
	EventOrderStatusChanged = "order.status_changed"
	EventOrderCanceled      = "order.canceled"
)

type OrderEvent struct {
	Restaurant_id string `json:"restaurant_id"`
	Order_id      string `json:"order_id"`
	Order_number  string `json:"order_number"`
	Old_status    string `json:"old_status,omitempty"`
	New_status    string `json:"new_status"`
	Total         int64  `json:"total"`
}

// CreateOrderItem is a client line item: the product and choices are
// referenced by id and resolved against the catalog server-side, so prices
// can never be client-supplied.
type CreateOrderItem struct {
	Product_id string                  `json:"product_id" validate:"required"`
	Quantity   int64                   `json:"quantity" validate:"required,gt=0"`
	Options    []SelectedOptionRequest `json:"options"`
	Notes      *string                 `json:"notes,omitempty"`
}

type SelectedOptionRequest struct {
	Option_id string `json:"option_id" validate:"required"`
	Choice    string `json:"choice" validate:"required"`
}

type CreateOrderRequest struct {
	Items       []CreateOrderItem `json:"items" validate:"required,min=1,dive"`
	Channel     string            `json:"channel" validate:"required"`
	Table_id    *string           `json:"table_id,omitempty"`
	Customer    *models.Customer  `json:"customer,omitempty"`
	Coupon_code string            `json:"coupon_code,omitempty"`
}

type OrderService struct {
	orders             DocumentStore
	products           DocumentStore
	coupons            *CouponService
	paginator          *Paginator
	events             EventPublisher
	log                *logrus.Logger
	attentionThreshold time.Duration
	now                func() time.Time
}

func NewOrderService(orders, products DocumentStore, coupons *CouponService, events EventPublisher, log *logrus.Logger, attentionThreshold time.Duration) *OrderService {
	if attentionThreshold <= 0 {
		attentionThreshold = 30 * time.Minute
	}
	return &OrderService{
		orders:             orders,
		products:           products,
		coupons:            coupons,
		paginator:          NewPaginator(orders),
		events:             events,
		log:                log,
		attentionThreshold: attentionThreshold,
		now:                time.Now,
	}
}

// CreateOrder prices and persists a new order. Line items are resolved and
// denormalized from the catalog, the coupon (if any) is validated against
// the computed subtotal, and the discount is persisted atomically with the
// order document. The order always starts at placed.
func (s *OrderService) CreateOrder(ctx context.Context, restaurantID string, req CreateOrderRequest) (*models.Order, error) {
	if len(req.Items) == 0 {
		return nil, apperrors.Validation("order must contain at least one item")
	}
	switch req.Channel {
	case models.ChannelDineIn, models.ChannelTakeaway, models.ChannelDelivery:
	default:
		return nil, apperrors.Validation("unknown channel %q", req.Channel)
	}
	if req.Channel == models.ChannelDineIn && (req.Table_id == nil || *req.Table_id == "") {
		return nil, apperrors.Validation("dine_in orders require a table id")
	}

	items, err := s.resolveItems(ctx, restaurantID, req.Items)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	amounts := ComputeAmounts(items, req.Channel)
	if req.Coupon_code != "" {
		validation, err := s.coupons.Validate(ctx, restaurantID, req.Coupon_code, amounts.Subtotal, now)
		if err != nil {
			return nil, err
		}
		if !validation.Valid {
			return nil, apperrors.Validation("coupon rejected: %s", validation.Message)
		}
		amounts = ApplyDiscount(amounts, validation.Discount)
	}

	order := models.Order{
		ID:            primitive.NewObjectID(),
		Restaurant_id: restaurantID,
		Order_number:  newOrderNumber(),
		Items:         items,
		Channel:       req.Channel,
		Status:        models.StatusPlaced,
		Amounts:       amounts,
		Table_id:      req.Table_id,
		Customer:      req.Customer,
		Payments:      []models.Payment{},
		Created_at:    now,
		Updated_at:    now,
	}
	order.Order_id = order.ID.Hex()

	if _, err := s.orders.Create(ctx, order); err != nil {
		return nil, apperrors.Store(err, "failed to create order")
	}

	s.log.WithFields(logrus.Fields{
		"component":     "orders",
		"restaurant_id": restaurantID,
		"order_id":      order.Order_id,
		"order_number":  order.Order_number,
		"total":         order.Amounts.Total,
	}).Info("order created")

	s.publish(ctx, EventOrderCreated, OrderEvent{
		Restaurant_id: restaurantID,
		Order_id:      order.Order_id,
		Order_number:  order.Order_number,
		New_status:    order.Status,
		Total:         order.Amounts.Total,
	})
	return &order, nil
}

// resolveItems denormalizes catalog data into order line items at order
// time, so later catalog edits cannot drift prices on past orders.
func (s *OrderService) resolveItems(ctx context.Context, restaurantID string, reqItems []CreateOrderItem) ([]models.OrderItem, error) {
	items := make([]models.OrderItem, 0, len(reqItems))
	for _, reqItem := range reqItems {
		if reqItem.Quantity <= 0 {
			return nil, apperrors.Validation("item quantity must be positive")
		}

		var product models.Product
		err := s.products.FindByID(ctx, restaurantID, reqItem.Product_id, &product)
		if err == repository.ErrNotFound {
			return nil, apperrors.Validation("unknown product %s", reqItem.Product_id)
		}
		if err != nil {
			return nil, apperrors.Store(err, "failed to load product %s", reqItem.Product_id)
		}
		if !product.Available {
			return nil, apperrors.Validation("product %s is not available", product.Name)
		}

		options := make([]models.SelectedOption, 0, len(reqItem.Options))
		for _, sel := range reqItem.Options {
			resolved, err := resolveOption(&product, sel)
			if err != nil {
				return nil, err
			}
			options = append(options, *resolved)
		}

		items = append(items, models.OrderItem{
			Product_id: product.Product_id,
			Name:       product.Name,
			Quantity:   reqItem.Quantity,
			Unit_price: product.Price,
			Options:    options,
			Notes:      reqItem.Notes,
		})
	}
	return items, nil
}

func resolveOption(product *models.Product, sel SelectedOptionRequest) (*models.SelectedOption, error) {
	for _, opt := range product.Options {
		if opt.Option_id != sel.Option_id {
			continue
		}
		for _, choice := range opt.Choices {
			if choice.Choice == sel.Choice {
				return &models.SelectedOption{
					Option_id: opt.Option_id,
					Name:      opt.Name,
					Choice:    choice.Choice,
					Price:     choice.Price,
				}, nil
			}
		}
		return nil, apperrors.Validation("product %s has no choice %q for option %s", product.Name, sel.Choice, opt.Name)
	}
	return nil, apperrors.Validation("product %s has no option %s", product.Name, sel.Option_id)
}

func (s *OrderService) GetOrder(ctx context.Context, restaurantID, orderID string) (*models.Order, error) {
	var order models.Order
	err := s.orders.FindByID(ctx, restaurantID, orderID, &order)
	if err == repository.ErrNotFound {
		return nil, apperrors.NotFound("order %s not found", orderID)
	}
	if err != nil {
		return nil, apperrors.Store(err, "failed to load order %s", orderID)
	}
	return &order, nil
}

// UpdateStatus moves an order along the state machine. Illegal edges are
// rejected with CONFLICT; re-applying a terminal status is an idempotent
// no-op that leaves closed_at untouched.
func (s *OrderService) UpdateStatus(ctx context.Context, restaurantID, orderID, status string) (*models.Order, error) {
	order, err := s.GetOrder(ctx, restaurantID, orderID)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	partial, err := Transition(order, status, now)
	if err != nil {
		return nil, err
	}
	if partial == nil {
		return order, nil
	}

	if err := s.orders.Update(ctx, restaurantID, orderID, partial); err != nil {
		if err == repository.ErrNotFound {
			return nil, apperrors.NotFound("order %s not found", orderID)
		}
		return nil, apperrors.Store(err, "failed to update order %s status", orderID)
	}

	oldStatus := order.Status
	order.Status = status
	order.Updated_at = now
	if closedAt, ok := partial["closed_at"].(time.Time); ok {
		order.Closed_at = &closedAt
	}

	s.log.WithFields(logrus.Fields{
		"component":     "orders",
		"restaurant_id": restaurantID,
		"order_id":      orderID,
		"from":          oldStatus,
		"to":            status,
	}).Info("order status updated")

	s.publish(ctx, EventOrderStatusChanged, OrderEvent{
		Restaurant_id: restaurantID,
		Order_id:      orderID,
		Order_number:  order.Order_number,
		Old_status:    oldStatus,
		New_status:    status,
		Total:         order.Amounts.Total,
	})
	return order, nil
}

// Cancel moves the order to canceled, storing the free-text reason
// verbatim when one is given.
func (s *OrderService) Cancel(ctx context.Context, restaurantID, orderID string, reason *string) (*models.Order, error) {
	order, err := s.GetOrder(ctx, restaurantID, orderID)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	partial, err := Transition(order, models.StatusCanceled, now)
	if err != nil {
		return nil, err
	}
	if partial == nil {
		return order, nil
	}
	if reason != nil {
		partial["cancel_reason"] = *reason
	}

	if err := s.orders.Update(ctx, restaurantID, orderID, partial); err != nil {
		if err == repository.ErrNotFound {
			return nil, apperrors.NotFound("order %s not found", orderID)
		}
		return nil, apperrors.Store(err, "failed to cancel order %s", orderID)
	}

	oldStatus := order.Status
	order.Status = models.StatusCanceled
	order.Updated_at = now
	order.Cancel_reason = reason
	if closedAt, ok := partial["closed_at"].(time.Time); ok {
		order.Closed_at = &closedAt
	}

	s.publish(ctx, EventOrderCanceled, OrderEvent{
		Restaurant_id: restaurantID,
		Order_id:      orderID,
		Order_number:  order.Order_number,
		Old_status:    oldStatus,
		New_status:    order.Status,
		Total:         order.Amounts.Total,
	})
	return order, nil
}

// AddPayment appends one payment entry with the store's atomic array
// append, so two concurrent payments never overwrite each other.
func (s *OrderService) AddPayment(ctx context.Context, restaurantID, orderID string, payment models.Payment) (*models.Order, error) {
	if payment.Method == "" {
		return nil, apperrors.Validation("payment method is required")
	}
	if payment.Amount <= 0 {
		return nil, apperrors.Validation("payment amount must be positive")
	}

	order, err := s.GetOrder(ctx, restaurantID, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status == models.StatusCanceled {
		return nil, apperrors.Conflict("cannot add a payment to a canceled order")
	}

	now := s.now().UTC()
	payment.Payment_id = uuid.NewString()
	payment.Paid_at = now

	err = s.orders.Push(ctx, restaurantID, orderID, "payments", payment, bson.M{"updated_at": now})
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, apperrors.NotFound("order %s not found", orderID)
		}
		return nil, apperrors.Store(err, "failed to record payment on order %s", orderID)
	}

	order.Payments = append(order.Payments, payment)
	order.Updated_at = now
	return order, nil
}

// FindWithQuery runs an offset-mode listing: filters, sort, page and limit
// per the compiled query, with totals from an independent count.
func (s *OrderService) FindWithQuery(ctx context.Context, restaurantID string, spec models.QuerySpec) (*models.PagedOrders, error) {
	q, err := CompileQuery(spec)
	if err != nil {
		return nil, err
	}
	return s.paginator.FindOrders(ctx, restaurantID, q)
}

// FindWithCursor runs a cursor-mode listing; cursor is the opaque token
// from the previous page, or empty for the first page.
func (s *OrderService) FindWithCursor(ctx context.Context, restaurantID string, spec models.QuerySpec, cursor string) (*models.CursorOrders, error) {
	q, err := CompileQuery(spec)
	if err != nil {
		return nil, err
	}
	return s.paginator.FindOrdersCursor(ctx, restaurantID, q, cursor)
}

// GetAnalytics aggregates the orders created inside the date range. The
// scan is bounded; ranges matching more than maxAnalyticsScan orders must
// be narrowed.
func (s *OrderService) GetAnalytics(ctx context.Context, restaurantID string, dateRange models.DateRange) (*models.AnalyticsResult, error) {
	var filters []repository.Filter
	if dateRange.From != nil {
		filters = append(filters, repository.Filter{Field: "created_at", Op: models.OpGreaterEqual, Value: *dateRange.From})
	}
	if dateRange.To != nil {
		filters = append(filters, repository.Filter{Field: "created_at", Op: models.OpLessEqual, Value: *dateRange.To})
	}

	var orders []models.Order
	sort := repository.Sort{Field: "created_at", Descending: false}
	if err := s.orders.FindWhere(ctx, restaurantID, filters, &sort, maxAnalyticsScan, &orders); err != nil {
		return nil, apperrors.Store(err, "failed to load orders for analytics")
	}
	if len(orders) == maxAnalyticsScan {
		return nil, apperrors.Validation("date range matches too many orders; narrow the range")
	}
	return Aggregate(orders), nil
}

// AttentionOrders lists orders stuck in placed or confirmed for longer than
// the configured threshold. This is a derived query, not an order state.
func (s *OrderService) AttentionOrders(ctx context.Context, restaurantID string) ([]models.Order, error) {
	cutoff := s.now().UTC().Add(-s.attentionThreshold)
	filters := []repository.Filter{
		{Field: "status", Op: models.OpIn, Value: []string{models.StatusPlaced, models.StatusConfirmed}},
		{Field: "created_at", Op: models.OpLessEqual, Value: cutoff},
	}
	sort := repository.Sort{Field: "created_at", Descending: false}

	var orders []models.Order
	if err := s.orders.FindWhere(ctx, restaurantID, filters, &sort, 0, &orders); err != nil {
		return nil, apperrors.Store(err, "failed to load attention orders")
	}
	if orders == nil {
		orders = []models.Order{}
	}
	return orders, nil
}

func (s *OrderService) publish(ctx context.Context, event string, payload OrderEvent) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, event, payload); err != nil {
		s.log.WithError(err).WithFields(logrus.Fields{
			"component": "orders",
			"event":     event,
			"order_id":  payload.Order_id,
		}).Warn("failed to publish order event")
	}
}

// newOrderNumber returns a 4-digit display number. Collisions are
// tolerated; the number is for staff and receipts, not identity.
func newOrderNumber() string {
	return fmt.Sprintf("%04d", 1000+rand.Intn(9000))
}
