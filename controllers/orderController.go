package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator"
	"github.com/gorilla/mux"

	"github.com/restrolabs/Restro_Ordering_Backend/apperrors"
	database "github.com/restrolabs/Restro_Ordering_Backend/config"
	"github.com/restrolabs/Restro_Ordering_Backend/helper"
	"github.com/restrolabs/Restro_Ordering_Backend/models"
	"github.com/restrolabs/Restro_Ordering_Backend/services"
)

var validate = validator.New()

const requestTimeout = 30 * time.Second

type OrderController struct {
	service *services.OrderService
	cfg     *database.AppConfig
}

func NewOrderController(service *services.OrderService, cfg *database.AppConfig) *OrderController {
	return &OrderController{service: service, cfg: cfg}
}

func (c *OrderController) requestScope(r *http.Request) (context.Context, context.CancelFunc, string, error) {
	restaurantID := helper.RestaurantID(r)
	if restaurantID == "" {
		return nil, nil, "", apperrors.Validation("X-Restaurant-ID header is required")
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	return ctx, cancel, restaurantID, nil
}

func (c *OrderController) CreateOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel, restaurantID, err := c.requestScope(r)
	if err != nil {
		helper.RespondError(w, err, c.cfg.IsDevelopment())
		return
	}
	defer cancel()

	var req services.CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		helper.RespondError(w, apperrors.Validation("invalid request body"), c.cfg.IsDevelopment())
		return
	}
	if validationErr := validate.Struct(req); validationErr != nil {
		helper.RespondError(w, apperrors.Validation("%s", validationErr.Error()), c.cfg.IsDevelopment())
		return
	}

	order, err := c.service.CreateOrder(ctx, restaurantID, req)
	if err != nil {
		helper.RespondError(w, err, c.cfg.IsDevelopment())
		return
	}
	helper.RespondJSON(w, http.StatusCreated, "Order created successfully", order)
}

func (c *OrderController) GetOrderById(w http.ResponseWriter, r *http.Request) {
	ctx, cancel, restaurantID, err := c.requestScope(r)
	if err != nil {
		helper.RespondError(w, err, c.cfg.IsDevelopment())
		return
	}
	defer cancel()

	order, err := c.service.GetOrder(ctx, restaurantID, mux.Vars(r)["order_id"])
	if err != nil {
		helper.RespondError(w, err, c.cfg.IsDevelopment())
		return
	}
	helper.RespondJSON(w, http.StatusOK, "Order retrieved successfully", order)
}

// GetOrders is the offset-mode listing: filters, sort and page/limit come
// from query parameters.
func (c *OrderController) GetOrders(w http.ResponseWriter, r *http.Request) {
	ctx, cancel, restaurantID, err := c.requestScope(r)
	if err != nil {
		helper.RespondError(w, err, c.cfg.IsDevelopment())
		return
	}
	defer cancel()

	page, err := c.service.FindWithQuery(ctx, restaurantID, querySpecFromRequest(r))
	if err != nil {
		helper.RespondError(w, err, c.cfg.IsDevelopment())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": true,
		"message": "Orders retrieved successfully",
		"data":    page.Items,
		"pagination": map[string]interface{}{
			"current_page":     page.CurrentPage,
			"records_per_page": len(page.Items),
			"total_orders":     page.Total,
			"total_pages":      page.TotalPages,
		},
	})
}

// GetOrdersFeed is the cursor-mode listing; pass the next_cursor of the
// previous response to continue.
func (c *OrderController) GetOrdersFeed(w http.ResponseWriter, r *http.Request) {
	ctx, cancel, restaurantID, err := c.requestScope(r)
	if err != nil {
		helper.RespondError(w, err, c.cfg.IsDevelopment())
		return
	}
	defer cancel()

	spec := querySpecFromRequest(r)
	spec.Page = 1

	feed, err := c.service.FindWithCursor(ctx, restaurantID, spec, r.URL.Query().Get("cursor"))
	if err != nil {
		helper.RespondError(w, err, c.cfg.IsDevelopment())
		return
	}
	helper.RespondJSON(w, http.StatusOK, "Orders retrieved successfully", feed)
}

func (c *OrderController) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	ctx, cancel, restaurantID, err := c.requestScope(r)
	if err != nil {
		helper.RespondError(w, err, c.cfg.IsDevelopment())
		return
	}
	defer cancel()

	var requestBody struct {
		Status string `json:"status" validate:"required"`
	}
	if err := json.NewDecoder(r.Body).Decode(&requestBody); err != nil {
		helper.RespondError(w, apperrors.Validation("invalid request body"), c.cfg.IsDevelopment())
		return
	}

	order, err := c.service.UpdateStatus(ctx, restaurantID, mux.Vars(r)["order_id"], requestBody.Status)
	if err != nil {
		helper.RespondError(w, err, c.cfg.IsDevelopment())
		return
	}
	helper.RespondJSON(w, http.StatusOK, "Order status updated successfully", order)
}

func (c *OrderController) CancelOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel, restaurantID, err := c.requestScope(r)
	if err != nil {
		helper.RespondError(w, err, c.cfg.IsDevelopment())
		return
	}
	defer cancel()

	var requestBody struct {
		Reason *string `json:"reason,omitempty"`
	}
	if r.Body != nil {
		// An empty body is fine, the reason is optional.
		json.NewDecoder(r.Body).Decode(&requestBody)
	}

	order, err := c.service.Cancel(ctx, restaurantID, mux.Vars(r)["order_id"], requestBody.Reason)
	if err != nil {
		helper.RespondError(w, err, c.cfg.IsDevelopment())
		return
	}
	helper.RespondJSON(w, http.StatusOK, "Order canceled successfully", order)
}

func (c *OrderController) AddPayment(w http.ResponseWriter, r *http.Request) {
	ctx, cancel, restaurantID, err := c.requestScope(r)
	if err != nil {
		helper.RespondError(w, err, c.cfg.IsDevelopment())
		return
	}
	defer cancel()

	var payment models.Payment
	if err := json.NewDecoder(r.Body).Decode(&payment); err != nil {
		helper.RespondError(w, apperrors.Validation("invalid request body"), c.cfg.IsDevelopment())
		return
	}

	order, err := c.service.AddPayment(ctx, restaurantID, mux.Vars(r)["order_id"], payment)
	if err != nil {
		helper.RespondError(w, err, c.cfg.IsDevelopment())
		return
	}
	helper.RespondJSON(w, http.StatusOK, "Payment recorded successfully", order)
}

func (c *OrderController) GetAttentionOrders(w http.ResponseWriter, r *http.Request) {
	ctx, cancel, restaurantID, err := c.requestScope(r)
	if err != nil {
		helper.RespondError(w, err, c.cfg.IsDevelopment())
		return
	}
	defer cancel()

	orders, err := c.service.AttentionOrders(ctx, restaurantID)
	if err != nil {
		helper.RespondError(w, err, c.cfg.IsDevelopment())
		return
	}
	helper.RespondJSON(w, http.StatusOK, "Attention orders retrieved successfully", orders)
}

func (c *OrderController) GetAnalytics(w http.ResponseWriter, r *http.Request) {
	ctx, cancel, restaurantID, err := c.requestScope(r)
	if err != nil {
		helper.RespondError(w, err, c.cfg.IsDevelopment())
		return
	}
	defer cancel()

	var dateRange models.DateRange
	if from, err := time.Parse(time.RFC3339, r.URL.Query().Get("from")); err == nil {
		dateRange.From = &from
	}
	if to, err := time.Parse(time.RFC3339, r.URL.Query().Get("to")); err == nil {
		dateRange.To = &to
	}

	result, err := c.service.GetAnalytics(ctx, restaurantID, dateRange)
	if err != nil {
		helper.RespondError(w, err, c.cfg.IsDevelopment())
		return
	}
	helper.RespondJSON(w, http.StatusOK, "Analytics computed successfully", result)
}

// querySpecFromRequest maps listing query parameters onto a QuerySpec.
// status and channel accept comma-separated values and compile to `in`
// filters; from/to bound created_at.
func querySpecFromRequest(r *http.Request) models.QuerySpec {
	q := r.URL.Query()
	spec := models.QuerySpec{
		Search:    q.Get("search"),
		SortField: q.Get("sort_field"),
		SortDir:   q.Get("sort_dir"),
	}

	if page, err := strconv.ParseInt(q.Get("page"), 10, 64); err == nil {
		spec.Page = page
	}
	if limit, err := strconv.ParseInt(q.Get("recordPerPage"), 10, 64); err == nil {
		spec.Limit = limit
	}

	addEnumFilter := func(field, raw string) {
		if raw == "" {
			return
		}
		values := strings.Split(raw, ",")
		if len(values) == 1 {
			spec.Filters = append(spec.Filters, models.QueryFilter{Field: field, Op: models.OpEqual, Value: values[0]})
			return
		}
		spec.Filters = append(spec.Filters, models.QueryFilter{Field: field, Op: models.OpIn, Value: values})
	}
	addEnumFilter("status", q.Get("status"))
	addEnumFilter("channel", q.Get("channel"))
	addEnumFilter("table_id", q.Get("table_id"))

	if from, err := time.Parse(time.RFC3339, q.Get("from")); err == nil {
		spec.Filters = append(spec.Filters, models.QueryFilter{Field: "created_at", Op: models.OpGreaterEqual, Value: from})
	}
	if to, err := time.Parse(time.RFC3339, q.Get("to")); err == nil {
		spec.Filters = append(spec.Filters, models.QueryFilter{Field: "created_at", Op: models.OpLessEqual, Value: to})
	}

	return spec
}
