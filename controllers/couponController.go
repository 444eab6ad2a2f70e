package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/restrolabs/Restro_Ordering_Backend/apperrors"
	database "github.com/restrolabs/Restro_Ordering_Backend/config"
	"github.com/restrolabs/Restro_Ordering_Backend/helper"
	"github.com/restrolabs/Restro_Ordering_Backend/models"
	"github.com/restrolabs/Restro_Ordering_Backend/repository"
	"github.com/restrolabs/Restro_Ordering_Backend/services"
)

type CouponController struct {
	store   services.DocumentStore
	service *services.CouponService
	cfg     *database.AppConfig
}

func NewCouponController(store services.DocumentStore, service *services.CouponService, cfg *database.AppConfig) *CouponController {
	return &CouponController{store: store, service: service, cfg: cfg}
}

func (c *CouponController) CreateCoupon(w http.ResponseWriter, r *http.Request) {
	restaurantID := helper.RestaurantID(r)
	if restaurantID == "" {
		helper.RespondError(w, apperrors.Validation("X-Restaurant-ID header is required"), c.cfg.IsDevelopment())
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	var coupon models.Coupon
	if err := json.NewDecoder(r.Body).Decode(&coupon); err != nil {
		helper.RespondError(w, apperrors.Validation("invalid request body"), c.cfg.IsDevelopment())
		return
	}
	coupon.Code = services.NormalizeCode(coupon.Code)
	if validationErr := validate.Struct(coupon); validationErr != nil {
		helper.RespondError(w, apperrors.Validation("%s", validationErr.Error()), c.cfg.IsDevelopment())
		return
	}

	// Codes are unique per restaurant.
	count, err := c.store.Count(ctx, restaurantID, []repository.Filter{
		{Field: "code", Op: models.OpEqual, Value: coupon.Code},
	})
	if err != nil {
		helper.RespondError(w, apperrors.Store(err, "failed to check coupon code"), c.cfg.IsDevelopment())
		return
	}
	if count > 0 {
		helper.RespondError(w, apperrors.Conflict("coupon code %s already exists", coupon.Code), c.cfg.IsDevelopment())
		return
	}

	coupon.ID = primitive.NewObjectID()
	coupon.Coupon_id = uuid.NewString()
	coupon.Restaurant_id = restaurantID
	coupon.Created_at = time.Now().UTC()
	coupon.Updated_at = coupon.Created_at

	if _, err := c.store.Create(ctx, coupon); err != nil {
		helper.RespondError(w, apperrors.Store(err, "failed to create coupon"), c.cfg.IsDevelopment())
		return
	}
	helper.RespondJSON(w, http.StatusCreated, "Coupon created successfully", coupon)
}

func (c *CouponController) GetCoupons(w http.ResponseWriter, r *http.Request) {
	restaurantID := helper.RestaurantID(r)
	if restaurantID == "" {
		helper.RespondError(w, apperrors.Validation("X-Restaurant-ID header is required"), c.cfg.IsDevelopment())
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	var coupons []models.Coupon
	sort := repository.Sort{Field: "created_at", Descending: true}
	if err := c.store.FindWhere(ctx, restaurantID, nil, &sort, 0, &coupons); err != nil {
		helper.RespondError(w, apperrors.Store(err, "failed to list coupons"), c.cfg.IsDevelopment())
		return
	}
	if coupons == nil {
		coupons = []models.Coupon{}
	}
	helper.RespondJSON(w, http.StatusOK, "Coupons retrieved successfully", coupons)
}

// ValidateCoupon checks a code against a subtotal at the current time. A
// rejected coupon is a successful response with valid=false and a reason.
func (c *CouponController) ValidateCoupon(w http.ResponseWriter, r *http.Request) {
	restaurantID := helper.RestaurantID(r)
	if restaurantID == "" {
		helper.RespondError(w, apperrors.Validation("X-Restaurant-ID header is required"), c.cfg.IsDevelopment())
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	var requestBody struct {
		Code     string `json:"code" validate:"required"`
		Subtotal int64  `json:"subtotal" validate:"gte=0"`
	}
	if err := json.NewDecoder(r.Body).Decode(&requestBody); err != nil {
		helper.RespondError(w, apperrors.Validation("invalid request body"), c.cfg.IsDevelopment())
		return
	}
	if requestBody.Code == "" {
		helper.RespondError(w, apperrors.Validation("coupon code is required"), c.cfg.IsDevelopment())
		return
	}

	result, err := c.service.Validate(ctx, restaurantID, requestBody.Code, requestBody.Subtotal, time.Now().UTC())
	if err != nil {
		helper.RespondError(w, err, c.cfg.IsDevelopment())
		return
	}
	helper.RespondJSON(w, http.StatusOK, "Coupon validated", result)
}
