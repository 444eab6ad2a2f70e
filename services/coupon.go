package services

import (
	"context"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/restrolabs/Restro_Ordering_Backend/apperrors"
	"github.com/restrolabs/Restro_Ordering_Backend/helper"
	"github.com/restrolabs/Restro_Ordering_Backend/models"
	"github.com/restrolabs/Restro_Ordering_Backend/repository"
)

// Coupon rejection reasons, in the order they are checked. The first failed
// check wins: an inactive coupon that is also expired reports INACTIVE.
const (
	CouponNotFound     = "NOT_FOUND"
	CouponInactive     = "INACTIVE"
	CouponNotYetValid  = "NOT_YET_VALID"
	CouponExpired      = "EXPIRED"
	CouponBelowMinimum = "BELOW_MINIMUM"
)

// CouponValidation is the outcome of validating one code against one
// subtotal at one instant. Validation is a total function: exactly one of
// Valid or Reason is set.
type CouponValidation struct {
	Valid    bool           `json:"valid"`
	Coupon   *models.Coupon `json:"coupon,omitempty"`
	Discount int64          `json:"discount"`
	Reason   string         `json:"reason,omitempty"`
	Message  string         `json:"message,omitempty"`
}

type CouponService struct {
	store DocumentStore
	log   *logrus.Logger
}

func NewCouponService(store DocumentStore, log *logrus.Logger) *CouponService {
	return &CouponService{store: store, log: log}
}

// NormalizeCode upper-cases and trims a coupon code; codes are
// case-insensitive and stored canonically upper-cased.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Validate looks up code and evaluates its applicability to subtotal at now.
// A rejected coupon is a normal result, not an error; errors are reserved
// for store failures.
func (s *CouponService) Validate(ctx context.Context, restaurantID, code string, subtotal int64, now time.Time) (*CouponValidation, error) {
	code = NormalizeCode(code)

	var coupons []models.Coupon
	filters := []repository.Filter{{Field: "code", Op: models.OpEqual, Value: code}}
	if err := s.store.FindWhere(ctx, restaurantID, filters, nil, 1, &coupons); err != nil {
		return nil, apperrors.Store(err, "failed to look up coupon %s", code)
	}

	if len(coupons) == 0 {
		return &CouponValidation{Reason: CouponNotFound, Message: "coupon not found"}, nil
	}
	coupon := coupons[0]

	if !coupon.Active {
		return &CouponValidation{Reason: CouponInactive, Message: "coupon is not active"}, nil
	}
	if now.Before(coupon.Valid_from) {
		return &CouponValidation{Reason: CouponNotYetValid, Message: "coupon is not valid yet"}, nil
	}
	if now.After(coupon.Valid_to) {
		return &CouponValidation{Reason: CouponExpired, Message: "coupon has expired"}, nil
	}
	if coupon.Min_subtotal != nil && subtotal < *coupon.Min_subtotal {
		return &CouponValidation{
			Reason:  CouponBelowMinimum,
			Message: "order subtotal is below the coupon minimum of " + helper.FormatMinor(*coupon.Min_subtotal),
		}, nil
	}

	s.log.WithFields(logrus.Fields{
		"component":     "coupon",
		"restaurant_id": restaurantID,
		"code":          code,
	}).Debug("coupon validated")

	return &CouponValidation{
		Valid:    true,
		Coupon:   &coupon,
		Discount: DiscountFor(&coupon, subtotal),
	}, nil
}

// DiscountFor computes the discount a coupon grants on subtotal: percent
// coupons round half up, fixed coupons grant their face value. The result
// is capped at the subtotal so a total can never go negative.
func DiscountFor(coupon *models.Coupon, subtotal int64) int64 {
	var discount int64
	switch coupon.Type {
	case models.CouponPercent:
		discount = (subtotal*coupon.Value + 50) / 100
	case models.CouponFixed:
		discount = coupon.Value
	}
	if discount > subtotal {
		discount = subtotal
	}
	return discount
}
