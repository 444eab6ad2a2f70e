package routes

import (
	"net/http"

	"github.com/gorilla/mux"

	controller "github.com/restrolabs/Restro_Ordering_Backend/controllers"
)

// CouponPublicRoutes lets the cart validate a code before submitting.
func CouponPublicRoutes(router *mux.Router, coupons *controller.CouponController) {
	router.HandleFunc("/coupons/validate", coupons.ValidateCoupon).Methods(http.MethodPost)
}

func CouponProtectedRoutes(router *mux.Router, coupons *controller.CouponController) {
	router.HandleFunc("/coupons", coupons.CreateCoupon).Methods(http.MethodPost)
	router.HandleFunc("/coupons", coupons.GetCoupons).Methods(http.MethodGet)
}
