package routes

import (
	"net/http"

	"github.com/gorilla/mux"

	controller "github.com/restrolabs/Restro_Ordering_Backend/controllers"
)

// OrderPublicRoutes are the customer-facing order endpoints.
func OrderPublicRoutes(router *mux.Router, orders *controller.OrderController) {
	router.HandleFunc("/orders", orders.CreateOrder).Methods(http.MethodPost)
	router.HandleFunc("/orders/{order_id}", orders.GetOrderById).Methods(http.MethodGet)
}

// OrderProtectedRoutes are the staff-facing order endpoints.
func OrderProtectedRoutes(router *mux.Router, orders *controller.OrderController) {
	router.HandleFunc("/orders", orders.GetOrders).Methods(http.MethodGet)
	router.HandleFunc("/orders/feed", orders.GetOrdersFeed).Methods(http.MethodGet)
	router.HandleFunc("/orders/attention", orders.GetAttentionOrders).Methods(http.MethodGet)

	router.HandleFunc("/orders/{order_id}/status", orders.UpdateOrderStatus).Methods(http.MethodPatch)
	router.HandleFunc("/orders/{order_id}/cancel", orders.CancelOrder).Methods(http.MethodPost)
	router.HandleFunc("/orders/{order_id}/payments", orders.AddPayment).Methods(http.MethodPost)

	router.HandleFunc("/analytics", orders.GetAnalytics).Methods(http.MethodGet)
}
