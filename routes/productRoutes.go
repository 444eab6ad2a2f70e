package routes

import (
	"net/http"

	"github.com/gorilla/mux"

	controller "github.com/restrolabs/Restro_Ordering_Backend/controllers"
)

// ProductPublicRoutes expose the catalog for browsing.
func ProductPublicRoutes(router *mux.Router, products *controller.ProductController) {
	router.HandleFunc("/products", products.GetProducts).Methods(http.MethodGet)
	router.HandleFunc("/products/{product_id}", products.GetProduct).Methods(http.MethodGet)
}

func ProductProtectedRoutes(router *mux.Router, products *controller.ProductController) {
	router.HandleFunc("/products", products.CreateProduct).Methods(http.MethodPost)
	router.HandleFunc("/products/{product_id}", products.UpdateProduct).Methods(http.MethodPatch)
	router.HandleFunc("/products/{product_id}", products.DeleteProduct).Methods(http.MethodDelete)
	router.HandleFunc("/products/{product_id}/highlight", products.ToggleHighlight).Methods(http.MethodPatch)
}
