package routes

import (
	"net/http"

	"github.com/gorilla/mux"

	controller "github.com/restrolabs/Restro_Ordering_Backend/controllers"
)

func UserPublicRoutes(router *mux.Router, auth *controller.AuthController) {
	router.HandleFunc("/users/signup", auth.SignUp).Methods(http.MethodPost)
	router.HandleFunc("/users/login", auth.Login).Methods(http.MethodPost)
}
