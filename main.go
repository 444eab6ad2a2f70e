package main

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	database "github.com/restrolabs/Restro_Ordering_Backend/config"
	controller "github.com/restrolabs/Restro_Ordering_Backend/controllers"
	middleware "github.com/restrolabs/Restro_Ordering_Backend/middlewares"
	"github.com/restrolabs/Restro_Ordering_Backend/notifier"
	"github.com/restrolabs/Restro_Ordering_Backend/repository"
	"github.com/restrolabs/Restro_Ordering_Backend/routes"
	"github.com/restrolabs/Restro_Ordering_Backend/services"
)

func main() {
	database.LoadEnv()
	cfg := database.LoadConfig()

	log := logrus.New()
	if cfg.IsDevelopment() {
		log.SetLevel(logrus.DebugLevel)
	} else {
		log.SetFormatter(&logrus.JSONFormatter{})
	}

	ctx := context.Background()
	client, err := database.Connect(ctx, cfg.MongoURI)
	if err != nil {
		log.WithError(err).Fatal("failed to connect to MongoDB")
	}
	defer client.Disconnect(ctx)
	log.Info("connected to MongoDB")

	orderRepo := repository.New(database.OpenCollection(client, cfg.DatabaseName, "order"), "order_id")
	couponRepo := repository.New(database.OpenCollection(client, cfg.DatabaseName, "coupon"), "coupon_id")
	productRepo := repository.New(database.OpenCollection(client, cfg.DatabaseName, "product"), "product_id")
	userRepo := repository.New(database.OpenCollection(client, cfg.DatabaseName, "user"), "user_id")

	var events services.EventPublisher
	if cfg.AmqpURL != "" {
		amqpNotifier, err := notifier.Connect(cfg.AmqpURL, log)
		if err != nil {
			log.WithError(err).Fatal("failed to connect to RabbitMQ")
		}
		defer amqpNotifier.Close()
		events = amqpNotifier
	}

	couponService := services.NewCouponService(couponRepo, log)
	orderService := services.NewOrderService(orderRepo, productRepo, couponService, events, log, cfg.AttentionThreshold)

	orderController := controller.NewOrderController(orderService, cfg)
	couponController := controller.NewCouponController(couponRepo, couponService, cfg)
	productController := controller.NewProductController(productRepo, cfg)
	authController := controller.NewAuthController(userRepo, cfg)

	router := mux.NewRouter()
	router.Use(middleware.Metrics)

	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		if err := client.Ping(r.Context(), readpref.Primary()); err != nil {
			http.Error(w, `{"status": "unhealthy"}`, http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status": "ok"}`))
	}).Methods(http.MethodGet)

	// Staff routes behind JWT authentication. Registered first so the
	// literal paths (/orders/feed, /orders/attention) win over the public
	// /orders/{order_id} wildcard.
	securedRoutes := router.PathPrefix("/").Subrouter()
	securedRoutes.Use(middleware.Authentication(cfg.SecretKey))
	routes.OrderProtectedRoutes(securedRoutes, orderController)
	routes.CouponProtectedRoutes(securedRoutes, couponController)
	routes.ProductProtectedRoutes(securedRoutes, productController)

	// Public routes (no authentication).
	routes.UserPublicRoutes(router, authController)
	routes.OrderPublicRoutes(router, orderController)
	routes.CouponPublicRoutes(router, couponController)
	routes.ProductPublicRoutes(router, productController)

	log.WithField("port", cfg.Port).Info("server running")
	if err := http.ListenAndServe(":"+cfg.Port, router); err != nil {
		log.WithError(err).Fatal("server stopped")
	}
}
