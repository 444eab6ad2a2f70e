package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/restrolabs/Restro_Ordering_Backend/apperrors"
	database "github.com/restrolabs/Restro_Ordering_Backend/config"
	"github.com/restrolabs/Restro_Ordering_Backend/helper"
	"github.com/restrolabs/Restro_Ordering_Backend/models"
	"github.com/restrolabs/Restro_Ordering_Backend/repository"
	"github.com/restrolabs/Restro_Ordering_Backend/services"
)

type ProductController struct {
	store services.DocumentStore
	cfg   *database.AppConfig
}

func NewProductController(store services.DocumentStore, cfg *database.AppConfig) *ProductController {
	return &ProductController{store: store, cfg: cfg}
}

func (c *ProductController) CreateProduct(w http.ResponseWriter, r *http.Request) {
	restaurantID := helper.RestaurantID(r)
	if restaurantID == "" {
		helper.RespondError(w, apperrors.Validation("X-Restaurant-ID header is required"), c.cfg.IsDevelopment())
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	var product models.Product
	if err := json.NewDecoder(r.Body).Decode(&product); err != nil {
		helper.RespondError(w, apperrors.Validation("invalid request body"), c.cfg.IsDevelopment())
		return
	}
	if validationErr := validate.StructExcept(product, "Options"); validationErr != nil {
		helper.RespondError(w, apperrors.Validation("%s", validationErr.Error()), c.cfg.IsDevelopment())
		return
	}

	for i := range product.Options {
		if product.Options[i].Option_id == "" {
			product.Options[i].Option_id = uuid.NewString()
		}
	}

	product.ID = primitive.NewObjectID()
	product.Product_id = product.ID.Hex()
	product.Restaurant_id = restaurantID
	product.Created_at = time.Now().UTC()
	product.Updated_at = product.Created_at

	if _, err := c.store.Create(ctx, product); err != nil {
		helper.RespondError(w, apperrors.Store(err, "failed to create product"), c.cfg.IsDevelopment())
		return
	}
	helper.RespondJSON(w, http.StatusCreated, "Product created successfully", product)
}

// GetProducts lists the catalog sorted by position ascending, the catalog
// listing default.
func (c *ProductController) GetProducts(w http.ResponseWriter, r *http.Request) {
	restaurantID := helper.RestaurantID(r)
	if restaurantID == "" {
		helper.RespondError(w, apperrors.Validation("X-Restaurant-ID header is required"), c.cfg.IsDevelopment())
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	var filters []repository.Filter
	if r.URL.Query().Get("available") == "true" {
		filters = append(filters, repository.Filter{Field: "available", Op: models.OpEqual, Value: true})
	}

	var products []models.Product
	sort := repository.Sort{Field: services.DefaultCatalogSort, Descending: false}
	if err := c.store.FindWhere(ctx, restaurantID, filters, &sort, 0, &products); err != nil {
		helper.RespondError(w, apperrors.Store(err, "failed to list products"), c.cfg.IsDevelopment())
		return
	}
	if products == nil {
		products = []models.Product{}
	}
	helper.RespondJSON(w, http.StatusOK, "Products retrieved successfully", products)
}

func (c *ProductController) GetProduct(w http.ResponseWriter, r *http.Request) {
	restaurantID := helper.RestaurantID(r)
	if restaurantID == "" {
		helper.RespondError(w, apperrors.Validation("X-Restaurant-ID header is required"), c.cfg.IsDevelopment())
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	var product models.Product
	err := c.store.FindByID(ctx, restaurantID, mux.Vars(r)["product_id"], &product)
	if err == repository.ErrNotFound {
		helper.RespondError(w, apperrors.NotFound("product not found"), c.cfg.IsDevelopment())
		return
	}
	if err != nil {
		helper.RespondError(w, apperrors.Store(err, "failed to load product"), c.cfg.IsDevelopment())
		return
	}
	helper.RespondJSON(w, http.StatusOK, "Product retrieved successfully", product)
}

func (c *ProductController) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	restaurantID := helper.RestaurantID(r)
	if restaurantID == "" {
		helper.RespondError(w, apperrors.Validation("X-Restaurant-ID header is required"), c.cfg.IsDevelopment())
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	var requestBody struct {
		Name        *string `json:"name,omitempty"`
		Description *string `json:"description,omitempty"`
		Price       *int64  `json:"price,omitempty"`
		Position    *int64  `json:"position,omitempty"`
		Available   *bool   `json:"available,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&requestBody); err != nil {
		helper.RespondError(w, apperrors.Validation("invalid request body"), c.cfg.IsDevelopment())
		return
	}

	partial := bson.M{}
	if requestBody.Name != nil {
		partial["name"] = *requestBody.Name
	}
	if requestBody.Description != nil {
		partial["description"] = *requestBody.Description
	}
	if requestBody.Price != nil {
		if *requestBody.Price < 0 {
			helper.RespondError(w, apperrors.Validation("price must not be negative"), c.cfg.IsDevelopment())
			return
		}
		partial["price"] = *requestBody.Price
	}
	if requestBody.Position != nil {
		partial["position"] = *requestBody.Position
	}
	if requestBody.Available != nil {
		partial["available"] = *requestBody.Available
	}
	if len(partial) == 0 {
		helper.RespondError(w, apperrors.Validation("no fields to update"), c.cfg.IsDevelopment())
		return
	}
	partial["updated_at"] = time.Now().UTC()

	productID := mux.Vars(r)["product_id"]
	err := c.store.Update(ctx, restaurantID, productID, partial)
	if err == repository.ErrNotFound {
		helper.RespondError(w, apperrors.NotFound("product not found"), c.cfg.IsDevelopment())
		return
	}
	if err != nil {
		helper.RespondError(w, apperrors.Store(err, "failed to update product"), c.cfg.IsDevelopment())
		return
	}

	var product models.Product
	if err := c.store.FindByID(ctx, restaurantID, productID, &product); err != nil {
		helper.RespondError(w, apperrors.Store(err, "failed to load updated product"), c.cfg.IsDevelopment())
		return
	}
	helper.RespondJSON(w, http.StatusOK, "Product updated successfully", product)
}

func (c *ProductController) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	restaurantID := helper.RestaurantID(r)
	if restaurantID == "" {
		helper.RespondError(w, apperrors.Validation("X-Restaurant-ID header is required"), c.cfg.IsDevelopment())
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	err := c.store.Delete(ctx, restaurantID, mux.Vars(r)["product_id"])
	if err == repository.ErrNotFound {
		helper.RespondError(w, apperrors.NotFound("product not found"), c.cfg.IsDevelopment())
		return
	}
	if err != nil {
		helper.RespondError(w, apperrors.Store(err, "failed to delete product"), c.cfg.IsDevelopment())
		return
	}
	helper.RespondJSON(w, http.StatusOK, "Product deleted successfully", nil)
}

// ToggleHighlight flips the highlighted flag with a server-side atomic
// update; two concurrent toggles land as two flips, not last-writer-wins.
func (c *ProductController) ToggleHighlight(w http.ResponseWriter, r *http.Request) {
	restaurantID := helper.RestaurantID(r)
	if restaurantID == "" {
		helper.RespondError(w, apperrors.Validation("X-Restaurant-ID header is required"), c.cfg.IsDevelopment())
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	productID := mux.Vars(r)["product_id"]
	err := c.store.Toggle(ctx, restaurantID, productID, "highlighted")
	if err == repository.ErrNotFound {
		helper.RespondError(w, apperrors.NotFound("product not found"), c.cfg.IsDevelopment())
		return
	}
	if err != nil {
		helper.RespondError(w, apperrors.Store(err, "failed to toggle highlight"), c.cfg.IsDevelopment())
		return
	}

	var product models.Product
	if err := c.store.FindByID(ctx, restaurantID, productID, &product); err != nil {
		helper.RespondError(w, apperrors.Store(err, "failed to load updated product"), c.cfg.IsDevelopment())
		return
	}
	helper.RespondJSON(w, http.StatusOK, "Product highlight toggled", product)
}
