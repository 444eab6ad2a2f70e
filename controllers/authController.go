package controller

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"github.com/restrolabs/Restro_Ordering_Backend/apperrors"
	database "github.com/restrolabs/Restro_Ordering_Backend/config"
	"github.com/restrolabs/Restro_Ordering_Backend/helper"
	"github.com/restrolabs/Restro_Ordering_Backend/models"
	"github.com/restrolabs/Restro_Ordering_Backend/repository"
	"github.com/restrolabs/Restro_Ordering_Backend/services"
)

// AuthController handles staff signup and login. Customers never have
// accounts; ordering is open, staff endpoints are protected.
type AuthController struct {
	store services.DocumentStore
	cfg   *database.AppConfig
}

func NewAuthController(store services.DocumentStore, cfg *database.AppConfig) *AuthController {
	return &AuthController{store: store, cfg: cfg}
}

func HashPassword(password string) string {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), 14)
	if err != nil {
		log.Panic(err)
	}
	return string(bytes)
}

func VerifyPassword(hashedPassword, providedPassword string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(providedPassword))
	return err == nil
}

func (c *AuthController) SignUp(w http.ResponseWriter, r *http.Request) {
	restaurantID := helper.RestaurantID(r)
	if restaurantID == "" {
		helper.RespondError(w, apperrors.Validation("X-Restaurant-ID header is required"), c.cfg.IsDevelopment())
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	var user models.User
	if err := json.NewDecoder(r.Body).Decode(&user); err != nil {
		helper.RespondError(w, apperrors.Validation("invalid request body"), c.cfg.IsDevelopment())
		return
	}
	if validationErr := validate.Struct(user); validationErr != nil {
		helper.RespondError(w, apperrors.Validation("%s", validationErr.Error()), c.cfg.IsDevelopment())
		return
	}

	count, err := c.store.Count(ctx, restaurantID, []repository.Filter{
		{Field: "email", Op: models.OpEqual, Value: user.Email},
	})
	if err != nil {
		helper.RespondError(w, apperrors.Store(err, "failed to check email"), c.cfg.IsDevelopment())
		return
	}
	if count > 0 {
		helper.RespondError(w, apperrors.Conflict("email already exists"), c.cfg.IsDevelopment())
		return
	}

	password := HashPassword(*user.Password)
	user.Password = &password
	user.ID = primitive.NewObjectID()
	user.User_id = user.ID.Hex()
	user.Restaurant_id = restaurantID
	user.Created_at = time.Now().UTC()
	user.Updated_at = user.Created_at

	token, refreshToken, err := helper.GenerateAllTokens(c.cfg.SecretKey, *user.Email, *user.First_name, *user.Last_name, user.User_id, restaurantID)
	if err != nil {
		helper.RespondError(w, apperrors.Store(err, "failed to generate tokens"), c.cfg.IsDevelopment())
		return
	}
	user.Token = &token
	user.Refresh_token = &refreshToken

	if _, err := c.store.Create(ctx, user); err != nil {
		helper.RespondError(w, apperrors.Store(err, "failed to create user"), c.cfg.IsDevelopment())
		return
	}

	user.Password = nil
	helper.RespondJSON(w, http.StatusCreated, "User created successfully", user)
}

func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	restaurantID := helper.RestaurantID(r)
	if restaurantID == "" {
		helper.RespondError(w, apperrors.Validation("X-Restaurant-ID header is required"), c.cfg.IsDevelopment())
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	var requestBody struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}
	if err := json.NewDecoder(r.Body).Decode(&requestBody); err != nil {
		helper.RespondError(w, apperrors.Validation("invalid request body"), c.cfg.IsDevelopment())
		return
	}

	var users []models.User
	filters := []repository.Filter{{Field: "email", Op: models.OpEqual, Value: requestBody.Email}}
	if err := c.store.FindWhere(ctx, restaurantID, filters, nil, 1, &users); err != nil {
		helper.RespondError(w, apperrors.Store(err, "failed to look up user"), c.cfg.IsDevelopment())
		return
	}
	if len(users) == 0 || users[0].Password == nil || !VerifyPassword(*users[0].Password, requestBody.Password) {
		helper.RespondError(w, apperrors.Validation("email or password is incorrect"), c.cfg.IsDevelopment())
		return
	}
	user := users[0]

	token, refreshToken, err := helper.GenerateAllTokens(c.cfg.SecretKey, *user.Email, *user.First_name, *user.Last_name, user.User_id, restaurantID)
	if err != nil {
		helper.RespondError(w, apperrors.Store(err, "failed to generate tokens"), c.cfg.IsDevelopment())
		return
	}

	err = c.store.Update(ctx, restaurantID, user.User_id, bson.M{
		"token":         token,
		"refresh_token": refreshToken,
		"updated_at":    time.Now().UTC(),
	})
	if err != nil {
		helper.RespondError(w, apperrors.Store(err, "failed to store tokens"), c.cfg.IsDevelopment())
		return
	}

	user.Token = &token
	user.Refresh_token = &refreshToken
	user.Password = nil
	helper.RespondJSON(w, http.StatusOK, "Login successful", user)
}
