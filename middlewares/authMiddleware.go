package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	helper "github.com/restrolabs/Restro_Ordering_Backend/helper"
)

// Context keys to store staff information.
type contextKey string

const (
	EmailKey        contextKey = "email"
	FirstNameKey    contextKey = "first_name"
	LastNameKey     contextKey = "last_name"
	UidKey          contextKey = "uid"
	RestaurantIDKey contextKey = "restaurant_id"
)

// Authentication validates the Bearer token and stores the staff claims in
// the request context.
func Authentication(secretKey string) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			clientToken := r.Header.Get("Authorization")
			if clientToken == "" {
				http.Error(w, "No Authorization header provided", http.StatusUnauthorized)
				return
			}

			tokenParts := strings.Split(clientToken, " ")
			if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
				http.Error(w, "Invalid Authorization format", http.StatusUnauthorized)
				return
			}

			claims, errMsg := helper.ValidateToken(secretKey, tokenParts[1])
			if errMsg != "" {
				http.Error(w, errMsg, http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), EmailKey, claims.Email)
			ctx = context.WithValue(ctx, FirstNameKey, claims.First_name)
			ctx = context.WithValue(ctx, LastNameKey, claims.Last_name)
			ctx = context.WithValue(ctx, UidKey, claims.Uid)
			ctx = context.WithValue(ctx, RestaurantIDKey, claims.Restaurant_id)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUserFromContext retrieves staff data from the request context.
func GetUserFromContext(r *http.Request) (email, firstName, lastName, uid string) {
	email, _ = r.Context().Value(EmailKey).(string)
	firstName, _ = r.Context().Value(FirstNameKey).(string)
	lastName, _ = r.Context().Value(LastNameKey).(string)
	uid, _ = r.Context().Value(UidKey).(string)
	return
}
