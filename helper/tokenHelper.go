package helper

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SignedDetails are the claims carried by staff access tokens.
type SignedDetails struct {
	Email         string `json:"email"`
	First_name    string `json:"first_name"`
	Last_name     string `json:"last_name"`
	Uid           string `json:"uid"`
	Restaurant_id string `json:"restaurant_id"`
	jwt.RegisteredClaims
}

// GenerateAllTokens creates the JWT access and refresh token pair.
func GenerateAllTokens(secretKey, email, firstName, lastName, uid, restaurantID string) (signedToken string, signedRefreshToken string, err error) {
	claims := &SignedDetails{
		Email:         email,
		First_name:    firstName,
		Last_name:     lastName,
		Uid:           uid,
		Restaurant_id: restaurantID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
		},
	}

	refreshClaims := &SignedDetails{
		Uid: uid,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(168 * time.Hour)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err = token.SignedString([]byte(secretKey))
	if err != nil {
		return "", "", err
	}

	refreshToken := jwt.NewWithClaims(jwt.SigningMethodHS256, refreshClaims)
	signedRefreshToken, err = refreshToken.SignedString([]byte(secretKey))
	if err != nil {
		return "", "", err
	}

	return signedToken, signedRefreshToken, nil
}

// ValidateToken checks that a JWT is valid and not expired.
func ValidateToken(secretKey, signedToken string) (*SignedDetails, string) {
	token, err := jwt.ParseWithClaims(
		signedToken,
		&SignedDetails{},
		func(token *jwt.Token) (interface{}, error) {
			return []byte(secretKey), nil
		},
	)

	if err != nil {
		return nil, fmt.Sprintf("token parsing error: %v", err)
	}

	claims, ok := token.Claims.(*SignedDetails)
	if !ok || !token.Valid {
		return nil, "the token is invalid"
	}

	if claims.ExpiresAt.Time.Before(time.Now()) {
		return nil, "token is expired"
	}

	return claims, ""
}
