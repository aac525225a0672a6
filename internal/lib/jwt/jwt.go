package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/BariVakhidov/guestlist/internal/domain/models"
)

var ErrInvalidToken = errors.New("invalid token")

type operatorClaims struct {
	Name string `json:"name"`
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// NewToken signs a bearer token for an operator.
func NewToken(operator models.Operator, secret string, duration time.Duration) (string, error) {
	now := time.Now()
	claims := operatorClaims{
		Name: operator.Name,
		Role: string(operator.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   operator.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(duration)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// ParseToken validates tokenString and returns the operator it was issued to.
func ParseToken(tokenString, secret string) (models.Operator, error) {
	var claims operatorClaims

	_, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return models.Operator{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	if claims.Subject == "" {
		return models.Operator{}, fmt.Errorf("%w: empty subject", ErrInvalidToken)
	}

	return models.Operator{
		ID:   claims.Subject,
		Name: claims.Name,
		Role: models.Role(claims.Role),
	}, nil
}
