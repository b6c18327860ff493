package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt"
)

type JWTServiceInterface interface {
	GenerateJWT(actorID int, actorType string, expirationTime time.Time) (string, error)
	ValidateToken(tokenString string) (*Claims, error)
}

var secretKey = []byte("your-secret-key")

type Claims struct {
	ActorID   int    `json:"actor_id"`
	ActorType string `json:"actor_type"`
	jwt.StandardClaims
}

type JWTService struct{}

func (s *JWTService) GenerateJWT(actorID int, actorType string, expirationTime time.Time) (string, error) {
	claims := Claims{
		ActorID:   actorID,
		ActorType: actorType,
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: expirationTime.Unix(),
			Issuer:    "pishatto-engine",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secretKey)
}

func (s *JWTService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return secretKey, nil
	})
	if err != nil || !token.Valid {
		return nil, errors.New("invalid token")
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.ActorID == 0 || claims.Issuer != "pishatto-engine" {
		return nil, errors.New("invalid token claims")
	}

	return claims, nil
}
