package auth

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/mintfolio/go-marketplace/env"
	"github.com/mintfolio/go-marketplace/service/persist"
)

type authClaims struct {
	Address persist.Address `json:"address"`
	jwt.RegisteredClaims
}

// GenerateAuthToken issues a signed token binding the session to a verified
// wallet address
func GenerateAuthToken(ctx context.Context, address persist.Address) (string, error) {
	secret := env.GetString("JWT_SECRET")
	validFor := time.Duration(env.GetInt64("JWT_TTL")) * time.Second

	claims := authClaims{
		Address:          address,
		RegisteredClaims: newRegisteredClaims(validFor),
	}

	return generateJWT(claims, secret)
}

// ParseAuthToken returns the wallet address a token was issued for
func ParseAuthToken(ctx context.Context, token string) (persist.Address, error) {
	claims := authClaims{}
	parsedToken, err := jwt.ParseWithClaims(token, &claims, keyFunc(env.GetString("JWT_SECRET")))

	if err != nil || !parsedToken.Valid {
		return "", ErrInvalidJWT
	}

	return claims.Address, nil
}

func newRegisteredClaims(validFor time.Duration) jwt.RegisteredClaims {
	return jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(validFor)),
		Issuer:    "mintfolio",
	}
}

func generateJWT(claims jwt.Claims, jwtSecret string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	jwtToken, err := token.SignedString([]byte(jwtSecret))
	if err != nil {
		return "", err
	}

	return jwtToken, nil
}

func keyFunc(secret string) jwt.Keyfunc {
	return func(*jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}
}
