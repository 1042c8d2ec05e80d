package auth

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/quickplate/quickplate-backend/pkg/config"
)

var jwtSigningMethod = jwt.SigningMethodHS256

func checkConfig(cfg config.JWTConfig) error {
	switch {
	case cfg.Secret == "":
		return fmt.Errorf("jwt secret is required")
	case cfg.Issuer == "":
		return fmt.Errorf("jwt issuer is required")
	case cfg.ExpirationMinutes <= 0:
		return fmt.Errorf("jwt expiration minutes must be positive")
	}
	return nil
}

// MintAccessToken issues a signed JWT for the provided payload using the configured TTL.
func MintAccessToken(cfg config.JWTConfig, now time.Time, payload AccessTokenPayload) (string, error) {
	if err := checkConfig(cfg); err != nil {
		return "", err
	}
	if !payload.Role.IsValid() {
		return "", fmt.Errorf("invalid user role %q", payload.Role)
	}

	jti := strings.TrimSpace(payload.JTI)
	if jti == "" {
		jti = uuid.NewString()
	}

	token := jwt.NewWithClaims(jwtSigningMethod, AccessTokenClaims{
		UserID:       payload.UserID,
		Role:         payload.Role,
		RestaurantID: payload.RestaurantID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(cfg.Expiration())),
			ID:        jti,
		},
	})
	signed, err := token.SignedString([]byte(cfg.Secret))
	if err != nil {
		return "", fmt.Errorf("signing jwt: %w", err)
	}
	return signed, nil
}

// ParseAccessToken validates the JWT string and returns typed claims.
func ParseAccessToken(cfg config.JWTConfig, tokenString string) (*AccessTokenClaims, error) {
	if cfg.Secret == "" {
		return nil, fmt.Errorf("jwt secret is required")
	}

	keyFunc := func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwtSigningMethod {
			return nil, fmt.Errorf("unexpected signing method %s", token.Header["alg"])
		}
		return []byte(cfg.Secret), nil
	}

	claims := &AccessTokenClaims{}
	if _, err := jwt.ParseWithClaims(tokenString, claims, keyFunc,
		jwt.WithValidMethods([]string{jwtSigningMethod.Alg()}),
		jwt.WithIssuer(cfg.Issuer),
	); err != nil {
		return nil, err
	}
	return claims, nil
}
