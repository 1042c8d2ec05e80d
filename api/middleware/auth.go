package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/quickplate/quickplate-backend/api/responses"
	pkgauth "github.com/quickplate/quickplate-backend/pkg/auth"
	"github.com/quickplate/quickplate-backend/pkg/config"
	pkgerrors "github.com/quickplate/quickplate-backend/pkg/errors"
	"github.com/quickplate/quickplate-backend/pkg/logger"
)

func bearerToken(r *http.Request) string {
	raw := strings.TrimSpace(r.Header.Get("Authorization"))
	if strings.HasPrefix(strings.ToLower(raw), "bearer ") {
		return strings.TrimSpace(raw[len("bearer "):])
	}
	return raw
}

// Auth validates a bearer token and seeds the request context with the claims.
func Auth(cfg config.JWTConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			claims, err := pkgauth.ParseAccessToken(cfg, token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
				return
			}

			ctx := withClaims(r.Context(), claims)
			if logg != nil {
				fields := map[string]any{
					"user_id":    claims.UserID.String(),
					"actor_role": string(claims.Role),
				}
				if claims.RestaurantID != nil {
					fields["restaurant_id"] = claims.RestaurantID.String()
				}
				ctx = logg.WithFields(ctx, fields)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func withClaims(ctx context.Context, claims *pkgauth.AccessTokenClaims) context.Context {
	ctx = context.WithValue(ctx, ctxUserID, claims.UserID.String())
	ctx = context.WithValue(ctx, ctxRole, string(claims.Role))
	if claims.RestaurantID != nil {
		ctx = context.WithValue(ctx, ctxRestaurantID, claims.RestaurantID.String())
	}
	return ctx
}
