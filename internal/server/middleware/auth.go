package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"
)

type jwtClaims struct {
	jwt.RegisteredClaims
	Role string `json:"role"`
}

// Auth requires an HS256 bearer token signed with jwtSecret. The token's
// subject and role claims are stored in the request context.
func Auth(jwtSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tok := extractBearer(r)
			if tok == "" {
				writeProblem(w, http.StatusUnauthorized, "missing or invalid credentials")
				return
			}

			ctx, ok := authenticateJWT(r.Context(), tok, jwtSecret)
			if !ok {
				writeProblem(w, http.StatusUnauthorized, "missing or invalid credentials")
				return
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func extractBearer(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if len(auth) > 7 && strings.EqualFold(auth[:7], "bearer ") {
		return auth[7:]
	}
	return ""
}

func authenticateJWT(ctx context.Context, tokenStr, secret string) (context.Context, bool) {
	claims := &jwtClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(_ *jwt.Token) (any, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil || !token.Valid {
		log.Debug().Err(err).Msg("auth: rejected bearer token")
		return ctx, false
	}

	if claims.Subject == "" {
		return ctx, false
	}

	ctx = context.WithValue(ctx, ContextKeySubject, claims.Subject)
	ctx = context.WithValue(ctx, ContextKeyUserRole, claims.Role)
	return ctx, true
}
