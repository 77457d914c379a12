package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

type contextKey string

const customerTokenKey contextKey = "customer_access_token"

// customerTokenClaim is the session claim carrying the platform customer
// access token.
const customerTokenClaim = "customer_access_token"

// SessionMiddleware extracts the customer access token from a bearer session
// token, when one is present. A missing, malformed or expired session is the
// anonymous-visitor path: the request proceeds without a token and page
// routes fall back to catalog pricing. Nothing here ever rejects a request.
func SessionMiddleware(sessionSecret string, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				next.ServeHTTP(w, r)
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				logger.Debug("Ignoring malformed authorization header")
				next.ServeHTTP(w, r)
				return
			}

			token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, jwt.ErrSignatureInvalid
				}
				return []byte(sessionSecret), nil
			})
			if err != nil || !token.Valid {
				logger.Debug("Ignoring invalid session token", zap.Error(err))
				next.ServeHTTP(w, r)
				return
			}

			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			customerToken, ok := claims[customerTokenClaim].(string)
			if !ok || customerToken == "" {
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), customerTokenKey, customerToken)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetCustomerToken extracts the customer access token from the request
// context. The empty string means an anonymous visitor.
func GetCustomerToken(ctx context.Context) string {
	token, _ := ctx.Value(customerTokenKey).(string)
	return token
}
