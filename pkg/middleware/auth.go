package middleware

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/tmasri/hometab/pkg/response"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const (
	// UserIDKey is the context key for the authenticated user ID
	UserIDKey ContextKey = "user_id"
	// HouseholdIDKey is the context key for the authenticated household ID
	HouseholdIDKey ContextKey = "household_id"
)

// Claims are the JWT claims the API expects: which user is calling and
// which household the token is scoped to. Membership of referenced ids is
// re-validated by the services; the token only establishes identity.
type Claims struct {
	UserID      int64 `json:"user_id"`
	HouseholdID int64 `json:"household_id"`
	jwt.RegisteredClaims
}

// JWTAuth validates a Bearer token signed with the given secret and puts
// the user and household ids on the request context.
func JWTAuth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				response.Unauthorized(w, "Authorization header required")
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				response.Unauthorized(w, "Invalid authorization header format")
				return
			}

			claims := &Claims{}
			token, err := jwt.ParseWithClaims(parts[1], claims, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, jwt.ErrSignatureInvalid
				}
				return []byte(secret), nil
			})
			if err != nil || !token.Valid || claims.UserID <= 0 || claims.HouseholdID <= 0 {
				response.Unauthorized(w, "Invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, claims.UserID)
			ctx = context.WithValue(ctx, HouseholdIDKey, claims.HouseholdID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// TestIdentityMiddleware allows setting identity via X-Test-User-ID and
// X-Test-Household-ID headers (DEV ONLY). Makes it easy to exercise the API
// as different household members without minting tokens.
func TestIdentityMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := headerID(r, "X-Test-User-ID", 1)
		householdID := headerID(r, "X-Test-Household-ID", 1)

		ctx := context.WithValue(r.Context(), UserIDKey, userID)
		ctx = context.WithValue(ctx, HouseholdIDKey, householdID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func headerID(r *http.Request, header string, fallback int64) int64 {
	if s := r.Header.Get(header); s != "" {
		if id, err := strconv.ParseInt(s, 10, 64); err == nil && id > 0 {
			return id
		}
	}
	return fallback
}

// GetUserID extracts the user ID from the request context
func GetUserID(ctx context.Context) (int64, bool) {
	userID, ok := ctx.Value(UserIDKey).(int64)
	return userID, ok
}

// GetHouseholdID extracts the household ID from the request context
func GetHouseholdID(ctx context.Context) (int64, bool) {
	householdID, ok := ctx.Value(HouseholdIDKey).(int64)
	return householdID, ok
}
