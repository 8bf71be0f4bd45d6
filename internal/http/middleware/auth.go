package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// Key for storing the authenticated user in context
type contextKey string

const AuthUserKey contextKey = "auth_user"

// AuthenticatedUser represents a user that has been authenticated
type AuthenticatedUser struct {
	ID string
}

// UserClaims are the claims carried by API bearer tokens
type UserClaims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

// AuthConfig holds the configuration for the auth middleware
type AuthConfig struct {
	JWTSecret []byte
}

// NewAuthMiddleware creates a new auth middleware verifying HS256 tokens signed with secret
func NewAuthMiddleware(secret []byte) *AuthConfig {
	return &AuthConfig{
		JWTSecret: secret,
	}
}

func (ac *AuthConfig) keyFunc(token *jwt.Token) (interface{}, error) {
	// Verify signing method to prevent algorithm confusion
	if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
	}
	return ac.JWTSecret, nil
}

// RequireAuth creates a middleware that verifies the bearer token
func (ac *AuthConfig) RequireAuth() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				writeUnauthorized(w, "Authorization header is required")
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				writeUnauthorized(w, "Invalid authorization header format")
				return
			}

			claims := &UserClaims{}
			token, err := jwt.ParseWithClaims(parts[1], claims, ac.keyFunc,
				jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
			if err != nil || !token.Valid {
				writeUnauthorized(w, "Invalid token")
				return
			}

			if claims.UserID == "" {
				writeUnauthorized(w, "User ID not found in token")
				return
			}

			ctx := context.WithValue(r.Context(), AuthUserKey, &AuthenticatedUser{ID: claims.UserID})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserFromContext returns the user set by RequireAuth
func UserFromContext(ctx context.Context) (*AuthenticatedUser, bool) {
	user, ok := ctx.Value(AuthUserKey).(*AuthenticatedUser)
	return user, ok
}

func writeUnauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = fmt.Fprintf(w, "{\"error\":%q}\n", message)
}
