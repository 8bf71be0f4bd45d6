package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-secret-key-for-auth-middleware")

func signToken(t *testing.T, method jwt.SigningMethod, key interface{}, claims jwt.Claims) string {
	token, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return token
}

func validClaims(userID string) *UserClaims {
	return &UserClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
}

func TestNewAuthMiddleware(t *testing.T) {
	middleware := NewAuthMiddleware(testSecret)
	assert.Equal(t, testSecret, middleware.JWTSecret)
}

func TestRequireAuth(t *testing.T) {
	authConfig := NewAuthMiddleware(testSecret)

	var seenUser *AuthenticatedUser
	handler := authConfig.RequireAuth()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenUser, _ = UserFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	expired := validClaims("user-1")
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))

	testCases := []struct {
		name       string
		header     string
		wantStatus int
		wantBody   string
	}{
		{
			name:       "missing authorization header",
			wantStatus: http.StatusUnauthorized,
			wantBody:   "Authorization header is required",
		},
		{
			name:       "invalid authorization header format",
			header:     "Token abc",
			wantStatus: http.StatusUnauthorized,
			wantBody:   "Invalid authorization header format",
		},
		{
			name:       "garbage token",
			header:     "Bearer not-a-jwt",
			wantStatus: http.StatusUnauthorized,
			wantBody:   "Invalid token",
		},
		{
			name:       "wrong secret",
			header:     "Bearer " + signToken(t, jwt.SigningMethodHS256, []byte("other"), validClaims("user-1")),
			wantStatus: http.StatusUnauthorized,
			wantBody:   "Invalid token",
		},
		{
			name:       "other HMAC algorithm",
			header:     "Bearer " + signToken(t, jwt.SigningMethodHS512, testSecret, validClaims("user-1")),
			wantStatus: http.StatusUnauthorized,
			wantBody:   "Invalid token",
		},
		{
			name:       "expired token",
			header:     "Bearer " + signToken(t, jwt.SigningMethodHS256, testSecret, expired),
			wantStatus: http.StatusUnauthorized,
			wantBody:   "Invalid token",
		},
		{
			name:       "missing user id",
			header:     "Bearer " + signToken(t, jwt.SigningMethodHS256, testSecret, validClaims("")),
			wantStatus: http.StatusUnauthorized,
			wantBody:   "User ID not found in token",
		},
		{
			name:       "valid token",
			header:     "Bearer " + signToken(t, jwt.SigningMethodHS256, testSecret, validClaims("user-1")),
			wantStatus: http.StatusOK,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			seenUser = nil
			req := httptest.NewRequest(http.MethodGet, "/api/templates.list", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tc.wantStatus, w.Code)
			if tc.wantBody != "" {
				assert.Contains(t, w.Body.String(), tc.wantBody)
				assert.Nil(t, seenUser)
				return
			}
			require.NotNil(t, seenUser)
			assert.Equal(t, "user-1", seenUser.ID)
		})
	}
}
