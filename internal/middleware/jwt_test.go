package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testJWTConfig = JWTConfig{Secret: []byte("test-secret"), Issuer: "idp.example.org"}

func signToken(t *testing.T, method jwt.SigningMethod, key any, claims Claims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return s
}

func validClaims() Claims {
	return Claims{
		Email: "storekeeper@example.org",
		Name:  "Store Keeper",
		Roles: []string{"reception"},
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-42",
			Issuer:    "idp.example.org",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
}

func TestParseToken(t *testing.T) {
	expired := validClaims()
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
	otherIssuer := validClaims()
	otherIssuer.Issuer = "elsewhere"
	noSubject := validClaims()
	noSubject.Subject = ""

	tests := []struct {
		name    string
		token   func(t *testing.T) string
		wantErr bool
	}{
		{
			name:  "valid token",
			token: func(t *testing.T) string { return signToken(t, jwt.SigningMethodHS256, testJWTConfig.Secret, validClaims()) },
		},
		{
			name:    "wrong secret",
			token:   func(t *testing.T) string { return signToken(t, jwt.SigningMethodHS256, []byte("other"), validClaims()) },
			wantErr: true,
		},
		{
			name:    "other hmac algorithm",
			token:   func(t *testing.T) string { return signToken(t, jwt.SigningMethodHS512, testJWTConfig.Secret, validClaims()) },
			wantErr: true,
		},
		{
			name:    "expired",
			token:   func(t *testing.T) string { return signToken(t, jwt.SigningMethodHS256, testJWTConfig.Secret, expired) },
			wantErr: true,
		},
		{
			name:    "issuer mismatch",
			token:   func(t *testing.T) string { return signToken(t, jwt.SigningMethodHS256, testJWTConfig.Secret, otherIssuer) },
			wantErr: true,
		},
		{
			name:    "missing subject",
			token:   func(t *testing.T) string { return signToken(t, jwt.SigningMethodHS256, testJWTConfig.Secret, noSubject) },
			wantErr: true,
		},
		{
			name:    "garbage",
			token:   func(*testing.T) string { return "not-a-token" },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := ParseToken(tt.token(t), testJWTConfig)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidToken)
				assert.Nil(t, claims)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "user-42", claims.Subject)
			assert.Equal(t, []string{"reception"}, claims.Roles)
		})
	}
}

func TestJWTAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	valid := signToken(t, jwt.SigningMethodHS256, testJWTConfig.Secret, validClaims())

	tests := []struct {
		name           string
		authHeader     string
		expectedStatus int
	}{
		{name: "valid token", authHeader: "Bearer " + valid, expectedStatus: http.StatusOK},
		{name: "missing authorization header", expectedStatus: http.StatusUnauthorized},
		{name: "invalid bearer prefix", authHeader: "Token " + valid, expectedStatus: http.StatusUnauthorized},
		{name: "empty token", authHeader: "Bearer ", expectedStatus: http.StatusUnauthorized},
		{name: "invalid token", authHeader: "Bearer nope", expectedStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.Use(JWTAuth(testJWTConfig))
			router.GET("/test", func(c *gin.Context) {
				id, email := CurrentUser(c)
				c.JSON(http.StatusOK, gin.H{"id": id, "email": email})
			})

			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedStatus == http.StatusOK {
				assert.JSONEq(t, `{"id":"user-42","email":"storekeeper@example.org"}`, w.Body.String())
			}
		})
	}
}
