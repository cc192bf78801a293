// Package middleware provides JWT authentication middleware.
package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/guttosm/cargo-service/internal/domain/dto"
	"github.com/guttosm/cargo-service/internal/i18n"
)

// Context keys set by JWTAuth.
const (
	ContextUserID    = "user_id"
	ContextUserEmail = "user_email"
	ContextUserName  = "user_name"
	ContextUserRoles = "user_roles"
	ContextClaims    = "user_claims"
)

// ErrInvalidToken is returned for tokens that fail verification.
var ErrInvalidToken = errors.New("invalid token")

// Claims are the identity claims of a token issued by the identity provider.
// The subject is the user id.
type Claims struct {
	Email string   `json:"email,omitempty"`
	Name  string   `json:"name,omitempty"`
	Roles []string `json:"roles,omitempty"`
	jwt.RegisteredClaims
}

// JWTConfig configures token verification.
type JWTConfig struct {
	Secret []byte
	// Issuer, when set, must match the iss claim.
	Issuer string
}

// ParseToken verifies an HS256 token and returns its claims.
func ParseToken(tokenString string, cfg JWTConfig) (*Claims, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Issuer))
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return cfg.Secret, nil
	}, opts...)
	if err != nil || !token.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// JWTAuth returns a middleware that validates bearer tokens.
func JWTAuth(cfg JWTConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, found := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		switch {
		case c.GetHeader("Authorization") == "":
			abortUnauthorized(c, i18n.ErrKeyTokenRequired)
			return
		case !found:
			abortUnauthorized(c, i18n.ErrKeyInvalidToken)
			return
		case strings.TrimSpace(tokenString) == "":
			abortUnauthorized(c, i18n.ErrKeyTokenRequired)
			return
		}

		claims, err := ParseToken(tokenString, cfg)
		if err != nil {
			abortUnauthorized(c, i18n.ErrKeyInvalidToken)
			return
		}

		c.Set(ContextUserID, claims.Subject)
		c.Set(ContextUserEmail, claims.Email)
		c.Set(ContextUserName, claims.Name)
		c.Set(ContextUserRoles, claims.Roles)
		c.Set(ContextClaims, claims)

		c.Next()
	}
}

// CurrentUser returns the authenticated user id and email, if any.
func CurrentUser(c *gin.Context) (id, email string) {
	return c.GetString(ContextUserID), c.GetString(ContextUserEmail)
}

func abortUnauthorized(c *gin.Context, key string) {
	message := i18n.GetTranslator().Translate(key, i18n.GetLocale(c))
	c.AbortWithStatusJSON(http.StatusUnauthorized,
		dto.NewError(dto.ErrCodeUnauthorized, message).WithRequestID(GetRequestID(c)))
}
