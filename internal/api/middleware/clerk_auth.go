package middleware

import (
	"errors"
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/yoockh/taskbox/internal/utils"
)

type apiError struct {
	Code    utils.Code `json:"code"`
	Message string     `json:"message"`
}

// clerkClaims covers a Clerk session token issued through a JWT template with
// a shared HS256 signing key; public metadata carries the app role.
type clerkClaims struct {
	jwt.RegisteredClaims
	Metadata map[string]any `json:"metadata"` // put {"role":"admin"} here
}

type clerkIdentity struct {
	UserID string
	Role   string
}

func verifyClerkToken(secret, issuer, audience, raw string) (*clerkIdentity, error) {
	claims := &clerkClaims{}
	tok, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	if err != nil || tok == nil || !tok.Valid {
		return nil, errors.New("invalid token")
	}

	if issuer != "" && claims.Issuer != issuer {
		return nil, errors.New("invalid token issuer")
	}

	if audience != "" {
		valid := false
		for _, aud := range claims.Audience {
			if aud == audience {
				valid = true
				break
			}
		}
		if !valid {
			return nil, errors.New("invalid token audience")
		}
	}

	if claims.Subject == "" {
		return nil, errors.New("missing subject")
	}

	// Default role: "user" (app-level role)
	role := "user"
	if claims.Metadata != nil {
		if v, ok := claims.Metadata["role"]; ok {
			if s, ok := v.(string); ok && s != "" {
				role = s
			}
		}
	}

	return &clerkIdentity{UserID: claims.Subject, Role: role}, nil
}

func bearerToken(c *gin.Context) string {
	auth := c.GetHeader("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
}

// ClerkAuth rejects requests without a valid Clerk session token.
func ClerkAuth() gin.HandlerFunc {
	secret := os.Getenv("CLERK_JWT_SECRET")
	issuer := os.Getenv("CLERK_JWT_ISSUER")     // optional
	audience := os.Getenv("CLERK_JWT_AUDIENCE") // optional

	return func(c *gin.Context) {
		if secret == "" {
			c.AbortWithStatusJSON(http.StatusInternalServerError, apiError{
				Code:    utils.CodeInternal,
				Message: "CLERK_JWT_SECRET is not set",
			})
			return
		}

		raw := bearerToken(c)
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apiError{
				Code:    utils.CodeUnauthorized,
				Message: "missing bearer token",
			})
			return
		}

		ident, err := verifyClerkToken(secret, issuer, audience, raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apiError{
				Code:    utils.CodeUnauthorized,
				Message: err.Error(),
			})
			return
		}

		c.Set("user_id", ident.UserID)
		c.Set("role", ident.Role)
		c.Next()
	}
}

// ClerkAuthOptional attaches identity when a valid token is present and lets
// the request through either way. Page routes behind the gatekeeper use this.
func ClerkAuthOptional() gin.HandlerFunc {
	secret := os.Getenv("CLERK_JWT_SECRET")
	issuer := os.Getenv("CLERK_JWT_ISSUER")
	audience := os.Getenv("CLERK_JWT_AUDIENCE")

	return func(c *gin.Context) {
		raw := bearerToken(c)
		if secret != "" && raw != "" {
			if ident, err := verifyClerkToken(secret, issuer, audience, raw); err == nil {
				c.Set("user_id", ident.UserID)
				c.Set("role", ident.Role)
			}
		}
		c.Next()
	}
}
