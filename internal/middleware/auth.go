package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	RoleEmployer = "employer"
	RoleAdmin    = "admin"

	ContextSubject = "subject"
	ContextRole    = "role"
)

// Claims identify an employer or admin account. Applicants never hold a token.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// NewToken signs an HS256 token for subject with the given role.
func NewToken(secret, subject, role string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// RequireRole admits requests carrying a valid bearer token whose role is one of roles.
func RequireRole(jwtSecret string, roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if jwtSecret == "" {
			abortJSON(c, http.StatusServiceUnavailable, "Employer access is not configured", "AUTH_DISABLED")
			return
		}

		authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
		if authHeader == "" {
			abortJSON(c, http.StatusUnauthorized, "Authorization header required", "MISSING_AUTH_HEADER")
			return
		}
		tokenString, ok := strings.CutPrefix(authHeader, "Bearer ")
		if !ok {
			abortJSON(c, http.StatusUnauthorized, "Bearer token required", "INVALID_AUTH_FORMAT")
			return
		}
		tokenString = strings.TrimSpace(tokenString)
		if tokenString == "" {
			abortJSON(c, http.StatusUnauthorized, "Token cannot be empty", "EMPTY_TOKEN")
			return
		}

		claims := &Claims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
			if token.Method != jwt.SigningMethodHS256 {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(jwtSecret), nil
		})
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				abortJSON(c, http.StatusUnauthorized, "Token expired", "TOKEN_EXPIRED")
				return
			}
			abortJSON(c, http.StatusUnauthorized, "Invalid token", "TOKEN_INVALID")
			return
		}
		if !token.Valid || claims.Subject == "" {
			abortJSON(c, http.StatusUnauthorized, "Invalid token claims", "INVALID_CLAIMS")
			return
		}
		if !slices.Contains(roles, claims.Role) {
			abortJSON(c, http.StatusForbidden, "Insufficient role", "FORBIDDEN")
			return
		}

		c.Set(ContextSubject, claims.Subject)
		c.Set(ContextRole, claims.Role)
		c.Next()
	}
}

func abortJSON(c *gin.Context, code int, message, errorCode string) {
	c.JSON(code, gin.H{
		"error": message,
		"code":  errorCode,
	})
	c.Abort()
}
