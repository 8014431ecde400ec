package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/KasumiMercury/primind-dose-core/internal/domain"
)

const userIDKey = "user_id"

var (
	errMissingToken = errors.New("missing bearer token")
	errInvalidToken = errors.New("invalid token")
)

type AuthConfig struct {
	Secret   string
	Issuer   string
	Audience string
}

// Authenticator verifies HS256 access tokens issued by the backend and exposes the subject as
// the caller's user id.
type Authenticator struct {
	secret []byte
	parser *jwt.Parser
}

func NewAuthenticator(cfg AuthConfig) *Authenticator {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}

	if cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Issuer))
	}

	if cfg.Audience != "" {
		opts = append(opts, jwt.WithAudience(cfg.Audience))
	}

	return &Authenticator{
		secret: []byte(cfg.Secret),
		parser: jwt.NewParser(opts...),
	}
}

// UserID returns the validated subject of the token.
func (a *Authenticator) UserID(token string) (string, error) {
	claims := &jwt.RegisteredClaims{}

	_, err := a.parser.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return a.secret, nil
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", errInvalidToken, err)
	}

	if _, err := domain.UserIDFromString(claims.Subject); err != nil {
		return "", fmt.Errorf("%w: subject: %v", errInvalidToken, err)
	}

	return claims.Subject, nil
}

// RequireUser rejects requests without a valid bearer token.
func (a *Authenticator) RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := a.authenticate(c)
		if err != nil {
			slog.Warn("rejecting unauthenticated request",
				"path", c.Request.URL.Path,
				"error", err,
			)
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{
				Error:   "unauthenticated",
				Message: "a valid bearer token is required",
			})

			return
		}

		c.Set(userIDKey, userID)
		c.Next()
	}
}

// OptionalUser lets anonymous requests through with no user id. A token that is present but
// invalid is still rejected.
func (a *Authenticator) OptionalUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := a.authenticate(c)

		switch {
		case errors.Is(err, errMissingToken):
			c.Next()
		case err != nil:
			slog.Warn("rejecting request with invalid token",
				"path", c.Request.URL.Path,
				"error", err,
			)
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{
				Error:   "unauthenticated",
				Message: "invalid bearer token",
			})
		default:
			c.Set(userIDKey, userID)
			c.Next()
		}
	}
}

func (a *Authenticator) authenticate(c *gin.Context) (string, error) {
	header := c.GetHeader("Authorization")

	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		return "", errMissingToken
	}

	return a.UserID(token)
}

// callerID is empty for anonymous requests.
func callerID(c *gin.Context) string {
	return c.GetString(userIDKey)
}
