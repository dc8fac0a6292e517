package middlewares

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	srvErrors "github.com/arcaneplugins/levelledmobs/pkg/errors"
)

const bearerPrefix = "Bearer "

// ReadSecret loads the HMAC secret used to sign admin tokens.
func ReadSecret(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read secret file %s: %w", path, err)
	}
	secret := []byte(strings.TrimSpace(string(data)))
	if len(secret) == 0 {
		return nil, fmt.Errorf("secret file %s is empty", path)
	}
	return secret, nil
}

// Auth accepts requests carrying an HS256 bearer token signed with secret.
func Auth(secret []byte) gin.HandlerFunc {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())

	return func(c *gin.Context) {
		if err := verify(parser, secret, c.GetHeader("Authorization")); err != nil {
			_ = c.Error(err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		c.Next()
	}
}

func verify(parser *jwt.Parser, secret []byte, header string) error {
	if !strings.HasPrefix(header, bearerPrefix) {
		return srvErrors.NewUnauthorizedError("missing bearer token")
	}

	claims := &jwt.RegisteredClaims{}
	_, err := parser.ParseWithClaims(strings.TrimPrefix(header, bearerPrefix), claims, func(*jwt.Token) (any, error) {
		return secret, nil
	})
	switch {
	case err == nil:
		return nil
	case errors.Is(err, jwt.ErrTokenExpired):
		return srvErrors.NewUnauthorizedError("token expired")
	default:
		return srvErrors.NewUnauthorizedError("invalid token")
	}
}

// NewToken signs a token for subject valid until the claims' expiry.
func NewToken(secret []byte, claims jwt.RegisteredClaims) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}
