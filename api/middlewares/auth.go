package middlewares

import (
	"context"
	"net/http"
	"strings"

	oidcV3 "github.com/coreos/go-oidc/v3/oidc"
	"github.com/gin-gonic/gin"

	"github.com/inference-gateway/support-chat/config"
	"github.com/inference-gateway/support-chat/logger"
)

type contextKey string

const (
	AuthTokenContextKey contextKey = "authToken"
	IDTokenContextKey   contextKey = "idToken"
)

// OIDCAuthenticator interface for authentication middleware
type OIDCAuthenticator interface {
	Middleware() gin.HandlerFunc
}

// TokenVerifier checks a raw bearer token. *oidc.IDTokenVerifier satisfies it.
type TokenVerifier interface {
	Verify(ctx context.Context, rawIDToken string) (*oidcV3.IDToken, error)
}

// OIDCAuthenticatorImpl implements OIDC authentication
type OIDCAuthenticatorImpl struct {
	logger   logger.Logger
	verifier TokenVerifier
}

// OIDCAuthenticatorNoop is a no-op authenticator for when auth is disabled
type OIDCAuthenticatorNoop struct{}

// NewOIDCAuthenticatorMiddleware discovers the issuer and builds the middleware
func NewOIDCAuthenticatorMiddleware(ctx context.Context, l logger.Logger, cfg config.Config) (OIDCAuthenticator, error) {
	if !cfg.EnableAuth {
		return &OIDCAuthenticatorNoop{}, nil
	}

	provider, err := oidcV3.NewProvider(ctx, cfg.OIDC.IssuerURL)
	if err != nil {
		return nil, err
	}

	return NewOIDCAuthenticatorWithVerifier(l, provider.Verifier(&oidcV3.Config{ClientID: cfg.OIDC.ClientID})), nil
}

func NewOIDCAuthenticatorWithVerifier(l logger.Logger, verifier TokenVerifier) OIDCAuthenticator {
	return &OIDCAuthenticatorImpl{
		logger:   l,
		verifier: verifier,
	}
}

// Middleware returns a no-op middleware for the noop authenticator
func (a *OIDCAuthenticatorNoop) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
	}
}

// Middleware returns the OIDC authentication middleware
func (a *OIDCAuthenticatorImpl) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		const bearerPrefix = "Bearer "
		if !strings.HasPrefix(authHeader, bearerPrefix) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header format"})
			return
		}

		token := authHeader[len(bearerPrefix):]
		idToken, err := a.verifier.Verify(c.Request.Context(), token)
		if err != nil {
			a.logger.Error("failed to verify id token", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		c.Set(string(AuthTokenContextKey), token)
		c.Set(string(IDTokenContextKey), idToken)

		c.Next()
	}
}
