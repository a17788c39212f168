package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MicahParks/keyfunc/v2"
	jwt "github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/nailfeed-service/internal/config"
)

// Claims is the token payload this service cares about: the identity
// provider's subject plus the profile claims used for user upsert.
type Claims struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// TokenVerifier validates a raw bearer token and returns its claims. Every
// request is verified independently; no session state is held.
type TokenVerifier interface {
	Verify(tokenStr string) (*Claims, error)
}

// NewVerifier constructs the verifier selected by configuration.
func NewVerifier(ctx context.Context, cfg config.AuthConfig, logger *zap.Logger) (TokenVerifier, error) {
	switch cfg.Mode {
	case config.AuthModeJWKS:
		return NewJWKSVerifier(ctx, cfg, logger)
	case config.AuthModeHMAC:
		logger.Warn("using HMAC token verification; intended for development only")
		return NewHMACVerifier(cfg.DevSecret, cfg.DevTokenTTLMinutes), nil
	default:
		return nil, fmt.Errorf("unknown auth mode: %s", cfg.Mode)
	}
}

// JWKSVerifier validates RS256 tokens against the identity provider's
// published key set. Keys are fetched once and refreshed in the background;
// an unknown key id triggers a rate-limited refetch.
type JWKSVerifier struct {
	jwks     *keyfunc.JWKS
	issuer   string
	audience string
}

// NewJWKSVerifier fetches the key set and starts background refresh.
func NewJWKSVerifier(ctx context.Context, cfg config.AuthConfig, logger *zap.Logger) (*JWKSVerifier, error) {
	refresh := time.Duration(cfg.RefreshIntervalMin) * time.Minute
	if refresh <= 0 {
		refresh = time.Hour
	}

	jwks, err := keyfunc.Get(cfg.JWKSURL, keyfunc.Options{
		Ctx:               ctx,
		RefreshInterval:   refresh,
		RefreshRateLimit:  5 * time.Minute,
		RefreshTimeout:    10 * time.Second,
		RefreshUnknownKID: true,
		RefreshErrorHandler: func(err error) {
			logger.Warn("jwks refresh failed", zap.Error(err))
		},
	})
	if err != nil {
		return nil, fmt.Errorf("fetch jwks: %w", err)
	}

	logger.Info("jwks loaded", zap.String("url", cfg.JWKSURL), zap.Int("keys", jwks.Len()))
	return &JWKSVerifier{jwks: jwks, issuer: cfg.Issuer, audience: cfg.Audience}, nil
}

// Verify validates signature, expiry and, when configured, issuer/audience.
func (v *JWKSVerifier) Verify(tokenStr string) (*Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}
	if v.audience != "" {
		opts = append(opts, jwt.WithAudience(v.audience))
	}

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(tokenStr, claims, v.jwks.Keyfunc, opts...)
	if err != nil {
		return nil, err
	}
	if !parsed.Valid || claims.Subject == "" {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}

// Close stops background key refresh.
func (v *JWKSVerifier) Close() {
	if v != nil && v.jwks != nil {
		v.jwks.EndBackground()
	}
}

// HMACVerifier validates HS256 tokens signed with a shared secret. It can
// also issue tokens, which keeps local development and tests independent of
// a real identity provider.
type HMACVerifier struct {
	secret []byte
	ttl    time.Duration
}

// NewHMACVerifier builds a new verifier.
func NewHMACVerifier(secret string, ttlMinutes int) *HMACVerifier {
	if ttlMinutes <= 0 {
		ttlMinutes = 60
	}
	return &HMACVerifier{secret: []byte(secret), ttl: time.Duration(ttlMinutes) * time.Minute}
}

// GenerateToken builds and signs a token for the subject.
func (v *HMACVerifier) GenerateToken(subject, name, email string) (string, time.Time, error) {
	expiresAt := time.Now().Add(v.ttl)
	claims := &Claims{
		Name:  name,
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(v.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// Verify validates and returns claims.
func (v *HMACVerifier) Verify(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return v.secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !parsed.Valid || claims.Subject == "" {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}
