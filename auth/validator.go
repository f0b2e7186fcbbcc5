// Package auth verifies bearer tokens against an external identity
// provider. Two provider variants exist (Keycloak and Cognito); both
// cache the remote signing material after the first successful fetch and
// expose the same Verify capability.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt"

	"movieapi/errs"
)

// ErrInvalidToken is the single rejection surfaced for every verification
// failure. The specific sub-reason is logged, never returned, so callers
// cannot tell which check failed.
var ErrInvalidToken = errs.Errorf(errs.EUNAUTHORIZED, "invalid or expired token")

// TokenValidator verifies a bearer token and returns its claims.
type TokenValidator interface {
	Verify(ctx context.Context, token string) (Claims, error)
}

// Config selects and parameterizes the provider variant. Exactly one
// validator is built per process; the variants are never mixed.
type Config struct {
	Provider string // "keycloak" or "cognito"

	// Keycloak
	KeycloakURL   string
	KeycloakRealm string

	// Cognito. JWKSURL overrides the URL derived from region + pool id.
	CognitoRegion     string
	CognitoUserPoolID string
	CognitoJWKSURL    string

	// ClientID is the expected audience / authorized party.
	ClientID string
}

// NewValidator builds the validator named by cfg.Provider. Unknown
// providers and missing provider parameters are startup failures.
func NewValidator(cfg Config) (TokenValidator, error) {
	switch strings.ToLower(cfg.Provider) {
	case "keycloak":
		if cfg.KeycloakURL == "" || cfg.KeycloakRealm == "" {
			return nil, fmt.Errorf("keycloak url and realm must be configured")
		}
		return NewKeycloakValidator(cfg.KeycloakURL, cfg.KeycloakRealm, cfg.ClientID), nil
	case "cognito":
		if cfg.CognitoJWKSURL == "" && (cfg.CognitoRegion == "" || cfg.CognitoUserPoolID == "") {
			return nil, fmt.Errorf("cognito region and user pool id must be configured")
		}
		return NewCognitoValidator(cfg.CognitoRegion, cfg.CognitoUserPoolID, cfg.CognitoJWKSURL, cfg.ClientID), nil
	default:
		return nil, fmt.Errorf("unknown auth provider: %q", cfg.Provider)
	}
}

// parseRS256 decodes and verifies a token signed with RS256. keyFor maps
// the token (already parsed but unverified) to the public key to check
// against; it runs before any signature work.
func parseRS256(tokenString string, keyFor func(t *jwt.Token) (interface{}, error)) (Claims, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return keyFor(t)
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("token is not valid")
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("unexpected claims type")
	}
	return Claims(mapClaims), nil
}
