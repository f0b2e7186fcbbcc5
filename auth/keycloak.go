package auth

import (
	"context"
	"crypto/rsa"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/golang-jwt/jwt"
)

// KeycloakValidator verifies tokens issued by a Keycloak realm. The
// realm's signing key is fetched from its JWKS endpoint on the first
// verification and cached for the lifetime of the validator. A failed
// fetch caches nothing, so the next call simply retries.
type KeycloakValidator struct {
	baseURL  string
	realm    string
	clientID string
	client   *http.Client

	mu        sync.Mutex
	publicKey *rsa.PublicKey
}

func NewKeycloakValidator(baseURL, realm, clientID string) *KeycloakValidator {
	return &KeycloakValidator{
		baseURL:  strings.TrimRight(baseURL, "/"),
		realm:    realm,
		clientID: clientID,
		client:   &http.Client{},
	}
}

func (v *KeycloakValidator) jwksURL() string {
	return fmt.Sprintf("%s/realms/%s/protocol/openid-connect/certs", v.baseURL, v.realm)
}

// Verify checks the token's signature, expiry and claims. Every failure
// collapses into ErrInvalidToken.
func (v *KeycloakValidator) Verify(ctx context.Context, token string) (Claims, error) {
	key, err := v.signingKey(ctx)
	if err != nil {
		slog.Error("keycloak signing key unavailable", "error", err)
		return nil, ErrInvalidToken
	}

	claims, err := parseRS256(token, func(*jwt.Token) (interface{}, error) {
		return key, nil
	})
	if err != nil {
		slog.Warn("keycloak token verification failed", "error", err)
		return nil, ErrInvalidToken
	}

	if claims.Subject() == "" {
		slog.Warn("keycloak token missing subject claim")
		return nil, ErrInvalidToken
	}

	// User tokens carry the client id as azp (with aud typically
	// "account"); service-account tokens carry it as aud. Either match
	// passes; neither is a rejection.
	if claims.AuthorizedParty() != v.clientID && !claims.HasAudience(v.clientID) {
		slog.Warn("keycloak token audience mismatch",
			"azp", claims.AuthorizedParty(), "aud", claims.Audience(), "expected", v.clientID)
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// signingKey returns the cached realm key, fetching it once on demand.
func (v *KeycloakValidator) signingKey(ctx context.Context) (*rsa.PublicKey, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.publicKey != nil {
		return v.publicKey, nil
	}

	set, err := fetchKeySet(ctx, v.client, v.jwksURL())
	if err != nil {
		return nil, err
	}

	key, err := selectSigningKey(set)
	if err != nil {
		return nil, err
	}

	v.publicKey = key
	return key, nil
}

// selectSigningKey prefers the RSA key marked for signature use and falls
// back to the first entry of the set.
func selectSigningKey(set jsonWebKeySet) (*rsa.PublicKey, error) {
	for _, k := range set.Keys {
		if k.Use == "sig" && k.Kty == "RSA" {
			return k.rsaPublicKey()
		}
	}
	slog.Warn("no signing key found in jwks, using first key")
	return set.Keys[0].rsaPublicKey()
}
