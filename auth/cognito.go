package auth

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/golang-jwt/jwt"
)

// CognitoValidator verifies access tokens issued by an AWS Cognito user
// pool. Cognito rotates among several keys, so the whole key set is
// cached and the key is chosen per token by the kid header.
type CognitoValidator struct {
	jwksURL  string
	clientID string
	client   *http.Client

	mu   sync.Mutex
	keys map[string]jsonWebKey
}

func NewCognitoValidator(region, userPoolID, jwksURL, clientID string) *CognitoValidator {
	if jwksURL == "" {
		jwksURL = fmt.Sprintf(
			"https://cognito-idp.%s.amazonaws.com/%s/.well-known/jwks.json",
			region, userPoolID,
		)
	}
	return &CognitoValidator{
		jwksURL:  jwksURL,
		clientID: clientID,
		client:   &http.Client{},
	}
}

// Verify checks the token's signature, expiry and claims. Every failure
// collapses into ErrInvalidToken.
func (v *CognitoValidator) Verify(ctx context.Context, token string) (Claims, error) {
	claims, err := parseRS256(token, func(t *jwt.Token) (interface{}, error) {
		kid, _ := t.Header["kid"].(string)
		if kid == "" {
			return nil, fmt.Errorf("no key id in token header")
		}
		return v.keyByID(ctx, kid)
	})
	if err != nil {
		slog.Warn("cognito token verification failed", "error", err)
		return nil, ErrInvalidToken
	}

	if claims.Subject() == "" {
		slog.Warn("cognito token missing subject claim")
		return nil, ErrInvalidToken
	}

	// Cognito access tokens declare themselves via token_use and carry
	// the expected client identifier as client_id rather than azp.
	if claims.TokenUse() != "access" {
		slog.Warn("cognito token has wrong token_use", "token_use", claims.TokenUse())
		return nil, ErrInvalidToken
	}
	if claims.ClientID() != v.clientID && !claims.HasAudience(v.clientID) {
		slog.Warn("cognito token audience mismatch",
			"client_id", claims.ClientID(), "aud", claims.Audience(), "expected", v.clientID)
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// keyByID resolves kid against the cached key set, fetching the set once
// on demand. An unknown kid fails verification; the set is not refetched
// for it.
func (v *CognitoValidator) keyByID(ctx context.Context, kid string) (interface{}, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.keys == nil {
		set, err := fetchKeySet(ctx, v.client, v.jwksURL)
		if err != nil {
			return nil, err
		}
		keys := make(map[string]jsonWebKey, len(set.Keys))
		for _, k := range set.Keys {
			keys[k.Kid] = k
		}
		v.keys = keys
	}

	key, ok := v.keys[kid]
	if !ok {
		return nil, fmt.Errorf("no key found with kid %q", kid)
	}
	return key.rsaPublicKey()
}
