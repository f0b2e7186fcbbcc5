package auth

import (
	"context"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
	"time"
)

const jwksFetchTimeout = 10 * time.Second

// jsonWebKey is the subset of RFC 7517 the validators need.
type jsonWebKey struct {
	Kid string `json:"kid"`
	Kty string `json:"kty"`
	Use string `json:"use"`
	Alg string `json:"alg"`
	N   string `json:"n"`
	E   string `json:"e"`
}

type jsonWebKeySet struct {
	Keys []jsonWebKey `json:"keys"`
}

// fetchKeySet downloads a JWKS document. The request is bounded by
// jwksFetchTimeout regardless of the caller's context.
func fetchKeySet(ctx context.Context, client *http.Client, url string) (jsonWebKeySet, error) {
	ctx, cancel := context.WithTimeout(ctx, jwksFetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return jsonWebKeySet{}, err
	}

	resp, err := client.Do(req)
	if err != nil {
		return jsonWebKeySet{}, fmt.Errorf("fetch jwks: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return jsonWebKeySet{}, fmt.Errorf("fetch jwks: unexpected status %s", resp.Status)
	}

	var set jsonWebKeySet
	if err := json.NewDecoder(resp.Body).Decode(&set); err != nil {
		return jsonWebKeySet{}, fmt.Errorf("decode jwks: %w", err)
	}
	if len(set.Keys) == 0 {
		return jsonWebKeySet{}, fmt.Errorf("jwks response contains no keys")
	}
	return set, nil
}

// rsaPublicKey converts a JWK with RSA parameters into an *rsa.PublicKey.
func (k jsonWebKey) rsaPublicKey() (*rsa.PublicKey, error) {
	if k.Kty != "RSA" {
		return nil, fmt.Errorf("unsupported key type %q", k.Kty)
	}

	nBytes, err := base64.RawURLEncoding.DecodeString(k.N)
	if err != nil {
		return nil, fmt.Errorf("decode modulus: %w", err)
	}
	eBytes, err := base64.RawURLEncoding.DecodeString(k.E)
	if err != nil {
		return nil, fmt.Errorf("decode exponent: %w", err)
	}

	e := new(big.Int).SetBytes(eBytes)
	if !e.IsInt64() || e.Int64() <= 0 {
		return nil, fmt.Errorf("invalid public exponent")
	}

	return &rsa.PublicKey{
		N: new(big.Int).SetBytes(nBytes),
		E: int(e.Int64()),
	}, nil
}
