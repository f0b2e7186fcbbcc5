package auth

// Claims is the loosely-typed claim set of a verified token. Accessors
// exist for the handful of claims the validators inspect; everything
// else stays available to callers through the map.
type Claims map[string]interface{}

// Subject returns the "sub" claim, or "" when absent.
func (c Claims) Subject() string {
	return c.stringClaim("sub")
}

// AuthorizedParty returns the "azp" claim, or "" when absent.
func (c Claims) AuthorizedParty() string {
	return c.stringClaim("azp")
}

// TokenUse returns the "token_use" claim, or "" when absent.
func (c Claims) TokenUse() string {
	return c.stringClaim("token_use")
}

// ClientID returns the "client_id" claim, or "" when absent.
func (c Claims) ClientID() string {
	return c.stringClaim("client_id")
}

// Audience returns the "aud" claim normalized to a slice. JWTs encode it
// as either a single string or an array of strings.
func (c Claims) Audience() []string {
	switch aud := c["aud"].(type) {
	case string:
		return []string{aud}
	case []interface{}:
		out := make([]string, 0, len(aud))
		for _, v := range aud {
			if s, ok := v.(string); ok {
				out = append(out, s)
			}
		}
		return out
	case []string:
		return aud
	default:
		return nil
	}
}

// HasAudience reports whether the audience claim contains clientID.
func (c Claims) HasAudience(clientID string) bool {
	for _, aud := range c.Audience() {
		if aud == clientID {
			return true
		}
	}
	return false
}

func (c Claims) stringClaim(name string) string {
	if v, ok := c[name].(string); ok {
		return v
	}
	return ""
}
