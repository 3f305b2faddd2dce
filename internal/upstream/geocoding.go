package upstream

// MapTokenIssuer hands out the public (URL-restricted) map token used by the
// frontend's geocoder, so the token is not baked into the client bundle.
type MapTokenIssuer struct {
	token string
}

// NewMapTokenIssuer returns an issuer for token.
func NewMapTokenIssuer(token string) *MapTokenIssuer {
	return &MapTokenIssuer{token: token}
}

// Token returns the configured token, or ErrNotConfigured when there is none.
func (m *MapTokenIssuer) Token() (string, error) {
	if m.token == "" {
		return "", ErrNotConfigured
	}
	return m.token, nil
}
