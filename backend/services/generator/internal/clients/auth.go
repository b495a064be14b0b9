package clients

import (
	"net/http"
)

// BasicAuth sends a fixed device login.
type BasicAuth struct {
	Username string
	Password string
}

// Authorize implements Authorizer.
func (a BasicAuth) Authorize(req *http.Request) error {
	req.SetBasicAuth(a.Username, a.Password)
	return nil
}

// TokenIssuer mints bearer tokens.
type TokenIssuer interface {
	Issue(subject, scope string) (string, error)
}

// BearerAuth signs a fresh device-scoped token for every request.
type BearerAuth struct {
	Issuer  TokenIssuer
	Subject string
	Scope   string
}

// Authorize implements Authorizer.
func (a BearerAuth) Authorize(req *http.Request) error {
	signed, err := a.Issuer.Issue(a.Subject, a.Scope)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+signed)
	return nil
}
