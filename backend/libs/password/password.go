package password

import (
	"crypto/subtle"
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// Hash returns the bcrypt hash of plain; cost 0 means bcrypt.DefaultCost.
func Hash(plain string, cost int) (string, error) {
	if plain == "" {
		return "", errors.New("password: empty password")
	}
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Credentials is a device login: a user name and the bcrypt hash of its password.
type Credentials struct {
	Username string
	Hash     string
}

// Enabled reports whether a login has been configured.
func (c Credentials) Enabled() bool {
	return c.Username != "" && c.Hash != ""
}

// Verify checks a basic-auth pair against the stored login.
func (c Credentials) Verify(username, plain string) bool {
	if !c.Enabled() {
		return false
	}
	if subtle.ConstantTimeCompare([]byte(c.Username), []byte(username)) != 1 {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(c.Hash), []byte(plain)) == nil
}
