package password

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestCredentialsVerify(t *testing.T) {
	hash, err := Hash("plug-s", bcrypt.MinCost)
	require.NoError(t, err)

	creds := Credentials{Username: "admin", Hash: hash}
	assert.True(t, creds.Enabled())
	assert.True(t, creds.Verify("admin", "plug-s"))
	assert.False(t, creds.Verify("admin", "plug-x"))
	assert.False(t, creds.Verify("root", "plug-s"))
}

func TestCredentialsDisabled(t *testing.T) {
	var creds Credentials
	assert.False(t, creds.Enabled())
	assert.False(t, creds.Verify("", ""))
}

func TestHashRejectsEmpty(t *testing.T) {
	_, err := Hash("", bcrypt.MinCost)
	assert.Error(t, err)
}
