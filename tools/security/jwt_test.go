package security

import (
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testOptions() Options {
	return DefaultOptions([]byte("unit-test-secret"))
}

func TestGenerateAndVerify(t *testing.T) {
	opts := testOptions()
	token, expireAt, err := Generate(opts, "user-1")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.True(t, expireAt.After(time.Now()))

	userID, err := Verify(opts, token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	opts := testOptions()
	token, _, err := Generate(opts, "user-1")
	require.NoError(t, err)

	other := DefaultOptions([]byte("different"))
	_, err = Verify(other, token)
	assert.Error(t, err)
}

func TestVerifyRejectsExpired(t *testing.T) {
	opts := testOptions()
	claims := jwtlib.MapClaims{
		"sub": "user-1",
		"exp": time.Now().Add(-time.Hour).Unix(),
	}
	signed, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).
		SignedString(opts.Secret)
	require.NoError(t, err)

	_, err = Verify(opts, signed)
	assert.Error(t, err)
}

func TestVerifyRejectsMissingSubject(t *testing.T) {
	opts := testOptions()
	claims := jwtlib.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	}
	signed, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).
		SignedString(opts.Secret)
	require.NoError(t, err)

	_, err = Verify(opts, signed)
	assert.Error(t, err)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	_, err := Verify(testOptions(), "not.a.token")
	assert.Error(t, err)
}

func TestUnsupportedAlg(t *testing.T) {
	opts := testOptions()
	opts.Alg = "RS256"
	_, _, err := Generate(opts, "user-1")
	assert.Error(t, err)
}
