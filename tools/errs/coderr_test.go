package errs

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestAsCodeError(t *testing.T) {
	ce := AsCodeError(ErrChatNotFound)
	assert.Equal(t, 404, ce.Code)

	// wrapped errors still unwrap to their envelope
	ce = AsCodeError(errors.Wrap(ErrUserExists, "register"))
	assert.Equal(t, 409, ce.Code)

	// anything else degrades to a 500 with the cause in the detail
	ce = AsCodeError(errors.New("boom"))
	assert.Equal(t, 500, ce.Code)
	assert.Contains(t, ce.Detail, "boom")
}

func TestWithDetailDoesNotMutate(t *testing.T) {
	base := NewCodeError(400, "bad request")
	d1 := base.WithDetail("name is required")
	d2 := d1.WithDetail("email is required")

	assert.Empty(t, base.Detail)
	assert.Equal(t, "name is required", d1.Detail)
	assert.Equal(t, "name is required, email is required", d2.Detail)
	assert.Equal(t, base.Code, d2.Code)
}

func TestIsMatchesByCode(t *testing.T) {
	err := errors.Wrap(ErrBadRequest.WithDetail("content is required"), "send")
	assert.ErrorIs(t, err, ErrBadRequest)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, 401, ErrUnauthorized.HTTPStatus())
	assert.Equal(t, 500, NewCodeError(42, "weird").HTTPStatus())
}
