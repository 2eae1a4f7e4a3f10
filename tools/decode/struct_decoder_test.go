package decode

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	ID    string `json:"_id"`
	Count int    `json:"count"`
}

func TestMapWeakTyping(t *testing.T) {
	out, err := Map[sample](map[string]any{"_id": 123, "count": "7"})
	require.NoError(t, err)
	assert.Equal(t, "123", out.ID)
	assert.Equal(t, 7, out.Count)
}

func TestMapStrict(t *testing.T) {
	_, err := Map[sample](map[string]any{"count": "7"}, Options{})
	assert.Error(t, err)
}

func TestJSON(t *testing.T) {
	out, err := JSON[sample]([]byte(`{"_id":"abc","count":2}`))
	require.NoError(t, err)
	assert.Equal(t, "abc", out.ID)

	_, err = JSON[sample]([]byte(`"not an object"`))
	assert.Error(t, err)

	_, err = Map[sample](nil)
	assert.Error(t, err)
}
