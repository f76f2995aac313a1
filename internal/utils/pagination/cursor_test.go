package pagination

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode_EmptyTokenIsFirstPage(t *testing.T) {
	c, err := Decode("")
	require.NoError(t, err)
	assert.True(t, c.IsZero())
}

func TestDecode_Garbage(t *testing.T) {
	_, err := Decode("%%%not-base64")
	assert.EqualError(t, err, "invalid pagination token")

	_, err = Decode("bm90IGpzb24=") // "not json"
	assert.EqualError(t, err, "invalid pagination token")
}

func TestAfter_KeepsMillisecondPosition(t *testing.T) {
	at := time.Date(2026, 10, 18, 9, 30, 0, 123_456_789, time.UTC)

	token, err := Encode(After("u-42", at))
	require.NoError(t, err)

	c, err := Decode(token)
	require.NoError(t, err)
	assert.Equal(t, "u-42", c.ID)
	assert.Equal(t, at.Truncate(time.Millisecond), c.CreatedAt())
}
