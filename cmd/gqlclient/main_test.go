package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHeader(t *testing.T) {
	k, v, err := parseHeader("Authorization:  Bearer abc ")
	require.NoError(t, err)
	assert.Equal(t, "Authorization", k)
	assert.Equal(t, "Bearer abc", v)

	k, v, err = parseHeader("X-Url: http://example.org")
	require.NoError(t, err)
	assert.Equal(t, "X-Url", k)
	assert.Equal(t, "http://example.org", v)

	_, _, err = parseHeader("no colon")
	assert.Error(t, err)
}
