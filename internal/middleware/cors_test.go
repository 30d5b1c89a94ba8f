package middleware

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOriginAllowed(t *testing.T) {
	allowed := OriginAllowed([]string{" https://app.trademind.io/ ", ""})

	assert.True(t, allowed("http://localhost:5173"))
	assert.True(t, allowed("https://app.trademind.io"))
	assert.False(t, allowed("https://evil.example"))
}
