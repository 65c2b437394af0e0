package util

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWhatsAppLink(t *testing.T) {
	// Act
	link := WhatsAppLink("66812345678", "https://gems.example.com", "LOT-042")

	// Assert
	require.True(t, strings.HasPrefix(link, "https://wa.me/66812345678?text="))
	parsed, err := url.Parse(link)
	require.NoError(t, err)
	text := parsed.Query().Get("text")
	assert.Contains(t, text, "LOT-042")
	assert.Contains(t, text, "https://gems.example.com/items/LOT-042")
}

func TestWhatsAppLink_NoPhone(t *testing.T) {
	assert.Empty(t, WhatsAppLink("", "https://gems.example.com", "LOT-042"))
}
