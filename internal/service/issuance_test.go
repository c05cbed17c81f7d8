package service

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueProducesDistinctTickets(t *testing.T) {
	issuer := NewIssuer("https://tickets.example.com/")
	tickets := issuer.Issue("event-1", "buyer-1", 4)

	require.Len(t, tickets, 4)
	seen := map[string]bool{}
	for _, tk := range tickets {
		assert.NotEmpty(t, tk.ID)
		assert.False(t, seen[tk.ID])
		seen[tk.ID] = true
		assert.Equal(t, "https://tickets.example.com/v1/tickets/"+tk.ID, tk.QRPayload)
		assert.False(t, tk.Used)
		assert.Equal(t, tickets[0].PurchasedAt, tk.PurchasedAt, "one purchase shares one timestamp")
	}
}

func TestVerificationURLTrimsTrailingSlash(t *testing.T) {
	withSlash := NewIssuer("https://tickets.example.com/")
	without := NewIssuer("https://tickets.example.com")
	assert.Equal(t, without.VerificationURL("abc"), withSlash.VerificationURL("abc"))
}

func TestQRCodePNG(t *testing.T) {
	issuer := NewIssuer("https://tickets.example.com")
	tickets := issuer.Issue("event-1", "buyer-1", 1)

	png, err := issuer.QRCodePNG(&tickets[0])
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, []byte("\x89PNG")), "output is a PNG image")
}
