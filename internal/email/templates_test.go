package email

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderPurchaseTemplate(t *testing.T) {
	start := time.Date(2026, 9, 20, 19, 30, 0, 0, time.UTC)
	html, err := renderTemplate(purchaseTmpl, "Ada Lovelace", "Summer Concert", start, 2)
	require.NoError(t, err)

	assert.Contains(t, html, "Ada Lovelace")
	assert.Contains(t, html, "Summer Concert")
	assert.Contains(t, html, "2026-09-20 19:30 UTC")
	assert.Contains(t, html, "<strong>2</strong>")
}

func TestRenderWelcomeTemplateWithoutEvent(t *testing.T) {
	html, err := renderTemplate(welcomeTmpl, "Ada Lovelace", "", time.Time{}, 0)
	require.NoError(t, err)
	assert.Contains(t, html, "Welcome to QuickTickets")
	assert.Contains(t, html, "Ada Lovelace")
}

func TestRenderTemplateEscapesHTML(t *testing.T) {
	html, err := renderTemplate(reminderTmpl, "<script>alert(1)</script>", "Gala & Ball", time.Now(), 1)
	require.NoError(t, err)
	assert.NotContains(t, html, "<script>")
	assert.Contains(t, html, "Gala &amp; Ball")
}
