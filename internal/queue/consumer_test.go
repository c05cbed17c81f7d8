package queue

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockDeliverer mocks the email sender behind the consumer.
type MockDeliverer struct {
	mock.Mock
}

func (m *MockDeliverer) Deliver(msg EmailMessage) error {
	args := m.Called(msg)
	return args.Error(0)
}

func TestHandleMessageDelivers(t *testing.T) {
	msg := EmailMessage{
		Type:      EmailPurchase,
		To:        "ada@example.com",
		Name:      "Ada Lovelace",
		EventName: "Summer Concert",
		EventDate: time.Date(2026, 9, 20, 19, 30, 0, 0, time.UTC),
		Quantity:  2,
	}
	body, err := json.Marshal(msg)
	require.NoError(t, err)

	d := new(MockDeliverer)
	d.On("Deliver", msg).Return(nil)

	require.NoError(t, handleMessage(body, d))
	d.AssertExpectations(t)
}

func TestHandleMessageRejectsMalformedBody(t *testing.T) {
	d := new(MockDeliverer)
	assert.Error(t, handleMessage([]byte("{not json"), d))
	d.AssertNotCalled(t, "Deliver", mock.Anything)
}

func TestHandleMessageRejectsMissingRecipient(t *testing.T) {
	body, _ := json.Marshal(EmailMessage{Type: EmailWelcome, Name: "Ada"})
	d := new(MockDeliverer)
	assert.Error(t, handleMessage(body, d))
	d.AssertNotCalled(t, "Deliver", mock.Anything)
}
