package utils

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"
)

const testWebhookSecret = "whsec_test"

func signedEvent(t *testing.T, eventType string, object map[string]any) (payload []byte, header string) {
	raw, err := json.Marshal(map[string]any{
		"id":          "evt_1",
		"object":      "event",
		"api_version": stripe.APIVersion,
		"type":        eventType,
		"data":        map[string]any{"object": object},
	})
	require.NoError(t, err)

	signed := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload:   raw,
		Secret:    testWebhookSecret,
		Timestamp: time.Now(),
	})
	return signed.Payload, signed.Header
}

func TestParseEventPaymentIntentSucceeded(t *testing.T) {
	p := &StripeProcessor{WebhookSecret: testWebhookSecret}

	payload, header := signedEvent(t, EventPaymentIntentSucceeded, map[string]any{
		"id":       "pi_123",
		"object":   "payment_intent",
		"amount":   8010,
		"status":   "succeeded",
		"metadata": map[string]string{"bookingId": "65f000000000000000000001"},
	})

	event, err := p.ParseEvent(payload, header)
	require.NoError(t, err)
	assert.Equal(t, EventPaymentIntentSucceeded, event.Type)
	require.NotNil(t, event.Intent)
	assert.Equal(t, "pi_123", event.Intent.Id)
	assert.Equal(t, int64(8010), event.Intent.Amount)
	assert.True(t, event.Intent.Succeeded())
	assert.Equal(t, "65f000000000000000000001", event.Intent.Metadata["bookingId"])
}

func TestParseEventRejectsBadSignature(t *testing.T) {
	p := &StripeProcessor{WebhookSecret: testWebhookSecret}
	payload, _ := signedEvent(t, EventPaymentIntentSucceeded, map[string]any{"id": "pi_1"})

	_, err := p.ParseEvent(payload, "t=1,v1=deadbeef")
	assert.Error(t, err)
}

func TestParseEventOtherTypes(t *testing.T) {
	p := &StripeProcessor{WebhookSecret: testWebhookSecret}
	payload, header := signedEvent(t, "charge.refunded", map[string]any{"id": "ch_1", "object": "charge"})

	event, err := p.ParseEvent(payload, header)
	require.NoError(t, err)
	assert.Equal(t, "charge.refunded", event.Type)
	assert.Nil(t, event.Intent)
}
