package utils

import (
	"context"
	"encoding/json"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"
)

const EventPaymentIntentSucceeded = string(stripe.EventTypePaymentIntentSucceeded)

type PaymentIntent struct {
	Id           string
	ClientSecret string
	Status       string
	Amount       int64
	Metadata     map[string]string
}

func (pi *PaymentIntent) Succeeded() bool {
	return pi.Status == string(stripe.PaymentIntentStatusSucceeded)
}

type PaymentEvent struct {
	Type   string
	Intent *PaymentIntent // set for payment_intent.* events
}

// PaymentProcessor is the slice of the Stripe api the payment handlers use.
type PaymentProcessor interface {
	CreateIntent(ctx context.Context, amount int64, currency string, metadata map[string]string) (*PaymentIntent, error)
	GetIntent(ctx context.Context, id string) (*PaymentIntent, error)
	ParseEvent(payload []byte, signature string) (*PaymentEvent, error)
}

type StripeProcessor struct {
	StripeCli     *stripe.Client
	WebhookSecret string
}

func fromStripe(pi *stripe.PaymentIntent) *PaymentIntent {
	return &PaymentIntent{
		Id:           pi.ID,
		ClientSecret: pi.ClientSecret,
		Status:       string(pi.Status),
		Amount:       pi.Amount,
		Metadata:     pi.Metadata,
	}
}

func (p *StripeProcessor) CreateIntent(ctx context.Context, amount int64, currency string, metadata map[string]string) (*PaymentIntent, error) {

	params := &stripe.PaymentIntentCreateParams{
		Amount:             stripe.Int64(amount),
		Currency:           stripe.String(currency),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		Metadata:           metadata,
	}

	pi, err := p.StripeCli.V1PaymentIntents.Create(ctx, params)
	if err != nil {
		return nil, err
	}
	return fromStripe(pi), nil

}

func (p *StripeProcessor) GetIntent(ctx context.Context, id string) (*PaymentIntent, error) {
	pi, err := p.StripeCli.V1PaymentIntents.Retrieve(ctx, id, nil)
	if err != nil {
		return nil, err
	}
	return fromStripe(pi), nil
}

func (p *StripeProcessor) ParseEvent(payload []byte, signature string) (*PaymentEvent, error) {

	event, err := webhook.ConstructEvent(payload, signature, p.WebhookSecret)
	if err != nil {
		return nil, err
	}

	pe := &PaymentEvent{Type: string(event.Type)}
	if event.Type == stripe.EventTypePaymentIntentSucceeded {
		var pi stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
			return nil, err
		}
		pe.Intent = fromStripe(&pi)
	}

	return pe, nil

}
