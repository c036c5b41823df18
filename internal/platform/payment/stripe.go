package payment

import (
	"context"
	"fmt"

	"contesthub/internal/common"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/checkout/session"
)

type stripeProvider struct {
	successURL string
	cancelURL  string
}

// NewStripeProvider configures the global Stripe client key and returns a
// Provider backed by Stripe Checkout.
func NewStripeProvider(secretKey, successURL, cancelURL string) Provider {
	stripe.Key = secretKey
	return &stripeProvider{successURL: successURL, cancelURL: cancelURL}
}

func (p *stripeProvider) CreateSession(ctx context.Context, in CreateSessionInput) (*CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{
		Mode:          stripe.String(string(stripe.CheckoutSessionModePayment)),
		CustomerEmail: stripe.String(in.UserEmail),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(string(stripe.CurrencyUSD)),
					UnitAmount: stripe.Int64(in.AmountMinor),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(in.ContestName),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(p.successURL + "?session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:  stripe.String(p.cancelURL),
	}
	params.Context = ctx
	// Opaque metadata read back during confirmation.
	params.AddMetadata("contestId", in.ContestID)
	params.AddMetadata("userEmail", in.UserEmail)
	params.AddMetadata("contestName", in.ContestName)

	s, err := session.New(params)
	if err != nil {
		return nil, fmt.Errorf("stripe create checkout session: %v: %w", err, common.ErrPaymentProvider)
	}
	return fromStripeSession(s), nil
}

func (p *stripeProvider) GetSession(ctx context.Context, sessionID string) (*CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx
	s, err := session.Get(sessionID, params)
	if err != nil {
		return nil, fmt.Errorf("stripe retrieve checkout session %s: %v: %w", sessionID, err, common.ErrPaymentProvider)
	}
	return fromStripeSession(s), nil
}

func fromStripeSession(s *stripe.CheckoutSession) *CheckoutSession {
	cs := &CheckoutSession{
		ID:            s.ID,
		URL:           s.URL,
		PaymentStatus: string(s.PaymentStatus),
		AmountTotal:   s.AmountTotal,
		Metadata:      s.Metadata,
	}
	if s.PaymentIntent != nil {
		cs.TransactionID = s.PaymentIntent.ID
	}
	return cs
}
