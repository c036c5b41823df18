package payment

import "context"

// CheckoutSession is the provider-neutral view of an external checkout
// session. TransactionID is the settled payment's stable identifier,
// distinct from the session id (a session may be regenerated, the
// transaction id is fixed once payment succeeds).
type CheckoutSession struct {
	ID            string
	URL           string
	PaymentStatus string
	TransactionID string
	AmountTotal   int64 // minor units (cents)
	Metadata      map[string]string
}

const PaymentStatusPaid = "paid"

type CreateSessionInput struct {
	ContestID   string
	ContestName string
	UserEmail   string
	AmountMinor int64
}

type Provider interface {
	CreateSession(ctx context.Context, in CreateSessionInput) (*CheckoutSession, error)
	GetSession(ctx context.Context, sessionID string) (*CheckoutSession, error)
}
