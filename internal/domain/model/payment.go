package model

import "time"

const (
	PaymentStatusPending   = "pending"
	PaymentStatusSucceeded = "succeeded"
)

// Payment records one confirmed contest entry. TransactionID is the payment
// processor's settled-transaction identifier and is unique across all
// payments; it is the dedup key for confirmation replays.
type Payment struct {
	ID            string    `json:"id"`
	Email         string    `json:"email"`
	Price         float64   `json:"price"`
	TransactionID string    `json:"transactionId"`
	Date          time.Time `json:"date"`
	ContestID     string    `json:"contestId"`
	ContestName   string    `json:"contestName"`
	Status        string    `json:"status"`
}
