package service

import (
	"context"
	"fmt"
	"log"
	"math"
	"time"

	"contesthub/internal/common"
	"contesthub/internal/domain/model"
	"contesthub/internal/domain/repository"
	"contesthub/internal/platform/payment"

	"github.com/google/uuid"
)

type PaymentService struct {
	paymentRepo repository.PaymentRepository
	contestRepo repository.ContestRepository
	provider    payment.Provider
}

func NewPaymentService(
	paymentRepo repository.PaymentRepository,
	contestRepo repository.ContestRepository,
	provider payment.Provider,
) *PaymentService {
	return &PaymentService{
		paymentRepo: paymentRepo,
		contestRepo: contestRepo,
		provider:    provider,
	}
}

type CreateCheckoutSessionRequest struct {
	ContestID   string  `json:"contestId"`
	ContestName string  `json:"contestName"`
	Amount      float64 `json:"amount"`
	UserEmail   string  `json:"userEmail"`
}

// CreateCheckoutSession opens a single-use checkout session with the
// processor and returns the redirect URL. No local state is written here;
// the confirmation flow owns all persistence.
func (s *PaymentService) CreateCheckoutSession(ctx context.Context, req CreateCheckoutSessionRequest) (string, error) {
	if req.ContestID == "" || req.Amount <= 0 {
		return "", fmt.Errorf("contestId and a positive amount are required: %w", common.ErrValidation)
	}

	contest, err := s.contestRepo.FindByID(ctx, req.ContestID)
	if err != nil {
		return "", fmt.Errorf("contest lookup for checkout: %w", err)
	}
	if contest.Status != model.ContestStatusApproved {
		return "", fmt.Errorf("contest is not open for participation: %w", common.ErrForbidden)
	}

	sess, err := s.provider.CreateSession(ctx, payment.CreateSessionInput{
		ContestID:   req.ContestID,
		ContestName: req.ContestName,
		UserEmail:   req.UserEmail,
		AmountMinor: int64(math.Round(req.Amount * 100)),
	})
	if err != nil {
		return "", err
	}
	return sess.URL, nil
}

// ConfirmResult is the terminal state of one confirmation attempt.
type ConfirmResult struct {
	Confirmed        bool
	Reason           string // set when not confirmed
	AlreadyProcessed bool
	Payment          *model.Payment
}

// ConfirmPayment reconciles a completed checkout session with local state.
// The processor is the source of truth for payment status; the settled
// transaction id is the dedup key, so replaying the same session (or a
// regenerated session for the same transaction) records exactly one payment
// and exactly one participation increment.
func (s *PaymentService) ConfirmPayment(ctx context.Context, sessionID string) (*ConfirmResult, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("session_id is required: %w", common.ErrValidation)
	}

	sess, err := s.provider.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if sess.PaymentStatus != payment.PaymentStatusPaid {
		return &ConfirmResult{Confirmed: false, Reason: "payment not completed"}, nil
	}
	if sess.TransactionID == "" {
		return nil, fmt.Errorf("paid session %s has no transaction id: %w", sessionID, common.ErrPaymentProvider)
	}

	p := &model.Payment{
		ID:            uuid.NewString(),
		Email:         sess.Metadata["userEmail"],
		Price:         float64(sess.AmountTotal) / 100,
		TransactionID: sess.TransactionID,
		Date:          time.Now().UTC(),
		ContestID:     sess.Metadata["contestId"],
		ContestName:   sess.Metadata["contestName"],
		Status:        model.PaymentStatusSucceeded,
	}

	created, err := s.paymentRepo.ConfirmTransaction(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("record confirmed payment: %w", err)
	}
	if !created {
		existing, err := s.paymentRepo.FindByTransactionID(ctx, p.TransactionID)
		if err != nil {
			return nil, fmt.Errorf("load already-processed payment: %w", err)
		}
		log.Printf("Payment for transaction %s already processed, replay acknowledged", p.TransactionID)
		return &ConfirmResult{Confirmed: true, AlreadyProcessed: true, Payment: existing}, nil
	}

	return &ConfirmResult{Confirmed: true, Payment: p}, nil
}

// ListPaymentsByEmail returns a user's payment history.
func (s *PaymentService) ListPaymentsByEmail(ctx context.Context, email string) ([]model.Payment, error) {
	return s.paymentRepo.ListByEmail(ctx, email)
}
