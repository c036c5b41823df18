package service

import (
	"context"
	"fmt"
	"time"

	"contesthub/internal/common"
	"contesthub/internal/domain/model"
	"contesthub/internal/domain/repository"

	"github.com/google/uuid"
)

type SubmissionService struct {
	submissionRepo repository.SubmissionRepository
	contestRepo    repository.ContestRepository
	paymentRepo    repository.PaymentRepository
	userRepo       repository.UserRepository
}

func NewSubmissionService(
	submissionRepo repository.SubmissionRepository,
	contestRepo repository.ContestRepository,
	paymentRepo repository.PaymentRepository,
	userRepo repository.UserRepository,
) *SubmissionService {
	return &SubmissionService{
		submissionRepo: submissionRepo,
		contestRepo:    contestRepo,
		paymentRepo:    paymentRepo,
		userRepo:       userRepo,
	}
}

type CreateSubmissionRequest struct {
	ContestID string `json:"contestId"`
	TaskURL   string `json:"taskUrl"`
}

// Create records a participant's task submission. Participation requires a
// confirmed payment for the contest.
func (s *SubmissionService) Create(ctx context.Context, participantEmail string, req CreateSubmissionRequest) (*model.Submission, error) {
	if req.ContestID == "" || req.TaskURL == "" {
		return nil, fmt.Errorf("contestId and taskUrl are required: %w", common.ErrValidation)
	}

	user, err := s.userRepo.FindByEmail(ctx, participantEmail)
	if err != nil {
		return nil, fmt.Errorf("participant lookup: %w", err)
	}
	if _, err := s.contestRepo.FindByID(ctx, req.ContestID); err != nil {
		return nil, fmt.Errorf("contest lookup: %w", err)
	}

	paid, err := s.paymentRepo.HasSucceededPayment(ctx, req.ContestID, participantEmail)
	if err != nil {
		return nil, err
	}
	if !paid {
		return nil, fmt.Errorf("no confirmed payment for this contest: %w", common.ErrForbidden)
	}

	submission := &model.Submission{
		ID:               uuid.NewString(),
		ContestID:        req.ContestID,
		UserID:           user.ID,
		ParticipantEmail: user.Email,
		ParticipantName:  user.Name,
		TaskURL:          req.TaskURL,
		Date:             time.Now().UTC(),
	}
	if err := s.submissionRepo.Create(ctx, submission); err != nil {
		return nil, err
	}
	return submission, nil
}

// ListByContest returns a contest's submissions to its creator.
func (s *SubmissionService) ListByContest(ctx context.Context, creatorEmail, contestID string) ([]model.Submission, error) {
	contest, err := s.contestRepo.FindByID(ctx, contestID)
	if err != nil {
		return nil, err
	}
	if contest.Creator.Email != creatorEmail {
		return nil, fmt.Errorf("contest belongs to another creator: %w", common.ErrForbidden)
	}
	return s.submissionRepo.ListByContest(ctx, contestID)
}

func (s *SubmissionService) ListByParticipant(ctx context.Context, email string) ([]model.Submission, error) {
	return s.submissionRepo.ListByParticipantEmail(ctx, email)
}
