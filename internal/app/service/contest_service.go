package service

import (
	"context"
	"fmt"
	"time"

	"contesthub/internal/common"
	"contesthub/internal/domain/model"
	"contesthub/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

const (
	defaultPageSize  = 10
	popularListLimit = 6
)

type ContestService struct {
	contestRepo    repository.ContestRepository
	userRepo       repository.UserRepository
	submissionRepo repository.SubmissionRepository
}

func NewContestService(
	contestRepo repository.ContestRepository,
	userRepo repository.UserRepository,
	submissionRepo repository.SubmissionRepository,
) *ContestService {
	return &ContestService{
		contestRepo:    contestRepo,
		userRepo:       userRepo,
		submissionRepo: submissionRepo,
	}
}

type CreateContestRequest struct {
	Name            string    `json:"name"`
	Image           string    `json:"image"`
	Description     string    `json:"description"`
	Price           float64   `json:"price"`
	Prize           string    `json:"prize"`
	TaskInstruction string    `json:"taskInstruction"`
	Type            string    `json:"type"`
	Tags            []string  `json:"tags"`
	Deadline        time.Time `json:"deadline"`
}

func (r CreateContestRequest) validate() error {
	if r.Name == "" || r.Image == "" || r.Description == "" || r.Prize == "" ||
		r.TaskInstruction == "" || r.Type == "" {
		return fmt.Errorf("missing required contest field: %w", common.ErrValidation)
	}
	if r.Price < 0 {
		return fmt.Errorf("price must not be negative: %w", common.ErrValidation)
	}
	if r.Deadline.IsZero() {
		return fmt.Errorf("deadline is required: %w", common.ErrValidation)
	}
	return nil
}

// Create registers a new contest in pending status with the caller embedded
// as creator snapshot. It stays invisible to public listings until an admin
// approves it.
func (s *ContestService) Create(ctx context.Context, creatorEmail string, req CreateContestRequest) (*model.Contest, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	creator, err := s.userRepo.FindByEmail(ctx, creatorEmail)
	if err != nil {
		return nil, fmt.Errorf("creator lookup: %w", err)
	}

	contest := &model.Contest{
		ID:              uuid.NewString(),
		Name:            req.Name,
		Slug:            slug.Make(req.Name),
		Image:           req.Image,
		Description:     req.Description,
		Price:           req.Price,
		Prize:           req.Prize,
		TaskInstruction: req.TaskInstruction,
		Type:            req.Type,
		Tags:            req.Tags,
		Deadline:        req.Deadline,
		Creator: model.CreatorSnapshot{
			Name:  creator.Name,
			Email: creator.Email,
			Image: creator.Image,
		},
		Status: model.ContestStatusPending,
	}
	if err := s.contestRepo.Create(ctx, contest); err != nil {
		return nil, err
	}
	return contest, nil
}

type ListContestsRequest struct {
	Search string
	Type   string
	Page   int
	Limit  int
}

// List returns approved contests matching the filter, paginated, along with
// the total match count.
func (s *ContestService) List(ctx context.Context, req ListContestsRequest) ([]model.Contest, int, error) {
	if req.Page <= 0 {
		req.Page = 1
	}
	if req.Limit <= 0 {
		req.Limit = defaultPageSize
	}
	offset := (req.Page - 1) * req.Limit
	filter := repository.ContestFilter{Search: req.Search, Type: req.Type}
	return s.contestRepo.ListApproved(ctx, filter, req.Limit, offset)
}

func (s *ContestService) Popular(ctx context.Context) ([]model.Contest, error) {
	return s.contestRepo.ListPopular(ctx, popularListLimit)
}

func (s *ContestService) Get(ctx context.Context, id string) (*model.Contest, error) {
	return s.contestRepo.FindByID(ctx, id)
}

func (s *ContestService) ListByCreator(ctx context.Context, creatorEmail string) ([]model.Contest, error) {
	return s.contestRepo.ListByCreator(ctx, creatorEmail)
}

// ListWonBy returns the contests won by the user registered under email.
func (s *ContestService) ListWonBy(ctx context.Context, email string) ([]model.Contest, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	return s.contestRepo.ListByWinner(ctx, user.ID)
}

// Update lets a creator edit their own contest.
func (s *ContestService) Update(ctx context.Context, creatorEmail, id string, req CreateContestRequest) (*model.Contest, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	contest, err := s.ownedContest(ctx, creatorEmail, id)
	if err != nil {
		return nil, err
	}
	contest.Name = req.Name
	contest.Slug = slug.Make(req.Name)
	contest.Image = req.Image
	contest.Description = req.Description
	contest.Price = req.Price
	contest.Prize = req.Prize
	contest.TaskInstruction = req.TaskInstruction
	contest.Type = req.Type
	contest.Tags = req.Tags
	contest.Deadline = req.Deadline
	if err := s.contestRepo.Update(ctx, contest); err != nil {
		return nil, err
	}
	return contest, nil
}

func (s *ContestService) Delete(ctx context.Context, creatorEmail, id string) error {
	if _, err := s.ownedContest(ctx, creatorEmail, id); err != nil {
		return err
	}
	return s.contestRepo.Delete(ctx, id)
}

// DeclareWinner sets the contest winner once. The chosen user must have
// submitted to the contest.
func (s *ContestService) DeclareWinner(ctx context.Context, creatorEmail, contestID, winnerID string) (*model.Contest, error) {
	if winnerID == "" {
		return nil, fmt.Errorf("winnerId is required: %w", common.ErrValidation)
	}
	contest, err := s.ownedContest(ctx, creatorEmail, contestID)
	if err != nil {
		return nil, err
	}
	if contest.WinnerID != nil {
		return nil, fmt.Errorf("winner already declared: %w", common.ErrConflict)
	}
	if _, err := s.userRepo.FindByID(ctx, winnerID); err != nil {
		return nil, fmt.Errorf("winner lookup: %w", err)
	}
	participated, err := s.submissionRepo.ExistsForContestUser(ctx, contestID, winnerID)
	if err != nil {
		return nil, err
	}
	if !participated {
		return nil, fmt.Errorf("winner must have a submission for the contest: %w", common.ErrValidation)
	}
	if err := s.contestRepo.SetWinner(ctx, contestID, winnerID); err != nil {
		return nil, err
	}
	contest.WinnerID = &winnerID
	return contest, nil
}

// AdminList returns every contest regardless of status.
func (s *ContestService) AdminList(ctx context.Context) ([]model.Contest, error) {
	return s.contestRepo.ListAll(ctx)
}

func (s *ContestService) Approve(ctx context.Context, id string) error {
	if _, err := s.contestRepo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.contestRepo.UpdateStatus(ctx, id, model.ContestStatusApproved)
}

func (s *ContestService) AdminDelete(ctx context.Context, id string) error {
	return s.contestRepo.Delete(ctx, id)
}

func (s *ContestService) ownedContest(ctx context.Context, creatorEmail, id string) (*model.Contest, error) {
	contest, err := s.contestRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if contest.Creator.Email != creatorEmail {
		return nil, fmt.Errorf("contest belongs to another creator: %w", common.ErrForbidden)
	}
	return contest, nil
}
