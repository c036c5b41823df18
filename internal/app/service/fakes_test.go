package service

import (
	"context"
	"fmt"
	"strings"

	"contesthub/internal/common"
	"contesthub/internal/domain/model"
	"contesthub/internal/domain/repository"
	"contesthub/internal/platform/payment"
)

// In-memory fakes over the repository and provider interfaces.

type fakeUserRepo struct {
	users []*model.User
}

func (r *fakeUserRepo) Create(_ context.Context, user *model.User) error {
	for _, u := range r.users {
		if u.Email == user.Email {
			return fmt.Errorf("duplicate email: %w", common.ErrConflict)
		}
	}
	r.users = append(r.users, user)
	return nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			copy := *u
			return &copy, nil
		}
	}
	return nil, common.ErrNotFound
}

func (r *fakeUserRepo) FindByID(_ context.Context, id string) (*model.User, error) {
	for _, u := range r.users {
		if u.ID == id {
			copy := *u
			return &copy, nil
		}
	}
	return nil, common.ErrNotFound
}

func (r *fakeUserRepo) List(_ context.Context) ([]model.User, error) {
	out := []model.User{}
	for _, u := range r.users {
		out = append(out, *u)
	}
	return out, nil
}

func (r *fakeUserRepo) UpdateRole(_ context.Context, id, role string) error {
	for _, u := range r.users {
		if u.ID == id {
			u.Role = role
			return nil
		}
	}
	return common.ErrNotFound
}

func (r *fakeUserRepo) UpdateProfile(_ context.Context, user *model.User) error {
	for _, u := range r.users {
		if u.Email == user.Email {
			*u = *user
			return nil
		}
	}
	return common.ErrNotFound
}

type fakeContestRepo struct {
	contests []*model.Contest

	lastLimit  int
	lastOffset int
}

func (r *fakeContestRepo) Create(_ context.Context, c *model.Contest) error {
	r.contests = append(r.contests, c)
	return nil
}

func (r *fakeContestRepo) FindByID(_ context.Context, id string) (*model.Contest, error) {
	for _, c := range r.contests {
		if c.ID == id {
			copy := *c
			return &copy, nil
		}
	}
	return nil, common.ErrNotFound
}

func (r *fakeContestRepo) ListApproved(_ context.Context, filter repository.ContestFilter, limit, offset int) ([]model.Contest, int, error) {
	r.lastLimit, r.lastOffset = limit, offset

	matched := []model.Contest{}
	for _, c := range r.contests {
		if c.Status != model.ContestStatusApproved {
			continue
		}
		if filter.Search != "" && !strings.Contains(strings.ToLower(c.Type), strings.ToLower(filter.Search)) {
			continue
		}
		if filter.Type != "" && c.Type != filter.Type {
			continue
		}
		matched = append(matched, *c)
	}
	total := len(matched)
	if offset >= total {
		return []model.Contest{}, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return matched[offset:end], total, nil
}

func (r *fakeContestRepo) ListPopular(_ context.Context, limit int) ([]model.Contest, error) {
	out := []model.Contest{}
	for _, c := range r.contests {
		if c.Status == model.ContestStatusApproved {
			out = append(out, *c)
		}
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeContestRepo) ListByCreator(_ context.Context, creatorEmail string) ([]model.Contest, error) {
	out := []model.Contest{}
	for _, c := range r.contests {
		if c.Creator.Email == creatorEmail {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *fakeContestRepo) ListByWinner(_ context.Context, winnerID string) ([]model.Contest, error) {
	out := []model.Contest{}
	for _, c := range r.contests {
		if c.WinnerID != nil && *c.WinnerID == winnerID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *fakeContestRepo) ListAll(_ context.Context) ([]model.Contest, error) {
	out := []model.Contest{}
	for _, c := range r.contests {
		out = append(out, *c)
	}
	return out, nil
}

func (r *fakeContestRepo) Update(_ context.Context, contest *model.Contest) error {
	for _, c := range r.contests {
		if c.ID == contest.ID {
			*c = *contest
			return nil
		}
	}
	return common.ErrNotFound
}

func (r *fakeContestRepo) UpdateStatus(_ context.Context, id string, status model.ContestStatus) error {
	for _, c := range r.contests {
		if c.ID == id {
			c.Status = status
			return nil
		}
	}
	return common.ErrNotFound
}

func (r *fakeContestRepo) SetWinner(_ context.Context, id, winnerID string) error {
	for _, c := range r.contests {
		if c.ID == id {
			if c.WinnerID != nil {
				return fmt.Errorf("winner already declared: %w", common.ErrConflict)
			}
			c.WinnerID = &winnerID
			return nil
		}
	}
	return common.ErrNotFound
}

func (r *fakeContestRepo) Delete(_ context.Context, id string) error {
	for i, c := range r.contests {
		if c.ID == id {
			r.contests = append(r.contests[:i], r.contests[i+1:]...)
			return nil
		}
	}
	return common.ErrNotFound
}

func (r *fakeContestRepo) WinCounts(_ context.Context) ([]model.LeaderboardEntry, error) {
	counts := map[string]*model.LeaderboardEntry{}
	order := []string{}
	for _, c := range r.contests {
		if c.WinnerID == nil {
			continue
		}
		if e, ok := counts[*c.WinnerID]; ok {
			e.WinCount++
			continue
		}
		counts[*c.WinnerID] = &model.LeaderboardEntry{UserID: *c.WinnerID, WinCount: 1}
		order = append(order, *c.WinnerID)
	}
	out := []model.LeaderboardEntry{}
	for _, id := range order {
		out = append(out, *counts[id])
	}
	return out, nil
}

// fakePaymentRepo mirrors the conditional-insert contract: one payment per
// transaction id, the increment bound to a successful insert.
type fakePaymentRepo struct {
	payments   map[string]*model.Payment // by transaction id
	increments map[string]int            // contest id -> increment count
}

func newFakePaymentRepo() *fakePaymentRepo {
	return &fakePaymentRepo{
		payments:   map[string]*model.Payment{},
		increments: map[string]int{},
	}
}

func (r *fakePaymentRepo) ConfirmTransaction(_ context.Context, p *model.Payment) (bool, error) {
	if _, ok := r.payments[p.TransactionID]; ok {
		return false, nil
	}
	copy := *p
	r.payments[p.TransactionID] = &copy
	r.increments[p.ContestID]++
	return true, nil
}

func (r *fakePaymentRepo) FindByTransactionID(_ context.Context, transactionID string) (*model.Payment, error) {
	if p, ok := r.payments[transactionID]; ok {
		copy := *p
		return &copy, nil
	}
	return nil, common.ErrNotFound
}

func (r *fakePaymentRepo) HasSucceededPayment(_ context.Context, contestID, email string) (bool, error) {
	for _, p := range r.payments {
		if p.ContestID == contestID && p.Email == email && p.Status == model.PaymentStatusSucceeded {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakePaymentRepo) ListByEmail(_ context.Context, email string) ([]model.Payment, error) {
	out := []model.Payment{}
	for _, p := range r.payments {
		if p.Email == email {
			out = append(out, *p)
		}
	}
	return out, nil
}

type fakeSubmissionRepo struct {
	submissions []*model.Submission
}

func (r *fakeSubmissionRepo) Create(_ context.Context, s *model.Submission) error {
	r.submissions = append(r.submissions, s)
	return nil
}

func (r *fakeSubmissionRepo) ListByContest(_ context.Context, contestID string) ([]model.Submission, error) {
	out := []model.Submission{}
	for _, s := range r.submissions {
		if s.ContestID == contestID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (r *fakeSubmissionRepo) ListByParticipantEmail(_ context.Context, email string) ([]model.Submission, error) {
	out := []model.Submission{}
	for _, s := range r.submissions {
		if s.ParticipantEmail == email {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (r *fakeSubmissionRepo) ExistsForContestUser(_ context.Context, contestID, userID string) (bool, error) {
	for _, s := range r.submissions {
		if s.ContestID == contestID && s.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

type fakeProvider struct {
	sessions  map[string]*payment.CheckoutSession
	lastInput payment.CreateSessionInput
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{sessions: map[string]*payment.CheckoutSession{}}
}

func (p *fakeProvider) CreateSession(_ context.Context, in payment.CreateSessionInput) (*payment.CheckoutSession, error) {
	p.lastInput = in
	return &payment.CheckoutSession{
		ID:          "cs_test",
		URL:         "https://checkout.example.com/cs_test",
		AmountTotal: in.AmountMinor,
	}, nil
}

func (p *fakeProvider) GetSession(_ context.Context, sessionID string) (*payment.CheckoutSession, error) {
	if s, ok := p.sessions[sessionID]; ok {
		return s, nil
	}
	return nil, fmt.Errorf("no such session %s: %w", sessionID, common.ErrPaymentProvider)
}

type fakeRoleCache struct {
	roles       map[string]string
	invalidated []string
}

func newFakeRoleCache() *fakeRoleCache {
	return &fakeRoleCache{roles: map[string]string{}}
}

func (c *fakeRoleCache) Get(_ context.Context, email string) (string, bool) {
	role, ok := c.roles[email]
	return role, ok
}

func (c *fakeRoleCache) Set(_ context.Context, email, role string) {
	c.roles[email] = role
}

func (c *fakeRoleCache) Invalidate(_ context.Context, email string) {
	delete(c.roles, email)
	c.invalidated = append(c.invalidated, email)
}
