package service

import (
	"context"
	"errors"
	"testing"

	"contesthub/internal/common"
	"contesthub/internal/domain/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateSubmissionRequiresPayment(t *testing.T) {
	userRepo := &fakeUserRepo{users: []*model.User{
		{ID: "u1", Name: "Alice", Email: "alice@example.com", Role: model.RoleUser},
	}}
	contestRepo := &fakeContestRepo{contests: []*model.Contest{approvedContest("c1")}}
	svc := NewSubmissionService(&fakeSubmissionRepo{}, contestRepo, newFakePaymentRepo(), userRepo)

	_, err := svc.Create(context.Background(), "alice@example.com", CreateSubmissionRequest{
		ContestID: "c1",
		TaskURL:   "https://tasks.example.com/alice/logo",
	})
	assert.True(t, errors.Is(err, common.ErrForbidden))
}

func TestCreateSubmissionAfterPayment(t *testing.T) {
	userRepo := &fakeUserRepo{users: []*model.User{
		{ID: "u1", Name: "Alice", Email: "alice@example.com", Role: model.RoleUser},
	}}
	contestRepo := &fakeContestRepo{contests: []*model.Contest{approvedContest("c1")}}
	paymentRepo := newFakePaymentRepo()
	paymentRepo.payments["pi_1"] = &model.Payment{
		ContestID: "c1",
		Email:     "alice@example.com",
		Status:    model.PaymentStatusSucceeded,
	}
	svc := NewSubmissionService(&fakeSubmissionRepo{}, contestRepo, paymentRepo, userRepo)

	submission, err := svc.Create(context.Background(), "alice@example.com", CreateSubmissionRequest{
		ContestID: "c1",
		TaskURL:   "https://tasks.example.com/alice/logo",
	})
	require.NoError(t, err)
	assert.Equal(t, "u1", submission.UserID)
	assert.Equal(t, "Alice", submission.ParticipantName)
	assert.Equal(t, "alice@example.com", submission.ParticipantEmail)
	assert.False(t, submission.Date.IsZero())
}

func TestCreateSubmissionValidation(t *testing.T) {
	svc := NewSubmissionService(&fakeSubmissionRepo{}, &fakeContestRepo{}, newFakePaymentRepo(), &fakeUserRepo{})

	_, err := svc.Create(context.Background(), "alice@example.com", CreateSubmissionRequest{TaskURL: "x"})
	assert.True(t, errors.Is(err, common.ErrValidation))

	_, err = svc.Create(context.Background(), "alice@example.com", CreateSubmissionRequest{ContestID: "c1"})
	assert.True(t, errors.Is(err, common.ErrValidation))
}

func TestListByContestRequiresOwnership(t *testing.T) {
	contestRepo := &fakeContestRepo{contests: []*model.Contest{approvedContest("c1")}}
	svc := NewSubmissionService(&fakeSubmissionRepo{}, contestRepo, newFakePaymentRepo(), &fakeUserRepo{})

	_, err := svc.ListByContest(context.Background(), "mallory@example.com", "c1")
	assert.True(t, errors.Is(err, common.ErrForbidden))

	subs, err := svc.ListByContest(context.Background(), "carol@example.com", "c1")
	require.NoError(t, err)
	assert.Empty(t, subs)
}
