package service

import (
	"context"
	"testing"

	"contesthub/internal/domain/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func wonContest(id, winnerID string) *model.Contest {
	c := approvedContest(id)
	if winnerID != "" {
		c.WinnerID = &winnerID
	}
	return c
}

func TestLeaderboardOrdersByWinCount(t *testing.T) {
	contestRepo := &fakeContestRepo{contests: []*model.Contest{
		wonContest("w1", "u1"),
		wonContest("w2", "u1"),
		wonContest("w3", "u2"),
		wonContest("w4", ""), // no declared winner, must not appear
	}}
	svc := NewLeaderboardService(contestRepo)

	entries, err := svc.GetLeaderboard(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, "u1", entries[0].UserID)
	assert.Equal(t, 2, entries[0].WinCount)
	assert.Equal(t, 1, entries[0].Rank)

	assert.Equal(t, "u2", entries[1].UserID)
	assert.Equal(t, 1, entries[1].WinCount)
	assert.Equal(t, 2, entries[1].Rank)
}

func TestLeaderboardBreaksTiesByUserID(t *testing.T) {
	contestRepo := &fakeContestRepo{contests: []*model.Contest{
		wonContest("w1", "u9"),
		wonContest("w2", "u1"),
	}}
	svc := NewLeaderboardService(contestRepo)

	entries, err := svc.GetLeaderboard(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "u1", entries[0].UserID)
	assert.Equal(t, "u9", entries[1].UserID)
}

func TestLeaderboardEmptyWithoutWinners(t *testing.T) {
	svc := NewLeaderboardService(&fakeContestRepo{contests: []*model.Contest{
		wonContest("w1", ""),
	}})

	entries, err := svc.GetLeaderboard(context.Background())
	require.NoError(t, err)
	assert.Empty(t, entries)
}
