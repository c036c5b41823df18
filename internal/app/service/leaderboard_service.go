package service

import (
	"context"
	"sort"

	"contesthub/internal/domain/model"
	"contesthub/internal/domain/repository"
)

type LeaderboardService struct {
	contestRepo repository.ContestRepository
}

func NewLeaderboardService(contestRepo repository.ContestRepository) *LeaderboardService {
	return &LeaderboardService{contestRepo: contestRepo}
}

// GetLeaderboard returns every user with at least one contest win, ordered
// by win count descending. Ties break on user id ascending so the order is
// stable across calls. Contests without a declared winner contribute
// nothing. The full result set is returned; no pagination.
func (s *LeaderboardService) GetLeaderboard(ctx context.Context) ([]model.LeaderboardEntry, error) {
	entries, err := s.contestRepo.WinCounts(ctx)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].WinCount != entries[j].WinCount {
			return entries[i].WinCount > entries[j].WinCount
		}
		return entries[i].UserID < entries[j].UserID
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries, nil
}
