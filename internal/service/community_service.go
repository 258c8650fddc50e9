package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/verdeo/ecohabit/internal/dto"
	"github.com/verdeo/ecohabit/internal/repository"
)

// CommunityChannel is the redis pub/sub channel the websocket handler relays
// to every viewer of the community room.
const CommunityChannel = "community_stats"

type CommunityService interface {
	Snapshot(ctx context.Context) (*dto.CommunitySnapshot, error)
	Leaderboard(ctx context.Context, limit int) ([]dto.LeaderboardEntry, error)
	// Broadcast recomputes the snapshot and publishes it. Callers treat a
	// failure as non-fatal: a missed broadcast never fails a logging call.
	Broadcast(ctx context.Context) error
}

type communityService struct {
	users        repository.UserRepository
	actions      repository.ActionRepository
	redisClient  *redis.Client
	leaderboardN int
	now          func() time.Time
}

func NewCommunityService(users repository.UserRepository, actions repository.ActionRepository, redisClient *redis.Client, leaderboardN int) CommunityService {
	if leaderboardN <= 0 {
		leaderboardN = 10
	}
	return &communityService{
		users:        users,
		actions:      actions,
		redisClient:  redisClient,
		leaderboardN: leaderboardN,
		now:          time.Now,
	}
}

// Snapshot recomputes the community aggregate from scratch; it is a pure
// function of the current users/actions tables, nothing is cached.
func (s *communityService) Snapshot(ctx context.Context) (*dto.CommunitySnapshot, error) {
	totalUsers, err := s.users.Count(ctx)
	if err != nil {
		return nil, err
	}

	totals, err := s.actions.CommunityTotals(ctx)
	if err != nil {
		return nil, err
	}

	typeTotals, err := s.actions.CommunityTypeTotals(ctx)
	if err != nil {
		return nil, err
	}

	oneWeekAgo := s.now().AddDate(0, 0, -7)
	weeklyActions, err := s.actions.CountSince(ctx, oneWeekAgo)
	if err != nil {
		return nil, err
	}

	actionsByType := make([]dto.ActionTypeStat, 0, len(typeTotals))
	for _, t := range typeTotals {
		actionsByType = append(actionsByType, dto.ActionTypeStat{
			Name:        t.Type,
			Count:       t.Count,
			CarbonSaved: t.CarbonSaved,
		})
	}

	mostPopular := "N/A"
	if len(actionsByType) > 0 {
		mostPopular = actionsByType[0].Name
	}

	leaderboard, err := s.Leaderboard(ctx, s.leaderboardN)
	if err != nil {
		return nil, err
	}

	return &dto.CommunitySnapshot{
		Stats: dto.CommunityStats{
			TotalUsers:       totalUsers,
			TotalActions:     totals.Count,
			TotalCarbonSaved: totals.CarbonSaved,
			ActionsByType:    actionsByType,
			Weekly: dto.WeeklyStats{
				ActionsThisWeek:  weeklyActions,
				MostPopularHabit: mostPopular,
			},
		},
		Leaderboard: leaderboard,
	}, nil
}

func (s *communityService) Leaderboard(ctx context.Context, limit int) ([]dto.LeaderboardEntry, error) {
	if limit <= 0 {
		limit = s.leaderboardN
	}

	top, err := s.users.TopByPoints(ctx, limit)
	if err != nil {
		return nil, err
	}

	leaderboard := make([]dto.LeaderboardEntry, 0, len(top))
	for i, user := range top {
		leaderboard = append(leaderboard, dto.LeaderboardEntry{
			Username: user.Username,
			Points:   user.TotalPoints,
			Streak:   user.CurrentStreak,
			Rank:     i + 1,
		})
	}

	return leaderboard, nil
}

func (s *communityService) Broadcast(ctx context.Context) error {
	if s.redisClient == nil {
		return nil
	}

	snapshot, err := s.Snapshot(ctx)
	if err != nil {
		return fmt.Errorf("recompute community snapshot: %w", err)
	}

	payload, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}

	return s.redisClient.Publish(ctx, CommunityChannel, payload).Err()
}
