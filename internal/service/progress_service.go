package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/verdeo/ecohabit/internal/catalog"
	"github.com/verdeo/ecohabit/internal/dto"
	"github.com/verdeo/ecohabit/internal/repository"
	"github.com/verdeo/ecohabit/pkg/apperror"
	"gorm.io/gorm"
)

var monthNames = []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

type ProgressService interface {
	Progress(ctx context.Context, userID uuid.UUID) (*dto.ProgressResponse, error)
	Monthly(ctx context.Context, userID uuid.UUID, year int) ([]dto.MonthProgress, error)
}

type progressService struct {
	users   repository.UserRepository
	actions repository.ActionRepository
	badges  BadgeService
	now     func() time.Time
}

func NewProgressService(users repository.UserRepository, actions repository.ActionRepository, badges BadgeService) ProgressService {
	return &progressService{
		users:   users,
		actions: actions,
		badges:  badges,
		now:     time.Now,
	}
}

func (s *progressService) Progress(ctx context.Context, userID uuid.UUID) (*dto.ProgressResponse, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}

	totals, err := s.actions.TotalsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	typeTotals, err := s.actions.TypeTotalsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	monthly, err := s.Monthly(ctx, userID, s.now().Year())
	if err != nil {
		return nil, err
	}

	badges, err := s.badges.BadgesForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &dto.ProgressResponse{
		TotalPoints:      totals.Points,
		TotalActions:     totals.Count,
		TotalCarbonSaved: totals.CarbonSaved,
		Streak: dto.StreakSummary{
			Current: user.CurrentStreak,
			Longest: user.LongestStreak,
		},
		ProgressByMonth:  monthly,
		ImpactByCategory: rollupCategories(typeTotals),
		Badges:           badges,
	}, nil
}

func (s *progressService) Monthly(ctx context.Context, userID uuid.UUID, year int) ([]dto.MonthProgress, error) {
	if year <= 0 {
		year = s.now().Year()
	}

	monthly, err := s.actions.MonthlyTotalsByUser(ctx, userID, year)
	if err != nil {
		return nil, err
	}

	progress := make([]dto.MonthProgress, 0, len(monthly))
	for _, m := range monthly {
		if m.Month < 1 || m.Month > 12 {
			continue
		}
		progress = append(progress, dto.MonthProgress{
			Month:       monthNames[m.Month-1],
			Actions:     m.Count,
			Points:      m.Points,
			CarbonSaved: m.CarbonSaved,
		})
	}
	return progress, nil
}

func rollupCategories(typeTotals []repository.TypeTotal) []dto.CategoryImpact {
	byCategory := make(map[string]*dto.CategoryImpact)
	var order []string

	for _, t := range typeTotals {
		category := catalog.CategoryOf(t.Type)
		impact, ok := byCategory[category]
		if !ok {
			impact = &dto.CategoryImpact{Category: category}
			byCategory[category] = impact
			order = append(order, category)
		}
		impact.Count += t.Count
		impact.Points += t.Points
		impact.CarbonSaved += t.CarbonSaved
	}

	result := make([]dto.CategoryImpact, 0, len(order))
	for _, category := range order {
		result = append(result, *byCategory[category])
	}
	return result
}
