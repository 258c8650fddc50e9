package service

import (
	"context"
	"log"

	"github.com/google/uuid"
	"github.com/verdeo/ecohabit/internal/catalog"
	"github.com/verdeo/ecohabit/internal/dto"
	"github.com/verdeo/ecohabit/internal/model"
	"github.com/verdeo/ecohabit/internal/repository"
)

type BadgeService interface {
	// Seed inserts any missing badge definitions. Idempotent, run at startup.
	Seed(ctx context.Context) error
	// EvaluateForUser checks every badge the user does not hold yet against
	// their current counters and appends the newly qualifying ones. user must
	// carry up-to-date counters and the loaded badge set.
	EvaluateForUser(ctx context.Context, user *model.User) ([]model.Badge, error)
	BadgesForUser(ctx context.Context, userID uuid.UUID) ([]dto.BadgeProgress, error)
}

type badgeService struct {
	badges  repository.BadgeRepository
	users   repository.UserRepository
	actions repository.ActionRepository
}

func NewBadgeService(badges repository.BadgeRepository, users repository.UserRepository, actions repository.ActionRepository) BadgeService {
	return &badgeService{
		badges:  badges,
		users:   users,
		actions: actions,
	}
}

func (s *badgeService) Seed(ctx context.Context) error {
	for _, badge := range catalog.BadgeSeed() {
		exists, err := s.badges.ExistsByBadgeID(ctx, badge.BadgeID)
		if err != nil {
			return err
		}
		if exists {
			continue
		}

		badge := badge
		if err := s.badges.Create(ctx, &badge); err != nil {
			return err
		}
		log.Printf("Created badge: %s", badge.Name)
	}
	return nil
}

func (s *badgeService) EvaluateForUser(ctx context.Context, user *model.User) ([]model.Badge, error) {
	all, err := s.badges.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	held := make(map[uuid.UUID]struct{}, len(user.Badges))
	for _, b := range user.Badges {
		held[b.ID] = struct{}{}
	}

	var newBadges []model.Badge
	for _, badge := range all {
		if _, ok := held[badge.ID]; ok {
			continue
		}

		qualified, err := s.qualifies(ctx, user, badge)
		if err != nil {
			return nil, err
		}
		if qualified {
			newBadges = append(newBadges, badge)
		}
	}

	if len(newBadges) == 0 {
		return nil, nil
	}

	// One append for the whole pass; a single call can unlock several badges.
	if err := s.users.AppendBadges(ctx, user, newBadges); err != nil {
		return nil, err
	}

	return newBadges, nil
}

func (s *badgeService) qualifies(ctx context.Context, user *model.User, badge model.Badge) (bool, error) {
	switch badge.Kind {
	case model.BadgeKindStreak:
		return user.CurrentStreak >= badge.Requirement, nil
	case model.BadgeKindMilestone:
		return user.TotalPoints >= float64(badge.Requirement), nil
	case model.BadgeKindCategory:
		// Live count, not a cached counter.
		count, err := s.actions.CountByUserAndType(ctx, user.ID, badge.Category)
		if err != nil {
			return false, err
		}
		return count >= int64(badge.Requirement), nil
	default:
		return false, nil
	}
}

func (s *badgeService) BadgesForUser(ctx context.Context, userID uuid.UUID) ([]dto.BadgeProgress, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	all, err := s.badges.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	held := make(map[uuid.UUID]struct{}, len(user.Badges))
	for _, b := range user.Badges {
		held[b.ID] = struct{}{}
	}

	result := make([]dto.BadgeProgress, 0, len(all))
	for _, badge := range all {
		_, unlocked := held[badge.ID]
		entry := dto.BadgeProgress{Badge: badge, IsUnlocked: unlocked}

		if !unlocked {
			entry.Target = badge.Requirement
			switch badge.Kind {
			case model.BadgeKindStreak:
				entry.Progress = float64(user.CurrentStreak)
			case model.BadgeKindMilestone:
				entry.Progress = user.TotalPoints
			case model.BadgeKindCategory:
				count, err := s.actions.CountByUserAndType(ctx, userID, badge.Category)
				if err != nil {
					return nil, err
				}
				entry.Progress = float64(count)
			}
		}

		result = append(result, entry)
	}

	return result, nil
}
