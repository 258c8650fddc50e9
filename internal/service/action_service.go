package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/redis/go-redis/v9"
	"github.com/verdeo/ecohabit/internal/catalog"
	"github.com/verdeo/ecohabit/internal/dto"
	"github.com/verdeo/ecohabit/internal/model"
	"github.com/verdeo/ecohabit/internal/repository"
	"github.com/verdeo/ecohabit/internal/streak"
	"github.com/verdeo/ecohabit/pkg/apperror"
	"gorm.io/gorm"
)

type ActionService interface {
	LogActions(ctx context.Context, userID uuid.UUID, submitted []dto.SubmittedAction) (*dto.LogActionsResponse, error)
	History(ctx context.Context, userID uuid.UUID, from, to *time.Time, limit, page int) ([]model.Action, dto.Pagination, error)
	Today(ctx context.Context, userID uuid.UUID) ([]model.Action, []string, error)
	Stats(ctx context.Context, userID uuid.UUID) (*dto.UserStatsResponse, error)
}

type actionService struct {
	db        *gorm.DB
	actions   repository.ActionRepository
	users     repository.UserRepository
	badges    BadgeService
	community CommunityService
	catalog   *catalog.Catalog
	sanitizer *bluemonday.Policy
	now       func() time.Time

	redisClient *redis.Client
	logLimit    time.Duration
	checkLimit  func(ctx context.Context, userID uuid.UUID) (bool, error)

	// One mutex per user id serializes concurrent logging transactions for
	// the same user; without it two racing requests could both read a stale
	// lastActionDate and double-advance the streak. Entries are never
	// evicted: the map holds one mutex per user seen since startup.
	locks sync.Map
}

func NewActionService(db *gorm.DB, actions repository.ActionRepository, users repository.UserRepository, badges BadgeService, community CommunityService, cat *catalog.Catalog, redisClient *redis.Client, logLimit time.Duration) ActionService {
	s := &actionService{
		db:          db,
		actions:     actions,
		users:       users,
		badges:      badges,
		community:   community,
		catalog:     cat,
		sanitizer:   bluemonday.StrictPolicy(),
		now:         time.Now,
		redisClient: redisClient,
		logLimit:    logLimit,
	}
	s.checkLimit = func(ctx context.Context, userID uuid.UUID) (bool, error) {
		return CheckAndSetRateLimit(ctx, s.redisClient, userID, "log_actions", s.logLimit)
	}
	return s
}

func (s *actionService) userLock(id uuid.UUID) *sync.Mutex {
	v, _ := s.locks.LoadOrStore(id, &sync.Mutex{})
	return v.(*sync.Mutex)
}

func (s *actionService) inTx(fn func(tx *gorm.DB) error) error {
	if s.db == nil {
		return fn(nil)
	}
	return s.db.Transaction(fn)
}

func (s *actionService) LogActions(ctx context.Context, userID uuid.UUID, submitted []dto.SubmittedAction) (*dto.LogActionsResponse, error) {
	// Validate the whole batch before touching anything.
	for _, a := range submitted {
		if _, ok := s.catalog.Lookup(a.Type); !ok {
			return nil, fmt.Errorf("%w: %q", apperror.ErrInvalidActionType, a.Type)
		}
	}

	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	now := s.now()
	today := streak.StartOfDay(now)

	var customActions, standardActions []dto.SubmittedAction
	for _, a := range submitted {
		if s.catalog.IsCustom(a.Type) {
			customActions = append(customActions, a)
		} else {
			standardActions = append(standardActions, a)
		}
	}

	// Non-custom types are limited to one record per calendar day, counting
	// both what is already stored and duplicates within this batch. Custom
	// actions are never filtered.
	surviving := customActions
	if len(standardActions) > 0 {
		types := make([]string, 0, len(standardActions))
		for _, a := range standardActions {
			types = append(types, a.Type)
		}

		logged, err := s.actions.TypesLoggedSince(ctx, userID, today, types)
		if err != nil {
			return nil, err
		}

		seen := make(map[string]struct{}, len(logged))
		for _, t := range logged {
			seen[t] = struct{}{}
		}

		for _, a := range standardActions {
			if _, dup := seen[a.Type]; dup {
				continue
			}
			seen[a.Type] = struct{}{}
			surviving = append(surviving, a)
		}
	}

	if len(surviving) == 0 {
		return nil, apperror.ErrNoNewActions
	}

	// Only a batch that will actually write consumes the rate-limit slot, so
	// an all-duplicate submission does not force the user to wait out the
	// window before retrying a corrected one.
	allowed, err := s.checkLimit(ctx, userID)
	if err != nil {
		// Redis trouble should not block logging.
		log.Printf("rate limit check failed: %v", err)
	} else if !allowed {
		return nil, apperror.ErrRateLimitExceeded
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}

	records := make([]*model.Action, 0, len(surviving))
	var pointsEarned, carbonSaved float64
	for _, a := range surviving {
		value, _ := s.catalog.Lookup(a.Type)
		records = append(records, &model.Action{
			UserID:      userID,
			Type:        a.Type,
			Points:      value.Points,
			CarbonSaved: value.CarbonSaved,
			Notes:       s.sanitizer.Sanitize(a.Notes),
			Date:        now,
		})
		pointsEarned += value.Points
		carbonSaved += value.CarbonSaved
	}

	// One streak step per transaction, no matter the batch size.
	st := streak.Calculate(user.LastActionDate, user.CurrentStreak, user.LongestStreak, now)

	err = s.inTx(func(tx *gorm.DB) error {
		if err := s.actions.WithTx(tx).CreateBatch(ctx, records); err != nil {
			return err
		}
		if err := s.users.WithTx(tx).AddPoints(ctx, userID, pointsEarned); err != nil {
			return err
		}
		// lastActionDate is refreshed even on same-day re-entry; the streak
		// rules compare calendar days, not timestamps.
		return s.users.WithTx(tx).UpdateStreak(ctx, userID, st.Current, st.Longest, now)
	})
	if err != nil {
		return nil, err
	}

	user.TotalPoints += pointsEarned
	user.CurrentStreak = st.Current
	user.LongestStreak = st.Longest
	user.LastActionDate = &now

	// Badge evaluation and the community broadcast are non-fatal: the
	// points/streak/action writes above already committed.
	newBadges, err := s.badges.EvaluateForUser(ctx, user)
	if err != nil {
		log.Printf("badge evaluation failed for user %s: %v", userID, err)
		newBadges = nil
	}

	if err := s.community.Broadcast(ctx); err != nil {
		log.Printf("community broadcast failed: %v", err)
	}

	saved := make([]model.Action, 0, len(records))
	for _, r := range records {
		saved = append(saved, *r)
	}
	if newBadges == nil {
		newBadges = []model.Badge{}
	}

	return &dto.LogActionsResponse{
		Actions:   saved,
		NewBadges: newBadges,
		Stats: dto.LogStats{
			TotalPoints:   user.TotalPoints,
			ActionsAdded:  len(saved),
			CurrentStreak: user.CurrentStreak,
			PointsEarned:  pointsEarned,
			CarbonSaved:   carbonSaved,
		},
	}, nil
}

func (s *actionService) History(ctx context.Context, userID uuid.UUID, from, to *time.Time, limit, page int) ([]model.Action, dto.Pagination, error) {
	if limit <= 0 {
		limit = 50
	}
	if page <= 0 {
		page = 1
	}
	offset := (page - 1) * limit

	actions, total, err := s.actions.FindByUser(ctx, userID, from, to, limit, offset)
	if err != nil {
		return nil, dto.Pagination{}, err
	}

	return actions, dto.Pagination{
		Total: total,
		Page:  page,
		Limit: limit,
		Pages: int(math.Ceil(float64(total) / float64(limit))),
	}, nil
}

func (s *actionService) Today(ctx context.Context, userID uuid.UUID) ([]model.Action, []string, error) {
	today := streak.StartOfDay(s.now())
	actions, err := s.actions.FindByUserBetween(ctx, userID, today, today.AddDate(0, 0, 1))
	if err != nil {
		return nil, nil, err
	}

	completed := make([]string, 0, len(actions))
	for _, a := range actions {
		completed = append(completed, a.Type)
	}
	return actions, completed, nil
}

func (s *actionService) Stats(ctx context.Context, userID uuid.UUID) (*dto.UserStatsResponse, error) {
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

	sevenDaysAgo := streak.StartOfDay(s.now()).AddDate(0, 0, -7)
	daily, err := s.actions.DailyTotalsByUser(ctx, userID, sevenDaysAgo)
	if err != nil {
		return nil, err
	}

	byType := make([]dto.TypeBreakdown, 0, len(typeTotals))
	for _, t := range typeTotals {
		byType = append(byType, dto.TypeBreakdown{Type: t.Type, Count: t.Count, Points: t.Points, CarbonSaved: t.CarbonSaved})
	}
	dailyBuckets := make([]dto.DayBucket, 0, len(daily))
	for _, d := range daily {
		dailyBuckets = append(dailyBuckets, dto.DayBucket{Day: d.Day, Count: d.Count, Points: d.Points, CarbonSaved: d.CarbonSaved})
	}

	return &dto.UserStatsResponse{
		TotalActions:     totals.Count,
		TotalPoints:      totals.Points,
		TotalCarbonSaved: totals.CarbonSaved,
		ActionsByType:    byType,
		DailyActions:     dailyBuckets,
		Streak: dto.StreakCounters{
			Current: user.CurrentStreak,
			Longest: user.LongestStreak,
		},
	}, nil
}
