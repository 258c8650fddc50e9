package service

import (
	"context"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/verdeo/ecohabit/internal/catalog"
	"github.com/verdeo/ecohabit/internal/dto"
	"github.com/verdeo/ecohabit/internal/model"
	"github.com/verdeo/ecohabit/internal/repository"
	"github.com/verdeo/ecohabit/pkg/apperror"
)

type JournalService interface {
	Entries(ctx context.Context, userID uuid.UUID, limit, page int) (*dto.JournalResponse, error)
	DayDetail(ctx context.Context, userID uuid.UUID, date string) (*dto.DayDetail, error)
	// UpsertReflection stores the day's free-text reflection as a zero-point
	// "Reflection" entry, one per date, overwritten on re-submission.
	UpsertReflection(ctx context.Context, userID uuid.UUID, date, reflection string) (*model.Action, error)
}

type journalService struct {
	actions   repository.ActionRepository
	sanitizer *bluemonday.Policy
}

func NewJournalService(actions repository.ActionRepository) JournalService {
	return &journalService{
		actions:   actions,
		sanitizer: bluemonday.StrictPolicy(),
	}
}

func (s *journalService) Entries(ctx context.Context, userID uuid.UUID, limit, page int) (*dto.JournalResponse, error) {
	if limit <= 0 {
		limit = 30
	}
	if page <= 0 {
		page = 1
	}
	offset := (page - 1) * limit

	groups, total, err := s.actions.DayGroupsByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, err
	}

	entries := make([]dto.JournalEntry, 0, len(groups))
	for _, g := range groups {
		start, err := time.ParseInLocation("2006-01-02", g.Day, time.Local)
		if err != nil {
			return nil, err
		}

		actions, err := s.actions.FindByUserBetween(ctx, userID, start, start.AddDate(0, 0, 1))
		if err != nil {
			return nil, err
		}

		entries = append(entries, dto.JournalEntry{
			Date:             g.Day,
			Actions:          actions,
			TotalPoints:      g.Points,
			TotalCarbonSaved: g.CarbonSaved,
			ActionCount:      g.Count,
		})
	}

	lifetime, err := s.actions.TotalsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &dto.JournalResponse{
		Entries: entries,
		Stats: dto.LifetimeStats{
			TotalPoints:      lifetime.Points,
			TotalCarbonSaved: lifetime.CarbonSaved,
			TotalActions:     lifetime.Count,
		},
		Pagination: dto.Pagination{
			Total: total,
			Page:  page,
			Limit: limit,
			Pages: int(math.Ceil(float64(total) / float64(limit))),
		},
	}, nil
}

func (s *journalService) DayDetail(ctx context.Context, userID uuid.UUID, date string) (*dto.DayDetail, error) {
	start, err := parseJournalDate(date)
	if err != nil {
		return nil, err
	}

	actions, err := s.actions.FindByUserBetween(ctx, userID, start, start.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}

	var points, carbon float64
	for _, a := range actions {
		points += a.Points
		carbon += a.CarbonSaved
	}

	return &dto.DayDetail{
		Date:    date,
		Actions: actions,
		Stats: dto.DayStats{
			TotalPoints:      points,
			TotalCarbonSaved: carbon,
			ActionCount:      len(actions),
		},
	}, nil
}

func (s *journalService) UpsertReflection(ctx context.Context, userID uuid.UUID, date, reflection string) (*model.Action, error) {
	start, err := parseJournalDate(date)
	if err != nil {
		return nil, err
	}

	notes := s.sanitizer.Sanitize(reflection)

	existing, err := s.actions.FindReflection(ctx, userID, start, start.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}

	if existing != nil {
		existing.Notes = notes
		if err := s.actions.Save(ctx, existing); err != nil {
			return nil, err
		}
		return existing, nil
	}

	entry := &model.Action{
		UserID:      userID,
		Type:        catalog.TypeReflection,
		Points:      0,
		CarbonSaved: 0,
		Notes:       notes,
		Date:        start,
	}
	if err := s.actions.Save(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func parseJournalDate(date string) (time.Time, error) {
	start, err := time.ParseInLocation("2006-01-02", date, time.Local)
	if err != nil {
		return time.Time{}, apperror.New(400, "invalid date format, use YYYY-MM-DD", apperror.ErrBadRequest)
	}
	return start, nil
}
