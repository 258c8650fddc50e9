package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/verdeo/ecohabit/internal/model"
	"github.com/verdeo/ecohabit/internal/repository"
	"gorm.io/gorm"
)

// In-memory repository doubles. WithTx returns the receiver: the fakes have no
// transactions, every write is immediately visible.

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*model.User
}

func newFakeUserRepo(users ...*model.User) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[uuid.UUID]*model.User)}
	for _, u := range users {
		if u.ID == uuid.Nil {
			u.ID = uuid.New()
		}
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) WithTx(tx *gorm.DB) repository.UserRepository { return r }

func (r *fakeUserRepo) Create(ctx context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *u
	copied.Badges = append([]model.Badge(nil), u.Badges...)
	return &copied, nil
}

func (r *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) ExistsByEmailOrUsername(ctx context.Context, email, username string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email || u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeUserRepo) AddPoints(ctx context.Context, id uuid.UUID, points float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		u.TotalPoints += points
	}
	return nil
}

func (r *fakeUserRepo) UpdateStreak(ctx context.Context, id uuid.UUID, current, longest int, lastActionDate time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		u.CurrentStreak = current
		u.LongestStreak = longest
		last := lastActionDate
		u.LastActionDate = &last
	}
	return nil
}

func (r *fakeUserRepo) AppendBadges(ctx context.Context, user *model.User, badges []model.Badge) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user.Badges = append(user.Badges, badges...)
	if stored, ok := r.users[user.ID]; ok && stored != user {
		stored.Badges = append(stored.Badges, badges...)
	}
	return nil
}

func (r *fakeUserRepo) Count(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.users)), nil
}

func (r *fakeUserRepo) TopByPoints(ctx context.Context, limit int) ([]model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := make([]model.User, 0, len(r.users))
	for _, u := range r.users {
		all = append(all, *u)
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].TotalPoints != all[j].TotalPoints {
			return all[i].TotalPoints > all[j].TotalPoints
		}
		return all[i].Username < all[j].Username
	})
	if limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}

type fakeActionRepo struct {
	mu      sync.Mutex
	records []model.Action
}

func (r *fakeActionRepo) WithTx(tx *gorm.DB) repository.ActionRepository { return r }

func (r *fakeActionRepo) CreateBatch(ctx context.Context, actions []*model.Action) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range actions {
		if a.ID == uuid.Nil {
			a.ID = uuid.New()
		}
		r.records = append(r.records, *a)
	}
	return nil
}

func (r *fakeActionRepo) Save(ctx context.Context, action *model.Action) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.records {
		if r.records[i].ID == action.ID {
			r.records[i] = *action
			return nil
		}
	}
	if action.ID == uuid.Nil {
		action.ID = uuid.New()
	}
	r.records = append(r.records, *action)
	return nil
}

func (r *fakeActionRepo) TypesLoggedSince(ctx context.Context, userID uuid.UUID, since time.Time, types []string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	wanted := make(map[string]struct{}, len(types))
	for _, t := range types {
		wanted[t] = struct{}{}
	}
	seen := make(map[string]struct{})
	var logged []string
	for _, a := range r.records {
		if a.UserID != userID || a.Date.Before(since) {
			continue
		}
		if _, ok := wanted[a.Type]; !ok {
			continue
		}
		if _, dup := seen[a.Type]; dup {
			continue
		}
		seen[a.Type] = struct{}{}
		logged = append(logged, a.Type)
	}
	return logged, nil
}

func (r *fakeActionRepo) CountByUserAndType(ctx context.Context, userID uuid.UUID, actionType string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, a := range r.records {
		if a.UserID == userID && a.Type == actionType {
			count++
		}
	}
	return count, nil
}

func (r *fakeActionRepo) FindByUser(ctx context.Context, userID uuid.UUID, from, to *time.Time, limit, offset int) ([]model.Action, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var matched []model.Action
	for _, a := range r.records {
		if a.UserID != userID {
			continue
		}
		if from != nil && to != nil && (a.Date.Before(*from) || a.Date.After(*to)) {
			continue
		}
		matched = append(matched, a)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].Date.After(matched[j].Date) })
	total := int64(len(matched))
	if offset >= len(matched) {
		return nil, total, nil
	}
	matched = matched[offset:]
	if limit < len(matched) {
		matched = matched[:limit]
	}
	return matched, total, nil
}

func (r *fakeActionRepo) FindByUserBetween(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]model.Action, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var matched []model.Action
	for _, a := range r.records {
		if a.UserID == userID && !a.Date.Before(from) && a.Date.Before(to) {
			matched = append(matched, a)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].Date.Before(matched[j].Date) })
	return matched, nil
}

func (r *fakeActionRepo) FindReflection(ctx context.Context, userID uuid.UUID, from, to time.Time) (*model.Action, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.records {
		a := r.records[i]
		if a.UserID == userID && a.Type == "Reflection" && !a.Date.Before(from) && a.Date.Before(to) {
			copied := a
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeActionRepo) TotalsByUser(ctx context.Context, userID uuid.UUID) (repository.Totals, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var totals repository.Totals
	for _, a := range r.records {
		if a.UserID != userID {
			continue
		}
		totals.Count++
		totals.Points += a.Points
		totals.CarbonSaved += a.CarbonSaved
	}
	return totals, nil
}

func (r *fakeActionRepo) TypeTotalsByUser(ctx context.Context, userID uuid.UUID) ([]repository.TypeTotal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return rollupByType(r.records, func(a model.Action) bool { return a.UserID == userID }), nil
}

func (r *fakeActionRepo) DailyTotalsByUser(ctx context.Context, userID uuid.UUID, since time.Time) ([]repository.DayTotal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	byDay := make(map[string]*repository.DayTotal)
	for _, a := range r.records {
		if a.UserID != userID || a.Date.Before(since) {
			continue
		}
		day := a.Date.Format("2006-01-02")
		t, ok := byDay[day]
		if !ok {
			t = &repository.DayTotal{Day: day}
			byDay[day] = t
		}
		t.Count++
		t.Points += a.Points
		t.CarbonSaved += a.CarbonSaved
	}
	var totals []repository.DayTotal
	for _, t := range byDay {
		totals = append(totals, *t)
	}
	sort.Slice(totals, func(i, j int) bool { return totals[i].Day < totals[j].Day })
	return totals, nil
}

func (r *fakeActionRepo) MonthlyTotalsByUser(ctx context.Context, userID uuid.UUID, year int) ([]repository.MonthTotal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	byMonth := make(map[int]*repository.MonthTotal)
	for _, a := range r.records {
		if a.UserID != userID || a.Date.Year() != year {
			continue
		}
		m := int(a.Date.Month())
		t, ok := byMonth[m]
		if !ok {
			t = &repository.MonthTotal{Month: m}
			byMonth[m] = t
		}
		t.Count++
		t.Points += a.Points
		t.CarbonSaved += a.CarbonSaved
	}
	var totals []repository.MonthTotal
	for _, t := range byMonth {
		totals = append(totals, *t)
	}
	sort.Slice(totals, func(i, j int) bool { return totals[i].Month < totals[j].Month })
	return totals, nil
}

func (r *fakeActionRepo) DayGroupsByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]repository.DayTotal, int64, error) {
	all, err := r.DailyTotalsByUser(ctx, userID, time.Time{})
	if err != nil {
		return nil, 0, err
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Day > all[j].Day })
	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	all = all[offset:]
	if limit < len(all) {
		all = all[:limit]
	}
	return all, total, nil
}

func (r *fakeActionRepo) CommunityTotals(ctx context.Context) (repository.Totals, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var totals repository.Totals
	for _, a := range r.records {
		totals.Count++
		totals.Points += a.Points
		totals.CarbonSaved += a.CarbonSaved
	}
	return totals, nil
}

func (r *fakeActionRepo) CommunityTypeTotals(ctx context.Context) ([]repository.TypeTotal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return rollupByType(r.records, func(model.Action) bool { return true }), nil
}

func (r *fakeActionRepo) CountSince(ctx context.Context, since time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, a := range r.records {
		if !a.Date.Before(since) {
			count++
		}
	}
	return count, nil
}

func rollupByType(records []model.Action, match func(model.Action) bool) []repository.TypeTotal {
	byType := make(map[string]*repository.TypeTotal)
	var order []string
	for _, a := range records {
		if !match(a) {
			continue
		}
		t, ok := byType[a.Type]
		if !ok {
			t = &repository.TypeTotal{Type: a.Type}
			byType[a.Type] = t
			order = append(order, a.Type)
		}
		t.Count++
		t.Points += a.Points
		t.CarbonSaved += a.CarbonSaved
	}
	totals := make([]repository.TypeTotal, 0, len(order))
	for _, name := range order {
		totals = append(totals, *byType[name])
	}
	sort.SliceStable(totals, func(i, j int) bool { return totals[i].Count > totals[j].Count })
	return totals
}

type fakeBadgeRepo struct {
	mu     sync.Mutex
	badges []model.Badge
}

func (r *fakeBadgeRepo) FindAll(ctx context.Context) ([]model.Badge, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]model.Badge(nil), r.badges...), nil
}

func (r *fakeBadgeRepo) ExistsByBadgeID(ctx context.Context, badgeID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.badges {
		if b.BadgeID == badgeID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeBadgeRepo) Create(ctx context.Context, badge *model.Badge) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if badge.ID == uuid.Nil {
		badge.ID = uuid.New()
	}
	r.badges = append(r.badges, *badge)
	return nil
}
