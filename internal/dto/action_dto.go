package dto

import "github.com/verdeo/ecohabit/internal/model"

type SubmittedAction struct {
	Type  string `json:"type" binding:"required"`
	Notes string `json:"notes"`
}

type LogActionsRequest struct {
	Actions []SubmittedAction `json:"actions" binding:"required,min=1,dive"`
}

// LogStats summarizes one logging call: the user's running total plus what
// this call alone earned.
type LogStats struct {
	TotalPoints   float64 `json:"total_points"`
	ActionsAdded  int     `json:"actions_added"`
	CurrentStreak int     `json:"current_streak"`
	PointsEarned  float64 `json:"points_earned"`
	CarbonSaved   float64 `json:"carbon_saved"`
}

type LogActionsResponse struct {
	Actions   []model.Action `json:"actions"`
	NewBadges []model.Badge  `json:"new_badges"`
	Stats     LogStats       `json:"stats"`
}

type Pagination struct {
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Pages int   `json:"pages"`
}

type TypeBreakdown struct {
	Type        string  `json:"type"`
	Count       int64   `json:"count"`
	Points      float64 `json:"points"`
	CarbonSaved float64 `json:"carbon_saved"`
}

type DayBucket struct {
	Day         string  `json:"day"`
	Count       int64   `json:"count"`
	Points      float64 `json:"points"`
	CarbonSaved float64 `json:"carbon_saved"`
}

type StreakCounters struct {
	Current int `json:"current"`
	Longest int `json:"longest"`
}

// UserStatsResponse backs the per-user statistics endpoint.
type UserStatsResponse struct {
	TotalActions     int64           `json:"total_actions"`
	TotalPoints      float64         `json:"total_points"`
	TotalCarbonSaved float64         `json:"total_carbon_saved"`
	ActionsByType    []TypeBreakdown `json:"actions_by_type"`
	DailyActions     []DayBucket     `json:"daily_actions"`
	Streak           StreakCounters  `json:"streak"`
}
