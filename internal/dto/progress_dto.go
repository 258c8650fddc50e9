package dto

import "github.com/verdeo/ecohabit/internal/model"

// BadgeProgress decorates a badge definition with the viewer's unlock state
// and, while locked, how far along they are.
type BadgeProgress struct {
	model.Badge
	IsUnlocked bool    `json:"is_unlocked"`
	Progress   float64 `json:"progress,omitempty"`
	Target     int     `json:"target,omitempty"`
}

type MonthProgress struct {
	Month       string  `json:"month"`
	Actions     int64   `json:"actions"`
	Points      float64 `json:"points"`
	CarbonSaved float64 `json:"carbon_saved"`
}

type CategoryImpact struct {
	Category    string  `json:"category"`
	Count       int64   `json:"count"`
	Points      float64 `json:"points"`
	CarbonSaved float64 `json:"carbon_saved"`
}

type StreakSummary struct {
	Current int `json:"current"`
	Longest int `json:"longest"`
}

type ProgressResponse struct {
	TotalPoints      float64          `json:"total_points"`
	TotalActions     int64            `json:"total_actions"`
	TotalCarbonSaved float64          `json:"total_carbon_saved"`
	Streak           StreakSummary    `json:"streak"`
	ProgressByMonth  []MonthProgress  `json:"progress_by_month"`
	ImpactByCategory []CategoryImpact `json:"impact_by_category"`
	Badges           []BadgeProgress  `json:"badges"`
}
