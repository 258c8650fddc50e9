package dto

import "github.com/verdeo/ecohabit/internal/model"

type JournalEntry struct {
	Date             string         `json:"date"`
	Actions          []model.Action `json:"actions"`
	TotalPoints      float64        `json:"total_points"`
	TotalCarbonSaved float64        `json:"total_carbon_saved"`
	ActionCount      int64          `json:"action_count"`
}

type JournalResponse struct {
	Entries    []JournalEntry `json:"entries"`
	Stats      LifetimeStats  `json:"stats"`
	Pagination Pagination     `json:"pagination"`
}

type LifetimeStats struct {
	TotalPoints      float64 `json:"total_points"`
	TotalCarbonSaved float64 `json:"total_carbon_saved"`
	TotalActions     int64   `json:"total_actions"`
}

type DayDetail struct {
	Date    string         `json:"date"`
	Actions []model.Action `json:"actions"`
	Stats   DayStats       `json:"stats"`
}

type DayStats struct {
	TotalPoints      float64 `json:"total_points"`
	TotalCarbonSaved float64 `json:"total_carbon_saved"`
	ActionCount      int     `json:"action_count"`
}

type ReflectionInput struct {
	Reflection string `json:"reflection" binding:"required"`
}
