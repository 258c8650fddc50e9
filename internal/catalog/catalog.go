package catalog

import "github.com/verdeo/ecohabit/internal/model"

// Action type names. "Custom" accepts free text and is exempt from the
// one-per-day rule; "Reflection" is a zero-value journal entry and cannot be
// logged through the actions endpoint.
const (
	TypeCarpooling      = "Carpooling"
	TypeReusedContainer = "Reused Container"
	TypeSkippedMeat     = "Skipped Meat"
	TypePublicTransport = "Used Public Transport"
	TypeNoPlasticDay    = "No-Plastic Day"
	TypeCustom          = "Custom"
	TypeReflection      = "Reflection"
)

type ActionValue struct {
	Points      float64
	CarbonSaved float64
}

// Catalog maps action types to their fixed point and carbon values. It is
// built once at startup and passed by injection, never mutated.
type Catalog struct {
	values map[string]ActionValue
}

func Default() *Catalog {
	return &Catalog{values: map[string]ActionValue{
		TypeCarpooling:      {Points: 2, CarbonSaved: 2.5},
		TypeReusedContainer: {Points: 1, CarbonSaved: 0.5},
		TypeSkippedMeat:     {Points: 2, CarbonSaved: 3.0},
		TypePublicTransport: {Points: 1.5, CarbonSaved: 1.8},
		TypeNoPlasticDay:    {Points: 1.5, CarbonSaved: 1.0},
		TypeCustom:          {Points: 1, CarbonSaved: 0.5},
	}}
}

func (c *Catalog) Lookup(actionType string) (ActionValue, bool) {
	v, ok := c.values[actionType]
	return v, ok
}

func (c *Catalog) IsCustom(actionType string) bool {
	return actionType == TypeCustom
}

// Types returns the known loggable type names (order unspecified).
func (c *Catalog) Types() []string {
	types := make([]string, 0, len(c.values))
	for t := range c.values {
		types = append(types, t)
	}
	return types
}

// CategoryOf maps an action type to its impact category for progress rollups.
func CategoryOf(actionType string) string {
	switch actionType {
	case TypeCarpooling, TypePublicTransport:
		return "Transportation"
	case TypeReusedContainer, TypeNoPlasticDay:
		return "Waste"
	case TypeSkippedMeat:
		return "Food"
	default:
		return "Other"
	}
}

// BadgeSeed returns the fixed badge set, seeded once at startup if absent.
func BadgeSeed() []model.Badge {
	return []model.Badge{
		{BadgeID: "streak-3", Name: "3-Day Warrior", Description: "Logged actions for 3 days in a row", Icon: "🌱", Kind: model.BadgeKindStreak, Requirement: 3},
		{BadgeID: "streak-7", Name: "Week Champion", Description: "Maintained a 7-day streak", Icon: "🌿", Kind: model.BadgeKindStreak, Requirement: 7},
		{BadgeID: "streak-30", Name: "Earth Guardian", Description: "Incredible 30-day streak", Icon: "🌳", Kind: model.BadgeKindStreak, Requirement: 30},
		{BadgeID: "points-100", Name: "Century Club", Description: "Earned 100 eco-points", Icon: "🎯", Kind: model.BadgeKindMilestone, Requirement: 100},
		{BadgeID: "points-500", Name: "Impact Master", Description: "Earned 500 eco-points", Icon: "🏆", Kind: model.BadgeKindMilestone, Requirement: 500},
		{BadgeID: "points-1000", Name: "Planet Protector", Description: "Earned 1000 eco-points", Icon: "🌍", Kind: model.BadgeKindMilestone, Requirement: 1000},
		{BadgeID: "transport-10", Name: "Transit Pro", Description: "Used eco-friendly transport 10 times", Icon: "🚌", Kind: model.BadgeKindCategory, Category: TypePublicTransport, Requirement: 10},
		{BadgeID: "waste-15", Name: "Zero Waste Hero", Description: "Completed 15 no-plastic days", Icon: "♻️", Kind: model.BadgeKindCategory, Category: TypeNoPlasticDay, Requirement: 15},
		{BadgeID: "food-20", Name: "Sustainable Foodie", Description: "Logged 20 meat-free days", Icon: "🥗", Kind: model.BadgeKindCategory, Category: TypeSkippedMeat, Requirement: 20},
	}
}
