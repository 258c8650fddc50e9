package dto

// The community snapshot keeps the camelCase wire shape the dashboard client
// consumes, both over REST and on the websocket broadcast.

type ActionTypeStat struct {
	Name        string  `json:"name"`
	Count       int64   `json:"count"`
	CarbonSaved float64 `json:"carbonSaved"`
}

type WeeklyStats struct {
	ActionsThisWeek  int64  `json:"actionsThisWeek"`
	MostPopularHabit string `json:"mostPopularHabit"`
}

type CommunityStats struct {
	TotalUsers       int64            `json:"totalUsers"`
	TotalActions     int64            `json:"totalActions"`
	TotalCarbonSaved float64          `json:"totalCarbonSaved"`
	ActionsByType    []ActionTypeStat `json:"actionsByType"`
	Weekly           WeeklyStats      `json:"weekly"`
}

type LeaderboardEntry struct {
	Username string  `json:"username"`
	Points   float64 `json:"points"`
	Streak   int     `json:"streak"`
	Rank     int     `json:"rank"`
}

type CommunitySnapshot struct {
	Stats       CommunityStats     `json:"stats"`
	Leaderboard []LeaderboardEntry `json:"leaderboard"`
}
