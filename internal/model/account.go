package model

import "time"

// AccountID uniquely identifies a remote account
type AccountID string

// Account is a registered remote identity
type Account struct {
	ID           AccountID
	Username     string // immutable, unique
	Email        string // unique, lower-cased
	PasswordHash string // bcrypt hash
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// LeaderboardEntry is one ranked player
type LeaderboardEntry struct {
	Rank            int     `json:"rank"`
	Username        string  `json:"username"`
	AllTimePotatoes float64 `json:"all_time_potatoes"`
}

// Leaderboard is the top of the ranking plus, for an authenticated caller,
// their own position.
type Leaderboard struct {
	TopPlayers []LeaderboardEntry `json:"topPlayers"`
	UserRank   *LeaderboardEntry  `json:"userRank"`
}
