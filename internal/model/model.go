// Package model contains domain entities and DTOs used across layers.
// I keep it lean and focused on data shapes without behavior.
package model

import "time"

// Team represents a managed club team.
type Team struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Player represents an athlete on a team's roster.
type Player struct {
	ID        int64     `json:"id"`
	TeamID    int64     `json:"team_id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Number    string    `json:"number"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Game represents a scheduled, live or finished match.
// DurationMinutes is the regulation length; half length is DurationMinutes/2.
type Game struct {
	ID              int64     `json:"id"`
	Opponent        string    `json:"opponent"`
	Location        string    `json:"location"`
	KickoffAt       time.Time `json:"kickoff_at"`
	DurationMinutes int       `json:"duration_minutes"`
	Status          string    `json:"status"` // scheduled, in_progress, finished
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// GameTeam links a roster team to a game. All recorded events hang off a
// game team, so one team's events never bleed between games.
type GameTeam struct {
	ID        int64     `json:"id"`
	GameID    int64     `json:"game_id"`
	TeamID    int64     `json:"team_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
