package web

import (
	"sync"

	"toornament-stats/api/api"
)

// Config holds the configuration for the web server
type Config struct {
	Addr         string
	API          *api.API
	RefreshToken string // required in the X-Refresh-Token header of refresh webhooks when set
}

// Server is the HTTP server exposing the ranking and the refresh webhook
type Server struct {
	api          *api.API
	refreshToken string

	// refreshes tracks the pipelines started by the webhook
	refreshes sync.WaitGroup
	// refreshing guards against overlapping pipelines
	refreshing sync.Mutex
}

// PlayerSummary is the JSON view of one player role summary
type PlayerSummary struct {
	Rank          int                `json:"rank"`
	Name          string             `json:"name"`
	Team          string             `json:"team"`
	Position      string             `json:"position"`
	Main          bool               `json:"main"`
	Score         float64            `json:"score"`
	Winrate       float64            `json:"winrate"`
	MatchesPlayed int                `json:"matches_played"`
	Stats         map[string]float64 `json:"stats,omitempty"`
}

// RefreshEvent is the optional body of a refresh webhook
type RefreshEvent struct {
	Tournament string `json:"tournament"`
	Reason     string `json:"reason"`
}
