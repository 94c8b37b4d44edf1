/* store_interface.go
 * Contains the Store interface for dependency injection and testing
 */

package store

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"

	"toornament-stats/api/external"
	"toornament-stats/api/shared"
)

// Interface defines the methods that Store implements.
// This allows for mocking in tests.
type Interface interface {
	// players
	UpsertRosterPlayers(ctx context.Context, players []shared.Player) (matched int64, upserted int64, err error)
	GetPlayers(ctx context.Context) ([]shared.Player, error)
	GetPlayersWithoutPUUID(ctx context.Context) ([]shared.Player, error)
	SetPlayerPUUID(ctx context.Context, gameName string, tagLine string, puuid string) error

	// matches
	MatchExists(ctx context.Context, matchID string) (bool, error)
	InsertMatch(ctx context.Context, matchID string, doc bson.M) error
	GetMatches(ctx context.Context) ([]external.MatchDocument, error)
	SetMatchContext(ctx context.Context, matchCtx MatchContext) error
	GetMatchParticipants(ctx context.Context) ([]PlayerMatchRef, error)

	// timelines
	GetMatchIDsWithoutTimeline(ctx context.Context) ([]string, error)
	UpsertTimeline(ctx context.Context, matchID string, doc bson.M) error
	GetTimeline(ctx context.Context, matchID string) (*external.TimelineDocument, error)

	// stats_players
	UpsertPerformanceRecords(ctx context.Context, records []PerformanceRecord) error
	DeletePerformanceRecordsExcept(ctx context.Context, keep map[string][]string) (int64, error)
	GetPerformanceRecords(ctx context.Context) ([]PerformanceRecord, error)

	GetTournament() string
	Close(ctx context.Context) error
}

// Ensure Store implements Interface
var _ Interface = (*Store)(nil)

// GetTournament returns the tournament name, which is also the database name
func (s *Store) GetTournament() string {
	return s.Tournament
}
