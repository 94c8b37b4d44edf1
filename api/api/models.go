/* models.go
 * This file contain the interfaces, structs and helper functions that are used by api consumers
 */

package api

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
)

// RiotSource is the part of the Riot client used to refresh the database
type RiotSource interface {
	GetPUUID(ctx context.Context, gameName string, tagLine string) (string, error)
	GetMatchIDs(ctx context.Context, puuid string, start int64, end int64) ([]string, error)
	GetMatch(ctx context.Context, matchID string) (bson.M, error)
	GetTimeline(ctx context.Context, matchID string) (bson.M, error)
}

// PlayersUpdate summarises a roster import
type PlayersUpdate struct {
	Matched      int64
	Upserted     int64
	Resolved     int
	FailedLookup []string // Riot IDs that could not be resolved
}

// MatchesUpdate summarises a match and timeline refresh
type MatchesUpdate struct {
	Listed    int // distinct ids returned by the match list endpoint
	Inserted  int
	Filtered  int // downloaded but not a completed game of this tournament
	Failed    int
	Timelines int
}

// StatsUpdate summarises a stats_players refresh
type StatsUpdate struct {
	Matches           int
	Records           int
	Pruned            int64
	SkippedMatches    int
	MissingTimelines  int
	UnresolvedPlayers int
}

// UnlinkedIdentity is a puuid seen in matches that is not on the roster
type UnlinkedIdentity struct {
	PUUID    string
	MatchIDs []string
}
