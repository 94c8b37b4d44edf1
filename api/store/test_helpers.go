/* test_helpers.go
 * Contains test helper functions and sample documents for store package tests
 */

package store

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
)

// CreateTestStore creates a Store connected to a throwaway test database.
// Returns the store and a cleanup function that drops the database.
func CreateTestStore(ctx context.Context, mongoURI string, dbName string) (*Store, func(), error) {
	store, err := NewStore(ctx, dbName, mongoURI)
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {
		if store.Client != nil {
			store.Database.Drop(context.TODO())
			store.Client.Disconnect(context.TODO())
		}
	}

	return store, cleanup, nil
}

// SampleMatchDocument builds a raw match document shaped like the match-v5 api response. Seats 1-5 use
// puuids blue0..blue4 and seats 6-10 red0..red4
func SampleMatchDocument(matchID string, gameCreation int64) bson.M {
	participants := bson.A{}
	puuids := bson.A{}
	positions := []string{"TOP", "JUNGLE", "MIDDLE", "BOTTOM", "UTILITY"}
	for seat := 0; seat < 10; seat++ {
		side, teamID := "blue", 100
		if seat >= 5 {
			side, teamID = "red", 200
		}
		puuid := fmt.Sprintf("%s%d", side, seat%5)
		puuids = append(puuids, puuid)
		participants = append(participants, bson.M{
			"participantId": seat + 1,
			"puuid":         puuid,
			"teamId":        teamID,
			"teamPosition":  positions[seat%5],
			"championName":  "Annie",
			"kills":         seat,
			"deaths":        1,
			"assists":       2,
			"win":           teamID == 100,
			"challenges":    bson.M{"killParticipation": 0.5, "unknownUpstreamField": 3},
		})
	}

	return bson.M{
		"metadata": bson.M{"matchId": matchID, "participants": puuids},
		"info": bson.M{
			"gameCreation":    gameCreation,
			"gameDuration":    1800,
			"endOfGameResult": "GameComplete",
			"tournamentCode":  "CODE-1",
			"participants":    participants,
		},
	}
}

// SampleTimelineDocument builds a one frame timeline where seat 1 has 4200 total gold
func SampleTimelineDocument() bson.M {
	frames := bson.M{}
	for seat := 1; seat <= 10; seat++ {
		frames[fmt.Sprintf("%d", seat)] = bson.M{
			"participantId":       seat,
			"minionsKilled":       100,
			"jungleMinionsKilled": 10,
			"totalGold":           4200,
			"xp":                  5000,
		}
	}
	return bson.M{
		"metadata": bson.M{"matchId": "EUW1_1"},
		"info": bson.M{
			"frameInterval": 60000,
			"frames":        bson.A{bson.M{"timestamp": 0, "participantFrames": frames}},
		},
	}
}
