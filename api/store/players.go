/* players.go
 * Contains the methods for interacting with the players collection
 */

package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"toornament-stats/api/shared"
)

// Function to upsert the roster into the players collection, keyed by (gameName, tagLine). Only team and name are
// overwritten so a previously resolved puuid survives a roster re-import
// Preconditions: Receives context and the parsed roster
// Postconditions: Returns the matched and upserted counts, or an error if the bulk write failed
func (s *Store) UpsertRosterPlayers(ctx context.Context, players []shared.Player) (int64, int64, error) {
	if len(players) == 0 {
		return 0, 0, nil
	}

	models := make([]mongo.WriteModel, 0, len(players))
	for _, player := range players {
		models = append(models, mongo.NewUpdateOneModel().
			SetFilter(bson.D{{Key: "gameName", Value: player.GameName}, {Key: "tagLine", Value: player.TagLine}}).
			SetUpdate(bson.D{{Key: "$set", Value: bson.D{
				{Key: "team", Value: player.Team},
				{Key: "name", Value: player.Name},
				{Key: "last_updated", Value: time.Now().UTC()},
			}}}).
			SetUpsert(true))
	}

	result, err := s.Collections.Players.BulkWrite(ctx, models, options.BulkWrite().SetOrdered(false))
	if err != nil {
		return 0, 0, fmt.Errorf("error upserting roster: %w", err)
	}
	return result.MatchedCount, result.UpsertedCount, nil
}

// GetPlayers returns every roster entry
func (s *Store) GetPlayers(ctx context.Context) ([]shared.Player, error) {
	return s.findPlayers(ctx, bson.D{})
}

// GetPlayersWithoutPUUID returns the roster entries that have not been resolved against the account api yet
func (s *Store) GetPlayersWithoutPUUID(ctx context.Context) ([]shared.Player, error) {
	filter := bson.D{{Key: "$or", Value: bson.A{
		bson.D{{Key: "puuid", Value: bson.D{{Key: "$exists", Value: false}}}},
		bson.D{{Key: "puuid", Value: ""}},
	}}}
	return s.findPlayers(ctx, filter)
}

func (s *Store) findPlayers(ctx context.Context, filter bson.D) ([]shared.Player, error) {
	cursor, err := s.Collections.Players.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("error fetching players: %w", err)
	}
	defer cursor.Close(ctx)

	var players []shared.Player
	if err := cursor.All(ctx, &players); err != nil {
		return nil, fmt.Errorf("error decoding players: %w", err)
	}
	return players, nil
}

// SetPlayerPUUID stores the resolved puuid of a roster entry
func (s *Store) SetPlayerPUUID(ctx context.Context, gameName string, tagLine string, puuid string) error {
	result, err := s.Collections.Players.UpdateOne(ctx,
		bson.D{{Key: "gameName", Value: gameName}, {Key: "tagLine", Value: tagLine}},
		bson.D{{Key: "$set", Value: bson.D{
			{Key: "puuid", Value: puuid},
			{Key: "last_updated", Value: time.Now().UTC()},
		}}},
	)
	if err != nil {
		return fmt.Errorf("error setting puuid for %s#%s: %w", gameName, tagLine, err)
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
