/* stats_players.go
 * Contains the methods for interacting with the stats_players collection, the per player per match fact table
 */

package store

import (
	"context"
	"fmt"
	"sort"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Function to upsert performance records by (match_id, name). Records are fully replaced so re-running the
// flattening over unchanged matches leaves the collection unchanged
// Preconditions: Receives context and the records to write
// Postconditions: Records are written in a single unordered bulk write, or an error is returned
func (s *Store) UpsertPerformanceRecords(ctx context.Context, records []PerformanceRecord) error {
	if len(records) == 0 {
		return nil
	}

	models := make([]mongo.WriteModel, 0, len(records))
	for _, record := range records {
		models = append(models, mongo.NewReplaceOneModel().
			SetFilter(bson.D{{Key: "match_id", Value: record.MatchID}, {Key: "name", Value: record.Name}}).
			SetReplacement(record).
			SetUpsert(true))
	}

	if _, err := s.Collections.StatsPlayers.BulkWrite(ctx, models, options.BulkWrite().SetOrdered(false)); err != nil {
		return fmt.Errorf("error upserting performance records: %w", err)
	}
	return nil
}

// Function to delete the performance records a rebuild did not produce
// Preconditions: Receives context and the names written per match id by the rebuild
// Postconditions: Records of matches absent from keep, and records of kept matches whose name is not listed, are
// deleted. Returns the number of deleted records
func (s *Store) DeletePerformanceRecordsExcept(ctx context.Context, keep map[string][]string) (int64, error) {
	matchIDs := make([]string, 0, len(keep))
	for matchID := range keep {
		matchIDs = append(matchIDs, matchID)
	}
	sort.Strings(matchIDs)

	models := []mongo.WriteModel{
		mongo.NewDeleteManyModel().SetFilter(bson.D{{Key: "match_id", Value: bson.D{{Key: "$nin", Value: matchIDs}}}}),
	}
	for _, matchID := range matchIDs {
		models = append(models, mongo.NewDeleteManyModel().SetFilter(bson.D{
			{Key: "match_id", Value: matchID},
			{Key: "name", Value: bson.D{{Key: "$nin", Value: keep[matchID]}}},
		}))
	}

	result, err := s.Collections.StatsPlayers.BulkWrite(ctx, models, options.BulkWrite().SetOrdered(false))
	if err != nil {
		return 0, fmt.Errorf("error pruning performance records: %w", err)
	}
	return result.DeletedCount, nil
}

// GetPerformanceRecords returns the whole fact table ordered by match then name
func (s *Store) GetPerformanceRecords(ctx context.Context) ([]PerformanceRecord, error) {
	opts := options.Find().SetSort(bson.D{{Key: "match_id", Value: 1}, {Key: "name", Value: 1}})
	cursor, err := s.Collections.StatsPlayers.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("error fetching performance records: %w", err)
	}
	defer cursor.Close(ctx)

	var records []PerformanceRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("error decoding performance records: %w", err)
	}
	return records, nil
}
