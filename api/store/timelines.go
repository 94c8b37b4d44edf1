/* timelines.go
 * Contains the methods for interacting with the timelines collection
 */

package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"toornament-stats/api/external"
)

var ErrTimelineNotFound = errors.New("timeline not found")

// GetMatchIDsWithoutTimeline returns the ids of stored matches that have no timeline document yet
func (s *Store) GetMatchIDsWithoutTimeline(ctx context.Context) ([]string, error) {
	existing, err := s.Collections.Timelines.Distinct(ctx, "match_id", bson.D{{Key: "match_id", Value: bson.D{{Key: "$ne", Value: ""}}}})
	if err != nil {
		return nil, fmt.Errorf("error listing timelines: %w", err)
	}
	if existing == nil {
		existing = []interface{}{}
	}

	filter := bson.D{{Key: "match_id", Value: bson.D{
		{Key: "$exists", Value: true},
		{Key: "$ne", Value: ""},
		{Key: "$nin", Value: existing},
	}}}
	opts := options.Find().SetProjection(bson.D{{Key: "match_id", Value: 1}}).SetSort(bson.D{{Key: "match_id", Value: 1}})
	cursor, err := s.Collections.Matches.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("error listing matches without timeline: %w", err)
	}
	defer cursor.Close(ctx)

	var ids []string
	for cursor.Next(ctx) {
		var doc struct {
			MatchID string `bson:"match_id"`
		}
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("error decoding match id: %w", err)
		}
		ids = append(ids, doc.MatchID)
	}
	return ids, cursor.Err()
}

// UpsertTimeline stores a raw timeline document by match id
func (s *Store) UpsertTimeline(ctx context.Context, matchID string, doc bson.M) error {
	doc["match_id"] = matchID
	_, err := s.Collections.Timelines.UpdateOne(ctx,
		bson.D{{Key: "match_id", Value: matchID}},
		bson.D{{Key: "$set", Value: doc}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("error upserting timeline %s: %w", matchID, err)
	}
	return nil
}

// GetTimeline returns the timeline of a match, or ErrTimelineNotFound
func (s *Store) GetTimeline(ctx context.Context, matchID string) (*external.TimelineDocument, error) {
	var timeline external.TimelineDocument
	err := s.Collections.Timelines.FindOne(ctx, bson.D{{Key: "match_id", Value: matchID}}).Decode(&timeline)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrTimelineNotFound
		}
		return nil, fmt.Errorf("error fetching timeline %s: %w", matchID, err)
	}
	return &timeline, nil
}
