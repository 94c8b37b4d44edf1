/* matches.go
 * Contains the methods for interacting with the matches collection. Match documents are stored as received from the
 * api with match_id and created_at added, the derived context fields are set afterwards
 */

package store

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"toornament-stats/api/external"
)

// MatchExists reports whether a match has already been ingested
func (s *Store) MatchExists(ctx context.Context, matchID string) (bool, error) {
	count, err := s.Collections.Matches.CountDocuments(ctx, bson.D{{Key: "match_id", Value: matchID}}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("error checking match %s: %w", matchID, err)
	}
	return count > 0, nil
}

// Function to insert a raw match document
// Preconditions: Receives context, match id and the document decoded from the api
// Postconditions: The document is stored with match_id and created_at set. Inserting an id twice is not an error
func (s *Store) InsertMatch(ctx context.Context, matchID string, doc bson.M) error {
	doc["match_id"] = matchID
	doc["created_at"] = time.Now().UTC()

	_, err := s.Collections.Matches.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil
		}
		return fmt.Errorf("error inserting match %s: %w", matchID, err)
	}
	return nil
}

// GetMatches returns every stored match ordered by creation time. Unknown upstream fields are ignored, a document
// that cannot be decoded is logged and skipped
func (s *Store) GetMatches(ctx context.Context) ([]external.MatchDocument, error) {
	opts := options.Find().SetSort(bson.D{{Key: "info.gameCreation", Value: 1}, {Key: "match_id", Value: 1}})
	cursor, err := s.Collections.Matches.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("error fetching matches: %w", err)
	}
	defer cursor.Close(ctx)

	var matches []external.MatchDocument
	for cursor.Next(ctx) {
		var match external.MatchDocument
		if err := cursor.Decode(&match); err != nil {
			matchID, _ := cursor.Current.Lookup("match_id").StringValueOK()
			log.WithField("match_id", matchID).WithError(err).Warn("skipping match that cannot be decoded")
			continue
		}
		matches = append(matches, match)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("error reading matches: %w", err)
	}
	return matches, nil
}

// Function to store the derived context of a match. The same fields are mirrored on the timeline document so both
// collections can be queried by pairing
// Preconditions: Receives context and a resolved MatchContext
// Postconditions: matches and timelines documents with the same match_id are updated, or an error is returned
func (s *Store) SetMatchContext(ctx context.Context, matchCtx MatchContext) error {
	filter := bson.D{{Key: "match_id", Value: matchCtx.MatchID}}
	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "versus", Value: matchCtx.Versus},
		{Key: "round", Value: matchCtx.Round},
		{Key: "blue", Value: matchCtx.Blue},
		{Key: "red", Value: matchCtx.Red},
		{Key: "game_dt", Value: matchCtx.GameDate},
	}}}

	if _, err := s.Collections.Matches.UpdateOne(ctx, filter, update); err != nil {
		return fmt.Errorf("error setting context on match %s: %w", matchCtx.MatchID, err)
	}
	if _, err := s.Collections.Timelines.UpdateOne(ctx, filter, update); err != nil {
		return fmt.Errorf("error setting context on timeline %s: %w", matchCtx.MatchID, err)
	}
	return nil
}

// GetMatchParticipants lists every (puuid, match_id) pair found in the stored matches
func (s *Store) GetMatchParticipants(ctx context.Context) ([]PlayerMatchRef, error) {
	opts := options.Find().SetProjection(bson.D{{Key: "match_id", Value: 1}, {Key: "metadata.participants", Value: 1}})
	cursor, err := s.Collections.Matches.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("error fetching match participants: %w", err)
	}
	defer cursor.Close(ctx)

	var refs []PlayerMatchRef
	for cursor.Next(ctx) {
		var doc struct {
			MatchID  string                 `bson:"match_id"`
			Metadata external.MatchMetadata `bson:"metadata"`
		}
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("error decoding match participants: %w", err)
		}
		for _, puuid := range doc.Metadata.Participants {
			refs = append(refs, PlayerMatchRef{PUUID: puuid, MatchID: doc.MatchID})
		}
	}
	return refs, cursor.Err()
}
