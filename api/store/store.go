/* store.go
 * Contains the store struct and NewStore function. The methods for this package are split per collection: players,
 * matches, timelines and stats_players. Each of these files contain methods for interacting with that part of the
 * database. One database is used per tournament
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
)

type Store struct {
	Client      *mongo.Client
	Database    *mongo.Database
	Tournament  string
	Collections struct {
		Players      *mongo.Collection
		Matches      *mongo.Collection
		Timelines    *mongo.Collection
		StatsPlayers *mongo.Collection
	}
}

// Function for initialising Store. Connects to mongo, checks the connection and makes sure the natural key indexes
// exist
// Preconditions: Receives context, the tournament name (used as db name) and the mongo uri
// Postconditions: Returns pointer to the Store object, or error if the connection could not be established
func NewStore(ctx context.Context, tournament string, mongoURI string) (*Store, error) {
	if tournament == "" {
		return nil, fmt.Errorf("tournament name cannot be empty")
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		return nil, fmt.Errorf("error connecting to mongo: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("error pinging mongo: %w", err)
	}

	s := newStore(client, tournament)
	if err := s.EnsureIndexes(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}

	log.WithField("database", tournament).Info("connected to mongo")
	return s, nil
}

func newStore(client *mongo.Client, tournament string) *Store {
	db := client.Database(tournament)
	s := &Store{Client: client, Database: db, Tournament: tournament}
	s.Collections.Players = db.Collection("players")
	s.Collections.Matches = db.Collection("matches")
	s.Collections.Timelines = db.Collection("timelines")
	s.Collections.StatsPlayers = db.Collection("stats_players")
	return s
}

// EnsureIndexes creates the unique indexes backing every upsert key. Creating an existing index is a no-op
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := []struct {
		collection *mongo.Collection
		keys       bson.D
	}{
		{s.Collections.Players, bson.D{{Key: "gameName", Value: 1}, {Key: "tagLine", Value: 1}}},
		{s.Collections.Matches, bson.D{{Key: "match_id", Value: 1}}},
		{s.Collections.Timelines, bson.D{{Key: "match_id", Value: 1}}},
		{s.Collections.StatsPlayers, bson.D{{Key: "match_id", Value: 1}, {Key: "name", Value: 1}}},
	}

	for _, index := range indexes {
		model := mongo.IndexModel{Keys: index.keys, Options: options.Index().SetUnique(true)}
		if _, err := index.collection.Indexes().CreateOne(ctx, model); err != nil {
			return fmt.Errorf("error creating index on %s: %w", index.collection.Name(), err)
		}
	}
	return nil
}

// Close disconnects the client
func (s *Store) Close(ctx context.Context) error {
	if s.Client == nil {
		return nil
	}
	return s.Client.Disconnect(ctx)
}
