/* test_mocks.go
 * Contains mock structures for testing the API package without mongo or the Riot api
 */

package api

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"toornament-stats/api/external"
	"toornament-stats/api/shared"
	"toornament-stats/api/store"
)

// MockStore implements the Store interface in memory
type MockStore struct {
	mu sync.Mutex

	// Storage for mock data
	Players   []shared.Player
	Matches   map[string]bson.M
	Timelines map[string]bson.M
	Contexts  map[string]store.MatchContext
	Records   map[string]store.PerformanceRecord // keyed by match_id + "/" + name

	// Error injection for testing error paths
	GetPlayersError               error
	GetMatchesError               error
	GetTimelineError              error
	UpsertPerformanceRecordsError error
	DeletePerformanceRecordsError error

	Tournament string
	Closed     bool
}

// NewMockStore creates a new MockStore with empty collections
func NewMockStore() *MockStore {
	return &MockStore{
		Matches:    make(map[string]bson.M),
		Timelines:  make(map[string]bson.M),
		Contexts:   make(map[string]store.MatchContext),
		Records:    make(map[string]store.PerformanceRecord),
		Tournament: "test_tournament",
	}
}

func (m *MockStore) UpsertRosterPlayers(ctx context.Context, players []shared.Player) (int64, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var matched, upserted int64
	for _, player := range players {
		found := false
		for i := range m.Players {
			if m.Players[i].GameName == player.GameName && m.Players[i].TagLine == player.TagLine {
				m.Players[i].Team = player.Team
				m.Players[i].Name = player.Name
				matched++
				found = true
			}
		}
		if !found {
			m.Players = append(m.Players, shared.Player{GameName: player.GameName, TagLine: player.TagLine, Team: player.Team, Name: player.Name})
			upserted++
		}
	}
	return matched, upserted, nil
}

func (m *MockStore) GetPlayers(ctx context.Context) ([]shared.Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetPlayersError != nil {
		return nil, m.GetPlayersError
	}
	return append([]shared.Player(nil), m.Players...), nil
}

func (m *MockStore) GetPlayersWithoutPUUID(ctx context.Context) ([]shared.Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var pending []shared.Player
	for _, player := range m.Players {
		if player.PUUID == "" {
			pending = append(pending, player)
		}
	}
	return pending, nil
}

func (m *MockStore) SetPlayerPUUID(ctx context.Context, gameName string, tagLine string, puuid string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.Players {
		if m.Players[i].GameName == gameName && m.Players[i].TagLine == tagLine {
			m.Players[i].PUUID = puuid
			return nil
		}
	}
	return mongo.ErrNoDocuments
}

func (m *MockStore) MatchExists(ctx context.Context, matchID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.Matches[matchID]
	return ok, nil
}

func (m *MockStore) InsertMatch(ctx context.Context, matchID string, doc bson.M) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc["match_id"] = matchID
	m.Matches[matchID] = doc
	return nil
}

func (m *MockStore) GetMatches(ctx context.Context) ([]external.MatchDocument, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetMatchesError != nil {
		return nil, m.GetMatchesError
	}

	var matches []external.MatchDocument
	for _, doc := range m.Matches {
		match, err := decodeMatch(doc)
		if err != nil {
			return nil, err
		}
		matches = append(matches, match)
	}
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Info.GameCreation != matches[j].Info.GameCreation {
			return matches[i].Info.GameCreation < matches[j].Info.GameCreation
		}
		return matches[i].MatchID < matches[j].MatchID
	})
	return matches, nil
}

func (m *MockStore) SetMatchContext(ctx context.Context, matchCtx store.MatchContext) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Matches[matchCtx.MatchID]; !ok {
		return fmt.Errorf("match %s not found", matchCtx.MatchID)
	}
	m.Contexts[matchCtx.MatchID] = matchCtx
	return nil
}

func (m *MockStore) GetMatchParticipants(ctx context.Context) ([]store.PlayerMatchRef, error) {
	matches, err := m.GetMatches(ctx)
	if err != nil {
		return nil, err
	}
	var refs []store.PlayerMatchRef
	for _, match := range matches {
		for _, participant := range match.Info.Participants {
			refs = append(refs, store.PlayerMatchRef{PUUID: participant.PUUID, MatchID: match.MatchID})
		}
	}
	return refs, nil
}

func (m *MockStore) GetMatchIDsWithoutTimeline(ctx context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var ids []string
	for matchID := range m.Matches {
		if _, ok := m.Timelines[matchID]; !ok {
			ids = append(ids, matchID)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func (m *MockStore) UpsertTimeline(ctx context.Context, matchID string, doc bson.M) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc["match_id"] = matchID
	m.Timelines[matchID] = doc
	return nil
}

func (m *MockStore) GetTimeline(ctx context.Context, matchID string) (*external.TimelineDocument, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetTimelineError != nil {
		return nil, m.GetTimelineError
	}
	doc, ok := m.Timelines[matchID]
	if !ok {
		return nil, store.ErrTimelineNotFound
	}

	data, err := bson.Marshal(doc)
	if err != nil {
		return nil, err
	}
	var timeline external.TimelineDocument
	if err := bson.Unmarshal(data, &timeline); err != nil {
		return nil, err
	}
	return &timeline, nil
}

func (m *MockStore) UpsertPerformanceRecords(ctx context.Context, records []store.PerformanceRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.UpsertPerformanceRecordsError != nil {
		return m.UpsertPerformanceRecordsError
	}
	for _, record := range records {
		m.Records[record.MatchID+"/"+record.Name] = record
	}
	return nil
}

func (m *MockStore) DeletePerformanceRecordsExcept(ctx context.Context, keep map[string][]string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.DeletePerformanceRecordsError != nil {
		return 0, m.DeletePerformanceRecordsError
	}
	var deleted int64
	for key, record := range m.Records {
		if !slices.Contains(keep[record.MatchID], record.Name) {
			delete(m.Records, key)
			deleted++
		}
	}
	return deleted, nil
}

func (m *MockStore) GetPerformanceRecords(ctx context.Context) ([]store.PerformanceRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys := make([]string, 0, len(m.Records))
	for key := range m.Records {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	records := make([]store.PerformanceRecord, 0, len(keys))
	for _, key := range keys {
		records = append(records, m.Records[key])
	}
	return records, nil
}

func (m *MockStore) GetTournament() string {
	return m.Tournament
}

func (m *MockStore) Close(ctx context.Context) error {
	m.Closed = true
	return nil
}

// Ensure MockStore implements store.Interface
var _ store.Interface = (*MockStore)(nil)

// MockRiot implements RiotSource from canned documents
type MockRiot struct {
	mu sync.Mutex

	PUUIDs    map[string]string   // Riot ID -> puuid
	MatchIDs  map[string][]string // puuid -> ids
	Matches   map[string]bson.M
	Timelines map[string]bson.M

	MatchCalls int
}

func NewMockRiot() *MockRiot {
	return &MockRiot{
		PUUIDs:    make(map[string]string),
		MatchIDs:  make(map[string][]string),
		Matches:   make(map[string]bson.M),
		Timelines: make(map[string]bson.M),
	}
}

func (r *MockRiot) GetPUUID(ctx context.Context, gameName string, tagLine string) (string, error) {
	puuid, ok := r.PUUIDs[gameName+"#"+tagLine]
	if !ok {
		return "", &external.StatusError{URL: gameName + "#" + tagLine, StatusCode: 404}
	}
	return puuid, nil
}

func (r *MockRiot) GetMatchIDs(ctx context.Context, puuid string, start int64, end int64) ([]string, error) {
	return r.MatchIDs[puuid], nil
}

func (r *MockRiot) GetMatch(ctx context.Context, matchID string) (bson.M, error) {
	r.mu.Lock()
	r.MatchCalls++
	r.mu.Unlock()
	doc, ok := r.Matches[matchID]
	if !ok {
		return nil, &external.StatusError{URL: matchID, StatusCode: 404}
	}
	return copyDoc(doc), nil
}

func (r *MockRiot) GetTimeline(ctx context.Context, matchID string) (bson.M, error) {
	doc, ok := r.Timelines[matchID]
	if !ok {
		return nil, &external.StatusError{URL: matchID + "/timeline", StatusCode: 404}
	}
	return copyDoc(doc), nil
}

// copyDoc returns a shallow copy so callers adding fields do not change the canned document
func copyDoc(doc bson.M) bson.M {
	copied := make(bson.M, len(doc))
	for key, value := range doc {
		copied[key] = value
	}
	return copied
}
