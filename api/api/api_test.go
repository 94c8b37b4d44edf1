/* api_test.go
 * Contains unit tests for api.go, run against MockStore and MockRiot
 */

package api

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"toornament-stats/api/external"
	"toornament-stats/api/logic"
	"toornament-stats/api/shared"
	"toornament-stats/api/store"
)

// testRoster puts blue0..blue4 on Alpha and red0..red4 on Beta, matching store.SampleMatchDocument
func testRoster() []shared.Player {
	var players []shared.Player
	for _, side := range []struct{ prefix, team string }{{"blue", "Alpha"}, {"red", "Beta"}} {
		for i := 0; i < 5; i++ {
			id := fmt.Sprintf("%s%d", side.prefix, i)
			players = append(players, shared.Player{
				GameName: id,
				TagLine:  "EUW",
				Name:     fmt.Sprintf("%s %d", side.team, i),
				Team:     side.team,
				PUUID:    id,
			})
		}
	}
	return players
}

// longTimeline has 20 frames so the snapshot frame exists
func longTimeline() bson.M {
	frames := bson.A{}
	for i := 0; i < 20; i++ {
		participantFrames := bson.M{}
		for seat := 1; seat <= 10; seat++ {
			participantFrames[fmt.Sprintf("%d", seat)] = bson.M{
				"participantId": seat,
				"minionsKilled": i * 10,
				"totalGold":     i * 100 * seat,
				"xp":            i * 50,
			}
		}
		frames = append(frames, bson.M{"timestamp": i * 60000, "participantFrames": participantFrames})
	}
	return bson.M{"info": bson.M{"frameInterval": 60000, "frames": frames}}
}

func newTestAPI(mockStore *MockStore, riot *MockRiot) *API {
	cfg := logic.DefaultConfig()
	cfg.Workers = 3
	a := &API{Store: mockStore, Config: cfg}
	if riot != nil {
		a.Riot = riot
	}
	return a
}

func TestNewAPI_MissingParameters(t *testing.T) {
	_, err := NewAPI(context.Background(), "", "mongodb://localhost", nil, logic.DefaultConfig())
	assert.Error(t, err)

	_, err = NewAPI(context.Background(), "cup", "", nil, logic.DefaultConfig())
	assert.Error(t, err)
}

func TestUpdatePlayers(t *testing.T) {
	mockStore := NewMockStore()
	riot := NewMockRiot()
	riot.PUUIDs["Faker#KR1"] = "puuid-faker"

	roster := []shared.Player{
		{GameName: "Faker", TagLine: "KR1", Team: "T1", Name: "Faker"},
		{GameName: "Ghost", TagLine: "EUW", Team: "T1", Name: "Ghost"},
	}
	update, err := newTestAPI(mockStore, riot).UpdatePlayers(context.Background(), roster)

	require.NoError(t, err)
	assert.Equal(t, int64(2), update.Upserted)
	assert.Equal(t, 1, update.Resolved)
	assert.Equal(t, []string{"Ghost#EUW"}, update.FailedLookup)
	assert.Equal(t, "puuid-faker", mockStore.Players[0].PUUID)
	assert.Empty(t, mockStore.Players[1].PUUID)
}

func TestUpdatePlayers_RequiresRiot(t *testing.T) {
	_, err := newTestAPI(NewMockStore(), nil).UpdatePlayers(context.Background(), nil)

	assert.Error(t, err)
}

func TestUpdateMatches(t *testing.T) {
	mockStore := NewMockStore()
	mockStore.Players = testRoster()[:2]
	mockStore.Players = append(mockStore.Players, shared.Player{GameName: "pending", TagLine: "EUW"})

	riot := NewMockRiot()
	ids := []string{"M1", "M2", "M3", "M4"}
	riot.MatchIDs["blue0"] = ids
	riot.MatchIDs["blue1"] = ids
	riot.Matches["M1"] = store.SampleMatchDocument("M1", 1000)
	wrongCode := store.SampleMatchDocument("M2", 2000)
	wrongCode["info"].(bson.M)["tournamentCode"] = "OTHER"
	riot.Matches["M2"] = wrongCode
	remake := store.SampleMatchDocument("M4", 4000)
	remake["info"].(bson.M)["endOfGameResult"] = "Abort_Unexpected"
	riot.Matches["M4"] = remake
	riot.Timelines["M1"] = longTimeline()

	codes := map[string]struct{}{"CODE-1": {}}
	update, err := newTestAPI(mockStore, riot).UpdateMatches(context.Background(), external.Window{}, codes)

	require.NoError(t, err)
	assert.Equal(t, 4, update.Listed)
	assert.Equal(t, 1, update.Inserted)
	assert.Equal(t, 2, update.Filtered)
	assert.Equal(t, 1, update.Failed, "M3 is not available upstream")
	assert.Equal(t, 1, update.Timelines)
	assert.Equal(t, 4, riot.MatchCalls, "ids shared by several players are fetched once")
	assert.Contains(t, mockStore.Matches, "M1")
	assert.Contains(t, mockStore.Timelines, "M1")

	// a second run downloads nothing new
	update, err = newTestAPI(mockStore, riot).UpdateMatches(context.Background(), external.Window{}, codes)
	require.NoError(t, err)
	assert.Equal(t, 0, update.Inserted)
	assert.Equal(t, 0, update.Timelines)
}

func seededStore(t *testing.T) *MockStore {
	t.Helper()
	mockStore := NewMockStore()
	mockStore.Players = testRoster()
	ctx := context.Background()
	require.NoError(t, mockStore.InsertMatch(ctx, "M2", store.SampleMatchDocument("M2", 2000)))
	require.NoError(t, mockStore.InsertMatch(ctx, "M1", store.SampleMatchDocument("M1", 1000)))
	require.NoError(t, mockStore.UpsertTimeline(ctx, "M1", longTimeline()))
	return mockStore
}

func TestUpdateContext(t *testing.T) {
	mockStore := seededStore(t)

	issues, err := newTestAPI(mockStore, nil).UpdateContext(context.Background())

	require.NoError(t, err)
	assert.Empty(t, issues)
	require.Len(t, mockStore.Contexts, 2)
	assert.Equal(t, 1, mockStore.Contexts["M1"].Round)
	assert.Equal(t, 2, mockStore.Contexts["M2"].Round)
	assert.Equal(t, "Alpha vs Beta", mockStore.Contexts["M2"].Versus)
	assert.Equal(t, "Alpha", mockStore.Contexts["M1"].Blue)
}

func TestUpdateContext_ReportsIssues(t *testing.T) {
	mockStore := seededStore(t)
	mockStore.Players = testRoster()[:5] // red side unknown

	issues, err := newTestAPI(mockStore, nil).UpdateContext(context.Background())

	require.NoError(t, err)
	assert.Len(t, issues, 2)
	assert.Empty(t, mockStore.Contexts)
}

func TestUpdateContext_StoreError(t *testing.T) {
	mockStore := seededStore(t)
	mockStore.GetMatchesError = errors.New("connection lost")

	_, err := newTestAPI(mockStore, nil).UpdateContext(context.Background())

	assert.ErrorContains(t, err, "connection lost")
}

func TestGeneratePlayerMatchStats(t *testing.T) {
	mockStore := seededStore(t)
	ctx := context.Background()
	// a match nobody on the roster played is skipped
	strangers := store.SampleMatchDocument("M3", 3000)
	for _, p := range strangers["info"].(bson.M)["participants"].(bson.A) {
		p.(bson.M)["puuid"] = "stranger-" + fmt.Sprint(p.(bson.M)["participantId"])
	}
	require.NoError(t, mockStore.InsertMatch(ctx, "M3", strangers))

	a := newTestAPI(mockStore, nil)
	update, err := a.GeneratePlayerMatchStats(ctx)

	require.NoError(t, err)
	assert.Equal(t, 3, update.Matches)
	assert.Equal(t, 1, update.SkippedMatches)
	assert.Equal(t, 20, update.Records)
	assert.Equal(t, 1, update.MissingTimelines)
	require.Len(t, mockStore.Records, 20)

	withTimeline := mockStore.Records["M1/Alpha 1"]
	assert.Equal(t, 150, withTimeline.CS15)
	assert.Equal(t, 3000, withTimeline.Gold15)
	assert.Equal(t, "blue", withTimeline.Side)
	assert.Equal(t, 1, withTimeline.Round)

	withoutTimeline := mockStore.Records["M2/Beta 0"]
	assert.Zero(t, withoutTimeline.Gold15)
	assert.Equal(t, "Beta", withoutTimeline.Team)
	assert.Equal(t, 2, withoutTimeline.Round)

	// re-running overwrites the same keys
	before := make(map[string]store.PerformanceRecord, len(mockStore.Records))
	for key, record := range mockStore.Records {
		before[key] = record
	}
	_, err = a.GeneratePlayerMatchStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, before, mockStore.Records)
}

func TestGeneratePlayerMatchStats_RemovesStaleRecords(t *testing.T) {
	mockStore := seededStore(t)
	ctx := context.Background()
	a := newTestAPI(mockStore, nil)
	_, err := a.GeneratePlayerMatchStats(ctx)
	require.NoError(t, err)

	mockStore.Players[0].Name = "Alpha Zero"
	update, err := a.GeneratePlayerMatchStats(ctx)

	require.NoError(t, err)
	assert.Equal(t, int64(2), update.Pruned)
	assert.Len(t, mockStore.Records, 20)
	assert.NotContains(t, mockStore.Records, "M1/Alpha 0")
	assert.Contains(t, mockStore.Records, "M1/Alpha Zero")

	summaries, err := a.GeneratePlayersStats(ctx)
	require.NoError(t, err)
	assert.Len(t, summaries, 10)
	for _, summary := range summaries {
		assert.NotEqual(t, "Alpha 0", summary.Name)
	}

	// a match whose context no longer resolves loses its records
	mockStore.Players = testRoster()[:5]
	update, err = a.GeneratePlayerMatchStats(ctx)

	require.NoError(t, err)
	assert.Zero(t, update.Records)
	assert.Equal(t, int64(20), update.Pruned)
	assert.Empty(t, mockStore.Records)
}

func TestGeneratePlayerMatchStats_PruneError(t *testing.T) {
	mockStore := seededStore(t)
	mockStore.DeletePerformanceRecordsError = errors.New("not primary")

	_, err := newTestAPI(mockStore, nil).GeneratePlayerMatchStats(context.Background())

	assert.ErrorContains(t, err, "not primary")
}

func TestGeneratePlayerMatchStats_TimelineReadErrorIsSkipped(t *testing.T) {
	mockStore := seededStore(t)
	mockStore.GetTimelineError = errors.New("timeout")

	update, err := newTestAPI(mockStore, nil).GeneratePlayerMatchStats(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 20, update.Records)
	assert.Equal(t, 2, update.MissingTimelines)
}

func TestGeneratePlayerMatchStats_WriteError(t *testing.T) {
	mockStore := seededStore(t)
	mockStore.UpsertPerformanceRecordsError = errors.New("disk full")

	_, err := newTestAPI(mockStore, nil).GeneratePlayerMatchStats(context.Background())

	assert.ErrorContains(t, err, "disk full")
}

func TestGeneratePlayersStats(t *testing.T) {
	mockStore := seededStore(t)
	ctx := context.Background()
	a := newTestAPI(mockStore, nil)
	_, err := a.GeneratePlayerMatchStats(ctx)
	require.NoError(t, err)

	// the roster team wins over the team recorded at match time
	mockStore.Players[0].Team = "Alpha Academy"

	summaries, err := a.GeneratePlayersStats(ctx)

	require.NoError(t, err)
	require.Len(t, summaries, 10)
	assert.Equal(t, "Alpha 0", summaries[0].Name)
	assert.Equal(t, "TOP", summaries[0].Position)
	assert.Equal(t, "Alpha Academy", summaries[0].Team)
	assert.Equal(t, 2, summaries[0].MatchesPlayed)
	assert.Equal(t, 1.0, summaries[0].Winrate)
	assert.True(t, summaries[0].Main)

	maxScore := 0.0
	for _, summary := range summaries {
		assert.GreaterOrEqual(t, summary.Score, 0.0)
		assert.LessOrEqual(t, summary.Score, 100.0)
		maxScore = max(maxScore, summary.Score)
	}
	assert.Equal(t, 100.0, maxScore)
}

func TestGeneratePlayersStats_NoData(t *testing.T) {
	_, err := newTestAPI(NewMockStore(), nil).GeneratePlayersStats(context.Background())

	assert.Error(t, err)
}

func TestCheckIdentities(t *testing.T) {
	mockStore := seededStore(t)
	mockStore.Players = mockStore.Players[1:] // drop blue0

	unlinked, err := newTestAPI(mockStore, nil).CheckIdentities(context.Background())

	require.NoError(t, err)
	require.Len(t, unlinked, 1)
	assert.Equal(t, "blue0", unlinked[0].PUUID)
	assert.Equal(t, []string{"M1", "M2"}, unlinked[0].MatchIDs)
}

func TestCheckContexts(t *testing.T) {
	mockStore := seededStore(t)
	mockStore.Players = testRoster()[:5]

	issues, err := newTestAPI(mockStore, nil).CheckContexts(context.Background())

	require.NoError(t, err)
	require.Len(t, issues, 2)
	assert.ErrorIs(t, issues[0], logic.ErrUnresolvedContext)
	assert.Empty(t, mockStore.Contexts, "checking does not write")
}

func TestClose(t *testing.T) {
	mockStore := NewMockStore()

	require.NoError(t, newTestAPI(mockStore, nil).Close(context.Background()))
	assert.True(t, mockStore.Closed)
}
