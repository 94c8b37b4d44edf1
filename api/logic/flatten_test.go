package logic

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"toornament-stats/api/external"
	"toornament-stats/api/shared"
	"toornament-stats/api/store"
)

func resolvedMatch(t *testing.T) (*Resolver, store.MatchContext) {
	t.Helper()
	r := NewResolver(testRoster("Alpha", "Beta"))
	contexts, issues := ResolveContexts([]external.MatchDocument{testMatch("M1", 1000, sidePlayers("Alpha"), sidePlayers("Beta"))}, r)
	require.Empty(t, issues)
	require.Len(t, contexts, 1)
	return r, contexts[0]
}

func TestKDA_ZeroDeaths(t *testing.T) {
	assert.Equal(t, 7.0, KDA(3, 0, 4))
	assert.Equal(t, 3.5, KDA(3, 2, 4))
	assert.Equal(t, 0.0, KDA(0, 0, 0))
}

func TestFlattenMatch_Records(t *testing.T) {
	r, matchCtx := resolvedMatch(t)
	match := testMatch("M1", 1000, sidePlayers("Alpha"), sidePlayers("Beta"))

	records, unresolved, err := FlattenMatch(match, matchCtx, testTimeline(20), r, DefaultSnapshotFrame)

	require.NoError(t, err)
	assert.Empty(t, unresolved)
	require.Len(t, records, 10)

	first := records[0]
	assert.Equal(t, "M1", first.MatchID)
	assert.Equal(t, "Alpha TOP", first.Name)
	assert.Equal(t, "Alpha", first.Team)
	assert.Equal(t, shared.SideBlue, first.Side)
	assert.Equal(t, "Alpha vs Beta", first.Versus)
	assert.Equal(t, 1, first.Round)
	assert.Equal(t, int64(1800), first.GameDuration)

	last := records[9]
	assert.Equal(t, "Beta UTILITY", last.Name)
	assert.Equal(t, "Beta", last.Team)
	assert.Equal(t, shared.SideRed, last.Side)

	// frame 15: 150 minions + seat jungle minions, 1500 gold
	assert.Equal(t, 151, first.CS15)
	assert.Equal(t, 1500, first.Gold15)
	assert.Equal(t, 1501, first.XP15)
	assert.Equal(t, 160, last.CS15)

	// seat 1 has 0 kills, 0 deaths and 2 assists
	assert.Equal(t, 2.0, first.KDA)
}

func TestFlattenMatch_ShortTimelineGivesZeroSnapshot(t *testing.T) {
	r, matchCtx := resolvedMatch(t)
	match := testMatch("M1", 1000, sidePlayers("Alpha"), sidePlayers("Beta"))

	for _, frames := range []int{0, 10, 15} {
		records, _, err := FlattenMatch(match, matchCtx, testTimeline(frames), r, DefaultSnapshotFrame)
		require.NoError(t, err)
		for _, record := range records {
			assert.Zero(t, record.CS15, "frames=%d", frames)
			assert.Zero(t, record.Gold15, "frames=%d", frames)
			assert.Zero(t, record.XP15, "frames=%d", frames)
		}
	}

	records, _, err := FlattenMatch(match, matchCtx, nil, r, DefaultSnapshotFrame)
	require.NoError(t, err)
	assert.Zero(t, records[0].Gold15)

	records, _, err = FlattenMatch(match, matchCtx, testTimeline(16), r, DefaultSnapshotFrame)
	require.NoError(t, err)
	assert.Equal(t, 1500, records[0].Gold15)
}

func TestFlattenMatch_UnresolvedParticipantsSkipped(t *testing.T) {
	r, matchCtx := resolvedMatch(t)
	blue := sidePlayers("Alpha")
	blue[4] = "stranger"
	match := testMatch("M1", 1000, blue, sidePlayers("Beta"))

	records, unresolved, err := FlattenMatch(match, matchCtx, nil, r, DefaultSnapshotFrame)

	require.NoError(t, err)
	assert.Len(t, records, 9)
	assert.Equal(t, []string{"stranger"}, unresolved)
	// seat 6 is still red
	assert.Equal(t, shared.SideRed, records[4].Side)
}

func TestFlattenMatch_RequiresContext(t *testing.T) {
	r, matchCtx := resolvedMatch(t)
	other := testMatch("M2", 1000, sidePlayers("Alpha"), sidePlayers("Beta"))

	_, _, err := FlattenMatch(other, matchCtx, nil, r, DefaultSnapshotFrame)
	assert.True(t, errors.Is(err, ErrUnresolvedContext))

	_, _, err = FlattenMatch(other, store.MatchContext{}, nil, r, DefaultSnapshotFrame)
	assert.True(t, errors.Is(err, ErrUnresolvedContext))
}

func TestFlattenMatch_Idempotent(t *testing.T) {
	r, matchCtx := resolvedMatch(t)
	match := testMatch("M1", 1000, sidePlayers("Alpha"), sidePlayers("Beta"))
	timeline := testTimeline(30)

	first, _, err := FlattenMatch(match, matchCtx, timeline, r, DefaultSnapshotFrame)
	require.NoError(t, err)
	second, _, err := FlattenMatch(match, matchCtx, timeline, r, DefaultSnapshotFrame)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	for i := range first {
		firstBytes, err := bson.Marshal(first[i])
		require.NoError(t, err)
		secondBytes, err := bson.Marshal(second[i])
		require.NoError(t, err)
		assert.Equal(t, firstBytes, secondBytes)
	}
}
