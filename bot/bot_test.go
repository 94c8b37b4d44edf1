/* bot_test.go
 * Contains unit tests for the bot, run against the api mocks and a mock Discord session
 */

package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"toornament-stats/api/api"
	"toornament-stats/api/logic"
	"toornament-stats/api/shared"
	"toornament-stats/api/store"
)

// createTestBot returns a bot whose store holds two matches between Alpha and Beta with stats_players computed
func createTestBot(t *testing.T, top int) *Bot {
	t.Helper()
	mockStore := api.NewMockStore()
	for _, side := range []struct{ prefix, team string }{{"blue", "Alpha"}, {"red", "Beta"}} {
		for i := 0; i < 5; i++ {
			id := fmt.Sprintf("%s%d", side.prefix, i)
			mockStore.Players = append(mockStore.Players, shared.Player{
				GameName: id, TagLine: "EUW", PUUID: id, Team: side.team, Name: fmt.Sprintf("%s %d", side.team, i),
			})
		}
	}
	ctx := context.Background()
	require.NoError(t, mockStore.InsertMatch(ctx, "M1", store.SampleMatchDocument("M1", 1000)))
	require.NoError(t, mockStore.InsertMatch(ctx, "M2", store.SampleMatchDocument("M2", 2000)))

	apiPtr := &api.API{Store: mockStore, Config: logic.DefaultConfig()}
	_, err := apiPtr.GeneratePlayerMatchStats(ctx)
	require.NoError(t, err)

	b, err := NewBot("test_token", apiPtr, top)
	require.NoError(t, err)
	return b
}

func createMockMessage(content string, userID string) *discordgo.MessageCreate {
	return &discordgo.MessageCreate{
		Message: &discordgo.Message{
			Content:   content,
			ChannelID: "channel123",
			Author:    &discordgo.User{ID: userID, Username: "TestUser"},
		},
	}
}

func TestNewBot(t *testing.T) {
	b, err := NewBot("test_token", nil, 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultTop, b.Top)

	_, err = NewBot("", nil, 5)
	assert.ErrorContains(t, err, "botToken is required")
}

func TestFormatRanking_Empty(t *testing.T) {
	messages, err := FormatRanking("cup", nil, 10)

	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Contains(t, messages[0], "No player statistics yet")
}

func TestFormatRanking_SplitsLongTables(t *testing.T) {
	var summaries []logic.RoleSummary
	for i := 0; i < 120; i++ {
		summaries = append(summaries, logic.RoleSummary{
			Name: fmt.Sprintf("player-%03d", i), Team: "Team", Position: "MID", Score: float64(i),
		})
	}

	messages, err := FormatRanking("cup", summaries, 0)

	require.NoError(t, err)
	require.Greater(t, len(messages), 1)
	assert.True(t, strings.HasPrefix(messages[0], "**cup**"))
	for _, message := range messages {
		assert.LessOrEqual(t, len(message), 2000)
		assert.Equal(t, 2, strings.Count(message, "```"), "every message is a closed code block")
	}
	all := strings.Join(messages, "")
	assert.Contains(t, all, "player-000")
	assert.Contains(t, all, "player-119")
}

func TestPublish(t *testing.T) {
	b := createTestBot(t, 3)
	session := NewMockDiscordSession()

	require.NoError(t, b.Publish(context.Background(), session, "channel123"))

	require.Len(t, session.SentMessages, 1)
	assert.Equal(t, "channel123", session.SentMessages[0].ChannelID)
	assert.Contains(t, session.SentMessages[0].Content, "test_tournament: top 3 players")
}

func TestPublish_Errors(t *testing.T) {
	b := createTestBot(t, 3)

	assert.Error(t, b.Publish(context.Background(), NewMockDiscordSession(), ""))

	session := NewMockDiscordSession()
	session.ErrorToReturn = errors.New("missing access")
	assert.ErrorContains(t, b.Publish(context.Background(), session, "channel123"), "missing access")

	empty, err := NewBot("token", &api.API{Store: api.NewMockStore(), Config: logic.DefaultConfig()}, 3)
	require.NoError(t, err)
	assert.Error(t, empty.Publish(context.Background(), NewMockDiscordSession(), "channel123"))
}

func TestNewMessageHandler_IgnoresSelf(t *testing.T) {
	b := createTestBot(t, 10)
	session := NewMockDiscordSession()

	b.newMessageHandler(session, createMockMessage("$help", "bot"), "bot")
	b.newMessageHandler(session, createMockMessage("hello there", "user"), "bot")

	assert.Empty(t, session.SentMessages)
}

func TestHelpMessage(t *testing.T) {
	b := createTestBot(t, 10)
	session := NewMockDiscordSession()

	b.newMessageHandler(session, createMockMessage("$help", "user"), "bot")

	assert.Contains(t, session.GetLastMessage().Content, "`$ranking`")
	assert.Contains(t, session.GetLastMessage().Content, "`$player name`")
}

func TestRankingHandler(t *testing.T) {
	b := createTestBot(t, 10)
	session := NewMockDiscordSession()

	b.newMessageHandler(session, createMockMessage("$ranking", "user"), "bot")

	content := session.GetLastMessage().Content
	assert.Contains(t, content, "Alpha 0")
	assert.Contains(t, content, "Beta 4")
}

func TestRankingHandler_TeamFilter(t *testing.T) {
	b := createTestBot(t, 10)
	session := NewMockDiscordSession()

	b.newMessageHandler(session, createMockMessage("$ranking alp", "user"), "bot")

	content := session.GetLastMessage().Content
	assert.Contains(t, content, "(Alpha)")
	assert.Contains(t, content, "Alpha 3")
	assert.NotContains(t, content, "Beta")
}

func TestRankingHandler_UnknownTeam(t *testing.T) {
	b := createTestBot(t, 10)
	session := NewMockDiscordSession()

	b.newMessageHandler(session, createMockMessage("$ranking zzz", "user"), "bot")

	assert.Equal(t, "Unknown teams: zzz. Use $teams to list them", session.GetLastMessage().Content)
}

func TestPlayerHandler(t *testing.T) {
	b := createTestBot(t, 10)
	session := NewMockDiscordSession()

	b.newMessageHandler(session, createMockMessage("$player alpha 0", "user"), "bot")
	assert.Contains(t, session.GetLastMessage().Content, "**Alpha 0** Alpha TOP (main)")
	assert.Contains(t, session.GetLastMessage().Content, "2 games")

	b.newMessageHandler(session, createMockMessage("$player nobody", "user"), "bot")
	assert.Equal(t, "No statistics found for nobody", session.GetLastMessage().Content)

	b.newMessageHandler(session, createMockMessage("$player", "user"), "bot")
	assert.Equal(t, "Usage: `$player name`", session.GetLastMessage().Content)
}

func TestTeamsHandler(t *testing.T) {
	b := createTestBot(t, 10)
	session := NewMockDiscordSession()

	b.newMessageHandler(session, createMockMessage("$teams", "user"), "bot")

	assert.Equal(t, "Teams with statistics are:\n- Alpha\n- Beta\n", session.GetLastMessage().Content)
}

func TestHandlers_ReportErrors(t *testing.T) {
	b, err := NewBot("token", &api.API{Store: api.NewMockStore(), Config: logic.DefaultConfig()}, 10)
	require.NoError(t, err)
	session := NewMockDiscordSession()

	b.newMessageHandler(session, createMockMessage("$ranking", "user"), "bot")
	assert.Equal(t, "An error occurred getting the ranking", session.GetLastMessage().Content)

	b.newMessageHandler(session, createMockMessage("$teams", "user"), "bot")
	assert.Equal(t, "An error occurred getting the teams list", session.GetLastMessage().Content)
}

func TestCommandArgs(t *testing.T) {
	assert.Equal(t, []string{"Karmine Corp", "g2"}, commandArgs(`$ranking "Karmine Corp" g2`))
	assert.Nil(t, commandArgs("$ranking"))
	assert.Equal(t, "$ranking", commandName("  $RANKING kc"))
	assert.Empty(t, commandName(""))
}
