/* bot.go
 * Contains logic used for creating the bot and posting the player ranking. Requires a discord bot token and ApiPtr,
 * both of which are passed in from the publish command
 */

package bot

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"toornament-stats/api/api"
	"toornament-stats/api/logic"
	"toornament-stats/api/report"
)

// Discord rejects messages over 2000 characters, this leaves room for the code fence
const maxMessageLength = 1900

// DefaultTop is the number of players posted when no limit is given
const DefaultTop = 10

// DiscordSession defines the Discord session methods used by the bot so it can be mocked in tests
type DiscordSession interface {
	ChannelMessageSend(channelID string, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// Ensure *discordgo.Session implements DiscordSession
var _ DiscordSession = (*discordgo.Session)(nil)

type Bot struct {
	BotToken string
	APIPtr   *api.API
	Top      int
}

func NewBot(botToken string, apiPtr *api.API, top int) (*Bot, error) {
	if botToken == "" {
		return nil, fmt.Errorf("botToken is required but none was provided")
	}
	if top <= 0 {
		top = DefaultTop
	}

	return &Bot{
		BotToken: botToken,
		APIPtr:   apiPtr,
		Top:      top,
	}, nil
}

// Function to format the ranking as code blocks that each fit in one discord message
// Preconditions: Receives the title, the summaries and the number of rows to keep
// Postconditions: Returns the messages in posting order. The title is only on the first one
func FormatRanking(title string, summaries []logic.RoleSummary, top int) ([]string, error) {
	if len(summaries) == 0 {
		return []string{fmt.Sprintf("**%s**\nNo player statistics yet", title)}, nil
	}

	var table bytes.Buffer
	if err := report.PrintRanking(&table, summaries, top); err != nil {
		return nil, err
	}

	var messages []string
	var current strings.Builder
	current.WriteString(fmt.Sprintf("**%s**\n```\n", title))
	for _, line := range strings.SplitAfter(strings.TrimRight(table.String(), "\n"), "\n") {
		if current.Len()+len(line)+len("\n```") > maxMessageLength {
			current.WriteString("\n```")
			messages = append(messages, current.String())
			current.Reset()
			current.WriteString("```\n")
		}
		current.WriteString(line)
	}
	current.WriteString("\n```")
	return append(messages, current.String()), nil
}

// Function to send messages to a channel in order
// Preconditions: Receives a session, a channel and the messages
// Postconditions: Stops at the first failed send and returns its error
func sendAll(session DiscordSession, channelID string, messages []string) error {
	for _, message := range messages {
		if _, err := session.ChannelMessageSend(channelID, message); err != nil {
			return fmt.Errorf("error sending message to channel %s: %w", channelID, err)
		}
	}
	return nil
}

// Function to compute the player statistics and post the top of the ranking to a channel
// Preconditions: Receives context, the session used to post and the channel id
// Postconditions: Ranking is posted, or an error is returned and nothing further is sent
func (b *Bot) Publish(ctx context.Context, session DiscordSession, channelID string) error {
	if channelID == "" {
		return fmt.Errorf("channelID is required but none was provided")
	}

	summaries, err := b.APIPtr.GeneratePlayersStats(ctx)
	if err != nil {
		return err
	}

	title := fmt.Sprintf("%s: top %d players", b.APIPtr.Store.GetTournament(), min(b.Top, len(summaries)))
	messages, err := FormatRanking(title, summaries, b.Top)
	if err != nil {
		return err
	}

	if err := sendAll(session, channelID, messages); err != nil {
		return err
	}
	log.WithFields(log.Fields{"channel": channelID, "messages": len(messages)}).Info("ranking published")
	return nil
}
