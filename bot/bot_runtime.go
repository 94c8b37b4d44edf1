/* bot_runtime.go
 * Contains runtime-only Discord bot methods that use *discordgo.Session directly.
 * Delegates to testable handlers in handlers.go
 */

package bot

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// Run starts the Discord bot and answers commands until ctx is cancelled
func (b *Bot) Run(ctx context.Context) error {
	discord, err := discordgo.New("Bot " + b.BotToken)
	if err != nil {
		return err
	}
	discord.Identify.Intents = discordgo.IntentsGuildMessages | discordgo.IntentMessageContent

	discord.AddHandler(b.newMessage)

	if err := discord.Open(); err != nil {
		return fmt.Errorf("error opening discord session: %w", err)
	}
	defer discord.Close()

	log.Info("Toornament Stats Bot started")
	<-ctx.Done()
	return nil
}

// PublishOnce posts the ranking with a REST only session, no gateway connection is opened
func (b *Bot) PublishOnce(ctx context.Context, channelID string) error {
	discord, err := discordgo.New("Bot " + b.BotToken)
	if err != nil {
		return err
	}
	return b.Publish(ctx, discord, channelID)
}

// newMessage delegates to the testable newMessageHandler
func (b *Bot) newMessage(discord *discordgo.Session, message *discordgo.MessageCreate) {
	b.newMessageHandler(discord, message, discord.State.User.ID)
}
