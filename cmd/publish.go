package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	"toornament-stats/bot"
)

var (
	publishTop     int
	publishChannel string
)

var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Post the top of the player ranking to a Discord channel",
	Args:  cobra.NoArgs,
	RunE:  runPublish,
}

var botCmd = &cobra.Command{
	Use:   "bot",
	Short: "Run the Discord bot answering $ranking, $player and $teams until interrupted",
	Args:  cobra.NoArgs,
	RunE:  runBot,
}

func init() {
	publishCmd.Flags().IntVar(&publishTop, "top", bot.DefaultTop, "number of players posted")
	publishCmd.Flags().StringVar(&publishChannel, "channel", "", "channel id, defaults to DISCORD_CHANNEL_ID")
	botCmd.Flags().IntVar(&publishTop, "top", bot.DefaultTop, "number of players shown by $ranking")
}

func newBot(cmd *cobra.Command) (*bot.Bot, settings, func(), error) {
	a, s, err := openAPI(cmd.Context(), false)
	if err != nil {
		return nil, s, nil, err
	}
	b, err := bot.NewBot(s.DiscordToken, a, publishTop)
	if err != nil {
		closeAPI(a)
		return nil, s, nil, err
	}
	return b, s, func() { closeAPI(a) }, nil
}

func runPublish(cmd *cobra.Command, args []string) error {
	b, s, closeFn, err := newBot(cmd)
	if err != nil {
		return err
	}
	defer closeFn()

	channel := publishChannel
	if channel == "" {
		channel = s.DiscordChannel
	}
	if channel == "" {
		return errors.New("a channel is required: use --channel or set DISCORD_CHANNEL_ID")
	}
	return b.PublishOnce(cmd.Context(), channel)
}

func runBot(cmd *cobra.Command, args []string) error {
	b, _, closeFn, err := newBot(cmd)
	if err != nil {
		return err
	}
	defer closeFn()
	return b.Run(cmd.Context())
}
