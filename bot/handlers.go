/* handlers.go
 * Contains the command handlers. They accept the DiscordSession interface so they can be tested without discord
 */

package bot

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/go-andiamo/splitter"
	log "github.com/sirupsen/logrus"

	"toornament-stats/api/logic"
)

const handlerTimeout = 30 * time.Second

// helpMessageHandler handles the $help command
func (b *Bot) helpMessageHandler(session DiscordSession, message *discordgo.MessageCreate) {
	var res strings.Builder
	res.WriteString("Toornament Stats Bot\n")
	res.WriteString(fmt.Sprintf("`$ranking`: shows the top %d players of the tournament by score\n", b.Top))
	res.WriteString("`$ranking team1 ... teamN`: shows the ranking for the given teams only. There is fuzzy matching on names, names that contain two or more words need to be encased in \" (e.g. \"Karmine Corp\")\n")
	res.WriteString("`$player name`: shows the statistics of a player for every role they played\n")
	res.WriteString("`$teams`: shows the teams that have statistics\n")
	sendReply(session, message.ChannelID, res.String())
}

// rankingHandler handles the $ranking command, optionally filtered by team
func (b *Bot) rankingHandler(session DiscordSession, message *discordgo.MessageCreate) {
	ctx, cancel := context.WithTimeout(context.Background(), handlerTimeout)
	defer cancel()

	summaries, err := b.APIPtr.GeneratePlayersStats(ctx)
	if err != nil {
		log.Errorf("error generating ranking: %v", err)
		sendReply(session, message.ChannelID, "An error occurred getting the ranking")
		return
	}

	title := fmt.Sprintf("%s ranking", b.APIPtr.Store.GetTournament())
	if args := commandArgs(message.Content); len(args) > 0 {
		teams, invalid := logic.MatchTeamNames(args, logic.TeamNames(summaries))
		if len(invalid) > 0 {
			sendReply(session, message.ChannelID, fmt.Sprintf("Unknown teams: %s. Use $teams to list them", strings.Join(invalid, ", ")))
			return
		}
		summaries = logic.FilterByTeams(summaries, teams)
		title = fmt.Sprintf("%s ranking (%s)", b.APIPtr.Store.GetTournament(), strings.Join(teams, ", "))
	}

	messages, err := FormatRanking(title, summaries, b.Top)
	if err != nil {
		log.Errorf("error formatting ranking: %v", err)
		sendReply(session, message.ChannelID, "An error occurred getting the ranking")
		return
	}
	if err := sendAll(session, message.ChannelID, messages); err != nil {
		log.Error(err)
	}
}

// playerHandler handles the $player command
func (b *Bot) playerHandler(session DiscordSession, message *discordgo.MessageCreate) {
	args := commandArgs(message.Content)
	if len(args) == 0 {
		sendReply(session, message.ChannelID, "Usage: `$player name`")
		return
	}
	name := strings.Join(args, " ")

	ctx, cancel := context.WithTimeout(context.Background(), handlerTimeout)
	defer cancel()

	summaries, err := b.APIPtr.GeneratePlayersStats(ctx)
	if err != nil {
		log.Errorf("error generating player stats: %v", err)
		sendReply(session, message.ChannelID, "An error occurred getting the player statistics")
		return
	}

	var res strings.Builder
	for _, summary := range summaries {
		if !strings.EqualFold(summary.Name, name) {
			continue
		}
		main := ""
		if summary.Main {
			main = " (main)"
		}
		res.WriteString(fmt.Sprintf("**%s** %s %s%s: score %.2f, %d games, %.0f%% winrate, KDA %.2f, CS@15 %.1f, gold diff@15 %+.0f\n",
			summary.Name, summary.Team, summary.Position, main, summary.Score, summary.MatchesPlayed,
			summary.Winrate*100, summary.Stat("kda"), summary.Stat("cs_15"), summary.Stat("gold_15_diff")))
	}
	if res.Len() == 0 {
		sendReply(session, message.ChannelID, fmt.Sprintf("No statistics found for %s", name))
		return
	}
	sendReply(session, message.ChannelID, res.String())
}

// teamsHandler handles the $teams command
func (b *Bot) teamsHandler(session DiscordSession, message *discordgo.MessageCreate) {
	ctx, cancel := context.WithTimeout(context.Background(), handlerTimeout)
	defer cancel()

	summaries, err := b.APIPtr.GeneratePlayersStats(ctx)
	if err != nil {
		log.Errorf("error getting teams: %v", err)
		sendReply(session, message.ChannelID, "An error occurred getting the teams list")
		return
	}

	var res strings.Builder
	res.WriteString("Teams with statistics are:\n")
	for _, team := range logic.TeamNames(summaries) {
		res.WriteString(fmt.Sprintf("- %s\n", team))
	}
	sendReply(session, message.ChannelID, res.String())
}

// newMessageHandler routes messages to the handlers. botUserID is the bot's user ID to prevent self-responses
func (b *Bot) newMessageHandler(session DiscordSession, message *discordgo.MessageCreate, botUserID string) {
	if message.Author == nil || message.Author.ID == botUserID {
		return
	}

	switch commandName(message.Content) {
	case "$help":
		b.helpMessageHandler(session, message)

	case "$ranking":
		b.rankingHandler(session, message)

	case "$player":
		b.playerHandler(session, message)

	case "$teams":
		b.teamsHandler(session, message)
	}
}

func sendReply(session DiscordSession, channelID string, content string) {
	if _, err := session.ChannelMessageSend(channelID, content); err != nil {
		log.Errorf("error sending message to channel %s: %v", channelID, err)
	}
}

func commandName(content string) string {
	fields := strings.Fields(content)
	if len(fields) == 0 {
		return ""
	}
	return strings.ToLower(fields[0])
}

// commandArgs splits the message on spaces, keeping quoted team names together, and drops the command itself
func commandArgs(content string) []string {
	spaceSplitter, err := splitter.NewSplitter(' ', splitter.DoubleQuotes, splitter.LeftRightDoubleDoubleQuotes)
	if err != nil {
		return nil
	}
	parts, err := spaceSplitter.Split(strings.TrimSpace(content))
	if err != nil || len(parts) < 2 {
		return nil
	}

	var args []string
	for _, part := range parts[1:] {
		part = strings.Trim(part, "\"“”")
		if part != "" {
			args = append(args, part)
		}
	}
	return args
}
