package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"toornament-stats/api/api"
	"toornament-stats/api/external"
)

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Refresh the tournament database from the roster and the Riot api",
}

var updatePlayersCmd = &cobra.Command{
	Use:   "players",
	Short: "Import players.csv and resolve the puuid of new accounts",
	Args:  cobra.NoArgs,
	RunE:  runUpdatePlayers,
}

var updateMatchesCmd = &cobra.Command{
	Use:   "matches",
	Short: "Download the tournament games and timelines of the roster, then recompute the match context",
	Args:  cobra.NoArgs,
	RunE:  runUpdateMatches,
}

var updateContextCmd = &cobra.Command{
	Use:   "context",
	Short: "Recompute versus, round and sides of every stored match",
	Args:  cobra.NoArgs,
	RunE:  runUpdateContext,
}

var updateAllCmd = &cobra.Command{
	Use:   "all",
	Short: "Run players, matches, context and stats matches in order",
	Args:  cobra.NoArgs,
	RunE:  runUpdateAll,
}

func init() {
	updateCmd.AddCommand(updatePlayersCmd)
	updateCmd.AddCommand(updateMatchesCmd)
	updateCmd.AddCommand(updateContextCmd)
	updateCmd.AddCommand(updateAllCmd)
}

func runUpdatePlayers(cmd *cobra.Command, args []string) error {
	a, s, err := openAPI(cmd.Context(), true)
	if err != nil {
		return err
	}
	defer closeAPI(a)
	return updatePlayers(cmd.Context(), a, s)
}

func runUpdateMatches(cmd *cobra.Command, args []string) error {
	a, s, err := openAPI(cmd.Context(), true)
	if err != nil {
		return err
	}
	defer closeAPI(a)
	if err := updateMatches(cmd.Context(), a, s); err != nil {
		return err
	}
	return updateContext(cmd.Context(), a)
}

func runUpdateContext(cmd *cobra.Command, args []string) error {
	a, _, err := openAPI(cmd.Context(), false)
	if err != nil {
		return err
	}
	defer closeAPI(a)
	return updateContext(cmd.Context(), a)
}

func runUpdateAll(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, s, err := openAPI(ctx, true)
	if err != nil {
		return err
	}
	defer closeAPI(a)

	if err := updatePlayers(ctx, a, s); err != nil {
		return err
	}
	if err := updateMatches(ctx, a, s); err != nil {
		return err
	}
	if err := updateContext(ctx, a); err != nil {
		return err
	}
	return generateMatchStats(ctx, a)
}

func updatePlayers(ctx context.Context, a *api.API, s settings) error {
	roster, err := external.LoadRoster(s.Dir)
	if err != nil {
		return fmt.Errorf("error loading roster: %w", err)
	}

	update, err := a.UpdatePlayers(ctx, roster)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "Players: %d updated, %d new, %d puuids resolved\n", update.Matched, update.Upserted, update.Resolved)
	if len(update.FailedLookup) > 0 {
		fmt.Fprintf(os.Stdout, "Could not resolve: %s\n", strings.Join(update.FailedLookup, ", "))
	}
	return nil
}

func updateMatches(ctx context.Context, a *api.API, s settings) error {
	codes, err := external.LoadTournamentCodes(s.Dir)
	if err != nil {
		return fmt.Errorf("error loading tournament codes: %w", err)
	}
	if len(codes) == 0 {
		log.Warn("tournamentCodes.txt is empty, every downloaded game will be filtered out")
	}
	window, err := external.LoadTournamentWindow(s.Dir)
	if err != nil {
		return fmt.Errorf("error loading tournament window: %w", err)
	}

	update, err := a.UpdateMatches(ctx, window, codes)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "Matches: %d listed, %d new, %d filtered, %d failed, %d timelines\n",
		update.Listed, update.Inserted, update.Filtered, update.Failed, update.Timelines)
	return nil
}

func updateContext(ctx context.Context, a *api.API) error {
	issues, err := a.UpdateContext(ctx)
	if err != nil {
		return err
	}
	if len(issues) > 0 {
		fmt.Fprintf(os.Stdout, "%d matches have no context, run `check contexts` for details\n", len(issues))
	}
	return nil
}
