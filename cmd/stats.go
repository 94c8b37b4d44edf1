package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"toornament-stats/api/api"
	"toornament-stats/api/logic"
	"toornament-stats/api/report"
)

var (
	statsTeams  []string
	statsTop    int
	statsNoXLSX bool
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Compute statistics from the stored matches",
}

var statsMatchesCmd = &cobra.Command{
	Use:   "matches",
	Short: "Rebuild the stats_players table, one row per player per match",
	Args:  cobra.NoArgs,
	RunE:  runStatsMatches,
}

var statsPlayersCmd = &cobra.Command{
	Use:   "players",
	Short: "Aggregate stats_players per player and role, score them and write players_stats.xlsx",
	Args:  cobra.NoArgs,
	RunE:  runStatsPlayers,
}

func init() {
	statsPlayersCmd.Flags().StringSliceVar(&statsTeams, "team", nil, "only keep these teams, fuzzy matched (repeatable)")
	statsPlayersCmd.Flags().IntVar(&statsTop, "top", 20, "rows printed in the terminal ranking, 0 prints none")
	statsPlayersCmd.Flags().BoolVar(&statsNoXLSX, "no-xlsx", false, "do not write the workbook")

	statsCmd.AddCommand(statsMatchesCmd)
	statsCmd.AddCommand(statsPlayersCmd)
}

func runStatsMatches(cmd *cobra.Command, args []string) error {
	a, _, err := openAPI(cmd.Context(), false)
	if err != nil {
		return err
	}
	defer closeAPI(a)
	return generateMatchStats(cmd.Context(), a)
}

func generateMatchStats(ctx context.Context, a *api.API) error {
	update, err := a.GeneratePlayerMatchStats(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "stats_players: %d records from %d matches, %d stale removed (%d skipped, %d without timeline, %d unknown participants)\n",
		update.Records, update.Matches, update.Pruned, update.SkippedMatches, update.MissingTimelines, update.UnresolvedPlayers)
	return nil
}

func runStatsPlayers(cmd *cobra.Command, args []string) error {
	a, s, err := openAPI(cmd.Context(), false)
	if err != nil {
		return err
	}
	defer closeAPI(a)

	summaries, err := a.GeneratePlayersStats(cmd.Context())
	if err != nil {
		return err
	}

	summaries, err = filterTeams(summaries, statsTeams)
	if err != nil {
		return err
	}

	if !statsNoXLSX {
		if err := report.WriteXLSX(filepath.Join(s.Dir, report.WorkbookName), summaries); err != nil {
			return err
		}
	}
	if statsTop > 0 {
		return report.PrintRanking(os.Stdout, summaries, statsTop)
	}
	return nil
}

// filterTeams keeps the summaries of the requested teams. Scores are not recomputed so they stay comparable to the
// full ranking
func filterTeams(summaries []logic.RoleSummary, queries []string) ([]logic.RoleSummary, error) {
	if len(queries) == 0 {
		return summaries, nil
	}
	teams, invalid := logic.MatchTeamNames(queries, logic.TeamNames(summaries))
	if len(invalid) > 0 {
		return nil, fmt.Errorf("unknown teams: %s", strings.Join(invalid, ", "))
	}
	return logic.FilterByTeams(summaries, teams), nil
}
