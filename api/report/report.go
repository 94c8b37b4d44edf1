/* report.go
 * Contains the outputs built from the per role summaries: the players_stats.xlsx workbook and the terminal ranking
 */

package report

import (
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	log "github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"

	"toornament-stats/api/logic"
)

const (
	SheetName    = "players_stats"
	WorkbookName = "players_stats.xlsx"
)

// Columns returns the workbook header in output order
func Columns() []string {
	columns := []string{"name", "team", "position", "main", "score", "winrate", "matches_played", "win_count"}
	return append(columns, logic.StatKeys()...)
}

// Round rounds v to the given number of decimals
func Round(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}

func summaryRow(summary logic.RoleSummary) []interface{} {
	row := []interface{}{
		summary.Name,
		summary.Team,
		summary.Position,
		summary.Main,
		Round(summary.Score, 2),
		Round(summary.Winrate, 3),
		summary.MatchesPlayed,
		summary.WinCount,
	}
	for _, key := range logic.StatKeys() {
		row = append(row, Round(summary.Stat(key), 2))
	}
	return row
}

// WriteXLSX writes one row per summary to a new workbook at path, replacing any existing file
func WriteXLSX(path string, summaries []logic.RoleSummary) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("error creating report directory: %w", err)
	}

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			log.Warnf("error closing workbook: %v", err)
		}
	}()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("error naming sheet: %w", err)
	}

	header := make([]interface{}, 0, len(Columns()))
	for _, column := range Columns() {
		header = append(header, column)
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return fmt.Errorf("error writing header: %w", err)
	}

	for i, summary := range summaries {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := summaryRow(summary)
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return fmt.Errorf("error writing row for %s: %w", summary.Name, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("error saving %s: %w", path, err)
	}
	log.WithField("rows", len(summaries)).Infof("Wrote %s", path)
	return nil
}

// Rank returns the top summaries by score, highest first. Ties keep name order. top <= 0 returns all of them
func Rank(summaries []logic.RoleSummary, top int) []logic.RoleSummary {
	ranked := append([]logic.RoleSummary(nil), summaries...)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].Name < ranked[j].Name
	})
	if top > 0 && top < len(ranked) {
		ranked = ranked[:top]
	}
	return ranked
}

// PrintRanking renders the top summaries as a table
func PrintRanking(w io.Writer, summaries []logic.RoleSummary, top int) error {
	table := tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignRight},
		},
		Header: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignCenter},
		},
	}))

	table.Header("#", "NAME", "TEAM", "ROLE", "SCORE", "WR", "GAMES", "KDA", "CS@15 DIFF")
	for i, summary := range Rank(summaries, top) {
		role := summary.Position
		if summary.Main {
			role += "*"
		}
		if err := table.Append(
			strconv.Itoa(i+1),
			summary.Name,
			summary.Team,
			role,
			fmt.Sprintf("%.2f", summary.Score),
			fmt.Sprintf("%.0f%%", summary.Winrate*100),
			strconv.Itoa(summary.MatchesPlayed),
			fmt.Sprintf("%.2f", summary.Stat("kda")),
			fmt.Sprintf("%+.1f", summary.Stat("cs_15_diff")),
		); err != nil {
			return err
		}
	}
	return table.Render()
}
