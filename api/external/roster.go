/* roster.go
 * Contains the parsers for the per tournament input files: the players.csv roster, the tournamentCodes.txt allow
 * list and the .config file holding the tournament time window
 */

package external

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-andiamo/splitter"
	"github.com/joho/godotenv"

	"toornament-stats/api/shared"
)

var rosterHeader = []string{"gameName", "tagLine", "team", "name"}

// ParseRoster reads a ';' separated roster with the header gameName;tagLine;team;name. Fields may be double quoted
// Preconditions: Receives a reader positioned at the header line
// Postconditions: Returns the roster players (PUUID unset) or an error if the header or a row is malformed
func ParseRoster(r io.Reader) ([]shared.Player, error) {
	// splitter is used over strings.Split so a quoted team name such as "Team; Alpha" stays a single field
	fieldSplitter, err := splitter.NewSplitter(';', splitter.DoubleQuotes)
	if err != nil {
		return nil, err
	}

	scanner := bufio.NewScanner(r)
	var players []shared.Player
	columns := map[string]int{}
	lineNumber := 0

	for scanner.Scan() {
		line := strings.TrimSpace(strings.TrimPrefix(scanner.Text(), "\ufeff"))
		lineNumber++
		if line == "" {
			continue
		}

		fields, err := fieldSplitter.Split(line)
		if err != nil {
			return nil, fmt.Errorf("roster line %d: %w", lineNumber, err)
		}
		for i := range fields {
			fields[i] = strings.Trim(strings.TrimSpace(fields[i]), `"`)
		}

		if len(columns) == 0 {
			for i, field := range fields {
				columns[field] = i
			}
			for _, required := range rosterHeader {
				if _, ok := columns[required]; !ok {
					return nil, fmt.Errorf("roster header is missing column %q", required)
				}
			}
			continue
		}

		if len(fields) < len(columns) {
			return nil, fmt.Errorf("roster line %d: expected %d fields, got %d", lineNumber, len(columns), len(fields))
		}

		player := shared.Player{
			GameName: fields[columns["gameName"]],
			TagLine:  fields[columns["tagLine"]],
			Team:     fields[columns["team"]],
			Name:     fields[columns["name"]],
		}
		if player.GameName == "" || player.TagLine == "" {
			return nil, fmt.Errorf("roster line %d: gameName and tagLine are required", lineNumber)
		}
		players = append(players, player)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading roster: %w", err)
	}
	if len(columns) == 0 {
		return nil, errors.New("roster is empty")
	}

	return players, nil
}

// LoadRoster opens and parses tournaments/<tournament>/players.csv
func LoadRoster(dir string) ([]shared.Player, error) {
	file, err := os.Open(filepath.Join(dir, "players.csv"))
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return ParseRoster(file)
}

// ParseTournamentCodes returns the non empty trimmed lines of r as a set
func ParseTournamentCodes(r io.Reader) (map[string]struct{}, error) {
	codes := make(map[string]struct{})
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		code := strings.TrimSpace(scanner.Text())
		if code != "" {
			codes[code] = struct{}{}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading tournament codes: %w", err)
	}
	return codes, nil
}

// LoadTournamentCodes reads tournaments/<tournament>/tournamentCodes.txt
func LoadTournamentCodes(dir string) (map[string]struct{}, error) {
	file, err := os.Open(filepath.Join(dir, "tournamentCodes.txt"))
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return ParseTournamentCodes(file)
}

// Window is the [Start, End] range, in epoch seconds, used to list tournament games. Zero means unbounded
type Window struct {
	Start int64
	End   int64
}

// LoadTournamentWindow reads START_TIMESTAMP and END_TIMESTAMP from tournaments/<tournament>/.config
func LoadTournamentWindow(dir string) (Window, error) {
	values, err := godotenv.Read(filepath.Join(dir, ".config"))
	if err != nil {
		return Window{}, err
	}

	var window Window
	if window.Start, err = parseTimestamp(values, "START_TIMESTAMP"); err != nil {
		return Window{}, err
	}
	if window.End, err = parseTimestamp(values, "END_TIMESTAMP"); err != nil {
		return Window{}, err
	}
	if window.Start > 0 && window.End > 0 && window.End < window.Start {
		return Window{}, fmt.Errorf("END_TIMESTAMP %d is before START_TIMESTAMP %d", window.End, window.Start)
	}
	return window, nil
}

func parseTimestamp(values map[string]string, key string) (int64, error) {
	raw, ok := values[key]
	if !ok || strings.TrimSpace(raw) == "" {
		return 0, nil
	}
	value, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return value, nil
}

// ShouldKeepMatch reports whether a downloaded match belongs to the tournament: the game must have completed and
// been played with one of the registered tournament codes
func ShouldKeepMatch(info MatchInfo, codes map[string]struct{}) bool {
	if info.EndOfGameResult != GameComplete {
		return false
	}
	_, ok := codes[info.TournamentCode]
	return ok
}
