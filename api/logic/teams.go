/* teams.go
 * Contains the team name matching used by the report filters, so "g2" or "fnc" can be typed instead of the exact
 * roster team name
 */

package logic

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// MatchTeamNames resolves user typed team names against the known teams.
// Preconditions: receives the typed names and the list of valid team names
// Postconditions: returns the matched team names in their original casing, and the inputs that matched nothing
func MatchTeamNames(queries []string, validTeams []string) ([]string, []string) {
	var matched []string
	var invalid []string

	lookup := make(map[string]string)
	var validTeamsLower []string
	for _, name := range validTeams {
		lower := strings.ToLower(name)
		lookup[lower] = name
		validTeamsLower = append(validTeamsLower, lower)
	}

	for _, query := range queries {
		lowerQuery := strings.ToLower(strings.TrimSpace(query))
		results := fuzzy.RankFind(lowerQuery, validTeamsLower)
		if len(results) == 0 {
			invalid = append(invalid, query)
			continue
		}

		// exact match first, then the closest ranked candidate
		sort.Stable(results)
		best := results[0].Target
		for _, result := range results {
			if result.Target == lowerQuery {
				best = result.Target
				break
			}
		}
		matched = append(matched, lookup[best])
	}
	return matched, invalid
}

// TeamNames returns the distinct non empty teams of the summaries, sorted
func TeamNames(summaries []RoleSummary) []string {
	seen := make(map[string]struct{})
	var teams []string
	for _, summary := range summaries {
		if summary.Team == "" {
			continue
		}
		if _, ok := seen[summary.Team]; ok {
			continue
		}
		seen[summary.Team] = struct{}{}
		teams = append(teams, summary.Team)
	}
	sort.Strings(teams)
	return teams
}

// FilterByTeams keeps the summaries whose team is one of teams
func FilterByTeams(summaries []RoleSummary, teams []string) []RoleSummary {
	keep := make(map[string]struct{}, len(teams))
	for _, team := range teams {
		keep[team] = struct{}{}
	}

	var filtered []RoleSummary
	for _, summary := range summaries {
		if _, ok := keep[summary.Team]; ok {
			filtered = append(filtered, summary)
		}
	}
	return filtered
}
