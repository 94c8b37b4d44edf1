/* context.go
 * Contains the context resolver. Raw telemetry does not say which roster team played a side or which game of a
 * series a match was, so both are derived here from the participants and the match creation times
 */

package logic

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"toornament-stats/api/external"
	"toornament-stats/api/shared"
	"toornament-stats/api/store"
)

var (
	ErrSeatCount         = errors.New("match does not have the expected number of participants")
	ErrUnresolvedContext = errors.New("match context could not be resolved")
)

const gameDateLayout = "2006-01-02 15:04:05"

// TeamVote is the outcome of a plurality vote over the teams of one side. It holds either a single team, the tied
// candidates, or nothing when no participant of the side is on the roster
type TeamVote struct {
	candidates []string // sorted
}

// Team returns the winning team when the vote is not tied or empty
func (v TeamVote) Team() (string, bool) {
	if len(v.candidates) != 1 {
		return "", false
	}
	return v.candidates[0], true
}

// Tied returns the tied candidates, or nil if the vote has a single winner or is empty
func (v TeamVote) Tied() []string {
	if len(v.candidates) < 2 {
		return nil
	}
	return append([]string(nil), v.candidates...)
}

func (v TeamVote) Empty() bool {
	return len(v.candidates) == 0
}

func (v TeamVote) String() string {
	switch len(v.candidates) {
	case 0:
		return "<none>"
	case 1:
		return v.candidates[0]
	default:
		return "tie(" + strings.Join(v.candidates, ", ") + ")"
	}
}

// VoteTeam counts the roster team of every resolvable puuid and returns the team(s) with the highest count.
// Unknown puuids and players without a team do not vote
func VoteTeam(puuids []string, r *Resolver) TeamVote {
	counts := make(map[string]int)
	best := 0
	for _, puuid := range puuids {
		player, ok := r.Lookup(puuid)
		if !ok || player.Team == "" {
			continue
		}
		counts[player.Team]++
		if counts[player.Team] > best {
			best = counts[player.Team]
		}
	}

	var candidates []string
	for team, count := range counts {
		if count == best {
			candidates = append(candidates, team)
		}
	}
	sort.Strings(candidates)
	return TeamVote{candidates: candidates}
}

// PairingKey returns the side independent key of a pairing: the two team names ordered lexicographically
func PairingKey(teamA string, teamB string) string {
	if teamB < teamA {
		teamA, teamB = teamB, teamA
	}
	return teamA + " vs " + teamB
}

// ContextIssue describes a match for which no context could be derived
type ContextIssue struct {
	MatchID string
	Err     error
	Blue    TeamVote
	Red     TeamVote
}

func (i ContextIssue) Error() string {
	return fmt.Sprintf("match %s: %v (blue: %s, red: %s)", i.MatchID, i.Err, i.Blue, i.Red)
}

func (i ContextIssue) Unwrap() error {
	return i.Err
}

// sidePUUIDs splits the participants by seat: the first five are the blue side
func sidePUUIDs(participants []external.Participant) ([]string, []string) {
	blue := make([]string, 0, shared.SeatsPerSide)
	red := make([]string, 0, shared.SeatsPerSide)
	for seat, participant := range participants {
		if seat < shared.SeatsPerSide {
			blue = append(blue, participant.PUUID)
		} else {
			red = append(red, participant.PUUID)
		}
	}
	return blue, red
}

// Function to derive the context of every match in a batch
// Preconditions: Receives the whole set of stored matches and the roster resolver. Rounds are only meaningful when
// every match of the tournament is passed in the same call
// Postconditions: Returns one context per resolvable match, in input order, and one issue per match that was left
// out. Rounds are contiguous from 1 inside each pairing, ordered by gameCreation then match id. The result only
// depends on the input so re-running it yields the same contexts
func ResolveContexts(matches []external.MatchDocument, r *Resolver) ([]store.MatchContext, []ContextIssue) {
	type resolved struct {
		created  int64
		matchCtx store.MatchContext
	}

	var issues []ContextIssue
	var candidates []resolved
	groups := make(map[string][]int)

	for _, match := range matches {
		if len(match.Info.Participants) != shared.SeatsPerMatch {
			issues = append(issues, ContextIssue{
				MatchID: match.MatchID,
				Err:     fmt.Errorf("%w: got %d", ErrSeatCount, len(match.Info.Participants)),
			})
			continue
		}

		bluePUUIDs, redPUUIDs := sidePUUIDs(match.Info.Participants)
		blueVote := VoteTeam(bluePUUIDs, r)
		redVote := VoteTeam(redPUUIDs, r)

		blueTeam, blueOK := blueVote.Team()
		redTeam, redOK := redVote.Team()
		if !blueOK || !redOK || blueTeam == redTeam {
			issues = append(issues, ContextIssue{MatchID: match.MatchID, Err: ErrUnresolvedContext, Blue: blueVote, Red: redVote})
			continue
		}

		key := PairingKey(blueTeam, redTeam)
		groups[key] = append(groups[key], len(candidates))
		candidates = append(candidates, resolved{
			created: match.Info.GameCreation,
			matchCtx: store.MatchContext{
				MatchID:  match.MatchID,
				Versus:   key,
				Blue:     blueTeam,
				Red:      redTeam,
				GameDate: time.UnixMilli(match.Info.GameCreation).UTC().Format(gameDateLayout),
			},
		})
	}

	for _, members := range groups {
		sort.SliceStable(members, func(a, b int) bool {
			left, right := candidates[members[a]], candidates[members[b]]
			if left.created != right.created {
				return left.created < right.created
			}
			return left.matchCtx.MatchID < right.matchCtx.MatchID
		})
		for round, member := range members {
			candidates[member].matchCtx.Round = round + 1
		}
	}

	contexts := make([]store.MatchContext, 0, len(candidates))
	for _, candidate := range candidates {
		contexts = append(contexts, candidate.matchCtx)
	}
	return contexts, issues
}

// ContextsByMatch indexes contexts by match id
func ContextsByMatch(contexts []store.MatchContext) map[string]store.MatchContext {
	byMatch := make(map[string]store.MatchContext, len(contexts))
	for _, matchCtx := range contexts {
		byMatch[matchCtx.MatchID] = matchCtx
	}
	return byMatch
}
