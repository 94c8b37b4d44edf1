/* aggregate.go
 * Contains the aggregator, which reduces the stats_players fact table into one RoleSummary per (player, role)
 */

package logic

import (
	"math"
	"sort"

	"toornament-stats/api/shared"
	"toornament-stats/api/store"
)

type reduction int

const (
	reduceMean reduction = iota
	reduceSum
	reduceMax
	reduceDerived // computed from other columns once the group is reduced
)

// row is a record plus the values computed across records of the same match
type row struct {
	rec      *store.PerformanceRecord
	csDiff   float64
	goldDiff float64
	xpDiff   float64
}

type statColumn struct {
	key    string
	reduce reduction
	value  func(r row) float64
}

func boolValue(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// statColumns is the ordered list of reduced statistics of a RoleSummary
var statColumns = []statColumn{
	{"kills", reduceMean, func(r row) float64 { return float64(r.rec.Kills) }},
	{"deaths", reduceMean, func(r row) float64 { return float64(r.rec.Deaths) }},
	{"assists", reduceMean, func(r row) float64 { return float64(r.rec.Assists) }},
	{"kda", reduceDerived, nil},
	{"damageDealtToBuildings", reduceMean, func(r row) float64 { return float64(r.rec.DamageDealtToBuildings) }},
	{"damageDealtToObjectives", reduceMean, func(r row) float64 { return float64(r.rec.DamageDealtToObjectives) }},
	{"damageDealtToTurrets", reduceMean, func(r row) float64 { return float64(r.rec.DamageDealtToTurrets) }},
	{"gameDuration", reduceMean, func(r row) float64 { return float64(r.rec.GameDuration) }},
	{"damagePerMinute", reduceMean, func(r row) float64 { return r.rec.DamagePerMinute }},
	{"damageTakenOnTeamPercentage", reduceMean, func(r row) float64 { return r.rec.DamageTakenOnTeamPercentage }},
	{"firstTurretKilled", reduceSum, func(r row) float64 { return r.rec.FirstTurretKilled }},
	{"goldPerMinute", reduceMean, func(r row) float64 { return r.rec.GoldPerMinute }},
	{"killParticipation", reduceSum, func(r row) float64 { return r.rec.KillParticipation }},
	{"laneMinionsFirst10Minutes", reduceMean, func(r row) float64 { return r.rec.LaneMinionsFirst10Minutes }},
	{"riftHeraldTakedowns", reduceSum, func(r row) float64 { return r.rec.RiftHeraldTakedowns }},
	{"soloKills_mean", reduceMean, func(r row) float64 { return r.rec.SoloKills }},
	{"soloKills_total", reduceSum, func(r row) float64 { return r.rec.SoloKills }},
	{"stealthWardsPlaced", reduceMean, func(r row) float64 { return r.rec.StealthWardsPlaced }},
	{"survivedSingleDigitHpCount", reduceSum, func(r row) float64 { return r.rec.SurvivedSingleDigitHpCount }},
	{"teamBaronKills", reduceMean, func(r row) float64 { return r.rec.TeamBaronKills }},
	{"teamDamagePercentage", reduceMean, func(r row) float64 { return r.rec.TeamDamagePercentage }},
	{"teamRiftHeraldKills", reduceMean, func(r row) float64 { return r.rec.TeamRiftHeraldKills }},
	{"turretPlatesTaken", reduceMean, func(r row) float64 { return r.rec.TurretPlatesTaken }},
	{"voidMonsterKill", reduceMean, func(r row) float64 { return r.rec.VoidMonsterKill }},
	{"wardTakedowns", reduceMean, func(r row) float64 { return r.rec.WardTakedowns }},
	{"damageSelfMitigated", reduceMean, func(r row) float64 { return float64(r.rec.DamageSelfMitigated) }},
	{"firstBloodKill", reduceSum, func(r row) float64 { return boolValue(r.rec.FirstBloodKill) }},
	{"largestCriticalStrike", reduceMax, func(r row) float64 { return float64(r.rec.LargestCriticalStrike) }},
	{"largestMultiKill", reduceMax, func(r row) float64 { return float64(r.rec.LargestMultiKill) }},
	{"magicDamageDealt", reduceMean, func(r row) float64 { return float64(r.rec.MagicDamageDealt) }},
	{"magicDamageDealtToChampions", reduceMean, func(r row) float64 { return float64(r.rec.MagicDamageDealtToChampions) }},
	{"magicDamageTaken", reduceMean, func(r row) float64 { return float64(r.rec.MagicDamageTaken) }},
	{"objectivesStolen", reduceSum, func(r row) float64 { return float64(r.rec.ObjectivesStolen) }},
	{"pentaKills", reduceSum, func(r row) float64 { return float64(r.rec.PentaKills) }},
	{"physicalDamageDealt", reduceMean, func(r row) float64 { return float64(r.rec.PhysicalDamageDealt) }},
	{"physicalDamageDealtToChampions", reduceMean, func(r row) float64 { return float64(r.rec.PhysicalDamageDealtToChampions) }},
	{"physicalDamageTaken", reduceMean, func(r row) float64 { return float64(r.rec.PhysicalDamageTaken) }},
	{"timeCCingOthers", reduceMean, func(r row) float64 { return float64(r.rec.TimeCCingOthers) }},
	{"totalDamageDealt", reduceMean, func(r row) float64 { return float64(r.rec.TotalDamageDealt) }},
	{"totalDamageDealtToChampions", reduceMean, func(r row) float64 { return float64(r.rec.TotalDamageDealtToChampions) }},
	{"totalDamageShieldedOnTeammates", reduceMean, func(r row) float64 { return float64(r.rec.TotalDamageShieldedOnTeammates) }},
	{"totalHeal", reduceMean, func(r row) float64 { return float64(r.rec.TotalHeal) }},
	{"totalHealsOnTeammates", reduceMean, func(r row) float64 { return float64(r.rec.TotalHealsOnTeammates) }},
	{"totalMinionsKilled", reduceMean, func(r row) float64 { return float64(r.rec.TotalMinionsKilled) }},
	{"totalTimeCCDealt", reduceMean, func(r row) float64 { return float64(r.rec.TotalTimeCCDealt) }},
	{"totalTimeSpentDead", reduceMean, func(r row) float64 { return float64(r.rec.TotalTimeSpentDead) }},
	{"trueDamageDealt", reduceMean, func(r row) float64 { return float64(r.rec.TrueDamageDealt) }},
	{"trueDamageDealtToChampions", reduceMean, func(r row) float64 { return float64(r.rec.TrueDamageDealtToChampions) }},
	{"trueDamageTaken", reduceMean, func(r row) float64 { return float64(r.rec.TrueDamageTaken) }},
	{"turretKills", reduceMean, func(r row) float64 { return float64(r.rec.TurretKills) }},
	{"visionScore", reduceMean, func(r row) float64 { return float64(r.rec.VisionScore) }},
	{"visionScorePerMinute", reduceMean, func(r row) float64 { return r.rec.VisionScorePerMinute }},
	{"visionWardsBoughtInGame", reduceMean, func(r row) float64 { return float64(r.rec.VisionWardsBoughtInGame) }},
	{"wardsKilled", reduceMean, func(r row) float64 { return float64(r.rec.WardsKilled) }},
	{"wardsPlaced", reduceMean, func(r row) float64 { return float64(r.rec.WardsPlaced) }},
	{"pinksPlaced", reduceMean, func(r row) float64 { return float64(r.rec.PinksPlaced) }},
	{"cs_15", reduceMean, func(r row) float64 { return float64(r.rec.CS15) }},
	{"gold_15", reduceMean, func(r row) float64 { return float64(r.rec.Gold15) }},
	{"xp_15", reduceMean, func(r row) float64 { return float64(r.rec.XP15) }},
	{"cs_15_diff", reduceMean, func(r row) float64 { return r.csDiff }},
	{"gold_15_diff", reduceMean, func(r row) float64 { return r.goldDiff }},
	{"xp_15_diff", reduceMean, func(r row) float64 { return r.xpDiff }},
}

// StatKeys returns the ordered keys of the reduced statistics
func StatKeys() []string {
	keys := make([]string, len(statColumns))
	for i, column := range statColumns {
		keys[i] = column.key
	}
	return keys
}

func isStatKey(key string) bool {
	for _, column := range statColumns {
		if column.key == key {
			return true
		}
	}
	return key == "winrate" || key == "matches_played"
}

// RoleSummary is the reduced performance of one player in one role
type RoleSummary struct {
	Name          string
	Team          string
	Position      string // canonical role, or the raw label when it is not mapped
	Main          bool
	Score         float64
	Winrate       float64
	MatchesPlayed int
	WinCount      int
	Stats         map[string]float64
}

// Stat returns a reduced statistic by key. winrate and matches_played are also accepted so they can be weighted
func (s RoleSummary) Stat(key string) float64 {
	switch key {
	case "winrate":
		return s.Winrate
	case "matches_played":
		return float64(s.MatchesPlayed)
	}
	return s.Stats[key]
}

// laneDiffs computes 2*(x-mean) of the snapshot values for every (match, teamPosition) group. With one player per
// side in a lane this is the difference with the opponent
func laneDiffs(records []store.PerformanceRecord) []row {
	type laneKey struct{ matchID, position string }
	lanes := make(map[laneKey][]int)
	rows := make([]row, len(records))
	for i := range records {
		rows[i].rec = &records[i]
		key := laneKey{records[i].MatchID, records[i].TeamPosition}
		lanes[key] = append(lanes[key], i)
	}

	for _, members := range lanes {
		var cs, gold, xp float64
		for _, i := range members {
			cs += float64(records[i].CS15)
			gold += float64(records[i].Gold15)
			xp += float64(records[i].XP15)
		}
		n := float64(len(members))
		for _, i := range members {
			rows[i].csDiff = 2 * (float64(records[i].CS15) - cs/n)
			rows[i].goldDiff = 2 * (float64(records[i].Gold15) - gold/n)
			rows[i].xpDiff = 2 * (float64(records[i].XP15) - xp/n)
		}
	}
	return rows
}

// Function to aggregate the fact table
// Preconditions: Receives every performance record of the tournament and the role label mapping
// Postconditions: Returns one summary per (name, role) sorted by name then role, with Main set on the role each
// player played the most. Score is left at zero. Team is the team the player was seen with most often
func Aggregate(records []store.PerformanceRecord, roles RoleMap) []RoleSummary {
	rows := laneDiffs(records)

	type groupKey struct{ name, role string }
	groups := make(map[groupKey][]row)
	teamCounts := make(map[string]map[string]int)
	for _, r := range rows {
		key := groupKey{r.rec.Name, roles.Canonical(r.rec.TeamPosition)}
		groups[key] = append(groups[key], r)

		if r.rec.Team != "" {
			if teamCounts[r.rec.Name] == nil {
				teamCounts[r.rec.Name] = make(map[string]int)
			}
			teamCounts[r.rec.Name][r.rec.Team]++
		}
	}

	summaries := make([]RoleSummary, 0, len(groups))
	for key, members := range groups {
		summary := reduceGroup(members)
		summary.Name = key.name
		summary.Position = key.role
		summary.Team = mostFrequent(teamCounts[key.name])
		summaries = append(summaries, summary)
	}

	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].Name != summaries[j].Name {
			return summaries[i].Name < summaries[j].Name
		}
		return roleLess(summaries[i].Position, summaries[j].Position)
	})

	markMainRoles(summaries)
	return summaries
}

func reduceGroup(members []row) RoleSummary {
	n := float64(len(members))
	stats := make(map[string]float64, len(statColumns))
	wins := 0
	for _, r := range members {
		if r.rec.Win {
			wins++
		}
	}

	for _, column := range statColumns {
		if column.reduce == reduceDerived {
			continue
		}
		var acc float64
		if column.reduce == reduceMax {
			acc = math.Inf(-1)
		}
		for _, r := range members {
			v := column.value(r)
			switch column.reduce {
			case reduceMax:
				acc = math.Max(acc, v)
			default:
				acc += v
			}
		}
		if column.reduce == reduceMean {
			acc /= n
		}
		stats[column.key] = acc
	}
	stats["kda"] = KDA(stats["kills"], stats["deaths"], stats["assists"])

	return RoleSummary{
		MatchesPlayed: len(members),
		WinCount:      wins,
		Winrate:       float64(wins) / n,
		Stats:         stats,
	}
}

// markMainRoles expects summaries grouped by name
func markMainRoles(summaries []RoleSummary) {
	for start := 0; start < len(summaries); {
		end := start
		best := start
		for end < len(summaries) && summaries[end].Name == summaries[start].Name {
			if summaries[end].MatchesPlayed > summaries[best].MatchesPlayed ||
				(summaries[end].MatchesPlayed == summaries[best].MatchesPlayed && roleLess(summaries[end].Position, summaries[best].Position)) {
				best = end
			}
			end++
		}
		summaries[best].Main = true
		start = end
	}
}

// roleRank orders canonical roles TOP, JGL, MID, BOT, SUP ahead of unmapped labels
func roleRank(role string) int {
	for i, canonical := range shared.Roles {
		if role == canonical {
			return i
		}
	}
	return len(shared.Roles)
}

func roleLess(a string, b string) bool {
	rankA, rankB := roleRank(a), roleRank(b)
	if rankA != rankB {
		return rankA < rankB
	}
	return a < b
}

func mostFrequent(counts map[string]int) string {
	best, bestCount := "", 0
	for value, count := range counts {
		if count > bestCount || (count == bestCount && value < best) {
			best, bestCount = value, count
		}
	}
	return best
}
