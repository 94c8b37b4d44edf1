/* flatten.go
 * Contains the match flattener, which turns one match document, its timeline and its resolved context into one
 * PerformanceRecord per roster participant
 */

package logic

import (
	"fmt"
	"strconv"

	"toornament-stats/api/external"
	"toornament-stats/api/shared"
	"toornament-stats/api/store"
)

// DefaultSnapshotFrame is the timeline frame index used for the *_15 fields. Frames are one minute apart and frame 0
// is the game start, so index 15 is the state at 15:00
const DefaultSnapshotFrame = 15

// KDA returns (kills + assists) / deaths, or kills + assists when there were no deaths
func KDA(kills float64, deaths float64, assists float64) float64 {
	if deaths > 0 {
		return (kills + assists) / deaths
	}
	return kills + assists
}

// Function to flatten one match
// Preconditions: Receives the match, its resolved context, its timeline (nil when not downloaded yet), the roster
// resolver and the snapshot frame index
// Postconditions: Returns the records ordered by seat and the puuids that could not be resolved, or
// ErrUnresolvedContext if matchCtx does not belong to the match. Missing upstream fields are zero and a missing or
// short timeline gives zero snapshot fields
func FlattenMatch(m external.MatchDocument, matchCtx store.MatchContext, tl *external.TimelineDocument, r *Resolver, snapshotFrame int) ([]store.PerformanceRecord, []string, error) {
	if matchCtx.MatchID == "" || matchCtx.MatchID != m.MatchID {
		return nil, nil, fmt.Errorf("%w: %s", ErrUnresolvedContext, m.MatchID)
	}

	snapshot := snapshotFrames(tl, snapshotFrame)

	records := make([]store.PerformanceRecord, 0, len(m.Info.Participants))
	var unresolved []string
	for seat, participant := range m.Info.Participants {
		player, ok := r.Lookup(participant.PUUID)
		if !ok {
			unresolved = append(unresolved, participant.PUUID)
			continue
		}

		record := newRecord(m, participant, playerName(player))
		record.Versus = matchCtx.Versus
		record.Round = matchCtx.Round
		if seat < shared.SeatsPerSide {
			record.Side = shared.SideBlue
			record.Team = matchCtx.Blue
		} else {
			record.Side = shared.SideRed
			record.Team = matchCtx.Red
		}

		participantID := participant.ParticipantID
		if participantID == 0 {
			participantID = seat + 1
		}
		if frame, ok := snapshot[strconv.Itoa(participantID)]; ok {
			record.CS15 = frame.MinionsKilled + frame.JungleMinionsKilled
			record.Gold15 = frame.TotalGold
			record.XP15 = frame.XP
		}

		records = append(records, record)
	}

	return records, unresolved, nil
}

// HasSnapshot reports whether a timeline is long enough to provide the snapshot frame
func HasSnapshot(tl *external.TimelineDocument, snapshotFrame int) bool {
	return tl != nil && len(tl.Info.Frames) > snapshotFrame
}

func snapshotFrames(tl *external.TimelineDocument, snapshotFrame int) map[string]external.ParticipantFrame {
	if !HasSnapshot(tl, snapshotFrame) {
		return nil
	}
	return tl.Info.Frames[snapshotFrame].ParticipantFrames
}

// playerName is the record key. The roster display name is used, falling back to the Riot game name
func playerName(player shared.Player) string {
	if player.Name != "" {
		return player.Name
	}
	return player.GameName
}

func newRecord(m external.MatchDocument, p external.Participant, name string) store.PerformanceRecord {
	c := p.Challenges
	return store.PerformanceRecord{
		MatchID:      m.MatchID,
		Name:         name,
		TeamPosition: p.TeamPosition,
		ChampionID:   p.ChampionID,
		ChampionName: p.ChampionName,
		Win:          p.Win,
		GameDuration: m.Info.GameDuration,

		Kills:   p.Kills,
		Deaths:  p.Deaths,
		Assists: p.Assists,
		KDA:     KDA(float64(p.Kills), float64(p.Deaths), float64(p.Assists)),

		DamageDealtToBuildings:         p.DamageDealtToBuildings,
		DamageDealtToObjectives:        p.DamageDealtToObjectives,
		DamageDealtToTurrets:           p.DamageDealtToTurrets,
		DamageSelfMitigated:            p.DamageSelfMitigated,
		FirstBloodKill:                 p.FirstBloodKill,
		LargestCriticalStrike:          p.LargestCriticalStrike,
		LargestMultiKill:               p.LargestMultiKill,
		MagicDamageDealt:               p.MagicDamageDealt,
		MagicDamageDealtToChampions:    p.MagicDamageDealtToChampions,
		MagicDamageTaken:               p.MagicDamageTaken,
		ObjectivesStolen:               p.ObjectivesStolen,
		PentaKills:                     p.PentaKills,
		PhysicalDamageDealt:            p.PhysicalDamageDealt,
		PhysicalDamageDealtToChampions: p.PhysicalDamageDealtToChampions,
		PhysicalDamageTaken:            p.PhysicalDamageTaken,
		TimeCCingOthers:                p.TimeCCingOthers,
		TotalDamageDealt:               p.TotalDamageDealt,
		TotalDamageDealtToChampions:    p.TotalDamageDealtToChampions,
		TotalDamageShieldedOnTeammates: p.TotalDamageShieldedOnTeammates,
		TotalHeal:                      p.TotalHeal,
		TotalHealsOnTeammates:          p.TotalHealsOnTeammates,
		TotalMinionsKilled:             p.TotalMinionsKilled,
		TotalTimeCCDealt:               p.TotalTimeCCDealt,
		TotalTimeSpentDead:             p.TotalTimeSpentDead,
		TrueDamageDealt:                p.TrueDamageDealt,
		TrueDamageDealtToChampions:     p.TrueDamageDealtToChampions,
		TrueDamageTaken:                p.TrueDamageTaken,
		TurretKills:                    p.TurretKills,
		TurretsLost:                    p.TurretsLost,
		VisionScore:                    p.VisionScore,
		VisionWardsBoughtInGame:        p.VisionWardsBoughtInGame,
		WardsKilled:                    p.WardsKilled,
		WardsPlaced:                    p.WardsPlaced,
		PinksPlaced:                    p.DetectorWardsPlaced,

		DamagePerMinute:             c.DamagePerMinute,
		DamageTakenOnTeamPercentage: c.DamageTakenOnTeamPercentage,
		FirstTurretKilled:           c.FirstTurretKilled,
		GoldPerMinute:               c.GoldPerMinute,
		KillParticipation:           c.KillParticipation,
		LaneMinionsFirst10Minutes:   c.LaneMinionsFirst10Minutes,
		RiftHeraldTakedowns:         c.RiftHeraldTakedowns,
		SoloKills:                   c.SoloKills,
		StealthWardsPlaced:          c.StealthWardsPlaced,
		SurvivedSingleDigitHpCount:  c.SurvivedSingleDigitHpCount,
		TeamBaronKills:              c.TeamBaronKills,
		TeamDamagePercentage:        c.TeamDamagePercentage,
		TeamRiftHeraldKills:         c.TeamRiftHeraldKills,
		TurretPlatesTaken:           c.TurretPlatesTaken,
		VisionScorePerMinute:        c.VisionScorePerMinute,
		VoidMonsterKill:             c.VoidMonsterKill,
		WardTakedowns:               c.WardTakedowns,
	}
}
