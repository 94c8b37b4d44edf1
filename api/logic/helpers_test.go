package logic

import (
	"fmt"

	"toornament-stats/api/external"
	"toornament-stats/api/shared"
)

var testPositions = []string{"TOP", "JUNGLE", "MIDDLE", "BOTTOM", "UTILITY"}

// testRoster returns five players for each team, with puuids <team>-0 .. <team>-4
func testRoster(teams ...string) []shared.Player {
	var players []shared.Player
	for _, team := range teams {
		for i := 0; i < 5; i++ {
			players = append(players, shared.Player{
				GameName: fmt.Sprintf("%s%d", team, i),
				TagLine:  "EUW",
				Name:     fmt.Sprintf("%s %s", team, testPositions[i]),
				Team:     team,
				PUUID:    fmt.Sprintf("%s-%d", team, i),
			})
		}
	}
	return players
}

func sidePlayers(team string) []string {
	puuids := make([]string, 5)
	for i := range puuids {
		puuids[i] = fmt.Sprintf("%s-%d", team, i)
	}
	return puuids
}

// testMatch builds a 10 seat match, blue puuids first
func testMatch(matchID string, created int64, blue []string, red []string) external.MatchDocument {
	var participants []external.Participant
	for seat, puuid := range append(append([]string{}, blue...), red...) {
		teamID := 100
		if seat >= 5 {
			teamID = 200
		}
		participants = append(participants, external.Participant{
			ParticipantID: seat + 1,
			PUUID:         puuid,
			TeamID:        teamID,
			TeamPosition:  testPositions[seat%5],
			Kills:         seat,
			Deaths:        seat % 3,
			Assists:       2,
			Win:           teamID == 100,
		})
	}
	return external.MatchDocument{
		MatchID: matchID,
		Info: external.MatchInfo{
			GameCreation: created,
			GameDuration: 1800,
			Participants: participants,
		},
	}
}

// testTimeline builds a timeline with n frames, frame i giving every seat i*10 minions and i*100 gold
func testTimeline(n int) *external.TimelineDocument {
	frames := make([]external.TimelineFrame, n)
	for i := range frames {
		participantFrames := make(map[string]external.ParticipantFrame)
		for seat := 1; seat <= 10; seat++ {
			participantFrames[fmt.Sprintf("%d", seat)] = external.ParticipantFrame{
				ParticipantID:       seat,
				MinionsKilled:       i * 10,
				JungleMinionsKilled: seat,
				TotalGold:           i * 100,
				XP:                  i*100 + seat,
			}
		}
		frames[i] = external.TimelineFrame{Timestamp: int64(i) * 60000, ParticipantFrames: participantFrames}
	}
	return &external.TimelineDocument{Info: external.TimelineInfo{FrameInterval: 60000, Frames: frames}}
}
