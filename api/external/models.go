/* models.go
 * This file contains the shapes of the Riot match-v5 and timeline documents. The same structs are used to decode
 * documents read back from the db, so every field carries a bson tag matching the upstream json key
 */

package external

// MatchDocument is a stored match-v5 document. MatchID is added at ingestion, the rest is upstream data
type MatchDocument struct {
	MatchID  string        `bson:"match_id" json:"match_id"`
	Metadata MatchMetadata `bson:"metadata" json:"metadata"`
	Info     MatchInfo     `bson:"info" json:"info"`
}

type MatchMetadata struct {
	MatchID      string   `bson:"matchId" json:"matchId"`
	Participants []string `bson:"participants" json:"participants"` // PUUIDs, seat order
}

type MatchInfo struct {
	GameCreation    int64         `bson:"gameCreation" json:"gameCreation"` // ms since epoch
	GameDuration    int64         `bson:"gameDuration" json:"gameDuration"` // seconds
	EndOfGameResult string        `bson:"endOfGameResult" json:"endOfGameResult"`
	TournamentCode  string        `bson:"tournamentCode" json:"tournamentCode"`
	Participants    []Participant `bson:"participants" json:"participants"`
	Teams           []TeamInfo    `bson:"teams" json:"teams"`
}

type TeamInfo struct {
	TeamID int   `bson:"teamId" json:"teamId"` // 100 blue, 200 red
	Win    bool  `bson:"win" json:"win"`
	Bans   []Ban `bson:"bans" json:"bans"`
}

type Ban struct {
	ChampionID int `bson:"championId" json:"championId"`
	PickTurn   int `bson:"pickTurn" json:"pickTurn"`
}

// Participant is one seat's performance block. Absent keys decode to zero
type Participant struct {
	ParticipantID int    `bson:"participantId" json:"participantId"`
	PUUID         string `bson:"puuid" json:"puuid"`
	TeamID        int    `bson:"teamId" json:"teamId"`
	TeamPosition  string `bson:"teamPosition" json:"teamPosition"` // TOP, JUNGLE, MIDDLE, BOTTOM, UTILITY
	ChampionID    int    `bson:"championId" json:"championId"`
	ChampionName  string `bson:"championName" json:"championName"`
	Win           bool   `bson:"win" json:"win"`

	Kills   int `bson:"kills" json:"kills"`
	Deaths  int `bson:"deaths" json:"deaths"`
	Assists int `bson:"assists" json:"assists"`

	DamageDealtToBuildings         int  `bson:"damageDealtToBuildings" json:"damageDealtToBuildings"`
	DamageDealtToObjectives        int  `bson:"damageDealtToObjectives" json:"damageDealtToObjectives"`
	DamageDealtToTurrets           int  `bson:"damageDealtToTurrets" json:"damageDealtToTurrets"`
	DamageSelfMitigated            int  `bson:"damageSelfMitigated" json:"damageSelfMitigated"`
	FirstBloodKill                 bool `bson:"firstBloodKill" json:"firstBloodKill"`
	LargestCriticalStrike          int  `bson:"largestCriticalStrike" json:"largestCriticalStrike"`
	LargestMultiKill               int  `bson:"largestMultiKill" json:"largestMultiKill"`
	MagicDamageDealt               int  `bson:"magicDamageDealt" json:"magicDamageDealt"`
	MagicDamageDealtToChampions    int  `bson:"magicDamageDealtToChampions" json:"magicDamageDealtToChampions"`
	MagicDamageTaken               int  `bson:"magicDamageTaken" json:"magicDamageTaken"`
	ObjectivesStolen               int  `bson:"objectivesStolen" json:"objectivesStolen"`
	PentaKills                     int  `bson:"pentaKills" json:"pentaKills"`
	PhysicalDamageDealt            int  `bson:"physicalDamageDealt" json:"physicalDamageDealt"`
	PhysicalDamageDealtToChampions int  `bson:"physicalDamageDealtToChampions" json:"physicalDamageDealtToChampions"`
	PhysicalDamageTaken            int  `bson:"physicalDamageTaken" json:"physicalDamageTaken"`
	TimeCCingOthers                int  `bson:"timeCCingOthers" json:"timeCCingOthers"`
	TotalDamageDealt               int  `bson:"totalDamageDealt" json:"totalDamageDealt"`
	TotalDamageDealtToChampions    int  `bson:"totalDamageDealtToChampions" json:"totalDamageDealtToChampions"`
	TotalDamageShieldedOnTeammates int  `bson:"totalDamageShieldedOnTeammates" json:"totalDamageShieldedOnTeammates"`
	TotalHeal                      int  `bson:"totalHeal" json:"totalHeal"`
	TotalHealsOnTeammates          int  `bson:"totalHealsOnTeammates" json:"totalHealsOnTeammates"`
	TotalMinionsKilled             int  `bson:"totalMinionsKilled" json:"totalMinionsKilled"`
	TotalTimeCCDealt               int  `bson:"totalTimeCCDealt" json:"totalTimeCCDealt"`
	TotalTimeSpentDead             int  `bson:"totalTimeSpentDead" json:"totalTimeSpentDead"`
	TrueDamageDealt                int  `bson:"trueDamageDealt" json:"trueDamageDealt"`
	TrueDamageDealtToChampions     int  `bson:"trueDamageDealtToChampions" json:"trueDamageDealtToChampions"`
	TrueDamageTaken                int  `bson:"trueDamageTaken" json:"trueDamageTaken"`
	TurretKills                    int  `bson:"turretKills" json:"turretKills"`
	TurretsLost                    int  `bson:"turretsLost" json:"turretsLost"`
	VisionScore                    int  `bson:"visionScore" json:"visionScore"`
	VisionWardsBoughtInGame        int  `bson:"visionWardsBoughtInGame" json:"visionWardsBoughtInGame"`
	WardsKilled                    int  `bson:"wardsKilled" json:"wardsKilled"`
	WardsPlaced                    int  `bson:"wardsPlaced" json:"wardsPlaced"`
	DetectorWardsPlaced            int  `bson:"detectorWardsPlaced" json:"detectorWardsPlaced"`

	Challenges Challenges `bson:"challenges" json:"challenges"`
}

// Challenges holds the derived metrics Riot computes per participant. All values are floats upstream
type Challenges struct {
	DamagePerMinute             float64 `bson:"damagePerMinute" json:"damagePerMinute"`
	DamageTakenOnTeamPercentage float64 `bson:"damageTakenOnTeamPercentage" json:"damageTakenOnTeamPercentage"`
	FirstTurretKilled           float64 `bson:"firstTurretKilled" json:"firstTurretKilled"`
	GoldPerMinute               float64 `bson:"goldPerMinute" json:"goldPerMinute"`
	KDA                         float64 `bson:"kda" json:"kda"`
	KillParticipation           float64 `bson:"killParticipation" json:"killParticipation"`
	LaneMinionsFirst10Minutes   float64 `bson:"laneMinionsFirst10Minutes" json:"laneMinionsFirst10Minutes"`
	RiftHeraldTakedowns         float64 `bson:"riftHeraldTakedowns" json:"riftHeraldTakedowns"`
	SoloKills                   float64 `bson:"soloKills" json:"soloKills"`
	StealthWardsPlaced          float64 `bson:"stealthWardsPlaced" json:"stealthWardsPlaced"`
	SurvivedSingleDigitHpCount  float64 `bson:"survivedSingleDigitHpCount" json:"survivedSingleDigitHpCount"`
	TeamBaronKills              float64 `bson:"teamBaronKills" json:"teamBaronKills"`
	TeamDamagePercentage        float64 `bson:"teamDamagePercentage" json:"teamDamagePercentage"`
	TeamRiftHeraldKills         float64 `bson:"teamRiftHeraldKills" json:"teamRiftHeraldKills"`
	TurretPlatesTaken           float64 `bson:"turretPlatesTaken" json:"turretPlatesTaken"`
	VisionScorePerMinute        float64 `bson:"visionScorePerMinute" json:"visionScorePerMinute"`
	VoidMonsterKill             float64 `bson:"voidMonsterKill" json:"voidMonsterKill"`
	WardTakedowns               float64 `bson:"wardTakedowns" json:"wardTakedowns"`
}

// TimelineDocument is a stored match-v5 timeline
type TimelineDocument struct {
	MatchID  string        `bson:"match_id" json:"match_id"`
	Metadata MatchMetadata `bson:"metadata" json:"metadata"`
	Info     TimelineInfo  `bson:"info" json:"info"`
}

type TimelineInfo struct {
	FrameInterval int             `bson:"frameInterval" json:"frameInterval"` // ms, 60000 upstream
	Frames        []TimelineFrame `bson:"frames" json:"frames"`
}

// TimelineFrame is the cumulative state of every seat at Timestamp. ParticipantFrames is keyed by seat number "1".."10"
type TimelineFrame struct {
	Timestamp         int64                       `bson:"timestamp" json:"timestamp"`
	ParticipantFrames map[string]ParticipantFrame `bson:"participantFrames" json:"participantFrames"`
}

type ParticipantFrame struct {
	ParticipantID       int `bson:"participantId" json:"participantId"`
	Level               int `bson:"level" json:"level"`
	CurrentGold         int `bson:"currentGold" json:"currentGold"`
	TotalGold           int `bson:"totalGold" json:"totalGold"`
	XP                  int `bson:"xp" json:"xp"`
	MinionsKilled       int `bson:"minionsKilled" json:"minionsKilled"`
	JungleMinionsKilled int `bson:"jungleMinionsKilled" json:"jungleMinionsKilled"`
}

// AccountResponse is the body of /riot/account/v1/accounts/by-riot-id
type AccountResponse struct {
	PUUID    string `json:"puuid"`
	GameName string `json:"gameName"`
	TagLine  string `json:"tagLine"`
}

// Match completion status kept at ingestion
const GameComplete = "GameComplete"
