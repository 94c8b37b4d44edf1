/* models.go
 * Contains the documents written by the store that are not raw Riot data: the derived match context and the
 * per player per match performance record
 */

package store

// MatchContext is the derived context attached to a match and its timeline. It is recomputed on every run
type MatchContext struct {
	MatchID  string `bson:"match_id"`
	Versus   string `bson:"versus"` // canonical pairing key, "A vs B" with A <= B
	Round    int    `bson:"round"`  // 1 based rank inside Versus ordered by creation time
	Blue     string `bson:"blue"`
	Red      string `bson:"red"`
	GameDate string `bson:"game_dt"`
}

// PerformanceRecord is one row of the stats_players fact table, keyed by (MatchID, Name)
type PerformanceRecord struct {
	MatchID      string `bson:"match_id"`
	Versus       string `bson:"versus"`
	Round        int    `bson:"round"`
	Name         string `bson:"name"`
	Team         string `bson:"team"`
	Side         string `bson:"side"`
	TeamPosition string `bson:"teamPosition"`
	ChampionID   int    `bson:"championId"`
	ChampionName string `bson:"championName"`
	Win          bool   `bson:"win"`
	GameDuration int64  `bson:"gameDuration"`

	Kills   int     `bson:"kills"`
	Deaths  int     `bson:"deaths"`
	Assists int     `bson:"assists"`
	KDA     float64 `bson:"kda"`

	DamageDealtToBuildings         int  `bson:"damageDealtToBuildings"`
	DamageDealtToObjectives        int  `bson:"damageDealtToObjectives"`
	DamageDealtToTurrets           int  `bson:"damageDealtToTurrets"`
	DamageSelfMitigated            int  `bson:"damageSelfMitigated"`
	FirstBloodKill                 bool `bson:"firstBloodKill"`
	LargestCriticalStrike          int  `bson:"largestCriticalStrike"`
	LargestMultiKill               int  `bson:"largestMultiKill"`
	MagicDamageDealt               int  `bson:"magicDamageDealt"`
	MagicDamageDealtToChampions    int  `bson:"magicDamageDealtToChampions"`
	MagicDamageTaken               int  `bson:"magicDamageTaken"`
	ObjectivesStolen               int  `bson:"objectivesStolen"`
	PentaKills                     int  `bson:"pentaKills"`
	PhysicalDamageDealt            int  `bson:"physicalDamageDealt"`
	PhysicalDamageDealtToChampions int  `bson:"physicalDamageDealtToChampions"`
	PhysicalDamageTaken            int  `bson:"physicalDamageTaken"`
	TimeCCingOthers                int  `bson:"timeCCingOthers"`
	TotalDamageDealt               int  `bson:"totalDamageDealt"`
	TotalDamageDealtToChampions    int  `bson:"totalDamageDealtToChampions"`
	TotalDamageShieldedOnTeammates int  `bson:"totalDamageShieldedOnTeammates"`
	TotalHeal                      int  `bson:"totalHeal"`
	TotalHealsOnTeammates          int  `bson:"totalHealsOnTeammates"`
	TotalMinionsKilled             int  `bson:"totalMinionsKilled"`
	TotalTimeCCDealt               int  `bson:"totalTimeCCDealt"`
	TotalTimeSpentDead             int  `bson:"totalTimeSpentDead"`
	TrueDamageDealt                int  `bson:"trueDamageDealt"`
	TrueDamageDealtToChampions     int  `bson:"trueDamageDealtToChampions"`
	TrueDamageTaken                int  `bson:"trueDamageTaken"`
	TurretKills                    int  `bson:"turretKills"`
	TurretsLost                    int  `bson:"turretsLost"`
	VisionScore                    int  `bson:"visionScore"`
	VisionWardsBoughtInGame        int  `bson:"visionWardsBoughtInGame"`
	WardsKilled                    int  `bson:"wardsKilled"`
	WardsPlaced                    int  `bson:"wardsPlaced"`
	PinksPlaced                    int  `bson:"pinksPlaced"`

	DamagePerMinute             float64 `bson:"damagePerMinute"`
	DamageTakenOnTeamPercentage float64 `bson:"damageTakenOnTeamPercentage"`
	FirstTurretKilled           float64 `bson:"firstTurretKilled"`
	GoldPerMinute               float64 `bson:"goldPerMinute"`
	KillParticipation           float64 `bson:"killParticipation"`
	LaneMinionsFirst10Minutes   float64 `bson:"laneMinionsFirst10Minutes"`
	RiftHeraldTakedowns         float64 `bson:"riftHeraldTakedowns"`
	SoloKills                   float64 `bson:"soloKills"`
	StealthWardsPlaced          float64 `bson:"stealthWardsPlaced"`
	SurvivedSingleDigitHpCount  float64 `bson:"survivedSingleDigitHpCount"`
	TeamBaronKills              float64 `bson:"teamBaronKills"`
	TeamDamagePercentage        float64 `bson:"teamDamagePercentage"`
	TeamRiftHeraldKills         float64 `bson:"teamRiftHeraldKills"`
	TurretPlatesTaken           float64 `bson:"turretPlatesTaken"`
	VisionScorePerMinute        float64 `bson:"visionScorePerMinute"`
	VoidMonsterKill             float64 `bson:"voidMonsterKill"`
	WardTakedowns               float64 `bson:"wardTakedowns"`

	// state at the snapshot frame, zero when the timeline is missing or too short
	CS15   int `bson:"cs_15"`
	Gold15 int `bson:"gold_15"`
	XP15   int `bson:"xp_15"`
}

// PlayerMatchRef is a participant seen in a stored match, used by the identity check
type PlayerMatchRef struct {
	PUUID   string
	MatchID string
}
