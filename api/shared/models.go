/* models.go
 * This file contain the structs and constants that are shared between sub packages
 */

package shared

import "time"

// Player is a roster entry. PUUID is the opaque key used by match telemetry, it is empty until the account has
// been resolved against the Riot account api
type Player struct {
	GameName    string    `bson:"gameName,omitempty"`
	TagLine     string    `bson:"tagLine,omitempty"`
	Name        string    `bson:"name,omitempty"`
	Team        string    `bson:"team,omitempty"`
	PUUID       string    `bson:"puuid,omitempty"`
	LastUpdated time.Time `bson:"last_updated,omitempty"`
}

// RiotID returns the gameName#tagLine form used in logs
func (p Player) RiotID() string {
	return p.GameName + "#" + p.TagLine
}

// Side labels. The first five seats of a match are always the blue side
const (
	SideBlue = "blue"
	SideRed  = "red"
)

// SeatsPerMatch and SeatsPerSide describe the fixed participant layout of a match
const (
	SeatsPerMatch = 10
	SeatsPerSide  = 5
)

// Canonical role abbreviations
const (
	RoleTop     = "TOP"
	RoleJungle  = "JGL"
	RoleMid     = "MID"
	RoleBottom  = "BOT"
	RoleSupport = "SUP"
)

// Roles lists the canonical roles in display order
var Roles = []string{RoleTop, RoleJungle, RoleMid, RoleBottom, RoleSupport}
