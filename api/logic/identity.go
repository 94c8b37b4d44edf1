/* identity.go
 * Contains the identity resolver, which maps the opaque puuid found in match telemetry to a roster entry
 */

package logic

import (
	"toornament-stats/api/shared"
)

// Resolver is an immutable puuid -> Player index built once per run
type Resolver struct {
	byPUUID map[string]shared.Player
}

// NewResolver indexes the roster by puuid. Players that have not been resolved yet (empty puuid) are skipped, and on
// a duplicate puuid the last entry wins
func NewResolver(players []shared.Player) *Resolver {
	byPUUID := make(map[string]shared.Player, len(players))
	for _, player := range players {
		if player.PUUID == "" {
			continue
		}
		byPUUID[player.PUUID] = player
	}
	return &Resolver{byPUUID: byPUUID}
}

// Lookup returns the roster entry of a puuid. An unknown puuid is not an error
func (r *Resolver) Lookup(puuid string) (shared.Player, bool) {
	player, ok := r.byPUUID[puuid]
	return player, ok
}

// Unlinked returns, in input order and without duplicates, the puuids that are not in the roster
func (r *Resolver) Unlinked(puuids []string) []string {
	seen := make(map[string]struct{})
	var unlinked []string
	for _, puuid := range puuids {
		if _, ok := r.byPUUID[puuid]; ok {
			continue
		}
		if _, ok := seen[puuid]; ok {
			continue
		}
		seen[puuid] = struct{}{}
		unlinked = append(unlinked, puuid)
	}
	return unlinked
}

// Len returns the number of indexed players
func (r *Resolver) Len() int {
	return len(r.byPUUID)
}
