/* config.go
 * Contains the configuration consumed by the statistics engine: the role label mapping, the scoring weights, the
 * snapshot frame and the flattening worker count
 */

package logic

import (
	"errors"
	"fmt"
	"os"
	"sort"

	json "github.com/goccy/go-json"

	"toornament-stats/api/shared"
)

// RoleMap maps a raw teamPosition label to its canonical abbreviation
type RoleMap map[string]string

// Canonical returns the abbreviation of label, or label itself when it is not mapped
func (m RoleMap) Canonical(label string) string {
	if role, ok := m[label]; ok {
		return role
	}
	return label
}

// Weights maps a canonical role to the weight of each statistic used to score it
type Weights map[string]map[string]float64

type Config struct {
	Weights       Weights
	RoleMap       RoleMap
	SnapshotFrame int
	Workers       int
}

func DefaultRoleMap() RoleMap {
	return RoleMap{
		"TOP":     shared.RoleTop,
		"JUNGLE":  shared.RoleJungle,
		"MIDDLE":  shared.RoleMid,
		"BOTTOM":  shared.RoleBottom,
		"UTILITY": shared.RoleSupport,
	}
}

func DefaultWeights() Weights {
	return Weights{
		shared.RoleTop: {
			"soloKills_mean":              1.5,
			"damageTakenOnTeamPercentage": 1.2,
			"damageSelfMitigated":         1.3,
			"turretPlatesTaken":           1.2,
			"goldPerMinute":               1.1,
			"killParticipation":           1.0,
		},
		shared.RoleJungle: {
			"kda":                     1.3,
			"killParticipation":       1.2,
			"riftHeraldTakedowns":     1.3,
			"teamBaronKills":          1.4,
			"objectivesStolen":        1.5,
			"damageDealtToObjectives": 1.2,
		},
		shared.RoleMid: {
			"kda":                         1.2,
			"totalDamageDealtToChampions": 1.4,
			"soloKills_mean":              1.3,
			"totalMinionsKilled":          1.2,
			"killParticipation":           1.1,
			"goldPerMinute":               1.2,
		},
		shared.RoleBottom: {
			"kda":                         1.3,
			"totalDamageDealtToChampions": 1.4,
			"goldPerMinute":               1.3,
			"killParticipation":           1.1,
			"totalMinionsKilled":          1.2,
			"turretKills":                 1.1,
		},
		shared.RoleSupport: {
			"killParticipation":              1.4,
			"visionScore":                    1.5,
			"wardsPlaced":                    1.3,
			"totalTimeCCDealt":               1.2,
			"assists":                        1.3,
			"totalDamageShieldedOnTeammates": 1.2,
		},
	}
}

func DefaultConfig() Config {
	return Config{
		Weights:       DefaultWeights(),
		RoleMap:       DefaultRoleMap(),
		SnapshotFrame: DefaultSnapshotFrame,
		Workers:       4,
	}
}

// Validate rejects an empty table, roles without statistics, unknown statistic keys and non positive weights
func (w Weights) Validate() error {
	if len(w) == 0 {
		return errors.New("weights: no role configured")
	}

	var errs []error
	for _, role := range w.Roles() {
		stats := w[role]
		if len(stats) == 0 {
			errs = append(errs, fmt.Errorf("weights: role %s has no statistics", role))
			continue
		}
		for _, stat := range sortedKeys(stats) {
			if !isStatKey(stat) {
				errs = append(errs, fmt.Errorf("weights: role %s uses unknown statistic %q", role, stat))
			}
			if stats[stat] <= 0 {
				errs = append(errs, fmt.Errorf("weights: role %s statistic %s has non positive weight %v", role, stat, stats[stat]))
			}
		}
	}
	return errors.Join(errs...)
}

// Roles returns the configured roles in a stable order
func (w Weights) Roles() []string {
	roles := make([]string, 0, len(w))
	for role := range w {
		roles = append(roles, role)
	}
	sort.Slice(roles, func(i, j int) bool { return roleLess(roles[i], roles[j]) })
	return roles
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// LoadWeights reads a weights override file, e.g. tournaments/<t>/weights.json:
//
//	{"TOP": {"soloKills_mean": 1.5, "goldPerMinute": 1.1}, "SUP": {"visionScore": 2}}
//
// The file replaces the default table as a whole and is validated before being returned
func LoadWeights(path string) (Weights, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var weights Weights
	if err := json.Unmarshal(data, &weights); err != nil {
		return nil, fmt.Errorf("error decoding %s: %w", path, err)
	}
	if err := weights.Validate(); err != nil {
		return nil, err
	}
	return weights, nil
}
