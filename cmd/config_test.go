/* config_test.go
 * Contains unit tests for the command helpers that do not need a database
 */

package cmd

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"toornament-stats/api/api"
	"toornament-stats/api/logic"
)

func envMap(values map[string]string) func(string) string {
	return func(key string) string { return values[key] }
}

func TestConvertStrToBool(t *testing.T) {
	for _, input := range []string{"true", "TRUE", " True "} {
		result, err := convertStrToBool(input)
		assert.NoError(t, err)
		assert.True(t, result, input)
	}
	for _, input := range []string{"false", "FALSE"} {
		result, err := convertStrToBool(input)
		assert.NoError(t, err)
		assert.False(t, result, input)
	}

	_, err := convertStrToBool("yes")
	assert.Error(t, err)
}

func TestConfigureLogging(t *testing.T) {
	defer log.SetLevel(log.InfoLevel)
	defer log.SetFormatter(&log.TextFormatter{})

	require.NoError(t, configureLogging("", envMap(map[string]string{"LOG_LEVEL": "debug"})))
	assert.Equal(t, log.DebugLevel, log.GetLevel())

	require.NoError(t, configureLogging("warn", envMap(map[string]string{"LOG_LEVEL": "debug"})))
	assert.Equal(t, log.WarnLevel, log.GetLevel(), "the flag wins over the environment")

	require.NoError(t, configureLogging("", envMap(nil)))
	assert.Equal(t, log.InfoLevel, log.GetLevel())

	assert.Error(t, configureLogging("loud", envMap(nil)))
	assert.Error(t, configureLogging("", envMap(map[string]string{"LOG_JSON": "maybe"})))
}

func TestLoadSettings(t *testing.T) {
	dir := t.TempDir()
	env := envMap(map[string]string{
		"TOORNAMENT_NAME":    "spring_cup",
		"MONGODB_URI":        "mongodb://localhost:27017",
		"RIOT_API_KEY":       "RGAPI-test",
		"PUUID_URL":          "https://europe.api.riotgames.com/riot/account/v1/accounts/by-riot-id/",
		"MATCHSLIST_URL":     "https://europe.api.riotgames.com/lol/match/v5/matches/by-puuid/",
		"MATCHDATA_URL":      "https://europe.api.riotgames.com/lol/match/v5/matches/",
		"DISCORD_CHANNEL_ID": "42",
	})

	s, err := loadSettings(env, "", dir, 0)

	require.NoError(t, err)
	assert.Equal(t, "spring_cup", s.Tournament)
	assert.Equal(t, filepath.Join(dir, "spring_cup"), s.Dir)
	assert.Equal(t, logic.DefaultConfig().Workers, s.Config.Workers)
	assert.Equal(t, logic.DefaultWeights(), s.Config.Weights)
	assert.Equal(t, "42", s.DiscordChannel)
	assert.NoError(t, s.validateRiot())

	s, err = loadSettings(env, "autumn_cup", dir, 8)
	require.NoError(t, err)
	assert.Equal(t, "autumn_cup", s.Tournament, "the flag wins over TOORNAMENT_NAME")
	assert.Equal(t, 8, s.Config.Workers)
}

func TestLoadSettings_WeightsFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "cup"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "cup", weightsFile), []byte(`{"MID": {"kills": 2, "kda": 1}}`), 0o644))
	env := envMap(map[string]string{"MONGODB_URI": "mongodb://localhost"})

	s, err := loadSettings(env, "cup", dir, 0)

	require.NoError(t, err)
	assert.Equal(t, logic.Weights{"MID": {"kills": 2, "kda": 1}}, s.Config.Weights)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "cup", weightsFile), []byte(`{"MID": {"not_a_stat": 1}}`), 0o644))
	_, err = loadSettings(env, "cup", dir, 0)
	assert.Error(t, err)
}

func TestLoadSettings_Missing(t *testing.T) {
	_, err := loadSettings(envMap(nil), "", t.TempDir(), 0)
	assert.ErrorContains(t, err, "tournament is required")

	_, err = loadSettings(envMap(nil), "cup", t.TempDir(), 0)
	assert.ErrorContains(t, err, "MONGODB_URI")

	s, err := loadSettings(envMap(map[string]string{"MONGODB_URI": "mongodb://localhost", "RIOT_API_KEY": "key"}), "cup", t.TempDir(), 0)
	require.NoError(t, err)
	assert.ErrorContains(t, s.validateRiot(), "PUUID_URL")
}

func TestFilterTeams(t *testing.T) {
	summaries := []logic.RoleSummary{{Name: "a", Team: "Karmine Corp"}, {Name: "b", Team: "G2 Esports"}}

	all, err := filterTeams(summaries, nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	filtered, err := filterTeams(summaries, []string{"g2"})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "b", filtered[0].Name)

	_, err = filterTeams(summaries, []string{"zzz"})
	assert.ErrorContains(t, err, "zzz")
}

func TestPrintIdentities(t *testing.T) {
	var buf bytes.Buffer
	printIdentities(&buf, nil)
	assert.Contains(t, buf.String(), "on the roster")

	buf.Reset()
	printIdentities(&buf, []api.UnlinkedIdentity{{PUUID: "abc", MatchIDs: []string{"M1", "M2"}}})
	assert.Equal(t, "1 puuids are not on the roster:\nabc  M1,M2\n", buf.String())
}

func TestPrintContextIssues(t *testing.T) {
	var buf bytes.Buffer
	issue := logic.ContextIssue{MatchID: "M9", Err: fmt.Errorf("%w: blue side tied", logic.ErrUnresolvedContext)}

	printContextIssues(&buf, []logic.ContextIssue{issue})

	assert.Contains(t, buf.String(), "1 matches have no context")
	assert.Contains(t, buf.String(), "match M9")
}
