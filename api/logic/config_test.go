package logic

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultWeights_Valid(t *testing.T) {
	assert.NoError(t, DefaultWeights().Validate())
	assert.Equal(t, []string{"TOP", "JGL", "MID", "BOT", "SUP"}, DefaultWeights().Roles())
}

func TestRoleMap_Canonical(t *testing.T) {
	roles := DefaultRoleMap()

	assert.Equal(t, "JGL", roles.Canonical("JUNGLE"))
	assert.Equal(t, "SUP", roles.Canonical("UTILITY"))
	assert.Equal(t, "", roles.Canonical(""))
	assert.Equal(t, "NONE", roles.Canonical("NONE"))
}

func TestLoadWeights(t *testing.T) {
	path := filepath.Join(t.TempDir(), "weights.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"TOP": {"soloKills_mean": 2}, "SUP": {"visionScore": 1.5}}`), 0o644))

	weights, err := LoadWeights(path)

	require.NoError(t, err)
	assert.Equal(t, Weights{"TOP": {"soloKills_mean": 2}, "SUP": {"visionScore": 1.5}}, weights)
}

func TestLoadWeights_Invalid(t *testing.T) {
	dir := t.TempDir()
	badJSON := filepath.Join(dir, "bad.json")
	unknownStat := filepath.Join(dir, "unknown.json")
	require.NoError(t, os.WriteFile(badJSON, []byte(`{"TOP":`), 0o644))
	require.NoError(t, os.WriteFile(unknownStat, []byte(`{"TOP": {"headshots": 1}}`), 0o644))

	_, err := LoadWeights(badJSON)
	assert.Error(t, err)

	_, err = LoadWeights(unknownStat)
	assert.ErrorContains(t, err, "headshots")

	_, err = LoadWeights(filepath.Join(dir, "missing.json"))
	assert.True(t, os.IsNotExist(err))
}
