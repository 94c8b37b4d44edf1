/* config.go
 * Contains the helpers turning environment variables and flags into the settings used by the commands
 */

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"

	"toornament-stats/api/api"
	"toornament-stats/api/external"
	"toornament-stats/api/logic"
)

const weightsFile = "weights.json"

// settings holds everything a command needs, resolved from the environment and the flags
type settings struct {
	Tournament     string
	Dir            string // tournaments/<tournament>
	MongoURI       string
	RiotAPIKey     string
	Endpoints      external.Endpoints
	Config         logic.Config
	DiscordToken   string
	DiscordChannel string
}

// convertStrToBool converts a string of true or false into a boolean
// Preconditions: Receives string containing either true or false (case insensitive)
// Postconditions: Returns boolean value or an error if the string is not true or false
func convertStrToBool(str string) (bool, error) {
	str = strings.TrimSpace(str)
	str = strings.ToLower(str)

	if str == "true" {
		return true, nil
	} else if str == "false" {
		return false, nil
	}
	return false, fmt.Errorf("invalid boolean string %q", str)
}

// configureLogging sets the logrus level from the flag or LOG_LEVEL, and switches to JSON output when LOG_JSON is true
func configureLogging(flagLevel string, getenv func(string) string) error {
	level := flagLevel
	if level == "" {
		level = getenv("LOG_LEVEL")
	}
	if level == "" {
		level = "info"
	}
	parsed, err := log.ParseLevel(level)
	if err != nil {
		return err
	}
	log.SetLevel(parsed)

	if raw := getenv("LOG_JSON"); raw != "" {
		jsonOutput, err := convertStrToBool(raw)
		if err != nil {
			return fmt.Errorf("LOG_JSON: %w", err)
		}
		if jsonOutput {
			log.SetFormatter(&log.JSONFormatter{})
		}
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
	return nil
}

// loadSettings resolves the tournament, its directory, the connection strings and the scoring config
// Preconditions: getenv returns the environment, tournament/dir/workerCount come from the flags
// Postconditions: Returns the settings or an error naming the missing value. weights.json overrides the default
// weights when it exists in the tournament directory
func loadSettings(getenv func(string) string, tournament string, dir string, workerCount int) (settings, error) {
	if tournament == "" {
		tournament = getenv("TOORNAMENT_NAME")
	}
	if tournament == "" {
		return settings{}, errors.New("tournament is required: use --tournament or set TOORNAMENT_NAME")
	}

	s := settings{
		Tournament: tournament,
		Dir:        filepath.Join(dir, tournament),
		MongoURI:   getenv("MONGODB_URI"),
		RiotAPIKey: getenv("RIOT_API_KEY"),
		Endpoints: external.Endpoints{
			PUUID:         getenv("PUUID_URL"),
			MatchList:     getenv("MATCHSLIST_URL"),
			MatchData:     getenv("MATCHDATA_URL"),
			MatchTimeline: getenv("MATCHTIMELINE_URL"),
		},
		Config:         logic.DefaultConfig(),
		DiscordToken:   getenv("DISCORD_TOKEN"),
		DiscordChannel: getenv("DISCORD_CHANNEL_ID"),
	}
	if s.MongoURI == "" {
		return settings{}, errors.New("MONGODB_URI is required")
	}
	if workerCount > 0 {
		s.Config.Workers = workerCount
	}

	weightsPath := filepath.Join(s.Dir, weightsFile)
	if _, err := os.Stat(weightsPath); err == nil {
		weights, err := logic.LoadWeights(weightsPath)
		if err != nil {
			return settings{}, err
		}
		s.Config.Weights = weights
		log.WithField("path", weightsPath).Info("using tournament weights")
	} else if !errors.Is(err, fs.ErrNotExist) {
		return settings{}, err
	}
	return s, nil
}

// validateRiot reports the first Riot setting missing from the environment
func (s settings) validateRiot() error {
	required := []struct{ key, value string }{
		{"RIOT_API_KEY", s.RiotAPIKey},
		{"PUUID_URL", s.Endpoints.PUUID},
		{"MATCHSLIST_URL", s.Endpoints.MatchList},
		{"MATCHDATA_URL", s.Endpoints.MatchData},
	}
	for _, setting := range required {
		if setting.value == "" {
			return fmt.Errorf("%s is required", setting.key)
		}
	}
	return nil
}

// openAPI loads the settings from the flags and connects to the tournament database. The Riot client is only built
// when withRiot is true
func openAPI(ctx context.Context, withRiot bool) (*api.API, settings, error) {
	s, err := loadSettings(os.Getenv, tournamentFlag, tournamentsDir, workers)
	if err != nil {
		return nil, s, err
	}

	var riot api.RiotSource
	if withRiot {
		if err := s.validateRiot(); err != nil {
			return nil, s, err
		}
		client, err := external.NewRiotClient(s.RiotAPIKey, s.Endpoints, nil)
		if err != nil {
			return nil, s, err
		}
		riot = client
	}

	a, err := api.NewAPI(ctx, s.Tournament, s.MongoURI, riot, s.Config)
	if err != nil {
		return nil, s, err
	}
	return a, s, nil
}

// closeAPI disconnects from mongo and logs any error
func closeAPI(a *api.API) {
	if err := a.Close(context.Background()); err != nil {
		log.Warnf("error closing database connection: %v", err)
	}
}
