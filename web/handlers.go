package web

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	log "github.com/sirupsen/logrus"

	"toornament-stats/api/logic"
	"toornament-stats/api/report"
)

const refreshTimeout = 10 * time.Minute

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warnf("failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// RankingHandler returns the scored players, best first. Query parameters: top (default all), team (repeatable,
// fuzzy matched) and stats=true to include every statistic
func (s *Server) RankingHandler(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	top := 0
	if raw := query.Get("top"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			writeError(w, http.StatusBadRequest, "top must be a non negative integer")
			return
		}
		top = parsed
	}

	summaries, err := s.api.GeneratePlayersStats(r.Context())
	if err != nil {
		log.Errorf("error generating ranking: %v", err)
		writeError(w, http.StatusInternalServerError, "could not compute the ranking")
		return
	}

	if teams := query["team"]; len(teams) > 0 {
		matched, invalid := logic.MatchTeamNames(teams, logic.TeamNames(summaries))
		if len(invalid) > 0 {
			writeError(w, http.StatusBadRequest, "unknown teams: "+strings.Join(invalid, ", "))
			return
		}
		summaries = logic.FilterByTeams(summaries, matched)
	}

	withStats := query.Get("stats") == "true"
	ranked := report.Rank(summaries, top)
	players := make([]PlayerSummary, 0, len(ranked))
	for i, summary := range ranked {
		player := PlayerSummary{
			Rank:          i + 1,
			Name:          summary.Name,
			Team:          summary.Team,
			Position:      summary.Position,
			Main:          summary.Main,
			Score:         report.Round(summary.Score, 2),
			Winrate:       report.Round(summary.Winrate, 3),
			MatchesPlayed: summary.MatchesPlayed,
		}
		if withStats {
			player.Stats = make(map[string]float64, len(summary.Stats))
			for _, key := range logic.StatKeys() {
				player.Stats[key] = report.Round(summary.Stat(key), 2)
			}
		}
		players = append(players, player)
	}
	writeJSON(w, http.StatusOK, players)
}

// TeamsHandler returns the teams that have statistics
func (s *Server) TeamsHandler(w http.ResponseWriter, r *http.Request) {
	summaries, err := s.api.GeneratePlayersStats(r.Context())
	if err != nil {
		log.Errorf("error getting teams: %v", err)
		writeError(w, http.StatusInternalServerError, "could not list the teams")
		return
	}
	teams := logic.TeamNames(summaries)
	if teams == nil {
		teams = []string{}
	}
	writeJSON(w, http.StatusOK, teams)
}

// RefreshWebhookHandler HTTP endpoint used to kick off recomputing the match context and the stats_players table
// once new games have been ingested
// Preconditions: HTTP server has been started, receives HTTP ResponseWriter and Http Request
// Postconditions: Responds 202 and runs the refresh in the background, or 409 when one is already running
func (s *Server) RefreshWebhookHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	defer r.Body.Close()

	if s.refreshToken != "" && r.Header.Get("X-Refresh-Token") != s.refreshToken {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	var event RefreshEvent
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
			log.Warnf("failed to decode webhook: %v", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
	}
	if event.Tournament != "" && event.Tournament != s.api.Store.GetTournament() {
		w.WriteHeader(http.StatusOK)
		return
	}

	if !s.refreshing.TryLock() {
		w.WriteHeader(http.StatusConflict)
		return
	}

	log.WithField("reason", event.Reason).Info("refresh requested")
	s.refreshes.Add(1)
	go func() {
		defer s.refreshes.Done()
		defer s.refreshing.Unlock()

		ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
		defer cancel()
		if _, err := s.api.UpdateContext(ctx); err != nil {
			log.Errorf("refresh failed updating context: %v", err)
			return
		}
		update, err := s.api.GeneratePlayerMatchStats(ctx)
		if err != nil {
			log.Errorf("refresh failed generating stats: %v", err)
			return
		}
		log.WithField("records", update.Records).Info("refresh done")
	}()

	w.WriteHeader(http.StatusAccepted)
}
