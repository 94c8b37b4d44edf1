/* api.go
 * This file contains the public methods for interacting with this package. Commands should only call the methods in
 * this file, not the sub packages for store, external and logic. Each method is one step of the pipeline:
 * roster -> matches -> context -> stats_players -> player statistics
 */

package api

import (
	"context"
	"errors"
	"fmt"
	"sort"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"golang.org/x/sync/errgroup"

	"toornament-stats/api/external"
	"toornament-stats/api/logic"
	"toornament-stats/api/shared"
	"toornament-stats/api/store"
)

// API provides methods for interacting with the tournament statistics data layer
type API struct {
	Store  store.Interface
	Riot   RiotSource
	Config logic.Config
}

// NewAPI creates a new API instance backed by the tournament database. riot may be nil for commands that only read
// the database
func NewAPI(ctx context.Context, tournament string, mongoURI string, riot RiotSource, cfg logic.Config) (*API, error) {
	if tournament == "" || mongoURI == "" {
		return nil, fmt.Errorf("tournament and mongoURI are required")
	}

	s, err := store.NewStore(ctx, tournament, mongoURI)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize store: %w", err)
	}

	return &API{Store: s, Riot: riot, Config: cfg}, nil
}

func (a *API) requireRiot() error {
	if a.Riot == nil {
		return errors.New("riot api client is not configured")
	}
	return nil
}

// Function to import the roster and resolve the puuid of every player that does not have one yet
// Preconditions: Receives context and the parsed players.csv
// Postconditions: players collection is up to date. Failed lookups are logged, returned in the summary, and do not
// fail the update
func (a *API) UpdatePlayers(ctx context.Context, roster []shared.Player) (PlayersUpdate, error) {
	var update PlayersUpdate
	if err := a.requireRiot(); err != nil {
		return update, err
	}

	matched, upserted, err := a.Store.UpsertRosterPlayers(ctx, roster)
	if err != nil {
		return update, err
	}
	update.Matched, update.Upserted = matched, upserted
	log.WithFields(log.Fields{"matched": matched, "upserted": upserted}).Info("roster imported")

	pending, err := a.Store.GetPlayersWithoutPUUID(ctx)
	if err != nil {
		return update, err
	}

	for _, player := range pending {
		puuid, err := a.Riot.GetPUUID(ctx, player.GameName, player.TagLine)
		if err != nil {
			if ctx.Err() != nil {
				return update, ctx.Err()
			}
			log.WithField("player", player.RiotID()).WithError(err).Warn("could not resolve puuid")
			update.FailedLookup = append(update.FailedLookup, player.RiotID())
			continue
		}
		if err := a.Store.SetPlayerPUUID(ctx, player.GameName, player.TagLine, puuid); err != nil {
			log.WithField("player", player.RiotID()).WithError(err).Warn("could not store puuid")
			update.FailedLookup = append(update.FailedLookup, player.RiotID())
			continue
		}
		update.Resolved++
	}
	return update, nil
}

// decodeMatch converts a raw document into the typed match through a bson round trip
func decodeMatch(doc bson.M) (external.MatchDocument, error) {
	var match external.MatchDocument
	data, err := bson.Marshal(doc)
	if err != nil {
		return match, fmt.Errorf("failed to marshal raw bson: %w", err)
	}
	if err := bson.Unmarshal(data, &match); err != nil {
		return match, fmt.Errorf("failed to decode match: %w", err)
	}
	return match, nil
}

// Function to download the tournament matches of every resolved player, then the timelines of the stored matches
// that do not have one
// Preconditions: Receives context, the tournament time window and the allowed tournament codes
// Postconditions: New completed tournament games and their timelines are stored. Every per match failure is logged
// and skipped
func (a *API) UpdateMatches(ctx context.Context, window external.Window, codes map[string]struct{}) (MatchesUpdate, error) {
	var update MatchesUpdate
	if err := a.requireRiot(); err != nil {
		return update, err
	}

	players, err := a.Store.GetPlayers(ctx)
	if err != nil {
		return update, err
	}

	seen := make(map[string]struct{})
	for _, player := range players {
		if player.PUUID == "" {
			continue
		}
		logger := log.WithField("player", player.RiotID())

		ids, err := a.Riot.GetMatchIDs(ctx, player.PUUID, window.Start, window.End)
		if err != nil {
			if ctx.Err() != nil {
				return update, ctx.Err()
			}
			logger.WithError(err).Warn("could not list matches")
			continue
		}
		logger.WithField("matches", len(ids)).Debug("listed matches")

		for _, matchID := range ids {
			if _, ok := seen[matchID]; ok {
				continue
			}
			seen[matchID] = struct{}{}
			update.Listed++

			if err := a.ingestMatch(ctx, matchID, codes, &update); err != nil {
				if ctx.Err() != nil {
					return update, ctx.Err()
				}
				log.WithField("match_id", matchID).WithError(err).Warn("match not inserted")
				update.Failed++
			}
		}
	}

	timelines, err := a.UpdateTimelines(ctx)
	update.Timelines = timelines
	return update, err
}

func (a *API) ingestMatch(ctx context.Context, matchID string, codes map[string]struct{}, update *MatchesUpdate) error {
	exists, err := a.Store.MatchExists(ctx, matchID)
	if err != nil || exists {
		return err
	}

	doc, err := a.Riot.GetMatch(ctx, matchID)
	if err != nil {
		return err
	}
	match, err := decodeMatch(doc)
	if err != nil {
		return err
	}
	if !external.ShouldKeepMatch(match.Info, codes) {
		log.WithFields(log.Fields{
			"match_id":        matchID,
			"endOfGameResult": match.Info.EndOfGameResult,
			"tournamentCode":  match.Info.TournamentCode,
		}).Debug("match filtered out")
		update.Filtered++
		return nil
	}

	if err := a.Store.InsertMatch(ctx, matchID, doc); err != nil {
		return err
	}
	log.WithField("match_id", matchID).Info("match inserted")
	update.Inserted++
	return nil
}

// UpdateTimelines downloads the timeline of every stored match that does not have one and returns how many were
// stored
func (a *API) UpdateTimelines(ctx context.Context) (int, error) {
	if err := a.requireRiot(); err != nil {
		return 0, err
	}

	ids, err := a.Store.GetMatchIDsWithoutTimeline(ctx)
	if err != nil {
		return 0, err
	}

	stored := 0
	for _, matchID := range ids {
		logger := log.WithField("match_id", matchID)
		doc, err := a.Riot.GetTimeline(ctx, matchID)
		if err != nil {
			if ctx.Err() != nil {
				return stored, ctx.Err()
			}
			logger.WithError(err).Warn("failed to retrieve timeline")
			continue
		}
		if err := a.Store.UpsertTimeline(ctx, matchID, doc); err != nil {
			logger.WithError(err).Warn("failed to store timeline")
			continue
		}
		stored++
	}
	return stored, nil
}

// loadBatch reads the roster and every match and resolves the match contexts
func (a *API) loadBatch(ctx context.Context) (*logic.Resolver, []external.MatchDocument, []store.MatchContext, []logic.ContextIssue, error) {
	players, err := a.Store.GetPlayers(ctx)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	matches, err := a.Store.GetMatches(ctx)
	if err != nil {
		return nil, nil, nil, nil, err
	}

	resolver := logic.NewResolver(players)
	contexts, issues := logic.ResolveContexts(matches, resolver)
	for _, issue := range issues {
		log.WithField("match_id", issue.MatchID).WithError(issue.Err).
			WithFields(log.Fields{"blue": issue.Blue.String(), "red": issue.Red.String()}).
			Warn("match context unresolved")
	}
	return resolver, matches, contexts, issues, nil
}

// Function to recompute and store the context (pairing, round, sides, date) of every match
// Preconditions: Receives context
// Postconditions: Every resolvable match and its timeline carry the recomputed context. Returns the matches that
// could not be resolved
func (a *API) UpdateContext(ctx context.Context) ([]logic.ContextIssue, error) {
	_, _, contexts, issues, err := a.loadBatch(ctx)
	if err != nil {
		return nil, err
	}

	for _, matchCtx := range contexts {
		if err := a.Store.SetMatchContext(ctx, matchCtx); err != nil {
			if ctx.Err() != nil {
				return issues, ctx.Err()
			}
			log.WithField("match_id", matchCtx.MatchID).WithError(err).Warn("failed to store match context")
		}
	}
	log.WithFields(log.Fields{"resolved": len(contexts), "unresolved": len(issues)}).Info("match context updated")
	return issues, nil
}

// Function to rebuild the stats_players fact table. Matches are flattened in parallel, bounded by Config.Workers
// Preconditions: Receives context
// Postconditions: One record per (match, roster player) is upserted and every other stats_players record is deleted.
// Matches without context are skipped, matches without timeline get zero snapshot fields
func (a *API) GeneratePlayerMatchStats(ctx context.Context) (StatsUpdate, error) {
	var update StatsUpdate
	resolver, matches, contexts, issues, err := a.loadBatch(ctx)
	if err != nil {
		return update, err
	}
	update.Matches = len(matches)
	update.SkippedMatches = len(issues)
	byMatch := logic.ContextsByMatch(contexts)

	type result struct {
		records         []store.PerformanceRecord
		unresolved      int
		missingTimeline bool
	}
	results := make([]result, len(matches))

	workers := a.Config.Workers
	if workers < 1 {
		workers = 1
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, match := range matches {
		matchCtx, ok := byMatch[match.MatchID]
		if !ok {
			continue
		}
		g.Go(func() error {
			logger := log.WithField("match_id", match.MatchID)

			timeline, err := a.Store.GetTimeline(gctx, match.MatchID)
			if err != nil {
				if !errors.Is(err, store.ErrTimelineNotFound) {
					if gctx.Err() != nil {
						return gctx.Err()
					}
					logger.WithError(err).Warn("failed to read timeline")
				}
				timeline = nil
			}
			if !logic.HasSnapshot(timeline, a.Config.SnapshotFrame) {
				logger.Warn("timeline missing or too short, snapshot fields set to zero")
				results[i].missingTimeline = true
			}

			records, unresolved, err := logic.FlattenMatch(match, matchCtx, timeline, resolver, a.Config.SnapshotFrame)
			if err != nil {
				logger.WithError(err).Warn("match skipped")
				return nil
			}
			for _, puuid := range unresolved {
				logger.WithField("puuid", puuid).Debug("participant not on roster")
			}
			results[i].records = records
			results[i].unresolved = len(unresolved)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return update, err
	}

	var records []store.PerformanceRecord
	keep := make(map[string][]string)
	for _, r := range results {
		records = append(records, r.records...)
		for _, record := range r.records {
			keep[record.MatchID] = append(keep[record.MatchID], record.Name)
		}
		update.UnresolvedPlayers += r.unresolved
		if r.missingTimeline {
			update.MissingTimelines++
		}
	}

	if err := a.Store.UpsertPerformanceRecords(ctx, records); err != nil {
		return update, err
	}
	update.Records = len(records)

	pruned, err := a.Store.DeletePerformanceRecordsExcept(ctx, keep)
	if err != nil {
		return update, err
	}
	update.Pruned = pruned
	log.WithFields(log.Fields{"matches": update.Matches, "records": update.Records, "pruned": update.Pruned}).
		Info("stats_players updated")
	return update, nil
}

// Function to compute the per player per role statistics and scores from the stats_players table
// Preconditions: Receives context
// Postconditions: Returns the scored summaries sorted by name then role. The team of each summary is the roster
// team when the player is on the roster
func (a *API) GeneratePlayersStats(ctx context.Context) ([]logic.RoleSummary, error) {
	records, err := a.Store.GetPerformanceRecords(ctx)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, errors.New("no data found in stats_players")
	}

	players, err := a.Store.GetPlayers(ctx)
	if err != nil {
		return nil, err
	}
	rosterTeams := make(map[string]string, len(players))
	for _, player := range players {
		if player.Name != "" && player.Team != "" {
			rosterTeams[player.Name] = player.Team
		}
	}

	summaries := logic.Aggregate(records, a.Config.RoleMap)
	for i := range summaries {
		if team, ok := rosterTeams[summaries[i].Name]; ok {
			summaries[i].Team = team
		}
	}

	if err := logic.Score(summaries, a.Config.Weights); err != nil {
		return nil, err
	}
	return summaries, nil
}

// CheckContexts returns the matches whose context cannot be resolved without writing anything
func (a *API) CheckContexts(ctx context.Context) ([]logic.ContextIssue, error) {
	_, _, _, issues, err := a.loadBatch(ctx)
	return issues, err
}

// CheckIdentities lists the puuids that appear in stored matches but are not on the roster, with the matches they
// were seen in
func (a *API) CheckIdentities(ctx context.Context) ([]UnlinkedIdentity, error) {
	players, err := a.Store.GetPlayers(ctx)
	if err != nil {
		return nil, err
	}
	refs, err := a.Store.GetMatchParticipants(ctx)
	if err != nil {
		return nil, err
	}

	resolver := logic.NewResolver(players)
	puuids := make([]string, 0, len(refs))
	seenIn := make(map[string][]string)
	for _, ref := range refs {
		puuids = append(puuids, ref.PUUID)
		seenIn[ref.PUUID] = append(seenIn[ref.PUUID], ref.MatchID)
	}

	var unlinked []UnlinkedIdentity
	for _, puuid := range resolver.Unlinked(puuids) {
		matchIDs := seenIn[puuid]
		sort.Strings(matchIDs)
		unlinked = append(unlinked, UnlinkedIdentity{PUUID: puuid, MatchIDs: matchIDs})
	}
	return unlinked, nil
}

// Close releases the database connection
func (a *API) Close(ctx context.Context) error {
	return a.Store.Close(ctx)
}
