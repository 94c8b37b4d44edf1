/* riot.go
 * Contains the Riot api client used to resolve roster accounts and download match and timeline documents. Requests
 * are paced by a token bucket so a full roster refresh stays under the development key limits
 */

package external

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	json "github.com/goccy/go-json"
	"go.mongodb.org/mongo-driver/bson"
	"golang.org/x/time/rate"
)

// Endpoints holds the base urls of the Riot apis. They are read from the .env file so regional routing can change
// without a rebuild
type Endpoints struct {
	PUUID         string // e.g. https://europe.api.riotgames.com/riot/account/v1/accounts/by-riot-id/
	MatchList     string // e.g. https://europe.api.riotgames.com/lol/match/v5/matches/by-puuid/
	MatchData     string // e.g. https://europe.api.riotgames.com/lol/match/v5/matches/
	MatchTimeline string // usually the same as MatchData
}

// DefaultRequestInterval keeps a single key below 100 requests per 2 minutes
const DefaultRequestInterval = 1200 * time.Millisecond

// matchListPageSize is the upper bound accepted by the match list endpoint
const matchListPageSize = 100

type RiotClient struct {
	apiKey     string
	endpoints  Endpoints
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewRiotClient creates a rate limited client. A nil limiter falls back to one request every DefaultRequestInterval
func NewRiotClient(apiKey string, endpoints Endpoints, limiter *rate.Limiter) (*RiotClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("riot api key is required but none was provided")
	}
	if limiter == nil {
		limiter = rate.NewLimiter(rate.Every(DefaultRequestInterval), 1)
	}
	return &RiotClient{
		apiKey:     apiKey,
		endpoints:  endpoints,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		limiter:    limiter,
	}, nil
}

// GetPUUID resolves a Riot ID to the account puuid
// Preconditions: Receives context, gameName and tagLine of a roster entry
// Postconditions: Returns the puuid, or an error if the account could not be found
func (c *RiotClient) GetPUUID(ctx context.Context, gameName string, tagLine string) (string, error) {
	endpoint := c.endpoints.PUUID + url.PathEscape(gameName) + "/" + url.PathEscape(tagLine)

	body, err := c.get(ctx, endpoint)
	if err != nil {
		return "", err
	}

	var account AccountResponse
	if err := json.Unmarshal(body, &account); err != nil {
		return "", fmt.Errorf("error decoding account response: %w", err)
	}
	if account.PUUID == "" {
		return "", fmt.Errorf("account response for %s#%s has no puuid", gameName, tagLine)
	}
	return account.PUUID, nil
}

// GetMatchIDs lists the tournament match ids of a player between two epoch second timestamps
func (c *RiotClient) GetMatchIDs(ctx context.Context, puuid string, start int64, end int64) ([]string, error) {
	parsedUrl, err := url.Parse(c.endpoints.MatchList + url.PathEscape(puuid) + "/ids")
	if err != nil {
		return nil, fmt.Errorf("invalid match list url: %w", err)
	}

	params := parsedUrl.Query()
	params.Set("type", "tourney")
	params.Set("start", "0")
	params.Set("count", fmt.Sprintf("%d", matchListPageSize))
	if start > 0 {
		params.Set("startTime", fmt.Sprintf("%d", start))
	}
	if end > 0 {
		params.Set("endTime", fmt.Sprintf("%d", end))
	}
	parsedUrl.RawQuery = params.Encode()

	body, err := c.get(ctx, parsedUrl.String())
	if err != nil {
		return nil, err
	}

	var ids []string
	if err := json.Unmarshal(body, &ids); err != nil {
		return nil, fmt.Errorf("error decoding match list: %w", err)
	}
	return ids, nil
}

// GetMatch downloads a match document. The document is returned as bson so that it can be stored untouched
func (c *RiotClient) GetMatch(ctx context.Context, matchID string) (bson.M, error) {
	return c.getDocument(ctx, c.endpoints.MatchData+url.PathEscape(matchID))
}

// GetTimeline downloads the timeline document of a match
func (c *RiotClient) GetTimeline(ctx context.Context, matchID string) (bson.M, error) {
	base := c.endpoints.MatchTimeline
	if base == "" {
		base = c.endpoints.MatchData
	}
	return c.getDocument(ctx, base+url.PathEscape(matchID)+"/timeline")
}

func (c *RiotClient) getDocument(ctx context.Context, endpoint string) (bson.M, error) {
	body, err := c.get(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	var doc bson.M
	if err := bson.UnmarshalExtJSON(body, false, &doc); err != nil {
		return nil, fmt.Errorf("error decoding document: %w", err)
	}
	return doc, nil
}

// get waits for the limiter then performs an authenticated GET. Any status other than 200 is an error, retries are
// left to the caller
func (c *RiotClient) get(ctx context.Context, endpoint string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	request.Header.Set("X-Riot-Token", c.apiKey)

	response, err := c.httpClient.Do(request)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return nil, &StatusError{URL: endpoint, StatusCode: response.StatusCode}
	}

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return body, nil
}

// StatusError is returned when the api answers with a non 200 status
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: HTTP %d", e.URL, e.StatusCode)
}
