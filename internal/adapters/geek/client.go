// Package geek is the client for the remote catalog's XML API: collections,
// plays, game details, guild membership, and forum threads.
package geek

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/nwept/bggstats/internal/domain/dates"
	"github.com/nwept/bggstats/internal/domain/model"
	"github.com/nwept/bggstats/pkg/logger"
	"github.com/nwept/bggstats/pkg/metrics"
)

// Defaults for the catalog API. The API answers 202 while a collection
// export is being prepared server-side; callers poll with a fixed delay.
const (
	defaultBaseURL         = "https://boardgamegeek.com/xmlapi2"
	defaultQueueRetries    = 10
	defaultQueueRetryDelay = 5 * time.Second
	defaultThingChunkSize  = 20
	defaultRequestTimeout  = 30 * time.Second

	playsPageSize   = 100
	membersPageSize = 25
)

// Client talks to the catalog XML API.
type Client struct {
	baseURL         string
	httpClient      *http.Client
	queueRetries    int
	queueRetryDelay time.Duration
	thingChunkSize  int
	log             logger.Logger
}

// NewClient creates a catalog client with default configuration.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL:         defaultBaseURL,
		httpClient:      &http.Client{Timeout: defaultRequestTimeout},
		queueRetries:    defaultQueueRetries,
		queueRetryDelay: defaultQueueRetryDelay,
		thingChunkSize:  defaultThingChunkSize,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.log == nil {
		c.log = logger.Named("geek")
	}
	return c
}

// Collection fetches a user's full collection with ratings.
func (c *Client) Collection(ctx context.Context, username string) ([]model.CollectionItem, error) {
	params := url.Values{}
	params.Set("username", username)
	params.Set("stats", "1")

	var doc collectionDoc
	if err := c.get(ctx, "collection", params, &doc); err != nil {
		return nil, err
	}
	return doc.items(username), nil
}

// Plays fetches a user's plays dated minDate or later, walking all pages.
// A zero minDate fetches the complete history.
func (c *Client) Plays(ctx context.Context, username string, minDate time.Time) ([]model.Play, error) {
	var all []model.Play
	for page := 1; ; page++ {
		params := url.Values{}
		params.Set("username", username)
		params.Set("page", strconv.Itoa(page))
		if !minDate.IsZero() {
			params.Set("mindate", minDate.Format(dates.DayLayout))
		}

		var doc playsDoc
		if err := c.get(ctx, "plays", params, &doc); err != nil {
			return nil, err
		}
		plays, err := doc.plays(username)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
		}
		if len(plays) == 0 {
			break
		}
		all = append(all, plays...)
		if len(all) >= doc.total() || len(plays) < playsPageSize {
			break
		}
	}
	return all, nil
}

// Things fetches game details for the given ids, splitting the request into
// chunks the API accepts.
func (c *Client) Things(ctx context.Context, ids []int64) ([]model.Game, error) {
	var all []model.Game
	for start := 0; start < len(ids); start += c.thingChunkSize {
		end := start + c.thingChunkSize
		if end > len(ids) {
			end = len(ids)
		}
		chunk := ids[start:end]

		idList := ""
		for i, id := range chunk {
			if i > 0 {
				idList += ","
			}
			idList += strconv.FormatInt(id, 10)
		}
		params := url.Values{}
		params.Set("id", idList)
		params.Set("stats", "1")

		var doc thingsDoc
		if err := c.get(ctx, "thing", params, &doc); err != nil {
			return nil, err
		}
		all = append(all, doc.games()...)
	}
	return all, nil
}

// GuildMembers fetches the member names of a guild, walking all pages.
func (c *Client) GuildMembers(ctx context.Context, guildID int64) ([]string, error) {
	var names []string
	for page := 1; ; page++ {
		params := url.Values{}
		params.Set("id", strconv.FormatInt(guildID, 10))
		params.Set("members", "1")
		params.Set("page", strconv.Itoa(page))

		var doc guildDoc
		if err := c.get(ctx, "guild", params, &doc); err != nil {
			return nil, err
		}
		if len(doc.Members.Members) == 0 {
			break
		}
		for _, m := range doc.Members.Members {
			names = append(names, m.Name)
		}
		total, _ := strconv.Atoi(doc.Members.Count)
		if len(names) >= total || len(doc.Members.Members) < membersPageSize {
			break
		}
	}
	return names, nil
}

// GetThread fetches a forum thread and its articles.
func (c *Client) GetThread(ctx context.Context, threadID int64) (Thread, error) {
	params := url.Values{}
	params.Set("id", strconv.FormatInt(threadID, 10))

	var doc threadDoc
	if err := c.get(ctx, "thread", params, &doc); err != nil {
		return Thread{}, err
	}
	return doc.thread(), nil
}

// get performs one API request, polling through 202 (export queued)
// responses, and decodes the XML body into out.
func (c *Client) get(ctx context.Context, endpoint string, params url.Values, out any) error {
	requestURL := c.baseURL + "/" + endpoint + "?" + params.Encode()
	requestID := uuid.NewString()

	for attempt := 0; ; attempt++ {
		started := time.Now()
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrRequestFailed, err)
		}
		req.Header.Set("Accept", "application/xml")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			metrics.RecordAPIError()
			return fmt.Errorf("%w: %s: %w", ErrRequestFailed, endpoint, err)
		}
		metrics.ObserveFetchLatency(float64(time.Since(started).Milliseconds()))
		metrics.RecordAPIRequest(endpoint, strconv.Itoa(resp.StatusCode))

		switch resp.StatusCode {
		case http.StatusOK:
			body, err := io.ReadAll(resp.Body)
			_ = resp.Body.Close()
			if err != nil {
				return fmt.Errorf("%w: %s: %w", ErrRequestFailed, endpoint, err)
			}
			if err := xml.Unmarshal(body, out); err != nil {
				return fmt.Errorf("%w: %s: %w", ErrMalformedResponse, endpoint, err)
			}
			return nil

		case http.StatusAccepted:
			_ = resp.Body.Close()
			if attempt >= c.queueRetries {
				return fmt.Errorf("%w: %s after %d attempts", ErrStillQueued, endpoint, attempt+1)
			}
			metrics.RecordAPIRetry()
			c.log.Debug(ctx, "export queued, waiting",
				logger.String("endpoint", endpoint),
				logger.String("request_id", requestID),
				logger.Int("attempt", attempt+1),
			)
			select {
			case <-ctx.Done():
				return fmt.Errorf("%w: %s: %w", ErrRequestFailed, endpoint, ctx.Err())
			case <-time.After(c.queueRetryDelay):
			}

		default:
			_ = resp.Body.Close()
			metrics.RecordAPIError()
			return fmt.Errorf("%w: %s: status %d", ErrRequestFailed, endpoint, resp.StatusCode)
		}
	}
}
