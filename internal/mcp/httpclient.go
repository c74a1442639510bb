package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/meltforce/liftlog/internal/models"
	"github.com/meltforce/liftlog/internal/stats"
	"github.com/meltforce/liftlog/internal/storage"
)

const (
	defaultMaxRetries = 3
	requestTimeout    = 30 * time.Second
)

// HTTPClient implements DataSource by calling the LiftLog REST API. It lets
// the MCP binary run locally over stdio while the data lives on a remote
// server, typically reached over Tailscale.
type HTTPClient struct {
	baseURL    string
	httpClient *retryablehttp.Client
}

// NewHTTPClient creates an HTTPClient targeting baseURL. Connection errors,
// 429s and 5xx responses are retried with backoff.
func NewHTTPClient(baseURL string, log *slog.Logger) *HTTPClient {
	client := retryablehttp.NewClient()
	client.RetryMax = defaultMaxRetries
	client.RetryWaitMin = 200 * time.Millisecond
	client.RetryWaitMax = 5 * time.Second
	client.HTTPClient.Timeout = requestTimeout
	client.Logger = log
	client.CheckRetry = func(ctx context.Context, resp *http.Response, err error) (bool, error) {
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
		if err != nil {
			return true, nil
		}
		return resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500, nil
	}

	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: client,
	}
}

// get fetches path and decodes the "data" member of the response envelope into dst.
func (c *HTTPClient) get(ctx context.Context, path string, params url.Values, dst any) error {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("httpclient: create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("httpclient: %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("httpclient: read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var e struct {
			Error string `json:"error"`
		}
		_ = json.Unmarshal(body, &e)
		if sentinel := apiSentinel(resp.StatusCode, e.Error); sentinel != nil {
			return fmt.Errorf("httpclient: %s returned %d: %w", path, resp.StatusCode, sentinel)
		}
		if e.Error != "" {
			return fmt.Errorf("httpclient: %s returned %d: %s", path, resp.StatusCode, e.Error)
		}
		return fmt.Errorf("httpclient: %s returned %d", path, resp.StatusCode)
	}

	envelope := struct {
		Data any `json:"data"`
	}{Data: dst}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return fmt.Errorf("httpclient: decode %s: %w", path, err)
	}
	return nil
}

// apiSentinel maps the API's client errors back onto the stats errors the
// engine would have returned in-process.
func apiSentinel(status int, msg string) error {
	switch {
	case status == http.StatusNotFound && strings.EqualFold(msg, "Profile not found"):
		return stats.ErrProfileNotFound
	case status == http.StatusBadRequest && msg == stats.ErrExerciseRequired.Error():
		return stats.ErrExerciseRequired
	case status == http.StatusBadRequest && strings.EqualFold(msg, "Unsupported granularity"):
		return stats.ErrUnsupportedGranularity
	}
	return nil
}

func weeksParam(weeks int) url.Values {
	v := url.Values{}
	v.Set("weeks", strconv.Itoa(weeks))
	return v
}

func statsPath(profileID int, route string) string {
	return "/api/stats/profiles/" + strconv.Itoa(profileID) + "/" + route
}

func (c *HTTPClient) ListProfiles(ctx context.Context) ([]models.Profile, error) {
	var profiles []models.Profile
	if err := c.get(ctx, "/api/profiles", nil, &profiles); err != nil {
		return nil, err
	}
	return profiles, nil
}

func (c *HTTPClient) Summary(ctx context.Context, profileID int) (*stats.Summary, error) {
	var s stats.Summary
	if err := c.get(ctx, "/api/profiles/"+strconv.Itoa(profileID)+"/summary", nil, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *HTTPClient) Overview(ctx context.Context, profileID, weeks int) (*stats.Overview, error) {
	params := url.Values{}
	params.Set("window", "weeks:"+strconv.Itoa(weeks))

	var o stats.Overview
	if err := c.get(ctx, statsPath(profileID, "overview"), params, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

func (c *HTTPClient) VolumeTrend(ctx context.Context, profileID, weeks int, granularity string) ([]storage.WeeklyTonnage, error) {
	params := weeksParam(weeks)
	if granularity != "" {
		params.Set("granularity", granularity)
	}

	var trend []storage.WeeklyTonnage
	if err := c.get(ctx, statsPath(profileID, "volume"), params, &trend); err != nil {
		return nil, err
	}
	return trend, nil
}

func (c *HTTPClient) E1RMProgression(ctx context.Context, profileID int, ref storage.ExerciseRef, weeks int) ([]storage.E1RMPoint, error) {
	params := weeksParam(weeks)
	if ref.ID > 0 {
		params.Set("exercise_id", strconv.Itoa(ref.ID))
	} else {
		params.Set("exercise_name", ref.Name)
	}

	var points []storage.E1RMPoint
	if err := c.get(ctx, statsPath(profileID, "e1rm"), params, &points); err != nil {
		return nil, err
	}
	return points, nil
}

func (c *HTTPClient) TopProgression(ctx context.Context, profileID, weeks int) ([]stats.ProgressionRow, error) {
	var rows []stats.ProgressionRow
	if err := c.get(ctx, statsPath(profileID, "e1rm/top"), weeksParam(weeks), &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (c *HTTPClient) SetsPerMuscle(ctx context.Context, profileID, weeks int) ([]storage.MuscleGroupSets, error) {
	var groups []storage.MuscleGroupSets
	if err := c.get(ctx, statsPath(profileID, "sets-per-muscle"), weeksParam(weeks), &groups); err != nil {
		return nil, err
	}
	return groups, nil
}

func (c *HTTPClient) Intensity(ctx context.Context, profileID, weeks int) ([]stats.BucketCount, error) {
	var buckets []stats.BucketCount
	if err := c.get(ctx, statsPath(profileID, "intensity"), weeksParam(weeks), &buckets); err != nil {
		return nil, err
	}
	return buckets, nil
}
