package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/deskpulse/deskpulse/internal/activity"
)

const collectorTimeout = 30 * time.Second

// endpoint paths on the collector, one per raw record stream.
const (
	pathWindowActivity  = "/api/window-activity"
	pathBrowserActivity = "/api/browser-activity"
	pathWebsiteVisits   = "/api/website-visits"
	pathInputSamples    = "/api/input-samples"
	pathResourceSamples = "/api/resource-samples"
)

// Client pulls raw activity JSON from the collector backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: collectorTimeout},
	}
}

// Pull fetches all five record streams for [from, to]. A failing stream fails
// the whole pull; the caller keeps its last good report in that case.
func (c *Client) Pull(ctx context.Context, from, to time.Time) (activity.RawPayload, error) {
	var raw activity.RawPayload
	streams := []struct {
		path string
		dest *[]byte
	}{
		{pathWindowActivity, &raw.WindowActivity},
		{pathBrowserActivity, &raw.BrowserActivity},
		{pathWebsiteVisits, &raw.WebsiteVisits},
		{pathInputSamples, &raw.InputSamples},
		{pathResourceSamples, &raw.ResourceSamples},
	}
	for _, s := range streams {
		data, err := c.get(ctx, s.path, from, to)
		if err != nil {
			return activity.RawPayload{}, fmt.Errorf("pull %s: %w", s.path, err)
		}
		*s.dest = data
	}
	return raw, nil
}

func (c *Client) get(ctx context.Context, path string, from, to time.Time) ([]byte, error) {
	q := url.Values{}
	q.Set("from", from.UTC().Format(time.RFC3339))
	q.Set("to", to.UTC().Format(time.RFC3339))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("collector returned %s", resp.Status)
	}
	return io.ReadAll(resp.Body)
}
