// Package nhl provides a minimal client for the public NHL web API
// standings and club-schedule endpoints.
package nhl

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pable/go-pool-stats/internal/model"
)

// DefaultBaseURL is the root endpoint for the NHL web API v1.
const DefaultBaseURL = "https://api-web.nhle.com/v1"

// Client is a minimal NHL web API client.
type Client struct {
	baseURL   string
	userAgent string
	http      *http.Client
}

// NewClient returns a client against baseURL (DefaultBaseURL when empty).
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		userAgent: "poolstats/1.0",
		http:      &http.Client{Timeout: 30 * time.Second},
	}
}

// get performs a GET request against the API and JSON-decodes the body into out.
func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("GET %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 200))
		return fmt.Errorf("GET %s: HTTP %d: %s", path, resp.StatusCode, body)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("GET %s: decode: %w", path, err)
	}
	return nil
}

// Standings returns the league standings as of date (YYYY-MM-DD), or the
// current standings when date is empty.
func (c *Client) Standings(ctx context.Context, date string) ([]model.TeamRecord, error) {
	if date == "" {
		date = "now"
	}
	var resp struct {
		Standings []model.TeamRecord `json:"standings"`
	}
	if err := c.get(ctx, "/standings/"+date, &resp); err != nil {
		return nil, err
	}
	return resp.Standings, nil
}

// ClubSchedule returns every game on abbrev's schedule for season
// (e.g. "20242025"), or the current season when season is empty.
func (c *Client) ClubSchedule(ctx context.Context, abbrev, season string) ([]model.Game, error) {
	if season == "" {
		season = "now"
	}
	var resp struct {
		Games []model.Game `json:"games"`
	}
	path := fmt.Sprintf("/club-schedule-season/%s/%s", abbrev, season)
	if err := c.get(ctx, path, &resp); err != nil {
		return nil, err
	}
	return resp.Games, nil
}

// DecodeStandings parses either the upstream {"standings": [...]} document
// or a bare array of team records.
func DecodeStandings(b []byte) ([]model.TeamRecord, error) {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '[' {
		var teams []model.TeamRecord
		if err := json.Unmarshal(b, &teams); err != nil {
			return nil, fmt.Errorf("decode standings: %w", err)
		}
		return teams, nil
	}
	var wrapped struct {
		Standings []model.TeamRecord `json:"standings"`
	}
	if err := json.Unmarshal(b, &wrapped); err != nil {
		return nil, fmt.Errorf("decode standings: %w", err)
	}
	return wrapped.Standings, nil
}
