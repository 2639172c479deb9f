// Package api is the HTTP client for a track server.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go-practice/debug"
	"go-practice/track"
)

// StatusError is returned for any non-200 response other than 404
type StatusError struct {
	Path   string
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("GET %s: %d: %s", e.Path, e.Status, e.Body)
	}
	return fmt.Sprintf("GET %s: %d", e.Path, e.Status)
}

// Client loads tracks from a track server
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for baseURL. A zero timeout means none.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

func trackPath(id track.ID, part string) string {
	return "/api/tracks/" + url.PathEscape(string(id)) + "/" + part
}

// get decodes the JSON body of a GET into out
func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("GET %s: %w", path, err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("GET %s: %w", path, err)
	}
	defer resp.Body.Close()
	debug.Log("api", "GET %s %d in %s", path, resp.StatusCode, time.Since(start))

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return fmt.Errorf("GET %s: %w", path, track.ErrNotFound)
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &StatusError{Path: path, Status: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("GET %s: decode: %w", path, err)
	}
	return nil
}

// ListTracks returns the server's catalog
func (c *Client) ListTracks(ctx context.Context) ([]track.Info, error) {
	var tracks []track.Info
	if err := c.get(ctx, "/api/tracks/", &tracks); err != nil {
		return nil, err
	}
	return tracks, nil
}

func (c *Client) LoadChords(ctx context.Context, id track.ID) ([]track.RawChord, error) {
	var chords []track.RawChord
	if err := c.get(ctx, trackPath(id, "chords/"), &chords); err != nil {
		return nil, err
	}
	return chords, nil
}

func (c *Client) LoadNotes(ctx context.Context, id track.ID) ([]track.NoteEvent, error) {
	var notes []track.NoteEvent
	if err := c.get(ctx, trackPath(id, "notes/"), &notes); err != nil {
		return nil, err
	}
	return notes, nil
}

func (c *Client) LoadTrackInfo(ctx context.Context, id track.ID) (track.Info, error) {
	var info track.Info
	if err := c.get(ctx, trackPath(id, ""), &info); err != nil {
		return track.Info{}, err
	}
	return info, nil
}
