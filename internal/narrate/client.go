// Package narrate talks to the external speech-synthesis service and writes
// one narration clip per slide page, numbered to match the slide images.
package narrate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Client calls the two-step synthesis API: a query-construction endpoint
// that turns raw text into a synthesis descriptor, and a synthesis endpoint
// that turns the descriptor into audio bytes.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient returns a Client for the service at baseURL (no trailing slash
// required). Requests time out after 60 seconds; synthesis of a long page
// can take a while.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 60 * time.Second},
	}
}

// AudioQuery builds the synthesis descriptor for text with the given voice.
// The descriptor is opaque to slidecast and passed verbatim to Synthesize.
func (c *Client) AudioQuery(ctx context.Context, text string, speaker int) (json.RawMessage, error) {
	q := url.Values{}
	q.Set("text", text)
	q.Set("speaker", strconv.Itoa(speaker))

	body, err := c.post(ctx, "/audio_query?"+q.Encode(), "", nil)
	if err != nil {
		return nil, fmt.Errorf("audio query: %w", err)
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("audio query: service returned invalid JSON descriptor")
	}
	return json.RawMessage(body), nil
}

// Synthesize renders the descriptor into raw audio bytes (WAV).
func (c *Client) Synthesize(ctx context.Context, query json.RawMessage, speaker int) ([]byte, error) {
	q := url.Values{}
	q.Set("speaker", strconv.Itoa(speaker))

	body, err := c.post(ctx, "/synthesis?"+q.Encode(), "application/json", bytes.NewReader(query))
	if err != nil {
		return nil, fmt.Errorf("synthesis: %w", err)
	}
	if len(body) == 0 {
		return nil, fmt.Errorf("synthesis: service returned no audio data")
	}
	return body, nil
}

func (c *Client) post(ctx context.Context, path, contentType string, body io.Reader) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("service returned %s: %s", resp.Status, stderrSnippet(data))
	}
	return data, nil
}

// stderrSnippet keeps error bodies short enough for a log line.
func stderrSnippet(body []byte) string {
	const max = 200
	s := string(body)
	if len(s) > max {
		s = s[:max] + "..."
	}
	return s
}
