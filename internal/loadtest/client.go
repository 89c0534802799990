package loadtest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/okian/tastesearch/internal/domain/model"
)

// epochHeader mirrors the header the server stamps on search and add replies.
const epochHeader = "X-Catalog-Epoch"

// ErrUnexpectedStatus is returned when the server answers with a status the
// caller did not ask for.
var ErrUnexpectedStatus = errors.New("unexpected status")

// Client talks to the search and artist endpoints.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient returns a client with the given per-request timeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{baseURL: baseURL, http: &http.Client{Timeout: timeout}}
}

// SearchReply is a decoded 200 response of GET /search.
type SearchReply struct {
	Results []model.SearchResult
	Epoch   uint64
}

// ArtistReply is a decoded response of POST /artist.
type ArtistReply struct {
	Status  int
	Code    string
	Message string
	Epoch   uint64
}

// Health checks GET /healthz.
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/healthz", nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: health check returned %d", ErrUnexpectedStatus, resp.StatusCode)
	}
	return nil
}

// Search issues GET /search. rule and ascending are sent only when non-empty.
func (c *Client) Search(ctx context.Context, text, rule, ascending string) (*SearchReply, error) {
	params := url.Values{"query": {text}}
	if rule != "" {
		params.Set("sortRule", rule)
	}
	if ascending != "" {
		params.Set("ascending", ascending)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: search %q returned %d: %s", ErrUnexpectedStatus, text, resp.StatusCode, bytes.TrimSpace(body))
	}

	var body struct {
		Message []model.SearchResult `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}
	return &SearchReply{Results: body.Message, Epoch: parseEpoch(resp.Header)}, nil
}

// AddArtist issues POST /artist and decodes the reply whatever its status.
func (c *Client) AddArtist(ctx context.Context, genre, artist string) (*ArtistReply, error) {
	payload, err := json.Marshal(map[string]string{"genre": genre, "artist": artist})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/artist", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	// Success bodies carry a string message; error bodies add a code.
	var body struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode artist response: %w", err)
	}
	return &ArtistReply{
		Status:  resp.StatusCode,
		Code:    body.Code,
		Message: body.Message,
		Epoch:   parseEpoch(resp.Header),
	}, nil
}

func parseEpoch(h http.Header) uint64 {
	epoch, _ := strconv.ParseUint(h.Get(epochHeader), 10, 64)
	return epoch
}
