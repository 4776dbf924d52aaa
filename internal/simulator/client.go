package simulator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/okian/plains/internal/domain/league"
	"github.com/okian/plains/internal/domain/types"
)

// Client speaks the league HTTP API.
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient creates a client for baseURL with the given request timeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

// Health checks GET /healthz.
func (c *Client) Health(ctx context.Context) error {
	resp, err := c.do(ctx, http.MethodGet, "/healthz", nil)
	if err != nil {
		return err
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d", ErrUnhealthy, resp.StatusCode)
	}
	return nil
}

// Stats fetches GET /stats.
func (c *Client) Stats(ctx context.Context) (types.Stats, error) {
	var stats types.Stats
	resp, err := c.do(ctx, http.MethodGet, "/stats", nil)
	if err != nil {
		return stats, err
	}
	body, err := readResponseBody(resp)
	if err != nil {
		return stats, err
	}
	if err := json.Unmarshal(body, &stats); err != nil {
		return stats, fmt.Errorf("decode stats: %w", err)
	}
	return stats, nil
}

// Apply sends c to the server and decodes the league outcome.
func (c *Client) Apply(ctx context.Context, cmd Command) (league.Output, error) {
	method, path, body := route(cmd)
	resp, err := c.do(ctx, method, path, body)
	if err != nil {
		return league.Output{}, err
	}
	data, err := readResponseBody(resp)
	if err != nil {
		return league.Output{}, err
	}
	var res types.Result
	if err := json.Unmarshal(data, &res); err != nil {
		return league.Output{}, fmt.Errorf("%s: decode response (status %d): %w", cmd, resp.StatusCode, err)
	}
	st, err := league.ParseStatus(res.Status)
	if err != nil {
		return league.Output{}, fmt.Errorf("%s: %w", cmd, err)
	}
	out := league.Output{Status: st}
	if res.Value != nil {
		out.Value = *res.Value
	}
	return out, nil
}

// route maps a command to its HTTP request.
func route(c Command) (method, path string, body any) {
	switch c.Op {
	case OpAddTeam:
		return http.MethodPost, "/teams", map[string]int{"team_id": c.Args[0]}
	case OpAddJockey:
		return http.MethodPost, "/jockeys", map[string]int{"jockey_id": c.Args[0], "team_id": c.Args[1]}
	case OpUpdateMatch:
		return http.MethodPost, "/matches", map[string]int{"winner_id": c.Args[0], "loser_id": c.Args[1]}
	case OpMergeTeams:
		return http.MethodPost, "/merges", map[string]int{"team_id_1": c.Args[0], "team_id_2": c.Args[1]}
	case OpUniteByRecord:
		return http.MethodPost, "/unite", map[string]int{"record": c.Args[0]}
	case OpGetJockeyRecord:
		return http.MethodGet, "/jockeys/" + strconv.Itoa(c.Args[0]), nil
	default:
		return http.MethodGet, "/teams/" + strconv.Itoa(c.Args[0]), nil
	}
}

func (c *Client) do(ctx context.Context, method, path string, body any) (*http.Response, error) {
	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		r = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, r)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	return resp, nil
}

// readResponseBody reads and closes the response body.
func readResponseBody(resp *http.Response) ([]byte, error) {
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}
	return data, nil
}
