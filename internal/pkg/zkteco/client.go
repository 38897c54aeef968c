package zkteco

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"
)

// ErrNotConfigured is returned when no API key was provided.
var ErrNotConfigured = errors.New("sync feature requires ZK API key")

// Punch is a single fingerprint/card transaction recorded by a cloud-managed controller.
type Punch struct {
	DeviceSN     string    `json:"terminal_sn"`
	EmployeeCode string    `json:"emp_code"`
	PunchTime    time.Time `json:"punch_time"`
}

type Client interface {
	// Configured reports whether an API key is present.
	Configured() bool
	// FetchPunches returns the punches recorded after since.
	FetchPunches(ctx context.Context, since time.Time) ([]Punch, error)
}

type ClientImpl struct {
	baseURL    string
	configured bool
	httpClient *http.Client
}

// NewClient builds a bearer-authenticated client for the ZKTeco cloud API.
func NewClient(apiKey string, baseURL string) Client {
	c := &ClientImpl{
		baseURL:    strings.TrimRight(baseURL, "/"),
		configured: apiKey != "",
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
	if c.configured {
		src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: apiKey, TokenType: "Bearer"})
		ctx := context.WithValue(context.Background(), oauth2.HTTPClient, c.httpClient)
		c.httpClient = oauth2.NewClient(ctx, src)
		c.httpClient.Timeout = 15 * time.Second
	}
	return c
}

// APIError represents a non-2xx answer from the cloud API
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("zkteco API error [%d]: %s", e.StatusCode, e.Message)
}

func (c *ClientImpl) Configured() bool {
	return c.configured
}

type transactionsResponse struct {
	Data []Punch `json:"data"`
}

func (c *ClientImpl) FetchPunches(ctx context.Context, since time.Time) ([]Punch, error) {
	if !c.configured {
		return nil, ErrNotConfigured
	}

	q := url.Values{}
	q.Set("start_time", since.UTC().Format(time.RFC3339))
	endpoint := c.baseURL + "/iclock/api/transactions/?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch punches: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, &APIError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(body))}
	}

	var out transactionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode punches: %w", err)
	}
	return out.Data, nil
}
