package greynoise

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/netip"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// New creates a GreyNoise API client. The base URL must have been
// validated beforehand, see the configuration package.
func New(httpClient *http.Client, baseURL, apiKey string,
	timeNow func() time.Time) *Client {
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		apiKey:     apiKey,
		timeNow:    timeNow,
	}
}

type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	timeNow    func() time.Time
}

// Result is one successful fetch for one IP address.
type Result struct {
	Response Response
	// Raw is the verbatim decoded payload.
	Raw map[string]any
	// Endpoint is the exact URL the record was requested from.
	Endpoint string
	BaseURL  string
	// FetchedAt is captured as soon as a successful response
	// is received, before any decoding.
	FetchedAt time.Time
}

func (c *Client) setHeaders(request *http.Request) {
	request.Header.Set("User-Agent", "greynoise-ingest")
	request.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		request.Header.Set("key", c.apiKey)
	}
}

// FetchIP requests the intelligence record for the given IP address.
// Non-success statuses are returned as *StatusError and transport
// failures as *NetworkError; see errors.go for the taxonomy.
func (c *Client) FetchIP(ctx context.Context, ip netip.Addr) (result Result, err error) {
	endpoint := c.baseURL + "/v3/ip/" + url.PathEscape(ip.String())

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return result, fmt.Errorf("creating http request: %w", err)
	}
	c.setHeaders(request)

	response, err := c.httpClient.Do(request)
	if err != nil {
		if ctx.Err() != nil {
			return result, ctx.Err()
		}
		return result, &NetworkError{Cause: err}
	}
	fetchedAt := c.timeNow().UTC()

	body, err := io.ReadAll(response.Body)
	if err != nil {
		_ = response.Body.Close()
		return result, &NetworkError{Cause: err}
	}
	err = response.Body.Close()
	if err != nil {
		return result, fmt.Errorf("closing response body: %w", err)
	}

	if response.StatusCode != http.StatusOK {
		return result, &StatusError{
			Code:       response.StatusCode,
			Body:       bodyToSingleLine(body),
			RetryAfter: parseRetryAfter(response.Header.Get("Retry-After")),
		}
	}

	result = Result{
		Endpoint:  endpoint,
		BaseURL:   c.baseURL,
		FetchedAt: fetchedAt,
	}
	err = json.Unmarshal(body, &result.Response)
	if err != nil {
		return result, fmt.Errorf("json decoding response body: %w", err)
	}
	err = json.Unmarshal(body, &result.Raw)
	if err != nil {
		return result, fmt.Errorf("json decoding raw payload: %w", err)
	}

	return result, nil
}

func parseRetryAfter(headerValue string) (delay time.Duration) {
	if headerValue == "" {
		return 0
	}
	seconds, err := strconv.Atoi(headerValue)
	if err != nil || seconds < 0 {
		return 0
	}
	return time.Duration(seconds) * time.Second
}

func bodyToSingleLine(body []byte) (s string) {
	const maxLength = 280
	s = string(body)
	if len(s) > maxLength {
		s = s[:maxLength] + "..."
	}
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, "\n", " ")
	return s
}
