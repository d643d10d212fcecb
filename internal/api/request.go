package api

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
)

const apiKeyParam = "apiKey"

// ErrMissingAPIKey is returned before any request is made when the client has
// no API key.
var ErrMissingAPIKey = errors.New("polygon api key is not configured")

// UpstreamError is a non-success HTTP response from the Polygon API.
type UpstreamError struct {
	StatusCode int
	Status     string
	URL        string // request URL with the API key redacted
	Body       []byte
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("polygon api error %d: %s", e.StatusCode, e.Status)
}

// doRequest performs a GET against rawURL with the API key added to the query.
func (c *Client) doRequest(ctx context.Context, rawURL string) ([]byte, error) {
	u, err := c.withAPIKey(rawURL)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", redactError(err))
	}
	defer resp.Body.Close()

	c.logger.Debug("polygon request",
		"url", redactURL(u),
		"status", resp.StatusCode,
		"duration", time.Since(start),
	)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &UpstreamError{
			StatusCode: resp.StatusCode,
			Status:     http.StatusText(resp.StatusCode),
			URL:        redactURL(u),
			Body:       body,
		}
	}

	return body, nil
}

// get performs a GET request and decodes the JSON body into result.
func (c *Client) get(ctx context.Context, rawURL string, result any) error {
	body, err := c.doRequest(ctx, rawURL)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(body, result); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}

	return nil
}

// withAPIKey returns rawURL with the apiKey query parameter appended. Other
// query pairs, including the opaque next_url cursor, are kept byte-for-byte.
func (c *Client) withAPIKey(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parse url: %w", err)
	}
	var pairs []string
	for _, pair := range strings.Split(u.RawQuery, "&") {
		if pair == "" || queryKey(pair) == apiKeyParam {
			continue
		}
		pairs = append(pairs, pair)
	}
	pairs = append(pairs, apiKeyParam+"="+url.QueryEscape(c.apiKey))
	u.RawQuery = strings.Join(pairs, "&")
	return u.String(), nil
}

// redactURL hides the API key in a URL so it can be logged.
func redactURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "<unparseable url>"
	}
	pairs := strings.Split(u.RawQuery, "&")
	for i, pair := range pairs {
		if queryKey(pair) == apiKeyParam {
			pairs[i] = apiKeyParam + "=REDACTED"
		}
	}
	u.RawQuery = strings.Join(pairs, "&")
	return u.String()
}

func queryKey(pair string) string {
	key, _, _ := strings.Cut(pair, "=")
	return key
}

// redactError strips the request URL from transport errors, which embed it verbatim.
func redactError(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return &url.Error{Op: urlErr.Op, URL: redactURL(urlErr.URL), Err: urlErr.Err}
	}
	return err
}
