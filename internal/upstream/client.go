package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"

	"peoplefinder/config"
	"peoplefinder/internal/logger"
)

// Client talks to the remote people-search service. Credentials are never
// stored on the client: every call that needs one takes the bearer token
// explicitly, read from the caller's resolved session.
type Client struct {
	baseURL string
	http    *http.Client
	log     logger.Logger
}

func New(config config.Config) *Client {
	return &Client{
		baseURL: strings.TrimRight(config.UpstreamURL, "/"),
		http:    &http.Client{Timeout: config.UpstreamTimeout},
		log:     logger.New("upstream"),
	}
}

// do issues one request with a single automatic retry on transport failure
// or 5xx. 4xx responses are never retried; they become a ServerError
// carrying the server's message when the body has one.
func (c *Client) do(ctx context.Context, method, path, bearer string, body any, query url.Values) ([]byte, error) {
	log := c.log.Function("do")

	fullURL := c.baseURL + path
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return nil, log.Err("failed to marshal request body", err, "path", path)
		}
	}

	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		var reader io.Reader
		if payload != nil {
			reader = bytes.NewReader(payload)
		}

		req, err := http.NewRequestWithContext(ctx, method, fullURL, reader)
		if err != nil {
			return nil, log.Err("failed to build request", err, "path", path)
		}
		req.Header.Set("Content-Type", "application/json")
		if bearer != "" {
			req.Header.Set("Authorization", "Bearer "+bearer)
		}

		resp, err := c.http.Do(req)
		if err != nil {
			lastErr = &NetworkError{URL: fullURL, Err: err}
			log.Warn("request failed", "path", path, "attempt", attempt, "error", err)
			continue
		}

		raw, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = &NetworkError{URL: fullURL, Err: err}
			log.Warn("failed to read response body", "path", path, "attempt", attempt, "error", err)
			continue
		}

		if resp.StatusCode >= 500 {
			lastErr = &ServerError{StatusCode: resp.StatusCode, Message: serverMessage(raw)}
			log.Warn("server error", "path", path, "attempt", attempt, "status", resp.StatusCode)
			continue
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return nil, &ServerError{StatusCode: resp.StatusCode, Message: serverMessage(raw)}
		}

		return raw, nil
	}

	return nil, lastErr
}

// serverMessage pulls the human-readable message out of an error body.
func serverMessage(raw []byte) string {
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return ""
	}
	if body.Message != "" {
		return body.Message
	}
	return body.Error
}
