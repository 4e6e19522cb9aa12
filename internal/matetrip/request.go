package matetrip

import (
	"bytes"
	"compress/gzip"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/codeGROOVE-dev/retry"
	"go.uber.org/zap"
)

const (
	contentType     = "application/json"
	contentEncoding = "gzip, deflate, br"

	retryAttempts = 3
	retryDelay    = 300 * time.Millisecond
	retryJitter   = 100 * time.Millisecond
)

// HTTPError represents a non-2xx response from the matetrip API.
type HTTPError struct {
	URL        string
	StatusCode int
	Status     string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("bad status: %s fetching %s", e.Status, e.URL)
}

func (c *Client) getJSON(rawURL string, q url.Values, target interface{}) error {
	data, err := c.doWithRetry(func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(c.ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return nil, err
		}

		req = c.setHeaders(req)
		req.Header.Set("Content-Type", contentType)
		if q != nil {
			req.URL.RawQuery = q.Encode()
		}

		return req, nil
	}, http.StatusOK)
	if err != nil {
		return err
	}

	if target == nil {
		return nil
	}

	if err := json.Unmarshal(data, target); err != nil {
		return err
	}

	return nil
}

func (c *Client) postJSON(rawURL string, payload interface{}, target interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	data, err := c.doWithRetry(func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(c.ctx, http.MethodPost, rawURL, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}

		req = c.setHeaders(req)
		req.Header.Set("Content-Type", contentType)

		return req, nil
	}, http.StatusOK, http.StatusCreated)
	if err != nil {
		return err
	}

	if target == nil {
		return nil
	}

	return json.Unmarshal(data, target)
}

// doWithRetry builds a fresh request per attempt and retries transient
// failures with a small backoff and jitter.
func (c *Client) doWithRetry(build func() (*http.Request, error), okStatuses ...int) ([]byte, error) {
	return retry.DoWithData(
		func() ([]byte, error) {
			req, err := build()
			if err != nil {
				return nil, err
			}

			return c.do(req, okStatuses...)
		},
		retry.Context(c.ctx),
		retry.Attempts(retryAttempts),
		retry.Delay(retryDelay),
		retry.MaxJitter(retryJitter),
		retry.RetryIf(isRetryableError),
		retry.OnRetry(func(n uint, err error) {
			c.logger.Debug("retrying request", zap.Uint("attempt", n+1), zap.Error(err))
		}),
	)
}

func (c *Client) do(req *http.Request, okStatuses ...int) ([]byte, error) {
	c.logger.Debug("make request", zap.String("url", req.URL.String()))

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var reader io.Reader = resp.Body
	if resp.Header.Get("Content-Encoding") == "gzip" {
		gzipReader, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, err
		}
		defer gzipReader.Close()
		reader = gzipReader
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, err
	}

	for _, status := range okStatuses {
		if resp.StatusCode == status {
			return data, nil
		}
	}

	return nil, &HTTPError{
		URL:        req.URL.String(),
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
	}
}

func (c *Client) setHeaders(req *http.Request) *http.Request {
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.token))
	req.Header.Set("User-Agent", c.UserAgent)
	req.Header.Set("Accept-Encoding", contentEncoding)

	return req
}

// isRetryableError returns true for transient errors worth another attempt.
// 4xx responses (except 429) are permanent and returned as-is.
func isRetryableError(err error) bool {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		switch httpErr.StatusCode {
		case http.StatusTooManyRequests,
			http.StatusInternalServerError,
			http.StatusBadGateway,
			http.StatusServiceUnavailable,
			http.StatusGatewayTimeout:
			return true
		default:
			return false
		}
	}

	return true
}
