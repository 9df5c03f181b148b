package utils

import (
	"time"

	"github.com/go-resty/resty/v2"
)

// HTTPClient is a wrapper around the resty.Client HTTP client.
// It embeds *resty.Client to expose all of its methods directly.
type HTTPClient struct {
	*resty.Client
}

// NewHTTPClient creates a resty-backed client rooted at baseURL. Requests
// that fail at the transport level are retried retries times with a short
// backoff; HTTP error statuses are never retried.
//
// Example usage:
//
//	client := utils.NewHTTPClient("http://localhost:8765", 10*time.Second, 2)
//	resp, err := client.R().Get("/api/ping")
func NewHTTPClient(baseURL string, timeout time.Duration, retries int) *HTTPClient {
	c := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Accept", "application/json")

	if timeout > 0 {
		c.SetTimeout(timeout)
	}
	if retries > 0 {
		c.SetRetryCount(retries).
			SetRetryWaitTime(100 * time.Millisecond).
			SetRetryMaxWaitTime(time.Second)
	}

	return &HTTPClient{Client: c}
}
