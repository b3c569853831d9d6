package printer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ErrUnavailable reports that the printer could not be reached or refused
// the message. Delivery failures after a successful persist surface as this
// error; they are never retried automatically.
var ErrUnavailable = errors.New("printer unavailable")

// Client delivers an already-sanitized message to the physical printer.
type Client interface {
	Print(ctx context.Context, message string) error
}

// HTTPClient sends messages to the printer bridge over its JSON protocol:
// a POST with a single "message" field. Any transport failure, timeout, or
// non-200 response maps to ErrUnavailable.
type HTTPClient struct {
	url  string
	http *http.Client
}

// NewHTTPClient creates a bridge client. A non-positive timeout falls back
// to 5 seconds.
func NewHTTPClient(url string, timeout time.Duration) *HTTPClient {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &HTTPClient{
		url:  url,
		http: &http.Client{Timeout: timeout},
	}
}

// Print posts the message to the bridge.
func (c *HTTPClient) Print(ctx context.Context, message string) error {
	payload, err := json.Marshal(map[string]string{"message": message})
	if err != nil {
		return fmt.Errorf("printer: encode payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("printer: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: bridge returned %d", ErrUnavailable, resp.StatusCode)
	}
	return nil
}
