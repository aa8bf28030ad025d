package datapush

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	DefaultRetryTimes = 5
	RetryInterval     = 2 * time.Second
	requestTimeout    = 10 * time.Second
)

// Pusher posts run summaries to an ops webhook as JSON.
type Pusher struct {
	URL        string
	RetryTimes int
	client     *http.Client
}

func NewPusher(url string, retryTimes int) *Pusher {
	if retryTimes <= 0 {
		retryTimes = DefaultRetryTimes
	}
	return &Pusher{
		URL:        url,
		RetryTimes: retryTimes,
		client:     &http.Client{Timeout: requestTimeout},
	}
}

// Push serializes the payload and posts it, retrying transient failures.
func (p *Pusher) Push(payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("serialize payload: %w", err)
	}

	return retry(func() error {
		return p.post(body)
	}, p.RetryTimes, RetryInterval)
}

func (p *Pusher) post(body []byte) error {
	req, err := http.NewRequest(http.MethodPost, p.URL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	// drain so the connection can be reused
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned %s", resp.Status)
	}
	return nil
}

func retry(fn func() error, times int, interval time.Duration) error {
	var err error
	for i := 0; i < times; i++ {
		if err = fn(); err == nil {
			return nil
		}
		if i < times-1 {
			time.Sleep(interval)
		}
	}
	return fmt.Errorf("failed after %d attempts: %v", times, err)
}
