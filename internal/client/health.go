package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// HealthURL returns the /health endpoint of the server behind serverURL.
func HealthURL(serverURL string) (string, error) {
	ws, err := NormalizeURL(serverURL)
	if err != nil {
		return "", err
	}
	u, _ := url.Parse(ws)
	if u.Scheme == "wss" {
		u.Scheme = "https"
	} else {
		u.Scheme = "http"
	}
	u.Path = "/health"
	u.RawQuery = ""
	return u.String(), nil
}

// WaitForHealthy polls the server's /health endpoint until it returns 200 OK
// or ctx is done.
func WaitForHealthy(ctx context.Context, serverURL string) error {
	healthURL, err := HealthURL(serverURL)
	if err != nil {
		return err
	}
	client := &http.Client{Timeout: 1 * time.Second}

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("server at %s not healthy: %w", healthURL, ctx.Err())
		case <-ticker.C:
			resp, err := client.Get(healthURL)
			if err != nil {
				continue
			}
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return nil
			}
		}
	}
}
