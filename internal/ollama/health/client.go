package health

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"time"
)

// Default request settings.
const (
	DefaultPath    = "/api/tags"
	DefaultTimeout = 5 * time.Second
	versionPath    = "/api/version"
)

// Result is the outcome of one reachability check.
type Result struct {
	URL        string        `json:"url" yaml:"url"`
	Reachable  bool          `json:"reachable" yaml:"reachable"`
	StatusCode int           `json:"status_code,omitempty" yaml:"status_code,omitempty"`
	Latency    time.Duration `json:"latency" yaml:"latency"`
	Err        error         `json:"-" yaml:"-"`
}

// Checker issues GET requests against daemon candidates.
type Checker struct {
	client *http.Client
	path   string
}

// NewChecker creates a checker requesting path with the given timeout.
// Zero values select DefaultPath and DefaultTimeout.
func NewChecker(path string, timeout time.Duration) *Checker {
	if path == "" {
		path = DefaultPath
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Checker{
		path: path,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// BaseURL returns http://host:port.
func BaseURL(host string, port int) string {
	return "http://" + net.JoinHostPort(host, strconv.Itoa(port))
}

// Check reports whether GET http://host:port<path> returns a 2xx status.
func (c *Checker) Check(ctx context.Context, host string, port int) Result {
	res := Result{URL: BaseURL(host, port) + c.path}

	start := time.Now()
	resp, err := c.get(ctx, res.URL)
	res.Latency = time.Since(start)
	if err != nil {
		res.Err = err
		return res
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	res.StatusCode = resp.StatusCode
	res.Reachable = resp.StatusCode >= 200 && resp.StatusCode < 300
	if !res.Reachable {
		res.Err = fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return res
}

// Version asks the daemon for its version string.
func (c *Checker) Version(ctx context.Context, host string, port int) (string, error) {
	resp, err := c.get(ctx, BaseURL(host, port)+versionPath)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var body struct {
		Version string `json:"version"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("decode version: %w", err)
	}
	return body.Version, nil
}

func (c *Checker) get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	return c.client.Do(req)
}
