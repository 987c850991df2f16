package validator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// Session is one browser-automation handle capable of rendering a
// storefront page. Sessions are pooled and reused across candidates
// because setup is expensive relative to a single render. A session is
// never used by two workers at once.
type Session interface {
	// Render loads the URL and returns the settled DOM.
	Render(ctx context.Context, url string) (*goquery.Document, error)

	// Close tears the session down. Must be called for every session
	// when the batch finishes.
	Close() error
}

// SessionFactory creates a fresh session for the pool
type SessionFactory func() (Session, error)

// ChromeSession renders pages through a headless-Chrome HTTP endpoint
// (browserless-style /function API). The endpoint executes the page load
// and returns the post-JavaScript HTML.
type ChromeSession struct {
	addr   string
	client *http.Client
}

// NewChromeSessionFactory returns a factory producing sessions bound to
// the given endpoint. The endpoint is probed once so a dead automation
// service fails the batch setup instead of every candidate.
func NewChromeSessionFactory(addr string) SessionFactory {
	probe := &http.Client{Timeout: 5 * time.Second}
	probed := false

	return func() (Session, error) {
		if !probed {
			resp, err := probe.Get(addr)
			if err != nil {
				return nil, fmt.Errorf("chrome endpoint unreachable at %s: %w", addr, err)
			}
			resp.Body.Close()
			probed = true
		}
		return &ChromeSession{
			addr:   addr,
			client: &http.Client{Timeout: 45 * time.Second},
		}, nil
	}
}

const renderScript = `module.exports = async ({ page, context }) => {
	await page.setViewport({ width: 1920, height: 1080 });
	await page.setUserAgent('Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/125.0.0.0 Safari/537.36');
	await page.goto(context.url, { timeout: 30000, waitUntil: 'networkidle2' });
	return await page.content();
}`

// Render loads the URL through the automation endpoint
func (s *ChromeSession) Render(ctx context.Context, url string) (*goquery.Document, error) {
	payload := map[string]interface{}{
		"code": renderScript,
		"context": map[string]interface{}{
			"url": url,
		},
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.addr+"/function", bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("render %s: unexpected status code %d", url, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	html := string(body)

	// Some endpoints wrap the HTML in a JSON envelope.
	if strings.HasPrefix(strings.TrimSpace(html), "{") {
		var envelope map[string]interface{}
		if json.Unmarshal(body, &envelope) == nil {
			if data, ok := envelope["data"].(string); ok && data != "" {
				html = data
			}
		}
	}

	if !strings.Contains(html, "<html") && !strings.Contains(html, "<body") {
		return nil, fmt.Errorf("render %s: response is not a page", url)
	}

	return goquery.NewDocumentFromReader(strings.NewReader(html))
}

// Close tears the session down. The endpoint holds no per-session state,
// so this only drops the client.
func (s *ChromeSession) Close() error {
	s.client.CloseIdleConnections()
	return nil
}
