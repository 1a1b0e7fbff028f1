package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultReaderURL is a reader proxy that returns a page as plain text
// when the target URL is appended to it.
const DefaultReaderURL = "https://r.jina.ai/"

// maxPageSize caps how much of a fetched page is read.
const maxPageSize = 10 << 20

// Fetcher downloads web pages as text through a reader proxy.
type Fetcher struct {
	ReaderURL string
	Client    *http.Client
}

// NewFetcher returns a Fetcher. An empty readerURL uses DefaultReaderURL.
func NewFetcher(readerURL string, timeout time.Duration) *Fetcher {
	if readerURL == "" {
		readerURL = DefaultReaderURL
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Fetcher{ReaderURL: readerURL, Client: &http.Client{Timeout: timeout}}
}

// FetchURL returns the text content of the page at url.
func (f *Fetcher) FetchURL(ctx context.Context, url string) (string, error) {
	url = strings.TrimSpace(url)
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return "", fmt.Errorf("fetch %q: url must start with http:// or https://", url)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.ReaderURL+url, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "text/plain")

	resp, err := f.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("fetch %s: status %d", url, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPageSize))
	if err != nil {
		return "", fmt.Errorf("read %s: %w", url, err)
	}
	text, err := FromText(string(body))
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", url, err)
	}
	return text, nil
}
