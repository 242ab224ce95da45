package transactions

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"k8s.io/klog"
)

const (
	DefaultBaseURL = "http://resttest.bench.co/transactions/"
	DefaultSuffix  = ".json"
)

// Fetcher loads a single page of transactions. Page indexes start at 1.
type Fetcher interface {
	FetchPage(ctx context.Context, index int) (*Page, error)
}

// HTTPFetcher requests pages at baseURL + index + suffix.
type HTTPFetcher struct {
	baseURL string
	suffix  string
	client  *http.Client
}

func NewHTTPFetcher(baseURL, suffix string, timeout time.Duration) *HTTPFetcher {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}

	return &HTTPFetcher{
		baseURL: baseURL,
		suffix:  suffix,
		client:  &http.Client{Timeout: timeout},
	}
}

func (f *HTTPFetcher) PageURL(index int) string {
	return f.baseURL + strconv.Itoa(index) + f.suffix
}

func (f *HTTPFetcher) FetchPage(ctx context.Context, index int) (*Page, error) {
	if index < 1 {
		return nil, fmt.Errorf("invalid page index %d", index)
	}

	url := f.PageURL(index)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Accept", "application/json")

	klog.V(2).Infof("GET %s", url)

	rs, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error getting page %d: %w", index, err)
	}

	defer rs.Body.Close()

	if rs.StatusCode < 200 || rs.StatusCode > 299 {
		// drain so the connection can be reused
		_, _ = io.Copy(io.Discard, rs.Body)
		return nil, &RemoteError{StatusCode: rs.StatusCode, URL: url}
	}

	bodyBytes, err := io.ReadAll(rs.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading page %d: %w", index, err)
	}

	var page Page

	err = json.Unmarshal(bodyBytes, &page)
	if err != nil {
		return nil, fmt.Errorf("error parsing page %d: %w", index, err)
	}

	return &page, nil
}
