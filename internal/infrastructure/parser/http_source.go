package parser

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"SpimexTradingResults/internal/ports"
)

const defaultUserAgent = "SpimexTradingResults/1.0"

// HTTPSource talks to the exchange site: listing pages and report files.
type HTTPSource struct {
	client     *http.Client
	listingURL string
	userAgent  string
}

var (
	_ ports.ListingFetcher = (*HTTPSource)(nil)
	_ ports.FileDownloader = (*HTTPSource)(nil)
)

// NewHTTPSource wires an HTTP client; a nil client gets a 20s timeout.
func NewHTTPSource(client *http.Client, listingURL, userAgent string) *HTTPSource {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	return &HTTPSource{client: client, listingURL: listingURL, userAgent: userAgent}
}

// FetchListing returns the status and HTML of one listing page.
func (s *HTTPSource) FetchListing(ctx context.Context, page int) (int, string, error) {
	pageURL, err := buildPageURL(s.listingURL, page)
	if err != nil {
		return 0, "", err
	}
	status, body, err := s.get(ctx, pageURL)
	if err != nil {
		return 0, "", err
	}
	return status, string(body), nil
}

// Download returns the status and raw bytes of one report file.
func (s *HTTPSource) Download(ctx context.Context, fileURL string) (int, []byte, error) {
	return s.get(ctx, fileURL)
}

func (s *HTTPSource) get(ctx context.Context, target string) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return 0, nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("request %s: %w", target, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("read body of %s: %w", target, err)
	}
	return resp.StatusCode, body, nil
}

// buildPageURL sets the listing pagination parameter, page=page-N.
func buildPageURL(base string, page int) (string, error) {
	parsed, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("invalid listing url %s: %w", base, err)
	}

	query := parsed.Query()
	query.Set("page", fmt.Sprintf("page-%d", page))
	parsed.RawQuery = query.Encode()
	return parsed.String(), nil
}
