// Package metadata extracts job-posting details from external pages so the
// admin console can prefill its posting form from a URL.
package metadata

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/jonesrussell/gojobs/internal/logger"
)

const defaultHTTPTimeout = 30 * time.Second

// blockedHostnames are never fetched regardless of what they resolve to.
var blockedHostnames = map[string]bool{
	"localhost":                true,
	"metadata.google.internal": true,
	"169.254.169.254":          true,
}

// Suggestion holds the values extracted from a posting page. Empty fields
// had no usable source on the page.
type Suggestion struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	Location    string `json:"location"`
	Description string `json:"description"`
	URL         string `json:"url"`
}

// Extractor fetches pages and pulls posting metadata out of them.
type Extractor struct {
	logger logger.Logger
	client *http.Client
}

func NewExtractor(log logger.Logger) *Extractor {
	dialer := &net.Dialer{Timeout: 10 * time.Second}
	transport := &http.Transport{
		DialContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
			if err := checkDialAddress(addr); err != nil {
				return nil, err
			}
			return dialer.DialContext(ctx, network, addr)
		},
	}

	return &Extractor{
		logger: log,
		client: &http.Client{
			Timeout:   defaultHTTPTimeout,
			Transport: transport,
		},
	}
}

// Extract fetches the URL and extracts form-prefill suggestions.
func (e *Extractor) Extract(ctx context.Context, pageURL string) (*Suggestion, error) {
	e.logger.Info("extracting posting metadata",
		logger.String("url", pageURL),
	)

	if err := validateURLScheme(pageURL); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}

	// Some job boards reject default Go user agents
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; GoJobs/1.0)")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch URL: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse HTML: %w", err)
	}

	suggestion := ExtractFromDocument(doc)
	suggestion.URL = pageURL

	e.logger.Info("posting metadata extracted",
		logger.String("url", pageURL),
		logger.String("title", suggestion.Title),
	)

	return suggestion, nil
}

// ExtractFromDocument pulls suggestions out of an already-parsed page.
func ExtractFromDocument(doc *goquery.Document) *Suggestion {
	return &Suggestion{
		Title:       extractTitle(doc),
		Company:     extractCompany(doc),
		Location:    metaContent(doc, "meta[property='og:locality']", "meta[name='job-location']"),
		Description: extractDescription(doc),
	}
}

func extractTitle(doc *goquery.Document) string {
	if title := metaContent(doc, "meta[property='og:title']"); title != "" {
		return title
	}
	if h1 := strings.TrimSpace(doc.Find("h1").First().Text()); h1 != "" {
		return h1
	}
	return strings.TrimSpace(doc.Find("title").First().Text())
}

func extractCompany(doc *goquery.Document) string {
	return metaContent(doc,
		"meta[property='og:site_name']",
		"meta[name='author']",
		"meta[name='application-name']",
	)
}

func extractDescription(doc *goquery.Document) string {
	return metaContent(doc,
		"meta[property='og:description']",
		"meta[name='description']",
	)
}

// metaContent returns the first non-empty content attribute among the
// selectors, in priority order.
func metaContent(doc *goquery.Document, selectors ...string) string {
	for _, selector := range selectors {
		if content, exists := doc.Find(selector).Attr("content"); exists {
			if trimmed := strings.TrimSpace(content); trimmed != "" {
				return trimmed
			}
		}
	}
	return ""
}

// validateURLScheme rejects non-HTTP schemes and hostnames that must never
// be fetched on an admin's behalf.
func validateURLScheme(raw string) error {
	parsed, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("invalid URL scheme: %q", parsed.Scheme)
	}
	if parsed.Hostname() == "" {
		return errors.New("invalid URL: missing host")
	}
	if blockedHostnames[strings.ToLower(parsed.Hostname())] {
		return fmt.Errorf("blocked hostname: %s", parsed.Hostname())
	}
	return nil
}

// checkDialAddress rejects connections to private and link-local addresses
// at dial time, after DNS resolution, so a public hostname cannot be pointed
// at internal infrastructure.
func checkDialAddress(addr string) error {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return fmt.Errorf("invalid dial address: %w", err)
	}

	ips, err := net.LookupIP(host)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", host, err)
	}

	for _, ip := range ips {
		if isPrivateIP(ip) {
			return fmt.Errorf("blocked address: %s resolves to %s", host, ip)
		}
	}
	return nil
}

func isPrivateIP(ip net.IP) bool {
	if ip == nil {
		return false
	}
	return ip.IsLoopback() ||
		ip.IsPrivate() ||
		ip.IsLinkLocalUnicast() ||
		ip.IsLinkLocalMulticast() ||
		ip.IsUnspecified()
}
