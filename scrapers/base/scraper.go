package base

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

// ErrBlocked is returned when every strategy yielded no usable page.
var ErrBlocked = errors.New("all fetch strategies failed")

// BaseScraper handles common scraping logic
type BaseScraper struct {
	Client *http.Client
	Logger *zap.Logger
	// Headless enables the chromedp fallback. It needs a local Chrome.
	Headless bool
}

// NewBaseScraper creates a new BaseScraper instance
func NewBaseScraper(logger *zap.Logger) *BaseScraper {
	return &BaseScraper{
		Client: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				ForceAttemptHTTP2:     false,
				TLSNextProto:          make(map[string]func(string, *tls.Conn) http.RoundTripper),
				MaxIdleConns:          100,
				IdleConnTimeout:       90 * time.Second,
				TLSHandshakeTimeout:   10 * time.Second,
				ExpectContinueTimeout: 1 * time.Second,
			},
		},
		Logger:   logger.With(zap.String("system", "scraper")),
		Headless: true,
	}
}

// FetchDocument fetches the URL over plain HTTP first and falls back to a
// headless browser when the page is a bot check or fails validator. A nil
// validator accepts any page that is not a bot check.
func (b *BaseScraper) FetchDocument(ctx context.Context, url string, validator func(*goquery.Document) bool) (*goquery.Document, error) {
	valid := func(doc *goquery.Document) bool {
		return IsValidDocument(doc) && (validator == nil || validator(doc))
	}

	doc, err := b.FetchDocumentHTTP(ctx, url)
	if err == nil {
		if valid(doc) {
			b.Logger.Debug("http fetch succeeded", zap.String("url", url))
			return doc, nil
		}
		b.Logger.Info("http fetch yielded invalid content, trying headless", zap.String("url", url))
	} else {
		b.Logger.Info("http fetch failed", zap.String("url", url), zap.Error(err))
	}

	if !b.Headless {
		return nil, fmt.Errorf("%w for %s", ErrBlocked, url)
	}

	doc, err = b.FetchDocumentChromeDP(ctx, url)
	if err == nil && valid(doc) {
		b.Logger.Debug("chromedp fetch succeeded", zap.String("url", url))
		return doc, nil
	}
	if err != nil {
		b.Logger.Warn("chromedp fetch failed", zap.String("url", url), zap.Error(err))
	}

	return nil, fmt.Errorf("%w for %s", ErrBlocked, url)
}

var blockedTitles = []string{"robot check", "captcha", "access denied", "just a moment", "are you a human"}

// IsValidDocument rejects bot-check and access-denied interstitials. Whether
// the page carries product data is left to each site's validator.
func IsValidDocument(doc *goquery.Document) bool {
	title := strings.ToLower(strings.TrimSpace(doc.Find("title").First().Text()))
	for _, blocked := range blockedTitles {
		if strings.Contains(title, blocked) {
			return false
		}
	}
	return true
}

// FetchDocumentHTTP fetches the URL and returns a GoQuery document via standard HTTP
func (b *BaseScraper) FetchDocumentHTTP(ctx context.Context, url string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	// Common headers to mimic a real browser
	req.Header.Set("User-Agent", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,image/apng,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Upgrade-Insecure-Requests", "1")
	req.Header.Set("Sec-Fetch-Dest", "document")
	req.Header.Set("Sec-Fetch-Mode", "navigate")
	req.Header.Set("Sec-Fetch-Site", "cross-site")

	res, err := b.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status code error: %d %s", res.StatusCode, res.Status)
	}

	return goquery.NewDocumentFromReader(res.Body)
}

// Attr returns the first non-empty attribute among attrs on the first match.
func Attr(doc *goquery.Document, selector string, attrs ...string) string {
	sel := doc.Find(selector).First()
	for _, a := range attrs {
		if v := strings.TrimSpace(sel.AttrOr(a, "")); v != "" {
			return v
		}
	}
	return ""
}
