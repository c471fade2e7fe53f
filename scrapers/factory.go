package scrapers

import (
	"context"
	"fmt"

	"github.com/raushankrgupta/stylis/scrapers/amazon"
	"github.com/raushankrgupta/stylis/scrapers/base"
	"github.com/raushankrgupta/stylis/scrapers/flipkart"
	"github.com/raushankrgupta/stylis/scrapers/generic"
	"github.com/raushankrgupta/stylis/scrapers/myntra"
	"github.com/raushankrgupta/stylis/scrapers/peterengland"
	"github.com/raushankrgupta/stylis/scrapers/tatacliq"
	"github.com/raushankrgupta/stylis/utils"
)

// Registry picks the scraper for a product URL. Site scrapers are tried in
// order; the generic preview-image scraper matches everything else.
type Registry struct {
	scrapers []Scraper
}

func NewRegistry(b *base.BaseScraper) *Registry {
	return &Registry{
		scrapers: []Scraper{
			amazon.NewAmazonScraper(b),
			flipkart.NewFlipkartScraper(b),
			myntra.NewMyntraScraper(b),
			tatacliq.NewTataCliqScraper(b),
			peterengland.NewPeterEnglandScraper(b),
			generic.NewGenericScraper(b),
		},
	}
}

// GetScraper returns the appropriate scraper and the resolved URL
func (r *Registry) GetScraper(ctx context.Context, url string) (Scraper, string, error) {
	// Resolve shortened URLs (e.g., amzn.in, bit.ly)
	resolvedURL, err := utils.ResolveShortenedURL(ctx, url)
	if err != nil {
		return nil, url, fmt.Errorf("error resolving url: %w", err)
	}

	if s := r.match(resolvedURL); s != nil {
		return s, resolvedURL, nil
	}
	return nil, resolvedURL, fmt.Errorf("%w: %s", ErrUnsupportedURL, resolvedURL)
}

func (r *Registry) match(url string) Scraper {
	for _, s := range r.scrapers {
		if s.CanScrape(url) {
			return s
		}
	}
	return nil
}
