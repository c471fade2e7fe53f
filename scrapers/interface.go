package scrapers

import (
	"context"

	"github.com/raushankrgupta/stylis/models"
)

// Scraper defines the interface for all product scrapers
type Scraper interface {
	// CanScrape checks if the scraper can handle the given URL
	CanScrape(url string) bool
	// ScrapeProduct reads the title and item images from a product page
	ScrapeProduct(ctx context.Context, url string) (*models.Product, error)
}
