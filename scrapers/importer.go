package scrapers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"go.uber.org/zap"

	"github.com/raushankrgupta/stylis/models"
	"github.com/raushankrgupta/stylis/utils"
)

var (
	ErrUnsupportedURL = errors.New("unsupported product url")
	ErrNoItemImage    = errors.New("no item image found on page")
)

// Importer turns a product page into an uploaded image.
type Importer struct {
	registry *Registry
	maxBytes int64
	logger   *zap.Logger
}

func NewImporter(registry *Registry, maxBytes int64, logger *zap.Logger) *Importer {
	return &Importer{
		registry: registry,
		maxBytes: maxBytes,
		logger:   logger.With(zap.String("system", "importer")),
	}
}

// Import scrapes productURL and downloads the first image that loads.
func (i *Importer) Import(ctx context.Context, productURL string) (models.UploadedImage, *models.Product, error) {
	if _, err := url.ParseRequestURI(productURL); err != nil {
		return models.UploadedImage{}, nil, fmt.Errorf("%w: %v", ErrUnsupportedURL, err)
	}

	scraper, resolved, err := i.registry.GetScraper(ctx, productURL)
	if err != nil {
		return models.UploadedImage{}, nil, err
	}

	product, err := scraper.ScrapeProduct(ctx, resolved)
	if err != nil {
		return models.UploadedImage{}, nil, fmt.Errorf("scraping failed: %w", err)
	}

	for _, raw := range product.Images {
		imageURL := absoluteURL(resolved, raw)
		img, err := utils.FetchImage(ctx, imageURL, i.maxBytes)
		if err != nil {
			i.logger.Info("skipping product image", zap.String("image", imageURL), zap.Error(err))
			continue
		}

		i.logger.Info("item imported",
			zap.String("url", resolved),
			zap.String("title", product.Title),
			zap.String("image", imageURL),
		)
		return img, product, nil
	}

	return models.UploadedImage{}, product, fmt.Errorf("%w: %s", ErrNoItemImage, resolved)
}

// absoluteURL resolves protocol-relative and relative image references
// against the page they were found on.
func absoluteURL(page, ref string) string {
	base, err := url.Parse(page)
	if err != nil {
		return ref
	}
	u, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return base.ResolveReference(u).String()
}

// MapHTTPStatus maps import errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrUnsupportedURL) {
		return http.StatusBadRequest
	}
	if errors.Is(err, ErrNoItemImage) {
		return http.StatusUnprocessableEntity
	}
	return http.StatusBadGateway
}
