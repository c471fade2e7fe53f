// Package generic reads the social preview image most shops publish, for
// any site without a dedicated scraper.
package generic

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/raushankrgupta/stylis/models"
	"github.com/raushankrgupta/stylis/scrapers/base"
)

type GenericScraper struct {
	*base.BaseScraper
}

func NewGenericScraper(b *base.BaseScraper) *GenericScraper {
	return &GenericScraper{BaseScraper: b}
}

func (s *GenericScraper) CanScrape(url string) bool {
	return strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://")
}

func (s *GenericScraper) ScrapeProduct(ctx context.Context, url string) (*models.Product, error) {
	doc, err := s.FetchDocument(ctx, url, func(doc *goquery.Document) bool {
		return len(previewImages(doc)) > 0
	})
	if err != nil {
		return nil, err
	}

	product := parse(doc)
	product.SourceURL = url
	return product, nil
}

func parse(doc *goquery.Document) *models.Product {
	title := base.Attr(doc, "meta[property='og:title']", "content")
	if title == "" {
		title = strings.TrimSpace(doc.Find("title").First().Text())
	}
	return &models.Product{Title: title, Images: previewImages(doc)}
}

func previewImages(doc *goquery.Document) []string {
	var images []string
	for _, candidate := range []string{
		base.Attr(doc, "meta[property='og:image:secure_url']", "content"),
		base.Attr(doc, "meta[property='og:image']", "content"),
		base.Attr(doc, "meta[name='twitter:image']", "content"),
		base.Attr(doc, "link[rel='image_src']", "href"),
	} {
		if candidate == "" {
			continue
		}
		dup := false
		for _, img := range images {
			if img == candidate {
				dup = true
				break
			}
		}
		if !dup {
			images = append(images, candidate)
		}
	}
	return images
}
