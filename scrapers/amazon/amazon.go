package amazon

import (
	"context"
	"encoding/json"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/raushankrgupta/stylis/models"
	"github.com/raushankrgupta/stylis/scrapers/base"
)

type AmazonScraper struct {
	*base.BaseScraper
}

func NewAmazonScraper(b *base.BaseScraper) *AmazonScraper {
	return &AmazonScraper{BaseScraper: b}
}

func (s *AmazonScraper) CanScrape(url string) bool {
	return strings.Contains(url, "amazon.") || strings.Contains(url, "amzn.")
}

func (s *AmazonScraper) ScrapeProduct(ctx context.Context, url string) (*models.Product, error) {
	doc, err := s.FetchDocument(ctx, url, func(doc *goquery.Document) bool {
		return strings.TrimSpace(doc.Find("#productTitle").Text()) != ""
	})
	if err != nil {
		return nil, err
	}

	product := parse(doc)
	product.SourceURL = url
	return product, nil
}

// Thumbnail URLs carry a size token such as ._SS40_. between name and extension.
var sizeToken = regexp.MustCompile(`\._[^/]+_\.`)

func toHighRes(url string) string {
	return sizeToken.ReplaceAllString(url, ".")
}

func parse(doc *goquery.Document) *models.Product {
	product := &models.Product{
		Title: strings.TrimSpace(doc.Find("#productTitle").Text()),
	}

	if main := mainImage(doc); main != "" {
		product.Images = append(product.Images, main)
	}

	doc.Find("#altImages ul li.item img").Each(func(i int, s *goquery.Selection) {
		src := s.AttrOr("src", "")
		if src == "" || strings.HasSuffix(src, ".gif") {
			return
		}
		product.Images = appendUnique(product.Images, toHighRes(src))
	})

	return product
}

// mainImage prefers the hi-res attribute, then the largest entry of the
// dynamic image map, then the plain src.
func mainImage(doc *goquery.Document) string {
	landing := doc.Find("#landingImage, #imgBlkFront").First()
	if hiRes := landing.AttrOr("data-old-hires", ""); hiRes != "" {
		return hiRes
	}

	if dynamic := landing.AttrOr("data-a-dynamic-image", ""); dynamic != "" {
		var sizes map[string][]int
		if err := json.Unmarshal([]byte(dynamic), &sizes); err == nil {
			best, bestWidth := "", -1
			for url, dims := range sizes {
				if len(dims) > 0 && (dims[0] > bestWidth || (dims[0] == bestWidth && url < best)) {
					best, bestWidth = url, dims[0]
				}
			}
			if best != "" {
				return best
			}
		}
	}

	return landing.AttrOr("src", "")
}

func appendUnique(images []string, url string) []string {
	for _, existing := range images {
		if existing == url {
			return images
		}
	}
	return append(images, url)
}
