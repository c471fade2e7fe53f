package tatacliq

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/raushankrgupta/stylis/models"
	"github.com/raushankrgupta/stylis/scrapers/base"
)

type TataCliqScraper struct {
	*base.BaseScraper
}

func NewTataCliqScraper(b *base.BaseScraper) *TataCliqScraper {
	return &TataCliqScraper{BaseScraper: b}
}

func (s *TataCliqScraper) CanScrape(url string) bool {
	return strings.Contains(url, "tatacliq.com")
}

func (s *TataCliqScraper) ScrapeProduct(ctx context.Context, url string) (*models.Product, error) {
	doc, err := s.FetchDocument(ctx, url, func(doc *goquery.Document) bool {
		// The gallery is rendered client-side.
		return doc.Find("img.ImageGallery__image").Length() > 0 || doc.Find(".ProductDetailsMainCard__productName").Length() > 0
	})
	if err != nil {
		return nil, err
	}

	product := parse(doc)
	product.SourceURL = url
	return product, nil
}

func parse(doc *goquery.Document) *models.Product {
	product := &models.Product{}

	product.Title = strings.TrimSpace(doc.Find("h1.ProductDescriptionPage__productName").Text())
	if product.Title == "" {
		product.Title = strings.TrimSpace(doc.Find(".ProductDetailsMainCard__productName").Text())
	}

	doc.Find("img.ImageGallery__image").Each(func(i int, s *goquery.Selection) {
		if src := s.AttrOr("src", ""); src != "" {
			product.Images = append(product.Images, src)
		}
	})

	if len(product.Images) == 0 {
		if img := base.Attr(doc, "meta[property='og:image']", "content"); img != "" {
			product.Images = append(product.Images, img)
		}
	}

	return product
}
