package flipkart

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/raushankrgupta/stylis/models"
	"github.com/raushankrgupta/stylis/scrapers/base"
)

type FlipkartScraper struct {
	*base.BaseScraper
}

func NewFlipkartScraper(b *base.BaseScraper) *FlipkartScraper {
	return &FlipkartScraper{BaseScraper: b}
}

func (s *FlipkartScraper) CanScrape(url string) bool {
	return strings.Contains(url, "flipkart.com")
}

func (s *FlipkartScraper) ScrapeProduct(ctx context.Context, url string) (*models.Product, error) {
	doc, err := s.FetchDocument(ctx, url, func(doc *goquery.Document) bool {
		return doc.Find("h1").Length() > 0 || doc.Find(".B_NuCI").Length() > 0
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

	product.Title = strings.TrimSpace(doc.Find(".B_NuCI").Text())
	if product.Title == "" {
		product.Title = strings.TrimSpace(doc.Find("h1.yhB1nd span").Text())
	}
	if product.Title == "" {
		product.Title = strings.TrimSpace(doc.Find("h1").First().Text())
	}

	// Thumbnails are 128px; the CDN serves the same path at 832px.
	doc.Find("ul._3GnUWp li._20Gt85").Each(func(i int, s *goquery.Selection) {
		if img := s.Find("img").AttrOr("src", ""); img != "" {
			product.Images = append(product.Images, strings.Replace(img, "/128/128/", "/832/832/", 1))
		}
	})

	if len(product.Images) == 0 {
		if img := base.Attr(doc, "img._396cs4", "src"); img != "" {
			product.Images = append(product.Images, img)
		}
	}
	if len(product.Images) == 0 {
		if img := base.Attr(doc, "meta[property='og:image']", "content"); img != "" {
			product.Images = append(product.Images, img)
		}
	}

	return product
}
