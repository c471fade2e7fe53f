package peterengland

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/raushankrgupta/stylis/models"
	"github.com/raushankrgupta/stylis/scrapers/base"
)

type PeterEnglandScraper struct {
	*base.BaseScraper
}

func NewPeterEnglandScraper(b *base.BaseScraper) *PeterEnglandScraper {
	return &PeterEnglandScraper{BaseScraper: b}
}

func (s *PeterEnglandScraper) CanScrape(url string) bool {
	return strings.Contains(url, "peterengland")
}

func (s *PeterEnglandScraper) ScrapeProduct(ctx context.Context, url string) (*models.Product, error) {
	doc, err := s.FetchDocument(ctx, url, func(doc *goquery.Document) bool {
		return doc.Find("h1.pdp-title").Length() > 0 || doc.Find(".ProductDetails__productName").Length() > 0
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

	product.Title = strings.TrimSpace(doc.Find("h1.pdp-title").Text())
	if product.Title == "" {
		product.Title = strings.TrimSpace(doc.Find(".ProductDetails__productName").Text())
	}
	if product.Title == "" {
		product.Title = strings.TrimSpace(strings.Split(doc.Find("title").Text(), "|")[0])
	}

	collect := func(selector string) {
		doc.Find(selector).Each(func(i int, s *goquery.Selection) {
			src := s.AttrOr("data-src", s.AttrOr("src", ""))
			if src != "" {
				product.Images = append(product.Images, src)
			}
		})
	}

	collect(".Start-image-gallery img")
	if len(product.Images) == 0 {
		collect(".slick-track img")
	}

	return product
}
