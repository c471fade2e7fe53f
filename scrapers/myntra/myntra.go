package myntra

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/raushankrgupta/stylis/models"
	"github.com/raushankrgupta/stylis/scrapers/base"
)

const stateMarker = "window.__myx ="

type MyntraScraper struct {
	*base.BaseScraper
}

func NewMyntraScraper(b *base.BaseScraper) *MyntraScraper {
	return &MyntraScraper{BaseScraper: b}
}

func (s *MyntraScraper) CanScrape(url string) bool {
	return strings.Contains(url, "myntra.com")
}

func (s *MyntraScraper) ScrapeProduct(ctx context.Context, url string) (*models.Product, error) {
	doc, err := s.FetchDocument(ctx, url, func(doc *goquery.Document) bool {
		return strings.Contains(doc.Text(), stateMarker) || doc.Find("h1").Length() > 0
	})
	if err != nil {
		return nil, err
	}

	product := parse(doc)
	product.SourceURL = url
	return product, nil
}

// pageState is the slice of the embedded window.__myx blob we read.
type pageState struct {
	PDPData struct {
		Name  string `json:"name"`
		Media struct {
			Albums []struct {
				Images []struct {
					Src string `json:"src"`
				} `json:"images"`
			} `json:"albums"`
		} `json:"media"`
	} `json:"pdpData"`
}

func parse(doc *goquery.Document) *models.Product {
	product := &models.Product{}

	if state, ok := embeddedState(doc); ok {
		product.Title = state.PDPData.Name
		for _, album := range state.PDPData.Media.Albums {
			for _, img := range album.Images {
				if img.Src != "" {
					// Album sources are templates with ($height) style placeholders.
					src := strings.NewReplacer("($height)", "1080", "($qualityPercentage)", "90", "($width)", "810").Replace(img.Src)
					product.Images = append(product.Images, src)
				}
			}
		}
	}

	if product.Title == "" {
		product.Title = strings.TrimSpace(doc.Find(".pdp-title").Text())
		if name := strings.TrimSpace(doc.Find(".pdp-name").Text()); name != "" {
			product.Title = strings.TrimSpace(product.Title + " " + name)
		}
	}

	if len(product.Images) == 0 {
		doc.Find(".image-grid-image").Each(func(i int, s *goquery.Selection) {
			if url := backgroundURL(s.AttrOr("style", "")); url != "" {
				product.Images = append(product.Images, url)
			}
		})
	}

	return product
}

func embeddedState(doc *goquery.Document) (pageState, bool) {
	var state pageState
	found := false

	doc.Find("script").EachWithBreak(func(i int, s *goquery.Selection) bool {
		text := s.Text()
		start := strings.Index(text, stateMarker)
		if start < 0 {
			return true
		}

		blob := strings.TrimSpace(text[start+len(stateMarker):])
		blob = strings.TrimSuffix(blob, ";")
		if err := json.Unmarshal([]byte(blob), &state); err == nil {
			found = true
		}
		return false
	})

	return state, found
}

// backgroundURL extracts the url from `background-image: url("...")`.
func backgroundURL(style string) string {
	start := strings.Index(style, "url(")
	if start < 0 {
		return ""
	}
	start += len("url(")
	end := strings.Index(style[start:], ")")
	if end < 0 {
		return ""
	}
	return strings.Trim(style[start:start+end], "\"'")
}
