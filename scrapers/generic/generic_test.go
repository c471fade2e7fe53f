package generic

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

func TestParsePreviewImages(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(`<html><head>
		<title>Fallback title</title>
		<meta property="og:title" content="Wool Overcoat">
		<meta property="og:image" content="https://cdn.shop.com/coat.jpg">
		<meta name="twitter:image" content="https://cdn.shop.com/coat.jpg">
		<link rel="image_src" href="https://cdn.shop.com/coat-alt.jpg">
	</head><body></body></html>`))
	if err != nil {
		t.Fatalf("parse html: %v", err)
	}

	product := parse(doc)
	if product.Title != "Wool Overcoat" {
		t.Errorf("title: got %q", product.Title)
	}
	if len(product.Images) != 2 || product.Images[1] != "https://cdn.shop.com/coat-alt.jpg" {
		t.Errorf("images: got %v", product.Images)
	}
}
