package tatacliq

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name      string
		html      string
		wantTitle string
		wantImage string
	}{
		{
			name: "gallery",
			html: `<h1 class="ProductDescriptionPage__productName">Thomas Scott Shirt</h1>
				<img class="ImageGallery__image" src="https://img.tatacliq.com/1.jpg">
				<img class="ImageGallery__image" src="https://img.tatacliq.com/2.jpg">`,
			wantTitle: "Thomas Scott Shirt",
			wantImage: "https://img.tatacliq.com/1.jpg",
		},
		{
			name: "meta fallback",
			html: `<meta property="og:image" content="https://img.tatacliq.com/og.jpg">
				<div class="ProductDetailsMainCard__productName">Checked Shirt</div>`,
			wantTitle: "Checked Shirt",
			wantImage: "https://img.tatacliq.com/og.jpg",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := goquery.NewDocumentFromReader(strings.NewReader("<html><body>" + tt.html + "</body></html>"))
			if err != nil {
				t.Fatalf("parse html: %v", err)
			}
			product := parse(doc)
			if product.Title != tt.wantTitle || product.MainImage() != tt.wantImage {
				t.Errorf("got %q/%q, want %q/%q", product.Title, product.MainImage(), tt.wantTitle, tt.wantImage)
			}
		})
	}
}
