package peterengland

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

func TestParseUsesLazySources(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(`<html><head><title>Men Blue Slim Fit Shirt | Peter England</title></head><body>
		<div class="slick-track">
			<img data-src="https://imagescdn.peterengland.com/a.jpg" src="placeholder.svg">
			<img src="https://imagescdn.peterengland.com/b.jpg">
		</div>
	</body></html>`))
	if err != nil {
		t.Fatalf("parse html: %v", err)
	}

	product := parse(doc)
	if product.Title != "Men Blue Slim Fit Shirt" {
		t.Errorf("title: got %q", product.Title)
	}
	want := []string{"https://imagescdn.peterengland.com/a.jpg", "https://imagescdn.peterengland.com/b.jpg"}
	if strings.Join(product.Images, ",") != strings.Join(want, ",") {
		t.Errorf("images: got %v", product.Images)
	}
}
