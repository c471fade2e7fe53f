package scrapers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/raushankrgupta/stylis/scrapers/base"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func newTestImporter() *Importer {
	b := base.NewBaseScraper(zap.NewNop())
	b.Headless = false
	return NewImporter(NewRegistry(b), 1<<20, zap.NewNop())
}

func TestImportDownloadsPreviewImage(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/p/denim-jacket", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(`<html><head>
			<meta property="og:title" content="Denim Jacket">
			<meta property="og:image" content="/missing.png">
			<meta name="twitter:image" content="/img/jacket.png">
		</head><body></body></html>`))
	})
	mux.HandleFunc("/img/jacket.png", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		w.Write(pngHeader)
	})
	mux.HandleFunc("/missing.png", http.NotFound)
	srv := httptest.NewServer(mux)
	defer srv.Close()

	img, product, err := newTestImporter().Import(context.Background(), srv.URL+"/p/denim-jacket")
	if err != nil {
		t.Fatalf("import failed: %v", err)
	}
	if img.MIMEType != "image/png" || len(img.Data) != len(pngHeader) {
		t.Errorf("unexpected image %s/%d", img.MIMEType, len(img.Data))
	}
	if product.Title != "Denim Jacket" || product.SourceURL != srv.URL+"/p/denim-jacket" {
		t.Errorf("unexpected product %+v", product)
	}
}

func TestImportWithoutImages(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><head><title>Nothing here</title></head><body></body></html>`))
	}))
	defer srv.Close()

	_, _, err := newTestImporter().Import(context.Background(), srv.URL+"/p/1")
	if !errors.Is(err, base.ErrBlocked) {
		t.Fatalf("expected ErrBlocked, got %v", err)
	}
	if MapHTTPStatus(err) != http.StatusBadGateway {
		t.Errorf("status: got %d", MapHTTPStatus(err))
	}
}

func TestImportRejectsInvalidURL(t *testing.T) {
	_, _, err := newTestImporter().Import(context.Background(), "not a url")
	if !errors.Is(err, ErrUnsupportedURL) {
		t.Fatalf("expected ErrUnsupportedURL, got %v", err)
	}
	if MapHTTPStatus(err) != http.StatusBadRequest {
		t.Errorf("status: got %d", MapHTTPStatus(err))
	}
}

func TestRegistryPrefersSiteScrapers(t *testing.T) {
	r := NewRegistry(base.NewBaseScraper(zap.NewNop()))

	tests := []struct {
		url  string
		want string
	}{
		{"https://www.amazon.in/dp/B0C1", "*amazon.AmazonScraper"},
		{"https://www.flipkart.com/p/itm1", "*flipkart.FlipkartScraper"},
		{"https://www.myntra.com/tshirts/1/buy", "*myntra.MyntraScraper"},
		{"https://www.tatacliq.com/p-mp1", "*tatacliq.TataCliqScraper"},
		{"https://peterengland.abfrl.in/p/shirt.html", "*peterengland.PeterEnglandScraper"},
		{"https://shop.example.com/jacket", "*generic.GenericScraper"},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			s := r.match(tt.url)
			if s == nil {
				t.Fatal("no scraper matched")
			}
			if got := typeName(s); got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}

	if r.match("ftp://example.com/file") != nil {
		t.Error("non-http urls must not match")
	}
}

func TestAbsoluteURL(t *testing.T) {
	tests := []struct {
		page, ref, want string
	}{
		{"https://shop.example.com/p/1", "/img/a.png", "https://shop.example.com/img/a.png"},
		{"https://shop.example.com/p/1", "//cdn.example.com/a.png", "https://cdn.example.com/a.png"},
		{"https://shop.example.com/p/1", "https://cdn.example.com/a.png", "https://cdn.example.com/a.png"},
	}
	for _, tt := range tests {
		if got := absoluteURL(tt.page, tt.ref); got != tt.want {
			t.Errorf("absoluteURL(%q, %q) = %q, want %q", tt.page, tt.ref, got, tt.want)
		}
	}
}

func typeName(v any) string {
	return fmt.Sprintf("%T", v)
}
