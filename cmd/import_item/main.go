// Command import_item runs the product-page importer against one or more
// URLs and prints what would be handed to the stylist.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/raushankrgupta/stylis/config"
	"github.com/raushankrgupta/stylis/models"
	"github.com/raushankrgupta/stylis/scrapers"
	"github.com/raushankrgupta/stylis/scrapers/base"
	"github.com/raushankrgupta/stylis/utils"
)

func main() {
	outDir := flag.String("out", "", "directory to write the imported item images to")
	headless := flag.Bool("headless", true, "fall back to a headless browser when a page is blocked")
	timeout := flag.Duration("timeout", 3*time.Minute, "per-URL timeout")
	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: import_item [-out dir] [-headless=false] <product_url>...")
		os.Exit(2)
	}

	config.LoadConfig()
	logger, err := utils.NewLogger(config.AppEnv)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync()

	b := base.NewBaseScraper(logger)
	b.Headless = *headless
	importer := scrapers.NewImporter(scrapers.NewRegistry(b), config.MaxUploadSize, logger)

	failed := 0
	for i, u := range flag.Args() {
		fmt.Printf("Importing URL: %s\n", u)

		ctx, cancel := context.WithTimeout(context.Background(), *timeout)
		img, product, err := importer.Import(ctx, u)
		cancel()
		if err != nil {
			logger.Error("import failed", zap.String("url", u), zap.Error(err))
			failed++
			continue
		}

		out, err := report(product, img)
		if err != nil {
			logger.Error("failed to encode product", zap.String("url", u), zap.Error(err))
			failed++
			continue
		}
		fmt.Print(out)

		if *outDir != "" {
			if err := os.MkdirAll(*outDir, 0o755); err != nil {
				log.Fatalf("Failed to create %s: %v", *outDir, err)
			}
			path := filepath.Join(*outDir, fmt.Sprintf("item_%d%s", i+1, extension(img.MIMEType)))
			if err := os.WriteFile(path, img.Data, 0o644); err != nil {
				logger.Error("failed to write image", zap.String("path", path), zap.Error(err))
			} else {
				fmt.Printf("Saved: %s\n", path)
			}
		}
		fmt.Println("--------------------------------------------------")
	}

	if failed > 0 {
		os.Exit(1)
	}
}

// report formats an imported product and its item image for the terminal.
func report(product *models.Product, img models.UploadedImage) (string, error) {
	out, err := json.MarshalIndent(product, "", "  ")
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Product: %s\nImage: %s, %d bytes\n", out, img.MIMEType, len(img.Data)), nil
}

func extension(mimeType string) string {
	switch mimeType {
	case "image/jpeg":
		return ".jpg"
	case "image/webp":
		return ".webp"
	case "image/gif":
		return ".gif"
	default:
		return ".png"
	}
}
