package utils

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/raushankrgupta/stylis/models"
)

const userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// ErrNotAnImage is returned when a download is not an image.
var ErrNotAnImage = errors.New("downloaded content is not an image")

var downloadClient = &http.Client{Timeout: 30 * time.Second}

// FetchImage downloads url into an UploadedImage, refusing bodies larger
// than maxBytes.
func FetchImage(ctx context.Context, url string, maxBytes int64) (models.UploadedImage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return models.UploadedImage{}, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := downloadClient.Do(req)
	if err != nil {
		return models.UploadedImage{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return models.UploadedImage{}, fmt.Errorf("bad status: %s", resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBytes+1))
	if err != nil {
		return models.UploadedImage{}, err
	}
	if int64(len(data)) > maxBytes {
		return models.UploadedImage{}, fmt.Errorf("image exceeds %d bytes", maxBytes)
	}

	contentType := resp.Header.Get("Content-Type")
	if i := strings.Index(contentType, ";"); i >= 0 {
		contentType = contentType[:i]
	}
	if !strings.HasPrefix(contentType, "image/") {
		// CDNs often serve images as application/octet-stream.
		contentType = http.DetectContentType(data)
	}

	img := models.UploadedImage{MIMEType: strings.TrimSpace(contentType), Data: data}
	if !img.IsImage() || len(data) == 0 {
		return models.UploadedImage{}, fmt.Errorf("%w: %s", ErrNotAnImage, contentType)
	}
	return img, nil
}
