package models

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidDataURI is returned when a string is not a base64 data URI.
var ErrInvalidDataURI = errors.New("invalid data URI")

// UploadedImage is an encoded image exactly as the user supplied it.
type UploadedImage struct {
	MIMEType string
	Data     []byte
}

// ParseDataURI decodes "data:<mime>;base64,<payload>".
func ParseDataURI(uri string) (UploadedImage, error) {
	rest, ok := strings.CutPrefix(strings.TrimSpace(uri), "data:")
	if !ok {
		return UploadedImage{}, fmt.Errorf("%w: missing data: prefix", ErrInvalidDataURI)
	}

	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return UploadedImage{}, fmt.Errorf("%w: missing payload", ErrInvalidDataURI)
	}

	mimeType, ok := strings.CutSuffix(meta, ";base64")
	if !ok {
		return UploadedImage{}, fmt.Errorf("%w: only base64 payloads are supported", ErrInvalidDataURI)
	}
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return UploadedImage{}, fmt.Errorf("%w: %v", ErrInvalidDataURI, err)
	}
	if len(data) == 0 {
		return UploadedImage{}, fmt.Errorf("%w: empty payload", ErrInvalidDataURI)
	}

	return UploadedImage{MIMEType: mimeType, Data: data}, nil
}

// DataURI formats the image as a data URI.
func (i UploadedImage) DataURI() string {
	if len(i.Data) == 0 {
		return ""
	}
	return fmt.Sprintf("data:%s;base64,%s", i.MIMEType, base64.StdEncoding.EncodeToString(i.Data))
}

// IsImage reports whether the MIME type names an image.
func (i UploadedImage) IsImage() bool {
	return strings.HasPrefix(i.MIMEType, "image/")
}
