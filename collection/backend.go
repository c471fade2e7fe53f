package collection

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/raushankrgupta/stylis/models"
)

// Backend persists the whole collection as one named record.
type Backend interface {
	// Load returns the persisted list. An absent record is an empty list.
	Load(ctx context.Context) ([]models.SavedOutfit, error)
	// Replace rewrites the record with outfits in one step.
	Replace(ctx context.Context, outfits []models.SavedOutfit) error
	Name() string
}

// ErrCorrupted is returned when the persisted record cannot be decoded.
var ErrCorrupted = errors.New("collection record is corrupted")

// Encode serializes outfits as a JSON array. A nil list encodes as [].
func Encode(outfits []models.SavedOutfit) ([]byte, error) {
	if outfits == nil {
		outfits = []models.SavedOutfit{}
	}
	return json.Marshal(outfits)
}

// Decode parses a JSON array of saved outfits. Empty input is an empty list.
func Decode(data []byte) ([]models.SavedOutfit, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return []models.SavedOutfit{}, nil
	}

	var outfits []models.SavedOutfit
	if err := json.Unmarshal(data, &outfits); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupted, err)
	}
	if outfits == nil {
		outfits = []models.SavedOutfit{}
	}
	return outfits, nil
}
