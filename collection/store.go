// Package collection keeps the outfits a user saved across sessions.
package collection

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/raushankrgupta/stylis/models"
)

// Domain errors for collection operations.
var (
	ErrNotFound     = errors.New("saved outfit not found")
	ErrAlreadySaved = errors.New("outfit is already saved")
)

// MapHTTPStatus maps collection domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrAlreadySaved) {
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// Store is the in-memory view of the persisted collection, most recent first.
// Memory changes only after the backend accepted the rewritten list.
type Store struct {
	backend Backend
	logger  *zap.Logger

	mu      sync.RWMutex
	outfits []models.SavedOutfit

	now   func() time.Time
	newID func() string
}

// New loads the collection from backend. A record that cannot be read
// starts the store empty; it is never an error.
func New(ctx context.Context, backend Backend, logger *zap.Logger) *Store {
	s := &Store{
		backend: backend,
		logger:  logger.With(zap.String("system", "collection"), zap.String("backend", backend.Name())),
		now:     time.Now,
		newID:   uuid.NewString,
	}

	outfits, err := backend.Load(ctx)
	if err != nil {
		s.logger.Warn("failed to load saved collection, starting empty", zap.Error(err))
		outfits = []models.SavedOutfit{}
	}
	s.outfits = outfits

	s.logger.Info("collection loaded", zap.Int("count", len(outfits)))
	return s
}

// Save snapshots outfit together with the session's item and analysis and
// prepends it. A session without an original image or analysis makes Save a
// no-op returning nil, nil.
func (s *Store) Save(ctx context.Context, outfit models.GeneratedOutfit, state models.SessionState) (*models.SavedOutfit, error) {
	if state.OriginalImage == "" || state.Analysis == nil {
		s.logger.Debug("save skipped, session incomplete")
		return nil, nil
	}

	saved := models.SavedOutfit{
		GeneratedOutfit:  outfit.Clone(),
		ID:               s.newID(),
		OriginalItemURL:  state.OriginalImage,
		Timestamp:        s.now().UnixMilli(),
		ItemName:         state.Analysis.ItemName,
		StyleDescription: state.Analysis.StyleDescription,
		ColorPalette:     append([]string(nil), state.Analysis.ColorPalette...),
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	updated := make([]models.SavedOutfit, 0, len(s.outfits)+1)
	updated = append(updated, saved)
	updated = append(updated, s.outfits...)

	if err := s.backend.Replace(ctx, updated); err != nil {
		return nil, fmt.Errorf("failed to save outfit: %w", err)
	}
	s.outfits = updated

	s.logger.Info("outfit saved",
		zap.String("id", saved.ID),
		zap.String("category", string(saved.Category)),
		zap.Int("count", len(updated)),
	)
	return &saved, nil
}

// Remove drops the outfit with id. Unknown ids are a no-op.
func (s *Store) Remove(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	updated := make([]models.SavedOutfit, 0, len(s.outfits))
	for _, o := range s.outfits {
		if o.ID != id {
			updated = append(updated, o)
		}
	}
	if len(updated) == len(s.outfits) {
		return nil
	}

	if err := s.backend.Replace(ctx, updated); err != nil {
		return fmt.Errorf("failed to remove outfit: %w", err)
	}
	s.outfits = updated

	s.logger.Info("outfit removed", zap.String("id", id), zap.Int("count", len(updated)))
	return nil
}

// List returns a copy of the collection, most recent first.
func (s *Store) List() []models.SavedOutfit {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.SavedOutfit, len(s.outfits))
	for i, o := range s.outfits {
		out[i] = cloneSaved(o)
	}
	return out
}

func (s *Store) Find(id string) (models.SavedOutfit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, o := range s.outfits {
		if o.ID == id {
			return cloneSaved(o), nil
		}
	}
	return models.SavedOutfit{}, ErrNotFound
}

func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.outfits)
}

// ContainsImage reports whether a saved outfit carries imageURL. An empty
// reference is never saved.
func (s *Store) ContainsImage(imageURL string) bool {
	if imageURL == "" {
		return false
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, o := range s.outfits {
		if o.ImageURL == imageURL {
			return true
		}
	}
	return false
}

func cloneSaved(o models.SavedOutfit) models.SavedOutfit {
	o.GeneratedOutfit = o.GeneratedOutfit.Clone()
	o.ColorPalette = append([]string(nil), o.ColorPalette...)
	return o
}
