// Package session owns the live styling session: upload, analysis, the
// sequential outfit generation pass, per-outfit edits and reset.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/raushankrgupta/stylis/models"
)

const (
	analysisFailedMessage = "Style analysis failed. Check the image and try again."
	editFailedMessage     = "Could not process your edit for %s."

	accessoriesHint = "Ensure to include relevant accessories like hats, watches, or bags that complete this look."
	editWrap        = "Apply this styling change: %s. Maintain the item and original flat-lay composition."
	fallbackItem    = "clothing item"
)

// Analyzer reads an uploaded item into outfit plans.
type Analyzer interface {
	AnalyzeClothingItem(ctx context.Context, img models.UploadedImage) (*models.AnalysisResult, error)
}

// Generator renders a look for one plan.
type Generator interface {
	GenerateOutfitImage(ctx context.Context, itemDescription, plan string, source models.UploadedImage) (string, error)
}

// Editor refines an existing render.
type Editor interface {
	EditOutfitImage(ctx context.Context, currentImage, instruction string) (string, error)
}

// Session is the single live styling session. Every upload and reset starts
// a new generation; results tagged with an older generation are dropped.
type Session struct {
	analyzer  Analyzer
	generator Generator
	editor    Editor
	logger    *zap.Logger

	mu         sync.Mutex
	generation uint64
	state      models.SessionState
	source     models.UploadedImage

	// pending holds one channel per category, closed once the initial
	// pass has resolved every plan of that category.
	pending   map[models.Category]chan struct{}
	remaining map[models.Category]int
	editing   map[models.Category]bool

	wg sync.WaitGroup
}

// New creates an idle Session.
func New(analyzer Analyzer, generator Generator, editor Editor, logger *zap.Logger) *Session {
	s := &Session{
		analyzer:  analyzer,
		generator: generator,
		editor:    editor,
		logger:    logger.With(zap.String("system", "session")),
	}
	s.clear()
	return s
}

// Upload starts a new session for img and runs the analysis. On success the
// outfit placeholders exist when Upload returns and the generation pass
// continues in the background.
func (s *Session) Upload(ctx context.Context, img models.UploadedImage) error {
	if len(img.Data) == 0 {
		return ErrNoImage
	}
	// In-flight calls outlive the request that started them.
	ctx = context.WithoutCancel(ctx)

	s.mu.Lock()
	s.clear()
	gen := s.generation
	s.source = img
	s.state = models.SessionState{
		Phase:         models.PhaseAnalyzing,
		OriginalImage: img.DataURI(),
		IsAnalyzing:   true,
	}
	s.mu.Unlock()

	start := time.Now()
	analysis, err := s.analyzer.AnalyzeClothingItem(ctx, img)

	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.generation {
		s.logger.Info("discarding analysis for superseded session", zap.Uint64("generation", gen))
		return ErrStaleSession
	}

	if err != nil {
		s.state.Phase = models.PhaseIdle
		s.state.IsAnalyzing = false
		s.state.Error = analysisFailedMessage
		s.logger.Error("analysis failed", zap.Uint64("generation", gen), zap.Error(err))
		return err
	}

	s.state.Analysis = analysis
	s.state.Outfits = make([]models.GeneratedOutfit, 0, len(analysis.Plans))
	for _, plan := range analysis.Plans {
		s.state.Outfits = append(s.state.Outfits, models.GeneratedOutfit{
			Category:    plan.Category,
			Description: plan.Description,
			IsLoading:   true,
			EditHistory: []string{},
		})
		if _, ok := s.pending[plan.Category]; !ok {
			s.pending[plan.Category] = make(chan struct{})
		}
		s.remaining[plan.Category]++
	}
	s.state.Phase = models.PhaseReady
	s.state.IsAnalyzing = false

	s.logger.Info("analysis complete",
		zap.Uint64("generation", gen),
		zap.String("item", analysis.ItemName),
		zap.Int("plans", len(analysis.Plans)),
		zap.Duration("latency", time.Since(start)),
	)

	s.wg.Add(1)
	go s.generateAll(ctx, gen, analysis.ItemName, clonePlans(analysis.Plans), img)
	return nil
}

// generateAll renders each plan in order, one call at a time.
func (s *Session) generateAll(ctx context.Context, gen uint64, itemName string, plans []models.OutfitPlan, source models.UploadedImage) {
	defer s.wg.Done()

	for i, plan := range plans {
		if !s.isCurrent(gen) {
			s.logger.Debug("generation pass stopped, session superseded", zap.Uint64("generation", gen), zap.Int("plan", i))
			return
		}

		planText := fmt.Sprintf("%s: %s. %s", plan.Category, plan.Description, accessoriesHint)
		imageURL, err := s.generator.GenerateOutfitImage(ctx, itemName, planText, source)

		s.mu.Lock()
		if gen != s.generation {
			s.mu.Unlock()
			s.logger.Debug("discarding render for superseded session", zap.Uint64("generation", gen), zap.String("category", string(plan.Category)))
			return
		}
		s.updateOutfits(plan.Category, func(o *models.GeneratedOutfit) {
			if err == nil {
				o.ImageURL = imageURL
			}
			o.IsLoading = false
		})
		s.resolvePending(plan.Category)
		s.mu.Unlock()

		if err != nil {
			s.logger.Warn("outfit generation failed", zap.String("category", string(plan.Category)), zap.Error(err))
			continue
		}
		s.logger.Info("outfit rendered", zap.String("category", string(plan.Category)))
	}
}

// Edit refines the outfit for category. An outfit with a render goes through
// the editor; one whose render failed is generated afresh. The instruction is
// recorded in the edit history only on the editor branch.
func (s *Session) Edit(ctx context.Context, category models.Category, instruction string) (models.GeneratedOutfit, error) {
	return s.EditAt(ctx, s.Generation(), category, instruction)
}

// EditAt is Edit for the session generation gen. It fails with
// ErrStaleSession when gen is no longer current.
func (s *Session) EditAt(ctx context.Context, gen uint64, category models.Category, instruction string) (models.GeneratedOutfit, error) {
	s.mu.Lock()
	if gen != s.generation {
		s.mu.Unlock()
		return models.GeneratedOutfit{}, ErrStaleSession
	}
	if _, ok := s.state.Outfit(category); !ok {
		s.mu.Unlock()
		return models.GeneratedOutfit{}, fmt.Errorf("%w: %s", ErrOutfitNotFound, category)
	}
	wait := s.pending[category]
	s.mu.Unlock()

	if wait != nil {
		select {
		case <-wait:
		case <-ctx.Done():
			return models.GeneratedOutfit{}, ctx.Err()
		}
	}

	s.mu.Lock()
	if gen != s.generation {
		s.mu.Unlock()
		return models.GeneratedOutfit{}, ErrStaleSession
	}
	if s.editing[category] {
		s.mu.Unlock()
		return models.GeneratedOutfit{}, fmt.Errorf("%w: %s", ErrOutfitBusy, category)
	}
	outfit, _ := s.state.Outfit(category)
	s.editing[category] = true
	s.updateOutfits(category, func(o *models.GeneratedOutfit) { o.IsLoading = true })

	itemName := fallbackItem
	if s.state.Analysis != nil && s.state.Analysis.ItemName != "" {
		itemName = s.state.Analysis.ItemName
	}
	source := s.source
	s.mu.Unlock()

	callCtx := context.WithoutCancel(ctx)
	edited := outfit.ImageURL != ""

	var (
		imageURL string
		err      error
	)
	if edited {
		imageURL, err = s.editor.EditOutfitImage(callCtx, outfit.ImageURL, fmt.Sprintf(editWrap, instruction))
	} else {
		plan := fmt.Sprintf("%s style refined with: %s", category, instruction)
		imageURL, err = s.generator.GenerateOutfitImage(callCtx, itemName, plan, source)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.generation {
		s.logger.Info("discarding edit for superseded session", zap.String("category", string(category)))
		return models.GeneratedOutfit{}, ErrStaleSession
	}
	delete(s.editing, category)

	if err != nil {
		s.updateOutfits(category, func(o *models.GeneratedOutfit) { o.IsLoading = false })
		s.state.Error = fmt.Sprintf(editFailedMessage, category)
		s.logger.Warn("outfit edit failed", zap.String("category", string(category)), zap.Bool("edit_branch", edited), zap.Error(err))
		return models.GeneratedOutfit{}, err
	}

	s.updateOutfits(category, func(o *models.GeneratedOutfit) {
		o.ImageURL = imageURL
		o.IsLoading = false
		if edited {
			o.EditHistory = append(o.EditHistory, instruction)
		}
	})
	s.logger.Info("outfit refined", zap.String("category", string(category)), zap.Bool("edit_branch", edited))

	updated, _ := s.state.Outfit(category)
	return updated.Clone(), nil
}

// Reset returns the session to idle. In-flight calls finish but their
// results are dropped.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clear()
	s.logger.Info("session reset", zap.Uint64("generation", s.generation))
}

// DismissError clears the session-level error message.
func (s *Session) DismissError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Error = ""
}

// Snapshot returns a deep copy of the current state.
func (s *Session) Snapshot() models.SessionState {
	state, _ := s.Current()
	return state
}

// Current returns a deep copy of the state together with the generation it
// belongs to.
func (s *Session) Current() (models.SessionState, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneState(s.state), s.generation
}

// Generation returns the current session generation.
func (s *Session) Generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generation
}

// Wait blocks until every background generation pass has returned.
func (s *Session) Wait() {
	s.wg.Wait()
}

func (s *Session) isCurrent(gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return gen == s.generation
}

// clear bumps the generation and drops all per-session bookkeeping. Edits
// waiting on the old pass are released so they observe the new generation.
// Callers hold mu.
func (s *Session) clear() {
	for _, ch := range s.pending {
		close(ch)
	}
	s.generation++
	s.state = models.SessionState{Phase: models.PhaseIdle}
	s.source = models.UploadedImage{}
	s.pending = make(map[models.Category]chan struct{})
	s.remaining = make(map[models.Category]int)
	s.editing = make(map[models.Category]bool)
}

// resolvePending marks one plan of category as resolved. Callers hold mu.
func (s *Session) resolvePending(category models.Category) {
	s.remaining[category]--
	if s.remaining[category] > 0 {
		return
	}
	if ch, ok := s.pending[category]; ok {
		close(ch)
		delete(s.pending, category)
	}
	delete(s.remaining, category)
}

// updateOutfits applies fn to every outfit of category. Callers hold mu.
func (s *Session) updateOutfits(category models.Category, fn func(*models.GeneratedOutfit)) {
	for i := range s.state.Outfits {
		if s.state.Outfits[i].Category == category {
			fn(&s.state.Outfits[i])
		}
	}
}

func cloneState(state models.SessionState) models.SessionState {
	if state.Analysis != nil {
		analysis := *state.Analysis
		analysis.ColorPalette = append([]string(nil), analysis.ColorPalette...)
		analysis.Plans = clonePlans(analysis.Plans)
		state.Analysis = &analysis
	}
	if state.Outfits != nil {
		outfits := make([]models.GeneratedOutfit, len(state.Outfits))
		for i, o := range state.Outfits {
			outfits[i] = o.Clone()
		}
		state.Outfits = outfits
	}
	return state
}

func clonePlans(plans []models.OutfitPlan) []models.OutfitPlan {
	if plans == nil {
		return nil
	}
	out := make([]models.OutfitPlan, len(plans))
	for i, p := range plans {
		p.RecommendedItems = append([]string(nil), p.RecommendedItems...)
		out[i] = p
	}
	return out
}
