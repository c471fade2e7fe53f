package models

// Phase is the coarse position of a styling session.
type Phase string

const (
	PhaseIdle      Phase = "idle"
	PhaseAnalyzing Phase = "analyzing"
	PhaseReady     Phase = "ready"
)

// SessionState is what the presentation layer reads about the live session
type SessionState struct {
	Phase         Phase             `json:"phase"`
	OriginalImage string            `json:"originalImage"` // data URI, empty when idle
	Analysis      *AnalysisResult   `json:"analysis"`
	Outfits       []GeneratedOutfit `json:"outfits"`
	IsAnalyzing   bool              `json:"isAnalyzing"`
	Error         string            `json:"error,omitempty"`
}

// Outfit returns the first outfit for the category.
func (s SessionState) Outfit(category Category) (GeneratedOutfit, bool) {
	for _, o := range s.Outfits {
		if o.Category == category {
			return o, true
		}
	}
	return GeneratedOutfit{}, false
}
