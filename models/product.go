package models

// Product is the part of a shop listing needed to import a clothing item
type Product struct {
	Title     string   `json:"title"`
	SourceURL string   `json:"source_url"`
	Images    []string `json:"image_paths"` // main product image first
}

// MainImage returns the first product image, or "" when none was found.
func (p *Product) MainImage() string {
	if p == nil || len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}
