package models

// Category is one of the fixed outfit occasions a plan is written for.
type Category string

const (
	CategoryCasual   Category = "Casual"
	CategoryBusiness Category = "Business"
	CategoryNightOut Category = "Night Out"
)

// Categories lists every category in declaration order.
var Categories = []Category{CategoryCasual, CategoryBusiness, CategoryNightOut}

// Valid reports whether c is part of the fixed enumeration.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// OutfitPlan is one proposed look for a category
type OutfitPlan struct {
	Category         Category `bson:"category" json:"category"`
	Description      string   `bson:"description" json:"description"`
	RecommendedItems []string `bson:"recommended_items" json:"recommendedItems"`
}

// AnalysisResult represents the structured read of an uploaded clothing item
type AnalysisResult struct {
	ItemName         string       `bson:"item_name" json:"itemName"`
	StyleDescription string       `bson:"style_description" json:"styleDescription"`
	ColorPalette     []string     `bson:"color_palette" json:"colorPalette"` // 5 colors by convention
	Plans            []OutfitPlan `bson:"plans" json:"plans"`                // 3 plans by convention
}

// GeneratedOutfit is the rendered (or still rendering) look for one plan
type GeneratedOutfit struct {
	Category    Category `bson:"category" json:"category"`
	ImageURL    string   `bson:"image_url" json:"imageUrl"` // data URI, empty until the first render lands
	Description string   `bson:"description" json:"description"`
	IsLoading   bool     `bson:"is_loading" json:"isLoading"`
	EditHistory []string `bson:"edit_history" json:"editHistory"`
}

// Clone returns a copy that shares no slices with o.
func (o GeneratedOutfit) Clone() GeneratedOutfit {
	o.EditHistory = append([]string{}, o.EditHistory...)
	return o
}

// SavedOutfit is a self-contained snapshot of a look the user kept
type SavedOutfit struct {
	GeneratedOutfit  `bson:",inline"`
	ID               string   `bson:"id" json:"id"`
	OriginalItemURL  string   `bson:"original_item_url" json:"originalItemUrl"`
	Timestamp        int64    `bson:"timestamp" json:"timestamp"` // Unix milliseconds
	ItemName         string   `bson:"item_name" json:"itemName"`
	StyleDescription string   `bson:"style_description" json:"styleDescription"`
	ColorPalette     []string `bson:"color_palette" json:"colorPalette"`
}
