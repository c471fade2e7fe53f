package stylist

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"

	"github.com/raushankrgupta/stylis/models"
)

func analysisSchema() *genai.Schema {
	categories := make([]string, 0, len(models.Categories))
	for _, c := range models.Categories {
		categories = append(categories, string(c))
	}

	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"itemName":         {Type: genai.TypeString},
			"styleDescription": {Type: genai.TypeString},
			"colorPalette": {
				Type:  genai.TypeArray,
				Items: &genai.Schema{Type: genai.TypeString},
			},
			"plans": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"category":    {Type: genai.TypeString, Enum: categories},
						"description": {Type: genai.TypeString},
						"recommendedItems": {
							Type:        genai.TypeArray,
							Items:       &genai.Schema{Type: genai.TypeString},
							Description: "Include specific pieces AND accessories.",
						},
					},
					Required: []string{"category", "description", "recommendedItems"},
				},
			},
		},
		Required: []string{"itemName", "styleDescription", "colorPalette", "plans"},
	}
}

// Pointer fields tell a missing key apart from an empty value.
type rawPlan struct {
	Category         *string   `json:"category"`
	Description      *string   `json:"description"`
	RecommendedItems *[]string `json:"recommendedItems"`
}

type rawAnalysis struct {
	ItemName         *string    `json:"itemName"`
	StyleDescription *string    `json:"styleDescription"`
	ColorPalette     *[]string  `json:"colorPalette"`
	Plans            *[]rawPlan `json:"plans"`
}

// parseAnalysis decodes the model's JSON and rejects anything outside the schema.
func parseAnalysis(content string) (*models.AnalysisResult, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("%w: empty response", ErrMalformedAnalysis)
	}

	dec := json.NewDecoder(bytes.NewReader([]byte(content)))
	dec.DisallowUnknownFields()

	var raw rawAnalysis
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedAnalysis, err)
	}
	if dec.More() {
		return nil, fmt.Errorf("%w: trailing content", ErrMalformedAnalysis)
	}

	switch {
	case raw.ItemName == nil:
		return nil, fmt.Errorf("%w: missing itemName", ErrMalformedAnalysis)
	case raw.StyleDescription == nil:
		return nil, fmt.Errorf("%w: missing styleDescription", ErrMalformedAnalysis)
	case raw.ColorPalette == nil:
		return nil, fmt.Errorf("%w: missing colorPalette", ErrMalformedAnalysis)
	case raw.Plans == nil:
		return nil, fmt.Errorf("%w: missing plans", ErrMalformedAnalysis)
	}

	result := &models.AnalysisResult{
		ItemName:         *raw.ItemName,
		StyleDescription: *raw.StyleDescription,
		ColorPalette:     *raw.ColorPalette,
		Plans:            make([]models.OutfitPlan, 0, len(*raw.Plans)),
	}

	for i, p := range *raw.Plans {
		if p.Category == nil || p.Description == nil || p.RecommendedItems == nil {
			return nil, fmt.Errorf("%w: plan %d is missing a required field", ErrMalformedAnalysis, i)
		}
		category := models.Category(*p.Category)
		if !category.Valid() {
			return nil, fmt.Errorf("%w: plan %d has unknown category %q", ErrMalformedAnalysis, i, *p.Category)
		}
		result.Plans = append(result.Plans, models.OutfitPlan{
			Category:         category,
			Description:      *p.Description,
			RecommendedItems: *p.RecommendedItems,
		})
	}

	return result, nil
}
