package stylist

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"

	"github.com/raushankrgupta/stylis/models"
)

const validAnalysis = `{
  "itemName": "Denim Jacket",
  "styleDescription": "Relaxed streetwear staple in mid-wash denim",
  "colorPalette": ["#1f3a5f", "#f5f0e6", "#c0392b", "#2d2d2d", "#d4a373"],
  "plans": [
    {"category": "Casual", "description": "White tee and chinos", "recommendedItems": ["white sneakers", "canvas tote", "cap"]},
    {"category": "Business", "description": "Over a knit polo", "recommendedItems": ["loafers", "leather watch", "briefcase"]},
    {"category": "Night Out", "description": "Black jeans and boots", "recommendedItems": ["chelsea boots", "silver chain", "crossbody bag"]}
  ]
}`

func TestParseAnalysis(t *testing.T) {
	result, err := parseAnalysis(validAnalysis)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	if result.ItemName != "Denim Jacket" {
		t.Errorf("item name: got %s", result.ItemName)
	}
	if len(result.ColorPalette) != 5 {
		t.Errorf("palette: got %d colors, want 5", len(result.ColorPalette))
	}
	if len(result.Plans) != 3 {
		t.Fatalf("plans: got %d, want 3", len(result.Plans))
	}

	want := []models.Category{models.CategoryCasual, models.CategoryBusiness, models.CategoryNightOut}
	for i, c := range want {
		if result.Plans[i].Category != c {
			t.Errorf("plan %d: got %s, want %s", i, result.Plans[i].Category, c)
		}
	}
	if result.Plans[2].RecommendedItems[0] != "chelsea boots" {
		t.Errorf("recommended items not preserved: %v", result.Plans[2].RecommendedItems)
	}
}

func TestParseAnalysisPaletteLengthNotEnforced(t *testing.T) {
	content := `{"itemName":"Scarf","styleDescription":"silk","colorPalette":["#fff"],"plans":[]}`
	result, err := parseAnalysis(content)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if len(result.ColorPalette) != 1 || len(result.Plans) != 0 {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestParseAnalysisRejectsNonConforming(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"empty", ""},
		{"not json", "Here is your outfit!"},
		{"missing plans", `{"itemName":"a","styleDescription":"b","colorPalette":[]}`},
		{"missing item name", `{"styleDescription":"b","colorPalette":[],"plans":[]}`},
		{"unknown field", `{"itemName":"a","styleDescription":"b","colorPalette":[],"plans":[],"mood":"x"}`},
		{"bad category", `{"itemName":"a","styleDescription":"b","colorPalette":[],"plans":[{"category":"Beach","description":"d","recommendedItems":[]}]}`},
		{"plan missing items", `{"itemName":"a","styleDescription":"b","colorPalette":[],"plans":[{"category":"Casual","description":"d"}]}`},
		{"wrong type", `{"itemName":1,"styleDescription":"b","colorPalette":[],"plans":[]}`},
		{"trailing content", `{"itemName":"a","styleDescription":"b","colorPalette":[],"plans":[]} {}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseAnalysis(tt.content)
			if !errors.Is(err, ErrMalformedAnalysis) {
				t.Fatalf("expected ErrMalformedAnalysis, got %v", err)
			}
		})
	}
}

func TestExtractImageFindsFirstInlineImage(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: &genai.Content{Parts: []genai.Part{
				genai.Text("Here is the look"),
				genai.Blob{MIMEType: "application/json", Data: []byte("{}")},
			}}},
			{Content: &genai.Content{Parts: []genai.Part{
				genai.Blob{MIMEType: "image/png", Data: []byte("first")},
				genai.Blob{MIMEType: "image/png", Data: []byte("second")},
			}}},
		},
	}

	img, err := extractImage(resp)
	if err != nil {
		t.Fatalf("extract failed: %v", err)
	}
	if string(img.Data) != "first" {
		t.Errorf("got %q, want first", img.Data)
	}
	if !strings.HasPrefix(img.DataURI(), "data:image/png;base64,") {
		t.Errorf("unexpected data uri %s", img.DataURI())
	}
}

func TestExtractImageFailsWithoutImage(t *testing.T) {
	tests := []struct {
		name string
		resp *genai.GenerateContentResponse
	}{
		{"nil response", nil},
		{"no candidates", &genai.GenerateContentResponse{}},
		{"nil content", &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{}}}},
		{"text only", &genai.GenerateContentResponse{Candidates: []*genai.Candidate{
			{Content: &genai.Content{Parts: []genai.Part{genai.Text("I cannot draw that")}}},
		}}},
		{"empty blob", &genai.GenerateContentResponse{Candidates: []*genai.Candidate{
			{Content: &genai.Content{Parts: []genai.Part{genai.Blob{MIMEType: "image/png"}}}},
		}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := extractImage(tt.resp); !errors.Is(err, ErrNoImage) {
				t.Fatalf("expected ErrNoImage, got %v", err)
			}
		})
	}
}

func TestResponseTextJoinsFirstCandidate(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: &genai.Content{Parts: []genai.Part{genai.Text(`{"a":`), genai.Text(`1}`)}}},
			{Content: &genai.Content{Parts: []genai.Part{genai.Text("ignored")}}},
		},
	}
	if got := responseText(resp); got != `{"a":1}` {
		t.Errorf("got %s", got)
	}
}

func TestAnalysisSchemaConstrainsCategory(t *testing.T) {
	schema := analysisSchema()
	plans := schema.Properties["plans"]
	if plans == nil || plans.Items == nil {
		t.Fatal("schema is missing plans items")
	}

	enum := plans.Items.Properties["category"].Enum
	if len(enum) != 3 || enum[0] != "Casual" || enum[1] != "Business" || enum[2] != "Night Out" {
		t.Errorf("unexpected category enum %v", enum)
	}
	if len(schema.Required) != 4 {
		t.Errorf("expected 4 required fields, got %v", schema.Required)
	}
}

func TestPromptsCarryInputs(t *testing.T) {
	gen := generationPrompt("Denim Jacket", "Casual: white tee")
	if !strings.Contains(gen, "Denim Jacket") || !strings.Contains(gen, "Casual: white tee") || !strings.Contains(gen, AspectRatio) {
		t.Errorf("generation prompt missing inputs: %s", gen)
	}

	edit := editPrompt("add red heels")
	if !strings.Contains(edit, "add red heels") || !strings.Contains(edit, "composition") {
		t.Errorf("edit prompt missing inputs: %s", edit)
	}
}

func TestNewClientRequiresAPIKey(t *testing.T) {
	if _, err := NewClient(t.Context(), Options{}, nil); err == nil {
		t.Fatal("expected error without api key")
	}
}

func TestCallWrapsTimeoutInFailure(t *testing.T) {
	c := &Client{timeout: 10 * time.Millisecond, logger: zap.NewNop()}
	waitForDeadline := func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	}

	for _, failure := range []error{ErrAnalysisFailed, ErrGenerationFailed, ErrEditFailed} {
		t.Run(failure.Error(), func(t *testing.T) {
			err := c.call(context.Background(), failure, waitForDeadline)
			if !errors.Is(err, failure) {
				t.Errorf("expected %v, got %v", failure, err)
			}
			if !errors.Is(err, context.DeadlineExceeded) {
				t.Errorf("expected deadline exceeded, got %v", err)
			}
			if MapHTTPStatus(err) != http.StatusBadGateway {
				t.Errorf("status: got %d, want 502", MapHTTPStatus(err))
			}
		})
	}
}

func TestCallHonorsExpiredParent(t *testing.T) {
	c := &Client{timeout: time.Minute, logger: zap.NewNop()}
	ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancel()

	err := c.call(ctx, ErrGenerationFailed, func(ctx context.Context) error {
		return ctx.Err()
	})
	if !errors.Is(err, ErrGenerationFailed) || !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected wrapped deadline, got %v", err)
	}
}

func TestCallWithoutTimeoutSucceeds(t *testing.T) {
	c := &Client{logger: zap.NewNop()}
	err := c.call(context.Background(), ErrAnalysisFailed, func(ctx context.Context) error {
		if _, ok := ctx.Deadline(); ok {
			t.Error("unexpected deadline without a configured timeout")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
}
