// Package stylist wraps the Gemini calls behind the styling flow: reading an
// uploaded item, rendering a flat-lay per outfit plan, and refining a render.
package stylist

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"github.com/raushankrgupta/stylis/models"
)

// Options configures a Client.
type Options struct {
	APIKey        string
	AnalysisModel string
	ImageModel    string
	Timeout       time.Duration
}

// Client issues analysis, generation and edit requests against Gemini.
type Client struct {
	genai         *genai.Client
	analysisModel string
	imageModel    string
	timeout       time.Duration
	logger        *zap.Logger
}

// NewClient creates a Gemini-backed Client. Call Close when done.
func NewClient(ctx context.Context, opts Options, logger *zap.Logger) (*Client, error) {
	if opts.APIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is not set")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(opts.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &Client{
		genai:         client,
		analysisModel: opts.AnalysisModel,
		imageModel:    opts.ImageModel,
		timeout:       opts.Timeout,
		logger:        logger.With(zap.String("system", "stylist")),
	}, nil
}

// Close releases the underlying Gemini connection.
func (c *Client) Close() error {
	return c.genai.Close()
}

// AnalyzeClothingItem reads the item and proposes one plan per category.
func (c *Client) AnalyzeClothingItem(ctx context.Context, img models.UploadedImage) (*models.AnalysisResult, error) {
	start := time.Now()

	var result *models.AnalysisResult
	err := c.call(ctx, ErrAnalysisFailed, func(ctx context.Context) error {
		model := c.genai.GenerativeModel(c.analysisModel)
		model.ResponseMIMEType = "application/json"
		model.ResponseSchema = analysisSchema()

		resp, err := model.GenerateContent(ctx, imagePart(img), genai.Text(analysisPrompt))
		if err != nil {
			return err
		}
		result, err = parseAnalysis(responseText(resp))
		return err
	})
	if err != nil {
		return nil, err
	}

	c.logger.Info("item analyzed",
		zap.String("item", result.ItemName),
		zap.Int("plans", len(result.Plans)),
		zap.Duration("latency", time.Since(start)),
	)
	return result, nil
}

// GenerateOutfitImage renders a flat-lay for plan featuring the source item.
// The returned reference is a data URI.
func (c *Client) GenerateOutfitImage(ctx context.Context, itemDescription, plan string, source models.UploadedImage) (string, error) {
	return c.renderImage(ctx, ErrGenerationFailed, source, generationPrompt(itemDescription, plan))
}

// EditOutfitImage refines a previous render. currentImage must be a data URI.
func (c *Client) EditOutfitImage(ctx context.Context, currentImage, instruction string) (string, error) {
	current, err := models.ParseDataURI(currentImage)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrEditFailed, err)
	}

	return c.renderImage(ctx, ErrEditFailed, current, editPrompt(instruction))
}

func (c *Client) renderImage(ctx context.Context, failure error, img models.UploadedImage, prompt string) (string, error) {
	start := time.Now()

	var rendered models.UploadedImage
	err := c.call(ctx, failure, func(ctx context.Context) error {
		model := c.genai.GenerativeModel(c.imageModel)

		resp, err := model.GenerateContent(ctx, imagePart(img), genai.Text(prompt))
		if err != nil {
			return err
		}
		rendered, err = extractImage(resp)
		return err
	})
	if err != nil {
		return "", err
	}

	c.logger.Info("image rendered",
		zap.String("mime_type", rendered.MIMEType),
		zap.Int("bytes", len(rendered.Data)),
		zap.Duration("latency", time.Since(start)),
	)
	return rendered.DataURI(), nil
}

// call runs fn under the configured timeout and wraps any failure, a
// deadline included, in failure.
func (c *Client) call(ctx context.Context, failure error, fn func(context.Context) error) error {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	if err := fn(ctx); err != nil {
		return fmt.Errorf("%w: %w", failure, err)
	}
	return nil
}

func (c *Client) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.timeout)
}

func imagePart(img models.UploadedImage) genai.Blob {
	mimeType := img.MIMEType
	if mimeType == "" {
		mimeType = "image/jpeg"
	}
	return genai.Blob{MIMEType: mimeType, Data: img.Data}
}

// extractImage returns the first inline image across all candidates and parts.
func extractImage(resp *genai.GenerateContentResponse) (models.UploadedImage, error) {
	if resp == nil {
		return models.UploadedImage{}, ErrNoImage
	}

	for _, cand := range resp.Candidates {
		if cand == nil || cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			blob, ok := part.(genai.Blob)
			if !ok || len(blob.Data) == 0 || !strings.HasPrefix(blob.MIMEType, "image/") {
				continue
			}
			return models.UploadedImage{MIMEType: blob.MIMEType, Data: blob.Data}, nil
		}
	}

	return models.UploadedImage{}, ErrNoImage
}

// responseText joins the text parts of the first candidate.
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	return sb.String()
}
