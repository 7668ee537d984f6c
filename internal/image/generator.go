// Package image generates memory-aid images for flashcards using an image
// generation API.
package image

import (
	"context"

	"github.com/avelez/palabra/internal/card"
)

// Request describes one image to generate.
type Request struct {
	Word        string
	Analysis    card.Analysis
	ExtraPrompt string // free-text user context, may be empty
	Sentence    string // selected sentence for cloze cards, may be empty
	OutputPath  string
}

// Generator defines the interface for image generation providers
type Generator interface {
	// Generate creates an image for the request and writes it to
	// Request.OutputPath.
	Generate(ctx context.Context, req Request) error

	// Name returns the name of the provider
	Name() string
}

// OpenAIConfig configures the OpenAI image client.
type OpenAIConfig struct {
	APIKey  string
	Model   string // "dall-e-3" or "dall-e-2"
	Size    string // e.g. "1024x1024"
	Quality string // "standard" or "hd" (dall-e-3 only)
	Style   string // "natural" or "vivid" (dall-e-3 only)
}

// DefaultOpenAIConfig returns sensible defaults for flashcard images.
func DefaultOpenAIConfig(apiKey string) *OpenAIConfig {
	return &OpenAIConfig{
		APIKey:  apiKey,
		Model:   "dall-e-3",
		Size:    "1024x1024",
		Quality: "standard",
		Style:   "natural",
	}
}
