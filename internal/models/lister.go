package models

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// catalog groups the account's models by the pipeline stage that can use
// them.
type catalog struct {
	Speech   []string
	Image    []string
	Analysis []string
}

// Lister prints the OpenAI models each pipeline stage can be pointed at.
type Lister struct {
	apiKey string
	client *openai.Client
}

// NewLister creates a new model lister
func NewLister(apiKey string) *Lister {
	return &Lister{
		apiKey: apiKey,
		client: openai.NewClient(apiKey),
	}
}

// ListAvailableModels fetches the account's model list and prints the
// models usable for speech, image generation, and word analysis.
func (l *Lister) ListAvailableModels() error {
	if l.apiKey == "" {
		return fmt.Errorf("OpenAI API key not found. Set OPENAI_API_KEY environment variable or configure in .palabra.yaml")
	}

	resp, err := l.client.ListModels(context.Background())
	if err != nil {
		return fmt.Errorf("failed to list models: %w", err)
	}

	ids := make([]string, 0, len(resp.Models))
	for _, m := range resp.Models {
		ids = append(ids, m.ID)
	}
	cat := categorize(ids)

	fmt.Println("Available OpenAI models by pipeline stage:")
	printSection("Speech (--openai-model)", cat.Speech)
	printSection("Images (--openai-image-model)", cat.Image)
	printSection("Word analysis", cat.Analysis)
	return nil
}

// categorize buckets model IDs by pipeline stage. Chat models outside the
// gpt families the analysis prompt targets are dropped rather than listed.
func categorize(ids []string) catalog {
	var c catalog
	for _, id := range ids {
		switch {
		case strings.Contains(id, "tts"):
			c.Speech = append(c.Speech, id)
		case strings.Contains(id, "dall-e") || strings.HasPrefix(id, "gpt-image"):
			c.Image = append(c.Image, id)
		case strings.HasPrefix(id, "gpt-4") || strings.HasPrefix(id, "gpt-3.5"):
			c.Analysis = append(c.Analysis, id)
		}
	}
	sort.Strings(c.Speech)
	sort.Strings(c.Image)
	sort.Strings(c.Analysis)
	return c
}

func printSection(title string, models []string) {
	fmt.Printf("\n%s:\n", title)
	if len(models) == 0 {
		fmt.Println("  none found")
		return
	}
	for _, m := range models {
		fmt.Printf("  %s\n", m)
	}
}
