package image

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sashabaranov/go-openai"
	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
)

// OpenAIClient generates images via the OpenAI image API.
type OpenAIClient struct {
	client  *openai.Client
	config  *OpenAIConfig
	breaker *gobreaker.CircuitBreaker

	lastPrompt string
}

// NewOpenAIClient creates a new OpenAI image generation client
func NewOpenAIClient(config *OpenAIConfig) *OpenAIClient {
	if config.Model == "" {
		config.Model = "dall-e-3"
	}
	if config.Size == "" {
		config.Size = "1024x1024"
	}

	return &OpenAIClient{
		client: openai.NewClient(config.APIKey),
		config: config,
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name: "openai-image",
		}),
	}
}

// Name returns the provider name
func (c *OpenAIClient) Name() string {
	return "openai"
}

// GetLastPrompt returns the prompt used by the most recent generation.
func (c *OpenAIClient) GetLastPrompt() string {
	return c.lastPrompt
}

// Generate creates an image for the request and writes it to the output path.
func (c *OpenAIClient) Generate(ctx context.Context, req Request) error {
	prompt := buildPrompt(req)
	c.lastPrompt = prompt

	logrus.WithFields(logrus.Fields{
		"word":    req.Word,
		"grammar": analysisSummary(req.Analysis),
	}).Debug("Generating image")

	return c.generate(ctx, prompt, req.OutputPath)
}

// GenerateMnemonic creates a mnemonic priming image from a phonetic
// description and writes it to outputPath.
func (c *OpenAIClient) GenerateMnemonic(ctx context.Context, word, description, outputPath string) error {
	prompt := buildMnemonicPrompt(word, description)
	c.lastPrompt = prompt

	logrus.WithField("word", word).Debug("Generating mnemonic image")

	return c.generate(ctx, prompt, outputPath)
}

func (c *OpenAIClient) generate(ctx context.Context, prompt, outputPath string) error {
	if c.config.APIKey == "" {
		return fmt.Errorf("OpenAI API key is required for image generation")
	}

	ctx, cancel := context.WithTimeout(ctx, 120*time.Second)
	defer cancel()

	req := openai.ImageRequest{
		Model:          c.config.Model,
		Prompt:         prompt,
		N:              1,
		Size:           c.config.Size,
		ResponseFormat: openai.CreateImageResponseFormatB64JSON,
	}
	if c.config.Model == "dall-e-3" {
		req.Quality = c.config.Quality
		req.Style = c.config.Style
	}

	result, err := c.breaker.Execute(func() (interface{}, error) {
		return c.client.CreateImage(ctx, req)
	})
	if err != nil {
		return fmt.Errorf("OpenAI image API error: %w", err)
	}

	resp := result.(openai.ImageResponse)
	if len(resp.Data) == 0 || resp.Data[0].B64JSON == "" {
		return fmt.Errorf("no image data received from API")
	}

	data, err := base64.StdEncoding.DecodeString(resp.Data[0].B64JSON)
	if err != nil {
		return fmt.Errorf("failed to decode image payload: %w", err)
	}

	if dir := filepath.Dir(outputPath); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(outputPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write image file: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"path":  outputPath,
		"bytes": len(data),
	}).Info("Image saved")

	return nil
}
