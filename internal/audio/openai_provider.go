package audio

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
)

// Voices that handle Spanish pronunciation well. A random one is picked per
// request unless the config pins a voice, so regenerating audio gives the
// learner a different speaker.
var spanishVoices = []string{"alloy", "coral", "echo", "fable", "nova", "onyx", "shimmer"}

const speechInstruction = "You are speaking Latin American Spanish (español latinoamericano). " +
	"Pronounce the text with authentic Spanish phonetics. Speak slowly and clearly for language learners."

// OpenAIProvider implements Provider using OpenAI TTS.
type OpenAIProvider struct {
	client  *openai.Client
	config  *Config
	breaker *gobreaker.CircuitBreaker
}

// NewOpenAIProvider creates a new OpenAI TTS provider
func NewOpenAIProvider(config *Config) (Provider, error) {
	if config.OpenAIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	return &OpenAIProvider{
		client: openai.NewClient(config.OpenAIKey),
		config: config,
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name: "openai-tts",
		}),
	}, nil
}

// GenerateAudio synthesizes text to outputFile. When no voice is pinned it
// tries random voices; an authorization or model-access failure moves on to
// the next voice before giving up.
func (p *OpenAIProvider) GenerateAudio(ctx context.Context, text string, outputFile string) error {
	voices := p.voiceCandidates()

	var lastErr error
	for i, voice := range voices {
		err := p.generateWithVoice(ctx, text, outputFile, voice)
		if err == nil {
			return nil
		}
		lastErr = err

		if !isVoiceAccessError(err) {
			return err
		}
		logrus.WithFields(logrus.Fields{
			"voice":     voice,
			"remaining": len(voices) - i - 1,
			"error":     err.Error(),
		}).Warn("Voice unavailable, retrying with another")
	}

	return fmt.Errorf("all voices failed: %w", lastErr)
}

func (p *OpenAIProvider) voiceCandidates() []string {
	if p.config.OpenAIVoice != "" {
		return []string{p.config.OpenAIVoice}
	}
	shuffled := make([]string, len(spanishVoices))
	copy(shuffled, spanishVoices)
	rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	return shuffled
}

func (p *OpenAIProvider) generateWithVoice(ctx context.Context, text, outputFile, voice string) error {
	ctx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	req := openai.CreateSpeechRequest{
		Model: openai.SpeechModel(p.config.OpenAIModel),
		Input: preprocessText(text),
		Voice: openai.SpeechVoice(voice),
		Speed: p.config.OpenAISpeed,
	}
	if p.config.OpenAIModel == "gpt-4o-mini-tts" {
		req.Instructions = speechInstruction
	}

	switch strings.ToLower(filepath.Ext(outputFile)) {
	case ".wav":
		req.ResponseFormat = openai.SpeechResponseFormatWav
	default:
		req.ResponseFormat = openai.SpeechResponseFormatMp3
	}

	result, err := p.breaker.Execute(func() (interface{}, error) {
		return p.client.CreateSpeech(ctx, req)
	})
	if err != nil {
		return fmt.Errorf("OpenAI TTS API error: %w", err)
	}

	response := result.(openai.RawResponse)
	defer response.Close()

	if dir := filepath.Dir(outputFile); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	out, err := os.Create(outputFile)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer out.Close()

	written, err := io.Copy(out, response)
	if err != nil {
		return fmt.Errorf("failed to write audio file: %w", err)
	}
	if written == 0 {
		return fmt.Errorf("no audio data received from OpenAI")
	}

	logrus.WithFields(logrus.Fields{
		"path":  outputFile,
		"voice": voice,
		"bytes": written,
	}).Info("Audio saved")

	return nil
}

// Name returns the provider name
func (p *OpenAIProvider) Name() string {
	return "openai"
}

// IsAvailable checks if the OpenAI API is accessible
func (p *OpenAIProvider) IsAvailable() error {
	if p.config.OpenAIKey == "" {
		return fmt.Errorf("OpenAI API key not configured")
	}
	return nil
}

// preprocessText strips punctuation that should not be spoken from single
// words. Full sentences are passed through unchanged since their punctuation
// shapes the prosody.
func preprocessText(text string) string {
	text = strings.TrimSpace(text)
	if strings.Contains(text, " ") {
		return text
	}

	punctuation := []string{"!", "?", ".", ",", ";", ":", "\"", "'", "(", ")", "[", "]", "{", "}", "¡", "¿"}
	for _, punct := range punctuation {
		text = strings.ReplaceAll(text, punct, "")
	}
	return strings.TrimSpace(text)
}

// isVoiceAccessError reports whether the failure looks like a voice- or
// model-tier authorization problem worth retrying with a different voice.
func isVoiceAccessError(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "does not have access") ||
		strings.Contains(msg, "voice") && strings.Contains(msg, "not") ||
		strings.Contains(msg, "401") ||
		strings.Contains(msg, "403")
}
