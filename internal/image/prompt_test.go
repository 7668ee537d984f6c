package image

import (
	"strings"
	"testing"

	"github.com/avelez/palabra/internal/card"
)

func TestBuildPrompt(t *testing.T) {
	tests := []struct {
		name         string
		req          Request
		wantContains []string
		wantAbsent   []string
	}{
		{
			name: "verb emphasizes action",
			req: Request{
				Word:     "correr",
				Analysis: card.Analysis{PartOfSpeech: "verb", VerbType: "intransitive"},
			},
			wantContains: []string{"correr", "action", "movement"},
		},
		{
			name: "adjective shows shared quality",
			req: Request{
				Word:     "grande",
				Analysis: card.Analysis{PartOfSpeech: "adjective"},
			},
			wantContains: []string{"grande", "objects", "quality"},
		},
		{
			name: "masculine noun burns",
			req: Request{
				Word:     "perro",
				Analysis: card.Analysis{PartOfSpeech: "noun", Gender: "masculine"},
			},
			wantContains: []string{"perro", "fiery", "masculine"},
			wantAbsent:   []string{"ice", "frost"},
		},
		{
			name: "feminine noun freezes",
			req: Request{
				Word:     "casa",
				Analysis: card.Analysis{PartOfSpeech: "noun", Gender: "feminine"},
			},
			wantContains: []string{"casa", "icy", "feminine"},
			wantAbsent:   []string{"flames", "fire"},
		},
		{
			name: "other parts of speech are generic",
			req: Request{
				Word:     "aunque",
				Analysis: card.Analysis{PartOfSpeech: "conjunction"},
			},
			wantContains: []string{"aunque", "educational"},
		},
		{
			name: "extra prompt appended",
			req: Request{
				Word:        "casa",
				Analysis:    card.Analysis{PartOfSpeech: "noun", Gender: "feminine"},
				ExtraPrompt: "make it a beach house",
			},
			wantContains: []string{"make it a beach house"},
		},
		{
			name: "sentence context included",
			req: Request{
				Word:     "correr",
				Analysis: card.Analysis{PartOfSpeech: "verb"},
				Sentence: "Yo corro todos los días.",
			},
			wantContains: []string{"Yo corro todos los días."},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prompt := buildPrompt(tt.req)
			for _, want := range tt.wantContains {
				if !strings.Contains(prompt, want) {
					t.Errorf("prompt missing %q: %s", want, prompt)
				}
			}
			for _, absent := range tt.wantAbsent {
				if strings.Contains(prompt, absent) {
					t.Errorf("prompt must not contain %q: %s", absent, prompt)
				}
			}
		})
	}
}

func TestBuildMnemonicPrompt(t *testing.T) {
	prompt := buildMnemonicPrompt("caber", "a cab with a bear driving")

	for _, want := range []string{"caber", "a cab with a bear driving", "NOT contain any text"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("mnemonic prompt missing %q: %s", want, prompt)
		}
	}
}

func TestNewOpenAIClientDefaults(t *testing.T) {
	client := NewOpenAIClient(&OpenAIConfig{APIKey: "test-key"})
	if client == nil {
		t.Fatal("NewOpenAIClient returned nil")
	}
	if client.config.Model != "dall-e-3" {
		t.Errorf("expected default model dall-e-3, got %s", client.config.Model)
	}
	if client.config.Size != "1024x1024" {
		t.Errorf("expected default size 1024x1024, got %s", client.config.Size)
	}
}
