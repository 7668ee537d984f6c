package analysis

import (
	"strings"
	"testing"
)

func TestParseAnalysis(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		wantIPA  string
		wantPOS  string
		wantGend string
		wantErr  bool
	}{
		{
			name:     "noun with gender",
			content:  `{"ipa": "ˈka.sa", "part_of_speech": "noun", "gender": "feminine", "verb_type": null}`,
			wantIPA:  "ˈka.sa",
			wantPOS:  "noun",
			wantGend: "feminine",
		},
		{
			name:    "verb without gender",
			content: `{"ipa": "koˈrer", "part_of_speech": "verb", "gender": null, "verb_type": "intransitive"}`,
			wantIPA: "koˈrer",
			wantPOS: "verb",
		},
		{
			name:    "markdown fenced",
			content: "```json\n{\"ipa\": \"ˈka.sa\", \"part_of_speech\": \"noun\"}\n```",
			wantIPA: "ˈka.sa",
			wantPOS: "noun",
		},
		{
			name:    "not JSON",
			content: "The word casa is a feminine noun.",
			wantErr: true,
		},
		{
			name:    "missing ipa",
			content: `{"part_of_speech": "noun"}`,
			wantErr: true,
		},
		{
			name:    "missing part of speech",
			content: `{"ipa": "ˈka.sa"}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseAnalysis(tt.content)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseAnalysis() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if got.IPA != tt.wantIPA {
				t.Errorf("IPA = %q, want %q", got.IPA, tt.wantIPA)
			}
			if got.PartOfSpeech != tt.wantPOS {
				t.Errorf("PartOfSpeech = %q, want %q", got.PartOfSpeech, tt.wantPOS)
			}
			if got.Gender != tt.wantGend {
				t.Errorf("Gender = %q, want %q", got.Gender, tt.wantGend)
			}
		})
	}
}

func TestParseAnalysisSentences(t *testing.T) {
	content := `{
		"ipa": "koˈrer",
		"part_of_speech": "verb",
		"gender": null,
		"verb_type": "intransitive",
		"example_sentences": [
			{"sentence": "Yo corro todos los días.", "word_form": "corro", "ipa": "ˈko.ro", "tense": "present", "subject": "yo"},
			{"sentence": "Ella corrió ayer.", "word_form": "corrió", "ipa": "koˈrjo", "tense": "preterite", "subject": "ella"}
		]
	}`

	got, err := parseAnalysis(content)
	if err != nil {
		t.Fatalf("parseAnalysis() error = %v", err)
	}
	if len(got.Sentences) != 2 {
		t.Fatalf("expected 2 sentences, got %d", len(got.Sentences))
	}
	first := got.Sentences[0]
	if first.WordForm != "corro" || first.Tense != "present" || first.Subject != "yo" {
		t.Errorf("unexpected first sentence: %+v", first)
	}
}

func TestParseAnalysisIncompleteSentence(t *testing.T) {
	content := `{
		"ipa": "koˈrer",
		"part_of_speech": "verb",
		"example_sentences": [{"sentence": "", "word_form": "corro"}]
	}`

	_, err := parseAnalysis(content)
	if err == nil || !strings.Contains(err.Error(), "incomplete example sentence") {
		t.Fatalf("expected incomplete sentence error, got %v", err)
	}
}
