package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"

	"github.com/avelez/palabra/internal/card"
)

const systemPrompt = "You are an expert in the Spanish language, teaching me to learn it."

const analysisPrompt = `Analyze the Spanish word '%s' and provide the following information in JSON format:

1. IPA pronunciation (broken down by syllable using dots (.) for syllable boundaries and ˈ to indicate primary stress)
2. Part of speech (one of: noun, verb, adjective, adverb, pronoun, preposition, conjunction, article, interjection)
3. Gender (for nouns only: masculine or feminine, otherwise null)
4. Verb type (for verbs only: transitive, intransitive, reflexive, or pronominal, otherwise null)

Return ONLY valid JSON with this structure (no markdown formatting, no code blocks):
{
  "ipa": "string",
  "part_of_speech": "string",
  "gender": "string or null",
  "verb_type": "string or null"
}`

const sentencesPrompt = `Also include a field "example_sentences": an array of 4 short, natural example sentences using the word in different inflections. Each entry must be a JSON object with these fields:
  "sentence": the full Spanish sentence
  "word_form": the exact inflected form of the word as it appears in the sentence
  "ipa": the IPA pronunciation of that inflected form
  "tense": the grammatical tense of the form (empty string if not a verb)
  "subject": the grammatical subject of the form (empty string if not a verb)`

// Analyzer is the word-analysis collaborator. It asks the LLM for linguistic
// data about a single Spanish word and parses the strict JSON response.
type Analyzer struct {
	client  *openai.Client
	model   string
	breaker *gobreaker.CircuitBreaker
}

// NewAnalyzer creates an analyzer using the given OpenAI client.
func NewAnalyzer(client *openai.Client) *Analyzer {
	return &Analyzer{
		client: client,
		model:  openai.GPT4o,
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name: "openai-analysis",
		}),
	}
}

// AnalyzeWord fetches the linguistic analysis for one word. Example
// sentences are only requested when withSentences is set (cloze cards).
// A response that does not parse as the expected structure is a hard error.
func (a *Analyzer) AnalyzeWord(ctx context.Context, word string, withSentences bool) (card.Analysis, error) {
	logrus.WithField("word", word).Debug("Analyzing word")

	prompt := fmt.Sprintf(analysisPrompt, word)
	if withSentences {
		prompt += "\n\n" + sentencesPrompt
	}

	ctx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	result, err := a.breaker.Execute(func() (interface{}, error) {
		return a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model: a.model,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
				{Role: openai.ChatMessageRoleUser, Content: prompt},
			},
			Temperature: 0.3,
		})
	})
	if err != nil {
		return card.Analysis{}, fmt.Errorf("word analysis API error for '%s': %w", word, err)
	}

	resp := result.(openai.ChatCompletionResponse)
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return card.Analysis{}, fmt.Errorf("empty analysis response for '%s'", word)
	}

	analysis, err := parseAnalysis(resp.Choices[0].Message.Content)
	if err != nil {
		return card.Analysis{}, fmt.Errorf("analysis for '%s': %w", word, err)
	}

	logrus.WithFields(logrus.Fields{
		"word":           word,
		"ipa":            analysis.IPA,
		"part_of_speech": analysis.PartOfSpeech,
		"sentences":      len(analysis.Sentences),
	}).Info("Word analyzed")

	return analysis, nil
}

type analysisResponse struct {
	IPA          string             `json:"ipa"`
	PartOfSpeech string             `json:"part_of_speech"`
	Gender       *string            `json:"gender"`
	VerbType     *string            `json:"verb_type"`
	Sentences    []sentenceResponse `json:"example_sentences"`
}

type sentenceResponse struct {
	Sentence string `json:"sentence"`
	WordForm string `json:"word_form"`
	IPA      string `json:"ipa"`
	Tense    string `json:"tense"`
	Subject  string `json:"subject"`
}

// parseAnalysis decodes the model output into a card.Analysis. Missing
// required keys are a format error, not a silent default.
func parseAnalysis(content string) (card.Analysis, error) {
	// Models sometimes wrap JSON in markdown fences despite instructions.
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	var resp analysisResponse
	if err := json.Unmarshal([]byte(content), &resp); err != nil {
		return card.Analysis{}, fmt.Errorf("invalid response format: %w", err)
	}
	if resp.IPA == "" {
		return card.Analysis{}, fmt.Errorf("invalid response format: missing ipa")
	}
	if resp.PartOfSpeech == "" {
		return card.Analysis{}, fmt.Errorf("invalid response format: missing part_of_speech")
	}

	analysis := card.Analysis{
		IPA:          resp.IPA,
		PartOfSpeech: resp.PartOfSpeech,
	}
	if resp.Gender != nil {
		analysis.Gender = *resp.Gender
	}
	if resp.VerbType != nil {
		analysis.VerbType = *resp.VerbType
	}
	for _, s := range resp.Sentences {
		if s.Sentence == "" || s.WordForm == "" {
			return card.Analysis{}, fmt.Errorf("invalid response format: incomplete example sentence")
		}
		analysis.Sentences = append(analysis.Sentences, card.ExampleSentence{
			Sentence: s.Sentence,
			WordForm: s.WordForm,
			IPA:      s.IPA,
			Tense:    s.Tense,
			Subject:  s.Subject,
		})
	}

	return analysis, nil
}
