package card

import (
	"fmt"
	"os"

	"github.com/google/uuid"
)

// Card is the closed set of flashcard kinds handled by the pipeline.
// The only implementations are *VocabularyCard and *ClozeCard, so call
// sites branch with a single exhaustive type switch.
type Card interface {
	// Word returns the base (dictionary) form of the word.
	Word() string

	// GUID returns the card's globally unique identifier.
	GUID() string

	// ShortID returns the first 8 hex characters of the GUID, used as the
	// media filename suffix.
	ShortID() string

	// ImagePath and AudioPath return the generated media locations, empty
	// until generation succeeds.
	ImagePath() string
	AudioPath() string

	SetImagePath(path string)
	SetAudioPath(path string)

	// Complete reports whether the user has approved the card.
	Complete() bool

	// MarkComplete records user approval. Callers must check
	// MissingRequirements first; MarkComplete itself does not validate.
	MarkComplete()

	// MissingRequirements lists what still blocks approval. An empty
	// result means the card may be approved.
	MissingRequirements() []string

	sealed()
}

// Analysis holds the linguistic analysis of a single Spanish word as
// returned by the word-analysis collaborator.
type Analysis struct {
	IPA          string
	PartOfSpeech string
	Gender       string // nouns only, "" otherwise
	VerbType     string // verbs only, "" otherwise
	Sentences    []ExampleSentence
}

// ExampleSentence is one candidate sentence for a cloze card. The record is
// immutable once produced by analysis.
type ExampleSentence struct {
	Sentence string // full Spanish sentence
	WordForm string // exact inflected form occurring in the sentence
	IPA      string // IPA of the inflected form
	Tense    string // grammatical tense, "" for non-verbs
	Subject  string // grammatical subject, "" for non-verbs
}

// WordInput is the ephemeral user request for a vocabulary card.
type WordInput struct {
	Word             string
	PersonalContext  string
	ExtraImagePrompt string
}

// ClozeInput is the ephemeral user request for a cloze card.
type ClozeInput struct {
	Word                string
	PersonalContext     string
	ExtraImagePrompt    string
	Definitions         string
	MnemonicDescription string
}

// VocabularyCard is a picture-word flashcard for a single Spanish word.
type VocabularyCard struct {
	WordText         string
	IPA              string
	PartOfSpeech     string
	Gender           string
	VerbType         string
	PersonalContext  string
	ExtraImagePrompt string

	guid       string
	imagePath  string
	audioPath  string
	isComplete bool
}

// NewVocabularyCard builds a vocabulary card from user input and its analysis.
func NewVocabularyCard(input WordInput, analysis Analysis) *VocabularyCard {
	return &VocabularyCard{
		WordText:         input.Word,
		IPA:              analysis.IPA,
		PartOfSpeech:     analysis.PartOfSpeech,
		Gender:           analysis.Gender,
		VerbType:         analysis.VerbType,
		PersonalContext:  input.PersonalContext,
		ExtraImagePrompt: input.ExtraImagePrompt,
		guid:             uuid.NewString(),
	}
}

func (c *VocabularyCard) Word() string        { return c.WordText }
func (c *VocabularyCard) GUID() string        { return c.guid }
func (c *VocabularyCard) ShortID() string     { return c.guid[:8] }
func (c *VocabularyCard) ImagePath() string   { return c.imagePath }
func (c *VocabularyCard) AudioPath() string   { return c.audioPath }
func (c *VocabularyCard) SetImagePath(p string) { c.imagePath = p }
func (c *VocabularyCard) SetAudioPath(p string) { c.audioPath = p }
func (c *VocabularyCard) Complete() bool      { return c.isComplete }
func (c *VocabularyCard) MarkComplete()       { c.isComplete = true }
func (c *VocabularyCard) sealed()             {}

// NeedsImage reports whether image generation is still required.
func (c *VocabularyCard) NeedsImage() bool { return c.imagePath == "" }

// NeedsAudio reports whether audio generation is still required.
func (c *VocabularyCard) NeedsAudio() bool { return c.audioPath == "" }

// MissingRequirements lists what still blocks approval of this card.
func (c *VocabularyCard) MissingRequirements() []string {
	var missing []string
	if !fileExists(c.imagePath) {
		missing = append(missing, "image")
	}
	if !fileExists(c.audioPath) {
		missing = append(missing, "audio")
	}
	return missing
}

// ClozeCard is a fill-in-the-blank flashcard built around one example
// sentence chosen during review.
type ClozeCard struct {
	WordText            string
	WordAnalysis        Analysis
	PersonalContext     string
	ExtraImagePrompt    string
	Definitions         string
	MnemonicDescription string
	HasMnemonicImage    bool

	// Selection state, populated by the review state machine.
	SelectedSentence string
	SelectedWordForm string
	SelectedWordIPA  string
	SelectedTense    string
	SelectedSubject  string
	ShowBaseVerb     bool

	guid       string
	imagePath  string
	audioPath  string
	isComplete bool
}

// NewClozeCard builds a cloze card from user input and its analysis. The
// sentence selection is left empty until review.
func NewClozeCard(input ClozeInput, analysis Analysis) *ClozeCard {
	return &ClozeCard{
		WordText:            input.Word,
		WordAnalysis:        analysis,
		PersonalContext:     input.PersonalContext,
		ExtraImagePrompt:    input.ExtraImagePrompt,
		Definitions:         input.Definitions,
		MnemonicDescription: input.MnemonicDescription,
		guid:                uuid.NewString(),
	}
}

func (c *ClozeCard) Word() string        { return c.WordText }
func (c *ClozeCard) GUID() string        { return c.guid }
func (c *ClozeCard) ShortID() string     { return c.guid[:8] }
func (c *ClozeCard) ImagePath() string   { return c.imagePath }
func (c *ClozeCard) AudioPath() string   { return c.audioPath }
func (c *ClozeCard) SetImagePath(p string) { c.imagePath = p }
func (c *ClozeCard) SetAudioPath(p string) { c.audioPath = p }
func (c *ClozeCard) Complete() bool      { return c.isComplete }
func (c *ClozeCard) MarkComplete()       { c.isComplete = true }
func (c *ClozeCard) sealed()             {}

// NeedsImage reports whether image generation is still required.
func (c *ClozeCard) NeedsImage() bool { return c.imagePath == "" }

// NeedsAudio reports whether audio generation is still required.
func (c *ClozeCard) NeedsAudio() bool { return c.audioPath == "" }

// HasSelection reports whether a sentence has been chosen for this card.
func (c *ClozeCard) HasSelection() bool { return c.SelectedSentence != "" }

// SelectSentence records the chosen example sentence and its grammar data.
func (c *ClozeCard) SelectSentence(s ExampleSentence) {
	c.SelectedSentence = s.Sentence
	c.SelectedWordForm = s.WordForm
	c.SelectedWordIPA = s.IPA
	c.SelectedTense = s.Tense
	c.SelectedSubject = s.Subject
}

// CloneWithSentence produces a sibling card sharing the base linguistic data
// but with a fresh GUID, the given sentence selected, and media/completion
// state cleared. Used to make one card per additional selected sentence.
func (c *ClozeCard) CloneWithSentence(s ExampleSentence) *ClozeCard {
	clone := &ClozeCard{
		WordText:            c.WordText,
		WordAnalysis:        c.WordAnalysis,
		PersonalContext:     c.PersonalContext,
		ExtraImagePrompt:    c.ExtraImagePrompt,
		Definitions:         c.Definitions,
		MnemonicDescription: c.MnemonicDescription,
		HasMnemonicImage:    c.HasMnemonicImage,
		ShowBaseVerb:        c.ShowBaseVerb,
		guid:                uuid.NewString(),
	}
	clone.SelectSentence(s)
	return clone
}

// MissingRequirements lists what still blocks approval of this card.
func (c *ClozeCard) MissingRequirements() []string {
	var missing []string
	if !c.HasSelection() {
		missing = append(missing, "sentence selection")
	}
	if !fileExists(c.imagePath) {
		missing = append(missing, "image")
	}
	if !fileExists(c.audioPath) {
		missing = append(missing, "audio")
	}
	return missing
}

func fileExists(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// Describe returns the one-line summary shown in review menus.
func Describe(c Card) string {
	switch c := c.(type) {
	case *VocabularyCard:
		return fmt.Sprintf("%s - %s (%s)", c.WordText, c.IPA, c.PartOfSpeech)
	case *ClozeCard:
		return fmt.Sprintf("%s - %s (%s, cloze)", c.WordText, c.WordAnalysis.IPA, c.WordAnalysis.PartOfSpeech)
	default:
		return c.Word()
	}
}
