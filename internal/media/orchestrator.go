// Package media populates card media fields by fanning out to the image and
// audio collaborators under a bounded concurrency limit.
package media

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/semaphore"

	"github.com/avelez/palabra/internal/card"
	"github.com/avelez/palabra/internal/image"
)

// MaxConcurrentOperations caps simultaneous outbound media requests to avoid
// provider rate limits. Not a correctness lock, just a throttle.
const MaxConcurrentOperations = 2

// ImageGenerator is the slice of the image client the orchestrator needs.
type ImageGenerator interface {
	Generate(ctx context.Context, req image.Request) error
	GenerateMnemonic(ctx context.Context, word, description, outputPath string) error
}

// AudioProvider is the slice of the TTS client the orchestrator needs.
type AudioProvider interface {
	GenerateAudio(ctx context.Context, text, outputFile string) error
}

// Orchestrator drives media generation for sessions and single cards.
// Clients are injected once at process start.
type Orchestrator struct {
	images ImageGenerator
	tts    AudioProvider
}

// New creates an orchestrator around the given collaborators.
func New(images ImageGenerator, tts AudioProvider) *Orchestrator {
	return &Orchestrator{images: images, tts: tts}
}

// GenerateForSession generates image and audio for every card in the
// session. Cards are processed concurrently, gated by a counting semaphore;
// within one card the image and audio requests run concurrently with each
// other. Failures are logged and leave the corresponding path empty; the
// orchestrator itself never fails, completion is enforced at approval time.
func (o *Orchestrator) GenerateForSession(ctx context.Context, session *card.Session) {
	cards := session.Cards()
	logrus.WithField("card_count", len(cards)).Info("Starting media generation")

	sem := semaphore.NewWeighted(MaxConcurrentOperations)
	var wg sync.WaitGroup

	for _, c := range cards {
		wg.Add(1)
		go func(c card.Card) {
			defer wg.Done()
			if err := sem.Acquire(ctx, 1); err != nil {
				logrus.WithField("word", c.Word()).WithError(err).Error("Media generation canceled")
				return
			}
			defer sem.Release(1)
			o.generateForCard(ctx, session, c)
		}(c)
	}

	wg.Wait()
	logrus.Info("Media generation completed")
}

func (o *Orchestrator) generateForCard(ctx context.Context, session *card.Session, c card.Card) {
	logrus.WithField("word", c.Word()).Info("Generating media")

	imagePath := session.ImagePathFor(c)
	audioPath := session.AudioPathFor(c)

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		if err := o.images.Generate(ctx, imageRequest(c, "", imagePath)); err != nil {
			logrus.WithField("word", c.Word()).WithError(err).Error("Image generation failed")
			return
		}
		c.SetImagePath(imagePath)
	}()

	go func() {
		defer wg.Done()
		if err := o.tts.GenerateAudio(ctx, audioText(c), audioPath); err != nil {
			logrus.WithField("word", c.Word()).WithError(err).Error("Audio generation failed")
			return
		}
		c.SetAudioPath(audioPath)
	}()

	wg.Wait()

	if cl, ok := c.(*card.ClozeCard); ok {
		o.ensureMnemonicImage(ctx, session, cl)
	}
}

// RegenerateImage regenerates a card's image at the same canonical path,
// overwriting the previous file. An additional prompt is joined onto the
// card's stored extra prompt with ". " when both are present. On failure the
// card's image path is left untouched.
func (o *Orchestrator) RegenerateImage(ctx context.Context, session *card.Session, c card.Card, additionalPrompt string) bool {
	logrus.WithField("word", c.Word()).Info("Regenerating image")

	imagePath := session.ImagePathFor(c)
	if err := o.images.Generate(ctx, imageRequest(c, additionalPrompt, imagePath)); err != nil {
		logrus.WithField("word", c.Word()).WithError(err).Error("Image regeneration failed")
		return false
	}

	c.SetImagePath(imagePath)
	return true
}

// RegenerateAudio regenerates a card's audio at the same canonical path,
// overwriting the previous file. On failure the card's audio path is left
// untouched.
func (o *Orchestrator) RegenerateAudio(ctx context.Context, session *card.Session, c card.Card) bool {
	logrus.WithField("word", c.Word()).Info("Regenerating audio")

	audioPath := session.AudioPathFor(c)
	if err := o.tts.GenerateAudio(ctx, audioText(c), audioPath); err != nil {
		logrus.WithField("word", c.Word()).WithError(err).Error("Audio regeneration failed")
		return false
	}

	c.SetAudioPath(audioPath)
	return true
}

// ensureMnemonicImage generates the phonetic priming image for a cloze card
// if the user described one. The image lives directly in Anki's media folder
// keyed by word, so an existing file is reused. Never fatal.
func (o *Orchestrator) ensureMnemonicImage(ctx context.Context, session *card.Session, c *card.ClozeCard) {
	if c.MnemonicDescription == "" {
		return
	}
	if session.AnkiMediaDir == "" {
		logrus.WithField("word", c.WordText).Warn("No Anki media directory, skipping mnemonic image")
		return
	}

	path := filepath.Join(session.AnkiMediaDir, card.MnemonicFileName(c.WordText))
	if _, err := os.Stat(path); err == nil {
		logrus.WithField("word", c.WordText).Debug("Mnemonic image already exists")
		c.HasMnemonicImage = true
		return
	}

	if err := o.images.GenerateMnemonic(ctx, c.WordText, c.MnemonicDescription, path); err != nil {
		logrus.WithField("word", c.WordText).WithError(err).Error("Mnemonic image generation failed")
		return
	}
	c.HasMnemonicImage = true
}

// imageRequest builds the generation request for a card. Cloze cards with a
// selected sentence pass it along as grounding context.
func imageRequest(c card.Card, additionalPrompt, outputPath string) image.Request {
	req := image.Request{Word: c.Word(), OutputPath: outputPath}

	switch c := c.(type) {
	case *card.VocabularyCard:
		req.Analysis = card.Analysis{
			IPA:          c.IPA,
			PartOfSpeech: c.PartOfSpeech,
			Gender:       c.Gender,
			VerbType:     c.VerbType,
		}
		req.ExtraPrompt = joinPrompts(c.ExtraImagePrompt, additionalPrompt)
	case *card.ClozeCard:
		req.Analysis = c.WordAnalysis
		req.ExtraPrompt = joinPrompts(c.ExtraImagePrompt, additionalPrompt)
		req.Sentence = c.SelectedSentence
	}

	return req
}

// audioText picks what gets spoken: the bare word for vocabulary cards, the
// full selected sentence for cloze cards since they drill sentence-level
// listening.
func audioText(c card.Card) string {
	if cl, ok := c.(*card.ClozeCard); ok && cl.HasSelection() {
		return cl.SelectedSentence
	}
	return c.Word()
}

func joinPrompts(base, extra string) string {
	switch {
	case base == "":
		return extra
	case extra == "":
		return base
	default:
		return base + ". " + extra
	}
}
