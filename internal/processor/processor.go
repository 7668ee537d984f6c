package processor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"golang.org/x/sync/semaphore"

	"github.com/avelez/palabra/internal/analysis"
	"github.com/avelez/palabra/internal/anki"
	"github.com/avelez/palabra/internal/audio"
	"github.com/avelez/palabra/internal/card"
	"github.com/avelez/palabra/internal/cli"
	"github.com/avelez/palabra/internal/image"
	"github.com/avelez/palabra/internal/input"
	"github.com/avelez/palabra/internal/media"
	"github.com/avelez/palabra/internal/prompt"
	"github.com/avelez/palabra/internal/review"
)

// maxConcurrentAnalyses caps simultaneous word-analysis requests,
// independently of the media generation gate.
const maxConcurrentAnalyses = 2

// wordAnalyzer is the slice of the analysis client the pipeline uses.
type wordAnalyzer interface {
	AnalyzeWord(ctx context.Context, word string, withSentences bool) (card.Analysis, error)
}

// Processor wires the full pipeline: collect words, analyze them, generate
// media, review interactively, export.
type Processor struct {
	flags     *cli.Flags
	prompter  prompt.Prompter
	collector *input.Collector
	analyzer  wordAnalyzer
	media     *media.Orchestrator
	reviewer  *review.Reviewer
}

// NewProcessor builds the pipeline from flags and configuration. It fails
// when no API key is configured or when a collaborator cannot be
// constructed.
func NewProcessor(flags *cli.Flags) (*Processor, error) {
	apiKey := cli.GetOpenAIKey()
	if apiKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required (set OPENAI_API_KEY or openai_key in the config file)")
	}

	audioConfig := audio.DefaultProviderConfig()
	audioConfig.OpenAIKey = apiKey
	audioConfig.OpenAIModel = flags.OpenAIModel
	audioConfig.OpenAIVoice = flags.OpenAIVoice
	audioConfig.OpenAISpeed = flags.OpenAISpeed
	if flags.OpenAIVoice == "" && viper.IsSet("audio.openai_voice") {
		audioConfig.OpenAIVoice = viper.GetString("audio.openai_voice")
	}

	ttsProvider, err := audio.NewProvider(audioConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create audio provider: %w", err)
	}

	imageClient := image.NewOpenAIClient(&image.OpenAIConfig{
		APIKey:  apiKey,
		Model:   flags.OpenAIImageModel,
		Size:    flags.OpenAIImageSize,
		Quality: flags.OpenAIImageQuality,
		Style:   flags.OpenAIImageStyle,
	})

	orchestrator := media.New(imageClient, ttsProvider)
	prompter := prompt.NewSurveyPrompter()

	return &Processor{
		flags:     flags,
		prompter:  prompter,
		collector: input.NewCollector(prompter),
		analyzer:  analysis.NewAnalyzer(openai.NewClient(apiKey)),
		media:     orchestrator,
		reviewer:  review.NewReviewer(prompter, orchestrator),
	}, nil
}

// Run executes one complete session.
func (p *Processor) Run(ctx context.Context) error {
	if err := review.CheckPlayerInstalled(); err != nil {
		return err
	}

	if err := os.MkdirAll(p.flags.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	session := card.NewSession(p.flags.OutputDir)
	session.AnkiMediaDir = p.resolveMediaDir()

	wordInputs, clozeInputs, err := p.collectInputs()
	if err != nil {
		return err
	}
	if len(wordInputs) == 0 && len(clozeInputs) == 0 {
		fmt.Println("No words entered, nothing to do.")
		return nil
	}

	if err := p.analyzeWords(ctx, session, wordInputs, clozeInputs); err != nil {
		return err
	}
	if len(session.Cards()) == 0 {
		return fmt.Errorf("no words could be analyzed")
	}

	// Sentences are chosen before media generation so cloze audio speaks
	// the selected sentence.
	if err := p.reviewer.SelectSentences(session); err != nil {
		return err
	}

	fmt.Printf("\nGenerating media for %d card(s)...\n", len(session.Cards()))
	p.media.GenerateForSession(ctx, session)

	if err := p.reviewer.ReviewSession(ctx, session); err != nil {
		return err
	}
	review.PrintSummary(session)

	return p.maybeExport(session)
}

// collectInputs gathers word inputs from the batch file or interactively.
func (p *Processor) collectInputs() ([]card.WordInput, []card.ClozeInput, error) {
	if p.flags.BatchFile != "" {
		words, err := input.ReadBatchFile(p.flags.BatchFile)
		if err != nil {
			return nil, nil, err
		}
		fmt.Printf("Read %d word(s) from %s\n", len(words), p.flags.BatchFile)
		return words, nil, nil
	}

	words, err := p.collector.CollectWords()
	if err != nil {
		return nil, nil, err
	}

	var clozeWords []card.ClozeInput
	if !p.flags.SkipCloze {
		clozeWords, err = p.collector.CollectClozeWords()
		if err != nil {
			return nil, nil, err
		}
	}

	return words, clozeWords, nil
}

// analyzeWords runs word analysis with bounded concurrency. A word whose
// analysis fails is reported and skipped; the rest of the session proceeds.
func (p *Processor) analyzeWords(ctx context.Context, session *card.Session, words []card.WordInput, clozeWords []card.ClozeInput) error {
	fmt.Printf("\nAnalyzing %d word(s)...\n", len(words)+len(clozeWords))

	vocabResults := make([]card.Analysis, len(words))
	vocabErrs := make([]error, len(words))
	clozeResults := make([]card.Analysis, len(clozeWords))
	clozeErrs := make([]error, len(clozeWords))

	sem := semaphore.NewWeighted(maxConcurrentAnalyses)
	var wg sync.WaitGroup

	for i, w := range words {
		if err := sem.Acquire(ctx, 1); err != nil {
			// Let in-flight analyses finish before the result slices go
			// out of scope.
			wg.Wait()
			return err
		}
		wg.Add(1)
		go func(i int, word string) {
			defer wg.Done()
			defer sem.Release(1)
			vocabResults[i], vocabErrs[i] = p.analyzer.AnalyzeWord(ctx, word, false)
		}(i, w.Word)
	}
	for i, w := range clozeWords {
		if err := sem.Acquire(ctx, 1); err != nil {
			wg.Wait()
			return err
		}
		wg.Add(1)
		go func(i int, word string) {
			defer wg.Done()
			defer sem.Release(1)
			clozeResults[i], clozeErrs[i] = p.analyzer.AnalyzeWord(ctx, word, true)
		}(i, w.Word)
	}
	wg.Wait()

	for i, w := range words {
		if vocabErrs[i] != nil {
			logrus.WithError(vocabErrs[i]).WithField("word", w.Word).Error("Analysis failed, skipping word")
			fmt.Printf("  skipping %q: %v\n", w.Word, vocabErrs[i])
			continue
		}
		session.AddVocabularyCard(card.NewVocabularyCard(w, vocabResults[i]))
	}
	for i, w := range clozeWords {
		if clozeErrs[i] != nil {
			logrus.WithError(clozeErrs[i]).WithField("word", w.Word).Error("Analysis failed, skipping word")
			fmt.Printf("  skipping %q: %v\n", w.Word, clozeErrs[i])
			continue
		}
		session.AddClozeCard(card.NewClozeCard(w, clozeResults[i]))
	}

	return nil
}

// maybeExport asks the user whether to export and runs the exporters.
func (p *Processor) maybeExport(session *card.Session) error {
	if len(session.Cards()) == 0 {
		return nil
	}

	export, err := p.prompter.Confirm("Export cards to Anki import files?", true)
	if err != nil {
		return fmt.Errorf("export prompt failed: %w", err)
	}
	if !export {
		return nil
	}

	deckName := p.resolveDeckName()
	if deckName == "" {
		custom, err := p.prompter.Input("Deck name (empty for default)")
		if err != nil {
			return fmt.Errorf("deck name prompt failed: %w", err)
		}
		deckName = custom
	}

	vocabConfig := anki.NewConfig(deckName, session.AnkiMediaDir)
	vocabConfig.TestSpelling = p.flags.TestSpelling || viper.GetBool("anki.test_spelling")
	clozeConfig := anki.NewClozeConfig(deckName, session.AnkiMediaDir)

	ok := true
	if len(session.VocabularyCards) > 0 {
		ok = anki.ExportVocabulary(session, vocabConfig) && ok
	}
	ok = anki.ExportCloze(session, clozeConfig) && ok
	if !ok {
		return fmt.Errorf("export failed, see log for details")
	}

	if p.flags.APKG && len(session.VocabularyCards) > 0 {
		if err := p.exportAPKG(session, vocabConfig.DeckName); err != nil {
			return fmt.Errorf("APKG export failed: %w", err)
		}
	}

	fmt.Printf("Export written to %s\n", p.flags.OutputDir)
	return nil
}

func (p *Processor) exportAPKG(session *card.Session, deckName string) error {
	gen := anki.NewAPKGGenerator(deckName)
	for _, c := range session.VocabularyCards {
		if c.Complete() {
			gen.AddCard(c)
		}
	}

	outputPath := filepath.Join(p.flags.OutputDir, sanitizeFilename(deckName)+".apkg")
	if err := gen.GenerateAPKG(outputPath); err != nil {
		return err
	}
	fmt.Printf("Anki package created: %s\n", outputPath)
	return nil
}

func (p *Processor) resolveDeckName() string {
	if p.flags.DeckName != "" {
		return p.flags.DeckName
	}
	return viper.GetString("anki.deck_name")
}

func (p *Processor) resolveMediaDir() string {
	if p.flags.AnkiMediaDir != "" {
		return p.flags.AnkiMediaDir
	}
	if dir := viper.GetString("anki.media_dir"); dir != "" {
		return dir
	}
	return anki.FindAnkiMediaDir()
}

// sanitizeFilename makes a deck name safe to use as a file name.
func sanitizeFilename(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		case r == ' ':
			b.WriteRune('_')
		default:
			// Drop path separators and deck hierarchy markers.
		}
	}
	if b.Len() == 0 {
		return "palabra_export"
	}
	return b.String()
}
