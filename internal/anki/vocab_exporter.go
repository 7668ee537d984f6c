package anki

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/avelez/palabra/internal/card"
)

// VocabularyCSVName is the vocabulary import file written into the session
// output directory.
const VocabularyCSVName = "anki_import.csv"

// ExportVocabulary runs the complete vocabulary export: verify completeness,
// stage media into the Anki folder, write the CSV. Returns false on any
// failure; partial exports are never written.
func ExportVocabulary(session *card.Session, config *Config) bool {
	if words := incompleteVocabularyWords(session); len(words) > 0 {
		logrus.WithField("incomplete_cards", words).Error("Cannot export: incomplete vocabulary cards found")
		return false
	}

	results, err := CopyVocabularyMedia(session, config.AnkiMediaDir)
	if err != nil {
		logrus.WithError(err).Error("Media copy failed")
		return false
	}
	logFailedCopies(results)

	csvPath := filepath.Join(session.OutputDir, VocabularyCSVName)
	if err := GenerateVocabularyCSV(session, config, csvPath); err != nil {
		logrus.WithError(err).Error("Failed to generate vocabulary CSV")
		return false
	}

	logrus.WithFields(logrus.Fields{
		"path":  csvPath,
		"cards": len(session.VocabularyCards),
	}).Info("Vocabulary export completed")
	return true
}

// GenerateVocabularyCSV writes the Anki import file for all vocabulary cards
// in the session. Any incomplete vocabulary card aborts the whole export
// before a file is created.
func GenerateVocabularyCSV(session *card.Session, config *Config, outputPath string) error {
	if words := incompleteVocabularyWords(session); len(words) > 0 {
		return fmt.Errorf("cannot export incomplete vocabulary cards: %s", strings.Join(words, ", "))
	}

	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer file.Close()

	headers := []string{
		"#notetype:" + config.NoteType,
		"#deck:" + config.DeckName,
		"#separator:tab",
		"#html:true",
		"#guid column:6",
		"#fields:" + strings.Join(config.FieldNames, "\t"),
	}
	for _, h := range headers {
		if _, err := fmt.Fprintln(file, h); err != nil {
			return fmt.Errorf("failed to write CSV header: %w", err)
		}
	}

	writer := csv.NewWriter(file)
	writer.Comma = '\t'

	for _, c := range session.VocabularyCards {
		if err := writer.Write(vocabularyRow(c, config)); err != nil {
			return fmt.Errorf("failed to write card '%s': %w", c.WordText, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// vocabularyRow renders the 6 tab-separated fields of one vocabulary card.
func vocabularyRow(c *card.VocabularyCard, config *Config) []string {
	picture := ""
	if c.ImagePath() != "" {
		picture = fmt.Sprintf(`<img src="%s">`, card.ImageFileName(c))
	}

	var pronunciationParts []string
	if c.AudioPath() != "" {
		pronunciationParts = append(pronunciationParts, fmt.Sprintf("[sound:%s]", card.AudioFileName(c)))
	}
	if c.IPA != "" {
		pronunciationParts = append(pronunciationParts, c.IPA)
	}

	testSpelling := ""
	if config.TestSpelling {
		testSpelling = "y"
	}

	return []string{
		c.WordText,
		picture,
		descriptorField(c),
		strings.Join(pronunciationParts, " "),
		testSpelling,
		c.GUID(),
	}
}

// descriptorField builds field 3: the Spanish grammatical descriptor plus
// the user's personal context, period-terminated when non-empty.
func descriptorField(c *card.VocabularyCard) string {
	var parts []string

	pos := SpanishPartOfSpeech(c.PartOfSpeech)
	switch {
	case c.PartOfSpeech == "noun" && c.Gender != "":
		parts = append(parts, pos+" "+SpanishGender(c.Gender))
	case c.PartOfSpeech == "verb" && c.VerbType != "":
		parts = append(parts, pos+" "+SpanishVerbType(c.VerbType))
	default:
		parts = append(parts, pos)
	}

	if c.PersonalContext != "" {
		parts = append(parts, c.PersonalContext)
	}

	if len(parts) == 0 {
		return ""
	}
	return strings.Join(parts, ". ") + "."
}

func incompleteVocabularyWords(session *card.Session) []string {
	var words []string
	for _, c := range session.VocabularyCards {
		if !c.Complete() {
			words = append(words, c.WordText)
		}
	}
	return words
}

func logFailedCopies(results map[string]bool) {
	var failed []string
	for key, ok := range results {
		if !ok {
			failed = append(failed, key)
		}
	}
	if len(failed) > 0 {
		logrus.WithField("failed", failed).Warn("Some media files failed to copy")
	}
}
