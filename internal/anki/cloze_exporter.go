package anki

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/sirupsen/logrus"

	"github.com/avelez/palabra/internal/card"
)

// ClozeCSVName is the cloze import file written into the session output
// directory.
const ClozeCSVName = "anki_import_cloze.csv"

// ExportCloze runs the complete cloze export: verify completeness, stage
// media, write the CSV. A session without cloze cards succeeds without
// writing anything.
func ExportCloze(session *card.Session, config *ClozeConfig) bool {
	if len(session.ClozeCards) == 0 {
		logrus.Debug("No cloze cards to export")
		return true
	}

	if words := incompleteClozeWords(session); len(words) > 0 {
		logrus.WithField("incomplete_cards", words).Error("Cannot export: incomplete cloze cards found")
		return false
	}

	results, err := CopyClozeMedia(session, config.AnkiMediaDir)
	if err != nil {
		logrus.WithError(err).Error("Media copy failed")
		return false
	}
	logFailedCopies(results)

	csvPath := filepath.Join(session.OutputDir, ClozeCSVName)
	if err := GenerateClozeCSV(session, config, csvPath); err != nil {
		logrus.WithError(err).Error("Failed to generate cloze CSV")
		return false
	}

	logrus.WithFields(logrus.Fields{
		"path":  csvPath,
		"cards": len(session.ClozeCards),
	}).Info("Cloze export completed")
	return true
}

// GenerateClozeCSV writes the Anki import file for all cloze cards in the
// session. With zero cloze cards it returns nil without creating a file.
func GenerateClozeCSV(session *card.Session, config *ClozeConfig, outputPath string) error {
	if len(session.ClozeCards) == 0 {
		return nil
	}
	if words := incompleteClozeWords(session); len(words) > 0 {
		return fmt.Errorf("cannot export incomplete cloze cards: %s", strings.Join(words, ", "))
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
		"#fields:" + strings.Join(config.FieldNames, "\t"),
	}
	for _, h := range headers {
		if _, err := fmt.Fprintln(file, h); err != nil {
			return fmt.Errorf("failed to write CSV header: %w", err)
		}
	}

	writer := csv.NewWriter(file)
	writer.Comma = '\t'

	for _, c := range session.ClozeCards {
		if err := writer.Write(clozeRow(c)); err != nil {
			return fmt.Errorf("failed to write card '%s': %w", c.WordText, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// clozeRow renders the 10 tab-separated fields of one cloze card. Fields
// 7 through 9 are padding required by the note type's schema.
func clozeRow(c *card.ClozeCard) []string {
	picture := ""
	if c.ImagePath() != "" {
		picture = fmt.Sprintf(`<img src="%s">`, card.ImageFileName(c))
	}

	mnemonic := ""
	if c.HasMnemonicImage {
		mnemonic = fmt.Sprintf(`<img src="%s">`, card.MnemonicFileName(c.WordText))
	}

	return []string{
		BlankWordForm(c.SelectedSentence, c.SelectedWordForm),
		picture,
		clozeDefinitions(c),
		c.WordText,
		c.SelectedSentence,
		clozeExtraInfo(c),
		"",
		"",
		"",
		mnemonic,
	}
}

// clozeDefinitions builds field 3: the user's definitions, and for verbs a
// comma-joined grammar clause of verb type, subject and tense.
func clozeDefinitions(c *card.ClozeCard) string {
	var grammar []string
	if c.WordAnalysis.PartOfSpeech == "verb" {
		if c.WordAnalysis.VerbType != "" {
			verbType := SpanishVerbType(c.WordAnalysis.VerbType)
			if c.ShowBaseVerb {
				verbType += " (" + c.WordText + ")"
			}
			grammar = append(grammar, verbType)
		}
		if c.SelectedSubject != "" {
			grammar = append(grammar, c.SelectedSubject)
		}
		if c.SelectedTense != "" {
			grammar = append(grammar, c.SelectedTense)
		}
	}

	var parts []string
	if c.Definitions != "" {
		parts = append(parts, c.Definitions)
	}
	if len(grammar) > 0 {
		parts = append(parts, strings.Join(grammar, ", "))
	}
	return strings.Join(parts, " - ")
}

// clozeExtraInfo builds field 6: sound tag, IPA of the inflected form
// (falling back to the base form's IPA), and personal context.
func clozeExtraInfo(c *card.ClozeCard) string {
	var parts []string
	if c.AudioPath() != "" {
		parts = append(parts, fmt.Sprintf("[sound:%s]", card.AudioFileName(c)))
	}
	if c.SelectedWordIPA != "" {
		parts = append(parts, c.SelectedWordIPA)
	} else if c.WordAnalysis.IPA != "" {
		parts = append(parts, c.WordAnalysis.IPA)
	}
	if c.PersonalContext != "" {
		parts = append(parts, c.PersonalContext)
	}
	return strings.Join(parts, " ")
}

const clozeBlank = "______"

// BlankWordForm replaces every whole-word, case-insensitive occurrence of
// form in sentence with six underscores. Matching is done on runes so that
// accented Spanish forms like "corrió" match at word boundaries; inflected
// neighbors sharing a prefix are left alone.
func BlankWordForm(sentence, form string) string {
	if form == "" {
		return sentence
	}

	runes := []rune(sentence)
	target := []rune(strings.ToLower(form))

	var out strings.Builder
	i := 0
	for i < len(runes) {
		if matchesWordAt(runes, i, target) {
			out.WriteString(clozeBlank)
			i += len(target)
			continue
		}
		out.WriteRune(runes[i])
		i++
	}
	return out.String()
}

// matchesWordAt reports whether target occurs at runes[i] as a whole word.
func matchesWordAt(runes []rune, i int, target []rune) bool {
	if i+len(target) > len(runes) {
		return false
	}
	for j, t := range target {
		if unicode.ToLower(runes[i+j]) != t {
			return false
		}
	}
	if i > 0 && isWordRune(runes[i-1]) {
		return false
	}
	if next := i + len(target); next < len(runes) && isWordRune(runes[next]) {
		return false
	}
	return true
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

func incompleteClozeWords(session *card.Session) []string {
	var words []string
	for _, c := range session.ClozeCards {
		if !c.Complete() {
			words = append(words, c.WordText)
		}
	}
	return words
}
