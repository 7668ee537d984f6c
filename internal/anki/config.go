// Package anki renders completed cards into Anki's tab-separated import
// format and stages media files into the collection.media folder.
package anki

import (
	"os"
	"path/filepath"
	"runtime"
	"unicode"

	"github.com/sirupsen/logrus"
)

// DefaultDeckName is the deck cards are imported into unless overridden.
const DefaultDeckName = "Fluent Forever Spanish::2. Everything Else"

// Spanish grammar terms used in the rendered back-side fields. Unknown keys
// fall back to the English value.
var (
	spanishPartsOfSpeech = map[string]string{
		"noun":         "Sustantivo",
		"verb":         "Verbo",
		"adjective":    "Adjetivo",
		"adverb":       "Adverbio",
		"pronoun":      "Pronombre",
		"preposition":  "Preposición",
		"conjunction":  "Conjunción",
		"article":      "Artículo",
		"interjection": "Interjección",
	}

	spanishGenders = map[string]string{
		"masculine": "masculino",
		"feminine":  "femenino",
	}

	spanishVerbTypes = map[string]string{
		"transitive":   "transitivo",
		"intransitive": "intransitivo",
		"reflexive":    "reflexivo",
		"pronominal":   "pronominal",
	}
)

// Config holds export settings for vocabulary cards.
type Config struct {
	NoteType     string
	DeckName     string
	AnkiMediaDir string
	TestSpelling bool

	FieldNames []string
}

// NewConfig creates a vocabulary export configuration. An empty deckName or
// mediaDir falls back to the default deck and auto-discovery respectively.
func NewConfig(deckName, mediaDir string) *Config {
	if deckName == "" {
		deckName = DefaultDeckName
	}
	if mediaDir == "" {
		mediaDir = FindAnkiMediaDir()
	}
	return &Config{
		NoteType:     "2. Picture Words",
		DeckName:     deckName,
		AnkiMediaDir: mediaDir,
		FieldNames: []string{
			"Word",
			"Picture",
			"Gender, Personal Connection, Extra Info (Back side)",
			"Pronunciation (Recording and/or IPA)",
			"Test Spelling? (y = yes, blank = no)",
			"guid",
		},
	}
}

// ClozeConfig holds export settings for cloze cards.
type ClozeConfig struct {
	NoteType     string
	DeckName     string
	AnkiMediaDir string

	FieldNames []string
}

// NewClozeConfig creates a cloze export configuration.
func NewClozeConfig(deckName, mediaDir string) *ClozeConfig {
	if deckName == "" {
		deckName = DefaultDeckName
	}
	if mediaDir == "" {
		mediaDir = FindAnkiMediaDir()
	}
	return &ClozeConfig{
		NoteType:     "3. All-Purpose Card",
		DeckName:     deckName,
		AnkiMediaDir: mediaDir,
		FieldNames: []string{
			"Front (Example with word blanked out or missing)",
			"Front (Picture)",
			"Front (Definitions, base word, etc.)",
			"Back (a single word/phrase, no context)",
			"- The full sentence (no words blanked out)",
			"- Extra Info (Pronunciation, personal connections, conjugations, etc)",
			"- Extra 1",
			"- Extra 2",
			"- Extra 3",
			"Mnemonic Priming Image",
		},
	}
}

// SpanishPartOfSpeech translates a part of speech, title-casing unknown
// values.
func SpanishPartOfSpeech(pos string) string {
	if es, ok := spanishPartsOfSpeech[pos]; ok {
		return es
	}
	return titleCase(pos)
}

// SpanishGender translates a gender, passing unknown values through.
func SpanishGender(gender string) string {
	if es, ok := spanishGenders[gender]; ok {
		return es
	}
	return gender
}

// SpanishVerbType translates a verb type, passing unknown values through.
func SpanishVerbType(verbType string) string {
	if es, ok := spanishVerbTypes[verbType]; ok {
		return es
	}
	return verbType
}

func titleCase(s string) string {
	runes := []rune(s)
	if len(runes) == 0 {
		return s
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

// FindAnkiMediaDir attempts to locate Anki's collection.media folder in the
// platform default locations. Returns "" if none exists; absence only
// becomes an error when an export is attempted.
func FindAnkiMediaDir() string {
	var candidates []string

	if runtime.GOOS == "windows" {
		if appdata := os.Getenv("APPDATA"); appdata != "" {
			candidates = append(candidates, filepath.Join(appdata, "Anki2", "User 1", "collection.media"))
		}
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			candidates = append(candidates,
				filepath.Join(home, ".local", "share", "Anki2", "User 1", "collection.media"),
				filepath.Join(home, "Library", "Application Support", "Anki2", "User 1", "collection.media"),
				filepath.Join(home, "Documents", "Anki2", "User 1", "collection.media"),
			)
		}
	}

	for _, path := range candidates {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			logrus.WithField("path", path).Info("Found Anki collection.media folder")
			return path
		}
	}

	logrus.Warn("Could not automatically find Anki collection.media folder")
	return ""
}
