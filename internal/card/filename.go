package card

import "strings"

// NormalizeWord lowercases a word and replaces spaces with underscores so it
// is safe as a filename component.
func NormalizeWord(word string) string {
	return strings.ReplaceAll(strings.ToLower(word), " ", "_")
}

// MediaBaseName derives the canonical media file stem for a card:
// <normalized word>-<first 8 hex chars of GUID>. The same stem must be used
// when media is generated, when it is copied into Anki's media folder, and
// inside the exported <img>/[sound:] tags.
func MediaBaseName(c Card) string {
	return NormalizeWord(c.Word()) + "-" + c.ShortID()
}

// ImageFileName returns the canonical image filename for a card.
func ImageFileName(c Card) string {
	return MediaBaseName(c) + ".jpg"
}

// AudioFileName returns the canonical audio filename for a card.
func AudioFileName(c Card) string {
	return MediaBaseName(c) + ".mp3"
}

// MnemonicFileName returns the filename of the mnemonic priming image for a
// word. Mnemonic images are keyed by word only, not by GUID, so they can be
// shared across sessions.
func MnemonicFileName(word string) string {
	return "mpi-" + NormalizeWord(word) + ".jpg"
}
