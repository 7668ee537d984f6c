package card

import "path/filepath"

// Session owns the cards created during one run of the tool. Cards are
// mutated by the media orchestrator and the review loop; nothing is
// persisted across runs.
type Session struct {
	VocabularyCards []*VocabularyCard
	ClozeCards      []*ClozeCard

	// OutputDir is where generated media and export files are written.
	OutputDir string

	// AnkiMediaDir is the resolved collection.media directory, empty if
	// discovery failed. Absence only matters at export time.
	AnkiMediaDir string
}

// NewSession creates an empty session writing to the given output directory.
func NewSession(outputDir string) *Session {
	return &Session{OutputDir: outputDir}
}

// AddVocabularyCard appends a vocabulary card to the session.
func (s *Session) AddVocabularyCard(c *VocabularyCard) {
	s.VocabularyCards = append(s.VocabularyCards, c)
}

// AddClozeCard appends a cloze card to the session.
func (s *Session) AddClozeCard(c *ClozeCard) {
	s.ClozeCards = append(s.ClozeCards, c)
}

// Cards returns all cards, vocabulary first, in insertion order.
func (s *Session) Cards() []Card {
	cards := make([]Card, 0, len(s.VocabularyCards)+len(s.ClozeCards))
	for _, c := range s.VocabularyCards {
		cards = append(cards, c)
	}
	for _, c := range s.ClozeCards {
		cards = append(cards, c)
	}
	return cards
}

// IncompleteCards returns the cards not yet approved by the user.
func (s *Session) IncompleteCards() []Card {
	var incomplete []Card
	for _, c := range s.Cards() {
		if !c.Complete() {
			incomplete = append(incomplete, c)
		}
	}
	return incomplete
}

// IsComplete reports whether every card in the session has been approved.
func (s *Session) IsComplete() bool {
	for _, c := range s.Cards() {
		if !c.Complete() {
			return false
		}
	}
	return true
}

// ImagePathFor returns the canonical output path for a card's image. The
// path is a pure function of word and GUID, so regeneration always resolves
// to the same file.
func (s *Session) ImagePathFor(c Card) string {
	return filepath.Join(s.OutputDir, ImageFileName(c))
}

// AudioPathFor returns the canonical output path for a card's audio.
func (s *Session) AudioPathFor(c Card) string {
	return filepath.Join(s.OutputDir, AudioFileName(c))
}
