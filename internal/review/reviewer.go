package review

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/avelez/palabra/internal/card"
	"github.com/avelez/palabra/internal/prompt"
)

// MediaRegenerator is the slice of the media orchestrator the review loop
// needs for single-card regeneration.
type MediaRegenerator interface {
	RegenerateImage(ctx context.Context, session *card.Session, c card.Card, additionalPrompt string) bool
	RegenerateAudio(ctx context.Context, session *card.Session, c card.Card) bool
}

// Reviewer drives each card from incomplete to approved through an
// interactive action loop.
type Reviewer struct {
	prompter prompt.Prompter
	media    MediaRegenerator

	// playAudio is swapped out in tests.
	playAudio func(ctx context.Context, path string) error
}

// NewReviewer creates a reviewer using the given prompter and media
// regenerator.
func NewReviewer(prompter prompt.Prompter, media MediaRegenerator) *Reviewer {
	return &Reviewer{
		prompter:  prompter,
		media:     media,
		playAudio: PlayAudio,
	}
}

const (
	actionApprove        = "Approve card"
	actionRegenImage     = "Regenerate image"
	actionRegenAudio     = "Regenerate audio"
	actionReplayAudio    = "Replay audio"
	actionChangeSentence = "Change selected sentence"
	actionToggleBaseVerb = "Toggle base verb display"
	actionSkip           = "Skip for now"
)

// ReviewSession drains the session's incomplete cards: while any remain
// the user picks which card to review next (auto-selected when only one is
// left). Skipped cards go back into the pool and are offered once more on a
// final round; cards still skipped then stay incomplete.
func (r *Reviewer) ReviewSession(ctx context.Context, session *card.Session) error {
	for round := 0; round < 2; round++ {
		skipped := make(map[card.Card]bool)
		for {
			pending := pendingCards(session, skipped)
			if len(pending) == 0 {
				break
			}
			logrus.WithFields(logrus.Fields{
				"completed": len(session.Cards()) - len(session.IncompleteCards()),
				"remaining": len(pending),
			}).Info("Review progress")

			c := pending[0]
			if len(pending) > 1 {
				labels := make([]string, len(pending))
				for i, p := range pending {
					labels[i] = card.Describe(p)
				}
				index, err := r.prompter.Select("Select a word to review", labels)
				if err != nil {
					return fmt.Errorf("card selection failed: %w", err)
				}
				c = pending[index]
			}

			wasSkipped, err := r.reviewCard(ctx, session, c)
			if err != nil {
				return err
			}
			if wasSkipped {
				skipped[c] = true
			}
		}

		if len(session.IncompleteCards()) == 0 {
			return nil
		}
		if round == 0 {
			fmt.Println("Offering skipped cards one more time")
		}
	}
	return nil
}

// pendingCards lists the incomplete cards not yet skipped this round.
func pendingCards(session *card.Session, skipped map[card.Card]bool) []card.Card {
	var pending []card.Card
	for _, c := range session.IncompleteCards() {
		if !skipped[c] {
			pending = append(pending, c)
		}
	}
	return pending
}

// reviewCard loops on one card until it is approved or skipped. The bool
// result reports whether the user skipped it.
func (r *Reviewer) reviewCard(ctx context.Context, session *card.Session, c card.Card) (bool, error) {
	for {
		action, err := r.prompter.Select(
			fmt.Sprintf("Reviewing %s", card.Describe(c)),
			r.actionsFor(c),
		)
		if err != nil {
			return false, fmt.Errorf("review prompt failed: %w", err)
		}

		chosen := r.actionsFor(c)[action]
		done, err := r.applyAction(ctx, session, c, chosen)
		if err != nil {
			return false, err
		}
		if done {
			return chosen == actionSkip, nil
		}
	}
}

// actionsFor builds the menu for a card. Cloze cards get the sentence and
// base-verb actions on top of the shared set.
func (r *Reviewer) actionsFor(c card.Card) []string {
	actions := []string{
		actionApprove,
		actionRegenImage,
		actionRegenAudio,
		actionReplayAudio,
	}
	if cloze, ok := c.(*card.ClozeCard); ok {
		actions = append(actions, actionChangeSentence)
		if cloze.WordAnalysis.PartOfSpeech == "verb" {
			actions = append(actions, actionToggleBaseVerb)
		}
	}
	return append(actions, actionSkip)
}

// applyAction executes one menu choice. The bool result reports whether the
// card's loop is finished (approved or skipped).
func (r *Reviewer) applyAction(ctx context.Context, session *card.Session, c card.Card, action string) (bool, error) {
	switch action {
	case actionApprove:
		if missing := c.MissingRequirements(); len(missing) > 0 {
			fmt.Printf("Cannot approve yet, still missing: %s\n", strings.Join(missing, ", "))
			return false, nil
		}
		c.MarkComplete()
		logrus.WithField("word", c.Word()).Info("Card approved")
		return true, nil

	case actionRegenImage:
		extra, err := r.prompter.Input("Additional image prompt (empty for none)")
		if err != nil {
			return false, fmt.Errorf("image prompt input failed: %w", err)
		}
		if !r.media.RegenerateImage(ctx, session, c, extra) {
			fmt.Println("Image regeneration failed, keeping previous image")
		}
		return false, nil

	case actionRegenAudio:
		if !r.media.RegenerateAudio(ctx, session, c) {
			fmt.Println("Audio regeneration failed, keeping previous audio")
		}
		return false, nil

	case actionReplayAudio:
		if c.AudioPath() == "" {
			fmt.Println("No audio generated yet")
			return false, nil
		}
		if err := r.playAudio(ctx, c.AudioPath()); err != nil {
			fmt.Printf("Playback problem: %v\n", err)
		}
		return false, nil

	case actionChangeSentence:
		cloze := c.(*card.ClozeCard)
		if err := r.selectSentenceFor(session, cloze, false); err != nil {
			return false, err
		}
		return false, nil

	case actionToggleBaseVerb:
		cloze := c.(*card.ClozeCard)
		cloze.ShowBaseVerb = !cloze.ShowBaseVerb
		state := "off"
		if cloze.ShowBaseVerb {
			state = "on"
		}
		fmt.Printf("Base verb display is now %s\n", state)
		return false, nil

	case actionSkip:
		logrus.WithField("word", c.Word()).Info("Card skipped, staying incomplete")
		return true, nil
	}

	return false, fmt.Errorf("unknown review action: %s", action)
}

// SelectSentences runs the initial sentence selection for every cloze card
// that has none yet. Extra selected sentences become sibling cards so each
// sentence gets its own note.
func (r *Reviewer) SelectSentences(session *card.Session) error {
	// Iterate over a snapshot; selection appends clones to the session.
	cards := make([]*card.ClozeCard, len(session.ClozeCards))
	copy(cards, session.ClozeCards)

	for _, c := range cards {
		if c.HasSelection() {
			continue
		}
		if err := r.selectSentenceFor(session, c, true); err != nil {
			return err
		}
	}
	return nil
}

// selectSentenceFor prompts for this card's sentence. During initial
// selection extra picks clone the card; when re-selecting an existing card
// only a single sentence may be picked.
func (r *Reviewer) selectSentenceFor(session *card.Session, c *card.ClozeCard, allowExtra bool) error {
	sentences := c.WordAnalysis.Sentences
	if len(sentences) == 0 {
		logrus.WithField("word", c.WordText).Warn("No example sentences available, card cannot be completed")
		return nil
	}

	options := make([]string, len(sentences))
	for i, s := range sentences {
		options[i] = sentenceLabel(s)
	}

	message := fmt.Sprintf("Choose sentence(s) for %q", c.WordText)
	if !allowExtra {
		index, err := r.prompter.Select(message, options)
		if err != nil {
			return fmt.Errorf("sentence selection failed: %w", err)
		}
		c.SelectSentence(sentences[index])
		return nil
	}

	var indexes []int
	for len(indexes) == 0 {
		var err error
		indexes, err = r.prompter.MultiSelect(message, options)
		if err != nil {
			return fmt.Errorf("sentence selection failed: %w", err)
		}
		if len(indexes) == 0 {
			fmt.Println("Select at least one sentence")
		}
	}

	c.SelectSentence(sentences[indexes[0]])
	for _, i := range indexes[1:] {
		session.AddClozeCard(c.CloneWithSentence(sentences[i]))
	}
	return nil
}

// sentenceLabel renders one selectable sentence with its grammar context.
func sentenceLabel(s card.ExampleSentence) string {
	var details []string
	if s.WordForm != "" {
		details = append(details, s.WordForm)
	}
	if s.Tense != "" {
		details = append(details, s.Tense)
	}
	if len(details) == 0 {
		return s.Sentence
	}
	return fmt.Sprintf("%s (%s)", s.Sentence, strings.Join(details, ", "))
}

// PrintSummary reports the session outcome after review.
func PrintSummary(session *card.Session) {
	total := len(session.Cards())
	incomplete := session.IncompleteCards()

	fmt.Printf("\n%d of %d cards approved\n", total-len(incomplete), total)
	for _, c := range incomplete {
		fmt.Printf("  still incomplete: %s (missing %s)\n",
			c.Word(), strings.Join(c.MissingRequirements(), ", "))
	}
}
