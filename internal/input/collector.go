// Package input collects the words a session will turn into cards, either
// interactively or from a batch file.
package input

import (
	"fmt"

	"github.com/avelez/palabra/internal/card"
	"github.com/avelez/palabra/internal/prompt"
)

// Collector gathers word inputs through interactive prompts.
type Collector struct {
	prompter prompt.Prompter
}

// NewCollector creates a collector using the given prompter.
func NewCollector(p prompt.Prompter) *Collector {
	return &Collector{prompter: p}
}

// CollectWords asks for vocabulary words until the user enters a blank
// line. Each word gets optional personal context and an optional extra
// image prompt.
func (c *Collector) CollectWords() ([]card.WordInput, error) {
	var inputs []card.WordInput
	for {
		word, err := c.prompter.Input("Spanish word (empty to finish)")
		if err != nil {
			return nil, fmt.Errorf("word prompt failed: %w", err)
		}
		if word == "" {
			return inputs, nil
		}

		context, err := c.prompter.Input("Personal context (optional)")
		if err != nil {
			return nil, fmt.Errorf("context prompt failed: %w", err)
		}
		extraPrompt, err := c.prompter.Input("Extra image prompt (optional)")
		if err != nil {
			return nil, fmt.Errorf("image prompt failed: %w", err)
		}

		inputs = append(inputs, card.WordInput{
			Word:             word,
			PersonalContext:  context,
			ExtraImagePrompt: extraPrompt,
		})
	}
}

// CollectClozeWords asks for cloze words until the user enters a blank
// line. On top of the vocabulary metadata, cloze cards take optional
// definitions and an optional mnemonic-image description.
func (c *Collector) CollectClozeWords() ([]card.ClozeInput, error) {
	var inputs []card.ClozeInput
	for {
		word, err := c.prompter.Input("Spanish word for a cloze card (empty to finish)")
		if err != nil {
			return nil, fmt.Errorf("word prompt failed: %w", err)
		}
		if word == "" {
			return inputs, nil
		}

		context, err := c.prompter.Input("Personal context (optional)")
		if err != nil {
			return nil, fmt.Errorf("context prompt failed: %w", err)
		}
		extraPrompt, err := c.prompter.Input("Extra image prompt (optional)")
		if err != nil {
			return nil, fmt.Errorf("image prompt failed: %w", err)
		}
		definitions, err := c.prompter.Input("Definitions (optional)")
		if err != nil {
			return nil, fmt.Errorf("definitions prompt failed: %w", err)
		}
		mnemonic, err := c.prompter.Input("Mnemonic image description (optional)")
		if err != nil {
			return nil, fmt.Errorf("mnemonic prompt failed: %w", err)
		}

		inputs = append(inputs, card.ClozeInput{
			Word:                word,
			PersonalContext:     context,
			ExtraImagePrompt:    extraPrompt,
			Definitions:         definitions,
			MnemonicDescription: mnemonic,
		})
	}
}
