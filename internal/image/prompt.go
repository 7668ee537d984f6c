package image

import (
	"fmt"

	"github.com/avelez/palabra/internal/card"
)

// buildPrompt composes the image generation prompt from the word's
// linguistic analysis. The part of speech and, for nouns, the gender drive
// different mnemonic renderings so the image itself encodes grammar:
// masculine nouns burn, feminine nouns freeze.
func buildPrompt(req Request) string {
	var prompt string

	switch req.Analysis.PartOfSpeech {
	case "verb":
		prompt = fmt.Sprintf(
			"Create a dynamic, educational image showing the action of the Spanish verb '%s'. "+
				"Emphasize movement and the action being performed, so a language learner connects the image to the verb.",
			req.Word)
	case "adjective":
		prompt = fmt.Sprintf(
			"Create an educational image showing several different objects that all share the quality described by the Spanish adjective '%s'. "+
				"The common quality should be visually obvious.",
			req.Word)
	case "noun":
		switch req.Analysis.Gender {
		case "masculine":
			prompt = fmt.Sprintf(
				"Create an educational image of the Spanish masculine noun '%s' rendered with a hot, fiery theme: "+
					"flames, embers, or intense heat surrounding the subject. The fire marks the noun as masculine.",
				req.Word)
		case "feminine":
			prompt = fmt.Sprintf(
				"Create an educational image of the Spanish feminine noun '%s' rendered with a cold, icy theme: "+
					"frost, ice crystals, or snow surrounding the subject. The ice marks the noun as feminine.",
				req.Word)
		default:
			prompt = genericPrompt(req.Word)
		}
	default:
		prompt = genericPrompt(req.Word)
	}

	if req.Sentence != "" {
		prompt += fmt.Sprintf(" The image should match this example sentence: \"%s\".", req.Sentence)
	}
	if req.ExtraPrompt != "" {
		prompt += " " + req.ExtraPrompt
	}

	return prompt
}

func genericPrompt(word string) string {
	return fmt.Sprintf(
		"Create a clear, educational image representing the Spanish word '%s'. "+
			"The image should help language learners remember the meaning.",
		word)
}

// buildMnemonicPrompt composes the prompt for a mnemonic priming image: a
// visual keyed to how the word sounds, not what it means.
func buildMnemonicPrompt(word, description string) string {
	return fmt.Sprintf(
		"Create a memorable image that helps recall the Spanish word '%s' through phonetic similarity or sound association. "+
			"The image must NOT contain any text or words. "+
			"Focus on a visual that sounds similar to '%s' or its parts, helping memory through sound rather than meaning. "+
			"User's description for the phonetic association: %s",
		word, word, description)
}

// analysisSummary is a compact grammar tag appended to log lines.
func analysisSummary(a card.Analysis) string {
	switch {
	case a.Gender != "":
		return a.PartOfSpeech + "/" + a.Gender
	case a.VerbType != "":
		return a.PartOfSpeech + "/" + a.VerbType
	default:
		return a.PartOfSpeech
	}
}
