package input

import (
	"fmt"
	"os"
	"strings"

	"github.com/avelez/palabra/internal/card"
)

// ReadBatchFile reads vocabulary word entries from a file, one per line.
// Supported formats:
//   - word only: "casa"
//   - with personal context: "casa = mi hogar de la infancia"
//
// Blank lines and lines starting with '#' are skipped. Batch entries get no
// extra image prompt; that stays available through review regeneration.
func ReadBatchFile(filename string) ([]card.WordInput, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read batch file: %w", err)
	}

	var entries []card.WordInput
	for _, line := range strings.Split(string(content), "\n") {
		line = strings.TrimSpace(strings.TrimSuffix(line, "\r"))
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		word, context := line, ""
		if strings.Contains(line, "=") {
			parts := strings.SplitN(line, "=", 2)
			word = strings.TrimSpace(parts[0])
			context = strings.TrimSpace(parts[1])
		}
		if word == "" {
			continue
		}

		entries = append(entries, card.WordInput{
			Word:            word,
			PersonalContext: context,
		})
	}

	return entries, nil
}
