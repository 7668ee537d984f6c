// Package archive moves a finished session's output directory aside so the
// next run starts from a clean slate without losing the generated media.
package archive

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// ArchiveCards moves the card output directory to a timestamped sibling
// under archive/.
func ArchiveCards(cardsDir string) error {
	if _, err := os.Stat(cardsDir); os.IsNotExist(err) {
		return fmt.Errorf("cards directory does not exist: %s", cardsDir)
	}

	parentDir := filepath.Dir(cardsDir)
	archiveDir := filepath.Join(parentDir, "archive")

	if err := os.MkdirAll(archiveDir, 0755); err != nil {
		return fmt.Errorf("failed to create archive directory: %w", err)
	}

	timestamp := time.Now().Format("20060102-150405")
	archiveName := fmt.Sprintf("cards-%s", timestamp)
	archivePath := filepath.Join(archiveDir, archiveName)

	// Two runs within the same second are possible; fall back to microseconds.
	if _, err := os.Stat(archivePath); err == nil {
		timestamp = time.Now().Format("20060102-150405.000000")
		archiveName = fmt.Sprintf("cards-%s", timestamp)
		archivePath = filepath.Join(archiveDir, archiveName)
	}

	if err := os.Rename(cardsDir, archivePath); err != nil {
		return fmt.Errorf("failed to archive cards directory: %w", err)
	}

	fmt.Printf("Cards directory archived to: %s\n", archivePath)
	return nil
}
