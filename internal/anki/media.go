package anki

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/avelez/palabra/internal/card"
)

// CopyVocabularyMedia stages image and audio files of complete vocabulary
// cards into the Anki media directory. The result map is keyed
// "<word>_image" / "<word>_audio" with per-file success. A missing media
// directory is a hard error before any file is touched.
func CopyVocabularyMedia(session *card.Session, mediaDir string) (map[string]bool, error) {
	if err := checkMediaDir(mediaDir); err != nil {
		return nil, err
	}

	results := make(map[string]bool)
	for _, c := range session.VocabularyCards {
		if !c.Complete() {
			continue
		}
		copyCardMedia(c, mediaDir, results)
	}
	return results, nil
}

// CopyClozeMedia stages image and audio files of complete cloze cards into
// the Anki media directory. Mnemonic images are already written there by
// media generation and are not copied again.
func CopyClozeMedia(session *card.Session, mediaDir string) (map[string]bool, error) {
	if err := checkMediaDir(mediaDir); err != nil {
		return nil, err
	}

	results := make(map[string]bool)
	for _, c := range session.ClozeCards {
		if !c.Complete() {
			continue
		}
		copyCardMedia(c, mediaDir, results)
	}
	return results, nil
}

func checkMediaDir(mediaDir string) error {
	if mediaDir == "" {
		return fmt.Errorf("no Anki media directory configured")
	}
	info, err := os.Stat(mediaDir)
	if err != nil {
		return fmt.Errorf("Anki media directory does not exist: %s", mediaDir)
	}
	if !info.IsDir() {
		return fmt.Errorf("Anki media path is not a directory: %s", mediaDir)
	}
	return nil
}

func copyCardMedia(c card.Card, mediaDir string, results map[string]bool) {
	if src := c.ImagePath(); src != "" {
		dst := filepath.Join(mediaDir, card.ImageFileName(c))
		err := copyFile(src, dst)
		if err != nil {
			logrus.WithError(err).WithField("source", src).Warn("Failed to copy media file")
		}
		results[c.Word()+"_image"] = err == nil
	}
	if src := c.AudioPath(); src != "" {
		dst := filepath.Join(mediaDir, card.AudioFileName(c))
		err := copyFile(src, dst)
		if err != nil {
			logrus.WithError(err).WithField("source", src).Warn("Failed to copy media file")
		}
		results[c.Word()+"_audio"] = err == nil
	}
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, in)
	return err
}
