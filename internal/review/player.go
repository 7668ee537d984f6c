package review

import (
	"context"
	"fmt"
	"os/exec"
	"time"

	"github.com/sirupsen/logrus"
)

// PlayerCommand is the external audio player invoked for replay during
// review.
const PlayerCommand = "mpv"

// playbackTimeout bounds a single playback; a stuck player process is
// killed and reported, never fatal.
const playbackTimeout = 30 * time.Second

// CheckPlayerInstalled verifies the audio player is on PATH. Called once at
// startup so the user learns about a missing player before any API spend.
func CheckPlayerInstalled() error {
	if _, err := exec.LookPath(PlayerCommand); err != nil {
		return fmt.Errorf("audio player %q not found on PATH; install it with your package manager (e.g. 'apt install mpv' or 'brew install mpv')", PlayerCommand)
	}
	return nil
}

// playerArgs builds the mpv argument list. --no-video keeps mpv from
// opening a window for embedded cover art.
func playerArgs(path string) []string {
	return []string{"--really-quiet", "--no-video", path}
}

// PlayAudio plays the given file with the external player, waiting for it
// to finish or time out. Errors are logged and returned but callers treat
// them as non-fatal.
func PlayAudio(ctx context.Context, path string) error {
	ctx, cancel := context.WithTimeout(ctx, playbackTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, PlayerCommand, playerArgs(path)...)
	if err := cmd.Run(); err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			logrus.WithField("file", path).Warn("Audio playback timed out")
			return fmt.Errorf("playback timed out after %s", playbackTimeout)
		}
		logrus.WithError(err).WithField("file", path).Warn("Audio playback failed")
		return fmt.Errorf("playback failed: %w", err)
	}
	return nil
}
