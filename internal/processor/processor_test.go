package processor

import (
	"context"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/avelez/palabra/internal/card"
	"github.com/avelez/palabra/internal/cli"
)

// blockingAnalyzer parks every analysis until release is closed so tests
// can observe the pipeline with calls in flight.
type blockingAnalyzer struct {
	started   chan struct{}
	release   chan struct{}
	completed atomic.Int32
}

func (a *blockingAnalyzer) AnalyzeWord(ctx context.Context, word string, withSentences bool) (card.Analysis, error) {
	a.started <- struct{}{}
	<-a.release
	a.completed.Add(1)
	return card.Analysis{IPA: "x", PartOfSpeech: "noun"}, nil
}

func TestAnalyzeWordsDrainsInFlightOnCancel(t *testing.T) {
	os.Setenv("OPENAI_API_KEY", "test-key")
	defer os.Unsetenv("OPENAI_API_KEY")

	flags := cli.NewFlags()
	p, err := NewProcessor(flags)
	if err != nil {
		t.Fatalf("NewProcessor failed: %v", err)
	}
	analyzer := &blockingAnalyzer{
		started: make(chan struct{}, 3),
		release: make(chan struct{}),
	}
	p.analyzer = analyzer

	session := card.NewSession(t.TempDir())
	words := []card.WordInput{{Word: "casa"}, {Word: "perro"}, {Word: "gato"}}

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		errCh <- p.analyzeWords(ctx, session, words, nil)
	}()

	// Both semaphore slots busy, the third word is blocked on acquire.
	<-analyzer.started
	<-analyzer.started
	cancel()

	select {
	case <-errCh:
		t.Fatal("analyzeWords returned with analyses still in flight")
	case <-time.After(50 * time.Millisecond):
	}

	close(analyzer.release)
	if err := <-errCh; err == nil {
		t.Error("Expected an error after cancellation")
	}
	if got := analyzer.completed.Load(); got != 2 {
		t.Errorf("Expected both in-flight analyses to finish before return, got %d", got)
	}
}

func TestNewProcessor(t *testing.T) {
	os.Setenv("OPENAI_API_KEY", "test-key")
	defer os.Unsetenv("OPENAI_API_KEY")

	flags := cli.NewFlags()
	p, err := NewProcessor(flags)
	if err != nil {
		t.Fatalf("NewProcessor failed: %v", err)
	}

	if p.flags != flags {
		t.Error("Processor flags not set correctly")
	}
	if p.analyzer == nil {
		t.Error("Analyzer not initialized")
	}
	if p.media == nil {
		t.Error("Media orchestrator not initialized")
	}
	if p.reviewer == nil {
		t.Error("Reviewer not initialized")
	}
	if p.collector == nil {
		t.Error("Collector not initialized")
	}
}

func TestNewProcessorWithoutAPIKey(t *testing.T) {
	os.Unsetenv("OPENAI_API_KEY")

	if _, err := NewProcessor(cli.NewFlags()); err == nil {
		t.Error("Expected error when no API key is configured")
	}
}

func TestResolveDeckName(t *testing.T) {
	os.Setenv("OPENAI_API_KEY", "test-key")
	defer os.Unsetenv("OPENAI_API_KEY")

	flags := cli.NewFlags()
	flags.DeckName = "Mi Mazo"
	p, err := NewProcessor(flags)
	if err != nil {
		t.Fatalf("NewProcessor failed: %v", err)
	}

	if got := p.resolveDeckName(); got != "Mi Mazo" {
		t.Errorf("resolveDeckName = %q, want 'Mi Mazo'", got)
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"simple", "Spanish Words", "Spanish_Words"},
		{"deck hierarchy", "Fluent Forever Spanish::2. Everything Else", "Fluent_Forever_Spanish2_Everything_Else"},
		{"only separators", "::/", "palabra_export"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sanitizeFilename(tt.in); got != tt.want {
				t.Errorf("sanitizeFilename(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
