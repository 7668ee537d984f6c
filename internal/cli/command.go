package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/avelez/palabra/internal"
)

// CreateRootCommand creates and configures the root cobra command.
func CreateRootCommand(flags *Flags) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "palabra",
		Short: "Spanish Anki Flashcard Generator",
		Long: `palabra turns Spanish words into Anki flashcards.

It analyzes each word (IPA, part of speech, example sentences), generates
a mnemonic image and a pronunciation recording, walks you through an
interactive review, and writes tab-separated Anki import files.

Examples:
  palabra                        # Interactive session
  palabra --batch words.txt      # Read vocabulary words from a file
  palabra --deck-name "Mi Mazo"  # Export into a custom deck
  palabra --apkg                 # Also produce a .apkg package`,
		Args:    cobra.NoArgs,
		Version: internal.Version,
	}

	setupFlags(rootCmd, flags)

	return rootCmd
}

func setupFlags(cmd *cobra.Command, flags *Flags) {
	home, _ := os.UserHomeDir()
	defaultOutputDir := filepath.Join(home, ".local", "state", "palabra", "cards")

	cmd.PersistentFlags().StringVar(&flags.CfgFile, "config", "", "config file (default is $HOME/.palabra.yaml)")

	cmd.Flags().StringVarP(&flags.OutputDir, "output", "o", defaultOutputDir, "Output directory for media and import files")
	cmd.Flags().StringVar(&flags.BatchFile, "batch", "", "Read vocabulary words from file (one per line, 'word = context' supported)")
	cmd.Flags().StringVar(&flags.DeckName, "deck-name", "", "Target Anki deck name (default: Fluent Forever Spanish::2. Everything Else)")
	cmd.Flags().StringVar(&flags.AnkiMediaDir, "anki-media-dir", "", "Anki collection.media directory (default: auto-discovered)")
	cmd.Flags().BoolVar(&flags.APKG, "apkg", false, "Also generate a .apkg package for vocabulary cards")
	cmd.Flags().BoolVar(&flags.SkipCloze, "skip-cloze", false, "Skip cloze card collection")
	cmd.Flags().BoolVar(&flags.TestSpelling, "test-spelling", false, "Mark exported vocabulary cards for spelling tests")
	cmd.Flags().BoolVarP(&flags.Verbose, "verbose", "v", false, "Enable debug logging")
	cmd.Flags().BoolVar(&flags.Archive, "archive", false, "Archive the card output directory and exit")
	cmd.Flags().BoolVar(&flags.ListModels, "list-models", false, "List available OpenAI models for the current API key")

	cmd.Flags().StringVar(&flags.OpenAIModel, "openai-model", flags.OpenAIModel, "OpenAI TTS model: tts-1, tts-1-hd, gpt-4o-mini-tts")
	cmd.Flags().StringVar(&flags.OpenAIVoice, "openai-voice", "", "OpenAI voice (default: random Spanish-suitable voice)")
	cmd.Flags().Float64Var(&flags.OpenAISpeed, "openai-speed", flags.OpenAISpeed, "OpenAI speech speed (0.25 to 4.0)")

	cmd.Flags().StringVar(&flags.OpenAIImageModel, "openai-image-model", flags.OpenAIImageModel, "OpenAI image model: dall-e-2 or dall-e-3")
	cmd.Flags().StringVar(&flags.OpenAIImageSize, "openai-image-size", flags.OpenAIImageSize, "Image size: 256x256, 512x512, 1024x1024 (dall-e-3: also 1024x1792, 1792x1024)")
	cmd.Flags().StringVar(&flags.OpenAIImageQuality, "openai-image-quality", flags.OpenAIImageQuality, "Image quality: standard or hd (dall-e-3 only)")
	cmd.Flags().StringVar(&flags.OpenAIImageStyle, "openai-image-style", flags.OpenAIImageStyle, "Image style: natural or vivid (dall-e-3 only)")

	bindFlagsToViper(cmd)
}

func bindFlagsToViper(cmd *cobra.Command) {
	viper.BindPFlag("output.directory", cmd.Flags().Lookup("output"))
	viper.BindPFlag("anki.deck_name", cmd.Flags().Lookup("deck-name"))
	viper.BindPFlag("anki.media_dir", cmd.Flags().Lookup("anki-media-dir"))
	viper.BindPFlag("anki.test_spelling", cmd.Flags().Lookup("test-spelling"))
	viper.BindPFlag("audio.openai_model", cmd.Flags().Lookup("openai-model"))
	viper.BindPFlag("audio.openai_voice", cmd.Flags().Lookup("openai-voice"))
	viper.BindPFlag("audio.openai_speed", cmd.Flags().Lookup("openai-speed"))
	viper.BindPFlag("image.openai_model", cmd.Flags().Lookup("openai-image-model"))
	viper.BindPFlag("image.openai_size", cmd.Flags().Lookup("openai-image-size"))
	viper.BindPFlag("image.openai_quality", cmd.Flags().Lookup("openai-image-quality"))
	viper.BindPFlag("image.openai_style", cmd.Flags().Lookup("openai-image-style"))
}

// InitConfig initializes viper configuration.
func InitConfig(cfgFile string) {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error getting home directory: %v\n", err)
			return
		}

		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".palabra")
	}

	viper.SetEnvPrefix("PALABRA")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// GetOpenAIKey retrieves the OpenAI API key from the environment or config.
func GetOpenAIKey() string {
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		return key
	}
	return viper.GetString("openai_key")
}
