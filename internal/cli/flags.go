package cli

// Flags holds all command-line flag values.
type Flags struct {
	CfgFile      string
	OutputDir    string
	BatchFile    string
	DeckName     string
	AnkiMediaDir string
	APKG         bool
	SkipCloze    bool
	TestSpelling bool
	Verbose      bool
	Archive      bool
	ListModels   bool

	// OpenAI TTS flags
	OpenAIModel string
	OpenAIVoice string
	OpenAISpeed float64

	// OpenAI image flags
	OpenAIImageModel   string
	OpenAIImageSize    string
	OpenAIImageQuality string
	OpenAIImageStyle   string
}

// NewFlags creates a Flags instance with default values.
func NewFlags() *Flags {
	return &Flags{
		OpenAIModel:        "gpt-4o-mini-tts",
		OpenAISpeed:        0.95,
		OpenAIImageModel:   "dall-e-3",
		OpenAIImageSize:    "1024x1024",
		OpenAIImageQuality: "standard",
		OpenAIImageStyle:   "natural",
	}
}
