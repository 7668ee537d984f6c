package main

import (
	"context"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/avelez/palabra/internal/archive"
	"github.com/avelez/palabra/internal/cli"
	"github.com/avelez/palabra/internal/models"
	"github.com/avelez/palabra/internal/processor"
)

func main() {
	flags := cli.NewFlags()
	rootCmd := cli.CreateRootCommand(flags)

	cobra.OnInitialize(func() {
		cli.InitConfig(flags.CfgFile)
	})

	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		if flags.Verbose {
			logrus.SetLevel(logrus.DebugLevel)
		}

		if flags.Archive {
			return archive.ArchiveCards(flags.OutputDir)
		}
		if flags.ListModels {
			lister := models.NewLister(cli.GetOpenAIKey())
			return lister.ListAvailableModels()
		}

		proc, err := processor.NewProcessor(flags)
		if err != nil {
			return err
		}
		return proc.Run(context.Background())
	}

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
