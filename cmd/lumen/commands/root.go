// Package commands wires the CLI surface of lumen: ingesting AWS
// documentation PDFs, querying the vector store, and chatting with the
// retrieval agent.
package commands

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	configPath string
	verbose    bool
)

// NewRootCmd builds the lumen command tree.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lumen",
		Short: "Local RAG over AWS documentation PDFs",
		Long: `lumen ingests AWS documentation PDFs into a local vector store and
answers questions over them with a tool-calling chat model.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			_ = godotenv.Load()
			setupLogging()
		},
	}

	cmd.PersistentFlags().StringVar(&configPath, "config", "./configs/config.yaml", "Path to the config file")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	cmd.AddCommand(
		NewIngestCmd(),
		NewSearchCmd(),
		NewChatCmd(),
		NewServeCmd(),
		NewCollectionCmd(),
		NewIngestsCmd(),
	)
	return cmd
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}

func setupLogging() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).With().Caller().Logger()
}
