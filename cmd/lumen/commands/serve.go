package commands

import (
	"net/http"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"lumen/internal/api"
)

var serveMCP bool

// NewServeCmd builds the HTTP server command.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		Long: `Serve exposes ingest, search, collection metadata, and chat over
HTTP on the configured port.`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}
	cmd.Flags().BoolVar(&serveMCP, "mcp", false, "Discover tools from configured MCP servers")
	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx := cmd.Context()

	// One gateway per process: ingest, search, and the chat tool must
	// observe the same index handle.
	gateway, err := newGateway(cfg)
	if err != nil {
		return err
	}

	pipeline, reg, err := newPipeline(ctx, cfg, gateway)
	if err != nil {
		return err
	}
	if reg != nil {
		defer reg.Close()
	}

	chat, closer, err := newChatService(ctx, cfg, gateway, serveMCP)
	if err != nil {
		return err
	}
	defer closer()

	srv := api.NewServer(pipeline, gateway, chat)
	addr := ":" + cfg.Server.Port
	log.Info().Str("addr", addr).Msg("Starting HTTP server")
	return http.ListenAndServe(addr, srv)
}
