package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/llms"

	"lumen/internal/agent"
	"lumen/internal/chunker"
	"lumen/internal/config"
	"lumen/internal/embedding"
	"lumen/internal/ingest"
	"lumen/internal/llmservice"
	"lumen/internal/registry"
	"lumen/internal/vectorstore"
)

// loadConfig reads the config file named by --config, falling back to
// environment defaults when the file does not exist.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			log.Debug().Str("path", configPath).Msg("No config file, using defaults")
			return config.Default(), nil
		}
		return nil, fmt.Errorf("load config %s: %w", configPath, err)
	}
	return cfg, nil
}

func newIndex(cfg *config.Config) (vectorstore.Index, error) {
	switch cfg.Vector.Backend {
	case "qdrant":
		return vectorstore.NewQdrantIndex(cfg.Vector.Host, cfg.Vector.Port, cfg.Vector.Collection)
	case "chromem":
		return vectorstore.NewChromemIndex(cfg.Vector.Path, cfg.Vector.Collection)
	default:
		return nil, fmt.Errorf("unknown vector backend %q", cfg.Vector.Backend)
	}
}

func newGateway(cfg *config.Config) (*vectorstore.Gateway, error) {
	embedder, err := embedding.NewEmbedder(&cfg.EmbedLLM)
	if err != nil {
		return nil, fmt.Errorf("initialize embedder: %w", err)
	}
	index, err := newIndex(cfg)
	if err != nil {
		return nil, err
	}
	return vectorstore.NewGateway(embedder, index, cfg.Vector.Dimension), nil
}

// newRegistry opens the ingest registry when a DSN is configured, nil
// otherwise.
func newRegistry(ctx context.Context, cfg *config.Config) (*registry.Registry, error) {
	if cfg.Registry.DSN == "" {
		return nil, nil
	}
	reg, err := registry.Connect(cfg.Registry)
	if err != nil {
		return nil, fmt.Errorf("connect registry: %w", err)
	}
	if err := reg.Init(ctx); err != nil {
		reg.Close()
		return nil, fmt.Errorf("initialize registry: %w", err)
	}
	return reg, nil
}

// newPipeline builds the ingest pipeline on top of an existing
// gateway so a process ingests and searches through one index handle.
func newPipeline(ctx context.Context, cfg *config.Config, gateway *vectorstore.Gateway) (*ingest.Pipeline, *registry.Registry, error) {
	reg, err := newRegistry(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	chunkCfg := chunker.Config{
		ChunkSize:    cfg.RAG.ChunkSize,
		ChunkOverlap: cfg.RAG.ChunkOverlap,
		MinChunkLen:  cfg.RAG.MinChunkLen,
	}
	return ingest.NewPipeline(gateway, reg, chunkCfg), reg, nil
}

// newChatService assembles the agent: a model factory, the built-in
// docs search tool over the given gateway, and optionally the tools of
// configured MCP servers. The returned closer shuts the MCP clients
// down.
func newChatService(ctx context.Context, cfg *config.Config, gateway *vectorstore.Gateway, withMCP bool) (*agent.Service, func(), error) {
	reg := agent.NewRegistry(agent.NewSearchDocsTool(gateway))
	closer := func() {}

	if withMCP && len(cfg.MCPServer) > 0 {
		mcpTools, closeMCP, err := agent.DiscoverMCPTools(ctx, cfg.MCPServer)
		if err != nil {
			return nil, nil, err
		}
		for _, t := range mcpTools {
			reg.Register(t)
		}
		closer = closeMCP
	}

	factory := func(model string) (llms.Model, error) {
		llmCfg := cfg.LLM
		if model != "" {
			llmCfg.Model = model
		}
		return llmservice.NewChatModel(&llmCfg)
	}

	return agent.NewService(factory, reg, cfg.LLM.Model), closer, nil
}
