package config

import (
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	LLM       LLMConfig       `yaml:"llm"`
	EmbedLLM  LLMConfig       `yaml:"embed_llm"`
	Vector    VectorConfig    `yaml:"vector"`
	RAG       RAGConfig       `yaml:"rag"`
	Registry  RegistryConfig  `yaml:"registry"`
	Server    ServerConfig    `yaml:"server"`
	MCPServer []MCPServerSpec `yaml:"mcp_servers"`
}

type LLMConfig struct {
	Provider string `yaml:"provider"` // "openai" or "ollama"
	BaseURL  string `yaml:"base_url"`
	Key      string `yaml:"key"`
	Model    string `yaml:"model"`
}

type VectorConfig struct {
	// Backend selects the index implementation: "qdrant" for a server,
	// "chromem" for the embedded local store.
	Backend    string `yaml:"backend"`
	Host       string `yaml:"host"`
	Port       int    `yaml:"port"`
	Path       string `yaml:"path"`
	Collection string `yaml:"collection"`
	Dimension  int    `yaml:"dimension"`
}

type RAGConfig struct {
	ChunkSize    int `yaml:"chunk_size"`
	ChunkOverlap int `yaml:"chunk_overlap"`
	MinChunkLen  int `yaml:"min_chunk_len"`
	SearchLimit  int `yaml:"search_limit"`
}

type RegistryConfig struct {
	DSN      string `yaml:"dsn"`
	Password string `yaml:"password"`
	Debug    bool   `yaml:"debug"`
}

type ServerConfig struct {
	Port string `yaml:"port"`
}

// MCPServerSpec describes one stdio MCP server the agent may discover
// tools from.
type MCPServerSpec struct {
	Name    string   `yaml:"name"`
	Command string   `yaml:"command"`
	Args    []string `yaml:"args"`
	Env     []string `yaml:"env"`
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.applyEnv()
	cfg.applyDefaults()
	return &cfg, nil
}

// Default returns a config built from environment variables alone, for
// running without a config file.
func Default() *Config {
	cfg := &Config{}
	cfg.applyEnv()
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyEnv() {
	if v := os.Getenv("OPENAI_API_KEY"); v != "" && c.LLM.Key == "" {
		c.LLM.Key = v
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" && c.EmbedLLM.Key == "" {
		c.EmbedLLM.Key = v
	}
	if v := os.Getenv("LUMEN_CHAT_MODEL"); v != "" {
		c.LLM.Model = v
	}
	if v := os.Getenv("LUMEN_EMBEDDING_MODEL"); v != "" {
		c.EmbedLLM.Model = v
	}
	if v := os.Getenv("QDRANT_HOST"); v != "" {
		c.Vector.Backend = "qdrant"
		c.Vector.Host = v
	}
	if v := os.Getenv("QDRANT_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			c.Vector.Port = p
		}
	}
	if v := os.Getenv("LUMEN_REGISTRY_DSN"); v != "" {
		c.Registry.DSN = v
	}
}

func (c *Config) applyDefaults() {
	if c.LLM.Provider == "" {
		c.LLM.Provider = "openai"
	}
	if c.LLM.Model == "" {
		c.LLM.Model = "gpt-4o-mini"
	}
	if c.EmbedLLM.Provider == "" {
		c.EmbedLLM.Provider = c.LLM.Provider
	}
	if c.EmbedLLM.Model == "" {
		c.EmbedLLM.Model = "text-embedding-3-small"
	}
	if c.Vector.Backend == "" {
		c.Vector.Backend = "chromem"
	}
	if c.Vector.Host == "" {
		c.Vector.Host = "localhost"
	}
	if c.Vector.Port == 0 {
		c.Vector.Port = 6334
	}
	if c.Vector.Path == "" {
		c.Vector.Path = "./lumen-db"
	}
	if c.Vector.Collection == "" {
		c.Vector.Collection = "AWS_DOCS"
	}
	if c.Vector.Dimension == 0 {
		c.Vector.Dimension = 1536
	}
	if c.RAG.ChunkSize == 0 {
		c.RAG.ChunkSize = 10000
	}
	if c.RAG.ChunkOverlap == 0 {
		c.RAG.ChunkOverlap = 300
	}
	if c.RAG.MinChunkLen == 0 {
		c.RAG.MinChunkLen = 20
	}
	if c.RAG.SearchLimit == 0 {
		c.RAG.SearchLimit = 5
	}
	if c.Server.Port == "" {
		c.Server.Port = "8080"
	}
}
