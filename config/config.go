// Package config loads the optional YAML workspace configuration and the TOML
// secrets file. Every field is optional; missing files fall back to defaults
// so a bare checkout stays usable.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// EnvConfigFile overrides the workspace configuration path.
const EnvConfigFile = "WORKBENCH_CONFIG"

// DefaultConfigFile is the configuration file looked up in the working
// directory when no override is set.
const DefaultConfigFile = "workbench.yaml"

// Config is the workspace-level configuration.
type Config struct {
	Workspace WorkspaceConfig `yaml:"workspace"`
	Logging   LoggingConfig   `yaml:"logging"`
	Agent     AgentConfig     `yaml:"agent"`
	Journal   JournalConfig   `yaml:"journal"`
	Research  ResearchConfig  `yaml:"research"`
	Scholar   ScholarConfig   `yaml:"scholar"`
	Serve     ServeConfig     `yaml:"serve"`
}

// WorkspaceConfig describes the local workspace layout and the external CLIs
// the check/tools commands probe for.
type WorkspaceConfig struct {
	Root     string          `yaml:"root"`
	DocsDir  string          `yaml:"docs_dir"`
	CLITools []CLIToolConfig `yaml:"cli_tools"`
}

// CLIToolConfig describes one external CLI tracked by the workspace.
type CLIToolConfig struct {
	Command     string   `yaml:"command"`
	Label       string   `yaml:"label"`
	VersionArgs []string `yaml:"version_args"`
}

// LoggingConfig controls the slog handler.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// AgentConfig holds loop defaults.
type AgentConfig struct {
	Engine        string `yaml:"engine"`
	MaxIterations int    `yaml:"max_iterations"`
	PythonBinary  string `yaml:"python_binary"`
}

// JournalConfig locates the embedded run journal. An empty path disables it.
type JournalConfig struct {
	Path string `yaml:"path"`
}

// ResearchConfig tunes the Tavily client and its optional Redis cache.
type ResearchConfig struct {
	CacheAddr     string `yaml:"cache_addr"`
	CachePassword string `yaml:"cache_password"`
	CacheDB       int    `yaml:"cache_db"`
	CacheTTLSec   int    `yaml:"cache_ttl_sec"`
}

// ScholarConfig carries etiquette settings for Crossref and OpenAlex.
type ScholarConfig struct {
	Mailto string `yaml:"mailto"`
}

// ServeConfig configures the run-event streaming server.
type ServeConfig struct {
	Addr      string `yaml:"addr"`
	JWTSecret string `yaml:"jwt_secret"`
}

// Default returns the built-in configuration used when no file exists.
func Default() Config {
	cwd, _ := os.Getwd()
	return Config{
		Workspace: WorkspaceConfig{
			Root:    cwd,
			DocsDir: "docs/generated",
			CLITools: []CLIToolConfig{
				{Command: "git", Label: "Git"},
				{Command: "python3", Label: "Python 3"},
				{Command: "node", Label: "Node.js"},
			},
		},
		Logging: LoggingConfig{Level: "info", Format: "text"},
		Agent:   AgentConfig{Engine: "react", MaxIterations: 8, PythonBinary: "python3"},
		Journal: JournalConfig{Path: filepath.Join(".workbench", "journal.db")},
		Serve:   ServeConfig{Addr: "127.0.0.1:8787"},
	}
}

// Path returns the configuration file path in effect.
func Path() string {
	if p := os.Getenv(EnvConfigFile); p != "" {
		return p
	}
	return DefaultConfigFile
}

// Load reads the workspace configuration, merging file values over defaults.
// A missing file is not an error.
func Load() (Config, error) {
	return LoadFile(Path())
}

// LoadFile reads the configuration from an explicit path.
func LoadFile(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Default(), fmt.Errorf("parse config %s: %w", path, err)
	}
	applyDefaults(&cfg)
	return cfg, nil
}

// applyDefaults restores required fields a sparse file may have cleared.
func applyDefaults(cfg *Config) {
	def := Default()
	if cfg.Workspace.Root == "" {
		cfg.Workspace.Root = def.Workspace.Root
	}
	if cfg.Workspace.DocsDir == "" {
		cfg.Workspace.DocsDir = def.Workspace.DocsDir
	}
	if len(cfg.Workspace.CLITools) == 0 {
		cfg.Workspace.CLITools = def.Workspace.CLITools
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = def.Logging.Level
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = def.Logging.Format
	}
	if cfg.Agent.Engine == "" {
		cfg.Agent.Engine = def.Agent.Engine
	}
	if cfg.Agent.MaxIterations <= 0 {
		cfg.Agent.MaxIterations = def.Agent.MaxIterations
	}
	if cfg.Agent.PythonBinary == "" {
		cfg.Agent.PythonBinary = def.Agent.PythonBinary
	}
	if cfg.Serve.Addr == "" {
		cfg.Serve.Addr = def.Serve.Addr
	}
}
