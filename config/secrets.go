package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// EnvSecretsFile overrides the secrets file path.
const EnvSecretsFile = "WORKBENCH_SECRETS_FILE"

// DefaultSecretsFile is the secrets location relative to the workspace root.
var DefaultSecretsFile = filepath.Join(".workbench", "secrets.toml")

// OpenAISecrets authenticates the planner with an OpenAI-compatible provider.
type OpenAISecrets struct {
	APIKey            string `toml:"api_key"`
	Model             string `toml:"model"`
	ChatModel         string `toml:"chat_model"`
	DeepResearchModel string `toml:"deep_research_model"`
}

// TavilySecrets configures the web research client.
type TavilySecrets struct {
	APIKey  string `toml:"api_key"`
	BaseURL string `toml:"base_url"`
}

// Neo4jSecrets holds graph database credentials.
type Neo4jSecrets struct {
	URI      string `toml:"uri"`
	Username string `toml:"username"`
	Password string `toml:"password"`
	Database string `toml:"database"`
}

// DifySecrets configures the knowledge base retrieval client.
type DifySecrets struct {
	BaseURL   string `toml:"base_url"`
	APIKey    string `toml:"api_key"`
	DatasetID string `toml:"dataset_id"`
}

// Secrets bundles all supported secret tables. Absent tables stay nil.
type Secrets struct {
	OpenAI *OpenAISecrets `toml:"openai"`
	Tavily *TavilySecrets `toml:"tavily"`
	Neo4j  *Neo4jSecrets  `toml:"neo4j"`
	Dify   *DifySecrets   `toml:"dify"`
}

// SecretsPath returns the secrets file path in effect.
func SecretsPath() string {
	if p := os.Getenv(EnvSecretsFile); p != "" {
		return p
	}
	return DefaultSecretsFile
}

// LoadSecrets reads the secrets file. A missing file yields an empty Secrets
// value so optional tools can be probed and omitted without failing the build.
func LoadSecrets() (*Secrets, error) {
	return LoadSecretsFile(SecretsPath())
}

// LoadSecretsFile reads secrets from an explicit path.
func LoadSecretsFile(path string) (*Secrets, error) {
	var secrets Secrets
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return &secrets, nil
		}
		return nil, fmt.Errorf("stat secrets %s: %w", path, err)
	}
	if _, err := toml.DecodeFile(path, &secrets); err != nil {
		return nil, fmt.Errorf("parse secrets %s: %w", path, err)
	}
	secrets.normalize()
	return &secrets, nil
}

// normalize drops tables whose required keys are missing, mirroring the
// availability probe: a [neo4j] table without full credentials is treated as
// not configured.
func (s *Secrets) normalize() {
	if s.OpenAI != nil && s.OpenAI.APIKey == "" {
		s.OpenAI = nil
	}
	if s.Tavily != nil && s.Tavily.APIKey == "" {
		s.Tavily = nil
	}
	if s.Neo4j != nil && (s.Neo4j.URI == "" || s.Neo4j.Username == "" || s.Neo4j.Password == "") {
		s.Neo4j = nil
	}
	if s.Dify != nil && (s.Dify.BaseURL == "" || s.Dify.APIKey == "") {
		s.Dify = nil
	}
}

// HasOpenAI reports whether planner credentials are configured.
func (s *Secrets) HasOpenAI() bool { return s != nil && s.OpenAI != nil }

// HasTavily reports whether the research tool is configured.
func (s *Secrets) HasTavily() bool { return s != nil && s.Tavily != nil }

// HasNeo4j reports whether graph credentials are configured.
func (s *Secrets) HasNeo4j() bool { return s != nil && s.Neo4j != nil }

// HasDify reports whether the knowledge base client is configured.
func (s *Secrets) HasDify() bool { return s != nil && s.Dify != nil }
