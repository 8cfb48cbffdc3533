package config

import (
	"encoding/json"
	"math/big"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	RPCURLs         []RPCUrl `json:"rpc_urls" yaml:"rpc_urls"`
	ChainID         int64    `json:"chain_id" yaml:"chain_id"`
	Bridge          string   `json:"bridge" yaml:"bridge"`   // "node" or "key"
	KeyEnv          string   `json:"key_env" yaml:"key_env"` // env var holding the private key for the key bridge
	ContractAddress string   `json:"contract_address" yaml:"contract_address"`
	ArtifactPath    string   `json:"artifact_path" yaml:"artifact_path"`
	StorePath       string   `json:"store_path" yaml:"store_path"`
	Logger          bool     `json:"logger" yaml:"logger"`
}

// RPCUrl represents an RPC endpoint
type RPCUrl struct {
	Name   string `json:"name" yaml:"name"`
	URL    string `json:"url" yaml:"url"`
	Active bool   `json:"active" yaml:"active"`
}

// DefaultPath returns ~/.invoice-wallet-config.json
func DefaultPath() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".invoice-wallet-config.json")
}

// PathEnv overrides DefaultPath when set
const PathEnv = "INVOICE_WALLET_CONFIG"

// ResolvePath returns $INVOICE_WALLET_CONFIG or the default location
func ResolvePath() string {
	if p := strings.TrimSpace(os.Getenv(PathEnv)); p != "" {
		return p
	}
	return DefaultPath()
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

// Load reads the config from the specified path.
// Unreadable or invalid files yield the defaults.
func Load(path string) Config {
	data, err := os.ReadFile(path)
	if err != nil {
		return withDefaults(Config{})
	}

	var cfg Config
	if isYAML(path) {
		err = yaml.Unmarshal(data, &cfg)
	} else {
		err = json.Unmarshal(data, &cfg)
	}
	if err != nil {
		return withDefaults(Config{})
	}

	return withDefaults(cfg)
}

// Save writes the config to the specified path
func Save(path string, cfg Config) error {
	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(cfg)
	} else {
		data, err = json.MarshalIndent(cfg, "", "  ")
	}
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// DefaultConfig returns a new configuration with sensible defaults
func DefaultConfig() Config {
	return Config{
		RPCURLs: []RPCUrl{
			{
				Name:   "Local Node",
				URL:    "http://127.0.0.1:8545",
				Active: true,
			},
		},
		ChainID: 31337,
		Bridge:  "node",
		KeyEnv:  "WALLET_PRIVATE_KEY",
		Logger:  false,
	}
}

// LoadOrCreate loads config from path, or creates a default one if not found
func LoadOrCreate(path string) Config {
	if _, err := os.Stat(path); err != nil {
		cfg := DefaultConfig()
		cfg = withDefaults(cfg)
		_ = Save(path, cfg)
		return cfg
	}
	return Load(path)
}

func withDefaults(c Config) Config {
	d := DefaultConfig()
	if len(c.RPCURLs) == 0 {
		if env := strings.TrimSpace(os.Getenv("ETH_RPC_URL")); env != "" {
			c.RPCURLs = []RPCUrl{{Name: "Default", URL: env, Active: true}}
		} else {
			c.RPCURLs = d.RPCURLs
		}
	}
	if c.Bridge == "" {
		c.Bridge = d.Bridge
	}
	if c.KeyEnv == "" {
		c.KeyEnv = d.KeyEnv
	}
	if c.StorePath == "" {
		homeDir, _ := os.UserHomeDir()
		c.StorePath = filepath.Join(homeDir, ".invoice-wallet-store.json")
	}
	return c
}

// ActiveRPC returns the active endpoint URL, falling back to the first one
func (c Config) ActiveRPC() string {
	for _, r := range c.RPCURLs {
		if r.Active {
			return r.URL
		}
	}
	if len(c.RPCURLs) > 0 {
		return c.RPCURLs[0].URL
	}
	return ""
}

// ChainIDBig returns the expected chain id, or nil when any chain is accepted
func (c Config) ChainIDBig() *big.Int {
	if c.ChainID <= 0 {
		return nil
	}
	return big.NewInt(c.ChainID)
}
