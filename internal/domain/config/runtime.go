package config

import (
	"math/big"
)

// RuntimeConfig represents the complete runtime configuration
// This is injected into use cases and contains all resolved settings
type RuntimeConfig struct {
	// Core settings
	ProjectRoot string
	DataDir     string

	// Context settings
	Network *Network

	// Deployment settings
	Contract   string
	StoreValue *big.Int
	DeployOnly bool
	ReportPath string
	PrivateKey string //nolint:gosec // resolved from env, never logged

	// Fallbacks used when foundry.toml does not say otherwise
	DefaultRPCURL  string
	ExplorerAPIKey string //nolint:gosec // resolved from env, never logged

	// Execution settings
	Debug          bool
	NonInteractive bool

	// Resolved configurations
	FoundryConfig *FoundryConfig
}

// Network represents network configuration
type Network struct {
	Name string `json:"name"`
	// ChainID is the pinned chain id, 0 means "whatever the RPC reports"
	ChainID        uint64 `json:"chainId,omitempty"`
	RPCURL         string `json:"rpcUrl"`
	ExplorerURL    string `json:"explorerUrl,omitempty"`
	ExplorerAPIKey string `json:"-"`
}
