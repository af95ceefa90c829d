package config

import (
	"context"
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/trebuchet-org/storage-deployer/internal/domain/config"
)

// DataDirName is the per-project directory holding local settings
const DataDirName = ".storage-deployer"

// Provider creates RuntimeConfig for Wire dependency injection
func Provider(v *viper.Viper) (*config.RuntimeConfig, error) {
	projectRoot := v.GetString("project_root")
	if projectRoot == "" {
		var err error
		projectRoot, err = FindProjectRoot()
		if err != nil {
			return nil, fmt.Errorf("failed to find project root: %w", err)
		}
	}

	// .env must be loaded before any env-backed key is read
	loadEnvFiles(projectRoot)

	storeValue, err := parseStoreValue(v.GetString("value"))
	if err != nil {
		return nil, err
	}

	cfg := &config.RuntimeConfig{
		ProjectRoot:    projectRoot,
		DataDir:        filepath.Join(projectRoot, DataDirName),
		Contract:       v.GetString("contract"),
		StoreValue:     storeValue,
		DeployOnly:     v.GetBool("deploy-only"),
		ReportPath:     v.GetString("report"),
		PrivateKey:     v.GetString("private_key"),
		DefaultRPCURL:  v.GetString("rpc_url"),
		ExplorerAPIKey: v.GetString("etherscan_api_key"),
		Debug:          v.GetBool("debug"),
		NonInteractive: v.GetBool("non-interactive"),
	}

	foundryConfig, err := loadFoundryConfig(projectRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to load foundry config: %w", err)
	}
	cfg.FoundryConfig = foundryConfig

	networkName := v.GetString("network")
	network, err := NewNetworkResolver(cfg).ResolveNetwork(context.Background(), networkName)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve network: %w", err)
	}
	cfg.Network = network

	return cfg, nil
}

// FindProjectRoot walks up from the current directory looking for a Foundry
// or Hardhat project. Falls back to the current directory.
func FindProjectRoot() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for dir := cwd; ; {
		for _, marker := range []string{"foundry.toml", "hardhat.config.ts", "hardhat.config.js"} {
			if _, err := os.Stat(filepath.Join(dir, marker)); err == nil {
				return dir, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return cwd, nil
		}
		dir = parent
	}
}

// SetupViper creates and configures a viper instance
func SetupViper(projectRoot string, cmd *cobra.Command) *viper.Viper {
	v := viper.New()

	v.SetConfigName("config.local")
	v.SetConfigType("json")
	v.AddConfigPath(filepath.Join(projectRoot, DataDirName))

	v.SetEnvPrefix("STORAGE_DEPLOYER")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	// Conventional names shared with forge and hardhat
	_ = v.BindEnv("private_key", "STORAGE_DEPLOYER_PRIVATE_KEY", "PRIVATE_KEY")
	_ = v.BindEnv("etherscan_api_key", "STORAGE_DEPLOYER_ETHERSCAN_API_KEY", "ETHERSCAN_API_KEY")
	_ = v.BindEnv("rpc_url", "STORAGE_DEPLOYER_RPC_URL", "RPC_URL")

	v.SetDefault("contract", "")
	v.SetDefault("debug", false)
	v.SetDefault("non-interactive", false)
	v.SetDefault("deploy-only", false)
	v.SetDefault("project_root", projectRoot)

	// Try to read config file (ignore error if not found)
	_ = v.ReadInConfig()

	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if err := v.BindPFlag(f.Name, f); err != nil {
			panic(err)
		}
	})

	return v
}

// ProvideNetworkResolver creates a NetworkResolver for Wire dependency injection
func ProvideNetworkResolver(cfg *config.RuntimeConfig) *NetworkResolver {
	return NewNetworkResolver(cfg)
}

// parseStoreValue reads the decimal uint256 passed to store, nil when unset
func parseStoreValue(s string) (*big.Int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	value, ok := new(big.Int).SetString(s, 10)
	if !ok || value.Sign() < 0 || value.BitLen() > 256 {
		return nil, fmt.Errorf("invalid store value %q: expected a non-negative 256-bit integer", s)
	}
	return value, nil
}

// ConfiguredNetworks lists the network names in the project's foundry.toml
func ConfiguredNetworks(projectRoot string) ([]string, error) {
	foundryConfig, err := loadFoundryConfig(projectRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to load foundry config: %w", err)
	}
	resolver := NewNetworkResolver(&config.RuntimeConfig{FoundryConfig: foundryConfig})
	return resolver.GetNetworks(context.Background()), nil
}
