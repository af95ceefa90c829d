package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/trebuchet-org/storage-deployer/internal/domain/config"
)

// foundryTOML represents the raw foundry.toml structure
type foundryTOML struct {
	RpcEndpoints map[string]string               `toml:"rpc_endpoints"`
	Etherscan    map[string]etherscanTOML        `toml:"etherscan"`
	Profile      map[string]config.ProfileConfig `toml:"profile"`
}

type etherscanTOML struct {
	Key   string `toml:"key"`
	URL   string `toml:"url"`
	Chain any    `toml:"chain"`
}

// namedChains maps the chain aliases foundry accepts in [etherscan] to ids
var namedChains = map[string]uint64{
	"mainnet":  1,
	"sepolia":  11155111,
	"holesky":  17000,
	"optimism": 10,
	"polygon":  137,
	"base":     8453,
	"arbitrum": 42161,
}

// loadEnvFiles loads .env and .env.local from the project root.
// Variables already present in the environment win.
func loadEnvFiles(projectRoot string) {
	for _, name := range []string{".env", ".env.local"} {
		envFile := filepath.Join(projectRoot, name)
		if _, err := os.Stat(envFile); err != nil {
			continue
		}
		if err := godotenv.Load(envFile); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: Failed to load %s: %v\n", envFile, err)
		}
	}
}

// loadFoundryConfig parses foundry.toml. Values are kept unexpanded so the
// network resolver can report which variable is missing. A project without
// foundry.toml gets an empty config.
func loadFoundryConfig(projectRoot string) (*config.FoundryConfig, error) {
	cfg := &config.FoundryConfig{
		Profile:      make(map[string]config.ProfileConfig),
		RpcEndpoints: make(map[string]string),
		Etherscan:    make(map[string]config.EtherscanConfig),
	}

	var raw foundryTOML
	if _, err := toml.DecodeFile(filepath.Join(projectRoot, "foundry.toml"), &raw); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to parse foundry.toml: %w", err)
	}

	for name, url := range raw.RpcEndpoints {
		cfg.RpcEndpoints[name] = url
	}
	for name, profile := range raw.Profile {
		cfg.Profile[name] = profile
	}
	for network, es := range raw.Etherscan {
		chainID, err := parseChain(es.Chain)
		if err != nil {
			return nil, fmt.Errorf("invalid chain for etherscan.%s: %w", network, err)
		}
		cfg.Etherscan[network] = config.EtherscanConfig{
			Key:     es.Key,
			URL:     es.URL,
			ChainID: chainID,
		}
	}

	return cfg, nil
}

// parseChain accepts a numeric id, a numeric string or a known chain alias
func parseChain(v any) (uint64, error) {
	switch chain := v.(type) {
	case nil:
		return 0, nil
	case int64:
		if chain < 0 {
			return 0, fmt.Errorf("negative chain id %d", chain)
		}
		return uint64(chain), nil
	case string:
		if id, ok := namedChains[chain]; ok {
			return id, nil
		}
		id, err := strconv.ParseUint(chain, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("unknown chain %q", chain)
		}
		return id, nil
	default:
		return 0, fmt.Errorf("unsupported chain value %v", v)
	}
}
