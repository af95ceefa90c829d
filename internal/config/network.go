package config

import (
	"context"
	"fmt"
	"os"
	"slices"

	"github.com/sahilm/fuzzy"
	"github.com/samber/lo"
	"github.com/trebuchet-org/storage-deployer/internal/domain"
	"github.com/trebuchet-org/storage-deployer/internal/domain/config"
	"github.com/trebuchet-org/storage-deployer/internal/usecase"
)

const (
	// LocalNetworkName is used when no network is selected
	LocalNetworkName = "localhost"
	// DefaultLocalRPCURL is the anvil / hardhat node default
	DefaultLocalRPCURL = "http://127.0.0.1:8545"

	maxSuggestions = 3
)

// NetworkResolver resolves network names against foundry.toml
type NetworkResolver struct {
	foundry        *config.FoundryConfig
	defaultRPCURL  string
	explorerAPIKey string
}

// NewNetworkResolver creates a new network resolver
func NewNetworkResolver(cfg *config.RuntimeConfig) *NetworkResolver {
	foundry := cfg.FoundryConfig
	if foundry == nil {
		foundry = &config.FoundryConfig{}
	}
	return &NetworkResolver{
		foundry:        foundry,
		defaultRPCURL:  cfg.DefaultRPCURL,
		explorerAPIKey: cfg.ExplorerAPIKey,
	}
}

// GetNetworks returns the configured network names, sorted
func (r *NetworkResolver) GetNetworks(ctx context.Context) []string {
	names := lo.Keys(r.foundry.RpcEndpoints)
	slices.Sort(names)
	return names
}

// ResolveNetwork resolves a network name to its configuration. An empty
// name resolves to the local node.
func (r *NetworkResolver) ResolveNetwork(ctx context.Context, name string) (*config.Network, error) {
	if name == "" {
		return r.localNetwork(), nil
	}

	raw, ok := r.foundry.RpcEndpoints[name]
	if !ok {
		raw = os.Getenv(GenerateEnvVarName(name))
		ok = raw != ""
	}
	if !ok {
		if name == LocalNetworkName {
			return r.localNetwork(), nil
		}
		return nil, domain.UnknownNetworkErr{Name: name, Suggestions: r.suggest(name)}
	}

	rpcURL, err := expandValue(raw)
	if err != nil {
		return nil, fmt.Errorf("RPC URL for network '%s': %w", name, err)
	}

	network := &config.Network{Name: name, RPCURL: rpcURL}
	r.applyExplorer(network)
	return network, nil
}

func (r *NetworkResolver) localNetwork() *config.Network {
	rpcURL := r.defaultRPCURL
	if rpcURL == "" {
		rpcURL = DefaultLocalRPCURL
	}
	network := &config.Network{Name: LocalNetworkName, RPCURL: rpcURL}
	r.applyExplorer(network)
	return network
}

// applyExplorer fills the explorer settings from [etherscan.<name>],
// falling back to the global API key
func (r *NetworkResolver) applyExplorer(network *config.Network) {
	if es, ok := r.foundry.Etherscan[network.Name]; ok {
		// Unset variables leave the field empty so the fallback applies
		network.ExplorerAPIKey, _ = expandValue(es.Key)
		network.ExplorerURL, _ = expandValue(es.URL)
		network.ChainID = es.ChainID
	}
	if network.ExplorerAPIKey == "" {
		network.ExplorerAPIKey = r.explorerAPIKey
	}
}

func (r *NetworkResolver) suggest(name string) []string {
	matches := fuzzy.Find(name, r.GetNetworks(context.Background()))
	if len(matches) > maxSuggestions {
		matches = matches[:maxSuggestions]
	}
	return lo.Map(matches, func(m fuzzy.Match, _ int) string { return m.Str })
}

var _ usecase.NetworkResolver = (*NetworkResolver)(nil)
