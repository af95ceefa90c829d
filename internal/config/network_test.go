package config

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/storage-deployer/internal/domain"
	"github.com/trebuchet-org/storage-deployer/internal/domain/config"
)

func newTestResolver() *NetworkResolver {
	return NewNetworkResolver(&config.RuntimeConfig{
		ExplorerAPIKey: "GLOBALKEY",
		FoundryConfig: &config.FoundryConfig{
			RpcEndpoints: map[string]string{
				"sepolia":      "${SD_SEPOLIA_RPC}",
				"base-sepolia": "https://sepolia.base.org",
				"mainnet":      "https://eth.example/v2/${SD_ALCHEMY_KEY}",
				"broken":       "${SD_NOT_SET}",
			},
			Etherscan: map[string]config.EtherscanConfig{
				"sepolia": {Key: "${SD_SEPOLIA_KEY}", ChainID: domain.SepoliaChainID},
				"mainnet": {Key: "${SD_MISSING_KEY}", URL: "https://api.etherscan.io/v2/api"},
			},
		},
	})
}

func TestNetworkResolver_GetNetworks(t *testing.T) {
	r := newTestResolver()
	assert.Equal(t, []string{"base-sepolia", "broken", "mainnet", "sepolia"}, r.GetNetworks(context.Background()))

	empty := NewNetworkResolver(&config.RuntimeConfig{})
	assert.Empty(t, empty.GetNetworks(context.Background()))
}

func TestNetworkResolver_ResolveNetwork(t *testing.T) {
	t.Setenv("SD_SEPOLIA_RPC", "https://rpc.sepolia.example")
	t.Setenv("SD_SEPOLIA_KEY", "SEPOLIAKEY")
	t.Setenv("SD_ALCHEMY_KEY", "alchemy")
	ctx := context.Background()
	r := newTestResolver()

	t.Run("configured network with explorer settings", func(t *testing.T) {
		network, err := r.ResolveNetwork(ctx, "sepolia")
		require.NoError(t, err)
		assert.Equal(t, &config.Network{
			Name:           "sepolia",
			ChainID:        domain.SepoliaChainID,
			RPCURL:         "https://rpc.sepolia.example",
			ExplorerAPIKey: "SEPOLIAKEY",
		}, network)
	})

	t.Run("unset explorer key falls back to global key", func(t *testing.T) {
		network, err := r.ResolveNetwork(ctx, "mainnet")
		require.NoError(t, err)
		assert.Equal(t, "https://eth.example/v2/alchemy", network.RPCURL)
		assert.Equal(t, "GLOBALKEY", network.ExplorerAPIKey)
		assert.Equal(t, "https://api.etherscan.io/v2/api", network.ExplorerURL)
		assert.Zero(t, network.ChainID)
	})

	t.Run("network without etherscan section", func(t *testing.T) {
		network, err := r.ResolveNetwork(ctx, "base-sepolia")
		require.NoError(t, err)
		assert.Equal(t, "https://sepolia.base.org", network.RPCURL)
		assert.Equal(t, "GLOBALKEY", network.ExplorerAPIKey)
	})

	t.Run("empty name resolves to local node", func(t *testing.T) {
		network, err := r.ResolveNetwork(ctx, "")
		require.NoError(t, err)
		assert.Equal(t, LocalNetworkName, network.Name)
		assert.Equal(t, DefaultLocalRPCURL, network.RPCURL)
	})

	t.Run("localhost uses RPC_URL fallback", func(t *testing.T) {
		local := NewNetworkResolver(&config.RuntimeConfig{DefaultRPCURL: "http://10.0.0.2:8545"})
		network, err := local.ResolveNetwork(ctx, LocalNetworkName)
		require.NoError(t, err)
		assert.Equal(t, "http://10.0.0.2:8545", network.RPCURL)
	})

	t.Run("conventional env var for unlisted network", func(t *testing.T) {
		t.Setenv("HOLESKY_RPC_URL", "https://holesky.example")
		network, err := r.ResolveNetwork(ctx, "holesky")
		require.NoError(t, err)
		assert.Equal(t, "https://holesky.example", network.RPCURL)
	})

	t.Run("endpoint referencing unset variable", func(t *testing.T) {
		_, err := r.ResolveNetwork(ctx, "broken")
		var unset UnsetEnvVarError
		require.ErrorAs(t, err, &unset)
		assert.Equal(t, "SD_NOT_SET", unset.Name)
		assert.Contains(t, err.Error(), "network 'broken'")
	})

	t.Run("unknown network suggests close names", func(t *testing.T) {
		_, err := r.ResolveNetwork(ctx, "sepola")
		require.ErrorIs(t, err, domain.ErrNetworkNotFound)

		var unknown domain.UnknownNetworkErr
		require.ErrorAs(t, err, &unknown)
		assert.Contains(t, unknown.Suggestions, "sepolia")
		assert.Contains(t, err.Error(), "did you mean")
	})

	t.Run("unknown network without suggestions", func(t *testing.T) {
		_, err := r.ResolveNetwork(ctx, "zzz")
		var unknown domain.UnknownNetworkErr
		require.ErrorAs(t, err, &unknown)
		assert.Empty(t, unknown.Suggestions)
		assert.Equal(t, "network 'zzz' not found in foundry.toml [rpc_endpoints]", err.Error())
	})
}
