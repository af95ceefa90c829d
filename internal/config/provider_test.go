package config

import (
	"math/big"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/storage-deployer/internal/domain"
)

const testFoundryTOML = `
[profile.default]
src = "contracts"
out = "build"

[rpc_endpoints]
sepolia = "${SD_PROVIDER_SEPOLIA_RPC}"
anvil = "http://127.0.0.1:8545"

[etherscan]
sepolia = { key = "${SD_PROVIDER_ETHERSCAN}", chain = "sepolia" }
anvil = { key = "", chain = 31337 }
`

func writeProject(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return root
}

func TestLoadFoundryConfig(t *testing.T) {
	t.Run("parses profiles, endpoints and explorer settings", func(t *testing.T) {
		root := writeProject(t, map[string]string{"foundry.toml": testFoundryTOML})

		cfg, err := loadFoundryConfig(root)
		require.NoError(t, err)

		assert.Equal(t, "build", cfg.OutDir())
		assert.Equal(t, "contracts", cfg.Profile["default"].SrcPath)
		// raw values are kept for the resolver
		assert.Equal(t, "${SD_PROVIDER_SEPOLIA_RPC}", cfg.RpcEndpoints["sepolia"])
		assert.Equal(t, domain.SepoliaChainID, cfg.Etherscan["sepolia"].ChainID)
		assert.Equal(t, domain.LocalChainID, cfg.Etherscan["anvil"].ChainID)
	})

	t.Run("missing foundry.toml yields empty config", func(t *testing.T) {
		cfg, err := loadFoundryConfig(t.TempDir())
		require.NoError(t, err)
		assert.Empty(t, cfg.RpcEndpoints)
		assert.Equal(t, "out", cfg.OutDir())
	})

	t.Run("malformed foundry.toml", func(t *testing.T) {
		root := writeProject(t, map[string]string{"foundry.toml": "[rpc_endpoints\n"})
		_, err := loadFoundryConfig(root)
		assert.ErrorContains(t, err, "failed to parse foundry.toml")
	})

	t.Run("unknown chain alias", func(t *testing.T) {
		root := writeProject(t, map[string]string{"foundry.toml": "[etherscan]\nfoo = { key = \"k\", chain = \"atlantis\" }\n"})
		_, err := loadFoundryConfig(root)
		assert.ErrorContains(t, err, "etherscan.foo")
	})
}

func TestParseStoreValue(t *testing.T) {
	value, err := parseStoreValue("")
	require.NoError(t, err)
	assert.Nil(t, value)

	value, err = parseStoreValue(" 42 ")
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(42), value)

	for _, bad := range []string{"-1", "0x10", "twelve", "1e3"} {
		_, err := parseStoreValue(bad)
		assert.Error(t, err, bad)
	}

	tooBig := new(big.Int).Lsh(big.NewInt(1), 256).String()
	_, err = parseStoreValue(tooBig)
	assert.Error(t, err)
}

func newTestViper(t *testing.T, root string, args ...string) *viper.Viper {
	t.Helper()
	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().StringP("network", "n", "", "")
	cmd.Flags().String("contract", "", "")
	cmd.Flags().String("value", "", "")
	cmd.Flags().Bool("deploy-only", false, "")
	cmd.Flags().String("report", "", "")
	cmd.Flags().Bool("non-interactive", false, "")
	cmd.Flags().Bool("debug", false, "")
	require.NoError(t, cmd.ParseFlags(args))
	return SetupViper(root, cmd)
}

func TestProvider(t *testing.T) {
	// godotenv writes straight into the process environment
	t.Cleanup(func() {
		_ = os.Unsetenv("SD_PROVIDER_SEPOLIA_RPC")
		_ = os.Unsetenv("SD_PROVIDER_ETHERSCAN")
	})
	t.Setenv("PRIVATE_KEY", "")
	t.Setenv("ETHERSCAN_API_KEY", "")
	t.Setenv("RPC_URL", "")

	t.Run("resolves flags, env files and network", func(t *testing.T) {
		root := writeProject(t, map[string]string{
			"foundry.toml": testFoundryTOML,
			".env":         "SD_PROVIDER_SEPOLIA_RPC=https://rpc.sepolia.example\nSD_PROVIDER_ETHERSCAN=ESKEY\n",
		})
		t.Setenv("PRIVATE_KEY", "0xabc")

		v := newTestViper(t, root, "--network", "sepolia", "--value", "7", "--deploy-only", "--report", "out.json")
		cfg, err := Provider(v)
		require.NoError(t, err)

		assert.Equal(t, root, cfg.ProjectRoot)
		assert.Equal(t, filepath.Join(root, DataDirName), cfg.DataDir)
		assert.Equal(t, "0xabc", cfg.PrivateKey)
		assert.Equal(t, big.NewInt(7), cfg.StoreValue)
		assert.True(t, cfg.DeployOnly)
		assert.Equal(t, "out.json", cfg.ReportPath)
		require.NotNil(t, cfg.Network)
		assert.Equal(t, "sepolia", cfg.Network.Name)
		assert.Equal(t, "https://rpc.sepolia.example", cfg.Network.RPCURL)
		assert.Equal(t, "ESKEY", cfg.Network.ExplorerAPIKey)
		assert.Equal(t, domain.SepoliaChainID, cfg.Network.ChainID)
	})

	t.Run("defaults to local node", func(t *testing.T) {
		root := writeProject(t, map[string]string{"foundry.toml": testFoundryTOML})

		cfg, err := Provider(newTestViper(t, root))
		require.NoError(t, err)

		assert.Nil(t, cfg.StoreValue)
		assert.False(t, cfg.DeployOnly)
		assert.Equal(t, LocalNetworkName, cfg.Network.Name)
		assert.Equal(t, DefaultLocalRPCURL, cfg.Network.RPCURL)
	})

	t.Run("prefixed env overrides defaults", func(t *testing.T) {
		root := writeProject(t, map[string]string{"foundry.toml": testFoundryTOML})
		t.Setenv("STORAGE_DEPLOYER_CONTRACT", "Counter")
		t.Setenv("STORAGE_DEPLOYER_NON_INTERACTIVE", "true")

		cfg, err := Provider(newTestViper(t, root))
		require.NoError(t, err)
		assert.Equal(t, "Counter", cfg.Contract)
		assert.True(t, cfg.NonInteractive)
	})

	t.Run("local config file", func(t *testing.T) {
		root := writeProject(t, map[string]string{
			"foundry.toml":                      testFoundryTOML,
			DataDirName + "/config.local.json": `{"network": "anvil"}`,
		})

		cfg, err := Provider(newTestViper(t, root))
		require.NoError(t, err)
		assert.Equal(t, "anvil", cfg.Network.Name)
		assert.Equal(t, domain.LocalChainID, cfg.Network.ChainID)
	})

	t.Run("unknown network", func(t *testing.T) {
		root := writeProject(t, map[string]string{"foundry.toml": testFoundryTOML})

		_, err := Provider(newTestViper(t, root, "-n", "sepoila"))
		assert.ErrorIs(t, err, domain.ErrNetworkNotFound)
	})

	t.Run("invalid value", func(t *testing.T) {
		root := writeProject(t, map[string]string{"foundry.toml": testFoundryTOML})

		_, err := Provider(newTestViper(t, root, "--value", "-3"))
		assert.ErrorContains(t, err, "invalid store value")
	})
}

func TestFindProjectRoot(t *testing.T) {
	root := writeProject(t, map[string]string{
		"hardhat.config.ts": "export default {}",
		"scripts/deep/x.ts": "",
	})
	t.Chdir(filepath.Join(root, "scripts", "deep"))

	got, err := FindProjectRoot()
	require.NoError(t, err)

	want, err := filepath.EvalSymlinks(root)
	require.NoError(t, err)
	gotResolved, err := filepath.EvalSymlinks(got)
	require.NoError(t, err)
	assert.Equal(t, want, gotResolved)
}

func TestConfiguredNetworks(t *testing.T) {
	root := writeProject(t, map[string]string{"foundry.toml": testFoundryTOML})

	names, err := ConfiguredNetworks(root)
	require.NoError(t, err)
	assert.Equal(t, []string{"anvil", "sepolia"}, names)

	names, err = ConfiguredNetworks(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, names)
}
