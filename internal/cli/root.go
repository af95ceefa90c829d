package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/trebuchet-org/storage-deployer/internal/adapters/interactive"
	"github.com/trebuchet-org/storage-deployer/internal/adapters/progress"
	"github.com/trebuchet-org/storage-deployer/internal/app"
	"github.com/trebuchet-org/storage-deployer/internal/cli/render"
	"github.com/trebuchet-org/storage-deployer/internal/config"
	"github.com/trebuchet-org/storage-deployer/internal/domain"
	"github.com/trebuchet-org/storage-deployer/internal/usecase"
)

// contextKey is the type for context keys
type contextKey string

const (
	// appKey is the context key for the app instance
	appKey contextKey = "app"
)

// NewRootCmd creates the root command. Running it without a subcommand
// executes one deployment sequence.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "storage-deployer",
		Short: "Deploy, verify and exercise the SimpleStorage contract",
		Long: `Deploys the compiled SimpleStorage contract to the selected network.

On Sepolia with an Etherscan API key the contract is verified after 6 block
confirmations. The stored value is then read, set with store(12) and read back.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Skip for help/version commands
			if cmd.Name() == "version" || cmd.Name() == "help" || cmd.Name() == "completion" {
				return nil
			}

			projectRoot, err := config.FindProjectRoot()
			if err != nil {
				return err
			}

			v := config.SetupViper(projectRoot, cmd)

			if cmd == cmd.Root() {
				if err := selectNetwork(cmd, v); err != nil {
					return err
				}
			}

			var sink usecase.ProgressSink = progress.NewNopSink()
			if cmd == cmd.Root() {
				sink = progress.NewSpinnerSink(cmd.OutOrStdout())
			}

			appInstance, err := app.InitApp(v, sink)
			if err != nil {
				return fmt.Errorf("failed to initialize app: %w", err)
			}

			cmd.SetContext(context.WithValue(cmd.Context(), appKey, appInstance))
			return nil
		},
		RunE: runDeploy,
	}

	// Global flags
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug output")
	rootCmd.PersistentFlags().Bool("non-interactive", false, "Disable interactive prompts")
	rootCmd.PersistentFlags().StringP("network", "n", "", "Network from foundry.toml [rpc_endpoints] (default: local node)")

	// Deployment flags
	rootCmd.Flags().String("contract", domain.DefaultContractName, "Contract artifact to deploy (Name or path/File.sol:Name)")
	rootCmd.Flags().String("value", "", "Value passed to store (default 12)")
	rootCmd.Flags().Bool("deploy-only", false, "Stop after deploying, skip verification and interaction")
	rootCmd.Flags().String("report", "", "Write a deployment report to this file (.json, .yaml)")

	rootCmd.AddCommand(NewNetworksCmd())
	rootCmd.AddCommand(NewVersionCmd())

	return rootCmd
}

// runDeploy connects to the selected network and runs the deployment sequence
func runDeploy(cmd *cobra.Command, args []string) error {
	app, err := getApp(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	cfg := app.Config

	chainID, err := app.Chain.Connect(ctx)
	if err != nil {
		return err
	}

	seq := domain.SequenceConfig{
		ChainID:        chainID,
		ExplorerAPIKey: cfg.Network.ExplorerAPIKey,
	}

	result, runErr := app.DeployContract.Run(ctx, seq, usecase.DeployOptions{
		Contract:   cfg.Contract,
		Network:    cfg.Network.Name,
		StoreValue: cfg.StoreValue,
		DeployOnly: cfg.DeployOnly,
	})

	// A partial record is still worth keeping when a later step failed
	if result != nil && cfg.ReportPath != "" {
		if err := app.ReportWriter.WriteReport(cfg.ReportPath, result.Record); err != nil && runErr == nil {
			return err
		}
	}
	if runErr != nil {
		return runErr
	}

	return render.NewDeployRenderer(cmd.OutOrStdout()).RenderDeployment(result.Record)
}

// selectNetwork asks for a network when none was given and foundry.toml
// configures more than one
func selectNetwork(cmd *cobra.Command, v *viper.Viper) error {
	if v.GetString("network") != "" || v.GetBool("non-interactive") || !isatty.IsTerminal(os.Stdin.Fd()) {
		return nil
	}

	networks, err := config.ConfiguredNetworks(v.GetString("project_root"))
	if err != nil {
		return err
	}
	if len(networks) < 2 {
		return nil
	}

	selected, err := interactive.NewNetworkSelector(false).SelectNetwork(networks, "Select network")
	if err != nil {
		return err
	}
	v.Set("network", selected)
	return nil
}

// getApp retrieves the app instance from the command context
func getApp(cmd *cobra.Command) (*app.App, error) {
	appInstance := cmd.Context().Value(appKey)
	if appInstance == nil {
		return nil, fmt.Errorf("app not initialized")
	}

	app, ok := appInstance.(*app.App)
	if !ok {
		return nil, fmt.Errorf("invalid app instance")
	}

	return app, nil
}
