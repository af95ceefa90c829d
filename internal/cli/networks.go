package cli

import (
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/storage-deployer/internal/cli/render"
	"github.com/trebuchet-org/storage-deployer/internal/usecase"
)

// NewNetworksCmd creates the networks command
func NewNetworksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "networks",
		Short: "List available networks from foundry.toml",
		Long: `List all networks configured in the [rpc_endpoints] section of foundry.toml.

Chain IDs are fetched from each endpoint unless pinned in [etherscan] or
--skip-chain-id is given. Networks marked as verified on Etherscan are the ones
where a deployment run submits the contract for verification.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			skip, _ := cmd.Flags().GetBool("skip-chain-id")
			result, err := app.ListNetworks.Run(cmd.Context(), usecase.ListNetworksParams{SkipChainID: skip})
			if err != nil {
				return err
			}

			return render.NewNetworksRenderer(cmd.OutOrStdout()).RenderNetworksList(result)
		},
	}

	cmd.Flags().Bool("skip-chain-id", false, "Do not contact the RPC endpoints")

	return cmd
}
