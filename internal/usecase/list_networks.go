package usecase

import (
	"context"

	"github.com/trebuchet-org/storage-deployer/internal/domain"
)

// ListNetworksParams contains parameters for listing networks
type ListNetworksParams struct {
	// SkipChainID avoids contacting the RPC endpoints
	SkipChainID bool
}

// ListNetworksResult contains the result of listing networks
type ListNetworksResult struct {
	Networks []NetworkStatus
}

// NetworkStatus represents the status of a network
type NetworkStatus struct {
	Name    string
	RPCURL  string
	ChainID uint64
	// Verifiable is true when a run on this network would verify the deployment
	Verifiable bool
	Error      error
}

// ListNetworks is a use case for listing available networks
type ListNetworks struct {
	resolver NetworkResolver
	fetcher  ChainIDFetcher
}

// NewListNetworks creates a new ListNetworks use case
func NewListNetworks(resolver NetworkResolver, fetcher ChainIDFetcher) *ListNetworks {
	return &ListNetworks{
		resolver: resolver,
		fetcher:  fetcher,
	}
}

// Run executes the use case
func (uc *ListNetworks) Run(ctx context.Context, params ListNetworksParams) (*ListNetworksResult, error) {
	networkNames := uc.resolver.GetNetworks(ctx)

	networks := make([]NetworkStatus, 0, len(networkNames))
	for _, name := range networkNames {
		status := NetworkStatus{
			Name: name,
		}

		info, err := uc.resolver.ResolveNetwork(ctx, name)
		if err != nil {
			status.Error = err
			networks = append(networks, status)
			continue
		}
		status.RPCURL = info.RPCURL
		status.ChainID = info.ChainID

		if status.ChainID == 0 && !params.SkipChainID {
			chainID, err := uc.fetcher.FetchChainID(ctx, info.RPCURL)
			if err != nil {
				status.Error = err
			} else {
				status.ChainID = chainID
			}
		}

		status.Verifiable = domain.SequenceConfig{
			ChainID:        status.ChainID,
			ExplorerAPIKey: info.ExplorerAPIKey,
		}.ShouldVerify()

		networks = append(networks, status)
	}

	return &ListNetworksResult{
		Networks: networks,
	}, nil
}
