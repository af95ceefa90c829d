package domain

import "math/big"

const (
	// DefaultContractName is the artifact deployed when none is configured
	DefaultContractName = "SimpleStorage"

	// SepoliaChainID is the only chain on which deployments are verified
	SepoliaChainID uint64 = 11155111

	// LocalChainID is the chain id of anvil and hardhat nodes
	LocalChainID uint64 = 31337

	// VerificationConfirmations is the depth the deployment must reach before verifying
	VerificationConfirmations uint64 = 6

	// StoreConfirmations is the depth awaited after the store transaction
	StoreConfirmations uint64 = 1
)

// DefaultStoreValue is written by the store call unless overridden
var DefaultStoreValue = big.NewInt(12)

// SequenceConfig is the network context handed to the deployment sequence.
// It is resolved once at the entry point and never read from the environment afterwards.
type SequenceConfig struct {
	ChainID        uint64 `json:"chainId"`
	ExplorerAPIKey string `json:"-"`
}

// ShouldVerify reports whether both verification gates pass
func (c SequenceConfig) ShouldVerify() bool {
	return c.ChainID == SepoliaChainID && c.ExplorerAPIKey != ""
}
