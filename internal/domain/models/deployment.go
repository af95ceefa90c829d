package models

import (
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/storage-deployer/internal/domain"
)

// DeploymentRecord is the observable outcome of one deployment run
type DeploymentRecord struct {
	Contract    string
	Network     string
	ChainID     uint64
	Address     common.Address
	TxHash      common.Hash
	BlockNumber uint64
	DeployedAt  time.Time

	Verification domain.VerificationResult

	// Interaction results, nil in deploy-only runs
	InitialValue *big.Int
	StoredValue  *big.Int
	StoreTxHash  common.Hash
	UpdatedValue *big.Int
}

// Interacted reports whether a store transaction was broadcast.
// UpdatedValue stays nil when the run failed after that point.
func (d *DeploymentRecord) Interacted() bool {
	return d.StoredValue != nil
}
