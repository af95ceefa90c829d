package usecase

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/storage-deployer/internal/domain"
	"github.com/trebuchet-org/storage-deployer/internal/domain/config"
	"github.com/trebuchet-org/storage-deployer/internal/domain/models"
)

// ArtifactLoader finds and decodes compiled contract artifacts
type ArtifactLoader interface {
	LoadArtifact(ctx context.Context, contractName string) (*models.Artifact, error)
}

// ContractFactoryProvider binds compiled artifacts to a deployer
type ContractFactoryProvider interface {
	GetContractFactory(ctx context.Context, contractName string) (ContractFactory, error)
}

// ContractFactory creates instances of one compiled contract
type ContractFactory interface {
	// Deploy broadcasts the creation transaction and returns without waiting for it to be mined
	Deploy(ctx context.Context, args ...any) (DeployedContract, error)
}

// DeployedContract is the handle of a contract created by a factory
type DeployedContract interface {
	Address() common.Address
	DeploymentTransaction() common.Hash

	// WaitDeployed blocks until the creation transaction is mined and code exists at Address
	WaitDeployed(ctx context.Context) (*models.Receipt, error)
	// WaitConfirmations blocks until the creation transaction is buried under n blocks
	WaitConfirmations(ctx context.Context, n uint64) (*models.Receipt, error)

	Call(ctx context.Context, method string, args ...any) ([]any, error)
	Transact(ctx context.Context, method string, args ...any) (PendingTransaction, error)
}

// PendingTransaction is a broadcast transaction that can be awaited
type PendingTransaction interface {
	Hash() common.Hash
	Wait(ctx context.Context, confirmations uint64) (*models.Receipt, error)
}

// ContractVerifier submits deployed contracts to a block explorer
type ContractVerifier interface {
	Verify(ctx context.Context, req domain.VerificationRequest) (*domain.VerificationResult, error)
}

// NetworkResolver resolves configured network names
type NetworkResolver interface {
	GetNetworks(ctx context.Context) []string
	ResolveNetwork(ctx context.Context, name string) (*config.Network, error)
}

// ChainIDFetcher asks an RPC endpoint for its chain id
type ChainIDFetcher interface {
	FetchChainID(ctx context.Context, rpcURL string) (uint64, error)
}

// ReportWriter persists the outcome of a run
type ReportWriter interface {
	WriteReport(path string, record *models.DeploymentRecord) error
}

// Progress tracking interfaces

// ExecutionStage names a milestone of the deployment sequence
type ExecutionStage string

const (
	StageDeploying  ExecutionStage = "deploying"
	StageDeployed   ExecutionStage = "deployed"
	StageConfirming ExecutionStage = "confirming"
	StageVerifying  ExecutionStage = "verifying"
	StageVerified   ExecutionStage = "verified"
	StageRetrieving ExecutionStage = "retrieving"
	StageStoring    ExecutionStage = "storing"
	StageCompleted  ExecutionStage = "completed"
	StageFailed     ExecutionStage = "failed"
)

// ProgressEvent represents a progress update
type ProgressEvent struct {
	Stage    ExecutionStage
	Message  string
	Spinner  bool
	Metadata any
}

// ProgressSink receives progress events
type ProgressSink interface {
	OnProgress(ctx context.Context, event ProgressEvent)
	Info(message string)
	Warn(message string)
	Error(message string)
}

// NopProgress is a no-op implementation of ProgressSink
type NopProgress struct{}

func (NopProgress) OnProgress(context.Context, ProgressEvent) {}
func (NopProgress) Info(string)                               {}
func (NopProgress) Warn(string)                               {}
func (NopProgress) Error(string)                              {}

// Use case result types

// DeployResult contains the result of a deployment sequence run
type DeployResult struct {
	Record *models.DeploymentRecord
}

// ValueOf converts a single call result into a big integer
func ValueOf(out []any) (*big.Int, bool) {
	if len(out) != 1 {
		return nil, false
	}
	v, ok := out[0].(*big.Int)
	return v, ok
}
