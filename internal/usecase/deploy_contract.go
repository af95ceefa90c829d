package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"github.com/trebuchet-org/storage-deployer/internal/domain"
	"github.com/trebuchet-org/storage-deployer/internal/domain/models"
)

// DeployContract drives one contract from artifact to a verified, interacted-with instance
type DeployContract struct {
	factories ContractFactoryProvider
	verifier  ContractVerifier
	progress  ProgressSink
	log       *slog.Logger
	now       func() time.Time
}

// NewDeployContract creates a new deploy contract use case
func NewDeployContract(
	factories ContractFactoryProvider,
	verifier ContractVerifier,
	progress ProgressSink,
	log *slog.Logger,
) *DeployContract {
	if progress == nil {
		progress = NopProgress{}
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &DeployContract{
		factories: factories,
		verifier:  verifier,
		progress:  progress,
		log:       log,
		now:       time.Now,
	}
}

// DeployOptions contains options for a deployment run
type DeployOptions struct {
	Contract   string   // Artifact name, defaults to SimpleStorage
	Network    string   // Display name of the network
	StoreValue *big.Int // Value passed to store, defaults to 12
	DeployOnly bool     // Stop after reporting the deployed address
}

// Run executes the deployment sequence once. Every error except a failed
// verification is returned; transactions already broadcast stay broadcast.
func (d *DeployContract) Run(ctx context.Context, seq domain.SequenceConfig, options DeployOptions) (*DeployResult, error) {
	result, err := d.run(ctx, seq, options)
	if err != nil {
		d.progress.OnProgress(ctx, ProgressEvent{Stage: StageFailed, Message: err.Error()})
	}
	return result, err
}

func (d *DeployContract) run(ctx context.Context, seq domain.SequenceConfig, options DeployOptions) (*DeployResult, error) {
	contractName := options.Contract
	if contractName == "" {
		contractName = domain.DefaultContractName
	}
	value := options.StoreValue
	if value == nil {
		value = domain.DefaultStoreValue
	}

	factory, err := d.factories.GetContractFactory(ctx, contractName)
	if err != nil {
		return nil, fmt.Errorf("failed to get contract factory for %s: %w", contractName, err)
	}

	d.progress.OnProgress(ctx, ProgressEvent{
		Stage:   StageDeploying,
		Message: "Deploying contract...",
		Spinner: true,
	})

	contract, err := factory.Deploy(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to deploy %s: %w", contractName, err)
	}
	d.log.Debug("deployment broadcast", "contract", contractName, "tx", contract.DeploymentTransaction().Hex())

	receipt, err := contract.WaitDeployed(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed waiting for %s deployment: %w", contractName, err)
	}

	record := &models.DeploymentRecord{
		Contract:     contractName,
		Network:      options.Network,
		ChainID:      seq.ChainID,
		Address:      contract.Address(),
		TxHash:       contract.DeploymentTransaction(),
		DeployedAt:   d.now(),
		Verification: domain.VerificationResult{Status: domain.VerificationStatusSkipped},
	}
	if receipt != nil {
		record.BlockNumber = receipt.BlockNumber
	}
	result := &DeployResult{Record: record}

	d.progress.OnProgress(ctx, ProgressEvent{
		Stage:    StageDeployed,
		Message:  fmt.Sprintf("%s deployed to: %s", contractName, contract.Address().Hex()),
		Metadata: record,
	})

	if options.DeployOnly {
		d.progress.OnProgress(ctx, ProgressEvent{Stage: StageCompleted})
		return result, nil
	}

	if seq.ShouldVerify() {
		verification, err := d.verify(ctx, seq, contract, contractName)
		if err != nil {
			return result, err
		}
		record.Verification = *verification
	}

	if err := d.interact(ctx, contract, value, record); err != nil {
		return result, err
	}

	d.progress.OnProgress(ctx, ProgressEvent{Stage: StageCompleted, Metadata: record})
	return result, nil
}

// verify waits for the deployment to be buried and submits it to the explorer.
// Only the confirmation wait can fail the run.
func (d *DeployContract) verify(ctx context.Context, seq domain.SequenceConfig, contract DeployedContract, contractName string) (*domain.VerificationResult, error) {
	d.progress.OnProgress(ctx, ProgressEvent{
		Stage:   StageConfirming,
		Message: fmt.Sprintf("Waiting for %d block confirmations...", domain.VerificationConfirmations),
		Spinner: true,
	})
	if _, err := contract.WaitConfirmations(ctx, domain.VerificationConfirmations); err != nil {
		return nil, fmt.Errorf("failed waiting for deployment confirmations: %w", err)
	}

	d.progress.OnProgress(ctx, ProgressEvent{
		Stage:   StageVerifying,
		Message: "Verifying contract...",
		Spinner: true,
	})

	res, err := d.verifier.Verify(ctx, domain.VerificationRequest{
		ChainID:      seq.ChainID,
		Address:      contract.Address(),
		ContractName: contractName,
	})
	if err != nil {
		d.progress.Warn(fmt.Sprintf("Verification failed: %v", err))
		return &domain.VerificationResult{Status: domain.VerificationStatusFailed, Reason: err.Error()}, nil
	}

	switch res.Status {
	case domain.VerificationStatusVerified:
		d.progress.Info("Contract verified")
	case domain.VerificationStatusAlreadyVerified:
		d.progress.Info("Contract already verified")
	default:
		d.progress.Warn(fmt.Sprintf("Verification failed: %s", res.Reason))
	}
	d.progress.OnProgress(ctx, ProgressEvent{Stage: StageVerified, Metadata: res})

	return res, nil
}

// interact reads the stored value, stores a new one and reads it back
func (d *DeployContract) interact(ctx context.Context, contract DeployedContract, value *big.Int, record *models.DeploymentRecord) error {
	d.progress.OnProgress(ctx, ProgressEvent{Stage: StageRetrieving})
	current, err := d.retrieve(ctx, contract)
	if err != nil {
		return err
	}
	record.InitialValue = current
	d.progress.Info(fmt.Sprintf("Current value is: %s", current))

	d.progress.OnProgress(ctx, ProgressEvent{
		Stage:   StageStoring,
		Message: fmt.Sprintf("Storing %s...", value),
		Spinner: true,
	})
	tx, err := contract.Transact(ctx, "store", value)
	if err != nil {
		return fmt.Errorf("failed to call store: %w", err)
	}
	record.StoredValue = value
	record.StoreTxHash = tx.Hash()
	d.log.Debug("store broadcast", "tx", tx.Hash().Hex(), "value", value)

	if _, err := tx.Wait(ctx, domain.StoreConfirmations); err != nil {
		return fmt.Errorf("failed waiting for store transaction: %w", err)
	}

	updated, err := d.retrieve(ctx, contract)
	if err != nil {
		return err
	}
	record.UpdatedValue = updated
	d.progress.Info(fmt.Sprintf("Updated value is: %s", updated))

	return nil
}

func (d *DeployContract) retrieve(ctx context.Context, contract DeployedContract) (*big.Int, error) {
	out, err := contract.Call(ctx, "retrieve")
	if err != nil {
		return nil, fmt.Errorf("failed to call retrieve: %w", err)
	}
	value, ok := ValueOf(out)
	if !ok {
		return nil, fmt.Errorf("unexpected retrieve result: %v", out)
	}
	return value, nil
}
