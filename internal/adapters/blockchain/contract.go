package blockchain

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/trebuchet-org/storage-deployer/internal/domain"
	"github.com/trebuchet-org/storage-deployer/internal/domain/models"
	"github.com/trebuchet-org/storage-deployer/internal/usecase"
)

// Factory deploys instances of one artifact
type Factory struct {
	client   *Client
	artifact *models.Artifact
}

// Deploy broadcasts the creation transaction
func (f *Factory) Deploy(ctx context.Context, args ...any) (usecase.DeployedContract, error) {
	address, tx, bound, err := bind.DeployContract(
		f.client.transactOpts(ctx),
		*f.artifact.Parsed,
		f.artifact.Bytecode.Bytes(),
		f.client.backend,
		args...,
	)
	if err != nil {
		return nil, err
	}

	f.client.log.Debug("creation transaction sent",
		"contract", f.artifact.ContractName,
		"address", address.Hex(),
		"tx", tx.Hash().Hex(),
	)

	return &Contract{
		client:  f.client,
		address: address,
		tx:      tx,
		bound:   bound,
	}, nil
}

// Contract is a deployed instance bound to its ABI
type Contract struct {
	client  *Client
	address common.Address
	tx      *types.Transaction
	bound   *bind.BoundContract
}

func (c *Contract) Address() common.Address { return c.address }

func (c *Contract) DeploymentTransaction() common.Hash { return c.tx.Hash() }

// WaitDeployed waits for the creation transaction and checks code exists at the address
func (c *Contract) WaitDeployed(ctx context.Context) (*models.Receipt, error) {
	receipt, err := c.client.waitConfirmations(ctx, c.tx, 1)
	if err != nil {
		return nil, err
	}

	code, err := c.client.backend.CodeAt(ctx, c.address, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to check code: %w", err)
	}
	if len(code) == 0 {
		return nil, fmt.Errorf("%w: no code at %s", domain.ErrNotDeployed, c.address.Hex())
	}
	return receipt, nil
}

// WaitConfirmations waits until the creation transaction has n confirmations
func (c *Contract) WaitConfirmations(ctx context.Context, n uint64) (*models.Receipt, error) {
	return c.client.waitConfirmations(ctx, c.tx, n)
}

// Call invokes a constant method
func (c *Contract) Call(ctx context.Context, method string, args ...any) ([]any, error) {
	var out []any
	if err := c.bound.Call(&bind.CallOpts{Context: ctx}, &out, method, args...); err != nil {
		return nil, err
	}
	return out, nil
}

// Transact sends a state-changing method call
func (c *Contract) Transact(ctx context.Context, method string, args ...any) (usecase.PendingTransaction, error) {
	tx, err := c.bound.Transact(c.client.transactOpts(ctx), method, args...)
	if err != nil {
		return nil, err
	}
	return &PendingTx{client: c.client, tx: tx}, nil
}

// PendingTx is a broadcast transaction
type PendingTx struct {
	client *Client
	tx     *types.Transaction
}

func (p *PendingTx) Hash() common.Hash { return p.tx.Hash() }

// Wait blocks until the transaction has the given number of confirmations
func (p *PendingTx) Wait(ctx context.Context, confirmations uint64) (*models.Receipt, error) {
	return p.client.waitConfirmations(ctx, p.tx, confirmations)
}

var (
	_ usecase.ContractFactory    = (*Factory)(nil)
	_ usecase.DeployedContract   = (*Contract)(nil)
	_ usecase.PendingTransaction = (*PendingTx)(nil)
)
