package blockchain

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"log/slog"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/trebuchet-org/storage-deployer/internal/domain"
	"github.com/trebuchet-org/storage-deployer/internal/domain/config"
	"github.com/trebuchet-org/storage-deployer/internal/domain/models"
	"github.com/trebuchet-org/storage-deployer/internal/usecase"
)

// defaultPollInterval matches the receipt polling of bind.WaitMined
const defaultPollInterval = time.Second

// Backend is the part of ethclient.Client the adapter talks to
type Backend interface {
	bind.ContractBackend
	bind.DeployBackend
	ChainID(ctx context.Context) (*big.Int, error)
	BlockNumber(ctx context.Context) (uint64, error)
}

// Client deploys and calls contracts over JSON-RPC
type Client struct {
	network      *config.Network
	privateKey   string
	artifacts    usecase.ArtifactLoader
	log          *slog.Logger
	pollInterval time.Duration

	backend Backend
	chainID *big.Int
	auth    *bind.TransactOpts
}

// NewClient creates a new blockchain client for the configured network
func NewClient(cfg *config.RuntimeConfig, artifacts usecase.ArtifactLoader, log *slog.Logger) *Client {
	return &Client{
		network:      cfg.Network,
		privateKey:   cfg.PrivateKey,
		artifacts:    artifacts,
		log:          log,
		pollInterval: defaultPollInterval,
	}
}

// Connect dials the network RPC and returns its chain id
func (c *Client) Connect(ctx context.Context) (uint64, error) {
	if c.network == nil {
		return 0, fmt.Errorf("no network configured")
	}

	client, err := ethclient.DialContext(ctx, c.network.RPCURL)
	if err != nil {
		return 0, fmt.Errorf("failed to connect to RPC: %w", err)
	}

	return c.attach(ctx, client)
}

// attach binds an already dialed backend and checks its chain id
func (c *Client) attach(ctx context.Context, backend Backend) (uint64, error) {
	chainID, err := backend.ChainID(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to get chain ID: %w", err)
	}

	if c.network.ChainID != 0 && chainID.Uint64() != c.network.ChainID {
		return 0, fmt.Errorf("%w: expected %d, got %d", domain.ErrNetworkMismatch, c.network.ChainID, chainID.Uint64())
	}

	c.backend = backend
	c.chainID = chainID
	c.log.Debug("connected", "network", c.network.Name, "chainId", chainID)
	return chainID.Uint64(), nil
}

// FetchChainID asks an arbitrary endpoint for its chain id
func (c *Client) FetchChainID(ctx context.Context, rpcURL string) (uint64, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return 0, fmt.Errorf("failed to connect to RPC: %w", err)
	}
	defer client.Close()

	chainID, err := client.ChainID(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to get chain ID: %w", err)
	}
	return chainID.Uint64(), nil
}

// GetContractFactory binds the named artifact to the deployer account
func (c *Client) GetContractFactory(ctx context.Context, contractName string) (usecase.ContractFactory, error) {
	if c.backend == nil {
		return nil, domain.ErrNotConnected
	}

	artifact, err := c.artifacts.LoadArtifact(ctx, contractName)
	if err != nil {
		return nil, err
	}

	if c.auth == nil {
		auth, err := c.transactor()
		if err != nil {
			return nil, err
		}
		c.auth = auth
	}

	return &Factory{client: c, artifact: artifact}, nil
}

// transactor builds signing options from the configured private key
func (c *Client) transactor() (*bind.TransactOpts, error) {
	if c.privateKey == "" {
		return nil, domain.ErrMissingPrivateKey
	}

	key, err := parsePrivateKey(c.privateKey)
	if err != nil {
		return nil, err
	}

	auth, err := bind.NewKeyedTransactorWithChainID(key, c.chainID)
	if err != nil {
		return nil, fmt.Errorf("failed to create transactor: %w", err)
	}
	c.log.Debug("deployer account", "address", auth.From.Hex())
	return auth, nil
}

// transactOpts returns a per-call copy of the signing options
func (c *Client) transactOpts(ctx context.Context) *bind.TransactOpts {
	opts := *c.auth
	opts.Context = ctx
	return &opts
}

// waitConfirmations blocks until tx is mined and buried under n blocks
func (c *Client) waitConfirmations(ctx context.Context, tx *types.Transaction, n uint64) (*models.Receipt, error) {
	receipt, err := bind.WaitMined(ctx, c.backend, tx)
	if err != nil {
		return nil, fmt.Errorf("failed waiting for transaction %s: %w", tx.Hash().Hex(), err)
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return nil, fmt.Errorf("transaction %s reverted", tx.Hash().Hex())
	}

	mined := receipt.BlockNumber.Uint64()
	depth := uint64(1)
	if n > 1 {
		ticker := time.NewTicker(c.pollInterval)
		defer ticker.Stop()

		for {
			head, err := c.backend.BlockNumber(ctx)
			if err != nil {
				c.log.Debug("failed to read block number", "error", err)
			} else if depth = confirmations(head, mined); depth >= n {
				break
			}
			c.log.Debug("waiting for confirmations", "tx", tx.Hash().Hex(), "have", depth, "want", n)

			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-ticker.C:
			}
		}
	}

	return toReceipt(receipt, depth), nil
}

// confirmations is the number of blocks from mined up to and including head
func confirmations(head, mined uint64) uint64 {
	if head < mined {
		return 0
	}
	return head - mined + 1
}

func toReceipt(r *types.Receipt, depth uint64) *models.Receipt {
	status := models.TransactionStatusExecuted
	if r.Status != types.ReceiptStatusSuccessful {
		status = models.TransactionStatusFailed
	}
	return &models.Receipt{
		TxHash:          r.TxHash,
		BlockNumber:     r.BlockNumber.Uint64(),
		Status:          status,
		GasUsed:         r.GasUsed,
		ContractAddress: r.ContractAddress,
		Confirmations:   depth,
	}
}

func parsePrivateKey(hexKey string) (*ecdsa.PrivateKey, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(strings.TrimSpace(hexKey), "0x"))
	if err != nil {
		return nil, fmt.Errorf("invalid private key: %w", err)
	}
	return key, nil
}

var (
	_ usecase.ContractFactoryProvider = (*Client)(nil)
	_ usecase.ChainIDFetcher          = (*Client)(nil)
)
