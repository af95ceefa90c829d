package blockchain

import (
	"context"
	"log/slog"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/storage-deployer/internal/domain"
	"github.com/trebuchet-org/storage-deployer/internal/domain/config"
	"github.com/trebuchet-org/storage-deployer/internal/domain/models"
)

// anvil's first dev account
const devKey = "0xac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"

type fakeBackend struct {
	Backend

	chainID   int64
	heads     []uint64
	headCalls int
	receipt   *types.Receipt
}

func (f *fakeBackend) ChainID(ctx context.Context) (*big.Int, error) {
	return big.NewInt(f.chainID), nil
}

func (f *fakeBackend) BlockNumber(ctx context.Context) (uint64, error) {
	i := f.headCalls
	if i >= len(f.heads) {
		i = len(f.heads) - 1
	}
	f.headCalls++
	return f.heads[i], nil
}

func (f *fakeBackend) TransactionReceipt(ctx context.Context, hash common.Hash) (*types.Receipt, error) {
	r := *f.receipt
	r.TxHash = hash
	return &r, nil
}

type stubLoader struct{}

func (stubLoader) LoadArtifact(ctx context.Context, name string) (*models.Artifact, error) {
	return &models.Artifact{ContractName: name}, nil
}

func newTestClient(network *config.Network, key string) *Client {
	c := NewClient(&config.RuntimeConfig{Network: network, PrivateKey: key}, stubLoader{}, slog.New(slog.DiscardHandler))
	c.pollInterval = time.Millisecond
	return c
}

func TestAttach(t *testing.T) {
	t.Run("adopts rpc chain id", func(t *testing.T) {
		c := newTestClient(&config.Network{Name: "localhost"}, devKey)
		chainID, err := c.attach(context.Background(), &fakeBackend{chainID: 31337})
		require.NoError(t, err)
		assert.Equal(t, domain.LocalChainID, chainID)
	})

	t.Run("pinned chain id matches", func(t *testing.T) {
		c := newTestClient(&config.Network{Name: "sepolia", ChainID: 11155111}, devKey)
		chainID, err := c.attach(context.Background(), &fakeBackend{chainID: 11155111})
		require.NoError(t, err)
		assert.Equal(t, domain.SepoliaChainID, chainID)
	})

	t.Run("pinned chain id mismatch", func(t *testing.T) {
		c := newTestClient(&config.Network{Name: "sepolia", ChainID: 11155111}, devKey)
		_, err := c.attach(context.Background(), &fakeBackend{chainID: 1})
		assert.ErrorIs(t, err, domain.ErrNetworkMismatch)
		assert.Nil(t, c.backend)
	})
}

func TestGetContractFactory(t *testing.T) {
	t.Run("requires connection", func(t *testing.T) {
		c := newTestClient(&config.Network{Name: "localhost"}, devKey)
		_, err := c.GetContractFactory(context.Background(), "SimpleStorage")
		assert.ErrorIs(t, err, domain.ErrNotConnected)
	})

	t.Run("requires private key", func(t *testing.T) {
		c := newTestClient(&config.Network{Name: "localhost"}, "")
		_, err := c.attach(context.Background(), &fakeBackend{chainID: 31337})
		require.NoError(t, err)

		_, err = c.GetContractFactory(context.Background(), "SimpleStorage")
		assert.ErrorIs(t, err, domain.ErrMissingPrivateKey)
	})

	t.Run("signs with configured key", func(t *testing.T) {
		c := newTestClient(&config.Network{Name: "localhost"}, devKey)
		_, err := c.attach(context.Background(), &fakeBackend{chainID: 31337})
		require.NoError(t, err)

		factory, err := c.GetContractFactory(context.Background(), "SimpleStorage")
		require.NoError(t, err)
		assert.NotNil(t, factory)
		assert.Equal(t, common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"), c.auth.From)
	})
}

func TestWaitConfirmations(t *testing.T) {
	tx := types.NewTx(&types.LegacyTx{Nonce: 1, Gas: 21000, GasPrice: big.NewInt(1)})
	mined := &types.Receipt{Status: types.ReceiptStatusSuccessful, BlockNumber: big.NewInt(100), GasUsed: 21000}

	t.Run("single confirmation needs no polling", func(t *testing.T) {
		backend := &fakeBackend{chainID: 31337, receipt: mined, heads: []uint64{100}}
		c := newTestClient(&config.Network{Name: "localhost"}, devKey)
		_, err := c.attach(context.Background(), backend)
		require.NoError(t, err)

		receipt, err := c.waitConfirmations(context.Background(), tx, 1)
		require.NoError(t, err)
		assert.Equal(t, uint64(1), receipt.Confirmations)
		assert.Equal(t, uint64(100), receipt.BlockNumber)
		assert.Equal(t, tx.Hash(), receipt.TxHash)
		assert.Equal(t, 0, backend.headCalls)
	})

	t.Run("polls until depth reached", func(t *testing.T) {
		backend := &fakeBackend{chainID: 11155111, receipt: mined, heads: []uint64{100, 102, 104, 105, 110}}
		c := newTestClient(&config.Network{Name: "sepolia"}, devKey)
		_, err := c.attach(context.Background(), backend)
		require.NoError(t, err)

		receipt, err := c.waitConfirmations(context.Background(), tx, 6)
		require.NoError(t, err)
		assert.Equal(t, uint64(6), receipt.Confirmations)
		assert.Equal(t, 4, backend.headCalls)
		assert.Equal(t, models.TransactionStatusExecuted, receipt.Status)
	})

	t.Run("reverted transaction", func(t *testing.T) {
		reverted := &types.Receipt{Status: types.ReceiptStatusFailed, BlockNumber: big.NewInt(100)}
		c := newTestClient(&config.Network{Name: "localhost"}, devKey)
		_, err := c.attach(context.Background(), &fakeBackend{chainID: 31337, receipt: reverted, heads: []uint64{100}})
		require.NoError(t, err)

		_, err = c.waitConfirmations(context.Background(), tx, 1)
		assert.ErrorContains(t, err, "reverted")
	})

	t.Run("cancelled while polling", func(t *testing.T) {
		c := newTestClient(&config.Network{Name: "sepolia"}, devKey)
		_, err := c.attach(context.Background(), &fakeBackend{chainID: 11155111, receipt: mined, heads: []uint64{100}})
		require.NoError(t, err)

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()

		_, err = c.waitConfirmations(ctx, tx, 6)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})
}

func TestConfirmations(t *testing.T) {
	assert.Equal(t, uint64(0), confirmations(99, 100))
	assert.Equal(t, uint64(1), confirmations(100, 100))
	assert.Equal(t, uint64(6), confirmations(105, 100))
}

func TestParsePrivateKey(t *testing.T) {
	key, err := parsePrivateKey(devKey)
	require.NoError(t, err)
	assert.Equal(t, common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"), crypto.PubkeyToAddress(key.PublicKey))

	_, err = parsePrivateKey(devKey[2:])
	require.NoError(t, err)

	_, err = parsePrivateKey("0x1234")
	assert.ErrorContains(t, err, "invalid private key")
}
