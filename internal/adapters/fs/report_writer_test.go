package fs

import (
	"encoding/json"
	"math/big"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/storage-deployer/internal/domain"
	"github.com/trebuchet-org/storage-deployer/internal/domain/models"
	"gopkg.in/yaml.v3"
)

func testRecord() *models.DeploymentRecord {
	return &models.DeploymentRecord{
		Contract:     "SimpleStorage",
		Network:      "sepolia",
		ChainID:      domain.SepoliaChainID,
		Address:      common.HexToAddress("0x5FbDB2315678afecb367f032d93F642f64180aa3"),
		TxHash:       common.HexToHash("0x01"),
		BlockNumber:  42,
		DeployedAt:   time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		Verification: domain.VerificationResult{Status: domain.VerificationStatusAlreadyVerified},
		InitialValue: big.NewInt(0),
		StoredValue:  big.NewInt(12),
		StoreTxHash:  common.HexToHash("0x02"),
		UpdatedValue: big.NewInt(12),
	}
}

func TestWriteReport_YAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reports", "deploy.yaml")
	require.NoError(t, NewReportWriter().WriteReport(path, testRecord()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc report
	require.NoError(t, yaml.Unmarshal(data, &doc))
	assert.Equal(t, "0x5FbDB2315678afecb367f032d93F642f64180aa3", doc.Address)
	assert.Equal(t, "already verified", doc.Verification.Status)
	assert.Equal(t, "2024-05-01T12:00:00Z", doc.DeployedAt)
	require.NotNil(t, doc.Interaction)
	assert.Equal(t, "12", doc.Interaction.Updated)
}

func TestWriteReport_JSONDeployOnly(t *testing.T) {
	record := testRecord()
	record.InitialValue, record.StoredValue, record.UpdatedValue = nil, nil, nil
	record.Verification = domain.VerificationResult{Status: domain.VerificationStatusSkipped}

	path := filepath.Join(t.TempDir(), "deploy.json")
	require.NoError(t, NewReportWriter().WriteReport(path, record))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, "SimpleStorage", raw["contract"])
	assert.NotContains(t, raw, "interaction")
	assert.Equal(t, float64(42), raw["blockNumber"])
}

func TestWriteReport_StoreNotConfirmed(t *testing.T) {
	record := testRecord()
	record.UpdatedValue = nil

	path := filepath.Join(t.TempDir(), "deploy.json")
	require.NoError(t, NewReportWriter().WriteReport(path, record))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "<nil>")

	var doc report
	require.NoError(t, json.Unmarshal(data, &doc))
	require.NotNil(t, doc.Interaction)
	assert.Equal(t, "0", doc.Interaction.Initial)
	assert.Equal(t, "12", doc.Interaction.Stored)
	assert.Equal(t, common.HexToHash("0x02").Hex(), doc.Interaction.StoreTxHash)
	assert.Empty(t, doc.Interaction.Updated)
}
