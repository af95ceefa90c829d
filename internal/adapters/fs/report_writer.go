package fs

import (
	"encoding/json"
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/trebuchet-org/storage-deployer/internal/domain/models"
	"github.com/trebuchet-org/storage-deployer/internal/usecase"
	"gopkg.in/yaml.v3"
)

// ReportWriter writes deployment records as YAML or JSON
type ReportWriter struct{}

// NewReportWriter creates a new report writer
func NewReportWriter() *ReportWriter {
	return &ReportWriter{}
}

// report is the on-disk shape of a deployment record
type report struct {
	Contract     string        `json:"contract" yaml:"contract"`
	Network      string        `json:"network" yaml:"network"`
	ChainID      uint64        `json:"chainId" yaml:"chainId"`
	Address      string        `json:"address" yaml:"address"`
	TxHash       string        `json:"txHash" yaml:"txHash"`
	BlockNumber  uint64        `json:"blockNumber,omitempty" yaml:"blockNumber,omitempty"`
	DeployedAt   string        `json:"deployedAt" yaml:"deployedAt"`
	Verification reportVerify  `json:"verification" yaml:"verification"`
	Interaction  *reportValues `json:"interaction,omitempty" yaml:"interaction,omitempty"`
}

type reportVerify struct {
	Status string `json:"status" yaml:"status"`
	Reason string `json:"reason,omitempty" yaml:"reason,omitempty"`
	URL    string `json:"url,omitempty" yaml:"url,omitempty"`
}

type reportValues struct {
	Initial     string `json:"initial" yaml:"initial"`
	Stored      string `json:"stored" yaml:"stored"`
	StoreTxHash string `json:"storeTxHash" yaml:"storeTxHash"`
	Updated     string `json:"updated,omitempty" yaml:"updated,omitempty"`
}

// WriteReport writes record to path, YAML for .yaml/.yml and JSON otherwise
func (w *ReportWriter) WriteReport(path string, record *models.DeploymentRecord) error {
	doc := toReport(record)

	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(doc)
	default:
		data, err = json.MarshalIndent(doc, "", "  ")
		data = append(data, '\n')
	}
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create report directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

func toReport(record *models.DeploymentRecord) report {
	doc := report{
		Contract:    record.Contract,
		Network:     record.Network,
		ChainID:     record.ChainID,
		Address:     record.Address.Hex(),
		TxHash:      record.TxHash.Hex(),
		BlockNumber: record.BlockNumber,
		DeployedAt:  record.DeployedAt.UTC().Format(time.RFC3339),
		Verification: reportVerify{
			Status: string(record.Verification.Status),
			Reason: record.Verification.Reason,
			URL:    record.Verification.URL,
		},
	}
	if record.Interacted() {
		doc.Interaction = &reportValues{
			Initial:     valueString(record.InitialValue),
			Stored:      valueString(record.StoredValue),
			StoreTxHash: record.StoreTxHash.Hex(),
			Updated:     valueString(record.UpdatedValue),
		}
	}
	return doc
}

func valueString(v *big.Int) string {
	if v == nil {
		return ""
	}
	return v.String()
}

// Ensure the adapter implements the interface
var _ usecase.ReportWriter = (*ReportWriter)(nil)
