package render

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/trebuchet-org/storage-deployer/internal/domain"
	"github.com/trebuchet-org/storage-deployer/internal/domain/models"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DeployRenderer prints the summary of a finished deployment run
type DeployRenderer struct {
	out io.Writer
}

// NewDeployRenderer creates a new deploy renderer
func NewDeployRenderer(out io.Writer) *DeployRenderer {
	return &DeployRenderer{out: out}
}

// RenderDeployment renders the deployment record as a two column table
func (r *DeployRenderer) RenderDeployment(record *models.DeploymentRecord) error {
	if record == nil {
		return nil
	}

	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.Style().Options.DrawBorder = false
	t.Style().Options.SeparateRows = false
	t.Style().Options.SeparateHeader = false
	t.Style().Options.SeparateColumns = false
	t.Style().Box = table.BoxStyle{
		PaddingRight: "   ",
	}
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignLeft},
		{Number: 2, Align: text.AlignLeft},
	})

	label := color.New(color.Faint).Sprint
	t.AppendRow(table.Row{label("Contract"), color.New(color.FgCyan, color.Bold).Sprint(record.Contract)})
	t.AppendRow(table.Row{label("Network"), fmt.Sprintf("%s (%d)", record.Network, record.ChainID)})
	t.AppendRow(table.Row{label("Address"), record.Address.Hex()})
	t.AppendRow(table.Row{label("Transaction"), record.TxHash.Hex()})
	if record.BlockNumber > 0 {
		t.AppendRow(table.Row{label("Block"), record.BlockNumber})
	}
	t.AppendRow(table.Row{label("Verification"), formatVerification(record.Verification)})
	if record.Interacted() {
		t.AppendRow(table.Row{label("Value"), formatValues(record)})
		t.AppendRow(table.Row{label("Store tx"), record.StoreTxHash.Hex()})
	}

	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, t.Render())
	return nil
}

func formatValues(record *models.DeploymentRecord) string {
	initial := "?"
	if record.InitialValue != nil {
		initial = record.InitialValue.String()
	}
	if record.UpdatedValue == nil {
		return fmt.Sprintf("%s → %s %s", initial, record.StoredValue, color.New(color.FgYellow).Sprint("(unconfirmed)"))
	}
	return fmt.Sprintf("%s → %s", initial, record.UpdatedValue)
}

func formatVerification(v domain.VerificationResult) string {
	status := cases.Title(language.English).String(string(v.Status))

	switch v.Status {
	case domain.VerificationStatusVerified, domain.VerificationStatusAlreadyVerified:
		s := color.New(color.FgGreen).Sprint(status)
		if v.URL != "" {
			s += " " + color.New(color.Faint).Sprint(v.URL)
		}
		return s
	case domain.VerificationStatusFailed:
		s := color.New(color.FgYellow).Sprint(status)
		if v.Reason != "" {
			s += " " + color.New(color.Faint).Sprintf("(%s)", v.Reason)
		}
		return s
	default:
		return color.New(color.Faint).Sprint(status)
	}
}
