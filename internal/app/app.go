package app

import (
	"github.com/trebuchet-org/storage-deployer/internal/adapters/blockchain"
	"github.com/trebuchet-org/storage-deployer/internal/domain/config"
	"github.com/trebuchet-org/storage-deployer/internal/usecase"
)

// App is the main application container that holds all use cases
type App struct {
	// Configuration
	Config *config.RuntimeConfig

	// Chain connection, dialed by the command before running a use case
	Chain *blockchain.Client

	// Use cases
	DeployContract *usecase.DeployContract
	ListNetworks   *usecase.ListNetworks

	// Adapters
	ReportWriter usecase.ReportWriter
}

// NewApp creates a new application instance with all use cases
func NewApp(
	cfg *config.RuntimeConfig,
	chain *blockchain.Client,
	deployContract *usecase.DeployContract,
	listNetworks *usecase.ListNetworks,
	reportWriter usecase.ReportWriter,
) (*App, error) {
	return &App{
		Config:         cfg,
		Chain:          chain,
		DeployContract: deployContract,
		ListNetworks:   listNetworks,
		ReportWriter:   reportWriter,
	}, nil
}
