package adapters

import (
	"github.com/google/wire"
	"github.com/trebuchet-org/storage-deployer/internal/adapters/artifacts"
	"github.com/trebuchet-org/storage-deployer/internal/adapters/blockchain"
	"github.com/trebuchet-org/storage-deployer/internal/adapters/fs"
	"github.com/trebuchet-org/storage-deployer/internal/adapters/verification"
	"github.com/trebuchet-org/storage-deployer/internal/config"
	"github.com/trebuchet-org/storage-deployer/internal/usecase"
)

// ArtifactSet provides compiled artifact lookup
var ArtifactSet = wire.NewSet(
	artifacts.NewLoader,
	wire.Bind(new(usecase.ArtifactLoader), new(*artifacts.Loader)),
)

// BlockchainSet provides the JSON-RPC client
var BlockchainSet = wire.NewSet(
	blockchain.NewClient,
	wire.Bind(new(usecase.ContractFactoryProvider), new(*blockchain.Client)),
	wire.Bind(new(usecase.ChainIDFetcher), new(*blockchain.Client)),
)

// VerificationSet provides block explorer verification
var VerificationSet = wire.NewSet(
	verification.NewEtherscanVerifier,
	wire.Bind(new(usecase.ContractVerifier), new(*verification.EtherscanVerifier)),
)

// FSSet provides filesystem-based implementations
var FSSet = wire.NewSet(
	fs.NewReportWriter,
	wire.Bind(new(usecase.ReportWriter), new(*fs.ReportWriter)),
)

// ConfigSet provides configuration-based implementations
var ConfigSet = wire.NewSet(
	config.ProvideNetworkResolver,
	wire.Bind(new(usecase.NetworkResolver), new(*config.NetworkResolver)),
)

// AllAdapters includes all adapter sets
var AllAdapters = wire.NewSet(
	ArtifactSet,
	BlockchainSet,
	VerificationSet,
	FSSet,
	ConfigSet,
)
