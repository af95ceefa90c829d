package verification

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/trebuchet-org/storage-deployer/internal/domain"
	"github.com/trebuchet-org/storage-deployer/internal/domain/config"
	"github.com/trebuchet-org/storage-deployer/internal/usecase"
)

const (
	// DefaultAPIURL is the Etherscan multichain endpoint
	DefaultAPIURL = "https://api.etherscan.io/v2/api"

	defaultPollInterval = 5 * time.Second
	defaultMaxPolls     = 24
)

// EtherscanVerifier submits standard JSON input to an Etherscan-compatible API
type EtherscanVerifier struct {
	client       *http.Client
	apiURL       string
	apiKey       string
	projectRoot  string
	artifacts    usecase.ArtifactLoader
	log          *slog.Logger
	pollInterval time.Duration
	maxPolls     int
}

// NewEtherscanVerifier creates a verifier for the configured network
func NewEtherscanVerifier(cfg *config.RuntimeConfig, artifacts usecase.ArtifactLoader, log *slog.Logger) *EtherscanVerifier {
	v := &EtherscanVerifier{
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		apiURL:       DefaultAPIURL,
		projectRoot:  cfg.ProjectRoot,
		artifacts:    artifacts,
		log:          log,
		pollInterval: defaultPollInterval,
		maxPolls:     defaultMaxPolls,
	}
	if cfg.Network != nil {
		v.apiKey = cfg.Network.ExplorerAPIKey
		if cfg.Network.ExplorerURL != "" {
			v.apiURL = cfg.Network.ExplorerURL
		}
	}
	return v
}

// Verify submits the contract and waits for the explorer's verdict.
// Explorer rejections come back as a Failed result, transport problems as errors.
func (v *EtherscanVerifier) Verify(ctx context.Context, req domain.VerificationRequest) (*domain.VerificationResult, error) {
	if v.apiKey == "" {
		return nil, fmt.Errorf("no explorer API key configured")
	}

	artifact, err := v.artifacts.LoadArtifact(ctx, req.ContractName)
	if err != nil {
		return nil, err
	}

	job, err := buildCompileJob(v.projectRoot, artifact)
	if err != nil {
		return nil, err
	}

	sourceCode, err := json.Marshal(job.Input)
	if err != nil {
		return nil, fmt.Errorf("failed to encode compiler input: %w", err)
	}

	data := url.Values{}
	data.Set("apikey", v.apiKey)
	data.Set("module", "contract")
	data.Set("action", "verifysourcecode")
	data.Set("contractaddress", req.Address.Hex())
	data.Set("sourceCode", string(sourceCode))
	data.Set("codeformat", "solidity-standard-json-input")
	data.Set("contractname", job.ContractName)
	data.Set("compilerversion", job.CompilerVersion)
	if len(req.ConstructorArgs) > 0 {
		data.Set("constructorArguements", hex.EncodeToString(req.ConstructorArgs)) // Note: Etherscan typo
	}

	v.log.Debug("submitting verification",
		"address", req.Address.Hex(),
		"contract", job.ContractName,
		"compiler", job.CompilerVersion,
	)

	submitted, err := v.post(ctx, req.ChainID, data)
	if err != nil {
		return nil, fmt.Errorf("failed to submit verification: %w", err)
	}

	explorerURL := BrowserURL(req.ChainID, req.Address.Hex())

	if submitted.Status != "1" {
		return v.result(classify(submitted.Result), submitted.Result, explorerURL), nil
	}

	return v.poll(ctx, req.ChainID, submitted.Result, explorerURL)
}

// poll checks the verification guid until the explorer settles
func (v *EtherscanVerifier) poll(ctx context.Context, chainID uint64, guid, explorerURL string) (*domain.VerificationResult, error) {
	ticker := time.NewTicker(v.pollInterval)
	defer ticker.Stop()

	for attempt := 0; attempt < v.maxPolls; attempt++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}

		params := url.Values{}
		params.Set("apikey", v.apiKey)
		params.Set("module", "contract")
		params.Set("action", "checkverifystatus")
		params.Set("guid", guid)

		status, err := v.get(ctx, chainID, params)
		if err != nil {
			return nil, fmt.Errorf("failed to check status: %w", err)
		}

		outcome := classify(status.Result)
		v.log.Debug("verification status", "guid", guid, "result", status.Result)
		if outcome == outcomePending {
			continue
		}
		return v.result(outcome, status.Result, explorerURL), nil
	}

	return nil, fmt.Errorf("verification %s still pending after %d checks", guid, v.maxPolls)
}

func (v *EtherscanVerifier) result(outcome explorerOutcome, message, explorerURL string) *domain.VerificationResult {
	switch outcome {
	case outcomeVerified:
		return &domain.VerificationResult{Status: domain.VerificationStatusVerified, URL: explorerURL}
	case outcomeAlreadyVerified:
		return &domain.VerificationResult{Status: domain.VerificationStatusAlreadyVerified, URL: explorerURL}
	default:
		return &domain.VerificationResult{Status: domain.VerificationStatusFailed, Reason: message}
	}
}

func (v *EtherscanVerifier) post(ctx context.Context, chainID uint64, data url.Values) (*etherscanResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.endpoint(chainID, nil), strings.NewReader(data.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return v.do(req)
}

func (v *EtherscanVerifier) get(ctx context.Context, chainID uint64, params url.Values) (*etherscanResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.endpoint(chainID, params), nil)
	if err != nil {
		return nil, err
	}
	return v.do(req)
}

func (v *EtherscanVerifier) do(req *http.Request) (*etherscanResponse, error) {
	resp, err := v.client.Do(req) //nolint:gosec // URL is constructed from configured explorer endpoint
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("explorer returned %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}

	var result etherscanResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	return &result, nil
}

// endpoint appends the chain id (and optional query) to the API URL
func (v *EtherscanVerifier) endpoint(chainID uint64, params url.Values) string {
	if params == nil {
		params = url.Values{}
	}
	params.Set("chainid", strconv.FormatUint(chainID, 10))

	sep := "?"
	if strings.Contains(v.apiURL, "?") {
		sep = "&"
	}
	return v.apiURL + sep + params.Encode()
}

// etherscanResponse represents Etherscan API response
type etherscanResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Result  string `json:"result"`
}

type explorerOutcome int

const (
	outcomeFailed explorerOutcome = iota
	outcomePending
	outcomeVerified
	outcomeAlreadyVerified
)

// classify maps Etherscan's free-form result strings to an outcome.
// This is the only place explorer messages are inspected.
func classify(result string) explorerOutcome {
	msg := strings.ToLower(result)
	switch {
	case strings.Contains(msg, "already verified"):
		return outcomeAlreadyVerified
	case strings.Contains(msg, "pass - verified"):
		return outcomeVerified
	case strings.Contains(msg, "pending"):
		return outcomePending
	default:
		return outcomeFailed
	}
}

// BrowserURL returns the explorer page for an address, or "" for unknown chains
func BrowserURL(chainID uint64, address string) string {
	var base string
	switch chainID {
	case 1:
		base = "https://etherscan.io"
	case domain.SepoliaChainID:
		base = "https://sepolia.etherscan.io"
	case 10:
		base = "https://optimistic.etherscan.io"
	case 137:
		base = "https://polygonscan.com"
	case 8453:
		base = "https://basescan.org"
	case 42161:
		base = "https://arbiscan.io"
	default:
		return ""
	}
	return fmt.Sprintf("%s/address/%s#code", base, address)
}

var _ usecase.ContractVerifier = (*EtherscanVerifier)(nil)
