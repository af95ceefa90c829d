package artifacts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/trebuchet-org/storage-deployer/internal/domain"
	"github.com/trebuchet-org/storage-deployer/internal/domain/config"
	"github.com/trebuchet-org/storage-deployer/internal/domain/models"
	"github.com/trebuchet-org/storage-deployer/internal/usecase"
)

// hardhatArtifactsDir is where hardhat writes compiled contracts
const hardhatArtifactsDir = "artifacts"

// Loader finds compiled artifacts written by forge (out/) or hardhat (artifacts/)
type Loader struct {
	projectRoot string
	searchDirs  []string
	log         *slog.Logger
}

// NewLoader creates a new artifact loader
func NewLoader(cfg *config.RuntimeConfig, log *slog.Logger) *Loader {
	return &Loader{
		projectRoot: cfg.ProjectRoot,
		searchDirs:  []string{cfg.FoundryConfig.OutDir(), hardhatArtifactsDir},
		log:         log,
	}
}

// LoadArtifact loads the artifact for a contract name. The name is either a
// bare contract name or "path/To/File.sol:Name" when several files declare it.
func (l *Loader) LoadArtifact(ctx context.Context, contractName string) (*models.Artifact, error) {
	sourceFile, name := splitContractRef(contractName)

	matches, err := l.find(sourceFile, name)
	if err != nil {
		return nil, err
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("%w: %s (searched %s)", domain.ErrArtifactNotFound, contractName, strings.Join(l.searchDirs, ", "))
	case 1:
	default:
		return nil, domain.AmbiguousArtifactErr{Contract: contractName, Matches: matches}
	}

	l.log.Debug("loading artifact", "contract", contractName, "path", matches[0])
	return readArtifact(filepath.Join(l.projectRoot, matches[0]), name)
}

// find walks the artifact directories collecting <File>.sol/<Name>.json paths
func (l *Loader) find(sourceFile, name string) ([]string, error) {
	var matches []string
	for _, dir := range l.searchDirs {
		root := filepath.Join(l.projectRoot, dir)
		if _, err := os.Stat(root); err != nil {
			continue
		}

		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				// hardhat keeps debug and build-info files next to artifacts
				if d.Name() == "build-info" {
					return filepath.SkipDir
				}
				return nil
			}
			if d.Name() != name+".json" {
				return nil
			}
			parent := filepath.Base(filepath.Dir(path))
			if !strings.HasSuffix(parent, ".sol") {
				return nil
			}
			if sourceFile != "" && parent != filepath.Base(sourceFile) {
				return nil
			}
			rel, err := filepath.Rel(l.projectRoot, path)
			if err != nil {
				return err
			}
			matches = append(matches, rel)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", dir, err)
		}
	}
	sort.Strings(matches)
	return matches, nil
}

// readArtifact decodes an artifact file and its ABI
func readArtifact(path, name string) (*models.Artifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read artifact: %w", err)
	}

	var artifact models.Artifact
	if err := json.Unmarshal(data, &artifact); err != nil {
		return nil, fmt.Errorf("failed to parse artifact %s: %w", path, err)
	}
	artifact.Path = path

	if len(artifact.Bytecode.Bytes()) == 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrEmptyBytecode, path)
	}

	parsed, err := abi.JSON(bytes.NewReader(artifact.ABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse ABI in %s: %w", path, err)
	}
	artifact.Parsed = &parsed

	if artifact.ContractName == "" {
		artifact.ContractName = name
	}
	if artifact.SourceName == "" {
		artifact.SourceName = compilationTarget(&artifact)
	}

	return &artifact, nil
}

// compilationTarget reads the source path from forge's embedded metadata
func compilationTarget(artifact *models.Artifact) string {
	md, err := artifact.Metadata()
	if err != nil || md == nil {
		return ""
	}
	raw, ok := md.Settings["compilationTarget"]
	if !ok {
		return ""
	}
	var target map[string]string
	if err := json.Unmarshal(raw, &target); err != nil {
		return ""
	}
	for source, contract := range target {
		if contract == artifact.ContractName {
			return source
		}
	}
	return ""
}

// splitContractRef splits "src/Foo.sol:Foo" into its source file and name
func splitContractRef(ref string) (string, string) {
	if i := strings.LastIndex(ref, ":"); i != -1 {
		return ref[:i], ref[i+1:]
	}
	return "", ref
}

var _ usecase.ArtifactLoader = (*Loader)(nil)
