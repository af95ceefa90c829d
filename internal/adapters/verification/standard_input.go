package verification

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/samber/lo"
	"github.com/trebuchet-org/storage-deployer/internal/domain"
	"github.com/trebuchet-org/storage-deployer/internal/domain/models"
)

// standardInput is solc's standard JSON input as accepted by Etherscan
type standardInput struct {
	Language string                     `json:"language"`
	Sources  map[string]sourceContent   `json:"sources"`
	Settings map[string]json.RawMessage `json:"settings"`
}

type sourceContent struct {
	Content string `json:"content"`
}

// compileJob is everything the explorer needs to recompile a contract
type compileJob struct {
	Input           standardInput
	ContractName    string // "src/File.sol:Name"
	CompilerVersion string // "v0.8.24+commit.e11b9ed9"
}

// buildCompileJob rebuilds the compiler input from the artifact's embedded metadata
// and the source files it references.
func buildCompileJob(projectRoot string, artifact *models.Artifact) (*compileJob, error) {
	md, err := artifact.Metadata()
	if err != nil {
		return nil, fmt.Errorf("failed to parse compiler metadata: %w", err)
	}
	if md == nil {
		return buildInfoCompileJob(artifact)
	}

	target, err := fullyQualifiedName(md, artifact.ContractName)
	if err != nil {
		return nil, err
	}

	paths := lo.Keys(md.Sources)
	sort.Strings(paths)

	sources := make(map[string]sourceContent, len(paths))
	for _, path := range paths {
		content, err := os.ReadFile(filepath.Join(projectRoot, path))
		if err != nil {
			return nil, fmt.Errorf("failed to read source %s: %w", path, err)
		}
		sources[path] = sourceContent{Content: string(content)}
	}

	settings := lo.OmitByKeys(md.Settings, []string{"compilationTarget"})
	if raw, ok := settings["libraries"]; ok {
		nested, err := nestLibraries(raw)
		if err != nil {
			return nil, err
		}
		settings["libraries"] = nested
	}

	language := md.Language
	if language == "" {
		language = "Solidity"
	}

	return &compileJob{
		Input: standardInput{
			Language: language,
			Sources:  sources,
			Settings: settings,
		},
		ContractName:    target,
		CompilerVersion: "v" + strings.TrimPrefix(md.Compiler.Version, "v"),
	}, nil
}

// hardhatDebugFile is the <Name>.dbg.json file Hardhat writes next to each artifact
type hardhatDebugFile struct {
	BuildInfo string `json:"buildInfo"`
}

// hardhatBuildInfo is a file under artifacts/build-info; its input already carries source contents
type hardhatBuildInfo struct {
	SolcLongVersion string        `json:"solcLongVersion"`
	Input           standardInput `json:"input"`
}

// buildInfoCompileJob takes the compiler input from the Hardhat build-info the artifact's
// debug file points at. Artifacts without one cannot be verified.
func buildInfoCompileJob(artifact *models.Artifact) (*compileJob, error) {
	if artifact.Path == "" || artifact.SourceName == "" {
		return nil, fmt.Errorf("%w: %s", domain.ErrNoMetadata, artifact.ContractName)
	}

	dbgPath := strings.TrimSuffix(artifact.Path, ".json") + ".dbg.json"
	data, err := os.ReadFile(dbgPath)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", domain.ErrNoMetadata, artifact.Path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", dbgPath, err)
	}

	var dbg hardhatDebugFile
	if err := json.Unmarshal(data, &dbg); err != nil {
		return nil, fmt.Errorf("invalid debug file %s: %w", dbgPath, err)
	}
	if dbg.BuildInfo == "" {
		return nil, fmt.Errorf("%w: %s has no build info", domain.ErrNoMetadata, dbgPath)
	}

	buildInfoPath := dbg.BuildInfo
	if !filepath.IsAbs(buildInfoPath) {
		buildInfoPath = filepath.Join(filepath.Dir(dbgPath), buildInfoPath)
	}
	data, err = os.ReadFile(buildInfoPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read build info: %w", err)
	}

	var info hardhatBuildInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, fmt.Errorf("invalid build info %s: %w", buildInfoPath, err)
	}
	if info.SolcLongVersion == "" {
		return nil, fmt.Errorf("%w: %s has no compiler version", domain.ErrNoMetadata, buildInfoPath)
	}
	if _, ok := info.Input.Sources[artifact.SourceName]; !ok {
		return nil, fmt.Errorf("%w: %s is not in %s", domain.ErrNoMetadata, artifact.SourceName, buildInfoPath)
	}
	if info.Input.Language == "" {
		info.Input.Language = "Solidity"
	}

	return &compileJob{
		Input:           info.Input,
		ContractName:    artifact.SourceName + ":" + artifact.ContractName,
		CompilerVersion: "v" + strings.TrimPrefix(info.SolcLongVersion, "v"),
	}, nil
}

// fullyQualifiedName finds "path:Name" for the contract in the compilation target
func fullyQualifiedName(md *models.CompilerMetadata, contractName string) (string, error) {
	raw, ok := md.Settings["compilationTarget"]
	if !ok {
		return "", fmt.Errorf("%w: missing compilation target", domain.ErrNoMetadata)
	}

	var target map[string]string
	if err := json.Unmarshal(raw, &target); err != nil {
		return "", fmt.Errorf("invalid compilation target: %w", err)
	}

	entry, ok := lo.Find(lo.Entries(target), func(e lo.Entry[string, string]) bool {
		return e.Value == contractName
	})
	if !ok {
		return "", fmt.Errorf("%w: %s is not the compilation target", domain.ErrNoMetadata, contractName)
	}
	return entry.Key + ":" + entry.Value, nil
}

// nestLibraries converts metadata's {"path:Name": addr} into {"path": {"Name": addr}}
func nestLibraries(raw json.RawMessage) (json.RawMessage, error) {
	var flat map[string]string
	if err := json.Unmarshal(raw, &flat); err != nil {
		return nil, fmt.Errorf("invalid libraries setting: %w", err)
	}

	nested := make(map[string]map[string]string)
	for key, address := range flat {
		i := strings.LastIndex(key, ":")
		if i == -1 {
			return nil, fmt.Errorf("invalid library reference %q", key)
		}
		path, name := key[:i], key[i+1:]
		if nested[path] == nil {
			nested[path] = make(map[string]string)
		}
		nested[path][name] = address
	}

	return json.Marshal(nested)
}
