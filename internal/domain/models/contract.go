package models

import (
	"encoding/json"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// BytecodeObject represents bytecode information in a compilation artifact.
// Foundry writes an object with an "object" field, Hardhat a bare hex string.
type BytecodeObject struct {
	Object         string         `json:"object"`
	SourceMap      string         `json:"sourceMap,omitempty"`
	LinkReferences map[string]any `json:"linkReferences,omitempty"`
}

func (b *BytecodeObject) UnmarshalJSON(data []byte) error {
	var hex string
	if err := json.Unmarshal(data, &hex); err == nil {
		b.Object = hex
		return nil
	}

	type plain BytecodeObject
	var obj plain
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	*b = BytecodeObject(obj)
	return nil
}

// Bytes decodes the hex bytecode
func (b BytecodeObject) Bytes() []byte {
	if b.Object == "" || b.Object == "0x" {
		return nil
	}
	if !strings.HasPrefix(b.Object, "0x") {
		return common.FromHex("0x" + b.Object)
	}
	return common.FromHex(b.Object)
}

// Artifact represents a compiled contract as written by forge or hardhat
type Artifact struct {
	ContractName     string          `json:"contractName,omitempty"`
	SourceName       string          `json:"sourceName,omitempty"`
	ABI              json.RawMessage `json:"abi"`
	Bytecode         BytecodeObject  `json:"bytecode"`
	DeployedBytecode BytecodeObject  `json:"deployedBytecode"`
	RawMetadata      string          `json:"rawMetadata,omitempty"`

	// Path is the artifact file the contract was loaded from
	Path string `json:"-"`
	// Parsed is the decoded ABI
	Parsed *abi.ABI `json:"-"`
}

// CompilerMetadata is the subset of solc metadata needed to rebuild standard JSON input
type CompilerMetadata struct {
	Compiler struct {
		Version string `json:"version"`
	} `json:"compiler"`
	Language string                     `json:"language"`
	Settings map[string]json.RawMessage `json:"settings"`
	Sources  map[string]struct {
		Keccak256 string   `json:"keccak256"`
		URLs      []string `json:"urls,omitempty"`
		License   string   `json:"license,omitempty"`
	} `json:"sources"`
}

// Metadata decodes the raw solc metadata, returning nil when the artifact has none
func (a *Artifact) Metadata() (*CompilerMetadata, error) {
	if a.RawMetadata == "" {
		return nil, nil
	}
	var md CompilerMetadata
	if err := json.Unmarshal([]byte(a.RawMetadata), &md); err != nil {
		return nil, err
	}
	return &md, nil
}
