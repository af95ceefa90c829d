package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for domain operations
var (
	// ErrArtifactNotFound is returned when no compiled artifact exists for a contract
	ErrArtifactNotFound = errors.New("artifact not found")

	// ErrEmptyBytecode is returned when an artifact carries no creation bytecode
	ErrEmptyBytecode = errors.New("artifact has no bytecode")

	// ErrNoMetadata is returned when an artifact lacks the compiler metadata needed for verification
	ErrNoMetadata = errors.New("artifact has no compiler metadata")

	// ErrMissingPrivateKey is returned when no deployer key is configured
	ErrMissingPrivateKey = errors.New("no private key configured (set PRIVATE_KEY)")

	// ErrNetworkMismatch is returned when the RPC reports a different chain than configured
	ErrNetworkMismatch = errors.New("network mismatch")

	// ErrNotConnected is returned when a chain operation is attempted before dialing the RPC
	ErrNotConnected = errors.New("not connected to blockchain")

	// ErrNetworkNotFound is returned when a network name has no RPC endpoint
	ErrNetworkNotFound = errors.New("network not found")

	// ErrNotDeployed is returned when no code exists at the address a deployment reported
	ErrNotDeployed = errors.New("contract not deployed")
)

// AmbiguousArtifactErr is returned when more than one artifact matches a contract name
type AmbiguousArtifactErr struct {
	Contract string
	Matches  []string
}

func (e AmbiguousArtifactErr) Error() string {
	var lines []string
	for _, m := range e.Matches {
		lines = append(lines, "  - "+m)
	}
	return fmt.Sprintf("multiple artifacts found for %s, use path/Name.sol:Name to disambiguate:\n%s",
		e.Contract, strings.Join(lines, "\n"))
}

// UnknownNetworkErr is returned when a network name is not configured
type UnknownNetworkErr struct {
	Name        string
	Suggestions []string
}

func (e UnknownNetworkErr) Error() string {
	msg := fmt.Sprintf("network '%s' not found in foundry.toml [rpc_endpoints]", e.Name)
	if len(e.Suggestions) > 0 {
		msg += fmt.Sprintf(" (did you mean: %s?)", strings.Join(e.Suggestions, ", "))
	}
	return msg
}

func (e UnknownNetworkErr) Unwrap() error {
	return ErrNetworkNotFound
}
