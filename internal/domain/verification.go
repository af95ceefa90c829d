package domain

import "github.com/ethereum/go-ethereum/common"

// VerificationStatus classifies the outcome of an explorer verification
type VerificationStatus string

const (
	VerificationStatusSkipped         VerificationStatus = "skipped"
	VerificationStatusVerified        VerificationStatus = "verified"
	VerificationStatusAlreadyVerified VerificationStatus = "already verified"
	VerificationStatusFailed          VerificationStatus = "failed"
)

// VerificationRequest describes a deployed contract to verify
type VerificationRequest struct {
	ChainID         uint64
	Address         common.Address
	ContractName    string
	ConstructorArgs []byte
}

// VerificationResult is the typed outcome returned by a verifier
type VerificationResult struct {
	Status VerificationStatus `json:"status" yaml:"status"`
	Reason string             `json:"reason,omitempty" yaml:"reason,omitempty"`
	URL    string             `json:"url,omitempty" yaml:"url,omitempty"`
}

// Succeeded is true for verified and already-verified outcomes
func (r *VerificationResult) Succeeded() bool {
	return r != nil && (r.Status == VerificationStatusVerified || r.Status == VerificationStatusAlreadyVerified)
}
