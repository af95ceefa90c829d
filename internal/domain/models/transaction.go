package models

import (
	"github.com/ethereum/go-ethereum/common"
)

// TransactionStatus represents the status of a mined transaction
type TransactionStatus string

const (
	TransactionStatusExecuted TransactionStatus = "EXECUTED"
	TransactionStatusFailed   TransactionStatus = "FAILED"
)

// Receipt is the mined outcome of a transaction
type Receipt struct {
	TxHash          common.Hash       `json:"txHash"`
	BlockNumber     uint64            `json:"blockNumber"`
	Status          TransactionStatus `json:"status"`
	GasUsed         uint64            `json:"gasUsed"`
	ContractAddress common.Address    `json:"contractAddress,omitempty"`
	// Confirmations is the depth observed when the receipt was returned
	Confirmations uint64 `json:"confirmations"`
}
