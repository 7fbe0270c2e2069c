package entity

import (
	"github.com/fundraisely/backend/pkg/enum"
)

type ChainTransactionStatusType string

var (
	ChainTransactionPending    = enum.New(ChainTransactionStatusType("pending"))
	ChainTransactionInProgress = enum.New(ChainTransactionStatusType("inprogress"))
	ChainTransactionSuccess    = enum.New(ChainTransactionStatusType("success"))
	ChainTransactionFailure    = enum.New(ChainTransactionStatusType("failure"))
)

type ChainTransactionKindType string

var (
	ChainTransactionDeploy = enum.New(ChainTransactionKindType("deploy"))
	ChainTransactionJoin   = enum.New(ChainTransactionKindType("join"))
	ChainTransactionSettle = enum.New(ChainTransactionKindType("settle"))
)

type ChainTransaction struct {
	TxHash    string `gorm:"primaryKey"`
	CreatedAt int64  `gorm:"autoCreateTime"`
	UpdatedAt int64  `gorm:"autoUpdateTime"`

	RoomID string `gorm:"index"`
	Kind   ChainTransactionKindType
	Status ChainTransactionStatusType

	// Note keeps the failure reason when the transaction was rejected.
	Note string
}
