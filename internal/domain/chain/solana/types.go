package solana

import (
	"context"

	"github.com/gagliardetto/solana-go"
)

type DispatchError int

const (
	ErrNil DispatchError = iota // no error
	ErrGeneric
	ErrWalletNotConnected
	ErrUserRejected
	ErrChainRejected
	ErrMarshal
	ErrSubmitTx
)

type DispatchedTxRequest struct {
	RoomID      string
	Instruction solana.Instruction
}

type DispatchedTxResult struct {
	Success bool
	Err     DispatchError // int instead of error so json RPC can marshal it
	RoomID  string
	TxHash  string
}

func NewDispatchTxError(request *DispatchedTxRequest, err DispatchError) *DispatchedTxResult {
	return &DispatchedTxResult{
		RoomID:  request.RoomID,
		Success: false,
		Err:     err,
	}
}

func NewDispatchTxSuccess(request *DispatchedTxRequest, txHash string) *DispatchedTxResult {
	return &DispatchedTxResult{
		RoomID:  request.RoomID,
		TxHash:  txHash,
		Success: true,
		Err:     ErrNil,
	}
}

// Dispatcher signs and submits room program instructions.
type Dispatcher interface {
	Dispatch(ctx context.Context, request *DispatchedTxRequest) *DispatchedTxResult

	// CurrentSlot reads the chain tip, used for room expiration checks.
	CurrentSlot(ctx context.Context) (uint64, error)
}
