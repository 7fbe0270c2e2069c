package solana

import (
	"context"
	"strings"

	"github.com/fundraisely/backend/pkg/xcontext"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
)

type dispatcher struct {
	client *rpc.Client
	signer solana.PrivateKey
}

// NewDispatcher connects to the configured RPC endpoint. An empty signing
// key is allowed at construction so read-only commands still start; every
// Dispatch then fails with ErrWalletNotConnected.
func NewDispatcher(ctx context.Context) (*dispatcher, error) {
	cfg := xcontext.Configs(ctx).Solana

	d := &dispatcher{client: rpc.New(cfg.RPCEndpoint)}

	if cfg.HostPrivateKey != "" {
		signer, err := solana.PrivateKeyFromBase58(cfg.HostPrivateKey)
		if err != nil {
			return nil, err
		}

		d.signer = signer
	}

	return d, nil
}

func (d *dispatcher) Dispatch(
	ctx context.Context, request *DispatchedTxRequest,
) *DispatchedTxResult {
	if d.signer == nil {
		return NewDispatchTxError(request, ErrWalletNotConnected)
	}

	blockhash, err := d.client.GetLatestBlockhash(ctx, rpc.CommitmentFinalized)
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot get latest blockhash: %v", err)
		return NewDispatchTxError(request, ErrSubmitTx)
	}

	tx, err := solana.NewTransaction(
		[]solana.Instruction{request.Instruction},
		blockhash.Value.Blockhash,
		solana.TransactionPayer(d.signer.PublicKey()),
	)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot build transaction: %v", err)
		return NewDispatchTxError(request, ErrMarshal)
	}

	_, err = tx.Sign(func(key solana.PublicKey) *solana.PrivateKey {
		if key.Equals(d.signer.PublicKey()) {
			return &d.signer
		}

		return nil
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot sign transaction of room %s: %v",
			request.RoomID, err)
		return NewDispatchTxError(request, ErrUserRejected)
	}

	sig, err := d.client.SendTransactionWithOpts(ctx, tx, rpc.TransactionOpts{
		PreflightCommitment: rpc.CommitmentConfirmed,
	})
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot send transaction of room %s: %v",
			request.RoomID, err)
		return NewDispatchTxError(request, classifySendError(err))
	}

	return NewDispatchTxSuccess(request, sig.String())
}

func (d *dispatcher) CurrentSlot(ctx context.Context) (uint64, error) {
	return d.client.GetSlot(ctx, rpc.CommitmentConfirmed)
}

// classifySendError separates program rejections (the instruction was
// simulated and refused) from transport failures.
func classifySendError(err error) DispatchError {
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "custom program error"),
		strings.Contains(msg, "instructionerror"),
		strings.Contains(msg, "insufficient funds"):
		return ErrChainRejected
	default:
		return ErrSubmitTx
	}
}
