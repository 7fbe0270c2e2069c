package domain

import (
	"context"
	"testing"

	"github.com/fundraisely/backend/config"
	chain "github.com/fundraisely/backend/internal/domain/chain/solana"
	"github.com/fundraisely/backend/internal/entity"
	"github.com/fundraisely/backend/internal/repository"
	"github.com/fundraisely/backend/pkg/errorx"
	"github.com/fundraisely/backend/pkg/testutil"
	"github.com/fundraisely/backend/pkg/xcontext"

	"github.com/stretchr/testify/require"
)

const (
	usdcMint = "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v"
	solMint  = "So11111111111111111111111111111111111111112"
)

func testRegistry() *config.TokenRegistry {
	return &config.TokenRegistry{
		Tokens: []config.ApprovedToken{
			{Symbol: "USDC", Mint: usdcMint, Decimals: 6},
			{Symbol: "SOL", Mint: solMint, Decimals: 9},
		},
	}
}

func newCoordinator(dispatcher chain.Dispatcher) *settlementCoordinator {
	return NewSettlementCoordinator(
		dispatcher, repository.NewChainTransactionRepository(), testRegistry())
}

func Test_ToBaseUnits_UsesRegistryDecimals(t *testing.T) {
	ctx := testutil.MockContext()
	c := newCoordinator(&testutil.MockDispatcher{})

	// The same human amount lands three orders of magnitude apart between
	// a 6-decimal and a 9-decimal token.
	require.Equal(t, uint64(1_500_000), c.ToBaseUnits(ctx, usdcMint, 1.5))
	require.Equal(t, uint64(1_500_000_000), c.ToBaseUnits(ctx, solMint, 1.5))

	// Unregistered mints fall back to the 6-decimal default.
	require.Equal(t, uint64(2_000_000), c.ToBaseUnits(ctx, "UnknownMint", 2))

	require.Zero(t, c.ToBaseUnits(ctx, usdcMint, 0))
	require.Zero(t, c.ToBaseUnits(ctx, usdcMint, -3))
}

func Test_FromBaseUnits(t *testing.T) {
	ctx := testutil.MockContext()
	c := newCoordinator(&testutil.MockDispatcher{})

	require.Equal(t, 1.5, c.FromBaseUnits(ctx, usdcMint, 1_500_000))
	require.Equal(t, 1.5, c.FromBaseUnits(ctx, solMint, 1_500_000_000))
}

func Test_SettlementCoordinator_Deploy(t *testing.T) {
	ctx := testutil.MockContext()

	var dispatched *chain.DispatchedTxRequest
	c := newCoordinator(&testutil.MockDispatcher{
		DispatchFunc: func(
			ctx context.Context, req *chain.DispatchedTxRequest,
		) *chain.DispatchedTxResult {
			dispatched = req
			return chain.NewDispatchTxSuccess(req, "tx-1")
		},
	})

	room, err := testutil.SampleRoom(ctx, nil)
	require.NoError(t, err)

	result, err := c.Deploy(ctx, &room)
	require.NoError(t, err)
	require.Equal(t, "tx-1", result.TxHash)
	require.NotEmpty(t, result.ContractAddress)
	require.Equal(t, "https://explorer.solana.com/tx/tx-1", result.ExplorerURL)
	require.NotNil(t, dispatched)
	require.Equal(t, room.RoomID, dispatched.RoomID)

	// The audit row was written.
	txs, err := repository.NewChainTransactionRepository().GetByRoomID(ctx, room.RoomID)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	require.Equal(t, entity.ChainTransactionDeploy, txs[0].Kind)
	require.Equal(t, entity.ChainTransactionSuccess, txs[0].Status)
}

func Test_SettlementCoordinator_Deploy_Rejections(t *testing.T) {
	ctx := testutil.MockContext()

	t.Run("unapproved fee token", func(t *testing.T) {
		c := newCoordinator(&testutil.MockDispatcher{})
		room, err := testutil.SampleRoom(ctx, &entity.Room{FeeTokenMint: "SomeRandomMint"})
		require.NoError(t, err)

		_, err = c.Deploy(ctx, &room)
		require.ErrorIs(t, err, errorx.New(errorx.TokenNotApproved, ""))
	})

	t.Run("emergency pause", func(t *testing.T) {
		cfg := xcontext.Configs(ctx)
		cfg.Solana.EmergencyPause = true
		pausedCtx := xcontext.WithConfigs(ctx, cfg)

		c := newCoordinator(&testutil.MockDispatcher{})
		room, err := testutil.SampleRoom(ctx, nil)
		require.NoError(t, err)

		_, err = c.Deploy(pausedCtx, &room)
		require.ErrorIs(t, err, errorx.New(errorx.EmergencyPause, ""))
	})

	t.Run("invalid fee split caught before any chain call", func(t *testing.T) {
		called := false
		c := newCoordinator(&testutil.MockDispatcher{
			DispatchFunc: func(
				ctx context.Context, req *chain.DispatchedTxRequest,
			) *chain.DispatchedTxResult {
				called = true
				return chain.NewDispatchTxSuccess(req, "tx")
			},
		})

		room, err := testutil.SampleRoom(ctx, &entity.Room{
			HostFeeBps:   500,
			PrizePoolBps: 4000,
		})
		require.NoError(t, err)

		_, err = c.Deploy(ctx, &room)
		require.ErrorIs(t, err, errorx.New(errorx.CharityBelowMinimum, ""))
		require.False(t, called)
	})

	t.Run("invalid host wallet", func(t *testing.T) {
		c := newCoordinator(&testutil.MockDispatcher{})
		room, err := testutil.SampleRoom(ctx, &entity.Room{HostWallet: "not-a-wallet"})
		require.NoError(t, err)

		_, err = c.Deploy(ctx, &room)
		require.ErrorIs(t, err, errorx.New(errorx.InvalidAddress, ""))
	})
}

func Test_SettlementCoordinator_DispatchErrorMapping(t *testing.T) {
	ctx := testutil.MockContext()

	testCases := []struct {
		name     string
		err      chain.DispatchError
		expected error
	}{
		{
			name:     "no signing key",
			err:      chain.ErrWalletNotConnected,
			expected: errorx.New(errorx.WalletNotConnected, ""),
		},
		{
			name:     "wallet rejected",
			err:      chain.ErrUserRejected,
			expected: errorx.New(errorx.UserRejected, ""),
		},
		{
			name:     "program rejected",
			err:      chain.ErrChainRejected,
			expected: errorx.New(errorx.ChainRejected, ""),
		},
		{
			name:     "transport failure",
			err:      chain.ErrSubmitTx,
			expected: errorx.New(errorx.Unavailable, ""),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c := newCoordinator(&testutil.MockDispatcher{
				DispatchFunc: func(
					ctx context.Context, req *chain.DispatchedTxRequest,
				) *chain.DispatchedTxResult {
					return chain.NewDispatchTxError(req, tc.err)
				},
			})

			room, err := testutil.SampleRoom(ctx, nil)
			require.NoError(t, err)

			_, err = c.Deploy(ctx, &room)
			require.ErrorIs(t, err, tc.expected)
		})
	}
}

func Test_SettlementCoordinator_Join(t *testing.T) {
	ctx := testutil.MockContext()

	var dispatched *chain.DispatchedTxRequest
	c := newCoordinator(&testutil.MockDispatcher{
		DispatchFunc: func(
			ctx context.Context, req *chain.DispatchedTxRequest,
		) *chain.DispatchedTxResult {
			dispatched = req
			return chain.NewDispatchTxSuccess(req, "tx-join")
		},
	})

	room, err := testutil.SampleRoom(ctx, &entity.Room{
		ContractAddress: "SysvarRent111111111111111111111111111111111",
	})
	require.NoError(t, err)

	result, err := c.Join(
		ctx, &room, "alice", "SysvarC1ock11111111111111111111111111111111", 0.25)
	require.NoError(t, err)
	require.Equal(t, "tx-join", result.TxHash)
	require.Equal(t, room.EntryFee, result.EntryAmount)
	require.Equal(t, uint64(250_000), result.ExtrasAmount)
	require.NotNil(t, dispatched)
}

func Test_SettlementCoordinator_End(t *testing.T) {
	ctx := testutil.MockContext()
	c := newCoordinator(&testutil.MockDispatcher{})

	room, err := testutil.SampleRoom(ctx, &entity.Room{
		ContractAddress: "SysvarRent111111111111111111111111111111111",
	})
	require.NoError(t, err)

	txHash, err := c.End(ctx, &room, []string{
		"SysvarC1ock11111111111111111111111111111111",
	})
	require.NoError(t, err)
	require.Equal(t, "mock-tx-hash", txHash)

	_, err = c.End(ctx, &room, []string{"not-a-wallet"})
	require.ErrorIs(t, err, errorx.New(errorx.InvalidAddress, ""))
}
