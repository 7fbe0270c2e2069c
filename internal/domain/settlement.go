package domain

import (
	"context"
	"fmt"
	"math"

	"github.com/fundraisely/backend/config"
	chain "github.com/fundraisely/backend/internal/domain/chain/solana"
	"github.com/fundraisely/backend/internal/domain/fee"
	"github.com/fundraisely/backend/internal/entity"
	"github.com/fundraisely/backend/internal/repository"
	"github.com/fundraisely/backend/pkg/errorx"
	"github.com/fundraisely/backend/pkg/xcontext"

	solana "github.com/gagliardetto/solana-go"
	"github.com/puzpuzpuz/xsync"
)

// DefaultTokenDecimals is assumed when the fee token is not in the
// registry. Matches USDC-style mints, which is what hosts configure in
// practice.
const DefaultTokenDecimals = 6

type DeployResult struct {
	ContractAddress string
	TxHash          string
	ExplorerURL     string
}

type JoinResult struct {
	TxHash       string
	EntryAmount  uint64
	ExtrasAmount uint64
}

// SettlementCoordinator orchestrates the chain-facing room operations:
// account creation, player joins and the final payout. Chain calls never
// retry automatically; the caller re-invokes after a failure.
type SettlementCoordinator interface {
	Deploy(ctx context.Context, room *entity.Room) (*DeployResult, error)
	Join(
		ctx context.Context, room *entity.Room,
		playerID, playerWallet string, extrasAmount float64,
	) (*JoinResult, error)
	DeclareWinners(ctx context.Context, room *entity.Room, winnerWallets []string) (string, error)
	End(ctx context.Context, room *entity.Room, winnerWallets []string) (string, error)
	CurrentSlot(ctx context.Context) (uint64, error)
	ToBaseUnits(ctx context.Context, mint string, amount float64) uint64
	FromBaseUnits(ctx context.Context, mint string, amount uint64) float64
}

type settlementCoordinator struct {
	dispatcher    chain.Dispatcher
	chainTxRepo   repository.ChainTransactionRepository
	tokenRegistry *config.TokenRegistry

	// inFlight blocks a duplicate submission for a room while one chain
	// call is pending. Round events keep flowing, only the chain call of
	// the same room is serialized.
	inFlight *xsync.MapOf[string, bool]
}

func NewSettlementCoordinator(
	dispatcher chain.Dispatcher,
	chainTxRepo repository.ChainTransactionRepository,
	tokenRegistry *config.TokenRegistry,
) *settlementCoordinator {
	return &settlementCoordinator{
		dispatcher:    dispatcher,
		chainTxRepo:   chainTxRepo,
		tokenRegistry: tokenRegistry,
		inFlight:      xsync.NewMapOf[bool](),
	}
}

func (c *settlementCoordinator) Deploy(
	ctx context.Context, room *entity.Room,
) (*DeployResult, error) {
	if err := c.precheck(ctx, room); err != nil {
		return nil, err
	}

	// The fee split was validated at creation, but a creation call with a
	// bad split is a wasted transaction fee, so it is checked again at the
	// chain boundary.
	if _, err := fee.Validate(room.HostFeeBps, room.PrizePoolBps); err != nil {
		return nil, err
	}

	programID, err := c.programID(ctx)
	if err != nil {
		return nil, err
	}

	host, err := parseAddress(room.HostWallet)
	if err != nil {
		return nil, err
	}

	charity, err := parseAddress(room.CharityWallet)
	if err != nil {
		return nil, err
	}

	mint, err := parseAddress(room.FeeTokenMint)
	if err != nil {
		return nil, err
	}

	roomAddress, err := chain.DeriveRoomAddress(programID, host, room.RoomID)
	if err != nil {
		return nil, errorx.New(errorx.InvalidAddress,
			"Cannot derive the room address: %v", err)
	}

	var distribution [3]uint8
	for i, pct := range room.PrizeDistribution {
		if i < len(distribution) {
			distribution[i] = uint8(pct)
		}
	}

	expirationSlots := uint64(0)
	if room.ExpirationSlot > room.CreationSlot {
		expirationSlots = room.ExpirationSlot - room.CreationSlot
	}

	instruction := chain.NewInitPoolRoomInstruction(
		programID, host, roomAddress, mint, charity,
		chain.InitPoolRoomArgs{
			RoomID:            room.RoomID,
			EntryFee:          room.EntryFee,
			HostFeeBps:        uint16(room.HostFeeBps),
			PrizePoolBps:      uint16(room.PrizePoolBps),
			PrizeDistribution: distribution,
			MaxPlayers:        uint16(room.MaxPlayers),
			ExpirationSlots:   expirationSlots,
			CharityMemo:       room.CharityMemo,
		})

	txHash, err := c.dispatch(ctx, room.RoomID, entity.ChainTransactionDeploy, instruction)
	if err != nil {
		return nil, err
	}

	return &DeployResult{
		ContractAddress: roomAddress.String(),
		TxHash:          txHash,
		ExplorerURL:     c.explorerURL(ctx, txHash),
	}, nil
}

func (c *settlementCoordinator) Join(
	ctx context.Context, room *entity.Room,
	playerID, playerWallet string, extrasAmount float64,
) (*JoinResult, error) {
	if err := c.precheck(ctx, room); err != nil {
		return nil, err
	}

	programID, err := c.programID(ctx)
	if err != nil {
		return nil, err
	}

	player, err := parseAddress(playerWallet)
	if err != nil {
		return nil, err
	}

	roomAddress, err := parseAddress(room.ContractAddress)
	if err != nil {
		return nil, err
	}

	extras := c.ToBaseUnits(ctx, room.FeeTokenMint, extrasAmount)

	instruction := chain.NewJoinRoomInstruction(programID, roomAddress, player,
		chain.JoinRoomArgs{
			PlayerID:     playerID,
			EntryAmount:  room.EntryFee,
			ExtrasAmount: extras,
		})

	// Safe to retry by the caller: the program rejects a duplicate player
	// record, so a resubmitted join cannot double-charge.
	txHash, err := c.dispatch(ctx, room.RoomID, entity.ChainTransactionJoin, instruction)
	if err != nil {
		return nil, err
	}

	return &JoinResult{
		TxHash:       txHash,
		EntryAmount:  room.EntryFee,
		ExtrasAmount: extras,
	}, nil
}

func (c *settlementCoordinator) DeclareWinners(
	ctx context.Context, room *entity.Room, winnerWallets []string,
) (string, error) {
	if err := c.precheck(ctx, room); err != nil {
		return "", err
	}

	programID, err := c.programID(ctx)
	if err != nil {
		return "", err
	}

	host, err := parseAddress(room.HostWallet)
	if err != nil {
		return "", err
	}

	roomAddress, err := parseAddress(room.ContractAddress)
	if err != nil {
		return "", err
	}

	winners, err := parseAddresses(winnerWallets)
	if err != nil {
		return "", err
	}

	instruction := chain.NewDeclareWinnersInstruction(programID, roomAddress, host, winners)
	return c.dispatch(ctx, room.RoomID, entity.ChainTransactionSettle, instruction)
}

func (c *settlementCoordinator) End(
	ctx context.Context, room *entity.Room, winnerWallets []string,
) (string, error) {
	if err := c.precheck(ctx, room); err != nil {
		return "", err
	}

	cfg := xcontext.Configs(ctx).Solana

	programID, err := c.programID(ctx)
	if err != nil {
		return "", err
	}

	host, err := parseAddress(room.HostWallet)
	if err != nil {
		return "", err
	}

	roomAddress, err := parseAddress(room.ContractAddress)
	if err != nil {
		return "", err
	}

	platform, err := parseAddress(cfg.PlatformWallet)
	if err != nil {
		return "", err
	}

	charity, err := parseAddress(room.CharityWallet)
	if err != nil {
		return "", err
	}

	winners, err := parseAddresses(winnerWallets)
	if err != nil {
		return "", err
	}

	instruction := chain.NewEndRoomInstruction(
		programID, roomAddress, host, platform, charity, winners)

	return c.dispatch(ctx, room.RoomID, entity.ChainTransactionSettle, instruction)
}

func (c *settlementCoordinator) CurrentSlot(ctx context.Context) (uint64, error) {
	return c.dispatcher.CurrentSlot(ctx)
}

// ToBaseUnits converts a human-entered token amount into base units using
// the registry decimals of the mint. Unknown mints fall back to the
// USDC-style default, so a native-asset room must be registered with its 9
// decimals or amounts come out a thousandfold short.
func (c *settlementCoordinator) ToBaseUnits(
	ctx context.Context, mint string, amount float64,
) uint64 {
	decimals := DefaultTokenDecimals
	if c.tokenRegistry != nil {
		if token, ok := c.tokenRegistry.Lookup(mint); ok {
			decimals = token.Decimals
		} else {
			xcontext.Logger(ctx).Warnf(
				"Mint %s is not registered, assuming %d decimals", mint, decimals)
		}
	}

	if amount <= 0 {
		return 0
	}

	return uint64(math.Round(amount * math.Pow10(decimals)))
}

// FromBaseUnits is the inverse conversion, used for display values.
func (c *settlementCoordinator) FromBaseUnits(
	ctx context.Context, mint string, amount uint64,
) float64 {
	decimals := DefaultTokenDecimals
	if c.tokenRegistry != nil {
		if token, ok := c.tokenRegistry.Lookup(mint); ok {
			decimals = token.Decimals
		}
	}

	return float64(amount) / math.Pow10(decimals)
}

func (c *settlementCoordinator) precheck(ctx context.Context, room *entity.Room) error {
	if xcontext.Configs(ctx).Solana.EmergencyPause {
		return errorx.New(errorx.EmergencyPause, "Chain operations are paused")
	}

	if c.tokenRegistry != nil && !c.tokenRegistry.IsApproved(room.FeeTokenMint) {
		return errorx.New(errorx.TokenNotApproved,
			"Token %s is not approved as a fee token", room.FeeTokenMint)
	}

	return nil
}

func (c *settlementCoordinator) dispatch(
	ctx context.Context,
	roomID string,
	kind entity.ChainTransactionKindType,
	instruction solana.Instruction,
) (string, error) {
	if _, loaded := c.inFlight.LoadOrStore(roomID, true); loaded {
		return "", errorx.New(errorx.Unavailable,
			"Another chain call of room %s is in flight", roomID)
	}
	defer c.inFlight.Delete(roomID)

	result := c.dispatcher.Dispatch(ctx, &chain.DispatchedTxRequest{
		RoomID:      roomID,
		Instruction: instruction,
	})

	if !result.Success {
		return "", dispatchErrorx(result.Err)
	}

	err := c.chainTxRepo.Create(ctx, &entity.ChainTransaction{
		TxHash: result.TxHash,
		RoomID: roomID,
		Kind:   kind,
		Status: entity.ChainTransactionSuccess,
	})
	if err != nil {
		// The chain call already landed, a missing audit row must not fail
		// the operation.
		xcontext.Logger(ctx).Errorf("Cannot record chain transaction %s: %v",
			result.TxHash, err)
	}

	return result.TxHash, nil
}

func (c *settlementCoordinator) programID(ctx context.Context) (solana.PublicKey, error) {
	return parseAddress(xcontext.Configs(ctx).Solana.ProgramID)
}

func (c *settlementCoordinator) explorerURL(ctx context.Context, txHash string) string {
	base := xcontext.Configs(ctx).Solana.ExplorerBaseURL
	if base == "" {
		return ""
	}

	return fmt.Sprintf("%s/tx/%s", base, txHash)
}

func parseAddress(s string) (solana.PublicKey, error) {
	key, err := solana.PublicKeyFromBase58(s)
	if err != nil {
		return solana.PublicKey{}, errorx.New(errorx.InvalidAddress,
			"Invalid address %q", s)
	}

	return key, nil
}

func parseAddresses(addresses []string) ([]solana.PublicKey, error) {
	keys := make([]solana.PublicKey, 0, len(addresses))
	for _, a := range addresses {
		key, err := parseAddress(a)
		if err != nil {
			return nil, err
		}

		keys = append(keys, key)
	}

	return keys, nil
}

// dispatchErrorx maps a dispatch failure onto the user-facing error kinds.
func dispatchErrorx(err chain.DispatchError) error {
	switch err {
	case chain.ErrWalletNotConnected:
		return errorx.New(errorx.WalletNotConnected, "No signing wallet is configured")
	case chain.ErrUserRejected:
		return errorx.New(errorx.UserRejected, "The wallet rejected the transaction")
	case chain.ErrChainRejected:
		return errorx.New(errorx.ChainRejected, "The program rejected the transaction")
	default:
		return errorx.New(errorx.Unavailable, "Chain is unavailable, please retry")
	}
}
