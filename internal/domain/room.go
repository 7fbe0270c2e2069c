package domain

import (
	"context"
	"errors"

	"github.com/fundraisely/backend/internal/domain/fee"
	"github.com/fundraisely/backend/internal/domain/room"
	"github.com/fundraisely/backend/internal/entity"
	"github.com/fundraisely/backend/internal/model"
	"github.com/fundraisely/backend/internal/repository"
	"github.com/fundraisely/backend/pkg/enum"
	"github.com/fundraisely/backend/pkg/errorx"
	"github.com/fundraisely/backend/pkg/xcontext"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RoomDomain interface {
	Create(ctx context.Context, req *model.CreateRoomRequest) (*model.CreateRoomResponse, error)
	Join(ctx context.Context, req *model.JoinRoomRequest) (*model.JoinRoomResponse, error)
	RecordPayment(ctx context.Context, req *model.RecordPaymentRequest) (*model.RecordPaymentResponse, error)
	Start(ctx context.Context, req *model.StartRoomRequest) (*model.StartRoomResponse, error)
	DeclareWinners(ctx context.Context, req *model.DeclareWinnersRequest) (*model.DeclareWinnersResponse, error)
	End(ctx context.Context, req *model.EndRoomRequest) (*model.EndRoomResponse, error)
	Recover(ctx context.Context, req *model.RecoverRoomRequest) (*model.RecoverRoomResponse, error)
	Get(ctx context.Context, req *model.GetRoomRequest) (*model.GetRoomResponse, error)
	Reconciliation(ctx context.Context, req *model.ReconciliationRequest) (*model.ReconciliationResponse, error)
	FeePreview(ctx context.Context, req *model.FeePreviewRequest) (*model.FeePreviewResponse, error)
}

type roomDomain struct {
	roomRepo     repository.RoomRepository
	paymentRepo  repository.PaymentRepository
	questionRepo repository.QuestionRepository
	settlement   SettlementCoordinator
}

func NewRoomDomain(
	roomRepo repository.RoomRepository,
	paymentRepo repository.PaymentRepository,
	questionRepo repository.QuestionRepository,
	settlement SettlementCoordinator,
) *roomDomain {
	return &roomDomain{
		roomRepo:     roomRepo,
		paymentRepo:  paymentRepo,
		questionRepo: questionRepo,
		settlement:   settlement,
	}
}

func (d *roomDomain) Create(
	ctx context.Context, req *model.CreateRoomRequest,
) (*model.CreateRoomResponse, error) {
	hostID := xcontext.RequestUserID(ctx)
	if hostID == "" {
		return nil, errorx.New(errorx.Unauthenticated, "You need to sign in first")
	}

	if req.CharityWallet == "" {
		return nil, errorx.New(errorx.BadRequest, "Charity wallet is required")
	}

	structure, err := fee.Validate(
		fee.ToBasisPoints(req.HostFeePct), fee.ToBasisPoints(req.PrizePoolPct))
	if err != nil {
		return nil, err
	}

	err = fee.ValidatePrizeDistribution(
		req.FirstPlacePct, req.SecondPlacePct, req.ThirdPlacePct)
	if err != nil {
		return nil, err
	}

	roomID := req.RoomID
	if roomID == "" {
		roomID = uuid.NewString()
	}

	currentSlot, err := d.settlement.CurrentSlot(ctx)
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot read the chain tip: %v", err)
		currentSlot = 0
	}

	expirationSlot := uint64(0)
	if req.ExpirationSlots > 0 {
		expirationSlot = currentSlot + req.ExpirationSlots
	}

	record := &entity.Room{
		Base:              entity.Base{ID: uuid.NewString()},
		RoomID:            roomID,
		HostID:            hostID,
		HostWallet:        xcontext.RequestWallet(ctx),
		CharityWallet:     req.CharityWallet,
		CharityMemo:       req.CharityMemo,
		FeeTokenMint:      req.FeeTokenMint,
		EntryFee:          d.settlement.ToBaseUnits(ctx, req.FeeTokenMint, req.EntryFee),
		PlatformFeeBps:    structure.PlatformBps,
		HostFeeBps:        structure.HostBps,
		PrizePoolBps:      structure.PrizePoolBps,
		CharityBps:        structure.CharityBps,
		PrizeMode:         entity.PrizeModePoolSplit,
		PrizeDistribution: prizeDistribution(req),
		Status:            entity.RoomStatusAwaitingFunding,
		MaxPlayers:        req.MaxPlayers,
		CreationSlot:      currentSlot,
		ExpirationSlot:    expirationSlot,
		TotalRounds:       req.TotalRounds,
		QuestionsPerRound: req.QuestionsPerRound,
	}

	if err := d.roomRepo.Create(ctx, record); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create room: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.createQuestions(ctx, roomID, req.Questions); err != nil {
		return nil, err
	}

	deploy, err := d.settlement.Deploy(ctx, record)
	if err != nil {
		// The room stays in awaiting_funding; the host retries through
		// Recover once the chain issue clears.
		return nil, err
	}

	record.ContractAddress = deploy.ContractAddress
	record.Status = entity.RoomStatusReady
	if err := d.roomRepo.Update(ctx, record); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update room after deploy: %v", err)
		return nil, errorx.Unknown
	}

	return &model.CreateRoomResponse{
		RoomID:          roomID,
		ContractAddress: deploy.ContractAddress,
		TxHash:          deploy.TxHash,
		ExplorerURL:     deploy.ExplorerURL,
		FeeStructure: model.FeeStructure{
			PlatformBps:  structure.PlatformBps,
			HostBps:      structure.HostBps,
			PrizePoolBps: structure.PrizePoolBps,
			CharityBps:   structure.CharityBps,
		},
	}, nil
}

func (d *roomDomain) createQuestions(
	ctx context.Context, roomID string, uploads []model.QuestionUpload,
) error {
	if len(uploads) == 0 {
		return nil
	}

	positions := map[int]int{}
	questions := make([]entity.QuizQuestion, 0, len(uploads))
	for _, q := range uploads {
		positions[q.Round]++
		questions = append(questions, entity.QuizQuestion{
			Base:      entity.Base{ID: uuid.NewString()},
			RoomID:    roomID,
			Round:     q.Round,
			Position:  positions[q.Round],
			Text:      q.Text,
			Options:   q.Options,
			TimeLimit: q.TimeLimit,
		})
	}

	if err := d.questionRepo.CreateBatch(ctx, questions); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create questions: %v", err)
		return errorx.Unknown
	}

	return nil
}

func (d *roomDomain) Join(
	ctx context.Context, req *model.JoinRoomRequest,
) (*model.JoinRoomResponse, error) {
	record, err := d.loadRoom(ctx, req.RoomID)
	if err != nil {
		return nil, err
	}

	method, err := enum.ToEnum[entity.PaymentMethodType](req.Method)
	if err != nil {
		return nil, errorx.New(errorx.BadRequest, "Invalid payment method %s", req.Method)
	}

	// A player who already joined gets the recorded result back instead of
	// a second seat, so the client can retry this request safely.
	previous, err := d.paymentRepo.GetByRoomAndPlayer(ctx, record.RoomID, req.PlayerID)
	if err == nil {
		return &model.JoinRoomResponse{
			Success:     true,
			TxHash:      previous.TxHash,
			PlayerCount: record.PlayerCount,
		}, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		xcontext.Logger(ctx).Errorf("Cannot load player entry: %v", err)
		return nil, errorx.Unknown
	}

	if method == entity.PaymentMethodWeb3 && req.PlayerWallet == "" {
		return nil, errorx.New(errorx.WalletNotConnected,
			"A wallet is required for web3 joins")
	}

	currentSlot, err := d.settlement.CurrentSlot(ctx)
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot read the chain tip: %v", err)
		currentSlot = 0
	}

	entryAmount := record.EntryFee
	extrasAmount := d.settlement.ToBaseUnits(ctx, record.FeeTokenMint, req.ExtrasAmount)

	// Capacity, expiry and lifecycle checks run before any chain call so a
	// doomed join never submits a payment.
	tracker := room.NewTracker(record)
	if err := tracker.Join(currentSlot, entryAmount, extrasAmount); err != nil {
		return nil, err
	}

	entry := entity.PlayerEntry{
		Base:         entity.Base{ID: uuid.NewString()},
		RoomID:       record.RoomID,
		PlayerID:     req.PlayerID,
		Method:       method,
		EntryAmount:  entryAmount,
		ExtrasAmount: extrasAmount,
	}

	if method == entity.PaymentMethodWeb3 {
		// A chain failure here discards the in-memory counters with the
		// record; nothing has been persisted yet.
		result, err := d.settlement.Join(
			ctx, record, req.PlayerID, req.PlayerWallet, req.ExtrasAmount)
		if err != nil {
			return nil, err
		}

		entry.PlayerWallet = req.PlayerWallet
		entry.TxHash = result.TxHash
		entry.JoinSlot = currentSlot
		entry.EntryPaid = true
	}
	// Cash and revolut entries are marked paid when the host records the
	// money, not at join time.

	if err := d.paymentRepo.Upsert(ctx, &entry); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot record player entry: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.roomRepo.Update(ctx, record); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update room: %v", err)
		return nil, errorx.Unknown
	}

	return &model.JoinRoomResponse{
		Success:     true,
		TxHash:      entry.TxHash,
		PlayerCount: record.PlayerCount,
	}, nil
}

func (d *roomDomain) RecordPayment(
	ctx context.Context, req *model.RecordPaymentRequest,
) (*model.RecordPaymentResponse, error) {
	record, err := d.loadHostedRoom(ctx, req.RoomID)
	if err != nil {
		return nil, err
	}

	method, err := enum.ToEnum[entity.PaymentMethodType](req.Method)
	if err != nil {
		return nil, errorx.New(errorx.BadRequest, "Invalid payment method %s", req.Method)
	}

	var extras entity.Array[entity.ExtraPayment]
	var extrasAmount uint64
	for _, e := range req.Extras {
		extras = append(extras, entity.ExtraPayment{
			Key:    e.Key,
			Method: e.Method,
			Amount: e.Amount,
		})
		extrasAmount += d.settlement.ToBaseUnits(ctx, record.FeeTokenMint, e.Amount)
	}

	previous, err := d.paymentRepo.GetByRoomAndPlayer(ctx, record.RoomID, req.PlayerID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		xcontext.Logger(ctx).Errorf("Cannot load player entry: %v", err)
		return nil, errorx.Unknown
	}

	entry := entity.PlayerEntry{
		Base:         entity.Base{ID: uuid.NewString()},
		RoomID:       record.RoomID,
		PlayerID:     req.PlayerID,
		Method:       method,
		EntryPaid:    req.EntryPaid,
		EntryAmount:  record.EntryFee,
		Extras:       extras,
		ExtrasAmount: extrasAmount,
	}

	tracker := room.NewTracker(record)
	if previous == nil {
		if err := tracker.Join(0, entry.EntryAmount, extrasAmount); err != nil {
			return nil, err
		}
	} else {
		entry.Base = previous.Base
		entry.PlayerWallet = previous.PlayerWallet
		entry.TxHash = previous.TxHash
		entry.JoinSlot = previous.JoinSlot

		// A request without extras amends the entry flag only.
		if len(req.Extras) == 0 {
			entry.Extras = previous.Extras
			entry.ExtrasAmount = previous.ExtrasAmount
			extrasAmount = previous.ExtrasAmount
		}

		if extrasAmount > previous.ExtrasAmount {
			err := tracker.RecordExtras(extrasAmount - previous.ExtrasAmount)
			if err != nil {
				return nil, err
			}
		}
	}

	if err := d.paymentRepo.Upsert(ctx, &entry); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot record payment: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.roomRepo.Update(ctx, record); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update room: %v", err)
		return nil, errorx.Unknown
	}

	return &model.RecordPaymentResponse{Success: true}, nil
}

func (d *roomDomain) Start(
	ctx context.Context, req *model.StartRoomRequest,
) (*model.StartRoomResponse, error) {
	record, err := d.loadHostedRoom(ctx, req.RoomID)
	if err != nil {
		return nil, err
	}

	if err := room.NewTracker(record).HostStart(); err != nil {
		return nil, err
	}

	if err := d.roomRepo.Update(ctx, record); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update room: %v", err)
		return nil, errorx.Unknown
	}

	return &model.StartRoomResponse{Success: true}, nil
}

func (d *roomDomain) DeclareWinners(
	ctx context.Context, req *model.DeclareWinnersRequest,
) (*model.DeclareWinnersResponse, error) {
	record, err := d.loadHostedRoom(ctx, req.RoomID)
	if err != nil {
		return nil, err
	}

	if err := room.NewTracker(record).DeclareWinners(req.Winners); err != nil {
		return nil, err
	}

	// Declaration on chain is best effort before settlement: a cash-only
	// room has no contract, and a winner who joined off-chain has no wallet
	// to declare.
	if record.ContractAddress != "" {
		wallets, err := d.winnerWallets(ctx, record.RoomID, req.Winners)
		if err != nil {
			xcontext.Logger(ctx).Warnf(
				"Skipped on-chain declaration of room %s: %v", record.RoomID, err)
		} else if _, err := d.settlement.DeclareWinners(ctx, record, wallets); err != nil {
			return nil, err
		}
	}

	if err := d.roomRepo.Update(ctx, record); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update room: %v", err)
		return nil, errorx.Unknown
	}

	return &model.DeclareWinnersResponse{Success: true}, nil
}

func (d *roomDomain) End(
	ctx context.Context, req *model.EndRoomRequest,
) (*model.EndRoomResponse, error) {
	record, err := d.loadRoom(ctx, req.RoomID)
	if err != nil {
		return nil, err
	}

	// Settlement is a host operation, except that anyone may end an
	// expired room to release the pot.
	if record.HostID != xcontext.RequestUserID(ctx) && !d.isExpired(ctx, record) {
		return nil, errorx.New(errorx.PermissionDenied, "Only the host can do this")
	}

	tracker := room.NewTracker(record)

	// Winners declared earlier take precedence over the ones in the
	// request.
	winners := []string(record.Winners)
	if len(winners) == 0 {
		if len(req.Winners) == 0 {
			return nil, errorx.New(errorx.BadRequest,
				"Cannot end the room without winners")
		}

		if err := tracker.DeclareWinners(req.Winners); err != nil {
			return nil, err
		}

		winners = req.Winners
	}

	// The on-chain pot only ever holds web3 entry money, and web3 players
	// always have a wallet on record. When a winner joined off-chain the
	// chain payout is skipped and the host settles that prize manually.
	txHash := ""
	if record.ContractAddress != "" {
		wallets, err := d.winnerWallets(ctx, record.RoomID, winners)
		if err != nil {
			xcontext.Logger(ctx).Warnf(
				"Skipped on-chain settlement of room %s: %v", record.RoomID, err)
		} else {
			txHash, err = d.settlement.End(ctx, record, wallets)
			if err != nil {
				return nil, err
			}
		}
	}

	if err := tracker.Settle(); err != nil {
		return nil, err
	}

	if err := d.roomRepo.Update(ctx, record); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update room: %v", err)
		return nil, errorx.Unknown
	}

	return &model.EndRoomResponse{Success: true, TxHash: txHash}, nil
}

// winnerWallets resolves player ids to the wallets they joined with. A
// winner without a wallet on record cannot receive an on-chain prize.
func (d *roomDomain) winnerWallets(
	ctx context.Context, roomID string, winners []string,
) ([]string, error) {
	wallets := make([]string, 0, len(winners))
	for _, playerID := range winners {
		entry, err := d.paymentRepo.GetByRoomAndPlayer(ctx, roomID, playerID)
		if err != nil {
			return nil, errorx.New(errorx.NotFound,
				"Winner %s has no payment record", playerID)
		}

		if entry.PlayerWallet == "" {
			return nil, errorx.New(errorx.InvalidAddress,
				"Winner %s has no wallet on record", playerID)
		}

		wallets = append(wallets, entry.PlayerWallet)
	}

	return wallets, nil
}

func (d *roomDomain) Recover(
	ctx context.Context, req *model.RecoverRoomRequest,
) (*model.RecoverRoomResponse, error) {
	record, err := d.loadHostedRoom(ctx, req.RoomID)
	if err != nil {
		return nil, err
	}

	if record.Ended {
		return nil, errorx.New(errorx.RoomClosed, "Room %s has already ended", record.RoomID)
	}

	if record.Status != entity.RoomStatusAwaitingFunding || record.ContractAddress != "" {
		// Nothing to recover.
		return &model.RecoverRoomResponse{Success: true}, nil
	}

	deploy, err := d.settlement.Deploy(ctx, record)
	if err != nil {
		return nil, err
	}

	record.ContractAddress = deploy.ContractAddress
	record.Status = entity.RoomStatusReady
	if err := d.roomRepo.Update(ctx, record); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update room after recovery: %v", err)
		return nil, errorx.Unknown
	}

	return &model.RecoverRoomResponse{Success: true}, nil
}

func (d *roomDomain) Get(
	ctx context.Context, req *model.GetRoomRequest,
) (*model.GetRoomResponse, error) {
	record, err := d.loadRoom(ctx, req.RoomID)
	if err != nil {
		return nil, err
	}

	return &model.GetRoomResponse{
		Room: model.Room{
			RoomID:       record.RoomID,
			HostID:       record.HostID,
			Status:       string(record.Status),
			PlayerCount:  record.PlayerCount,
			MaxPlayers:   record.MaxPlayers,
			EntryFee:     d.settlement.FromBaseUnits(ctx, record.FeeTokenMint, record.EntryFee),
			FeeTokenMint: record.FeeTokenMint,
			FeeStructure: model.FeeStructure{
				PlatformBps:  record.PlatformFeeBps,
				HostBps:      record.HostFeeBps,
				PrizePoolBps: record.PrizePoolBps,
				CharityBps:   record.CharityBps,
			},
			Ended:           record.Ended,
			Winners:         record.Winners,
			ContractAddress: record.ContractAddress,
			TotalCollected:  record.TotalCollected,
		},
	}, nil
}

func (d *roomDomain) Reconciliation(
	ctx context.Context, req *model.ReconciliationRequest,
) (*model.ReconciliationResponse, error) {
	if _, err := d.loadHostedRoom(ctx, req.RoomID); err != nil {
		return nil, err
	}

	entries, err := d.paymentRepo.GetByRoomID(ctx, req.RoomID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot load player entries: %v", err)
		return nil, errorx.Unknown
	}

	resp := Reconcile(entries)
	return &resp, nil
}

func (d *roomDomain) FeePreview(
	ctx context.Context, req *model.FeePreviewRequest,
) (*model.FeePreviewResponse, error) {
	structure, err := fee.Validate(req.HostFeeBps, req.PrizePoolBps)
	if err != nil {
		return nil, err
	}

	breakdown := fee.CalculateBreakdown(req.TotalEntryFees, req.TotalExtrasFees, structure)
	return &model.FeePreviewResponse{
		Platform: breakdown.Platform,
		Host:     breakdown.Host,
		Prizes:   breakdown.Prizes,
		Charity:  breakdown.Charity,
	}, nil
}

func (d *roomDomain) isExpired(ctx context.Context, record *entity.Room) bool {
	if record.ExpirationSlot == 0 {
		return false
	}

	currentSlot, err := d.settlement.CurrentSlot(ctx)
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot read current slot: %v", err)
		return false
	}

	return currentSlot > record.ExpirationSlot
}

func (d *roomDomain) loadRoom(ctx context.Context, roomID string) (*entity.Room, error) {
	record, err := d.roomRepo.GetByRoomID(ctx, roomID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.RoomNotFound, "Not found room %s", roomID)
		}

		xcontext.Logger(ctx).Errorf("Cannot load room: %v", err)
		return nil, errorx.Unknown
	}

	return record, nil
}

// loadHostedRoom loads a room and checks the requester hosts it.
func (d *roomDomain) loadHostedRoom(ctx context.Context, roomID string) (*entity.Room, error) {
	record, err := d.loadRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}

	if record.HostID != xcontext.RequestUserID(ctx) {
		return nil, errorx.New(errorx.PermissionDenied, "Only the host can do this")
	}

	return record, nil
}

func prizeDistribution(req *model.CreateRoomRequest) entity.Array[int] {
	distribution := entity.Array[int]{req.FirstPlacePct}
	if req.SecondPlacePct > 0 {
		distribution = append(distribution, req.SecondPlacePct)
	}
	if req.ThirdPlacePct > 0 {
		distribution = append(distribution, req.ThirdPlacePct)
	}

	return distribution
}
