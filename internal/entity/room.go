package entity

import (
	"github.com/fundraisely/backend/pkg/enum"
)

type RoomStatusType string

var (
	RoomStatusAwaitingFunding = enum.New(RoomStatusType("awaiting_funding"))
	RoomStatusPartiallyFunded = enum.New(RoomStatusType("partially_funded"))
	RoomStatusReady           = enum.New(RoomStatusType("ready"))
	RoomStatusActive          = enum.New(RoomStatusType("active"))
	RoomStatusEnded           = enum.New(RoomStatusType("ended"))
)

type PrizeModeType string

var (
	PrizeModePoolSplit  = enum.New(PrizeModeType("pool_split"))
	PrizeModeAssetBased = enum.New(PrizeModeType("asset_based"))
)

// Room is one fundraising event. The fee columns are locked in at creation
// and never updated afterwards; every other mutation goes through the
// lifecycle tracker.
type Room struct {
	Base

	RoomID string `gorm:"uniqueIndex"`
	HostID string

	HostWallet    string
	CharityWallet string
	CharityMemo   string
	FeeTokenMint  string

	// EntryFee is stored in token base units.
	EntryFee uint64

	PlatformFeeBps int
	HostFeeBps     int
	PrizePoolBps   int
	CharityBps     int

	PrizeMode         PrizeModeType
	PrizeDistribution Array[int]

	Status      RoomStatusType
	PlayerCount int
	MaxPlayers  int

	TotalCollected  uint64
	TotalEntryFees  uint64
	TotalExtrasFees uint64

	Ended   bool
	Winners Array[string]

	ContractAddress string
	CreationSlot    uint64
	ExpirationSlot  uint64

	TotalRounds       int
	QuestionsPerRound int
}
