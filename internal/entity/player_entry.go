package entity

import (
	"github.com/fundraisely/backend/pkg/enum"
)

type PaymentMethodType string

var (
	PaymentMethodCash    = enum.New(PaymentMethodType("cash"))
	PaymentMethodRevolut = enum.New(PaymentMethodType("revolut"))
	PaymentMethodWeb3    = enum.New(PaymentMethodType("web3"))
	PaymentMethodUnknown = enum.New(PaymentMethodType("unknown"))
)

type ExtraPayment struct {
	Key    string  `json:"key"`
	Method string  `json:"method"`
	Amount float64 `json:"amount"`
}

// PlayerEntry is the payment record of one player in one room. Web3 entries
// are written when the join transaction confirms; cash and revolut entries
// are recorded by the host. Records are only ever appended or amended.
type PlayerEntry struct {
	Base

	RoomID string `gorm:"index:idx_player_entries_room_player,unique"`
	Room   Room   `gorm:"foreignKey:RoomID;references:RoomID"`

	PlayerID     string `gorm:"index:idx_player_entries_room_player,unique"`
	PlayerWallet string

	Method PaymentMethodType

	EntryPaid   bool
	EntryAmount uint64

	ExtrasAmount uint64
	Extras       Array[ExtraPayment]

	TxHash   string
	JoinSlot uint64
}
