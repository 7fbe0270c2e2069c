package solana

import (
	"crypto/sha256"
	"encoding/binary"

	"github.com/gagliardetto/solana-go"
)

// anchorDiscriminator is the 8-byte method selector of an anchor program
// instruction.
func anchorDiscriminator(name string) []byte {
	hash := sha256.Sum256([]byte("global:" + name))
	return hash[:8]
}

// Borsh primitives are little-endian; strings carry a u32 length prefix.

func appendU16(data []byte, v uint16) []byte {
	return binary.LittleEndian.AppendUint16(data, v)
}

func appendU64(data []byte, v uint64) []byte {
	return binary.LittleEndian.AppendUint64(data, v)
}

func appendString(data []byte, s string) []byte {
	data = binary.LittleEndian.AppendUint32(data, uint32(len(s)))
	return append(data, s...)
}

// InitPoolRoomArgs creates the room account with its locked-in fee split.
type InitPoolRoomArgs struct {
	RoomID            string
	EntryFee          uint64
	HostFeeBps        uint16
	PrizePoolBps      uint16
	PrizeDistribution [3]uint8
	MaxPlayers        uint16
	ExpirationSlots   uint64
	CharityMemo       string
}

func NewInitPoolRoomInstruction(
	programID, host, roomAddress, feeTokenMint, charityWallet solana.PublicKey,
	args InitPoolRoomArgs,
) solana.Instruction {
	data := anchorDiscriminator("init_pool_room")
	data = appendString(data, args.RoomID)
	data = appendU64(data, args.EntryFee)
	data = appendU16(data, args.HostFeeBps)
	data = appendU16(data, args.PrizePoolBps)
	data = append(data, args.PrizeDistribution[:]...)
	data = appendU16(data, args.MaxPlayers)
	data = appendU64(data, args.ExpirationSlots)
	data = appendString(data, args.CharityMemo)

	return solana.NewInstruction(
		programID,
		solana.AccountMetaSlice{
			solana.Meta(roomAddress).WRITE(),
			solana.Meta(host).WRITE().SIGNER(),
			solana.Meta(feeTokenMint),
			solana.Meta(charityWallet),
			solana.Meta(solana.SystemProgramID),
		},
		data,
	)
}

// JoinRoomArgs records a paying player. Amounts are token base units.
type JoinRoomArgs struct {
	PlayerID     string
	EntryAmount  uint64
	ExtrasAmount uint64
}

func NewJoinRoomInstruction(
	programID, roomAddress, player solana.PublicKey, args JoinRoomArgs,
) solana.Instruction {
	data := anchorDiscriminator("join_room")
	data = appendString(data, args.PlayerID)
	data = appendU64(data, args.EntryAmount)
	data = appendU64(data, args.ExtrasAmount)

	return solana.NewInstruction(
		programID,
		solana.AccountMetaSlice{
			solana.Meta(roomAddress).WRITE(),
			solana.Meta(player).WRITE().SIGNER(),
			solana.Meta(solana.TokenProgramID),
			solana.Meta(solana.SystemProgramID),
		},
		data,
	)
}

func NewDeclareWinnersInstruction(
	programID, roomAddress, host solana.PublicKey, winners []solana.PublicKey,
) solana.Instruction {
	data := anchorDiscriminator("declare_winners")
	data = binary.LittleEndian.AppendUint32(data, uint32(len(winners)))
	for _, w := range winners {
		data = append(data, w.Bytes()...)
	}

	return solana.NewInstruction(
		programID,
		solana.AccountMetaSlice{
			solana.Meta(roomAddress).WRITE(),
			solana.Meta(host).SIGNER(),
		},
		data,
	)
}

// NewEndRoomInstruction settles the room. The split itself is computed on
// chain from the locked-in bps; the winner accounts receive the prize pot.
func NewEndRoomInstruction(
	programID, roomAddress, host, platformWallet, charityWallet solana.PublicKey,
	winners []solana.PublicKey,
) solana.Instruction {
	data := anchorDiscriminator("end_room")

	accounts := solana.AccountMetaSlice{
		solana.Meta(roomAddress).WRITE(),
		solana.Meta(host).WRITE().SIGNER(),
		solana.Meta(platformWallet).WRITE(),
		solana.Meta(charityWallet).WRITE(),
		solana.Meta(solana.TokenProgramID),
	}
	for _, w := range winners {
		accounts = append(accounts, solana.Meta(w).WRITE())
	}

	return solana.NewInstruction(programID, accounts, data)
}
