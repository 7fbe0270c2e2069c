package solana

import (
	"encoding/hex"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/require"
)

func Test_anchorDiscriminator(t *testing.T) {
	// Known selectors of the deployed program. If these change, the
	// program interface changed underneath us.
	testCases := map[string]string{
		"init_pool_room":  "3311c266487fbc25",
		"join_room":       "5fe8bc517c824e8b",
		"declare_winners": "2ae4d52758238f47",
		"end_room":        "666ab59b3d11284e",
	}

	for name, expected := range testCases {
		require.Equal(t, expected, hex.EncodeToString(anchorDiscriminator(name)), name)
	}
}

func Test_appendString(t *testing.T) {
	data := appendString(nil, "room-1")
	// u32 little-endian length prefix, then raw bytes.
	require.Equal(t, []byte{6, 0, 0, 0, 'r', 'o', 'o', 'm', '-', '1'}, data)
}

func Test_NewInitPoolRoomInstruction(t *testing.T) {
	programID := solana.MustPublicKeyFromBase58("11111111111111111111111111111111")
	host := solana.NewWallet().PublicKey()
	mint := solana.NewWallet().PublicKey()
	charity := solana.NewWallet().PublicKey()

	roomAddress, err := DeriveRoomAddress(programID, host, "room-1")
	require.NoError(t, err)

	ix := NewInitPoolRoomInstruction(programID, host, roomAddress, mint, charity,
		InitPoolRoomArgs{
			RoomID:            "room-1",
			EntryFee:          1_000_000,
			HostFeeBps:        300,
			PrizePoolBps:      3500,
			PrizeDistribution: [3]uint8{50, 30, 20},
			MaxPlayers:        20,
			ExpirationSlots:   216_000,
		})

	require.Equal(t, programID, ix.ProgramID())

	data, err := ix.Data()
	require.NoError(t, err)
	require.Equal(t, "3311c266487fbc25", hex.EncodeToString(data[:8]))

	accounts := ix.Accounts()
	require.Len(t, accounts, 5)
	require.Equal(t, roomAddress, accounts[0].PublicKey)
	require.True(t, accounts[0].IsWritable)
	require.Equal(t, host, accounts[1].PublicKey)
	require.True(t, accounts[1].IsSigner)
}

func Test_DeriveRoomAddress_IsDeterministic(t *testing.T) {
	programID := solana.NewWallet().PublicKey()
	host := solana.NewWallet().PublicKey()

	a, err := DeriveRoomAddress(programID, host, "room-1")
	require.NoError(t, err)
	b, err := DeriveRoomAddress(programID, host, "room-1")
	require.NoError(t, err)
	require.Equal(t, a, b)

	other, err := DeriveRoomAddress(programID, host, "room-2")
	require.NoError(t, err)
	require.NotEqual(t, a, other)
}
