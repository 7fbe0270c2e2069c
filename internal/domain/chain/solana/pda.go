package solana

import (
	"github.com/gagliardetto/solana-go"
)

// DeriveRoomAddress computes the program-derived address of a room account.
// The seeds must match the on-chain program exactly or every instruction
// that follows lands on the wrong account.
func DeriveRoomAddress(
	programID, host solana.PublicKey, roomID string,
) (solana.PublicKey, error) {
	address, _, err := solana.FindProgramAddress(
		[][]byte{
			[]byte("room"),
			host.Bytes(),
			[]byte(roomID),
		},
		programID,
	)
	if err != nil {
		return solana.PublicKey{}, err
	}

	return address, nil
}
