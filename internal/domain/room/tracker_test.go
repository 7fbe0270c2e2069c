package room

import (
	"testing"

	"github.com/fundraisely/backend/internal/entity"
	"github.com/fundraisely/backend/pkg/errorx"

	"github.com/stretchr/testify/require"
)

func newReadyRoom() *entity.Room {
	return &entity.Room{
		RoomID:         "room-1",
		HostID:         "host-user",
		HostWallet:     "HostWa11et1111111111111111111111111111111111",
		Status:         entity.RoomStatusReady,
		EntryFee:       1_000_000,
		MaxPlayers:     20,
		ExpirationSlot: 500_000,
	}
}

func Test_Tracker_Join(t *testing.T) {
	room := newReadyRoom()
	tracker := NewTracker(room)

	require.NoError(t, tracker.Join(100, 1_000_000, 250_000))

	// First join activates the room.
	require.Equal(t, entity.RoomStatusActive, room.Status)
	require.Equal(t, 1, room.PlayerCount)
	require.Equal(t, uint64(1_000_000), room.TotalEntryFees)
	require.Equal(t, uint64(250_000), room.TotalExtrasFees)
	require.Equal(t, uint64(1_250_000), room.TotalCollected)

	// Second join leaves status alone but keeps counting.
	require.NoError(t, tracker.Join(101, 1_000_000, 0))
	require.Equal(t, entity.RoomStatusActive, room.Status)
	require.Equal(t, 2, room.PlayerCount)
	require.Equal(t, uint64(2_250_000), room.TotalCollected)
}

func Test_Tracker_Join_CapacityIsEnforced(t *testing.T) {
	room := newReadyRoom()
	room.MaxPlayers = 2
	tracker := NewTracker(room)

	require.NoError(t, tracker.Join(100, 1_000_000, 0))
	require.NoError(t, tracker.Join(101, 1_000_000, 0))

	err := tracker.Join(102, 1_000_000, 0)
	require.ErrorIs(t, err, errorx.New(errorx.RoomFull, ""))

	// The rejected join must not leak into any counter.
	require.Equal(t, 2, room.PlayerCount)
	require.Equal(t, uint64(2_000_000), room.TotalEntryFees)
	require.Equal(t, uint64(2_000_000), room.TotalCollected)
}

func Test_Tracker_Join_Rejections(t *testing.T) {
	testCases := []struct {
		name    string
		setup   func(r *entity.Room)
		slot    uint64
		wantErr error
	}{
		{
			name:    "ended room",
			setup:   func(r *entity.Room) { r.Status = entity.RoomStatusEnded; r.Ended = true },
			slot:    100,
			wantErr: errorx.New(errorx.RoomClosed, ""),
		},
		{
			name:    "room still awaiting funding",
			setup:   func(r *entity.Room) { r.Status = entity.RoomStatusAwaitingFunding },
			slot:    100,
			wantErr: errorx.New(errorx.RoomClosed, ""),
		},
		{
			name:    "past expiration slot",
			setup:   func(r *entity.Room) {},
			slot:    500_001,
			wantErr: errorx.New(errorx.RoomExpired, ""),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			room := newReadyRoom()
			tc.setup(room)

			err := NewTracker(room).Join(tc.slot, 1_000_000, 0)
			require.ErrorIs(t, err, tc.wantErr)
			require.Zero(t, room.PlayerCount)
		})
	}
}

func Test_Tracker_HostStart(t *testing.T) {
	room := newReadyRoom()
	tracker := NewTracker(room)

	require.NoError(t, tracker.HostStart())
	require.Equal(t, entity.RoomStatusActive, room.Status)

	// Starting twice is a no-op.
	require.NoError(t, tracker.HostStart())

	// Players can still join after the host opens the quiz.
	require.NoError(t, tracker.Join(100, 1_000_000, 0))
	require.Equal(t, 1, room.PlayerCount)

	unfunded := newReadyRoom()
	unfunded.Status = entity.RoomStatusPartiallyFunded
	err := NewTracker(unfunded).HostStart()
	require.ErrorIs(t, err, errorx.New(errorx.RoomNotActive, ""))
}

func Test_Tracker_DeclareWinners(t *testing.T) {
	activate := func() (*entity.Room, *Tracker) {
		room := newReadyRoom()
		tracker := NewTracker(room)
		require.NoError(t, tracker.HostStart())
		return room, tracker
	}

	t.Run("happy path", func(t *testing.T) {
		room, tracker := activate()
		require.NoError(t, tracker.DeclareWinners([]string{"alice", "bob", "carol"}))
		require.Equal(t, entity.Array[string]{"alice", "bob", "carol"}, room.Winners)
	})

	t.Run("winners are immutable", func(t *testing.T) {
		_, tracker := activate()
		require.NoError(t, tracker.DeclareWinners([]string{"alice"}))

		err := tracker.DeclareWinners([]string{"bob"})
		require.ErrorIs(t, err, errorx.New(errorx.AlreadyExists, ""))
	})

	t.Run("host cannot win", func(t *testing.T) {
		_, tracker := activate()
		err := tracker.DeclareWinners([]string{"alice", "host-user"})
		require.ErrorIs(t, err, errorx.New(errorx.PermissionDenied, ""))
	})

	t.Run("duplicates rejected", func(t *testing.T) {
		_, tracker := activate()
		err := tracker.DeclareWinners([]string{"alice", "alice"})
		require.ErrorIs(t, err, errorx.New(errorx.BadRequest, ""))
	})

	t.Run("one to three winners", func(t *testing.T) {
		_, tracker := activate()
		require.Error(t, tracker.DeclareWinners(nil))
		require.Error(t, tracker.DeclareWinners([]string{"a", "b", "c", "d"}))
	})

	t.Run("requires an active room", func(t *testing.T) {
		room := newReadyRoom()
		err := NewTracker(room).DeclareWinners([]string{"alice"})
		require.ErrorIs(t, err, errorx.New(errorx.RoomNotActive, ""))
	})
}

func Test_Tracker_Settle(t *testing.T) {
	room := newReadyRoom()
	tracker := NewTracker(room)
	require.NoError(t, tracker.HostStart())

	require.NoError(t, tracker.Settle())
	require.True(t, room.Ended)
	require.Equal(t, entity.RoomStatusEnded, room.Status)

	// Ended is monotonic; a second settle is rejected, not reapplied.
	err := tracker.Settle()
	require.ErrorIs(t, err, errorx.New(errorx.RoomClosed, ""))
	require.True(t, room.Ended)

	// No joins after settlement.
	err = tracker.Join(100, 1_000_000, 0)
	require.ErrorIs(t, err, errorx.New(errorx.RoomClosed, ""))
}
