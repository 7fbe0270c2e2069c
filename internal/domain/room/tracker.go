package room

import (
	"github.com/fundraisely/backend/internal/entity"
	"github.com/fundraisely/backend/pkg/errorx"
)

// Tracker applies lifecycle transitions to a room in memory. Callers load
// the entity, run one transition and persist the result; the tracker itself
// never touches storage, which keeps every rule testable without a
// database.
type Tracker struct {
	room *entity.Room
}

func NewTracker(room *entity.Room) *Tracker {
	return &Tracker{room: room}
}

// Join admits one player. The first join of a ready room flips it to
// active; joins keep being accepted while active so late arrivals are not
// locked out mid-quiz.
func (t *Tracker) Join(currentSlot uint64, entryAmount, extrasAmount uint64) error {
	if t.room.Ended || t.room.Status == entity.RoomStatusEnded {
		return errorx.New(errorx.RoomClosed, "Room %s has already ended", t.room.RoomID)
	}

	if t.room.Status != entity.RoomStatusReady && t.room.Status != entity.RoomStatusActive {
		return errorx.New(errorx.RoomClosed, "Room %s is not open for players", t.room.RoomID)
	}

	if t.room.ExpirationSlot != 0 && currentSlot > t.room.ExpirationSlot {
		return errorx.New(errorx.RoomExpired, "Room %s expired at slot %d",
			t.room.RoomID, t.room.ExpirationSlot)
	}

	if t.room.MaxPlayers > 0 && t.room.PlayerCount >= t.room.MaxPlayers {
		return errorx.New(errorx.RoomFull, "Room %s is full (%d players)",
			t.room.RoomID, t.room.MaxPlayers)
	}

	if t.room.Status == entity.RoomStatusReady {
		t.room.Status = entity.RoomStatusActive
	}

	t.room.PlayerCount++
	t.room.TotalEntryFees += entryAmount
	t.room.TotalExtrasFees += extrasAmount
	t.room.TotalCollected += entryAmount + extrasAmount

	return nil
}

// RecordExtras adds to the extras counters for a player who already joined.
func (t *Tracker) RecordExtras(amount uint64) error {
	if t.room.Ended {
		return errorx.New(errorx.RoomClosed, "Room %s has already ended", t.room.RoomID)
	}

	t.room.TotalExtrasFees += amount
	t.room.TotalCollected += amount

	return nil
}

// HostStart moves a ready room to active without admitting anyone. The
// host can open the quiz before the first player arrives; joins stay open.
func (t *Tracker) HostStart() error {
	if t.room.Status == entity.RoomStatusActive {
		return nil
	}

	if t.room.Status != entity.RoomStatusReady {
		return errorx.New(errorx.RoomNotActive,
			"Room %s cannot start from status %s", t.room.RoomID, t.room.Status)
	}

	t.room.Status = entity.RoomStatusActive
	return nil
}

// DeclareWinners records the final standings. Winners are set exactly once,
// on an active room, and the host can never place.
func (t *Tracker) DeclareWinners(winners []string) error {
	if t.room.Ended || t.room.Status == entity.RoomStatusEnded {
		return errorx.New(errorx.RoomClosed, "Room %s has already ended", t.room.RoomID)
	}

	if t.room.Status != entity.RoomStatusActive {
		return errorx.New(errorx.RoomNotActive,
			"Winners require an active room, got %s", t.room.Status)
	}

	if len(t.room.Winners) > 0 {
		return errorx.New(errorx.AlreadyExists,
			"Winners of room %s were already declared", t.room.RoomID)
	}

	if len(winners) < 1 || len(winners) > 3 {
		return errorx.New(errorx.BadRequest, "Expected 1 to 3 winners, got %d", len(winners))
	}

	seen := map[string]bool{}
	for _, w := range winners {
		if w == "" {
			return errorx.New(errorx.BadRequest, "Winner cannot be empty")
		}

		if w == t.room.HostID || w == t.room.HostWallet {
			return errorx.New(errorx.PermissionDenied, "Host cannot be declared a winner")
		}

		if seen[w] {
			return errorx.New(errorx.BadRequest, "Winner %s appears twice", w)
		}
		seen[w] = true
	}

	t.room.Winners = winners
	return nil
}

// Settle closes the room. The ended flag is monotonic: once set it never
// clears, and a second settle is rejected rather than applied twice.
func (t *Tracker) Settle() error {
	if t.room.Ended {
		return errorx.New(errorx.RoomClosed, "Room %s was already settled", t.room.RoomID)
	}

	if t.room.Status != entity.RoomStatusActive {
		return errorx.New(errorx.RoomNotActive,
			"Settlement requires an active room, got %s", t.room.Status)
	}

	t.room.Status = entity.RoomStatusEnded
	t.room.Ended = true

	return nil
}
