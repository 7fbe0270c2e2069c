package quizengine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/fundraisely/backend/internal/model"
	"github.com/fundraisely/backend/pkg/xcontext"
	"github.com/fundraisely/backend/pkg/xredis"

	"github.com/puzpuzpuz/xsync"
	"github.com/redis/go-redis/v9"
)

// Hub fans applied events out to the websocket clients of one room and
// keeps a bounded replay buffer so a reconnecting client can catch up from
// its last seen sequence number.
type Hub interface {
	Register(clientID string) (<-chan []byte, error)
	Unregister(clientID string) error
	Broadcast(ctx context.Context, event model.QuizEventResponse)
	Send(clientID string, msg []byte) error
	CatchUp(ctx context.Context, sinceSeq int64) ([]model.QuizEventResponse, error)
}

type hub struct {
	roomID      string
	redisClient xredis.Client
	bufferSize  int64

	clients *xsync.MapOf[string, chan []byte]
}

func NewHub(ctx context.Context, redisClient xredis.Client, roomID string) *hub {
	return &hub{
		roomID:      roomID,
		redisClient: redisClient,
		bufferSize:  xcontext.Configs(ctx).Game.CatchUpBufferSize,
		clients:     xsync.NewMapOf[chan []byte](),
	}
}

func eventBufferKey(roomID string) string {
	return fmt.Sprintf("quiz:events:%s", roomID)
}

func (h *hub) Register(clientID string) (<-chan []byte, error) {
	// Buffered so one slow reader cannot stall the engine goroutine.
	c := make(chan []byte, 1024)

	if _, existed := h.clients.LoadOrStore(clientID, c); existed {
		close(c)
		return nil, errors.New("the client has already registered")
	}

	return c, nil
}

func (h *hub) Unregister(clientID string) error {
	c, existed := h.clients.LoadAndDelete(clientID)
	if !existed {
		return errors.New("the client has not yet registered")
	}

	close(c)
	return nil
}

// Broadcast records the event in the replay buffer, then delivers it to
// every registered client. A client whose channel is full misses the frame
// and recovers through CatchUp.
func (h *hub) Broadcast(ctx context.Context, event model.QuizEventResponse) {
	b, err := json.Marshal(event)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot marshal quiz event: %v", err)
		return
	}

	err = h.redisClient.ZAdd(ctx, eventBufferKey(h.roomID), redis.Z{
		Score:  float64(event.Seq),
		Member: string(b),
	})
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot buffer quiz event: %v", err)
	} else if h.bufferSize > 0 {
		err := h.redisClient.ZRemRangeByRank(
			ctx, eventBufferKey(h.roomID), 0, -h.bufferSize-1)
		if err != nil {
			xcontext.Logger(ctx).Warnf("Cannot trim quiz event buffer: %v", err)
		}
	}

	h.clients.Range(func(clientID string, c chan []byte) bool {
		select {
		case c <- b:
		default:
			xcontext.Logger(ctx).Warnf(
				"Client %s of room %s is too slow, dropped seq %d",
				clientID, h.roomID, event.Seq)
		}

		return true
	})
}

func (h *hub) Send(clientID string, msg []byte) error {
	c, ok := h.clients.Load(clientID)
	if !ok {
		return errors.New("the client has not yet registered")
	}

	select {
	case c <- msg:
		return nil
	default:
		return errors.New("the client channel is full")
	}
}

// CatchUp returns every buffered event with a sequence number strictly
// greater than sinceSeq, oldest first.
func (h *hub) CatchUp(ctx context.Context, sinceSeq int64) ([]model.QuizEventResponse, error) {
	members, err := h.redisClient.ZRangeByScore(
		ctx, eventBufferKey(h.roomID),
		"("+strconv.FormatInt(sinceSeq, 10), "+inf",
	)
	if err != nil {
		return nil, err
	}

	events := make([]model.QuizEventResponse, 0, len(members))
	for _, m := range members {
		var event model.QuizEventResponse
		if err := json.Unmarshal([]byte(m), &event); err != nil {
			xcontext.Logger(ctx).Warnf("Corrupted event in buffer of %s: %v", h.roomID, err)
			continue
		}

		events = append(events, event)
	}

	return events, nil
}
