package quizengine

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/fundraisely/backend/internal/model"
	"github.com/fundraisely/backend/internal/repository"
	"github.com/fundraisely/backend/pkg/errorx"
	"github.com/fundraisely/backend/pkg/pubsub"
	"github.com/fundraisely/backend/pkg/xcontext"
	"github.com/fundraisely/backend/pkg/xredis"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"github.com/puzpuzpuz/xsync"
)

// Router owns the engines and hubs of the rooms this instance runs and
// routes inbound actions to them. Engine ownership is claimed in redis, one
// instance per room: actions of a room owned elsewhere are forwarded over
// the action topic, and events applied elsewhere come back on the event
// topic for the local hub.
type Router struct {
	instanceID string

	roomRepo     repository.RoomRepository
	questionRepo repository.QuestionRepository
	publisher    pubsub.Publisher
	redisClient  xredis.Client
	seqGenerator *snowflake.Node

	engines *xsync.MapOf[string, *Engine]
	hubs    *xsync.MapOf[string, Hub]
}

func NewRouter(
	roomRepo repository.RoomRepository,
	questionRepo repository.QuestionRepository,
	publisher pubsub.Publisher,
	redisClient xredis.Client,
	seqGenerator *snowflake.Node,
) *Router {
	return &Router{
		instanceID:   uuid.NewString(),
		roomRepo:     roomRepo,
		questionRepo: questionRepo,
		publisher:    publisher,
		redisClient:  redisClient,
		seqGenerator: seqGenerator,
		engines:      xsync.NewMapOf[*Engine](),
		hubs:         xsync.NewMapOf[Hub](),
	}
}

func engineOwnerKey(roomID string) string {
	return fmt.Sprintf("quiz:engine_owner:%s", roomID)
}

// GetHub returns the fan-out hub of a room, creating it on first use. Hubs
// are per-instance; every instance with clients of the room has one.
func (r *Router) GetHub(ctx context.Context, roomID string) Hub {
	hub, _ := r.hubs.LoadOrStore(roomID, NewHub(ctx, r.redisClient, roomID))
	return hub
}

// GetEngine returns the running engine of a room, starting one on first
// use. The room must be active and this instance must own it.
func (r *Router) GetEngine(ctx context.Context, roomID string) (*Engine, error) {
	if engine, ok := r.engines.Load(roomID); ok {
		return engine, nil
	}

	room, err := r.roomRepo.GetByRoomID(ctx, roomID)
	if err != nil {
		xcontext.Logger(ctx).Debugf("Cannot load room %s: %v", roomID, err)
		return nil, errorx.New(errorx.RoomNotFound, "Not found room %s", roomID)
	}

	engine, err := NewEngine(
		ctx, room, r.GetHub(ctx, roomID), r.questionRepo, r.publisher, r.seqGenerator,
		func() { r.StopRoom(ctx, roomID) })
	if err != nil {
		return nil, err
	}

	if existing, loaded := r.engines.LoadOrStore(roomID, engine); loaded {
		engine.Stop()
		return existing, nil
	}

	return engine, nil
}

// Route hands one inbound message to its room engine, claiming the room if
// no instance owns it yet and forwarding when another instance does.
func (r *Router) Route(ctx context.Context, req model.QuizActionRequest) error {
	if engine, ok := r.engines.Load(req.RoomID); ok {
		engine.Handle(ctx, req)
		return nil
	}

	owned, err := r.claimRoom(ctx, req.RoomID)
	if err != nil {
		// With the owner registry unreachable, running locally beats
		// dropping the action.
		xcontext.Logger(ctx).Warnf("Cannot resolve the owner of room %s: %v",
			req.RoomID, err)
		owned = true
	}

	if !owned {
		return r.forward(ctx, req)
	}

	engine, err := r.GetEngine(ctx, req.RoomID)
	if err != nil {
		return err
	}

	engine.Handle(ctx, req)
	return nil
}

func (r *Router) claimRoom(ctx context.Context, roomID string) (bool, error) {
	claimed, err := r.redisClient.SetNX(ctx, engineOwnerKey(roomID), r.instanceID, 0)
	if err != nil {
		return false, err
	}

	if claimed {
		return true, nil
	}

	owner, err := r.redisClient.Get(ctx, engineOwnerKey(roomID))
	if err != nil {
		return false, err
	}

	return owner == r.instanceID, nil
}

// forward publishes the action for the instance running the room's engine.
func (r *Router) forward(ctx context.Context, req model.QuizActionRequest) error {
	b, err := json.Marshal(req)
	if err != nil {
		return err
	}

	return r.publisher.Publish(ctx, model.ActionTopic,
		&pubsub.Pack{Key: []byte(req.RoomID), Msg: b})
}

// HandleActionPack is the pubsub handler of the action topic. Only the
// instance already running the room's engine processes the pack; everyone
// else (including the forwarding instance, which hears its own publish)
// drops it.
func (r *Router) HandleActionPack(
	ctx context.Context, topic string, pack *pubsub.Pack, tt time.Time,
) {
	var req model.QuizActionRequest
	if err := json.Unmarshal(pack.Msg, &req); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot unmarshal action pack: %v", err)
		return
	}

	if engine, ok := r.engines.Load(req.RoomID); ok {
		engine.Handle(ctx, req)
	}
}

// HandleEventPack delivers events applied by an engine on another instance
// to the websocket clients connected here. A room whose engine runs locally
// is skipped, its hub already received the event directly.
func (r *Router) HandleEventPack(
	ctx context.Context, topic string, pack *pubsub.Pack, tt time.Time,
) {
	roomID := string(pack.Key)
	if _, ok := r.engines.Load(roomID); ok {
		return
	}

	hub, ok := r.hubs.Load(roomID)
	if !ok {
		return
	}

	var event model.QuizEventResponse
	if err := json.Unmarshal(pack.Msg, &event); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot unmarshal event pack: %v", err)
		return
	}

	hub.Broadcast(ctx, event)
}

// StopRoom shuts down a room's engine and releases the ownership claim.
// Fired by the engine itself when the quiz completes.
func (r *Router) StopRoom(ctx context.Context, roomID string) {
	if engine, ok := r.engines.LoadAndDelete(roomID); ok {
		engine.Stop()
	}

	if err := r.redisClient.Del(ctx, engineOwnerKey(roomID)); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot release room %s: %v", roomID, err)
	}
}
