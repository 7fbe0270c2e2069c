package domain

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/fundraisely/backend/internal/domain/quizengine"
	"github.com/fundraisely/backend/internal/model"
	"github.com/fundraisely/backend/internal/repository"
	"github.com/fundraisely/backend/pkg/ws"
	"github.com/fundraisely/backend/pkg/xcontext"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// GameProxyDomain terminates the websocket of one client and bridges it to
// the room engine: inbound frames become actions, applied events stream
// back out.
type GameProxyDomain interface {
	ServeGameClient(w http.ResponseWriter, r *http.Request)
}

type gameProxyDomain struct {
	ctx          context.Context
	roomRepo     repository.RoomRepository
	engineRouter *quizengine.Router
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

func NewGameProxyDomain(
	ctx context.Context,
	roomRepo repository.RoomRepository,
	engineRouter *quizengine.Router,
) *gameProxyDomain {
	return &gameProxyDomain{
		ctx:          ctx,
		roomRepo:     roomRepo,
		engineRouter: engineRouter,
	}
}

func (d *gameProxyDomain) ServeGameClient(w http.ResponseWriter, r *http.Request) {
	ctx := xcontext.WithHTTPRequest(d.ctx, r)

	roomID := r.URL.Query().Get("room_id")
	if _, err := d.roomRepo.GetByRoomID(ctx, roomID); err != nil {
		http.Error(w, "Room is not valid", http.StatusBadRequest)
		return
	}

	userID := ""
	if engine := xcontext.TokenEngine(ctx); engine != nil {
		if token, err := engine.Verify(r.URL.Query().Get("token")); err == nil {
			userID = token.ID
		}
	}

	// Spectators get a generated id: they receive events but the engine
	// ignores their host actions.
	if userID == "" {
		userID = uuid.NewString()
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		http.Error(w, "Unable to connect server", http.StatusInternalServerError)
		return
	}

	hub := d.engineRouter.GetHub(ctx, roomID)
	eventC, err := hub.Register(userID)
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot register client %s: %v", userID, err)
		conn.Close()
		return
	}

	// The engine starts lazily: the first routed action claims the room,
	// or reaches the instance that already owns it.
	client := ws.NewClient(conn)
	go d.runReader(ctx, client, roomID, userID, hub)
	go d.runWriter(ctx, client, eventC)
}

func (d *gameProxyDomain) runReader(
	ctx context.Context, client *ws.Client, roomID, userID string, hub quizengine.Hub,
) {
	defer hub.Unregister(userID)

	for msg := range client.R {
		var req model.QuizActionRequest
		if err := json.Unmarshal(msg, &req); err != nil {
			xcontext.Logger(ctx).Debugf("Dropped malformed frame of %s: %v", userID, err)
			continue
		}

		// The socket identity wins over whatever the frame claims.
		req.RoomID = roomID
		req.UserID = userID

		if err := d.engineRouter.Route(ctx, req); err != nil {
			xcontext.Logger(ctx).Warnf("Cannot route action of %s: %v", userID, err)
		}
	}
}

func (d *gameProxyDomain) runWriter(
	ctx context.Context, client *ws.Client, eventC <-chan []byte,
) {
	for event := range eventC {
		if err := client.Write(event, false); err != nil {
			xcontext.Logger(ctx).Debugf("Cannot write to client: %v", err)
			return
		}
	}
}
