package quizengine

import (
	"context"
	"testing"
	"time"

	"github.com/fundraisely/backend/internal/entity"
	"github.com/fundraisely/backend/internal/model"
	"github.com/fundraisely/backend/internal/repository"
	"github.com/fundraisely/backend/pkg/pubsub"
	"github.com/fundraisely/backend/pkg/testutil"
	"github.com/fundraisely/backend/pkg/xredis"

	"github.com/bwmarrin/snowflake"
	"github.com/stretchr/testify/require"
)

func newTestRouter(
	t *testing.T, publisher pubsub.Publisher, redisClient xredis.Client,
) *Router {
	t.Helper()

	node, err := snowflake.NewNode(2)
	require.NoError(t, err)

	return NewRouter(
		repository.NewRoomRepository(),
		repository.NewQuestionRepository(),
		publisher,
		redisClient,
		node,
	)
}

func Test_Router_ClaimsAndStartsEngine(t *testing.T) {
	ctx := testutil.MockContext()

	room, err := testutil.SampleRoom(ctx, &entity.Room{
		RoomID: "local-room",
		HostID: "host-user",
		Status: entity.RoomStatusActive,
	})
	require.NoError(t, err)

	r := newTestRouter(t, &testutil.MockPublisher{}, &testutil.MockRedisClient{})

	err = r.Route(ctx, model.QuizActionRequest{
		RoomID: room.RoomID,
		UserID: "host-user",
		Type:   actionRequestRoomConfig,
	})
	require.NoError(t, err)

	_, ok := r.engines.Load(room.RoomID)
	require.True(t, ok)

	r.StopRoom(ctx, room.RoomID)
	_, ok = r.engines.Load(room.RoomID)
	require.False(t, ok)
}

func Test_Router_ForwardsActionsOfRemoteRooms(t *testing.T) {
	ctx := testutil.MockContext()

	published := []string{}
	publisher := &testutil.MockPublisher{
		PublishFunc: func(ctx context.Context, topic string, pack *pubsub.Pack) error {
			published = append(published, topic)
			return nil
		},
	}

	// Another instance already holds the claim.
	redisClient := &testutil.MockRedisClient{
		SetNXFunc: func(context.Context, string, string, time.Duration) (bool, error) {
			return false, nil
		},
		GetFunc: func(context.Context, string) (string, error) {
			return "another-instance", nil
		},
	}

	r := newTestRouter(t, publisher, redisClient)

	err := r.Route(ctx, model.QuizActionRequest{
		RoomID: "remote-room",
		UserID: "host-user",
		Type:   "question",
	})
	require.NoError(t, err)
	require.Equal(t, []string{model.ActionTopic}, published)

	// No local engine was started for a room owned elsewhere.
	_, ok := r.engines.Load("remote-room")
	require.False(t, ok)
}

func Test_Router_DropsActionPacksOfUnownedRooms(t *testing.T) {
	ctx := testutil.MockContext()
	r := newTestRouter(t, &testutil.MockPublisher{}, &testutil.MockRedisClient{})

	// Hearing our own forward back from the topic must not start an
	// engine, or forwarding would ping-pong between instances.
	r.HandleActionPack(ctx, model.ActionTopic, &pubsub.Pack{
		Key: []byte("remote-room"),
		Msg: []byte(`{"room_id":"remote-room","user_id":"host-user","type":"question"}`),
	}, time.Now())

	_, ok := r.engines.Load("remote-room")
	require.False(t, ok)
}
