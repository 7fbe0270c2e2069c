package quizengine

import (
	"context"
	"encoding/json"
	"time"

	"github.com/fundraisely/backend/internal/entity"
	"github.com/fundraisely/backend/internal/model"
	"github.com/fundraisely/backend/internal/repository"
	"github.com/fundraisely/backend/pkg/errorx"
	"github.com/fundraisely/backend/pkg/pubsub"
	"github.com/fundraisely/backend/pkg/xcontext"

	"github.com/bwmarrin/snowflake"
	"github.com/fatih/structs"
	"github.com/mitchellh/mapstructure"
)

// Host action types accepted by the engine. Everything else on the action
// topic is parsed as a raw progression event.
const (
	actionStartNextQuestion = "start_next_question"
	actionStartNextRound    = "start_next_round"
	actionEndQuiz           = "end_quiz"
	actionRequestRoomConfig = "request_room_config"
	actionCatchUp           = "catch_up"
)

// Engine runs the progression of one active room on a single goroutine.
// All mutation funnels through the pending channel, so Progress never needs
// a lock.
type Engine struct {
	roomID string
	hostID string

	progress *Progress
	hub      Hub

	questionRepo repository.QuestionRepository
	publisher    pubsub.Publisher
	seqGenerator *snowflake.Node

	pending chan model.QuizActionRequest
	done    chan struct{}

	// onComplete fires once when the quiz reaches the terminal phase, so
	// the owner can tear the engine down.
	onComplete func()
}

func NewEngine(
	ctx context.Context,
	room *entity.Room,
	hub Hub,
	questionRepo repository.QuestionRepository,
	publisher pubsub.Publisher,
	seqGenerator *snowflake.Node,
	onComplete func(),
) (*Engine, error) {
	if room.Status != entity.RoomStatusActive {
		return nil, errorx.New(errorx.RoomNotActive,
			"Room %s is not active", room.RoomID)
	}

	engine := &Engine{
		roomID:       room.RoomID,
		hostID:       room.HostID,
		progress:     NewProgress(room.TotalRounds, room.QuestionsPerRound),
		hub:          hub,
		questionRepo: questionRepo,
		publisher:    publisher,
		seqGenerator: seqGenerator,
		pending:      make(chan model.QuizActionRequest, xcontext.Configs(ctx).Game.EngineChannelSize),
		done:         make(chan struct{}),
		onComplete:   onComplete,
	}

	go engine.run(ctx)
	return engine, nil
}

// Handle queues one inbound message. Dropping under overload is preferable
// to blocking the websocket reader; the sender retries manually.
func (e *Engine) Handle(ctx context.Context, req model.QuizActionRequest) {
	select {
	case e.pending <- req:
	default:
		xcontext.Logger(ctx).Warnf("Engine of room %s is overloaded, dropped %s",
			e.roomID, req.Type)
	}
}

func (e *Engine) Stop() {
	close(e.done)
}

func (e *Engine) run(ctx context.Context) {
	tickEvery := xcontext.Configs(ctx).Game.TickEvery
	if tickEvery <= 0 {
		tickEvery = time.Second
	}

	ticker := time.NewTicker(tickEvery)
	defer ticker.Stop()

	for {
		select {
		case <-e.done:
			return

		case <-ticker.C:
			e.tick(ctx)

		case req := <-e.pending:
			e.process(ctx, req)
		}
	}
}

func (e *Engine) process(ctx context.Context, req model.QuizActionRequest) {
	switch req.Type {
	case actionStartNextQuestion:
		e.startNextQuestion(ctx, req)

	case actionStartNextRound:
		e.startNextRound(ctx, req)

	case actionEndQuiz:
		if !e.isHost(ctx, req) || e.progress.Phase == PhaseComplete {
			return
		}

		e.emit(ctx, &QuizEndEvent{})

	case actionRequestRoomConfig:
		e.emit(ctx, &RoomConfigEvent{
			TotalRounds:       e.progress.TotalRounds,
			QuestionsPerRound: e.progress.QuestionsPerRound,
		})

	case actionCatchUp:
		e.catchUp(ctx, req)

	default:
		// Raw progression events, used when another producer drives the
		// room (imports, replays).
		event, err := ParseEvent(req)
		if err != nil {
			xcontext.Logger(ctx).Warnf("Cannot parse quiz event: %v", err)
			return
		}

		if !e.isHost(ctx, req) {
			return
		}

		e.emit(ctx, event)
	}
}

func (e *Engine) isHost(ctx context.Context, req model.QuizActionRequest) bool {
	if req.UserID == e.hostID {
		return true
	}

	xcontext.Logger(ctx).Debugf("User %s is not the host of room %s, ignored %s",
		req.UserID, e.roomID, req.Type)
	return false
}

func (e *Engine) startNextQuestion(ctx context.Context, req model.QuizActionRequest) {
	if !e.isHost(ctx, req) {
		return
	}

	// Gating violations are defensive no-ops, the client disabled the
	// button already.
	if !e.progress.CanStartNextQuestion() {
		xcontext.Logger(ctx).Debugf("Ignored start_next_question in phase %s",
			e.progress.Phase)
		return
	}

	position := e.progress.QuestionIndex + 1
	question, err := e.questionRepo.Get(ctx, e.roomID, e.progress.Round, position)
	if err != nil {
		xcontext.Logger(ctx).Warnf("No question %d of round %d in room %s: %v",
			position, e.progress.Round, e.roomID, err)
		return
	}

	e.emit(ctx, &QuestionEvent{
		Text:      question.Text,
		Options:   question.Options,
		TimeLimit: question.TimeLimit,
	})
}

func (e *Engine) startNextRound(ctx context.Context, req model.QuizActionRequest) {
	if !e.isHost(ctx, req) {
		return
	}

	if !e.progress.CanStartNextRound() {
		xcontext.Logger(ctx).Debugf("Ignored start_next_round in phase %s",
			e.progress.Phase)
		return
	}

	if e.progress.Round >= e.progress.TotalRounds {
		e.emit(ctx, &QuizEndEvent{})
		return
	}

	e.emit(ctx, &NextRoundStartingEvent{Round: e.progress.Round + 1})
}

func (e *Engine) catchUp(ctx context.Context, req model.QuizActionRequest) {
	var value struct {
		SinceSeq int64 `mapstructure:"since_seq"`
	}
	if err := mapstructure.Decode(req.Value, &value); err != nil {
		xcontext.Logger(ctx).Warnf("Invalid catch_up request: %v", err)
		return
	}

	events, err := e.hub.CatchUp(ctx, value.SinceSeq)
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot catch up room %s: %v", e.roomID, err)
		return
	}

	for _, event := range events {
		b, err := json.Marshal(event)
		if err != nil {
			continue
		}

		if err := e.hub.Send(req.UserID, b); err != nil {
			xcontext.Logger(ctx).Warnf("Cannot send catch-up to %s: %v", req.UserID, err)
			return
		}
	}
}

// tick advances the advisory countdown and pushes the updated view while a
// question is on screen. The tick never moves the phase.
func (e *Engine) tick(ctx context.Context) {
	if e.progress.Phase != PhaseInQuestion || e.progress.TimeLeft == nil {
		return
	}

	e.progress.Tick()
	e.broadcastProgress(ctx)
}

// emit applies the event, then broadcasts it with a fresh sequence number.
// Snowflakes are time-ordered, so Seq is strictly increasing per room.
func (e *Engine) emit(ctx context.Context, event Event) {
	if err := event.Apply(ctx, e.progress); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot apply quiz event: %v", err)
		return
	}

	resp := FormatEvent(e.seqGenerator.Generate().Int64(), e.roomID, event)
	e.hub.Broadcast(ctx, resp)
	e.publish(ctx, resp)

	// Clients render gating and the countdown from the view, so it follows
	// every applied event.
	e.broadcastProgress(ctx)

	if e.progress.Phase == PhaseComplete && e.onComplete != nil {
		e.onComplete()
		e.onComplete = nil
	}
}

// broadcastProgress fans the current view out to the room.
func (e *Engine) broadcastProgress(ctx context.Context) {
	resp := model.QuizEventResponse{
		Seq:    e.seqGenerator.Generate().Int64(),
		RoomID: e.roomID,
		Type:   "progress",
		Value:  structs.Map(e.progress.View()),
	}

	e.hub.Broadcast(ctx, resp)
	e.publish(ctx, resp)
}

// publish forwards the event to the cross-instance topic with a bounded
// retry. A frame that still fails is only a cross-instance loss; local
// subscribers already got it and remote ones recover via catch_up.
func (e *Engine) publish(ctx context.Context, resp model.QuizEventResponse) {
	b, err := json.Marshal(resp)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot marshal quiz event: %v", err)
		return
	}

	pack := &pubsub.Pack{Key: []byte(e.roomID), Msg: b}

	maxRetries := xcontext.Configs(ctx).Game.PublishMaxRetries
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if err := e.publisher.Publish(ctx, model.EventTopic, pack); err == nil {
			return
		} else if attempt == maxRetries {
			xcontext.Logger(ctx).Errorf("Dropped quiz event seq %d after %d attempts: %v",
				resp.Seq, attempt+1, err)
		}
	}
}
