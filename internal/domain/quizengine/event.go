package quizengine

import (
	"context"

	"github.com/fundraisely/backend/internal/model"
	"github.com/fundraisely/backend/pkg/errorx"
	"github.com/fundraisely/backend/pkg/xcontext"

	"github.com/fatih/structs"
	"github.com/mitchellh/mapstructure"
)

// Event mutates the round progression of one room. Events originate from
// host actions or from the engine itself and are broadcast to every room
// subscriber after a successful apply.
type Event interface {
	Type() string
	Apply(ctx context.Context, p *Progress) error
}

// ParseEvent decodes an inbound message into a typed event.
func ParseEvent(req model.QuizActionRequest) (Event, error) {
	var event Event
	switch req.Type {
	case RoomConfigEvent{}.Type():
		event = &RoomConfigEvent{}
	case QuestionEvent{}.Type():
		event = &QuestionEvent{}
	case "round_end", "round_limit_reached":
		event = &RoundEndEvent{}
	case NextRoundStartingEvent{}.Type():
		event = &NextRoundStartingEvent{}
	case QuizEndEvent{}.Type():
		event = &QuizEndEvent{}
	default:
		return nil, errorx.New(errorx.BadRequest, "Invalid event type %s", req.Type)
	}

	if err := mapstructure.Decode(req.Value, event); err != nil {
		return nil, err
	}

	return event, nil
}

// FormatEvent wraps an applied event for broadcasting.
func FormatEvent(seq int64, roomID string, event Event) model.QuizEventResponse {
	return model.QuizEventResponse{
		Seq:    seq,
		RoomID: roomID,
		Type:   event.Type(),
		Value:  structs.Map(event),
	}
}

// RoomConfigEvent seeds the round totals when a client subscribes.
type RoomConfigEvent struct {
	TotalRounds       int `mapstructure:"total_rounds" structs:"total_rounds"`
	QuestionsPerRound int `mapstructure:"questions_per_round" structs:"questions_per_round"`
}

func (RoomConfigEvent) Type() string {
	return "room_config"
}

func (e *RoomConfigEvent) Apply(ctx context.Context, p *Progress) error {
	if p.Phase == PhaseComplete {
		return nil
	}

	p.TotalRounds = e.TotalRounds
	p.QuestionsPerRound = e.QuestionsPerRound
	return nil
}

// QuestionEvent delivers one question to the room.
type QuestionEvent struct {
	Text      string   `mapstructure:"text" structs:"text"`
	Options   []string `mapstructure:"options" structs:"options"`
	TimeLimit int      `mapstructure:"time_limit" structs:"time_limit"`
}

func (QuestionEvent) Type() string {
	return "question"
}

func (e *QuestionEvent) Apply(ctx context.Context, p *Progress) error {
	if p.Phase == PhaseComplete {
		return nil
	}

	timeLimit := e.TimeLimit
	if timeLimit <= 0 {
		timeLimit = DefaultQuestionTime
	}

	p.CurrentQuestion = &Question{Text: e.Text, Options: e.Options, TimeLimit: timeLimit}
	p.TimeLeft = &timeLimit
	p.StatusMessage = ""
	p.QuestionIndex++
	p.Phase = PhaseInQuestion
	p.Confidence = ConfidenceConfirmed

	// The last question of the round optimistically moves the room into
	// reviewing so the host gate opens even if round_end is delayed or
	// dropped. The round_end event later reconciles this to confirmed.
	if p.roundComplete() {
		p.Phase = PhaseReviewing
		p.Confidence = ConfidenceInferred
	}

	return nil
}

// RoundEndEvent is the authoritative end of a round. It also parses from
// the legacy round_limit_reached type.
type RoundEndEvent struct {
	Round int `mapstructure:"round" structs:"round"`
}

func (RoundEndEvent) Type() string {
	return "round_end"
}

func (e *RoundEndEvent) Apply(ctx context.Context, p *Progress) error {
	if p.Phase == PhaseComplete {
		return nil
	}

	if e.Round != 0 && e.Round != p.Round {
		xcontext.Logger(ctx).Warnf(
			"Round mismatch on round_end: local=%d, server=%d", p.Round, e.Round)
		p.Round = e.Round
	}

	// Idempotent if the question counter already inferred reviewing.
	p.Phase = PhaseReviewing
	p.Confidence = ConfidenceConfirmed
	return nil
}

// NextRoundStartingEvent resets the room for the next round.
type NextRoundStartingEvent struct {
	Round int `mapstructure:"round" structs:"round"`
}

func (NextRoundStartingEvent) Type() string {
	return "next_round_starting"
}

func (e *NextRoundStartingEvent) Apply(ctx context.Context, p *Progress) error {
	if p.Phase == PhaseComplete {
		return nil
	}

	// The counter reset applies whatever phase we were in, so a dropped
	// round_end cannot wedge the next round.
	p.QuestionIndex = 0
	p.CurrentQuestion = nil
	p.TimeLeft = nil
	p.StatusMessage = ""
	p.Phase = PhaseWaiting
	p.Confidence = ConfidenceConfirmed

	if e.Round != 0 {
		p.Round = e.Round
	} else {
		p.Round++
	}

	return nil
}

// QuizEndEvent is terminal. No event moves the room out of complete.
type QuizEndEvent struct {
	Message string `mapstructure:"message" structs:"message"`
}

func (QuizEndEvent) Type() string {
	return "quiz_end"
}

func (e *QuizEndEvent) Apply(ctx context.Context, p *Progress) error {
	message := e.Message
	if message == "" {
		message = "Quiz complete"
	}

	p.Phase = PhaseComplete
	p.Confidence = ConfidenceConfirmed
	p.TimeLeft = nil
	p.CurrentQuestion = nil
	p.StatusMessage = message
	return nil
}
