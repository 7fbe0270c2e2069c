package quizengine

import (
	"github.com/fundraisely/backend/internal/model"
	"github.com/fundraisely/backend/pkg/enum"

	"github.com/pkg/math"
)

// DefaultQuestionTime is used when a question arrives without a time limit.
const DefaultQuestionTime = 30

type PhaseType string

var (
	PhaseWaiting    = enum.New(PhaseType("waiting"))
	PhaseInQuestion = enum.New(PhaseType("in_question"))
	PhaseReviewing  = enum.New(PhaseType("reviewing"))
	PhaseComplete   = enum.New(PhaseType("complete"))
)

// ConfidenceType tags whether the current phase came from an authoritative
// event or was inferred locally from the question counter. The reviewing
// phase can be entered optimistically when the counter fills the round, and
// is reconciled to confirmed when the round_end event arrives.
type ConfidenceType string

var (
	ConfidenceInferred  = enum.New(ConfidenceType("inferred"))
	ConfidenceConfirmed = enum.New(ConfidenceType("confirmed"))
)

// Question is the payload of the question currently on screen.
type Question struct {
	Text      string
	Options   []string
	TimeLimit int
}

// Progress is the round/question state machine of one room. It is mutated
// only by applying events and by the one-second tick; both run on the
// engine goroutine, so no locking here.
type Progress struct {
	Phase      PhaseType
	Confidence ConfidenceType

	Round       int
	TotalRounds int

	// QuestionIndex counts questions delivered in the current round.
	QuestionIndex     int
	QuestionsPerRound int

	CurrentQuestion *Question
	TimeLeft        *int

	StatusMessage string
}

func NewProgress(totalRounds, questionsPerRound int) *Progress {
	return &Progress{
		Phase:             PhaseWaiting,
		Confidence:        ConfidenceConfirmed,
		Round:             1,
		TotalRounds:       totalRounds,
		QuestionsPerRound: questionsPerRound,
	}
}

func (p *Progress) roundComplete() bool {
	return p.QuestionsPerRound > 0 && p.QuestionIndex >= p.QuestionsPerRound
}

// CanStartNextQuestion gates the host's start_next_question action.
func (p *Progress) CanStartNextQuestion() bool {
	if p.Phase == PhaseComplete {
		return false
	}

	return p.Phase == PhaseWaiting || (p.Phase == PhaseInQuestion && !p.roundComplete())
}

// CanStartNextRound gates the host's start_next_round action.
func (p *Progress) CanStartNextRound() bool {
	return p.Phase == PhaseReviewing
}

// Tick advances the advisory countdown by one second. It never moves the
// phase; only question and round events do that. Hitting zero just flips
// the status message.
func (p *Progress) Tick() {
	if p.Phase != PhaseInQuestion || p.TimeLeft == nil {
		return
	}

	left := math.Max(0, *p.TimeLeft-1)
	p.TimeLeft = &left

	if left == 0 {
		p.StatusMessage = "Time's up!"
	}
}

func (p *Progress) View() model.RoundProgressView {
	return model.RoundProgressView{
		Phase:                string(p.Phase),
		Confidence:           string(p.Confidence),
		Round:                p.Round,
		TotalRounds:          p.TotalRounds,
		QuestionIndex:        p.QuestionIndex,
		QuestionsPerRound:    p.QuestionsPerRound,
		TimeLeft:             p.TimeLeft,
		StatusMessage:        p.StatusMessage,
		CanStartNextQuestion: p.CanStartNextQuestion(),
		CanStartNextRound:    p.CanStartNextRound(),
	}
}
