package model

// Topics used between the quiz engine and the websocket proxy.
const (
	EventTopic  = "quiz-events"
	ActionTopic = "quiz-actions"
)

// QuizActionRequest is an inbound message from a client (host actions,
// catch-up requests).
type QuizActionRequest struct {
	RoomID string         `json:"room_id"`
	UserID string         `json:"user_id"`
	Type   string         `json:"type"`
	Value  map[string]any `json:"value"`
}

// QuizEventResponse is a broadcast message to room subscribers. Seq is a
// snowflake, strictly increasing per room, so clients can detect gaps and
// request a catch-up.
type QuizEventResponse struct {
	Seq    int64          `json:"seq"`
	RoomID string         `json:"room_id"`
	Type   string         `json:"type"`
	Value  map[string]any `json:"value"`
}

// RoundProgressView is broadcast as a "progress" event after every applied
// event and on each countdown tick while a question is live.
type RoundProgressView struct {
	Phase                string `json:"phase" structs:"phase"`
	Confidence           string `json:"confidence" structs:"confidence"`
	Round                int    `json:"round" structs:"round"`
	TotalRounds          int    `json:"total_rounds" structs:"total_rounds"`
	QuestionIndex        int    `json:"question_index" structs:"question_index"`
	QuestionsPerRound    int    `json:"questions_per_round" structs:"questions_per_round"`
	TimeLeft             *int   `json:"time_left" structs:"time_left"`
	StatusMessage        string `json:"status_message,omitempty" structs:"status_message"`
	CanStartNextQuestion bool   `json:"can_start_next_question" structs:"can_start_next_question"`
	CanStartNextRound    bool   `json:"can_start_next_round" structs:"can_start_next_round"`
}
