package entity

// QuizQuestion is uploaded by the host together with the room config and
// delivered by the engine one at a time.
type QuizQuestion struct {
	Base

	RoomID string `gorm:"index:idx_quiz_questions_room_round_pos,unique"`
	Room   Room   `gorm:"foreignKey:RoomID;references:RoomID"`

	Round    int `gorm:"index:idx_quiz_questions_room_round_pos,unique"`
	Position int `gorm:"index:idx_quiz_questions_room_round_pos,unique"`

	Text    string
	Options Array[string]

	// TimeLimit in seconds; 0 falls back to the configured default.
	TimeLimit int
}
