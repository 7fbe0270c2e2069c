package quizengine

import (
	"testing"

	"github.com/fundraisely/backend/internal/model"
	"github.com/fundraisely/backend/pkg/errorx"
	"github.com/fundraisely/backend/pkg/testutil"

	"github.com/stretchr/testify/require"
)

func Test_ParseEvent(t *testing.T) {
	testCases := []struct {
		name     string
		req      model.QuizActionRequest
		expected Event
		wantErr  error
	}{
		{
			name: "question",
			req: model.QuizActionRequest{
				Type: "question",
				Value: map[string]any{
					"text":       "Which planet is largest?",
					"options":    []string{"Mars", "Jupiter"},
					"time_limit": 20,
				},
			},
			expected: &QuestionEvent{
				Text:      "Which planet is largest?",
				Options:   []string{"Mars", "Jupiter"},
				TimeLimit: 20,
			},
		},
		{
			name:     "round_end",
			req:      model.QuizActionRequest{Type: "round_end", Value: map[string]any{"round": 2}},
			expected: &RoundEndEvent{Round: 2},
		},
		{
			name: "round_limit_reached aliases round_end",
			req: model.QuizActionRequest{
				Type:  "round_limit_reached",
				Value: map[string]any{"round": 1},
			},
			expected: &RoundEndEvent{Round: 1},
		},
		{
			name:     "next_round_starting",
			req:      model.QuizActionRequest{Type: "next_round_starting", Value: map[string]any{"round": 3}},
			expected: &NextRoundStartingEvent{Round: 3},
		},
		{
			name: "room_config",
			req: model.QuizActionRequest{
				Type:  "room_config",
				Value: map[string]any{"total_rounds": 4, "questions_per_round": 5},
			},
			expected: &RoomConfigEvent{TotalRounds: 4, QuestionsPerRound: 5},
		},
		{
			name:     "quiz_end",
			req:      model.QuizActionRequest{Type: "quiz_end"},
			expected: &QuizEndEvent{},
		},
		{
			name: "quiz_end with message",
			req: model.QuizActionRequest{
				Type:  "quiz_end",
				Value: map[string]any{"message": "Thanks for playing!"},
			},
			expected: &QuizEndEvent{Message: "Thanks for playing!"},
		},
		{
			name:    "unknown type",
			req:     model.QuizActionRequest{Type: "teleport"},
			wantErr: errorx.New(errorx.BadRequest, ""),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			event, err := ParseEvent(tc.req)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}

			require.NoError(t, err)
			require.Equal(t, tc.expected, event)
		})
	}
}

func Test_QuizEnd_MessageReachesStatus(t *testing.T) {
	ctx := testutil.MockContext()

	p := NewProgress(1, 2)
	err := (&QuizEndEvent{Message: "Thanks for playing!"}).Apply(ctx, p)
	require.NoError(t, err)
	require.Equal(t, PhaseComplete, p.Phase)
	require.Equal(t, "Thanks for playing!", p.StatusMessage)

	// The default stands in when the payload carries no message.
	p = NewProgress(1, 2)
	err = (&QuizEndEvent{}).Apply(ctx, p)
	require.NoError(t, err)
	require.Equal(t, "Quiz complete", p.StatusMessage)
}

func Test_FormatEvent(t *testing.T) {
	resp := FormatEvent(42, "room-1", &RoundEndEvent{Round: 2})
	require.Equal(t, int64(42), resp.Seq)
	require.Equal(t, "room-1", resp.RoomID)
	require.Equal(t, "round_end", resp.Type)
	require.Equal(t, map[string]any{"round": 2}, resp.Value)
}

func Test_FormatEvent_RoundTrip(t *testing.T) {
	original := &QuestionEvent{Text: "roundtrip", TimeLimit: 15}
	resp := FormatEvent(1, "room-1", original)

	parsed, err := ParseEvent(model.QuizActionRequest{Type: resp.Type, Value: resp.Value})
	require.NoError(t, err)
	require.Equal(t, original, parsed)
}
