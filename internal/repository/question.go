package repository

import (
	"context"

	"github.com/fundraisely/backend/internal/entity"
	"github.com/fundraisely/backend/pkg/xcontext"
)

type QuestionRepository interface {
	CreateBatch(ctx context.Context, questions []entity.QuizQuestion) error
	Get(ctx context.Context, roomID string, round, position int) (*entity.QuizQuestion, error)
	CountByRound(ctx context.Context, roomID string, round int) (int64, error)
}

type questionRepository struct{}

func NewQuestionRepository() *questionRepository {
	return &questionRepository{}
}

func (r *questionRepository) CreateBatch(
	ctx context.Context, questions []entity.QuizQuestion,
) error {
	if len(questions) == 0 {
		return nil
	}

	return xcontext.DB(ctx).Create(&questions).Error
}

func (r *questionRepository) Get(
	ctx context.Context, roomID string, round, position int,
) (*entity.QuizQuestion, error) {
	result := entity.QuizQuestion{}
	err := xcontext.DB(ctx).
		Take(&result, "room_id=? AND round=? AND position=?", roomID, round, position).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *questionRepository) CountByRound(
	ctx context.Context, roomID string, round int,
) (int64, error) {
	var count int64
	err := xcontext.DB(ctx).
		Model(&entity.QuizQuestion{}).
		Where("room_id=? AND round=?", roomID, round).
		Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}
