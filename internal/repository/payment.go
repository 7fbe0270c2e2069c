package repository

import (
	"context"

	"github.com/fundraisely/backend/internal/entity"
	"github.com/fundraisely/backend/pkg/xcontext"

	"gorm.io/gorm/clause"
)

type PaymentRepository interface {
	Upsert(ctx context.Context, record *entity.PlayerEntry) error
	GetByRoomID(ctx context.Context, roomID string) ([]entity.PlayerEntry, error)
	GetByRoomAndPlayer(ctx context.Context, roomID, playerID string) (*entity.PlayerEntry, error)
}

type paymentRepository struct{}

func NewPaymentRepository() *paymentRepository {
	return &paymentRepository{}
}

func (r *paymentRepository) Upsert(ctx context.Context, record *entity.PlayerEntry) error {
	return xcontext.DB(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "room_id"}, {Name: "player_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"method", "entry_paid", "entry_amount", "extras_amount", "extras",
			"tx_hash", "join_slot",
		}),
	}).Create(record).Error
}

func (r *paymentRepository) GetByRoomID(
	ctx context.Context, roomID string,
) ([]entity.PlayerEntry, error) {
	result := []entity.PlayerEntry{}
	err := xcontext.DB(ctx).
		Model(&entity.PlayerEntry{}).
		Find(&result, "room_id=?", roomID).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *paymentRepository) GetByRoomAndPlayer(
	ctx context.Context, roomID, playerID string,
) (*entity.PlayerEntry, error) {
	result := entity.PlayerEntry{}
	err := xcontext.DB(ctx).
		Take(&result, "room_id=? AND player_id=?", roomID, playerID).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}
