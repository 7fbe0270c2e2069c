package repository

import (
	"context"

	"github.com/fundraisely/backend/internal/entity"
	"github.com/fundraisely/backend/pkg/xcontext"
)

type RoomRepository interface {
	Create(ctx context.Context, room *entity.Room) error
	GetByRoomID(ctx context.Context, roomID string) (*entity.Room, error)
	Update(ctx context.Context, room *entity.Room) error
	GetByHostID(ctx context.Context, hostID string) ([]entity.Room, error)
}

type roomRepository struct{}

func NewRoomRepository() *roomRepository {
	return &roomRepository{}
}

func (r *roomRepository) Create(ctx context.Context, room *entity.Room) error {
	return xcontext.DB(ctx).Create(room).Error
}

func (r *roomRepository) GetByRoomID(ctx context.Context, roomID string) (*entity.Room, error) {
	result := entity.Room{}
	if err := xcontext.DB(ctx).Take(&result, "room_id=?", roomID).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *roomRepository) Update(ctx context.Context, room *entity.Room) error {
	return xcontext.DB(ctx).
		Model(&entity.Room{}).
		Where("room_id=?", room.RoomID).
		Select(
			"status", "player_count", "total_collected", "total_entry_fees",
			"total_extras_fees", "ended", "winners", "contract_address",
		).
		Updates(room).Error
}

func (r *roomRepository) GetByHostID(ctx context.Context, hostID string) ([]entity.Room, error) {
	result := []entity.Room{}
	err := xcontext.DB(ctx).
		Model(&entity.Room{}).
		Find(&result, "host_id=?", hostID).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}
