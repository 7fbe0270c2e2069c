package repository

import (
	"context"

	"github.com/fundraisely/backend/internal/entity"
	"github.com/fundraisely/backend/pkg/xcontext"
)

type ChainTransactionRepository interface {
	Create(ctx context.Context, tx *entity.ChainTransaction) error
	UpdateStatus(
		ctx context.Context,
		txHash string,
		status entity.ChainTransactionStatusType,
		note string,
	) error
	GetByRoomID(ctx context.Context, roomID string) ([]entity.ChainTransaction, error)
}

type chainTransactionRepository struct{}

func NewChainTransactionRepository() *chainTransactionRepository {
	return &chainTransactionRepository{}
}

func (r *chainTransactionRepository) Create(
	ctx context.Context, tx *entity.ChainTransaction,
) error {
	return xcontext.DB(ctx).Create(tx).Error
}

func (r *chainTransactionRepository) UpdateStatus(
	ctx context.Context,
	txHash string,
	status entity.ChainTransactionStatusType,
	note string,
) error {
	return xcontext.DB(ctx).
		Model(&entity.ChainTransaction{}).
		Where("tx_hash=?", txHash).
		Updates(map[string]any{"status": status, "note": note}).Error
}

func (r *chainTransactionRepository) GetByRoomID(
	ctx context.Context, roomID string,
) ([]entity.ChainTransaction, error) {
	result := []entity.ChainTransaction{}
	err := xcontext.DB(ctx).
		Model(&entity.ChainTransaction{}).
		Find(&result, "room_id=?", roomID).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}
