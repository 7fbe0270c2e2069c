package entity

import (
	"context"

	"github.com/fundraisely/backend/pkg/xcontext"
)

func MigrateTable(ctx context.Context) error {
	return xcontext.DB(ctx).AutoMigrate(
		&Room{},
		&PlayerEntry{},
		&ChainTransaction{},
		&QuizQuestion{},
	)
}
