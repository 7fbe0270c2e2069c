package testutil

import (
	"context"
	"time"

	"github.com/fundraisely/backend/config"
	"github.com/fundraisely/backend/internal/entity"
	"github.com/fundraisely/backend/internal/model"
	"github.com/fundraisely/backend/pkg/authenticator"
	"github.com/fundraisely/backend/pkg/logger"
	"github.com/fundraisely/backend/pkg/xcontext"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func MockContext() context.Context {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		panic(err)
	}

	cfg := config.Configs{
		Auth: config.AuthConfigs{
			TokenSecret: "secret",
			AccessToken: config.TokenConfigs{
				Name:       "access_token",
				Secret:     "secret",
				Expiration: time.Minute,
			},
		},
		Solana: config.SolanaConfigs{
			ProgramID:       "TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA",
			PlatformWallet:  "So11111111111111111111111111111111111111112",
			ExplorerBaseURL: "https://explorer.solana.com",
		},
		Game: config.GameConfigs{
			DefaultQuestionTime: 30 * time.Second,
			EngineChannelSize:   64,
			CatchUpBufferSize:   256,
			TickEvery:           time.Second,
			PublishMaxRetries:   2,
		},
	}

	ctx := context.Background()
	ctx = xcontext.WithConfigs(ctx, cfg)
	ctx = xcontext.WithLogger(ctx, logger.NewLogger(logger.SILENCE))
	ctx = xcontext.WithTokenEngine(ctx,
		authenticator.NewTokenEngine[model.AccessToken](cfg.Auth.AccessToken))
	ctx = xcontext.WithDB(ctx, db)

	if err := entity.MigrateTable(ctx); err != nil {
		panic(err)
	}

	return ctx
}

func MockContextWithUserID(userID string) context.Context {
	return xcontext.WithRequestUserID(MockContext(), userID)
}
