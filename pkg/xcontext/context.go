package xcontext

import (
	"context"
	"net/http"

	"github.com/fundraisely/backend/config"
	"github.com/fundraisely/backend/internal/model"
	"github.com/fundraisely/backend/pkg/authenticator"
	"github.com/fundraisely/backend/pkg/logger"

	"gorm.io/gorm"
)

type (
	configsKey     struct{}
	loggerKey      struct{}
	dbKey          struct{}
	httpRequestKey struct{}
	tokenEngineKey struct{}
	userIDKey      struct{}
	walletKey      struct{}
)

func WithConfigs(ctx context.Context, cfg config.Configs) context.Context {
	return context.WithValue(ctx, configsKey{}, cfg)
}

func Configs(ctx context.Context) config.Configs {
	cfg, ok := ctx.Value(configsKey{}).(config.Configs)
	if !ok {
		return config.Configs{}
	}

	return cfg
}

func WithLogger(ctx context.Context, l logger.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

func Logger(ctx context.Context) logger.Logger {
	l, ok := ctx.Value(loggerKey{}).(logger.Logger)
	if !ok {
		return logger.NewLogger(logger.INFO)
	}

	return l
}

func WithDB(ctx context.Context, db *gorm.DB) context.Context {
	return context.WithValue(ctx, dbKey{}, db)
}

func DB(ctx context.Context) *gorm.DB {
	db, ok := ctx.Value(dbKey{}).(*gorm.DB)
	if !ok {
		panic("no database in context")
	}

	return db
}

func WithHTTPRequest(ctx context.Context, r *http.Request) context.Context {
	return context.WithValue(ctx, httpRequestKey{}, r)
}

func HTTPRequest(ctx context.Context) *http.Request {
	r, ok := ctx.Value(httpRequestKey{}).(*http.Request)
	if !ok {
		return nil
	}

	return r
}

func WithTokenEngine(
	ctx context.Context, engine authenticator.TokenEngine[model.AccessToken],
) context.Context {
	return context.WithValue(ctx, tokenEngineKey{}, engine)
}

func TokenEngine(ctx context.Context) authenticator.TokenEngine[model.AccessToken] {
	engine, ok := ctx.Value(tokenEngineKey{}).(authenticator.TokenEngine[model.AccessToken])
	if !ok {
		return nil
	}

	return engine
}

func WithRequestUserID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, userIDKey{}, id)
}

func RequestUserID(ctx context.Context) string {
	id, ok := ctx.Value(userIDKey{}).(string)
	if !ok {
		return ""
	}

	return id
}

func WithRequestWallet(ctx context.Context, wallet string) context.Context {
	return context.WithValue(ctx, walletKey{}, wallet)
}

func RequestWallet(ctx context.Context) string {
	wallet, ok := ctx.Value(walletKey{}).(string)
	if !ok {
		return ""
	}

	return wallet
}
