package main

import (
	"context"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/fundraisely/backend/config"
	"github.com/fundraisely/backend/internal/domain"
	"github.com/fundraisely/backend/internal/domain/chain/solana"
	"github.com/fundraisely/backend/internal/domain/quizengine"
	"github.com/fundraisely/backend/internal/model"
	"github.com/fundraisely/backend/internal/repository"
	"github.com/fundraisely/backend/pkg/authenticator"
	"github.com/fundraisely/backend/pkg/logger"
	"github.com/fundraisely/backend/pkg/pubsub"
	"github.com/fundraisely/backend/pkg/xcontext"
	"github.com/fundraisely/backend/pkg/xredis"

	"github.com/bwmarrin/snowflake"
	"github.com/urfave/cli/v2"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

type srv struct {
	ctx context.Context
	app *cli.App

	configs *config.Configs

	roomRepo     repository.RoomRepository
	paymentRepo  repository.PaymentRepository
	questionRepo repository.QuestionRepository
	chainTxRepo  repository.ChainTransactionRepository

	tokenRegistry *config.TokenRegistry
	dispatcher    solana.Dispatcher
	settlement    domain.SettlementCoordinator

	roomDomain      domain.RoomDomain
	gameProxyDomain domain.GameProxyDomain

	redisClient  xredis.Client
	publisher    pubsub.Publisher
	subscriber   pubsub.Subscriber
	seqGenerator *snowflake.Node
	engineRouter *quizengine.Router

	server *http.Server
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}

	return fallback
}

func parseInt(value string, fallback int) int {
	n, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}

	return n
}

func parseDuration(value string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}

	return d
}

func (s *srv) loadConfig() {
	s.configs = &config.Configs{
		Env: getEnv("ENV", "local"),
		Database: config.DatabaseConfigs{
			Host:     getEnv("MYSQL_HOST", "localhost"),
			Port:     getEnv("MYSQL_PORT", "3306"),
			Database: getEnv("MYSQL_DATABASE", "fundraisely"),
			User:     getEnv("MYSQL_USER", "fundraisely"),
			Password: getEnv("MYSQL_PASSWORD", "fundraisely"),
		},
		ApiServer: config.ServerConfigs{
			Host: getEnv("API_HOST", "localhost"),
			Port: getEnv("API_PORT", "8080"),
		},
		GameServer: config.ServerConfigs{
			Host: getEnv("GAME_HOST", "localhost"),
			Port: getEnv("GAME_PORT", "8081"),
		},
		Auth: config.AuthConfigs{
			TokenSecret: getEnv("TOKEN_SECRET", "token_secret"),
			AccessToken: config.TokenConfigs{
				Name:   "access_token",
				Secret: getEnv("ACCESS_TOKEN_SECRET", "access_token_secret"),
				Expiration: parseDuration(
					os.Getenv("ACCESS_TOKEN_DURATION"), 24*time.Hour),
			},
		},
		Redis: config.RedisConfigs{
			Addr: getEnv("REDIS_ADDR", "localhost:6379"),
		},
		Solana: config.SolanaConfigs{
			RPCEndpoint:       getEnv("SOLANA_RPC_ENDPOINT", "https://api.devnet.solana.com"),
			ProgramID:         os.Getenv("SOLANA_PROGRAM_ID"),
			PlatformWallet:    os.Getenv("SOLANA_PLATFORM_WALLET"),
			CharityWallet:     os.Getenv("SOLANA_CHARITY_WALLET"),
			HostPrivateKey:    os.Getenv("SOLANA_HOST_PRIVATE_KEY"),
			ExplorerBaseURL:   getEnv("SOLANA_EXPLORER_BASE_URL", "https://explorer.solana.com"),
			TokenRegistryFile: getEnv("TOKEN_REGISTRY_FILE", "token_registry.toml"),
			EmergencyPause:    os.Getenv("EMERGENCY_PAUSE") == "true",
		},
		Game: config.GameConfigs{
			DefaultQuestionTime: parseDuration(
				os.Getenv("DEFAULT_QUESTION_TIME"), 30*time.Second),
			EngineChannelSize: parseInt(os.Getenv("ENGINE_CHANNEL_SIZE"), 64),
			CatchUpBufferSize: int64(parseInt(os.Getenv("CATCH_UP_BUFFER_SIZE"), 256)),
			TickEvery:         parseDuration(os.Getenv("TICK_EVERY"), time.Second),
			PublishMaxRetries: parseInt(os.Getenv("PUBLISH_MAX_RETRIES"), 2),
		},
	}

	s.ctx = xcontext.WithConfigs(s.ctx, *s.configs)
}

func (s *srv) loadLogger() {
	level := parseInt(os.Getenv("LOG_LEVEL"), logger.INFO)
	s.ctx = xcontext.WithLogger(s.ctx, logger.NewLogger(level))
}

func (s *srv) loadDatabase() {
	db, err := gorm.Open(mysql.Open(s.configs.Database.ConnectionString()), &gorm.Config{})
	if err != nil {
		panic(err)
	}

	s.ctx = xcontext.WithDB(s.ctx, db)
}

func (s *srv) loadAuth() {
	engine := authenticator.NewTokenEngine[model.AccessToken](s.configs.Auth.AccessToken)
	s.ctx = xcontext.WithTokenEngine(s.ctx, engine)
}

func (s *srv) loadRedis() {
	client, err := xredis.NewClient(s.ctx)
	if err != nil {
		panic(err)
	}

	s.redisClient = client
	s.publisher = pubsub.NewPublisher(client.Unwrap())
}

func (s *srv) loadRepos() {
	s.roomRepo = repository.NewRoomRepository()
	s.paymentRepo = repository.NewPaymentRepository()
	s.questionRepo = repository.NewQuestionRepository()
	s.chainTxRepo = repository.NewChainTransactionRepository()
}

func (s *srv) loadChain() {
	registry, err := config.LoadTokenRegistry(s.configs.Solana.TokenRegistryFile)
	if err != nil {
		panic(err)
	}

	dispatcher, err := solana.NewDispatcher(s.ctx)
	if err != nil {
		panic(err)
	}

	s.tokenRegistry = registry
	s.dispatcher = dispatcher
	s.settlement = domain.NewSettlementCoordinator(dispatcher, s.chainTxRepo, registry)
}

func (s *srv) loadDomains() {
	s.roomDomain = domain.NewRoomDomain(
		s.roomRepo, s.paymentRepo, s.questionRepo, s.settlement)
}

func (s *srv) loadGame() {
	node, err := snowflake.NewNode(int64(parseInt(os.Getenv("GAME_NODE_ID"), 1)))
	if err != nil {
		panic(err)
	}

	s.seqGenerator = node
	s.engineRouter = quizengine.NewRouter(
		s.roomRepo, s.questionRepo, s.publisher, s.redisClient, s.seqGenerator)
	s.gameProxyDomain = domain.NewGameProxyDomain(s.ctx, s.roomRepo, s.engineRouter)
}
