package config

import (
	"fmt"
	"time"
)

type Configs struct {
	Env string

	Database   DatabaseConfigs
	ApiServer  ServerConfigs
	GameServer ServerConfigs
	Auth       AuthConfigs
	Redis      RedisConfigs
	Solana     SolanaConfigs
	Game       GameConfigs
}

type DatabaseConfigs struct {
	Host     string
	Port     string
	Database string
	User     string
	Password string
}

func (d *DatabaseConfigs) ConnectionString() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		d.User,
		d.Password,
		d.Host,
		d.Port,
		d.Database,
	)
}

type ServerConfigs struct {
	Host string
	Port string
	Cert string
	Key  string
}

func (s *ServerConfigs) Address() string {
	return fmt.Sprintf("%s:%s", s.Host, s.Port)
}

type AuthConfigs struct {
	TokenSecret string
	AccessToken TokenConfigs
}

type TokenConfigs struct {
	Name       string
	Secret     string
	Expiration time.Duration
}

type RedisConfigs struct {
	Addr string
}

type SolanaConfigs struct {
	RPCEndpoint    string
	ProgramID      string
	PlatformWallet string
	CharityWallet  string

	// HostPrivateKey is the base58 signing key of the host agent. Deploy,
	// join and settlement calls fail with WalletNotConnected when empty.
	HostPrivateKey string

	ExplorerBaseURL string

	// TokenRegistryFile points to the toml file of approved fee tokens.
	TokenRegistryFile string

	// EmergencyPause blocks every chain-facing operation before any RPC
	// call. Mirrors the on-chain global config flag.
	EmergencyPause bool
}

type GameConfigs struct {
	// DefaultQuestionTime is used when a question event carries no time
	// limit.
	DefaultQuestionTime time.Duration

	EngineChannelSize int
	CatchUpBufferSize int64
	TickEvery         time.Duration

	// PublishMaxRetries bounds re-publishing of a broadcast that failed to
	// reach the fan-out layer.
	PublishMaxRetries int
}
