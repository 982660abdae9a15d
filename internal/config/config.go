package config

import (
	"errors"
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/decibling/smart-contracts/internal/domain"
)

// BaseConfig holds base configuration
type BaseConfig struct {
	Debug     bool   `mapstructure:"debug"`
	SentryDSN string `mapstructure:"sentry_dsn"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
}

// RedisConfig holds redis configuration for the shared faucet cooldown store
type RedisConfig struct {
	Addr      string `mapstructure:"addr"`
	Password  string `mapstructure:"password"`
	DB        int    `mapstructure:"db"`
	KeyPrefix string `mapstructure:"key_prefix"`
}

// NATSConfig holds NATS JetStream configuration
type NATSConfig struct {
	URL            string        `mapstructure:"url"`
	StreamName     string        `mapstructure:"stream_name"`
	SubjectPrefix  string        `mapstructure:"subject_prefix"`
	MaxReconnects  int           `mapstructure:"max_reconnects"`
	ReconnectWait  time.Duration `mapstructure:"reconnect_wait"`
	ConnectionName string        `mapstructure:"connection_name"`
}

// ChainConfig holds JSON-RPC and signer configuration
type ChainConfig struct {
	RPCURL              string        `mapstructure:"rpc_url"`
	WebSocketURL        string        `mapstructure:"websocket_url"`
	ChainID             domain.Chain  `mapstructure:"chain_id"`
	PrivateKey          string        `mapstructure:"private_key"`
	Mnemonic            string        `mapstructure:"mnemonic"`
	DerivationPath      string        `mapstructure:"derivation_path"`
	Confirmations       uint64        `mapstructure:"confirmations"`
	GasLimitMultiplier  float64       `mapstructure:"gas_limit_multiplier"`
	MaxGasPriceGwei     int64         `mapstructure:"max_gas_price_gwei"`
	ReceiptPollInterval time.Duration `mapstructure:"receipt_poll_interval"`
	ReadRetryMaxElapsed time.Duration `mapstructure:"read_retry_max_elapsed"`
}

// ContractsConfig holds deployed contract addresses
type ContractsConfig struct {
	NFT     string `mapstructure:"nft"`
	Auction string `mapstructure:"auction"`
	Staking string `mapstructure:"staking"`
	Reserve string `mapstructure:"reserve"`
	Token   string `mapstructure:"token"`
	Faucet  string `mapstructure:"faucet"`
	// AuctionVersion selects the auction interface the CLI drives: 1 is the string-keyed DeciblingAuction
	AuctionVersion int `mapstructure:"auction_version"`
	// ABIDir optionally points at hardhat artifacts overriding the built-in ABIs
	ABIDir string `mapstructure:"abi_dir"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	ReadTimeout  int    `mapstructure:"read_timeout"`  // in seconds
	WriteTimeout int    `mapstructure:"write_timeout"` // in seconds
	IdleTimeout  int    `mapstructure:"idle_timeout"`  // in seconds
}

// WorkerConfig holds worker pool configuration
type WorkerConfig struct {
	WorkerPoolSize  int `mapstructure:"pool_size"`
	WorkerQueueSize int `mapstructure:"queue_size"`
}

// GrantConfig holds the faucet grant policy
type GrantConfig struct {
	WaitTime          time.Duration `mapstructure:"wait_time"`
	NativeAmountWei   string        `mapstructure:"native_amount_wei"`
	TokenAmountWei    string        `mapstructure:"token_amount_wei"`
	Store             string        `mapstructure:"store"` // memory, redis or postgres
	RequestsPerSecond float64       `mapstructure:"requests_per_second"`
	Burst             int           `mapstructure:"burst"`
}

// FaucetConfig holds configuration for the faucet service
type FaucetConfig struct {
	BaseConfig `mapstructure:",squash"`
	Server     ServerConfig    `mapstructure:"server"`
	Chain      ChainConfig     `mapstructure:"chain"`
	Contracts  ContractsConfig `mapstructure:"contracts"`
	Grant      GrantConfig     `mapstructure:"grant"`
	Worker     WorkerConfig    `mapstructure:"worker"`
	Database   DatabaseConfig  `mapstructure:"database"`
	Redis      RedisConfig     `mapstructure:"redis"`
}

// ListenerConfig holds configuration for the contract event listener
type ListenerConfig struct {
	BaseConfig `mapstructure:",squash"`
	Chain      ChainConfig     `mapstructure:"chain"`
	Contracts  ContractsConfig `mapstructure:"contracts"`
	Database   DatabaseConfig  `mapstructure:"database"`
	NATS       NATSConfig      `mapstructure:"nats"`
	StartBlock uint64          `mapstructure:"start_block"`
}

// CLIConfig holds configuration for the admin CLI
type CLIConfig struct {
	BaseConfig `mapstructure:",squash"`
	Chain      ChainConfig     `mapstructure:"chain"`
	Contracts  ContractsConfig `mapstructure:"contracts"`
	// AllowList is the address list the merkle proofs are derived from
	AllowList []string `mapstructure:"allow_list"`
}

// LoadFaucetConfig loads configuration for the faucet service
func LoadFaucetConfig(configFile string, envPath string) (*FaucetConfig, error) {
	v := configureViper("faucet", configFile, envPath)

	setChainDefaults(v)
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 10)
	v.SetDefault("server.write_timeout", 10)
	v.SetDefault("server.idle_timeout", 120)
	v.SetDefault("grant.wait_time", "5s")
	v.SetDefault("grant.native_amount_wei", "100000000000000")        // 0.0001 ether
	v.SetDefault("grant.token_amount_wei", "10000000000000000000000") // 10000 tokens
	v.SetDefault("grant.store", "memory")
	v.SetDefault("grant.requests_per_second", 5)
	v.SetDefault("grant.burst", 10)
	v.SetDefault("worker.pool_size", 4)
	v.SetDefault("worker.queue_size", 256)
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("redis.key_prefix", "decibling:faucet:")

	if err := readInConfig(v); err != nil {
		return nil, err
	}

	var cfg FaucetConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Chain.Validate(true); err != nil {
		return nil, err
	}
	if cfg.Contracts.Token == "" {
		return nil, errors.New("contracts.token is required")
	}
	switch cfg.Grant.Store {
	case "memory", "redis", "postgres":
	default:
		return nil, fmt.Errorf("grant.store %q is not one of memory, redis, postgres", cfg.Grant.Store)
	}

	return &cfg, nil
}

// LoadListenerConfig loads configuration for the contract event listener
func LoadListenerConfig(configFile string, envPath string) (*ListenerConfig, error) {
	v := configureViper("event-listener", configFile, envPath)

	setChainDefaults(v)
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("nats.max_reconnects", 10)
	v.SetDefault("nats.reconnect_wait", "2s")
	v.SetDefault("nats.stream_name", "DECIBLING_EVENTS")
	v.SetDefault("nats.subject_prefix", "decibling.events")

	if err := readInConfig(v); err != nil {
		return nil, err
	}

	var cfg ListenerConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Chain.Validate(false); err != nil {
		return nil, err
	}
	if cfg.Database.Host == "" {
		return nil, errors.New("database.host is required")
	}

	return &cfg, nil
}

// LoadCLIConfig loads configuration for the admin CLI
func LoadCLIConfig(configFile string, envPath string) (*CLIConfig, error) {
	v := configureViper("decibling", configFile, envPath)

	setChainDefaults(v)
	v.SetDefault("contracts.auction_version", 2)

	if err := readInConfig(v); err != nil {
		return nil, err
	}

	var cfg CLIConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// Validate checks the RPC endpoint and, when requireSigner is set, that exactly one key source is given
func (c *ChainConfig) Validate(requireSigner bool) error {
	if c.RPCURL == "" {
		return errors.New("chain.rpc_url is required")
	}
	if !domain.IsValidChain(c.ChainID) {
		return fmt.Errorf("chain.chain_id %q is not a valid eip155 chain", c.ChainID)
	}
	if c.PrivateKey != "" && c.Mnemonic != "" {
		return errors.New("only one of chain.private_key and chain.mnemonic may be set")
	}
	if requireSigner && c.PrivateKey == "" && c.Mnemonic == "" {
		return errors.New("one of chain.private_key or chain.mnemonic is required")
	}
	return nil
}

// MaxGasPrice returns the configured fee cap in wei, or nil when uncapped
func (c *ChainConfig) MaxGasPrice() *big.Int {
	if c.MaxGasPriceGwei <= 0 {
		return nil
	}
	return new(big.Int).Mul(big.NewInt(c.MaxGasPriceGwei), big.NewInt(1_000_000_000))
}

// Address parses a configured contract address; empty or malformed values are rejected
func (c *ContractsConfig) Address(name string, value string) (common.Address, error) {
	if !common.IsHexAddress(value) {
		return common.Address{}, fmt.Errorf("contracts.%s: %w: %q", name, domain.ErrInvalidAddress, value)
	}
	return common.HexToAddress(value), nil
}

// NativeAmount returns the native grant amount in wei
func (c *GrantConfig) NativeAmount() (*big.Int, error) {
	return parseWei("grant.native_amount_wei", c.NativeAmountWei)
}

// TokenAmount returns the token grant amount in base units
func (c *GrantConfig) TokenAmount() (*big.Int, error) {
	return parseWei("grant.token_amount_wei", c.TokenAmountWei)
}

func parseWei(key string, value string) (*big.Int, error) {
	amount, ok := new(big.Int).SetString(value, 10)
	if !ok || amount.Sign() < 0 {
		return nil, fmt.Errorf("%s: %q is not a non-negative integer", key, value)
	}
	return amount, nil
}

func setChainDefaults(v *viper.Viper) {
	v.SetDefault("chain.chain_id", string(domain.ChainArbitrumGoerli))
	v.SetDefault("chain.derivation_path", domain.DEFAULT_DERIVATION_PATH)
	v.SetDefault("chain.confirmations", 0)
	v.SetDefault("chain.gas_limit_multiplier", 1.2)
	v.SetDefault("chain.receipt_poll_interval", "1s")
	v.SetDefault("chain.read_retry_max_elapsed", "15s")
}

// readInConfig tolerates a missing config file so env-only deployments work
func readInConfig(v *viper.Viper) error {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read config: %w", err)
	}
	return nil
}

// configureViper returns a viper instance with the config file and environment variables set
func configureViper(service string, configFile string, envPath string) *viper.Viper {
	v := viper.New()

	loadEnv(envPath, service)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath(fmt.Sprintf("cmd/%s/", service))
		v.AddConfigPath("config/")
	}

	v.SetEnvPrefix("DECIBLING")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	bindAllEnvVars(v)
	return v
}

// bindAllEnvVars explicitly binds all possible environment variables
// This is required for viper to map env vars to config struct fields when no config file exists
func bindAllEnvVars(v *viper.Viper) {
	keys := []string{
		"debug",
		"sentry_dsn",
		// Chain
		"chain.rpc_url",
		"chain.websocket_url",
		"chain.chain_id",
		"chain.private_key",
		"chain.mnemonic",
		"chain.derivation_path",
		"chain.confirmations",
		"chain.gas_limit_multiplier",
		"chain.max_gas_price_gwei",
		"chain.receipt_poll_interval",
		"chain.read_retry_max_elapsed",
		// Contracts
		"contracts.nft",
		"contracts.auction",
		"contracts.staking",
		"contracts.reserve",
		"contracts.token",
		"contracts.faucet",
		"contracts.abi_dir",
		"contracts.auction_version",
		// Database
		"database.host",
		"database.port",
		"database.user",
		"database.password",
		"database.dbname",
		"database.sslmode",
		"database.max_open_conns",
		"database.max_idle_conns",
		"database.conn_max_lifetime",
		"database.conn_max_idle_time",
		// Redis
		"redis.addr",
		"redis.password",
		"redis.db",
		"redis.key_prefix",
		// NATS
		"nats.url",
		"nats.stream_name",
		"nats.subject_prefix",
		"nats.max_reconnects",
		"nats.reconnect_wait",
		"nats.connection_name",
		// Server
		"server.host",
		"server.port",
		"server.read_timeout",
		"server.write_timeout",
		"server.idle_timeout",
		// Faucet grant
		"grant.wait_time",
		"grant.native_amount_wei",
		"grant.token_amount_wei",
		"grant.store",
		"grant.requests_per_second",
		"grant.burst",
		// Worker
		"worker.pool_size",
		"worker.queue_size",
		// Listener / CLI
		"start_block",
		"allow_list",
	}

	for _, key := range keys {
		_ = v.BindEnv(key)
	}
}

// loadEnv loads environment variables from the config directory
func loadEnv(envPath string, service string) {
	envFiles := []string{".env", ".env.local"}
	if service != "" {
		envFiles = append(envFiles, ".env."+service+".local")
	}

	if envPath == "" {
		envPath = "config/"
	}

	for _, envFile := range envFiles {
		_ = godotenv.Overload(filepath.Join(envPath, envFile)) // later files override earlier ones
	}
}

// ChdirRepoRoot changes the current working directory to the repository root
func ChdirRepoRoot() {
	cwd, _ := os.Getwd()
	for range 5 {
		if _, err := os.Stat(filepath.Join(cwd, "config")); err == nil {
			_ = os.Chdir(cwd)
			return
		}
		cwd = filepath.Dir(cwd)
	}
}

// DSN returns the database connection string
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}
