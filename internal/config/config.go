package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/feral-file/slp-indexer/internal/domain"
)

const (
	DatabaseDriverPostgres = "postgres"
	DatabaseDriverMemory   = "memory"
)

// BaseConfig holds base configuration
type BaseConfig struct {
	Debug     bool   `mapstructure:"debug"`
	SentryDSN string `mapstructure:"sentry_dsn"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver"` // postgres or memory
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`     // Maximum number of open connections to the database
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`     // Maximum number of idle connections in the pool
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`  // Maximum amount of time a connection may be reused (e.g., "5m", "1h")
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"` // Maximum amount of time a connection may be idle (e.g., "10m", "30m")
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

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	ReadTimeout  int    `mapstructure:"read_timeout"`  // in seconds
	WriteTimeout int    `mapstructure:"write_timeout"` // in seconds
	IdleTimeout  int    `mapstructure:"idle_timeout"`  // in seconds
}

// ChainConfig holds the host chain peer configuration
type ChainConfig struct {
	APIPeer          string        `mapstructure:"api_peer"`
	APIPortKey       string        `mapstructure:"api_port_key"`
	PeerLimit        int           `mapstructure:"peer_limit"`
	ProbeConcurrency int           `mapstructure:"probe_concurrency"`
	BlocksPerPage    int           `mapstructure:"blocks_per_page"`
	HTTPTimeout      time.Duration `mapstructure:"http_timeout"`
	SyncTimeout      time.Duration `mapstructure:"sync_timeout"`
	GenesisHeight    uint64        `mapstructure:"genesis_height"`
	RetryDelay       time.Duration `mapstructure:"retry_delay"`
	MaxQueued        int           `mapstructure:"max_queued"`
}

// ProtocolConfig holds the side ledger protocol parameters
type ProtocolConfig struct {
	MasterAddress   string            `mapstructure:"master_address"`
	GenesisCost     map[string]uint64 `mapstructure:"genesis_cost"` // keyed by token family
	SerializedRegex string            `mapstructure:"serialized_regex"`
}

// FilesConfig holds the local file locations
type FilesConfig struct {
	CheckpointPath string `mapstructure:"checkpoint_path"`
	UnvalidatedDir string `mapstructure:"unvalidated_dir"`
}

// WebhookConfig holds the block webhook configuration
type WebhookConfig struct {
	// Target is the public URL of the block endpoint given to peers on subscription
	Target    string `mapstructure:"target"`
	DedupSize int    `mapstructure:"dedup_size"`
}

// NodeConfig holds configuration for slp-node
type NodeConfig struct {
	BaseConfig `mapstructure:",squash"`
	Database   DatabaseConfig `mapstructure:"database"`
	NATS       NATSConfig     `mapstructure:"nats"`
	Server     ServerConfig   `mapstructure:"server"`
	Chain      ChainConfig    `mapstructure:"chain"`
	Protocol   ProtocolConfig `mapstructure:"protocol"`
	Files      FilesConfig    `mapstructure:"files"`
	Webhook    WebhookConfig  `mapstructure:"webhook"`
}

// LoadNodeConfig loads configuration for slp-node
func LoadNodeConfig(configFile string, envPath string) (*NodeConfig, error) {
	v := configureViper("slp-node", configFile, envPath)

	// Set defaults
	v.SetDefault("database.driver", DatabaseDriverPostgres)
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("nats.max_reconnects", 10)
	v.SetDefault("nats.reconnect_wait", "2s")
	v.SetDefault("nats.stream_name", "SLP_EVENTS")
	v.SetDefault("nats.subject_prefix", "slp")
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 5001)
	v.SetDefault("server.read_timeout", 15)
	v.SetDefault("server.write_timeout", 15)
	v.SetDefault("server.idle_timeout", 60)
	v.SetDefault("chain.api_port_key", "@arkecosystem/core-api")
	v.SetDefault("chain.peer_limit", 20)
	v.SetDefault("chain.probe_concurrency", 8)
	v.SetDefault("chain.blocks_per_page", 100)
	v.SetDefault("chain.http_timeout", "10s")
	v.SetDefault("chain.sync_timeout", "30s")
	v.SetDefault("chain.retry_delay", "10s")
	v.SetDefault("chain.max_queued", 1000)
	v.SetDefault("protocol.serialized_regex", `^aslp[12]://[0-9a-fA-F]+`)
	v.SetDefault("files.checkpoint_path", "data/processor.mark.json")
	v.SetDefault("files.unvalidated_dir", "data")
	v.SetDefault("webhook.dedup_size", 20)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var config NodeConfig
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate checks the settings slp-node cannot run without
func (c *NodeConfig) Validate() error {
	if c.Database.Driver != DatabaseDriverPostgres && c.Database.Driver != DatabaseDriverMemory {
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	if c.Protocol.MasterAddress == "" {
		return fmt.Errorf("protocol.master_address is required")
	}
	if _, err := c.Protocol.Costs(); err != nil {
		return err
	}
	if _, err := c.Protocol.MemoPattern(); err != nil {
		return err
	}
	return nil
}

// Costs returns the GENESIS cost of every configured token family
func (c *ProtocolConfig) Costs() (map[domain.SlpType]uint64, error) {
	costs := make(map[domain.SlpType]uint64, len(c.GenesisCost))
	for family, cost := range c.GenesisCost {
		t := domain.SlpType(strings.ToLower(family))
		if !domain.IsValidSlpType(t) {
			return nil, fmt.Errorf("unknown token family %q in protocol.genesis_cost", family)
		}
		costs[t] = cost
	}
	return costs, nil
}

// MemoPattern compiles the binary smartbridge prefilter, nil when unset
func (c *ProtocolConfig) MemoPattern() (*regexp.Regexp, error) {
	if c.SerializedRegex == "" {
		return nil, nil
	}
	re, err := regexp.Compile(c.SerializedRegex)
	if err != nil {
		return nil, fmt.Errorf("invalid protocol.serialized_regex: %w", err)
	}
	return re, nil
}

// configureViper returns a viper instance with the config file and environment variables set
func configureViper(service string, configFile string, envPath string) *viper.Viper {
	v := viper.New()

	// Load environment variables
	loadEnv(envPath, service)

	// Set config file
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		// Search for config.yaml in multiple locations:
		// 1. Current directory
		v.AddConfigPath(".")
		// 2. Service-specific directory (e.g., cmd/slp-node/)
		v.AddConfigPath(fmt.Sprintf("cmd/%s/", service))
		// 3. Config directory
		v.AddConfigPath("config/")
	}

	// Set environment variables
	v.SetEnvPrefix("SLP_NODE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Explicitly bind all environment variables
	bindAllEnvVars(v)
	return v
}

// bindAllEnvVars explicitly binds all possible environment variables
// This is required for viper to map env vars to config struct fields when no config file exists
func bindAllEnvVars(v *viper.Viper) {
	keys := []string{
		"debug",
		"sentry_dsn",
		// Database
		"database.driver",
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
		// Chain
		"chain.api_peer",
		"chain.api_port_key",
		"chain.peer_limit",
		"chain.probe_concurrency",
		"chain.blocks_per_page",
		"chain.http_timeout",
		"chain.sync_timeout",
		"chain.genesis_height",
		"chain.retry_delay",
		"chain.max_queued",
		// Protocol
		"protocol.master_address",
		"protocol.genesis_cost.aslp1",
		"protocol.genesis_cost.aslp2",
		"protocol.serialized_regex",
		// Files
		"files.checkpoint_path",
		"files.unvalidated_dir",
		// Webhook
		"webhook.target",
		"webhook.dedup_size",
	}

	for _, key := range keys {
		_ = v.BindEnv(key)
	}
}

// loadEnv loads environment variables from the config directory
func loadEnv(envPath string, service string) {
	// Always try shared base first, then local, then optional per-service local.
	envFiles := []string{".env", ".env.local"}
	if service != "" {
		envFiles = append(envFiles, ".env."+service+".local")
	}

	// Default to config directory
	if envPath == "" {
		envPath = "config/"
	}

	for _, envFile := range envFiles {
		candidate := filepath.Join(envPath, envFile)
		_ = godotenv.Overload(candidate) // Overload lets later files override earlier ones
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
