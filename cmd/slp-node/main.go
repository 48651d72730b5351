package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/feral-file/slp-indexer/internal/adapter"
	"github.com/feral-file/slp-indexer/internal/api/rest"
	"github.com/feral-file/slp-indexer/internal/api/server"
	"github.com/feral-file/slp-indexer/internal/config"
	"github.com/feral-file/slp-indexer/internal/contract"
	"github.com/feral-file/slp-indexer/internal/ingest"
	"github.com/feral-file/slp-indexer/internal/ledger"
	"github.com/feral-file/slp-indexer/internal/logger"
	"github.com/feral-file/slp-indexer/internal/messaging"
	"github.com/feral-file/slp-indexer/internal/peers"
	"github.com/feral-file/slp-indexer/internal/providers/chain"
	"github.com/feral-file/slp-indexer/internal/providers/jetstream"
	"github.com/feral-file/slp-indexer/internal/store"
	"github.com/feral-file/slp-indexer/internal/syncer"
	"github.com/feral-file/slp-indexer/internal/webhook"
)

var (
	configFile = flag.String("config", "", "Path to configuration file")
	envPath    = flag.String("env", "config/", "Path to environment files")
)

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(), `Usage: slp-node [flags] [command]

Commands:
  run                       sync the chain, receive webhooks and serve the read API (default)
  register-webhook <token>  store the token of a webhook created out of band
  subscribe                 create a block webhook on a peer pointing at webhook.target
  unsubscribe               remove the webhook created by subscribe
  replay                    re-derive the ledger state from the legit journal and compare

Flags:
`)
	flag.PrintDefaults()
}

func main() {
	flag.Usage = usage
	flag.Parse()

	// Load configuration
	config.ChdirRepoRoot()
	cfg, err := config.LoadNodeConfig(*configFile, *envPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize logger with sentry integration
	err = logger.Initialize(logger.Config{
		Debug:           cfg.Debug,
		SentryDSN:       cfg.SentryDSN,
		BreadcrumbLevel: zapcore.InfoLevel,
		Tags: map[string]string{
			"service": "slp-node",
		},
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Flush(2 * time.Second)

	command := "run"
	if flag.NArg() > 0 {
		command = flag.Arg(0)
	}

	n, err := newNode(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to build node", zap.Error(err))
	}
	defer n.close()

	switch command {
	case "run":
		err = n.run(ctx, cancel)
	case "register-webhook":
		if flag.NArg() < 2 {
			usage()
			os.Exit(2)
		}
		err = n.registerWebhook(ctx, flag.Arg(1))
	case "subscribe":
		err = n.subscribe(ctx)
	case "unsubscribe":
		err = n.guard.Unsubscribe(ctx)
	case "replay":
		err = n.replay(ctx)
	default:
		usage()
		os.Exit(2)
	}

	if err != nil {
		logger.ErrorCtx(ctx, err, zap.String("command", command))
		logger.Flush(2 * time.Second)
		os.Exit(1)
	}
}

// node holds the wired components of one slp-node process
type node struct {
	cfg         *config.NodeConfig
	engineCfg   contract.Config
	store       store.Store
	unvalidated store.UnvalidatedStore
	chain       chain.Client
	pool        peers.Pool
	publisher   messaging.Publisher
	pipeline    ingest.Pipeline
	driver      syncer.Driver
	guard       webhook.Guard
}

func newNode(ctx context.Context, cfg *config.NodeConfig) (*node, error) {
	fs := adapter.NewFileSystem()
	jsonAdapter := adapter.NewJSON()
	clock := adapter.NewClock()

	dataStore, err := openStore(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	costs, err := cfg.Protocol.Costs()
	if err != nil {
		return nil, err
	}
	memoPattern, err := cfg.Protocol.MemoPattern()
	if err != nil {
		return nil, err
	}
	engineCfg := contract.Config{
		MasterAddress: cfg.Protocol.MasterAddress,
		GenesisCost:   costs,
	}

	httpClient := adapter.NewHTTPClient(cfg.Chain.HTTPTimeout, cfg.Chain.RetryDelay)
	chainClient := chain.NewClient(httpClient, jsonAdapter)
	pool := peers.NewPool(peers.Config{
		Seed:             cfg.Chain.APIPeer,
		APIPortKey:       cfg.Chain.APIPortKey,
		Limit:            cfg.Chain.PeerLimit,
		ProbeConcurrency: cfg.Chain.ProbeConcurrency,
		ProbeTimeout:     cfg.Chain.HTTPTimeout,
	}, chainClient)

	// Outbound notifications are optional
	var publisher messaging.Publisher
	if cfg.NATS.URL != "" {
		publisher, err = jetstream.NewPublisher(jetstream.Config{
			URL:            cfg.NATS.URL,
			StreamName:     cfg.NATS.StreamName,
			SubjectPrefix:  cfg.NATS.SubjectPrefix,
			MaxReconnects:  cfg.NATS.MaxReconnects,
			ReconnectWait:  cfg.NATS.ReconnectWait,
			ConnectionName: cfg.NATS.ConnectionName,
		}, adapter.NewNatsJetStream(), jsonAdapter, clock)
		if err != nil {
			return nil, err
		}
		logger.InfoCtx(ctx, "Connected to NATS", zap.String("url", cfg.NATS.URL))
	} else {
		logger.WarnCtx(ctx, "NATS url not configured, ledger events will not be published")
		publisher = messaging.NewNoopPublisher()
	}

	unvalidated := store.NewUnvalidatedStore(cfg.Files.UnvalidatedDir, fs, jsonAdapter)
	pipeline := ingest.NewPipeline(ingest.Config{
		MemoPattern: memoPattern,
		RetryDelay:  cfg.Chain.RetryDelay,
	}, chainClient, pool, dataStore, unvalidated, contract.NewEngines(dataStore, engineCfg), publisher, clock)

	driver := syncer.NewDriver(syncer.Config{
		GenesisHeight: cfg.Chain.GenesisHeight,
		BlocksPerPage: cfg.Chain.BlocksPerPage,
		Timeout:       cfg.Chain.SyncTimeout,
		RetryDelay:    cfg.Chain.RetryDelay,
		MaxQueued:     cfg.Chain.MaxQueued,
	}, store.NewCheckpointStore(cfg.Files.CheckpointPath, fs, jsonAdapter), dataStore, chainClient, pool, httpClient, pipeline, clock)

	guard, err := webhook.NewGuard(webhook.Config{DedupSize: cfg.Webhook.DedupSize}, dataStore, chainClient, pipeline, jsonAdapter, adapter.NewJCS())
	if err != nil {
		return nil, err
	}

	return &node{
		cfg:         cfg,
		engineCfg:   engineCfg,
		store:       dataStore,
		unvalidated: unvalidated,
		chain:       chainClient,
		pool:        pool,
		publisher:   publisher,
		pipeline:    pipeline,
		driver:      driver,
		guard:       guard,
	}, nil
}

// openStore connects the configured ledger store
func openStore(ctx context.Context, cfg config.DatabaseConfig) (store.Store, error) {
	if cfg.Driver == config.DatabaseDriverMemory {
		logger.WarnCtx(ctx, "Using the in-memory store, the ledger is lost on exit")
		return store.NewMemoryStore(), nil
	}

	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Configure connection pool
	if err := store.ConfigureConnectionPool(db, cfg.MaxOpenConns, cfg.MaxIdleConns, cfg.ConnMaxLifetime, cfg.ConnMaxIdleTime); err != nil {
		return nil, fmt.Errorf("failed to configure connection pool: %w", err)
	}
	if err := store.Migrate(db); err != nil {
		return nil, err
	}
	logger.InfoCtx(ctx, "Connected to database",
		zap.String("host", cfg.Host),
		zap.Int("max_open_conns", cfg.MaxOpenConns),
	)

	return store.NewPGStore(db), nil
}

func (n *node) close() {
	n.publisher.Close()
}

// run starts the pipeline, the sync driver and the API server until a signal arrives
func (n *node) run(ctx context.Context, cancel context.CancelFunc) error {
	logger.InfoCtx(ctx, "Starting SLP node")

	if err := n.pool.Refresh(ctx); err != nil {
		logger.WarnCtx(ctx, "Initial peer refresh failed", zap.Error(err))
	}

	srv := server.New(server.Config{
		Debug:        n.cfg.Debug,
		Host:         n.cfg.Server.Host,
		Port:         n.cfg.Server.Port,
		ReadTimeout:  time.Duration(n.cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(n.cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(n.cfg.Server.IdleTimeout) * time.Second,
	}, rest.NewHandler(n.store, n.unvalidated, n.guard, n.pool, n.pipeline, n.driver))

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil {
			errCh <- err
		}
	}()
	go func() {
		if err := n.pipeline.Start(ctx); err != nil {
			logger.ErrorCtx(ctx, err, zap.String("component", "pipeline"))
		}
	}()
	go func() {
		if err := n.driver.Run(ctx); err != nil {
			logger.ErrorCtx(ctx, err, zap.String("component", "syncer"))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	var runErr error
	select {
	case sig := <-sigCh:
		logger.InfoCtx(ctx, "Received shutdown signal", zap.String("signal", sig.String()))
	case runErr = <-errCh:
	}

	// Create shutdown context with timeout (don't use canceled ctx)
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := n.driver.Stop(shutdownCtx); err != nil {
		logger.ErrorCtx(shutdownCtx, err, zap.String("component", "syncer"))
	}
	if err := n.pipeline.Stop(shutdownCtx); err != nil {
		logger.ErrorCtx(shutdownCtx, err, zap.String("component", "pipeline"))
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.ErrorCtx(shutdownCtx, err, zap.String("component", "server"))
	}
	cancel()

	logger.InfoCtx(shutdownCtx, "SLP node stopped")
	return runErr
}

func (n *node) registerWebhook(ctx context.Context, token string) error {
	authorization, err := n.guard.Register(ctx, token)
	if err != nil {
		return err
	}
	logger.InfoCtx(ctx, "Webhook token registered", zap.String("authorization", authorization[:4]+"..."))
	return nil
}

func (n *node) subscribe(ctx context.Context) error {
	if n.cfg.Webhook.Target == "" {
		return fmt.Errorf("webhook.target is required to subscribe")
	}
	peer, err := n.pool.Pick(ctx, n.cfg.Chain.APIPeer)
	if err != nil {
		return err
	}
	sub, err := n.guard.Subscribe(ctx, peer, n.cfg.Webhook.Target)
	if err != nil {
		return err
	}
	logger.InfoCtx(ctx, "Webhook subscribed", zap.String("peer", sub.Peer), zap.String("id", sub.ID), zap.String("target", sub.Target))
	return nil
}

func (n *node) replay(ctx context.Context) error {
	report, err := ledger.Replay(ctx, n.store, store.NewMemoryStore(), n.engineCfg, 0)
	if err != nil {
		return err
	}

	data, err := adapter.NewJSON().MarshalIndent(report)
	if err != nil {
		return fmt.Errorf("failed to marshal replay report: %w", err)
	}
	fmt.Println(string(data))

	if !report.Consistent() {
		return fmt.Errorf("replayed state differs from the stored ledger")
	}
	return nil
}
