package jetstream

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	natsjs "github.com/nats-io/nats.go/jetstream"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"github.com/feral-file/slp-indexer/internal/adapter"
	"github.com/feral-file/slp-indexer/internal/domain"
	"github.com/feral-file/slp-indexer/internal/logger"
	"github.com/feral-file/slp-indexer/internal/messaging"
)

// Config holds the configuration for NATS JetStream connection
type Config struct {
	URL            string
	StreamName     string
	SubjectPrefix  string
	MaxReconnects  int
	ReconnectWait  time.Duration
	ConnectionName string
	// NodeID identifies this indexer in every event, generated when empty
	NodeID string
}

type publisher struct {
	nc            adapter.NatsConn
	js            adapter.JetStream
	streamName    string
	subjectPrefix string
	nodeID        string
	json          adapter.JSON
	clock         adapter.Clock
}

// NewPublisher creates a new NATS JetStream publisher
func NewPublisher(cfg Config, natsJS adapter.NatsJetStream, jsonAdapter adapter.JSON, clock adapter.Clock) (messaging.Publisher, error) {
	opts := []nats.Option{
		nats.Name(cfg.ConnectionName),
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			if err != nil {
				logger.Error(err, zap.String("message", "Disconnected from NATS"))
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("Reconnected to NATS", zap.String("url", nc.ConnectedUrl()))
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			logger.Info("NATS connection closed")
		}),
	}

	nc, js, err := natsJS.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS and create JetStream: %w", err)
	}

	nodeID := cfg.NodeID
	if nodeID == "" {
		nodeID = uuid.NewString()
	}
	prefix := cfg.SubjectPrefix
	if prefix == "" {
		prefix = "slp"
	}

	return &publisher{
		nc:            nc,
		js:            js,
		streamName:    cfg.StreamName,
		subjectPrefix: prefix,
		nodeID:        nodeID,
		json:          jsonAdapter,
		clock:         clock,
	}, nil
}

// PublishEvent publishes a ledger event to NATS JetStream
func (p *publisher) PublishEvent(ctx context.Context, event *domain.LedgerEvent) error {
	if event.EventID == "" {
		event.EventID = ulid.MustNewDefault(p.clock.Now()).String()
	}
	event.NodeID = p.nodeID

	logger.DebugCtx(ctx, "Publishing Nats event", zap.Any("event", event))

	data, err := p.json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	// one message id per operation so the stream drops redeliveries
	opts := []natsjs.PublishOpt{natsjs.WithMsgID(fmt.Sprintf("%s:%s", event.SlpType, event.Stamp))}
	if p.streamName != "" {
		opts = append(opts, natsjs.WithExpectStream(p.streamName))
	}
	_, err = p.js.Publish(ctx, p.buildSubject(event), data, opts...)
	if err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	return nil
}

// buildSubject constructs the NATS subject based on the event
func (p *publisher) buildSubject(event *domain.LedgerEvent) string {
	// Format: {prefix}.{family}.{op}
	// e.g., slp.aslp1.send, slp.aslp2.addmeta
	return fmt.Sprintf("%s.%s.%s", p.subjectPrefix, event.SlpType, strings.ToLower(string(event.Op)))
}

// Close closes the NATS connection
func (p *publisher) Close() {
	if p.nc == nil {
		return
	}

	p.nc.Close()
}
