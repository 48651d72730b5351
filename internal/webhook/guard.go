package webhook

import (
	"context"
	"crypto/md5" //nolint:gosec,G501
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"

	"github.com/feral-file/slp-indexer/internal/adapter"
	"github.com/feral-file/slp-indexer/internal/domain"
	"github.com/feral-file/slp-indexer/internal/logger"
	"github.com/feral-file/slp-indexer/internal/providers/chain"
	"github.com/feral-file/slp-indexer/internal/store"
)

var (
	// ErrUnauthorized is returned when a delivery does not carry a registered token
	ErrUnauthorized = errors.New("webhook authorization refused")

	// ErrInvalidToken is returned when a subscription token is too short to be split
	ErrInvalidToken = errors.New("invalid webhook token")

	// ErrNotSubscribed is returned when unsubscribing without an active subscription
	ErrNotSubscribed = errors.New("no active webhook subscription")
)

// Enqueuer accepts blocks for ingestion
type Enqueuer interface {
	Enqueue(block domain.BlockHeader)
}

// Config holds the webhook settings
type Config struct {
	// DedupSize is the number of recent delivery digests remembered
	DedupSize int
}

// Guard authenticates webhook deliveries and manages the node subscription
//
//go:generate mockgen -source=guard.go -destination=../mocks/webhook_guard.go -package=mocks -mock_names=Guard=MockWebhookGuard
type Guard interface {
	// Register keeps the verification half and digest of a subscription token
	Register(ctx context.Context, token string) (string, error)
	// Verify checks an authorization header against the registered tokens
	Verify(ctx context.Context, authorization string) (bool, error)
	// ManageBlock authenticates a delivery and enqueues its block, false when it was already seen
	ManageBlock(ctx context.Context, authorization string, body []byte) (bool, error)
	// Subscribe registers a webhook on peer pointing at target and keeps its token
	Subscribe(ctx context.Context, peer, target string) (*SubscriptionRecord, error)
	// Unsubscribe removes the active subscription from its peer
	Unsubscribe(ctx context.Context) error
}

type guard struct {
	store    store.Store
	client   chain.Client
	enqueuer Enqueuer
	json     adapter.JSON
	jcs      adapter.JCS
	seen     *lru.Cache[string, struct{}]
}

// NewGuard creates a webhook guard
func NewGuard(cfg Config, st store.Store, client chain.Client, enqueuer Enqueuer, jsonAdapter adapter.JSON, jcs adapter.JCS) (Guard, error) {
	if cfg.DedupSize <= 0 {
		cfg.DedupSize = 20
	}
	seen, err := lru.New[string, struct{}](cfg.DedupSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create delivery cache: %w", err)
	}

	return &guard{
		store:    st,
		client:   client,
		enqueuer: enqueuer,
		json:     jsonAdapter,
		jcs:      jcs,
		seen:     seen,
	}, nil
}

func tokenKey(authorization string) string {
	sum := md5.Sum([]byte(authorization)) //nolint:gosec,G401
	return tokenKeyPrefix + hex.EncodeToString(sum[:])
}

func sha256Hex(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

// Register keeps the verification half and digest of a subscription token and returns its key
func (g *guard) Register(ctx context.Context, token string) (string, error) {
	if len(token) <= AuthorizationLength {
		return "", fmt.Errorf("%w: expected more than %d characters", ErrInvalidToken, AuthorizationLength)
	}

	authorization, verification := token[:AuthorizationLength], token[AuthorizationLength:]
	data, err := g.json.Marshal(tokenRecord{
		Verification: verification,
		Hash:         sha256Hex(token),
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal webhook token: %w", err)
	}

	key := tokenKey(authorization)
	if err := g.store.SetValue(ctx, key, string(data)); err != nil {
		return "", fmt.Errorf("failed to store webhook token: %w", err)
	}

	return key, nil
}

// Verify checks an authorization header against the registered tokens
func (g *guard) Verify(ctx context.Context, authorization string) (bool, error) {
	if authorization == "" {
		return false, nil
	}

	value, err := g.store.GetValue(ctx, tokenKey(authorization))
	if err != nil {
		return false, fmt.Errorf("failed to load webhook token: %w", err)
	}
	if value == "" {
		return false, nil
	}

	var record tokenRecord
	if err := g.json.Unmarshal([]byte(value), &record); err != nil {
		return false, fmt.Errorf("failed to parse webhook token: %w", err)
	}

	digest := sha256Hex(authorization + record.Verification)
	return subtle.ConstantTimeCompare([]byte(digest), []byte(record.Hash)) == 1, nil
}

// ManageBlock authenticates a delivery and enqueues its block, false when it was already seen
func (g *guard) ManageBlock(ctx context.Context, authorization string, body []byte) (bool, error) {
	ok, err := g.Verify(ctx, authorization)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, ErrUnauthorized
	}

	canonical, err := g.jcs.Transform(body)
	if err != nil {
		return false, fmt.Errorf("%w: %v", domain.ErrDecode, err)
	}

	var delivery Delivery
	if err := g.json.Unmarshal(canonical, &delivery); err != nil {
		return false, fmt.Errorf("%w: %v", domain.ErrDecode, err)
	}
	if delivery.Event != "" && delivery.Event != chain.WebhookEvent {
		return false, fmt.Errorf("%w: unexpected event %q", domain.ErrDecode, delivery.Event)
	}

	block, err := delivery.Data.header()
	if err != nil {
		return false, err
	}

	if seen, _ := g.seen.ContainsOrAdd(sha256Hex(string(canonical)), struct{}{}); seen {
		logger.DebugCtx(ctx, "Duplicate delivery dropped", zap.Uint64("height", block.Height), zap.String("block_id", block.ID))
		return false, nil
	}

	logger.InfoCtx(ctx, "Block header received",
		zap.Uint64("height", block.Height),
		zap.String("block_id", block.ID),
		zap.Int("transactions", block.Transactions),
	)
	g.enqueuer.Enqueue(block)

	return true, nil
}

// Subscribe registers a webhook on peer pointing at target and keeps its token
func (g *guard) Subscribe(ctx context.Context, peer, target string) (*SubscriptionRecord, error) {
	sub, err := g.client.Subscribe(ctx, peer, target)
	if err != nil {
		return nil, err
	}

	key, err := g.Register(ctx, sub.Token)
	if err != nil {
		return nil, err
	}

	record := &SubscriptionRecord{
		Peer:          peer,
		ID:            sub.ID,
		Target:        target,
		Authorization: key,
	}
	data, err := g.json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal subscription: %w", err)
	}
	if err := g.store.SetValue(ctx, subscriptionKey, string(data)); err != nil {
		return nil, fmt.Errorf("failed to store subscription: %w", err)
	}

	logger.InfoCtx(ctx, "Subscribed to block webhook", zap.String("peer", peer), zap.String("id", sub.ID), zap.String("target", target))

	return record, nil
}

// Unsubscribe removes the active subscription from its peer
func (g *guard) Unsubscribe(ctx context.Context) error {
	value, err := g.store.GetValue(ctx, subscriptionKey)
	if err != nil {
		return fmt.Errorf("failed to load subscription: %w", err)
	}
	if value == "" {
		return ErrNotSubscribed
	}

	var record SubscriptionRecord
	if err := g.json.Unmarshal([]byte(value), &record); err != nil {
		return fmt.Errorf("failed to parse subscription: %w", err)
	}

	if err := g.client.Unsubscribe(ctx, record.Peer, record.ID); err != nil {
		return err
	}

	// an empty value marks the entry as removed
	for _, key := range []string{record.Authorization, subscriptionKey} {
		if err := g.store.SetValue(ctx, key, ""); err != nil {
			return fmt.Errorf("failed to clear %s: %w", key, err)
		}
	}

	logger.InfoCtx(ctx, "Unsubscribed from block webhook", zap.String("peer", record.Peer), zap.String("id", record.ID))

	return nil
}
