package peers

import (
	"context"
	"fmt"
	"math/rand/v2"
	"slices"
	"sync"
	"time"

	"github.com/alitto/pond/v2"
	"go.uber.org/zap"

	"github.com/feral-file/slp-indexer/internal/domain"
	"github.com/feral-file/slp-indexer/internal/logger"
	"github.com/feral-file/slp-indexer/internal/providers/chain"
)

// Config holds the peer selection settings
type Config struct {
	// Seed is the peer asked for the network peer listing
	Seed string
	// APIPortKey names the advertised API port of a candidate
	APIPortKey string
	// Limit caps the number of candidates taken from the listing
	Limit int
	// MinActive triggers a refresh when fewer peers remain
	MinActive int
	// ProbeConcurrency bounds concurrent status probes
	ProbeConcurrency int
	// ProbeTimeout bounds one status probe
	ProbeTimeout time.Duration
}

// Pool keeps the set of reachable chain peers
//
//go:generate mockgen -source=pool.go -destination=../mocks/peer_pool.go -package=mocks -mock_names=Pool=MockPeerPool
type Pool interface {
	// Refresh replaces the active set with the reachable candidates of the seed listing
	Refresh(ctx context.Context) error
	// Pick returns a random active peer, preferring the given one when it is active
	Pick(ctx context.Context, prefer string) (string, error)
	// Drop removes an unreliable peer, refreshing the set when too few remain
	Drop(ctx context.Context, peer string)
	// Peers returns a snapshot of the active set
	Peers() []string
}

type pool struct {
	mu     sync.Mutex
	config Config
	client chain.Client
	active []string
}

// NewPool creates a peer pool
func NewPool(cfg Config, client chain.Client) Pool {
	if cfg.APIPortKey == "" {
		cfg.APIPortKey = chain.DefaultAPIPortKey
	}
	if cfg.Limit <= 0 {
		cfg.Limit = 20
	}
	if cfg.MinActive <= 0 {
		cfg.MinActive = 2
	}
	if cfg.ProbeConcurrency <= 0 {
		cfg.ProbeConcurrency = 8
	}
	if cfg.ProbeTimeout <= 0 {
		cfg.ProbeTimeout = 5 * time.Second
	}
	return &pool{config: cfg, client: client}
}

// candidates lists the API endpoints advertised in the seed peer listing
func (p *pool) candidates(ctx context.Context) ([]string, error) {
	infos, err := p.client.ListPeers(ctx, p.config.Seed)
	if err != nil {
		return nil, err
	}
	if len(infos) > p.config.Limit {
		infos = infos[:p.config.Limit]
	}

	var urls []string
	for _, info := range infos {
		port := info.Ports[p.config.APIPortKey]
		if port <= 0 || info.IP == "" {
			continue
		}
		urls = append(urls, fmt.Sprintf("http://%s:%d", info.IP, port))
	}
	return urls, nil
}

// probe keeps the candidates answering a status request
func (p *pool) probe(ctx context.Context, candidates []string) ([]string, error) {
	workers := pond.NewResultPool[string](p.config.ProbeConcurrency)
	defer workers.StopAndWait()

	group := workers.NewGroupContext(ctx)
	for _, candidate := range candidates {
		group.Submit(func() string {
			probeCtx, cancel := context.WithTimeout(ctx, p.config.ProbeTimeout)
			defer cancel()

			if _, err := p.client.NodeStatus(probeCtx, candidate); err != nil {
				logger.Debug("Peer unreachable", zap.String("peer", candidate), zap.Error(err))
				return ""
			}
			return candidate
		})
	}

	results, err := group.Wait()
	if err != nil {
		return nil, err
	}

	reachable := make([]string, 0, len(results))
	for _, r := range results {
		if r != "" {
			reachable = append(reachable, r)
		}
	}
	return reachable, nil
}

// Refresh replaces the active set with the reachable candidates of the seed listing
func (p *pool) Refresh(ctx context.Context) error {
	candidates, err := p.candidates(ctx)
	if err != nil {
		return fmt.Errorf("failed to list candidate peers: %w", err)
	}

	reachable, err := p.probe(ctx, candidates)
	if err != nil {
		return fmt.Errorf("failed to probe candidate peers: %w", err)
	}
	// the seed itself stays usable when no advertised peer answers
	if len(reachable) == 0 && p.config.Seed != "" {
		reachable = []string{p.config.Seed}
	}

	p.mu.Lock()
	p.active = reachable
	p.mu.Unlock()

	logger.InfoCtx(ctx, "Peer set refreshed", zap.Int("candidates", len(candidates)), zap.Int("active", len(reachable)))

	return nil
}

// Pick returns a random active peer, preferring the given one when it is active
func (p *pool) Pick(ctx context.Context, prefer string) (string, error) {
	p.mu.Lock()
	empty := len(p.active) == 0
	p.mu.Unlock()

	if empty {
		if err := p.Refresh(ctx); err != nil {
			return "", fmt.Errorf("%w: %v", domain.ErrNoPeer, err)
		}
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.active) == 0 {
		return "", domain.ErrNoPeer
	}
	if prefer != "" && slices.Contains(p.active, prefer) {
		return prefer, nil
	}
	return p.active[rand.IntN(len(p.active))], nil //nolint:gosec,G404
}

// Drop removes an unreliable peer, refreshing the set when too few remain
func (p *pool) Drop(ctx context.Context, peer string) {
	p.mu.Lock()
	p.active = slices.DeleteFunc(p.active, func(s string) bool { return s == peer })
	remaining := len(p.active)
	p.mu.Unlock()

	logger.WarnCtx(ctx, "Peer dropped", zap.String("peer", peer), zap.Int("remaining", remaining))

	if remaining < p.config.MinActive {
		if err := p.Refresh(ctx); err != nil {
			logger.ErrorCtx(ctx, err, zap.String("peer", peer))
		}
	}
}

// Peers returns a snapshot of the active set
func (p *pool) Peers() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return slices.Clone(p.active)
}
