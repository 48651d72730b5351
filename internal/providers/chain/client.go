package chain

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/spf13/cast"

	"github.com/feral-file/slp-indexer/internal/adapter"
	"github.com/feral-file/slp-indexer/internal/domain"
)

const (
	// DefaultAPIPortKey is the plugin name under which peers advertise their public API port
	DefaultAPIPortKey = "@arkecosystem/core-api"

	// WebhookEvent is the peer event subscribed to for live ingestion
	WebhookEvent = "block.applied"
)

// PeerInfo is one entry of the peer listing
type PeerInfo struct {
	IP     string         `json:"ip"`
	Height uint64         `json:"height"`
	Ports  map[string]int `json:"ports"`
}

// PageMeta is the pagination block of list responses
type PageMeta struct {
	Count     int     `json:"count"`
	PageCount int     `json:"pageCount"`
	Next      *string `json:"next"`
}

// BlocksPage is one page of block headers
type BlocksPage struct {
	Data []domain.BlockHeader `json:"data"`
	Meta PageMeta             `json:"meta"`
}

// HasNext reports whether the peer has more pages after this one
func (p *BlocksPage) HasNext() bool {
	return p.Meta.Next != nil && *p.Meta.Next != ""
}

// NodeStatus is the sync status reported by a peer
type NodeStatus struct {
	Synced bool   `json:"synced"`
	Now    uint64 `json:"now"`
}

// Subscription is a webhook registered on a peer
type Subscription struct {
	ID     string `json:"id"`
	Token  string `json:"token"`
	Target string `json:"target"`
	Event  string `json:"event"`
}

// wireTransaction carries the loosely typed numeric fields of the transaction listing
type wireTransaction struct {
	ID          string `json:"id"`
	Type        any    `json:"type"`
	Sender      string `json:"sender"`
	Recipient   string `json:"recipient"`
	Amount      any    `json:"amount"`
	VendorField string `json:"vendorField"`
}

func (w wireTransaction) transaction() (domain.Transaction, error) {
	tp, err := cast.ToIntE(w.Type)
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("invalid type of transaction %s: %w", w.ID, err)
	}
	amount, err := cast.ToUint64E(w.Amount)
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("invalid amount of transaction %s: %w", w.ID, err)
	}
	return domain.Transaction{
		ID:          w.ID,
		Type:        tp,
		Sender:      w.Sender,
		Recipient:   w.Recipient,
		Amount:      amount,
		VendorField: w.VendorField,
	}, nil
}

// Client defines an interface for chain peer API operations to enable mocking
//
//go:generate mockgen -source=client.go -destination=../../mocks/chain_client.go -package=mocks -mock_names=Client=MockChainClient
type Client interface {
	// ListPeers returns the peers known by peer, highest first
	ListPeers(ctx context.Context, peer string) ([]PeerInfo, error)
	// NodeStatus probes a peer
	NodeStatus(ctx context.Context, peer string) (*NodeStatus, error)
	// GetBlocks returns one page of block headers in ascending height order
	GetBlocks(ctx context.Context, peer string, page, limit int) (*BlocksPage, error)
	// GetBlockTransactions pages through the transactions of a block until an empty page
	GetBlockTransactions(ctx context.Context, peer, blockID string) ([]domain.Transaction, error)
	// Subscribe registers a block webhook on peer pointing at target
	Subscribe(ctx context.Context, peer, target string) (*Subscription, error)
	// Unsubscribe removes a webhook registered on peer
	Unsubscribe(ctx context.Context, peer, id string) error
}

type client struct {
	httpClient adapter.HTTPClient
	json       adapter.JSON
	// maxPages bounds the transaction paging of one block
	maxPages int
}

// NewClient creates a new chain peer API client
func NewClient(httpClient adapter.HTTPClient, jsonAdapter adapter.JSON) Client {
	return &client{
		httpClient: httpClient,
		json:       jsonAdapter,
		maxPages:   1000,
	}
}

func endpoint(peer string, path string, query url.Values) string {
	u := strings.TrimRight(peer, "/") + "/api/" + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

// ListPeers returns the peers known by peer, highest first
func (c *client) ListPeers(ctx context.Context, peer string) ([]PeerInfo, error) {
	var resp struct {
		Data []PeerInfo `json:"data"`
	}
	if err := c.httpClient.Get(ctx, endpoint(peer, "peers", url.Values{"orderBy": {"height:desc"}}), &resp); err != nil {
		return nil, fmt.Errorf("failed to list peers of %s: %w", peer, err)
	}

	return resp.Data, nil
}

// NodeStatus probes a peer
func (c *client) NodeStatus(ctx context.Context, peer string) (*NodeStatus, error) {
	var resp struct {
		Data NodeStatus `json:"data"`
	}
	if err := c.httpClient.Get(ctx, endpoint(peer, "node/status", nil), &resp); err != nil {
		return nil, fmt.Errorf("failed to get status of %s: %w", peer, err)
	}

	return &resp.Data, nil
}

// GetBlocks returns one page of block headers in ascending height order
func (c *client) GetBlocks(ctx context.Context, peer string, page, limit int) (*BlocksPage, error) {
	query := url.Values{
		"page":    {cast.ToString(page)},
		"limit":   {cast.ToString(limit)},
		"orderBy": {"height:asc"},
	}

	var resp BlocksPage
	if err := c.httpClient.Get(ctx, endpoint(peer, "blocks", query), &resp); err != nil {
		return nil, fmt.Errorf("failed to get blocks page %d from %s: %w", page, peer, err)
	}

	return &resp, nil
}

// GetBlockTransactions pages through the transactions of a block until an empty page
func (c *client) GetBlockTransactions(ctx context.Context, peer, blockID string) ([]domain.Transaction, error) {
	var txs []domain.Transaction

	for page := 1; page <= c.maxPages; page++ {
		var resp struct {
			Data []wireTransaction `json:"data"`
		}
		u := endpoint(peer, "blocks/"+url.PathEscape(blockID)+"/transactions", url.Values{"page": {cast.ToString(page)}})
		if err := c.httpClient.Get(ctx, u, &resp); err != nil {
			return nil, fmt.Errorf("failed to get transactions of block %s: %w", blockID, err)
		}
		if len(resp.Data) == 0 {
			return txs, nil
		}

		for _, w := range resp.Data {
			tx, err := w.transaction()
			if err != nil {
				return nil, err
			}
			txs = append(txs, tx)
		}
	}

	return nil, fmt.Errorf("block %s has more than %d transaction pages", blockID, c.maxPages)
}

// Subscribe registers a block webhook on peer pointing at target
func (c *client) Subscribe(ctx context.Context, peer, target string) (*Subscription, error) {
	body, err := c.json.Marshal(map[string]any{
		"target": target,
		"event":  WebhookEvent,
		"conditions": []map[string]string{
			{"key": "numberOfTransactions", "condition": "gte", "value": "1"},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal webhook request: %w", err)
	}

	var resp struct {
		Data Subscription `json:"data"`
	}
	if err := c.httpClient.Post(ctx, endpoint(peer, "webhooks", nil), bytes.NewReader(body), &resp); err != nil {
		return nil, fmt.Errorf("failed to subscribe to %s: %w", peer, err)
	}
	if resp.Data.ID == "" || resp.Data.Token == "" {
		return nil, fmt.Errorf("peer %s returned an incomplete webhook subscription", peer)
	}

	return &resp.Data, nil
}

// Unsubscribe removes a webhook registered on peer
func (c *client) Unsubscribe(ctx context.Context, peer, id string) error {
	if err := c.httpClient.Delete(ctx, endpoint(peer, "webhooks/"+url.PathEscape(id), nil)); err != nil {
		return fmt.Errorf("failed to unsubscribe %s from %s: %w", id, peer, err)
	}

	return nil
}
