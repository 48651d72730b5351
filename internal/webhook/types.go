package webhook

import (
	"fmt"

	"github.com/spf13/cast"

	"github.com/feral-file/slp-indexer/internal/domain"
)

const (
	// AuthorizationLength is the size of the token half sent back by the peer on every delivery
	AuthorizationLength = 32

	tokenKeyPrefix  = "webhook:"
	subscriptionKey = "webhook:subscription"
)

// Delivery is the body a peer posts for a subscribed event
type Delivery struct {
	Event     string    `json:"event"`
	Timestamp any       `json:"timestamp"`
	Data      wireBlock `json:"data"`
}

// wireBlock is the applied block header, counts may be numbers or strings
type wireBlock struct {
	ID                   string `json:"id"`
	Height               any    `json:"height"`
	Transactions         any    `json:"transactions"`
	NumberOfTransactions any    `json:"numberOfTransactions"`
}

func (w wireBlock) header() (domain.BlockHeader, error) {
	if w.ID == "" {
		return domain.BlockHeader{}, fmt.Errorf("%w: delivery without block id", domain.ErrDecode)
	}
	height, err := cast.ToUint64E(w.Height)
	if err != nil || height == 0 {
		return domain.BlockHeader{}, fmt.Errorf("%w: invalid block height %v", domain.ErrDecode, w.Height)
	}

	count := w.NumberOfTransactions
	if count == nil {
		count = w.Transactions
	}
	if count == nil {
		return domain.BlockHeader{}, fmt.Errorf("%w: delivery without transaction count", domain.ErrDecode)
	}
	n, err := cast.ToIntE(count)
	if err != nil || n < 0 {
		return domain.BlockHeader{}, fmt.Errorf("%w: invalid transaction count %v", domain.ErrDecode, count)
	}

	return domain.BlockHeader{ID: w.ID, Height: height, Transactions: n}, nil
}

// tokenRecord is what is kept of a subscription token
type tokenRecord struct {
	Verification string `json:"verification"`
	Hash         string `json:"hash"`
}

// SubscriptionRecord is the active webhook subscription of the node
type SubscriptionRecord struct {
	Peer   string `json:"peer"`
	ID     string `json:"id"`
	Target string `json:"target"`
	// Authorization is the digest key of the registered token
	Authorization string `json:"authorization"`
}
