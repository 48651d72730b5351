package contract

import (
	"context"
	"fmt"

	"github.com/feral-file/slp-indexer/internal/domain"
	"github.com/feral-file/slp-indexer/internal/store"
	"github.com/feral-file/slp-indexer/internal/store/schema"
)

// RuleViolation is returned by a handler when an operation breaks a contract rule
type RuleViolation struct {
	Op     domain.OpType
	Reason string
}

func (e *RuleViolation) Error() string {
	return fmt.Sprintf("%s refused: %s", e.Op, e.Reason)
}

func (e *RuleViolation) Unwrap() error {
	return domain.ErrRuleViolation
}

func violation(op domain.OpType, format string, args ...any) error {
	return &RuleViolation{Op: op, Reason: fmt.Sprintf(format, args...)}
}

// requireMaster checks the record was sent to the master address
func (e *engine) requireMaster(r *domain.Record) error {
	if r.Receiver != e.config.MasterAddress {
		return violation(r.Op, "receiver %s is not the master address", r.Receiver)
	}
	return nil
}

// requireGenesisCost checks the GENESIS transaction paid the family minimum
func (e *engine) requireGenesisCost(r *domain.Record) error {
	if minCost := e.config.GenesisCost[e.slpType]; r.Cost < minCost {
		return violation(r.Op, "cost %d below genesis minimum %d", r.Cost, minCost)
	}
	return nil
}

// loadContract fetches the contract of the record, refusing unknown tokens
func loadContract(ctx context.Context, tx store.Store, r *domain.Record) (*schema.Contract, error) {
	if r.TokenID == "" {
		return nil, violation(r.Op, "missing token id")
	}
	c, err := tx.GetContract(ctx, r.TokenID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, violation(r.Op, "token %s does not exist", r.TokenID)
	}
	return c, nil
}

// loadActiveContract is loadContract refusing paused tokens
func loadActiveContract(ctx context.Context, tx store.Store, r *domain.Record) (*schema.Contract, error) {
	c, err := loadContract(ctx, tx, r)
	if err != nil {
		return nil, err
	}
	if c.Paused {
		return nil, violation(r.Op, "token %s is paused", r.TokenID)
	}
	return c, nil
}

// loadOwner fetches the emitter holder and checks it controls the token
func loadOwner(ctx context.Context, tx store.Store, r *domain.Record) (*schema.Holder, error) {
	h, err := tx.GetHolder(ctx, r.Emitter, r.TokenID)
	if err != nil {
		return nil, err
	}
	if h == nil || !h.Owner {
		return nil, violation(r.Op, "emitter %s is not the token owner", r.Emitter)
	}
	return h, nil
}

// requireNewerStamp checks the record is strictly after the last operation of the holder
func requireNewerStamp(r *domain.Record, h *schema.Holder) error {
	last, err := h.Stamp()
	if err != nil {
		return err
	}
	if !r.Stamp().After(last) {
		return violation(r.Op, "blockstamp %s is not after %s", r.Stamp(), last)
	}
	return nil
}

// requirePausable checks the GENESIS of the token declared it pausable
func requirePausable(ctx context.Context, tx store.Store, r *domain.Record) error {
	genesis, err := tx.GetGenesisRecord(ctx, r.TokenID)
	if err != nil {
		return err
	}
	if genesis == nil || !genesis.IsPausable() {
		return violation(r.Op, "token %s is not pausable", r.TokenID)
	}
	return nil
}

// quantity converts the record quantity to the token precision, refusing extra decimal places
func quantity(r *domain.Record, de uint8) (domain.Quantity, error) {
	if r.Quantity == nil {
		return domain.Quantity{}, violation(r.Op, "missing quantity")
	}
	q, err := domain.QuantityFromDecimal(*r.Quantity, de)
	if err != nil {
		return domain.Quantity{}, violation(r.Op, "%v", err)
	}
	if !q.Decimal().Equal(*r.Quantity) {
		return domain.Quantity{}, violation(r.Op, "quantity %s exceeds %d decimal places", r.Quantity.String(), de)
	}
	if q.Sign() < 0 {
		return domain.Quantity{}, violation(r.Op, "negative quantity %s", q)
	}
	return q, nil
}

// wholeQuantity is quantity refusing fractional amounts
func wholeQuantity(r *domain.Record, de uint8) (domain.Quantity, error) {
	q, err := quantity(r, de)
	if err != nil {
		return domain.Quantity{}, err
	}
	if !q.IsWhole() {
		return domain.Quantity{}, violation(r.Op, "quantity %s is not a whole number", q)
	}
	return q, nil
}

func decimals(r *domain.Record) uint8 {
	if r.Decimals == nil {
		return 0
	}
	return *r.Decimals
}
