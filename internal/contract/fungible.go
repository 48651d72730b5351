package contract

import (
	"context"

	"github.com/feral-file/slp-indexer/internal/domain"
	"github.com/feral-file/slp-indexer/internal/store"
	"github.com/feral-file/slp-indexer/internal/store/schema"
)

// NewFungibleEngine creates the engine of the fungible token family
func NewFungibleEngine(st store.Store, cfg Config) Engine {
	e := &engine{
		slpType: domain.SlpTypeFungible,
		store:   st,
		config:  cfg,
	}
	e.handlers = map[domain.OpType]handler{
		domain.OpGenesis:  e.fungibleGenesis,
		domain.OpMint:     e.mint,
		domain.OpBurn:     e.burn,
		domain.OpSend:     e.send,
		domain.OpNewOwner: e.fungibleNewOwner,
		domain.OpPause:    e.fungiblePause,
		domain.OpResume:   e.fungiblePause,
		domain.OpFreeze:   e.freeze,
		domain.OpUnfreeze: e.freeze,
	}
	return e
}

func (e *engine) fungibleGenesis(ctx context.Context, tx store.Store, r *domain.Record) error {
	if err := e.requireGenesisCost(r); err != nil {
		return err
	}
	if err := e.requireMaster(r); err != nil {
		return err
	}
	if r.TokenID == "" {
		return violation(r.Op, "missing token id")
	}

	de := decimals(r)
	supply, err := wholeQuantity(r, de)
	if err != nil {
		return err
	}
	if supply.IsZero() {
		return violation(r.Op, "supply must be positive")
	}

	// a mintable token starts empty, the owner mints up to the supply
	minted := supply.Scaled()
	if r.IsMintable() {
		minted = 0
	}

	stamp := r.Stamp().String()
	c := &schema.Contract{
		TokenID:      r.TokenID,
		SlpType:      string(e.slpType),
		Symbol:       r.Symbol,
		Name:         r.Name,
		Owner:        r.Emitter,
		Decimals:     int16(de),
		Supply:       supply.Scaled(),
		Minted:       minted,
		DocumentURI:  r.DocumentURI,
		Notes:        r.Notes,
		Pausable:     r.IsPausable(),
		Mintable:     r.IsMintable(),
		GenesisStamp: stamp,
	}
	if err := tx.CreateContract(ctx, c); err != nil {
		if store.IsDuplicate(err) {
			return violation(r.Op, "token %s already exists", r.TokenID)
		}
		return err
	}

	return tx.CreateHolder(ctx, &schema.Holder{
		Address:    r.Emitter,
		TokenID:    r.TokenID,
		Balance:    minted,
		Owner:      true,
		BlockStamp: stamp,
	})
}

// supplyChange loads what MINT and BURN share: an active token, its owner and a whole quantity
func (e *engine) supplyChange(ctx context.Context, tx store.Store, r *domain.Record) (*schema.Contract, *schema.Holder, domain.Quantity, error) {
	if err := e.requireMaster(r); err != nil {
		return nil, nil, domain.Quantity{}, err
	}
	c, err := loadActiveContract(ctx, tx, r)
	if err != nil {
		return nil, nil, domain.Quantity{}, err
	}
	owner, err := loadOwner(ctx, tx, r)
	if err != nil {
		return nil, nil, domain.Quantity{}, err
	}
	qt, err := wholeQuantity(r, uint8(c.Decimals)) //nolint:gosec,G115
	if err != nil {
		return nil, nil, domain.Quantity{}, err
	}
	return c, owner, qt, nil
}

func (e *engine) mint(ctx context.Context, tx store.Store, r *domain.Record) error {
	c, owner, qt, err := e.supplyChange(ctx, tx, r)
	if err != nil {
		return err
	}

	circulating, err := c.Circulating()
	if err != nil {
		return violation(r.Op, "%v", err)
	}
	after, err := circulating.Add(qt)
	if err != nil {
		return violation(r.Op, "%v", err)
	}
	supply, err := c.Quantity(c.Supply)
	if err != nil {
		return err
	}
	if after.Cmp(supply) > 0 {
		return violation(r.Op, "minting %s would exceed supply %s", qt, supply)
	}

	minted, err := c.Quantity(c.Minted)
	if err != nil {
		return err
	}
	if minted, err = minted.Add(qt); err != nil {
		return violation(r.Op, "%v", err)
	}
	balance, err := c.Quantity(owner.Balance)
	if err != nil {
		return err
	}
	if balance, err = balance.Add(qt); err != nil {
		return violation(r.Op, "%v", err)
	}

	c.Minted = minted.Scaled()
	owner.Balance = balance.Scaled()
	owner.BlockStamp = r.Stamp().String()
	if err := tx.UpdateContract(ctx, c); err != nil {
		return err
	}
	return tx.UpsertHolder(ctx, owner)
}

func (e *engine) burn(ctx context.Context, tx store.Store, r *domain.Record) error {
	c, owner, qt, err := e.supplyChange(ctx, tx, r)
	if err != nil {
		return err
	}

	balance, err := c.Quantity(owner.Balance)
	if err != nil {
		return err
	}
	if balance.Cmp(qt) < 0 {
		return violation(r.Op, "balance %s below burned quantity %s", balance, qt)
	}
	if balance, err = balance.Sub(qt); err != nil {
		return violation(r.Op, "%v", err)
	}
	burned, err := c.Quantity(c.Burned)
	if err != nil {
		return err
	}
	if burned, err = burned.Add(qt); err != nil {
		return violation(r.Op, "%v", err)
	}

	c.Burned = burned.Scaled()
	owner.Balance = balance.Scaled()
	owner.BlockStamp = r.Stamp().String()
	if err := tx.UpdateContract(ctx, c); err != nil {
		return err
	}
	return tx.UpsertHolder(ctx, owner)
}

func (e *engine) send(ctx context.Context, tx store.Store, r *domain.Record) error {
	c, err := loadActiveContract(ctx, tx, r)
	if err != nil {
		return err
	}
	sender, err := tx.GetHolder(ctx, r.Emitter, r.TokenID)
	if err != nil {
		return err
	}
	if sender == nil {
		return violation(r.Op, "emitter %s holds no %s", r.Emitter, r.TokenID)
	}
	if sender.Frozen {
		return violation(r.Op, "emitter %s is frozen", r.Emitter)
	}

	qt, err := quantity(r, uint8(c.Decimals)) //nolint:gosec,G115
	if err != nil {
		return err
	}
	if qt.IsZero() {
		return violation(r.Op, "quantity must be positive")
	}
	balance, err := c.Quantity(sender.Balance)
	if err != nil {
		return err
	}
	if balance.Cmp(qt) <= 0 {
		return violation(r.Op, "balance %s does not cover %s", balance, qt)
	}

	return tx.Exchange(ctx, r.TokenID, r.Emitter, r.Receiver, qt, r.Stamp())
}

func (e *engine) fungibleNewOwner(ctx context.Context, tx store.Store, r *domain.Record) error {
	c, err := loadContract(ctx, tx, r)
	if err != nil {
		return err
	}
	owner, err := loadOwner(ctx, tx, r)
	if err != nil {
		return err
	}
	if r.Receiver == r.Emitter {
		return violation(r.Op, "%s already owns %s", r.Receiver, r.TokenID)
	}
	next, err := tx.GetHolder(ctx, r.Receiver, r.TokenID)
	if err != nil {
		return err
	}
	if next != nil && next.Frozen {
		return violation(r.Op, "receiver %s is frozen", r.Receiver)
	}

	// the whole owner balance moves with the ownership
	balance, err := c.Quantity(owner.Balance)
	if err != nil {
		return err
	}
	if err := tx.Exchange(ctx, r.TokenID, r.Emitter, r.Receiver, balance, r.Stamp()); err != nil {
		return err
	}

	if err := setOwner(ctx, tx, r, r.Emitter, false); err != nil {
		return err
	}
	if err := setOwner(ctx, tx, r, r.Receiver, true); err != nil {
		return err
	}

	c.Owner = r.Receiver
	return tx.UpdateContract(ctx, c)
}

// setOwner flips the owner flag of a holder touched by the current exchange
func setOwner(ctx context.Context, tx store.Store, r *domain.Record, address string, owner bool) error {
	h, err := tx.GetHolder(ctx, address, r.TokenID)
	if err != nil {
		return err
	}
	if h == nil {
		return store.ErrHolderNotFound
	}
	h.Owner = owner
	h.BlockStamp = r.Stamp().String()
	return tx.UpsertHolder(ctx, h)
}

// fungiblePause handles PAUSE and RESUME
func (e *engine) fungiblePause(ctx context.Context, tx store.Store, r *domain.Record) error {
	if err := e.requireMaster(r); err != nil {
		return err
	}
	c, err := loadContract(ctx, tx, r)
	if err != nil {
		return err
	}
	if err := requirePausable(ctx, tx, r); err != nil {
		return err
	}
	pause := r.Op == domain.OpPause
	if c.Paused == pause {
		return violation(r.Op, "token %s paused state is already %t", r.TokenID, pause)
	}
	owner, err := loadOwner(ctx, tx, r)
	if err != nil {
		return err
	}

	owner.BlockStamp = r.Stamp().String()
	if err := tx.UpsertHolder(ctx, owner); err != nil {
		return err
	}
	c.Paused = pause
	return tx.UpdateContract(ctx, c)
}

// freeze handles FREEZE and UNFREEZE of the receiver holder
func (e *engine) freeze(ctx context.Context, tx store.Store, r *domain.Record) error {
	if _, err := loadContract(ctx, tx, r); err != nil {
		return err
	}
	if _, err := loadOwner(ctx, tx, r); err != nil {
		return err
	}
	if r.Receiver == r.Emitter {
		return violation(r.Op, "owner cannot %s itself", r.Op)
	}
	target, err := tx.GetHolder(ctx, r.Receiver, r.TokenID)
	if err != nil {
		return err
	}
	if target == nil {
		return violation(r.Op, "receiver %s holds no %s", r.Receiver, r.TokenID)
	}
	freeze := r.Op == domain.OpFreeze
	if target.Frozen == freeze {
		return violation(r.Op, "holder %s frozen state is already %t", r.Receiver, freeze)
	}

	target.Frozen = freeze
	target.BlockStamp = r.Stamp().String()
	return tx.UpsertHolder(ctx, target)
}
