package contract

import (
	"context"

	"github.com/feral-file/slp-indexer/internal/domain"
	"github.com/feral-file/slp-indexer/internal/store"
	"github.com/feral-file/slp-indexer/internal/store/schema"
)

// NewNFTEngine creates the engine of the non-fungible token family
func NewNFTEngine(st store.Store, cfg Config) Engine {
	e := &engine{
		slpType: domain.SlpTypeNFT,
		store:   st,
		config:  cfg,
	}
	e.handlers = map[domain.OpType]handler{
		domain.OpGenesis:    e.nftGenesis,
		domain.OpNewOwner:   e.nftNewOwner,
		domain.OpPause:      e.nftPause,
		domain.OpResume:     e.nftPause,
		domain.OpAuthMeta:   e.authMeta,
		domain.OpAddMeta:    e.addMeta,
		domain.OpVoidMeta:   notImplemented,
		domain.OpRevokeMeta: notImplemented,
		domain.OpClone:      notImplemented,
	}
	return e
}

func notImplemented(_ context.Context, _ store.Store, r *domain.Record) error {
	return violation(r.Op, "not implemented")
}

func (e *engine) nftGenesis(ctx context.Context, tx store.Store, r *domain.Record) error {
	if err := e.requireGenesisCost(r); err != nil {
		return err
	}
	if err := e.requireMaster(r); err != nil {
		return err
	}
	if r.TokenID == "" {
		return violation(r.Op, "missing token id")
	}

	stamp := r.Stamp().String()
	c := &schema.Contract{
		TokenID:      r.TokenID,
		SlpType:      string(e.slpType),
		Symbol:       r.Symbol,
		Name:         r.Name,
		Owner:        r.Emitter,
		DocumentURI:  r.DocumentURI,
		Notes:        r.Notes,
		Pausable:     r.IsPausable(),
		GenesisStamp: stamp,
	}
	if err := tx.CreateContract(ctx, c); err != nil {
		if store.IsDuplicate(err) {
			return violation(r.Op, "token %s already exists", r.TokenID)
		}
		return err
	}

	owner := &schema.Holder{
		Address:    r.Emitter,
		TokenID:    r.TokenID,
		Owner:      true,
		BlockStamp: stamp,
	}
	if err := owner.SetMetadata(nil); err != nil {
		return err
	}
	return tx.CreateHolder(ctx, owner)
}

func (e *engine) nftNewOwner(ctx context.Context, tx store.Store, r *domain.Record) error {
	c, err := loadContract(ctx, tx, r)
	if err != nil {
		return err
	}
	owner, err := loadOwner(ctx, tx, r)
	if err != nil {
		return err
	}
	if err := requireNewerStamp(r, owner); err != nil {
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
	if next == nil {
		next = &schema.Holder{Address: r.Receiver, TokenID: r.TokenID}
	}

	// the metadata follows the ownership, the previous owner keeps none
	metadata, err := next.MetadataMap()
	if err != nil {
		return err
	}
	carried, err := owner.MetadataMap()
	if err != nil {
		return err
	}
	for k, v := range carried {
		metadata[k] = v
	}

	stamp := r.Stamp().String()
	if err := next.SetMetadata(metadata); err != nil {
		return err
	}
	next.Owner = true
	next.BlockStamp = stamp
	if err := owner.SetMetadata(nil); err != nil {
		return err
	}
	owner.Owner = false
	owner.BlockStamp = stamp

	if err := tx.UpsertHolder(ctx, owner); err != nil {
		return err
	}
	if err := tx.UpsertHolder(ctx, next); err != nil {
		return err
	}
	c.Owner = r.Receiver
	return tx.UpdateContract(ctx, c)
}

// nftPause handles PAUSE and RESUME
func (e *engine) nftPause(ctx context.Context, tx store.Store, r *domain.Record) error {
	if err := requirePausable(ctx, tx, r); err != nil {
		return err
	}
	if err := e.requireMaster(r); err != nil {
		return err
	}
	c, err := loadContract(ctx, tx, r)
	if err != nil {
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
	if err := requireNewerStamp(r, owner); err != nil {
		return err
	}

	owner.BlockStamp = r.Stamp().String()
	if err := tx.UpsertHolder(ctx, owner); err != nil {
		return err
	}
	c.Paused = pause
	return tx.UpdateContract(ctx, c)
}

// authMeta lets the owner authorize the receiver to attach metadata
func (e *engine) authMeta(ctx context.Context, tx store.Store, r *domain.Record) error {
	if _, err := loadActiveContract(ctx, tx, r); err != nil {
		return err
	}
	if _, err := loadOwner(ctx, tx, r); err != nil {
		return err
	}
	existing, err := tx.GetHolder(ctx, r.Receiver, r.TokenID)
	if err != nil {
		return err
	}
	if existing != nil {
		return violation(r.Op, "receiver %s is already a holder of %s", r.Receiver, r.TokenID)
	}

	h := &schema.Holder{
		Address:    r.Receiver,
		TokenID:    r.TokenID,
		BlockStamp: r.Stamp().String(),
	}
	if err := h.SetMetadata(nil); err != nil {
		return err
	}
	return tx.CreateHolder(ctx, h)
}

// addMeta merges one metadata chunk into the emitter holder
func (e *engine) addMeta(ctx context.Context, tx store.Store, r *domain.Record) error {
	if err := e.requireMaster(r); err != nil {
		return err
	}
	if _, err := loadActiveContract(ctx, tx, r); err != nil {
		return err
	}
	h, err := tx.GetHolder(ctx, r.Emitter, r.TokenID)
	if err != nil {
		return err
	}
	if h == nil {
		return violation(r.Op, "emitter %s is not authorized on %s", r.Emitter, r.TokenID)
	}
	if err := requireNewerStamp(r, h); err != nil {
		return err
	}
	if len(r.Data) == 0 {
		return violation(r.Op, "no metadata")
	}

	metadata, err := h.MetadataMap()
	if err != nil {
		return err
	}
	for k, v := range r.Data {
		metadata[k] = v
	}
	if err := h.SetMetadata(metadata); err != nil {
		return err
	}
	h.BlockStamp = r.Stamp().String()
	return tx.UpsertHolder(ctx, h)
}
