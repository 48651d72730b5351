package ledger

import (
	"bytes"
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/feral-file/slp-indexer/internal/contract"
	"github.com/feral-file/slp-indexer/internal/domain"
	"github.com/feral-file/slp-indexer/internal/logger"
	"github.com/feral-file/slp-indexer/internal/store"
	"github.com/feral-file/slp-indexer/internal/store/schema"
)

const defaultBatch = 500

// Report summarizes a replay
type Report struct {
	// Replayed counts the legit records run through the engines
	Replayed int `json:"replayed"`
	// Diverged lists the blockstamps of legit records the replay refused
	Diverged []string `json:"diverged"`
	// Mismatched lists the contracts or holders whose replayed state differs from the source
	Mismatched []string `json:"mismatched"`
}

// Consistent reports whether the source state was fully re-derived
func (r *Report) Consistent() bool {
	return len(r.Diverged) == 0 && len(r.Mismatched) == 0
}

type holderKey struct {
	address string
	tokenID string
}

// Replay re-runs the legit journal records of source in blockstamp order
// through fresh engines on target, then compares every contract and holder
// the records touched. target must be empty.
func Replay(ctx context.Context, source, target store.Store, cfg contract.Config, batch int) (*Report, error) {
	if batch <= 0 {
		batch = defaultBatch
	}

	engine := contract.NewEngines(target, cfg)
	report := &Report{}
	tokens := make(map[string]struct{})
	holders := make(map[holderKey]struct{})

	legit := true
	var after domain.BlockStamp
	for {
		records, err := source.ListJournal(ctx, store.JournalFilter{After: after, Legit: &legit, Limit: batch})
		if err != nil {
			return nil, fmt.Errorf("failed to list legit journal records: %w", err)
		}

		for _, r := range records {
			after = r.Stamp()

			replayed := *r
			replayed.Legit = nil
			if err := target.AppendJournal(ctx, &replayed); err != nil {
				return nil, fmt.Errorf("failed to journal %s: %w", r.Stamp(), err)
			}

			result, err := engine.Manage(ctx, &replayed)
			if err != nil {
				return nil, fmt.Errorf("failed to replay %s: %w", r.Stamp(), err)
			}
			report.Replayed++

			if result != contract.ResultApplied {
				report.Diverged = append(report.Diverged, r.Stamp().String())
				logger.WarnCtx(ctx, "Replay diverged", zap.String("stamp", r.Stamp().String()), zap.String("result", string(result)))
				continue
			}

			if r.TokenID != "" {
				tokens[r.TokenID] = struct{}{}
				for _, address := range []string{r.Emitter, r.Receiver} {
					if address != "" {
						holders[holderKey{address: address, tokenID: r.TokenID}] = struct{}{}
					}
				}
			}
		}

		if len(records) < batch {
			break
		}
	}

	if err := compare(ctx, source, target, tokens, holders, report); err != nil {
		return nil, err
	}

	logger.InfoCtx(ctx, "Replay finished",
		zap.Int("replayed", report.Replayed),
		zap.Int("diverged", len(report.Diverged)),
		zap.Int("mismatched", len(report.Mismatched)),
	)

	return report, nil
}

func compare(ctx context.Context, source, target store.Store, tokens map[string]struct{}, holders map[holderKey]struct{}, report *Report) error {
	for tokenID := range tokens {
		want, err := source.GetContract(ctx, tokenID)
		if err != nil {
			return fmt.Errorf("failed to read source contract %s: %w", tokenID, err)
		}
		got, err := target.GetContract(ctx, tokenID)
		if err != nil {
			return fmt.Errorf("failed to read replayed contract %s: %w", tokenID, err)
		}
		if !sameContract(want, got) {
			report.Mismatched = append(report.Mismatched, "contract:"+tokenID)
		}
	}

	for key := range holders {
		want, err := source.GetHolder(ctx, key.address, key.tokenID)
		if err != nil {
			return fmt.Errorf("failed to read source holder %s: %w", key.address, err)
		}
		got, err := target.GetHolder(ctx, key.address, key.tokenID)
		if err != nil {
			return fmt.Errorf("failed to read replayed holder %s: %w", key.address, err)
		}
		if !sameHolder(want, got) {
			report.Mismatched = append(report.Mismatched, "holder:"+key.tokenID+":"+key.address)
		}
	}

	sort.Strings(report.Mismatched)
	return nil
}

func sameContract(a, b *schema.Contract) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Owner == b.Owner &&
		a.Supply == b.Supply &&
		a.Minted == b.Minted &&
		a.Burned == b.Burned &&
		a.Exited == b.Exited &&
		a.Paused == b.Paused
}

func sameHolder(a, b *schema.Holder) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Balance != b.Balance || a.Owner != b.Owner || a.Frozen != b.Frozen || a.BlockStamp != b.BlockStamp {
		return false
	}
	am, err := a.MetadataMap()
	if err != nil {
		return bytes.Equal(a.Metadata, b.Metadata)
	}
	bm, err := b.MetadataMap()
	if err != nil {
		return false
	}
	if len(am) != len(bm) {
		return false
	}
	for k, v := range am {
		if bm[k] != v {
			return false
		}
	}
	return true
}
