package contract_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feral-file/slp-indexer/internal/contract"
	"github.com/feral-file/slp-indexer/internal/domain"
	"github.com/feral-file/slp-indexer/internal/logger"
	"github.com/feral-file/slp-indexer/internal/mocks"
	"github.com/feral-file/slp-indexer/internal/store"
	"github.com/feral-file/slp-indexer/internal/store/schema"
)

const (
	master  = "AMasterXXXXXXXXXXXXXXXXXXXXXXXXXXX"
	alice   = "AAliceXXXXXXXXXXXXXXXXXXXXXXXXXXXX"
	bob     = "ABobXXXXXXXXXXXXXXXXXXXXXXXXXXXXXX"
	carol   = "ACarolXXXXXXXXXXXXXXXXXXXXXXXXXXXX"
	txID    = "d2f5a3e1c0b9a8f7e6d5c4b3a2f1e0d9c8b7a6f5e4d3c2b1a0f9e8d7c6b5a4f3"
	minCost = 100000000
)

func TestMain(m *testing.M) {
	err := logger.Initialize(logger.Config{
		Debug: false,
	})
	if err != nil {
		panic(err)
	}

	code := m.Run()
	os.Exit(code)
}

func testConfig() contract.Config {
	return contract.Config{
		MasterAddress: master,
		GenesisCost: map[domain.SlpType]uint64{
			domain.SlpTypeFungible: minCost,
			domain.SlpTypeNFT:      minCost,
		},
	}
}

// ledger wraps a memory store and the engines over it
type ledger struct {
	t       *testing.T
	store   store.Store
	engines contract.Engine
	height  uint64
}

func newLedger(t *testing.T) *ledger {
	st := store.NewMemoryStore()
	return &ledger{
		t:       t,
		store:   st,
		engines: contract.NewEngines(st, testConfig()),
		height:  100,
	}
}

// apply journals the record at the next height and manages it
func (l *ledger) apply(r *domain.Record) contract.Result {
	l.t.Helper()
	l.height++
	r.Height = l.height
	r.Index = 1
	if r.TxID == "" {
		r.TxID = txID
	}
	require.NoError(l.t, l.store.AppendJournal(context.Background(), r))
	result, err := l.engines.Manage(context.Background(), r)
	require.NoError(l.t, err)
	return result
}

func (l *ledger) holder(address, tokenID string) *schema.Holder {
	l.t.Helper()
	h, err := l.store.GetHolder(context.Background(), address, tokenID)
	require.NoError(l.t, err)
	return h
}

func (l *ledger) contract(tokenID string) *schema.Contract {
	l.t.Helper()
	c, err := l.store.GetContract(context.Background(), tokenID)
	require.NoError(l.t, err)
	require.NotNil(l.t, c)
	return c
}

func (l *ledger) legit(r *domain.Record) *bool {
	l.t.Helper()
	stored, err := l.store.GetJournal(context.Background(), r.Stamp())
	require.NoError(l.t, err)
	require.NotNil(l.t, stored)
	return stored.Legit
}

func u8(v uint8) *uint8 {
	return &v
}

func boolPtr(v bool) *bool {
	return &v
}

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func op(slpType domain.SlpType, tp domain.OpType, tokenID, emitter, receiver string) *domain.Record {
	return &domain.Record{
		Operation: domain.Operation{
			SlpType: slpType,
			Op:      tp,
			TokenID: tokenID,
		},
		Emitter:  emitter,
		Receiver: receiver,
	}
}

func TestEngine_AlreadyResolvedRecordIsNotReapplied(t *testing.T) {
	l := newLedger(t)
	r := op(domain.SlpTypeFungible, domain.OpSend, "unknown", alice, bob)
	r.Legit = boolPtr(true)

	result, err := l.engines.Manage(context.Background(), r)
	require.NoError(t, err)
	assert.Equal(t, contract.ResultAlreadyApplied, result)
}

func TestEngine_RecordResolvedConcurrently(t *testing.T) {
	l := newLedger(t)
	tokenID := genesisFungible(t, l, "FOO", 2, "1000", false)

	send := op(domain.SlpTypeFungible, domain.OpSend, tokenID, alice, bob)
	send.Quantity = dec("10")
	assert.Equal(t, contract.ResultApplied, l.apply(send))

	// a fresh copy of the same journal record carries no legit flag
	again := *send
	again.Legit = nil
	result, err := l.engines.Manage(context.Background(), &again)
	require.NoError(t, err)
	assert.Equal(t, contract.ResultAlreadyApplied, result)

	assert.Equal(t, int64(99000), l.holder(alice, tokenID).Balance)
	assert.Equal(t, int64(1000), l.holder(bob, tokenID).Balance)
}

func TestEngine_UnsupportedOperationIsRejected(t *testing.T) {
	l := newLedger(t)
	r := op(domain.SlpTypeFungible, domain.OpAddMeta, "0f1e2d3c4b5a69788796a5b4c3d2e1f0", alice, master)

	assert.Equal(t, contract.ResultRejected, l.apply(r))
	assert.Equal(t, boolPtr(false), l.legit(r))

	rejected, err := l.store.ListRejected(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, rejected, 1)
	assert.Contains(t, rejected[0].Reason, "not supported")
}

func TestEngine_UnknownFamily(t *testing.T) {
	l := newLedger(t)
	r := op(domain.SlpType("aslp9"), domain.OpSend, "x", alice, bob)

	_, err := l.engines.Manage(context.Background(), r)
	require.Error(t, err)
}

func TestRuleViolation_UnwrapsToSentinel(t *testing.T) {
	var err error = &contract.RuleViolation{Op: domain.OpSend, Reason: "balance too low"}

	assert.True(t, errors.Is(err, domain.ErrRuleViolation))
	assert.Equal(t, "SEND refused: balance too low", err.Error())

	var violation *contract.RuleViolation
	require.True(t, errors.As(err, &violation))
	assert.Equal(t, domain.OpSend, violation.Op)
}

func TestEngine_StoreFailureRejectsOperation(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	st := mocks.NewMockStore(ctrl)
	engine := contract.NewFungibleEngine(st, testConfig())

	r := op(domain.SlpTypeFungible, domain.OpSend, "0f1e2d3c4b5a69788796a5b4c3d2e1f0", alice, bob)
	r.Quantity = dec("1")
	r.Height = 10
	r.Index = 1

	// first transaction fails on contract lookup, second one records the rejection
	gomock.InOrder(
		st.EXPECT().
			WithTx(gomock.Any(), gomock.Any()).
			DoAndReturn(func(ctx context.Context, fn func(tx store.Store) error) error {
				return fn(st)
			}),
		st.EXPECT().
			GetContract(gomock.Any(), r.TokenID).
			Return(nil, store.ErrContractNotFound),
		st.EXPECT().
			WithTx(gomock.Any(), gomock.Any()).
			DoAndReturn(func(ctx context.Context, fn func(tx store.Store) error) error {
				return fn(st)
			}),
		st.EXPECT().
			SetLegit(gomock.Any(), r.Stamp(), false).
			Return(true, nil),
		st.EXPECT().
			InsertRejected(gomock.Any(), r, gomock.Any()).
			Return(nil),
	)

	result, err := engine.Manage(context.Background(), r)
	require.NoError(t, err)
	assert.Equal(t, contract.ResultRejected, result)
	assert.Equal(t, boolPtr(false), r.Legit)
}

func TestEngine_RejectionFailureIsReturned(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	st := mocks.NewMockStore(ctrl)
	engine := contract.NewNFTEngine(st, testConfig())

	r := op(domain.SlpTypeNFT, domain.OpClone, "0f1e2d3c4b5a69788796a5b4c3d2e1f0", alice, bob)

	storeErr := errors.New("connection reset")
	gomock.InOrder(
		st.EXPECT().
			WithTx(gomock.Any(), gomock.Any()).
			DoAndReturn(func(ctx context.Context, fn func(tx store.Store) error) error {
				return fn(st)
			}),
		st.EXPECT().
			WithTx(gomock.Any(), gomock.Any()).
			Return(storeErr),
	)

	_, err := engine.Manage(context.Background(), r)
	require.Error(t, err)
	assert.ErrorIs(t, err, storeErr)
	assert.Nil(t, r.Legit)
}
