package store

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feral-file/slp-indexer/internal/domain"
	"github.com/feral-file/slp-indexer/internal/store/schema"
)

func initMemoryTestDB(t *testing.T) Store {
	return NewMemoryStore()
}

func cleanupMemoryTestDB(t *testing.T) {}

// TestMemoryStore runs all store tests against the in-memory store
func TestMemoryStore(t *testing.T) {
	RunStoreTests(t, initMemoryTestDB, cleanupMemoryTestDB)
}

func TestMemoryStore_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	holder := &schema.Holder{Address: testOwner, TokenID: testTokenID, Balance: 10}
	require.NoError(t, s.CreateHolder(ctx, holder))
	holder.Balance = 99

	got := requireHolder(t, s, testOwner)
	assert.Equal(t, int64(10), got.Balance)

	got.Balance = 77
	assert.Equal(t, int64(10), requireHolder(t, s, testOwner).Balance)
}

func TestMemoryStore_ConcurrentSetLegit(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	record := buildTestRecord(500, 1, domain.OpSend)
	require.NoError(t, s.AppendJournal(ctx, record))

	var wg sync.WaitGroup
	results := make(chan bool, 16)
	for i := range 16 {
		wg.Add(1)
		go func(legit bool) {
			defer wg.Done()
			ok, err := s.SetLegit(ctx, record.Stamp(), legit)
			assert.NoError(t, err)
			results <- ok
		}(i%2 == 0)
	}
	wg.Wait()
	close(results)

	transitions := 0
	for ok := range results {
		if ok {
			transitions++
		}
	}
	assert.Equal(t, 1, transitions)
}
