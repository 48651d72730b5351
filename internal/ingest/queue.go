package ingest

import (
	"context"
	"sync"

	"github.com/feral-file/slp-indexer/internal/domain"
)

// blockQueue is an unbounded deque of block headers with a blocking pop
// The last popped block stays active until Done is called
type blockQueue struct {
	mu     sync.Mutex
	items  []domain.BlockHeader
	active *domain.BlockHeader
	notify chan struct{}
}

func newBlockQueue() *blockQueue {
	return &blockQueue{notify: make(chan struct{}, 1)}
}

func (q *blockQueue) signal() {
	select {
	case q.notify <- struct{}{}:
	default:
	}
}

// PushBack appends a block
func (q *blockQueue) PushBack(block domain.BlockHeader) {
	q.mu.Lock()
	q.items = append(q.items, block)
	q.mu.Unlock()
	q.signal()
}

// PushFront puts a block ahead of every queued block
func (q *blockQueue) PushFront(block domain.BlockHeader) {
	q.mu.Lock()
	q.items = append([]domain.BlockHeader{block}, q.items...)
	q.mu.Unlock()
	q.signal()
}

// Len returns the number of queued blocks
func (q *blockQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Done marks the active block as finished
func (q *blockQueue) Done() {
	q.mu.Lock()
	q.active = nil
	q.mu.Unlock()
}

// Lowest returns the lowest height among the queued and active blocks
func (q *blockQueue) Lowest() (uint64, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	var lowest uint64
	found := false
	if q.active != nil {
		lowest, found = q.active.Height, true
	}
	for _, block := range q.items {
		if !found || block.Height < lowest {
			lowest, found = block.Height, true
		}
	}
	return lowest, found
}

func (q *blockQueue) tryPop() (domain.BlockHeader, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		return domain.BlockHeader{}, false
	}
	block := q.items[0]
	q.items = q.items[1:]
	q.active = &block
	if len(q.items) > 0 {
		q.signal()
	}
	return block, true
}

// Pop waits for the next block, returning false once stop is closed or ctx is done
func (q *blockQueue) Pop(ctx context.Context, stop <-chan struct{}) (domain.BlockHeader, bool) {
	for {
		select {
		case <-stop:
			return domain.BlockHeader{}, false
		default:
		}
		if block, ok := q.tryPop(); ok {
			return block, true
		}
		select {
		case <-q.notify:
		case <-stop:
			return domain.BlockHeader{}, false
		case <-ctx.Done():
			return domain.BlockHeader{}, false
		}
	}
}
