// internal/enrich/transport.go
package enrich

import (
    "context"
    "fmt"
    "sync"
)

// MaxBatchSize is the hard ceiling the queue transport imposes on one
// batch-send call.
const MaxBatchSize = 10

// Entry is one message as the transport sees it.
type Entry struct {
    CorrelationID string
    Body          []byte
    Priority      string
    DelaySeconds  int
}

type FailedEntry struct {
    CorrelationID string
    Reason        string
}

// BatchResult reports per-entry outcomes of a single SendBatch call.
type BatchResult struct {
    Succeeded []string
    Failed    []FailedEntry
}

// Transport is the queue port. Implementations must reject batches larger than
// MaxBatchSize and distinguish succeeded from failed entries by correlation id.
type Transport interface {
    SendBatch(ctx context.Context, queue string, entries []Entry) (*BatchResult, error)
}

// InMemoryTransport records entries per queue. Used by tests and local runs
// without a broker. Failures can be scripted per correlation id or per queue.
type InMemoryTransport struct {
    mu        sync.Mutex
    sent      map[string][]Entry
    calls     []int
    failIDs   map[string]string
    failQueue map[string]error
}

func NewInMemoryTransport() *InMemoryTransport {
    return &InMemoryTransport{
        sent:      make(map[string][]Entry),
        failIDs:   make(map[string]string),
        failQueue: make(map[string]error),
    }
}

// FailCorrelationID makes every future send of that id fail with reason.
func (t *InMemoryTransport) FailCorrelationID(id, reason string) {
    t.mu.Lock()
    defer t.mu.Unlock()
    t.failIDs[id] = reason
}

// FailQueue makes every call against the queue fail outright.
func (t *InMemoryTransport) FailQueue(queue string, err error) {
    t.mu.Lock()
    defer t.mu.Unlock()
    t.failQueue[queue] = err
}

func (t *InMemoryTransport) SendBatch(ctx context.Context, queue string, entries []Entry) (*BatchResult, error) {
    if len(entries) > MaxBatchSize {
        return nil, fmt.Errorf("batch of %d exceeds transport limit of %d", len(entries), MaxBatchSize)
    }
    if err := ctx.Err(); err != nil {
        return nil, err
    }

    t.mu.Lock()
    defer t.mu.Unlock()

    t.calls = append(t.calls, len(entries))
    if err := t.failQueue[queue]; err != nil {
        return nil, err
    }

    result := &BatchResult{}
    for _, e := range entries {
        if reason, bad := t.failIDs[e.CorrelationID]; bad {
            result.Failed = append(result.Failed, FailedEntry{CorrelationID: e.CorrelationID, Reason: reason})
            continue
        }
        t.sent[queue] = append(t.sent[queue], e)
        result.Succeeded = append(result.Succeeded, e.CorrelationID)
    }
    return result, nil
}

// Sent returns everything delivered to the queue so far.
func (t *InMemoryTransport) Sent(queue string) []Entry {
    t.mu.Lock()
    defer t.mu.Unlock()
    out := make([]Entry, len(t.sent[queue]))
    copy(out, t.sent[queue])
    return out
}

// CallSizes returns the entry count of each SendBatch call in order.
func (t *InMemoryTransport) CallSizes() []int {
    t.mu.Lock()
    defer t.mu.Unlock()
    out := make([]int, len(t.calls))
    copy(out, t.calls)
    return out
}

var _ Transport = (*InMemoryTransport)(nil)
