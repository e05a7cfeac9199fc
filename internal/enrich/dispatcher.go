// internal/enrich/dispatcher.go
package enrich

import (
    "context"
    "encoding/json"
    "log"
    "sync"
    "time"

    "github.com/google/uuid"
    "golang.org/x/sync/errgroup"

    appErrors "github.com/leadloop/outreach-backend/internal/errors"
)

// Low-priority messages stay invisible this long so bulk enrichment never
// crowds out interactive work.
const lowPriorityDelaySeconds = 30

const defaultSendTimeout = 10 * time.Second

// Config maps message channels to queue destinations. An empty name disables
// that channel: dispatch becomes a logged no-op, enrichment is best effort.
type Config struct {
    EmailQueue   string
    ProfileQueue string
}

// BatchReport aggregates per-message outcomes across every chunk of a
// DispatchBatch call. Failed ids are exactly the set to retry.
type BatchReport struct {
    Succeeded []string
    Failed    []FailedEntry
    Skipped   []string
}

// Dispatcher builds and sends enrichment messages. Fire and forget from the
// caller's perspective: nothing here blocks on the consumer.
type Dispatcher struct {
    Transport   Transport
    Config      Config
    SendTimeout time.Duration
}

func NewDispatcher(transport Transport, cfg Config) *Dispatcher {
    return &Dispatcher{Transport: transport, Config: cfg, SendTimeout: defaultSendTimeout}
}

func (d *Dispatcher) queueFor(msgType string) string {
    switch msgType {
    case TypeEmailEnrichment:
        return d.Config.EmailQueue
    case TypeProfileEnrichment:
        return d.Config.ProfileQueue
    }
    return ""
}

func correlationID(m Message) string {
    if m.EnrolledContactID != "" {
        return m.EnrolledContactID
    }
    return uuid.NewString()
}

func (d *Dispatcher) entry(m Message) (Entry, error) {
    body, err := json.Marshal(m)
    if err != nil {
        return Entry{}, err
    }
    delay := 0
    if m.Priority == PriorityLow {
        delay = lowPriorityDelaySeconds
    }
    return Entry{
        CorrelationID: correlationID(m),
        Body:          body,
        Priority:      m.Priority,
        DelaySeconds:  delay,
    }, nil
}

// Dispatch sends one message. An unconfigured channel is a no-op.
func (d *Dispatcher) Dispatch(ctx context.Context, m Message) error {
    queue := d.queueFor(m.Type)
    if queue == "" {
        log.Printf("⚠️ no queue configured for %s, skipping enrichment for contact %s\n", m.Type, m.EnrolledContactID)
        return nil
    }

    e, err := d.entry(m)
    if err != nil {
        return err
    }

    sendCtx, cancel := context.WithTimeout(ctx, d.SendTimeout)
    defer cancel()

    result, err := d.Transport.SendBatch(sendCtx, queue, []Entry{e})
    if err != nil {
        return appErrors.NewTransientTransport([]string{e.CorrelationID}, err)
    }
    if len(result.Failed) > 0 {
        return appErrors.NewTransientTransport([]string{result.Failed[0].CorrelationID}, nil)
    }
    return nil
}

// DispatchBatch partitions messages by channel, chunks each partition to the
// transport's 10-entry ceiling, and sends chunks concurrently. One failing
// chunk never blocks the others; the report names every undelivered
// correlation id.
func (d *Dispatcher) DispatchBatch(ctx context.Context, msgs []Message) (*BatchReport, error) {
    report := &BatchReport{}
    if len(msgs) == 0 {
        return report, nil
    }

    type chunk struct {
        queue   string
        entries []Entry
    }
    var chunks []chunk
    byQueue := make(map[string][]Entry)

    for _, m := range msgs {
        queue := d.queueFor(m.Type)
        if queue == "" {
            log.Printf("⚠️ no queue configured for %s, skipping enrichment for contact %s\n", m.Type, m.EnrolledContactID)
            report.Skipped = append(report.Skipped, correlationID(m))
            continue
        }
        e, err := d.entry(m)
        if err != nil {
            report.Failed = append(report.Failed, FailedEntry{CorrelationID: correlationID(m), Reason: err.Error()})
            continue
        }
        byQueue[queue] = append(byQueue[queue], e)
    }

    for queue, entries := range byQueue {
        for start := 0; start < len(entries); start += MaxBatchSize {
            end := start + MaxBatchSize
            if end > len(entries) {
                end = len(entries)
            }
            chunks = append(chunks, chunk{queue: queue, entries: entries[start:end]})
        }
    }

    var mu sync.Mutex
    g := new(errgroup.Group)

    for _, c := range chunks {
        c := c
        g.Go(func() error {
            sendCtx, cancel := context.WithTimeout(ctx, d.SendTimeout)
            defer cancel()

            result, err := d.Transport.SendBatch(sendCtx, c.queue, c.entries)

            mu.Lock()
            defer mu.Unlock()
            if err != nil {
                // Whole chunk undelivered. Report every id so the caller can
                // retry; do not fail the group, other chunks proceed.
                for _, e := range c.entries {
                    report.Failed = append(report.Failed, FailedEntry{CorrelationID: e.CorrelationID, Reason: err.Error()})
                }
                return nil
            }
            report.Succeeded = append(report.Succeeded, result.Succeeded...)
            report.Failed = append(report.Failed, result.Failed...)
            return nil
        })
    }

    _ = g.Wait()

    if len(report.Failed) > 0 {
        log.Printf("⚠️ enrichment dispatch: %d delivered, %d failed\n", len(report.Succeeded), len(report.Failed))
    }
    return report, nil
}
