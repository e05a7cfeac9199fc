// internal/enrich/amqp.go
package enrich

import (
    "context"
    "fmt"
    "sync"

    "github.com/streadway/amqp"
)

// amqp priority values per level, on the broker's 0-9 scale.
var amqpPriorities = map[string]uint8{
    PriorityHigh:   8,
    PriorityMedium: 4,
    PriorityLow:    1,
}

// AMQPTransport delivers entries to durable queues. Delay is carried in the
// x-delay header (milliseconds, consumed by the delayed-message exchange) and
// priority in the basic.properties priority field.
type AMQPTransport struct {
    mu       sync.Mutex
    channel  *amqp.Channel
    declared map[string]bool
}

func NewAMQPTransport(url string) (*AMQPTransport, error) {
    conn, err := amqp.Dial(url)
    if err != nil {
        return nil, fmt.Errorf("connect to broker: %w", err)
    }
    ch, err := conn.Channel()
    if err != nil {
        return nil, fmt.Errorf("open channel: %w", err)
    }
    return &AMQPTransport{channel: ch, declared: make(map[string]bool)}, nil
}

func (t *AMQPTransport) declare(queue string) error {
    if t.declared[queue] {
        return nil
    }
    _, err := t.channel.QueueDeclare(
        queue,
        true,  // durable
        false, // delete when unused
        false, // exclusive
        false, // no-wait
        amqp.Table{"x-max-priority": int32(9)},
    )
    if err != nil {
        return err
    }
    t.declared[queue] = true
    return nil
}

func (t *AMQPTransport) SendBatch(ctx context.Context, queue string, entries []Entry) (*BatchResult, error) {
    if len(entries) > MaxBatchSize {
        return nil, fmt.Errorf("batch of %d exceeds transport limit of %d", len(entries), MaxBatchSize)
    }

    t.mu.Lock()
    defer t.mu.Unlock()

    if err := t.declare(queue); err != nil {
        return nil, fmt.Errorf("declare queue %s: %w", queue, err)
    }

    result := &BatchResult{}
    for _, e := range entries {
        if err := ctx.Err(); err != nil {
            // Deadline hit mid batch; everything not yet published is
            // reported undelivered.
            result.Failed = append(result.Failed, FailedEntry{CorrelationID: e.CorrelationID, Reason: err.Error()})
            continue
        }

        pub := amqp.Publishing{
            ContentType:  "application/json",
            DeliveryMode: amqp.Persistent,
            MessageId:    e.CorrelationID,
            Priority:     amqpPriorities[e.Priority],
            Body:         e.Body,
        }
        if e.DelaySeconds > 0 {
            pub.Headers = amqp.Table{"x-delay": int64(e.DelaySeconds) * 1000}
        }

        if err := t.channel.Publish("", queue, false, false, pub); err != nil {
            result.Failed = append(result.Failed, FailedEntry{CorrelationID: e.CorrelationID, Reason: err.Error()})
            continue
        }
        result.Succeeded = append(result.Succeeded, e.CorrelationID)
    }
    return result, nil
}

var _ Transport = (*AMQPTransport)(nil)
