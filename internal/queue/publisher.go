package queue

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/iliyamo/room-booking-grid/internal/telemetry"
)

// Publisher delivers booking events.  Callers treat failures as best effort.
type Publisher interface {
	Publish(ctx context.Context, ev BookingEvent) error
}

// Nop discards events.  It is used when no broker is configured.
type Nop struct{}

// Publish implements Publisher.
func (Nop) Publish(context.Context, BookingEvent) error { return nil }

// AMQPPublisher publishes events as persistent JSON messages on a durable
// queue through the default exchange.  Each publish opens its own
// connection so a broker outage never wedges the caller.
type AMQPPublisher struct {
	url    string
	queue  string
	logger *slog.Logger
}

// NewAMQPPublisher returns a publisher for the broker at url.
func NewAMQPPublisher(url, queue string, logger *slog.Logger) *AMQPPublisher {
	if queue == "" {
		queue = DefaultQueue
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &AMQPPublisher{url: url, queue: queue, logger: logger.With("component", "publisher")}
}

// Publish sends ev.  The current trace context travels in the message
// headers.  Errors are logged and returned.
func (p *AMQPPublisher) Publish(ctx context.Context, ev BookingEvent) error {
	ctx, span := otel.Tracer("queue").Start(ctx, p.queue+" publish", trace.WithSpanKind(trace.SpanKindProducer))
	defer span.End()

	conn, err := amqp.Dial(p.url)
	if err != nil {
		p.logger.Warn("dial failed", "err", err)
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		p.logger.Warn("channel open failed", "err", err)
		return err
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(p.queue, true, false, false, false, nil); err != nil {
		p.logger.Warn("queue declare failed", "queue", p.queue, "err", err)
		return err
	}

	body, err := json.Marshal(ev)
	if err != nil {
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Type:         ev.Type,
		Body:         body,
		Headers:      headerTable(telemetry.Inject(ctx)),
	}
	if err := ch.PublishWithContext(ctx, "", p.queue, false, false, pub); err != nil {
		span.RecordError(err)
		p.logger.Warn("publish failed", "type", ev.Type, "booking_id", ev.BookingID, "err", err)
		return err
	}
	p.logger.Debug("published", "type", ev.Type, "booking_id", ev.BookingID)
	return nil
}

func headerTable(h map[string]string) amqp.Table {
	if len(h) == 0 {
		return nil
	}
	t := make(amqp.Table, len(h))
	for k, v := range h {
		t[k] = v
	}
	return t
}

func headerMap(t amqp.Table) map[string]string {
	m := make(map[string]string, len(t))
	for k, v := range t {
		if s, ok := v.(string); ok {
			m[k] = s
		}
	}
	return m
}
