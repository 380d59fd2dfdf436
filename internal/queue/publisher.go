package queue

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

// Publisher sends reservation events to a durable queue on the default
// exchange.  Each call dials the broker, so a broker outage only affects
// the calls made while it lasts.  Failures are logged and returned; callers
// treat them as best effort.
type Publisher struct {
	URL    string
	Queue  string
	Logger zerolog.Logger
}

// NewPublisher returns a Publisher for the given broker and queue.
func NewPublisher(url, queue string, logger zerolog.Logger) *Publisher {
	return &Publisher{URL: url, Queue: queue, Logger: logger}
}

// dialTimeout is used when ctx carries no deadline.  It matches amqp.Dial.
const dialTimeout = 30 * time.Second

// connectTimeout bounds the TCP dial and AMQP handshake by ctx's deadline.
func connectTimeout(ctx context.Context) (time.Duration, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	dl, ok := ctx.Deadline()
	if !ok {
		return dialTimeout, nil
	}
	d := time.Until(dl)
	if d <= 0 {
		return 0, context.DeadlineExceeded
	}
	return min(d, dialTimeout), nil
}

// Publish marshals ev and publishes it as a persistent message.  Connecting
// to the broker counts against ctx's deadline.
func (p *Publisher) Publish(ctx context.Context, ev ReservationEvent) error {
	timeout, err := connectTimeout(ctx)
	if err != nil {
		return err
	}
	conn, err := amqp.DialConfig(p.URL, amqp.Config{
		Heartbeat: 10 * time.Second,
		Locale:    "en_US",
		Dial:      amqp.DefaultDial(timeout),
	})
	if err != nil {
		p.Logger.Warn().Err(err).Msg("rabbitmq: dial failed")
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		p.Logger.Warn().Err(err).Msg("rabbitmq: channel open failed")
		return err
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(p.Queue, true, false, false, false, nil); err != nil {
		p.Logger.Warn().Err(err).Str("queue", p.Queue).Msg("rabbitmq: queue declare failed")
		return err
	}

	body, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    ev.EventID,
		Type:         ev.Type,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", p.Queue, false, false, msg); err != nil {
		p.Logger.Warn().Err(err).Str("event", ev.Type).Msg("rabbitmq: publish failed")
		return err
	}
	return nil
}

// Noop drops every event.  It stands in for Publisher when events are
// disabled.
type Noop struct{}

func (Noop) Publish(context.Context, ReservationEvent) error { return nil }
