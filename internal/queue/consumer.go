package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"

	"github.com/iliyamo/wedding-marketplace/internal/logging"
)

// LogFile is the audit log the consumer appends to inside its directory.
const LogFile = "reservations.log"

// Consumer reads reservation events and appends one line per event to
// LogDir/reservations.log.
type Consumer struct {
	URL    string
	Queue  string
	LogDir string
	Logger zerolog.Logger

	maxBackoff time.Duration
}

// NewConsumer returns a Consumer for the given broker, queue and log
// directory.
func NewConsumer(url, queue, logDir string, logger zerolog.Logger) *Consumer {
	return &Consumer{URL: url, Queue: queue, LogDir: logDir, Logger: logger, maxBackoff: 30 * time.Second}
}

// Run connects to the broker and consumes until ctx is cancelled.  Dial
// failures back off exponentially; a dropped connection is re-established.
func (c *Consumer) Run(ctx context.Context) error {
	backoff := time.Second
	for {
		conn, err := amqp.Dial(c.URL)
		if err != nil {
			c.Logger.Warn().Err(err).Dur("retry_in", backoff).Msg("consumer: dial failed")
			if !sleep(ctx, backoff) {
				return ctx.Err()
			}
			if backoff < c.maxBackoff {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		err = c.consume(ctx, conn)
		_ = conn.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		c.Logger.Warn().Err(err).Msg("consumer: loop ended, reconnecting")
		if !sleep(ctx, 2*time.Second) {
			return ctx.Err()
		}
	}
}

func (c *Consumer) consume(ctx context.Context, conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		c.Logger.Warn().Err(err).Msg("consumer: set QoS failed")
	}
	if _, err := ch.QueueDeclare(c.Queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	msgs, err := ch.Consume(c.Queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}
	c.Logger.Info().Str("queue", c.Queue).Msg("consumer: waiting for events")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-msgs:
			if !ok {
				return errors.New("deliveries channel closed")
			}
			if err := c.Handle(d.Body); err != nil {
				c.Logger.Error().Err(err).Msg("consumer: handle message failed")
				// reject without requeue to avoid a poison-message loop
				_ = d.Nack(false, false)
				continue
			}
			_ = d.Ack(false)
		}
	}
}

// Handle decodes one message body and appends it to the audit log.
func (c *Consumer) Handle(body []byte) error {
	var ev ReservationEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	if ev.Type == "" || ev.ReservationID == 0 {
		return errors.New("event without type or reservation id")
	}
	if err := os.MkdirAll(c.LogDir, 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", c.LogDir, err)
	}
	f, err := os.OpenFile(filepath.Join(c.LogDir, LogFile), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(FormatEvent(ev) + "\n"); err != nil {
		return fmt.Errorf("write log: %w", err)
	}
	c.Logger.Debug().Str(logging.EVENT, ev.Type).Uint64(logging.RESERVATION, ev.ReservationID).Msg("consumer: event logged")
	return nil
}

// FormatEvent renders ev as one human-readable line.
func FormatEvent(ev ReservationEvent) string {
	from := ev.PreviousStatus
	if from == "" {
		from = "-"
	}
	return fmt.Sprintf("[%s] %s | reservation_id=%d | couple_id=%d | vendor_profile_id=%d | service_id=%d | status=%s->%s | event_date=%s | total=%.2f | event_id=%s",
		ev.OccurredAt, ev.Type, ev.ReservationID, ev.CoupleID, ev.VendorProfileID, ev.ServiceID,
		from, ev.Status, ev.EventDate, ev.TotalPrice, ev.EventID)
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
