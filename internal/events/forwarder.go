package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog/log"
)

const (
	maxPublishAttempts = 5
	publishTimeout     = 5 * time.Second
)

// Publisher publishes messages to an AMQP exchange. *amqp091.Channel
// implements it.
type Publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error
}

// Forwarder copies events from a subscription to a topic exchange. The
// routing key is the scope of the event, e.g. "group.<id>".
type Forwarder struct {
	publisher Publisher
	exchange  string
	closers   []func() error

	// backoff returns the wait time before the given retry
	backoff func(attempt int) time.Duration
}

// NewForwarder returns a Forwarder publishing through p.
func NewForwarder(p Publisher, exchange string) *Forwarder {
	return &Forwarder{
		publisher: p,
		exchange:  exchange,
		backoff:   exponentialBackoff,
	}
}

// DialForwarder connects to the broker and declares the exchange.
func DialForwarder(url, exchange string) (*Forwarder, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	err = channel.ExchangeDeclare(
		exchange, // name
		"topic",  // type
		true,     // durable
		false,    // auto-deleted
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	f := NewForwarder(channel, exchange)
	f.closers = []func() error{channel.Close, conn.Close}

	return f, nil
}

// Run forwards events until the context ends or the subscription is closed.
//
// Events that cannot be published after several attempts are logged and
// skipped. Receivers re-fetch on the next event of the same resource.
func (f *Forwarder) Run(ctx context.Context, sub *Subscription) error {
	defer sub.Close()

	for {
		e, err := sub.Next(ctx)
		if errors.Is(err, ErrSubscriptionClosed) {
			return nil
		}
		if err != nil {
			return err
		}

		if err := f.forward(ctx, e); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}

			log.Error().Err(err).Uint64("sequence", e.Sequence).Str("scope", string(e.Scope)).Msg("dropping event after failed publish attempts")
		}
	}
}

func (f *Forwarder) forward(ctx context.Context, e Event) error {
	body, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	msg := amqp091.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp091.Persistent,
		Timestamp:    e.OccurredAt,
		Type:         string(e.Kind),
		MessageId:    fmt.Sprintf("%d", e.Sequence),
		Body:         body,
	}

	for attempt := 0; ; attempt++ {
		err = f.publish(ctx, e.Scope.RoutingKey(), msg)
		if err == nil {
			log.Debug().Uint64("sequence", e.Sequence).Str("exchange", f.exchange).Str("key", e.Scope.RoutingKey()).Msg("forwarded event")
			return nil
		}

		if attempt+1 >= maxPublishAttempts {
			return fmt.Errorf("publish message: %w", err)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(f.backoff(attempt)):
		}
	}
}

func (f *Forwarder) publish(ctx context.Context, key string, msg amqp091.Publishing) error {
	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	return f.publisher.PublishWithContext(
		ctx,
		f.exchange, // exchange
		key,        // routing key
		false,      // mandatory
		false,      // immediate
		msg,
	)
}

// Close closes the channel and connection opened by DialForwarder.
func (f *Forwarder) Close() error {
	var errs []error
	for _, c := range f.closers {
		if err := c(); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// exponentialBackoff doubles the wait time per attempt, capped at 30 seconds.
func exponentialBackoff(attempt int) time.Duration {
	d := time.Second << attempt
	if d > 30*time.Second || d <= 0 {
		return 30 * time.Second
	}
	return d
}
