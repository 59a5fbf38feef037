package mq

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
)

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(discard{}, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}

// fakeAcknowledger фиксирует ack/nack вместо обращения к брокеру.
type fakeAcknowledger struct {
	acked   bool
	nacked  bool
	requeue bool
}

func (a *fakeAcknowledger) Ack(tag uint64, multiple bool) error { a.acked = true; return nil }

func (a *fakeAcknowledger) Nack(tag uint64, multiple, requeue bool) error {
	a.nacked = true
	a.requeue = requeue
	return nil
}

func (a *fakeAcknowledger) Reject(tag uint64, requeue bool) error {
	a.nacked = true
	a.requeue = requeue
	return nil
}

func testConsumer(handler Handler) *Consumer {
	return NewConsumer(nil, testLogger(), ConsumerConfig{
		Queue:   QueueExecutionsFinished,
		Handler: handler,
	})
}

func TestNewConsumerDefaults(t *testing.T) {
	c := testConsumer(nil)

	if c.queue != string(QueueExecutionsFinished) {
		t.Errorf("queue = %q, want %q", c.queue, QueueExecutionsFinished)
	}
	if c.prefetch != 1 {
		t.Errorf("prefetch = %d, want 1", c.prefetch)
	}
}

func TestHandleDeliveryAcksOnSuccess(t *testing.T) {
	called := false
	c := testConsumer(func(ctx context.Context, msg *Delivery) error {
		called = true
		if msg.Message.ID != "msg-1" {
			t.Errorf("message id = %q, want msg-1", msg.Message.ID)
		}
		return nil
	})

	ack := &fakeAcknowledger{}
	c.handleDelivery(context.Background(), amqp.Delivery{
		Acknowledger: ack,
		Body:         []byte(`{"id":"msg-1","type":"execution.finished","payload":{}}`),
	})

	if !called {
		t.Fatal("handler was not called")
	}
	if !ack.acked || ack.nacked {
		t.Errorf("acked = %v, nacked = %v, want ack only", ack.acked, ack.nacked)
	}
}

func TestHandleDeliveryRequeuesFirstFailure(t *testing.T) {
	c := testConsumer(func(ctx context.Context, msg *Delivery) error {
		return errors.New("transient failure")
	})

	ack := &fakeAcknowledger{}
	c.handleDelivery(context.Background(), amqp.Delivery{
		Acknowledger: ack,
		Body:         []byte(`{"id":"msg-1","type":"execution.finished","payload":{}}`),
	})

	if !ack.nacked || !ack.requeue {
		t.Errorf("nacked = %v, requeue = %v, want requeue on first failure", ack.nacked, ack.requeue)
	}
}

func TestHandleDeliveryDeadLettersRedelivered(t *testing.T) {
	c := testConsumer(func(ctx context.Context, msg *Delivery) error {
		return errors.New("persistent failure")
	})

	ack := &fakeAcknowledger{}
	c.handleDelivery(context.Background(), amqp.Delivery{
		Acknowledger: ack,
		Redelivered:  true,
		Body:         []byte(`{"id":"msg-1","type":"execution.finished","payload":{}}`),
	})

	if !ack.nacked || ack.requeue {
		t.Errorf("nacked = %v, requeue = %v, want dead-letter on redelivery", ack.nacked, ack.requeue)
	}
}

func TestHandleDeliveryDeadLettersMalformedBody(t *testing.T) {
	c := testConsumer(func(ctx context.Context, msg *Delivery) error {
		t.Fatal("handler must not run for a malformed body")
		return nil
	})

	ack := &fakeAcknowledger{}
	c.handleDelivery(context.Background(), amqp.Delivery{
		Acknowledger: ack,
		Body:         []byte(`not json`),
	})

	if !ack.nacked || ack.requeue {
		t.Errorf("nacked = %v, requeue = %v, want dead-letter without requeue", ack.nacked, ack.requeue)
	}
}
