package broker_test

import (
	"testing"
	"time"

	"github.com/iSubhamMani/airwave/broker"
	"github.com/stretchr/testify/assert"
)

func receiveOne(t *testing.T, ch <-chan any) any {
	t.Helper()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for message")
		return nil
	}
}

func TestPublishToSubscriber(t *testing.T) {
	t.Run("given subscriber when publish then message is received", func(t *testing.T) {
		brk := broker.New()
		sub := brk.Subscribe(broker.Room, broker.CREATE)

		assert.NoError(t, brk.Publish(broker.Room, broker.CREATE, "hello"))
		assert.Equal(t, "hello", receiveOne(t, sub.Receive()))
	})

	t.Run("given two subscribers when publish then both receive", func(t *testing.T) {
		brk := broker.New()
		first := brk.Subscribe(broker.Signal, broker.OFFER)
		second := brk.Subscribe(broker.Signal, broker.OFFER)

		assert.NoError(t, brk.Publish(broker.Signal, broker.OFFER, 42))
		assert.Equal(t, 42, receiveOne(t, first.Receive()))
		assert.Equal(t, 42, receiveOne(t, second.Receive()))
	})

	t.Run("given no subscriber when publish then message is dropped", func(t *testing.T) {
		brk := broker.New()
		assert.NoError(t, brk.Publish(broker.Room, broker.JOIN, "nobody home"))
	})

	t.Run("given different detail when publish then subscriber does not receive", func(t *testing.T) {
		brk := broker.New()
		sub := brk.Subscribe(broker.Room, broker.CREATE)

		assert.NoError(t, brk.Publish(broker.Room, broker.JOIN, "wrong detail"))
		select {
		case msg := <-sub.Receive():
			t.Fatalf("unexpected message: %v", msg)
		case <-time.After(50 * time.Millisecond):
		}
	})
}

func TestUnsubscribe(t *testing.T) {
	t.Run("given unsubscribed when publish then nothing is delivered", func(t *testing.T) {
		brk := broker.New()
		detail := broker.Detail("socket-1")
		sub := brk.Subscribe(broker.ClientSocket, detail)

		assert.True(t, brk.Has(broker.ClientSocket, detail))
		assert.NoError(t, brk.Unsubscribe(broker.ClientSocket, detail, sub))
		assert.False(t, brk.Has(broker.ClientSocket, detail))
		assert.NoError(t, brk.Publish(broker.ClientSocket, detail, "late"))
	})

	t.Run("given unknown detail when unsubscribe then no error", func(t *testing.T) {
		brk := broker.New()
		sub := brk.Subscribe(broker.Room, broker.CREATE)
		assert.NoError(t, brk.Unsubscribe(broker.Room, broker.END, sub))
	})
}
