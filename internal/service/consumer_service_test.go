package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"howdy-portal-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingForwarder struct {
	mu  sync.Mutex
	got []events.Event
}

func (f *recordingForwarder) Publish(_ context.Context, e events.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.got = append(f.got, e)
	return nil
}

func (f *recordingForwarder) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.got)
}

func TestPublisherToConsumer_ForwardsEvents(t *testing.T) {
	bus := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	defer bus.Close()

	forwarder := &recordingForwarder{}
	consumer := NewConsumerService(bus, "PORTAL_EVENTS", forwarder, nopLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, consumer.Consume(ctx))

	publisher := NewPublisherService("PORTAL_EVENTS", bus, nopLogger())
	publisher.Publish(ctx, events.New(events.TypeThemeChanged, map[string]interface{}{"theme": "dark"}))

	require.Eventually(t, func() bool { return forwarder.count() == 1 }, 2*time.Second, 10*time.Millisecond)

	forwarder.mu.Lock()
	defer forwarder.mu.Unlock()
	assert.Equal(t, events.TypeThemeChanged, forwarder.got[0].EventType())
	assert.Equal(t, "dark", forwarder.got[0].Payload()["theme"])
}
