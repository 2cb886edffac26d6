package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"howdy-portal-be/internal/config"
	"howdy-portal-be/internal/dto"
	"howdy-portal-be/internal/pkg/logger"
	"howdy-portal-be/internal/repository/contract"
	"howdy-portal-be/internal/repository/memory"
	"howdy-portal-be/pkg/events"
	"howdy-portal-be/pkg/portal"

	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
	ch     chan events.Event
}

func newRecordingPublisher() *recordingPublisher {
	return &recordingPublisher{ch: make(chan events.Event, 64)}
}

func (p *recordingPublisher) Publish(_ context.Context, e events.Event) {
	p.mu.Lock()
	p.events = append(p.events, e)
	p.mu.Unlock()
	p.ch <- e
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.EventType())
	}
	return out
}

func (p *recordingPublisher) waitFor(t *testing.T, eventType string) events.Event {
	t.Helper()
	timeout := time.After(2 * time.Second)
	for {
		select {
		case e := <-p.ch:
			if e.EventType() == eventType {
				return e
			}
		case <-timeout:
			t.Fatalf("event %s was not published", eventType)
			return nil
		}
	}
}

// cannedCompleter answers every prompt with the same text.
type cannedCompleter struct {
	mu      sync.Mutex
	reply   string
	prompts []string
	systems []string
}

func (c *cannedCompleter) Complete(_ context.Context, prompt, systemInstruction string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.prompts = append(c.prompts, prompt)
	c.systems = append(c.systems, systemInstruction)
	return c.reply
}

// blockingCompleter holds each call until the test releases it, standing in
// for a slow AI endpoint.
type blockingCompleter struct {
	started chan struct{}
	release chan string
}

func newBlockingCompleter() *blockingCompleter {
	return &blockingCompleter{started: make(chan struct{}, 1), release: make(chan string, 1)}
}

func (c *blockingCompleter) Complete(ctx context.Context, _, _ string) string {
	c.started <- struct{}{}
	select {
	case r := <-c.release:
		return r
	case <-ctx.Done():
		return "cancelled"
	}
}

func (c *blockingCompleter) waitStarted(t *testing.T) {
	t.Helper()
	select {
	case <-c.started:
	case <-time.After(2 * time.Second):
		t.Fatal("completer was never called")
	}
}

type channelDelivery struct {
	ch chan dto.ChatReplyPush
}

func (d *channelDelivery) DeliverChatReply(_ string, push dto.ChatReplyPush) {
	d.ch <- push
}

type harness struct {
	sessions  *memory.SessionRepository
	publisher *recordingPublisher
	auth      IAuthService
}

func newHarness() *harness {
	sessions := memory.NewSessionRepository(time.Hour)
	pub := newRecordingPublisher()
	return &harness{
		sessions:  sessions,
		publisher: pub,
		auth: NewAuthService(sessions, pub, config.AuthConfig{
			JwtSecret:   "test",
			TokenExpiry: time.Hour,
		}),
	}
}

func (h *harness) login(t *testing.T, username string) string {
	t.Helper()
	res, err := h.auth.Login(context.Background(), &dto.LoginRequest{Username: username})
	require.NoError(t, err)
	return res.State.SessionId
}

func nopLogger() logger.ILogger { return logger.NewNopLogger() }

var errStoreDown = errors.New("redis: i/o timeout")

// flakyRepo fails the nth Update call (1-based) with errStoreDown and passes
// every other call through.
type flakyRepo struct {
	contract.SessionRepository

	mu     sync.Mutex
	calls  int
	failOn int
}

func newFlakyRepo(inner contract.SessionRepository, failOn int) *flakyRepo {
	return &flakyRepo{SessionRepository: inner, failOn: failOn}
}

func (r *flakyRepo) Update(ctx context.Context, sessionID string, fn func(portal.State) (portal.State, error)) (portal.State, error) {
	r.mu.Lock()
	r.calls++
	n := r.calls
	r.mu.Unlock()

	if n == r.failOn {
		return portal.State{}, errStoreDown
	}
	return r.SessionRepository.Update(ctx, sessionID, fn)
}
