package chatbot

import (
	"context"
	"errors"

	"howdy-portal-be/internal/constant"
	"howdy-portal-be/internal/pkg/logger"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Completer turns a prompt into displayable text.
type Completer interface {
	Complete(ctx context.Context, prompt, systemInstruction string) string
}

// Gateway wraps a Transport with bounded retry. It keeps no per-call state
// and is safe for concurrent use.
type Gateway struct {
	transport Transport
	policy    RetryPolicy
	sleeper   Sleeper
	logger    logger.ILogger
	tracer    trace.Tracer
}

var _ Completer = (*Gateway)(nil)

var errAttemptsExhausted = errors.New("ai endpoint: attempts exhausted")

type GatewayOption func(*Gateway)

func WithRetryPolicy(p RetryPolicy) GatewayOption {
	return func(g *Gateway) {
		g.policy = p
	}
}

func WithSleeper(s Sleeper) GatewayOption {
	return func(g *Gateway) {
		g.sleeper = s
	}
}

func NewGateway(transport Transport, log logger.ILogger, opts ...GatewayOption) *Gateway {
	g := &Gateway{
		transport: transport,
		policy:    DefaultRetryPolicy(),
		sleeper:   timerSleeper{},
		logger:    log,
		tracer:    otel.Tracer("howdy-portal-be/chatbot"),
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.policy.MaxAttempts < 1 {
		g.policy.MaxAttempts = 1
	}
	return g
}

// Complete never fails: transport trouble becomes the connectivity
// fallback and an empty reply becomes the themed fallback.
func (g *Gateway) Complete(ctx context.Context, prompt, systemInstruction string) string {
	ctx, span := g.tracer.Start(ctx, "chatbot.Complete")
	defer span.End()

	req := NewGeminiChatRequest(prompt, systemInstruction)

	var (
		res     *GeminiChatResponse
		lastErr error
		attempt = 1
		state   = stateAttempting
	)

	for {
		switch state {
		case stateAttempting:
			span.AddEvent("attempt", trace.WithAttributes(attribute.Int("attempt", attempt)))
			r, err := g.transport.GenerateContent(ctx, req)
			if err == nil {
				res = r
				state = stateSucceeded
				continue
			}
			lastErr = err
			g.logger.Warn("Gateway", "AI attempt failed", map[string]interface{}{
				"attempt": attempt,
				"error":   err.Error(),
			})
			if attempt >= g.policy.MaxAttempts {
				state = stateExhausted
			} else {
				state = stateBackoff
			}

		case stateBackoff:
			if err := g.sleeper.Sleep(ctx, g.policy.delayAfter(attempt)); err != nil {
				lastErr = err
				state = stateExhausted
				continue
			}
			attempt++
			state = stateAttempting

		case stateSucceeded:
			span.SetAttributes(attribute.Int("attempts", attempt))
			text, ok := res.FirstText()
			if !ok {
				g.logger.Warn("Gateway", "AI response carried no text", map[string]interface{}{"attempts": attempt})
				return constant.EmptyReplyFallback
			}
			return text

		case stateExhausted:
			return g.exhausted(span, attempt, lastErr)
		}
	}
}

// exhausted records the final failure and returns the connectivity fallback.
func (g *Gateway) exhausted(span trace.Span, attempts int, lastErr error) string {
	if lastErr == nil {
		lastErr = errAttemptsExhausted
	}
	span.SetAttributes(attribute.Int("attempts", attempts))
	span.RecordError(lastErr)
	span.SetStatus(codes.Error, "ai endpoint unavailable")
	g.logger.Error("Gateway", "AI endpoint failed after retries", map[string]interface{}{
		"attempts": attempts,
		"error":    lastErr.Error(),
	})
	return constant.ConnectivityFallback
}
