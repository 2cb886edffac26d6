package service

import (
	"context"
	"errors"
	"time"

	"howdy-portal-be/internal/constant"
	"howdy-portal-be/internal/dto"
	"howdy-portal-be/internal/mapper"
	"howdy-portal-be/internal/pkg/logger"
	"howdy-portal-be/internal/repository/contract"
	"howdy-portal-be/pkg/chatbot"
	"howdy-portal-be/pkg/events"
	"howdy-portal-be/pkg/portal"
)

// asyncReplyTimeout bounds a detached reply. The gateway's own schedule
// finishes well inside it.
const asyncReplyTimeout = 2 * time.Minute

// releaseTimeout bounds the update that clears a pending flag after the
// reply could not be stored.
const releaseTimeout = 5 * time.Second

// ReplyDelivery pushes an async chat reply to the session's open sockets.
type ReplyDelivery interface {
	DeliverChatReply(sessionID string, push dto.ChatReplyPush)
}

type IChatService interface {
	Open(ctx context.Context, sessionID string) (*dto.PortalStateResponse, error)
	Close(ctx context.Context, sessionID string) (*dto.PortalStateResponse, error)
	// SendMessage waits for the reply.
	SendMessage(ctx context.Context, sessionID string, req *dto.SendChatRequest) (*dto.SendChatResponse, error)
	// SendMessageAsync returns once the user message is recorded; the reply
	// arrives through ReplyDelivery.
	SendMessageAsync(ctx context.Context, sessionID string, req *dto.SendChatRequest) (*dto.SendChatResponse, error)
}

type chatService struct {
	sessions  contract.SessionRepository
	completer chatbot.Completer
	delivery  ReplyDelivery
	publisher IPublisherService
	mapper    *mapper.PortalMapper
	logger    logger.ILogger
}

func NewChatService(
	sessions contract.SessionRepository,
	completer chatbot.Completer,
	delivery ReplyDelivery,
	publisher IPublisherService,
	log logger.ILogger,
) IChatService {
	return &chatService{
		sessions:  sessions,
		completer: completer,
		delivery:  delivery,
		publisher: publisher,
		mapper:    mapper.NewPortalMapper(),
		logger:    log,
	}
}

func (s *chatService) Open(ctx context.Context, sessionID string) (*dto.PortalStateResponse, error) {
	return s.setOpen(ctx, sessionID, true)
}

func (s *chatService) Close(ctx context.Context, sessionID string) (*dto.PortalStateResponse, error) {
	return s.setOpen(ctx, sessionID, false)
}

func (s *chatService) setOpen(ctx context.Context, sessionID string, open bool) (*dto.PortalStateResponse, error) {
	state, err := s.sessions.Update(ctx, sessionID, func(cur portal.State) (portal.State, error) {
		return portal.SetChatOpen(cur, open), nil
	})
	if err != nil {
		return nil, err
	}
	return s.mapper.ToStateResponse(state), nil
}

func (s *chatService) SendMessage(ctx context.Context, sessionID string, req *dto.SendChatRequest) (*dto.SendChatResponse, error) {
	started, err := s.begin(ctx, sessionID, req.Chat)
	if err != nil {
		return nil, err
	}

	reply := s.completer.Complete(ctx, req.Chat, constant.ChatSystemInstruction)
	return s.finish(ctx, sessionID, started.Epoch, reply)
}

func (s *chatService) SendMessageAsync(ctx context.Context, sessionID string, req *dto.SendChatRequest) (*dto.SendChatResponse, error) {
	started, err := s.begin(ctx, sessionID, req.Chat)
	if err != nil {
		return nil, err
	}
	epoch := started.Epoch

	// The request context dies with the HTTP exchange, so the reply runs
	// on its own.
	go func(text string) {
		bg, cancel := context.WithTimeout(context.Background(), asyncReplyTimeout)
		defer cancel()

		reply := s.completer.Complete(bg, text, constant.ChatSystemInstruction)
		res, err := s.finish(bg, sessionID, epoch, reply)
		if err != nil {
			s.logger.Error("Chat", "Failed to store async reply", map[string]interface{}{
				"session_id": sessionID,
				"error":      err.Error(),
			})
			return
		}
		if res.Discarded || s.delivery == nil {
			return
		}
		s.delivery.DeliverChatReply(sessionID, dto.ChatReplyPush{
			SessionId:  sessionID,
			Reply:      *res.Reply,
			Transcript: res.Transcript,
		})
	}(req.Chat)

	return &dto.SendChatResponse{
		Pending:    true,
		Transcript: s.mapper.ToTranscript(started.Transcript),
	}, nil
}

// begin records the user message. The returned state's epoch is the one
// the reply belongs to.
func (s *chatService) begin(ctx context.Context, sessionID, text string) (portal.State, error) {
	return s.sessions.Update(ctx, sessionID, func(cur portal.State) (portal.State, error) {
		return portal.BeginChat(cur, text)
	})
}

// finish appends the reply unless the session moved on since begin. A stale
// reply is dropped without surfacing an error.
func (s *chatService) finish(ctx context.Context, sessionID string, epoch uint64, reply string) (*dto.SendChatResponse, error) {
	state, err := s.sessions.Update(ctx, sessionID, func(cur portal.State) (portal.State, error) {
		return portal.CompleteChat(cur, epoch, reply)
	})

	switch {
	case errors.Is(err, portal.ErrStaleSession), errors.Is(err, contract.ErrSessionNotFound):
		s.logger.Info("Chat", "Discarded reply for reset session", map[string]interface{}{
			"session_id": sessionID,
			"epoch":      epoch,
		})
		s.publisher.Publish(ctx, events.New(events.TypeChatDiscarded, map[string]interface{}{
			"session_id": sessionID,
			"epoch":      epoch,
		}))
		return &dto.SendChatResponse{
			Discarded:  true,
			Transcript: s.mapper.ToTranscript(state.Transcript),
		}, nil
	case err != nil:
		s.release(ctx, sessionID, epoch)
		return nil, err
	}

	last := s.mapper.ToChatMessage(state.Transcript[len(state.Transcript)-1])
	s.publisher.Publish(ctx, events.New(events.TypeChatCompleted, map[string]interface{}{
		"session_id":  sessionID,
		"reply_chars": len(reply),
	}))

	return &dto.SendChatResponse{
		Reply:      &last,
		Transcript: s.mapper.ToTranscript(state.Transcript),
	}, nil
}

// release clears ChatPending so the session can chat again. It runs even if
// ctx is already done.
func (s *chatService) release(ctx context.Context, sessionID string, epoch uint64) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), releaseTimeout)
	defer cancel()

	_, err := s.sessions.Update(ctx, sessionID, func(cur portal.State) (portal.State, error) {
		return portal.AbortChat(cur, epoch)
	})
	if err != nil && !errors.Is(err, portal.ErrStaleSession) && !errors.Is(err, contract.ErrSessionNotFound) {
		s.logger.Error("Chat", "Failed to release pending chat", map[string]interface{}{
			"session_id": sessionID,
			"error":      err.Error(),
		})
	}
}
