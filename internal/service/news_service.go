package service

import (
	"context"
	"errors"

	"howdy-portal-be/internal/dto"
	"howdy-portal-be/internal/repository/contract"
	"howdy-portal-be/pkg/chatbot"
	"howdy-portal-be/pkg/events"
	"howdy-portal-be/pkg/news"
	"howdy-portal-be/pkg/portal"
)

type INewsService interface {
	List(ctx context.Context) []news.Item
	// ToggleBrief hides a shown brief, or generates and shows one.
	ToggleBrief(ctx context.Context, sessionID string, index int) (*dto.BriefResponse, error)
}

type newsService struct {
	sessions  contract.SessionRepository
	completer chatbot.Completer
	publisher IPublisherService
}

func NewNewsService(sessions contract.SessionRepository, completer chatbot.Completer, publisher IPublisherService) INewsService {
	return &newsService{
		sessions:  sessions,
		completer: completer,
		publisher: publisher,
	}
}

func (s *newsService) List(_ context.Context) []news.Item {
	return news.Items()
}

func (s *newsService) ToggleBrief(ctx context.Context, sessionID string, index int) (*dto.BriefResponse, error) {
	item, ok := news.At(index)
	if !ok {
		return nil, ErrNewsNotFound
	}

	hidden := false
	started, err := s.sessions.Update(ctx, sessionID, func(cur portal.State) (portal.State, error) {
		if _, shown := cur.Briefs[index]; shown {
			hidden = true
			return portal.ClearBrief(cur, index), nil
		}
		if cur.LoadingBriefs[index] {
			return cur, ErrBriefInFlight
		}
		return portal.BeginBrief(cur, index), nil
	})
	if err != nil {
		return nil, err
	}
	if hidden {
		return &dto.BriefResponse{Index: index}, nil
	}

	// Briefs go out without a system instruction.
	text := s.completer.Complete(ctx, news.BriefPrompt(item), "")

	_, err = s.sessions.Update(ctx, sessionID, func(cur portal.State) (portal.State, error) {
		return portal.CompleteBrief(cur, started.Epoch, index, text)
	})
	if errors.Is(err, portal.ErrStaleSession) || errors.Is(err, contract.ErrSessionNotFound) {
		return &dto.BriefResponse{Index: index, Discarded: true}, nil
	}
	if err != nil {
		s.release(ctx, sessionID, started.Epoch, index)
		return nil, err
	}

	s.publisher.Publish(ctx, events.New(events.TypeBriefGenerated, map[string]interface{}{
		"session_id": sessionID,
		"headline":   item.Title,
	}))

	return &dto.BriefResponse{Index: index, Shown: true, Brief: text}, nil
}

// release stops index from showing as loading after its brief could not be
// stored, so the user can ask again.
func (s *newsService) release(ctx context.Context, sessionID string, epoch uint64, index int) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), releaseTimeout)
	defer cancel()

	_, _ = s.sessions.Update(ctx, sessionID, func(cur portal.State) (portal.State, error) {
		return portal.AbortBrief(cur, epoch, index)
	})
}
