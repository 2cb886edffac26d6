package service

import (
	"context"
	"strings"

	"howdy-portal-be/internal/dto"
	"howdy-portal-be/internal/mapper"
	"howdy-portal-be/internal/repository/contract"
	"howdy-portal-be/pkg/events"
	"howdy-portal-be/pkg/navigation"
	"howdy-portal-be/pkg/news"
	"howdy-portal-be/pkg/portal"
	"howdy-portal-be/pkg/search"
)

type IPortalService interface {
	IsActive(ctx context.Context, sessionID string) bool
	GetState(ctx context.Context, sessionID string) (*dto.PortalStateResponse, error)
	Dashboard(ctx context.Context) *dto.DashboardResponse
	Search(ctx context.Context, sessionID string, req *dto.SearchRequest) (*dto.SearchResponse, error)
	SelectResult(ctx context.Context, sessionID string, req *dto.SelectResultRequest) (*dto.PortalStateResponse, error)
	Navigate(ctx context.Context, sessionID string, req *dto.NavigateRequest) (*dto.PortalStateResponse, error)
	ToggleMenu(ctx context.Context, sessionID, category string) (*dto.PortalStateResponse, error)
	ToggleSidebar(ctx context.Context, sessionID string) (*dto.PortalStateResponse, error)
	SetTheme(ctx context.Context, sessionID string, req *dto.SetThemeRequest) (*dto.PortalStateResponse, error)
	OpenModal(ctx context.Context, sessionID, name string) (*dto.PortalStateResponse, error)
	CloseModal(ctx context.Context, sessionID string) (*dto.PortalStateResponse, error)
}

type portalService struct {
	sessions   contract.SessionRepository
	publisher  IPublisherService
	mapper     *mapper.PortalMapper
	categories []navigation.Category
	synonyms   []navigation.SynonymEntry
}

func NewPortalService(
	sessions contract.SessionRepository,
	publisher IPublisherService,
	categories []navigation.Category,
	synonyms []navigation.SynonymEntry,
) IPortalService {
	return &portalService{
		sessions:   sessions,
		publisher:  publisher,
		mapper:     mapper.NewPortalMapper(),
		categories: categories,
		synonyms:   synonyms,
	}
}

// IsActive backs the JWT middleware: a token is only good while its
// session exists and is logged in.
func (s *portalService) IsActive(ctx context.Context, sessionID string) bool {
	state, err := s.sessions.Get(ctx, sessionID)
	return err == nil && state.LoggedIn
}

func (s *portalService) GetState(ctx context.Context, sessionID string) (*dto.PortalStateResponse, error) {
	state, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return s.mapper.ToStateResponse(state), nil
}

func (s *portalService) Dashboard(_ context.Context) *dto.DashboardResponse {
	return &dto.DashboardResponse{
		Categories: s.categories,
		QuickLinks: navigation.QuickLinks(),
		News:       news.Items(),
	}
}

func (s *portalService) Search(ctx context.Context, sessionID string, req *dto.SearchRequest) (*dto.SearchResponse, error) {
	state, err := s.sessions.Update(ctx, sessionID, func(cur portal.State) (portal.State, error) {
		return portal.SetQuery(cur, req.Query, s.categories, s.synonyms), nil
	})
	if err != nil {
		return nil, err
	}

	results := s.mapper.ToSearchResults(state.Results)
	return &dto.SearchResponse{
		Query:     state.Query,
		Results:   results,
		NoResults: strings.TrimSpace(state.Query) != "" && len(results) == 0,
	}, nil
}

// SelectResult only accepts a result the session's last search produced,
// so a client cannot navigate through a fabricated result.
func (s *portalService) SelectResult(ctx context.Context, sessionID string, req *dto.SelectResultRequest) (*dto.PortalStateResponse, error) {
	var picked search.Result
	state, err := s.sessions.Update(ctx, sessionID, func(cur portal.State) (portal.State, error) {
		r, ok := findResult(cur.Results, req.Title, req.TargetCategoryId)
		if !ok {
			return cur, ErrResultNotFound
		}
		picked = r
		return portal.SelectResult(cur, r, s.categories)
	})
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(ctx, events.New(events.TypeSearchSelected, map[string]interface{}{
		"session_id": sessionID,
		"kind":       string(picked.Kind),
		"title":      picked.Title,
		"category":   picked.TargetCategoryID,
	}))

	return s.mapper.ToStateResponse(state), nil
}

func findResult(results []search.Result, title, category string) (search.Result, bool) {
	for _, r := range results {
		if r.Title != title {
			continue
		}
		if category != "" && r.TargetCategoryID != category {
			continue
		}
		return r, true
	}
	return search.Result{}, false
}

func (s *portalService) Navigate(ctx context.Context, sessionID string, req *dto.NavigateRequest) (*dto.PortalStateResponse, error) {
	return s.apply(ctx, sessionID, func(cur portal.State) (portal.State, error) {
		return portal.Navigate(cur, req.Category, s.categories)
	})
}

func (s *portalService) ToggleMenu(ctx context.Context, sessionID, category string) (*dto.PortalStateResponse, error) {
	return s.apply(ctx, sessionID, func(cur portal.State) (portal.State, error) {
		return portal.ToggleMenu(cur, category, s.categories)
	})
}

func (s *portalService) ToggleSidebar(ctx context.Context, sessionID string) (*dto.PortalStateResponse, error) {
	return s.apply(ctx, sessionID, func(cur portal.State) (portal.State, error) {
		return portal.ToggleSidebar(cur), nil
	})
}

func (s *portalService) SetTheme(ctx context.Context, sessionID string, req *dto.SetThemeRequest) (*dto.PortalStateResponse, error) {
	res, err := s.apply(ctx, sessionID, func(cur portal.State) (portal.State, error) {
		return portal.SetTheme(cur, portal.Theme(req.Theme))
	})
	if err != nil {
		return nil, err
	}
	s.publisher.Publish(ctx, events.New(events.TypeThemeChanged, map[string]interface{}{
		"session_id": sessionID,
		"theme":      req.Theme,
	}))
	return res, nil
}

func (s *portalService) OpenModal(ctx context.Context, sessionID, name string) (*dto.PortalStateResponse, error) {
	return s.apply(ctx, sessionID, func(cur portal.State) (portal.State, error) {
		return portal.OpenModal(cur, portal.Modal(name))
	})
}

func (s *portalService) CloseModal(ctx context.Context, sessionID string) (*dto.PortalStateResponse, error) {
	return s.apply(ctx, sessionID, func(cur portal.State) (portal.State, error) {
		return portal.CloseModal(cur), nil
	})
}

func (s *portalService) apply(ctx context.Context, sessionID string, fn func(portal.State) (portal.State, error)) (*dto.PortalStateResponse, error) {
	state, err := s.sessions.Update(ctx, sessionID, fn)
	if err != nil {
		return nil, err
	}
	return s.mapper.ToStateResponse(state), nil
}
