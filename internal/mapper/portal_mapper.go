package mapper

import (
	"sort"

	"howdy-portal-be/internal/dto"
	"howdy-portal-be/internal/entity"
	"howdy-portal-be/pkg/portal"
	"howdy-portal-be/pkg/search"
)

type PortalMapper struct{}

func NewPortalMapper() *PortalMapper {
	return &PortalMapper{}
}

func (m *PortalMapper) ToStateResponse(s portal.State) *dto.PortalStateResponse {
	expanded := make(map[string]bool, len(s.ExpandedMenu))
	for k, v := range s.ExpandedMenu {
		expanded[k] = v
	}
	briefs := make(map[int]string, len(s.Briefs))
	for k, v := range s.Briefs {
		briefs[k] = v
	}

	loading := make([]int, 0, len(s.LoadingBriefs))
	for idx, on := range s.LoadingBriefs {
		if on {
			loading = append(loading, idx)
		}
	}
	sort.Ints(loading)

	return &dto.PortalStateResponse{
		SessionId:      s.SessionID,
		LoggedIn:       s.LoggedIn,
		Username:       s.Username,
		ActiveCategory: s.ActiveCategory,
		ExpandedMenu:   expanded,
		SidebarOpen:    s.SidebarOpen,
		Theme:          string(s.Theme),
		Query:          s.Query,
		Results:        m.ToSearchResults(s.Results),
		Modal:          string(s.Modal),
		PaymentOrderId: s.PaymentOrderID,
		ChatOpen:       s.ChatOpen,
		ChatPending:    s.ChatPending,
		Transcript:     m.ToTranscript(s.Transcript),
		Briefs:         briefs,
		LoadingBriefs:  loading,
	}
}

func (m *PortalMapper) ToSearchResults(results []search.Result) []dto.SearchResultResponse {
	out := make([]dto.SearchResultResponse, 0, len(results))
	for _, r := range results {
		out = append(out, dto.SearchResultResponse{
			Kind:             string(r.Kind),
			Title:            r.Title,
			Subtitle:         r.Subtitle,
			TargetCategoryId: r.TargetCategoryID,
		})
	}
	return out
}

func (m *PortalMapper) ToTranscript(messages []portal.ChatMessage) []dto.ChatMessageResponse {
	out := make([]dto.ChatMessageResponse, 0, len(messages))
	for _, msg := range messages {
		out = append(out, m.ToChatMessage(msg))
	}
	return out
}

func (m *PortalMapper) ToChatMessage(msg portal.ChatMessage) dto.ChatMessageResponse {
	return dto.ChatMessageResponse{Role: msg.Role, Text: msg.Text}
}

func (m *PortalMapper) ToOrderStatus(o *entity.PaymentOrder) *dto.OrderStatusResponse {
	if o == nil {
		return nil
	}
	return &dto.OrderStatusResponse{
		OrderId:   o.Id,
		Item:      o.Item,
		Amount:    o.Amount,
		Status:    string(o.Status),
		CreatedAt: o.CreatedAt,
		UpdatedAt: o.UpdatedAt,
	}
}
