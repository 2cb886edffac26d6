package dto

import (
	"howdy-portal-be/pkg/navigation"
	"howdy-portal-be/pkg/news"
)

type ChatMessageResponse struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

type SearchResultResponse struct {
	Kind             string `json:"kind"`
	Title            string `json:"title"`
	Subtitle         string `json:"subtitle,omitempty"`
	TargetCategoryId string `json:"target_category_id"`
}

type PortalStateResponse struct {
	SessionId      string                 `json:"session_id"`
	LoggedIn       bool                   `json:"logged_in"`
	Username       string                 `json:"username,omitempty"`
	ActiveCategory string                 `json:"active_category"`
	ExpandedMenu   map[string]bool        `json:"expanded_menu"`
	SidebarOpen    bool                   `json:"sidebar_open"`
	Theme          string                 `json:"theme"`
	Query          string                 `json:"query"`
	Results        []SearchResultResponse `json:"results"`
	Modal          string                 `json:"modal,omitempty"`
	PaymentOrderId string                 `json:"payment_order_id,omitempty"`
	ChatOpen       bool                   `json:"chat_open"`
	ChatPending    bool                   `json:"chat_pending"`
	Transcript     []ChatMessageResponse  `json:"transcript"`
	Briefs         map[int]string         `json:"briefs"`
	LoadingBriefs  []int                  `json:"loading_briefs"`
}

type DashboardResponse struct {
	Categories []navigation.Category  `json:"categories"`
	QuickLinks []navigation.QuickLink `json:"quick_links"`
	News       []news.Item            `json:"news"`
}

type SearchRequest struct {
	Query string `json:"query" validate:"max=200"`
}

type SearchResponse struct {
	Query   string                 `json:"query"`
	Results []SearchResultResponse `json:"results"`
	// NoResults asks the UI to render its explicit empty affordance.
	NoResults bool `json:"no_results"`
}

type SelectResultRequest struct {
	Title            string `json:"title" validate:"required"`
	TargetCategoryId string `json:"target_category_id"`
}

type NavigateRequest struct {
	Category string `json:"category" validate:"required"`
}

type SetThemeRequest struct {
	Theme string `json:"theme" validate:"required,oneof=maroon light dark"`
}
