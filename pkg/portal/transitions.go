package portal

import (
	"fmt"
	"strings"

	"howdy-portal-be/internal/constant"
	"howdy-portal-be/pkg/navigation"
	"howdy-portal-be/pkg/search"
)

// Login flips the session to logged in. No credentials are checked.
func Login(s State, username string) State {
	next := s.Clone()
	next.LoggedIn = true
	next.Username = username
	return next
}

// Logout resets every view concern to its starting value and moves the
// session to a new epoch, so replies to calls issued before the logout are
// dropped when they arrive.
func Logout(s State) State {
	return initial(s.SessionID, s.Epoch+1)
}

// SetQuery stores the query and its resolved results.
func SetQuery(s State, query string, categories []navigation.Category, synonyms []navigation.SynonymEntry) State {
	next := s.Clone()
	next.Query = query
	next.Results = search.Resolve(query, categories, synonyms)
	return next
}

// SelectResult navigates to the result's category: it becomes active, its
// submenu opens, the sidebar expands and the query is cleared.
func SelectResult(s State, r search.Result, categories []navigation.Category) (State, error) {
	if !navigation.HasCategory(categories, r.TargetCategoryID) {
		return s, fmt.Errorf("%w: %q", ErrUnknownCategory, r.TargetCategoryID)
	}
	next := s.Clone()
	next.ActiveCategory = r.TargetCategoryID
	next.ExpandedMenu[r.TargetCategoryID] = true
	next.SidebarOpen = true
	next.Query = ""
	next.Results = []search.Result{}
	return next, nil
}

// Navigate makes category the active view. Home is always allowed.
func Navigate(s State, category string, categories []navigation.Category) (State, error) {
	if category != navigation.HomeCategory && !navigation.HasCategory(categories, category) {
		return s, fmt.Errorf("%w: %q", ErrUnknownCategory, category)
	}
	next := s.Clone()
	next.ActiveCategory = category
	return next, nil
}

func ToggleMenu(s State, category string, categories []navigation.Category) (State, error) {
	if !navigation.HasCategory(categories, category) {
		return s, fmt.Errorf("%w: %q", ErrUnknownCategory, category)
	}
	next := s.Clone()
	next.ExpandedMenu[category] = !next.ExpandedMenu[category]
	return next, nil
}

func ToggleSidebar(s State) State {
	next := s.Clone()
	next.SidebarOpen = !next.SidebarOpen
	return next
}

func SetTheme(s State, theme Theme) (State, error) {
	if !theme.Valid() {
		return s, fmt.Errorf("%w: %q", ErrUnknownTheme, theme)
	}
	next := s.Clone()
	next.Theme = theme
	return next, nil
}

func OpenModal(s State, modal Modal) (State, error) {
	if modal != ModalPayment {
		return s, fmt.Errorf("%w: %q", ErrUnknownModal, modal)
	}
	next := s.Clone()
	next.Modal = modal
	return next, nil
}

func CloseModal(s State) State {
	next := s.Clone()
	next.Modal = ModalNone
	next.PaymentOrderID = ""
	return next
}

// AttachPaymentOrder records the checkout order shown in the payment modal.
func AttachPaymentOrder(s State, orderID string) State {
	next := s.Clone()
	next.Modal = ModalPayment
	next.PaymentOrderID = orderID
	return next
}

func SetChatOpen(s State, open bool) State {
	next := s.Clone()
	next.ChatOpen = open
	return next
}

// BeginChat appends the user's message and marks a reply as pending. Only
// one reply may be pending per session.
func BeginChat(s State, text string) (State, error) {
	if strings.TrimSpace(text) == "" {
		return s, ErrEmptyMessage
	}
	if s.ChatPending {
		return s, ErrChatInFlight
	}
	next := s.Clone()
	next.Transcript = append(next.Transcript, ChatMessage{Role: constant.ChatMessageRoleUser, Text: text})
	next.ChatPending = true
	return next, nil
}

// CompleteChat appends the assistant reply if the session is still in the
// epoch the call was issued under.
func CompleteChat(s State, epoch uint64, reply string) (State, error) {
	if s.Epoch != epoch || !s.LoggedIn {
		return s, ErrStaleSession
	}
	next := s.Clone()
	next.Transcript = append(next.Transcript, ChatMessage{Role: constant.ChatMessageRoleAssistant, Text: reply})
	next.ChatPending = false
	return next, nil
}

// AbortChat releases the pending flag when the reply could not be stored.
// The user's message stays in the transcript.
func AbortChat(s State, epoch uint64) (State, error) {
	if s.Epoch != epoch || !s.LoggedIn {
		return s, ErrStaleSession
	}
	next := s.Clone()
	next.ChatPending = false
	return next, nil
}

// BeginBrief marks the news item at index as loading.
func BeginBrief(s State, index int) State {
	next := s.Clone()
	next.LoadingBriefs[index] = true
	return next
}

func CompleteBrief(s State, epoch uint64, index int, text string) (State, error) {
	if s.Epoch != epoch || !s.LoggedIn {
		return s, ErrStaleSession
	}
	next := s.Clone()
	delete(next.LoadingBriefs, index)
	next.Briefs[index] = text
	return next, nil
}

// AbortBrief stops showing index as loading without storing a brief.
func AbortBrief(s State, epoch uint64, index int) (State, error) {
	if s.Epoch != epoch || !s.LoggedIn {
		return s, ErrStaleSession
	}
	next := s.Clone()
	delete(next.LoadingBriefs, index)
	return next, nil
}

func ClearBrief(s State, index int) State {
	next := s.Clone()
	delete(next.Briefs, index)
	return next
}
