package service

import (
	"context"
	"testing"
	"time"

	"howdy-portal-be/internal/dto"
	"howdy-portal-be/pkg/portal"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewsService_ToggleBrief(t *testing.T) {
	h := newHarness()
	completer := &cannedCompleter{reply: "Plan for detours on your way to the MSC."}
	svc := NewNewsService(h.sessions, completer, h.publisher)
	ctx := context.Background()
	id := h.login(t, "reveille")

	res, err := svc.ToggleBrief(ctx, id, 2)
	require.NoError(t, err)
	assert.True(t, res.Shown)
	assert.Equal(t, "Plan for detours on your way to the MSC.", res.Brief)

	require.Len(t, completer.prompts, 1)
	assert.Contains(t, completer.prompts[0], "Campus Construction Update")
	assert.Equal(t, "", completer.systems[0])

	stored, _ := h.sessions.Get(ctx, id)
	assert.Equal(t, res.Brief, stored.Briefs[2])
	assert.Empty(t, stored.LoadingBriefs)

	// Second toggle hides it without another AI call.
	res, err = svc.ToggleBrief(ctx, id, 2)
	require.NoError(t, err)
	assert.False(t, res.Shown)
	assert.Len(t, completer.prompts, 1)
}

func TestNewsService_ToggleBrief_Errors(t *testing.T) {
	h := newHarness()
	svc := NewNewsService(h.sessions, &cannedCompleter{reply: "x"}, h.publisher)
	ctx := context.Background()
	id := h.login(t, "reveille")

	_, err := svc.ToggleBrief(ctx, id, 99)
	assert.ErrorIs(t, err, ErrNewsNotFound)

	_, err = h.sessions.Update(ctx, id, func(s portal.State) (portal.State, error) {
		return portal.BeginBrief(s, 0), nil
	})
	require.NoError(t, err)
	_, err = svc.ToggleBrief(ctx, id, 0)
	assert.ErrorIs(t, err, ErrBriefInFlight)
}

func TestNewsService_ToggleBrief_LogoutWhilePending(t *testing.T) {
	h := newHarness()
	completer := newBlockingCompleter()
	svc := NewNewsService(h.sessions, completer, h.publisher)
	ctx := context.Background()
	id := h.login(t, "reveille")

	done := make(chan *dto.BriefResponse, 1)
	go func() {
		res, _ := svc.ToggleBrief(ctx, id, 1)
		done <- res
	}()

	completer.waitStarted(t)
	_, err := h.auth.Logout(ctx, id)
	require.NoError(t, err)
	completer.release <- "too late"

	select {
	case res := <-done:
		require.NotNil(t, res)
		assert.True(t, res.Discarded)
	case <-time.After(2 * time.Second):
		t.Fatal("ToggleBrief did not return")
	}

	stored, _ := h.sessions.Get(ctx, id)
	assert.Empty(t, stored.Briefs)
}

func TestNewsService_ToggleBrief_StoreFailureReleasesLoading(t *testing.T) {
	h := newHarness()
	repo := newFlakyRepo(h.sessions, 2)
	svc := NewNewsService(repo, &cannedCompleter{reply: "Leave early."}, h.publisher)
	ctx := context.Background()
	id := h.login(t, "reveille")

	_, err := svc.ToggleBrief(ctx, id, 1)
	assert.ErrorIs(t, err, errStoreDown)

	stored, err := h.sessions.Get(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, stored.LoadingBriefs)
	assert.Empty(t, stored.Briefs)

	res, err := svc.ToggleBrief(ctx, id, 1)
	require.NoError(t, err)
	assert.True(t, res.Shown)
}
