package news

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAt(t *testing.T) {
	item, ok := At(2)
	assert.True(t, ok)
	assert.Equal(t, "Campus Construction Update", item.Title)

	_, ok = At(-1)
	assert.False(t, ok)
	_, ok = At(len(Items()))
	assert.False(t, ok)
}

func TestBriefPrompt_EmbedsHeadlineAndDescription(t *testing.T) {
	item, _ := At(0)
	prompt := BriefPrompt(item)

	assert.Contains(t, prompt, `Headline: "New Ticket Pull System Rolling Out"`)
	assert.Contains(t, prompt, `Description: "The new online ticketing system for football games is now live for seniors."`)
	assert.Contains(t, prompt, "1-2 short sentences")
}
