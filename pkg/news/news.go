package news

import (
	"fmt"

	"howdy-portal-be/internal/constant"
)

type Item struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Tag         string `json:"tag"`
	Time        string `json:"time"`
}

var items = []Item{
	{
		Title:       "New Ticket Pull System Rolling Out",
		Description: "The new online ticketing system for football games is now live for seniors.",
		Tag:         "Sports",
		Time:        "2h ago",
	},
	{
		Title:       "Aggie Scheduler Revamps Planned",
		Description: "Maintenance and UI bug fixes scheduled for the upcoming weekend.",
		Tag:         "System",
		Time:        "5h ago",
	},
	{
		Title:       "Campus Construction Update",
		Description: "Road closures at MSC intersection starting this Friday through Sunday.",
		Tag:         "Alert",
		Time:        "1d ago",
	},
	{
		Title:       "Registration Opens Nov 8th",
		Description: "Prepare your schedule ahead of time. Check your time slot in the dashboard.",
		Tag:         "Academic",
		Time:        "2d ago",
	},
}

func Items() []Item {
	return append([]Item(nil), items...)
}

// At returns the item at index, or false when out of range.
func At(index int) (Item, bool) {
	if index < 0 || index >= len(items) {
		return Item{}, false
	}
	return items[index], true
}

// BriefPrompt asks for a one or two sentence "why this matters" for a student.
func BriefPrompt(item Item) string {
	return fmt.Sprintf(constant.SmartBriefPromptTemplate, item.Title, item.Description)
}
