package navigation

// QuickLink is a dashboard card that jumps to a category.
type QuickLink struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

var quickLinks = []QuickLink{
	{Title: "Academics", Description: "View courses, grades, schedules, and degree progress."},
	{Title: "Registration", Description: "Plan and register for classes, manage waitlists."},
	{Title: "Resources", Description: "Find advising, tutoring, counseling, and career services."},
	{Title: "Social Life", Description: "Explore campus events, student orgs, and activities."},
	{Title: "Finance & Tuition", Description: "Pay tuition, manage financial aid, and billing details."},
	{Title: "Campus Services", Description: "Access housing, dining, parking, and IT support tools."},
}

func QuickLinks() []QuickLink {
	return append([]QuickLink(nil), quickLinks...)
}
