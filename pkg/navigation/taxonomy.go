package navigation

// Category is a top-level sidebar entry and its ordered sub-services.
type Category struct {
	ID       string   `json:"id"`
	SubItems []string `json:"sub_items"`
}

// HomeCategory is the landing view. It is not part of the sidebar taxonomy.
const HomeCategory = "Home"

var taxonomy = []Category{
	{ID: "Academics", SubItems: []string{"UGDP", "Aggie Schedule Builder", "View Grades", "View Schedule"}},
	{ID: "Registration", SubItems: []string{"Search Classes", "Add/Drop", "Registration Status"}},
	{ID: "Resources", SubItems: []string{"Library", "Transport", "IT Help"}},
	{ID: "Social Life", SubItems: []string{"Campus Events", "Student Orgs", "Rec Sports", "MSC Box Office"}},
	{ID: "Finance & Tuition", SubItems: []string{"Pay Bill", "Financial Aid Portal", "1098-T Tax Form", "Scholarships"}},
	{ID: "Campus Services", SubItems: []string{"Housing Portal", "Dining & Meal Plans", "Parking Services"}},
}

// Taxonomy returns a copy of the navigation taxonomy in declaration order.
func Taxonomy() []Category {
	out := make([]Category, len(taxonomy))
	for i, c := range taxonomy {
		out[i] = Category{ID: c.ID, SubItems: append([]string(nil), c.SubItems...)}
	}
	return out
}

// HasCategory reports whether id names a taxonomy category.
func HasCategory(categories []Category, id string) bool {
	for _, c := range categories {
		if c.ID == id {
			return true
		}
	}
	return false
}

// Locate resolves a category id or sub-item name to its owning category id.
// A category id resolves to itself.
func Locate(categories []Category, target string) (string, bool) {
	for _, c := range categories {
		if c.ID == target {
			return c.ID, true
		}
	}
	for _, c := range categories {
		for _, item := range c.SubItems {
			if item == target {
				return c.ID, true
			}
		}
	}
	return "", false
}

// DefaultExpandedMenu is the submenu state a fresh session starts with.
func DefaultExpandedMenu() map[string]bool {
	menu := make(map[string]bool, len(taxonomy))
	for _, c := range taxonomy {
		menu[c.ID] = false
	}
	menu["Academics"] = true
	return menu
}
