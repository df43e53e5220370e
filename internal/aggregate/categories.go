package aggregate

import "strings"

// Categories assigns tag names to the focused and maintenance windows.
// Membership is by case-insensitive name; a tag may be in neither.
type Categories struct {
	Focused     []string `yaml:"focused"`
	Maintenance []string `yaml:"maintenance"`
}

// DefaultCategories matches domain.DefaultTagNames.
func DefaultCategories() Categories {
	return Categories{
		Focused:     []string{"Work", "Study"},
		Maintenance: []string{"Food", "Chores", "Exercise"},
	}
}

func containsFold(names []string, name string) bool {
	for _, n := range names {
		if strings.EqualFold(n, name) {
			return true
		}
	}
	return false
}
