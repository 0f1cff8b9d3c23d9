// Package author builds decision-tree templates: from the built-in expert
// catalog, or interactively through a small terminal wizard.
package author

import "fmt"

// Category groups related expert types for the selection menus.
type Category struct {
	Name    string
	Experts []string
}

// Catalog is the built-in set of expert personas.
func Catalog() []Category {
	return []Category{
		{Name: "Technology", Experts: []string{
			"Python Programming", "Web Development", "Data Science", "Machine Learning", "Cybersecurity",
		}},
		{Name: "Science", Experts: []string{
			"Physics", "Chemistry", "Biology", "Astronomy", "Environmental Science",
		}},
		{Name: "Business", Experts: []string{
			"Marketing", "Finance", "Entrepreneurship", "Project Management", "Human Resources",
		}},
		{Name: "Arts & Humanities", Experts: []string{
			"Literature", "History", "Philosophy", "Music", "Visual Arts",
		}},
		{Name: "Health & Wellness", Experts: []string{
			"Nutrition", "Fitness", "Mental Health", "Medicine", "Alternative Medicine",
		}},
	}
}

// modelHints maps expert types to preferred models. Anything not listed uses
// the general default.
var modelHints = map[string]string{
	"Python Programming": "codellama",
	"Web Development":    "codellama",
	"Data Science":       "gemma3",
	"Machine Learning":   "gemma3",
}

// DefaultModel is the fallback when no hint applies.
const DefaultModel = "gemma3"

// ModelFor recommends a model for an expert type, constrained to what the
// server actually has. With nothing available it still returns the hint so
// the caller can report a useful error.
func ModelFor(expertType string, available []string) string {
	recommended, ok := modelHints[expertType]
	if !ok {
		recommended = DefaultModel
	}
	for _, name := range available {
		if name == recommended {
			return recommended
		}
	}
	if len(available) > 0 {
		return available[0]
	}
	return recommended
}

// Persona returns the long-form system description for an expert type. It is
// stored as template metadata so authored files are self-describing.
func Persona(expertType string) string {
	return fmt.Sprintf("You are an expert in %s.\n"+
		"Provide knowledgeable, accurate, and helpful responses about %s.\n"+
		"Use examples and clear explanations in your answers.\n"+
		"If you're unsure about something, acknowledge the limitations of your knowledge.\n"+
		"Maintain a professional and educational tone throughout the conversation.",
		expertType, expertType)
}
