package calendar

import "strings"

type Category string

const (
	CategoryFit       Category = "fit"
	CategoryAcademics Category = "academics"
	CategoryAIAgent   Category = "ai-agent"
	CategoryMLE       Category = "mle"
	CategoryRelated   Category = "related"
	CategoryBasics    Category = "basics"
	CategoryOther     Category = "other"
)

// fallback color for anything without its own entry
const defaultColor = "#6b7280"

type CategoryInfo struct {
	ID      Category
	Name    string
	Color   string
	Section string
}

var categories = []CategoryInfo{
	{ID: CategoryFit, Name: "Be Fit", Color: "#4f46e5", Section: SectionGoals},
	{ID: CategoryAcademics, Name: "Academics", Color: "#10b981", Section: SectionGoals},
	{ID: CategoryAIAgent, Name: "AI based agents", Color: "#f59e0b", Section: SectionTasks},
	{ID: CategoryMLE, Name: "MLE", Color: "#ef4444", Section: SectionTasks},
	{ID: CategoryRelated, Name: "DE-related", Color: "#8b5cf6", Section: SectionTasks},
	{ID: CategoryBasics, Name: "Basics", Color: defaultColor, Section: SectionTasks},
	{ID: CategoryOther, Name: "Other", Color: defaultColor},
}

const (
	SectionGoals = "GOALS"
	SectionTasks = "TASKS"
)

// Sections in sidebar order. "other" belongs to none.
var Sections = []string{SectionGoals, SectionTasks}

// Categories returns the fixed category table in display order.
func Categories() []CategoryInfo {
	out := make([]CategoryInfo, len(categories))
	copy(out, categories)
	return out
}

// CategoriesIn returns the categories listed under a sidebar section.
func CategoriesIn(section string) []CategoryInfo {
	var out []CategoryInfo
	for _, c := range categories {
		if c.Section == section {
			out = append(out, c)
		}
	}
	return out
}

func (c Category) Valid() bool {
	for _, info := range categories {
		if info.ID == c {
			return true
		}
	}
	return false
}

// ParseCategory maps raw input onto the enumeration; blank or unknown
// values become CategoryOther.
func ParseCategory(raw string) Category {
	c := Category(strings.TrimSpace(raw))
	if !c.Valid() {
		return CategoryOther
	}
	return c
}

// Info returns the table entry for c, or the "other" entry when c is unknown.
func (c Category) Info() CategoryInfo {
	for _, info := range categories {
		if info.ID == c {
			return info
		}
	}
	return categories[len(categories)-1]
}

func (c Category) Name() string  { return c.Info().Name }
func (c Category) Color() string { return c.Info().Color }

func (c Category) String() string { return string(c) }
