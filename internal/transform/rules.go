package transform

import "strings"

// categoryRule is one row of an ordered keyword classification table.
// Tables are evaluated top-down; the first matching rule wins and a fixed
// default applies when nothing matches.
type categoryRule struct {
	keywords []string
	category string
}

// challengeCategoryRules maps challenge tags to a category. The tag list is
// scanned in order and the first tag matching any rule decides.
var challengeCategoryRules = []categoryRule{
	{keywords: []string{"basics", "beginner", "output", "input"}, category: "Basics"},
	{keywords: []string{"algorithms", "binary-search", "divide-and-conquer"}, category: "Algorithms"},
	{keywords: []string{"arrays", "hash-table"}, category: "Data Structures"},
	{keywords: []string{"arithmetic"}, category: "Functions"},
}

const challengeCategoryDefault = "General"

// quizCategoryRules classifies a quiz by keywords in its title and
// description. Specific topics come before the broad "basic" bucket so a
// title like "Control Flow Basics" lands on Control Flow, not Basics.
var quizCategoryRules = []categoryRule{
	{keywords: []string{"control", "loop", "condition"}, category: "Control Flow"},
	{keywords: []string{"function", "method"}, category: "Functions"},
	{keywords: []string{"data structure", "list", "dict"}, category: "Data Structures"},
	{keywords: []string{"object", "class", "oop"}, category: "OOP"},
	{keywords: []string{"error", "exception", "debug"}, category: "Error Handling"},
	{keywords: []string{"isixhosa", "xhosa"}, category: "IsiXhosa"},
	{keywords: []string{"basic", "fundamental"}, category: "Basics"},
	{keywords: []string{"python"}, category: "Python"},
}

const quizCategoryDefault = "Programming"

// classifyText returns the category of the first rule with a keyword
// contained in text, or the default.
func classifyText(text string, rules []categoryRule, fallback string) string {
	lowered := strings.ToLower(text)
	for _, rule := range rules {
		for _, keyword := range rule.keywords {
			if strings.Contains(lowered, keyword) {
				return rule.category
			}
		}
	}
	return fallback
}

// classifyTags returns the category of the first tag matching any rule, or
// the default.
func classifyTags(tags []string, rules []categoryRule, fallback string) string {
	for _, tag := range tags {
		lowered := strings.ToLower(strings.TrimSpace(tag))
		for _, rule := range rules {
			for _, keyword := range rule.keywords {
				if lowered == keyword {
					return rule.category
				}
			}
		}
	}
	return fallback
}
