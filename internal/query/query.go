// Package query derives filtered and sorted views over materialized
// view-model collections. Everything here is pure: inputs are never mutated
// and no network access happens on this path.
package query

import (
	"sort"
	"strings"

	"github.com/fundalabs/dashboard-api/internal/dto"
)

// All is the sentinel that disables a category or status filter.
const All = "All"

// Sort keys accepted by SortQuizzes. Unknown keys leave the original order
// untouched.
const (
	SortDueDate       = "due_date"
	SortDatePosted    = "date_posted"
	SortTotalMarks    = "total_marks"
	SortClassProgress = "class_progress"
)

// FilterQuizzes narrows the quiz collection by a case-insensitive substring
// search over title, description and tags, plus exact category and status
// filters.
func FilterQuizzes(items []dto.QuizVM, search, category, status string) []dto.QuizVM {
	search = strings.ToLower(strings.TrimSpace(search))
	out := make([]dto.QuizVM, 0, len(items))

	for _, item := range items {
		if search != "" && !quizMatches(item, search) {
			continue
		}
		if !filterAllows(category, item.Category) {
			continue
		}
		if !filterAllows(status, string(item.Status)) {
			continue
		}
		out = append(out, item)
	}

	return out
}

// SortQuizzes returns a sorted copy. Sorting is stable so ties keep the
// upstream order.
func SortQuizzes(items []dto.QuizVM, key string) []dto.QuizVM {
	out := make([]dto.QuizVM, len(items))
	copy(out, items)

	switch key {
	case SortDueDate:
		sort.SliceStable(out, func(i, j int) bool {
			if out[i].DueDate == nil {
				return false
			}
			if out[j].DueDate == nil {
				return true
			}
			return out[i].DueDate.Before(*out[j].DueDate)
		})
	case SortDatePosted:
		sort.SliceStable(out, func(i, j int) bool {
			if out[i].DatePosted == nil {
				return false
			}
			if out[j].DatePosted == nil {
				return true
			}
			return out[j].DatePosted.Before(*out[i].DatePosted)
		})
	case SortTotalMarks:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].TotalMarks > out[j].TotalMarks
		})
	case SortClassProgress:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].ClassProgress > out[j].ClassProgress
		})
	}

	return out
}

// FilterChallenges narrows the challenge collection. Status accepts
// completed, in_progress or not_started, derived from the completion flags.
func FilterChallenges(items []dto.ChallengeVM, search, category, status string) []dto.ChallengeVM {
	search = strings.ToLower(strings.TrimSpace(search))
	out := make([]dto.ChallengeVM, 0, len(items))

	for _, item := range items {
		if search != "" && !challengeMatches(item, search) {
			continue
		}
		if !filterAllows(category, item.Category) {
			continue
		}
		if !filterAllows(status, challengeStatus(item)) {
			continue
		}
		out = append(out, item)
	}

	return out
}

func quizMatches(item dto.QuizVM, search string) bool {
	if strings.Contains(strings.ToLower(item.Title), search) {
		return true
	}
	if strings.Contains(strings.ToLower(item.Description), search) {
		return true
	}
	for _, tag := range item.Tags {
		if strings.Contains(strings.ToLower(tag), search) {
			return true
		}
	}
	return false
}

func challengeMatches(item dto.ChallengeVM, search string) bool {
	return strings.Contains(strings.ToLower(item.Title), search) ||
		strings.Contains(strings.ToLower(item.Description), search)
}

func challengeStatus(item dto.ChallengeVM) string {
	switch {
	case item.IsCompleted:
		return string(dto.PathStatusCompleted)
	case item.IsInProgress:
		return string(dto.PathStatusInProgress)
	default:
		return string(dto.PathStatusNotStarted)
	}
}

// filterAllows treats empty and the All sentinel as "no filter" and matches
// the rest case-insensitively.
func filterAllows(filter, value string) bool {
	if filter == "" || filter == All {
		return true
	}
	return strings.EqualFold(filter, value)
}
