package transform

import (
	"strings"

	"github.com/fundalabs/dashboard-api/internal/dto"
	"github.com/fundalabs/dashboard-api/internal/models"
)

// Challenges normalizes the challenge collection.
func Challenges(raw []models.ChallengeRaw) []dto.ChallengeVM {
	items := make([]dto.ChallengeVM, 0, len(raw))
	for _, entry := range raw {
		items = append(items, Challenge(entry))
	}
	return items
}

// Challenge normalizes a single challenge.
func Challenge(raw models.ChallengeRaw) dto.ChallengeVM {
	attempted := intOr(raw.UsersAttempted, 0)
	completed := intOr(raw.UsersCompleted, 0)

	return dto.ChallengeVM{
		ID:             int64Or(raw.ID, 0),
		Title:          stringOr(raw.Title, ""),
		Description:    stringOr(raw.Description, ""),
		Difficulty:     challengeDifficulty(stringOr(raw.Difficulty, "")),
		Category:       classifyTags(raw.Tags, challengeCategoryRules, challengeCategoryDefault),
		IsCompleted:    boolOr(raw.Completed, false),
		IsInProgress:   boolOr(raw.InProgress, false),
		PassedStudents: completed,
		TotalAttempts:  totalAttempts(attempted, completed),
		Points:         intOr(raw.Points, 0),
		EstimatedTime:  intOr(raw.EstimatedTimeMinutes, 0),
		UserAttempts:   intOr(raw.UserAttempts, 0),
		UserBestScore:  raw.UserBestScore,
	}
}

// ChallengeDetail normalizes the detail payload for a single challenge.
func ChallengeDetail(raw models.ChallengeDetailRaw) dto.ChallengeDetailVM {
	return dto.ChallengeDetailVM{
		ChallengeVM:  Challenge(raw.ChallengeRaw),
		Instructions: stringOr(raw.Instructions, ""),
		SampleInput:  stringOr(raw.SampleInput, ""),
		SampleOutput: stringOr(raw.SampleOutput, ""),
	}
}

// challengeDifficulty maps the backend labels onto the semantic buckets and
// passes unknown labels through lowercased. An absent label lands on medium.
func challengeDifficulty(raw string) dto.DifficultyKind {
	switch strings.ToLower(raw) {
	case "easy":
		return dto.DifficultyLow
	case "medium":
		return dto.DifficultyMedium
	case "hard":
		return dto.DifficultyHigh
	case "":
		return dto.DifficultyMedium
	default:
		return dto.DifficultyKind(strings.ToLower(raw))
	}
}

// totalAttempts keeps the attempt denominator at least the completion count
// and never zero, so pass-rate displays cannot divide by zero.
func totalAttempts(attempted, completed int) int {
	total := attempted
	if completed > total {
		total = completed
	}
	if total < 1 {
		total = 1
	}
	return total
}
