package transform

import (
	"github.com/fundalabs/dashboard-api/internal/dto"
	"github.com/fundalabs/dashboard-api/internal/models"
)

// inProgressPlaceholder is the fixed progress shown for in-progress items.
// The upstream reports no per-item completion fraction, so the client keeps
// the historical placeholder instead of inventing one.
const inProgressPlaceholder = 65

// LearningPath normalizes the learning-path payload.
func LearningPath(raw []models.LearningPathRaw) []dto.LearningPathItemVM {
	items := make([]dto.LearningPathItemVM, 0, len(raw))

	for _, entry := range raw {
		original := stringOr(entry.Status, "")

		var status dto.PathStatusKind
		var progress int
		switch original {
		case "completed":
			status = dto.PathStatusCompleted
			progress = 100
		case "in_progress":
			status = dto.PathStatusInProgress
			progress = inProgressPlaceholder
		default:
			status = dto.PathStatusNotStarted
			progress = 0
		}

		category := dto.PathCategoryChallenge
		if stringOr(entry.Type, "") == "quiz" {
			category = dto.PathCategoryQuiz
		}

		items = append(items, dto.LearningPathItemVM{
			ID:             int64Or(entry.ID, 0),
			Title:          stringOr(entry.Title, ""),
			Status:         status,
			Progress:       progress,
			Category:       category,
			OriginalStatus: original,
		})
	}

	return items
}
