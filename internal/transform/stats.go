// Package transform holds the pure raw-payload to view-model mappings, one
// per synchronized resource.
package transform

import (
	"github.com/fundalabs/dashboard-api/internal/dto"
	"github.com/fundalabs/dashboard-api/internal/models"
)

// overallFallbackMessage is shown when the backend sends no progress message.
const overallFallbackMessage = "Complete challenges and quizzes to see your progress here."

// DashboardStats normalizes the stats-card payload.
func DashboardStats(raw models.DashboardStatsRaw) dto.DashboardStatsVM {
	vm := DefaultDashboardStats()

	if raw.Challenges != nil {
		vm.Challenges = dto.ChallengeCounters{
			Completed: intOr(raw.Challenges.Completed, 0),
			Progress:  floatOr(raw.Challenges.Progress, 0),
			ThisWeek:  intOr(raw.Challenges.ThisWeek, 0),
			Total:     intOr(raw.Challenges.Total, 0),
		}
	}

	if raw.Quizzes != nil {
		vm.Quizzes = dto.QuizCounters{
			Attempted: intOr(raw.Quizzes.Attempted, 0),
			Progress:  floatOr(raw.Quizzes.Progress, 0),
			ThisWeek:  intOr(raw.Quizzes.ThisWeek, 0),
			Total:     intOr(raw.Quizzes.Total, 0),
		}
	}

	if raw.Overall != nil {
		vm.Overall = dto.OverallCounters{
			CompletedItems: intOr(raw.Overall.CompletedItems, 0),
			Message:        stringOr(raw.Overall.Message, overallFallbackMessage),
			Progress:       floatOr(raw.Overall.Progress, 0),
			TotalItems:     intOr(raw.Overall.TotalItems, 0),
		}
	}

	return vm
}

// DefaultDashboardStats is the zeroed stats card used whenever the stats
// synchronizer is not in the Ready state.
func DefaultDashboardStats() dto.DashboardStatsVM {
	return dto.DashboardStatsVM{
		Overall: dto.OverallCounters{Message: overallFallbackMessage},
	}
}
