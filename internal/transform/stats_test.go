package transform_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fundalabs/dashboard-api/internal/models"
	"github.com/fundalabs/dashboard-api/internal/transform"
)

func TestDashboardStatsDefaultsAbsentBlocksIndependently(t *testing.T) {
	raw := models.DashboardStatsRaw{
		Challenges: &models.StatsBlockRaw{
			Completed: intPtr(3),
			Progress:  floatPtr(40),
			ThisWeek:  intPtr(1),
			Total:     intPtr(10),
		},
	}

	vm := transform.DashboardStats(raw)

	require.Equal(t, 3, vm.Challenges.Completed)
	require.Equal(t, 40.0, vm.Challenges.Progress)
	require.Equal(t, 1, vm.Challenges.ThisWeek)
	require.Equal(t, 10, vm.Challenges.Total)

	defaults := transform.DefaultDashboardStats()
	require.Equal(t, defaults.Quizzes, vm.Quizzes)
	require.Equal(t, defaults.Overall, vm.Overall)
}

func TestDashboardStatsDefaultsScalarsInsideBlocks(t *testing.T) {
	raw := models.DashboardStatsRaw{
		Overall: &models.OverallBlockRaw{Progress: floatPtr(55)},
	}

	vm := transform.DashboardStats(raw)
	require.Equal(t, 55.0, vm.Overall.Progress)
	require.Equal(t, 0, vm.Overall.CompletedItems)
	require.Equal(t, 0, vm.Overall.TotalItems)
	require.NotEmpty(t, vm.Overall.Message)
}

func TestDefaultDashboardStatsHasFallbackMessage(t *testing.T) {
	vm := transform.DefaultDashboardStats()
	require.NotEmpty(t, vm.Overall.Message)
	require.Zero(t, vm.Challenges.Total)
	require.Zero(t, vm.Quizzes.Total)
}
