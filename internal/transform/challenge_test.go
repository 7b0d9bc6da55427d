package transform_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fundalabs/dashboard-api/internal/dto"
	"github.com/fundalabs/dashboard-api/internal/models"
	"github.com/fundalabs/dashboard-api/internal/transform"
)

func boolPtr(v bool) *bool { return &v }

func TestChallengeDifficultyMapping(t *testing.T) {
	cases := []struct {
		raw      string
		expected dto.DifficultyKind
	}{
		{"Easy", dto.DifficultyLow},
		{"easy", dto.DifficultyLow},
		{"Medium", dto.DifficultyMedium},
		{"Hard", dto.DifficultyHigh},
		{"Insane", dto.DifficultyKind("insane")},
	}

	for _, tc := range cases {
		vm := transform.Challenge(models.ChallengeRaw{Difficulty: strPtr(tc.raw)})
		require.Equal(t, tc.expected, vm.Difficulty)
	}

	require.Equal(t, dto.DifficultyMedium, transform.Challenge(models.ChallengeRaw{}).Difficulty)
}

func TestChallengeCategoryFirstMatchingTagWins(t *testing.T) {
	vm := transform.Challenge(models.ChallengeRaw{
		Tags: []string{"week-1", "arrays", "basics"},
	})
	// "week-1" matches nothing, "arrays" decides before "basics" is reached.
	require.Equal(t, "Data Structures", vm.Category)

	vm = transform.Challenge(models.ChallengeRaw{Tags: []string{"arithmetic"}})
	require.Equal(t, "Functions", vm.Category)

	vm = transform.Challenge(models.ChallengeRaw{Tags: []string{"recursion"}})
	require.Equal(t, "General", vm.Category)

	vm = transform.Challenge(models.ChallengeRaw{})
	require.Equal(t, "General", vm.Category)
}

func TestChallengeTotalAttemptsNeverBelowCompletionsOrZero(t *testing.T) {
	vm := transform.Challenge(models.ChallengeRaw{
		UsersAttempted: intPtr(5),
		UsersCompleted: intPtr(9),
	})
	require.Equal(t, 9, vm.TotalAttempts)
	require.Equal(t, 9, vm.PassedStudents)

	vm = transform.Challenge(models.ChallengeRaw{})
	require.Equal(t, 1, vm.TotalAttempts)
	require.Equal(t, 0, vm.PassedStudents)

	vm = transform.Challenge(models.ChallengeRaw{
		UsersAttempted: intPtr(40),
		UsersCompleted: intPtr(12),
	})
	require.Equal(t, 40, vm.TotalAttempts)
}

func TestChallengeCompletionFlags(t *testing.T) {
	vm := transform.Challenge(models.ChallengeRaw{
		Completed:  boolPtr(true),
		InProgress: boolPtr(false),
	})
	require.True(t, vm.IsCompleted)
	require.False(t, vm.IsInProgress)
}

func TestChallengeDetailCarriesInstructionFields(t *testing.T) {
	detail := transform.ChallengeDetail(models.ChallengeDetailRaw{
		ChallengeRaw: models.ChallengeRaw{
			ID:    int64Ptr(3),
			Title: strPtr("FizzBuzz"),
		},
		Instructions: strPtr("Print fizz or buzz."),
		SampleInput:  strPtr("15"),
	})
	require.Equal(t, int64(3), detail.ID)
	require.Equal(t, "Print fizz or buzz.", detail.Instructions)
	require.Equal(t, "15", detail.SampleInput)
	require.Equal(t, "", detail.SampleOutput)
}
