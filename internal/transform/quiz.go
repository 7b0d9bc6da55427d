package transform

import (
	"time"

	"github.com/fundalabs/dashboard-api/internal/dto"
	"github.com/fundalabs/dashboard-api/internal/models"
)

// upcomingWindowDays: an available quiz due further out than this is shown
// as upcoming rather than actionable.
const upcomingWindowDays = 7

// Quizzes normalizes the quiz collection. The clock is injected so status
// derivation against due dates stays deterministic in tests.
func Quizzes(raw []models.QuizRaw, now time.Time) []dto.QuizVM {
	items := make([]dto.QuizVM, 0, len(raw))
	for _, entry := range raw {
		items = append(items, Quiz(entry, now))
	}
	return items
}

// Quiz normalizes a single quiz.
func Quiz(raw models.QuizRaw, now time.Time) dto.QuizVM {
	title := stringOr(raw.Title, "")
	description := stringOr(raw.Description, "")
	totalPoints := intOr(raw.TotalPoints, 0)
	timeLimit := intOr(raw.TimeLimitMinutes, 0)

	return dto.QuizVM{
		ID:            int64Or(raw.ID, 0),
		Title:         title,
		Description:   description,
		Category:      classifyText(title+" "+description, quizCategoryRules, quizCategoryDefault),
		Difficulty:    quizDifficulty(totalPoints, timeLimit),
		Status:        quizStatus(stringOr(raw.Status, string(dto.QuizStatusAvailable)), raw.DueDate, now),
		TotalMarks:    totalPoints,
		Duration:      timeLimit,
		Questions:     intOr(raw.QuestionCount, 0),
		DatePosted:    raw.DatePosted,
		DueDate:       raw.DueDate,
		ClassProgress: floatOr(raw.ClassProgress, 0),
		UserScore:     raw.UserScore,
		Attempts:      intOr(raw.Attempts, 0),
		Tags:          tagsOr(raw.Tags),
	}
}

// quizDifficulty buckets a quiz by its point total and time limit.
func quizDifficulty(totalPoints, timeLimitMinutes int) dto.DifficultyKind {
	switch {
	case totalPoints <= 30 && timeLimitMinutes <= 30:
		return dto.DifficultyLow
	case totalPoints <= 50 && timeLimitMinutes <= 60:
		return dto.DifficultyMedium
	default:
		return dto.DifficultyHigh
	}
}

// quizStatus derives the display status from the raw status and due date.
// A past-due quiz that is not completed is overdue regardless of what the
// backend says; an available quiz due more than a week out is upcoming.
func quizStatus(raw string, dueDate *time.Time, now time.Time) dto.QuizStatusKind {
	if raw == string(dto.QuizStatusOverdue) {
		return dto.QuizStatusOverdue
	}
	if dueDate != nil && dueDate.Before(now) && raw != string(dto.QuizStatusCompleted) {
		return dto.QuizStatusOverdue
	}
	if raw == string(dto.QuizStatusAvailable) && dueDate != nil && daysUntil(*dueDate, now) > upcomingWindowDays {
		return dto.QuizStatusUpcoming
	}
	return dto.QuizStatusKind(raw)
}

// daysUntil counts whole 24h periods between now and the deadline,
// truncating toward zero.
func daysUntil(deadline, now time.Time) int {
	return int(deadline.Sub(now).Hours() / 24)
}
