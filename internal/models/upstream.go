package models

import "time"

// Raw payload types mirror the upstream learning-platform API. Fields are
// pointers (or nil-able slices) on purpose: the backend omits fields during
// rollout, and the transformers default each field independently.

// StatsBlockRaw is one counter block inside the dashboard stats payload.
type StatsBlockRaw struct {
	Attempted *int     `json:"attempted"`
	Completed *int     `json:"completed"`
	Progress  *float64 `json:"progress"`
	ThisWeek  *int     `json:"this_week"`
	Total     *int     `json:"total"`
}

// OverallBlockRaw is the combined-progress block of the stats payload.
type OverallBlockRaw struct {
	CompletedItems *int     `json:"completed_items"`
	Message        *string  `json:"message"`
	Progress       *float64 `json:"progress"`
	TotalItems     *int     `json:"total_items"`
}

// DashboardStatsRaw is the envelope body of /api/dashboard/stats.
type DashboardStatsRaw struct {
	Challenges *StatsBlockRaw   `json:"challenges"`
	Quizzes    *StatsBlockRaw   `json:"quizzes"`
	Overall    *OverallBlockRaw `json:"overall"`
}

// LearningPathRaw is one item of /api/dashboard/learning-path.
type LearningPathRaw struct {
	ID     *int64  `json:"id"`
	Title  *string `json:"title"`
	Status *string `json:"status"`
	Type   *string `json:"type"`
}

// QuizRaw is one quiz of /api/quizzes.
type QuizRaw struct {
	ID               *int64     `json:"id"`
	Title            *string    `json:"title"`
	Description      *string    `json:"description"`
	Status           *string    `json:"status"`
	TotalPoints      *int       `json:"total_points"`
	TimeLimitMinutes *int       `json:"time_limit_minutes"`
	QuestionCount    *int       `json:"question_count"`
	DatePosted       *time.Time `json:"date_posted"`
	DueDate          *time.Time `json:"due_date"`
	ClassProgress    *float64   `json:"class_progress"`
	UserScore        *float64   `json:"user_score"`
	Attempts         *int       `json:"attempts"`
	Tags             []string   `json:"tags"`
}

// ChallengeRaw is one challenge of /api/challenges.
type ChallengeRaw struct {
	ID                   *int64   `json:"id"`
	Title                *string  `json:"title"`
	Description          *string  `json:"description"`
	Difficulty           *string  `json:"difficulty"`
	Tags                 []string `json:"tags"`
	Completed            *bool    `json:"completed"`
	InProgress           *bool    `json:"in_progress"`
	UsersAttempted       *int     `json:"users_attempted"`
	UsersCompleted       *int     `json:"users_completed"`
	Points               *int     `json:"points"`
	EstimatedTimeMinutes *int     `json:"estimated_time_minutes"`
	UserAttempts         *int     `json:"user_attempts"`
	UserBestScore        *float64 `json:"user_best_score"`
}

// ChallengeDetailRaw is the body of /api/challenges/{id}.
type ChallengeDetailRaw struct {
	ChallengeRaw
	Instructions *string `json:"instructions"`
	SampleInput  *string `json:"sample_input"`
	SampleOutput *string `json:"sample_output"`
}

// QuizStatsRaw is the body of /api/quizzes/stats.
type QuizStatsRaw struct {
	Attempted    *int     `json:"attempted"`
	Completed    *int     `json:"completed"`
	AverageScore *float64 `json:"average_score"`
	Total        *int     `json:"total"`
}

// ChallengeStatsRaw is the body of /api/challenges/stats.
type ChallengeStatsRaw struct {
	Attempted *int `json:"attempted"`
	Completed *int `json:"completed"`
	Points    *int `json:"points"`
	Total     *int `json:"total"`
}
