package dto

import "time"

// ResourceState is the per-resource synchronization status block included in
// the snapshot so the UI can render loading, error and timeout affordances.
type ResourceState struct {
	Status        string     `json:"status"`
	ErrorMessage  string     `json:"error_message,omitempty"`
	LastFetchedAt *time.Time `json:"last_fetched_at,omitempty"`
}

// DerivedStats are aggregates recomputed on every read over the materialized
// collections; they are never persisted.
type DerivedStats struct {
	QuizzesCompleted     int     `json:"quizzes_completed"`
	ChallengesCompleted  int     `json:"challenges_completed"`
	PointsEarned         float64 `json:"points_earned"`
	AverageClassProgress float64 `json:"average_class_progress"`
}

// DashboardSnapshot is the composed view of all four synchronized resources.
type DashboardSnapshot struct {
	Stats        DashboardStatsVM     `json:"stats"`
	LearningPath []LearningPathItemVM `json:"learning_path"`
	Quizzes      []QuizVM             `json:"quizzes"`
	Challenges   []ChallengeVM        `json:"challenges"`
	Derived      DerivedStats         `json:"derived"`

	States map[string]ResourceState `json:"states"`
}

// StatusEvent is pushed over the websocket stream whenever a synchronizer
// changes state.
type StatusEvent struct {
	Resource     string    `json:"resource"`
	Status       string    `json:"status"`
	ErrorMessage string    `json:"error_message,omitempty"`
	At           time.Time `json:"at"`
}
