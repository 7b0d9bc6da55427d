package dto

import "time"

// DifficultyKind is the semantic difficulty bucket shown on quiz and
// challenge cards. Presentation concerns (colors, icons) are mapped by the
// UI, never here.
type DifficultyKind string

const (
	DifficultyLow    DifficultyKind = "low"
	DifficultyMedium DifficultyKind = "medium"
	DifficultyHigh   DifficultyKind = "high"
)

// QuizStatusKind is the derived quiz availability state.
type QuizStatusKind string

const (
	QuizStatusAvailable QuizStatusKind = "available"
	QuizStatusCompleted QuizStatusKind = "completed"
	QuizStatusOverdue   QuizStatusKind = "overdue"
	QuizStatusUpcoming  QuizStatusKind = "upcoming"
)

// PathStatusKind is the learning-path item completion state.
type PathStatusKind string

const (
	PathStatusCompleted  PathStatusKind = "completed"
	PathStatusInProgress PathStatusKind = "in_progress"
	PathStatusNotStarted PathStatusKind = "not_started"
)

// PathCategoryKind distinguishes the two learning-path item sources.
type PathCategoryKind string

const (
	PathCategoryChallenge PathCategoryKind = "challenge"
	PathCategoryQuiz      PathCategoryKind = "quiz"
)

// ChallengeCounters summarises challenge progress on the stats card.
type ChallengeCounters struct {
	Completed int     `json:"completed"`
	Progress  float64 `json:"progress"`
	ThisWeek  int     `json:"this_week"`
	Total     int     `json:"total"`
}

// QuizCounters summarises quiz progress on the stats card.
type QuizCounters struct {
	Attempted int     `json:"attempted"`
	Progress  float64 `json:"progress"`
	ThisWeek  int     `json:"this_week"`
	Total     int     `json:"total"`
}

// OverallCounters summarises combined progress across both tracks.
type OverallCounters struct {
	CompletedItems int     `json:"completed_items"`
	Message        string  `json:"message"`
	Progress       float64 `json:"progress"`
	TotalItems     int     `json:"total_items"`
}

// DashboardStatsVM is the normalized stats-card view model. Every field is
// defaulted independently so a partially populated upstream payload never
// blanks an entire card.
type DashboardStatsVM struct {
	Challenges ChallengeCounters `json:"challenges"`
	Quizzes    QuizCounters      `json:"quizzes"`
	Overall    OverallCounters   `json:"overall"`
}

// LearningPathItemVM is one normalized step on the learning path.
type LearningPathItemVM struct {
	ID             int64            `json:"id"`
	Title          string           `json:"title"`
	Status         PathStatusKind   `json:"status"`
	Progress       int              `json:"progress"`
	Category       PathCategoryKind `json:"category"`
	OriginalStatus string           `json:"original_status"`
}

// QuizVM is the normalized quiz listing item.
type QuizVM struct {
	ID            int64          `json:"id"`
	Title         string         `json:"title"`
	Description   string         `json:"description"`
	Category      string         `json:"category"`
	Difficulty    DifficultyKind `json:"difficulty"`
	Status        QuizStatusKind `json:"status"`
	TotalMarks    int            `json:"total_marks"`
	Duration      int            `json:"duration"`
	Questions     int            `json:"questions"`
	DatePosted    *time.Time     `json:"date_posted"`
	DueDate       *time.Time     `json:"due_date"`
	ClassProgress float64        `json:"class_progress"`
	UserScore     *float64       `json:"user_score"`
	Attempts      int            `json:"attempts"`
	Tags          []string       `json:"tags"`
}

// ChallengeVM is the normalized challenge listing item.
type ChallengeVM struct {
	ID             int64          `json:"id"`
	Title          string         `json:"title"`
	Description    string         `json:"description"`
	Difficulty     DifficultyKind `json:"difficulty"`
	Category       string         `json:"category"`
	IsCompleted    bool           `json:"is_completed"`
	IsInProgress   bool           `json:"is_in_progress"`
	PassedStudents int            `json:"passed_students"`
	TotalAttempts  int            `json:"total_attempts"`
	Points         int            `json:"points"`
	EstimatedTime  int            `json:"estimated_time"`
	UserAttempts   int            `json:"user_attempts"`
	UserBestScore  *float64       `json:"user_best_score"`
}

// ChallengeDetailVM extends the challenge card with the fields only the
// detail view needs.
type ChallengeDetailVM struct {
	ChallengeVM
	Instructions string `json:"instructions"`
	SampleInput  string `json:"sample_input"`
	SampleOutput string `json:"sample_output"`
}
