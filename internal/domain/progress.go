package domain

import (
	"time"

	"github.com/google/uuid"
)

// UserProgress records one user's completion state for one problem.
// At most one row exists per (UserID, ProblemID) pair; the row is created
// lazily on the first toggle or mark, and absence reads as not completed.
type UserProgress struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserID    uuid.UUID `json:"userId" gorm:"type:uuid;not null;uniqueIndex:idx_user_problem"`
	ProblemID uuid.UUID `json:"problemId" gorm:"type:uuid;not null;uniqueIndex:idx_user_problem"`
	Completed bool      `json:"completed" gorm:"not null;default:false"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Relationships
	Problem *Problem `json:"problem,omitempty" gorm:"foreignKey:ProblemID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for GORM
func (UserProgress) TableName() string {
	return "user_progress"
}

// ProgressRepository defines the interface for progress data access.
// ToggleUpsert and CompleteUpsert must be atomic against concurrent
// first-time writes for the same (user, problem) pair: they rely on the
// composite unique index and an ON CONFLICT update rather than a
// read-modify-write sequence.
type ProgressRepository interface {
	ToggleUpsert(userID, problemID uuid.UUID) (*UserProgress, error)
	CompleteUpsert(userID, problemID uuid.UUID) (*UserProgress, error)
	FindByUser(userID uuid.UUID) ([]UserProgress, error)
	CompletionByUser(userID uuid.UUID) (map[uuid.UUID]bool, error)
	DeleteByUser(userID uuid.UUID) error
	CountCompletedByDifficulty(userID uuid.UUID) (map[Difficulty]int64, error)
}

// DifficultyStats pairs the user's completed count with the global problem
// count for one difficulty level
type DifficultyStats struct {
	Completed int `json:"completed"`
	Total     int `json:"total"`
}

// SummaryByDifficulty breaks completion stats down per difficulty level
type SummaryByDifficulty struct {
	Easy   DifficultyStats `json:"easy"`
	Medium DifficultyStats `json:"medium"`
	Hard   DifficultyStats `json:"hard"`
}

// ProgressSummary is the aggregate completion view for one user
type ProgressSummary struct {
	TotalProblems        int                 `json:"totalProblems"`
	CompletedProblems    int                 `json:"completedProblems"`
	CompletionPercentage int                 `json:"completionPercentage"`
	ByDifficulty         SummaryByDifficulty `json:"byDifficulty"`
}

// Stats returns the per-difficulty bucket for d
func (s *SummaryByDifficulty) Stats(d Difficulty) *DifficultyStats {
	switch d {
	case DifficultyEasy:
		return &s.Easy
	case DifficultyMedium:
		return &s.Medium
	case DifficultyHard:
		return &s.Hard
	default:
		return nil
	}
}
