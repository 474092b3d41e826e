package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Difficulty represents the difficulty level of a problem
type Difficulty string

const (
	DifficultyEasy   Difficulty = "EASY"
	DifficultyMedium Difficulty = "MEDIUM"
	DifficultyHard   Difficulty = "HARD"
)

// Difficulties lists every valid difficulty level in ascending order
var Difficulties = []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard}

// ParseDifficulty normalizes and validates a difficulty string
func ParseDifficulty(s string) (Difficulty, error) {
	switch Difficulty(strings.ToUpper(s)) {
	case DifficultyEasy:
		return DifficultyEasy, nil
	case DifficultyMedium:
		return DifficultyMedium, nil
	case DifficultyHard:
		return DifficultyHard, nil
	default:
		return "", ErrInvalidDifficulty
	}
}

// Problem represents a single practice exercise within a topic
type Problem struct {
	ID             uuid.UUID  `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Title          string     `json:"title" gorm:"not null"`
	Description    *string    `json:"description,omitempty"`
	Difficulty     Difficulty `json:"difficulty" gorm:"type:varchar(10);not null;index"`
	YoutubeLink    *string    `json:"youtubeLink,omitempty"`
	LeetcodeLink   *string    `json:"leetcodeLink,omitempty"`
	CodeforcesLink *string    `json:"codeforcesLink,omitempty"`
	ArticleLink    *string    `json:"articleLink,omitempty"`
	Order          int        `json:"order" gorm:"column:sort_order;not null;default:0"`
	TopicID        uuid.UUID  `json:"topicId" gorm:"type:uuid;not null;index"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`

	// Relationships
	Topic *Topic `json:"topic,omitempty" gorm:"foreignKey:TopicID"`
}

// TableName specifies the table name for GORM
func (Problem) TableName() string {
	return "problems"
}

// ProblemFilter represents filtering options for problem queries
type ProblemFilter struct {
	TopicID    *uuid.UUID
	Difficulty *Difficulty
}

// ProblemRepository defines the interface for problem data access
type ProblemRepository interface {
	Create(problem *Problem) error
	FindByID(id uuid.UUID) (*Problem, error)
	FindAll(filter ProblemFilter) ([]Problem, error)
	Update(problem *Problem) error
	Delete(id uuid.UUID) error
	CountByDifficulty() (map[Difficulty]int64, error)
}

// ProblemCreateRequest represents the data needed to create a problem
type ProblemCreateRequest struct {
	Title          string    `json:"title" binding:"required"`
	Description    *string   `json:"description"`
	Difficulty     string    `json:"difficulty" binding:"required"`
	YoutubeLink    *string   `json:"youtubeLink"`
	LeetcodeLink   *string   `json:"leetcodeLink"`
	CodeforcesLink *string   `json:"codeforcesLink"`
	ArticleLink    *string   `json:"articleLink"`
	Order          int       `json:"order"`
	TopicID        uuid.UUID `json:"topicId" binding:"required"`
}

// ProblemUpdateRequest carries a partial problem update; nil fields keep
// their stored value
type ProblemUpdateRequest struct {
	Title          *string    `json:"title"`
	Description    *string    `json:"description"`
	Difficulty     *string    `json:"difficulty"`
	YoutubeLink    *string    `json:"youtubeLink"`
	LeetcodeLink   *string    `json:"leetcodeLink"`
	CodeforcesLink *string    `json:"codeforcesLink"`
	ArticleLink    *string    `json:"articleLink"`
	Order          *int       `json:"order"`
	TopicID        *uuid.UUID `json:"topicId"`
}

// ProblemView is a problem annotated with the requesting user's completion
// state. A problem with no progress row reads as not completed.
type ProblemView struct {
	Problem
	IsCompleted bool `json:"isCompleted"`
}
