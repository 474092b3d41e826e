package domain

import (
	"time"

	"github.com/google/uuid"
)

// Topic is a named category grouping ordered practice problems
type Topic struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Title       string    `json:"title" gorm:"not null"`
	Description *string   `json:"description,omitempty"`
	Order       int       `json:"order" gorm:"column:sort_order;not null;default:0"` // Display rank, not required unique
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`

	// Relationships
	Problems []Problem `json:"problems,omitempty" gorm:"foreignKey:TopicID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for GORM
func (Topic) TableName() string {
	return "topics"
}

// TopicRepository defines the interface for topic data access
type TopicRepository interface {
	Create(topic *Topic) error
	FindByID(id uuid.UUID) (*Topic, error)
	FindAllOrdered() ([]Topic, error)
	Update(topic *Topic) error
	Delete(id uuid.UUID) error
}

// TopicCreateRequest represents the data needed to create a topic
type TopicCreateRequest struct {
	Title       string  `json:"title" binding:"required"`
	Description *string `json:"description"`
	Order       int     `json:"order"`
}

// TopicUpdateRequest carries a partial topic update; nil fields keep their
// stored value
type TopicUpdateRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Order       *int    `json:"order"`
}

// TopicView is a topic with its problems annotated by the requesting
// user's completion state
type TopicView struct {
	Topic
	Problems []ProblemView `json:"problems"`
}
