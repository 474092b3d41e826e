package repository

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/dsa-tracker/backend/internal/domain"
)

// topicRepository implements domain.TopicRepository using GORM
type topicRepository struct {
	db *gorm.DB
}

// NewTopicRepository creates a new topic repository
func NewTopicRepository(db *gorm.DB) domain.TopicRepository {
	return &topicRepository{db: db}
}

// Create creates a new topic in the database
func (r *topicRepository) Create(topic *domain.Topic) error {
	return r.db.Create(topic).Error
}

// FindByID finds a topic by its ID, with its problems ordered by rank
func (r *topicRepository) FindByID(id uuid.UUID) (*domain.Topic, error) {
	var topic domain.Topic
	result := r.db.
		Preload("Problems", func(db *gorm.DB) *gorm.DB {
			return db.Order("problems.sort_order ASC")
		}).
		Where("id = ?", id).
		First(&topic)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domain.ErrTopicNotFound
		}
		return nil, result.Error
	}
	return &topic, nil
}

// FindAllOrdered returns all topics ordered by rank, each with its
// problems ordered by rank
func (r *topicRepository) FindAllOrdered() ([]domain.Topic, error) {
	var topics []domain.Topic
	result := r.db.
		Preload("Problems", func(db *gorm.DB) *gorm.DB {
			return db.Order("problems.sort_order ASC")
		}).
		Order("sort_order ASC").
		Find(&topics)
	return topics, result.Error
}

// Update updates an existing topic. Associations are omitted so preloaded
// problems are not re-upserted alongside the topic row.
func (r *topicRepository) Update(topic *domain.Topic) error {
	return r.db.Omit(clause.Associations).Save(topic).Error
}

// Delete deletes a topic by its ID; the schema cascades to its problems
func (r *topicRepository) Delete(id uuid.UUID) error {
	result := r.db.Delete(&domain.Topic{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrTopicNotFound
	}
	return nil
}
