package repository

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/dsa-tracker/backend/internal/domain"
)

// problemRepository implements domain.ProblemRepository using GORM
type problemRepository struct {
	db *gorm.DB
}

// NewProblemRepository creates a new problem repository
func NewProblemRepository(db *gorm.DB) domain.ProblemRepository {
	return &problemRepository{db: db}
}

// Create creates a new problem in the database
func (r *problemRepository) Create(problem *domain.Problem) error {
	return r.db.Create(problem).Error
}

// FindByID finds a problem by its ID, with its topic joined
func (r *problemRepository) FindByID(id uuid.UUID) (*domain.Problem, error) {
	var problem domain.Problem
	result := r.db.Preload("Topic").Where("id = ?", id).First(&problem)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domain.ErrProblemNotFound
		}
		return nil, result.Error
	}
	return &problem, nil
}

// FindAll returns problems matching the filter, ordered by topic rank and
// then problem rank
func (r *problemRepository) FindAll(filter domain.ProblemFilter) ([]domain.Problem, error) {
	var problems []domain.Problem

	query := r.db.
		Preload("Topic").
		Joins("JOIN topics ON topics.id = problems.topic_id").
		Order("topics.sort_order ASC, problems.sort_order ASC")

	if filter.TopicID != nil {
		query = query.Where("problems.topic_id = ?", *filter.TopicID)
	}
	if filter.Difficulty != nil {
		query = query.Where("problems.difficulty = ?", *filter.Difficulty)
	}

	result := query.Find(&problems)
	return problems, result.Error
}

// Update updates an existing problem. Associations are omitted so a
// preloaded topic is not re-upserted alongside the problem row.
func (r *problemRepository) Update(problem *domain.Problem) error {
	return r.db.Omit(clause.Associations).Save(problem).Error
}

// Delete deletes a problem by its ID
func (r *problemRepository) Delete(id uuid.UUID) error {
	result := r.db.Delete(&domain.Problem{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrProblemNotFound
	}
	return nil
}

// CountByDifficulty returns the global problem count grouped by difficulty.
// Difficulties with no problems are absent from the map.
func (r *problemRepository) CountByDifficulty() (map[domain.Difficulty]int64, error) {
	var rows []struct {
		Difficulty domain.Difficulty
		Count      int64
	}
	result := r.db.Model(&domain.Problem{}).
		Select("difficulty, COUNT(*) AS count").
		Group("difficulty").
		Scan(&rows)
	if result.Error != nil {
		return nil, result.Error
	}

	counts := make(map[domain.Difficulty]int64, len(rows))
	for _, row := range rows {
		counts[row.Difficulty] = row.Count
	}
	return counts, nil
}
