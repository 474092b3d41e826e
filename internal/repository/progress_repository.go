package repository

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/dsa-tracker/backend/internal/domain"
)

// progressRepository implements domain.ProgressRepository using GORM
type progressRepository struct {
	db *gorm.DB
}

// NewProgressRepository creates a new progress repository
func NewProgressRepository(db *gorm.DB) domain.ProgressRepository {
	return &progressRepository{db: db}
}

// ToggleUpsert atomically creates the progress row as completed or flips an
// existing row. The whole operation is a single
// INSERT ... ON CONFLICT (user_id, problem_id) DO UPDATE statement, so two
// concurrent first-time toggles cannot produce duplicate rows and there is
// no read-modify-write window.
func (r *progressRepository) ToggleUpsert(userID, problemID uuid.UUID) (*domain.UserProgress, error) {
	row := domain.UserProgress{
		ID:        uuid.New(),
		UserID:    userID,
		ProblemID: problemID,
		Completed: true,
	}
	result := r.db.Clauses(
		clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "problem_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"completed":  gorm.Expr("NOT user_progress.completed"),
				"updated_at": time.Now(),
			}),
		},
		clause.Returning{},
	).Create(&row)
	if result.Error != nil {
		return nil, result.Error
	}
	return r.reload(row.ID)
}

// CompleteUpsert atomically creates the progress row as completed or forces
// an existing row to completed. Repeated calls converge on completed=true.
func (r *progressRepository) CompleteUpsert(userID, problemID uuid.UUID) (*domain.UserProgress, error) {
	row := domain.UserProgress{
		ID:        uuid.New(),
		UserID:    userID,
		ProblemID: problemID,
		Completed: true,
	}
	result := r.db.Clauses(
		clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "problem_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"completed":  true,
				"updated_at": time.Now(),
			}),
		},
		clause.Returning{},
	).Create(&row)
	if result.Error != nil {
		return nil, result.Error
	}
	return r.reload(row.ID)
}

// reload fetches a progress row with its problem and topic joined for the
// caller's convenience
func (r *progressRepository) reload(id uuid.UUID) (*domain.UserProgress, error) {
	var row domain.UserProgress
	result := r.db.Preload("Problem.Topic").Where("id = ?", id).First(&row)
	if result.Error != nil {
		return nil, result.Error
	}
	return &row, nil
}

// FindByUser returns all progress rows for a user joined with problem and
// topic, ordered by topic rank and then problem rank
func (r *progressRepository) FindByUser(userID uuid.UUID) ([]domain.UserProgress, error) {
	var rows []domain.UserProgress
	result := r.db.
		Preload("Problem.Topic").
		Joins("JOIN problems ON problems.id = user_progress.problem_id").
		Joins("JOIN topics ON topics.id = problems.topic_id").
		Where("user_progress.user_id = ?", userID).
		Order("topics.sort_order ASC, problems.sort_order ASC").
		Find(&rows)
	return rows, result.Error
}

// CompletionByUser returns the user's completion state indexed by problem
// ID, for single-pass annotation of problem lists. Problems with no row
// are absent from the map.
func (r *progressRepository) CompletionByUser(userID uuid.UUID) (map[uuid.UUID]bool, error) {
	var rows []struct {
		ProblemID uuid.UUID
		Completed bool
	}
	result := r.db.Model(&domain.UserProgress{}).
		Select("problem_id, completed").
		Where("user_id = ?", userID).
		Scan(&rows)
	if result.Error != nil {
		return nil, result.Error
	}

	completion := make(map[uuid.UUID]bool, len(rows))
	for _, row := range rows {
		completion[row.ProblemID] = row.Completed
	}
	return completion, nil
}

// DeleteByUser deletes every progress row for the user. Deleting zero rows
// is success.
func (r *progressRepository) DeleteByUser(userID uuid.UUID) error {
	return r.db.Delete(&domain.UserProgress{}, "user_id = ?", userID).Error
}

// CountCompletedByDifficulty returns the user's completed row counts
// grouped by the referenced problem's difficulty
func (r *progressRepository) CountCompletedByDifficulty(userID uuid.UUID) (map[domain.Difficulty]int64, error) {
	var rows []struct {
		Difficulty domain.Difficulty
		Count      int64
	}
	result := r.db.Model(&domain.UserProgress{}).
		Select("problems.difficulty AS difficulty, COUNT(*) AS count").
		Joins("JOIN problems ON problems.id = user_progress.problem_id").
		Where("user_progress.user_id = ? AND user_progress.completed = ?", userID, true).
		Group("problems.difficulty").
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
