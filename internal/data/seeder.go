package data

import (
	_ "embed"
	"encoding/json"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/dsa-tracker/backend/internal/domain"
)

//go:embed curriculum.json
var curriculumData []byte

// topicJSON represents the JSON structure for a seed topic with its problems
type topicJSON struct {
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Order       int           `json:"order"`
	Problems    []problemJSON `json:"problems"`
}

// problemJSON represents the JSON structure for a seed problem
type problemJSON struct {
	Title          string `json:"title"`
	Description    string `json:"description"`
	Difficulty     string `json:"difficulty"`
	YoutubeLink    string `json:"youtubeLink"`
	LeetcodeLink   string `json:"leetcodeLink"`
	CodeforcesLink string `json:"codeforcesLink"`
	ArticleLink    string `json:"articleLink"`
	Order          int    `json:"order"`
}

// Seeder handles database seeding operations
type Seeder struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewSeeder creates a new database seeder
func NewSeeder(db *gorm.DB, logger *zap.Logger) *Seeder {
	return &Seeder{
		db:     db,
		logger: logger,
	}
}

// SeedCurriculum seeds the topics and problems tables from the embedded
// curriculum data. Skips when topics already exist.
func (s *Seeder) SeedCurriculum() error {
	s.logger.Info("Starting to seed curriculum...")

	var count int64
	if err := s.db.Model(&domain.Topic{}).Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		s.logger.Info("Curriculum already seeded, skipping",
			zap.Int64("topics", count),
		)
		return nil
	}

	topics, err := EmbeddedCurriculum()
	if err != nil {
		return err
	}

	problemCount := 0
	err = s.db.Transaction(func(tx *gorm.DB) error {
		for i := range topics {
			problems := topics[i].Problems
			topics[i].Problems = nil
			if err := tx.Create(&topics[i]).Error; err != nil {
				return err
			}
			for j := range problems {
				problems[j].TopicID = topics[i].ID
				if err := tx.Create(&problems[j]).Error; err != nil {
					return err
				}
			}
			problemCount += len(problems)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("Successfully seeded curriculum",
		zap.Int("topics", len(topics)),
		zap.Int("problems", problemCount),
	)

	return nil
}

// EmbeddedCurriculum parses the embedded seed data into domain models.
// Each topic carries its problems; problem TopicID is filled in on insert.
func EmbeddedCurriculum() ([]domain.Topic, error) {
	var topicsJSON []topicJSON
	if err := json.Unmarshal(curriculumData, &topicsJSON); err != nil {
		return nil, err
	}

	topics := make([]domain.Topic, len(topicsJSON))
	for i, t := range topicsJSON {
		description := t.Description
		topics[i] = domain.Topic{
			ID:          uuid.New(),
			Title:       t.Title,
			Description: &description,
			Order:       t.Order,
		}

		problems := make([]domain.Problem, len(t.Problems))
		for j, p := range t.Problems {
			problems[j] = domain.Problem{
				ID:             uuid.New(),
				Title:          p.Title,
				Description:    strPtr(p.Description),
				Difficulty:     domain.Difficulty(p.Difficulty),
				YoutubeLink:    strPtr(p.YoutubeLink),
				LeetcodeLink:   strPtr(p.LeetcodeLink),
				CodeforcesLink: strPtr(p.CodeforcesLink),
				ArticleLink:    strPtr(p.ArticleLink),
				Order:          p.Order,
				TopicID:        topics[i].ID,
			}
		}
		topics[i].Problems = problems
	}

	return topics, nil
}

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
