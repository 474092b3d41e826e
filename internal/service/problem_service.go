package service

import (
	"context"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/dsa-tracker/backend/internal/domain"
)

// ProblemService handles problem CRUD and progress-annotated problem views
type ProblemService struct {
	problemRepo  domain.ProblemRepository
	topicRepo    domain.TopicRepository
	progressRepo domain.ProgressRepository
	tracer       trace.Tracer
	logger       *zap.Logger
}

// NewProblemService creates a new problem service
func NewProblemService(
	problemRepo domain.ProblemRepository,
	topicRepo domain.TopicRepository,
	progressRepo domain.ProgressRepository,
	tracer trace.Tracer,
	logger *zap.Logger,
) *ProblemService {
	return &ProblemService{
		problemRepo:  problemRepo,
		topicRepo:    topicRepo,
		progressRepo: progressRepo,
		tracer:       tracer,
		logger:       logger,
	}
}

// ListWithProgress returns problems matching the filter, annotated with the
// requesting user's completion state. A nil userID reads everything as not
// completed.
func (s *ProblemService) ListWithProgress(ctx context.Context, filter domain.ProblemFilter, userID *uuid.UUID) ([]domain.ProblemView, error) {
	ctx, span := s.tracer.Start(ctx, "ProblemService.ListWithProgress")
	defer span.End()

	problems, err := s.problemRepo.FindAll(filter)
	if err != nil {
		return nil, err
	}

	var completion map[uuid.UUID]bool
	if userID != nil {
		completion, err = s.progressRepo.CompletionByUser(*userID)
		if err != nil {
			return nil, err
		}
	}

	views := make([]domain.ProblemView, len(problems))
	for i, problem := range problems {
		views[i] = domain.ProblemView{
			Problem:     problem,
			IsCompleted: completion[problem.ID],
		}
	}
	return views, nil
}

// GetWithProgress returns a single problem annotated with the requesting
// user's completion state
func (s *ProblemService) GetWithProgress(ctx context.Context, id uuid.UUID, userID *uuid.UUID) (*domain.ProblemView, error) {
	ctx, span := s.tracer.Start(ctx, "ProblemService.GetWithProgress")
	defer span.End()

	span.SetAttributes(attribute.String("problem.id", id.String()))

	problem, err := s.problemRepo.FindByID(id)
	if err != nil {
		return nil, err
	}

	view := domain.ProblemView{Problem: *problem}
	if userID != nil {
		completion, err := s.progressRepo.CompletionByUser(*userID)
		if err != nil {
			return nil, err
		}
		view.IsCompleted = completion[problem.ID]
	}
	return &view, nil
}

// Create creates a new problem under an existing topic
func (s *ProblemService) Create(ctx context.Context, req *domain.ProblemCreateRequest) (*domain.Problem, error) {
	ctx, span := s.tracer.Start(ctx, "ProblemService.Create")
	defer span.End()

	difficulty, err := domain.ParseDifficulty(req.Difficulty)
	if err != nil {
		return nil, err
	}

	if _, err := s.topicRepo.FindByID(req.TopicID); err != nil {
		return nil, err
	}

	problem := &domain.Problem{
		ID:             uuid.New(),
		Title:          req.Title,
		Description:    req.Description,
		Difficulty:     difficulty,
		YoutubeLink:    req.YoutubeLink,
		LeetcodeLink:   req.LeetcodeLink,
		CodeforcesLink: req.CodeforcesLink,
		ArticleLink:    req.ArticleLink,
		Order:          req.Order,
		TopicID:        req.TopicID,
	}

	if err := s.problemRepo.Create(problem); err != nil {
		s.logger.Error("Failed to create problem", zap.Error(err))
		return nil, err
	}

	s.logger.Info("Problem created",
		zap.String("problem_id", problem.ID.String()),
		zap.String("title", problem.Title),
		zap.String("difficulty", string(problem.Difficulty)),
	)

	span.SetAttributes(attribute.String("problem.id", problem.ID.String()))

	// Reload with the topic joined for the response
	return s.problemRepo.FindByID(problem.ID)
}

// Update applies a partial update to a problem; nil request fields keep
// their stored value
func (s *ProblemService) Update(ctx context.Context, id uuid.UUID, req *domain.ProblemUpdateRequest) (*domain.Problem, error) {
	ctx, span := s.tracer.Start(ctx, "ProblemService.Update")
	defer span.End()

	span.SetAttributes(attribute.String("problem.id", id.String()))

	problem, err := s.problemRepo.FindByID(id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		problem.Title = *req.Title
	}
	if req.Description != nil {
		problem.Description = req.Description
	}
	if req.Difficulty != nil {
		difficulty, err := domain.ParseDifficulty(*req.Difficulty)
		if err != nil {
			return nil, err
		}
		problem.Difficulty = difficulty
	}
	if req.YoutubeLink != nil {
		problem.YoutubeLink = req.YoutubeLink
	}
	if req.LeetcodeLink != nil {
		problem.LeetcodeLink = req.LeetcodeLink
	}
	if req.CodeforcesLink != nil {
		problem.CodeforcesLink = req.CodeforcesLink
	}
	if req.ArticleLink != nil {
		problem.ArticleLink = req.ArticleLink
	}
	if req.Order != nil {
		problem.Order = *req.Order
	}
	if req.TopicID != nil {
		if _, err := s.topicRepo.FindByID(*req.TopicID); err != nil {
			return nil, err
		}
		problem.TopicID = *req.TopicID
	}

	if err := s.problemRepo.Update(problem); err != nil {
		s.logger.Error("Failed to update problem",
			zap.String("problem_id", id.String()),
			zap.Error(err),
		)
		return nil, err
	}

	return s.problemRepo.FindByID(id)
}

// Delete deletes a problem
func (s *ProblemService) Delete(ctx context.Context, id uuid.UUID) error {
	ctx, span := s.tracer.Start(ctx, "ProblemService.Delete")
	defer span.End()

	span.SetAttributes(attribute.String("problem.id", id.String()))

	if err := s.problemRepo.Delete(id); err != nil {
		return err
	}

	s.logger.Info("Problem deleted", zap.String("problem_id", id.String()))
	return nil
}
