package service

import (
	"context"
	"math"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/dsa-tracker/backend/internal/domain"
)

// ProgressService handles per-user completion bookkeeping and the
// aggregate summary view
type ProgressService struct {
	progressRepo domain.ProgressRepository
	problemRepo  domain.ProblemRepository
	tracer       trace.Tracer
	logger       *zap.Logger
}

// NewProgressService creates a new progress service
func NewProgressService(
	progressRepo domain.ProgressRepository,
	problemRepo domain.ProblemRepository,
	tracer trace.Tracer,
	logger *zap.Logger,
) *ProgressService {
	return &ProgressService{
		progressRepo: progressRepo,
		problemRepo:  problemRepo,
		tracer:       tracer,
		logger:       logger,
	}
}

// Toggle flips the user's completion state for a problem, creating the row
// as completed on first touch. Returns the resulting record joined with
// problem and topic. Fails with ErrProblemNotFound if the problem does not
// exist; no row is created in that case.
func (s *ProgressService) Toggle(ctx context.Context, userID, problemID uuid.UUID) (*domain.UserProgress, error) {
	ctx, span := s.tracer.Start(ctx, "ProgressService.Toggle")
	defer span.End()

	span.SetAttributes(
		attribute.String("user.id", userID.String()),
		attribute.String("problem.id", problemID.String()),
	)

	if _, err := s.problemRepo.FindByID(problemID); err != nil {
		return nil, err
	}

	row, err := s.progressRepo.ToggleUpsert(userID, problemID)
	if err != nil {
		s.logger.Error("Failed to toggle progress",
			zap.String("user_id", userID.String()),
			zap.String("problem_id", problemID.String()),
			zap.Error(err),
		)
		return nil, err
	}

	s.logger.Info("Progress toggled",
		zap.String("user_id", userID.String()),
		zap.String("problem_id", problemID.String()),
		zap.Bool("completed", row.Completed),
	)

	return row, nil
}

// MarkCompleted forces the user's completion state for a problem to true,
// creating the row if needed. Idempotent under repetition. Fails with
// ErrProblemNotFound if the problem does not exist.
func (s *ProgressService) MarkCompleted(ctx context.Context, userID, problemID uuid.UUID) (*domain.UserProgress, error) {
	ctx, span := s.tracer.Start(ctx, "ProgressService.MarkCompleted")
	defer span.End()

	span.SetAttributes(
		attribute.String("user.id", userID.String()),
		attribute.String("problem.id", problemID.String()),
	)

	if _, err := s.problemRepo.FindByID(problemID); err != nil {
		return nil, err
	}

	row, err := s.progressRepo.CompleteUpsert(userID, problemID)
	if err != nil {
		s.logger.Error("Failed to mark progress",
			zap.String("user_id", userID.String()),
			zap.String("problem_id", problemID.String()),
			zap.Error(err),
		)
		return nil, err
	}

	return row, nil
}

// ResetAll deletes every progress row for the user. Deleting zero rows
// is success.
func (s *ProgressService) ResetAll(ctx context.Context, userID uuid.UUID) error {
	ctx, span := s.tracer.Start(ctx, "ProgressService.ResetAll")
	defer span.End()

	span.SetAttributes(attribute.String("user.id", userID.String()))

	if err := s.progressRepo.DeleteByUser(userID); err != nil {
		s.logger.Error("Failed to reset progress",
			zap.String("user_id", userID.String()),
			zap.Error(err),
		)
		return err
	}

	s.logger.Info("Progress reset", zap.String("user_id", userID.String()))
	return nil
}

// List returns the user's progress rows joined with problem and topic,
// ordered by topic rank and then problem rank
func (s *ProgressService) List(ctx context.Context, userID uuid.UUID) ([]domain.UserProgress, error) {
	ctx, span := s.tracer.Start(ctx, "ProgressService.List")
	defer span.End()

	span.SetAttributes(attribute.String("user.id", userID.String()))
	return s.progressRepo.FindByUser(userID)
}

// Summarize computes the user's aggregate completion view. Totals count
// every problem regardless of progress rows; completed counts only the
// user's rows with completed=true. Per-difficulty totals are global, so
// the difficulty buckets partition the overall total.
func (s *ProgressService) Summarize(ctx context.Context, userID uuid.UUID) (*domain.ProgressSummary, error) {
	ctx, span := s.tracer.Start(ctx, "ProgressService.Summarize")
	defer span.End()

	span.SetAttributes(attribute.String("user.id", userID.String()))

	totals, err := s.problemRepo.CountByDifficulty()
	if err != nil {
		return nil, err
	}

	completed, err := s.progressRepo.CountCompletedByDifficulty(userID)
	if err != nil {
		return nil, err
	}

	summary := &domain.ProgressSummary{}
	for _, d := range domain.Difficulties {
		stats := summary.ByDifficulty.Stats(d)
		stats.Total = int(totals[d])
		stats.Completed = int(completed[d])
		summary.TotalProblems += stats.Total
		summary.CompletedProblems += stats.Completed
	}

	if summary.TotalProblems > 0 {
		ratio := float64(summary.CompletedProblems) / float64(summary.TotalProblems)
		summary.CompletionPercentage = int(math.Round(ratio * 100))
	}

	return summary, nil
}
