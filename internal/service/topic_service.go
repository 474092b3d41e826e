package service

import (
	"context"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/dsa-tracker/backend/internal/domain"
)

// TopicService handles topic CRUD and the progress-annotated topic views
type TopicService struct {
	topicRepo    domain.TopicRepository
	progressRepo domain.ProgressRepository
	tracer       trace.Tracer
	logger       *zap.Logger
}

// NewTopicService creates a new topic service
func NewTopicService(
	topicRepo domain.TopicRepository,
	progressRepo domain.ProgressRepository,
	tracer trace.Tracer,
	logger *zap.Logger,
) *TopicService {
	return &TopicService{
		topicRepo:    topicRepo,
		progressRepo: progressRepo,
		tracer:       tracer,
		logger:       logger,
	}
}

// ListWithProgress returns all topics with their problems, each problem
// annotated with the requesting user's completion state. A nil userID is
// an unauthenticated read and every problem reads as not completed.
func (s *TopicService) ListWithProgress(ctx context.Context, userID *uuid.UUID) ([]domain.TopicView, error) {
	ctx, span := s.tracer.Start(ctx, "TopicService.ListWithProgress")
	defer span.End()

	topics, err := s.topicRepo.FindAllOrdered()
	if err != nil {
		return nil, err
	}

	completion, err := s.completionFor(userID)
	if err != nil {
		return nil, err
	}

	views := make([]domain.TopicView, len(topics))
	for i, topic := range topics {
		views[i] = annotateTopic(topic, completion)
	}
	return views, nil
}

// GetWithProgress returns a single topic with its problems annotated
func (s *TopicService) GetWithProgress(ctx context.Context, id uuid.UUID, userID *uuid.UUID) (*domain.TopicView, error) {
	ctx, span := s.tracer.Start(ctx, "TopicService.GetWithProgress")
	defer span.End()

	span.SetAttributes(attribute.String("topic.id", id.String()))

	topic, err := s.topicRepo.FindByID(id)
	if err != nil {
		return nil, err
	}

	completion, err := s.completionFor(userID)
	if err != nil {
		return nil, err
	}

	view := annotateTopic(*topic, completion)
	return &view, nil
}

// Create creates a new topic
func (s *TopicService) Create(ctx context.Context, req *domain.TopicCreateRequest) (*domain.Topic, error) {
	ctx, span := s.tracer.Start(ctx, "TopicService.Create")
	defer span.End()

	topic := &domain.Topic{
		ID:          uuid.New(),
		Title:       req.Title,
		Description: req.Description,
		Order:       req.Order,
	}

	if err := s.topicRepo.Create(topic); err != nil {
		s.logger.Error("Failed to create topic", zap.Error(err))
		return nil, err
	}

	s.logger.Info("Topic created",
		zap.String("topic_id", topic.ID.String()),
		zap.String("title", topic.Title),
	)

	return topic, nil
}

// Update applies a partial update to a topic; nil request fields keep
// their stored value
func (s *TopicService) Update(ctx context.Context, id uuid.UUID, req *domain.TopicUpdateRequest) (*domain.Topic, error) {
	ctx, span := s.tracer.Start(ctx, "TopicService.Update")
	defer span.End()

	span.SetAttributes(attribute.String("topic.id", id.String()))

	topic, err := s.topicRepo.FindByID(id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		topic.Title = *req.Title
	}
	if req.Description != nil {
		topic.Description = req.Description
	}
	if req.Order != nil {
		topic.Order = *req.Order
	}

	if err := s.topicRepo.Update(topic); err != nil {
		s.logger.Error("Failed to update topic",
			zap.String("topic_id", id.String()),
			zap.Error(err),
		)
		return nil, err
	}

	return topic, nil
}

// Delete deletes a topic; its problems go with it
func (s *TopicService) Delete(ctx context.Context, id uuid.UUID) error {
	ctx, span := s.tracer.Start(ctx, "TopicService.Delete")
	defer span.End()

	span.SetAttributes(attribute.String("topic.id", id.String()))

	if err := s.topicRepo.Delete(id); err != nil {
		return err
	}

	s.logger.Info("Topic deleted", zap.String("topic_id", id.String()))
	return nil
}

// completionFor fetches the user's completion map once for single-pass
// annotation. Nil for unauthenticated reads: lookups on a nil map read
// false, which is exactly the absent-row semantics.
func (s *TopicService) completionFor(userID *uuid.UUID) (map[uuid.UUID]bool, error) {
	if userID == nil {
		return nil, nil
	}
	return s.progressRepo.CompletionByUser(*userID)
}

// annotateTopic merges the completion map onto a topic's problems
func annotateTopic(topic domain.Topic, completion map[uuid.UUID]bool) domain.TopicView {
	view := domain.TopicView{Topic: topic}
	view.Topic.Problems = nil

	view.Problems = make([]domain.ProblemView, len(topic.Problems))
	for i, problem := range topic.Problems {
		view.Problems[i] = domain.ProblemView{
			Problem:     problem,
			IsCompleted: completion[problem.ID],
		}
	}
	return view
}
