package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"github.com/dsa-tracker/backend/internal/domain"
)

func newTopicService(f *fixture) *TopicService {
	return NewTopicService(f.topics, f.progress, otel.Tracer("test"), zap.NewNop())
}

func TestListTopicsAnnotatesUserCompletion(t *testing.T) {
	f := newFixture()
	topic := f.addTopic("Arrays", 1)
	done := f.addProblem(topic, "Two Sum", domain.DifficultyEasy, 1)
	f.addProblem(topic, "Maximum Subarray", domain.DifficultyMedium, 2)
	svc := newTopicService(f)
	userID := uuid.New()

	f.progress.CompleteUpsert(userID, done.ID)

	views, err := svc.ListWithProgress(context.Background(), &userID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(views) != 1 {
		t.Fatalf("expected 1 topic, got %d", len(views))
	}
	problems := views[0].Problems
	if len(problems) != 2 {
		t.Fatalf("expected 2 problems, got %d", len(problems))
	}
	if !problems[0].IsCompleted {
		t.Fatalf("expected first problem completed")
	}
	if problems[1].IsCompleted {
		t.Fatalf("expected second problem not completed")
	}
}

func TestListTopicsUnauthenticatedReadsAllFalse(t *testing.T) {
	f := newFixture()
	topic := f.addTopic("Arrays", 1)
	p1 := f.addProblem(topic, "Two Sum", domain.DifficultyEasy, 1)
	f.addProblem(topic, "Maximum Subarray", domain.DifficultyMedium, 2)
	svc := newTopicService(f)

	// Another user's completion must not leak into anonymous reads
	f.progress.CompleteUpsert(uuid.New(), p1.ID)

	views, err := svc.ListWithProgress(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, view := range views {
		for _, problem := range view.Problems {
			if problem.IsCompleted {
				t.Fatalf("expected every problem to read not completed for anonymous caller")
			}
		}
	}
}

func TestListTopicsOrdersByRank(t *testing.T) {
	f := newFixture()
	f.addTopic("Strings", 2)
	f.addTopic("Arrays", 1)
	f.addTopic("Trees", 3)
	svc := newTopicService(f)

	views, err := svc.ListWithProgress(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(views) != 3 {
		t.Fatalf("expected 3 topics, got %d", len(views))
	}
	want := []string{"Arrays", "Strings", "Trees"}
	for i, title := range want {
		if views[i].Title != title {
			t.Fatalf("expected topic %d to be %q, got %q", i, title, views[i].Title)
		}
	}
}

func TestGetTopicNotFound(t *testing.T) {
	f := newFixture()
	svc := newTopicService(f)

	_, err := svc.GetWithProgress(context.Background(), uuid.New(), nil)
	if err != domain.ErrTopicNotFound {
		t.Fatalf("expected ErrTopicNotFound, got %v", err)
	}
}

func TestCreateTopic(t *testing.T) {
	f := newFixture()
	svc := newTopicService(f)
	description := "Fundamental array operations"

	topic, err := svc.Create(context.Background(), &domain.TopicCreateRequest{
		Title:       "Arrays",
		Description: &description,
		Order:       1,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if topic.ID == uuid.Nil {
		t.Fatalf("expected generated ID")
	}
	if topic.Title != "Arrays" {
		t.Fatalf("unexpected title %q", topic.Title)
	}
}

func TestUpdateTopicKeepsAbsentFields(t *testing.T) {
	f := newFixture()
	topic := f.addTopic("Arrays", 1)
	svc := newTopicService(f)

	newOrder := 5
	updated, err := svc.Update(context.Background(), topic.ID, &domain.TopicUpdateRequest{
		Order: &newOrder,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Title != "Arrays" {
		t.Fatalf("expected title unchanged, got %q", updated.Title)
	}
	if updated.Order != 5 {
		t.Fatalf("expected order=5, got %d", updated.Order)
	}
}

func TestUpdateTopicNotFound(t *testing.T) {
	f := newFixture()
	svc := newTopicService(f)

	title := "x"
	_, err := svc.Update(context.Background(), uuid.New(), &domain.TopicUpdateRequest{Title: &title})
	if err != domain.ErrTopicNotFound {
		t.Fatalf("expected ErrTopicNotFound, got %v", err)
	}
}

func TestDeleteTopicNotFound(t *testing.T) {
	f := newFixture()
	svc := newTopicService(f)

	if err := svc.Delete(context.Background(), uuid.New()); err != domain.ErrTopicNotFound {
		t.Fatalf("expected ErrTopicNotFound, got %v", err)
	}
}
