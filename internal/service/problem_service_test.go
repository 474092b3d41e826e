package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"github.com/dsa-tracker/backend/internal/domain"
)

func newProblemService(f *fixture) *ProblemService {
	return NewProblemService(f.problems, f.topics, f.progress, otel.Tracer("test"), zap.NewNop())
}

func TestListProblemsFiltersByTopicAndDifficulty(t *testing.T) {
	f := newFixture()
	arrays := f.addTopic("Arrays", 1)
	strings := f.addTopic("Strings", 2)
	f.addProblem(arrays, "Two Sum", domain.DifficultyEasy, 1)
	f.addProblem(arrays, "Maximum Subarray", domain.DifficultyMedium, 2)
	f.addProblem(strings, "Valid Parentheses", domain.DifficultyEasy, 1)
	svc := newProblemService(f)

	easy := domain.DifficultyEasy
	views, err := svc.ListWithProgress(context.Background(), domain.ProblemFilter{
		TopicID:    &arrays.ID,
		Difficulty: &easy,
	}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(views) != 1 {
		t.Fatalf("expected 1 problem, got %d", len(views))
	}
	if views[0].Title != "Two Sum" {
		t.Fatalf("unexpected problem %q", views[0].Title)
	}
}

func TestListProblemsUnfilteredOrdersByTopicThenProblemRank(t *testing.T) {
	f := newFixture()
	strings := f.addTopic("Strings", 2)
	arrays := f.addTopic("Arrays", 1)
	f.addProblem(strings, "Valid Parentheses", domain.DifficultyEasy, 1)
	f.addProblem(arrays, "Maximum Subarray", domain.DifficultyMedium, 2)
	f.addProblem(arrays, "Two Sum", domain.DifficultyEasy, 1)
	svc := newProblemService(f)

	views, err := svc.ListWithProgress(context.Background(), domain.ProblemFilter{}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"Two Sum", "Maximum Subarray", "Valid Parentheses"}
	if len(views) != len(want) {
		t.Fatalf("expected %d problems, got %d", len(want), len(views))
	}
	for i, title := range want {
		if views[i].Title != title {
			t.Fatalf("position %d: expected %q, got %q", i, title, views[i].Title)
		}
	}
}

func TestListProblemsAnnotatesOnlyRequestingUser(t *testing.T) {
	f := newFixture()
	arrays := f.addTopic("Arrays", 1)
	problem := f.addProblem(arrays, "Two Sum", domain.DifficultyEasy, 1)
	svc := newProblemService(f)
	alice := uuid.New()
	bob := uuid.New()

	f.progress.CompleteUpsert(alice, problem.ID)

	views, err := svc.ListWithProgress(context.Background(), domain.ProblemFilter{}, &bob)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if views[0].IsCompleted {
		t.Fatalf("expected bob's view not completed")
	}

	views, err = svc.ListWithProgress(context.Background(), domain.ProblemFilter{}, &alice)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !views[0].IsCompleted {
		t.Fatalf("expected alice's view completed")
	}
}

func TestGetProblemNotFound(t *testing.T) {
	f := newFixture()
	svc := newProblemService(f)

	_, err := svc.GetWithProgress(context.Background(), uuid.New(), nil)
	if err != domain.ErrProblemNotFound {
		t.Fatalf("expected ErrProblemNotFound, got %v", err)
	}
}

func TestCreateProblemRejectsInvalidDifficulty(t *testing.T) {
	f := newFixture()
	arrays := f.addTopic("Arrays", 1)
	svc := newProblemService(f)

	_, err := svc.Create(context.Background(), &domain.ProblemCreateRequest{
		Title:      "Two Sum",
		Difficulty: "IMPOSSIBLE",
		TopicID:    arrays.ID,
	})
	if err != domain.ErrInvalidDifficulty {
		t.Fatalf("expected ErrInvalidDifficulty, got %v", err)
	}
}

func TestCreateProblemRejectsUnknownTopic(t *testing.T) {
	f := newFixture()
	svc := newProblemService(f)

	_, err := svc.Create(context.Background(), &domain.ProblemCreateRequest{
		Title:      "Two Sum",
		Difficulty: "EASY",
		TopicID:    uuid.New(),
	})
	if err != domain.ErrTopicNotFound {
		t.Fatalf("expected ErrTopicNotFound, got %v", err)
	}
}

func TestCreateProblemNormalizesDifficultyAndJoinsTopic(t *testing.T) {
	f := newFixture()
	arrays := f.addTopic("Arrays", 1)
	svc := newProblemService(f)

	problem, err := svc.Create(context.Background(), &domain.ProblemCreateRequest{
		Title:      "Two Sum",
		Difficulty: "easy",
		Order:      1,
		TopicID:    arrays.ID,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if problem.Difficulty != domain.DifficultyEasy {
		t.Fatalf("expected normalized difficulty EASY, got %q", problem.Difficulty)
	}
	if problem.Topic == nil || problem.Topic.Title != "Arrays" {
		t.Fatalf("expected topic joined on response")
	}
}

func TestUpdateProblemChangesOnlyProvidedFields(t *testing.T) {
	f := newFixture()
	arrays := f.addTopic("Arrays", 1)
	problem := f.addProblem(arrays, "Two Sum", domain.DifficultyEasy, 1)
	svc := newProblemService(f)

	difficulty := "HARD"
	updated, err := svc.Update(context.Background(), problem.ID, &domain.ProblemUpdateRequest{
		Difficulty: &difficulty,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Difficulty != domain.DifficultyHard {
		t.Fatalf("expected difficulty HARD, got %q", updated.Difficulty)
	}
	if updated.Title != "Two Sum" {
		t.Fatalf("expected title unchanged, got %q", updated.Title)
	}
	if updated.Order != 1 {
		t.Fatalf("expected order unchanged, got %d", updated.Order)
	}
}

func TestUpdateProblemRejectsUnknownTopicMove(t *testing.T) {
	f := newFixture()
	arrays := f.addTopic("Arrays", 1)
	problem := f.addProblem(arrays, "Two Sum", domain.DifficultyEasy, 1)
	svc := newProblemService(f)

	bogus := uuid.New()
	_, err := svc.Update(context.Background(), problem.ID, &domain.ProblemUpdateRequest{
		TopicID: &bogus,
	})
	if err != domain.ErrTopicNotFound {
		t.Fatalf("expected ErrTopicNotFound, got %v", err)
	}
}

func TestDeleteProblemNotFound(t *testing.T) {
	f := newFixture()
	svc := newProblemService(f)

	if err := svc.Delete(context.Background(), uuid.New()); err != domain.ErrProblemNotFound {
		t.Fatalf("expected ErrProblemNotFound, got %v", err)
	}
}
